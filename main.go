package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	intconfig "airline-dashboard/internal/config"
	router "airline-dashboard/internal/http"
	"airline-dashboard/internal/http/handlers"
	"airline-dashboard/internal/metrics"
	"airline-dashboard/internal/repositories"
	"airline-dashboard/internal/services"
	"airline-dashboard/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

func main() {
	env, err := intconfig.LoadEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	log, err := utils.NewLogger(env.Environment, env.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(env, log); err != nil {
		log.Fatal("server stopped with error", zap.Error(err))
	}
}

func run(env intconfig.Env, log *zap.Logger) error {
	ctx := context.Background()

	src, closeSrc, err := env.OpenIdentitySource(ctx)
	if err != nil {
		return err
	}
	passengers, err := services.LoadPassengers(ctx, src)
	if cerr := closeSrc(); cerr != nil {
		log.Warn("closing identity source failed", zap.Error(cerr))
	}
	if err != nil {
		return err
	}
	log.Info("passengers loaded", zap.Int("count", len(passengers)), zap.String("source", env.IdentitySource))

	extractor, err := services.NewRandomExtractor(services.ExtractorConfig{
		Airline:   env.InvoiceAirline,
		AmountMin: env.AmountMin,
		AmountMax: env.AmountMax,
	}, nil)
	if err != nil {
		return err
	}

	promReg := prometheus.NewRegistry()
	promReg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewMetrics(promReg)

	files := repositories.DirFileStore{Dir: env.InvoiceDir}
	registry, err := services.NewRegistry(passengers, services.RegistryConfig{
		Files:              files,
		Extractor:          extractor,
		HighValueThreshold: env.HighValueThreshold,
		AllowReparse:       env.AllowReparse,
		Logger:             log,
		Metrics:            m,
	})
	if err != nil {
		return err
	}

	r := router.NewRouter(env, router.Deps{
		Handler:  handlers.New(registry, files, log),
		Logger:   log,
		Metrics:  m,
		Gatherer: promReg,
	})

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", env.AppAddr), zap.String("invoice_dir", env.InvoiceDir))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-quit:
	}

	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	log.Info("server stopped cleanly")
	return nil
}
