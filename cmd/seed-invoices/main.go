// Command seed-invoices renders sample invoice PDFs into the invoice directory
// so the dashboard's download flow has files to find.
package main

import (
	"context"
	"fmt"
	"os"

	intconfig "airline-dashboard/internal/config"
	"airline-dashboard/internal/repositories"
	"airline-dashboard/internal/services"
	"airline-dashboard/internal/utils"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

func main() {
	env, err := intconfig.LoadEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	dir := pflag.StringP("dir", "d", env.InvoiceDir, "directory to write <ticket>.pdf files into")
	every := pflag.IntP("every", "n", 1, "seed only every n-th passenger")
	overwrite := pflag.Bool("overwrite", false, "replace existing invoice files")
	airline := pflag.String("airline", env.InvoiceAirline, "airline name printed on the invoices")
	pflag.Parse()

	log, err := utils.NewLogger(env.Environment, env.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx := context.Background()
	src, closeSrc, err := env.OpenIdentitySource(ctx)
	if err != nil {
		log.Fatal("open identity source", zap.Error(err))
	}
	passengers, err := services.LoadPassengers(ctx, src)
	if cerr := closeSrc(); cerr != nil {
		log.Warn("closing identity source failed", zap.Error(cerr))
	}
	if err != nil {
		log.Fatal("load passengers", zap.Error(err))
	}

	docs := services.DocsService{Airline: *airline, Logger: log}
	res, err := docs.SeedInvoices(ctx, passengers, repositories.DirFileStore{Dir: *dir}, *every, *overwrite)
	if err != nil {
		log.Fatal("seed invoices", zap.Error(err))
	}
	log.Info("seeding finished",
		zap.String("dir", *dir),
		zap.Int("written", res.Written),
		zap.Int("skipped", res.Skipped),
		zap.Int("rejected", res.Rejected))
}
