package api

import (
	stdhttp "net/http"

	intconfig "airline-dashboard/internal/config"
	h "airline-dashboard/internal/http/handlers"
	"airline-dashboard/internal/http/middleware"
	"airline-dashboard/internal/http/web"
	"airline-dashboard/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Deps are the long-lived objects the router hands to its handlers.
type Deps struct {
	Handler  *h.Handler
	Logger   *zap.Logger
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
}

func NewRouter(env intconfig.Env, deps Deps) *gin.Engine {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(log, deps.Metrics), gin.Recovery(), middleware.CORS(env.AllowedOrigins))

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Warn("failed to set trusted proxies", zap.Error(err))
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	static := stdhttp.FS(web.Static())
	r.GET("/", func(c *gin.Context) { c.FileFromFS("/", static) })
	r.StaticFS("/static", static)

	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	r.GET("/invoices/:filename", deps.Handler.ServeInvoiceFile)

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/routes", h.Routes(r))

		api.GET("/passengers", deps.Handler.GetPassengers)
		api.GET("/stats", deps.Handler.GetStats)
		api.GET("/invoices", deps.Handler.GetInvoices)
		api.GET("/summary", deps.Handler.GetSummary)

		api.POST("/download/:ticket", deps.Handler.DownloadInvoice)
		api.POST("/download-all", deps.Handler.DownloadAll)
		api.POST("/parse/:ticket", deps.Handler.ParseInvoice)
	}

	return r
}
