package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "airline_dashboard"

// Metrics holds the dashboard's prometheus collectors.
type Metrics struct {
	Downloads       *prometheus.CounterVec
	Parses          *prometheus.CounterVec
	Invoices        prometheus.Gauge
	RequestDuration *prometheus.HistogramVec
}

// NewMetrics registers every collector on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Downloads: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "downloads_total",
			Help:      "Invoice download attempts by result",
		}, []string{"result"}),
		Parses: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "parses_total",
			Help:      "Invoice parse attempts by result",
		}, []string{"result"}),
		Invoices: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "invoices",
			Help:      "Invoices currently held in the registry",
		}),
		RequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
}

// ObserveDownload is nil-safe so callers can run without metrics.
func (m *Metrics) ObserveDownload(result string) {
	if m == nil {
		return
	}
	m.Downloads.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveParse(result string) {
	if m == nil {
		return
	}
	m.Parses.WithLabelValues(result).Inc()
}

func (m *Metrics) SetInvoices(n int) {
	if m == nil {
		return
	}
	m.Invoices.Set(float64(n))
}
