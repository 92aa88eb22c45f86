package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Business Metrics
	BidsPlaced           prometheus.Counter
	BidsRejected         prometheus.Counter
	SettlementsCompleted prometheus.Counter
	SettlementsFailed    prometheus.Counter
}

func NewMetrics() *Metrics {
	return &Metrics{
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auctiongateway_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "auctiongateway_http_request_duration_seconds",
				Help:    "HTTP request latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "auctiongateway_http_requests_in_flight",
				Help: "Number of HTTP requests currently being served",
			},
		),
		BidsPlaced: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "auctiongateway_bids_placed_total",
				Help: "Bids accepted by the auction store",
			},
		),
		BidsRejected: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "auctiongateway_bids_rejected_total",
				Help: "Bids rejected locally or by the auction store",
			},
		),
		SettlementsCompleted: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "auctiongateway_settlements_completed_total",
				Help: "Auction settlements transferred successfully",
			},
		),
		SettlementsFailed: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "auctiongateway_settlements_failed_total",
				Help: "Auction settlement transfer attempts that failed",
			},
		),
	}
}
