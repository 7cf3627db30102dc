package observability

import (
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "reports", Name: "http_requests_total", Help: "Inbound HTTP requests."},
		[]string{"route", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "reports", Name: "http_request_duration_seconds",
			Help:    "Inbound HTTP request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	ExternalRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "reports", Name: "external_requests_total", Help: "Outbound page fetches."},
		[]string{"page", "status"},
	)
	ExternalLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "reports", Name: "external_request_duration_seconds",
			Help:    "Outbound page fetch duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"page"},
	)
	CacheEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "reports", Name: "page_cache_events_total", Help: "Per-run page cache hits/misses."},
		[]string{"event"}, // event: hit|miss
	)
	ScrapeRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "reports", Name: "scrape_runs_total", Help: "Aggregation runs by result."},
		[]string{"result"}, // result: ok|error
	)
	ScrapeDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "reports", Name: "scrape_duration_seconds",
			Help:    "Wall time of one full aggregation run.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		},
	)
	DatasetRecords = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{Namespace: "reports", Name: "dataset_records", Help: "Record counts in the served snapshot."},
		[]string{"kind"}, // kind: reviews|fields|specializations|categories
	)
)

// Serve starts a standalone metrics listener when METRICS_ADDR is set.
func Serve() {
	addr := os.Getenv("METRICS_ADDR")
	if addr == "" {
		return // disabled
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	go func() {
		srv := &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		log.Info().Str("addr", addr).Msg("metrics server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("metrics server failed")
		}
	}()
}

func InitRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		HTTPRequests, HTTPLatency,
		ExternalRequests, ExternalLatency,
		CacheEvents, ScrapeRuns, ScrapeDuration, DatasetRecords,
	)
	return reg
}

func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

func ObserveHTTP(route, method string, status int, dur time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPLatency.WithLabelValues(route, method).Observe(dur.Seconds())
}

// ObserveExternal records one outbound fetch; page is the site's page query
// parameter (student_report_list, student_report_country, student_report).
func ObserveExternal(page string, status int, dur time.Duration) {
	ExternalRequests.WithLabelValues(page, strconv.Itoa(status)).Inc()
	ExternalLatency.WithLabelValues(page).Observe(dur.Seconds())
}

func ObserveCache(event string) { // event: hit|miss
	CacheEvents.WithLabelValues(event).Inc()
}

func ObserveScrape(err error, dur time.Duration) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	ScrapeRuns.WithLabelValues(result).Inc()
	ScrapeDuration.Observe(dur.Seconds())
}

func SetDatasetRecords(kind string, n int) {
	DatasetRecords.WithLabelValues(kind).Set(float64(n))
}
