// Package metrics exposes Prometheus instrumentation for the EDGAR
// client. Counters are registered on the default registry so embedding
// applications can scrape them alongside their own.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Transport metrics
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filinghawk_edgar_requests_total",
			Help: "Total number of HTTP requests issued against the archive",
		},
		[]string{"outcome"},
	)

	RetriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "filinghawk_edgar_retries_total",
			Help: "Total number of retried request attempts",
		},
	)

	ResponseBytesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "filinghawk_edgar_response_bytes_total",
			Help: "Total bytes of response body received",
		},
	)

	// Rate governor metrics
	GovernorWaitSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "filinghawk_edgar_governor_wait_seconds",
			Help:    "Time spent waiting for a rate token before each request",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Decode metrics
	DecodeWarningsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filinghawk_edgar_decode_warnings_total",
			Help: "Total number of skipped records during decoding",
		},
		[]string{"format"},
	)

	// Range fetch metrics
	RangeFetchFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "filinghawk_edgar_range_fetch_failures_total",
			Help: "Total number of failed sub-fetches in index range operations",
		},
	)
)
