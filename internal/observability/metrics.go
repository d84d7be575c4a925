package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// upstreamReqs counts outbound calls by upstream (airtable, llm), operation and outcome.
	upstreamReqs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_requests_total",
			Help: "Total number of calls made to upstream services.",
		},
		[]string{"upstream", "op", "outcome"},
	)

	upstreamLat = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "upstream_request_duration_seconds",
			Help: "Duration of upstream calls in seconds.",
			// LLM calls routinely take tens of seconds.
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 20, 40, 60},
		},
		[]string{"upstream", "op"},
	)
)

func init() {
	prometheus.MustRegister(upstreamReqs, upstreamLat)
}

// ObserveUpstream records one upstream call that started at start.
func ObserveUpstream(upstream, op string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	upstreamReqs.WithLabelValues(upstream, op, outcome).Inc()
	upstreamLat.WithLabelValues(upstream, op).Observe(time.Since(start).Seconds())
}
