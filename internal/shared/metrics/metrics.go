// Package metrics holds the process counters exposed at /metrics.
package metrics

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is private so tests and multiple routers never collide with the default one.
var Registry = prometheus.NewRegistry()

var (
	ingestTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "profile_ingest_total",
		Help: "Profile ingestion attempts",
	}, []string{"source", "outcome"})

	tailorTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "resume_tailor_total",
		Help: "Resume tailoring attempts",
	}, []string{"outcome"})

	publicAccessTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "public_resume_access_total",
		Help: "Public resume lookups by visibility",
	}, []string{"visibility"})

	scoutTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "scout_search_total",
		Help: "Scout searches",
	}, []string{"type", "outcome"})

	llmDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "llm_call_duration_seconds",
		Help:    "Language model call duration",
		Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 30, 60},
	})
)

func init() {
	Registry.MustRegister(ingestTotal, tailorTotal, publicAccessTotal, scoutTotal, llmDuration)
}

// IncIngest counts a profile ingestion attempt by source (linkedin, text, pdf, manual) and outcome.
func IncIngest(source, outcome string) {
	ingestTotal.WithLabelValues(source, outcome).Inc()
}

// IncTailor counts a tailoring attempt by outcome.
func IncTailor(outcome string) {
	tailorTotal.WithLabelValues(outcome).Inc()
}

// IncPublicAccess counts a public resume lookup by resolved visibility.
func IncPublicAccess(visibility string) {
	publicAccessTotal.WithLabelValues(visibility).Inc()
}

// IncScout counts a scout search by kind (jobs, people) and outcome.
func IncScout(kind, outcome string) {
	scoutTotal.WithLabelValues(kind, outcome).Inc()
}

// ObserveLLMDuration records a model call duration. Negative durations count as zero.
func ObserveLLMDuration(d time.Duration) {
	if d < 0 {
		d = 0
	}
	llmDuration.Observe(d.Seconds())
}

// Handler serves Registry in the Prometheus text format.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(Registry, promhttp.HandlerOpts{}))
}
