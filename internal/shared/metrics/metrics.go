package metrics

import (
	"database/sql"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	GenerationAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resume_generation_attempts_total",
			Help: "Backend generation attempts by result",
		},
		[]string{"result"}, // result: ok|error
	)
	GenerationOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resume_generation_outcomes_total",
			Help: "Generation calls by content source",
		},
		[]string{"source"}, // source: model|fallback|mock
	)
	GenerationParseFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "resume_generation_parse_failures_total",
			Help: "Backend responses that could not be parsed into sections",
		},
	)
	GenerationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "resume_generation_duration_seconds",
			Help:    "Wall time of a generation call including retries",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 13), // 50ms..~200s
		},
	)
	CacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resume_section_cache_lookups_total",
			Help: "Section cache lookups by result",
		},
		[]string{"result"}, // result: hit|miss|error
	)
	RepoOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resume_repo_ops_total",
			Help: "Resume repository operations",
		},
		[]string{"store", "op"},
	)
	Errors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resume_errors_total",
			Help: "Errors encountered in components",
		},
		[]string{"component", "type"},
	)
)

func init() {
	prometheus.MustRegister(
		GenerationAttempts,
		GenerationOutcomes,
		GenerationParseFailures,
		GenerationDuration,
		CacheLookups,
		RepoOps,
		Errors,
	)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

// RegisterDBStats exports the pool statistics of db labeled with name.
// Registering the same name twice is not an error.
func RegisterDBStats(db *sql.DB, name string) error {
	err := prometheus.Register(collectors.NewDBStatsCollector(db, name))
	var already prometheus.AlreadyRegisteredError
	if errors.As(err, &already) {
		return nil
	}
	return err
}

// IncGenerationAttempt records one backend call.
func IncGenerationAttempt(ok bool) {
	if ok {
		GenerationAttempts.WithLabelValues("ok").Inc()
		return
	}
	GenerationAttempts.WithLabelValues("error").Inc()
}

// IncGenerationOutcome records which path produced the sections.
func IncGenerationOutcome(source string) {
	GenerationOutcomes.WithLabelValues(source).Inc()
}

func IncGenerationParseFailure() {
	GenerationParseFailures.Inc()
}

func ObserveGenerationDuration(d time.Duration) {
	if d < 0 {
		d = 0
	}
	GenerationDuration.Observe(d.Seconds())
}

func IncCacheLookup(result string) {
	CacheLookups.WithLabelValues(result).Inc()
}

func IncRepoOp(store, op string) {
	RepoOps.WithLabelValues(store, op).Inc()
}

func IncError(component, typ string) {
	Errors.WithLabelValues(component, typ).Inc()
}
