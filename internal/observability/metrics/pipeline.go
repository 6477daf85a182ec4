package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kirillkom/resume-classifier/internal/core/domain"
)

const namespace = "resume_classifier"

// pipelineCollectors backs the classification and resilience series shared by
// the api and the worker registries.
type pipelineCollectors struct {
	service string

	predictionsTotal *prometheus.CounterVec
	failuresTotal    *prometheus.CounterVec
	duration         *prometheus.HistogramVec
	retriesTotal     *prometheus.CounterVec
	breakerChanges   *prometheus.CounterVec
}

func newPipelineCollectors(registry *prometheus.Registry, service string) pipelineCollectors {
	predictionsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "predictions_total",
			Help:      "Total successful classifications by category.",
		},
		[]string{"service", "category_id", "category"},
	)
	failuresTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "failures_total",
			Help:      "Total failed classifications by failure kind.",
		},
		[]string{"service", "kind"},
	)
	duration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pipeline_duration_seconds",
			Help:      "Extract, normalize and classify duration in seconds by outcome.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"service", "outcome"},
	)
	retriesTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "resilience",
			Name:      "retries_total",
			Help:      "Total retried calls to external dependencies.",
		},
		[]string{"service", "operation"},
	)
	breakerChanges := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "resilience",
			Name:      "breaker_transitions_total",
			Help:      "Circuit breaker state transitions by target state.",
		},
		[]string{"service", "operation", "state"},
	)

	registry.MustRegister(predictionsTotal, failuresTotal, duration, retriesTotal, breakerChanges)

	return pipelineCollectors{
		service:          service,
		predictionsTotal: predictionsTotal,
		failuresTotal:    failuresTotal,
		duration:         duration,
		retriesTotal:     retriesTotal,
		breakerChanges:   breakerChanges,
	}
}

func (c pipelineCollectors) ObservePrediction(prediction domain.Prediction, d time.Duration) {
	// Ids outside the label table share one series.
	categoryID, category := "unknown", domain.UnknownCategory
	if prediction.Known {
		categoryID, category = strconv.Itoa(prediction.CategoryID), prediction.Category
	}
	c.predictionsTotal.WithLabelValues(c.service, categoryID, category).Inc()
	c.duration.WithLabelValues(c.service, "success").Observe(d.Seconds())
}

func (c pipelineCollectors) ObserveFailure(kind string, d time.Duration) {
	if kind == "" {
		kind = "unclassified"
	}
	c.failuresTotal.WithLabelValues(c.service, kind).Inc()
	c.duration.WithLabelValues(c.service, "failure").Observe(d.Seconds())
}

func (c pipelineCollectors) ObserveRetry(operation string) {
	c.retriesTotal.WithLabelValues(c.service, operation).Inc()
}

func (c pipelineCollectors) ObserveBreakerState(operation, state string) {
	c.breakerChanges.WithLabelValues(c.service, operation, state).Inc()
}
