package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/kirillkom/resume-classifier/internal/core/domain"
)

func TestHTTPMiddlewareRecordsNormalizedPath(t *testing.T) {
	m := NewHTTPServerMetrics("api")
	handler := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	for _, id := range []string{"a", "b"} {
		req := httptest.NewRequest(http.MethodGet, "/v1/resumes/"+id, nil)
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}

	got := testutil.ToFloat64(m.requestTotal.WithLabelValues("api", http.MethodGet, "/v1/resumes/{resume_id}", "404"))
	if got != 2 {
		t.Fatalf("expected 2 requests on normalized path, got %v", got)
	}
}

func TestPipelineObservations(t *testing.T) {
	m := NewHTTPServerMetrics("api")
	m.ObservePrediction(domain.NewPrediction(20), 5*time.Millisecond)
	m.ObservePrediction(domain.NewPrediction(20), 5*time.Millisecond)
	m.ObserveFailure("empty_text", time.Millisecond)
	m.ObserveFailure("", time.Millisecond)

	if got := testutil.ToFloat64(m.predictionsTotal.WithLabelValues("api", "20", "Python Developer")); got != 2 {
		t.Fatalf("expected 2 predictions, got %v", got)
	}
	if got := testutil.ToFloat64(m.failuresTotal.WithLabelValues("api", "empty_text")); got != 1 {
		t.Fatalf("expected 1 empty_text failure, got %v", got)
	}
	if got := testutil.ToFloat64(m.failuresTotal.WithLabelValues("api", "unclassified")); got != 1 {
		t.Fatalf("expected blank kind to count as unclassified, got %v", got)
	}
}

func TestUnknownCategoriesShareOneSeries(t *testing.T) {
	m := NewHTTPServerMetrics("api")
	for _, id := range []int{999, -3, 4242} {
		m.ObservePrediction(domain.NewPrediction(id), time.Millisecond)
	}

	if got := testutil.CollectAndCount(m.predictionsTotal); got != 1 {
		t.Fatalf("expected a single series for unknown ids, got %d", got)
	}
	if got := testutil.ToFloat64(m.predictionsTotal.WithLabelValues("api", "unknown", "Unknown")); got != 3 {
		t.Fatalf("expected 3 unknown predictions, got %v", got)
	}
}

func TestHandlerExposesNamespace(t *testing.T) {
	m := NewHTTPServerMetrics("api")
	m.RecordRejected("rate_limited")
	m.ObserveRetry("nats.publish")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	for _, want := range []string{
		"resume_classifier_http_rejected_total",
		"resume_classifier_resilience_retries_total",
	} {
		if !strings.Contains(string(body), want) {
			t.Fatalf("expected %s in exposition", want)
		}
	}
}

func TestWorkerMetricsLifecycle(t *testing.T) {
	m := NewWorkerMetrics("worker")
	m.StartResume()
	if got := testutil.ToFloat64(m.processInFlight); got != 1 {
		t.Fatalf("expected in-flight 1, got %v", got)
	}
	m.FinishResume(time.Second, errors.New("boom"))
	m.ObserveQueueLag(-time.Second)

	if got := testutil.ToFloat64(m.processInFlight); got != 0 {
		t.Fatalf("expected in-flight 0, got %v", got)
	}
	if got := testutil.ToFloat64(m.processTotal.WithLabelValues("worker", "error")); got != 1 {
		t.Fatalf("expected 1 error, got %v", got)
	}
	if got := testutil.CollectAndCount(m.queueLag); got != 0 {
		t.Fatalf("negative lag must be ignored, got %d series", got)
	}
}
