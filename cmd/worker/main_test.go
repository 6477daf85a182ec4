package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/kirillkom/resume-classifier/internal/core/domain"
	"github.com/kirillkom/resume-classifier/internal/observability/metrics"
)

type readerFake struct {
	resume *domain.Resume
	err    error
}

func (f readerFake) GetByID(context.Context, string) (*domain.Resume, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.resume, nil
}

type processorFake struct {
	err error
	ids []string
}

func (f *processorFake) ProcessByID(_ context.Context, id string) error {
	f.ids = append(f.ids, id)
	return f.err
}

func TestHandlerProcessesResume(t *testing.T) {
	processor := &processorFake{}
	m := metrics.NewWorkerMetrics("worker-test")
	handler := newHandler(readerFake{resume: &domain.Resume{ID: "res-1", CreatedAt: time.Now().Add(-time.Second)}}, processor, m)

	if err := handler(context.Background(), "res-1"); err != nil {
		t.Fatalf("handler error = %v", err)
	}
	if len(processor.ids) != 1 || processor.ids[0] != "res-1" {
		t.Fatalf("unexpected processed ids %v", processor.ids)
	}
	body := scrape(t, m)
	if !strings.Contains(body, `resume_classifier_worker_resume_process_total{service="worker-test",status="success"} 1`) {
		t.Fatalf("expected success counter in exposition:\n%s", body)
	}
	if !strings.Contains(body, "resume_classifier_worker_queue_lag_seconds_count") {
		t.Fatalf("expected queue lag observation")
	}
}

func scrape(t *testing.T, m *metrics.WorkerMetrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	return rec.Body.String()
}

func TestHandlerPropagatesProcessingError(t *testing.T) {
	processor := &processorFake{err: errors.New("boom")}
	m := metrics.NewWorkerMetrics("worker-test")
	handler := newHandler(readerFake{err: domain.ErrResumeNotFound}, processor, m)

	if err := handler(context.Background(), "res-1"); err == nil {
		t.Fatalf("expected processing error")
	}
	if len(processor.ids) != 1 {
		t.Fatalf("processing must run even when lag lookup fails")
	}
	if body := scrape(t, m); !strings.Contains(body, `status="error"} 1`) {
		t.Fatalf("expected error counter in exposition:\n%s", body)
	}
}
