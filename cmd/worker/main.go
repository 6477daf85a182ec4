package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kirillkom/resume-classifier/internal/bootstrap"
	"github.com/kirillkom/resume-classifier/internal/config"
	"github.com/kirillkom/resume-classifier/internal/core/ports"
	"github.com/kirillkom/resume-classifier/internal/observability/logging"
	"github.com/kirillkom/resume-classifier/internal/observability/metrics"
)

const serviceName = "resume-worker"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	slog.SetDefault(logging.NewJSONLogger(serviceName, cfg.LogLevel))

	if !cfg.AsyncEnabled() {
		slog.Error("worker_requires_async_ingestion", "hint", "set POSTGRES_DSN and NATS_URL")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	workerMetrics := metrics.NewWorkerMetrics(serviceName)
	app, err := bootstrap.New(ctx, cfg, bootstrap.Observers{
		Pipeline:   workerMetrics,
		Resilience: workerMetrics,
	})
	if err != nil {
		slog.Error("bootstrap_failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	metricsServer := startMetricsServer(cfg.WorkerMetricsPort, workerMetrics.Handler())
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}()

	slog.Info("worker_subscribed", "subject", cfg.NATSSubject)
	err = app.Queue.SubscribeResumeUploaded(ctx, newHandler(app.Repo, app.ProcessUC, workerMetrics))
	if err != nil {
		slog.Error("worker_subscribe_failed", "error", err)
		os.Exit(1)
	}
}

func newHandler(repo ports.ResumeReader, processor ports.ResumeProcessor, m *metrics.WorkerMetrics) func(context.Context, string) error {
	return func(ctx context.Context, resumeID string) error {
		if resume, err := repo.GetByID(ctx, resumeID); err == nil {
			m.ObserveQueueLag(time.Since(resume.CreatedAt))
		}

		m.StartResume()
		start := time.Now()
		err := processor.ProcessByID(ctx, resumeID)
		m.FinishResume(time.Since(start), err)

		if err != nil {
			return err
		}
		slog.Info("resume_processed", "resume_id", resumeID, "duration_ms", float64(time.Since(start).Microseconds())/1000.0)
		return nil
	}
}

func startMetricsServer(port string, handler http.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		slog.Info("worker_metrics_listening", "port", port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("worker_metrics_server_failed", "error", err)
		}
	}()
	return server
}
