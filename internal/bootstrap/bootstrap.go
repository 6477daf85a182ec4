package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kirillkom/resume-classifier/internal/config"
	"github.com/kirillkom/resume-classifier/internal/core/ports"
	"github.com/kirillkom/resume-classifier/internal/core/usecase"
	"github.com/kirillkom/resume-classifier/internal/infrastructure/extractor"
	"github.com/kirillkom/resume-classifier/internal/infrastructure/model"
	"github.com/kirillkom/resume-classifier/internal/infrastructure/queue/nats"
	"github.com/kirillkom/resume-classifier/internal/infrastructure/repository/postgres"
	"github.com/kirillkom/resume-classifier/internal/infrastructure/resilience"
	"github.com/kirillkom/resume-classifier/internal/infrastructure/storage/localfs"
)

// Observers routes pipeline and resilience events to the caller's metrics.
// Either field may be nil.
type Observers struct {
	Pipeline   ports.PipelineObserver
	Resilience resilience.Observer
}

type App struct {
	Config config.Config

	Classifier *usecase.ClassifyResumeUseCase

	// Populated only when asynchronous ingestion is configured.
	Queue     ports.MessageQueue
	Repo      ports.ResumeRepository
	IngestUC  ports.ResumeIngestor
	ProcessUC ports.ResumeProcessor

	closeFn func()
}

// NewClassifier loads the fitted artifacts and wires the synchronous pipeline.
func NewClassifier(cfg config.Config, observer ports.PipelineObserver) (*usecase.ClassifyResumeUseCase, error) {
	artifacts, err := model.Load(cfg.VectorizerPath, cfg.ClassifierPath)
	if err != nil {
		return nil, fmt.Errorf("load model artifacts: %w", err)
	}
	slog.Info("model_artifacts_loaded",
		"vectorizer_path", cfg.VectorizerPath,
		"classifier_path", cfg.ClassifierPath,
		"features", artifacts.Vectorizer.Dim(),
	)
	return usecase.NewClassifyResumeUseCase(extractor.New(), artifacts.Vectorizer, artifacts.Classifier, observer), nil
}

func New(ctx context.Context, cfg config.Config, observers Observers) (*App, error) {
	classifier, err := NewClassifier(cfg, observers.Pipeline)
	if err != nil {
		return nil, err
	}
	app := &App{
		Config:     cfg,
		Classifier: classifier,
	}
	if !cfg.AsyncEnabled() {
		slog.Info("async_ingestion_disabled", "reason", "POSTGRES_DSN and NATS_URL must both be set")
		return app, nil
	}

	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	repo := postgres.NewResumeRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	resilienceCfg := resilience.DefaultConfig()
	resilienceCfg.RetryMaxAttempts = cfg.ResilienceRetryMaxAttempts
	resilienceCfg.BreakerEnabled = cfg.ResilienceBreakerEnabled
	executor := resilience.NewExecutor(resilienceCfg).WithObserver(observers.Resilience)

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: executor,
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	app.Queue = queue
	app.Repo = repo
	app.IngestUC = usecase.NewIngestResumeUseCase(repo, storage, queue)
	app.ProcessUC = usecase.NewProcessResumeUseCase(repo, storage, classifier, cfg.MaxUploadBytes)
	app.closeFn = func() {
		queue.Close()
		_ = db.Close()
	}
	return app, nil
}

func (a *App) AsyncEnabled() bool {
	return a.IngestUC != nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
