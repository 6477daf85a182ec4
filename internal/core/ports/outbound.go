package ports

import (
	"context"
	"io"
	"time"

	"github.com/kirillkom/resume-classifier/internal/core/domain"
)

// TextExtractor extracts plain text from an uploaded document.
type TextExtractor interface {
	Extract(ctx context.Context, doc domain.UploadedDocument) (string, error)
}

// Vectorizer is the frozen term-weighting transform.
type Vectorizer interface {
	Transform(text string) (domain.FeatureVector, error)
}

// Predictor is the frozen classifier.
type Predictor interface {
	Predict(features domain.FeatureVector) (int, error)
}

// PipelineObserver receives classification outcomes.
type PipelineObserver interface {
	ObservePrediction(prediction domain.Prediction, duration time.Duration)
	ObserveFailure(kind string, duration time.Duration)
}

// ResumeRepository persists and reads résumé state.
type ResumeRepository interface {
	Create(ctx context.Context, resume *domain.Resume) error
	GetByID(ctx context.Context, id string) (*domain.Resume, error)
	UpdateStatus(ctx context.Context, id string, status domain.ResumeStatus, errMessage string) error
	SavePrediction(ctx context.Context, id string, prediction domain.Prediction) error
}

// ObjectStorage stores source documents.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// MessageQueue publishes/consumes ingestion events.
type MessageQueue interface {
	PublishResumeUploaded(ctx context.Context, resumeID string) error
	SubscribeResumeUploaded(ctx context.Context, handler func(context.Context, string) error) error
}
