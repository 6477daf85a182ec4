package ports

import (
	"context"
	"io"

	"github.com/kirillkom/resume-classifier/internal/core/domain"
)

// ResumeClassifier is the inbound contract for synchronous classification.
type ResumeClassifier interface {
	ClassifyDocument(ctx context.Context, doc domain.UploadedDocument) (domain.Prediction, error)
	ClassifyText(ctx context.Context, text string) (domain.Prediction, error)
}

// ResumeIngestor is the inbound contract for asynchronous résumé upload.
type ResumeIngestor interface {
	Upload(ctx context.Context, filename, mimeType string, body io.Reader) (*domain.Resume, error)
}

// ResumeReader is the inbound read model for résumé state.
type ResumeReader interface {
	GetByID(ctx context.Context, id string) (*domain.Resume, error)
}

// ResumeProcessor runs the pipeline over a stored résumé.
type ResumeProcessor interface {
	ProcessByID(ctx context.Context, resumeID string) error
}
