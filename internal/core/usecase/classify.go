package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/kirillkom/resume-classifier/internal/core/domain"
	"github.com/kirillkom/resume-classifier/internal/core/ports"
	"github.com/kirillkom/resume-classifier/internal/core/textclean"
)

type ClassifyResumeUseCase struct {
	extractor  ports.TextExtractor
	vectorizer ports.Vectorizer
	predictor  ports.Predictor
	observer   ports.PipelineObserver
}

func NewClassifyResumeUseCase(
	extractor ports.TextExtractor,
	vectorizer ports.Vectorizer,
	predictor ports.Predictor,
	observer ports.PipelineObserver,
) *ClassifyResumeUseCase {
	if observer == nil {
		observer = noopObserver{}
	}
	return &ClassifyResumeUseCase{
		extractor:  extractor,
		vectorizer: vectorizer,
		predictor:  predictor,
		observer:   observer,
	}
}

// ClassifyDocument runs extract -> empty check -> normalize -> classify.
func (uc *ClassifyResumeUseCase) ClassifyDocument(ctx context.Context, doc domain.UploadedDocument) (domain.Prediction, error) {
	start := time.Now()

	text, err := uc.extractText(ctx, doc)
	if err != nil {
		return uc.fail(doc.Filename, start, err)
	}
	prediction, err := uc.classifyExtracted(ctx, text)
	if err != nil {
		return uc.fail(doc.Filename, start, err)
	}
	return uc.succeed(doc.Filename, start, prediction), nil
}

// ClassifyText runs the same pipeline over already extracted text.
func (uc *ClassifyResumeUseCase) ClassifyText(ctx context.Context, text string) (domain.Prediction, error) {
	start := time.Now()

	if text == "" {
		return uc.fail("", start, domain.WrapError(domain.ErrEmptyText, "classify text", errors.New("no text supplied")))
	}
	prediction, err := uc.classifyExtracted(ctx, text)
	if err != nil {
		return uc.fail("", start, err)
	}
	return uc.succeed("", start, prediction), nil
}

func (uc *ClassifyResumeUseCase) extractText(ctx context.Context, doc domain.UploadedDocument) (string, error) {
	text, err := uc.extractor.Extract(ctx, doc)
	if err != nil {
		if domain.IsKind(err, domain.ErrExtraction) {
			return "", err
		}
		return "", domain.WrapError(domain.ErrExtraction, "extract text", err)
	}
	if text == "" {
		return "", domain.WrapError(domain.ErrEmptyText, "extract text", fmt.Errorf("no text in %q", doc.Filename))
	}
	return text, nil
}

func (uc *ClassifyResumeUseCase) classifyExtracted(ctx context.Context, text string) (domain.Prediction, error) {
	if err := ctx.Err(); err != nil {
		return domain.Prediction{}, err
	}
	cleaned := textclean.Normalize(text)
	id, err := uc.predict(cleaned)
	if err != nil {
		return domain.Prediction{}, err
	}
	return domain.NewPrediction(id), nil
}

// predict converts any vectorizer or classifier failure, panics included,
// into ErrClassification.
func (uc *ClassifyResumeUseCase) predict(cleaned string) (id int, err error) {
	defer func() {
		if r := recover(); r != nil {
			id = 0
			err = domain.WrapError(domain.ErrClassification, "predict category", fmt.Errorf("panic: %v", r))
		}
	}()

	features, err := uc.vectorizer.Transform(cleaned)
	if err != nil {
		return 0, domain.WrapError(domain.ErrClassification, "vectorize text", err)
	}
	id, err = uc.predictor.Predict(features)
	if err != nil {
		return 0, domain.WrapError(domain.ErrClassification, "predict category", err)
	}
	return id, nil
}

func (uc *ClassifyResumeUseCase) succeed(filename string, start time.Time, prediction domain.Prediction) domain.Prediction {
	duration := time.Since(start)
	uc.observer.ObservePrediction(prediction, duration)
	if !prediction.Known {
		slog.Warn("unknown_category_id", "filename", filename, "category_id", prediction.CategoryID)
	}
	slog.Info("resume_classified",
		"filename", filename,
		"category_id", prediction.CategoryID,
		"category", prediction.Category,
		"duration_ms", float64(duration.Microseconds())/1000.0,
	)
	return prediction
}

func (uc *ClassifyResumeUseCase) fail(filename string, start time.Time, err error) (domain.Prediction, error) {
	kind := domain.FailureKind(err)
	uc.observer.ObserveFailure(kind, time.Since(start))
	slog.Warn("resume_classification_failed", "filename", filename, "kind", kind, "error", err)
	return domain.Prediction{}, err
}

type noopObserver struct{}

func (noopObserver) ObservePrediction(domain.Prediction, time.Duration) {}
func (noopObserver) ObserveFailure(string, time.Duration)              {}
