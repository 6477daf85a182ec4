package usecase

import (
	"context"
	"fmt"
	"io"

	"github.com/kirillkom/resume-classifier/internal/core/domain"
	"github.com/kirillkom/resume-classifier/internal/core/ports"
)

type ProcessResumeUseCase struct {
	repo       ports.ResumeRepository
	storage    ports.ObjectStorage
	classifier ports.ResumeClassifier
	maxBytes   int64
}

func NewProcessResumeUseCase(
	repo ports.ResumeRepository,
	storage ports.ObjectStorage,
	classifier ports.ResumeClassifier,
	maxBytes int64,
) *ProcessResumeUseCase {
	return &ProcessResumeUseCase{
		repo:       repo,
		storage:    storage,
		classifier: classifier,
		maxBytes:   maxBytes,
	}
}

func (uc *ProcessResumeUseCase) ProcessByID(ctx context.Context, resumeID string) error {
	if err := uc.markStatus(ctx, resumeID, domain.StatusProcessing, ""); err != nil {
		return fmt.Errorf("set status=processing: %w", err)
	}

	prediction, err := uc.processPipeline(ctx, resumeID)
	if err != nil {
		if failErr := uc.markFailed(ctx, resumeID, err); failErr != nil {
			return fmt.Errorf("%w; mark failed status: %v", err, failErr)
		}
		return err
	}

	if err := uc.persistPrediction(ctx, resumeID, prediction); err != nil {
		if failErr := uc.markFailed(ctx, resumeID, err); failErr != nil {
			return fmt.Errorf("%w; mark failed status: %v", err, failErr)
		}
		return err
	}

	if err := uc.markStatus(ctx, resumeID, domain.StatusReady, ""); err != nil {
		return fmt.Errorf("set status=ready: %w", err)
	}
	return nil
}

func (uc *ProcessResumeUseCase) processPipeline(ctx context.Context, resumeID string) (domain.Prediction, error) {
	resume, err := uc.repo.GetByID(ctx, resumeID)
	if err != nil {
		return domain.Prediction{}, fmt.Errorf("fetch resume by id: %w", err)
	}

	content, err := uc.readContent(ctx, resume.StoragePath)
	if err != nil {
		return domain.Prediction{}, err
	}

	prediction, err := uc.classifier.ClassifyDocument(ctx, domain.UploadedDocument{
		Filename: resume.Filename,
		Content:  content,
	})
	if err != nil {
		return domain.Prediction{}, fmt.Errorf("classify resume: %w", err)
	}
	return prediction, nil
}

func (uc *ProcessResumeUseCase) readContent(ctx context.Context, key string) ([]byte, error) {
	reader, err := uc.storage.Open(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("open stored resume: %w", err)
	}
	defer reader.Close()

	return readLimited(reader, uc.maxBytes)
}

func (uc *ProcessResumeUseCase) persistPrediction(ctx context.Context, resumeID string, prediction domain.Prediction) error {
	if err := uc.repo.SavePrediction(ctx, resumeID, prediction); err != nil {
		return fmt.Errorf("save prediction: %w", err)
	}
	return nil
}

func (uc *ProcessResumeUseCase) markStatus(ctx context.Context, resumeID string, status domain.ResumeStatus, errMessage string) error {
	return uc.repo.UpdateStatus(ctx, resumeID, status, errMessage)
}

func (uc *ProcessResumeUseCase) markFailed(ctx context.Context, resumeID string, processErr error) error {
	if processErr == nil {
		return nil
	}
	return uc.markStatus(ctx, resumeID, domain.StatusFailed, domain.FailureMessage(processErr))
}

// readLimited reads at most limit bytes and reports larger inputs as invalid.
// A non-positive limit disables the bound.
func readLimited(r io.Reader, limit int64) ([]byte, error) {
	if limit <= 0 {
		raw, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("read resume: %w", err)
		}
		return raw, nil
	}

	raw, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read resume: %w", err)
	}
	if int64(len(raw)) > limit {
		return nil, domain.WrapError(domain.ErrInvalidInput, "read resume", fmt.Errorf("document exceeds %d bytes", limit))
	}
	return raw, nil
}
