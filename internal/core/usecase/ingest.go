package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kirillkom/resume-classifier/internal/core/domain"
	"github.com/kirillkom/resume-classifier/internal/core/ports"
)

type IngestResumeUseCase struct {
	repo    ports.ResumeRepository
	storage ports.ObjectStorage
	queue   ports.MessageQueue
}

func NewIngestResumeUseCase(
	repo ports.ResumeRepository,
	storage ports.ObjectStorage,
	queue ports.MessageQueue,
) *IngestResumeUseCase {
	return &IngestResumeUseCase{
		repo:    repo,
		storage: storage,
		queue:   queue,
	}
}

// Upload stores the raw bytes, records the résumé and hands it to the worker.
func (uc *IngestResumeUseCase) Upload(
	ctx context.Context,
	filename, mimeType string,
	body io.Reader,
) (*domain.Resume, error) {
	if strings.TrimSpace(filename) == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "upload resume", errors.New("filename is required"))
	}

	id := uuid.NewString()
	storageKey := fmt.Sprintf("%s_%s", id, sanitizeFilename(filename))
	now := time.Now().UTC()

	if err := uc.storage.Save(ctx, storageKey, body); err != nil {
		return nil, fmt.Errorf("save to object storage: %w", err)
	}

	resume := &domain.Resume{
		ID:          id,
		Filename:    filename,
		MimeType:    mimeType,
		StoragePath: storageKey,
		Status:      domain.StatusUploaded,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := uc.repo.Create(ctx, resume); err != nil {
		return nil, fmt.Errorf("create resume metadata: %w", err)
	}

	if err := uc.queue.PublishResumeUploaded(ctx, resume.ID); err != nil {
		publishErr := fmt.Errorf("publish upload event: %w", err)
		// The row would otherwise stay uploaded with no worker ever picking it up.
		if statusErr := uc.repo.UpdateStatus(context.WithoutCancel(ctx), resume.ID, domain.StatusFailed, domain.FailureMessage(publishErr)); statusErr != nil {
			return nil, fmt.Errorf("%w; mark failed status: %v", publishErr, statusErr)
		}
		return nil, publishErr
	}

	return resume, nil
}

// sanitizeFilename keeps the extension intact so the worker picks the same
// extractor as the synchronous path.
func sanitizeFilename(name string) string {
	base := filepath.Base(name)
	if base == "." || base == string(filepath.Separator) {
		return "resume.txt"
	}
	base = strings.ReplaceAll(base, " ", "_")
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= 'A' && r <= 'Z':
			return r
		case r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	return base
}
