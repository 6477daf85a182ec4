package httpadapter

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/kirillkom/resume-classifier/internal/config"
	"github.com/kirillkom/resume-classifier/internal/core/domain"
)

type classifierFake struct {
	prediction domain.Prediction
	err        error
	gotDoc     domain.UploadedDocument
	gotText    string
}

func (f *classifierFake) ClassifyDocument(_ context.Context, doc domain.UploadedDocument) (domain.Prediction, error) {
	f.gotDoc = doc
	if f.err != nil {
		return domain.Prediction{}, f.err
	}
	return f.prediction, nil
}

func (f *classifierFake) ClassifyText(_ context.Context, text string) (domain.Prediction, error) {
	f.gotText = text
	if f.err != nil {
		return domain.Prediction{}, f.err
	}
	return f.prediction, nil
}

type ingestorFake struct {
	err      error
	gotBody  string
	gotMime  string
	gotCalls int
}

func (f *ingestorFake) Upload(_ context.Context, filename, mimeType string, body io.Reader) (*domain.Resume, error) {
	f.gotCalls++
	if f.err != nil {
		return nil, f.err
	}
	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	f.gotBody = string(raw)
	f.gotMime = mimeType

	now := time.Now().UTC()
	return &domain.Resume{
		ID:          "res-1",
		Filename:    filename,
		MimeType:    mimeType,
		StoragePath: "res-1_" + filename,
		Status:      domain.StatusUploaded,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

type readerFake struct {
	err error
}

func (f readerFake) GetByID(_ context.Context, id string) (*domain.Resume, error) {
	if f.err != nil {
		return nil, f.err
	}
	categoryID := 6
	return &domain.Resume{
		ID:         id,
		Filename:   "cv.pdf",
		MimeType:   "application/pdf",
		CategoryID: &categoryID,
		Category:   "Data Science",
		Status:     domain.StatusReady,
	}, nil
}

func testConfig() config.Config {
	cfg := config.Default()
	cfg.APIQueueWaitMS = 0
	return cfg
}

func newTestHandler(cfg config.Config) http.Handler {
	return NewRouter(cfg, &classifierFake{prediction: domain.NewPrediction(20)}, &ingestorFake{}, readerFake{}).Handler()
}

var errBadXref = errors.New("bad xref")
