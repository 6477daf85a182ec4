package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/kirillkom/resume-classifier/internal/core/domain"
)

func newRepoWithMock(t *testing.T) (*ResumeRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	return &ResumeRepository{db: db}, mock, func() { _ = db.Close() }
}

func TestGetByIDReturnsDomainNotFound(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	mock.ExpectQuery("SELECT id, filename, mime_type, storage_path").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrResumeNotFound) {
		t.Fatalf("expected ErrResumeNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestGetByIDScansNullablePrediction(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	columns := []string{"id", "filename", "mime_type", "storage_path", "category_id", "category", "status", "error_message", "created_at", "updated_at"}
	mock.ExpectQuery("SELECT id, filename, mime_type, storage_path").
		WithArgs("pending").
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("pending", "cv.pdf", "application/pdf", "pending_cv.pdf", nil, nil, "uploaded", nil, now, now))
	mock.ExpectQuery("SELECT id, filename, mime_type, storage_path").
		WithArgs("done").
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("done", "cv.pdf", "application/pdf", "done_cv.pdf", int64(6), "Data Science", "ready", "", now, now))

	pending, err := repo.GetByID(context.Background(), "pending")
	if err != nil {
		t.Fatalf("GetByID(pending) error = %v", err)
	}
	if pending.CategoryID != nil || pending.Category != "" || pending.Status != domain.StatusUploaded {
		t.Fatalf("unexpected pending resume %+v", pending)
	}

	ready, err := repo.GetByID(context.Background(), "done")
	if err != nil {
		t.Fatalf("GetByID(done) error = %v", err)
	}
	if ready.CategoryID == nil || *ready.CategoryID != 6 || ready.Category != "Data Science" {
		t.Fatalf("unexpected ready resume %+v", ready)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestCreateInsertsUploadedResume(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	now := time.Now().UTC()
	mock.ExpectExec("INSERT INTO resumes").
		WithArgs("id-1", "cv.txt", "text/plain", "id-1_cv.txt", "uploaded", "", now, now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), &domain.Resume{
		ID:          "id-1",
		Filename:    "cv.txt",
		MimeType:    "text/plain",
		StoragePath: "id-1_cv.txt",
		Status:      domain.StatusUploaded,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestUpdateStatusReturnsDomainNotFoundWhenNoRowsAffected(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	mock.ExpectExec("UPDATE resumes").
		WithArgs("missing", string(domain.StatusProcessing), "", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), "missing", domain.StatusProcessing, "")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrResumeNotFound) {
		t.Fatalf("expected ErrResumeNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestSavePredictionReturnsDomainNotFoundWhenNoRowsAffected(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	mock.ExpectExec("UPDATE resumes").
		WithArgs("missing", 20, "Python Developer", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SavePrediction(context.Background(), "missing", domain.NewPrediction(20))
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrResumeNotFound) {
		t.Fatalf("expected ErrResumeNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestEnsureSchemaTakesAdvisoryLock(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectExec("SELECT pg_advisory_xact_lock").
		WithArgs(int64(2026101501)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS resumes").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	if err := repo.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
