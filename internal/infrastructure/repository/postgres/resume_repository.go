package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/kirillkom/resume-classifier/internal/core/domain"
)

type ResumeRepository struct {
	db *sql.DB
}

func NewResumeRepository(db *sql.DB) *ResumeRepository {
	return &ResumeRepository{db: db}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (r *ResumeRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across api/worker startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026101501)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS resumes (
	id TEXT PRIMARY KEY,
	filename TEXT NOT NULL,
	mime_type TEXT NOT NULL,
	storage_path TEXT NOT NULL,
	category_id INTEGER,
	category TEXT,
	status TEXT NOT NULL,
	error_message TEXT,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_resumes_status ON resumes(status);
CREATE INDEX IF NOT EXISTS idx_resumes_category ON resumes(category_id);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *ResumeRepository) Create(ctx context.Context, resume *domain.Resume) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO resumes (
	id, filename, mime_type, storage_path, status, error_message, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
`,
		resume.ID, resume.Filename, resume.MimeType, resume.StoragePath,
		string(resume.Status), resume.Error, resume.CreatedAt, resume.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert resume: %w", err)
	}
	return nil
}

func (r *ResumeRepository) GetByID(ctx context.Context, id string) (*domain.Resume, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, filename, mime_type, storage_path, category_id, category, status, error_message, created_at, updated_at
FROM resumes
WHERE id = $1
`, id)

	var resume domain.Resume
	var categoryID sql.NullInt64
	var category, errMessage sql.NullString
	var status string

	err := row.Scan(
		&resume.ID, &resume.Filename, &resume.MimeType, &resume.StoragePath,
		&categoryID, &category, &status, &errMessage, &resume.CreatedAt, &resume.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrResumeNotFound, "get resume", fmt.Errorf("id=%s", id))
		}
		return nil, fmt.Errorf("scan resume: %w", err)
	}

	if categoryID.Valid {
		v := int(categoryID.Int64)
		resume.CategoryID = &v
	}
	resume.Category = category.String
	resume.Error = errMessage.String
	resume.Status = domain.ResumeStatus(status)
	return &resume, nil
}

func (r *ResumeRepository) UpdateStatus(ctx context.Context, id string, status domain.ResumeStatus, errMessage string) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE resumes
SET status = $2, error_message = $3, updated_at = $4
WHERE id = $1
`, id, string(status), errMessage, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update resume status: %w", err)
	}
	return ensureAffected(res, "update resume status", id)
}

func (r *ResumeRepository) SavePrediction(ctx context.Context, id string, prediction domain.Prediction) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE resumes
SET category_id = $2, category = $3, updated_at = $4
WHERE id = $1
`, id, prediction.CategoryID, prediction.Category, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save prediction: %w", err)
	}
	return ensureAffected(res, "save prediction", id)
}

func ensureAffected(res sql.Result, op, id string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", op, err)
	}
	if affected == 0 {
		return domain.WrapError(domain.ErrResumeNotFound, op, fmt.Errorf("id=%s", id))
	}
	return nil
}
