package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	"github.com/nayna-import-api/internal/database"
	"github.com/nayna-import-api/internal/models"
)

// jobRepo is the concrete implementation of JobRepository
type jobRepo struct {
	db *database.DB
}

// NewJobRepo creates a new job repository
func NewJobRepo(db *database.DB) JobRepository {
	return &jobRepo{db: db}
}

const jobColumns = `id, instance_id, kind, status, idempotency_key, file_name, total_rows,
	accepted_count, skipped_count, duration_ms, message, created_at, completed_at`

// Create inserts a new job
func (r *jobRepo) Create(ctx context.Context, job *models.Job) error {
	query := `
		INSERT INTO import_jobs (id, instance_id, kind, status, idempotency_key, file_name,
			total_rows, accepted_count, skipped_count, duration_ms, message, created_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := r.db.ExecContext(ctx, query,
		job.ID, job.InstanceID, job.Kind, job.Status, nullString(job.IdempotencyKey), job.FileName,
		job.TotalRows, job.AcceptedCount, job.SkippedCount, job.DurationMs, nullString(job.Message),
		job.CreatedAt, job.CompletedAt,
	)
	return err
}

// Update records the final status of a processing job. Clearing
// IdempotencyKey releases the key for a later upload.
func (r *jobRepo) Update(ctx context.Context, job *models.Job) error {
	query := `
		UPDATE import_jobs SET
			status = $1, idempotency_key = $2, total_rows = $3, accepted_count = $4,
			skipped_count = $5, duration_ms = $6, message = $7, completed_at = $8
		WHERE id = $9
	`
	res, err := r.db.ExecContext(ctx, query,
		job.Status, nullString(job.IdempotencyKey), job.TotalRows, job.AcceptedCount,
		job.SkippedCount, job.DurationMs, nullString(job.Message), job.CompletedAt, job.ID,
	)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("job %s not found", job.ID)
	}
	return nil
}

// GetByID retrieves a job by ID
func (r *jobRepo) GetByID(ctx context.Context, id string) (*models.Job, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM import_jobs WHERE id = $1`, id)
	return scanJob(row)
}

// GetByIdempotencyKey retrieves a job by idempotency key
func (r *jobRepo) GetByIdempotencyKey(ctx context.Context, key string) (*models.Job, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM import_jobs WHERE idempotency_key = $1`, key)
	return scanJob(row)
}

// ListByInstance returns the newest jobs of an instance first
func (r *jobRepo) ListByInstance(ctx context.Context, instanceID string, limit int) ([]*models.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM import_jobs WHERE instance_id = $1 ORDER BY created_at DESC`
	args := []any{instanceID}
	if limit > 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	jobs := make([]*models.Job, 0)
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

// AddErrors stores a job's skip reasons using COPY
func (r *jobRepo) AddErrors(ctx context.Context, jobID string, errors []models.ValidationError) error {
	if len(errors) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn("import_job_errors",
		"job_id", "line_number", "field", "message", "value",
	))
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range errors {
		if _, err := stmt.ExecContext(ctx, jobID, e.Line, e.Field, e.Message, valueString(e.Value)); err != nil {
			return fmt.Errorf("copy job error at line %d: %w", e.Line, err)
		}
	}

	// Flush the COPY buffer
	if _, err := stmt.ExecContext(ctx); err != nil {
		return err
	}

	return tx.Commit()
}

// GetErrors retrieves the skip reasons recorded for a job
func (r *jobRepo) GetErrors(ctx context.Context, jobID string, limit int) ([]models.ValidationError, error) {
	query := `SELECT line_number, field, message, value FROM import_job_errors WHERE job_id = $1 ORDER BY line_number`
	args := []any{jobID}
	if limit > 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	errors := make([]models.ValidationError, 0)
	for rows.Next() {
		var e models.ValidationError
		var value sql.NullString
		if err := rows.Scan(&e.Line, &e.Field, &e.Message, &value); err != nil {
			return nil, err
		}
		if value.Valid && value.String != "" {
			e.Value = value.String
		}
		errors = append(errors, e)
	}

	return errors, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*models.Job, error) {
	var job models.Job
	var idempotencyKey, message sql.NullString
	var completedAt sql.NullTime

	err := row.Scan(
		&job.ID, &job.InstanceID, &job.Kind, &job.Status, &idempotencyKey, &job.FileName,
		&job.TotalRows, &job.AcceptedCount, &job.SkippedCount, &job.DurationMs, &message,
		&job.CreatedAt, &completedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	job.IdempotencyKey = idempotencyKey.String
	job.Message = message.String
	if completedAt.Valid {
		job.CompletedAt = &completedAt.Time
	}
	return &job, nil
}

// helper to convert empty string to NULL
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func valueString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	default:
		return fmt.Sprint(val)
	}
}
