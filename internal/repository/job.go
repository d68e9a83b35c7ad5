package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jobtracker/jobtracker-go/internal/model"
)

var ErrJobNotFound = errors.New("job not found")

const jobColumns = `id, user_id, company, position, location, status, notes,
	applied_date, interview_date, created_at, updated_at`

// JobRepository handles job persistence operations.
type JobRepository struct {
	db DBTX
}

// NewJobRepository creates a new JobRepository.
func NewJobRepository(db DBTX) *JobRepository {
	return &JobRepository{db: db}
}

// Create inserts a fully populated job.
func (r *JobRepository) Create(ctx context.Context, job *model.Job) error {
	query := `INSERT INTO jobs (` + jobColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		job.ID, job.UserID, job.Company, job.Position, job.Location, string(job.Status), job.Notes,
		job.AppliedDate, nullTime(job.InterviewDate), job.CreatedAt, job.UpdatedAt,
	)
	return err
}

// GetByID retrieves a job regardless of owner. Ownership is checked by the
// service so that a foreign record yields "not authorized" rather than
// "not found".
func (r *JobRepository) GetByID(ctx context.Context, id string) (*model.Job, error) {
	job := &model.Job{}
	err := scanJob(r.db.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = ?`, id), job)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	return job, nil
}

// ListByUser returns a user's jobs, most recently created first.
func (r *JobRepository) ListByUser(ctx context.Context, userID string) ([]model.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE user_id = ? ORDER BY created_at DESC, id`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	jobs := []model.Job{}
	for rows.Next() {
		var j model.Job
		if err := scanJob(rows, &j); err != nil {
			return nil, err
		}
		jobs = append(jobs, j)
	}

	return jobs, rows.Err()
}

// CountByStatus returns the number of the user's jobs in each status.
func (r *JobRepository) CountByStatus(ctx context.Context, userID string) (map[model.JobStatus]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM jobs WHERE user_id = ? GROUP BY status`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[model.JobStatus]int)
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[model.JobStatus(status)] = n
	}

	return counts, rows.Err()
}

// Update writes every mutable column of job. The owner column is never
// touched.
func (r *JobRepository) Update(ctx context.Context, job *model.Job) error {
	query := `UPDATE jobs SET company = ?, position = ?, location = ?, status = ?, notes = ?,
		applied_date = ?, interview_date = ?, updated_at = ? WHERE id = ?`

	_, err := r.db.ExecContext(ctx, query,
		job.Company, job.Position, job.Location, string(job.Status), job.Notes,
		job.AppliedDate, nullTime(job.InterviewDate), job.UpdatedAt, job.ID,
	)
	return err
}

// Delete removes a single job.
func (r *JobRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM jobs WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(result, ErrJobNotFound)
}

// DeleteByUser removes every job owned by userID and returns how many went.
func (r *JobRepository) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM jobs WHERE user_id = ?`, userID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func scanJob(s scanner, j *model.Job) error {
	var (
		status    string
		interview sql.NullTime
	)
	err := s.Scan(
		&j.ID, &j.UserID, &j.Company, &j.Position, &j.Location, &status, &j.Notes,
		&j.AppliedDate, &interview, &j.CreatedAt, &j.UpdatedAt,
	)
	if err != nil {
		return err
	}

	j.Status = model.JobStatus(status)
	if interview.Valid {
		t := interview.Time
		j.InterviewDate = &t
	}
	return nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
