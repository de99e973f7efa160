package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"moodle-eval-helper/internal/model"
)

// Store keeps a history of runs in a SQLite database
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the history database at dbPath
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open history db: %w", err)
	}
	// a single connection keeps ":memory:" databases consistent
	db.SetMaxOpenConns(1)

	// Create tables if not exists
	jobTable := `
	CREATE TABLE IF NOT EXISTS jobs (
		id TEXT PRIMARY KEY,
		spec TEXT,
		status TEXT,
		rows_read INTEGER DEFAULT 0,
		rows_written INTEGER DEFAULT 0,
		urls_found INTEGER DEFAULT 0,
		created_at DATETIME,
		updated_at DATETIME
	);
	`
	errorTable := `
	CREATE TABLE IF NOT EXISTS job_errors (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		job_id TEXT,
		error_message TEXT,
		created_at DATETIME
	);
	`

	if _, err := db.Exec(jobTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create jobs table: %w", err)
	}
	if _, err := db.Exec(errorTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create job_errors table: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveJob stores a new run
func (s *Store) SaveJob(jobID string, spec model.JobSpec) error {
	specJSON, err := json.Marshal(spec)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	_, err = s.db.Exec(`INSERT INTO jobs (id, spec, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		jobID, string(specJSON), model.StatusPending, now, now)
	return err
}

// UpdateJobStatus updates job status
func (s *Store) UpdateJobStatus(jobID string, status string) error {
	now := time.Now().UTC()
	res, err := s.db.Exec(`UPDATE jobs SET status = ?, updated_at = ? WHERE id = ?`, status, now, jobID)
	if err != nil {
		return err
	}
	return expectOneRow(res, jobID)
}

// FinishJob stores the final status and counters of a run
func (s *Store) FinishJob(jobID string, summary *model.RunSummary) error {
	if summary == nil {
		return fmt.Errorf("nil summary for job %s", jobID)
	}
	now := time.Now().UTC()
	res, err := s.db.Exec(`UPDATE jobs SET status = ?, rows_read = ?, rows_written = ?, urls_found = ?, updated_at = ? WHERE id = ?`,
		summary.Status, summary.RowsRead, summary.RowsWritten, summary.URLsFound, now, jobID)
	if err != nil {
		return err
	}
	return expectOneRow(res, jobID)
}

// SaveJobError records an error for a job
func (s *Store) SaveJobError(jobID string, err error) error {
	if err == nil {
		return nil
	}
	now := time.Now().UTC()
	_, e := s.db.Exec(`INSERT INTO job_errors (job_id, error_message, created_at) VALUES (?, ?, ?)`,
		jobID, err.Error(), now)
	return e
}

// ListJobs returns all jobs with basic info, newest first
func (s *Store) ListJobs() ([]model.JobInfo, error) {
	rows, err := s.db.Query(`SELECT id, status, rows_read, rows_written, urls_found, created_at, updated_at
		FROM jobs ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []model.JobInfo
	for rows.Next() {
		var job model.JobInfo
		if err := rows.Scan(&job.ID, &job.Status, &job.RowsRead, &job.RowsWritten, &job.URLsFound,
			&job.CreatedAt, &job.UpdatedAt); err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

// GetJob fetches full job spec, status and recorded errors
func (s *Store) GetJob(jobID string) (*model.JobInfo, error) {
	var specJSON string
	job := model.JobInfo{ID: jobID}

	err := s.db.QueryRow(`SELECT spec, status, rows_read, rows_written, urls_found, created_at, updated_at
		FROM jobs WHERE id = ?`, jobID).
		Scan(&specJSON, &job.Status, &job.RowsRead, &job.RowsWritten, &job.URLsFound, &job.CreatedAt, &job.UpdatedAt)
	if err != nil {
		return nil, err
	}

	var spec model.JobSpec
	if err := json.Unmarshal([]byte(specJSON), &spec); err != nil {
		return nil, err
	}
	job.Spec = &spec

	rows, err := s.db.Query(`SELECT error_message FROM job_errors WHERE job_id = ? ORDER BY id`, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var msg string
		if err := rows.Scan(&msg); err != nil {
			return nil, err
		}
		job.Errors = append(job.Errors, msg)
	}
	return &job, rows.Err()
}

func expectOneRow(res sql.Result, jobID string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("job %s: %w", jobID, sql.ErrNoRows)
	}
	return nil
}
