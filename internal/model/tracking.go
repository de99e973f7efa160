package model

import "time"

// Job statuses stored in the run history
const (
	StatusPending   = "pending"
	StatusIngesting = "ingesting"
	StatusExporting = "exporting"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusCancelled = "cancelled"
)

// StageMetrics represents metrics for a specific pipeline stage
type StageMetrics struct {
	StageName        string        `json:"stage_name"`
	StartTime        time.Time     `json:"start_time"`
	EndTime          time.Time     `json:"end_time"`
	Duration         time.Duration `json:"duration"`
	RecordsProcessed int64         `json:"records_processed"`
}

// RunSummary is the outcome of one run
type RunSummary struct {
	JobID       string                  `json:"job_id"`
	Status      string                  `json:"status"`
	StartTime   time.Time               `json:"start_time"`
	EndTime     time.Time               `json:"end_time"`
	Duration    time.Duration           `json:"duration"`
	RowsRead    int64                   `json:"rows_read"`
	RowsWritten int64                   `json:"rows_written"`
	URLsFound   int64                   `json:"urls_found"`
	Stages      map[string]StageMetrics `json:"stages"`
	Export      *ExportResult           `json:"export,omitempty"`
}

// JobInfo is a run as recorded in the history store
type JobInfo struct {
	ID          string    `json:"id"`
	Spec        *JobSpec  `json:"spec,omitempty"`
	Status      string    `json:"status"`
	RowsRead    int64     `json:"rowsRead"`
	RowsWritten int64     `json:"rowsWritten"`
	URLsFound   int64     `json:"urlsFound"`
	Errors      []string  `json:"errors,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
