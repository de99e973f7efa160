package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"

	"moodle-eval-helper/internal/model"
	"moodle-eval-helper/pkg/logging"
)

// History records the lifecycle of runs. *store.Store implements it.
type History interface {
	SaveJob(jobID string, spec model.JobSpec) error
	UpdateJobStatus(jobID string, status string) error
	FinishJob(jobID string, summary *model.RunSummary) error
	SaveJobError(jobID string, err error) error
}

// Runner executes projection jobs: read, project, buffer, export.
type Runner struct {
	Log      *logging.Logger
	Progress io.Writer // per-row progress lines; nil discards them
	History  History   // optional
	NewJobID func() string
}

// ------------------- Pipeline Runner -------------------

// Run executes one job. Any failure aborts the whole run; the output file is
// only written after the entire input has been read and projected.
func (r *Runner) Run(ctx context.Context, job model.JobSpec) (summary *model.RunSummary, err error) {
	jobID := r.newJobID()
	log := r.logger().With("job_id", jobID)
	tracker := NewTracker(jobID)

	if err := ValidateJob(job); err != nil {
		log.Error("invalid job", "error", err)
		return tracker.Summary(model.StatusFailed, nil), err
	}

	log.Info("starting run",
		"input", job.Input.Path,
		"output", job.Output.Path,
		"columns", job.SelectedColumns,
		"url_column", job.URLColumn,
	)
	r.saveJob(log, jobID, job)

	defer func() {
		if err == nil {
			return
		}
		status := model.StatusFailed
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			status = model.StatusCancelled
		}
		summary = tracker.Summary(status, nil)
		r.finishJob(log, jobID, summary, err)
		log.Error("run aborted", "status", status, "rows_read", summary.RowsRead, "error", err)
	}()

	projector := NewProjector(job.SelectedColumns, job.URLColumn)

	r.updateStatus(log, jobID, model.StatusIngesting)
	records, err := r.ingest(ctx, job, projector, tracker)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.updateStatus(log, jobID, model.StatusExporting)
	tracker.StartStage(StageExport)
	result, err := ExportCSV(job.Output, projector.Header(), records)
	tracker.EndStage(StageExport, int64(result.RecordCount))
	if err != nil {
		return nil, err
	}
	tracker.RowsWritten(int64(result.RecordCount))

	summary = tracker.Summary(model.StatusCompleted, &result)
	r.finishJob(log, jobID, summary, nil)
	log.Info("run completed",
		"rows_read", summary.RowsRead,
		"rows_written", summary.RowsWritten,
		"urls_found", summary.URLsFound,
		"bytes", result.Bytes,
		"duration", summary.Duration,
	)
	return summary, nil
}

// ingest reads every row, projects it and buffers the result in input order.
// The input file is closed before it returns.
func (r *Runner) ingest(ctx context.Context, job model.JobSpec, projector *Projector, tracker *Tracker) ([]model.Record, error) {
	tracker.StartStage(StageIngestion)

	reader, err := OpenInput(job.Input.Path, job.Input.Encoding)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	if err := validateHeader(reader, job); err != nil {
		return nil, err
	}

	progress := r.Progress
	if progress == nil {
		progress = io.Discard
	}

	var records []model.Record
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		row, err := reader.Next()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}

		rec, url, err := projector.Project(row)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", row.Line, err)
		}
		tracker.RowProjected(url != "")
		records = append(records, rec)

		fmt.Fprintln(progress, projector.ProgressLine(tracker.RowsRead(), rec, url))
	}

	tracker.EndStage(StageIngestion, tracker.RowsRead())
	return records, nil
}

func (r *Runner) newJobID() string {
	if r.NewJobID != nil {
		return r.NewJobID()
	}
	return uuid.New().String()
}

func (r *Runner) logger() *logging.Logger {
	if r.Log == nil {
		return logging.Discard()
	}
	return r.Log
}

// History failures never fail a run; they are logged and the run goes on.

func (r *Runner) saveJob(log *logging.Logger, jobID string, job model.JobSpec) {
	if r.History == nil {
		return
	}
	if err := r.History.SaveJob(jobID, job); err != nil {
		log.Warn("failed to record job", "error", err)
	}
}

func (r *Runner) updateStatus(log *logging.Logger, jobID, status string) {
	if r.History == nil {
		return
	}
	if err := r.History.UpdateJobStatus(jobID, status); err != nil {
		log.Warn("failed to update job status", "status", status, "error", err)
	}
}

func (r *Runner) finishJob(log *logging.Logger, jobID string, summary *model.RunSummary, runErr error) {
	if r.History == nil {
		return
	}
	if runErr != nil {
		if err := r.History.SaveJobError(jobID, runErr); err != nil {
			log.Warn("failed to record job error", "error", err)
		}
	}
	if err := r.History.FinishJob(jobID, summary); err != nil {
		log.Warn("failed to record job result", "error", err)
	}
}
