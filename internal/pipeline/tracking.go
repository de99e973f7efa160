package pipeline

import (
	"time"

	"moodle-eval-helper/internal/model"
)

// Stage names used in run metrics
const (
	StageIngestion = "ingestion"
	StageExport    = "export"
)

// Tracker collects counters and stage timings for a single run. A run is
// driven by one goroutine, so no locking is done.
type Tracker struct {
	jobID       string
	startTime   time.Time
	stages      map[string]model.StageMetrics
	rowsRead    int64
	rowsWritten int64
	urlsFound   int64
}

// NewTracker starts the clock for jobID
func NewTracker(jobID string) *Tracker {
	return &Tracker{
		jobID:     jobID,
		startTime: time.Now(),
		stages:    make(map[string]model.StageMetrics),
	}
}

// StartStage marks the start of a pipeline stage
func (t *Tracker) StartStage(stage string) {
	t.stages[stage] = model.StageMetrics{
		StageName: stage,
		StartTime: time.Now(),
	}
}

// EndStage marks the end of a stage and how many records it handled
func (t *Tracker) EndStage(stage string, records int64) {
	m, ok := t.stages[stage]
	if !ok {
		m = model.StageMetrics{StageName: stage, StartTime: t.startTime}
	}
	m.EndTime = time.Now()
	m.Duration = m.EndTime.Sub(m.StartTime)
	m.RecordsProcessed = records
	t.stages[stage] = m
}

// RowProjected counts one projected row and whether a URL was found in it.
func (t *Tracker) RowProjected(urlFound bool) {
	t.rowsRead++
	if urlFound {
		t.urlsFound++
	}
}

// RowsWritten records how many rows reached the output file.
func (t *Tracker) RowsWritten(n int64) {
	t.rowsWritten = n
}

// RowsRead returns the number of rows projected so far.
func (t *Tracker) RowsRead() int64 {
	return t.rowsRead
}

// Summary snapshots the run with the given final status.
func (t *Tracker) Summary(status string, export *model.ExportResult) *model.RunSummary {
	end := time.Now()
	stages := make(map[string]model.StageMetrics, len(t.stages))
	for k, v := range t.stages {
		stages[k] = v
	}
	return &model.RunSummary{
		JobID:       t.jobID,
		Status:      status,
		StartTime:   t.startTime,
		EndTime:     end,
		Duration:    end.Sub(t.startTime),
		RowsRead:    t.rowsRead,
		RowsWritten: t.rowsWritten,
		URLsFound:   t.urlsFound,
		Stages:      stages,
		Export:      export,
	}
}
