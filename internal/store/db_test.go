package store

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"moodle-eval-helper/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testSpec() model.JobSpec {
	return model.JobSpec{
		Input:           model.InputSpec{Path: "in.csv"},
		Output:          model.OutputSpec{Path: "out.csv"},
		SelectedColumns: []string{"Koko nimi", "Sähköpostiosoite"},
		URLColumn:       "Verkkoteksti",
	}
}

func TestSaveAndGetJob(t *testing.T) {
	s := openTestStore(t)

	if err := s.SaveJob("job-1", testSpec()); err != nil {
		t.Fatalf("SaveJob: %v", err)
	}

	got, err := s.GetJob("job-1")
	if err != nil {
		t.Fatalf("GetJob: %v", err)
	}
	if got.Status != model.StatusPending {
		t.Errorf("expected status %q, got %q", model.StatusPending, got.Status)
	}
	if got.Spec == nil || got.Spec.URLColumn != "Verkkoteksti" {
		t.Errorf("spec not round-tripped: %+v", got.Spec)
	}
	if len(got.Spec.SelectedColumns) != 2 || got.Spec.SelectedColumns[1] != "Sähköpostiosoite" {
		t.Errorf("selected columns = %v", got.Spec.SelectedColumns)
	}
}

func TestFinishJob_StoresCounters(t *testing.T) {
	s := openTestStore(t)
	if err := s.SaveJob("job-1", testSpec()); err != nil {
		t.Fatalf("SaveJob: %v", err)
	}

	summary := &model.RunSummary{JobID: "job-1", Status: model.StatusCompleted, RowsRead: 4, RowsWritten: 4, URLsFound: 3}
	if err := s.FinishJob("job-1", summary); err != nil {
		t.Fatalf("FinishJob: %v", err)
	}

	got, err := s.GetJob("job-1")
	if err != nil {
		t.Fatalf("GetJob: %v", err)
	}
	if got.Status != model.StatusCompleted || got.RowsRead != 4 || got.RowsWritten != 4 || got.URLsFound != 3 {
		t.Errorf("unexpected job: %+v", got)
	}
}

func TestUpdateJobStatus_UnknownJob(t *testing.T) {
	s := openTestStore(t)
	err := s.UpdateJobStatus("nope", model.StatusFailed)
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestSaveJobError(t *testing.T) {
	s := openTestStore(t)
	if err := s.SaveJob("job-1", testSpec()); err != nil {
		t.Fatalf("SaveJob: %v", err)
	}
	if err := s.SaveJobError("job-1", nil); err != nil {
		t.Fatalf("nil error should be ignored: %v", err)
	}
	if err := s.SaveJobError("job-1", errors.New("missing column \"Email\"")); err != nil {
		t.Fatalf("SaveJobError: %v", err)
	}

	got, err := s.GetJob("job-1")
	if err != nil {
		t.Fatalf("GetJob: %v", err)
	}
	if len(got.Errors) != 1 || got.Errors[0] != "missing column \"Email\"" {
		t.Errorf("errors = %v", got.Errors)
	}
}

func TestListJobs(t *testing.T) {
	s := openTestStore(t)
	for _, id := range []string{"a", "b", "c"} {
		if err := s.SaveJob(id, testSpec()); err != nil {
			t.Fatalf("SaveJob(%s): %v", id, err)
		}
	}

	jobs, err := s.ListJobs()
	if err != nil {
		t.Fatalf("ListJobs: %v", err)
	}
	if len(jobs) != 3 {
		t.Fatalf("expected 3 jobs, got %d", len(jobs))
	}
	seen := map[string]bool{}
	for _, j := range jobs {
		seen[j.ID] = true
	}
	for _, id := range []string{"a", "b", "c"} {
		if !seen[id] {
			t.Errorf("job %s missing from list", id)
		}
	}
}

func TestGetJob_NotFound(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.GetJob("missing"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("expected sql.ErrNoRows, got %v", err)
	}
}
