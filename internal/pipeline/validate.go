package pipeline

import (
	"fmt"
	"strings"

	"moodle-eval-helper/internal/model"
	"moodle-eval-helper/pkg/utils"
)

// ValidateJob checks the job settings before any file is touched.
func ValidateJob(job model.JobSpec) error {
	if strings.TrimSpace(job.Input.Path) == "" {
		return fmt.Errorf("%w: input path is required", ErrInvalidConfig)
	}
	if strings.TrimSpace(job.Output.Path) == "" {
		return fmt.Errorf("%w: output path is required", ErrInvalidConfig)
	}
	if len(job.SelectedColumns) == 0 {
		return fmt.Errorf("%w: at least one selected column is required", ErrInvalidConfig)
	}
	if utils.SamePath(job.Input.Path, job.Output.Path) {
		return fmt.Errorf("%w: output path must differ from input path", ErrInvalidConfig)
	}

	seen := make(map[string]bool, len(job.SelectedColumns))
	for _, col := range job.SelectedColumns {
		if col == "" {
			return fmt.Errorf("%w: selected column name cannot be empty", ErrInvalidConfig)
		}
		if seen[col] {
			return fmt.Errorf("%w: column %q selected more than once", ErrInvalidConfig, col)
		}
		seen[col] = true
	}
	if job.ExtractsURL() && seen[model.UrlField] {
		return fmt.Errorf("%w: selected column %q clashes with the extracted URL field", ErrInvalidConfig, model.UrlField)
	}
	return nil
}

// columnSet is anything that can answer whether a header holds a column
type columnSet interface {
	HasColumn(name string) bool
}

// validateHeader makes sure every column the job reads exists in the input
// header, so a bad column name fails even when the file has no data rows.
func validateHeader(header columnSet, job model.JobSpec) error {
	for _, col := range job.SelectedColumns {
		if !header.HasColumn(col) {
			return &MissingColumnError{Column: col}
		}
	}
	if job.ExtractsURL() && !header.HasColumn(job.URLColumn) {
		return &MissingColumnError{Column: job.URLColumn}
	}
	return nil
}
