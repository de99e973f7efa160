package pipeline

import (
	"errors"
	"fmt"
)

var (
	// ErrInputNotFound is returned when the input path does not exist.
	ErrInputNotFound = errors.New("input file not found")
	// ErrMalformedRecord is returned when the input cannot be parsed as CSV.
	ErrMalformedRecord = errors.New("malformed input record")
	// ErrMissingColumn is returned when a requested column is not in the input header.
	ErrMissingColumn = errors.New("missing column")
	// ErrOutputWrite is returned when the output file cannot be written.
	ErrOutputWrite = errors.New("output write failure")
	// ErrInvalidConfig is returned for job settings that cannot run.
	ErrInvalidConfig = errors.New("invalid job configuration")
)

// MissingColumnError names the column that was not found
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("missing column %q in input header", e.Column)
}

func (e *MissingColumnError) Is(target error) bool {
	return target == ErrMissingColumn
}
