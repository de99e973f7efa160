package pipeline

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"time"

	"moodle-eval-helper/internal/model"
	"moodle-eval-helper/pkg/utils"
)

// OutputDelimiter separates fields in the written CSV.
const OutputDelimiter = ';'

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ExportCSV writes the header and all records to spec.Path. The data goes to
// a temporary sibling file first and is renamed over the destination once
// complete, so a failed export never leaves a partial file behind and an
// existing file is only replaced on success.
func ExportCSV(spec model.OutputSpec, header []string, records []model.Record) (result model.ExportResult, err error) {
	result = model.ExportResult{
		Type:      "csv",
		Path:      spec.Path,
		Timestamp: time.Now(),
	}
	defer func() {
		result.Success = err == nil
		if err != nil {
			result.Error = err.Error()
		}
	}()

	tmp := utils.TempPath(spec.Path)
	count, err := writeCSVFile(tmp, spec, header, records)
	if err != nil {
		os.Remove(tmp)
		return result, fmt.Errorf("%w: %w", ErrOutputWrite, err)
	}
	if err := os.Rename(tmp, spec.Path); err != nil {
		os.Remove(tmp)
		return result, fmt.Errorf("%w: failed to move output into place: %w", ErrOutputWrite, err)
	}

	result.RecordCount = count
	if size, err := utils.FileSize(spec.Path); err == nil {
		result.Bytes = size
	}
	return result, nil
}

// writeCSVFile creates path, writes the CSV and closes the file on every path.
func writeCSVFile(path string, spec model.OutputSpec, header []string, records []model.Record) (int, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return 0, fmt.Errorf("failed to create file: %w", err)
	}

	count, err := WriteCSV(file, spec, header, records)
	if closeErr := file.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("failed to close file: %w", closeErr)
	}
	return count, err
}

// WriteCSV encodes header and records as semicolon delimited, double quoted
// CSV. It returns the number of data records written.
func WriteCSV(w io.Writer, spec model.OutputSpec, header []string, records []model.Record) (int, error) {
	if spec.BOM {
		if _, err := w.Write(utf8BOM); err != nil {
			return 0, fmt.Errorf("failed to write byte order mark: %w", err)
		}
	}

	writer := csv.NewWriter(w)
	writer.Comma = OutputDelimiter
	writer.UseCRLF = spec.CRLF

	if err := writer.Write(header); err != nil {
		return 0, fmt.Errorf("failed to write header: %w", err)
	}

	recordCount := 0
	for i, rec := range records {
		if rec.Len() != len(header) {
			return recordCount, fmt.Errorf("record %d has %d fields, header has %d", i+1, rec.Len(), len(header))
		}
		if err := writer.Write(rec.Values()); err != nil {
			return recordCount, fmt.Errorf("failed to write row: %w", err)
		}
		recordCount++
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return recordCount, fmt.Errorf("failed to flush output: %w", err)
	}
	return recordCount, nil
}
