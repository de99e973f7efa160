package pipeline

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"golang.org/x/text/transform"

	"moodle-eval-helper/pkg/utils"
)

// ------------------- Ingestion -------------------

// Row is one decoded input record, keyed by the input header
type Row struct {
	Line    int // 1-based line where the record starts
	columns map[string]int
	values  []string
}

// Get returns the cell stored under the header name.
func (r Row) Get(name string) (string, bool) {
	i, ok := r.columns[name]
	if !ok || i >= len(r.values) {
		return "", false
	}
	return r.values[i], true
}

// RowReader streams rows from a comma delimited CSV with a header row.
// It is forward only and cannot be rewound.
type RowReader struct {
	csv     *csv.Reader
	header  []string
	columns map[string]int
	closer  io.Closer
	read    int64
}

// OpenInput checks that path exists and opens it for reading with the given
// text encoding. The caller must Close the returned reader.
func OpenInput(path, encoding string) (*RowReader, error) {
	if err := utils.CheckInputFile(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrInputNotFound, path)
		}
		return nil, fmt.Errorf("failed to open input %s: %w", path, err)
	}

	decoder, err := newDecoder(encoding)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input %s: %w", path, err)
	}

	rr, err := NewRowReader(transform.NewReader(file, decoder))
	if err != nil {
		file.Close()
		return nil, err
	}
	rr.closer = file
	return rr, nil
}

// NewRowReader reads the header row from r and returns a reader positioned
// at the first data row.
func NewRowReader(r io.Reader) (*RowReader, error) {
	csvReader := csv.NewReader(r)
	csvReader.Comma = ','
	// every record must be as wide as the header
	csvReader.FieldsPerRecord = 0

	header, err := csvReader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: input has no header row", ErrMalformedRecord)
	} else if err != nil {
		return nil, fmt.Errorf("%w: failed to read CSV header: %w", ErrMalformedRecord, err)
	}

	columns := make(map[string]int, len(header))
	for i, h := range header {
		// first occurrence wins for duplicated header names
		if _, exists := columns[h]; !exists {
			columns[h] = i
		}
	}

	return &RowReader{
		csv:     csvReader,
		header:  header,
		columns: columns,
	}, nil
}

// Header returns the input column names in file order.
func (r *RowReader) Header() []string {
	out := make([]string, len(r.header))
	copy(out, r.header)
	return out
}

// HasColumn reports whether name appears in the header.
func (r *RowReader) HasColumn(name string) bool {
	_, ok := r.columns[name]
	return ok
}

// Next returns the next row, or io.EOF once the input is exhausted.
func (r *RowReader) Next() (Row, error) {
	record, err := r.csv.Read()
	if err == io.EOF {
		return Row{}, io.EOF
	} else if err != nil {
		return Row{}, fmt.Errorf("%w: CSV read error: %w", ErrMalformedRecord, err)
	}
	r.read++

	line, _ := r.csv.FieldPos(0)
	return Row{Line: line, columns: r.columns, values: record}, nil
}

// Count returns the number of data rows read so far.
func (r *RowReader) Count() int64 {
	return r.read
}

// Close releases the underlying file, if any. It is safe to call twice.
func (r *RowReader) Close() error {
	if r.closer == nil {
		return nil
	}
	err := r.closer.Close()
	r.closer = nil
	return err
}
