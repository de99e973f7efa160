package pipeline

import (
	"fmt"
	"regexp"
	"strings"

	"moodle-eval-helper/internal/model"
)

// word mirrors the Unicode-aware \w class: letters, marks, digits, connectors.
const word = `\p{L}\p{Mn}\p{Nd}\p{Pc}`

// urlPattern matches an https URL: a dotted host of word characters and
// hyphens, then an optional path/query/fragment that may not end in
// trailing punctuation such as '.' or ','.
var urlPattern = regexp.MustCompile(
	`(?i)https://[` + word + `-]+(?:\.[` + word + `-]+)+` +
		`(?:[` + word + `.,@?^=%&:/~+#-]*[` + word + `@?^=%&/~+#-])?`,
)

// ExtractURL returns the first https URL found in text, or "" when none.
func ExtractURL(text string) string {
	return urlPattern.FindString(text)
}

// Projector turns input rows into output records holding only the
// selected columns, plus the extracted Url field when enabled.
type Projector struct {
	columns   []string
	urlColumn string
	header    []string
}

// NewProjector builds a projector for the given columns. An empty urlColumn
// disables URL extraction.
func NewProjector(columns []string, urlColumn string) *Projector {
	cols := make([]string, len(columns))
	copy(cols, columns)

	header := make([]string, 0, len(cols)+1)
	header = append(header, cols...)
	if urlColumn != "" {
		header = append(header, model.UrlField)
	}

	return &Projector{
		columns:   cols,
		urlColumn: urlColumn,
		header:    header,
	}
}

// Header returns the output column names. It does not depend on any row.
func (p *Projector) Header() []string {
	out := make([]string, len(p.header))
	copy(out, p.header)
	return out
}

// ExtractsURL reports whether records carry a Url field.
func (p *Projector) ExtractsURL() bool {
	return p.urlColumn != ""
}

// Project builds the output record for one row. The second return value is
// the extracted URL ("" when extraction is disabled or nothing matched).
func (p *Projector) Project(row Row) (model.Record, string, error) {
	rec := model.NewRecord(len(p.header))
	for _, col := range p.columns {
		val, ok := row.Get(col)
		if !ok {
			return model.Record{}, "", &MissingColumnError{Column: col}
		}
		rec.Set(col, val)
	}

	if !p.ExtractsURL() {
		return rec, "", nil
	}

	cell, ok := row.Get(p.urlColumn)
	if !ok {
		return model.Record{}, "", &MissingColumnError{Column: p.urlColumn}
	}
	url := ExtractURL(cell)
	rec.Set(model.UrlField, url)
	return rec, url, nil
}

// ProgressLine formats the per-row console line: counter, the selected
// values joined by ", ", then the extracted URL after a bar.
func (p *Projector) ProgressLine(counter int64, rec model.Record, url string) string {
	values := rec.Values()
	if len(values) > len(p.columns) {
		values = values[:len(p.columns)]
	}
	return fmt.Sprintf("%d: %s | %s", counter, strings.Join(values, ", "), url)
}
