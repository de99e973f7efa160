package model

// UrlField is the name of the output column holding the extracted URL.
const UrlField = "Url"

// InputSpec describes the CSV file being read
type InputSpec struct {
	Path     string `json:"path" yaml:"path"`
	Encoding string `json:"encoding,omitempty" yaml:"encoding"` // htmlindex name, e.g. utf-8, windows-1252
}

// OutputSpec describes the CSV file being written
type OutputSpec struct {
	Path string `json:"path" yaml:"path"`
	CRLF bool   `json:"crlf,omitempty" yaml:"crlf"` // terminate lines with \r\n
	BOM  bool   `json:"bom,omitempty" yaml:"bom"`   // prefix the file with a UTF-8 byte order mark
}

// JobSpec defines a single projection run
type JobSpec struct {
	Input           InputSpec  `json:"input" yaml:"input"`
	Output          OutputSpec `json:"output" yaml:"output"`
	SelectedColumns []string   `json:"selectedColumns" yaml:"selected_columns"` // kept in this order
	URLColumn       string     `json:"urlColumn,omitempty" yaml:"url_column"`   // empty disables URL extraction
}

// ExtractsURL reports whether the job appends a Url field.
func (j JobSpec) ExtractsURL() bool {
	return j.URLColumn != ""
}
