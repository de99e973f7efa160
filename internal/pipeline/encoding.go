package pipeline

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DefaultEncoding is used when the job names no input encoding.
const DefaultEncoding = "utf-8"

// newDecoder resolves an encoding label (WHATWG names such as "utf-8",
// "utf-16le" or "windows-1252") into a transformer producing UTF-8.
// A leading byte order mark overrides the label.
func newDecoder(label string) (transform.Transformer, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		label = DefaultEncoding
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("%w: unsupported input encoding %q", ErrInvalidConfig, label)
	}
	return unicode.BOMOverride(enc.NewDecoder()), nil
}
