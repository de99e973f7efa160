package pipeline

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"moodle-eval-helper/internal/model"
)

func record(pairs ...string) model.Record {
	rec := model.NewRecord(len(pairs) / 2)
	for i := 0; i+1 < len(pairs); i += 2 {
		rec.Set(pairs[i], pairs[i+1])
	}
	return rec
}

func TestWriteCSV(t *testing.T) {
	header := []string{"Name", "Email", "Url"}
	records := []model.Record{
		record("Name", "Alice", "Email", "alice@example.com", "Url", "https://example.com/a"),
		record("Name", "Carol; Jr", "Email", "c@example.com", "Url", ""),
		record("Name", `Dan "The Man"`, "Email", "d@example.com", "Url", ""),
	}

	tests := []struct {
		name string
		spec model.OutputSpec
		want string
	}{
		{
			name: "lf",
			want: "Name;Email;Url\n" +
				"Alice;alice@example.com;https://example.com/a\n" +
				"\"Carol; Jr\";c@example.com;\n" +
				"\"Dan \"\"The Man\"\"\";d@example.com;\n",
		},
		{
			name: "crlf with bom",
			spec: model.OutputSpec{CRLF: true, BOM: true},
			want: "\xEF\xBB\xBFName;Email;Url\r\n" +
				"Alice;alice@example.com;https://example.com/a\r\n" +
				"\"Carol; Jr\";c@example.com;\r\n" +
				"\"Dan \"\"The Man\"\"\";d@example.com;\r\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			n, err := WriteCSV(&buf, tt.spec, header, records)
			if err != nil {
				t.Fatalf("WriteCSV: %v", err)
			}
			if n != 3 {
				t.Errorf("wrote %d records, want 3", n)
			}
			if buf.String() != tt.want {
				t.Errorf("got:\n%q\nwant:\n%q", buf.String(), tt.want)
			}
		})
	}
}

func TestWriteCSV_HeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	n, err := WriteCSV(&buf, model.OutputSpec{}, []string{"Name", "Email"}, nil)
	if err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	if n != 0 || buf.String() != "Name;Email\n" {
		t.Errorf("got %d records, %q", n, buf.String())
	}
}

func TestWriteCSV_ShapeMismatch(t *testing.T) {
	var buf bytes.Buffer
	_, err := WriteCSV(&buf, model.OutputSpec{}, []string{"Name", "Email"}, []model.Record{record("Name", "A")})
	if err == nil {
		t.Error("expected error for record narrower than header")
	}
}

func TestExportCSV_OverwritesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	if err := os.WriteFile(path, []byte("stale content that is longer than the new one\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	result, err := ExportCSV(model.OutputSpec{Path: path}, []string{"Name"}, []model.Record{record("Name", "A")})
	if err != nil {
		t.Fatalf("ExportCSV: %v", err)
	}
	if !result.Success || result.RecordCount != 1 || result.Type != "csv" {
		t.Errorf("unexpected result: %+v", result)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "Name\nA\n" {
		t.Errorf("content = %q", got)
	}
	if result.Bytes != int64(len(got)) {
		t.Errorf("bytes = %d, want %d", result.Bytes, len(got))
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("temp file left behind: %v", err)
	}
}

func TestExportCSV_Failure(t *testing.T) {
	dir := t.TempDir()

	// missing parent directory
	missing := filepath.Join(dir, "nope", "out.csv")
	result, err := ExportCSV(model.OutputSpec{Path: missing}, []string{"Name"}, nil)
	if !errors.Is(err, ErrOutputWrite) {
		t.Fatalf("expected ErrOutputWrite, got %v", err)
	}
	if result.Success || result.Error == "" {
		t.Errorf("result should report failure: %+v", result)
	}

	// destination is a directory: rename fails, temp file is cleaned up
	target := filepath.Join(dir, "taken")
	if err := os.Mkdir(target, 0o755); err != nil {
		t.Fatal(err)
	}
	if _, err := ExportCSV(model.OutputSpec{Path: target}, []string{"Name"}, nil); !errors.Is(err, ErrOutputWrite) {
		t.Fatalf("expected ErrOutputWrite, got %v", err)
	}
	if _, err := os.Stat(target + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("temp file left behind: %v", err)
	}
}
