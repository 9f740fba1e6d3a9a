// Package ingerr contains errors and warnings produced during ingestion of
// inventory spreadsheets.
package ingerr

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gnames/aliquotdb/internal/str"
)

// ErrNoFiles is returned when a directory has no files matching the
// inventory file pattern.
var ErrNoFiles = errors.New("no matching inventory files")

// SchemaMismatchError means that required canonical columns are absent from
// a source after renaming of its headers.
type SchemaMismatchError struct {
	// File is the path to the source.
	File string

	// Missing contains canonical names of the absent columns.
	Missing []string
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf(
		"schema mismatch in %s: missing column(s) %s",
		e.File, strings.Join(e.Missing, ", "),
	)
}

// IngestError aborts an ingestion run as a whole.
type IngestError struct {
	Dir     string
	Pattern string
	Err     error
}

func (e *IngestError) Error() string {
	return fmt.Sprintf("cannot ingest %s (pattern %q): %s", e.Dir, e.Pattern, e.Err)
}

func (e *IngestError) Unwrap() error {
	return e.Err
}

// NormalizationWarning describes a field value that could not be brought
// to its canonical form. The value is used as is (best effort), or the row
// is rejected when Rejected is true.
type NormalizationWarning struct {
	File     string `json:"file"`
	Line     int    `json:"line"`
	GUID     string `json:"guid,omitempty"`
	Field    string `json:"field"`
	Raw      string `json:"raw"`
	Value    string `json:"value"`
	Message  string `json:"message"`
	Rejected bool   `json:"rejected,omitempty"`
}

func (w NormalizationWarning) String() string {
	res := fmt.Sprintf("%s:%d %s %q -> %q: %s",
		w.File, w.Line, w.Field, str.Shorten(w.Raw, 40), str.Shorten(w.Value, 40), w.Message)
	if w.GUID != "" {
		res += " (guid " + w.GUID + ")"
	}
	return res
}

// Attrs returns key-value pairs for structured logging.
func (w NormalizationWarning) Attrs() []any {
	return []any{
		"file", w.File,
		"line", w.Line,
		"guid", w.GUID,
		"field", w.Field,
		"raw", w.Raw,
		"value", w.Value,
		"rejected", w.Rejected,
	}
}
