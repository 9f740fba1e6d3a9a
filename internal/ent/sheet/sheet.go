// Package sheet maps source inventory tables to canonical columns.
package sheet

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gnames/aliquotdb/internal/ent/ingerr"
)

// Row is an inventory row with canonical fields.
type Row struct {
	// File is the base name of the source file.
	File string

	// Line is the 1-based line of the row in the source, the header is
	// line 1.
	Line int

	GUID          string
	ParticipantID string
	Study         string
	Visit         string
	VisitWeek     string
	DrawDate      string
	AliquotType   string
	Volume        string
	Unit          string
}

// Get returns a value of a field.
func (r *Row) Get(f Field) string {
	if p := r.field(f); p != nil {
		return *p
	}
	return ""
}

// Set assigns a value to a field.
func (r *Row) Set(f Field, v string) {
	if p := r.field(f); p != nil {
		*p = v
	}
}

func (r *Row) field(f Field) *string {
	switch f {
	case GUID:
		return &r.GUID
	case ParticipantID:
		return &r.ParticipantID
	case Study:
		return &r.Study
	case Visit:
		return &r.Visit
	case VisitWeek:
		return &r.VisitWeek
	case DrawDate:
		return &r.DrawDate
	case AliquotType:
		return &r.AliquotType
	case Volume:
		return &r.Volume
	case Unit:
		return &r.Unit
	}
	return nil
}

// Table is an inventory source mapped to canonical fields.
type Table struct {
	// Path is the location of the source.
	Path string

	// Fields are canonical fields present in the source.
	Fields []Field

	Rows []Row
}

// Has returns true if the source contained the field.
func (t Table) Has(f Field) bool {
	for _, v := range t.Fields {
		if v == f {
			return true
		}
	}
	return false
}

// Header maps canonical fields to column indices of a source.
type Header struct {
	cols map[Field][]int
}

// NewHeader resolves source column names to canonical fields. It returns
// SchemaMismatchError if any of the Required fields cannot be resolved.
func NewHeader(path string, names []string) (Header, error) {
	lookup := make(map[string]Field)
	for _, f := range Fields {
		lookup[HeaderKey(f.String())] = f
		for _, s := range Synonyms[f] {
			lookup[HeaderKey(s)] = f
		}
	}

	res := Header{cols: make(map[Field][]int)}
	for i, name := range names {
		if f, ok := lookup[HeaderKey(name)]; ok {
			res.cols[f] = append(res.cols[f], i)
		}
	}

	var missing []string
	for _, f := range Required {
		if _, ok := res.cols[f]; !ok {
			missing = append(missing, f.String())
		}
	}
	if len(missing) > 0 {
		return res, &ingerr.SchemaMismatchError{File: path, Missing: missing}
	}
	return res, nil
}

// Fields returns canonical fields found in the header.
func (h Header) Fields() []Field {
	var res []Field
	for _, f := range Fields {
		if _, ok := h.cols[f]; ok {
			res = append(res, f)
		}
	}
	return res
}

// Row converts cells to a Row. When several columns map to the same
// field, the right-most non-empty value wins.
func (h Header) Row(cells []string) Row {
	var res Row
	for f, idx := range h.cols {
		for i := len(idx) - 1; i >= 0; i-- {
			if idx[i] >= len(cells) {
				continue
			}
			if v := strings.TrimSpace(cells[idx[i]]); v != "" {
				res.Set(f, v)
				break
			}
		}
	}
	return res
}

// NewTable creates a Table from the rows of a source, the first row is
// the header. Rows without any value are dropped.
func NewTable(path string, records [][]string) (Table, error) {
	res := Table{Path: path}
	if len(records) == 0 {
		return res, &ingerr.SchemaMismatchError{File: path, Missing: requiredNames()}
	}
	h, err := NewHeader(path, records[0])
	if err != nil {
		return res, err
	}
	res.Fields = h.Fields()

	file := filepath.Base(path)
	for i, cells := range records[1:] {
		if blank(cells) {
			continue
		}
		row := h.Row(cells)
		row.File = file
		row.Line = i + 2
		res.Rows = append(res.Rows, row)
	}
	return res, nil
}

// Load reads a source with the Reader and maps it to canonical fields.
func Load(r Reader, path string) (Table, error) {
	records, err := r.Read(path)
	if err != nil {
		return Table{Path: path}, fmt.Errorf("read %s: %w", path, err)
	}
	return NewTable(path, records)
}

// HeaderKey normalizes a header name for matching: BOM is removed,
// whitespace is trimmed and collapsed, case is folded.
func HeaderKey(s string) string {
	s = strings.ReplaceAll(s, "\ufeff", "")
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

func blank(cells []string) bool {
	for _, v := range cells {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func requiredNames() []string {
	res := make([]string, len(Required))
	for i, f := range Required {
		res[i] = f.String()
	}
	return res
}
