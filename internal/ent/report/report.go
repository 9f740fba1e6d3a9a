// Package report summarizes results of an ingestion run.
package report

import (
	"bytes"
	"cmp"
	"fmt"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/gnames/aliquotdb/internal/ent/ingerr"
	"github.com/gnames/aliquotdb/pkg/ent/model"
	"github.com/gnames/gnfmt"
	"github.com/gnames/gnuuid"
)

// Format is an output format of a report.
type Format int

const (
	Text Format = iota
	JSON
)

// NewFormat converts a format name to Format.
func NewFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "text":
		return Text, nil
	case "json":
		return JSON, nil
	}
	return Text, fmt.Errorf("unknown report format %q", s)
}

// Count describes records of one table.
type Count struct {
	Table string `json:"table"`

	// Records is the number of distinct records prepared for the table.
	Records int `json:"records"`

	// Inserted is the number of new records.
	Inserted int64 `json:"inserted"`

	// ConflictSkipped is the number of records that were already in the
	// store.
	ConflictSkipped int64 `json:"conflictSkipped"`

	// Total is the number of records in the table after the run.
	Total int64 `json:"total"`

	// Warned is the number of normalization warnings about values of
	// the table.
	Warned int `json:"warned"`

	kind model.Kind
}

// Report is a summary of a run.
type Report struct {
	Command      string                        `json:"command"`
	DryRun       bool                          `json:"dryRun"`
	Fingerprint  string                        `json:"fingerprint,omitempty"`
	Files        []string                      `json:"files,omitempty"`
	SkippedFiles []string                      `json:"skippedFiles,omitempty"`
	Rows         int                           `json:"rows"`
	RejectedRows int                           `json:"rejectedRows"`
	Counts       []Count                       `json:"counts"`
	Warnings     []ingerr.NormalizationWarning `json:"warnings,omitempty"`
}

// New creates an empty report.
func New(command string) Report {
	return Report{Command: command}
}

// Add records the outcome of an upsert of a batch.
func (r *Report) Add(k model.Kind, records int, inserted int64) {
	c := r.count(k)
	c.Records += records
	c.Inserted += inserted
	c.ConflictSkipped = int64(c.Records) - c.Inserted
}

// AddPrepared records a batch that did not go to the store. Nothing was
// inserted or skipped.
func (r *Report) AddPrepared(k model.Kind, records int) {
	r.count(k).Records += records
}

// AddWarnings lists warnings and counts them for the table of k.
func (r *Report) AddWarnings(k model.Kind, ws ...ingerr.NormalizationWarning) {
	if len(ws) == 0 {
		return
	}
	r.Warnings = append(r.Warnings, ws...)
	r.count(k).Warned += len(ws)
}

// SetTotal sets the number of records in the table after the run.
func (r *Report) SetTotal(k model.Kind, n int64) {
	r.count(k).Total = n
}

// Count returns counts of a kind.
func (r Report) Count(k model.Kind) Count {
	for _, c := range r.Counts {
		if c.Table == k.Table() {
			return c
		}
	}
	return Count{Table: k.Table()}
}

// count returns counts of a kind, creating them if needed. Counts are
// kept in the order of kinds.
func (r *Report) count(k model.Kind) *Count {
	i, ok := slices.BinarySearchFunc(r.Counts, k, func(c Count, k model.Kind) int {
		return cmp.Compare(c.kind, k)
	})
	if !ok {
		r.Counts = slices.Insert(r.Counts, i, Count{Table: k.Table(), kind: k})
	}
	return &r.Counts[i]
}

// Encode renders the report.
func (r Report) Encode(f Format) ([]byte, error) {
	if f == JSON {
		return gnfmt.GNjson{Pretty: true}.Encode(r)
	}
	return r.text(), nil
}

func (r Report) text() []byte {
	var buf bytes.Buffer
	if r.DryRun {
		buf.WriteString("DRY RUN, nothing was saved\n")
	}
	if r.Fingerprint != "" {
		fmt.Fprintf(&buf, "dataset fingerprint: %s\n", r.Fingerprint)
	}
	if len(r.Files) > 0 {
		fmt.Fprintf(&buf, "files: %s\n", strings.Join(r.Files, ", "))
	}
	for _, f := range r.SkippedFiles {
		fmt.Fprintf(&buf, "skipped: %s\n", f)
	}
	if r.Rows > 0 || r.RejectedRows > 0 {
		fmt.Fprintf(&buf, "rows: %s, rejected: %s\n",
			humanize.Comma(int64(r.Rows)), humanize.Comma(int64(r.RejectedRows)))
	}

	w := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "table\trecords\tinserted\tskipped\ttotal\twarned\t")
	for _, c := range r.Counts {
		inserted, skipped, total := "-", "-", "-"
		if !r.DryRun {
			inserted = humanize.Comma(c.Inserted)
			skipped = humanize.Comma(c.ConflictSkipped)
			total = humanize.Comma(c.Total)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t\n",
			c.Table,
			humanize.Comma(int64(c.Records)),
			inserted, skipped, total,
			humanize.Comma(int64(c.Warned)),
		)
	}
	_ = w.Flush()

	if len(r.Warnings) > 0 {
		fmt.Fprintf(&buf, "warnings: %s\n", humanize.Comma(int64(len(r.Warnings))))
		for _, wr := range r.Warnings {
			fmt.Fprintf(&buf, "  %s\n", wr)
		}
	}
	return buf.Bytes()
}

// Fingerprint returns a UUID v5 of the distinct sorted GUIDs. Equal sets of
// aliquots always have the same fingerprint.
func Fingerprint(guids []string) string {
	ids := slices.Clone(guids)
	slices.Sort(ids)
	ids = slices.Compact(ids)
	return gnuuid.New(strings.Join(ids, "|")).String()
}
