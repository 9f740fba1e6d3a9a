// Package inventory merges per-study inventory files into one normalized
// dataset.
package inventory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gnames/aliquotdb/internal/ent/ingerr"
	"github.com/gnames/aliquotdb/internal/ent/norm"
	"github.com/gnames/aliquotdb/internal/ent/sheet"
	"github.com/gnames/aliquotdb/pkg/config"
	"golang.org/x/sync/errgroup"
)

// Dataset is a merged and normalized inventory.
type Dataset struct {
	// Files are names of loaded files in the load order.
	Files []string

	// SkippedFiles are errors of files that were skipped because of
	// missing columns.
	SkippedFiles []*ingerr.SchemaMismatchError

	// Rows are normalized rows of all loaded files.
	Rows []sheet.Row

	// Rejected is the number of rows dropped because they missed values
	// of natural key fields.
	Rejected int

	// Warnings describe values that could not be normalized.
	Warnings []ingerr.NormalizationWarning
}

// GUIDs returns aliquot identifiers of the dataset.
func (d Dataset) GUIDs() []string {
	res := make([]string, len(d.Rows))
	for i := range d.Rows {
		res[i] = d.Rows[i].GUID
	}
	return res
}

// Merger finds, loads and normalizes inventory files.
type Merger struct {
	cfg     config.Config
	rdr     sheet.Reader
	nrm     norm.Normalizer
	pattern *regexp.Regexp
}

type source struct {
	path string
	tag  string
}

// New creates a Merger.
func New(cfg config.Config, rdr sheet.Reader) (*Merger, error) {
	nrm, err := norm.New(cfg)
	if err != nil {
		return nil, err
	}
	pattern, err := regexp.Compile(cfg.FilePattern)
	if err != nil {
		return nil, fmt.Errorf("file pattern %q: %w", cfg.FilePattern, err)
	}
	if pattern.NumSubexp() < 1 {
		return nil, fmt.Errorf("file pattern %q has no study capture group", cfg.FilePattern)
	}
	res := Merger{cfg: cfg, rdr: rdr, nrm: nrm, pattern: pattern}
	return &res, nil
}

// Merge loads all inventory files of a directory. Files are read
// concurrently, but rows are merged in the order of file names, so the
// result does not depend on timing.
func (m *Merger) Merge(ctx context.Context, dir string) (Dataset, error) {
	var res Dataset
	srcs, err := m.sources(dir)
	if err != nil {
		return res, err
	}
	slog.Info("Loading inventory files", "dir", dir, "files", len(srcs))

	tables := make([]sheet.Table, len(srcs))
	skipped := make([]*ingerr.SchemaMismatchError, len(srcs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(m.cfg.JobsNum)
	for i, src := range srcs {
		i, src := i, src
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			tbl, err := sheet.Load(m.rdr, src.path)
			var sme *ingerr.SchemaMismatchError
			if errors.As(err, &sme) && m.cfg.SkipBadFiles {
				skipped[i] = sme
				return nil
			}
			if err != nil {
				slog.Error("Cannot load inventory file", "path", src.path, "error", err)
				return err
			}
			tables[i] = tbl
			return nil
		})
	}
	if err = g.Wait(); err != nil {
		return res, err
	}

	for i, src := range srcs {
		if skipped[i] != nil {
			slog.Warn("Skipping inventory file", "path", src.path, "error", skipped[i])
			res.SkippedFiles = append(res.SkippedFiles, skipped[i])
			continue
		}
		rows, warns, rejected := m.normalize(src.tag, tables[i])
		res.Files = append(res.Files, filepath.Base(src.path))
		res.Rows = append(res.Rows, rows...)
		res.Warnings = append(res.Warnings, warns...)
		res.Rejected += rejected
		slog.Info("Loaded inventory file",
			"file", filepath.Base(src.path),
			"rows", humanize.Comma(int64(len(rows))),
		)
	}

	for _, w := range res.Warnings {
		slog.Warn("Cannot normalize value", w.Attrs()...)
	}
	return res, nil
}

func (m *Merger) sources(dir string) ([]source, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &ingerr.IngestError{Dir: dir, Pattern: m.cfg.FilePattern, Err: err}
	}

	var res []source
	// os.ReadDir returns entries sorted by file name.
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		match := m.pattern.FindStringSubmatch(e.Name())
		if match == nil {
			continue
		}
		res = append(res, source{
			path: filepath.Join(dir, e.Name()),
			tag:  match[1],
		})
	}
	if len(res) == 0 {
		return nil, &ingerr.IngestError{
			Dir: dir, Pattern: m.cfg.FilePattern, Err: ingerr.ErrNoFiles,
		}
	}
	return res, nil
}

// normalize converts rows of one table. It returns normalized rows,
// warnings and the number of rejected rows.
func (m *Merger) normalize(
	tag string,
	tbl sheet.Table,
) ([]sheet.Row, []ingerr.NormalizationWarning, int) {
	var rejected int
	var warns []ingerr.NormalizationWarning
	res := make([]sheet.Row, 0, len(tbl.Rows))

	for _, r := range tbl.Rows {
		row, ws, ok := m.normalizeRow(tag, r)
		warns = append(warns, ws...)
		if !ok {
			rejected++
			continue
		}
		res = append(res, row)
	}
	return res, warns, rejected
}

type normFunc func(string) (string, bool)

func (m *Merger) normalizeRow(
	tag string,
	r sheet.Row,
) (sheet.Row, []ingerr.NormalizationWarning, bool) {
	var warns []ingerr.NormalizationWarning
	warn := func(f sheet.Field, raw, val, msg string, rejected bool) {
		warns = append(warns, ingerr.NormalizationWarning{
			File:     r.File,
			Line:     r.Line,
			GUID:     r.GUID,
			Field:    f.String(),
			Raw:      raw,
			Value:    val,
			Message:  msg,
			Rejected: rejected,
		})
	}

	res := r
	switch {
	case r.Study == "":
		res.Study = tag
	case r.Study != tag:
		warn(sheet.Study, r.Study, r.Study, "study differs from file name tag "+tag, false)
	}

	// typed fields go to date and numeric columns, stores refuse
	// anything else.
	rules := []struct {
		field sheet.Field
		fn    normFunc
		typed bool
	}{
		{sheet.ParticipantID, m.nrm.ParticipantID, false},
		{sheet.Visit, m.nrm.Visit, false},
		{sheet.VisitWeek, m.nrm.VisitWeek, false},
		{sheet.DrawDate, m.nrm.DrawDate, true},
		{sheet.Volume, m.nrm.Volume, true},
	}
	var badType bool
	for _, rule := range rules {
		raw := r.Get(rule.field)
		val, ok := rule.fn(raw)
		switch {
		case ok || val == "":
		case rule.typed:
			badType = true
			warn(rule.field, raw, val, "row rejected, value does not fit column type", true)
		default:
			warn(rule.field, raw, val, "non-canonical value", false)
		}
		res.Set(rule.field, val)
	}
	if res.VisitWeek == "" {
		res.VisitWeek = res.Visit
	}

	// values that form natural keys cannot be empty.
	var missing []string
	for _, f := range []sheet.Field{
		sheet.GUID, sheet.ParticipantID, sheet.Visit,
		sheet.DrawDate, sheet.AliquotType, sheet.Volume,
	} {
		if strings.TrimSpace(res.Get(f)) == "" {
			missing = append(missing, f.String())
		}
	}
	if len(missing) > 0 {
		warns = append(warns, ingerr.NormalizationWarning{
			File:     r.File,
			Line:     r.Line,
			GUID:     r.GUID,
			Field:    strings.Join(missing, ","),
			Message:  "row rejected, empty key value",
			Rejected: true,
		})
		return res, warns, false
	}
	return res, warns, !badType
}
