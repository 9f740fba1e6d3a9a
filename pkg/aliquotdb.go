package aliquotdb

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dustin/go-humanize"
	"github.com/gnames/aliquotdb/internal/ent/altid"
	"github.com/gnames/aliquotdb/internal/ent/classifier"
	"github.com/gnames/aliquotdb/internal/ent/extract"
	"github.com/gnames/aliquotdb/internal/ent/ingerr"
	"github.com/gnames/aliquotdb/internal/ent/inventory"
	"github.com/gnames/aliquotdb/internal/ent/report"
	"github.com/gnames/aliquotdb/internal/ent/sheet"
	"github.com/gnames/aliquotdb/internal/ent/sink"
	"github.com/gnames/aliquotdb/pkg/config"
	"github.com/gnames/aliquotdb/pkg/ent/model"
)

// ErrNoSink is returned when a command that writes data gets no store.
var ErrNoSink = errors.New("no store to write to")

// aliquotdb is an implementation of AliquotDB interface.
type aliquotdb struct {
	cfg config.Config
	rdr sheet.Reader
}

// New creates a new instance of AliquotDB.
func New(cfg config.Config, rdr sheet.Reader) AliquotDB {
	res := aliquotdb{
		cfg: cfg,
		rdr: rdr,
	}
	return &res
}

// Migrate creates tables of the store.
func (a *aliquotdb) Migrate(ctx context.Context, snk sink.Sink) error {
	if snk == nil {
		return ErrNoSink
	}
	return snk.Migrate(ctx)
}

// Ingest merges inventory files and saves them to the store.
func (a *aliquotdb) Ingest(ctx context.Context, snk sink.Sink) (report.Report, error) {
	rep := report.New("ingest")
	rep.DryRun = a.cfg.DryRun

	m, err := inventory.New(a.cfg, a.rdr)
	if err != nil {
		return rep, err
	}
	ds, err := m.Merge(ctx, a.cfg.InputDir)
	if err != nil {
		slog.Error("Cannot merge inventory files", "dir", a.cfg.InputDir, "error", err)
		return rep, err
	}

	rep.Files = ds.Files
	for _, e := range ds.SkippedFiles {
		rep.SkippedFiles = append(rep.SkippedFiles, e.Error())
	}
	rep.Rows = len(ds.Rows)
	rep.RejectedRows = ds.Rejected
	for _, w := range ds.Warnings {
		rep.AddWarnings(warnedKind(w), w)
	}
	rep.Fingerprint = report.Fingerprint(ds.GUIDs())

	batches := extract.Batches(ds.Rows, a.cfg.RootStudy)
	if a.cfg.DryRun {
		for _, b := range batches {
			rep.AddPrepared(b.Kind, b.Len())
		}
		return rep, nil
	}

	err = a.save(ctx, snk, &rep, batches...)
	return rep, err
}

// ImportAltIDs saves alternative participant IDs.
func (a *aliquotdb) ImportAltIDs(
	ctx context.Context,
	snk sink.Sink,
	path string,
) (report.Report, error) {
	rep := report.New("altids")
	rep.DryRun = a.cfg.DryRun
	recs, err := a.rdr.ReadSheet(path, a.cfg.AltIDSheet)
	if err != nil {
		return rep, err
	}
	ids, err := altid.Map(path, recs, altid.Options{
		InitStudy: a.cfg.RootStudy,
		KeyColumn: a.cfg.AltIDKeyColumn,
		Suffix:    a.cfg.AltIDSuffix,
	})
	if err != nil {
		slog.Error("Cannot map alternative IDs", "path", path, "error", err)
		return rep, err
	}
	b := model.NewBatch(model.AltIDKind, ids)
	if a.cfg.DryRun {
		rep.AddPrepared(b.Kind, b.Len())
		return rep, nil
	}
	err = a.save(ctx, snk, &rep, b)
	return rep, err
}

// ImportClassifiers saves participant classifiers.
func (a *aliquotdb) ImportClassifiers(
	ctx context.Context,
	snk sink.Sink,
	path string,
) (report.Report, error) {
	rep := report.New("classifiers")
	rep.DryRun = a.cfg.DryRun
	recs, err := a.rdr.Read(path)
	if err != nil {
		return rep, err
	}
	gcs, warns, err := classifier.Map(path, recs)
	if err != nil {
		slog.Error("Cannot map classifiers", "path", path, "error", err)
		return rep, err
	}
	for _, w := range warns {
		slog.Warn("Cannot normalize value", w.Attrs()...)
	}
	rep.AddWarnings(model.GeneralClassifierKind, warns...)
	b := model.NewBatch(model.GeneralClassifierKind, gcs)
	if a.cfg.DryRun {
		rep.AddPrepared(b.Kind, b.Len())
		return rep, nil
	}
	err = a.save(ctx, snk, &rep, b)
	return rep, err
}

// warnedKinds map inventory fields to tables that keep their values.
var warnedKinds = map[string]model.Kind{
	sheet.Study.String():         model.StudyKind,
	sheet.ParticipantID.String(): model.ParticipantKind,
	sheet.Visit.String():         model.VisitKind,
	sheet.VisitWeek.String():     model.VisitKind,
	sheet.DrawDate.String():      model.SpecimenKind,
	sheet.AliquotType.String():   model.SpecimenKind,
	sheet.Volume.String():        model.SpecimenKind,
	sheet.Unit.String():          model.SpecimenKind,
	sheet.GUID.String():          model.AliquotKind,
}

// warnedKind returns the table a warning is about. A rejected row is
// an aliquot that did not make it to the store.
func warnedKind(w ingerr.NormalizationWarning) model.Kind {
	if k, ok := warnedKinds[w.Field]; ok && !w.Rejected {
		return k
	}
	return model.AliquotKind
}

type saved struct {
	kind     model.Kind
	records  int
	inserted int64
}

// save upserts batches in one transaction. Counts get to the report only
// after the commit.
func (a *aliquotdb) save(
	ctx context.Context,
	snk sink.Sink,
	rep *report.Report,
	batches ...model.Batch,
) error {
	if snk == nil {
		return ErrNoSink
	}

	var res []saved
	err := snk.InTx(ctx, func(up sink.Upserter) error {
		for _, b := range batches {
			n, err := up.Upsert(ctx, b)
			if err != nil {
				return err
			}
			slog.Info("Saved records",
				"table", b.Kind.Table(),
				"records", humanize.Comma(int64(b.Len())),
				"inserted", humanize.Comma(n),
			)
			res = append(res, saved{kind: b.Kind, records: b.Len(), inserted: n})
		}
		return nil
	})
	if err != nil {
		slog.Error("Cannot save records, nothing was committed", "error", err)
		return err
	}

	for _, s := range res {
		rep.Add(s.kind, s.records, s.inserted)
		total, err := snk.Count(ctx, s.kind)
		if err != nil {
			return err
		}
		rep.SetTotal(s.kind, total)
	}
	return nil
}
