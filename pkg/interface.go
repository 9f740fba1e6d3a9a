package aliquotdb

import (
	"context"

	"github.com/gnames/aliquotdb/internal/ent/report"
	"github.com/gnames/aliquotdb/internal/ent/sink"
)

// AliquotDB loads laboratory inventories into a relational store.
type AliquotDB interface {
	// Migrate creates tables of the store.
	Migrate(ctx context.Context, snk sink.Sink) error

	// Ingest merges inventory files of the input directory and inserts
	// new studies, participants, visits, specimens and aliquots in one
	// transaction. The sink can be nil for a dry run.
	Ingest(ctx context.Context, snk sink.Sink) (report.Report, error)

	// ImportAltIDs inserts alternative participant IDs from a workbook.
	ImportAltIDs(ctx context.Context, snk sink.Sink, path string) (report.Report, error)

	// ImportClassifiers inserts participant classifiers from a table.
	ImportClassifiers(ctx context.Context, snk sink.Sink, path string) (report.Report, error)
}
