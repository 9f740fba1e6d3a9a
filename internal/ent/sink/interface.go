package sink

import (
	"context"

	"github.com/gnames/aliquotdb/pkg/ent/model"
)

// Sink is a relational store for entity records.
type Sink interface {
	// Migrate creates tables, keys and indices if they do not exist.
	Migrate(ctx context.Context) error

	// InTx runs fn in one transaction. The transaction is committed if fn
	// returns nil and rolled back otherwise, including on panic.
	InTx(ctx context.Context, fn func(Upserter) error) error

	// Count returns the number of records of a kind in the store.
	Count(ctx context.Context, k model.Kind) (int64, error)

	// Close releases connections to the store.
	Close() error
}

// Upserter inserts records that are not in the store yet.
type Upserter interface {
	// Upsert inserts rows of the batch, rows that conflict with existing
	// records on the natural key are skipped. It returns the number of
	// inserted rows.
	Upsert(ctx context.Context, b model.Batch) (int64, error)
}
