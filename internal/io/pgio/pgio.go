// Package pgio implements sink.Sink for PostgreSQL.
package pgio

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gnames/aliquotdb/internal/ent/sink"
	"github.com/gnames/aliquotdb/pkg/config"
	"github.com/gnames/aliquotdb/pkg/ent/model"
	"github.com/gnames/aliquotdb/pkg/io/modelio"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// maxParams is the limit of bind parameters in one PostgreSQL statement.
const maxParams = 65_535

type pgio struct {
	db  *pgxpool.Pool
	cfg config.Config
}

// New connects to PostgreSQL and returns a Sink.
func New(ctx context.Context, cfg config.Config) (sink.Sink, error) {
	db, err := pgxConn(ctx, cfg)
	if err != nil {
		return nil, err
	}
	res := pgio{db: db, cfg: cfg}
	return &res, nil
}

// Migrate creates tables with gorm and adds foreign keys that gorm does
// not manage.
func (p *pgio) Migrate(ctx context.Context) error {
	grm, err := gormConn(p.cfg)
	if err != nil {
		return err
	}
	defer grm.Close()

	slog.Info("Running database migrations")
	if err = modelio.New(grm).Migrate(); err != nil {
		slog.Error("Cannot migrate database", "error", err)
		return err
	}
	if err = p.addForeignKeys(ctx); err != nil {
		return err
	}
	slog.Info("Database migrations completed")
	return nil
}

// InTx runs fn in a transaction.
func (p *pgio) InTx(ctx context.Context, fn func(sink.Upserter) error) (err error) {
	tx, err := p.db.Begin(ctx)
	if err != nil {
		slog.Error("Cannot start transaction", "error", err)
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback(ctx)
			panic(r)
		}
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				slog.Error("Cannot roll back transaction", "error", rbErr)
			}
			return
		}
		if err = tx.Commit(ctx); err != nil {
			slog.Error("Cannot commit transaction", "error", err)
		}
	}()

	return fn(&upserter{tx: tx, batchSize: p.cfg.BatchSize})
}

// Count returns the number of rows in the table of a kind.
func (p *pgio) Count(ctx context.Context, k model.Kind) (int64, error) {
	var res int64
	q := "SELECT count(*) FROM " + pgx.Identifier{k.Table()}.Sanitize()
	if err := p.db.QueryRow(ctx, q).Scan(&res); err != nil {
		slog.Error("Cannot count rows", "table", k.Table(), "error", err)
		return 0, err
	}
	return res, nil
}

// Close closes the connection pool.
func (p *pgio) Close() error {
	p.db.Close()
	return nil
}

type upserter struct {
	tx        pgx.Tx
	batchSize int
}

// Upsert inserts rows in chunks, skipping conflicts on the natural key.
func (u *upserter) Upsert(ctx context.Context, b model.Batch) (int64, error) {
	var res int64
	if b.Len() == 0 {
		return 0, nil
	}
	size := min(u.batchSize, maxParams/len(b.Kind.Columns()))
	for _, chunk := range b.Chunks(size) {
		q, args := upsertQuery(chunk)
		tag, err := u.tx.Exec(ctx, q, args...)
		if err != nil {
			slog.Error("Cannot insert rows", "table", b.Kind.Table(), "error", err)
			return res, fmt.Errorf("upsert %s: %w", b.Kind, err)
		}
		res += tag.RowsAffected()
	}
	return res, nil
}

// upsertQuery creates a multi-row INSERT that skips rows which conflict
// with existing records.
func upsertQuery(b model.Batch) (string, []any) {
	cols := b.Kind.Columns()
	args := make([]any, 0, len(cols)*b.Len())
	values := make([]string, b.Len())

	var n int
	ph := make([]string, len(cols))
	for i, row := range b.Rows {
		for j := range cols {
			n++
			ph[j] = fmt.Sprintf("$%d", n)
		}
		values[i] = "(" + strings.Join(ph, ", ") + ")"
		args = append(args, row...)
	}

	q := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES %s ON CONFLICT (%s) DO NOTHING",
		pgx.Identifier{b.Kind.Table()}.Sanitize(),
		identifiers(cols),
		strings.Join(values, ", "),
		identifiers(b.Kind.ConflictKey()),
	)
	return q, args
}

func identifiers(names []string) string {
	res := make([]string, len(names))
	for i, n := range names {
		res[i] = pgx.Identifier{n}.Sanitize()
	}
	return strings.Join(res, ", ")
}
