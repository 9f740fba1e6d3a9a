// Package sqlio implements sink.Sink for SQLite and MySQL.
package sqlio

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/gnames/aliquotdb/internal/ent/sink"
	"github.com/gnames/aliquotdb/pkg/config"
	"github.com/gnames/aliquotdb/pkg/ent/model"
	"github.com/gnames/gnsys"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

type sqlio struct {
	db        *sqlx.DB
	dlct      dialect
	batchSize int
}

// New opens a SQLite or MySQL database according to the configuration.
func New(ctx context.Context, cfg config.Config) (sink.Sink, error) {
	dlct, err := dialectFor(cfg.Sink)
	if err != nil {
		return nil, err
	}
	if cfg.Sink == config.SQLiteSink {
		if err = gnsys.MakeDir(filepath.Dir(cfg.SQLitePath)); err != nil {
			slog.Error("Cannot create database dir", "path", cfg.SQLitePath, "error", err)
			return nil, err
		}
	}

	db, err := sqlx.Open(dlct.driver, dsn(cfg))
	if err != nil {
		slog.Error("Cannot open database", "driver", dlct.driver, "error", err)
		return nil, err
	}
	if cfg.Sink == config.SQLiteSink {
		// one writer, also keeps in-memory databases alive.
		db.SetMaxOpenConns(1)
	}
	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		slog.Error("Cannot reach database", "driver", dlct.driver, "error", err)
		return nil, err
	}
	return NewWithDB(db, cfg)
}

// NewWithDB creates a Sink from an open database handle.
func NewWithDB(db *sqlx.DB, cfg config.Config) (sink.Sink, error) {
	dlct, err := dialectFor(cfg.Sink)
	if err != nil {
		return nil, err
	}
	res := sqlio{db: db, dlct: dlct, batchSize: cfg.BatchSize}
	return &res, nil
}

// Migrate creates missing tables.
func (s *sqlio) Migrate(ctx context.Context) error {
	slog.Info("Running database migrations", "driver", s.dlct.driver)
	for _, q := range s.dlct.schema() {
		if _, err := s.db.ExecContext(ctx, q); err != nil {
			slog.Error("Cannot migrate database", "error", err)
			return err
		}
	}
	slog.Info("Database migrations completed")
	return nil
}

// InTx runs fn in a transaction.
func (s *sqlio) InTx(ctx context.Context, fn func(sink.Upserter) error) (err error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		slog.Error("Cannot start transaction", "error", err)
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback()
			panic(r)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				slog.Error("Cannot roll back transaction", "error", rbErr)
			}
			return
		}
		if err = tx.Commit(); err != nil {
			slog.Error("Cannot commit transaction", "error", err)
		}
	}()

	return fn(&upserter{tx: tx, dlct: s.dlct, batchSize: s.batchSize})
}

// Count returns the number of rows in the table of a kind.
func (s *sqlio) Count(ctx context.Context, k model.Kind) (int64, error) {
	var res int64
	if err := s.db.GetContext(ctx, &res, "SELECT COUNT(*) FROM "+k.Table()); err != nil {
		slog.Error("Cannot count rows", "table", k.Table(), "error", err)
		return 0, err
	}
	return res, nil
}

// Close closes the database.
func (s *sqlio) Close() error {
	return s.db.Close()
}

type upserter struct {
	tx        *sqlx.Tx
	dlct      dialect
	batchSize int
}

// Upsert inserts rows in chunks, skipping conflicts on the natural key.
func (u *upserter) Upsert(ctx context.Context, b model.Batch) (int64, error) {
	var res int64
	if b.Len() == 0 {
		return 0, nil
	}
	size := min(u.batchSize, u.dlct.maxParams/len(b.Kind.Columns()))
	for _, chunk := range b.Chunks(size) {
		q, args := u.dlct.upsertQuery(chunk)
		r, err := u.tx.ExecContext(ctx, u.tx.Rebind(q), args...)
		if err != nil {
			slog.Error("Cannot insert rows", "table", b.Kind.Table(), "error", err)
			return res, fmt.Errorf("upsert %s: %w", b.Kind, err)
		}
		n, err := r.RowsAffected()
		if err != nil {
			return res, err
		}
		res += n
	}
	return res, nil
}
