package pgio

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gnames/aliquotdb/internal/str"
	"github.com/gnames/aliquotdb/pkg/config"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres"
)

func pgxConn(ctx context.Context, cfg config.Config) (*pgxpool.Pool, error) {
	pgxCfg, err := pgxpool.ParseConfig(opts(cfg))
	if err != nil {
		slog.Error("Cannot parse pgx config", "error", err)
		return nil, err
	}
	pgxCfg.MaxConns = int32(max(cfg.JobsNum, 2))

	db, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		slog.Error("Cannot connect to database", "error", err)
		return nil, err
	}
	if err = db.Ping(ctx); err != nil {
		db.Close()
		slog.Error("Cannot reach database", "host", cfg.PgHost, "error", err)
		return nil, err
	}
	return db, nil
}

func gormConn(cfg config.Config) (*gorm.DB, error) {
	db, err := gorm.Open("postgres", opts(cfg))
	if err != nil {
		slog.Error("Cannot connect to database", "error", err)
		return nil, err
	}
	return db, nil
}

func opts(cfg config.Config) string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.PgHost, cfg.PgPort, cfg.PgUser, str.QuoteDSN(cfg.PgPass), cfg.PgDB,
	)
}
