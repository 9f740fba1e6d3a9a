// Copyright © 2020 Dmitry Mozzherin <dmozzherin@gmail.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/gnames/aliquotdb/internal/ent/report"
	"github.com/gnames/aliquotdb/internal/ent/sink"
	"github.com/gnames/aliquotdb/internal/io/pgio"
	"github.com/gnames/aliquotdb/internal/io/sheetio"
	"github.com/gnames/aliquotdb/internal/io/sqlio"
	aliquotdb "github.com/gnames/aliquotdb/pkg"
	"github.com/gnames/aliquotdb/pkg/config"
)

// newSink connects to the store selected in the configuration.
func newSink(ctx context.Context, cfg config.Config) (sink.Sink, error) {
	switch cfg.Sink {
	case config.SQLiteSink, config.MySQLSink:
		return sqlio.New(ctx, cfg)
	default:
		return pgio.New(ctx, cfg)
	}
}

// prepare creates AliquotDB and connects to a migrated store, it exits
// on errors. Dry runs get no store.
func prepare(ctx context.Context, cfg config.Config) (aliquotdb.AliquotDB, sink.Sink) {
	adb := aliquotdb.New(cfg, sheetio.New())
	if cfg.DryRun {
		return adb, nil
	}
	snk, err := newSink(ctx, cfg)
	if err != nil {
		slog.Error("Cannot connect to the store", "sink", cfg.Sink, "error", err)
		os.Exit(1)
	}
	if err = adb.Migrate(ctx, snk); err != nil {
		slog.Error("Cannot migrate the store", "error", err)
		closeSink(snk)
		os.Exit(1)
	}
	return adb, snk
}

func closeSink(snk sink.Sink) {
	if snk == nil {
		return
	}
	if err := snk.Close(); err != nil {
		slog.Error("Cannot close the store", "error", err)
	}
}

// printReport writes the report to STDOUT.
func printReport(rep report.Report, format string) {
	f, err := report.NewFormat(format)
	if err != nil {
		slog.Warn("Using text format", "error", err)
	}
	bs, err := rep.Encode(f)
	if err != nil {
		slog.Error("Cannot render report", "error", err)
		os.Exit(1)
	}
	fmt.Println(string(bs))
}
