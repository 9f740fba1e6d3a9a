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
	"log/slog"
	"os"

	"github.com/gnames/aliquotdb/pkg/config"
	"github.com/spf13/cobra"
)

// ingestCmd represents the ingest command
var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Loads inventory files into the store",
	Long: `Loads all <study>_aliquot.csv and <study>_aliquot.xlsx files of a
directory, normalizes their values and inserts new studies, participants,
visits, specimens and aliquots in one transaction. If any insert fails,
nothing is saved.`,
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := context.Background()
		ingestFlags(cmd)
		cfg := config.New(opts...)

		adb, snk := prepare(ctx, cfg)
		defer closeSink(snk)

		rep, err := adb.Ingest(ctx, snk)
		if err != nil {
			slog.Error("Cannot ingest inventories", "error", err)
			closeSink(snk)
			os.Exit(1)
		}
		format, _ := cmd.Flags().GetString("format")
		printReport(rep, format)
	},
}

func init() {
	rootCmd.AddCommand(ingestCmd)

	ingestCmd.Flags().StringP("dir", "i", "", "directory with inventory files")
	ingestCmd.Flags().BoolP("skip-bad-files", "s", false,
		"skip files with missing columns instead of aborting")
	ingestCmd.Flags().BoolP("dry-run", "n", false, "normalize and report without saving")
	ingestCmd.Flags().StringP("format", "f", "text", "report format: text or json")
}

func ingestFlags(cmd *cobra.Command) {
	dir, _ := cmd.Flags().GetString("dir")
	if dir != "" {
		opts = append(opts, config.OptInputDir(dir))
	}
	skip, _ := cmd.Flags().GetBool("skip-bad-files")
	if skip {
		opts = append(opts, config.OptSkipBadFiles(true))
	}
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	if dryRun {
		opts = append(opts, config.OptDryRun(true))
	}
}
