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

// altidsCmd represents the altids command
var altidsCmd = &cobra.Command{
	Use:   "altids FILE.xlsx",
	Short: "Loads alternative participant IDs from a workbook",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		if s, _ := cmd.Flags().GetString("sheet"); s != "" {
			opts = append(opts, config.OptAltIDSheet(s))
		}
		if k, _ := cmd.Flags().GetString("key"); k != "" {
			opts = append(opts, config.OptAltIDKeyColumn(k))
		}
		if dryRun, _ := cmd.Flags().GetBool("dry-run"); dryRun {
			opts = append(opts, config.OptDryRun(true))
		}
		cfg := config.New(opts...)

		adb, snk := prepare(ctx, cfg)
		defer closeSink(snk)

		rep, err := adb.ImportAltIDs(ctx, snk, args[0])
		if err != nil {
			slog.Error("Cannot import alternative IDs", "path", args[0], "error", err)
			closeSink(snk)
			os.Exit(1)
		}
		format, _ := cmd.Flags().GetString("format")
		printReport(rep, format)
	},
}

func init() {
	rootCmd.AddCommand(altidsCmd)

	altidsCmd.Flags().String("sheet", "", "sheet with alternative IDs")
	altidsCmd.Flags().String("key", "", "column with root study participant IDs")
	altidsCmd.Flags().BoolP("dry-run", "n", false, "map and report without saving")
	altidsCmd.Flags().StringP("format", "f", "text", "report format: text or json")
}
