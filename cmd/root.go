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
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	aliquotdb "github.com/gnames/aliquotdb/pkg"
	"github.com/gnames/aliquotdb/pkg/config"
	"github.com/gnames/gnsys"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

//go:embed aliquotdb.yaml
var configText string

var (
	opts []config.Option
)

type cfgData struct {
	InputDir       string
	FilePattern    string
	SkipBadFiles   bool
	RootStudy      string
	IDMarkers      string
	DefaultMarker  string
	LegacyPrefix   string
	VisitMarker    string
	WeekMarker     string
	AltIDSheet     string
	AltIDKeyColumn string
	AltIDSuffix    string
	Sink           string
	JobsNum        int
	BatchSize      int
	PgHost         string
	PgPort         int
	PgUser         string
	PgPass         string
	PgDB           string
	SQLitePath     string
	MyHost         string
	MyPort         int
	MyUser         string
	MyPass         string
	MyDB           string
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "aliquotdb",
	Short: "Loads laboratory aliquot inventories into a relational database",
	Long: `aliquotdb reads per-study aliquot inventory spreadsheets (CSV or XLSX),
normalizes participant IDs, visits and dates, and inserts new studies,
participants, visits, specimens and aliquots into PostgreSQL, SQLite or
MySQL. Existing records are never changed, so runs can be repeated.

Settings are kept in ~/.config/aliquotdb.yaml and can be overridden by
ALIQUOTDB_* environment variables.`,
	Run: func(cmd *cobra.Command, args []string) {
		version, err := cmd.Flags().GetBool("version")
		if err != nil {
			slog.Error("Cannot get flag", "error", err)
			os.Exit(1)
		}
		if version {
			fmt.Printf("\nversion: %s\nbuild: %s\n\n", aliquotdb.Version, aliquotdb.Build)
			os.Exit(0)
		}

		if len(args) == 0 {
			_ = cmd.Help()
			os.Exit(0)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.Flags().BoolP("version", "V", false, "Returns version and build date")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "Shows debug messages")
}

func initLogger(debug bool) {
	lvl := slog.LevelInfo
	if debug {
		lvl = slog.LevelDebug
	}
	handler := tint.NewHandler(os.Stderr, &tint.Options{
		Level:      lvl,
		TimeFormat: time.Kitchen,
	})
	slog.SetDefault(slog.New(handler))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	var err error
	debug, _ := rootCmd.PersistentFlags().GetBool("debug")
	initLogger(debug)

	var homeDir, cfgDir string
	configFile := "aliquotdb"

	// Find home directory.
	homeDir, err = os.UserHomeDir()
	if err != nil {
		slog.Error("Cannot find home dir", "error", err)
		os.Exit(1)
	}
	cfgDir = filepath.Join(homeDir, ".config")

	// Search config in home directory with name "aliquotdb" (without extension).
	viper.AddConfigPath(cfgDir)
	viper.SetConfigName(configFile)
	viper.SetEnvPrefix("ALIQUOTDB")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, k := range envKeys {
		_ = viper.BindEnv(k)
	}

	configPath := filepath.Join(cfgDir, fmt.Sprintf("%s.yaml", configFile))
	touchConfigFile(configPath)

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		slog.Error("Config file aliquotdb.yaml not found", "error", err)
		os.Exit(1)
	}
	getOpts()
}

// envKeys can be set by ALIQUOTDB_<KEY> environment variables.
var envKeys = []string{
	"InputDir", "Sink", "PgHost", "PgPort", "PgUser", "PgPass", "PgDB",
	"SQLitePath", "MyHost", "MyPort", "MyUser", "MyPass", "MyDB",
}

// getOpts imports data from the configuration file. Some of the settings can
// be overriden by command line flags.
func getOpts() []config.Option {
	cfg := cfgData{}
	err := viper.Unmarshal(&cfg)
	if err != nil {
		slog.Error("Cannot unmarshal config file", "error", err)
	}

	strOpts := []struct {
		val string
		opt func(string) config.Option
	}{
		{cfg.InputDir, config.OptInputDir},
		{cfg.FilePattern, config.OptFilePattern},
		{cfg.RootStudy, config.OptRootStudy},
		{cfg.IDMarkers, config.OptIDMarkers},
		{cfg.DefaultMarker, config.OptDefaultMarker},
		{cfg.LegacyPrefix, config.OptLegacyPrefix},
		{cfg.VisitMarker, config.OptVisitMarker},
		{cfg.WeekMarker, config.OptWeekMarker},
		{cfg.AltIDSheet, config.OptAltIDSheet},
		{cfg.AltIDKeyColumn, config.OptAltIDKeyColumn},
		{cfg.AltIDSuffix, config.OptAltIDSuffix},
		{cfg.Sink, config.OptSink},
		{cfg.PgHost, config.OptPgHost},
		{cfg.PgUser, config.OptPgUser},
		{cfg.PgPass, config.OptPgPass},
		{cfg.PgDB, config.OptPgDB},
		{cfg.SQLitePath, config.OptSQLitePath},
		{cfg.MyHost, config.OptMyHost},
		{cfg.MyUser, config.OptMyUser},
		{cfg.MyPass, config.OptMyPass},
		{cfg.MyDB, config.OptMyDB},
	}
	for _, o := range strOpts {
		if o.val != "" {
			opts = append(opts, o.opt(o.val))
		}
	}

	if cfg.SkipBadFiles {
		opts = append(opts, config.OptSkipBadFiles(true))
	}
	if cfg.JobsNum != 0 {
		opts = append(opts, config.OptJobsNum(cfg.JobsNum))
	}
	if cfg.BatchSize != 0 {
		opts = append(opts, config.OptBatchSize(cfg.BatchSize))
	}
	if cfg.PgPort != 0 {
		opts = append(opts, config.OptPgPort(cfg.PgPort))
	}
	if cfg.MyPort != 0 {
		opts = append(opts, config.OptMyPort(cfg.MyPort))
	}
	return opts
}

// touchConfigFile checks if config file exists, and if not, it gets created.
func touchConfigFile(configPath string) {
	fileExists, _ := gnsys.FileExists(configPath)
	if fileExists {
		return
	}

	slog.Info("Creating config file", "path", configPath)
	createConfig(configPath)
}

// createConfig creates config file.
func createConfig(path string) {
	err := gnsys.MakeDir(filepath.Dir(path))
	if err != nil {
		slog.Error("Cannot create config dir", "error", err)
		os.Exit(1)
	}

	err = os.WriteFile(path, []byte(configText), 0644)
	if err != nil {
		slog.Error("Cannot write to config file", "error", err)
		os.Exit(1)
	}
}
