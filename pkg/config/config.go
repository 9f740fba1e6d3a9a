package config

import (
	"os"
	"path/filepath"
)

// SinkType is a kind of relational store that receives ingested records.
type SinkType string

const (
	PostgresSink SinkType = "postgres"
	SQLiteSink   SinkType = "sqlite"
	MySQLSink    SinkType = "mysql"
)

// Config is a struct that holds configuration parameters for the package.
type Config struct {
	// InputDir is a directory with inventory files.
	InputDir string

	// FilePattern is a regular expression for inventory file names. Its
	// first capture group is the study tag.
	FilePattern string

	// SkipBadFiles allows to skip files with missing required columns
	// instead of aborting the run.
	SkipBadFiles bool

	// DryRun stops ingestion before anything is written to the store.
	DryRun bool

	// RootStudy is the study that is a parent of all other studies and
	// the initial study of alternative IDs.
	RootStudy string

	// IDMarkers are characters that can start a participant ID.
	IDMarkers string

	// DefaultMarker is prepended to participant IDs without a marker.
	DefaultMarker string

	// LegacyPrefix is a regular expression of an obsolete participant ID
	// prefix that is removed during normalization.
	LegacyPrefix string

	// VisitMarker is removed from the start of a visit code.
	VisitMarker string

	// WeekMarker is removed from visit week values ignoring case.
	WeekMarker string

	// AltIDSheet is the sheet name of the alternative IDs workbook.
	AltIDSheet string

	// AltIDKeyColumn is the column with participant IDs of the root study.
	AltIDKeyColumn string

	// AltIDSuffix is removed from column names to get study names.
	AltIDSuffix string

	// Sink is the relational store type.
	Sink SinkType

	// JobsNum is a number of concurrent goroutines.
	JobsNum int

	// BatchSize is a maximal number of rows in one INSERT statement.
	BatchSize int

	// PgHost is a host name for PostgreSQL.
	PgHost string

	// PgPort is a port for PostgreSQL.
	PgPort int

	// PgUser is a user name for PostgreSQL.
	PgUser string

	// PgPass is a password for PostgreSQL.
	PgPass string

	// PgDB is a database name for PostgreSQL.
	PgDB string

	// SQLitePath is a path to SQLite database file.
	SQLitePath string

	// MyHost is a host name for MySQL.
	MyHost string

	// MyPort is a port for MySQL.
	MyPort int

	// MyUser is a user name for MySQL.
	MyUser string

	// MyPass is a password for MySQL.
	MyPass string

	// MyDB is a database name for MySQL.
	MyDB string
}

// Option type allows to change settings for Config.
type Option func(*Config)

// OptInputDir sets a directory with inventory files.
func OptInputDir(d string) Option {
	return func(cfg *Config) {
		cfg.InputDir = d
	}
}

// OptFilePattern sets a regular expression for inventory file names.
func OptFilePattern(p string) Option {
	return func(cfg *Config) {
		cfg.FilePattern = p
	}
}

// OptSkipBadFiles sets policy for files with missing columns.
func OptSkipBadFiles(b bool) Option {
	return func(cfg *Config) {
		cfg.SkipBadFiles = b
	}
}

// OptDryRun prevents writing to the store.
func OptDryRun(b bool) Option {
	return func(cfg *Config) {
		cfg.DryRun = b
	}
}

// OptRootStudy sets the root study.
func OptRootStudy(s string) Option {
	return func(cfg *Config) {
		cfg.RootStudy = s
	}
}

// OptIDMarkers sets allowed participant ID markers.
func OptIDMarkers(s string) Option {
	return func(cfg *Config) {
		cfg.IDMarkers = s
	}
}

// OptDefaultMarker sets the participant ID marker used when there is none.
func OptDefaultMarker(s string) Option {
	return func(cfg *Config) {
		cfg.DefaultMarker = s
	}
}

// OptLegacyPrefix sets obsolete participant ID prefix.
func OptLegacyPrefix(s string) Option {
	return func(cfg *Config) {
		cfg.LegacyPrefix = s
	}
}

// OptVisitMarker sets visit marker.
func OptVisitMarker(s string) Option {
	return func(cfg *Config) {
		cfg.VisitMarker = s
	}
}

// OptWeekMarker sets visit week marker.
func OptWeekMarker(s string) Option {
	return func(cfg *Config) {
		cfg.WeekMarker = s
	}
}

// OptAltIDSheet sets the sheet name of alternative IDs workbook.
func OptAltIDSheet(s string) Option {
	return func(cfg *Config) {
		cfg.AltIDSheet = s
	}
}

// OptAltIDKeyColumn sets the column with root study participant IDs.
func OptAltIDKeyColumn(s string) Option {
	return func(cfg *Config) {
		cfg.AltIDKeyColumn = s
	}
}

// OptAltIDSuffix sets the suffix of alternative IDs column names.
func OptAltIDSuffix(s string) Option {
	return func(cfg *Config) {
		cfg.AltIDSuffix = s
	}
}

// OptSink sets the type of the relational store. Unknown types are
// ignored.
func OptSink(s string) Option {
	return func(cfg *Config) {
		switch st := SinkType(s); st {
		case PostgresSink, SQLiteSink, MySQLSink:
			cfg.Sink = st
		}
	}
}

// OptJobsNum sets parallelism number for concurrent goroutines.
func OptJobsNum(j int) Option {
	return func(cfg *Config) {
		cfg.JobsNum = j
	}
}

// OptBatchSize sets the maximal number of rows in one INSERT statement.
func OptBatchSize(i int) Option {
	return func(cfg *Config) {
		cfg.BatchSize = i
	}
}

// OptPgHost sets host name for PostgreSQL
func OptPgHost(h string) Option {
	return func(cfg *Config) {
		cfg.PgHost = h
	}
}

// OptPgPort sets port for PostgreSQL
func OptPgPort(p int) Option {
	return func(cfg *Config) {
		cfg.PgPort = p
	}
}

// OptPgUser sets user for PostgreSQL
func OptPgUser(u string) Option {
	return func(cfg *Config) {
		cfg.PgUser = u
	}
}

// OptPgPass sets password for PostgreSQL
func OptPgPass(p string) Option {
	return func(cfg *Config) {
		cfg.PgPass = p
	}
}

// OptPgDB sets database name for PostgreSQL
func OptPgDB(d string) Option {
	return func(cfg *Config) {
		cfg.PgDB = d
	}
}

// OptSQLitePath sets the path to SQLite database file.
func OptSQLitePath(p string) Option {
	return func(cfg *Config) {
		cfg.SQLitePath = p
	}
}

// OptMyHost sets host for MySQL
func OptMyHost(h string) Option {
	return func(cfg *Config) {
		cfg.MyHost = h
	}
}

// OptMyPort sets port for MySQL
func OptMyPort(p int) Option {
	return func(cfg *Config) {
		cfg.MyPort = p
	}
}

// OptMyUser sets user for MySQL
func OptMyUser(u string) Option {
	return func(cfg *Config) {
		cfg.MyUser = u
	}
}

// OptMyPass sets password for MySQL
func OptMyPass(p string) Option {
	return func(cfg *Config) {
		cfg.MyPass = p
	}
}

// OptMyDB sets database name for MySQL
func OptMyDB(d string) Option {
	return func(cfg *Config) {
		cfg.MyDB = d
	}
}

// New creates Config with default settings modified by options.
func New(opts ...Option) Config {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		cacheDir = os.TempDir()
	}
	cacheDir = filepath.Join(cacheDir, "aliquotdb")

	res := Config{
		InputDir:       ".",
		FilePattern:    `^(.+)_aliquot\.(csv|xlsx)$`,
		RootStudy:      "RV254",
		IDMarkers:      "PTS",
		DefaultMarker:  "P",
		LegacyPrefix:   `^397-01-`,
		VisitMarker:    "V",
		WeekMarker:     "Wk",
		AltIDSheet:     "sub_id_jvs",
		AltIDKeyColumn: "RV254_ID",
		AltIDSuffix:    "_ID",
		Sink:           PostgresSink,
		JobsNum:        4,
		BatchSize:      5_000,
		PgHost:         "0.0.0.0",
		PgPort:         5432,
		PgUser:         "postgres",
		PgPass:         "postgres",
		PgDB:           "aliquotdb",
		SQLitePath:     filepath.Join(cacheDir, "aliquotdb.sqlite"),
		MyHost:         "127.0.0.1",
		MyPort:         3306,
		MyUser:         "root",
		MyDB:           "aliquotdb",
	}

	for _, opt := range opts {
		opt(&res)
	}

	if res.JobsNum < 1 {
		res.JobsNum = 1
	}
	if res.BatchSize < 1 {
		res.BatchSize = 1
	}

	return res
}
