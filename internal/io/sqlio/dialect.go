package sqlio

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gnames/aliquotdb/pkg/config"
	"github.com/gnames/aliquotdb/pkg/ent/model"
	"github.com/go-sql-driver/mysql"
)

type dialect struct {
	driver    string
	maxParams int
	today     string
	json      string
}

var dialects = map[config.SinkType]dialect{
	config.SQLiteSink: {
		driver:    "sqlite",
		maxParams: 32_766,
		today:     "CURRENT_DATE",
		json:      "TEXT",
	},
	config.MySQLSink: {
		driver:    "mysql",
		maxParams: 65_535,
		today:     "(CURRENT_DATE)",
		json:      "JSON",
	},
}

func dialectFor(st config.SinkType) (dialect, error) {
	d, ok := dialects[st]
	if !ok {
		return d, fmt.Errorf("sink %q is not supported by sqlio", st)
	}
	return d, nil
}

func dsn(cfg config.Config) string {
	switch cfg.Sink {
	case config.MySQLSink:
		myCfg := mysql.NewConfig()
		myCfg.User = cfg.MyUser
		myCfg.Passwd = cfg.MyPass
		myCfg.Net = "tcp"
		myCfg.Addr = cfg.MyHost + ":" + strconv.Itoa(cfg.MyPort)
		myCfg.DBName = cfg.MyDB
		return myCfg.FormatDSN()
	default:
		return cfg.SQLitePath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	}
}

// upsertQuery creates a multi-row INSERT that skips rows which conflict
// with existing records.
func (d dialect) upsertQuery(b model.Batch) (string, []any) {
	cols := b.Kind.Columns()
	ph := "(" + strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ") + ")"
	values := make([]string, b.Len())
	args := make([]any, 0, len(cols)*b.Len())
	for i, row := range b.Rows {
		values[i] = ph
		args = append(args, row...)
	}

	q := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s",
		b.Kind.Table(), strings.Join(cols, ", "), strings.Join(values, ", "))
	key := b.Kind.ConflictKey()
	if d.driver == "mysql" {
		// no-op update keeps the row count of duplicates at zero.
		return q + fmt.Sprintf(" ON DUPLICATE KEY UPDATE %s = %s", key[0], key[0]), args
	}
	return q + " ON CONFLICT (" + strings.Join(key, ", ") + ") DO NOTHING", args
}
