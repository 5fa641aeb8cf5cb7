// internal/config/validator.go
//
// Config validation on go-playground/validator.
//
// Context
// -------
// Field tags in model.go cover presence, ranges, and `hostname_port`.  The
// database block needs cross-field checks that tags cannot express, so it
// gets a struct-level rule:
//
//   • mysql   – the DSN, with `{password}` substituted, must parse with
//               go-sql-driver/mysql’s ParseDSN.
//   • sqlite3 – the DSN must name a file or `:memory:`.
//   • max_idle may not exceed max_open.
//
// Notes
// -----
//   • Runs after secrets are resolved and paths anchored.
//   • Oxford commas, two spaces after periods.

package config

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-sql-driver/mysql"

	"github.com/yanizio/anime-catalog/internal/database"
)

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New()
	val.RegisterStructValidation(databaseRules, Database{})
	return val
}

// databaseRules is the struct-level check for the database section.
func databaseRules(sl validator.StructLevel) {
	d := sl.Current().Interface().(Database)

	switch d.Driver {
	case "mysql":
		if _, err := mysql.ParseDSN(d.ConnString()); err != nil {
			sl.ReportError(d.DSN, "DSN", "DSN", "mysql_dsn", "")
		}
	case "sqlite3":
		if database.SQLiteFile(d.DSN) == "" && !strings.Contains(d.DSN, ":memory:") {
			sl.ReportError(d.DSN, "DSN", "DSN", "sqlite_dsn", "")
		}
	}

	if d.MaxOpen > 0 && d.MaxIdle > d.MaxOpen {
		sl.ReportError(d.MaxIdle, "MaxIdle", "MaxIdle", "ltefield", "MaxOpen")
	}
}

// validateStruct returns the first validation error, or nil on success.
func validateStruct(c *Config) error {
	return v.Struct(c)
}
