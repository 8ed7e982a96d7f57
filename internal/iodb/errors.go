package iodb

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/gnharmony/pkg/config"
	"github.com/gnames/gnharmony/pkg/errcode"
)

// ConnectionError is returned when database connection fails.
func ConnectionError(cfg *config.DatabaseConfig, err error) error {
	msg := `<title>Database Connection Failed</title>

<warning>Could not connect to PostgreSQL database.</warning>

<em>How to fix:</em>
  1. Check if PostgreSQL is running:
     <em>pg_isready -h %s -p %d</em>

  2. Verify database exists:
     <em>psql -h %s -U %s -l</em>

  3. Check database section of your configuration file:
     <em>~/.config/gnharmony/config.yaml</em>
`
	vars := []any{cfg.Host, cfg.Port, cfg.Host, cfg.User}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DBConnectionError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: failed to connect to %s:%d/%s: %w",
			fn.Name(), cfg.Host, cfg.Port, cfg.Database, err),
	}
}

// NotConnectedError is returned when an operation needs a connection
// pool that was not created yet.
func NotConnectedError() error {
	msg := "Database is not connected"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: database is not connected", fn.Name()),
	}
}

// TableCheckError is returned when the check of a table fails.
func TableCheckError(table string, err error) error {
	msg := "Cannot check table <em>%s</em>"
	vars := []any{table}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DBSchemaError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: check table %s: %w", fn.Name(), table, err),
	}
}

// SchemaError is returned when GORM cannot create or update tables.
func SchemaError(err error) error {
	msg := "Cannot create export tables"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DBSchemaError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: automigrate: %w", fn.Name(), err),
	}
}

// ExportError is returned when rows cannot be saved to a table.
func ExportError(table string, err error) error {
	msg := "Cannot export data to table <em>%s</em>"
	vars := []any{table}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DBExportError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: export to %s: %w", fn.Name(), table, err),
	}
}
