package iosqlite

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/gnharmony/pkg/errcode"
)

func OpenError(path string, err error) error {
	msg := "Cannot open SQLite database <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.SQLiteExportError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: open %s: %w", fn.Name(), path, err),
	}
}

func SchemaError(table string, err error) error {
	msg := "Cannot create SQLite table <em>%s</em>"
	vars := []any{table}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DBSchemaError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: create %s: %w", fn.Name(), table, err),
	}
}

// ExportError is returned when a step of saving rows fails. Name is a
// table name or the database path.
func ExportError(name, step string, err error) error {
	msg := "Cannot export data to SQLite <em>%s</em> (%s)"
	vars := []any{name, step}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.SQLiteExportError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: %s %s: %w", fn.Name(), step, name, err),
	}
}
