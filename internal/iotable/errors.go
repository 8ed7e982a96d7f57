package iotable

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/gnharmony/pkg/errcode"
)

func ReadFileError(path string, err error) error {
	msg := "Cannot read <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ReadFileError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: cannot read %s: %w", fn.Name(), path, err),
	}
}

func WriteFileError(path string, err error) error {
	msg := "Cannot write <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.WriteFileError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: cannot write %s: %w", fn.Name(), path, err),
	}
}

// ParseError is returned when a row of a table cannot be interpreted.
func ParseError(path string, line int, reason string) error {
	msg := "Cannot parse <em>%s</em> at line %d: %s"
	vars := []any{path, line, reason}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.TableParseError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: %s:%d: %s",
			fn.Name(), path, line, reason),
	}
}

// DuplicateIDError is returned when a table has the same record
// identifier twice.
func DuplicateIDError(path, id string, line int) error {
	msg := "Duplicate ID <em>%s</em> in <em>%s</em> at line %d"
	vars := []any{id, path, line}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.TableDuplicateIDError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: duplicate id %s in %s:%d",
			fn.Name(), id, path, line),
	}
}
