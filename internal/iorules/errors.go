package iorules

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/gnharmony/pkg/errcode"
)

func ReadFileError(path string, err error) error {
	msg := "Cannot read rules file <em>%s</em>"
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

// ParseError is returned when the rules file is not valid YAML or has
// rules that cannot be used.
func ParseError(path string, err error) error {
	msg := `Cannot parse rules file <em>%s</em>

<em>How to fix:</em>
  1. Check YAML syntax of the file
  2. Every rename needs non-empty 'old' and 'new' values
  3. Remove the file to get the default one on the next run`
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.RulesParseError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: cannot parse %s: %w", fn.Name(), path, err),
	}
}

func WriteFileError(path string, err error) error {
	msg := "Cannot write rewrite rules to <em>%s</em>"
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
