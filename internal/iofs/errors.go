package iofs

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/gnharmony/pkg/errcode"
)

// CreateDirError is returned when an application or output directory
// cannot be created.
func CreateDirError(dir string, err error) error {
	return fsError(errcode.CreateDirError,
		"Cannot create directory <em>%s</em>", "cannot create directory",
		dir, err)
}

// CopyFileError is returned when a default config or rules file cannot be
// written.
func CopyFileError(file string, err error) error {
	return fsError(errcode.CopyFileError,
		"Cannot write default file to <em>%s</em>", "cannot copy file",
		file, err)
}

// ReadFileError is returned when a config file cannot be read or decoded.
func ReadFileError(path string, err error) error {
	return fsError(errcode.ReadFileError,
		"Cannot read <em>%s</em>", "cannot read file",
		path, err)
}

// fsError reports the caller of an exported constructor as the origin.
func fsError(
	code gn.ErrorCode,
	msg, reason, path string,
	err error,
) error {
	pc, _, _, _ := runtime.Caller(2)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: code,
		Msg:  msg,
		Vars: []any{path},
		Err:  fmt.Errorf("from %s: %s %s: %w", fn.Name(), reason, path, err),
	}
}
