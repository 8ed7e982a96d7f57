package iologger

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/gnharmony/pkg/errcode"
)

// CreateLogFileError is returned when the log file cannot be created,
// usually because the log directory is missing.
func CreateLogFileError(path string, err error) error {
	msg := `Cannot create log file <em>%s</em>

<em>How to fix:</em>
  Check that the directory exists, or set log.destination to stderr`
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.CreateLogFileError,
		Msg:  msg,
		Vars: []any{path},
		Err:  fmt.Errorf("from %s: log file %s: %w", fn.Name(), path, err),
	}
}
