package ioharmonize

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/gnharmony/pkg/errcode"
)

// InputError is returned when a required input file is not given.
func InputError(name string) error {
	msg := `No <em>%s</em> input is given

<em>How to fix:</em>
  Provide the file with a flag, see <em>gnharmony harmonize -h</em>
`
	vars := []any{name}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.HarmonizeInputError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: no %s input", fn.Name(), name),
	}
}

// CanceledError is returned when a run is interrupted.
func CanceledError(err error) error {
	msg := "Harmonization was canceled"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.HarmonizeCanceledError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: canceled: %w", fn.Name(), err),
	}
}
