package harmonize

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/gnharmony/pkg/errcode"
)

func EmptyInputError(name string) error {
	msg := "No records left in the %s taxonomy"
	vars := []any{name}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.HarmonizeEmptyInputError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: %w",
			fn.Name(), errors.New("empty "+name+" taxonomy")),
	}
}
