package polyphyly

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/gnharmony/pkg/errcode"
	"github.com/gnames/gnharmony/pkg/lineage"
)

func LabelError(r lineage.Rank, label string) error {
	msg := "Cannot interpret %s label <em>%s</em>"
	vars := []any{r, label}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.LineageLabelError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: label %q does not match %s pattern",
			fn.Name(), label, r),
	}
}
