package validate

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/gnames/gn"
	"github.com/gnames/gnharmony/pkg/errcode"
)

func ParentError(name string, v Violation) error {
	msg := "%s %s <em>%s</em> has several parents: %s"
	parents := strings.Join(v.Parents, ", ")
	vars := []any{name, v.Rank, v.Label, parents}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ValidateParentError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: %s %s %q has parents %s",
			fn.Name(), name, v.Rank, v.Label, parents),
	}
}

func RankOverlapError(name string, o Overlap) error {
	msg := "%s labels are used both as %s and %s: <em>%s</em>"
	labels := strings.Join(o.Labels, ", ")
	vars := []any{name, o.Rank1, o.Rank2, labels}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ValidateRankOverlapError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: %s labels %s reused at %s and %s",
			fn.Name(), name, labels, o.Rank1, o.Rank2),
	}
}
