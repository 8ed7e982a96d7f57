package rewrite

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/gnharmony/pkg/errcode"
)

func CrossDomainError(r Rule, from, to string) error {
	msg := "Rewrite rule <em>%s</em> -> <em>%s</em> moves %s into %s"
	vars := []any{r.Old, r.New, from, to}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.RewriteCrossDomainError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: rule %q -> %q crosses domains %s/%s",
			fn.Name(), r.Old, r.New, from, to),
	}
}
