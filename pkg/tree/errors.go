package tree

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/gnharmony/pkg/errcode"
	"github.com/gnames/gnharmony/pkg/lineage"
)

func RankMismatchError(key string, was, now lineage.Rank) error {
	msg := "Path <em>%s</em> is used as %s and as %s"
	vars := []any{key, was, now}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.TreeRankMismatchError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: path key %q created at %s requested at %s",
			fn.Name(), key, was, now),
	}
}

func InputError(lins, ids int) error {
	msg := "Got %d lineages for %d records"
	vars := []any{lins, ids}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.TreeInputError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: %d lineages, %d ids",
			fn.Name(), lins, ids),
	}
}
