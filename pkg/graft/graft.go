// Package graft merges a secondary consensus tree into the primary one.
// Graft transplants secondary subtrees whose path keys exist in the
// primary tree. Carryover then attaches records that are still unplaced
// under the deepest primary node that matches their lineage.
package graft

import (
	"github.com/gnames/gnharmony/pkg/lineage"
	"github.com/gnames/gnharmony/pkg/polyphyly"
	"github.com/gnames/gnharmony/pkg/tree"
)

// Stats summarizes a graft.
type Stats struct {
	// Matched is the number of secondary nodes found in the primary tree.
	Matched int

	// Grafted is the number of record tips moved to the primary tree.
	Grafted int

	// Dropped is the number of record tips removed during pruning.
	Dropped int
}

// Graft visits internal nodes of the secondary tree children first. A
// node whose path key exists in the primary tree is detached from the
// secondary tree and copied. Keepable flags of the copy are recomputed,
// and nodes with polyphyletic labels are forced to be non-keepable when
// poly is given. Non-keepable parts of the copy are pruned, and what
// remains is attached to the matched primary node. Once matched, the node
// is gone from the secondary tree even if nothing of it was kept.
func Graft(primary, secondary *tree.Tree, poly *polyphyly.Report) Stats {
	var res Stats
	forceDrop := dropPolyphyletic(poly)

	root := secondary.Root()
	for _, h := range secondary.Postorder(root) {
		n := secondary.Node(h)
		if h == root || n.Tip || n.Parent == tree.NoHandle {
			continue
		}
		dst, ok := primary.Lookup(n.Key)
		if !ok {
			continue
		}
		res.Matched++

		secondary.Detach(h)
		cp := secondary.Extract(h)
		total := len(cp.Tips())
		cp.AnnotateKeepable(forceDrop)
		if !cp.Node(cp.Root()).Keepable {
			res.Dropped += total
			continue
		}
		cp.Prune()
		kept := len(cp.Tips())
		res.Grafted += kept
		res.Dropped += total - kept
		primary.Adopt(dst, cp, cp.Children(cp.Root()))
	}
	return res
}

func dropPolyphyletic(poly *polyphyly.Report) func(*tree.Node) bool {
	if poly == nil {
		return nil
	}
	return func(n *tree.Node) bool {
		return poly.IsPolyphyletic(n.Rank, n.Label)
	}
}

// isPolyphyleticPath is true if any label from domain down to the rank is
// polyphyletic.
func isPolyphyleticPath(
	poly *polyphyly.Report,
	l lineage.Lineage,
	r lineage.Rank,
) bool {
	if poly == nil {
		return false
	}
	for i := lineage.Domain; i <= r; i++ {
		if poly.IsPolyphyletic(i, l[i]) {
			return true
		}
	}
	return false
}
