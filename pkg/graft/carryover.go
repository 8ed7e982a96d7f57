package graft

import (
	"github.com/gnames/gnharmony/pkg/lineage"
	"github.com/gnames/gnharmony/pkg/polyphyly"
	"github.com/gnames/gnharmony/pkg/taxonomy"
	"github.com/gnames/gnharmony/pkg/tree"
)

// Carryover attaches records of the table to the primary tree. Ranks are
// tried from species up to domain, so the deepest match wins. At every
// rank the records that are still unplaced are grouped by their path key
// through that rank. When the key exists in the primary tree, a chain of
// nodes is created below the matched node for the remaining ranks, using
// the labels of the record and rank-prefix placeholders for empty ranks. The
// record becomes a tip under the deepest node of the chain. If poly is
// given, records with a polyphyletic label at any rank down to species are
// never placed, even when the matched rank is above that label. Otherwise
// chain would synthesize a bare polyphyletic label beside its marked
// variants and could duplicate a path key the primary tree already has.
//
// It returns IDs of placed records in the order they were placed.
func Carryover(
	primary *tree.Tree,
	tbl *taxonomy.Table,
	poly *polyphyly.Report,
) []string {
	var res []string
	placed := make(map[string]struct{})
	synth := make(map[string]tree.Handle)

	for r := lineage.Species; r >= lineage.Domain; r-- {
		groups := make(map[string][]*taxonomy.Entry)
		var keys []string
		for _, e := range tbl.Entries() {
			if _, ok := placed[e.ID]; ok || e.Ranks[r] == "" {
				continue
			}
			if isPolyphyleticPath(poly, e.Ranks, lineage.Species) {
				continue
			}
			key := e.Ranks.PathKey(r)
			if _, ok := groups[key]; !ok {
				keys = append(keys, key)
			}
			groups[key] = append(groups[key], e)
		}

		for _, key := range keys {
			h, ok := primary.Lookup(key)
			if !ok {
				continue
			}
			for _, e := range groups[key] {
				parent := chain(primary, synth, h, key, e.Ranks, r)
				primary.AddTip(parent, e.ID)
				placed[e.ID] = struct{}{}
				res = append(res, e.ID)
			}
		}
	}
	return res
}

// chain creates or reuses synthesized nodes for ranks below r and returns
// the deepest of them.
func chain(
	primary *tree.Tree,
	synth map[string]tree.Handle,
	parent tree.Handle,
	key string,
	l lineage.Lineage,
	r lineage.Rank,
) tree.Handle {
	for rr := r + 1; rr <= lineage.Species; rr++ {
		seg := l[rr]
		if seg == "" {
			seg = rr.Prefix()
		}
		key += lineage.KeySeparator + seg
		if h, ok := synth[key]; ok {
			parent = h
			continue
		}
		parent = primary.AddChild(parent, tree.Node{
			Name:  lineage.AddRankPrefix(rr, l[rr]),
			Label: l[rr],
			Rank:  rr,
			Key:   key,
		})
		synth[key] = parent
	}
	return parent
}
