package tree

import (
	"slices"

	"github.com/gnames/gnharmony/pkg/lineage"
)

// Postorder returns handles of the subtree rooted at h with children
// before their parents. The order is collected before it is returned, so
// the tree can be changed while the result is walked.
func (t *Tree) Postorder(h Handle) []Handle {
	type frame struct {
		h Handle
		i int
	}
	var res []Handle
	stack := []frame{{h: h}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		ch := t.nodes[top.h].Children
		if top.i < len(ch) {
			c := ch[top.i]
			top.i++
			stack = append(stack, frame{h: c})
			continue
		}
		res = append(res, top.h)
		stack = stack[:len(stack)-1]
	}
	return res
}

// Preorder returns handles of the subtree rooted at h with parents before
// their children.
func (t *Tree) Preorder(h Handle) []Handle {
	var res []Handle
	stack := []Handle{h}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		res = append(res, cur)
		ch := t.nodes[cur].Children
		for i := len(ch) - 1; i >= 0; i-- {
			stack = append(stack, ch[i])
		}
	}
	return res
}

// Detach removes the subtree rooted at h from its parent. Path keys of the
// subtree are removed from the lookup. The subtree itself stays intact and
// can still be copied with Extract.
func (t *Tree) Detach(h Handle) {
	p := t.nodes[h].Parent
	if p != NoHandle {
		t.nodes[p].Children = slices.DeleteFunc(
			t.nodes[p].Children,
			func(c Handle) bool { return c == h },
		)
	}
	t.nodes[h].Parent = NoHandle
	for _, d := range t.Postorder(h) {
		n := t.nodes[d]
		if n.Tip || n.Key == "" {
			continue
		}
		if lh, ok := t.lookup[n.Key]; ok && lh == d {
			delete(t.lookup, n.Key)
			delete(t.ranks, n.Key)
		}
	}
}

// Extract makes a deep copy of the subtree rooted at h. The copy is a new
// tree whose root is the copy of h.
func (t *Tree) Extract(h Handle) *Tree {
	res := &Tree{
		lookup: make(map[string]Handle),
		ranks:  make(map[string]lineage.Rank),
	}
	res.root = res.copyFrom(t, h, NoHandle)
	return res
}

func (t *Tree) copyFrom(src *Tree, h, parent Handle) Handle {
	n := src.nodes[h]
	n.Parent = parent
	n.Children = nil
	nh := t.add(n)
	for _, c := range src.nodes[h].Children {
		t.copyFrom(src, c, nh)
	}
	return nh
}

// AnnotateKeepable recomputes Keepable flags of internal nodes bottom-up.
// An internal node is keepable if any of its children is keepable, unless
// forceDrop returns true for it. Tips keep their flags.
func (t *Tree) AnnotateKeepable(forceDrop func(*Node) bool) {
	for _, h := range t.Postorder(t.root) {
		n := &t.nodes[h]
		if n.Tip {
			continue
		}
		var keep bool
		for _, c := range n.Children {
			if t.nodes[c].Keepable {
				keep = true
				break
			}
		}
		if keep && forceDrop != nil && forceDrop(n) {
			keep = false
		}
		n.Keepable = keep
	}
}

// Prune detaches every non-keepable node below the root together with its
// subtree.
func (t *Tree) Prune() {
	for _, h := range t.Postorder(t.root) {
		if h == t.root || t.nodes[h].Keepable {
			continue
		}
		t.Detach(h)
	}
}

// Adopt copies subtrees of src rooted at handles under the parent node.
// Path keys of copied nodes are registered in the lookup unless they are
// already there. It returns handles of the copies.
func (t *Tree) Adopt(parent Handle, src *Tree, handles []Handle) []Handle {
	res := make([]Handle, 0, len(handles))
	for _, h := range handles {
		res = append(res, t.copyFrom(src, h, parent))
	}
	return res
}

// Tips returns record tips reachable from the root in preorder.
func (t *Tree) Tips() []Handle {
	var res []Handle
	for _, h := range t.Preorder(t.root) {
		if t.nodes[h].Tip {
			res = append(res, h)
		}
	}
	return res
}

// TipIDs returns record IDs of reachable tips in preorder.
func (t *Tree) TipIDs() []string {
	tips := t.Tips()
	res := make([]string, len(tips))
	for i, h := range tips {
		res[i] = t.nodes[h].Name
	}
	return res
}

// Record is a tip of a flattened tree.
type Record struct {
	ID      string
	Lineage lineage.Lineage
}

// Flatten converts every reachable tip into a record with the lineage of
// its ancestors. Placeholders produce empty labels.
func (t *Tree) Flatten() []Record {
	tips := t.Tips()
	res := make([]Record, 0, len(tips))
	for _, h := range tips {
		var l lineage.Lineage
		for p := t.nodes[h].Parent; p != NoHandle; p = t.nodes[p].Parent {
			n := t.nodes[p]
			if n.Rank.IsValid() {
				l[n.Rank] = n.Label
			}
		}
		res = append(res, Record{ID: t.nodes[h].Name, Lineage: l})
	}
	return res
}
