// Package tree builds consensus trees from ranked lineages. Nodes live in
// an arena and refer to each other by integer handles. Every internal node
// is identified by its path key, the labels from domain down to the node
// joined by a separator, and the tree keeps a lookup from path keys to
// nodes.
package tree

import (
	"github.com/gnames/gnharmony/pkg/lineage"
)

// Handle is an index of a node in the arena of a tree.
type Handle int

// NoHandle marks a missing parent.
const NoHandle Handle = -1

// RootRank is the rank of the root node and of tips.
const RootRank lineage.Rank = -1

// Node is one node of a consensus tree.
type Node struct {
	// Name is a rank-prefixed label for internal nodes ("g__Bacillus")
	// and a record ID for tips.
	Name string

	// Label is the bare label. It is empty for placeholders and tips.
	Label string

	Rank lineage.Rank

	// Key is the path key of an internal node.
	Key string

	Parent   Handle
	Children []Handle

	// Keepable is true if the node or any of its descendants must survive
	// a merge.
	Keepable bool

	// Tip is true for record nodes.
	Tip bool
}

// Tree is a rooted ordered tree stored in an arena.
type Tree struct {
	nodes     []Node
	root      Handle
	lookup    map[string]Handle
	ranks     map[string]lineage.Rank
	rankCheck bool
}

// Option configures a tree.
type Option func(*Tree)

// OptRankCheck makes Build fail when a path key is requested at a rank
// different from the rank it was created at. Path keys skip empty ranks,
// so only lineages with gaps can trigger it. Parsed taxonomy tables clear
// labels below an empty rank, and the check guards direct Build callers
// that pass gapped lineages.
func OptRankCheck(b bool) Option {
	return func(t *Tree) {
		t.rankCheck = b
	}
}

// New creates a tree that has only a root.
func New(opts ...Option) *Tree {
	res := &Tree{
		lookup: make(map[string]Handle),
		ranks:  make(map[string]lineage.Rank),
	}
	for _, opt := range opts {
		opt(res)
	}
	res.root = res.add(Node{Rank: RootRank, Parent: NoHandle})
	return res
}

// Build creates a consensus tree. For every lineage a node is reused or
// created for each non-empty rank, and the record ID is attached as a tip
// to the deepest node. Tips are keepable.
func Build(lins []lineage.Lineage, ids []string, opts ...Option) (*Tree, error) {
	if len(lins) != len(ids) {
		return nil, InputError(len(lins), len(ids))
	}
	res := New(opts...)
	for i, l := range lins {
		parent := res.root
		for _, r := range lineage.Ranks() {
			label := l[r]
			if label == "" {
				continue
			}
			h, err := res.ensure(parent, r, label, l.PathKey(r))
			if err != nil {
				return nil, err
			}
			parent = h
		}
		res.AddTip(parent, ids[i])
	}
	return res, nil
}

func (t *Tree) ensure(
	parent Handle,
	r lineage.Rank,
	label, key string,
) (Handle, error) {
	if h, ok := t.lookup[key]; ok {
		if t.rankCheck && t.ranks[key] != r {
			return NoHandle, RankMismatchError(key, t.ranks[key], r)
		}
		return h, nil
	}
	h := t.AddChild(parent, Node{
		Name:  lineage.AddRankPrefix(r, label),
		Label: label,
		Rank:  r,
		Key:   key,
	})
	return h, nil
}

// Root returns the handle of the root.
func (t *Tree) Root() Handle {
	return t.root
}

// Node returns a node by its handle. The pointer stays valid until the
// next node is added to the tree.
func (t *Tree) Node(h Handle) *Node {
	return &t.nodes[h]
}

// Children returns handles of children of a node.
func (t *Tree) Children(h Handle) []Handle {
	return t.nodes[h].Children
}

// Lookup finds an internal node by its path key.
func (t *Tree) Lookup(key string) (Handle, bool) {
	h, ok := t.lookup[key]
	return h, ok
}

// Keys returns the number of registered path keys.
func (t *Tree) Keys() int {
	return len(t.lookup)
}

// AddChild appends a copy of the node as the last child of the parent and
// returns its handle. An internal node with a new path key is registered
// in the lookup.
func (t *Tree) AddChild(parent Handle, n Node) Handle {
	n.Parent = parent
	n.Children = nil
	return t.add(n)
}

// AddTip attaches a keepable record tip to the parent.
func (t *Tree) AddTip(parent Handle, id string) Handle {
	return t.AddChild(parent, Node{
		Name:     id,
		Rank:     RootRank,
		Tip:      true,
		Keepable: true,
	})
}

func (t *Tree) add(n Node) Handle {
	h := Handle(len(t.nodes))
	t.nodes = append(t.nodes, n)
	if n.Parent != NoHandle {
		t.nodes[n.Parent].Children = append(t.nodes[n.Parent].Children, h)
	}
	if !n.Tip && n.Key != "" {
		if _, ok := t.lookup[n.Key]; !ok {
			t.lookup[n.Key] = h
			t.ranks[n.Key] = n.Rank
		}
	}
	return h
}
