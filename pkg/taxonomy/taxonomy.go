// Package taxonomy defines taxonomy tables: records identified by IDs,
// each with a lineage string and its parsed ranks.
package taxonomy

import (
	"maps"
	"slices"

	"github.com/gnames/gnharmony/pkg/lineage"
)

// Entry is one record of a taxonomy table.
type Entry struct {
	// ID is the record identifier, for example a genome or sequence
	// accession.
	ID string

	// Lineage is the lineage string. It is rewritten in place during
	// normalization.
	Lineage string

	// Original keeps the lineage as it was read, before any mapping.
	Original string

	// Ranks are the parsed labels of Lineage.
	Ranks lineage.Lineage

	// OriginalSpecies is the species name provided separately from the
	// lineage (secondary taxonomy only).
	OriginalSpecies string

	// Synonym replaces OriginalSpecies when it is given.
	Synonym string

	// ExplicitlySet is true if the lineage was overridden by a reviewed
	// mapping rather than derived automatically.
	ExplicitlySet bool

	// TaxID is an externally resolved numeric taxonomic identifier.
	// Zero means unknown.
	TaxID int
}

// Table is an ordered collection of entries with an index by ID.
type Table struct {
	entries []*Entry
	idx     map[string]int
}

// New creates an empty table.
func New() *Table {
	return &Table{idx: make(map[string]int)}
}

// FromEntries creates a table from entries. A later entry with an ID
// that was already seen replaces the earlier one.
func FromEntries(ee []Entry) *Table {
	res := New()
	for i := range ee {
		res.Add(ee[i])
	}
	return res
}

// Add inserts an entry or replaces an entry with the same ID. It returns
// true if a previous entry was replaced.
func (t *Table) Add(e Entry) bool {
	if e.Original == "" {
		e.Original = e.Lineage
	}
	if i, ok := t.idx[e.ID]; ok {
		t.entries[i] = &e
		return true
	}
	t.idx[e.ID] = len(t.entries)
	t.entries = append(t.entries, &e)
	return false
}

// Get returns an entry by its ID.
func (t *Table) Get(id string) (*Entry, bool) {
	i, ok := t.idx[id]
	if !ok {
		return nil, false
	}
	return t.entries[i], true
}

// Has is true if the table contains the ID.
func (t *Table) Has(id string) bool {
	_, ok := t.idx[id]
	return ok
}

// Len returns the number of entries.
func (t *Table) Len() int {
	return len(t.entries)
}

// Entries returns entries in insertion order. Entries are shared with the
// table, changes to them are visible to the table.
func (t *Table) Entries() []*Entry {
	return t.entries
}

// IDs returns identifiers in insertion order.
func (t *Table) IDs() []string {
	res := make([]string, len(t.entries))
	for i, e := range t.entries {
		res[i] = e.ID
	}
	return res
}

// Filter returns a new table with entries for which keep returns true.
// Entries are shared between the tables.
func (t *Table) Filter(keep func(*Entry) bool) *Table {
	res := New()
	for _, e := range t.entries {
		if keep(e) {
			res.idx[e.ID] = len(res.entries)
			res.entries = append(res.entries, e)
		}
	}
	return res
}

// Without returns a new table without entries whose IDs are in the set.
func (t *Table) Without(ids map[string]struct{}) *Table {
	return t.Filter(func(e *Entry) bool {
		_, ok := ids[e.ID]
		return !ok
	})
}

// Restrict returns a new table that contains only IDs from the set.
// An empty set means no restriction.
func (t *Table) Restrict(ids map[string]struct{}) *Table {
	if len(ids) == 0 {
		return t
	}
	return t.Filter(func(e *Entry) bool {
		_, ok := ids[e.ID]
		return ok
	})
}

// ParseRanks parses Lineage of every entry into Ranks and enforces the
// rank-gap invariant. It returns IDs of entries where labels below a gap
// were cleared.
func (t *Table) ParseRanks(sep string) []string {
	var res []string
	for _, e := range t.entries {
		var changed bool
		e.Ranks, changed = lineage.Parse(e.Lineage, sep).Enforce()
		if changed {
			res = append(res, e.ID)
		}
	}
	return res
}

// Labels returns the sorted set of distinct non-empty labels at a rank.
func (t *Table) Labels(r lineage.Rank) []string {
	set := make(map[string]struct{})
	for _, e := range t.entries {
		if l := e.Ranks.Label(r); l != "" {
			set[l] = struct{}{}
		}
	}
	return slices.Sorted(maps.Keys(set))
}

// Domains returns distinct domain labels.
func (t *Table) Domains() []string {
	return t.Labels(lineage.Domain)
}
