package rewrite

import (
	"maps"
	"slices"
	"strings"

	"github.com/gnames/gnharmony/pkg/lineage"
	"github.com/gnames/gnharmony/pkg/taxonomy"
)

// Pair links a lineage of a record in the secondary naming system to the
// lineage of the same record in the primary taxonomy.
type Pair struct {
	From string
	To   string
}

// IndexKey is a name at a particular rank of the secondary naming system.
type IndexKey struct {
	Rank lineage.Rank
	Name string
}

// NameIndex maps names of the secondary naming system to primary lineage
// prefixes ending at the same rank.
type NameIndex map[IndexKey]string

// BuildNameIndex creates a name index from lineage pairs. A name that
// maps to more than one primary path is ambiguous and is left out.
// Species are mapped only when both sides agree on the species name.
func BuildNameIndex(pairs []Pair) NameIndex {
	res := make(NameIndex)
	conflicts := make(map[IndexKey]struct{})
	for _, p := range pairs {
		from := lineage.Parse(p.From, lineage.Separator)
		to := lineage.Parse(p.To, lineage.Separator)
		for _, r := range lineage.Ranks() {
			name := from[r]
			if name == "" {
				continue
			}
			if r == lineage.Species && name != to[r] {
				continue
			}
			key := IndexKey{Rank: r, Name: name}
			if _, ok := conflicts[key]; ok {
				continue
			}
			path := strings.Join(to[:r+1], lineage.Separator)
			if prev, ok := res[key]; ok && prev != path {
				delete(res, key)
				conflicts[key] = struct{}{}
				continue
			}
			res[key] = path
		}
	}
	return res
}

// UniqueSpecies maps species names of the secondary naming system to the
// complete primary lineage when the mapping is unambiguous.
func UniqueSpecies(pairs []Pair) map[string]string {
	seen := make(map[string]map[string]struct{})
	for _, p := range pairs {
		sp := lineage.Parse(p.From, lineage.Separator)[lineage.Species]
		if sp == "" {
			continue
		}
		to := lineage.Parse(p.To, lineage.Separator)
		if _, ok := seen[sp]; !ok {
			seen[sp] = make(map[string]struct{})
		}
		seen[sp][strings.Join(to[:], lineage.Separator)] = struct{}{}
	}

	res := make(map[string]string)
	for sp, tos := range seen {
		if len(tos) != 1 {
			continue
		}
		for to := range tos {
			res[sp] = to
		}
	}
	return res
}

// Derive creates rewrite rules that move lineages of the table to the
// vocabulary of the primary taxonomy. For every record the names are
// checked from species up to domain; when a name is found in the index,
// the lineage prefix ending at that name gets a rule toward the primary
// prefix. Prefixes above species end with the separator, so that a rule
// never matches a longer name that starts with the same letters.
// Rules are returned ordered by decreasing specificity.
func Derive(tbl *taxonomy.Table, idx NameIndex) []Rule {
	set := make(map[Rule]struct{})
	for _, e := range tbl.Entries() {
		parts := strings.Split(e.Lineage, lineage.Separator)
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		for lvl := min(len(parts), lineage.RanksNum) - 1; lvl >= 0; lvl-- {
			target, ok := idx[IndexKey{Rank: lineage.Rank(lvl), Name: parts[lvl]}]
			if !ok {
				continue
			}
			current := strings.Join(parts[:lvl+1], lineage.Separator)
			if lvl < int(lineage.Species) {
				current += lineage.Separator
				target += lineage.Separator
			}
			if current != target {
				set[Rule{Old: current, New: target}] = struct{}{}
			}
		}
	}

	res := slices.Collect(maps.Keys(set))
	Sort(res)
	return res
}
