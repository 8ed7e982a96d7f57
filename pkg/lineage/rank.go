// Package lineage provides the fixed seven-rank representation of a
// taxonomic lineage together with parsing, formatting and sanitization of
// lineage strings. It is a pure package without I/O.
package lineage

import "strings"

// Rank is one of the seven fixed classification levels.
type Rank int

const (
	Domain Rank = iota
	Phylum
	Class
	Order
	Family
	Genus
	Species
)

// RanksNum is the number of ranks in a lineage.
const RanksNum = 7

var rankNames = [RanksNum]string{
	"domain", "phylum", "class", "order", "family", "genus", "species",
}

// String returns the lowercase name of the rank.
func (r Rank) String() string {
	if !r.IsValid() {
		return "unknown"
	}
	return rankNames[r]
}

// Prefix returns the rank marker, for example "g__" for genus.
func (r Rank) Prefix() string {
	if !r.IsValid() {
		return ""
	}
	return rankNames[r][:1] + "__"
}

// IsValid is true for ranks from Domain to Species.
func (r Rank) IsValid() bool {
	return r >= Domain && r <= Species
}

// Ranks returns all ranks ordered from domain to species.
func Ranks() []Rank {
	res := make([]Rank, RanksNum)
	for i := range res {
		res[i] = Rank(i)
	}
	return res
}

// RankFromPrefix returns the rank of a label that starts with a rank
// marker such as "f__".
func RankFromPrefix(label string) (Rank, bool) {
	if len(label) < 3 || label[1:3] != "__" {
		return 0, false
	}
	for i, v := range rankNames {
		if v[0] == label[0] {
			return Rank(i), true
		}
	}
	return 0, false
}

// StripRankPrefix removes a two-character rank prefix with its double
// underscore ("g__") when present.
func StripRankPrefix(label string) string {
	if _, ok := RankFromPrefix(label); ok {
		return label[3:]
	}
	return label
}

// AddRankPrefix prepends the marker of the rank to a bare label.
func AddRankPrefix(r Rank, label string) string {
	return r.Prefix() + StripRankPrefix(strings.TrimSpace(label))
}
