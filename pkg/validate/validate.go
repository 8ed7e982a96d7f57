// Package validate checks internal consistency of a taxonomy table: every
// label must have exactly one parent label, and a label must not be reused
// at different ranks.
package validate

import (
	"log/slog"
	"maps"
	"slices"

	"github.com/gnames/gnharmony/pkg/lineage"
	"github.com/gnames/gnharmony/pkg/taxonomy"
)

// Severity decides what happens with found violations.
type Severity int

const (
	// Warn logs violations and lets the run continue.
	Warn Severity = iota
	// Fatal stops the run on the first violation.
	Fatal
)

// String returns the name of the severity.
func (s Severity) String() string {
	if s == Fatal {
		return "fatal"
	}
	return "warn"
}

// DefaultAllowed are placeholder names that the primary taxonomy uses at
// several ranks and tells apart only by the rank.
var DefaultAllowed = []string{
	"AKS1", "DSM-100275", "DSM-16500", "DSM-17781", "DSM-19610",
	"DSM-22653", "DSM-26407", "DY22613", "HP12", "JAAYUW01", "JC228",
	"SK-Y3", "UBA10575", "UBA6429", "UBA8346",
}

// Violation is a label that has more than one parent.
type Violation struct {
	Rank    lineage.Rank
	Label   string
	Parents []string
}

// Overlap is a set of labels used at two different ranks.
type Overlap struct {
	Rank1, Rank2 lineage.Rank
	Labels       []string
}

// ConsistentParents groups records by their label at every rank below
// domain and reports labels with more than one distinct parent label.
// Ranks must be parsed before the call.
func ConsistentParents(tbl *taxonomy.Table) []Violation {
	var res []Violation
	for _, r := range lineage.Ranks()[1:] {
		parents := make(map[string]map[string]struct{})
		var order []string
		for _, e := range tbl.Entries() {
			label := e.Ranks[r]
			if label == "" {
				continue
			}
			if _, ok := parents[label]; !ok {
				parents[label] = make(map[string]struct{})
				order = append(order, label)
			}
			parents[label][e.Ranks[r-1]] = struct{}{}
		}
		for _, label := range order {
			if len(parents[label]) < 2 {
				continue
			}
			res = append(res, Violation{
				Rank:    r,
				Label:   label,
				Parents: slices.Sorted(maps.Keys(parents[label])),
			})
		}
	}
	return res
}

// RankOverlap reports labels used at two different ranks. If all shared
// labels of a pair of ranks are in the allowed list, the pair is not
// reported.
func RankOverlap(tbl *taxonomy.Table, allowed []string) []Overlap {
	ok := make(map[string]struct{}, len(allowed))
	for _, v := range allowed {
		ok[v] = struct{}{}
	}

	labels := make([]map[string]struct{}, lineage.RanksNum)
	for _, r := range lineage.Ranks() {
		labels[r] = make(map[string]struct{})
		for _, l := range tbl.Labels(r) {
			labels[r][l] = struct{}{}
		}
	}

	var res []Overlap
	for i := range lineage.RanksNum {
		for j := i + 1; j < lineage.RanksNum; j++ {
			var shared []string
			var bad bool
			for l := range labels[i] {
				if _, found := labels[j][l]; !found {
					continue
				}
				shared = append(shared, l)
				if _, isOK := ok[l]; !isOK {
					bad = true
				}
			}
			if !bad {
				continue
			}
			slices.Sort(shared)
			res = append(res, Overlap{
				Rank1:  lineage.Rank(i),
				Rank2:  lineage.Rank(j),
				Labels: shared,
			})
		}
	}
	return res
}

// Check runs both checks. With Fatal severity the first problem is
// returned as an error. With Warn severity all problems are logged and
// nil is returned.
func Check(
	name string,
	tbl *taxonomy.Table,
	sev Severity,
	allowed []string,
) error {
	vv := ConsistentParents(tbl)
	oo := RankOverlap(tbl, allowed)
	if sev == Fatal {
		if len(vv) > 0 {
			return ParentError(name, vv[0])
		}
		if len(oo) > 0 {
			return RankOverlapError(name, oo[0])
		}
		return nil
	}

	for _, v := range vv {
		slog.Warn("Label has several parents",
			"taxonomy", name,
			"rank", v.Rank.String(),
			"label", v.Label,
			"parents", v.Parents,
		)
	}
	for _, o := range oo {
		slog.Warn("Labels are reused at different ranks",
			"taxonomy", name,
			"rank1", o.Rank1.String(),
			"rank2", o.Rank2.String(),
			"labels", o.Labels,
		)
	}
	return nil
}
