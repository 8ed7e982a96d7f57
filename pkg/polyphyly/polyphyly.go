// Package polyphyly finds labels that refer to several clades of the
// primary taxonomy. Such labels carry an uppercase marker ("Firmicutes_A"),
// and their bare form cannot be placed automatically.
package polyphyly

import (
	"maps"
	"regexp"
	"slices"

	"github.com/gnames/gnharmony/pkg/lineage"
	"github.com/gnames/gnharmony/pkg/taxonomy"
)

var (
	generalRe = regexp.MustCompile(`^([A-Za-z0-9-]+)(_[A-Z]+)?$`)
	speciesRe = regexp.MustCompile(
		`^([A-Za-z0-9-]+)(_[A-Z]+)? ([A-Za-z0-9-]+)(_[A-Z]+)?$`,
	)
)

// Report keeps polyphyletic bases for every rank together with the marked
// variants that were observed for them.
type Report struct {
	variants [lineage.RanksNum]map[string]map[string]struct{}
}

// Detect scans every rank of the table. A base label becomes polyphyletic
// when at least one of its marked variants is used, so {X, X_A} and
// {X_A, X_B} both make X polyphyletic. For species the marker may sit on
// either half of the binomial, and the base is the unmarked binomial.
// Ranks must be parsed before Detect is called. A label that does not look
// like a taxon name is a structural error.
func Detect(tbl *taxonomy.Table) (*Report, error) {
	res := newReport()
	for _, r := range lineage.Ranks() {
		for _, label := range tbl.Labels(r) {
			base, marked, err := split(r, label)
			if err != nil {
				return nil, err
			}
			if marked {
				res.add(r, base, label)
			}
		}
	}
	return res, nil
}

func newReport() *Report {
	res := &Report{}
	for i := range res.variants {
		res.variants[i] = make(map[string]map[string]struct{})
	}
	return res
}

func (rp *Report) add(r lineage.Rank, base, label string) {
	if _, ok := rp.variants[r][base]; !ok {
		rp.variants[r][base] = make(map[string]struct{})
	}
	rp.variants[r][base][label] = struct{}{}
}

func split(r lineage.Rank, label string) (string, bool, error) {
	if r == lineage.Species {
		m := speciesRe.FindStringSubmatch(label)
		if m == nil {
			return "", false, LabelError(r, label)
		}
		return m[1] + " " + m[3], m[2] != "" || m[4] != "", nil
	}
	m := generalRe.FindStringSubmatch(label)
	if m == nil {
		return "", false, LabelError(r, label)
	}
	return m[1], m[2] != "", nil
}

// Bases returns sorted polyphyletic base labels of a rank.
func (rp *Report) Bases(r lineage.Rank) []string {
	if !r.IsValid() {
		return nil
	}
	return slices.Sorted(maps.Keys(rp.variants[r]))
}

// Labels returns sorted ambiguous labels of a rank: every polyphyletic
// base and all its observed marked variants.
func (rp *Report) Labels(r lineage.Rank) []string {
	if !r.IsValid() {
		return nil
	}
	var res []string
	for base, vv := range rp.variants[r] {
		res = append(res, base)
		for v := range vv {
			res = append(res, v)
		}
	}
	slices.Sort(res)
	return slices.Compact(res)
}

// IsPolyphyletic is true when the label is a bare form of a polyphyletic
// family of labels at the rank.
func (rp *Report) IsPolyphyletic(r lineage.Rank, label string) bool {
	if !r.IsValid() || label == "" {
		return false
	}
	_, ok := rp.variants[r][label]
	return ok
}

// Len returns the number of polyphyletic bases over all ranks.
func (rp *Report) Len() int {
	var res int
	for i := range rp.variants {
		res += len(rp.variants[i])
	}
	return res
}

// AmbiguousIDs returns IDs of records that were not set explicitly and
// that use a polyphyletic base label at any rank. IDs keep the order of
// the table.
func (rp *Report) AmbiguousIDs(tbl *taxonomy.Table) []string {
	var res []string
	for _, e := range tbl.Entries() {
		if e.ExplicitlySet {
			continue
		}
		for _, r := range lineage.Ranks() {
			if rp.IsPolyphyletic(r, e.Ranks[r]) {
				res = append(res, e.ID)
				break
			}
		}
	}
	return res
}
