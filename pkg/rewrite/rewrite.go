// Package rewrite normalizes the vocabulary of one taxonomy toward another
// with ordered substring substitution rules. Rules are curated manually or
// derived automatically from a cross-taxonomy name index.
package rewrite

import (
	"cmp"
	"log/slog"
	"slices"
	"strings"

	"github.com/gnames/gnharmony/pkg/lineage"
	"github.com/gnames/gnharmony/pkg/taxonomy"
)

// Rule replaces Old substring with New in lineage strings.
type Rule struct {
	Old string `yaml:"old"`
	New string `yaml:"new"`
}

// Specificity is the number of rank separators in Old. Rules with
// higher specificity are applied first.
func (r Rule) Specificity() int {
	return strings.Count(r.Old, lineage.Separator)
}

// Rewrite applies the rule to a lineage string. Text that is already
// part of the target form is left alone.
func (r Rule) Rewrite(s string) string {
	if r.Old == "" || !strings.Contains(s, r.Old) {
		return s
	}
	if r.New == "" || !strings.Contains(r.New, r.Old) {
		return strings.ReplaceAll(s, r.Old, r.New)
	}

	parts := strings.Split(s, r.New)
	for i := range parts {
		parts[i] = strings.ReplaceAll(parts[i], r.Old, r.New)
	}
	return strings.Join(parts, r.New)
}

// Sort orders rules from the most specific to the most general.
// Rules of equal specificity are ordered by Old and New.
func Sort(rules []Rule) {
	slices.SortStableFunc(rules, func(a, b Rule) int {
		if c := cmp.Compare(b.Specificity(), a.Specificity()); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Old, b.Old); c != 0 {
			return c
		}
		return cmp.Compare(a.New, b.New)
	})
}

// Dedup removes repeated rules keeping the first occurrence.
func Dedup(rules []Rule) []Rule {
	seen := make(map[Rule]struct{}, len(rules))
	res := make([]Rule, 0, len(rules))
	for _, v := range rules {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		res = append(res, v)
	}
	return res
}

// Merge puts derived rules in front of curated ones.
func Merge(derived, curated []Rule) []Rule {
	res := make([]Rule, 0, len(derived)+len(curated))
	res = append(res, derived...)
	res = append(res, curated...)
	return res
}

// RewriteString applies all rules in order to a single string.
func RewriteString(rules []Rule, s string) string {
	for _, r := range rules {
		s = r.Rewrite(s)
	}
	return s
}

// Apply rewrites Lineage of every entry in the table with one pass of the
// rules in their order. A rule never sees text it already turned into its
// target form, which keeps a second pass a no-op for consistent rule
// sets. Entries that a second pass would still change are only reported
// with a warning. It returns IDs of entries that changed.
func Apply(rules []Rule, tbl *taxonomy.Table) []string {
	var res, unstable []string
	for _, e := range tbl.Entries() {
		lin := RewriteString(rules, e.Lineage)
		if lin == e.Lineage {
			continue
		}
		if RewriteString(rules, lin) != lin {
			unstable = append(unstable, e.ID)
		}
		e.Lineage = lin
		res = append(res, e.ID)
	}
	if len(unstable) > 0 {
		slog.Warn("Rewrite rules change some lineages again on a second pass",
			"records", len(unstable),
			"example", unstable[0],
		)
	}
	return res
}

// CheckDomains makes sure that no rule moves a lineage from one domain
// into another. Domains are whole fields of Old and New.
func CheckDomains(rules []Rule, domains []string) error {
	if len(domains) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(domains))
	for _, d := range domains {
		set[d] = struct{}{}
	}
	for _, r := range rules {
		from := domainsOf(r.Old, set)
		to := domainsOf(r.New, set)
		if len(from) == 0 || len(to) == 0 {
			continue
		}
		for _, d := range to {
			if !slices.Contains(from, d) {
				return CrossDomainError(r, from[0], d)
			}
		}
	}
	return nil
}

func domainsOf(s string, set map[string]struct{}) []string {
	var res []string
	for _, f := range strings.Split(s, lineage.Separator) {
		f = lineage.StripRankPrefix(strings.TrimSpace(f))
		if _, ok := set[f]; ok && !slices.Contains(res, f) {
			res = append(res, f)
		}
	}
	return res
}
