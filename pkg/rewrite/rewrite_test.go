package rewrite_test

import (
	"errors"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/gnharmony/pkg/errcode"
	"github.com/gnames/gnharmony/pkg/rewrite"
	"github.com/gnames/gnharmony/pkg/taxonomy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuleRewrite(t *testing.T) {
	tests := []struct {
		msg      string
		old, new string
		inp, out string
	}{
		{"simple", "Firmicutes", "Bacillota", "Bacteria;Firmicutes", "Bacteria;Bacillota"},
		{"no match", "Firmicutes", "Bacillota", "Bacteria;Bacilli", "Bacteria;Bacilli"},
		{"deletion", "Bacteria;Bacteria", "Bacteria", "Bacteria;Bacteria;Bacilli", "Bacteria;Bacilli"},
		{
			msg: "target contains old",
			old: "Bacteria;Firmicutes;",
			new: "Bacteria;Firmicutes;Bacilli;",
			inp: "Bacteria;Firmicutes;Bacilli;Bacillales",
			out: "Bacteria;Firmicutes;Bacilli;Bacillales",
		},
		{
			msg: "target contains old, not rewritten yet",
			old: "Bacteria;Firmicutes;",
			new: "Bacteria;Firmicutes;Bacilli;",
			inp: "Bacteria;Firmicutes;Lactobacillales",
			out: "Bacteria;Firmicutes;Bacilli;Lactobacillales",
		},
	}

	for _, v := range tests {
		r := rewrite.Rule{Old: v.old, New: v.new}
		res := r.Rewrite(v.inp)
		assert.Equal(t, v.out, res, v.msg)
		assert.Equal(t, res, r.Rewrite(res), v.msg)
	}
}

func TestSort(t *testing.T) {
	rules := []rewrite.Rule{
		{Old: "Firmicutes", New: "Bacillota"},
		{Old: "Bacteria;Proteobacteria;", New: "Bacteria;Pseudomonadota;"},
		{Old: "Bacteria;Firmicutes;Bacilli;", New: "Bacteria;Bacillota;Bacilli;"},
		{Old: "Bacteria;Actinobacteria;", New: "Bacteria;Actinomycetota;"},
	}
	rewrite.Sort(rules)
	assert.Equal(t, 3, rules[0].Specificity())
	assert.Equal(t, "Bacteria;Actinobacteria;", rules[1].Old)
	assert.Equal(t, "Bacteria;Proteobacteria;", rules[2].Old)
	assert.Equal(t, "Firmicutes", rules[3].Old)

	dup := rewrite.Dedup(append(rules, rules[0]))
	assert.Len(t, dup, 4)

	merged := rewrite.Merge(rules[:1], rules[3:])
	assert.Equal(t, []rewrite.Rule{rules[0], rules[3]}, merged)
}

func TestApplyIdempotent(t *testing.T) {
	tbl := taxonomy.FromEntries([]taxonomy.Entry{
		{ID: "a", Lineage: "Bacteria;Firmicutes;Bacilli;Bacillales"},
		{ID: "b", Lineage: "Bacteria;Proteobacteria;Gammaproteobacteria"},
		{ID: "c", Lineage: "Archaea;Euryarchaeota"},
	})
	rules := []rewrite.Rule{
		{Old: "Bacteria;Firmicutes;", New: "Bacteria;Bacillota;"},
		{Old: "Proteobacteria", New: "Pseudomonadota"},
		{Old: "Pseudomonadota;Gamma", New: "Pseudomonadota;Gamma"},
	}
	changed := rewrite.Apply(rules, tbl)
	assert.Equal(t, []string{"a", "b"}, changed)

	a, _ := tbl.Get("a")
	assert.Equal(t, "Bacteria;Bacillota;Bacilli;Bacillales", a.Lineage)
	assert.Equal(t, "Bacteria;Firmicutes;Bacilli;Bacillales", a.Original)
	b, _ := tbl.Get("b")
	assert.Equal(t, "Bacteria;Pseudomonadota;Gammaproteobacteria", b.Lineage)

	changed = rewrite.Apply(rules, tbl)
	assert.Empty(t, changed)
}

func TestApplySinglePass(t *testing.T) {
	tests := []struct {
		msg     string
		rules   []rewrite.Rule
		inp     string
		out     string
		changed bool
	}{
		{"later rule output is not revisited",
			[]rewrite.Rule{{Old: "Y", New: "Z"}, {Old: "X", New: "Y"}},
			"Bacteria;X", "Bacteria;Y", true},
		{"derived rule does not act on curated output",
			[]rewrite.Rule{
				{Old: "Bacteria;Bacillota;", New: "Bacteria;Firmicutes_A;"},
				{Old: "Firmicutes", New: "Bacillota"},
			},
			"Bacteria;Firmicutes;Bacilli", "Bacteria;Bacillota;Bacilli", true},
		{"cyclic rules run once",
			[]rewrite.Rule{
				{Old: "Y", New: "Z"}, {Old: "X", New: "Y"}, {Old: "Z", New: "X"},
			},
			"Bacteria;X", "Bacteria;Y", true},
		{"growing rules run once",
			[]rewrite.Rule{{Old: "X", New: "YY"}, {Old: "Y", New: "X"}},
			"Bacteria;X", "Bacteria;XX", true},
		{"no match", []rewrite.Rule{{Old: "Q", New: "R"}},
			"Bacteria;X", "Bacteria;X", false},
	}

	for _, v := range tests {
		tbl := taxonomy.FromEntries([]taxonomy.Entry{
			{ID: "a", Lineage: v.inp},
		})
		changed := rewrite.Apply(v.rules, tbl)
		a, _ := tbl.Get("a")
		assert.Equal(t, v.out, a.Lineage, v.msg)
		assert.Equal(t, v.inp, a.Original, v.msg)
		if v.changed {
			assert.Equal(t, []string{"a"}, changed, v.msg)
		} else {
			assert.Empty(t, changed, v.msg)
		}
	}
}

func TestCheckDomains(t *testing.T) {
	domains := []string{"Archaea", "Bacteria"}
	tests := []struct {
		msg  string
		rule rewrite.Rule
		err  bool
	}{
		{"same domain", rewrite.Rule{Old: "Bacteria;A;", New: "Bacteria;B;"}, false},
		{"no domain", rewrite.Rule{Old: "Firmicutes", New: "Bacillota"}, false},
		{"cross domain", rewrite.Rule{Old: "Bacteria;A;", New: "Archaea;A;"}, true},
		{"substring is not a domain", rewrite.Rule{
			Old: "Bacteria;Proteobacteria;", New: "Bacteria;Pseudomonadota;"}, false},
	}

	for _, v := range tests {
		err := rewrite.CheckDomains([]rewrite.Rule{v.rule}, domains)
		if !v.err {
			assert.Nil(t, err, v.msg)
			continue
		}
		require.NotNil(t, err, v.msg)
		var gnErr *gn.Error
		require.True(t, errors.As(err, &gnErr), v.msg)
		assert.Equal(t, errcode.RewriteCrossDomainError, gnErr.Code, v.msg)
	}
}

func TestBuildNameIndex(t *testing.T) {
	pairs := []rewrite.Pair{
		{
			From: "d__Bacteria;p__Firmicutes;c__Bacilli;o__Bacillales;f__Bacillaceae;g__Bacillus;s__Bacillus subtilis",
			To:   "d__Bacteria;p__Bacillota;c__Bacilli;o__Bacillales;f__Bacillaceae;g__Bacillus;s__Bacillus subtilis",
		},
		{
			From: "d__Bacteria;p__Firmicutes;c__Bacilli;o__Bacillales;f__Bacillaceae;g__Bacillus;s__Bacillus cereus",
			To:   "d__Bacteria;p__Bacillota;c__Bacilli;o__Bacillales;f__Bacillaceae;g__Bacillus_A;s__Bacillus_A cereus",
		},
	}
	idx := rewrite.BuildNameIndex(pairs)

	assert.Equal(t, "Bacteria;Bacillota",
		idx[rewrite.IndexKey{Rank: 1, Name: "Firmicutes"}])
	_, ok := idx[rewrite.IndexKey{Rank: 5, Name: "Bacillus"}]
	assert.False(t, ok, "conflicting genus is dropped")
	_, ok = idx[rewrite.IndexKey{Rank: 6, Name: "Bacillus cereus"}]
	assert.False(t, ok, "renamed species is skipped")
	assert.Equal(t,
		"Bacteria;Bacillota;Bacilli;Bacillales;Bacillaceae;Bacillus;Bacillus subtilis",
		idx[rewrite.IndexKey{Rank: 6, Name: "Bacillus subtilis"}])

	uniq := rewrite.UniqueSpecies(pairs)
	assert.Equal(t,
		"Bacteria;Bacillota;Bacilli;Bacillales;Bacillaceae;Bacillus_A;Bacillus_A cereus",
		uniq["Bacillus cereus"])
}

func TestDerive(t *testing.T) {
	idx := rewrite.NameIndex{
		{Rank: 1, Name: "Firmicutes"}: "Bacteria;Bacillota",
		{Rank: 2, Name: "Bacilli"}:    "Bacteria;Bacillota;Bacilli",
		{Rank: 1, Name: "Chloroflexi"}: "Bacteria;Chloroflexota",
	}
	tbl := taxonomy.FromEntries([]taxonomy.Entry{
		{ID: "a", Lineage: "Bacteria;Firmicutes;Bacilli;Bacillales"},
		{ID: "b", Lineage: "Bacteria;Firmicutes;Clostridia"},
		{ID: "c", Lineage: "Bacteria;Bacillota;Bacilli"},
	})
	rules := rewrite.Derive(tbl, idx)
	assert.Equal(t, []rewrite.Rule{
		{Old: "Bacteria;Firmicutes;Bacilli;", New: "Bacteria;Bacillota;Bacilli;"},
		{Old: "Bacteria;Firmicutes;", New: "Bacteria;Bacillota;"},
	}, rules)

	rewrite.Apply(rules, tbl)
	b, _ := tbl.Get("b")
	assert.Equal(t, "Bacteria;Bacillota;Clostridia", b.Lineage)
}
