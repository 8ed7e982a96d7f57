package polyphyly_test

import (
	"errors"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/gnharmony/pkg/errcode"
	"github.com/gnames/gnharmony/pkg/lineage"
	"github.com/gnames/gnharmony/pkg/polyphyly"
	"github.com/gnames/gnharmony/pkg/taxonomy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func table(t *testing.T, data [][2]string) *taxonomy.Table {
	t.Helper()
	res := taxonomy.New()
	for _, v := range data {
		res.Add(taxonomy.Entry{ID: v[0], Lineage: v[1]})
	}
	res.ParseRanks(";")
	return res
}

func TestDetect(t *testing.T) {
	tbl := table(t, [][2]string{
		{"x1", "d__X; p__X; c__X; o__X; f__X; g__X; s__X X"},
		{"x2", "d__X; p__X_A; c__X; o__X; f__X; g__X; s__X X"},
		{"x3", "d__X; p__Y; c__X; o__X; f__X; g__X; s__X X"},
		{"x4", "d__X; p__Y; c__X; o__X; f__X; g__X; s__X X"},
		{"x5", "d__X; p__Z_B; c__X; o__X; f__X; g__X; s__X X"},
		{"x6", "d__X; p__Y; c__X; o__X; f__X; g__X_A; s__X_A X"},
		{"x7", "d__X; p__Y; c__X; o__X; f__X; g__X; s__Y X"},
		{"x8", "d__X; p__Y; c__X; o__X; f__X; g__X; s__Y X_A"},
		{"x9", "d__X; p__Y; c__X; o__X; f__X; g__X; s__Z X"},
	})
	rp, err := polyphyly.Detect(tbl)
	require.Nil(t, err)

	tests := []struct {
		msg  string
		rank lineage.Rank
		exp  []string
	}{
		{"domain", lineage.Domain, nil},
		{"phylum", lineage.Phylum, []string{"X", "Z"}},
		{"class", lineage.Class, nil},
		{"genus", lineage.Genus, []string{"X"}},
		{"species", lineage.Species, []string{"X X", "Y X"}},
	}

	for _, v := range tests {
		res := rp.Bases(v.rank)
		if v.exp == nil {
			assert.Empty(t, res, v.msg)
			continue
		}
		assert.Equal(t, v.exp, res, v.msg)
	}
	assert.Equal(t, 5, rp.Len())
	assert.Equal(t, []string{"X", "X_A", "Z", "Z_B"}, rp.Labels(lineage.Phylum))
	assert.True(t, rp.IsPolyphyletic(lineage.Phylum, "Z"))
	assert.False(t, rp.IsPolyphyletic(lineage.Phylum, "Z_B"))
	assert.False(t, rp.IsPolyphyletic(lineage.Phylum, "Y"))
}

func TestDetectSymmetric(t *testing.T) {
	tests := []struct {
		msg    string
		labels []string
		exp    []string
	}{
		{"marked family", []string{"X", "X_A", "X_B"}, []string{"X", "X_A", "X_B"}},
		{"reversed order", []string{"X_B", "X_A", "X"}, []string{"X", "X_A", "X_B"}},
		{"no shared base", []string{"X", "Y"}, nil},
	}

	for _, v := range tests {
		var data [][2]string
		for i, l := range v.labels {
			data = append(data, [2]string{string(rune('a' + i)), "d__D; p__" + l})
		}
		rp, err := polyphyly.Detect(table(t, data))
		require.Nil(t, err, v.msg)
		res := rp.Labels(lineage.Phylum)
		if v.exp == nil {
			assert.Empty(t, res, v.msg)
			continue
		}
		assert.Equal(t, v.exp, res, v.msg)
	}
}

func TestDetectBadLabel(t *testing.T) {
	tbl := table(t, [][2]string{
		{"x1", "d__X; p__Bad label!"},
	})
	_, err := polyphyly.Detect(tbl)
	require.NotNil(t, err)
	var gnErr *gn.Error
	require.True(t, errors.As(err, &gnErr))
	assert.Equal(t, errcode.LineageLabelError, gnErr.Code)
}

func TestAmbiguousIDs(t *testing.T) {
	primary := table(t, [][2]string{
		{"x1", "d__Xa; p__Xb; c__Xc; o__Xd; f__Xe; g__Xf; s__Xf Xg"},
		{"x2", "d__Xa; p__Xb; c__Xc; o__Xd; f__Xe; g__Xf; s__Xf Xh"},
		{"x3", "d__Xa; p__Xb; c__Xc; o__Xd; f__Xe; g__Xi; s__Xi Xj"},
		{"x4", "d__Xa; p__Xb; c__Xc; o__Xd; f__Xe; g__Xi_A; s__Xi_A Xj"},
		{"x5", "d__Xa; p__Xb; c__Xc; o__Xd; f__Xe; g__Xk; s__Xk Xl_A"},
		{"x6", "d__Xa; p__Xo_A; c__Xp; o__Xq; f__Xr; g__Xm; s__Xm Xn"},
		{"x7", "d__Xa; p__Xo_A; c__Xp; o__Xq; f__Xr; g__Xm; s__Xm Xz_B"},
	})
	rp, err := polyphyly.Detect(primary)
	require.Nil(t, err)
	assert.Equal(t, []string{"Xo"}, rp.Bases(lineage.Phylum))
	assert.Equal(t, []string{"Xi"}, rp.Bases(lineage.Genus))
	assert.Equal(t, []string{"Xi Xj", "Xk Xl", "Xm Xz"},
		rp.Bases(lineage.Species))

	secondary := table(t, [][2]string{
		{"y1", "Xa;Xb;Xc;Xd;Xe;Xf;Xf Xg"},
		{"y2", "Xa;Xb;Xc;Xd;Xe;Xf;Xf Xh"},
		{"y3", "Xa;Xb;Xc;Xd;Xe;Xf;Xi Xj"},
		{"y4", "Xa;Xb;Xc;Xd;Xe;Xf;Xk Xl"},
		{"y5", "Xa;Xo;Xp;Xq;Xr;Xm;Xm Xn"},
		{"y6", "Xa;Xo;Xp;Xq;Xr;Xm;Xm Xz"},
		{"y7", "Xb;X1;X2;X3;X4;X5;X6 X7"},
		{"y8", "Xb;X1;X2;X3;X4;X5;X6 X8"},
	})
	assert.Equal(t, []string{"y3", "y4", "y5", "y6"}, rp.AmbiguousIDs(secondary))

	e, _ := secondary.Get("y5")
	e.ExplicitlySet = true
	assert.Equal(t, []string{"y3", "y4", "y6"}, rp.AmbiguousIDs(secondary))
}
