package iorules_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/gnharmony/internal/iofs"
	"github.com/gnames/gnharmony/internal/iorules"
	"github.com/gnames/gnharmony/pkg/errcode"
	"github.com/gnames/gnharmony/pkg/harmonize"
	"github.com/gnames/gnharmony/pkg/rewrite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefault(t *testing.T) {
	cur, err := iorules.Parse([]byte(iofs.RulesYAML))
	require.NoError(t, err)

	assert.Equal(t, rewrite.Rule{
		Old: "Actinobacteria;Micrococcales",
		New: "Actinobacteria;Actinomycetales",
	}, cur.Renames[0])
	assert.Contains(t, cur.Overrides, "GU269547")
	assert.Contains(t, cur.Drop, "KF981441")
	assert.Contains(t, cur.AllowedReusedLabels, "UBA8346")
	assert.Equal(t, harmonize.TaxIDOverride{
		Name:  "Yersinia rochesterensis",
		TaxID: 1604335,
	}, cur.TaxIDs["KJ606916"])
}

func TestParse(t *testing.T) {
	tests := []struct {
		msg  string
		data string
		err  bool
	}{
		{"empty", "", false},
		{"comments only", "# nothing here\n", false},
		{"renames", "renames:\n  - old: A\n    new: B\n", false},
		{"empty new", "renames:\n  - old: A\n    new: ''\n", true},
		{"no change", "renames:\n  - old: A\n    new: A\n", true},
		{"empty override", "overrides:\n  AB1: ''\n", true},
		{"unknown key", "rename:\n  - old: A\n    new: B\n", true},
		{"bad yaml", "renames: [\n", true},
	}

	for _, v := range tests {
		_, err := iorules.Parse([]byte(v.data))
		if v.err {
			assert.Error(t, err, v.msg)
		} else {
			assert.NoError(t, err, v.msg)
		}
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	data := "drop:\n  - AB1\noverrides:\n  AB2: Bacteria;Bacillota\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cur, err := iorules.Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"AB1"}, cur.Drop)
	assert.Equal(t, map[string]string{"AB2": "Bacteria;Bacillota"},
		cur.Overrides)

	tests := []struct {
		msg  string
		path string
		data string
		code gn.ErrorCode
	}{
		{"missing", filepath.Join(dir, "none.yaml"), "", errcode.ReadFileError},
		{"broken", filepath.Join(dir, "bad.yaml"), "drop: {", errcode.RulesParseError},
	}
	for _, v := range tests {
		if v.data != "" {
			require.NoError(t, os.WriteFile(v.path, []byte(v.data), 0644))
		}
		_, err = iorules.Load(v.path)
		var gnErr *gn.Error
		require.True(t, errors.As(err, &gnErr), v.msg)
		assert.Equal(t, v.code, gnErr.Code, v.msg)
	}
}

func TestWriteRules(t *testing.T) {
	rules := []rewrite.Rule{
		{Old: "Bacteria;Firmicutes;Bacilli;", New: "Bacteria;Bacillota;Bacilli;"},
		{Old: "Bacteria;Firmicutes;", New: "Bacteria;Bacillota;"},
	}
	path := filepath.Join(t.TempDir(), "out.rewrite_rules")
	require.NoError(t, iorules.WriteRules(path, rules))

	res, err := iorules.ReadRules(path)
	require.NoError(t, err)
	assert.Equal(t, rules, res)

	// the saved file is a valid rules file
	cur, err := iorules.Load(path)
	require.NoError(t, err)
	assert.Equal(t, rules, cur.Renames)
}

func TestEncodeRules(t *testing.T) {
	var buf bytes.Buffer
	rules := []rewrite.Rule{{Old: "Bacteria;Firmicutes;", New: "Bacteria;Bacillota;"}}
	require.NoError(t, iorules.EncodeRules(&buf, rules))
	assert.Equal(t,
		"renames:\n  - old: Bacteria;Firmicutes;\n    new: Bacteria;Bacillota;\n",
		buf.String())

	cur, err := iorules.Parse(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, rules, cur.Renames)
}
