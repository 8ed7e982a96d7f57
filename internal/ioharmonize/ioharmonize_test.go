package ioharmonize_test

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/gnharmony/internal/ioharmonize"
	"github.com/gnames/gnharmony/internal/iorules"
	"github.com/gnames/gnharmony/internal/iotable"
	"github.com/gnames/gnharmony/internal/iotesting"
	"github.com/gnames/gnharmony/pkg/config"
	"github.com/gnames/gnharmony/pkg/errcode"
	"github.com/gnames/gnharmony/pkg/harmonize"
	"github.com/gnames/gnharmony/pkg/rewrite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func testConfig(t *testing.T, opts ...config.Option) *config.Config {
	t.Helper()
	in := iotesting.WriteInput(t)
	cfg := config.New()
	cfg.Update(append([]config.Option{
		config.OptInputPrimaryPath(in.PrimaryPath),
		config.OptInputSecondaryPath(in.SecondaryPath),
		config.OptInputTaxIDsPath(in.TaxIDsPath),
		config.OptInputRulesPath(in.RulesPath),
		config.OptInputOutputPath(in.OutputPath),
		config.OptJobsNumber(2),
	}, opts...))
	return cfg
}

func errCode(t *testing.T, err error) gn.ErrorCode {
	t.Helper()
	var gnErr *gn.Error
	require.True(t, errors.As(err, &gnErr))
	return gnErr.Code
}

func TestLoad(t *testing.T) {
	cfg := testConfig(t)
	inp, err := ioharmonize.New(cfg).Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, inp.Primary.Len())
	assert.Equal(t, 6, inp.Secondary.Len())
	assert.Equal(t, map[string]int{
		"p1": 1423, "s1": 1396, "Priestia megaterium": 1404,
	}, inp.TaxIDs)
	assert.Equal(t, []string{"s4"}, inp.Curated.Drop)

	e, ok := inp.Secondary.Get("s1")
	require.True(t, ok)
	assert.Equal(t, "Bacillus cereus", e.OriginalSpecies)
	e, _ = inp.Secondary.Get("s6")
	assert.Equal(t, "Priestia megaterium", e.OriginalSpecies)
}

func TestLoadMetadata(t *testing.T) {
	dir := t.TempDir()
	md := iotesting.WriteLines(t, dir, "bac.tsv", []string{
		"accession\tncbi_taxid\tgtdb_representative\t" +
			"ncbi_type_material_designation\tncbi_taxonomy\tgtdb_taxonomy",
		"RS_GCF_000009045.1\t224308\tt\tassembly from type material\t" +
			"d__Bacteria;p__Firmicutes;c__Bacilli;o__Bacillales;" +
			"f__Bacillaceae;g__Bacillus;s__Bacillus subtilis\t" +
			"d__Bacteria;p__Bacillota;c__Bacilli;o__Bacillales;" +
			"f__Bacillaceae;g__Bacillus;s__Bacillus subtilis",
	})
	tips := iotesting.WriteLines(t, dir, "tips.txt", []string{
		"p1", "p2", "p3", "p4", "s1", "RS_GCF_000009045.1",
	})
	cfg := testConfig(t,
		config.OptInputMetadataPaths([]string{md}),
		config.OptInputTipsPath(tips),
	)

	inp, err := ioharmonize.New(cfg).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, inp.Primary.Len())
	assert.True(t, inp.Primary.Has("RS_GCF_000009045.1"))
	assert.Len(t, inp.Pairs, 1)
	assert.Len(t, inp.SpeciesPairs, 1)
	assert.Equal(t, 224308, inp.TaxIDs["G000009045"])
	assert.Len(t, inp.Tips, 6)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		msg  string
		cfg  *config.Config
		code gn.ErrorCode
	}{
		{"no primary", config.New(), errcode.HarmonizeInputError},
		{
			"missing rules",
			testConfig(t, config.OptInputRulesPath(
				filepath.Join(t.TempDir(), "none.yaml"))),
			errcode.ReadFileError,
		},
		{
			"missing secondary",
			testConfig(t, config.OptInputSecondaryPath(
				filepath.Join(t.TempDir(), "none.tsv"))),
			errcode.ReadFileError,
		},
	}

	for _, v := range tests {
		_, err := ioharmonize.New(v.cfg).Load(context.Background())
		require.Error(t, err, v.msg)
		assert.Equal(t, v.code, errCode(t, err), v.msg)
	}
}

func TestRun(t *testing.T) {
	cfg := testConfig(t, config.OptHarmonizeExport("sqlite"))
	res, err := ioharmonize.New(cfg).Run(context.Background())
	require.NoError(t, err)

	lins := make(map[string]string)
	for _, v := range res.Lineages {
		lins[v.ID] = v.String()
	}
	assert.Len(t, lins, 7)
	assert.Equal(t,
		"d__Bacteria; p__Bacillota; c__Bacilli; o__Bacillales; "+
			"f__Bacillaceae; g__Bacillus; s__Bacillus cereus",
		lins["s1"])
	assert.Equal(t,
		"d__Bacteria; p__Bacillota; c__Bacilli; o__Bacillales; "+
			"f__Bacillaceae; g__Priestia_A; s__Priestia_A megaterium",
		lins["s6"])
	assert.Equal(t,
		"d__Bacteria; p__Bacillota; c__Bacilli; o__Bacillales; "+
			"f__Listeriaceae; g__Brochothrix; s__Brochothrix campestris",
		lins["s3"])

	reasons := make(map[string]harmonize.Reason)
	for _, v := range res.Unintegrated {
		reasons[v.ID] = v.Reason
	}
	assert.Equal(t, map[string]harmonize.Reason{
		"s2": harmonize.Polyphyletic,
		"s4": harmonize.Dropped,
		"s5": harmonize.Unplaced,
	}, reasons)

	paths := iotable.OutputPaths(cfg.Input.OutputPath)

	primary, err := iotable.ReadPrimary(paths.Lineages)
	require.NoError(t, err)
	assert.Equal(t, 7, primary.Len())

	ids, err := iotable.ReadTaxIDs(paths.TaxIDs)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{
		"p1": 1423, "s1": 1396, "s3": 2756, "s6": 1404,
	}, ids)

	rules, err := iorules.ReadRules(paths.Rules)
	require.NoError(t, err)
	assert.Equal(t, []rewrite.Rule{
		{Old: "Bacteria;Firmicutes;", New: "Bacteria;Bacillota;"},
	}, rules)

	data, err := os.ReadFile(paths.Unintegrated)
	require.NoError(t, err)
	assert.Contains(t, string(data), "s5\tArchaea;Halobacteriota\tunplaced\n")

	db, err := sql.Open("sqlite", paths.SQLite)
	require.NoError(t, err)
	defer db.Close()
	var count int
	err = db.QueryRow("SELECT count(*) FROM assignments").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 7, count)
}

func TestRunWithRunID(t *testing.T) {
	id := "0b6f3c52-8f1e-4d4b-9a7e-2f1d8f6c1a10"
	cfg := testConfig(t,
		config.OptHarmonizeExport("sqlite"),
		config.OptHarmonizeRunID(id),
	)
	for range 2 {
		_, err := ioharmonize.New(cfg).Run(context.Background())
		require.NoError(t, err)
	}

	db, err := sql.Open("sqlite", iotable.OutputPaths(cfg.Input.OutputPath).SQLite)
	require.NoError(t, err)
	defer db.Close()

	var runID string
	var count int
	err = db.QueryRow("SELECT id, count(*) FROM runs").Scan(&runID, &count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, id, runID)
	err = db.QueryRow("SELECT count(*) FROM assignments WHERE run_id = ?", id).
		Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 7, count)
}

func TestRules(t *testing.T) {
	cfg := testConfig(t)
	rules, err := ioharmonize.New(cfg).Rules(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []rewrite.Rule{
		{Old: "Bacteria;Firmicutes;", New: "Bacteria;Bacillota;"},
	}, rules)
}

func TestValidate(t *testing.T) {
	cfg := testConfig(t)
	reports, err := ioharmonize.New(cfg).Validate(context.Background())
	require.NoError(t, err)
	require.Len(t, reports, 2)
	for _, v := range reports {
		assert.True(t, v.OK(), v.Name)
	}
	assert.Equal(t, 4, reports[0].Records)
	assert.Equal(t, 6, reports[1].Records)

	bad := iotesting.WriteLines(t, t.TempDir(), "primary.tsv", []string{
		"p1\td__Bacteria; p__Bacillota; c__Bacilli",
		"p2\td__Bacteria; p__Actinomycetota; c__Bacilli",
	})
	cfg.Update([]config.Option{config.OptInputPrimaryPath(bad)})
	reports, err = ioharmonize.New(cfg).Validate(context.Background())
	require.NoError(t, err)
	assert.False(t, reports[0].OK())
	require.Len(t, reports[0].Violations, 1)
	assert.Equal(t, "Bacilli", reports[0].Violations[0].Label)
}

func TestOutputPaths(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	cfg := config.New()
	cfg.Update([]config.Option{
		config.OptInputOutputPath(filepath.Join(dir, "out.tsv")),
	})
	paths, err := ioharmonize.New(cfg).OutputPaths()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "out.tsv.sqlite"), paths.SQLite)
	assert.DirExists(t, dir)
}
