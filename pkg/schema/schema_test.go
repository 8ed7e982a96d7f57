package schema_test

import (
	"strings"
	"testing"
	"time"

	"github.com/gnames/gnharmony/pkg/harmonize"
	"github.com/gnames/gnharmony/pkg/lineage"
	"github.com/gnames/gnharmony/pkg/rewrite"
	"github.com/gnames/gnharmony/pkg/schema"
	"github.com/gnames/gnuuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableDDL(t *testing.T) {
	tests := []struct {
		model schema.DDLGenerator
		table string
		cols  []string
	}{
		{schema.Run{}, "runs", []string{
			"id TEXT PRIMARY KEY", "version TEXT", "created_at TIMESTAMP",
		}},
		{schema.Assignment{}, "assignments", []string{
			"run_id TEXT NOT NULL", "record_id TEXT NOT NULL",
			"lineage_id TEXT", "depth INTEGER", "species TEXT",
		}},
		{schema.Unintegrated{}, "unintegrated", []string{
			"lineage TEXT", "reason TEXT",
		}},
		{schema.TaxID{}, "tax_ids", []string{"tax_id INTEGER"}},
		{schema.RewriteRule{}, "rewrite_rules", []string{
			"position INTEGER NOT NULL", "old_text TEXT", "new_text TEXT",
		}},
	}

	for _, v := range tests {
		ddl := v.model.TableDDL()
		assert.Equal(t, v.table, v.model.TableName())
		assert.True(t,
			strings.HasPrefix(ddl, "CREATE TABLE IF NOT EXISTS "+v.table+" ("),
			v.table)
		for _, col := range v.cols {
			assert.Contains(t, ddl, col, v.table)
		}
		for _, idx := range v.model.IndexDDL() {
			assert.Contains(t, idx, "ON "+v.table+"(", v.table)
		}
	}
}

func TestAllModels(t *testing.T) {
	models := schema.AllModels()
	gens := schema.AllGenerators()
	require.Len(t, gens, len(models))
	for i := range models {
		gen, ok := models[i].(schema.DDLGenerator)
		require.True(t, ok)
		assert.Equal(t, gens[i].TableName(), gen.TableName())
	}
}

func TestColumnsValues(t *testing.T) {
	ti := schema.TaxID{RunID: "r1", RecordID: "G1", TaxID: 1423}
	assert.Equal(t, []string{"run_id", "record_id", "tax_id"},
		schema.Columns(ti))
	assert.Equal(t, []any{"r1", "G1", 1423}, schema.Values(&ti))
}

func TestNewData(t *testing.T) {
	var lin lineage.Lineage
	lin[lineage.Domain] = "Bacteria"
	lin[lineage.Phylum] = "Bacillota"
	lin[lineage.Class] = "Bacilli"
	lin[lineage.Order] = "Bacillales"
	lin[lineage.Family] = "Bacillaceae"
	lin[lineage.Genus] = "Bacillus"
	lin[lineage.Species] = "Bacillus subtilis"

	res := &harmonize.Result{
		Lineages: []harmonize.Assignment{{ID: "AB1", Lineage: lin}},
		Unintegrated: []harmonize.Unintegrated{
			{ID: "AB2", Lineage: "Bacteria;Firmicutes", Reason: harmonize.Unplaced},
		},
		TaxIDs: []harmonize.TaxID{{ID: "AB1", TaxID: 1423}},
		Rules: []rewrite.Rule{
			{Old: "Firmicutes;Bacilli", New: "Bacillota;Bacilli"},
			{Old: "Firmicutes", New: "Bacillota"},
		},
		Stats: harmonize.Stats{Primary: 10, Secondary: 2, Lineages: 11},
	}
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	d := schema.NewData("run", "v0.1.0", res, now)

	assert.Equal(t, schema.Run{
		ID:               "run",
		Version:          "v0.1.0",
		PrimaryRecords:   10,
		SecondaryRecords: 2,
		Lineages:         11,
		Unintegrated:     1,
		CreatedAt:        now,
	}, d.Run)

	require.Len(t, d.Assignments, 1)
	a := d.Assignments[0]
	assert.Equal(t, "AB1", a.RecordID)
	assert.Equal(t, 7, a.Depth)
	assert.Equal(t, "Bacillus", a.Genus)
	assert.Equal(t, "Bacillus subtilis", a.Species)
	assert.Equal(t, gnuuid.New(a.Lineage).String(), a.LineageID)
	assert.True(t, strings.HasPrefix(a.Lineage, "d__Bacteria; p__Bacillota"))

	assert.Equal(t, "unplaced", d.Unintegrated[0].Reason)
	assert.Equal(t, 1423, d.TaxIDs[0].TaxID)
	assert.Equal(t, []schema.RewriteRule{
		{RunID: "run", Position: 1, OldText: "Firmicutes;Bacilli",
			NewText: "Bacillota;Bacilli", Specificity: 1},
		{RunID: "run", Position: 2, OldText: "Firmicutes",
			NewText: "Bacillota", Specificity: 0},
	}, d.Rules)

	tables := d.Tables()
	require.Len(t, tables, 5)
	assert.Equal(t, "runs", tables[0].Name)
	assert.Len(t, tables[0].Rows, 1)
	assert.Equal(t, "rewrite_rules", tables[4].Name)
	assert.Len(t, tables[4].Rows, 2)
	assert.Equal(t, len(tables[1].Columns), len(tables[1].Rows[0]))
	assert.Equal(t, 6, d.RowsNum())
}
