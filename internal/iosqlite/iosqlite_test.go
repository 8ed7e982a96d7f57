package iosqlite_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/gnames/gnharmony/internal/iosqlite"
	"github.com/gnames/gnharmony/pkg/harmonize"
	"github.com/gnames/gnharmony/pkg/lineage"
	"github.com/gnames/gnharmony/pkg/rewrite"
	"github.com/gnames/gnharmony/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testData(runID string) *schema.Data {
	var lin lineage.Lineage
	lin[lineage.Domain] = "Bacteria"
	lin[lineage.Phylum] = "Bacillota"
	lin[lineage.Class] = "Bacilli"
	res := &harmonize.Result{
		Lineages: []harmonize.Assignment{
			{ID: "p1", Lineage: lin},
			{ID: "s1", Lineage: lin},
		},
		Unintegrated: []harmonize.Unintegrated{
			{ID: "s2", Lineage: "Archaea", Reason: harmonize.Unplaced},
		},
		TaxIDs: []harmonize.TaxID{{ID: "p1", TaxID: 1423}},
		Rules:  []rewrite.Rule{{Old: "Firmicutes", New: "Bacillota"}},
		Stats:  harmonize.Stats{Primary: 1, Secondary: 2, Lineages: 2},
	}
	return schema.NewData(runID, "test", res, time.Now().UTC())
}

func count(t *testing.T, db *sql.DB, q string, args ...any) int {
	t.Helper()
	var res int
	require.NoError(t, db.QueryRow(q, args...).Scan(&res))
	return res
}

func TestExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.sqlite")
	exp := iosqlite.NewExporter(path)
	ctx := context.Background()

	require.NoError(t, exp.Export(ctx, testData("run1")))
	require.NoError(t, exp.Export(ctx, testData("run2")))

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	assert.Equal(t, 2, count(t, db, "SELECT count(*) FROM runs"))
	assert.Equal(t, 4, count(t, db, "SELECT count(*) FROM assignments"))
	assert.Equal(t, 2, count(t, db,
		"SELECT count(*) FROM assignments WHERE run_id = ?", "run1"))
	assert.Equal(t, 1, count(t, db,
		"SELECT count(DISTINCT lineage_id) FROM assignments"))
	assert.Equal(t, 1, count(t, db,
		"SELECT count(*) FROM unintegrated WHERE run_id = ? AND reason = ?",
		"run2", "unplaced"))
	assert.Equal(t, 1423, count(t, db,
		"SELECT tax_id FROM tax_ids WHERE run_id = ? AND record_id = ?",
		"run1", "p1"))
	assert.Equal(t, 2, count(t, db,
		"SELECT count(*) FROM rewrite_rules WHERE position = 1"))

	var version string
	err = db.QueryRow("SELECT version FROM runs WHERE id = ?", "run1").
		Scan(&version)
	require.NoError(t, err)
	assert.Equal(t, "test", version)
}

func TestExportReplacesRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.sqlite")
	exp := iosqlite.NewExporter(path)
	ctx := context.Background()

	require.NoError(t, exp.Export(ctx, testData("run1")))
	require.NoError(t, exp.Export(ctx, testData("run2")))

	again := testData("run1")
	again.Assignments = again.Assignments[:1]
	again.Unintegrated = nil
	require.NoError(t, exp.Export(ctx, again))

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	tests := []struct {
		msg   string
		query string
		run   string
		count int
	}{
		{"replaced run", "SELECT count(*) FROM runs WHERE id = ?", "run1", 1},
		{"replaced assignments",
			"SELECT count(*) FROM assignments WHERE run_id = ?", "run1", 1},
		{"replaced unintegrated",
			"SELECT count(*) FROM unintegrated WHERE run_id = ?", "run1", 0},
		{"other run assignments",
			"SELECT count(*) FROM assignments WHERE run_id = ?", "run2", 2},
		{"other run unintegrated",
			"SELECT count(*) FROM unintegrated WHERE run_id = ?", "run2", 1},
	}
	for _, v := range tests {
		assert.Equal(t, v.count, count(t, db, v.query, v.run), v.msg)
	}
}
