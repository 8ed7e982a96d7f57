// Package iosqlite implements export of harmonized data to a SQLite file.
// This is an impure I/O package that implements lifecycle.Exporter.
package iosqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cheggaaa/pb/v3"
	"github.com/dustin/go-humanize"
	"github.com/gnames/gnharmony/pkg/lifecycle"
	"github.com/gnames/gnharmony/pkg/schema"
	_ "modernc.org/sqlite"
)

type exporter struct {
	path string
}

// NewExporter creates an exporter to a SQLite database at path.
// The file is created when it does not exist.
func NewExporter(path string) lifecycle.Exporter {
	return &exporter{path: path}
}

// Export creates missing tables and indices and saves all rows of the run
// in one transaction. Rows of an earlier export with the same run ID are
// replaced.
func (e *exporter) Export(ctx context.Context, data *schema.Data) error {
	db, err := sql.Open("sqlite", e.path)
	if err != nil {
		return OpenError(e.path, err)
	}
	defer db.Close()

	if err = createSchema(ctx, db); err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return OpenError(e.path, err)
	}
	defer func() { _ = tx.Rollback() }()

	if err = deleteRun(ctx, tx, data.Run.ID); err != nil {
		return err
	}

	bar := pb.Full.Start(data.RowsNum())
	bar.Set("prefix", "Exporting to SQLite: ")
	bar.Set(pb.CleanOnFinish, true)
	defer bar.Finish()

	for _, tbl := range data.Tables() {
		if err = insert(ctx, tx, tbl, bar); err != nil {
			return err
		}
		slog.Info("Exported table",
			"table", tbl.Name, "rows", humanize.Comma(int64(len(tbl.Rows))))
	}

	if err = tx.Commit(); err != nil {
		return ExportError(e.path, "commit", err)
	}
	return nil
}

func createSchema(ctx context.Context, db *sql.DB) error {
	for _, v := range schema.AllGenerators() {
		stmts := append([]string{v.TableDDL()}, v.IndexDDL()...)
		for _, stmt := range stmts {
			if _, err := db.ExecContext(ctx, stmt); err != nil {
				return SchemaError(v.TableName(), err)
			}
		}
	}
	return nil
}

// deleteRun removes rows of the run, dependent tables go first.
func deleteRun(ctx context.Context, tx *sql.Tx, runID string) error {
	gens := schema.AllGenerators()
	for i := len(gens) - 1; i >= 0; i-- {
		table := gens[i].TableName()
		col := "run_id"
		if table == (schema.Run{}).TableName() {
			col = "id"
		}
		q := fmt.Sprintf("DELETE FROM %s WHERE %s = ?", table, col)
		if _, err := tx.ExecContext(ctx, q, runID); err != nil {
			return ExportError(table, "delete", err)
		}
	}
	return nil
}

func insert(
	ctx context.Context,
	tx *sql.Tx,
	tbl schema.Table,
	bar *pb.ProgressBar,
) error {
	if len(tbl.Rows) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, insertSQL(tbl))
	if err != nil {
		return ExportError(tbl.Name, "prepare", err)
	}
	defer stmt.Close()

	for _, row := range tbl.Rows {
		if _, err = stmt.ExecContext(ctx, row...); err != nil {
			return ExportError(tbl.Name, "insert", err)
		}
		bar.Increment()
	}
	return nil
}

func insertSQL(tbl schema.Table) string {
	marks := strings.TrimSuffix(strings.Repeat("?, ", len(tbl.Columns)), ", ")
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		tbl.Name, strings.Join(tbl.Columns, ", "), marks)
}
