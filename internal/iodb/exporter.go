package iodb

import (
	"context"
	"log/slog"

	"github.com/cheggaaa/pb/v3"
	"github.com/dustin/go-humanize"
	"github.com/gnames/gnharmony/pkg/config"
	"github.com/gnames/gnharmony/pkg/db"
	"github.com/gnames/gnharmony/pkg/lifecycle"
	"github.com/gnames/gnharmony/pkg/schema"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// exporter implements lifecycle.Exporter for PostgreSQL.
type exporter struct {
	operator  db.Operator
	batchSize int
}

// NewExporter creates PostgreSQL exporter. The operator must be
// connected before Export is called.
func NewExporter(op db.Operator, cfg *config.Config) lifecycle.Exporter {
	return &exporter{operator: op, batchSize: cfg.Database.BatchSize}
}

// Export creates missing tables with GORM AutoMigrate and saves all rows
// of the run in one transaction using CopyFrom. Rows of an earlier export
// with the same run ID are deleted first.
func (e *exporter) Export(ctx context.Context, data *schema.Data) error {
	pool := e.operator.Pool()
	if pool == nil {
		return NotConnectedError()
	}

	if err := e.migrate(); err != nil {
		return err
	}

	if err := e.operator.DeleteRun(ctx, data.Run.ID); err != nil {
		return err
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return ExportError(data.Run.TableName(), err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	bar := pb.Full.Start(data.RowsNum())
	bar.Set("prefix", "Exporting to PostgreSQL: ")
	bar.Set(pb.CleanOnFinish, true)
	defer bar.Finish()

	for _, tbl := range data.Tables() {
		for _, rows := range batches(tbl.Rows, e.batchSize) {
			n, err := tx.CopyFrom(
				ctx,
				pgx.Identifier{tbl.Name},
				tbl.Columns,
				pgx.CopyFromRows(rows),
			)
			if err != nil {
				return ExportError(tbl.Name, err)
			}
			bar.Add64(n)
		}
		slog.Info("Exported table",
			"table", tbl.Name, "rows", humanize.Comma(int64(len(tbl.Rows))))
	}

	if err = tx.Commit(ctx); err != nil {
		return ExportError(data.Run.TableName(), err)
	}
	return nil
}

func (e *exporter) migrate() error {
	sqlDB := stdlib.OpenDBFromPool(e.operator.Pool())

	gormDB, err := gorm.Open(
		postgres.New(postgres.Config{Conn: sqlDB}),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)},
	)
	if err != nil {
		return SchemaError(err)
	}

	if err = schema.Migrate(gormDB); err != nil {
		return SchemaError(err)
	}
	return nil
}

// batches splits rows into chunks of at most size rows.
// Non-positive size means a single chunk.
func batches(rows [][]any, size int) [][][]any {
	if len(rows) == 0 {
		return nil
	}
	if size <= 0 || size >= len(rows) {
		return [][][]any{rows}
	}
	res := make([][][]any, 0, len(rows)/size+1)
	for start := 0; start < len(rows); start += size {
		end := min(start+size, len(rows))
		res = append(res, rows[start:end])
	}
	return res
}
