// Package lifecycle defines contracts of components that store results
// of harmonization outside of TSV files.
package lifecycle

import (
	"context"

	"github.com/gnames/gnharmony/pkg/schema"
)

// Exporter saves harmonized data of one run to a database.
// Tables are created when they do not exist yet. Rows of previous runs
// are kept, every row refers to its run.
type Exporter interface {
	// Export saves all tables of data. Either all rows are saved or
	// none of them.
	Export(ctx context.Context, data *schema.Data) error
}
