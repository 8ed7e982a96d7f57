package schema

import (
	"time"

	"github.com/gnames/gnharmony/pkg/harmonize"
	"github.com/gnames/gnharmony/pkg/lineage"
	"github.com/gnames/gnuuid"
)

// Data is a harmonization result converted to table rows of one run.
type Data struct {
	Run          Run
	Assignments  []Assignment
	Unintegrated []Unintegrated
	TaxIDs       []TaxID
	Rules        []RewriteRule
}

// NewData converts a result to rows that belong to the run runID.
func NewData(
	runID, version string,
	res *harmonize.Result,
	createdAt time.Time,
) *Data {
	st := res.Stats
	d := &Data{
		Run: Run{
			ID:               runID,
			Version:          version,
			PrimaryRecords:   st.Primary,
			SecondaryRecords: st.Secondary,
			Rules:            st.Rules,
			Lineages:         st.Lineages,
			Grafted:          st.Grafted,
			CarriedOver:      st.CarriedOver,
			Unintegrated:     len(res.Unintegrated),
			CreatedAt:        createdAt,
		},
		Assignments:  make([]Assignment, len(res.Lineages)),
		Unintegrated: make([]Unintegrated, len(res.Unintegrated)),
		TaxIDs:       make([]TaxID, len(res.TaxIDs)),
		Rules:        make([]RewriteRule, len(res.Rules)),
	}

	for i, v := range res.Lineages {
		lin := v.String()
		d.Assignments[i] = Assignment{
			RunID:     runID,
			RecordID:  v.ID,
			LineageID: gnuuid.New(lin).String(),
			Lineage:   lin,
			Depth:     v.Lineage.Depth(),
			Genus:     v.Lineage[lineage.Genus],
			Species:   v.Lineage[lineage.Species],
		}
	}
	for i, v := range res.Unintegrated {
		d.Unintegrated[i] = Unintegrated{
			RunID:    runID,
			RecordID: v.ID,
			Lineage:  v.Lineage,
			Reason:   string(v.Reason),
		}
	}
	for i, v := range res.TaxIDs {
		d.TaxIDs[i] = TaxID{RunID: runID, RecordID: v.ID, TaxID: v.TaxID}
	}
	for i, v := range res.Rules {
		d.Rules[i] = RewriteRule{
			RunID:       runID,
			Position:    i + 1,
			OldText:     v.Old,
			NewText:     v.New,
			Specificity: v.Specificity(),
		}
	}
	return d
}

// Table is a set of rows of one model ready for bulk insert.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]any
}

// Tables returns rows of all tables in the order of AllModels.
func (d *Data) Tables() []Table {
	return []Table{
		newTable(Run{}, []Run{d.Run}),
		newTable(Assignment{}, d.Assignments),
		newTable(Unintegrated{}, d.Unintegrated),
		newTable(TaxID{}, d.TaxIDs),
		newTable(RewriteRule{}, d.Rules),
	}
}

// RowsNum returns the total number of rows in all tables.
func (d *Data) RowsNum() int {
	return 1 + len(d.Assignments) + len(d.Unintegrated) +
		len(d.TaxIDs) + len(d.Rules)
}

func newTable[T DDLGenerator](model T, rows []T) Table {
	res := Table{
		Name:    model.TableName(),
		Columns: Columns(model),
		Rows:    make([][]any, len(rows)),
	}
	for i := range rows {
		res.Rows[i] = Values(rows[i])
	}
	return res
}
