package harmonize

import (
	"github.com/gnames/gnharmony/pkg/lineage"
	"github.com/gnames/gnharmony/pkg/rewrite"
	"github.com/gnames/gnharmony/pkg/taxonomy"
)

// Input contains fully loaded data for one harmonization run.
type Input struct {
	// Primary is the reference taxonomy with rank-prefixed lineages.
	Primary *taxonomy.Table

	// Secondary is the type-strain taxonomy. Its lineages do not contain
	// species, species come from OriginalSpecies or Synonym.
	Secondary *taxonomy.Table

	// Tips restricts both taxonomies to records of the reference tree.
	// Empty means no restriction.
	Tips map[string]struct{}

	// Pairs link secondary-vocabulary lineages to primary lineages of
	// trusted records. They feed automatic rewrite rules and unique
	// species mappings.
	Pairs []rewrite.Pair

	// SpeciesPairs feed unique species mappings when they are given. They
	// are usually all known records, not only the trusted ones.
	SpeciesPairs []rewrite.Pair

	// TaxIDs are externally resolved identifiers by record ID.
	TaxIDs map[string]int

	Curated Curated
}

func (inp Input) speciesPairs() []rewrite.Pair {
	if len(inp.SpeciesPairs) > 0 {
		return inp.SpeciesPairs
	}
	return inp.Pairs
}

// Reason tells why a secondary record was not integrated.
type Reason string

const (
	// Polyphyletic records use a bare label of a polyphyletic family.
	Polyphyletic Reason = "polyphyletic"
	// Unplaced records found neither a matching subtree nor a matching
	// node for carryover.
	Unplaced Reason = "unplaced"
	// Dropped records are listed in curated drop list.
	Dropped Reason = "dropped"
	// NoTaxID records have no numeric taxonomic identifier.
	NoTaxID Reason = "no-tax-id"
)

// Assignment is a harmonized lineage of a primary tree tip.
type Assignment struct {
	ID      string
	Lineage lineage.Lineage
}

// String renders the lineage with rank prefixes.
func (a Assignment) String() string {
	return lineage.FormatPrefixed(a.Lineage)
}

// Unintegrated is a secondary record left out of the merged taxonomy.
type Unintegrated struct {
	ID string
	// Lineage is the lineage as it was read.
	Lineage string
	Reason  Reason
}

// TaxID is a numeric taxonomic identifier of a record.
type TaxID struct {
	ID    string
	TaxID int
}

// Stats summarizes a run.
type Stats struct {
	Primary      int
	Secondary    int
	Explicit     int
	Rewritten    int
	Rules        int
	Dropped      int
	Polyphyletic int
	NoTaxID      int
	Grafted      int
	CarriedOver  int
	Unplaced     int
	Lineages     int
}

// Result is the outcome of a harmonization run.
type Result struct {
	Lineages     []Assignment
	Unintegrated []Unintegrated
	TaxIDs       []TaxID
	// Rules are rewrite rules in the order they were applied.
	Rules []rewrite.Rule
	Stats Stats
}
