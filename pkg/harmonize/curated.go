package harmonize

import (
	"github.com/gnames/gnharmony/pkg/rewrite"
	"github.com/gnames/gnharmony/pkg/validate"
)

// Curated contains manually reviewed data that steers harmonization. It
// is usually loaded from the rules.yaml file.
type Curated struct {
	// Renames are rewrite rules applied after automatically derived ones.
	Renames []rewrite.Rule `yaml:"renames"`

	// Overrides set a lineage for a secondary record by its ID. Such
	// records are explicitly set and are never treated as ambiguous.
	Overrides map[string]string `yaml:"overrides"`

	// Drop lists IDs of secondary records that cannot be handled.
	Drop []string `yaml:"drop"`

	// AllowedReusedLabels are labels that may appear at several ranks.
	// When empty, validate.DefaultAllowed is used.
	AllowedReusedLabels []string `yaml:"allowed_reused_labels"`

	// TaxIDs are manually resolved taxonomic identifiers of secondary
	// records. A non-empty Name also replaces the species name.
	TaxIDs map[string]TaxIDOverride `yaml:"tax_ids"`
}

// TaxIDOverride is a manually resolved identifier.
type TaxIDOverride struct {
	Name  string `yaml:"name"`
	TaxID int    `yaml:"tax_id"`
}

// Allowed returns labels that may be reused at different ranks.
func (c Curated) Allowed() []string {
	if len(c.AllowedReusedLabels) == 0 {
		return validate.DefaultAllowed
	}
	return c.AllowedReusedLabels
}

func (c Curated) dropSet() map[string]struct{} {
	res := make(map[string]struct{}, len(c.Drop))
	for _, v := range c.Drop {
		res[v] = struct{}{}
	}
	return res
}
