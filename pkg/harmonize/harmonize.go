// Package harmonize reconciles a primary and a secondary taxonomy into one
// classification attached to the tips of a reference tree.
//
// The secondary taxonomy is moved to the vocabulary of the primary one by
// explicit overrides and rewrite rules. Records with polyphyletic labels are
// set aside, both taxonomies are validated and turned into consensus trees,
// and the secondary tree is grafted onto the primary one. Records that
// still have no place are attached by carryover when possible.
//
// The package is pure: all inputs are loaded in advance, and results are
// returned for the caller to write.
package harmonize

import (
	"log/slog"
	"slices"
	"strings"

	"github.com/gnames/gnharmony/pkg/config"
	"github.com/gnames/gnharmony/pkg/graft"
	"github.com/gnames/gnharmony/pkg/lineage"
	"github.com/gnames/gnharmony/pkg/polyphyly"
	"github.com/gnames/gnharmony/pkg/rewrite"
	"github.com/gnames/gnharmony/pkg/taxonomy"
	"github.com/gnames/gnharmony/pkg/tree"
	"github.com/gnames/gnharmony/pkg/validate"
)

// Harmonizer runs the taxonomy-merge engine.
type Harmonizer interface {
	// Harmonize merges the secondary taxonomy of the input into the
	// primary one. Structural problems of the data or of the rules
	// abort the run with an error.
	Harmonize(inp Input) (*Result, error)

	// Rules returns rewrite rules the run would apply: rules derived from
	// trusted pairs followed by curated renames. Taxonomies are not
	// merged.
	Rules(inp Input) ([]rewrite.Rule, error)
}

type harmonizer struct {
	cfg config.HarmonizeConfig
}

// New creates a Harmonizer from configuration.
func New(cfg *config.Config) Harmonizer {
	return &harmonizer{cfg: cfg.Harmonize}
}

// Harmonize implements Harmonizer.
func (h *harmonizer) Harmonize(inp Input) (*Result, error) {
	primary, secondary, err := tables(inp)
	if err != nil {
		return nil, err
	}
	res := &Result{}
	res.Stats.Primary = primary.Len()
	res.Stats.Secondary = secondary.Len()

	primary.ParseRanks(lineage.Separator)
	res.TaxIDs = assignTaxIDs(primary, secondary, inp)

	h.prepareSecondary(secondary, inp, res)

	rules, err := h.rewrite(primary, secondary, inp, res)
	if err != nil {
		return nil, err
	}
	res.Rules = rules

	secondary = h.drop(secondary, inp.Curated.dropSet(), res)

	cleared := secondary.ParseRanks(lineage.Separator)
	if len(cleared) > 0 {
		slog.Info("Cleared labels below empty ranks", "records", len(cleared))
	}

	err = validate.Check(
		"primary", primary, validate.Fatal, inp.Curated.Allowed(),
	)
	if err != nil {
		return nil, err
	}

	poly, err := polyphyly.Detect(primary)
	if err != nil {
		return nil, err
	}
	secondary = h.removeAmbiguous(secondary, poly, res)
	if h.cfg.RequireTaxIDs {
		secondary = h.removeNoTaxID(secondary, res)
	}

	err = validate.Check(
		"secondary", secondary, validate.Warn, inp.Curated.Allowed(),
	)
	if err != nil {
		return nil, err
	}

	err = h.merge(primary, secondary, poly, res)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Rules implements Harmonizer. Entries of the input are changed the same
// way Harmonize changes them.
func (h *harmonizer) Rules(inp Input) ([]rewrite.Rule, error) {
	primary, secondary, err := tables(inp)
	if err != nil {
		return nil, err
	}
	res := &Result{}
	primary.ParseRanks(lineage.Separator)
	h.prepareSecondary(secondary, inp, res)
	return h.rewrite(primary, secondary, inp, res)
}

// tables restricts both taxonomies to the tips of the reference tree.
func tables(inp Input) (primary, secondary *taxonomy.Table, err error) {
	if inp.Primary == nil || inp.Primary.Len() == 0 {
		return nil, nil, EmptyInputError("primary")
	}
	if inp.Secondary == nil {
		inp.Secondary = taxonomy.New()
	}
	primary = inp.Primary.Restrict(inp.Tips)
	secondary = inp.Secondary.Restrict(inp.Tips)
	if primary.Len() == 0 {
		return nil, nil, EmptyInputError("primary")
	}
	return primary, secondary, nil
}

// prepareSecondary picks the species name of every record, appends it to
// the lineage, sanitizes the lineage and applies explicit mappings.
func (h *harmonizer) prepareSecondary(
	tbl *taxonomy.Table,
	inp Input,
	res *Result,
) {
	unique := rewrite.UniqueSpecies(inp.speciesPairs())
	for _, e := range tbl.Entries() {
		sp := speciesName(e)
		if o, ok := inp.Curated.TaxIDs[e.ID]; ok && o.Name != "" {
			sp = o.Name
		}
		e.OriginalSpecies = sp

		lin := strings.ReplaceAll(e.Lineage, `"`, "")
		lin = strings.TrimRight(lin, lineage.Separator+" ")
		if sp != "" && strings.TrimSpace(lin) != "" {
			lin += lineage.Separator + sp
		}
		e.Lineage = lineage.Sanitize(lin, lineage.Separator)

		if v, ok := unique[sp]; ok {
			e.Lineage = v
			e.ExplicitlySet = true
		}
		if v, ok := inp.Curated.Overrides[e.ID]; ok {
			e.Lineage = lineage.Sanitize(v, lineage.Separator)
			e.ExplicitlySet = true
		}
		if e.ExplicitlySet {
			res.Stats.Explicit++
		}
	}
}

func speciesName(e *taxonomy.Entry) string {
	sp := e.OriginalSpecies
	if e.Synonym != "" {
		sp = e.Synonym
	}
	sp = strings.ReplaceAll(sp, `"`, "")
	return lineage.StripSubspecies(strings.Join(strings.Fields(sp), " "))
}

// rewrite derives rules from trusted pairs, puts them in front of curated
// renames, and applies them to the secondary taxonomy.
func (h *harmonizer) rewrite(
	primary, secondary *taxonomy.Table,
	inp Input,
	res *Result,
) ([]rewrite.Rule, error) {
	var derived []rewrite.Rule
	if len(inp.Pairs) > 0 {
		idx := rewrite.BuildNameIndex(inp.Pairs)
		derived = rewrite.Derive(secondary, idx)
	}
	rules := rewrite.Dedup(rewrite.Merge(derived, inp.Curated.Renames))
	res.Stats.Rules = len(rules)

	err := rewrite.CheckDomains(rules, domains(primary, secondary))
	if err != nil {
		return nil, err
	}

	changed := rewrite.Apply(rules, secondary)
	res.Stats.Rewritten = len(changed)
	slog.Info("Rewrite rules applied",
		"derived", len(derived),
		"curated", len(inp.Curated.Renames),
		"changed", len(changed),
	)
	return rules, nil
}

// domains collects domain labels of the parsed primary taxonomy and the
// first fields of secondary lineages.
func domains(primary, secondary *taxonomy.Table) []string {
	res := primary.Domains()
	for _, e := range secondary.Entries() {
		d := lineage.Parse(e.Lineage, lineage.Separator)[lineage.Domain]
		if d != "" && !slices.Contains(res, d) {
			res = append(res, d)
		}
	}
	return res
}

func (h *harmonizer) drop(
	tbl *taxonomy.Table,
	ids map[string]struct{},
	res *Result,
) *taxonomy.Table {
	if len(ids) == 0 {
		return tbl
	}
	for _, e := range tbl.Entries() {
		if _, ok := ids[e.ID]; ok {
			res.addUnintegrated(e, Dropped)
			res.Stats.Dropped++
		}
	}
	return tbl.Without(ids)
}

func (h *harmonizer) removeAmbiguous(
	tbl *taxonomy.Table,
	poly *polyphyly.Report,
	res *Result,
) *taxonomy.Table {
	ids := poly.AmbiguousIDs(tbl)
	if len(ids) == 0 {
		return tbl
	}
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
		e, _ := tbl.Get(id)
		res.addUnintegrated(e, Polyphyletic)
	}
	res.Stats.Polyphyletic = len(ids)
	slog.Info("Records with polyphyletic labels set aside",
		"records", len(ids),
		"polyphyletic-labels", poly.Len(),
	)
	return tbl.Without(set)
}

func (h *harmonizer) removeNoTaxID(
	tbl *taxonomy.Table,
	res *Result,
) *taxonomy.Table {
	return tbl.Filter(func(e *taxonomy.Entry) bool {
		if e.TaxID != 0 {
			return true
		}
		res.addUnintegrated(e, NoTaxID)
		res.Stats.NoTaxID++
		return false
	})
}

// merge builds consensus trees, grafts the secondary tree onto the primary
// one, carries over what is left, and flattens the result.
func (h *harmonizer) merge(
	primary, secondary *taxonomy.Table,
	poly *polyphyly.Report,
	res *Result,
) error {
	pTree, err := buildTree(primary, tree.OptRankCheck(h.cfg.RankCheck))
	if err != nil {
		return err
	}
	sTree, err := buildTree(secondary)
	if err != nil {
		return err
	}

	if !h.cfg.PolyphylyFilter {
		poly = nil
	}
	st := graft.Graft(pTree, sTree, poly)
	res.Stats.Grafted = st.Grafted
	slog.Info("Secondary tree grafted",
		"matched-nodes", st.Matched,
		"grafted", st.Grafted,
		"pruned", st.Dropped,
	)

	unplaced := secondary.Without(tipSet(pTree))
	if h.cfg.Carryover && unplaced.Len() > 0 {
		placed := graft.Carryover(pTree, unplaced, poly)
		res.Stats.CarriedOver = len(placed)
		set := make(map[string]struct{}, len(placed))
		for _, id := range placed {
			set[id] = struct{}{}
		}
		unplaced = unplaced.Without(set)
	}
	for _, e := range unplaced.Entries() {
		res.addUnintegrated(e, Unplaced)
	}
	res.Stats.Unplaced = unplaced.Len()

	recs := pTree.Flatten()
	res.Lineages = make([]Assignment, len(recs))
	for i, v := range recs {
		res.Lineages[i] = Assignment{ID: v.ID, Lineage: v.Lineage}
	}
	res.Stats.Lineages = len(res.Lineages)
	return nil
}

func buildTree(tbl *taxonomy.Table, opts ...tree.Option) (*tree.Tree, error) {
	ee := tbl.Entries()
	lins := make([]lineage.Lineage, len(ee))
	ids := make([]string, len(ee))
	for i, e := range ee {
		lins[i] = e.Ranks
		ids[i] = e.ID
	}
	return tree.Build(lins, ids, opts...)
}

func tipSet(t *tree.Tree) map[string]struct{} {
	ids := t.TipIDs()
	res := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		res[id] = struct{}{}
	}
	return res
}

// assignTaxIDs fills TaxID of entries from curated and external
// identifiers and returns all known assignments, primary records first.
// External identifiers of secondary records may also be keyed by species
// name.
func assignTaxIDs(primary, secondary *taxonomy.Table, inp Input) []TaxID {
	var res []TaxID
	for i, tbl := range []*taxonomy.Table{primary, secondary} {
		for _, e := range tbl.Entries() {
			if e.TaxID == 0 {
				e.TaxID = inp.TaxIDs[e.ID]
			}
			if e.TaxID == 0 && i == 1 {
				e.TaxID = inp.TaxIDs[speciesName(e)]
			}
			if o, ok := inp.Curated.TaxIDs[e.ID]; ok && o.TaxID != 0 {
				e.TaxID = o.TaxID
			}
			if e.TaxID != 0 {
				res = append(res, TaxID{ID: e.ID, TaxID: e.TaxID})
			}
		}
	}
	return res
}

func (r *Result) addUnintegrated(e *taxonomy.Entry, reason Reason) {
	r.Unintegrated = append(r.Unintegrated, Unintegrated{
		ID:      e.ID,
		Lineage: e.Original,
		Reason:  reason,
	})
}
