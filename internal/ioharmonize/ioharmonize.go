// Package ioharmonize runs harmonization of taxonomies stored in files.
// It loads all inputs, normalizes species names of the type-strain
// taxonomy, merges taxonomies, writes results and optionally exports them
// to a database.
// This is an impure I/O package.
package ioharmonize

import (
	"context"
	"log/slog"
	"maps"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/gnames/gnharmony/internal/iodb"
	"github.com/gnames/gnharmony/internal/iofs"
	"github.com/gnames/gnharmony/internal/iorules"
	"github.com/gnames/gnharmony/internal/iosqlite"
	"github.com/gnames/gnharmony/internal/iotable"
	gnharmony "github.com/gnames/gnharmony/pkg"
	"github.com/gnames/gnharmony/pkg/config"
	"github.com/gnames/gnharmony/pkg/harmonize"
	"github.com/gnames/gnharmony/pkg/lifecycle"
	"github.com/gnames/gnharmony/pkg/lineage"
	"github.com/gnames/gnharmony/pkg/parserpool"
	"github.com/gnames/gnharmony/pkg/rewrite"
	"github.com/gnames/gnharmony/pkg/schema"
	"github.com/gnames/gnharmony/pkg/taxonomy"
	"github.com/gnames/gnharmony/pkg/validate"
	"github.com/google/uuid"
)

// DefaultOutput is the base output path used when none is configured.
const DefaultOutput = "gnharmony.tsv"

// Runner loads inputs described by configuration and harmonizes them.
type Runner struct {
	cfg *config.Config
}

// New creates a Runner.
func New(cfg *config.Config) *Runner {
	return &Runner{cfg: cfg}
}

// Run loads inputs, harmonizes taxonomies, writes result files next to
// the output path and exports results if export is configured.
func (r *Runner) Run(ctx context.Context) (*harmonize.Result, error) {
	start := time.Now()

	inp, err := r.Load(ctx)
	if err != nil {
		return nil, err
	}

	res, err := harmonize.New(r.cfg).Harmonize(*inp)
	if err != nil {
		return nil, err
	}

	paths, err := r.OutputPaths()
	if err != nil {
		return nil, err
	}
	if err = iotable.Write(paths, res); err != nil {
		return nil, err
	}
	if err = iorules.WriteRules(paths.Rules, res.Rules); err != nil {
		return nil, err
	}

	if err = r.export(ctx, paths, res); err != nil {
		return nil, err
	}

	r.report(res, time.Since(start))
	return res, nil
}

// Rules loads inputs and returns rewrite rules of the run.
func (r *Runner) Rules(ctx context.Context) ([]rewrite.Rule, error) {
	inp, err := r.Load(ctx)
	if err != nil {
		return nil, err
	}
	return harmonize.New(r.cfg).Rules(*inp)
}

// Load reads all configured inputs. Primary entries are added for tree
// tips named by genome accessions of metadata. External taxonomic
// identifiers override identifiers from metadata. Species names of the
// secondary taxonomy are normalized.
func (r *Runner) Load(ctx context.Context) (*harmonize.Input, error) {
	in := r.cfg.Input
	if in.PrimaryPath == "" && len(in.MetadataPaths) == 0 {
		return nil, InputError("primary taxonomy")
	}

	var err error
	inp := &harmonize.Input{
		Primary:   taxonomy.New(),
		Secondary: taxonomy.New(),
		TaxIDs:    make(map[string]int),
	}

	if in.PrimaryPath != "" {
		if inp.Primary, err = iotable.ReadPrimary(in.PrimaryPath); err != nil {
			return nil, err
		}
	}
	if in.SecondaryPath != "" {
		inp.Secondary, err = iotable.ReadSecondary(in.SecondaryPath)
		if err != nil {
			return nil, err
		}
	}
	if in.TipsPath != "" {
		if inp.Tips, err = iotable.ReadTips(in.TipsPath); err != nil {
			return nil, err
		}
	}
	if len(in.MetadataPaths) > 0 {
		if err = loadMetadata(in.MetadataPaths, inp); err != nil {
			return nil, err
		}
	}
	if in.TaxIDsPath != "" {
		ids, err := iotable.ReadTaxIDs(in.TaxIDsPath)
		if err != nil {
			return nil, err
		}
		maps.Copy(inp.TaxIDs, ids)
	}

	if inp.Curated, err = r.curated(); err != nil {
		return nil, err
	}

	slog.Info("Inputs are loaded",
		"primary", humanize.Comma(int64(inp.Primary.Len())),
		"secondary", humanize.Comma(int64(inp.Secondary.Len())),
		"tips", humanize.Comma(int64(len(inp.Tips))),
		"tax_ids", humanize.Comma(int64(len(inp.TaxIDs))),
	)

	if err = r.normalize(ctx, inp.Secondary); err != nil {
		return nil, err
	}
	return inp, nil
}

func loadMetadata(patterns []string, inp *harmonize.Input) error {
	paths, err := iotable.ExpandPaths(patterns)
	if err != nil {
		return err
	}
	md, err := iotable.ReadMetadata(paths...)
	if err != nil {
		return err
	}

	var added int
	for _, e := range md.Primary(inp.Tips) {
		if !inp.Primary.Has(e.ID) {
			inp.Primary.Add(e)
			added++
		}
	}
	inp.Pairs = md.TrustedPairs()
	inp.SpeciesPairs = md.Pairs()
	maps.Copy(inp.TaxIDs, md.TaxIDs())

	slog.Info("Metadata is loaded",
		"files", len(paths),
		"genomes", humanize.Comma(int64(len(md.Records))),
		"trusted", humanize.Comma(int64(len(inp.Pairs))),
		"primary_added", added,
	)
	return nil
}

// curated loads the rules file. Without an explicit path the file from
// the config directory is used if it exists.
func (r *Runner) curated() (harmonize.Curated, error) {
	path, ok := iofs.RulesFile(r.cfg.HomeDir, r.cfg.Input.RulesPath)
	if !ok {
		if path != "" {
			slog.Warn("No curated rules file", "path", path)
		}
		return harmonize.Curated{}, nil
	}

	res, err := iorules.Load(path)
	if err != nil {
		return harmonize.Curated{}, err
	}
	slog.Info("Curated rules are loaded",
		"path", path,
		"renames", len(res.Renames),
		"overrides", len(res.Overrides),
		"drop", len(res.Drop),
		"tax_ids", len(res.TaxIDs),
	)
	return res, nil
}

func (r *Runner) normalize(ctx context.Context, tbl *taxonomy.Table) error {
	if tbl.Len() == 0 {
		return nil
	}
	pool := parserpool.NewPool(r.cfg.JobsNumber)
	defer pool.Close()

	changed, err := Normalize(ctx, pool, tbl, r.cfg.JobsNumber)
	if err != nil {
		if ctx.Err() != nil {
			return CanceledError(err)
		}
		return err
	}
	slog.Info("Species names are normalized",
		"records", humanize.Comma(int64(tbl.Len())),
		"changed", humanize.Comma(int64(changed)),
	)
	return nil
}

// OutputPaths returns locations of result files and creates the
// directory of the output path.
func (r *Runner) OutputPaths() (iotable.Paths, error) {
	base := r.cfg.Input.OutputPath
	if base == "" {
		base = DefaultOutput
	}
	if err := iofs.EnsureOutputDir(base); err != nil {
		return iotable.Paths{}, err
	}
	return iotable.OutputPaths(base), nil
}

func (r *Runner) export(
	ctx context.Context,
	paths iotable.Paths,
	res *harmonize.Result,
) error {
	var exp lifecycle.Exporter
	switch r.cfg.Harmonize.Export {
	case "sqlite":
		exp = iosqlite.NewExporter(paths.SQLite)
	case "postgres":
		op := iodb.NewPgxOperator()
		if err := op.Connect(ctx, &r.cfg.Database); err != nil {
			return err
		}
		defer op.Close()
		exp = iodb.NewExporter(op, r.cfg)
	default:
		return nil
	}

	runID := r.cfg.Harmonize.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	data := schema.NewData(runID, gnharmony.Version, res, time.Now().UTC())
	if err := exp.Export(ctx, data); err != nil {
		return err
	}
	slog.Info("Results are exported",
		"export", r.cfg.Harmonize.Export,
		"run_id", data.Run.ID,
	)
	gn.Info("Exported run <em>%s</em> to %s",
		data.Run.ID, r.cfg.Harmonize.Export)
	return nil
}

func (r *Runner) report(res *harmonize.Result, dur time.Duration) {
	st := res.Stats
	slog.Info("Harmonization is complete",
		"primary", st.Primary,
		"secondary", st.Secondary,
		"explicit", st.Explicit,
		"rewritten", st.Rewritten,
		"rules", st.Rules,
		"dropped", st.Dropped,
		"polyphyletic", st.Polyphyletic,
		"no_tax_id", st.NoTaxID,
		"grafted", st.Grafted,
		"carried_over", st.CarriedOver,
		"unplaced", st.Unplaced,
		"lineages", st.Lineages,
		"duration", gnfmt.TimeString(dur.Seconds()),
	)
	gn.Info("Harmonized <em>%s</em> lineages, <em>%s</em> records "+
		"unintegrated in %s",
		humanize.Comma(int64(st.Lineages)),
		humanize.Comma(int64(len(res.Unintegrated))),
		gnfmt.TimeString(dur.Seconds()),
	)
}

// Report summarizes consistency problems of one taxonomy.
type Report struct {
	Name       string
	Records    int
	Violations []validate.Violation
	Overlaps   []validate.Overlap
}

// OK is true when no problems were found.
func (rp Report) OK() bool {
	return len(rp.Violations) == 0 && len(rp.Overlaps) == 0
}

// Validate loads taxonomies and checks their consistency without merging
// them. Secondary lineages are checked as they were read.
func (r *Runner) Validate(ctx context.Context) ([]Report, error) {
	inp, err := r.Load(ctx)
	if err != nil {
		return nil, err
	}
	allowed := inp.Curated.Allowed()

	primary := inp.Primary.Restrict(inp.Tips)
	primary.ParseRanks(lineage.Separator)

	secondary := inp.Secondary.Restrict(inp.Tips)
	for _, e := range secondary.Entries() {
		lin := strings.ReplaceAll(e.Lineage, `"`, "")
		e.Lineage = lineage.Sanitize(lin, lineage.Separator)
	}
	secondary.ParseRanks(lineage.Separator)

	res := []Report{
		newReport("primary", primary, allowed),
		newReport("secondary", secondary, allowed),
	}
	for _, v := range res {
		slog.Info("Taxonomy is validated",
			"taxonomy", v.Name,
			"records", v.Records,
			"parents", len(v.Violations),
			"overlaps", len(v.Overlaps),
		)
	}
	return res, nil
}

func newReport(name string, tbl *taxonomy.Table, allowed []string) Report {
	return Report{
		Name:       name,
		Records:    tbl.Len(),
		Violations: validate.ConsistentParents(tbl),
		Overlaps:   validate.RankOverlap(tbl, allowed),
	}
}
