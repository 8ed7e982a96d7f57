package iotable

import (
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/gnames/gnharmony/pkg/rewrite"
	"github.com/gnames/gnharmony/pkg/taxonomy"
)

var (
	// accessionRe finds a genome accession at the start of a tip name.
	accessionRe = regexp.MustCompile(`^(?:GB_GCA|RS_GCF)_([0-9]{9})\.[0-9]`)

	// assemblyRe extracts the numeric part of an assembly accession.
	assemblyRe = regexp.MustCompile(`_([0-9]{9})\.`)
)

// MetadataRecord is one genome of a metadata file.
type MetadataRecord struct {
	Accession      string
	Representative bool
	TypeMaterial   string
	NCBITaxonomy   string
	GTDBTaxonomy   string
	NCBITaxID      int
}

// Metadata are records of one or several genome metadata files.
type Metadata struct {
	Records []MetadataRecord
}

var metadataColumns = []string{
	"accession",
	"gtdb_representative",
	"ncbi_type_material_designation",
	"ncbi_taxonomy",
	"gtdb_taxonomy",
}

// ReadMetadata reads genome metadata files. Every file must have a header
// with at least accession, gtdb_representative,
// ncbi_type_material_designation, ncbi_taxonomy and gtdb_taxonomy
// columns. The ncbi_taxid column is used when present.
func ReadMetadata(paths ...string) (*Metadata, error) {
	res := &Metadata{}
	for _, path := range paths {
		if err := res.read(path); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func (m *Metadata) read(path string) error {
	var idx map[string]int
	return readTSV(path, func(row []string, line int) error {
		if idx == nil {
			idx = make(map[string]int, len(row))
			for i, v := range row {
				idx[strings.TrimSpace(v)] = i
			}
			for _, v := range metadataColumns {
				if _, ok := idx[v]; !ok {
					return ParseError(path, line, "no column "+v)
				}
			}
			return nil
		}

		field := func(name string) string {
			i, ok := idx[name]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}
		rec := MetadataRecord{
			Accession:      field("accession"),
			Representative: field("gtdb_representative") == "t",
			TypeMaterial:   field("ncbi_type_material_designation"),
			NCBITaxonomy:   field("ncbi_taxonomy"),
			GTDBTaxonomy:   field("gtdb_taxonomy"),
		}
		if v := field("ncbi_taxid"); v != "" {
			id, err := strconv.Atoi(v)
			if err != nil {
				return ParseError(path, line, "ncbi_taxid is not a number")
			}
			rec.NCBITaxID = id
		}
		if rec.Accession == "" {
			return ParseError(path, line, "empty accession")
		}
		m.Records = append(m.Records, rec)
		return nil
	})
}

// TrustedPairs returns lineage pairs of representative genomes of type
// material. Such genomes are stable enough to derive rewrite rules.
func (m *Metadata) TrustedPairs() []rewrite.Pair {
	var res []rewrite.Pair
	for _, v := range m.Records {
		if !v.Representative || v.TypeMaterial == "none" {
			continue
		}
		if p, ok := v.pair(); ok {
			res = append(res, p)
		}
	}
	return res
}

// Pairs returns lineage pairs of all genomes.
func (m *Metadata) Pairs() []rewrite.Pair {
	var res []rewrite.Pair
	for _, v := range m.Records {
		if p, ok := v.pair(); ok {
			res = append(res, p)
		}
	}
	return res
}

func (r MetadataRecord) pair() (rewrite.Pair, bool) {
	if r.NCBITaxonomy == "" || r.GTDBTaxonomy == "" {
		return rewrite.Pair{}, false
	}
	return rewrite.Pair{From: r.NCBITaxonomy, To: r.GTDBTaxonomy}, true
}

// TaxIDs returns taxonomic identifiers of genomes by accession and by the
// short genome ID ('G' followed by the nine digits of the assembly).
func (m *Metadata) TaxIDs() map[string]int {
	res := make(map[string]int)
	for _, v := range m.Records {
		if v.NCBITaxID == 0 {
			continue
		}
		res[v.Accession] = v.NCBITaxID
		if mt := assemblyRe.FindStringSubmatch(v.Accession); mt != nil {
			res["G"+mt[1]] = v.NCBITaxID
		}
	}
	return res
}

// Primary creates reference taxonomy entries for tips that are named by
// genome accessions found in metadata. Entries are sorted by ID.
func (m *Metadata) Primary(tips map[string]struct{}) []taxonomy.Entry {
	byAcc := make(map[string]string, len(m.Records))
	for _, v := range m.Records {
		byAcc[v.Accession] = v.GTDBTaxonomy
	}

	var res []taxonomy.Entry
	for tip := range tips {
		acc := accessionRe.FindString(tip)
		if acc == "" {
			continue
		}
		lin, ok := byAcc[acc]
		if !ok || lin == "" {
			continue
		}
		res = append(res, taxonomy.Entry{ID: tip, Lineage: lin})
	}
	slices.SortFunc(res, func(a, b taxonomy.Entry) int {
		return strings.Compare(a.ID, b.ID)
	})
	return res
}
