package iotable

import (
	"bufio"
	"os"
	"strconv"

	"github.com/gnames/gnfmt"
	"github.com/gnames/gnharmony/pkg/harmonize"
)

// Paths are locations of the result files derived from one base path.
type Paths struct {
	Lineages     string
	Unintegrated string
	TaxIDs       string
	Rules        string
	SQLite       string
}

// OutputPaths returns result file locations for the base output path.
func OutputPaths(base string) Paths {
	return Paths{
		Lineages:     base,
		Unintegrated: base + ".unintegrated",
		TaxIDs:       base + ".tax_ids",
		Rules:        base + ".rewrite_rules",
		SQLite:       base + ".sqlite",
	}
}

// Write saves harmonized lineages, unintegrated records and taxonomic
// identifiers. Rewrite rules are saved separately in YAML format.
func Write(paths Paths, res *harmonize.Result) error {
	err := WriteLineages(paths.Lineages, res.Lineages)
	if err != nil {
		return err
	}
	err = WriteUnintegrated(paths.Unintegrated, res.Unintegrated)
	if err != nil {
		return err
	}
	return WriteTaxIDs(paths.TaxIDs, res.TaxIDs)
}

// WriteLineages writes `id<TAB>lineage` rows with rank-prefixed lineages.
func WriteLineages(path string, lins []harmonize.Assignment) error {
	return writeTSV(path, nil, func(w *rowWriter) error {
		for _, v := range lins {
			if err := w.Write([]string{v.ID, v.String()}); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteUnintegrated writes `id<TAB>lineage<TAB>reason` rows, where lineage
// is the lineage of a record as it was read.
func WriteUnintegrated(path string, recs []harmonize.Unintegrated) error {
	return writeTSV(path, nil, func(w *rowWriter) error {
		for _, v := range recs {
			row := []string{v.ID, v.Lineage, string(v.Reason)}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteTaxIDs writes taxonomic identifiers with a header row.
func WriteTaxIDs(path string, ids []harmonize.TaxID) error {
	header := []string{"Feature ID", "ncbi_tax_id"}
	return writeTSV(path, header, func(w *rowWriter) error {
		for _, v := range ids {
			row := []string{v.ID, strconv.Itoa(v.TaxID)}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

// rowWriter writes tab-separated rows quoted by gnfmt.
type rowWriter struct {
	w *bufio.Writer
}

func (rw *rowWriter) Write(row []string) error {
	_, err := rw.w.WriteString(gnfmt.ToCSV(row, '\t') + "\n")
	return err
}

func writeTSV(
	path string,
	header []string,
	fn func(w *rowWriter) error,
) error {
	f, err := os.Create(path)
	if err != nil {
		return WriteFileError(path, err)
	}
	defer f.Close()

	w := &rowWriter{w: bufio.NewWriter(f)}
	if header != nil {
		if err = w.Write(header); err != nil {
			return WriteFileError(path, err)
		}
	}
	if err = fn(w); err != nil {
		return WriteFileError(path, err)
	}
	if err = w.w.Flush(); err != nil {
		return WriteFileError(path, err)
	}
	if err = f.Close(); err != nil {
		return WriteFileError(path, err)
	}
	return nil
}
