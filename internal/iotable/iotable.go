// Package iotable reads taxonomy tables and auxiliary tab-separated files,
// and writes results of harmonization.
// This is an impure I/O package.
package iotable

import (
	"bufio"
	"encoding/csv"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/gnames/gnharmony/pkg/taxonomy"
)

// Secondary table columns.
const (
	colID = iota
	colOriginalSpecies
	colLineage
	colUnknown0
	colType
	colSynonym
)

// ReadPrimary reads a reference taxonomy with rows of
// `id<TAB>lineage`.
func ReadPrimary(path string) (*taxonomy.Table, error) {
	res := taxonomy.New()
	err := readTSV(path, func(row []string, line int) error {
		if len(row) < 2 {
			return ParseError(path, line, "expected id and lineage")
		}
		id := strings.TrimSpace(row[colID])
		if id == "" {
			return ParseError(path, line, "empty id")
		}
		if res.Has(id) {
			return DuplicateIDError(path, id, line)
		}
		res.Add(taxonomy.Entry{ID: id, Lineage: strings.TrimSpace(row[1])})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// ReadSecondary reads a type-strain taxonomy. Rows have columns
// id, original species, lineage, unused, type, synonym, unused.
// Only the first three columns are required.
func ReadSecondary(path string) (*taxonomy.Table, error) {
	res := taxonomy.New()
	err := readTSV(path, func(row []string, line int) error {
		if len(row) <= colLineage {
			return ParseError(path, line,
				"expected id, species and lineage")
		}
		id := strings.TrimSpace(row[colID])
		if id == "" {
			return ParseError(path, line, "empty id")
		}
		if res.Has(id) {
			return DuplicateIDError(path, id, line)
		}
		e := taxonomy.Entry{
			ID:              id,
			OriginalSpecies: strings.TrimSpace(row[colOriginalSpecies]),
			Lineage:         strings.TrimSpace(row[colLineage]),
		}
		if len(row) > colSynonym {
			e.Synonym = strings.TrimSpace(row[colSynonym])
		}
		res.Add(e)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// ReadTips reads names of reference tree tips, one per line. Empty lines
// and lines starting with '#' are ignored.
func ReadTips(path string) (map[string]struct{}, error) {
	f, err := open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	res := make(map[string]struct{})
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		tip := strings.TrimSpace(sc.Text())
		if tip == "" || strings.HasPrefix(tip, "#") {
			continue
		}
		res[tip] = struct{}{}
	}
	if err = sc.Err(); err != nil {
		return nil, ReadFileError(path, err)
	}
	return res, nil
}

// ReadTaxIDs reads `key<TAB>tax_id` rows, where key is a record ID or a
// species name. A header row is allowed. Rows with empty identifiers are
// skipped.
func ReadTaxIDs(path string) (map[string]int, error) {
	res := make(map[string]int)
	err := readTSV(path, func(row []string, line int) error {
		if len(row) < 2 {
			return ParseError(path, line, "expected key and tax_id")
		}
		key := strings.TrimSpace(row[0])
		val := strings.TrimSpace(row[1])
		if key == "" || val == "" {
			return nil
		}
		id, err := strconv.Atoi(val)
		if err != nil {
			if line == 1 {
				return nil
			}
			return ParseError(path, line, "tax_id is not a number")
		}
		res[key] = id
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// readTSV calls fn for every non-empty row of a tab-separated file,
// compressed files are accepted. Quotes are tolerated anywhere in a field.
func readTSV(path string, fn func(row []string, line int) error) error {
	f, err := open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	r := newReader(f)
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			var pErr *csv.ParseError
			if errors.As(err, &pErr) {
				return ParseError(path, pErr.Line, pErr.Err.Error())
			}
			return ReadFileError(path, err)
		}
		line, _ := r.FieldPos(0)
		if err = fn(row, line); err != nil {
			return err
		}
	}
}

func newReader(r io.Reader) *csv.Reader {
	res := csv.NewReader(r)
	res.Comma = '\t'
	res.FieldsPerRecord = -1
	res.LazyQuotes = true
	res.ReuseRecord = true
	return res
}
