// Package iorules loads curated harmonization data from a YAML file and
// saves rewrite rules for review.
package iorules

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gnames/gnharmony/pkg/harmonize"
	"github.com/gnames/gnharmony/pkg/rewrite"
	"gopkg.in/yaml.v3"
)

// Load reads curated data from a rules file.
func Load(path string) (harmonize.Curated, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return harmonize.Curated{}, ReadFileError(path, err)
	}
	res, err := Parse(data)
	if err != nil {
		return harmonize.Curated{}, ParseError(path, err)
	}
	return res, nil
}

// Parse decodes curated data and checks that every rename can be applied.
// Unknown keys are reported as errors.
func Parse(data []byte) (harmonize.Curated, error) {
	var res harmonize.Curated
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&res); err != nil && !errors.Is(err, io.EOF) {
		return harmonize.Curated{}, err
	}

	for i, v := range res.Renames {
		if strings.TrimSpace(v.Old) == "" || strings.TrimSpace(v.New) == "" {
			return harmonize.Curated{},
				fmt.Errorf("rename %d has empty 'old' or 'new'", i+1)
		}
		if v.Old == v.New {
			return harmonize.Curated{},
				fmt.Errorf("rename %d does not change %q", i+1, v.Old)
		}
	}
	for id, v := range res.Overrides {
		if strings.TrimSpace(v) == "" {
			return harmonize.Curated{},
				fmt.Errorf("override of %s is empty", id)
		}
	}
	return res, nil
}

// ruleDoc is the layout of the rewrite rules file. It mirrors the renames
// section of the rules file, so reviewed rules can be copied there.
type ruleDoc struct {
	Renames []rewrite.Rule `yaml:"renames"`
}

// WriteRules saves rewrite rules in the order they were applied.
func WriteRules(path string, rules []rewrite.Rule) error {
	var buf bytes.Buffer
	if err := EncodeRules(&buf, rules); err != nil {
		return WriteFileError(path, err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return WriteFileError(path, err)
	}
	return nil
}

// EncodeRules writes rewrite rules as a YAML document with a renames
// section.
func EncodeRules(w io.Writer, rules []rewrite.Rule) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(ruleDoc{Renames: rules}); err != nil {
		return err
	}
	return enc.Close()
}

// ReadRules reads rules saved by WriteRules.
func ReadRules(path string) ([]rewrite.Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ReadFileError(path, err)
	}
	var doc ruleDoc
	if err = yaml.Unmarshal(data, &doc); err != nil {
		return nil, ParseError(path, err)
	}
	return doc.Renames, nil
}
