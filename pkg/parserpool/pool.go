// Package parserpool provides a pool of gnparser instances that normalize
// species names of the type-strain taxonomy.
// This is a pure package - parsing is computation, not I/O.
package parserpool

import (
	"runtime"
	"strings"

	"github.com/gnames/gnlib/ent/nomcode"
	"github.com/gnames/gnparser"
	"github.com/gnames/gnparser/ent/parsed"
)

// Pool provides a pool of gnparser instances for concurrent parsing.
type Pool interface {
	// Parse parses a scientific name with the botanical code. It blocks
	// while all parsers are busy. This method is safe for concurrent use.
	Parse(name string) parsed.Parsed

	// Species normalizes a species name to its simple canonical binomial,
	// removing authors, ranks and infraspecific epithets. Names that are
	// not parsed, or that have no specific epithet, are returned with
	// normalized whitespace and false.
	Species(name string) (string, bool)

	// Close releases the parsers. The pool cannot be used after that.
	Close()
}

type pool struct {
	ch chan gnparser.GNparser
}

// NewPool creates a pool of jobsNum parsers. If jobsNum is 0, it
// defaults to runtime.NumCPU().
//
// The botanical code keeps subgenus-like parentheses and 'subsp.' ranks
// the way prokaryotic names use them.
func NewPool(jobsNum int) Pool {
	size := jobsNum
	if size <= 0 {
		size = runtime.NumCPU()
	}
	cfg := gnparser.NewConfig(gnparser.OptCode(nomcode.Botanical))
	return &pool{ch: gnparser.NewPool(cfg, size)}
}

func (p *pool) Parse(name string) parsed.Parsed {
	prs := <-p.ch
	res := prs.ParseName(name)
	p.ch <- prs
	return res
}

func (p *pool) Species(name string) (string, bool) {
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		return name, false
	}

	res := p.Parse(name)
	if !res.Parsed || res.Canonical == nil || res.Virus ||
		res.Surrogate != nil || res.Cardinality < 2 {
		return name, false
	}

	words := strings.Fields(res.Canonical.Simple)
	if len(words) < 2 {
		return name, false
	}
	return strings.Join(words[:2], " "), true
}

func (p *pool) Close() {
	if p.ch == nil {
		return
	}
	close(p.ch)
	for range p.ch {
	}
	p.ch = nil
}
