// Package parserpool provides a pool of gnparser instances for concurrent
// normalization of taxon names.
// This is a pure package - parsing is computation, not I/O.
package parserpool

import (
	"fmt"
	"runtime"

	"github.com/gnames/gnlib/ent/nomcode"
	"github.com/gnames/gnparser"
	"github.com/gnames/gnparser/ent/parsed"
)

// Pool provides a pool of gnparser instances for concurrent parsing.
// It maintains separate pools for bacterial and botanical nomenclatural
// codes, the two codes that cover most protein-producing organisms in
// metaproteomic samples.
type Pool interface {
	// Parse parses a scientific name string using the specified nomenclatural code.
	// This method is safe for concurrent use.
	Parse(nameString string, code nomcode.Code) (parsed.Parsed, error)

	// Canonical returns the simple canonical form of a name, for example
	// "Vibrio" for "Vibrio Pacini 1854" or "Vibrio sp.". The second value
	// is false when the name cannot be parsed.
	Canonical(nameString string) (string, bool)

	// Close shuts down the parser pools and releases resources.
	// After calling Close, the pool should not be used.
	Close()
}

// PoolImpl implements the Pool interface using gnparser.NewPool.
type PoolImpl struct {
	bacterialCh chan gnparser.GNparser
	botanicalCh chan gnparser.GNparser
	poolSize    int
}

// NewPool creates a new parser pool with the specified number of workers.
// If jobsNum is 0, it defaults to runtime.NumCPU().
// Total parsers created = 2 * poolSize (one pool per nomenclatural code).
func NewPool(jobsNum int) Pool {
	poolSize := jobsNum
	if poolSize <= 0 {
		poolSize = runtime.NumCPU()
	}

	bacterialCfg := gnparser.NewConfig(
		gnparser.OptCode(nomcode.Bacterial),
	)
	botanicalCfg := gnparser.NewConfig(
		gnparser.OptCode(nomcode.Botanical),
	)

	return &PoolImpl{
		bacterialCh: gnparser.NewPool(bacterialCfg, poolSize),
		botanicalCh: gnparser.NewPool(botanicalCfg, poolSize),
		poolSize:    poolSize,
	}
}

// Parse parses a scientific name string using the specified nomenclatural code.
// Parsers are taken from the pool and returned after use.
func (p *PoolImpl) Parse(nameString string, code nomcode.Code) (parsed.Parsed, error) {
	var ch chan gnparser.GNparser
	switch code {
	case nomcode.Bacterial:
		ch = p.bacterialCh
	case nomcode.Botanical:
		ch = p.botanicalCh
	default:
		return parsed.Parsed{}, fmt.Errorf("unsupported nomenclatural code: %v", code)
	}

	// blocks if all parsers are busy
	parser := <-ch
	result := parser.ParseName(nameString)
	ch <- parser

	return result, nil
}

// Canonical parses the name with the bacterial code and returns its
// simple canonical form.
func (p *PoolImpl) Canonical(nameString string) (string, bool) {
	res, err := p.Parse(nameString, nomcode.Bacterial)
	if err != nil || !res.Parsed || res.Canonical == nil {
		return "", false
	}
	return res.Canonical.Simple, true
}

// Close shuts down both parser pools and releases resources.
func (p *PoolImpl) Close() {
	if p.bacterialCh != nil {
		close(p.bacterialCh)
		for range p.bacterialCh {
		}
	}
	if p.botanicalCh != nil {
		close(p.botanicalCh)
		for range p.botanicalCh {
		}
	}
}
