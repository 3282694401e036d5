// Package annotate stamps FASTA headers with the taxonomic lineage of the
// organism they belong to.
//
// A header such as
//
//	>sp|P0C6D0|ABC OS=Vibrio cholerae OX=666 GN=abc
//
// becomes
//
//	>sp|P0C6D0|ABC OS=Vibrio cholerae OX=666 GN=abc TAX=Bacteria, Pseudomonadota, Gammaproteobacteria, Vibrionales, Vibrionaceae, Vibrio
//
// Headers without the organism marker get " TAX=not_found". Sequence lines
// are copied unchanged and records keep their input order.
package annotate

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
	"sync"

	"github.com/gnames/mpdb/pkg/errcode"
	"github.com/gnames/mpdb/pkg/taxonomy"
)

const (
	// DefaultMarker precedes the NCBI taxon id in UniProt FASTA headers.
	DefaultMarker = "OX="

	// TagPrefix starts the lineage summary appended to a header.
	TagPrefix = " TAX="

	// NotFound replaces the lineage when it cannot be resolved.
	NotFound = "not_found"
)

// Stats summarizes an annotation run.
type Stats struct {
	// Records is the number of FASTA records written.
	Records int
	// Annotated is the number of headers that received a lineage.
	Annotated int
	// NotFound is the number of headers tagged as not_found.
	NotFound int
}

// Annotator rewrites FASTA headers. It is safe for concurrent use.
type Annotator struct {
	idx      *taxonomy.NameIndex
	provider taxonomy.AncestryProvider
	marker   string
	markerRx *regexp.Regexp
	jobs     int

	mu   sync.RWMutex
	tags map[taxonomy.TaxonID]string
}

// Option configures an Annotator.
type Option func(*Annotator)

// OptMarker sets the literal that precedes the taxon id in headers.
// Empty markers are ignored.
func OptMarker(s string) Option {
	return func(a *Annotator) {
		if s == "" {
			slog.Warn("Empty annotation marker is ignored", "default", a.marker)
			return
		}
		a.marker = s
	}
}

// OptJobsNumber sets the number of concurrent resolution workers.
func OptJobsNumber(i int) Option {
	return func(a *Annotator) {
		if i < 1 {
			slog.Warn("Jobs number must be positive", "value", i)
			return
		}
		a.jobs = i
	}
}

// New creates an Annotator that resolves lineages with provider and
// translates them to names with idx.
func New(
	idx *taxonomy.NameIndex,
	provider taxonomy.AncestryProvider,
	opts ...Option,
) *Annotator {
	res := &Annotator{
		idx:      idx,
		provider: provider,
		marker:   DefaultMarker,
		jobs:     1,
		tags:     make(map[taxonomy.TaxonID]string),
	}
	for _, opt := range opts {
		opt(res)
	}
	res.markerRx = regexp.MustCompile(
		`(?:^|\s)` + regexp.QuoteMeta(res.marker) + `(\S+)(?:\s|$)`,
	)
	return res
}

// Marker returns the organism marker in use.
func (a *Annotator) Marker() string {
	return a.marker
}

// Token returns the organism token of a header. The token is the
// non-space text that follows the marker and ends at whitespace or at the
// end of the header.
func (a *Annotator) Token(header string) (string, bool) {
	m := a.markerRx.FindStringSubmatch(header)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// Header returns header with a lineage tag appended. Trailing blanks of
// the header are dropped. Unresolvable
// organisms are tagged as not_found and logged. The returned error is
// not nil only when a resolved lineage contains a taxon without a
// scientific name, meaning the NameIndex and the ancestry provider
// disagree.
func (a *Annotator) Header(ctx context.Context, header string) (string, error) {
	tag, _, err := a.tag(ctx, header)
	if err != nil {
		return "", err
	}
	return stamp(header, tag), nil
}

// stamp appends the lineage tag after trailing blanks are removed from
// the header.
func stamp(header, tag string) string {
	return strings.TrimRight(header, " \t") + TagPrefix + tag
}

func (a *Annotator) tag(
	ctx context.Context,
	header string,
) (string, bool, error) {
	token, ok := a.Token(header)
	if !ok {
		return NotFound, false, nil
	}

	id, err := taxonomy.ParseTaxonID(token)
	if err != nil {
		slog.Warn("Organism id is not a number", "token", token, "header", header)
		return NotFound, false, nil
	}

	a.mu.RLock()
	tag, ok := a.tags[id]
	a.mu.RUnlock()
	if ok {
		return tag, tag != NotFound, nil
	}

	tag, err = a.resolve(ctx, id)
	if err != nil {
		return "", false, err
	}

	a.mu.Lock()
	a.tags[id] = tag
	a.mu.Unlock()
	return tag, tag != NotFound, nil
}

func (a *Annotator) resolve(
	ctx context.Context,
	id taxonomy.TaxonID,
) (string, error) {
	l, err := taxonomy.ResolveRanks(ctx, id, a.provider)
	if taxonomy.HasCode(err, errcode.UnknownTaxonError) {
		slog.Warn("Taxon is not in the taxonomy snapshot", "taxon_id", int(id))
		return NotFound, nil
	}
	if taxonomy.HasCode(err, errcode.BrokenLineageError) {
		slog.Warn("Lineage of taxon is broken", "taxon_id", int(id), "error", err)
		return NotFound, nil
	}
	if err != nil {
		return "", err
	}
	return l.Tag(a.idx)
}
