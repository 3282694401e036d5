// Package otu turns OTU abundance tables into sets of validated NCBI
// taxon names.
//
// A table row carries a sample name, a hit count and a taxonomy string
// such as "Root; d__Bacteria; p__Pseudomonadota; ...; g__Vibrio_sp".
// Rows are grouped by one rank, hits are summed, and labels whose sum
// reaches a cutoff are validated against the NameIndex.
package otu

import (
	"github.com/gnames/mpdb/pkg/taxonomy"
)

// Row is one line of an OTU table.
type Row struct {
	// Sample is the sample the OTU was observed in.
	Sample string

	// NumHits is the number of reads assigned to the OTU.
	NumHits int

	// Labels holds rank-prefixed labels indexed by taxonomy.Rank.
	// A nil element means the rank is absent; it is never "".
	Labels [taxonomy.RanksNum]*string
}

// Label returns the label at the given rank.
func (r Row) Label(rank taxonomy.Rank) (string, bool) {
	if rank < 0 || int(rank) >= taxonomy.RanksNum {
		return "", false
	}
	l := r.Labels[rank]
	if l == nil {
		return "", false
	}
	return *l, true
}
