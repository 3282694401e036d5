package otu

import (
	"slices"

	"github.com/gnames/mpdb/pkg/taxonomy"
)

// AbundantLabels groups rows by their label at rank, sums hits per label
// and returns labels whose sum is at least cutoff, sorted. Rows without a
// label at rank do not take part.
func AbundantLabels(rows []Row, rank taxonomy.Rank, cutoff int) []string {
	sums := make(map[string]int)
	for _, r := range rows {
		l, ok := r.Label(rank)
		if !ok {
			continue
		}
		sums[l] += r.NumHits
	}

	var res []string
	for l, sum := range sums {
		if sum >= cutoff {
			res = append(res, l)
		}
	}
	slices.Sort(res)
	return res
}
