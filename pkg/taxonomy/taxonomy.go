// Package taxonomy holds the taxonomic model shared by all mpdb pipelines:
// taxon identifiers, the six tracked ranks, rank-keyed lineages and the
// immutable name index built from the NCBI names dump.
//
// This package has no I/O dependencies. Dump files, SQLite snapshots and
// PostgreSQL stores live in internal/io* packages and produce values
// defined here.
package taxonomy

import (
	"strconv"
	"strings"
)

// TaxonID is an identifier from the NCBI taxonomy namespace.
type TaxonID int

// Unclassified is the sentinel TaxonID for unknown or unclassified taxa.
// It never collides with a real NCBI identifier.
const Unclassified TaxonID = -1

// String returns the decimal representation of the identifier.
func (id TaxonID) String() string {
	return strconv.Itoa(int(id))
}

// ParseTaxonID converts a decimal string into a TaxonID.
func ParseTaxonID(s string) (TaxonID, error) {
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	return TaxonID(i), nil
}

// Rank is one of the six taxonomic ranks tracked by mpdb.
type Rank int

const (
	Superkingdom Rank = iota
	Phylum
	Class
	Order
	Family
	Genus
)

// RanksNum is the number of tracked ranks.
const RanksNum = 6

var rankNames = [RanksNum]string{
	"superkingdom", "phylum", "class", "order", "family", "genus",
}

// Ranks returns all tracked ranks from the highest to the lowest.
func Ranks() []Rank {
	return []Rank{Superkingdom, Phylum, Class, Order, Family, Genus}
}

// String returns the NCBI rank label.
func (r Rank) String() string {
	if r < 0 || int(r) >= RanksNum {
		return "unknown"
	}
	return rankNames[r]
}

// NewRank converts a rank label into a Rank. NCBI replaced "superkingdom"
// with "domain" in 2025 taxonomy dumps, both labels map to Superkingdom.
func NewRank(s string) (Rank, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "domain" {
		return Superkingdom, true
	}
	for i, v := range rankNames {
		if v == s {
			return Rank(i), true
		}
	}
	return 0, false
}
