package taxonomy

import (
	"context"
	"errors"
	"strings"
)

// TagSeparator joins rank names in a lineage tag.
const TagSeparator = ", "

// ErrNoAncestry is wrapped by AncestryProvider implementations when the
// requested taxon does not exist in their snapshot.
var ErrNoAncestry = errors.New("taxon is absent from the taxonomy snapshot")

// ErrBrokenLineage is wrapped by AncestryProvider implementations when the
// chain of a known taxon cannot be completed: a parent is missing, parents
// form a cycle, or the root is never reached.
var ErrBrokenLineage = errors.New("lineage does not reach the root")

// Node is one element of an ancestor chain.
type Node struct {
	ID   TaxonID
	Rank string
}

// AncestryProvider gives access to the taxonomy tree of the external
// authority.
type AncestryProvider interface {
	// Ancestry returns the ordered ancestor chain from the root to id,
	// inclusive, with the rank label of every node. Unknown identifiers
	// produce an error wrapping ErrNoAncestry, damaged chains an error
	// wrapping ErrBrokenLineage.
	Ancestry(ctx context.Context, id TaxonID) ([]Node, error)
}

// Lineage keeps the identifier of a taxon's ancestor at each tracked rank.
// Ranks without an ancestor hold Unclassified.
type Lineage [RanksNum]TaxonID

// UnclassifiedLineage returns a lineage with every rank set to Unclassified.
func UnclassifiedLineage() Lineage {
	var res Lineage
	for i := range res {
		res[i] = Unclassified
	}
	return res
}

// ID returns the identifier at rank r.
func (l Lineage) ID(r Rank) TaxonID {
	return l[r]
}

// Map returns the lineage keyed by rank labels.
func (l Lineage) Map() map[string]TaxonID {
	res := make(map[string]TaxonID, RanksNum)
	for _, r := range Ranks() {
		res[r.String()] = l[r]
	}
	return res
}

// Names translates every rank identifier into its scientific name.
// Unclassified translates to its own placeholder name.
func (l Lineage) Names(idx *NameIndex) ([]string, error) {
	res := make([]string, RanksNum)
	for i, id := range l {
		name, err := idx.Lookup(id)
		if err != nil {
			return nil, err
		}
		res[i] = name
	}
	return res, nil
}

// Tag returns the rank names joined by TagSeparator, from superkingdom
// down to genus.
func (l Lineage) Tag(idx *NameIndex) (string, error) {
	names, err := l.Names(idx)
	if err != nil {
		return "", err
	}
	return strings.Join(names, TagSeparator), nil
}

// ResolveRanks finds ancestors of id at the six tracked ranks.
//
// Unclassified returns UnclassifiedLineage without consulting the provider.
// If the provider does not know id, the result is an UnknownTaxonError;
// if the chain of id is damaged, a BrokenLineageError. Callers decide
// whether to substitute UnclassifiedLineage or abort. Use Unresolvable to
// tell these per-taxon faults from provider failures.
// When a rank label repeats in the chain, the node closest to id wins.
func ResolveRanks(
	ctx context.Context,
	id TaxonID,
	p AncestryProvider,
) (Lineage, error) {
	res := UnclassifiedLineage()
	if id == Unclassified {
		return res, nil
	}

	chain, err := p.Ancestry(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNoAncestry) {
			return res, UnknownTaxonError(id, err)
		}
		if errors.Is(err, ErrBrokenLineage) {
			return res, BrokenLineageError(id, err)
		}
		return res, AncestryError(id, err)
	}
	if len(chain) == 0 {
		return res, UnknownTaxonError(id, ErrNoAncestry)
	}

	for _, node := range chain {
		if rank, ok := NewRank(node.Rank); ok {
			res[rank] = node.ID
		}
	}
	return res, nil
}
