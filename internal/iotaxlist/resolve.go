package iotaxlist

import (
	"context"
	"log/slog"
	"slices"

	"github.com/gnames/mpdb/pkg/taxonomy"
)

// Normalizer converts a name string to its canonical form.
// parserpool.Pool satisfies it.
type Normalizer interface {
	Canonical(name string) (string, bool)
}

// Result is the outcome of resolving a taxon list.
type Result struct {
	// IDs are sorted unique identifiers of resolved names.
	IDs []taxonomy.TaxonID

	// Unresolved keeps names that matched nothing, in input order.
	Unresolved []string
}

// Resolve maps names to taxon identifiers through the reverse NameIndex.
//
// A name unknown verbatim is normalized to its canonical form and looked
// up again, so "Vibrio sp." or "Vibrio Pacini 1854" find Vibrio. When a
// name belongs to several taxa, only those at rank are kept; if none of
// them is at rank, all are kept. Provider failures other than unknown
// taxa abort the resolution.
func Resolve(
	ctx context.Context,
	names []string,
	idx *taxonomy.NameIndex,
	p taxonomy.AncestryProvider,
	norm Normalizer,
	rank taxonomy.Rank,
) (Result, error) {
	var res Result
	seen := make(map[taxonomy.TaxonID]struct{})

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		ids := idx.IDs(name)
		if len(ids) == 0 && norm != nil {
			if canonical, ok := norm.Canonical(name); ok && canonical != name {
				ids = idx.IDs(canonical)
				if len(ids) > 0 {
					slog.Debug("Name resolved by canonical form",
						"name", name, "canonical", canonical)
				}
			}
		}
		if len(ids) == 0 {
			slog.Warn("Name not found in NCBI taxonomy", "name", name)
			res.Unresolved = append(res.Unresolved, name)
			continue
		}

		if len(ids) > 1 {
			var err error
			ids, err = filterByRank(ctx, ids, p, rank)
			if err != nil {
				return res, err
			}
			slog.Info("Homonym resolved",
				"name", name, "rank", rank.String(), "ids", ids)
		}

		for _, id := range ids {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			res.IDs = append(res.IDs, id)
		}
	}

	slices.Sort(res.IDs)
	return res, nil
}

func filterByRank(
	ctx context.Context,
	ids []taxonomy.TaxonID,
	p taxonomy.AncestryProvider,
	rank taxonomy.Rank,
) ([]taxonomy.TaxonID, error) {
	var res []taxonomy.TaxonID
	for _, id := range ids {
		r, err := ownRank(ctx, id, p)
		if taxonomy.Unresolvable(err) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if r == rank.String() {
			res = append(res, id)
		}
	}

	if len(res) == 0 {
		return ids, nil
	}
	return res, nil
}

// ownRank returns the normalized rank label of id itself.
func ownRank(
	ctx context.Context,
	id taxonomy.TaxonID,
	p taxonomy.AncestryProvider,
) (string, error) {
	lin, err := taxonomy.ResolveRanks(ctx, id, p)
	if err != nil {
		return "", err
	}
	for i := len(lin) - 1; i >= 0; i-- {
		if lin[i] == id {
			return taxonomy.Rank(i).String(), nil
		}
	}
	return "", nil
}
