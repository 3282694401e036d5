package iotaxdump

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gnames/mpdb/pkg/taxonomy"
)

// Nodes is an in-memory taxonomy tree loaded from nodes.dmp. It implements
// taxonomy.AncestryProvider and is safe for concurrent reads.
type Nodes struct {
	parent map[taxonomy.TaxonID]taxonomy.TaxonID
	rank   map[taxonomy.TaxonID]string
}

// LoadNodes reads nodes.dmp into memory.
func LoadNodes(path string) (*Nodes, error) {
	f, err := OpenDump(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	res := &Nodes{
		parent: make(map[taxonomy.TaxonID]taxonomy.TaxonID),
		rank:   make(map[taxonomy.TaxonID]string),
	}
	err = ScanNodes(f, path,
		func(id, parentID taxonomy.TaxonID, rank string) error {
			res.add(id, parentID, rank)
			if len(res.parent)%500_000 == 0 {
				progressReport(len(res.parent), "taxonomy nodes")
			}
			return nil
		})
	clearProgress()
	if err != nil {
		return nil, err
	}

	slog.Info("Taxonomy tree is loaded", "path", path, "nodes", len(res.parent))
	return res, nil
}

func (n *Nodes) add(id, parentID taxonomy.TaxonID, rank string) {
	n.parent[id] = parentID
	n.rank[id] = rank
}

// Len returns the number of nodes.
func (n *Nodes) Len() int {
	return len(n.parent)
}

// Ancestry walks parent links from id up to the root and returns the chain
// in root-to-id order. The root is the node that is its own parent.
func (n *Nodes) Ancestry(
	_ context.Context,
	id taxonomy.TaxonID,
) ([]taxonomy.Node, error) {
	if _, ok := n.parent[id]; !ok {
		return nil, fmt.Errorf("taxon %d: %w", id, taxonomy.ErrNoAncestry)
	}

	var res []taxonomy.Node
	visited := make(map[taxonomy.TaxonID]struct{})
	curr := id
	for {
		if _, ok := visited[curr]; ok {
			return nil, fmt.Errorf(
				"circular parent reference at taxon %d: %w",
				curr, taxonomy.ErrBrokenLineage,
			)
		}
		visited[curr] = struct{}{}

		parent, ok := n.parent[curr]
		if !ok {
			return nil, fmt.Errorf(
				"parent %d of taxon %d is missing: %w",
				curr, id, taxonomy.ErrBrokenLineage,
			)
		}
		res = append(res, taxonomy.Node{ID: curr, Rank: n.rank[curr]})
		if parent == curr {
			break
		}
		curr = parent
	}

	// collected leaf-to-root
	for i, j := 0, len(res)-1; i < j; i, j = i+1, j-1 {
		res[i], res[j] = res[j], res[i]
	}
	return res, nil
}
