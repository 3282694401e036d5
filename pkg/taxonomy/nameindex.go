package taxonomy

import (
	"slices"
)

// NameIndex maps taxon identifiers to canonical scientific names.
// It is immutable once built and safe for concurrent reads.
// The Unclassified sentinel is always present and maps to "-1".
type NameIndex struct {
	names map[TaxonID]string
	ids   map[string][]TaxonID
}

// IndexBuilder accumulates scientific names for a NameIndex.
type IndexBuilder struct {
	names map[TaxonID]string
}

// NewIndexBuilder creates an empty builder.
func NewIndexBuilder() *IndexBuilder {
	return &IndexBuilder{names: make(map[TaxonID]string)}
}

// Add registers a scientific name for id. A later call for the same id
// replaces the previous name.
func (b *IndexBuilder) Add(id TaxonID, name string) {
	b.names[id] = name
}

// Build creates the NameIndex. The builder must not be used afterwards.
func (b *IndexBuilder) Build() *NameIndex {
	names := b.names
	b.names = nil
	names[Unclassified] = Unclassified.String()

	ids := make(map[string][]TaxonID, len(names))
	for id, name := range names {
		if id == Unclassified {
			continue
		}
		ids[name] = append(ids[name], id)
	}
	for _, v := range ids {
		slices.Sort(v)
	}
	return &NameIndex{names: names, ids: ids}
}

// Lookup returns the scientific name of id.
func (n *NameIndex) Lookup(id TaxonID) (string, error) {
	name, ok := n.names[id]
	if !ok {
		return "", NameNotFoundError(id)
	}
	return name, nil
}

// HasName reports whether name is exactly (case-sensitive) one of the
// scientific names in the index.
func (n *NameIndex) HasName(name string) bool {
	_, ok := n.ids[name]
	return ok
}

// IDs returns identifiers carrying the given scientific name in ascending
// order. Homonyms across kingdoms produce more than one identifier.
func (n *NameIndex) IDs(name string) []TaxonID {
	return slices.Clone(n.ids[name])
}

// Len returns the number of entries including the Unclassified sentinel.
func (n *NameIndex) Len() int {
	return len(n.names)
}
