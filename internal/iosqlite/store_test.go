package iosqlite_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/gnames/mpdb/internal/iosqlite"
	"github.com/gnames/mpdb/pkg/errcode"
	"github.com/gnames/mpdb/pkg/taxonomy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const namesDmp = `1	|	root	|		|	scientific name	|
2	|	Bacteria	|	Bacteria <bacteria>	|	scientific name	|
2	|	eubacteria	|		|	genbank common name	|
1224	|	Pseudomonadota	|		|	scientific name	|
1236	|	Gammaproteobacteria	|		|	scientific name	|
135623	|	Vibrionales	|		|	scientific name	|
641	|	Vibrionaceae	|		|	scientific name	|
662	|	Vibrio	|		|	scientific name	|
666	|	Vibrio cholerae	|		|	scientific name	|
`

const nodesDmp = `1	|	1	|	no rank	|
2	|	1	|	superkingdom	|
1224	|	2	|	phylum	|
1236	|	1224	|	class	|
135623	|	1236	|	order	|
641	|	135623	|	family	|
662	|	641	|	genus	|
666	|	662	|	species	|
77	|	78	|	genus	|
`

func snapshot(t *testing.T) *iosqlite.Store {
	t.Helper()
	dir := t.TempDir()
	names := filepath.Join(dir, "names.dmp")
	nodes := filepath.Join(dir, "nodes.dmp")
	require.NoError(t, os.WriteFile(names, []byte(namesDmp), 0644))
	require.NoError(t, os.WriteFile(nodes, []byte(nodesDmp), 0644))

	s, err := iosqlite.Open(filepath.Join(dir, "cache", iosqlite.FileName))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.Import(context.Background(), names, nodes))
	return s
}

func TestImportAndNameIndex(t *testing.T) {
	ctx := context.Background()
	s := snapshot(t)

	at, err := s.ImportedAt(ctx)
	require.NoError(t, err)
	assert.False(t, at.IsZero())

	idx, err := s.NameIndex(ctx)
	require.NoError(t, err)
	assert.Equal(t, 9, idx.Len())
	name, err := idx.Lookup(666)
	require.NoError(t, err)
	assert.Equal(t, "Vibrio cholerae", name)
	assert.False(t, idx.HasName("eubacteria"))
}

func TestEmptySnapshot(t *testing.T) {
	s, err := iosqlite.Open(filepath.Join(t.TempDir(), iosqlite.FileName))
	require.NoError(t, err)
	defer s.Close()

	at, err := s.ImportedAt(context.Background())
	require.NoError(t, err)
	assert.True(t, at.IsZero())
}

func TestAncestry(t *testing.T) {
	ctx := context.Background()
	s := snapshot(t)

	chain, err := s.Ancestry(ctx, 666)
	require.NoError(t, err)
	require.Len(t, chain, 8)
	assert.Equal(t, taxonomy.Node{ID: 1, Rank: "no rank"}, chain[0])
	assert.Equal(t, taxonomy.Node{ID: 666, Rank: "species"}, chain[7])

	l, err := taxonomy.ResolveRanks(ctx, 641, s)
	require.NoError(t, err)
	assert.Equal(t, taxonomy.Lineage{2, 1224, 1236, 135623, 641, -1}, l)

	_, err = s.Ancestry(ctx, 5)
	assert.ErrorIs(t, err, taxonomy.ErrNoAncestry)
	_, err = taxonomy.ResolveRanks(ctx, 5, s)
	assert.True(t, taxonomy.HasCode(err, errcode.UnknownTaxonError))

	// 77 points to a parent that is absent
	_, err = s.Ancestry(ctx, 77)
	require.Error(t, err)
	assert.NotErrorIs(t, err, taxonomy.ErrNoAncestry)
	assert.ErrorIs(t, err, taxonomy.ErrBrokenLineage)
	_, err = taxonomy.ResolveRanks(ctx, 77, s)
	assert.True(t, taxonomy.HasCode(err, errcode.BrokenLineageError))
}

func TestReimportReplacesContent(t *testing.T) {
	ctx := context.Background()
	s := snapshot(t)

	dir := t.TempDir()
	names := filepath.Join(dir, "names.dmp")
	nodes := filepath.Join(dir, "nodes.dmp")
	require.NoError(t, os.WriteFile(names, []byte("1|root||scientific name|\n"), 0644))
	require.NoError(t, os.WriteFile(nodes, []byte("1|1|no rank|\n"), 0644))
	require.NoError(t, s.Import(ctx, names, nodes))

	idx, err := s.NameIndex(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, idx.Len())
}

func TestImportMissingFileKeepsSnapshot(t *testing.T) {
	ctx := context.Background()
	s := snapshot(t)

	err := s.Import(ctx, "/no/such/names.dmp", "/no/such/nodes.dmp")
	require.Error(t, err)
	assert.True(t, taxonomy.HasCode(err, errcode.TaxdumpReadError))

	idx, err := s.NameIndex(ctx)
	require.NoError(t, err)
	assert.Equal(t, 9, idx.Len())
}
