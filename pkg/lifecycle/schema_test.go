package lifecycle_test

import (
	"testing"

	"github.com/gnames/mpdb/internal/iodb"
	"github.com/gnames/mpdb/internal/ioschema"
	"github.com/gnames/mpdb/internal/iosqlite"
	"github.com/gnames/mpdb/pkg/lifecycle"
	"github.com/stretchr/testify/assert"
)

// TestContracts fails to compile if implementations drift from the
// interfaces.
func TestContracts(t *testing.T) {
	var _ lifecycle.TaxonomyStore = (*iosqlite.Store)(nil)
	var _ lifecycle.TaxonomyStore = iodb.NewTaxonomy(iodb.NewPgxOperator(), 1000)
	var _ lifecycle.SchemaManager = ioschema.NewManager(iodb.NewPgxOperator())
	assert.True(t, true)
}
