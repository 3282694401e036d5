// Package lifecycle defines contracts of persistent taxonomy stores and of
// the schema management they rely on.
package lifecycle

import (
	"context"
	"time"

	"github.com/gnames/mpdb/pkg/taxonomy"
)

// SchemaManager defines the interface for database schema management.
// It uses GORM AutoMigrate, so Create is safe to run multiple times.
type SchemaManager interface {
	// Create creates or updates the schema and applies collation settings
	// for correct scientific name sorting.
	Create(ctx context.Context) error

	// Reset drops all tables and creates the schema again.
	Reset(ctx context.Context) error
}

// TaxonomyStore keeps an imported NCBI taxonomy dump and answers lineage
// queries from it.
type TaxonomyStore interface {
	taxonomy.AncestryProvider

	// Import replaces the stored taxonomy with the content of names.dmp
	// and nodes.dmp.
	Import(ctx context.Context, namesPath, nodesPath string) error

	// ImportedAt returns the time of the last import, or zero time when the
	// store is empty.
	ImportedAt(ctx context.Context) (time.Time, error)

	// NameIndex loads all scientific names.
	NameIndex(ctx context.Context) (*taxonomy.NameIndex, error)

	// Close releases resources of the store.
	Close() error
}
