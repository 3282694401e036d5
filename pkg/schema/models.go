// Package schema provides database schema models for the PostgreSQL
// taxonomy store. Tables are created by GORM AutoMigrate and filled by
// bulk copy.
package schema

import (
	"time"
)

// TaxonName is the scientific name of an NCBI taxon.
type TaxonName struct {
	// TaxonID is the NCBI taxon identifier.
	TaxonID int `gorm:"primaryKey;autoIncrement:false"`

	// NameID is UUID v5 generated from the name using DNS:"globalnames.org".
	// Homonyms share the same NameID.
	NameID string `gorm:"type:uuid;index;not null"`

	// Name is the scientific name.
	Name string `gorm:"type:varchar(500);index;not null"`
}

// TableName returns the PostgreSQL table name.
func (TaxonName) TableName() string {
	return "taxon_names"
}

// TaxonNode is a node of the NCBI taxonomy tree.
type TaxonNode struct {
	// TaxonID is the NCBI taxon identifier.
	TaxonID int `gorm:"primaryKey;autoIncrement:false"`

	// ParentID is the identifier of the parent node. The root is its own
	// parent.
	ParentID int `gorm:"index;not null"`

	// Rank is the NCBI rank label, for example "genus" or "no rank".
	Rank string `gorm:"type:varchar(64);not null"`
}

// TableName returns the PostgreSQL table name.
func (TaxonNode) TableName() string {
	return "taxon_nodes"
}

// TaxonomyImport records a finished import of a taxonomy dump.
type TaxonomyImport struct {
	ID         uint `gorm:"primaryKey"`
	ImportedAt time.Time
	NamesNum   int
	NodesNum   int
}

// TableName returns the PostgreSQL table name.
func (TaxonomyImport) TableName() string {
	return "taxonomy_imports"
}
