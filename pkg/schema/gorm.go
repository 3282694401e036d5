package schema

import (
	"gorm.io/gorm"
)

// AllModels returns all schema models for GORM AutoMigrate.
func AllModels() []any {
	return []any{
		&TaxonName{},
		&TaxonNode{},
		&TaxonomyImport{},
	}
}

// TableNames returns names of all tables in AllModels order.
func TableNames() []string {
	return []string{
		TaxonName{}.TableName(),
		TaxonNode{}.TableName(),
		TaxonomyImport{}.TableName(),
	}
}

// Migrate runs GORM AutoMigrate to create or update schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(AllModels()...)
}
