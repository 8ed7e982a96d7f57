package schema

import "gorm.io/gorm"

// AllModels returns all models in the order their tables are created.
func AllModels() []any {
	return []any{
		&Run{},
		&Assignment{},
		&Unintegrated{},
		&TaxID{},
		&RewriteRule{},
	}
}

// AllGenerators returns DDL generators of all models for databases that
// are created without GORM.
func AllGenerators() []DDLGenerator {
	return []DDLGenerator{
		Run{},
		Assignment{},
		Unintegrated{},
		TaxID{},
		RewriteRule{},
	}
}

// Migrate runs GORM AutoMigrate to create or update schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(AllModels()...)
}
