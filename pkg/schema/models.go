// Package schema provides database models for exported results of
// harmonization. The same models create PostgreSQL tables via GORM
// AutoMigrate and SQLite tables via generated DDL.
package schema

import (
	"time"
)

// DDLGenerator defines how Go models generate SQL DDL.
type DDLGenerator interface {
	// TableDDL returns the CREATE TABLE statement for this model.
	TableDDL() string

	// IndexDDL returns CREATE INDEX statements for this model.
	// Returns empty slice if no indexes needed.
	IndexDDL() []string

	// TableName returns the table name for this model.
	TableName() string
}

// Run describes one export of harmonization results. Every exported row
// refers to its run, so several runs can live in the same database.
type Run struct {
	// ID is a random UUID of the run.
	ID string `db:"id" ddl:"TEXT PRIMARY KEY" gorm:"column:id;type:uuid;primaryKey"`

	// Version of gnharmony that created the run.
	Version string `db:"version" ddl:"TEXT" gorm:"column:version;type:varchar(50)"`

	// PrimaryRecords is the number of records in the reference taxonomy
	// after restriction to tree tips.
	PrimaryRecords int `db:"primary_records" ddl:"INTEGER" gorm:"column:primary_records"`

	// SecondaryRecords is the number of records in the type-strain
	// taxonomy after restriction to tree tips.
	SecondaryRecords int `db:"secondary_records" ddl:"INTEGER" gorm:"column:secondary_records"`

	Rules       int `db:"rules" ddl:"INTEGER" gorm:"column:rules"`
	Lineages    int `db:"lineages" ddl:"INTEGER" gorm:"column:lineages"`
	Grafted     int `db:"grafted" ddl:"INTEGER" gorm:"column:grafted"`
	CarriedOver int `db:"carried_over" ddl:"INTEGER" gorm:"column:carried_over"`

	// Unintegrated is the number of secondary records that were left out
	// for any reason.
	Unintegrated int `db:"unintegrated" ddl:"INTEGER" gorm:"column:unintegrated"`

	CreatedAt time.Time `db:"created_at" ddl:"TIMESTAMP" gorm:"column:created_at"`
}

// Assignment is a harmonized lineage of a tree tip.
type Assignment struct {
	RunID    string `db:"run_id" ddl:"TEXT NOT NULL" gorm:"column:run_id;type:uuid;primaryKey"`
	RecordID string `db:"record_id" ddl:"TEXT NOT NULL" gorm:"column:record_id;type:varchar(255);primaryKey"`

	// LineageID is UUID v5 of the rank-prefixed lineage. Records with
	// the same lineage share it.
	LineageID string `db:"lineage_id" ddl:"TEXT" gorm:"column:lineage_id;type:uuid;index"`

	// Lineage is the rank-prefixed lineage with all seven ranks.
	Lineage string `db:"lineage" ddl:"TEXT" gorm:"column:lineage;type:text"`

	// Depth is the number of filled ranks.
	Depth int `db:"depth" ddl:"INTEGER" gorm:"column:depth"`

	Genus   string `db:"genus" ddl:"TEXT" gorm:"column:genus;type:varchar(255);index"`
	Species string `db:"species" ddl:"TEXT" gorm:"column:species;type:varchar(255);index"`
}

// Unintegrated is a secondary record that did not make it into the
// merged taxonomy.
type Unintegrated struct {
	RunID    string `db:"run_id" ddl:"TEXT NOT NULL" gorm:"column:run_id;type:uuid;primaryKey"`
	RecordID string `db:"record_id" ddl:"TEXT NOT NULL" gorm:"column:record_id;type:varchar(255);primaryKey"`

	// Lineage is the lineage as it was read from the input.
	Lineage string `db:"lineage" ddl:"TEXT" gorm:"column:lineage;type:text"`

	Reason string `db:"reason" ddl:"TEXT" gorm:"column:reason;type:varchar(50);index"`
}

// TaxID is a numeric taxonomic identifier of an exported record.
type TaxID struct {
	RunID    string `db:"run_id" ddl:"TEXT NOT NULL" gorm:"column:run_id;type:uuid;primaryKey"`
	RecordID string `db:"record_id" ddl:"TEXT NOT NULL" gorm:"column:record_id;type:varchar(255);primaryKey"`
	TaxID    int    `db:"tax_id" ddl:"INTEGER" gorm:"column:tax_id;index"`
}

// RewriteRule is a rule applied to the secondary taxonomy.
type RewriteRule struct {
	RunID string `db:"run_id" ddl:"TEXT NOT NULL" gorm:"column:run_id;type:uuid;primaryKey"`

	// Position is the order in which the rule was applied.
	Position int `db:"position" ddl:"INTEGER NOT NULL" gorm:"column:position;primaryKey;autoIncrement:false"`

	OldText     string `db:"old_text" ddl:"TEXT" gorm:"column:old_text;type:text"`
	NewText     string `db:"new_text" ddl:"TEXT" gorm:"column:new_text;type:text"`
	Specificity int    `db:"specificity" ddl:"INTEGER" gorm:"column:specificity"`
}
