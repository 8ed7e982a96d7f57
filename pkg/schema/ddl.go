package schema

import (
	"fmt"
	"reflect"
	"strings"
)

// generateDDL creates a CREATE TABLE statement from struct tags.
func generateDDL(model any, tableName string) string {
	t := modelType(model)

	var columns []string
	for i := range t.NumField() {
		field := t.Field(i)
		dbTag := field.Tag.Get("db")
		ddlTag := field.Tag.Get("ddl")

		if dbTag != "" && ddlTag != "" {
			columns = append(columns, fmt.Sprintf("    %s %s", dbTag, ddlTag))
		}
	}

	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n%s\n);",
		tableName,
		strings.Join(columns, ",\n"))
}

// Columns returns column names of a model in the order of its fields.
func Columns(model any) []string {
	t := modelType(model)
	var res []string
	for i := range t.NumField() {
		if tag := t.Field(i).Tag.Get("db"); tag != "" {
			res = append(res, tag)
		}
	}
	return res
}

// Values returns field values of a model in the order of Columns.
func Values(model any) []any {
	v := reflect.ValueOf(model)
	if v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	t := v.Type()
	var res []any
	for i := range t.NumField() {
		if t.Field(i).Tag.Get("db") != "" {
			res = append(res, v.Field(i).Interface())
		}
	}
	return res
}

func modelType(model any) reflect.Type {
	t := reflect.TypeOf(model)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

func (r Run) TableDDL() string {
	return generateDDL(r, r.TableName())
}

func (r Run) IndexDDL() []string {
	return []string{}
}

func (r Run) TableName() string {
	return "runs"
}

func (a Assignment) TableDDL() string {
	return generateDDL(a, a.TableName())
}

func (a Assignment) IndexDDL() []string {
	return []string{
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_assignments_run_record " +
			"ON assignments(run_id, record_id);",
		"CREATE INDEX IF NOT EXISTS idx_assignments_lineage_id " +
			"ON assignments(lineage_id);",
		"CREATE INDEX IF NOT EXISTS idx_assignments_genus ON assignments(genus);",
		"CREATE INDEX IF NOT EXISTS idx_assignments_species " +
			"ON assignments(species);",
	}
}

func (a Assignment) TableName() string {
	return "assignments"
}

func (u Unintegrated) TableDDL() string {
	return generateDDL(u, u.TableName())
}

func (u Unintegrated) IndexDDL() []string {
	return []string{
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_unintegrated_run_record " +
			"ON unintegrated(run_id, record_id);",
		"CREATE INDEX IF NOT EXISTS idx_unintegrated_reason " +
			"ON unintegrated(reason);",
	}
}

func (u Unintegrated) TableName() string {
	return "unintegrated"
}

func (ti TaxID) TableDDL() string {
	return generateDDL(ti, ti.TableName())
}

func (ti TaxID) IndexDDL() []string {
	return []string{
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_tax_ids_run_record " +
			"ON tax_ids(run_id, record_id);",
		"CREATE INDEX IF NOT EXISTS idx_tax_ids_tax_id ON tax_ids(tax_id);",
	}
}

func (ti TaxID) TableName() string {
	return "tax_ids"
}

func (rr RewriteRule) TableDDL() string {
	return generateDDL(rr, rr.TableName())
}

func (rr RewriteRule) IndexDDL() []string {
	return []string{
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_rewrite_rules_run_position " +
			"ON rewrite_rules(run_id, position);",
	}
}

func (rr RewriteRule) TableName() string {
	return "rewrite_rules"
}
