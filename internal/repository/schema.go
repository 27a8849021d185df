package repository

import (
	"slices"
	"sync"

	"admincore/internal/model"

	"gorm.io/gorm/schema"
)

var schemaCache sync.Map

// HasColumn reports whether the entity's schema contains the named column.
// Used to guard conditional audit-field writes and to validate caller-supplied
// sort/delete columns before they reach SQL.
func HasColumn(ent model.Entity, column string) bool {
	s, err := schema.Parse(ent, &schemaCache, schema.NamingStrategy{})
	if err != nil {
		return false
	}
	return s.LookUpField(column) != nil
}

// StringColumns returns the entity's fillable columns that hold text, for
// search-term matching.
func StringColumns(ent model.Entity) []string {
	s, err := schema.Parse(ent, &schemaCache, schema.NamingStrategy{})
	if err != nil {
		return nil
	}
	fillable := ent.Fillable()
	var cols []string
	for _, f := range s.Fields {
		if f.DataType == schema.String && slices.Contains(fillable, f.DBName) {
			cols = append(cols, f.DBName)
		}
	}
	return cols
}
