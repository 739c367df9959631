// Package mapping defines the schema bridge between local tabular
// columns and remote document properties, and derives the composite
// key that serves as a record's cross-system identity.
package mapping

import (
	"fmt"

	"github.com/agentstation/docsync/pkg/errors"
	"github.com/agentstation/docsync/pkg/properties"
)

// Field maps one local column to a remote property of a given kind.
type Field struct {
	Column   string          `yaml:"column" json:"column"`
	Property string          `yaml:"property" json:"property"`
	Kind     properties.Kind `yaml:"kind" json:"kind"`
}

// Mapping is an ordered set of field mappings. Columns are unique;
// remote properties need not be.
type Mapping struct {
	fields   []Field
	byColumn map[string]Field
}

// New creates a mapping from an ordered field list. Duplicate columns
// are a configuration error. Kinds are not validated here: unsupported
// kinds are detected field-by-field during encode/decode so that one
// bad field does not abort a whole record.
func New(fields []Field) (*Mapping, error) {
	if len(fields) == 0 {
		return nil, errors.NewConfigError("mapping", "no field mappings defined", nil)
	}

	byColumn := make(map[string]Field, len(fields))
	for _, f := range fields {
		if f.Column == "" {
			return nil, errors.NewConfigError("mapping", "field mapping with empty column name", nil)
		}
		if f.Property == "" {
			return nil, errors.NewConfigError("mapping",
				fmt.Sprintf("column %q has no remote property", f.Column), nil)
		}
		if _, ok := byColumn[f.Column]; ok {
			return nil, errors.NewConfigError("mapping",
				fmt.Sprintf("column %q mapped more than once", f.Column), nil)
		}
		byColumn[f.Column] = f
	}

	return &Mapping{fields: fields, byColumn: byColumn}, nil
}

// Fields returns the field mappings in declaration order.
func (m *Mapping) Fields() []Field {
	return m.fields
}

// Field looks up the mapping for a local column.
func (m *Mapping) Field(column string) (Field, bool) {
	f, ok := m.byColumn[column]
	return f, ok
}

// Columns returns the local column names in declaration order.
func (m *Mapping) Columns() []string {
	cols := make([]string, 0, len(m.fields))
	for _, f := range m.fields {
		cols = append(cols, f.Column)
	}
	return cols
}

// Len returns the number of mapped columns.
func (m *Mapping) Len() int {
	return len(m.fields)
}
