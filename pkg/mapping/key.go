package mapping

import (
	"fmt"
	"strings"

	"github.com/agentstation/docsync/pkg/errors"
	"github.com/agentstation/docsync/pkg/properties"
)

// KeyDelimiter joins key column values into one composite key. Values
// are assumed not to contain the delimiter themselves.
const KeyDelimiter = "::"

// KeySpec is the ordered list of local column names whose values form
// a record's composite key.
type KeySpec []string

// Validate checks that the spec is non-empty and every key column is
// present in the mapping.
func (ks KeySpec) Validate(m *Mapping) error {
	if len(ks) == 0 {
		return errors.NewConfigError("key spec", "no key columns defined", nil)
	}
	for _, column := range ks {
		if _, ok := m.Field(column); !ok {
			return errors.NewConfigError("key spec",
				fmt.Sprintf("key column %q is not in the field mapping", column), nil)
		}
	}
	return nil
}

// Record is one local record: a column-to-cell mapping plus the source
// row it came from and its precomputed composite key.
type Record struct {
	Row    int // 1-based data row, header excluded; 0 when synthesized
	Key    string
	Values map[string]string
}

// Key derives the composite key of a local record: the raw cell values
// of the key columns joined in spec order. A key column absent from
// the record (as opposed to empty) is a fatal identity error.
func Key(values map[string]string, spec KeySpec) (string, error) {
	parts := make([]string, 0, len(spec))
	for _, column := range spec {
		cell, ok := values[column]
		if !ok {
			return "", &errors.MissingColumnError{Column: column}
		}
		parts = append(parts, cell)
	}
	return strings.Join(parts, KeyDelimiter), nil
}

// PageKey derives the composite key of a remote record by decoding, in
// spec order, each key column's mapped property with its configured
// kind. It must agree with Key for records representing the same
// logical entity; that agreement is what makes reconciliation sound.
// A property missing from the remote record decodes as empty, the same
// as an empty cell.
func PageKey(props map[string]properties.Value, m *Mapping, spec KeySpec) (string, error) {
	parts := make([]string, 0, len(spec))
	for _, column := range spec {
		field, ok := m.Field(column)
		if !ok {
			return "", &errors.MissingColumnError{Column: column}
		}

		value, ok := props[field.Property]
		if !ok {
			parts = append(parts, "")
			continue
		}

		cell, err := properties.Decode(field.Kind, column, value)
		if err != nil {
			return "", err
		}
		parts = append(parts, cell)
	}
	return strings.Join(parts, KeyDelimiter), nil
}
