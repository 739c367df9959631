package properties

import (
	"strings"

	"github.com/agentstation/docsync/pkg/errors"
)

// Encode converts a flat string cell into a typed property value for
// the given kind. The include flag reports whether the property should
// be written at all: system-managed kinds (last_edited_by,
// last_edited_time) are omitted unless the cell explicitly overrides
// them. An unsupported kind returns UnsupportedKindError; callers skip
// the field and continue with the rest of the record.
func Encode(kind Kind, column, cell string) (value Value, include bool, err error) {
	switch kind {
	case Title:
		return Value{Kind: Title, Title: segments(cell)}, true, nil
	case Text:
		return Value{Kind: Text, Text: segments(cell)}, true, nil
	case Select:
		// An empty cell encodes as explicit null, not absence, so
		// clearing a selection is representable.
		v := Value{Kind: Select}
		if cell != "" {
			v.Select = &Option{Name: cell}
		}
		return v, true, nil
	case MultiSelect:
		names := SplitList(cell)
		options := make([]Option, 0, len(names))
		for _, name := range names {
			options = append(options, Option{Name: name})
		}
		return Value{Kind: MultiSelect, MultiSelect: options}, true, nil
	case Relation:
		return Value{Kind: Relation, Relation: references(cell)}, true, nil
	case People:
		return Value{Kind: People, People: references(cell)}, true, nil
	case LastEditedBy:
		if cell == "" {
			return Value{}, false, nil
		}
		return Value{Kind: LastEditedBy, LastEditedBy: &Reference{ID: cell}}, true, nil
	case LastEditedTime:
		if cell == "" {
			return Value{}, false, nil
		}
		return Value{Kind: LastEditedTime, LastEditedTime: cell}, true, nil
	default:
		return Value{}, false, &errors.UnsupportedKindError{Kind: string(kind), Column: column}
	}
}

// Decode converts a typed property value back into a flat string cell
// according to the given kind. Empty or cleared values decode to the
// empty string.
func Decode(kind Kind, column string, v Value) (string, error) {
	switch kind {
	case Title:
		return firstPlain(v.Title), nil
	case Text:
		return firstPlain(v.Text), nil
	case Select:
		if v.Select == nil {
			return "", nil
		}
		return v.Select.Name, nil
	case MultiSelect:
		names := make([]string, 0, len(v.MultiSelect))
		for _, o := range v.MultiSelect {
			names = append(names, o.Name)
		}
		return strings.Join(names, ","), nil
	case Relation:
		return joinReferences(v.Relation), nil
	case People:
		return joinReferences(v.People), nil
	case LastEditedBy:
		if v.LastEditedBy == nil {
			return "", nil
		}
		return v.LastEditedBy.ID, nil
	case LastEditedTime:
		return v.LastEditedTime, nil
	default:
		return "", &errors.UnsupportedKindError{Kind: string(kind), Column: column}
	}
}

// SplitList splits a comma-separated cell into elements, trimming
// whitespace and dropping empty tokens. Duplicates are kept and order
// is preserved.
func SplitList(cell string) []string {
	parts := strings.Split(cell, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func segments(cell string) []RichText {
	return []RichText{{Text: &TextContent{Content: cell}}}
}

func references(cell string) []Reference {
	ids := SplitList(cell)
	refs := make([]Reference, 0, len(ids))
	for _, id := range ids {
		refs = append(refs, Reference{ID: id})
	}
	return refs
}

func firstPlain(segments []RichText) string {
	if len(segments) == 0 {
		return ""
	}
	return segments[0].Plain()
}

func joinReferences(refs []Reference) string {
	ids := make([]string, 0, len(refs))
	for _, r := range refs {
		ids = append(ids, r.ID)
	}
	return strings.Join(ids, ",")
}
