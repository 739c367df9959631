// Package properties models the typed property values of a remote
// document collection and converts them to and from flat string cells.
//
// A property value is a tagged union over Kind: exactly one shape is
// populated per value, which keeps encoding and decoding exhaustive.
package properties

import (
	"github.com/agentstation/docsync/pkg/errors"
)

// Kind identifies the shape of a remote property value. The set is
// fixed and closed.
type Kind string

// Supported property kinds.
const (
	Title          Kind = "title"
	Text           Kind = "text"
	Select         Kind = "select"
	MultiSelect    Kind = "multi_select"
	Relation       Kind = "relation"
	People         Kind = "people"
	LastEditedBy   Kind = "last_edited_by"
	LastEditedTime Kind = "last_edited_time"
)

// Kinds returns all supported property kinds.
func Kinds() []Kind {
	return []Kind{
		Title,
		Text,
		Select,
		MultiSelect,
		Relation,
		People,
		LastEditedBy,
		LastEditedTime,
	}
}

// String returns the string representation of the kind.
func (k Kind) String() string {
	return string(k)
}

// Valid reports whether the kind is in the supported set.
func (k Kind) Valid() bool {
	switch k {
	case Title, Text, Select, MultiSelect, Relation, People, LastEditedBy, LastEditedTime:
		return true
	}
	return false
}

// WireName returns the property key used on the wire. It differs from
// the kind name only for text, which the remote protocol calls
// rich_text.
func (k Kind) WireName() string {
	if k == Text {
		return "rich_text"
	}
	return string(k)
}

// ParseKind parses a kind from its configuration string, accepting
// the wire spelling rich_text as an alias for text.
func ParseKind(s string) (Kind, error) {
	if s == "rich_text" {
		return Text, nil
	}
	k := Kind(s)
	if !k.Valid() {
		return "", &errors.UnsupportedKindError{Kind: s}
	}
	return k, nil
}
