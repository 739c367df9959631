package properties

import (
	"encoding/json"

	"github.com/agentstation/docsync/pkg/errors"
)

// RichText is one segment of a rich-text property. Writes carry the
// content under Text; reads additionally carry the rendered PlainText.
type RichText struct {
	Text      *TextContent `json:"text,omitempty"`
	PlainText string       `json:"plain_text,omitempty"`
}

// TextContent is the writable payload of a rich-text segment.
type TextContent struct {
	Content string `json:"content"`
}

// Plain returns the segment's plain text, preferring the rendered
// form the remote service returns on reads.
func (rt RichText) Plain() string {
	if rt.PlainText != "" {
		return rt.PlainText
	}
	if rt.Text != nil {
		return rt.Text.Content
	}
	return ""
}

// Option is a named choice of a select or multi_select property.
type Option struct {
	Name string `json:"name"`
}

// Reference is an opaque identifier reference (a related page or a user).
type Reference struct {
	ID string `json:"id"`
}

// Value is a typed property value, a tagged union over Kind. Exactly
// the field matching Kind is meaningful; the rest are zero.
type Value struct {
	Kind Kind

	Title          []RichText
	Text           []RichText
	Select         *Option // nil means explicit "no selection"
	MultiSelect    []Option
	Relation       []Reference
	People         []Reference
	LastEditedBy   *Reference
	LastEditedTime string
}

// MarshalJSON writes the value in remote wire format: a single
// property key named after the kind. A nil Select is serialized as an
// explicit null so that clearing a selection is representable.
func (v Value) MarshalJSON() ([]byte, error) {
	m := map[string]any{}
	switch v.Kind {
	case Title:
		m["title"] = nonNilText(v.Title)
	case Text:
		m["rich_text"] = nonNilText(v.Text)
	case Select:
		m["select"] = v.Select
	case MultiSelect:
		if v.MultiSelect == nil {
			m["multi_select"] = []Option{}
		} else {
			m["multi_select"] = v.MultiSelect
		}
	case Relation:
		if v.Relation == nil {
			m["relation"] = []Reference{}
		} else {
			m["relation"] = v.Relation
		}
	case People:
		if v.People == nil {
			m["people"] = []Reference{}
		} else {
			m["people"] = v.People
		}
	case LastEditedBy:
		m["last_edited_by"] = v.LastEditedBy
	case LastEditedTime:
		m["last_edited_time"] = v.LastEditedTime
	default:
		return nil, &errors.UnsupportedKindError{Kind: string(v.Kind)}
	}
	return json.Marshal(m)
}

// valueWire mirrors the remote read format, which carries a type tag
// alongside the kind-named payload key.
type valueWire struct {
	Type           string      `json:"type,omitempty"`
	Title          []RichText  `json:"title,omitempty"`
	RichText       []RichText  `json:"rich_text,omitempty"`
	Select         *Option     `json:"select,omitempty"`
	MultiSelect    []Option    `json:"multi_select,omitempty"`
	Relation       []Reference `json:"relation,omitempty"`
	People         []Reference `json:"people,omitempty"`
	LastEditedBy   *Reference  `json:"last_edited_by,omitempty"`
	LastEditedTime string      `json:"last_edited_time,omitempty"`
}

// UnmarshalJSON reads a value from remote wire format. The type tag
// decides the kind; when absent, the populated payload key does.
func (v *Value) UnmarshalJSON(data []byte) error {
	var w valueWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	*v = Value{
		Title:          w.Title,
		Text:           w.RichText,
		Select:         w.Select,
		MultiSelect:    w.MultiSelect,
		Relation:       w.Relation,
		People:         w.People,
		LastEditedBy:   w.LastEditedBy,
		LastEditedTime: w.LastEditedTime,
	}

	switch {
	case w.Type != "":
		if k, err := ParseKind(w.Type); err == nil {
			v.Kind = k
		} else {
			// Unknown remote kinds surface later as UnsupportedKindError.
			v.Kind = Kind(w.Type)
		}
	case w.Title != nil:
		v.Kind = Title
	case w.RichText != nil:
		v.Kind = Text
	case w.Select != nil:
		v.Kind = Select
	case w.MultiSelect != nil:
		v.Kind = MultiSelect
	case w.Relation != nil:
		v.Kind = Relation
	case w.People != nil:
		v.Kind = People
	case w.LastEditedBy != nil:
		v.Kind = LastEditedBy
	case w.LastEditedTime != "":
		v.Kind = LastEditedTime
	}

	return nil
}

func nonNilText(segments []RichText) []RichText {
	if segments == nil {
		return []RichText{}
	}
	return segments
}
