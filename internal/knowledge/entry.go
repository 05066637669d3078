// Package knowledge provides the in-memory agriculture knowledge store and
// its relevance-ranked lookup.
package knowledge

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Entry is one knowledge record: either a bare text value or an ordered list
// of named fields. Exactly one representation is populated. Entries are
// immutable after load.
type Entry struct {
	Text   string
	Fields []Field
}

// Field is a single named value inside a structured entry. A field holds
// either a scalar string or a string list; List being non-nil marks the
// list form.
type Field struct {
	Name  string
	Value string
	List  []string
}

// TextEntry builds a bare-text entry.
func TextEntry(text string) *Entry {
	return &Entry{Text: text}
}

// NewEntry builds a structured entry from ordered fields.
func NewEntry(fields ...Field) *Entry {
	return &Entry{Fields: fields}
}

// Str builds a scalar field.
func Str(name, value string) Field {
	return Field{Name: name, Value: value}
}

// Strs builds a list field.
func Strs(name string, values ...string) Field {
	if values == nil {
		values = []string{}
	}
	return Field{Name: name, List: values}
}

// IsText reports whether the entry is a bare text value.
func (e *Entry) IsText() bool {
	return e.Fields == nil
}

// Field returns the named field and whether it exists.
func (e *Entry) Field(name string) (Field, bool) {
	for _, f := range e.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// MarshalJSON renders the entry with its field order intact, so serialized
// context reads the way the dataset was authored.
func (e *Entry) MarshalJSON() ([]byte, error) {
	if e.IsText() {
		return json.Marshal(e.Text)
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range e.Fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(f.Name)
		if err != nil {
			return nil, fmt.Errorf("marshal field name %q: %w", f.Name, err)
		}
		buf.Write(name)
		buf.WriteByte(':')

		var val []byte
		if f.List != nil {
			val, err = json.Marshal(f.List)
		} else {
			val, err = json.Marshal(f.Value)
		}
		if err != nil {
			return nil, fmt.Errorf("marshal field %q: %w", f.Name, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Dump renders the entry as indented JSON for inclusion in a prompt.
func (e *Entry) Dump() (string, error) {
	data, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return "", fmt.Errorf("dump entry: %w", err)
	}
	return string(data), nil
}
