// Package importer turns delimited text uploads into schema-shaped records.
//
// A Schema describes one record kind as data: canonical keys, the header
// spellings that map onto them, defaults and value coercions. Parse is a
// single generic pass that consumes any Schema, so a new record kind only
// needs a new Schema, not new parsing code.
package importer

import (
	"fmt"
	"strings"
)

// Coercion selects how a raw cell becomes a field value.
type Coercion int

const (
	// CoerceString keeps the trimmed cell as-is.
	CoerceString Coercion = iota
	// CoerceEnum lower-cases the cell and matches it against EnumValues,
	// substituting Default when nothing matches.
	CoerceEnum
	// CoerceList splits the cell on Separator into trimmed strings.
	CoerceList
)

func (c Coercion) String() string {
	switch c {
	case CoerceString:
		return "string"
	case CoerceEnum:
		return "enum"
	case CoerceList:
		return "list"
	default:
		return fmt.Sprintf("coercion(%d)", int(c))
	}
}

// DefaultListSeparator separates list elements inside one cell.
const DefaultListSeparator = ";"

// Field describes one canonical field of a record kind.
type Field struct {
	Key      string   // Canonical key: "countryCode"
	Aliases  []string // Accepted header spellings, matched case-insensitively
	Required bool     // Record is discarded when the coerced value is empty
	Coerce   Coercion

	// Default is the initial value for string fields and the fallback for
	// enum fields. List fields always default to an empty list.
	Default string

	// DefaultOnEmpty makes an empty cell keep Default instead of
	// overwriting it with "". Only meaningful for CoerceString.
	DefaultOnEmpty bool

	EnumValues []string // Known values for CoerceEnum, lower-case
	Separator  string   // Element separator for CoerceList (default ";")
}

// Schema is the validated, immutable import configuration for one record kind.
type Schema struct {
	kind    string
	fields  []Field
	byKey   map[string]int
	byAlias map[string]int
}

// NewSchema validates fields and builds a Schema.
// Canonical keys must be unique, and no alias may be claimed by two fields.
func NewSchema(kind string, fields ...Field) (*Schema, error) {
	if strings.TrimSpace(kind) == "" {
		return nil, fmt.Errorf("schema kind is required")
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("schema %q: at least one field is required", kind)
	}

	s := &Schema{
		kind:    kind,
		fields:  make([]Field, 0, len(fields)),
		byKey:   make(map[string]int, len(fields)),
		byAlias: make(map[string]int),
	}

	for _, f := range fields {
		if f.Key == "" {
			return nil, fmt.Errorf("schema %q: field with empty key", kind)
		}
		if _, dup := s.byKey[f.Key]; dup {
			return nil, fmt.Errorf("schema %q: duplicate field key %q", kind, f.Key)
		}
		if len(f.Aliases) == 0 {
			return nil, fmt.Errorf("schema %q: field %q has no aliases", kind, f.Key)
		}

		aliases := make([]string, 0, len(f.Aliases))
		for _, a := range f.Aliases {
			a = strings.ToLower(strings.TrimSpace(a))
			if a == "" {
				return nil, fmt.Errorf("schema %q: field %q has an empty alias", kind, f.Key)
			}
			if owner, dup := s.byAlias[a]; dup {
				return nil, fmt.Errorf("schema %q: alias %q claimed by both %q and %q",
					kind, a, s.fields[owner].Key, f.Key)
			}
			s.byAlias[a] = len(s.fields)
			aliases = append(aliases, a)
		}
		f.Aliases = aliases

		switch f.Coerce {
		case CoerceString:
		case CoerceEnum:
			if len(f.EnumValues) == 0 {
				return nil, fmt.Errorf("schema %q: enum field %q has no values", kind, f.Key)
			}
			values := make([]string, len(f.EnumValues))
			for i, v := range f.EnumValues {
				values[i] = strings.ToLower(v)
			}
			f.EnumValues = values
			if !contains(values, f.Default) {
				return nil, fmt.Errorf("schema %q: enum field %q fallback %q is not a known value",
					kind, f.Key, f.Default)
			}
		case CoerceList:
			if f.Separator == "" {
				f.Separator = DefaultListSeparator
			}
		default:
			return nil, fmt.Errorf("schema %q: field %q has unknown coercion %d", kind, f.Key, f.Coerce)
		}

		s.byKey[f.Key] = len(s.fields)
		s.fields = append(s.fields, f)
	}

	return s, nil
}

// MustSchema is like NewSchema but panics on misconfiguration.
// Intended for package-level schema declarations.
func MustSchema(kind string, fields ...Field) *Schema {
	s, err := NewSchema(kind, fields...)
	if err != nil {
		panic(err)
	}
	return s
}

// Kind returns the record kind this schema describes.
func (s *Schema) Kind() string { return s.kind }

// Fields returns a copy of the field descriptors in declaration order.
func (s *Schema) Fields() []Field {
	out := make([]Field, len(s.fields))
	copy(out, s.fields)
	return out
}

// Field returns the descriptor for a canonical key.
func (s *Schema) Field(key string) (Field, bool) {
	i, ok := s.byKey[key]
	if !ok {
		return Field{}, false
	}
	return s.fields[i], true
}

// Resolve returns the field that declares header as an alias.
func (s *Schema) Resolve(header string) (Field, bool) {
	i, ok := s.byAlias[strings.ToLower(strings.TrimSpace(header))]
	if !ok {
		return Field{}, false
	}
	return s.fields[i], true
}

// Headers returns the primary alias of every field, in declaration order.
// A CSV written with these headers imports back onto the same keys.
func (s *Schema) Headers() []string {
	out := make([]string, len(s.fields))
	for i, f := range s.fields {
		out[i] = f.Aliases[0]
	}
	return out
}

// Defaults returns a fresh record with every field set to its default.
func (s *Schema) Defaults() Record {
	r := make(Record, len(s.fields))
	for _, f := range s.fields {
		if f.Coerce == CoerceList {
			r[f.Key] = []string{}
			continue
		}
		r[f.Key] = f.Default
	}
	return r
}

func contains(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
