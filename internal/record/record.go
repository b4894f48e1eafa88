// Package record holds ordered key/value records, the row model shared by the
// validator input and the exporters.
package record

import (
	"bytes"
	"encoding/json"
)

// Field is a single named value of a record
type Field struct {
	Name  string
	Value any
}

// Record is an ordered set of fields. Field names are unique.
type Record []Field

// Get returns the value stored under name
func (r Record) Get(name string) (any, bool) {
	for _, f := range r {
		if f.Name == name {
			return f.Value, true
		}
	}

	return nil, false
}

// Set replaces the value under name, or appends a new field at the end
func (r *Record) Set(name string, value any) {
	for i := range *r {
		if (*r)[i].Name == name {
			(*r)[i].Value = value
			return
		}
	}

	*r = append(*r, Field{Name: name, Value: value})
}

// Keys returns the field names in order
func (r Record) Keys() []string {
	keys := make([]string, 0, len(r))
	for _, f := range r {
		keys = append(keys, f.Name)
	}

	return keys
}

// Map returns the top-level fields as a plain map. Nested records are kept as is.
func (r Record) Map() map[string]any {
	m := make(map[string]any, len(r))
	for _, f := range r {
		m[f.Name] = f.Value
	}

	return m
}

// MarshalJSON encodes the record as a JSON object in field order, without HTML escaping.
func (r Record) MarshalJSON() ([]byte, error) {
	if r == nil {
		return []byte("null"), nil
	}

	var buf bytes.Buffer

	buf.WriteByte('{')

	for i, f := range r {
		if i > 0 {
			buf.WriteByte(',')
		}

		key, err := marshalValue(f.Name)
		if err != nil {
			return nil, err
		}

		value, err := marshalValue(f.Value)
		if err != nil {
			return nil, err
		}

		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

func marshalValue(v any) ([]byte, error) {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(v); err != nil {
		return nil, err
	}

	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Columns returns the union of field names across records in first-seen order
func Columns(records []Record) []string {
	seen := make(map[string]bool)

	var columns []string

	for _, r := range records {
		for _, f := range r {
			if !seen[f.Name] {
				seen[f.Name] = true
				columns = append(columns, f.Name)
			}
		}
	}

	return columns
}
