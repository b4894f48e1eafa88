package record

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"tenderkit/internal/document"
)

// ErrNotArray is returned when a records document is not an array of objects
var ErrNotArray = errors.New("records document must be an array of objects")

// Load reads an array of objects from a .json, .yaml or .yml file, keeping key order
func Load(path string) ([]Record, error) {
	format, err := document.FormatOf(path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open records file %s: %w", path, err)
	}
	defer file.Close()

	var records []Record

	switch format {
	case document.JSON:
		records, err = DecodeJSON(file)
	case document.YAML:
		records, err = DecodeYAML(file)
	default:
		return nil, fmt.Errorf("%w: records cannot be read from %s", document.ErrUnsupported, format)
	}

	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return records, nil
}

func malformed(err error) error {
	return fmt.Errorf("%w: %w", document.ErrMalformed, err)
}

// DecodeJSON reads a JSON array of objects. Empty input yields no records.
func DecodeJSON(r io.Reader) ([]Record, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	tok, err := dec.Token()
	if errors.Is(err, io.EOF) {
		return []Record{}, nil
	}

	if err != nil {
		return nil, malformed(err)
	}

	if d, ok := tok.(json.Delim); !ok || d != '[' {
		return nil, malformed(ErrNotArray)
	}

	records := []Record{}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, malformed(err)
		}

		if d, ok := tok.(json.Delim); !ok || d != '{' {
			return nil, malformed(ErrNotArray)
		}

		rec, err := decodeJSONObject(dec)
		if err != nil {
			return nil, malformed(err)
		}

		records = append(records, rec)
	}

	if _, err := dec.Token(); err != nil {
		return nil, malformed(err)
	}

	return records, nil
}

// decodeJSONObject reads the members of an object whose '{' was already consumed
func decodeJSONObject(dec *json.Decoder) (Record, error) {
	rec := Record{}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}

		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected object key %v", tok)
		}

		value, err := decodeJSONValue(dec)
		if err != nil {
			return nil, err
		}

		rec.Set(key, value)
	}

	// closing '}'
	_, err := dec.Token()

	return rec, err
}

func decodeJSONValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return decodeJSONObject(dec)
		case '[':
			items := []any{}

			for dec.More() {
				item, err := decodeJSONValue(dec)
				if err != nil {
					return nil, err
				}

				items = append(items, item)
			}

			_, err := dec.Token()

			return items, err
		default:
			return nil, fmt.Errorf("unexpected delimiter %v", t)
		}
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return n, nil
		}

		return t.Float64()
	default:
		return t, nil
	}
}

// DecodeYAML reads a YAML sequence of mappings. Empty input yields no records.
func DecodeYAML(r io.Reader) ([]Record, error) {
	var doc yaml.Node

	err := yaml.NewDecoder(r).Decode(&doc)
	if errors.Is(err, io.EOF) {
		return []Record{}, nil
	}

	if err != nil {
		return nil, malformed(err)
	}

	root := &doc
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return []Record{}, nil
		}

		root = root.Content[0]
	}

	if root.Kind != yaml.SequenceNode {
		return nil, malformed(ErrNotArray)
	}

	records := make([]Record, 0, len(root.Content))

	for _, item := range root.Content {
		if item.Kind == yaml.AliasNode {
			item = item.Alias
		}

		if item.Kind != yaml.MappingNode {
			return nil, malformed(ErrNotArray)
		}

		rec, err := yamlRecord(item)
		if err != nil {
			return nil, malformed(err)
		}

		records = append(records, rec)
	}

	return records, nil
}

func yamlRecord(n *yaml.Node) (Record, error) {
	rec := make(Record, 0, len(n.Content)/2)

	for i := 0; i+1 < len(n.Content); i += 2 {
		value, err := yamlValue(n.Content[i+1])
		if err != nil {
			return nil, err
		}

		rec.Set(n.Content[i].Value, value)
	}

	return rec, nil
}

func yamlValue(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.AliasNode:
		return yamlValue(n.Alias)
	case yaml.MappingNode:
		return yamlRecord(n)
	case yaml.SequenceNode:
		items := make([]any, 0, len(n.Content))

		for _, child := range n.Content {
			item, err := yamlValue(child)
			if err != nil {
				return nil, err
			}

			items = append(items, item)
		}

		return items, nil
	default:
		var v any
		err := n.Decode(&v)

		return v, err
	}
}
