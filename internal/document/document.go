// Package document decodes TOML, YAML and JSON documents chosen by file extension.
package document

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

var (
	// ErrMalformed wraps every parse failure so callers can tell bad content from I/O errors
	ErrMalformed = errors.New("malformed document")
	// ErrUnsupported is returned for file extensions with no known decoder
	ErrUnsupported = errors.New("unsupported document format")
)

// Format names a document syntax
type Format string

const (
	TOML Format = "toml"
	YAML Format = "yaml"
	JSON Format = "json"
)

// FormatOf picks the format from the file extension
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return TOML, nil
	case ".yaml", ".yml":
		return YAML, nil
	case ".json":
		return JSON, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupported, path)
	}
}

// Decode unmarshals data in the given format into v
func Decode(format Format, data []byte, v any) error {
	var err error

	switch format {
	case TOML:
		err = toml.Unmarshal(data, v)
	case YAML:
		err = yaml.Unmarshal(data, v)
	case JSON:
		err = json.Unmarshal(data, v)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupported, format)
	}

	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrMalformed, format, err)
	}

	return nil
}

// DecodeFile reads path and unmarshals it according to its extension
func DecodeFile(path string, v any) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := Decode(format, data, v); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	return nil
}
