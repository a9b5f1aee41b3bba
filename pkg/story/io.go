package story

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/repostory/pkg/errors"
)

// Format names accepted by [Encode] and [Decode].
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// FormatFromPath guesses the serialization format from a file extension.
// Anything that is not .yaml or .yml is treated as JSON.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (string, error) {
	switch strings.ToLower(s) {
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be json or yaml)", s)
}

// Marshal returns the compact JSON encoding used inside the standalone document.
func Marshal(b Bundle) ([]byte, error) {
	b.normalize()
	data, err := json.Marshal(b)
	if err != nil {
		return nil, fmt.Errorf("encode bundle: %w", err)
	}
	return data, nil
}

// Encode writes b to w in the given format. JSON output is indented.
func Encode(w io.Writer, b Bundle, format string) error {
	b.normalize()
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(b); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(b); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	}
	return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q", format)
}

// Decode reads a bundle in the given format from r and validates it.
func Decode(r io.Reader, format string) (Bundle, error) {
	var b Bundle
	switch format {
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&b); err != nil {
			return Bundle{}, errors.Wrap(errors.ErrCodeInvalidBundle, err, "decode yaml")
		}
	case FormatJSON, "":
		if err := json.NewDecoder(r).Decode(&b); err != nil {
			return Bundle{}, errors.Wrap(errors.ErrCodeInvalidBundle, err, "decode json")
		}
	default:
		return Bundle{}, errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q", format)
	}
	if err := b.Validate(); err != nil {
		return Bundle{}, err
	}
	b.normalize()
	return b, nil
}

// Read decodes a JSON bundle from r.
func Read(r io.Reader) (Bundle, error) {
	return Decode(r, FormatJSON)
}

// Unmarshal decodes a JSON bundle from data.
func Unmarshal(data []byte) (Bundle, error) {
	return Decode(bytes.NewReader(data), FormatJSON)
}

// ReadFile loads a bundle from path, picking the format from its extension.
func ReadFile(path string) (Bundle, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Bundle{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return Bundle{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Decode(f, FormatFromPath(path))
}

// WriteFile writes b to path, picking the format from its extension.
func WriteFile(path string, b Bundle) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Encode(f, b, FormatFromPath(path)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
