package payload

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is the encoding of a payload file
type Format int

const (
	// FormatJSON is a JSON object
	FormatJSON Format = iota
	// FormatYAML is a YAML mapping
	FormatYAML
	// FormatMarkdown is a bare markdown file, wrapped under the markdown key
	FormatMarkdown
)

// FormatFromPath picks a format from the file extension, defaulting to JSON
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".md", ".markdown":
		return FormatMarkdown
	default:
		return FormatJSON
	}
}

// ReadFile reads and decodes a payload file. key names the field a bare
// markdown file is stored under.
func ReadFile(path, key string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read payload: %w", err)
	}

	m, err := Decode(data, FormatFromPath(path), key)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", filepath.Base(path), err)
	}
	return m, nil
}

// Decode turns raw bytes into a payload mapping
func Decode(data []byte, format Format, key string) (map[string]any, error) {
	switch format {
	case FormatJSON:
		return decodeJSON(data)
	case FormatYAML:
		return decodeYAML(data)
	case FormatMarkdown:
		return map[string]any{key: string(data)}, nil
	default:
		return nil, fmt.Errorf("unsupported payload format: %d", format)
	}
}

func decodeJSON(data []byte) (map[string]any, error) {
	m := map[string]any{}
	if len(bytes.TrimSpace(data)) == 0 {
		return m, nil
	}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("invalid JSON payload: %w", err)
	}
	return m, nil
}

func decodeYAML(data []byte) (map[string]any, error) {
	m := map[string]any{}
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("invalid YAML payload: %w", err)
	}
	return m, nil
}
