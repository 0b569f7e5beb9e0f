package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned by FromFile for unknown file extensions.
var ErrUnsupportedFormat = errors.New("unsupported config format")

// FromFile loads a document from path, choosing the decoder by extension.
// Supported extensions: .yaml, .yml, .json (case-insensitive).
func FromFile(path string) (Config, error) {
	ext := strings.ToLower(filepath.Ext(path))
	var decode func([]byte) (Config, error)
	switch ext {
	case ".yaml", ".yml":
		decode = FromYAML
	case ".json":
		decode = FromJSON
	default:
		return Config{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}
	cfg, err := decode(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// FromYAML parses YAML data into a Config. An empty document yields an
// empty Config.
func FromYAML(data []byte) (Config, error) {
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Config{}, fmt.Errorf("parse yaml: %w", err)
	}
	return New(m), nil
}

// FromJSON parses JSON data into a Config.
func FromJSON(data []byte) (Config, error) {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return Config{}, fmt.Errorf("parse json: %w", err)
	}
	return New(m), nil
}
