package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ContentReader reads a named file, typically from an embed.FS.
type ContentReader interface {
	ReadFile(name string) ([]byte, error)
}

// Format is the encoding of a catalog file.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

// FormatFor picks a format from the file extension. Anything that is not
// .yaml or .yml is read as JSON.
func FormatFor(name string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// Parse decodes a list of bosses and validates it.
func Parse(data []byte, format Format) (*Catalog, error) {
	var bosses []Boss
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &bosses); err != nil {
			return nil, fmt.Errorf("catalog: unmarshal yaml: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &bosses); err != nil {
			return nil, fmt.Errorf("catalog: unmarshal json: %w", err)
		}
	}
	return New(bosses)
}

// Load reads a catalog file from disk.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: load %s: %w", path, err)
	}
	return Parse(data, FormatFor(path))
}

// LoadFrom reads a catalog through r, for embedded defaults.
func LoadFrom(r ContentReader, name string) (*Catalog, error) {
	data, err := r.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("catalog: load %s: %w", name, err)
	}
	return Parse(data, FormatFor(name))
}
