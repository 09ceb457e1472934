package catalogs

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/mitchellh/go-homedir"

	"github.com/agentstation/atlas/pkg/errors"
)

// Format is a catalog document encoding.
type Format string

// Supported formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath infers the format from a file extension, defaulting to JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Load reads and parses a catalog file. path may start with "~".
func Load(path string) (*Catalog, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, errors.NewConfigError("catalog", "cannot expand path", err)
	}
	data, err := os.ReadFile(expanded)
	if err != nil {
		return nil, errors.WrapIO("read", expanded, err)
	}
	cat, err := Parse(data, FormatFromPath(expanded))
	if err != nil {
		var pe *errors.ParseError
		if errors.As(err, &pe) && pe.File == "" {
			pe.File = expanded
		}
		return nil, err
	}
	cat.source = expanded
	return cat, nil
}

// Parse parses a catalog document. YAML is converted to JSON and then
// normalized the same way.
func Parse(data []byte, format Format) (*Catalog, error) {
	if format == FormatYAML {
		converted, err := yaml.YAMLToJSON(data)
		if err != nil {
			return nil, errors.WrapParse("yaml", "", err)
		}
		data = converted
	}
	records, err := Normalize(data)
	if err != nil {
		return nil, err
	}
	return New(records)
}

// MustParse is like Parse but panics on error. Intended for fixtures.
func MustParse(data []byte, format Format) *Catalog {
	cat, err := Parse(data, format)
	if err != nil {
		panic(err)
	}
	return cat
}
