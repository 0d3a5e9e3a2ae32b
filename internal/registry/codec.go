package registry

import (
	"encoding/json"
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format is an interchange format for registry documents.
type Format string

const (
	// FormatTOML is the registry's native format.
	FormatTOML Format = "toml"
	// FormatYAML is the YAML interchange format.
	FormatYAML Format = "yaml"
	// FormatJSON is the JSON interchange format.
	FormatJSON Format = "json"
)

// ParseFormat resolves a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatTOML, FormatYAML, FormatJSON:
		return Format(s), nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported format %q (want toml, yaml or json)", s)
	}
}

// Export serializes the full document in the given format.
func (d *Document) Export(f Format) ([]byte, error) {
	switch f {
	case FormatTOML:
		return toml.Marshal(d)
	case FormatYAML:
		return yaml.Marshal(d)
	case FormatJSON:
		return json.MarshalIndent(d, "", "  ")
	default:
		return nil, fmt.Errorf("unsupported format %q", f)
	}
}

// Decode parses an exported document. Records missing optional SSH metadata
// (documents written by older versions) get the creation-time defaults.
func Decode(data []byte, f Format) (*Document, error) {
	doc := NewDocument()
	var err error
	switch f {
	case FormatTOML:
		err = toml.Unmarshal(data, doc)
	case FormatYAML:
		err = yaml.Unmarshal(data, doc)
	case FormatJSON:
		err = json.Unmarshal(data, doc)
	default:
		return nil, fmt.Errorf("unsupported format %q", f)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s document: %w", f, err)
	}

	doc.normalize()
	return doc, nil
}

// Merge copies every profile from in into d. With overwrite false a name
// collision keeps the existing record; with overwrite true the imported
// record fully replaces it. Returns the names actually imported.
func (d *Document) Merge(in *Document, overwrite bool) []string {
	if d.Profiles == nil {
		d.Profiles = make(map[string]Profile)
	}

	var imported []string
	for name, p := range in.Profiles {
		if _, exists := d.Profiles[name]; exists && !overwrite {
			continue
		}
		d.Profiles[name] = p
		imported = append(imported, name)
	}
	return imported
}
