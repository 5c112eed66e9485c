package prefsfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	headtable "github.com/domonda/go-headtable"
)

// ErrUnknownFormat is returned for file formats other than JSON, YAML and TOML.
var ErrUnknownFormat = errors.New("unknown preferences file format")

// Format of a preferences file.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
	TOML Format = "toml"
)

// FormatOfExt returns the Format for a file extension
// with or without leading dot.
func FormatOfExt(ext string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	case "toml":
		return TOML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
}

// Ext returns the file extension of the format including the dot.
func (f Format) Ext() string {
	return "." + string(f)
}

func (f Format) Valid() bool {
	switch f {
	case JSON, YAML, TOML:
		return true
	}
	return false
}

// Marshal encodes doc in the format.
func (f Format) Marshal(doc *headtable.PreferencesDocument) ([]byte, error) {
	switch f {
	case JSON:
		return json.MarshalIndent(doc, "", "  ")
	case YAML:
		return yaml.Marshal(doc)
	case TOML:
		return toml.Marshal(doc)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
}

// Unmarshal decodes a document encoded in the format.
func (f Format) Unmarshal(data []byte) (*headtable.PreferencesDocument, error) {
	doc := new(headtable.PreferencesDocument)
	var err error
	switch f {
	case JSON:
		err = json.Unmarshal(data, doc)
	case YAML:
		err = yaml.Unmarshal(data, doc)
	case TOML:
		err = toml.Unmarshal(data, doc)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s preferences: %w", f, err)
	}
	if doc.Plugins == nil {
		doc.Plugins = make(map[string]*headtable.PluginPreferences)
	}
	return doc, nil
}
