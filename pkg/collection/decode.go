package collection

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"

	"github.com/agentstation/hangar/pkg/errors"
)

// Format is the on-disk format of a collection record.
type Format string

// Formats.
const (
	FormatAuto Format = ""     // detect from content
	FormatYAML Format = "yaml" // native record as YAML
	FormatJSON Format = "json" // native or YASB record as JSON
	FormatYASB Format = "yasb" // YASB collection export
	FormatTOML Format = "toml" // native record as TOML
)

// ParseFormat parses a format name; "" and "auto" mean FormatAuto.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatAuto, "auto":
		return FormatAuto, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	case FormatJSON, FormatYASB, FormatTOML:
		return f, nil
	default:
		return "", &errors.ValidationError{Field: "format", Value: s, Message: "want yaml, json, toml or yasb"}
	}
}

// FormatFromPath guesses the format from a file extension.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".json":
		return FormatJSON
	case ".toml":
		return FormatTOML
	default:
		return FormatAuto
	}
}

// native is the collection record format owned by this project.
type native struct {
	Bundles map[string]any            `json:"bundles,omitempty" yaml:"bundles,omitempty" toml:"bundles,omitempty"`
	Loose   map[string]map[string]any `json:"loose,omitempty" yaml:"loose,omitempty" toml:"loose,omitempty"`
}

// Decode reads a collection record and parses it. As with Parse, a
// non-nil Input is returned alongside an InvalidEntries error.
func Decode(r io.Reader, format Format) (*Input, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.WrapIO("read", "collection", err)
	}
	raw, err := DecodeRaw(data, format)
	if err != nil {
		return nil, err
	}
	return Parse(raw)
}

// DecodeRaw decodes a collection record without validating counts.
func DecodeRaw(data []byte, format Format) (Raw, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Raw{}, &errors.ParseError{Format: formatName(format), Message: "empty collection record"}
	}

	if format == FormatAuto {
		format = FormatYAML
		if trimmed := bytes.TrimSpace(data); trimmed[0] == '{' {
			format = FormatJSON
		}
	}

	switch format {
	case FormatYASB:
		return decodeYASB(data)
	case FormatJSON:
		var probe map[string]json.RawMessage
		if err := json.Unmarshal(data, &probe); err != nil {
			return Raw{}, errors.WrapParse("json", "", err)
		}
		if _, ok := probe[yasbRootKey]; ok {
			return decodeYASB(data)
		}
		var doc native
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return Raw{}, errors.WrapParse("json", "", err)
		}
		return doc.raw(), nil
	case FormatYAML:
		var doc native
		if err := yaml.UnmarshalWithOptions(data, &doc, yaml.Strict()); err != nil {
			return Raw{}, errors.WrapParse("yaml", "", err)
		}
		return doc.raw(), nil
	case FormatTOML:
		var doc native
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return Raw{}, errors.WrapParse("toml", "", err)
		}
		return doc.raw(), nil
	default:
		return Raw{}, &errors.ValidationError{Field: "format", Value: format, Message: "unsupported collection format"}
	}
}

// Load reads and parses the collection record at path, choosing the
// format from the file extension.
func Load(path string) (*Input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	raw, err := DecodeRaw(data, FormatFromPath(path))
	if err != nil {
		var pe *errors.ParseError
		if errors.As(err, &pe) {
			pe.File = path
		}
		return nil, err
	}
	return Parse(raw)
}

func (n native) raw() Raw {
	raw := Raw{Bundles: stringCounts(n.Bundles)}
	if len(n.Loose) > 0 {
		raw.Loose = make(map[string]map[string]string, len(n.Loose))
		for kind, names := range n.Loose {
			raw.Loose[kind] = stringCounts(names)
		}
	}
	return raw
}

// stringCounts renders decoded count values as written.
func stringCounts(in map[string]any) map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]string, len(in))
	for name, v := range in {
		switch c := v.(type) {
		case nil:
			out[name] = ""
		case string:
			out[name] = c
		default:
			out[name] = fmt.Sprint(c)
		}
	}
	return out
}

func formatName(f Format) string {
	if f == FormatAuto {
		return "collection"
	}
	return string(f)
}
