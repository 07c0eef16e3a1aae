package format

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

type Format int

const (
	YAMLFormat Format = iota
	JSONFormat
	XJSONFormat
	XMLFormat
	CBORFormat
	MessagePackFormat
)

var (
	ErrBadFormat   = errors.New("bad format")
	ErrUnsupported = errors.New("unsupported format")
)

var names = map[string]Format{
	"yaml":        YAMLFormat,
	"yml":         YAMLFormat,
	"json":        JSONFormat,
	"xjson":       XJSONFormat,
	"xml":         XMLFormat,
	"cbor":        CBORFormat,
	"messagepack": MessagePackFormat,
	"msgpack":     MessagePackFormat,
}

// ParseFormat parses a format name. Names are case-insensitive.
func ParseFormat(v string) (Format, error) {
	f, ok := names[strings.ToLower(strings.TrimSpace(v))]
	if ok {
		return f, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrBadFormat, v)
}

func (f Format) String() string {
	d, err := f.MarshalText()
	if err != nil {
		return err.Error()
	}
	return string(d)
}

func (f Format) MarshalText() ([]byte, error) {
	switch f {
	case YAMLFormat:
		return []byte("yaml"), nil
	case JSONFormat:
		return []byte("json"), nil
	case XJSONFormat:
		return []byte("xjson"), nil
	case XMLFormat:
		return []byte("xml"), nil
	case CBORFormat:
		return []byte("cbor"), nil
	case MessagePackFormat:
		return []byte("messagepack"), nil
	default:
		return nil, fmt.Errorf("<err: %d is not a format>", f)
	}
}

func (f *Format) UnmarshalText(d []byte) error {
	pf, err := ParseFormat(string(d))
	if err != nil {
		return err
	}
	*f = pf
	return nil
}

func (f Format) IsYAML() bool  { return f == YAMLFormat }
func (f Format) IsXML() bool   { return f == XMLFormat }
func (f Format) IsXJSON() bool { return f == XJSONFormat }

// IsJSON reports whether f uses JSON wire syntax, which includes XJSON.
func (f Format) IsJSON() bool { return f == JSONFormat || f == XJSONFormat }

// IsBinary reports whether f is a binary format. Binary output is not
// text-safe unless wrapped in Base64.
func (f Format) IsBinary() bool {
	return f == CBORFormat || f == MessagePackFormat
}

// Suffix returns the file extension for this format (including the dot).
func (f Format) Suffix() string {
	switch f {
	case YAMLFormat:
		return ".yaml"
	case JSONFormat:
		return ".json"
	case XJSONFormat:
		return ".xjson"
	case XMLFormat:
		return ".xml"
	case CBORFormat:
		return ".cbor"
	case MessagePackFormat:
		return ".msgpack"
	default:
		return ""
	}
}

// FromPath guesses the format of a file or URL path from its extension.
func FromPath(p string) (Format, bool) {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(p)), ".")
	if ext == "" {
		return 0, false
	}
	f, ok := names[ext]
	return f, ok
}

// AllFormats returns all supported formats.
func AllFormats() []Format {
	return []Format{YAMLFormat, JSONFormat, XJSONFormat, XMLFormat, CBORFormat, MessagePackFormat}
}
