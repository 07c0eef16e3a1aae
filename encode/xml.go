package encode

import (
	"encoding/base64"
	"encoding/xml"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/signadot/xval/ir"
)

func (s *Serializer) encodeXML(w io.Writer, y *ir.Node) error {
	enc := xml.NewEncoder(w)
	if s.Pretty {
		enc.Indent("", strings.Repeat(" ", s.indent()))
	}
	if err := xmlValue(enc, y); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func xmlElement(enc *xml.Encoder, name, text string, attrs ...xml.Attr) error {
	start := xml.StartElement{Name: xml.Name{Local: name}, Attr: attrs}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	if text != "" {
		if err := enc.EncodeToken(xml.CharData(text)); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}

func xmlValue(enc *xml.Encoder, y *ir.Node) error {
	switch y.Type {
	case ir.UndefinedType:
		return ErrUndefined
	case ir.NullType:
		return xmlElement(enc, "null", "")
	case ir.BoolType:
		return xmlElement(enc, "bool", strconv.FormatBool(y.Bool))
	case ir.IntType:
		return xmlElement(enc, "int", strconv.FormatInt(y.Int, 10))
	case ir.UintType:
		return xmlElement(enc, "uint", strconv.FormatUint(y.Uint, 10))
	case ir.FloatType:
		lit := strconv.FormatFloat(y.Float, 'g', -1, 64)
		if y.Float == 0 && math.Signbit(y.Float) {
			lit = "-0"
		}
		return xmlElement(enc, "float", lit)
	case ir.StringType:
		if !xmlText(y.String) {
			return xmlElement(enc, "string", base64.StdEncoding.EncodeToString([]byte(y.String)),
				xml.Attr{Name: xml.Name{Local: "encoding"}, Value: "base64"})
		}
		return xmlElement(enc, "string", y.String)
	case ir.BytesType:
		return xmlElement(enc, "bytes", base64.StdEncoding.EncodeToString(y.Bytes))
	case ir.ListType:
		start := xml.StartElement{Name: xml.Name{Local: "list"}}
		if err := enc.EncodeToken(start); err != nil {
			return err
		}
		for _, v := range y.Values {
			if err := xmlValue(enc, v); err != nil {
				return err
			}
		}
		return enc.EncodeToken(start.End())
	case ir.MapType:
		start := xml.StartElement{Name: xml.Name{Local: "map"}}
		if err := enc.EncodeToken(start); err != nil {
			return err
		}
		for i, f := range y.Fields {
			if err := xmlEntry(enc, f, y.Values[i]); err != nil {
				return err
			}
		}
		return enc.EncodeToken(start.End())
	}
	return ErrUndefined
}

func xmlEntry(enc *xml.Encoder, k, v *ir.Node) error {
	entry := xml.StartElement{Name: xml.Name{Local: "entry"}}
	if err := enc.EncodeToken(entry); err != nil {
		return err
	}
	for _, part := range []struct {
		name string
		y    *ir.Node
	}{{"key", k}, {"value", v}} {
		start := xml.StartElement{Name: xml.Name{Local: part.name}}
		if err := enc.EncodeToken(start); err != nil {
			return err
		}
		if err := xmlValue(enc, part.y); err != nil {
			return err
		}
		if err := enc.EncodeToken(start.End()); err != nil {
			return err
		}
	}
	return enc.EncodeToken(entry.End())
}

// xmlText reports whether s consists only of characters XML 1.0 allows.
func xmlText(s string) bool {
	if !utf8.ValidString(s) {
		return false
	}
	for _, r := range s {
		switch {
		case r == '\t', r == '\n', r == '\r':
		case r >= 0x20 && r <= 0xd7ff:
		case r >= 0xe000 && r <= 0xfffd:
		case r >= 0x10000 && r <= 0x10ffff:
		default:
			return false
		}
	}
	return true
}
