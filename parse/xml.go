package parse

import (
	"bytes"
	"encoding/base64"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/signadot/xval/format"
	"github.com/signadot/xval/ir"
)

// XML documents use one element per node kind:
//
//	<map>
//	  <entry><key><string>port</string></key><value><uint>80</uint></value></entry>
//	</map>
//
// A <string> with encoding="base64" holds text that XML cannot carry.
type xmlParser struct {
	opts  *parseOpts
	lines *lineIndex
	dec   *xml.Decoder
}

func parseXML(d []byte, opts *parseOpts) ([]*ir.Node, error) {
	p := &xmlParser{
		opts:  opts,
		lines: newLineIndex(d),
		dec:   xml.NewDecoder(bytes.NewReader(d)),
	}
	var res []*ir.Node
	for {
		tok, loc, err := p.next()
		if errors.Is(err, io.EOF) {
			return res, nil
		}
		if err != nil {
			return nil, err
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			return nil, p.fail(loc, fmt.Errorf("unexpected %T at top level", tok))
		}
		y, err := p.element(start, loc)
		if err != nil {
			return nil, err
		}
		res = append(res, y)
	}
}

func (p *xmlParser) fail(loc ir.Location, err error) error {
	var pe *Error
	if errors.As(err, &pe) {
		return err
	}
	return &Error{Format: format.XMLFormat, Location: &loc, Err: err}
}

// next returns the next token that is not whitespace, a comment, a
// processing instruction or a directive.
func (p *xmlParser) next() (xml.Token, ir.Location, error) {
	for {
		loc := p.lines.location(int(p.dec.InputOffset()))
		tok, err := p.dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, loc, err
			}
			return nil, loc, p.fail(loc, err)
		}
		switch x := tok.(type) {
		case xml.Comment, xml.ProcInst, xml.Directive:
			continue
		case xml.CharData:
			if len(bytes.TrimSpace(x)) == 0 {
				continue
			}
		}
		return tok, loc, nil
	}
}

// text reads character data up to the end of the current element.
func (p *xmlParser) text(loc ir.Location) (string, error) {
	var buf strings.Builder
	for {
		tok, err := p.dec.Token()
		if err != nil {
			return "", p.fail(loc, noEOF(err))
		}
		switch x := tok.(type) {
		case xml.CharData:
			buf.Write(x)
		case xml.EndElement:
			return buf.String(), nil
		case xml.StartElement:
			return "", p.fail(loc, fmt.Errorf("unexpected element <%s> in scalar", x.Name.Local))
		}
	}
}

func noEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}

func (p *xmlParser) element(start xml.StartElement, loc ir.Location) (*ir.Node, error) {
	y, err := p.elementValue(start, loc)
	if err != nil {
		return nil, err
	}
	return p.opts.annotate(y, loc), nil
}

func (p *xmlParser) elementValue(start xml.StartElement, loc ir.Location) (*ir.Node, error) {
	name := start.Name.Local
	switch name {
	case "list":
		return p.list(loc)
	case "map":
		return p.mapping(loc)
	}
	s, err := p.text(loc)
	if err != nil {
		return nil, err
	}
	switch name {
	case "null":
		if strings.TrimSpace(s) != "" {
			return nil, p.fail(loc, errors.New("<null> with content"))
		}
		return ir.Null(), nil
	case "bool":
		b, err := strconv.ParseBool(strings.TrimSpace(s))
		if err != nil {
			return nil, p.fail(loc, err)
		}
		return ir.FromBool(b), nil
	case "int":
		i, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return nil, p.fail(loc, err)
		}
		return ir.FromInt(i), nil
	case "uint":
		u, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return nil, p.fail(loc, err)
		}
		return ir.FromUint(u), nil
	case "float":
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return nil, p.fail(loc, err)
		}
		return ir.FromFloat(f), nil
	case "string":
		if attr(start, "encoding") == "base64" {
			b, err := base64.StdEncoding.DecodeString(strings.TrimSpace(s))
			if err != nil {
				return nil, p.fail(loc, err)
			}
			return ir.FromString(string(b)), nil
		}
		return ir.FromString(s), nil
	case "bytes":
		b, err := base64.StdEncoding.DecodeString(strings.TrimSpace(s))
		if err != nil {
			return nil, p.fail(loc, err)
		}
		return ir.FromBytes(b), nil
	}
	return nil, p.fail(loc, fmt.Errorf("unknown element <%s>", name))
}

func attr(start xml.StartElement, name string) string {
	for _, a := range start.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

func (p *xmlParser) list(loc ir.Location) (*ir.Node, error) {
	res := ir.NewList()
	for {
		tok, iloc, err := p.next()
		if err != nil {
			return nil, p.fail(loc, noEOF(err))
		}
		switch x := tok.(type) {
		case xml.EndElement:
			return res, nil
		case xml.StartElement:
			y, err := p.element(x, iloc)
			if err != nil {
				return nil, err
			}
			res.Values = append(res.Values, y)
		default:
			return nil, p.fail(iloc, fmt.Errorf("unexpected %T in <list>", tok))
		}
	}
}

func (p *xmlParser) mapping(loc ir.Location) (*ir.Node, error) {
	res := ir.NewMap()
	for {
		tok, eloc, err := p.next()
		if err != nil {
			return nil, p.fail(loc, noEOF(err))
		}
		switch x := tok.(type) {
		case xml.EndElement:
			return res, nil
		case xml.StartElement:
			if x.Name.Local != "entry" {
				return nil, p.fail(eloc, fmt.Errorf("unexpected <%s> in <map>", x.Name.Local))
			}
			k, err := p.wrapped("key", eloc)
			if err != nil {
				return nil, err
			}
			v, err := p.wrapped("value", eloc)
			if err != nil {
				return nil, err
			}
			if err := p.end(eloc); err != nil {
				return nil, err
			}
			res.Set(k, v)
		default:
			return nil, p.fail(eloc, fmt.Errorf("unexpected %T in <map>", tok))
		}
	}
}

// wrapped reads <name>VALUE</name>.
func (p *xmlParser) wrapped(name string, loc ir.Location) (*ir.Node, error) {
	tok, wloc, err := p.next()
	if err != nil {
		return nil, p.fail(loc, noEOF(err))
	}
	if start, ok := tok.(xml.StartElement); !ok || start.Name.Local != name {
		return nil, p.fail(wloc, fmt.Errorf("expected <%s>", name))
	}
	tok, vloc, err := p.next()
	if err != nil {
		return nil, p.fail(wloc, noEOF(err))
	}
	start, ok := tok.(xml.StartElement)
	if !ok {
		return nil, p.fail(vloc, fmt.Errorf("expected a value in <%s>", name))
	}
	y, err := p.element(start, vloc)
	if err != nil {
		return nil, err
	}
	return y, p.end(vloc)
}

func (p *xmlParser) end(loc ir.Location) error {
	tok, eloc, err := p.next()
	if err != nil {
		return p.fail(loc, noEOF(err))
	}
	if _, ok := tok.(xml.EndElement); !ok {
		return p.fail(eloc, fmt.Errorf("unexpected %T, expected end of element", tok))
	}
	return nil
}
