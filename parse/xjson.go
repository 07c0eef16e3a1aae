package parse

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"github.com/signadot/xval/debug"
	"github.com/signadot/xval/hint"
	"github.com/signadot/xval/ir"
)

// decodeHints unescapes hint-like keys of m and, when m has exactly one
// entry keyed by a hint, replaces m by the value the hint describes.
func decodeHints(m *ir.Node) (*ir.Node, error) {
	if len(m.Fields) == 1 && m.Fields[0].Type == ir.StringType {
		if h, n := hint.Name(m.Fields[0].String); n == 1 {
			y, err := applyHint(h, m.Values[0])
			if err != nil {
				return nil, err
			}
			if debug.Hints() {
				debug.Logf("decoded %s hint to %s\n", h, y.Type)
			}
			y.Annotation = m.Annotation
			return y, nil
		}
	}
	for _, f := range m.Fields {
		if f.Type != ir.StringType {
			continue
		}
		if _, n := hint.Name(f.String); n > 1 {
			lit, _ := hint.Unescape(f.String)
			// only an unescaped one-dollar key can collide
			if n == 2 && m.GetString(lit) != nil {
				return nil, fmt.Errorf("%w: both %q and %q present", ErrHint, f.String, lit)
			}
			f.String = lit
		}
	}
	return m, nil
}

func applyHint(h string, payload *ir.Node) (*ir.Node, error) {
	if h == hint.Map {
		return hintMap(payload)
	}
	if payload.Type != ir.StringType {
		return nil, fmt.Errorf("%w: %s payload is %s, not a string", ErrHint, h, payload.Type)
	}
	s := payload.String
	switch h {
	case hint.Int:
		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrHint, h, err)
		}
		return ir.FromInt(i), nil
	case hint.Uint:
		u, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrHint, h, err)
		}
		return ir.FromUint(u), nil
	case hint.Bytes:
		b, err := base64.StdEncoding.DecodeString(strings.TrimSpace(s))
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrHint, h, err)
		}
		return ir.FromBytes(b), nil
	case hint.Float:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrHint, h, err)
		}
		return ir.FromFloat(f), nil
	}
	return nil, fmt.Errorf("%w: unknown hint %s", ErrHint, h)
}

func hintMap(payload *ir.Node) (*ir.Node, error) {
	if payload.Type != ir.ListType {
		return nil, fmt.Errorf("%w: %s payload is %s, not a list", ErrHint, hint.Map, payload.Type)
	}
	res := ir.NewMap()
	for i, e := range payload.Values {
		if e.Type != ir.ListType || len(e.Values) != 2 {
			return nil, fmt.Errorf("%w: %s entry %d is not a [key, value] pair", ErrHint, hint.Map, i)
		}
		res.Set(e.Values[0], e.Values[1])
	}
	return res, nil
}
