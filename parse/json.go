package parse

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/signadot/xval/format"
	"github.com/signadot/xval/ir"
)

type jsonParser struct {
	opts  *parseOpts
	data  []byte
	lines *lineIndex
	dec   *json.Decoder
	hints bool
	// end is the input offset after the last token read.
	end int
}

func parseJSON(d []byte, opts *parseOpts, hints bool) ([]*ir.Node, error) {
	dec := json.NewDecoder(bytes.NewReader(d))
	dec.UseNumber()
	p := &jsonParser{
		opts:  opts,
		data:  d,
		lines: newLineIndex(d),
		dec:   dec,
		hints: hints,
	}
	var res []*ir.Node
	for {
		if skipSpace(d, p.end, "") == len(d) {
			return res, nil
		}
		y, err := p.next()
		if err != nil {
			return nil, err
		}
		res = append(res, y)
	}
}

func (p *jsonParser) format() format.Format {
	if p.hints {
		return format.XJSONFormat
	}
	return format.JSONFormat
}

// token reads the next token and the location where it starts.
func (p *jsonParser) token() (json.Token, ir.Location, error) {
	start := skipSpace(p.data, p.end, ":,")
	loc := p.lines.location(start)
	tok, err := p.dec.Token()
	p.end = int(p.dec.InputOffset())
	if err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, loc, &Error{Format: p.format(), Location: &loc, Err: err}
	}
	return tok, loc, nil
}

func (p *jsonParser) next() (*ir.Node, error) {
	tok, loc, err := p.token()
	if err != nil {
		return nil, err
	}
	return p.value(tok, loc)
}

func (p *jsonParser) value(tok json.Token, loc ir.Location) (*ir.Node, error) {
	var res *ir.Node
	switch x := tok.(type) {
	case nil:
		res = ir.Null()
	case bool:
		res = ir.FromBool(x)
	case string:
		res = ir.FromString(x)
	case json.Number:
		y, err := jsonNumber(x)
		if err != nil {
			return nil, &Error{Format: p.format(), Location: &loc, Err: err}
		}
		res = y
	case json.Delim:
		switch x {
		case '[':
			l, err := p.list()
			if err != nil {
				return nil, err
			}
			res = l
		case '{':
			m, err := p.object(loc)
			if err != nil {
				return nil, err
			}
			res = m
		default:
			return nil, &Error{Format: p.format(), Location: &loc, Err: fmt.Errorf("unexpected %q", x)}
		}
	}
	return p.opts.annotate(res, loc), nil
}

func (p *jsonParser) list() (*ir.Node, error) {
	res := ir.NewList()
	for {
		tok, loc, err := p.token()
		if err != nil {
			return nil, err
		}
		if tok == json.Delim(']') {
			return res, nil
		}
		y, err := p.value(tok, loc)
		if err != nil {
			return nil, err
		}
		res.Values = append(res.Values, y)
	}
}

func (p *jsonParser) object(loc ir.Location) (*ir.Node, error) {
	res := ir.NewMap()
	for {
		tok, kloc, err := p.token()
		if err != nil {
			return nil, err
		}
		if tok == json.Delim('}') {
			break
		}
		key, ok := tok.(string)
		if !ok {
			return nil, &Error{Format: p.format(), Location: &kloc, Err: fmt.Errorf("object key is %T", tok)}
		}
		yv, err := p.next()
		if err != nil {
			return nil, err
		}
		res.Set(p.opts.annotate(ir.FromString(key), kloc), yv)
	}
	if !p.hints {
		return res, nil
	}
	y, err := decodeHints(res)
	if err != nil {
		return nil, &Error{Format: p.format(), Location: &loc, Err: err}
	}
	return y, nil
}

// jsonNumber keeps integer literals as integers: IntType when they fit in
// int64, UintType when they fit in uint64, FloatType otherwise.
func jsonNumber(n json.Number) (*ir.Node, error) {
	s := string(n)
	if !strings.ContainsAny(s, ".eE") {
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return ir.FromInt(i), nil
		}
		if u, err := strconv.ParseUint(s, 10, 64); err == nil {
			return ir.FromUint(u), nil
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("number %s: %w", s, err)
	}
	return ir.FromFloat(f), nil
}
