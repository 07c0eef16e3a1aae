package parse

import (
	"bytes"
	"fmt"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/vmihailenco/msgpack/v5/msgpcode"

	"github.com/signadot/xval/format"
	"github.com/signadot/xval/ir"
)

type msgpackParser struct {
	opts *parseOpts
	r    *bytes.Reader
	dec  *msgpack.Decoder
	size int
}

func parseMessagePack(d []byte, opts *parseOpts) ([]*ir.Node, error) {
	r := bytes.NewReader(d)
	p := &msgpackParser{opts: opts, r: r, dec: msgpack.NewDecoder(r), size: len(d)}
	var res []*ir.Node
	for r.Len() > 0 {
		y, err := p.value()
		if err != nil {
			return nil, err
		}
		res = append(res, y)
	}
	return res, nil
}

// offset is exact because bytes.Reader is an io.ByteScanner, which the
// decoder reads from without buffering.
func (p *msgpackParser) offset() int {
	return p.size - p.r.Len()
}

func (p *msgpackParser) fail(off int, err error) error {
	loc := ir.NewLocation(int64(off), 0, 0)
	return &Error{Format: format.MessagePackFormat, Location: &loc, Err: err}
}

func (p *msgpackParser) value() (*ir.Node, error) {
	off := p.offset()
	y, err := p.decode(off)
	if err != nil {
		return nil, err
	}
	return p.opts.annotate(y, ir.NewLocation(int64(off), 0, 0)), nil
}

func (p *msgpackParser) decode(off int) (*ir.Node, error) {
	c, err := p.dec.PeekCode()
	if err != nil {
		return nil, p.fail(off, err)
	}
	switch {
	case msgpcode.IsFixedMap(c), c == msgpcode.Map16, c == msgpcode.Map32:
		return p.mapping(off)
	case msgpcode.IsFixedArray(c), c == msgpcode.Array16, c == msgpcode.Array32:
		return p.list(off)
	case msgpcode.IsFixedNum(c),
		c == msgpcode.Int8, c == msgpcode.Int16, c == msgpcode.Int32, c == msgpcode.Int64:
		i, err := p.dec.DecodeInt64()
		if err != nil {
			return nil, p.fail(off, err)
		}
		return ir.FromInt(i), nil
	case c == msgpcode.Uint8, c == msgpcode.Uint16, c == msgpcode.Uint32, c == msgpcode.Uint64:
		u, err := p.dec.DecodeUint64()
		if err != nil {
			return nil, p.fail(off, err)
		}
		return ir.FromUint(u), nil
	case c == msgpcode.Float, c == msgpcode.Double:
		f, err := p.dec.DecodeFloat64()
		if err != nil {
			return nil, p.fail(off, err)
		}
		return ir.FromFloat(f), nil
	case c == msgpcode.Nil:
		if err := p.dec.DecodeNil(); err != nil {
			return nil, p.fail(off, err)
		}
		return ir.Null(), nil
	case c == msgpcode.True, c == msgpcode.False:
		b, err := p.dec.DecodeBool()
		if err != nil {
			return nil, p.fail(off, err)
		}
		return ir.FromBool(b), nil
	case msgpcode.IsString(c):
		s, err := p.dec.DecodeString()
		if err != nil {
			return nil, p.fail(off, err)
		}
		return ir.FromString(s), nil
	case msgpcode.IsBin(c):
		b, err := p.dec.DecodeBytes()
		if err != nil {
			return nil, p.fail(off, err)
		}
		if b == nil {
			b = []byte{}
		}
		return ir.FromBytes(b), nil
	case msgpcode.IsExt(c):
		v, err := p.dec.DecodeInterface()
		if err != nil {
			return nil, p.fail(off, err)
		}
		if t, ok := v.(time.Time); ok {
			return ir.FromString(t.UTC().Format(time.RFC3339Nano)), nil
		}
		return nil, p.fail(off, fmt.Errorf("unsupported extension value %T", v))
	}
	return nil, p.fail(off, fmt.Errorf("unsupported code 0x%02x", c))
}

func (p *msgpackParser) list(off int) (*ir.Node, error) {
	n, err := p.dec.DecodeArrayLen()
	if err != nil {
		return nil, p.fail(off, err)
	}
	res := ir.NewList()
	for i := 0; i < n; i++ {
		y, err := p.value()
		if err != nil {
			return nil, err
		}
		res.Values = append(res.Values, y)
	}
	return res, nil
}

func (p *msgpackParser) mapping(off int) (*ir.Node, error) {
	n, err := p.dec.DecodeMapLen()
	if err != nil {
		return nil, p.fail(off, err)
	}
	res := ir.NewMap()
	for i := 0; i < n; i++ {
		k, err := p.value()
		if err != nil {
			return nil, err
		}
		v, err := p.value()
		if err != nil {
			return nil, err
		}
		if res.Set(k, v) {
			return nil, p.fail(off, fmt.Errorf("duplicate map key %s", k.MapStringKey()))
		}
	}
	return res, nil
}
