package parse

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/fxamacker/cbor/v2"

	"github.com/signadot/xval/format"
	"github.com/signadot/xval/ir"
)

// CBOR major types.
const (
	cborUint   = 0
	cborNegInt = 1
	cborBytes  = 2
	cborText   = 3
	cborArray  = 4
	cborMap    = 5
	cborTag    = 6
	cborSimple = 7

	cborIndefinite = 31
	cborBreak      = 0xff
)

var errCBORBreak = errors.New("unexpected break")

// cborParser walks array and map headers itself so that entry order and
// composite keys survive; scalars are decoded by the cbor library.
type cborParser struct {
	opts *parseOpts
	data []byte
	off  int
}

func parseCBOR(d []byte, opts *parseOpts) ([]*ir.Node, error) {
	p := &cborParser{opts: opts, data: d}
	var res []*ir.Node
	for p.off < len(d) {
		y, err := p.item()
		if err != nil {
			return nil, err
		}
		res = append(res, y)
	}
	return res, nil
}

func (p *cborParser) fail(off int, err error) error {
	loc := ir.NewLocation(int64(off), 0, 0)
	return &Error{Format: format.CBORFormat, Location: &loc, Err: err}
}

// header reads an initial byte and its argument.
func (p *cborParser) header() (major byte, info byte, arg uint64, err error) {
	if p.off >= len(p.data) {
		return 0, 0, 0, p.fail(p.off, errUnexpectedEnd)
	}
	b := p.data[p.off]
	major, info = b>>5, b&0x1f
	p.off++
	var n int
	switch {
	case info < 24:
		return major, info, uint64(info), nil
	case info == 24:
		n = 1
	case info == 25:
		n = 2
	case info == 26:
		n = 4
	case info == 27:
		n = 8
	case info == cborIndefinite:
		return major, info, 0, nil
	default:
		return 0, 0, 0, p.fail(p.off-1, fmt.Errorf("reserved additional info %d", info))
	}
	if p.off+n > len(p.data) {
		return 0, 0, 0, p.fail(p.off, errUnexpectedEnd)
	}
	buf := p.data[p.off : p.off+n]
	p.off += n
	switch n {
	case 1:
		arg = uint64(buf[0])
	case 2:
		arg = uint64(binary.BigEndian.Uint16(buf))
	case 4:
		arg = uint64(binary.BigEndian.Uint32(buf))
	default:
		arg = binary.BigEndian.Uint64(buf)
	}
	return major, info, arg, nil
}

var errUnexpectedEnd = errors.New("unexpected end of input")

func (p *cborParser) item() (*ir.Node, error) {
	start := p.off
	y, err := p.itemValue()
	if err != nil {
		return nil, err
	}
	if y.Annotation == nil {
		p.opts.annotate(y, ir.NewLocation(int64(start), 0, 0))
	}
	return y, nil
}

func (p *cborParser) itemValue() (*ir.Node, error) {
	start := p.off
	if start < len(p.data) && p.data[start] == cborBreak {
		return nil, p.fail(start, errCBORBreak)
	}
	major, info, arg, err := p.header()
	if err != nil {
		return nil, err
	}
	switch major {
	case cborUint:
		if arg <= math.MaxInt64 {
			return ir.FromInt(int64(arg)), nil
		}
		return ir.FromUint(arg), nil
	case cborNegInt:
		if arg > math.MaxInt64 {
			return nil, p.fail(start, fmt.Errorf("negative integer -1-%d overflows int64", arg))
		}
		return ir.FromInt(-1 - int64(arg)), nil
	case cborBytes:
		var b []byte
		if err := p.scalar(start, &b); err != nil {
			return nil, err
		}
		if b == nil {
			b = []byte{}
		}
		return ir.FromBytes(b), nil
	case cborText:
		var s string
		if err := p.scalar(start, &s); err != nil {
			return nil, err
		}
		return ir.FromString(s), nil
	case cborArray:
		res := ir.NewList()
		for i := uint64(0); info == cborIndefinite || i < arg; i++ {
			if info == cborIndefinite && p.atBreak() {
				break
			}
			y, err := p.item()
			if err != nil {
				return nil, err
			}
			res.Values = append(res.Values, y)
		}
		return res, nil
	case cborMap:
		res := ir.NewMap()
		for i := uint64(0); info == cborIndefinite || i < arg; i++ {
			if info == cborIndefinite && p.atBreak() {
				break
			}
			k, err := p.item()
			if err != nil {
				return nil, err
			}
			v, err := p.item()
			if err != nil {
				return nil, err
			}
			if res.Set(k, v) {
				return nil, p.fail(start, fmt.Errorf("duplicate map key %s", k.MapStringKey()))
			}
		}
		return res, nil
	case cborTag:
		// tags carry no meaning in the tree; keep the content
		return p.itemValue()
	}
	switch info {
	case 20:
		return ir.FromBool(false), nil
	case 21:
		return ir.FromBool(true), nil
	case 22, 23:
		return ir.Null(), nil
	case 25, 26, 27:
		var f float64
		if err := p.scalar(start, &f); err != nil {
			return nil, err
		}
		return ir.FromFloat(f), nil
	}
	return nil, p.fail(start, fmt.Errorf("unsupported simple value %d", arg))
}

// scalar decodes the item starting at start with the cbor library and
// moves past it.
func (p *cborParser) scalar(start int, v any) error {
	rest, err := cbor.UnmarshalFirst(p.data[start:], v)
	if err != nil {
		return p.fail(start, err)
	}
	p.off = len(p.data) - len(rest)
	return nil
}

func (p *cborParser) atBreak() bool {
	if p.off < len(p.data) && p.data[p.off] == cborBreak {
		p.off++
		return true
	}
	return false
}
