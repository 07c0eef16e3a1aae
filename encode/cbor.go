package encode

import (
	"encoding/binary"
	"io"

	"github.com/fxamacker/cbor/v2"

	"github.com/signadot/xval/ir"
)

const (
	cborArray = 4
	cborMap   = 5
)

// encodeCBOR writes definite length arrays and maps itself so entry order
// and composite keys are kept; scalars go through the cbor library.
func encodeCBOR(w io.Writer, y *ir.Node) error {
	switch y.Type {
	case ir.UndefinedType:
		return ErrUndefined
	case ir.ListType:
		if err := cborHead(w, cborArray, uint64(len(y.Values))); err != nil {
			return err
		}
		for _, v := range y.Values {
			if err := encodeCBOR(w, v); err != nil {
				return err
			}
		}
		return nil
	case ir.MapType:
		if err := cborHead(w, cborMap, uint64(len(y.Fields))); err != nil {
			return err
		}
		for i, f := range y.Fields {
			if err := encodeCBOR(w, f); err != nil {
				return err
			}
			if err := encodeCBOR(w, y.Values[i]); err != nil {
				return err
			}
		}
		return nil
	}
	d, err := cbor.Marshal(cborScalar(y))
	if err != nil {
		return err
	}
	_, err = w.Write(d)
	return err
}

func cborScalar(y *ir.Node) any {
	switch y.Type {
	case ir.BoolType:
		return y.Bool
	case ir.IntType:
		return y.Int
	case ir.UintType:
		return y.Uint
	case ir.FloatType:
		return y.Float
	case ir.StringType:
		return y.String
	case ir.BytesType:
		if y.Bytes == nil {
			return []byte{}
		}
		return y.Bytes
	}
	return nil
}

func cborHead(w io.Writer, major byte, n uint64) error {
	var buf [9]byte
	var d []byte
	switch {
	case n < 24:
		buf[0] = major<<5 | byte(n)
		d = buf[:1]
	case n <= 0xff:
		buf[0], buf[1] = major<<5|24, byte(n)
		d = buf[:2]
	case n <= 0xffff:
		buf[0] = major<<5 | 25
		binary.BigEndian.PutUint16(buf[1:], uint16(n))
		d = buf[:3]
	case n <= 0xffffffff:
		buf[0] = major<<5 | 26
		binary.BigEndian.PutUint32(buf[1:], uint32(n))
		d = buf[:5]
	default:
		buf[0] = major<<5 | 27
		binary.BigEndian.PutUint64(buf[1:], n)
		d = buf[:9]
	}
	_, err := w.Write(d)
	return err
}
