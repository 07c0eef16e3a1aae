package encode

import (
	"io"
	"math"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/signadot/xval/ir"
)

func encodeMessagePack(w io.Writer, y *ir.Node) error {
	return msgpackValue(msgpack.NewEncoder(w), y)
}

func msgpackValue(enc *msgpack.Encoder, y *ir.Node) error {
	switch y.Type {
	case ir.UndefinedType:
		return ErrUndefined
	case ir.NullType:
		return enc.EncodeNil()
	case ir.BoolType:
		return enc.EncodeBool(y.Bool)
	case ir.IntType:
		return msgpackInt(enc, y.Int)
	case ir.UintType:
		return msgpackUint(enc, y.Uint)
	case ir.FloatType:
		return enc.EncodeFloat64(y.Float)
	case ir.StringType:
		return enc.EncodeString(y.String)
	case ir.BytesType:
		b := y.Bytes
		if b == nil {
			b = []byte{}
		}
		return enc.EncodeBytes(b)
	case ir.ListType:
		if err := enc.EncodeArrayLen(len(y.Values)); err != nil {
			return err
		}
		for _, v := range y.Values {
			if err := msgpackValue(enc, v); err != nil {
				return err
			}
		}
		return nil
	case ir.MapType:
		if err := enc.EncodeMapLen(len(y.Fields)); err != nil {
			return err
		}
		for i, f := range y.Fields {
			if err := msgpackValue(enc, f); err != nil {
				return err
			}
			if err := msgpackValue(enc, y.Values[i]); err != nil {
				return err
			}
		}
		return nil
	}
	return ErrUndefined
}

// msgpackInt only uses fixints and signed codes so the value reads back
// as a signed integer.
func msgpackInt(enc *msgpack.Encoder, i int64) error {
	switch {
	case i >= -32 && i <= 127:
		return enc.EncodeInt(i)
	case i >= math.MinInt8 && i <= math.MaxInt8:
		return enc.EncodeInt8(int8(i))
	case i >= math.MinInt16 && i <= math.MaxInt16:
		return enc.EncodeInt16(int16(i))
	case i >= math.MinInt32 && i <= math.MaxInt32:
		return enc.EncodeInt32(int32(i))
	}
	return enc.EncodeInt64(i)
}

// msgpackUint never uses fixints, which read back as signed.
func msgpackUint(enc *msgpack.Encoder, u uint64) error {
	switch {
	case u <= math.MaxUint8:
		return enc.EncodeUint8(uint8(u))
	case u <= math.MaxUint16:
		return enc.EncodeUint16(uint16(u))
	case u <= math.MaxUint32:
		return enc.EncodeUint32(uint32(u))
	}
	return enc.EncodeUint64(u)
}
