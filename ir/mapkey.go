package ir

import (
	"encoding/base64"
	"strconv"
	"strings"
)

// MapStringKey renders y as a string for use as a key in formats that only
// allow string keys. Strings are returned verbatim, bytes as standard
// Base64 and containers in a bracketed form. The projection is lossy and
// cannot be reversed.
func (y *Node) MapStringKey() string {
	var buf strings.Builder
	y.writeMapStringKey(&buf)
	return buf.String()
}

func (y *Node) writeMapStringKey(buf *strings.Builder) {
	switch y.Type {
	case UndefinedType:
		buf.WriteString("undefined")
	case NullType:
		buf.WriteString("null")
	case BoolType:
		buf.WriteString(strconv.FormatBool(y.Bool))
	case IntType, UintType, FloatType:
		buf.WriteString(y.literal())
	case StringType:
		buf.WriteString(y.String)
	case BytesType:
		buf.WriteString(base64.StdEncoding.EncodeToString(y.Bytes))
	case ListType:
		buf.WriteByte('[')
		for i, v := range y.Values {
			if i > 0 {
				buf.WriteByte(',')
			}
			v.writeMapStringKey(buf)
		}
		buf.WriteByte(']')
	case MapType:
		buf.WriteByte('{')
		for i, f := range y.Fields {
			if i > 0 {
				buf.WriteByte(',')
			}
			f.writeMapStringKey(buf)
			buf.WriteByte(':')
			y.Values[i].writeMapStringKey(buf)
		}
		buf.WriteByte('}')
	}
}
