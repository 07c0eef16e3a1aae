package ir

import (
	"encoding/binary"
	"hash/maphash"
	"math"
)

var hashSeed = maphash.MakeSeed()

// Hash returns a 64-bit hash of the node, consistent with Equal within a
// process. Annotations are not hashed.
// It panics if n is nil.
func (n *Node) Hash() uint64 {
	if n == nil {
		panic("ir: Hash called on nil node")
	}

	var h maphash.Hash
	h.SetSeed(hashSeed)
	h.WriteByte(byte(n.Type))

	var b [8]byte
	switch n.Type {
	case UndefinedType, NullType:
	case BoolType:
		if n.Bool {
			h.WriteByte(1)
		} else {
			h.WriteByte(0)
		}
	case IntType:
		binary.LittleEndian.PutUint64(b[:], uint64(n.Int))
		h.Write(b[:])
	case UintType:
		binary.LittleEndian.PutUint64(b[:], n.Uint)
		h.Write(b[:])
	case FloatType:
		binary.LittleEndian.PutUint64(b[:], floatBits(n.Float))
		h.Write(b[:])
	case StringType:
		h.WriteString(n.String)
	case BytesType:
		h.Write(n.Bytes)
	case ListType:
		for _, v := range n.Values {
			binary.LittleEndian.PutUint64(b[:], v.Hash())
			h.Write(b[:])
		}
	case MapType:
		// entries are combined with a commutative sum so that the
		// hash does not depend on insertion order.
		var sum uint64
		for i, field := range n.Fields {
			var eh maphash.Hash
			eh.SetSeed(hashSeed)
			binary.LittleEndian.PutUint64(b[:], field.Hash())
			eh.Write(b[:])
			binary.LittleEndian.PutUint64(b[:], n.Values[i].Hash())
			eh.Write(b[:])
			sum += eh.Sum64()
		}
		binary.LittleEndian.PutUint64(b[:], sum)
		h.Write(b[:])
	}
	return h.Sum64()
}

// floatBits canonicalizes NaN payloads and the sign of zero so hashing
// agrees with cmp.Compare.
func floatBits(f float64) uint64 {
	switch {
	case math.IsNaN(f):
		return 0x7ff8000000000001
	case f == 0:
		return 0
	}
	return math.Float64bits(f)
}
