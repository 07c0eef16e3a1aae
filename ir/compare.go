package ir

import (
	"bytes"
	"cmp"
	"slices"
	"strings"
)

// Compare returns an integer comparing two nodes.
// The result will be 0 if a==b, -1 if a < b, and +1 if a > b.
//
// Nodes of different types order by type:
// Undefined < Null < Bool < Int < Uint < Float < String < Bytes < List < Map.
// Floats use cmp.Compare, so NaN sorts before all other floats and equals
// itself. Maps compare as their entries sorted by key.
func Compare(a, b *Node) int {
	if a == b {
		return 0
	}
	if a == nil {
		return -1
	}
	if b == nil {
		return 1
	}
	if a.Type != b.Type {
		return cmp.Compare(a.Type, b.Type)
	}

	switch a.Type {
	case BoolType:
		if a.Bool == b.Bool {
			return 0
		}
		if !a.Bool {
			return -1
		}
		return 1
	case IntType:
		return cmp.Compare(a.Int, b.Int)
	case UintType:
		return cmp.Compare(a.Uint, b.Uint)
	case FloatType:
		return cmp.Compare(a.Float, b.Float)
	case StringType:
		return strings.Compare(a.String, b.String)
	case BytesType:
		return bytes.Compare(a.Bytes, b.Bytes)
	case ListType:
		return compareLists(a.Values, b.Values)
	case MapType:
		return compareMaps(a, b)
	}
	return 0
}

func compareLists(a, b []*Node) int {
	minLen := min(len(a), len(b))
	for i := 0; i < minLen; i++ {
		if c := Compare(a[i], b[i]); c != 0 {
			return c
		}
	}
	return cmp.Compare(len(a), len(b))
}

func compareMaps(a, b *Node) int {
	ae, be := sortedEntries(a), sortedEntries(b)
	minLen := min(len(ae), len(be))
	for i := 0; i < minLen; i++ {
		if c := Compare(a.Fields[ae[i]], b.Fields[be[i]]); c != 0 {
			return c
		}
		if c := Compare(a.Values[ae[i]], b.Values[be[i]]); c != 0 {
			return c
		}
	}
	return cmp.Compare(len(ae), len(be))
}

// sortedEntries returns the entry indices of m ordered by key.
func sortedEntries(m *Node) []int {
	res := make([]int, len(m.Fields))
	for i := range res {
		res[i] = i
	}
	slices.SortFunc(res, func(i, j int) int {
		return Compare(m.Fields[i], m.Fields[j])
	})
	return res
}

// Equal reports whether a and b hold the same data.
func Equal(a, b *Node) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if a.Type != b.Type {
		return false
	}
	switch a.Type {
	case UndefinedType, NullType:
		return true
	case BoolType:
		return a.Bool == b.Bool
	case IntType:
		return a.Int == b.Int
	case UintType:
		return a.Uint == b.Uint
	case FloatType:
		return cmp.Compare(a.Float, b.Float) == 0
	case StringType:
		return a.String == b.String
	case BytesType:
		return bytes.Equal(a.Bytes, b.Bytes)
	case ListType:
		if len(a.Values) != len(b.Values) {
			return false
		}
		for i := range a.Values {
			if !Equal(a.Values[i], b.Values[i]) {
				return false
			}
		}
		return true
	case MapType:
		if len(a.Fields) != len(b.Fields) {
			return false
		}
		for i, f := range a.Fields {
			bv := b.Get(f)
			if bv == nil || !Equal(a.Values[i], bv) {
				return false
			}
		}
		return true
	}
	return false
}
