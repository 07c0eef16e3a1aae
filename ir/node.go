package ir

import (
	"iter"
	"maps"
	"slices"
)

type Node struct {
	Type   Type
	Fields []*Node
	Values []*Node

	Bool   bool
	Int    int64
	Uint   uint64
	Float  float64
	String string
	Bytes  []byte

	// Annotation is nil unless the producer tracked provenance.
	Annotation *Annotation
}

func (y *Node) WithAnnotation(a *Annotation) *Node {
	y.Annotation = a
	return y
}

// Clone returns a deep copy of y, annotations included.
func (y *Node) Clone() *Node {
	if y == nil {
		return nil
	}
	return y.CloneTo(&Node{})
}

func (y *Node) CloneTo(dst *Node) *Node {
	*dst = *y
	if y.Bytes != nil {
		dst.Bytes = slices.Clone(y.Bytes)
	}
	if y.Annotation != nil {
		a := y.Annotation.Clone()
		dst.Annotation = a
	}
	if y.Values != nil {
		dst.Values = make([]*Node, len(y.Values))
		for i, v := range y.Values {
			dst.Values[i] = v.Clone()
		}
	}
	if y.Fields != nil {
		dst.Fields = make([]*Node, len(y.Fields))
		for i, f := range y.Fields {
			dst.Fields[i] = f.Clone()
		}
	}
	return dst
}

func Undefined() *Node {
	return &Node{Type: UndefinedType}
}

func Null() *Node {
	return &Node{Type: NullType}
}

func FromBool(v bool) *Node {
	return &Node{
		Type: BoolType,
		Bool: v,
	}
}

func FromInt(v int64) *Node {
	return &Node{
		Type: IntType,
		Int:  v,
	}
}

func FromUint(v uint64) *Node {
	return &Node{
		Type: UintType,
		Uint: v,
	}
}

func FromFloat(f float64) *Node {
	return &Node{
		Type:  FloatType,
		Float: f,
	}
}

func FromString(v string) *Node {
	return &Node{
		Type:   StringType,
		String: v,
	}
}

func FromBytes(v []byte) *Node {
	return &Node{
		Type:  BytesType,
		Bytes: v,
	}
}

func NewList() *Node {
	return &Node{Type: ListType, Values: []*Node{}}
}

func NewMap() *Node {
	return &Node{Type: MapType, Fields: []*Node{}, Values: []*Node{}}
}

func FromSlice(ySlice []*Node) *Node {
	res := &Node{
		Type: ListType,
	}
	res.Values = make([]*Node, len(ySlice))
	copy(res.Values, ySlice)
	return res
}

// FromMap creates a string keyed map node with keys in sorted order.
func FromMap(yMap map[string]*Node) *Node {
	res := NewMap()
	keys := slices.Sorted(maps.Keys(yMap))
	for _, key := range keys {
		res.Fields = append(res.Fields, FromString(key))
		res.Values = append(res.Values, yMap[key])
	}
	return res
}

type KeyVal struct {
	Key *Node
	Val *Node
}

// FromKeyVals creates a map node from kvs in order. Later duplicates of a
// key overwrite earlier ones.
func FromKeyVals(kvs []KeyVal) *Node {
	res := NewMap()
	for _, kv := range kvs {
		key := kv.Key
		if key == nil {
			key = Null()
		}
		res.Set(key, kv.Val)
	}
	return res
}

func (y *Node) Len() int {
	return len(y.Values)
}

// Index returns the position of key among the map's fields, or -1.
func (y *Node) Index(key *Node) int {
	if y.Type != MapType {
		return -1
	}
	for i, f := range y.Fields {
		if Equal(f, key) {
			return i
		}
	}
	return -1
}

// Get returns the value under key, or nil.
func (y *Node) Get(key *Node) *Node {
	i := y.Index(key)
	if i < 0 {
		return nil
	}
	return y.Values[i]
}

// GetString returns the value under the string key field, or nil.
func (y *Node) GetString(field string) *Node {
	if y.Type != MapType {
		return nil
	}
	for i, f := range y.Fields {
		if f.Type == StringType && f.String == field {
			return y.Values[i]
		}
	}
	return nil
}

// Set inserts or overwrites the value under key. y must be a map. It
// reports whether the key was already present.
func (y *Node) Set(key, val *Node) bool {
	if y.Type != MapType {
		panic("ir: Set on " + y.Type.String())
	}
	if i := y.Index(key); i >= 0 {
		y.Values[i] = val
		return true
	}
	y.Fields = append(y.Fields, key)
	y.Values = append(y.Values, val)
	return false
}

func (y *Node) SetString(field string, val *Node) bool {
	return y.Set(FromString(field), val)
}

// Delete removes key from the map and reports whether it was present.
func (y *Node) Delete(key *Node) bool {
	i := y.Index(key)
	if i < 0 {
		return false
	}
	y.Fields = slices.Delete(y.Fields, i, i+1)
	y.Values = slices.Delete(y.Values, i, i+1)
	return true
}

func (y *Node) Append(vs ...*Node) {
	if y.Type != ListType {
		panic("ir: Append on " + y.Type.String())
	}
	y.Values = append(y.Values, vs...)
}

// Entries iterates the key value pairs of a map in insertion order.
func (y *Node) Entries() iter.Seq2[*Node, *Node] {
	return func(yield func(*Node, *Node) bool) {
		if y.Type != MapType {
			return
		}
		for i, f := range y.Fields {
			if !yield(f, y.Values[i]) {
				return
			}
		}
	}
}

// Each iterates the items of a list. Any other node yields itself once, so
// callers can treat a value that may or may not be a list uniformly.
func (y *Node) Each() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		if y.Type != ListType {
			yield(y)
			return
		}
		for _, v := range y.Values {
			if !yield(v) {
				return
			}
		}
	}
}

// Visit walks the tree depth first, calling f before (isPost false) and
// after (isPost true) the children of each node. Map keys are visited
// before their values. Returning false from the pre-order call skips the
// children.
func (y *Node) Visit(f func(y *Node, isPost bool) (bool, error)) error {
	dive, err := f(y, false)
	if err != nil {
		return err
	}
	if dive {
		for i, yy := range y.Values {
			if y.Type == MapType {
				if err := y.Fields[i].Visit(f); err != nil {
					return err
				}
			}
			if err := yy.Visit(f); err != nil {
				return err
			}
		}
	}
	if _, err := f(y, true); err != nil {
		return err
	}
	return nil
}

// IsNull reports whether y is nil or a null node.
func (y *Node) IsNull() bool {
	return y == nil || y.Type == NullType
}
