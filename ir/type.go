package ir

import "fmt"

type Type int

const (
	UndefinedType Type = iota
	NullType
	BoolType
	IntType
	UintType
	FloatType
	StringType
	BytesType
	ListType
	MapType
)

var typeNames = map[Type]string{
	UndefinedType: "Undefined",
	NullType:      "Null",
	BoolType:      "Boolean",
	IntType:       "Integer",
	UintType:      "UnsignedInteger",
	FloatType:     "Float",
	StringType:    "Text",
	BytesType:     "Blob",
	ListType:      "List",
	MapType:       "Map",
}

func (t Type) String() string {
	s, ok := typeNames[t]
	if ok {
		return s
	}
	return "<unknown type>"
}

func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Type) UnmarshalText(d []byte) error {
	for tt, name := range typeNames {
		if name == string(d) {
			*t = tt
			return nil
		}
	}
	return fmt.Errorf("unrecognized type %q", d)
}

func Types() []Type {
	return []Type{
		UndefinedType,
		NullType,
		BoolType,
		IntType,
		UintType,
		FloatType,
		StringType,
		BytesType,
		ListType,
		MapType,
	}
}

func (t Type) IsLeaf() bool {
	switch t {
	case ListType, MapType:
		return false
	default:
		return true
	}
}

// IsNumber reports whether t is one of the three numeric kinds.
func (t Type) IsNumber() bool {
	return t == IntType || t == UintType || t == FloatType
}
