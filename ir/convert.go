package ir

import (
	"fmt"
	"maps"
	"math"
	"reflect"
	"slices"
	"strconv"
)

// maxExactFloat is the largest magnitude below which every integer is
// exactly representable as a float64.
const maxExactFloat = 1 << 53

func (y *Node) AsBool() (bool, error) {
	if y.Type != BoolType {
		return false, incompatible(y, BoolType)
	}
	return y.Bool, nil
}

func (y *Node) AsString() (string, error) {
	if y.Type != StringType {
		return "", incompatible(y, StringType)
	}
	return y.String, nil
}

func (y *Node) AsBytes() ([]byte, error) {
	if y.Type != BytesType {
		return nil, incompatible(y, BytesType)
	}
	return y.Bytes, nil
}

// AsInt64 converts any numeric node to an int64. Unsigned values above
// math.MaxInt64 and floats that are not integral fail with a CastingError.
func (y *Node) AsInt64() (int64, error) {
	switch y.Type {
	case IntType:
		return y.Int, nil
	case UintType:
		if y.Uint > math.MaxInt64 {
			return 0, &CastingError{Value: y.literal(), Target: "int64"}
		}
		return int64(y.Uint), nil
	case FloatType:
		f := y.Float
		if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
			return 0, &CastingError{Value: y.literal(), Target: "int64"}
		}
		return int64(f), nil
	}
	return 0, incompatible(y, IntType, UintType, FloatType)
}

// AsInt converts a numeric node to a signed integer of the given bit size.
func (y *Node) AsInt(bits int) (int64, error) {
	i, err := y.AsInt64()
	if err != nil {
		if ce, ok := err.(*CastingError); ok {
			ce.Target = "int" + strconv.Itoa(bits)
		}
		return 0, err
	}
	if bits < 64 {
		lim := int64(1) << (bits - 1)
		if i < -lim || i >= lim {
			return 0, &CastingError{Value: y.literal(), Target: "int" + strconv.Itoa(bits)}
		}
	}
	return i, nil
}

// AsUint64 converts any numeric node to a uint64. Negative values fail
// with a CastingError.
func (y *Node) AsUint64() (uint64, error) {
	switch y.Type {
	case UintType:
		return y.Uint, nil
	case IntType:
		if y.Int < 0 {
			return 0, &CastingError{Value: y.literal(), Target: "uint64"}
		}
		return uint64(y.Int), nil
	case FloatType:
		f := y.Float
		if f != math.Trunc(f) || f < 0 || f >= math.MaxUint64 {
			return 0, &CastingError{Value: y.literal(), Target: "uint64"}
		}
		return uint64(f), nil
	}
	return 0, incompatible(y, IntType, UintType, FloatType)
}

// AsUint converts a numeric node to an unsigned integer of the given bit
// size.
func (y *Node) AsUint(bits int) (uint64, error) {
	u, err := y.AsUint64()
	if err != nil {
		if ce, ok := err.(*CastingError); ok {
			ce.Target = "uint" + strconv.Itoa(bits)
		}
		return 0, err
	}
	if bits < 64 && u >= uint64(1)<<bits {
		return 0, &CastingError{Value: y.literal(), Target: "uint" + strconv.Itoa(bits)}
	}
	return u, nil
}

// AsFloat64 converts any numeric node to a float64. Integers whose
// magnitude exceeds 2^53 fail with a CastingError.
func (y *Node) AsFloat64() (float64, error) {
	switch y.Type {
	case FloatType:
		return y.Float, nil
	case IntType:
		if y.Int > maxExactFloat || y.Int < -maxExactFloat {
			return 0, &CastingError{Value: y.literal(), Target: "float64"}
		}
		return float64(y.Int), nil
	case UintType:
		if y.Uint > maxExactFloat {
			return 0, &CastingError{Value: y.literal(), Target: "float64"}
		}
		return float64(y.Uint), nil
	}
	return 0, incompatible(y, FloatType, IntType, UintType)
}

// AsFloat32 is AsFloat64 followed by a range check.
func (y *Node) AsFloat32() (float32, error) {
	f, err := y.AsFloat64()
	if err != nil {
		return 0, err
	}
	if !math.IsInf(f, 0) && !math.IsNaN(f) && math.Abs(f) > math.MaxFloat32 {
		return 0, &CastingError{Value: y.literal(), Target: "float32"}
	}
	return float32(f), nil
}

func (y *Node) literal() string {
	switch y.Type {
	case IntType:
		return strconv.FormatInt(y.Int, 10)
	case UintType:
		return strconv.FormatUint(y.Uint, 10)
	case FloatType:
		return strconv.FormatFloat(y.Float, 'g', -1, 64)
	}
	return y.MapStringKey()
}

// FromAny converts a native Go value into a node. It accepts nil, bools,
// all integer and float kinds, strings, []byte, *Node, and slices and maps
// of convertible values.
func FromAny(v any) (*Node, error) {
	switch x := v.(type) {
	case nil:
		return Null(), nil
	case *Node:
		return x.Clone(), nil
	case bool:
		return FromBool(x), nil
	case string:
		return FromString(x), nil
	case []byte:
		return FromBytes(slices.Clone(x)), nil
	case int:
		return FromInt(int64(x)), nil
	case int64:
		return FromInt(x), nil
	case uint64:
		return FromUint(x), nil
	case float64:
		return FromFloat(x), nil
	case []any:
		res := NewList()
		for i, e := range x {
			ye, err := FromAny(e)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			res.Values = append(res.Values, ye)
		}
		return res, nil
	case map[string]any:
		res := NewMap()
		for _, k := range slices.Sorted(maps.Keys(x)) {
			ye, err := FromAny(x[k])
			if err != nil {
				return nil, fmt.Errorf("%s: %w", k, err)
			}
			res.Fields = append(res.Fields, FromString(k))
			res.Values = append(res.Values, ye)
		}
		return res, nil
	}
	return fromReflect(reflect.ValueOf(v))
}

func fromReflect(val reflect.Value) (*Node, error) {
	switch val.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return FromInt(val.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return FromUint(val.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return FromFloat(val.Float()), nil
	case reflect.Bool:
		return FromBool(val.Bool()), nil
	case reflect.String:
		return FromString(val.String()), nil
	case reflect.Pointer, reflect.Interface:
		if val.IsNil() {
			return Null(), nil
		}
		return FromAny(val.Elem().Interface())
	case reflect.Slice, reflect.Array:
		if val.Type().Elem().Kind() == reflect.Uint8 {
			b := make([]byte, val.Len())
			reflect.Copy(reflect.ValueOf(b), val)
			return FromBytes(b), nil
		}
		res := NewList()
		for i := 0; i < val.Len(); i++ {
			ye, err := FromAny(val.Index(i).Interface())
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			res.Values = append(res.Values, ye)
		}
		return res, nil
	case reflect.Map:
		res := NewMap()
		iter := val.MapRange()
		for iter.Next() {
			yk, err := FromAny(iter.Key().Interface())
			if err != nil {
				return nil, err
			}
			yv, err := FromAny(iter.Value().Interface())
			if err != nil {
				return nil, fmt.Errorf("%s: %w", yk.MapStringKey(), err)
			}
			res.Set(yk, yv)
		}
		sortByKey(res)
		return res, nil
	}
	return nil, fmt.Errorf("cannot convert %s to a node", val.Type())
}

// sortByKey reorders the entries of m by key, so that nodes built from Go
// maps have a deterministic order.
func sortByKey(m *Node) {
	order := sortedEntries(m)
	fields := make([]*Node, len(order))
	values := make([]*Node, len(order))
	for i, j := range order {
		fields[i] = m.Fields[j]
		values[i] = m.Values[j]
	}
	m.Fields, m.Values = fields, values
}

// ToAny converts a node to native Go values: nil, bool, int64, uint64,
// float64, string, []byte, []any and maps. A map whose keys are all
// strings becomes map[string]any; otherwise map[any]any, with list and map
// keys projected through MapStringKey.
func (y *Node) ToAny() any {
	switch y.Type {
	case BoolType:
		return y.Bool
	case IntType:
		return y.Int
	case UintType:
		return y.Uint
	case FloatType:
		return y.Float
	case StringType:
		return y.String
	case BytesType:
		return slices.Clone(y.Bytes)
	case ListType:
		res := make([]any, len(y.Values))
		for i, v := range y.Values {
			res[i] = v.ToAny()
		}
		return res
	case MapType:
		stringKeys := true
		for _, f := range y.Fields {
			if f.Type != StringType {
				stringKeys = false
				break
			}
		}
		if stringKeys {
			res := make(map[string]any, len(y.Fields))
			for i, f := range y.Fields {
				res[f.String] = y.Values[i].ToAny()
			}
			return res
		}
		res := make(map[any]any, len(y.Fields))
		for i, f := range y.Fields {
			var k any
			switch f.Type {
			case ListType, MapType, BytesType:
				k = f.MapStringKey()
			default:
				k = f.ToAny()
			}
			res[k] = y.Values[i].ToAny()
		}
		return res
	}
	return nil
}
