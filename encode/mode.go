package encode

import (
	"encoding/base64"
	"math"
	"strconv"

	"github.com/signadot/xval/format"
	"github.com/signadot/xval/hint"
	"github.com/signadot/xval/ir"
)

// IntPolicy says how an integer is written in a text format.
type IntPolicy int

const (
	// IntNative writes the integer as a number of its own kind.
	IntNative IntPolicy = iota
	// IntUnsignedIfNonNegative writes non-negative integers as unsigned.
	IntUnsignedIfNonNegative
	// IntFloat writes the integer as a float.
	IntFloat
	// IntString writes the decimal digits as a string.
	IntString
)

// BytesPolicy says how a byte string is written in a text format.
type BytesPolicy int

const (
	BytesNative BytesPolicy = iota
	BytesBase64
)

// Mode is the transformation applied to a tree before it is written as
// JSON, XJSON, YAML or XML.
type Mode struct {
	Int  IntPolicy
	Uint IntPolicy
	// IntHint and UintHint wrap IntString output in a hint object.
	IntHint  bool
	UintHint bool

	Bytes     BytesPolicy
	BytesHint bool

	// FloatHint writes NaN and infinities as hint objects instead of
	// strings.
	FloatHint bool

	// MapHint writes maps with any non-string key as a $hint.map list of
	// pairs. Otherwise such keys are projected with MapStringKey.
	MapHint bool
	// EscapeHints prefixes string keys that look like hints with '$'.
	EscapeHints bool
}

// JSONMode produces valid JSON: bytes become Base64 strings and
// non-string keys are projected. Signedness and bytes are lost.
func JSONMode() Mode {
	return Mode{Bytes: BytesBase64}
}

// XJSONMode produces JSON that parse.ParseXJSON reads back exactly.
func XJSONMode() Mode {
	return Mode{
		Uint:        IntString,
		UintHint:    true,
		Bytes:       BytesBase64,
		BytesHint:   true,
		FloatHint:   true,
		MapHint:     true,
		EscapeHints: true,
	}
}

// YAMLMode keeps numbers and bytes native.
func YAMLMode() Mode {
	return Mode{}
}

// XMLMode keeps everything native; XML documents carry every kind.
func XMLMode() Mode {
	return Mode{}
}

// DefaultMode returns the mode used for f when none is given.
func DefaultMode(f format.Format) Mode {
	switch f {
	case format.JSONFormat:
		return JSONMode()
	case format.XJSONFormat:
		return XJSONMode()
	case format.XMLFormat:
		return XMLMode()
	}
	return YAMLMode()
}

// Apply returns a transformed copy of y. With projectKeys, every map in
// the result has only string keys.
func (m Mode) Apply(y *ir.Node, projectKeys bool) (*ir.Node, error) {
	switch y.Type {
	case ir.UndefinedType:
		return nil, ErrUndefined
	case ir.IntType:
		return m.integer(y, m.Int, m.IntHint, hint.Int), nil
	case ir.UintType:
		return m.integer(y, m.Uint, m.UintHint, hint.Uint), nil
	case ir.FloatType:
		if m.FloatHint && (math.IsNaN(y.Float) || math.IsInf(y.Float, 0)) {
			return wrapHint(hint.Float, ir.FromString(strconv.FormatFloat(y.Float, 'g', -1, 64))), nil
		}
		return y, nil
	case ir.BytesType:
		if m.Bytes == BytesNative {
			return y, nil
		}
		s := ir.FromString(base64.StdEncoding.EncodeToString(y.Bytes))
		if m.BytesHint {
			return wrapHint(hint.Bytes, s), nil
		}
		return s, nil
	case ir.ListType:
		res := ir.NewList()
		res.Values = make([]*ir.Node, len(y.Values))
		for i, v := range y.Values {
			yv, err := m.Apply(v, projectKeys)
			if err != nil {
				return nil, err
			}
			res.Values[i] = yv
		}
		return res, nil
	case ir.MapType:
		return m.mapping(y, projectKeys)
	}
	return y, nil
}

func (m Mode) integer(y *ir.Node, p IntPolicy, withHint bool, h string) *ir.Node {
	switch p {
	case IntUnsignedIfNonNegative:
		if y.Type == ir.IntType && y.Int >= 0 {
			return ir.FromUint(uint64(y.Int))
		}
	case IntFloat:
		if y.Type == ir.IntType {
			return ir.FromFloat(float64(y.Int))
		}
		return ir.FromFloat(float64(y.Uint))
	case IntString:
		var s *ir.Node
		if y.Type == ir.IntType {
			s = ir.FromString(strconv.FormatInt(y.Int, 10))
		} else {
			s = ir.FromString(strconv.FormatUint(y.Uint, 10))
		}
		if withHint {
			return wrapHint(h, s)
		}
		return s
	}
	return y
}

func wrapHint(h string, payload *ir.Node) *ir.Node {
	return ir.FromKeyVals([]ir.KeyVal{{Key: ir.FromString(h), Val: payload}})
}

func (m Mode) mapping(y *ir.Node, projectKeys bool) (*ir.Node, error) {
	stringKeys := true
	for _, f := range y.Fields {
		if f.Type != ir.StringType {
			stringKeys = false
			break
		}
	}
	if projectKeys && !stringKeys && m.MapHint {
		pairs := ir.NewList()
		for i, f := range y.Fields {
			k, err := m.Apply(f, projectKeys)
			if err != nil {
				return nil, err
			}
			v, err := m.Apply(y.Values[i], projectKeys)
			if err != nil {
				return nil, err
			}
			pairs.Values = append(pairs.Values, ir.FromSlice([]*ir.Node{k, v}))
		}
		return wrapHint(hint.Map, pairs), nil
	}
	res := ir.NewMap()
	res.Fields = make([]*ir.Node, 0, len(y.Fields))
	res.Values = make([]*ir.Node, 0, len(y.Fields))
	for i, f := range y.Fields {
		var k *ir.Node
		switch {
		case f.Type == ir.StringType:
			k = f
			if m.EscapeHints {
				if esc := hint.Escape(f.String); esc != f.String {
					k = ir.FromString(esc)
				}
			}
		case projectKeys:
			if f.Type == ir.UndefinedType {
				return nil, ErrUndefined
			}
			k = ir.FromString(f.MapStringKey())
		default:
			yk, err := m.Apply(f, projectKeys)
			if err != nil {
				return nil, err
			}
			k = yk
		}
		v, err := m.Apply(y.Values[i], projectKeys)
		if err != nil {
			return nil, err
		}
		res.Fields = append(res.Fields, k)
		res.Values = append(res.Values, v)
	}
	return res, nil
}
