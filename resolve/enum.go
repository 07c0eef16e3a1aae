package resolve

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/signadot/xval/ir"
)

// Variant describes one alternative of an enum.
type Variant struct {
	// Key selects the variant. It defaults to the payload type name with a
	// lower-cased first letter.
	Key string
	// New returns a pointer to a fresh payload.
	New func() any
	// Unit variants ignore the entry value.
	Unit bool
}

// VariantOf is a variant whose payload P is resolved from the entry value.
func VariantOf[P any](key string) Variant {
	return Variant{Key: key, New: func() any { return new(P) }}
}

// UnitOf is a variant whose payload P is left zero.
func UnitOf[P any](key string) Variant {
	return Variant{Key: key, New: func() any { return new(P) }, Unit: true}
}

var enums sync.Map // reflect.Type -> []Variant

// RegisterEnum registers the variants of T, which is usually an interface
// the payloads implement. Either a payload or a pointer to it must be
// assignable to T.
func RegisterEnum[T any](variants ...Variant) error {
	typ := reflect.TypeFor[T]()
	vs := make([]Variant, len(variants))
	for i, v := range variants {
		if v.New == nil {
			return fmt.Errorf("%w: %s: variant %d has no constructor", ErrTag, typ, i)
		}
		p := reflect.TypeOf(v.New())
		if p == nil || p.Kind() != reflect.Pointer {
			return fmt.Errorf("%w: %s: variant %d constructor must return a pointer", ErrTag, typ, i)
		}
		if !p.AssignableTo(typ) && !p.Elem().AssignableTo(typ) {
			return fmt.Errorf("%w: %s: variant %s is not assignable", ErrTag, typ, p.Elem())
		}
		if v.Key == "" {
			v.Key = lowerFirst(p.Elem().Name())
		}
		vs[i] = v
	}
	enums.Store(typ, vs)
	return nil
}

func lookupEnum(typ reflect.Type) ([]Variant, bool) {
	v, ok := enums.Load(typ)
	if !ok {
		return nil, false
	}
	return v.([]Variant), true
}

func (r *Resolution) enum(node *ir.Node, val reflect.Value, variants []Variant) (bool, error) {
	if node.Type != ir.MapType || len(node.Fields) != 1 {
		return false, r.Report(node, malformed("expected a single-entry map selecting a variant of %s", val.Type()))
	}
	key, payload := node.Fields[0], node.Values[0]
	if key.Type != ir.StringType {
		return false, r.Report(key, incompatible(key, ir.StringType))
	}
	for _, v := range variants {
		if v.Key != key.String {
			continue
		}
		p := reflect.ValueOf(v.New())
		if !v.Unit {
			ok, err := r.value(payload, p.Elem())
			if err != nil || !ok {
				return false, err
			}
		}
		if p.Type().AssignableTo(val.Type()) {
			val.Set(p)
		} else {
			val.Set(p.Elem())
		}
		return true, nil
	}
	return false, r.Report(key, &InvalidKeyError{Key: key})
}
