package resolve

import (
	"encoding"
	"fmt"
	"reflect"

	"github.com/signadot/xval/debug"
	"github.com/signadot/xval/ir"
)

// Resolver is implemented by types that resolve themselves. ResolveNode
// reports recoverable problems through r and returns false when it did.
type Resolver interface {
	ResolveNode(r *Resolution, node *ir.Node) (bool, error)
}

// Resolution is the state of one resolve pass.
type Resolution struct {
	sink   Sink
	source string
	root   *ir.Node
}

// Resolve reads node into a new T. It returns nil, nil when errors were
// reported to sink, and a non-nil error only when the sink stopped the
// pass or T cannot be resolved at all.
func Resolve[T any](node *ir.Node, sink Sink, opts ...Option) (*T, error) {
	res := new(T)
	ok, err := Into(node, res, sink, opts...)
	if err != nil || !ok {
		return nil, err
	}
	return res, nil
}

// Into reads node into the value dst points to. It reports whether the
// pass finished without reported errors.
func Into(node *ir.Node, dst any, sink Sink, opts ...Option) (bool, error) {
	o := &resolveOpts{}
	for _, opt := range opts {
		opt(o)
	}
	if o.root == nil {
		o.root = node
	}
	if sink == nil {
		sink = Discard
	}
	r := &Resolution{sink: sink, source: o.source, root: o.root}
	return r.Into(node, dst)
}

// Into resolves node into dst as part of the current pass.
func (r *Resolution) Into(node *ir.Node, dst any) (bool, error) {
	val := reflect.ValueOf(dst)
	if val.Kind() != reflect.Pointer || val.IsNil() {
		return false, fmt.Errorf("%w, got %T", ErrTarget, dst)
	}
	return r.value(node, val.Elem())
}

// Cite returns the citation of node in this pass.
func (r *Resolution) Cite(node *ir.Node) ir.Citation {
	return ir.Cite(r.root, node, r.source)
}

// Report sends err about node to the sink. The returned error is fatal.
func (r *Resolution) Report(node *ir.Node, err error) error {
	e := &Error{Citation: r.Cite(node), Err: err}
	if debug.Resolve() {
		debug.Logf("resolve: %s\n", e)
	}
	return r.sink.Report(e)
}

// trial returns a pass over the same tree that discards reports.
func (r *Resolution) trial() *Resolution {
	return &Resolution{sink: Discard, source: r.source, root: r.root}
}

var (
	resolverType        = reflect.TypeFor[Resolver]()
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
	nodeType            = reflect.TypeFor[ir.Node]()
)

func (r *Resolution) value(node *ir.Node, val reflect.Value) (bool, error) {
	typ := val.Type()
	if reflect.PointerTo(typ).Implements(resolverType) && val.CanAddr() {
		return val.Addr().Interface().(Resolver).ResolveNode(r, node)
	}
	switch typ {
	case nodePtrType:
		val.Set(reflect.ValueOf(node.Clone()))
		return true, nil
	case nodeType:
		val.Set(reflect.ValueOf(node.Clone()).Elem())
		return true, nil
	}
	if variants, ok := lookupEnum(typ); ok {
		return r.enum(node, val, variants)
	}
	if reflect.PointerTo(typ).Implements(textUnmarshalerType) && val.CanAddr() {
		s, err := node.AsString()
		if err != nil {
			return false, r.Report(node, err)
		}
		if err := val.Addr().Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(s)); err != nil {
			return false, r.Report(node, malformed("%s: %v", typ, err))
		}
		return true, nil
	}
	switch typ.Kind() {
	case reflect.Pointer:
		if node.Type == ir.NullType {
			val.SetZero()
			return true, nil
		}
		elem := reflect.New(typ.Elem())
		ok, err := r.value(node, elem.Elem())
		if ok {
			val.Set(elem)
		}
		return ok, err
	case reflect.Interface:
		if typ.NumMethod() != 0 {
			return false, fmt.Errorf("%w: %s", ErrUnsupportedType, typ)
		}
		if node.Type == ir.UndefinedType {
			return false, r.Report(node, incompatible(node))
		}
		if x := node.ToAny(); x != nil {
			val.Set(reflect.ValueOf(x))
		} else {
			val.SetZero()
		}
		return true, nil
	case reflect.Bool:
		b, err := node.AsBool()
		if err != nil {
			return false, r.Report(node, err)
		}
		val.SetBool(b)
		return true, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := node.AsInt(typ.Bits())
		if err != nil {
			return false, r.Report(node, err)
		}
		val.SetInt(i)
		return true, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u, err := node.AsUint(typ.Bits())
		if err != nil {
			return false, r.Report(node, err)
		}
		val.SetUint(u)
		return true, nil
	case reflect.Float32, reflect.Float64:
		var f float64
		var err error
		if typ.Kind() == reflect.Float32 {
			var f32 float32
			f32, err = node.AsFloat32()
			f = float64(f32)
		} else {
			f, err = node.AsFloat64()
		}
		if err != nil {
			return false, r.Report(node, err)
		}
		val.SetFloat(f)
		return true, nil
	case reflect.String:
		s, err := node.AsString()
		if err != nil {
			return false, r.Report(node, err)
		}
		val.SetString(s)
		return true, nil
	case reflect.Slice:
		if typ.Elem().Kind() == reflect.Uint8 {
			b, err := node.AsBytes()
			if err != nil {
				return false, r.Report(node, err)
			}
			val.SetBytes(b)
			return true, nil
		}
		return r.slice(node, val)
	case reflect.Array:
		return r.array(node, val)
	case reflect.Map:
		if isSet(typ) {
			return r.set(node, val)
		}
		return r.mapping(node, val)
	case reflect.Struct:
		info, err := GetStructInfo(typ)
		if err != nil {
			return false, err
		}
		return r.structure(node, val, info)
	}
	return false, fmt.Errorf("%w: %s", ErrUnsupportedType, typ)
}

// incompatible reports a kind mismatch, listing the kinds that would do.
func incompatible(node *ir.Node, expected ...ir.Type) error {
	return &ir.IncompatibleTypeError{Actual: node.Type, Expected: expected}
}

// items treats any non-list node as a one-item list.
func items(node *ir.Node) []*ir.Node {
	var res []*ir.Node
	for v := range node.Each() {
		res = append(res, v)
	}
	return res
}

func (r *Resolution) slice(node *ir.Node, val reflect.Value) (bool, error) {
	vs := items(node)
	res := reflect.MakeSlice(val.Type(), len(vs), len(vs))
	ok := true
	for i, v := range vs {
		iok, err := r.value(v, res.Index(i))
		if err != nil {
			return false, err
		}
		ok = ok && iok
	}
	if ok {
		val.Set(res)
	}
	return ok, nil
}

func (r *Resolution) array(node *ir.Node, val reflect.Value) (bool, error) {
	vs := items(node)
	if len(vs) != val.Len() {
		return false, r.Report(node, malformed("expected %d items, got %d", val.Len(), len(vs)))
	}
	ok := true
	for i, v := range vs {
		iok, err := r.value(v, val.Index(i))
		if err != nil {
			return false, err
		}
		ok = ok && iok
	}
	return ok, nil
}

func isSet(typ reflect.Type) bool {
	e := typ.Elem()
	return e.Kind() == reflect.Struct && e.NumField() == 0
}

// set reads a list of members into map[K]struct{}.
func (r *Resolution) set(node *ir.Node, val reflect.Value) (bool, error) {
	typ := val.Type()
	res := reflect.MakeMap(typ)
	ok := true
	for _, v := range items(node) {
		k := reflect.New(typ.Key()).Elem()
		kok, err := r.value(v, k)
		if err != nil {
			return false, err
		}
		if !kok {
			ok = false
			continue
		}
		res.SetMapIndex(k, reflect.Zero(typ.Elem()))
	}
	if ok {
		val.Set(res)
	}
	return ok, nil
}

func (r *Resolution) mapping(node *ir.Node, val reflect.Value) (bool, error) {
	if node.Type != ir.MapType {
		return false, r.Report(node, incompatible(node, ir.MapType))
	}
	typ := val.Type()
	res := reflect.MakeMapWithSize(typ, len(node.Fields))
	ok, err := r.entries(node, res, func(int) bool { return true })
	if err != nil {
		return false, err
	}
	if ok {
		val.Set(res)
	}
	return ok, nil
}

// entries resolves the selected entries of node into the map res.
func (r *Resolution) entries(node *ir.Node, res reflect.Value, sel func(int) bool) (bool, error) {
	typ := res.Type()
	ok := true
	for i, f := range node.Fields {
		if !sel(i) {
			continue
		}
		k := reflect.New(typ.Key()).Elem()
		kok, err := r.value(f, k)
		if err != nil {
			return false, err
		}
		v := reflect.New(typ.Elem()).Elem()
		vok, err := r.value(node.Values[i], v)
		if err != nil {
			return false, err
		}
		if kok && vok {
			res.SetMapIndex(k, v)
			continue
		}
		ok = false
	}
	return ok, nil
}

func (r *Resolution) structure(node *ir.Node, val reflect.Value, info *StructInfo) (bool, error) {
	if info.Single != nil {
		tv := reflect.New(info.Single.Type).Elem()
		tok, err := r.trial().value(node, tv)
		if err != nil {
			return false, err
		}
		if tok {
			val.FieldByIndex(info.Single.Index).Set(tv)
			return true, nil
		}
	}
	if node.Type != ir.MapType {
		return false, r.Report(node, incompatible(node, ir.MapType))
	}
	consumed := make([]bool, len(node.Fields))
	var cites map[string]ir.Citation
	if info.Citations != nil {
		cites = map[string]ir.Citation{}
	}
	ok := true
	for _, f := range info.Fields {
		fok, err := r.field(node, val, f, consumed, cites)
		if err != nil {
			return false, err
		}
		ok = ok && fok
	}
	if cites != nil {
		val.FieldByIndex(info.Citations.Index).Set(reflect.ValueOf(cites))
	}
	ook, err := r.unconsumed(node, val, info, consumed)
	if err != nil {
		return false, err
	}
	return ok && ook, nil
}

func (r *Resolution) field(node *ir.Node, val reflect.Value, f *FieldInfo, consumed []bool, cites map[string]ir.Citation) (bool, error) {
	fv := val.FieldByIndex(f.Index)
	i := node.Index(ir.FromString(f.Key))
	if i < 0 {
		switch {
		case f.Required:
			return false, r.Report(node, &MissingRequiredKeyError{Key: f.Key})
		case f.program != nil:
			return r.byDefault(node, fv, f)
		}
		return true, nil
	}
	consumed[i] = true
	v := node.Values[i]
	if cites != nil {
		cites[f.Key] = r.Cite(v)
	}
	if v.Type == ir.NullType {
		switch {
		case f.IgnoreNull:
			return true, nil
		case f.program != nil:
			return r.byDefault(v, fv, f)
		}
	}
	return r.value(v, fv)
}

// byDefault fills fv from the null= expression of f; at is the node the
// default stands in for.
func (r *Resolution) byDefault(at *ir.Node, fv reflect.Value, f *FieldInfo) (bool, error) {
	y, err := evalDefault(f)
	if err != nil {
		return false, r.Report(at, err)
	}
	tv := reflect.New(fv.Type()).Elem()
	ok, err := r.trial().value(y, tv)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, r.Report(at, &DefaultError{Field: f.Name, Err: fmt.Errorf("%s value does not fit %s", y.Type, fv.Type())})
	}
	fv.Set(tv)
	return true, nil
}

func (r *Resolution) unconsumed(node *ir.Node, val reflect.Value, info *StructInfo, consumed []bool) (bool, error) {
	rest := func(i int) bool { return !consumed[i] }
	switch {
	case info.Other != nil:
		ov := val.FieldByIndex(info.Other.Index)
		if ov.Type() == nodePtrType {
			res := ir.NewMap()
			for i, f := range node.Fields {
				if rest(i) {
					res.Set(f.Clone(), node.Values[i].Clone())
				}
			}
			ov.Set(reflect.ValueOf(res))
			return true, nil
		}
		res := reflect.MakeMap(ov.Type())
		ok, err := r.entries(node, res, rest)
		if err != nil {
			return false, err
		}
		ov.Set(res)
		return ok, nil
	case info.IgnoreUnknown:
		return true, nil
	}
	ok := true
	for i, f := range node.Fields {
		if !rest(i) {
			continue
		}
		ok = false
		if err := r.Report(f, &InvalidKeyError{Key: f}); err != nil {
			return false, err
		}
	}
	return ok, nil
}
