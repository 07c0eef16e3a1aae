package resolve

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/expr-lang/expr/vm"

	"github.com/signadot/xval/ir"
)

// Meta carries struct options in its tag when embedded:
//
//	resolve.Meta `resolve:"ignore-unknown"`
type Meta struct{}

// StructInfo is the descriptor of a struct type.
type StructInfo struct {
	Type          reflect.Type
	Fields        []*FieldInfo
	IgnoreUnknown bool

	// Other, Citations and Single are the fields carrying those options.
	Other     *FieldInfo
	Citations *FieldInfo
	Single    *FieldInfo
}

// FieldInfo is the descriptor of one struct field.
type FieldInfo struct {
	Name  string
	Key   string
	Index []int
	Type  reflect.Type

	Required   bool
	IgnoreNull bool
	// Null is the source of the null= expression.
	Null string

	program *vm.Program
}

var (
	metaType     = reflect.TypeFor[Meta]()
	citationType = reflect.TypeFor[ir.Citation]()
	nodePtrType  = reflect.TypeFor[*ir.Node]()

	structInfos sync.Map // reflect.Type -> *StructInfo
)

// GetStructInfo returns the cached descriptor of a struct type.
func GetStructInfo(typ reflect.Type) (*StructInfo, error) {
	if v, ok := structInfos.Load(typ); ok {
		return v.(*StructInfo), nil
	}
	info, err := newStructInfo(typ)
	if err != nil {
		return nil, err
	}
	v, _ := structInfos.LoadOrStore(typ, info)
	return v.(*StructInfo), nil
}

func newStructInfo(typ reflect.Type) (*StructInfo, error) {
	if typ.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %s is not a struct", ErrUnsupportedType, typ)
	}
	info := &StructInfo{Type: typ}
	if err := info.addFields(typ, nil); err != nil {
		return nil, err
	}
	seen := map[string]string{}
	for _, f := range info.Fields {
		if prev, ok := seen[f.Key]; ok {
			return nil, fmt.Errorf("%w: %s: fields %s and %s both read key %q", ErrTag, typ, prev, f.Name, f.Key)
		}
		seen[f.Key] = f.Name
	}
	return info, nil
}

// addFields collects the fields of typ, flattening embedded structs.
func (info *StructInfo) addFields(typ reflect.Type, index []int) error {
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		tag, err := ParseStructTag(field.Tag.Get("resolve"))
		if err != nil {
			return fmt.Errorf("%s.%s: %w", typ, field.Name, err)
		}
		if field.Type == metaType {
			_, info.IgnoreUnknown = tag["ignore-unknown"]
			continue
		}
		if _, ok := tag["-"]; ok {
			continue
		}
		fullIndex := append(append([]int(nil), index...), i)
		if field.Anonymous && field.Type.Kind() == reflect.Struct && len(tag) == 0 {
			if err := info.addFields(field.Type, fullIndex); err != nil {
				return err
			}
			continue
		}
		if !field.IsExported() {
			continue
		}
		f := &FieldInfo{
			Name:  field.Name,
			Key:   lowerFirst(field.Name),
			Index: fullIndex,
			Type:  field.Type,
		}
		if key, ok := tag["key"]; ok && key != "" {
			f.Key = key
		}
		_, f.Required = tag["required"]
		_, f.IgnoreNull = tag["ignore-null"]
		if src, ok := tag["null"]; ok {
			prg, err := compileDefault(src)
			if err != nil {
				return fmt.Errorf("%w: %s.%s: null=%q: %v", ErrTag, typ, field.Name, src, err)
			}
			f.Null, f.program = src, prg
		}
		special := 0
		if _, ok := tag["other"]; ok {
			if !otherCollector(field.Type) {
				return fmt.Errorf("%w: %s.%s: other needs a map or *ir.Node, not %s", ErrTag, typ, field.Name, field.Type)
			}
			info.Other = f
			special++
		}
		if _, ok := tag["citations"]; ok {
			if field.Type != reflect.MapOf(reflect.TypeFor[string](), citationType) {
				return fmt.Errorf("%w: %s.%s: citations needs map[string]ir.Citation, not %s", ErrTag, typ, field.Name, field.Type)
			}
			info.Citations = f
			special++
		}
		if special > 1 {
			return fmt.Errorf("%w: %s.%s: other and citations are exclusive", ErrTag, typ, field.Name)
		}
		if _, ok := tag["single"]; ok {
			if info.Single != nil {
				return fmt.Errorf("%w: %s: more than one single field", ErrTag, typ)
			}
			info.Single = f
		}
		if special == 0 {
			info.Fields = append(info.Fields, f)
		}
	}
	return nil
}

func otherCollector(t reflect.Type) bool {
	return t == nodePtrType || t.Kind() == reflect.Map
}

func lowerFirst(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[n:]
}

// ParseStructTag parses `resolve:"flag,key=value,key='value, with comma'"`
// into a map; flags map to "".
func ParseStructTag(tag string) (map[string]string, error) {
	res := map[string]string{}
	if tag == "" {
		return res, nil
	}
	var parts []string
	var current strings.Builder
	var quote byte
	for i := 0; i < len(tag); i++ {
		c := tag[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
			current.WriteByte(c)
		case c == '\'' || c == '"':
			quote = c
			current.WriteByte(c)
		case c == ',':
			parts = append(parts, current.String())
			current.Reset()
		default:
			current.WriteByte(c)
		}
	}
	if quote != 0 {
		return nil, fmt.Errorf("%w: unterminated quote in %q", ErrTag, tag)
	}
	parts = append(parts, current.String())
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, value, ok := strings.Cut(part, "=")
		key = strings.TrimSpace(key)
		if key == "" {
			return nil, fmt.Errorf("%w: empty key in %q", ErrTag, part)
		}
		if ok {
			value = unquoteValue(strings.TrimSpace(value))
		}
		res[key] = value
	}
	return res, nil
}

func unquoteValue(v string) string {
	if len(v) >= 2 && (v[0] == '\'' || v[0] == '"') && v[len(v)-1] == v[0] {
		return v[1 : len(v)-1]
	}
	return v
}
