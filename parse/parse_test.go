package parse

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/signadot/xval/format"
	"github.com/signadot/xval/ir"
)

func str(s string) *ir.Node { return ir.FromString(s) }

func kv(pairs ...any) *ir.Node {
	res := ir.NewMap()
	for i := 0; i < len(pairs); i += 2 {
		k := pairs[i]
		var yk *ir.Node
		switch x := k.(type) {
		case string:
			yk = str(x)
		case *ir.Node:
			yk = x
		}
		res.Set(yk, pairs[i+1].(*ir.Node))
	}
	return res
}

func list(vs ...*ir.Node) *ir.Node { return ir.FromSlice(vs) }

func nodeDiff(want, got *ir.Node) string {
	return cmp.Diff(want.MapStringKey(), got.MapStringKey())
}

func assertEqual(t *testing.T, want, got *ir.Node) {
	t.Helper()
	if got == nil {
		t.Fatal("got nil node")
	}
	if !ir.Equal(want, got) {
		t.Errorf("(-want +got):\n%s", nodeDiff(want, got))
	}
	if want.Type == ir.MapType {
		for i, f := range want.Fields {
			if gf := got.Fields[i]; !ir.Equal(f, gf) {
				t.Errorf("entry %d: key %s, want %s", i, gf.MapStringKey(), f.MapStringKey())
			}
		}
	}
}

func TestParseYAML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want *ir.Node
	}{
		{"scalars", "a: 1\nb: -2.5\nc: true\nd: ~\ne: text\n",
			kv("a", ir.FromInt(1), "b", ir.FromFloat(-2.5), "c", ir.FromBool(true), "d", ir.Null(), "e", str("text"))},
		{"order kept", "z: 1\na: 2\n", kv("z", ir.FromInt(1), "a", ir.FromInt(2))},
		{"big unsigned", "n: 18446744073709551615\n", kv("n", ir.FromUint(math.MaxUint64))},
		{"sequence", "- 1\n- [a, b]\n", list(ir.FromInt(1), list(str("a"), str("b")))},
		{"binary", "b: !!binary aGVsbG8=\n", kv("b", ir.FromBytes([]byte("hello")))},
		{"forced string", "s: !!str 12\n", kv("s", str("12"))},
		{"literal block", "s: |\n  line\n", kv("s", str("line\n"))},
		{"alias expands", "a: &x [1, 2]\nb: *x\n",
			kv("a", list(ir.FromInt(1), ir.FromInt(2)), "b", list(ir.FromInt(1), ir.FromInt(2)))},
		{"merge key", "base: &b\n  x: 1\n  y: 2\nc:\n  <<: *b\n  y: 3\n",
			kv("base", kv("x", ir.FromInt(1), "y", ir.FromInt(2)),
				"c", kv("y", ir.FromInt(3), "x", ir.FromInt(1)))},
		{"empty", "", ir.Null()},
		{"newline only", "\n", ir.Null()},
		{"comment only", "# only a comment\n", ir.Null()},
		{"bare document marker", "---\n", ir.Null()},
		{"empty forced string", "a: !!str\n", kv("a", str(""))},
		{"forced string null", "a: !!str null\n", kv("a", str("null"))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse([]byte(tt.in))
			if err != nil {
				t.Fatal(err)
			}
			assertEqual(t, tt.want, got)
		})
	}
}

func TestParseEmptyYAMLAnnotated(t *testing.T) {
	for _, in := range []string{"", "\n", "# only a comment\n", "---\n", "---\n---\n"} {
		got, err := Parse([]byte(in), ParseAnnotations(true), ParseAll(true))
		if err != nil {
			t.Errorf("%q: %v", in, err)
			continue
		}
		for _, doc := range got.Values {
			if doc.Type != ir.NullType {
				t.Errorf("%q: got %s want null", in, doc.Type)
			}
		}
	}
}

func TestYAMLAliasIsCopied(t *testing.T) {
	got, err := Parse([]byte("a: &x {k: v}\nb: *x\n"))
	if err != nil {
		t.Fatal(err)
	}
	a, b := got.GetString("a"), got.GetString("b")
	if a == b {
		t.Fatal("alias shares the anchored node")
	}
	b.SetString("k", str("changed"))
	if a.GetString("k").String != "v" {
		t.Error("mutating the alias changed the anchor")
	}
}

func TestYAMLUnknownAlias(t *testing.T) {
	_, err := Parse([]byte("a: *nope\n"))
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, ErrParse) {
		t.Errorf("%v is not a parse error", err)
	}
}

func TestYAMLMultiDoc(t *testing.T) {
	in := "a: 1\n---\nb: 2\n"
	got, err := Parse([]byte(in), ParseAll(true))
	if err != nil {
		t.Fatal(err)
	}
	assertEqual(t, list(kv("a", ir.FromInt(1)), kv("b", ir.FromInt(2))), got)

	_, err = Parse([]byte(in))
	if !errors.Is(err, ErrMultipleDocs) {
		t.Errorf("got %v, want ErrMultipleDocs", err)
	}
}

func TestYAMLAnnotations(t *testing.T) {
	in := "list:\n  - x\n"
	got, err := Parse([]byte(in), ParseAnnotations(true), ParseSource("doc.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	x := got.GetString("list").Values[0]
	loc := x.Location()
	if loc == nil || loc.Row != 2 || loc.Column != 5 {
		t.Fatalf("location %v, want 2:5", loc)
	}
	if loc.Index != int64(strings.Index(in, "x")) {
		t.Errorf("index %d", loc.Index)
	}
	c := ir.Cite(got, x, "")
	if got, want := c.String(), "doc.yaml:2:5: list[0]"; got != want {
		t.Errorf("citation %q, want %q", got, want)
	}

	plain, err := Parse([]byte(in))
	if err != nil {
		t.Fatal(err)
	}
	if plain.Annotation != nil {
		t.Error("annotations attached without ParseAnnotations")
	}
}

func TestParseJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want *ir.Node
	}{
		{"kinds", `{"i": -3, "u": 18446744073709551615, "f": 3.0, "e": 1e2, "s": "x", "n": null, "b": false}`,
			kv("i", ir.FromInt(-3), "u", ir.FromUint(math.MaxUint64), "f", ir.FromFloat(3),
				"e", ir.FromFloat(100), "s", str("x"), "n", ir.Null(), "b", ir.FromBool(false))},
		{"nested", `[[], {}, [1, {"a": [2]}]]`,
			list(list(), kv(), list(ir.FromInt(1), kv("a", list(ir.FromInt(2)))))},
		{"duplicate key keeps last", `{"a": 1, "a": 2}`, kv("a", ir.FromInt(2))},
		{"hints are data", `{"$hint.int": "5"}`, kv("$hint.int", str("5"))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse([]byte(tt.in), ParseJSON())
			if err != nil {
				t.Fatal(err)
			}
			assertEqual(t, tt.want, got)
		})
	}
}

func TestJSONErrors(t *testing.T) {
	for _, in := range []string{``, `{"a": }`, `[1, 2`, `{"a" 1}`} {
		_, err := Parse([]byte(in), ParseJSON())
		if !errors.Is(err, ErrParse) {
			t.Errorf("%q: got %v, want a parse error", in, err)
		}
		var pe *Error
		if errors.As(err, &pe) && pe.Format != format.JSONFormat {
			t.Errorf("%q: format %s", in, pe.Format)
		}
	}
}

func TestJSONLocations(t *testing.T) {
	in := "{\n  \"a\": [1,\n    \"two\"]\n}"
	got, err := Parse([]byte(in), ParseJSON(), ParseAnnotations(true))
	if err != nil {
		t.Fatal(err)
	}
	two := got.GetString("a").Values[1]
	if loc := two.Location(); loc == nil || loc.Row != 3 || loc.Column != 5 {
		t.Errorf("location %v, want 3:5", loc)
	}
	if loc := got.Fields[0].Location(); loc == nil || loc.Row != 2 || loc.Column != 3 {
		t.Errorf("key location %v, want 2:3", loc)
	}
}

func TestJSONStream(t *testing.T) {
	got, err := Parse([]byte("1 {\"a\": 2}\n[3]"), ParseJSON(), ParseAll(true))
	if err != nil {
		t.Fatal(err)
	}
	assertEqual(t, list(ir.FromInt(1), kv("a", ir.FromInt(2)), list(ir.FromInt(3))), got)
}

func TestParseXJSONHints(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want *ir.Node
	}{
		{"int", `{"$hint.int": "-7"}`, ir.FromInt(-7)},
		{"uint", `{"$hint.uint": "18446744073709551615"}`, ir.FromUint(math.MaxUint64)},
		{"bytes", `{"$hint.bytes": "AAEC"}`, ir.FromBytes([]byte{0, 1, 2})},
		{"map", `{"$hint.map": [[1, "one"], [[1, 2], {"$hint.int": "3"}]]}`,
			kv(ir.FromInt(1), str("one"), list(ir.FromInt(1), ir.FromInt(2)), ir.FromInt(3))},
		{"nested in list", `[{"$hint.uint": "1"}]`, list(ir.FromUint(1))},
		{"multi-entry verbatim", `{"$hint.int": "5", "x": 1}`, kv("$hint.int", str("5"), "x", ir.FromInt(1))},
		{"escaped literal", `{"$$hint.int": "5"}`, kv("$hint.int", str("5"))},
		{"double escaped", `{"$$$hint.map": 1}`, kv("$$hint.map", ir.FromInt(1))},
		{"not a hint", `{"$hint.other": "5"}`, kv("$hint.other", str("5"))},
		{"escape in multi-entry", `{"$$hint.bytes": 1, "$$$hint.bytes": 2}`,
			kv("$hint.bytes", ir.FromInt(1), "$$hint.bytes", ir.FromInt(2))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse([]byte(tt.in), ParseXJSON())
			if err != nil {
				t.Fatal(err)
			}
			assertEqual(t, tt.want, got)
		})
	}
}

func TestParseXJSONMalformedHints(t *testing.T) {
	for _, in := range []string{
		`{"$hint.int": 5}`,
		`{"$hint.int": "five"}`,
		`{"$hint.uint": "-1"}`,
		`{"$hint.bytes": "!!"}`,
		`{"$hint.map": {"a": 1}}`,
		`{"$hint.map": [[1]]}`,
	} {
		_, err := Parse([]byte(in), ParseXJSON())
		if !errors.Is(err, ErrHint) {
			t.Errorf("%s: got %v, want ErrHint", in, err)
		}
	}
}

func TestParseXML(t *testing.T) {
	in := `<?xml version="1.0"?>
<map>
  <entry><key><string>s</string></key><value><string> two words </string></value></entry>
  <entry><key><list><int>1</int><uint>2</uint></list></key><value><null/></value></entry>
  <entry><key><bool>true</bool></key><value><bytes>AAE=</bytes></value></entry>
  <entry><key><string>f</string></key><value><float>-Inf</float></value></entry>
  <entry><key><string>e</string></key><value><string encoding="base64">AA==</string></value></entry>
</map>`
	got, err := Parse([]byte(in), ParseXML())
	if err != nil {
		t.Fatal(err)
	}
	want := kv(
		"s", str(" two words "),
		list(ir.FromInt(1), ir.FromUint(2)), ir.Null(),
		ir.FromBool(true), ir.FromBytes([]byte{0, 1}),
		"f", ir.FromFloat(math.Inf(-1)),
		"e", str("\x00"),
	)
	assertEqual(t, want, got)
}

func TestParseXMLErrors(t *testing.T) {
	for _, in := range []string{
		`<int>x</int>`,
		`<thing/>`,
		`<map><entry><key><int>1</int></key></entry></map>`,
		`<list><int>1</int>`,
		`<int><int>1</int></int>`,
	} {
		if _, err := Parse([]byte(in), ParseXML()); !errors.Is(err, ErrParse) {
			t.Errorf("%s: got %v, want a parse error", in, err)
		}
	}
}

func TestParseCBOR(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want *ir.Node
	}{
		{"small int", []byte{0x05}, ir.FromInt(5)},
		{"negative", []byte{0x38, 0x63}, ir.FromInt(-100)},
		{"big uint", []byte{0x1b, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}, ir.FromUint(math.MaxUint64)},
		{"half float", []byte{0xf9, 0x3c, 0x00}, ir.FromFloat(1)},
		{"text", []byte{0x62, 'h', 'i'}, str("hi")},
		{"bytes", []byte{0x42, 0x01, 0x02}, ir.FromBytes([]byte{1, 2})},
		{"indefinite array", []byte{0x9f, 0x01, 0xf5, 0xf6, 0xff}, list(ir.FromInt(1), ir.FromBool(true), ir.Null())},
		{"tag skipped", []byte{0xc1, 0x1a, 0x00, 0x00, 0x00, 0x01}, ir.FromInt(1)},
		{"map with array key", []byte{0xa2, 0x82, 0x01, 0x02, 0x61, 'a', 0x61, 'z', 0x00},
			kv(list(ir.FromInt(1), ir.FromInt(2)), str("a"), "z", ir.FromInt(0))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.in, ParseCBOR())
			if err != nil {
				t.Fatal(err)
			}
			assertEqual(t, tt.want, got)
		})
	}
}

func TestParseCBORErrors(t *testing.T) {
	for _, in := range [][]byte{
		{0x82, 0x01},             // short array
		{0xff},                   // stray break
		{0x3b, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}, // negative overflow
		{0x62, 'h'},              // short text
		{0xa2, 0x01, 0x01, 0x01, 0x02}, // duplicate key
	} {
		if _, err := Parse(in, ParseCBOR()); !errors.Is(err, ErrParse) {
			t.Errorf("% x: got %v, want a parse error", in, err)
		}
	}
}

func TestParseMessagePack(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want *ir.Node
	}{
		{"positive fixint", []byte{0x07}, ir.FromInt(7)},
		{"negative fixint", []byte{0xff}, ir.FromInt(-1)},
		{"uint8", []byte{0xcc, 0x07}, ir.FromUint(7)},
		{"int64", []byte{0xd3, 0, 0, 0, 0, 0, 0, 0, 0x07}, ir.FromInt(7)},
		{"float32", []byte{0xca, 0x3f, 0x80, 0, 0}, ir.FromFloat(1)},
		{"str and bin", []byte{0x92, 0xa1, 'a', 0xc4, 0x01, 0x09}, list(str("a"), ir.FromBytes([]byte{9}))},
		{"map with nil", []byte{0x81, 0xc0, 0xc3}, kv(ir.Null(), ir.FromBool(true))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.in, ParseMessagePack())
			if err != nil {
				t.Fatal(err)
			}
			assertEqual(t, tt.want, got)
		})
	}
}

func TestBinaryOffsets(t *testing.T) {
	got, err := Parse([]byte{0x92, 0x01, 0xa1, 'a'}, ParseMessagePack(), ParseAnnotations(true))
	if err != nil {
		t.Fatal(err)
	}
	if idx := got.Values[1].Location().Index; idx != 2 {
		t.Errorf("msgpack index %d, want 2", idx)
	}
	got, err = Parse([]byte{0x82, 0x01, 0x61, 'a'}, ParseCBOR(), ParseAnnotations(true))
	if err != nil {
		t.Fatal(err)
	}
	if idx := got.Values[1].Location().Index; idx != 2 {
		t.Errorf("cbor index %d, want 2", idx)
	}
}

func TestParseBase64(t *testing.T) {
	// [1, "a"] in CBOR, Base64 wrapped with a line break
	got, err := Parse([]byte("ggFh\nYQ==\n"), ParseCBOR(), ParseBase64(true))
	if err != nil {
		t.Fatal(err)
	}
	assertEqual(t, list(ir.FromInt(1), str("a")), got)
}

func TestParseUnsupported(t *testing.T) {
	_, err := Parse([]byte("x"), ParseFormat(format.Format(99)))
	if !errors.Is(err, format.ErrUnsupported) {
		t.Errorf("got %v", err)
	}
}
