package resolve

import (
	"errors"
	"net/netip"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/signadot/xval/ir"
	"github.com/signadot/xval/parse"
)

func mustParse(t *testing.T, in string, opts ...parse.ParseOption) *ir.Node {
	t.Helper()
	y, err := parse.Parse([]byte(in), opts...)
	if err != nil {
		t.Fatal(err)
	}
	return y
}

type customer struct {
	Name  string         `resolve:"required"`
	Other map[string]any `resolve:"other"`
}

func TestResolveCollectsOther(t *testing.T) {
	var errs ErrorList
	got, err := Resolve[customer](mustParse(t, `{"name":"Shiri","mystery":456}`, parse.ParseJSON()), &errs)
	if err != nil {
		t.Fatal(err)
	}
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	want := &customer{Name: "Shiri", Other: map[string]any{"mystery": int64(456)}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

type account struct {
	Credit int `resolve:"required"`
}

type person struct {
	Name   string `resolve:"required"`
	Credit int    `resolve:"required"`
}

func TestResolveAccumulates(t *testing.T) {
	in := mustParse(t, `{"credit":"not a number"}`, parse.ParseJSON())

	var errs ErrorList
	got, err := Resolve[account](in, &errs)
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Errorf("got %+v, want nil", got)
	}
	if len(errs) != 1 {
		t.Fatalf("got %d errors: %v", len(errs), errs)
	}
	var ite *ir.IncompatibleTypeError
	if !errors.As(errs[0], &ite) || ite.Actual != ir.StringType {
		t.Errorf("got %v", errs[0])
	}
	if p := errs[0].Citation.PathString(); p != "credit" {
		t.Errorf("citation path %q", p)
	}

	errs = nil
	if _, err := Resolve[person](in, &errs); err != nil {
		t.Fatal(err)
	}
	if len(errs) != 2 {
		t.Fatalf("got %d errors: %v", len(errs), errs)
	}
	var missing *MissingRequiredKeyError
	if !errors.As(errs[0], &missing) || missing.Key != "name" {
		t.Errorf("first error %v", errs[0])
	}
}

func TestFailFast(t *testing.T) {
	in := mustParse(t, `{"credit":"x"}`, parse.ParseJSON())
	got, err := Resolve[person](in, FailFast)
	if got != nil || err == nil {
		t.Fatalf("got %v, %v", got, err)
	}
	var re *Error
	if !errors.As(err, &re) {
		t.Fatalf("fatal error %T is not a report", err)
	}
	var missing *MissingRequiredKeyError
	if !errors.As(err, &missing) {
		t.Errorf("got %v, want the first report", err)
	}
}

type strict struct {
	A int
}

type lenient struct {
	Meta `resolve:"ignore-unknown"`
	A    int
}

func TestUnknownKeys(t *testing.T) {
	in := mustParse(t, "a: 1\nb: 2\nc: 3\n")
	var errs ErrorList
	if got, _ := Resolve[strict](in, &errs); got != nil {
		t.Errorf("got %+v", got)
	}
	var keys []string
	for _, e := range errs {
		var ike *InvalidKeyError
		if !errors.As(e, &ike) {
			t.Fatalf("got %v", e)
		}
		keys = append(keys, ike.Key.String)
	}
	if diff := cmp.Diff([]string{"b", "c"}, keys); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}

	errs = nil
	got, _ := Resolve[lenient](in, &errs)
	if got == nil || got.A != 1 || len(errs) != 0 {
		t.Errorf("got %+v, %v", got, errs)
	}
}

type limits struct {
	Max     int     `resolve:"null='40 + 2'"`
	Ratio   float64 `resolve:"key=ratio_pct,null=0.5"`
	Label   string  `resolve:"ignore-null"`
	Comment *string
	Skipped string `resolve:"-"`
}

func TestNullHandling(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want limits
	}{
		{"missing", "{}", limits{Max: 42, Ratio: 0.5, Label: "keep"}},
		{"null", "max: null\nratio_pct: ~\nlabel: null\ncomment: null\n", limits{Max: 42, Ratio: 0.5, Label: "keep"}},
		{"present", "max: 3\nratio_pct: 1.5\nlabel: x\n", limits{Max: 3, Ratio: 1.5, Label: "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := limits{Label: "keep"}
			ok, err := Into(mustParse(t, tt.in), &got, FailFast)
			if err != nil || !ok {
				t.Fatalf("%v %v", ok, err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
		})
	}
	if _, err := Resolve[limits](mustParse(t, "skipped: x\n"), FailFast); err == nil {
		t.Error("skipped field consumed a key")
	}
}

type badDefault struct {
	N int `resolve:"null='oops('"`
}

func TestBadDefaultTag(t *testing.T) {
	_, err := Resolve[badDefault](ir.NewMap(), &ErrorList{})
	if !errors.Is(err, ErrTag) {
		t.Errorf("got %v", err)
	}
}

type mistypedDefault struct {
	N int `resolve:"null='1 > 0'"`
}

func TestMistypedDefault(t *testing.T) {
	var errs ErrorList
	if got, err := Resolve[mistypedDefault](ir.NewMap(), &errs); got != nil || err != nil {
		t.Fatalf("got %v %v", got, err)
	}
	if len(errs) != 1 {
		t.Fatalf("got %v", errs)
	}
	var de *DefaultError
	if !errors.As(errs[0], &de) || de.Field != "N" {
		t.Fatalf("got %v", errs[0])
	}
	if got := de.Error(); got != "default for N: Boolean value does not fit int" {
		t.Errorf("got %q", got)
	}
}

type server struct {
	Host  string
	Port  int
	Cites map[string]ir.Citation `resolve:"citations"`
}

func TestCitations(t *testing.T) {
	in := mustParse(t, "host: example.com\nport: 80x\n",
		parse.ParseAnnotations(true), parse.ParseSource("srv.yaml"))
	var errs ErrorList
	if got, err := Resolve[server](in, &errs); got != nil || err != nil {
		t.Fatalf("got %v %v", got, err)
	}
	if len(errs) != 1 {
		t.Fatalf("got %v", errs)
	}
	if got := errs[0].Error(); !strings.HasPrefix(got, "srv.yaml:2:7: port: incompatible value type") {
		t.Errorf("got %q", got)
	}

	in = mustParse(t, "host: example.com\nport: 80\n", parse.ParseAnnotations(true))
	got, err := Resolve[server](in, FailFast, WithSource("srv.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if c := got.Cites["port"].String(); c != "srv.yaml:2:7: port" {
		t.Errorf("citation %q", c)
	}
	if len(got.Cites) != 2 {
		t.Errorf("citations %v", got.Cites)
	}
}

type endpoint struct {
	URL     string `resolve:"single,key=url"`
	Timeout int
}

func TestSingle(t *testing.T) {
	got, err := Resolve[endpoint](ir.FromString("http://a"), FailFast)
	if err != nil {
		t.Fatal(err)
	}
	if got.URL != "http://a" || got.Timeout != 0 {
		t.Errorf("got %+v", got)
	}
	got, err = Resolve[endpoint](mustParse(t, "url: http://b\ntimeout: 3\n"), FailFast)
	if err != nil {
		t.Fatal(err)
	}
	if got.URL != "http://b" || got.Timeout != 3 {
		t.Errorf("got %+v", got)
	}
}

type shape interface {
	area() float64
}

type circle struct {
	Radius float64
}

func (c circle) area() float64 { return 3 * c.Radius * c.Radius }

type square struct {
	Side float64
}

func (s square) area() float64 { return s.Side * s.Side }

type empty struct{}

func (empty) area() float64 { return 0 }

func init() {
	if err := RegisterEnum[shape](
		VariantOf[circle](""),
		VariantOf[square]("sq"),
		UnitOf[empty]("none"),
	); err != nil {
		panic(err)
	}
}

func TestEnum(t *testing.T) {
	tests := []struct {
		in   string
		area float64
	}{
		{"circle: {radius: 2}", 12},
		{"sq: {side: 3}", 9},
		{"none: whatever", 0},
	}
	for _, tt := range tests {
		got, err := Resolve[[]shape](mustParse(t, tt.in), FailFast)
		if err != nil {
			t.Fatalf("%s: %v", tt.in, err)
		}
		if a := (*got)[0].area(); a != tt.area {
			t.Errorf("%s: area %v, want %v", tt.in, a, tt.area)
		}
	}

	var errs ErrorList
	got, err := Resolve[[]shape](mustParse(t, "- square: {side: 1}\n- {circle: {}, sq: {}}\n- none: 1\n"), &errs)
	if got != nil || err != nil {
		t.Fatalf("got %v %v", got, err)
	}
	if len(errs) != 2 {
		t.Fatalf("got %v", errs)
	}
	var ike *InvalidKeyError
	if !errors.As(errs[0], &ike) || ike.Key.String != "square" {
		t.Errorf("got %v", errs[0])
	}
	var me *MalformedError
	if !errors.As(errs[1], &me) {
		t.Errorf("got %v", errs[1])
	}
}

func TestPairs(t *testing.T) {
	var errs ErrorList
	_, err := Resolve[[]Pair[string, int]](mustParse(t, `[["a",1],["b",2,3],["c","x"]]`, parse.ParseJSON()), &errs)
	if err != nil {
		t.Fatal(err)
	}
	if len(errs) != 2 {
		t.Fatalf("got %v", errs)
	}
	var me *MalformedError
	if !errors.As(errs[0], &me) || errs[0].Citation.PathString() != "[1]" {
		t.Errorf("got %v", errs[0])
	}

	got, err := Resolve[[]Pair[string, int]](mustParse(t, `[["a",1]]`, parse.ParseJSON()), FailFast)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]Pair[string, int]{{"a", 1}}, *got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

type collections struct {
	One    []int
	Set    map[string]struct{}
	ByID   map[int]string
	Fixed  [2]bool
	Opt    *int
	Blob   []byte
	Raw    *ir.Node
	Addr   netip.Addr
	Native any
}

func TestCollections(t *testing.T) {
	in := mustParse(t, strings.Join([]string{
		"one: 5",
		"set: [a, b, a]",
		"byID: {1: x, 2: y}",
		"fixed: [true, false]",
		"opt: 7",
		"blob: !!binary aGk=",
		"raw: {k: [1]}",
		"addr: 10.0.0.1",
		"native: {n: 1}",
	}, "\n"))
	got, err := Resolve[collections](in, FailFast)
	if err != nil {
		t.Fatal(err)
	}
	seven := 7
	want := &collections{
		One:    []int{5},
		Set:    map[string]struct{}{"a": {}, "b": {}},
		ByID:   map[int]string{1: "x", 2: "y"},
		Fixed:  [2]bool{true, false},
		Opt:    &seven,
		Blob:   []byte("hi"),
		Raw:    in.GetString("raw"),
		Addr:   netip.MustParseAddr("10.0.0.1"),
		Native: map[string]any{"n": int64(1)},
	}
	if diff := cmp.Diff(want, got, cmp.Comparer(ir.Equal), cmp.Comparer(func(a, b netip.Addr) bool { return a == b })); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if got.Raw == in.GetString("raw") {
		t.Error("raw node is shared with the input")
	}
}

func TestNarrowing(t *testing.T) {
	var errs ErrorList
	if _, err := Resolve[[]int8](mustParse(t, "[1, 300, -2]"), &errs); err != nil {
		t.Fatal(err)
	}
	if len(errs) != 1 {
		t.Fatalf("got %v", errs)
	}
	var ce *ir.CastingError
	if !errors.As(errs[0], &ce) {
		t.Errorf("got %v", errs[0])
	}
	if p := errs[0].Citation.PathString(); p != "[1]" {
		t.Errorf("path %q", p)
	}
}

type celsius float64

func (c *celsius) ResolveNode(r *Resolution, node *ir.Node) (bool, error) {
	s, err := node.AsString()
	if err != nil {
		return false, r.Report(node, err)
	}
	var f float64
	ok, err := r.Into(mustNumber(s), &f)
	if !ok || err != nil {
		return false, err
	}
	*c = celsius(f)
	return true, nil
}

func mustNumber(s string) *ir.Node {
	y, err := parse.Parse([]byte(strings.TrimSuffix(s, "C")))
	if err != nil {
		return ir.FromString(s)
	}
	return y
}

func TestResolver(t *testing.T) {
	got, err := Resolve[map[string]celsius](mustParse(t, "kitchen: 21.5C\n"), FailFast)
	if err != nil {
		t.Fatal(err)
	}
	if (*got)["kitchen"] != 21.5 {
		t.Errorf("got %v", *got)
	}
}

func TestTarget(t *testing.T) {
	var n int
	if _, err := Into(ir.FromInt(1), n, Discard); !errors.Is(err, ErrTarget) {
		t.Errorf("got %v", err)
	}
	if _, err := Resolve[chan int](ir.FromInt(1), Discard); !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("got %v", err)
	}
}

func TestParseStructTag(t *testing.T) {
	got, err := ParseStructTag(`required, key=a_b,null='1, 2',ignore-null`)
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]string{"required": "", "key": "a_b", "null": "1, 2", "ignore-null": ""}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if _, err := ParseStructTag(`null='x`); !errors.Is(err, ErrTag) {
		t.Errorf("got %v", err)
	}
}
