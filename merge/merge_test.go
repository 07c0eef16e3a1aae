package merge

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/signadot/xval/encode"
	"github.com/signadot/xval/ir"
	"github.com/signadot/xval/parse"
)

func y(t *testing.T, s string) *ir.Node {
	t.Helper()
	res, err := parse.Parse([]byte(s))
	if err != nil {
		t.Fatal(err)
	}
	return res
}

func TestMergeLists(t *testing.T) {
	tests := []struct {
		policy  ListPolicy
		dst     string
		src     string
		want    string
		changed bool
		errs    int
	}{
		{Append, "[1, 2]", "[2, 3]", "[1, 2, 2, 3]", true, 0},
		{Append, "[1]", "[]", "[1]", false, 0},
		{SkipExisting, "[1, 2]", "[2, 3, 3]", "[1, 2, 3]", true, 0},
		{SkipExisting, "[1, {a: 1}]", "[{a: 1}]", "[1, {a: 1}]", false, 0},
		{FailExisting, "[1, 2]", "[2, 3, 1]", "[1, 2, 3]", true, 2},
		{Replace, "[1, 2]", "[3]", "[3]", true, 0},
		{Replace, "[1, 2]", "[1, 2]", "[1, 2]", false, 0},
	}
	for _, tt := range tests {
		dst := y(t, tt.dst)
		var errs []*ExistsError
		changed, err := Merge(dst, y(t, tt.src), Mode{List: tt.policy}, func(e *ExistsError) error {
			errs = append(errs, e)
			return nil
		})
		if err != nil {
			t.Fatal(err)
		}
		if changed != tt.changed {
			t.Errorf("%v %s+%s: changed %v", tt.policy, tt.dst, tt.src, changed)
		}
		if len(errs) != tt.errs {
			t.Errorf("%v %s+%s: errors %v", tt.policy, tt.dst, tt.src, errs)
		}
		if !ir.Equal(dst, y(t, tt.want)) {
			t.Errorf("%v %s+%s: got %s want %s", tt.policy, tt.dst, tt.src, dst.MapStringKey(), tt.want)
		}
	}
}

func TestMergeMaps(t *testing.T) {
	dst := y(t, "a: 1\nb: {x: [1]}\nc: keep\n")
	src := y(t, "b: {x: [2], y: 3}\na: 2\nd: new\n")
	changed, err := Merge(dst, src, Mode{List: Append}, nil)
	if err != nil || !changed {
		t.Fatalf("changed %v, err %v", changed, err)
	}
	want := y(t, "a: 2\nb: {x: [1, 2], y: 3}\nc: keep\nd: new\n")
	if !ir.Equal(want, dst) {
		t.Errorf("got %s", encode.MustString(dst))
	}
	var keys []string
	for _, k := range dst.Fields {
		keys = append(keys, k.String)
	}
	if diff := cmp.Diff([]string{"a", "b", "c", "d"}, keys); diff != "" {
		t.Errorf("key order (-want +got):\n%s", diff)
	}
	if src.GetString("b").GetString("x").Len() != 1 {
		t.Error("source modified")
	}
}

func TestMergeMapFailExisting(t *testing.T) {
	dst := y(t, "a: 1\nb: {x: 1, y: 2}\nsame: 5\n")
	src := y(t, "a: 2\nb: {x: 9, z: 3}\nsame: 5\nl: [1]\n")
	var errs []*ExistsError
	changed, err := Merge(dst, src, Mode{Map: MapFailExisting}, func(e *ExistsError) error {
		errs = append(errs, e)
		return nil
	})
	if err != nil || !changed {
		t.Fatalf("changed %v, err %v", changed, err)
	}
	var got []string
	for _, e := range errs {
		got = append(got, e.Error())
	}
	if diff := cmp.Diff([]string{"a already exists", "b: x already exists"}, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if dst.GetString("a").Int != 1 || dst.GetString("b").GetString("z") == nil {
		t.Errorf("got %s", dst.MapStringKey())
	}

	_, err = Merge(y(t, "a: 1"), y(t, "a: 2"), Mode{Map: MapFailExisting}, nil)
	var ee *ExistsError
	if !errors.As(err, &ee) {
		t.Errorf("nil reporter: got %v", err)
	}
}

func TestMergeIdempotent(t *testing.T) {
	docs := []*ir.Node{
		y(t, "a: [1, 2, {b: c}]\nd: {e: f}\n"),
		y(t, "[1, [2, 3], {x: null}]"),
		y(t, "{}"),
		ir.FromKeyVals([]ir.KeyVal{
			{Key: ir.FromSlice([]*ir.Node{ir.FromInt(1), ir.FromInt(2)}), Val: ir.FromString("v")},
			{Key: ir.FromString("k"), Val: ir.FromBytes([]byte("hi"))},
		}),
	}
	for _, policy := range []ListPolicy{SkipExisting, FailExisting, Replace} {
		for _, d := range docs {
			dst := d.Clone()
			changed, err := Merge(dst, d.Clone(), Mode{List: policy}, nil)
			if policy == FailExisting {
				if err == nil && dst.Len() > 0 && dst.Type == ir.ListType {
					t.Errorf("%s: duplicates not reported", d.MapStringKey())
				}
				continue
			}
			if err != nil || changed {
				t.Errorf("%v %s: changed %v, err %v", policy, d.MapStringKey(), changed, err)
			}
			if !ir.Equal(dst, d) {
				t.Errorf("%v %s: got %s", policy, d.MapStringKey(), dst.MapStringKey())
			}
		}
	}
}

func TestMergeScalarsNoop(t *testing.T) {
	dst := ir.FromInt(1)
	changed, err := Merge(dst, ir.FromInt(2), Mode{}, nil)
	if changed || err != nil || dst.Int != 1 {
		t.Errorf("changed %v err %v dst %d", changed, err, dst.Int)
	}
	changed, _ = Merge(y(t, "[1]"), y(t, "{a: 1}"), Mode{}, nil)
	if changed {
		t.Error("list and map merged")
	}
}

func TestOverlay(t *testing.T) {
	base := y(t, "name: svc\nports: [80]\nenv: {A: 1}\n")
	prod := y(t, "ports: [443]\nenv: {B: 2}\n")
	local := y(t, "env: {A: 3}\n")
	got, err := Overlay(Mode{List: SkipExisting}, nil, base, prod, local)
	if err != nil {
		t.Fatal(err)
	}
	want := y(t, "name: svc\nports: [80, 443]\nenv: {A: 3, B: 2}\n")
	if !ir.Equal(want, got) {
		t.Errorf("got %s", got.MapStringKey())
	}
	if base.GetString("ports").Len() != 1 {
		t.Error("first overlay modified")
	}

	got, _ = Overlay(Mode{}, nil, base, ir.FromString("replaced"))
	if got.String != "replaced" {
		t.Errorf("got %s", got.MapStringKey())
	}
}
