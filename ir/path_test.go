package ir

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFindPath(t *testing.T) {
	target := FromInt(3)
	a := FromSlice([]*Node{FromInt(1), FromInt(2), target})
	root := FromKeyVals([]KeyVal{{FromString("a"), a}})

	steps, ok := FindPath(root, target)
	if !ok {
		t.Fatal("not found")
	}
	if got, _ := PathString(steps); got != "a[2]" {
		t.Errorf("got %q, want a[2]", got)
	}

	steps, ok = FindPath(root, root)
	if !ok || len(steps) != 0 {
		t.Errorf("self path: %v %v", steps, ok)
	}

	// structurally equal but a different node
	if _, ok := FindPath(root, FromInt(3)); ok {
		t.Error("found a node by value")
	}
	if _, ok := FindPath(target, root); ok {
		t.Error("found an ancestor from a descendant")
	}
}

func TestFindPathInKey(t *testing.T) {
	inner := FromString("k")
	key := FromSlice([]*Node{inner})
	root := FromKeyVals([]KeyVal{{key, Null()}})
	steps, ok := FindPath(root, inner)
	if !ok {
		t.Fatal("key descendant not found")
	}
	if !steps[0].InKey {
		t.Error("step into key not marked")
	}
	if _, linear := PathString(steps); linear {
		t.Error("path through a key rendered as linear")
	}
	if root.Descend(steps) != inner {
		t.Error("Descend did not follow the key")
	}
}

func TestPathStringRoundTrip(t *testing.T) {
	tests := []struct {
		steps []Step
		want  string
	}{
		{nil, ""},
		{[]Step{MapKey(FromString("a")), MapKey(FromString("b"))}, "a.b"},
		{[]Step{ListIndex(0), MapKey(FromString("x_1"))}, "[0].x_1"},
		{[]Step{MapKey(FromString("b c")), ListIndex(4)}, `["b c"][4]`},
		{[]Step{MapKey(FromString("a]\"b"))}, `["a]\"b"]`},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got, ok := PathString(tt.steps)
			if !ok || got != tt.want {
				t.Fatalf("got %q %v, want %q", got, ok, tt.want)
			}
			back, err := ParsePath(got)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.steps, back, cmp.Comparer(Equal)); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
		})
	}
}

func TestParsePathErrors(t *testing.T) {
	for _, p := range []string{"a[", "a[x]", `a["b]`} {
		if _, err := ParsePath(p); err == nil {
			t.Errorf("%q: expected error", p)
		}
	}
}

func TestCite(t *testing.T) {
	leaf := FromString("v").WithAnnotation(NewAnnotation("doc.yaml", NewLocation(10, 3, 7)))
	root := FromKeyVals([]KeyVal{{FromString("list"), FromSlice([]*Node{leaf})}})

	c := Cite(root, leaf, "")
	if got, want := c.String(), "doc.yaml:3:7: list[0]"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	c = Cite(root, leaf, "override")
	if c.Source != "override" {
		t.Errorf("source %q", c.Source)
	}
	c = Cite(nil, FromInt(1), "")
	if c.String() != "" {
		t.Errorf("empty citation rendered %q", c.String())
	}
}
