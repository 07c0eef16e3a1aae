package ir

import (
	"slices"
	"testing"
)

func TestSetOverwrites(t *testing.T) {
	m := NewMap()
	if m.Set(FromInt(1), FromString("a")) {
		t.Fatal("new key reported as existing")
	}
	if !m.Set(FromInt(1), FromString("b")) {
		t.Fatal("existing key reported as new")
	}
	if m.Len() != 1 {
		t.Fatalf("len %d, want 1", m.Len())
	}
	if got := m.Get(FromInt(1)); got.String != "b" {
		t.Errorf("got %q", got.String)
	}
	// composite keys compare structurally
	key := FromSlice([]*Node{FromInt(1), FromString("x")})
	m.Set(key, Null())
	if m.Get(FromSlice([]*Node{FromInt(1), FromString("x")})) == nil {
		t.Error("composite key lookup failed")
	}
	if !m.Delete(key) || m.Len() != 1 {
		t.Error("delete failed")
	}
}

func TestCloneIsDeep(t *testing.T) {
	orig := FromKeyVals([]KeyVal{
		{FromString("b"), FromBytes([]byte{1, 2})},
		{FromString("l"), FromSlice([]*Node{FromInt(1)})},
	})
	orig.Annotation = NewAnnotation("src", NewLocation(0, 1, 1))
	c := orig.Clone()
	c.GetString("b").Bytes[0] = 9
	c.GetString("l").Append(FromInt(2))
	c.Annotation.Source = "other"
	if orig.GetString("b").Bytes[0] != 1 {
		t.Error("bytes shared")
	}
	if orig.GetString("l").Len() != 1 {
		t.Error("list shared")
	}
	if orig.Annotation.Source != "src" {
		t.Error("annotation shared")
	}
}

func TestEach(t *testing.T) {
	tests := []struct {
		name string
		in   *Node
		want int
	}{
		{"list", FromSlice([]*Node{FromInt(1), FromInt(2)}), 2},
		{"empty list", NewList(), 0},
		{"scalar", FromInt(1), 1},
		{"map", NewMap(), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := slices.Collect(tt.in.Each())
			if len(got) != tt.want {
				t.Errorf("got %d items, want %d", len(got), tt.want)
			}
			if tt.in.Type != ListType && got[0] != tt.in {
				t.Error("non-list did not yield itself")
			}
		})
	}
}

func TestVisitOrder(t *testing.T) {
	m := FromKeyVals([]KeyVal{{FromString("k"), FromInt(1)}})
	var order []string
	err := m.Visit(func(y *Node, isPost bool) (bool, error) {
		if !isPost {
			order = append(order, y.Type.String())
		}
		return true, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"Map", "Text", "Integer"}
	if !slices.Equal(order, want) {
		t.Errorf("got %v, want %v", order, want)
	}
}
