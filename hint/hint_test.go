package hint

import "testing"

func TestName(t *testing.T) {
	tests := []struct {
		key  string
		hint string
		n    int
	}{
		{"$hint.int", Int, 1},
		{"$$hint.map", Map, 2},
		{"$$$hint.bytes", Bytes, 3},
		{"$hint.float", Float, 1},
		{"hint.int", "", 0},
		{"$hint.ints", "", 0},
		{"$", "", 0},
		{"", "", 0},
	}
	for _, tt := range tests {
		h, n := Name(tt.key)
		if h != tt.hint || n != tt.n {
			t.Errorf("%q: got %q %d, want %q %d", tt.key, h, n, tt.hint, tt.n)
		}
	}
}

func TestEscapeRoundTrip(t *testing.T) {
	for _, key := range []string{"$hint.uint", "$$hint.uint", "plain", "$other", "$hint.map"} {
		esc := Escape(key)
		if _, n := Name(esc); n == 1 {
			t.Errorf("%q escaped to an active hint %q", key, esc)
		}
		got, _ := Unescape(esc)
		if esc == key {
			got = esc
		}
		if got != key {
			t.Errorf("%q: escape round trip gave %q", key, got)
		}
	}
	if _, ok := Unescape(Int); ok {
		t.Error("an active hint was unescaped")
	}
}
