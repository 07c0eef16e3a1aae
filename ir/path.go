package ir

import (
	"strconv"
	"strings"
)

// Step is one descent from a container to a child. A nil Key means a list
// index. InKey marks a descent into a map key rather than its value.
type Step struct {
	Index int
	Key   *Node
	InKey bool
}

func ListIndex(i int) Step {
	return Step{Index: i}
}

func MapKey(k *Node) Step {
	return Step{Key: k}
}

// FindPath searches ancestor depth first for descendant, comparing nodes by
// identity. Both keys and values of map entries are searched. It returns
// an empty path when ancestor == descendant and false when descendant is
// not reachable.
func FindPath(ancestor, descendant *Node) ([]Step, bool) {
	if ancestor == nil || descendant == nil {
		return nil, false
	}
	var rev []Step
	if !findPath(ancestor, descendant, &rev) {
		return nil, false
	}
	res := make([]Step, len(rev))
	for i, s := range rev {
		res[len(rev)-1-i] = s
	}
	return res, true
}

// findPath appends steps in reverse order on success.
func findPath(y, target *Node, rev *[]Step) bool {
	if y == target {
		return true
	}
	switch y.Type {
	case ListType:
		for i, v := range y.Values {
			if findPath(v, target, rev) {
				*rev = append(*rev, ListIndex(i))
				return true
			}
		}
	case MapType:
		for i, f := range y.Fields {
			if findPath(f, target, rev) {
				*rev = append(*rev, Step{Key: f, InKey: true})
				return true
			}
			if findPath(y.Values[i], target, rev) {
				*rev = append(*rev, MapKey(f))
				return true
			}
		}
	}
	return false
}

// PathString renders a path like "a.b[2]". A path that descends into a
// map key has no such rendering; PathString returns "", false for it.
func PathString(steps []Step) (string, bool) {
	var buf strings.Builder
	for _, s := range steps {
		if s.InKey {
			return "", false
		}
		if s.Key == nil {
			buf.WriteByte('[')
			buf.WriteString(strconv.Itoa(s.Index))
			buf.WriteByte(']')
			continue
		}
		if s.Key.Type == StringType && isIdent(s.Key.String) {
			if buf.Len() > 0 {
				buf.WriteByte('.')
			}
			buf.WriteString(s.Key.String)
			continue
		}
		buf.WriteByte('[')
		buf.WriteString(strconv.Quote(s.Key.MapStringKey()))
		buf.WriteByte(']')
	}
	return buf.String(), true
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, c := range s {
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case i > 0 && (c == '-' || c >= '0' && c <= '9'):
		default:
			return false
		}
	}
	return true
}

// Descend follows steps from y and returns the node reached, or nil if a
// step does not apply.
func (y *Node) Descend(steps []Step) *Node {
	for _, s := range steps {
		switch {
		case y == nil:
			return nil
		case s.Key == nil:
			if y.Type != ListType || s.Index < 0 || s.Index >= len(y.Values) {
				return nil
			}
			y = y.Values[s.Index]
		case s.InKey:
			i := y.Index(s.Key)
			if i < 0 {
				return nil
			}
			y = y.Fields[i]
		default:
			y = y.Get(s.Key)
		}
	}
	return y
}

// ParsePath parses the rendering produced by PathString. Bracketed quoted
// segments are string keys.
func ParsePath(p string) ([]Step, error) {
	var res []Step
	for i := 0; i < len(p); {
		switch c := p[i]; {
		case c == '.':
			i++
		case c == '[':
			j := strings.IndexByte(p[i:], ']')
			if j < 0 {
				return nil, &PathError{Path: p, Offset: i}
			}
			seg := p[i+1 : i+j]
			if strings.HasPrefix(seg, `"`) {
				end := closingQuote(p, i+1)
				if end < 0 {
					return nil, &PathError{Path: p, Offset: i}
				}
				s, err := strconv.Unquote(p[i+1 : end+1])
				if err != nil || end+1 >= len(p) || p[end+1] != ']' {
					return nil, &PathError{Path: p, Offset: i}
				}
				res = append(res, MapKey(FromString(s)))
				i = end + 2
				continue
			}
			n, err := strconv.Atoi(seg)
			if err != nil {
				return nil, &PathError{Path: p, Offset: i}
			}
			res = append(res, ListIndex(n))
			i += j + 1
		default:
			j := i
			for j < len(p) && p[j] != '.' && p[j] != '[' {
				j++
			}
			res = append(res, MapKey(FromString(p[i:j])))
			i = j
		}
	}
	return res, nil
}

// closingQuote returns the index of the quote ending the Go string literal
// starting at p[start], or -1.
func closingQuote(p string, start int) int {
	for i := start + 1; i < len(p); i++ {
		switch p[i] {
		case '\\':
			i++
		case '"':
			return i
		}
	}
	return -1
}
