package resolve

import "github.com/signadot/xval/ir"

// Pair is read from a two-item list.
type Pair[A, B any] struct {
	First  A
	Second B
}

func (p *Pair[A, B]) ResolveNode(r *Resolution, node *ir.Node) (bool, error) {
	if node.Type != ir.ListType {
		return false, r.Report(node, incompatible(node, ir.ListType))
	}
	if len(node.Values) != 2 {
		return false, r.Report(node, malformed("expected a 2-element pair, got %d items", len(node.Values)))
	}
	aok, err := r.Into(node.Values[0], &p.First)
	if err != nil {
		return false, err
	}
	bok, err := r.Into(node.Values[1], &p.Second)
	if err != nil {
		return false, err
	}
	return aok && bok, nil
}
