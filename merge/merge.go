// Package merge combines IR trees in place.
//
// Lists merge under a ListPolicy, maps merge entry by entry: new keys are
// inserted and values under matching keys merge recursively when both are
// containers of the same kind. Other kinds do not participate.
package merge

import (
	"fmt"

	"github.com/signadot/xval/debug"
	"github.com/signadot/xval/ir"
)

type ListPolicy int

const (
	// Append concatenates the source items.
	Append ListPolicy = iota
	// SkipExisting appends source items the destination does not contain.
	SkipExisting
	// FailExisting is SkipExisting that reports each contained item.
	FailExisting
	// Replace swaps in the source items when the lists differ.
	Replace
)

type MapPolicy int

const (
	// MapOverride replaces differing values under an existing key.
	MapOverride MapPolicy = iota
	// MapFailExisting reports existing keys whose values differ and cannot
	// be merged recursively.
	MapFailExisting
)

type Mode struct {
	List ListPolicy
	Map  MapPolicy
}

// ExistsError reports a list item or map key the destination already has.
type ExistsError struct {
	Path  []ir.Step
	Value *ir.Node
}

func (e *ExistsError) Error() string {
	p, _ := ir.PathString(e.Path)
	if p == "" {
		return fmt.Sprintf("%s already exists", e.Value.MapStringKey())
	}
	return fmt.Sprintf("%s: %s already exists", p, e.Value.MapStringKey())
}

// Reporter receives recoverable merge errors. A non-nil return stops the
// merge. A nil Reporter stops at the first error.
type Reporter func(*ExistsError) error

// Merge merges src into dst and reports whether dst changed. src is not
// modified and no node of src ends up shared with dst.
func Merge(dst, src *ir.Node, mode Mode, rep Reporter) (bool, error) {
	m := &merger{mode: mode, rep: rep}
	return m.merge(dst, src)
}

type merger struct {
	mode Mode
	rep  Reporter
	path []ir.Step
}

func (m *merger) report(v *ir.Node) error {
	e := &ExistsError{Path: append([]ir.Step(nil), m.path...), Value: v}
	if debug.Merge() {
		debug.Logf("merge: %s\n", e)
	}
	if m.rep == nil {
		return e
	}
	return m.rep(e)
}

func (m *merger) merge(dst, src *ir.Node) (bool, error) {
	if dst.Type != src.Type {
		return false, nil
	}
	switch dst.Type {
	case ir.ListType:
		return m.list(dst, src)
	case ir.MapType:
		return m.mapping(dst, src)
	}
	return false, nil
}

func contains(vs []*ir.Node, y *ir.Node) bool {
	for _, v := range vs {
		if ir.Equal(v, y) {
			return true
		}
	}
	return false
}

func (m *merger) list(dst, src *ir.Node) (bool, error) {
	switch m.mode.List {
	case Append:
		for _, v := range src.Values {
			dst.Values = append(dst.Values, v.Clone())
		}
		return len(src.Values) > 0, nil
	case Replace:
		if ir.Equal(dst, src) {
			return false, nil
		}
		dst.Values = src.Clone().Values
		return true, nil
	}
	changed := false
	for _, v := range src.Values {
		if !contains(dst.Values, v) {
			dst.Values = append(dst.Values, v.Clone())
			changed = true
			continue
		}
		if m.mode.List == FailExisting {
			if err := m.report(v); err != nil {
				return changed, err
			}
		}
	}
	return changed, nil
}

func (m *merger) mapping(dst, src *ir.Node) (bool, error) {
	changed := false
	for i, k := range src.Fields {
		v := src.Values[i]
		j := dst.Index(k)
		if j < 0 {
			dst.Fields = append(dst.Fields, k.Clone())
			dst.Values = append(dst.Values, v.Clone())
			changed = true
			continue
		}
		dv := dst.Values[j]
		if dv.Type == v.Type && (v.Type == ir.ListType || v.Type == ir.MapType) {
			m.path = append(m.path, ir.MapKey(dst.Fields[j]))
			sub, err := m.merge(dv, v)
			m.path = m.path[:len(m.path)-1]
			changed = changed || sub
			if err != nil {
				return changed, err
			}
			continue
		}
		if ir.Equal(dv, v) {
			continue
		}
		if m.mode.Map == MapFailExisting {
			if err := m.report(k); err != nil {
				return changed, err
			}
			continue
		}
		dst.Values[j] = v.Clone()
		changed = true
	}
	return changed, nil
}

// Overlay folds nodes left to right into a copy of the first. A node whose
// kind differs from the accumulated tree replaces it.
func Overlay(mode Mode, rep Reporter, nodes ...*ir.Node) (*ir.Node, error) {
	if len(nodes) == 0 {
		return ir.Null(), nil
	}
	res := nodes[0].Clone()
	for _, y := range nodes[1:] {
		if y.Type != res.Type || (y.Type != ir.ListType && y.Type != ir.MapType) {
			res = y.Clone()
			continue
		}
		if _, err := Merge(res, y, mode, rep); err != nil {
			return nil, err
		}
	}
	return res, nil
}
