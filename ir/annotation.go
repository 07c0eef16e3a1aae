package ir

import (
	"fmt"
	"strconv"
)

// Location is a position in a source document. Index is a byte offset, or
// -1 when unknown. Row and Column are 1-based; 0 means unknown.
type Location struct {
	Index  int64
	Row    int
	Column int
}

func NewLocation(index int64, row, col int) Location {
	return Location{Index: index, Row: row, Column: col}
}

// UnknownLocation is a Location with no information.
func UnknownLocation() Location {
	return Location{Index: -1}
}

func (l Location) IsKnown() bool {
	return l.Index >= 0 || l.Row > 0
}

func (l Location) String() string {
	switch {
	case l.Row > 0 && l.Column > 0:
		return strconv.Itoa(l.Row) + ":" + strconv.Itoa(l.Column)
	case l.Row > 0:
		return strconv.Itoa(l.Row)
	case l.Index >= 0:
		return "@" + strconv.FormatInt(l.Index, 10)
	}
	return "?"
}

type Span struct {
	Start Location
	End   *Location
}

func (s Span) String() string {
	if s.End == nil {
		return s.Start.String()
	}
	return s.Start.String() + "-" + s.End.String()
}

// Annotation records where a node came from.
type Annotation struct {
	Source string
	Span   Span
	Label  string
}

func NewAnnotation(source string, start Location) *Annotation {
	return &Annotation{Source: source, Span: Span{Start: start}}
}

func (a *Annotation) Clone() *Annotation {
	if a == nil {
		return nil
	}
	res := *a
	if a.Span.End != nil {
		end := *a.Span.End
		res.Span.End = &end
	}
	return &res
}

func (a *Annotation) String() string {
	if a == nil {
		return ""
	}
	res := a.Span.String()
	if a.Source != "" {
		res = a.Source + ":" + res
	}
	if a.Label != "" {
		res = fmt.Sprintf("%s (%s)", res, a.Label)
	}
	return res
}

// Location returns the start location of y, or nil when y is not
// annotated.
func (y *Node) Location() *Location {
	if y == nil || y.Annotation == nil {
		return nil
	}
	loc := y.Annotation.Span.Start
	return &loc
}

// StripAnnotations removes annotations from y and all of its descendants.
func (y *Node) StripAnnotations() {
	_ = y.Visit(func(n *Node, isPost bool) (bool, error) {
		if !isPost {
			n.Annotation = nil
		}
		return true, nil
	})
}
