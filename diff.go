package xval

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/signadot/xval/encode"
	"github.com/signadot/xval/ir"
)

type LineOp int

const (
	LineEqual LineOp = iota
	LineDelete
	LineInsert
)

type DiffLine struct {
	Op   LineOp
	Text string
}

// Difference is a line diff of two documents.
type Difference []DiffLine

// Diff compares the YAML renderings of a and b with map entries sorted,
// so that entry order does not count. It returns nil when they are equal.
func Diff(a, b *ir.Node) (Difference, error) {
	if ir.Equal(a, b) {
		return nil, nil
	}
	as, err := normalString(a)
	if err != nil {
		return nil, err
	}
	bs, err := normalString(b)
	if err != nil {
		return nil, err
	}
	dmp := diffmatchpatch.New()
	ac, bc, lines := dmp.DiffLinesToChars(as, bs)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(ac, bc, false), lines)
	var res Difference
	for _, d := range diffs {
		op := LineEqual
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			op = LineDelete
		case diffmatchpatch.DiffInsert:
			op = LineInsert
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			res = append(res, DiffLine{Op: op, Text: strings.TrimSuffix(line, "\n")})
		}
	}
	return res, nil
}

func normalString(y *ir.Node) (string, error) {
	y = y.Clone()
	_ = y.Visit(func(n *ir.Node, isPost bool) (bool, error) {
		if !isPost && n.Type == ir.MapType {
			sortEntries(n)
		}
		return true, nil
	})
	var b strings.Builder
	if err := encode.Encode(y, &b); err != nil {
		return "", err
	}
	return b.String(), nil
}

func sortEntries(m *ir.Node) {
	idx := make([]int, len(m.Fields))
	for i := range idx {
		idx[i] = i
	}
	slices.SortStableFunc(idx, func(i, j int) int {
		return ir.Compare(m.Fields[i], m.Fields[j])
	})
	fields := make([]*ir.Node, len(idx))
	values := make([]*ir.Node, len(idx))
	for i, j := range idx {
		fields[i], values[i] = m.Fields[j], m.Values[j]
	}
	m.Fields, m.Values = fields, values
}

// Write prints the diff with "-", "+" and " " prefixes, colored when
// colors is set.
func (d Difference) Write(w io.Writer, colors bool) error {
	del, ins := fmt.Sprint, fmt.Sprint
	if colors {
		del = color.New(color.FgRed).Sprint
		ins = color.New(color.FgGreen).Sprint
	}
	for _, l := range d {
		var s string
		switch l.Op {
		case LineDelete:
			s = del("- " + l.Text)
		case LineInsert:
			s = ins("+ " + l.Text)
		default:
			s = "  " + l.Text
		}
		if _, err := fmt.Fprintln(w, s); err != nil {
			return err
		}
	}
	return nil
}
