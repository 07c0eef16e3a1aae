package parse

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"
	"github.com/goccy/go-yaml/token"

	"github.com/signadot/xval/format"
	"github.com/signadot/xval/ir"
)

type yamlParser struct {
	opts    *parseOpts
	lines   *lineIndex
	anchors map[string]*ir.Node
}

func parseYAML(d []byte, opts *parseOpts) ([]*ir.Node, error) {
	f, err := parser.ParseBytes(d, 0)
	if err != nil {
		return nil, err
	}
	p := &yamlParser{opts: opts, lines: newLineIndex(d)}
	res := make([]*ir.Node, 0, len(f.Docs))
	for _, doc := range f.Docs {
		// anchors are scoped to their document
		p.anchors = map[string]*ir.Node{}
		if doc.Body == nil {
			res = append(res, p.opts.annotate(ir.Null(), p.tokenLocation(doc.Start)))
			continue
		}
		y, err := p.node(doc.Body)
		if err != nil {
			return nil, err
		}
		res = append(res, y)
	}
	return res, nil
}

func (p *yamlParser) location(n ast.Node) ir.Location {
	// an empty document has no body to take a token from
	if d, ok := n.(*ast.DocumentNode); ok && d.Body == nil {
		return p.tokenLocation(d.Start)
	}
	return p.tokenLocation(n.GetToken())
}

func (p *yamlParser) tokenLocation(tok *token.Token) ir.Location {
	if tok == nil || tok.Position == nil || tok.Position.Line <= 0 {
		return ir.UnknownLocation()
	}
	pos := tok.Position
	line := min(pos.Line, len(p.lines.starts))
	off := p.lines.starts[line-1] + max(pos.Column-1, 0)
	return ir.NewLocation(int64(off), pos.Line, pos.Column)
}

func (p *yamlParser) fail(n ast.Node, err error) error {
	loc := p.location(n)
	return &Error{Format: format.YAMLFormat, Location: &loc, Err: err}
}

func (p *yamlParser) node(n ast.Node) (*ir.Node, error) {
	y, err := p.value(n)
	if err != nil {
		return nil, err
	}
	if y.Annotation == nil {
		p.opts.annotate(y, p.location(n))
	}
	return y, nil
}

func (p *yamlParser) value(n ast.Node) (*ir.Node, error) {
	switch x := n.(type) {
	case *ast.NullNode:
		return ir.Null(), nil
	case *ast.BoolNode:
		return ir.FromBool(x.Value), nil
	case *ast.IntegerNode:
		return yamlInt(x)
	case *ast.FloatNode:
		return ir.FromFloat(x.Value), nil
	case *ast.InfinityNode:
		return ir.FromFloat(x.Value), nil
	case *ast.NanNode:
		return ir.FromFloat(math.NaN()), nil
	case *ast.StringNode:
		return ir.FromString(x.Value), nil
	case *ast.LiteralNode:
		if x.Value == nil {
			return ir.FromString(""), nil
		}
		return ir.FromString(x.Value.Value), nil
	case *ast.SequenceNode:
		res := ir.NewList()
		for _, v := range x.Values {
			yv, err := p.node(v)
			if err != nil {
				return nil, err
			}
			res.Values = append(res.Values, yv)
		}
		return res, nil
	case *ast.MappingNode:
		return p.mapping(x.Values)
	case *ast.MappingValueNode:
		return p.mapping([]*ast.MappingValueNode{x})
	case *ast.MappingKeyNode:
		return p.node(x.Value)
	case *ast.AnchorNode:
		y, err := p.node(x.Value)
		if err != nil {
			return nil, err
		}
		p.anchors[x.Name.GetToken().Value] = y
		return y, nil
	case *ast.AliasNode:
		name := x.Value.GetToken().Value
		src, ok := p.anchors[name]
		if !ok {
			loc := p.location(x)
			return nil, p.fail(x, &ReferenceNotFoundError{Name: name, Index: int(loc.Index)})
		}
		res := src.Clone()
		if p.opts.annotations {
			res.Annotation = ir.NewAnnotation(p.opts.source, p.location(x))
			res.Annotation.Label = "*" + name
		}
		return res, nil
	case *ast.TagNode:
		return p.tagged(x)
	case *ast.CommentGroupNode:
		return ir.Null(), nil
	}
	return nil, p.fail(n, fmt.Errorf("unsupported yaml node %s", n.Type()))
}

func yamlInt(x *ast.IntegerNode) (*ir.Node, error) {
	switch v := x.Value.(type) {
	case int64:
		return ir.FromInt(v), nil
	case uint64:
		if v <= math.MaxInt64 {
			return ir.FromInt(int64(v)), nil
		}
		return ir.FromUint(v), nil
	case int:
		return ir.FromInt(int64(v)), nil
	}
	lit := strings.ReplaceAll(x.GetToken().Value, "_", "")
	if i, err := strconv.ParseInt(lit, 0, 64); err == nil {
		return ir.FromInt(i), nil
	}
	u, err := strconv.ParseUint(lit, 0, 64)
	if err != nil {
		return nil, fmt.Errorf("integer %q: %w", lit, err)
	}
	return ir.FromUint(u), nil
}

func (p *yamlParser) mapping(entries []*ast.MappingValueNode) (*ir.Node, error) {
	res := ir.NewMap()
	var merges []*ir.Node
	for _, mv := range entries {
		var key ast.Node = mv.Key
		if _, ok := key.(*ast.MergeKeyNode); ok {
			src, err := p.node(mv.Value)
			if err != nil {
				return nil, err
			}
			merges = append(merges, src)
			continue
		}
		yk, err := p.node(key)
		if err != nil {
			return nil, err
		}
		yv, err := p.node(mv.Value)
		if err != nil {
			return nil, err
		}
		res.Set(yk, yv)
	}
	for _, src := range merges {
		for m := range src.Each() {
			if m.Type != ir.MapType {
				return nil, fmt.Errorf("merge key value is %s, not a map", m.Type)
			}
			for k, v := range m.Entries() {
				if res.Index(k) < 0 {
					res.Set(k.Clone(), v.Clone())
				}
			}
		}
	}
	return res, nil
}

func (p *yamlParser) tagged(x *ast.TagNode) (*ir.Node, error) {
	tag := x.Start.Value
	switch tag {
	case "!!str", "tag:yaml.org,2002:str":
		if x.Value == nil {
			return ir.FromString(""), nil
		}
		tok := x.Value.GetToken()
		switch v := x.Value.(type) {
		case *ast.StringNode:
			return ir.FromString(v.Value), nil
		case *ast.LiteralNode:
			return p.value(v)
		case *ast.NullNode:
			if tok == nil || tok.Type == token.ImplicitNullType {
				return ir.FromString(""), nil
			}
		}
		if tok != nil {
			return ir.FromString(tok.Value), nil
		}
		return ir.FromString(""), nil
	case "!!binary", "tag:yaml.org,2002:binary":
		y, err := p.value(x.Value)
		if err != nil {
			return nil, err
		}
		if y.Type != ir.StringType {
			return nil, p.fail(x, fmt.Errorf("!!binary on %s", y.Type))
		}
		b, err := decodeBase64([]byte(y.String))
		if err != nil {
			return nil, p.fail(x, fmt.Errorf("!!binary: %w", err))
		}
		return ir.FromBytes(b), nil
	case "!!float", "tag:yaml.org,2002:float":
		y, err := p.value(x.Value)
		if err != nil {
			return nil, err
		}
		switch y.Type {
		case ir.IntType:
			return ir.FromFloat(float64(y.Int)), nil
		case ir.UintType:
			return ir.FromFloat(float64(y.Uint)), nil
		}
		return y, nil
	}
	return p.value(x.Value)
}
