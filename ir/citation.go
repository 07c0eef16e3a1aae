package ir

import "strings"

// Citation points a reader at the origin of a node: the document it came
// from, where in that document, and how to reach it from a root.
type Citation struct {
	Source   string
	Location *Location
	Path     []Step
}

// Cite assembles a citation for node. The location comes from the node's
// own annotation, the path from FindPath(root, node). A nil root or an
// unreachable node leaves Path empty.
func Cite(root, node *Node, source string) Citation {
	res := Citation{Source: source, Location: node.Location()}
	if source == "" && node != nil && node.Annotation != nil {
		res.Source = node.Annotation.Source
	}
	if root != nil {
		if p, ok := FindPath(root, node); ok {
			res.Path = p
		}
	}
	return res
}

// PathString renders the citation path, or "" when it is not linear.
func (c Citation) PathString() string {
	s, _ := PathString(c.Path)
	return s
}

// String renders "source:row:col: path", omitting unknown parts.
func (c Citation) String() string {
	var parts []string
	if c.Source != "" {
		parts = append(parts, c.Source)
	}
	if c.Location != nil && c.Location.IsKnown() {
		parts = append(parts, c.Location.String())
	}
	res := strings.Join(parts, ":")
	if p := c.PathString(); p != "" {
		if res != "" {
			res += ": "
		}
		res += p
	}
	return res
}
