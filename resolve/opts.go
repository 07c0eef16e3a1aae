package resolve

import "github.com/signadot/xval/ir"

type resolveOpts struct {
	source string
	root   *ir.Node
}

type Option func(*resolveOpts)

// WithSource names the document in citations. Without it, the source of
// each node's annotation is used.
func WithSource(name string) Option {
	return func(o *resolveOpts) { o.source = name }
}

// WithRoot sets the tree citation paths are computed from. It defaults to
// the resolved node.
func WithRoot(root *ir.Node) Option {
	return func(o *resolveOpts) { o.root = root }
}
