package debug

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/signadot/xval/encode"
	"github.com/signadot/xval/format"
	"github.com/signadot/xval/ir"
)

var out io.Writer = os.Stderr

// Node renders a tree as YAML when formatted with %s or %v.
type Node struct{ *ir.Node }

func (y Node) String() string {
	return nodeString(y.Node)
}

// Logf writes a diagnostic line to stderr. *ir.Node arguments given for
// %v are rendered as YAML.
func Logf(msg string, args ...any) {
	for i := range args {
		switch x := args[i].(type) {
		case *ir.Node:
			args[i] = nodeString(x)
		case ir.Citation:
			args[i] = x.String()
		}
	}
	fmt.Fprintf(out, msg, args...)
}

func nodeString(y *ir.Node) string {
	if y == nil {
		return "<nil>"
	}
	buf := bytes.NewBuffer(nil)
	if err := encode.Encode(y, buf, encode.EncodeFormat(format.YAMLFormat)); err != nil {
		return fmt.Sprintf("[raw *ir.Node] %s", y.MapStringKey())
	}
	return string(bytes.TrimSpace(buf.Bytes()))
}
