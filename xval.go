// Package xval converts documents between YAML, JSON, XJSON, XML, CBOR and
// MessagePack through one canonical tree, and reads them into Go types.
//
// The subpackages do the work; this package joins them for the common
// cases:
//
//	out, err := xval.Convert(in, format.YAMLFormat, format.XJSONFormat)
//
//	var errs resolve.ErrorList
//	cfg, err := xval.ReadInto[Config](in, format.YAMLFormat, "cfg.yaml", &errs)
package xval

import (
	"bytes"
	"fmt"
	"io"

	"github.com/signadot/xval/debug"
	"github.com/signadot/xval/encode"
	"github.com/signadot/xval/format"
	"github.com/signadot/xval/ir"
	"github.com/signadot/xval/parse"
	"github.com/signadot/xval/resolve"
)

// Read parses one document.
func Read(r io.Reader, opts ...parse.ParseOption) (*ir.Node, error) {
	return parse.ParseReader(r, opts...)
}

// Write encodes node to w.
func Write(w io.Writer, node *ir.Node, opts ...encode.EncodeOption) error {
	return encode.Encode(node, w, opts...)
}

// Convert re-encodes a document. Extra options apply to the output.
func Convert(d []byte, from, to format.Format, opts ...encode.EncodeOption) ([]byte, error) {
	y, err := parse.Parse(d, parse.ParseFormat(from))
	if err != nil {
		return nil, err
	}
	if debug.Convert() {
		debug.Logf("convert %s -> %s: %v\n", from, to, debug.Node{Node: y})
	}
	buf := bytes.NewBuffer(nil)
	opts = append([]encode.EncodeOption{encode.EncodeFormat(to)}, opts...)
	if err := encode.Encode(y, buf, opts...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ReadInto parses d with provenance and resolves it into a T, citing
// source in reported errors. Parse failures are returned as errors; the
// result is nil when sink received any report.
func ReadInto[T any](d []byte, f format.Format, source string, sink resolve.Sink) (*T, error) {
	y, err := parse.Parse(d, parse.ParseFormat(f), parse.ParseAnnotations(true), parse.ParseSource(source))
	if err != nil {
		return nil, err
	}
	return resolve.Resolve[T](y, sink, resolve.WithSource(source))
}

// Cite returns the citation of the node at path in root, as parsed with
// annotations.
func Cite(root *ir.Node, path, source string) (ir.Citation, error) {
	steps, err := ir.ParsePath(path)
	if err != nil {
		return ir.Citation{}, err
	}
	y := root.Descend(steps)
	if y == nil {
		return ir.Citation{}, fmt.Errorf("%q: %w", path, ErrNotFound)
	}
	return ir.Cite(root, y, source), nil
}
