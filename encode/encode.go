package encode

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"github.com/signadot/xval/format"
	"github.com/signadot/xval/ir"
)

// Serializer is a reusable encoding configuration. The zero value writes
// block YAML.
type Serializer struct {
	Format format.Format
	Pretty bool
	// Indent is the indentation width; 0 means 2.
	Indent int
	Strict bool
	Base64 bool
	// Mode overrides DefaultMode(Format) when set.
	Mode   *Mode
	Colors *Colors
}

func Encode(node *ir.Node, w io.Writer, opts ...EncodeOption) error {
	s := &Serializer{}
	for _, opt := range opts {
		opt(s)
	}
	return s.Write(w, node)
}

func (s *Serializer) indent() int {
	if s.Indent <= 0 {
		return 2
	}
	return s.Indent
}

func (s *Serializer) mode() Mode {
	if s.Mode != nil {
		return *s.Mode
	}
	return DefaultMode(s.Format)
}

// Write encodes node to w.
func (s *Serializer) Write(w io.Writer, node *ir.Node) error {
	if node == nil {
		return &Error{Format: s.Format, Err: ErrUndefined}
	}
	if !s.Base64 {
		if err := s.write(w, node); err != nil {
			return s.wrap(err)
		}
		return nil
	}
	buf := bytes.NewBuffer(nil)
	if err := s.write(buf, node); err != nil {
		return s.wrap(err)
	}
	enc := base64.NewEncoder(base64.StdEncoding, w)
	if _, err := enc.Write(buf.Bytes()); err != nil {
		return s.wrap(err)
	}
	if err := enc.Close(); err != nil {
		return s.wrap(err)
	}
	_, err := io.WriteString(w, "\n")
	return s.wrap(err)
}

func (s *Serializer) wrap(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(*Error); ok {
		return err
	}
	return &Error{Format: s.Format, Err: err}
}

func (s *Serializer) write(w io.Writer, node *ir.Node) error {
	switch s.Format {
	case format.CBORFormat:
		return encodeCBOR(w, node)
	case format.MessagePackFormat:
		return encodeMessagePack(w, node)
	}
	projected, err := s.mode().Apply(node, s.Format != format.XMLFormat)
	if err != nil {
		return err
	}
	switch s.Format {
	case format.YAMLFormat:
		return s.encodeYAML(w, projected)
	case format.JSONFormat, format.XJSONFormat:
		return s.encodeJSON(w, projected)
	case format.XMLFormat:
		return s.encodeXML(w, projected)
	}
	return fmt.Errorf("%w: %s", format.ErrUnsupported, s.Format)
}

// Bytes returns the encoding of node.
func (s *Serializer) Bytes(node *ir.Node) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := s.Write(buf, node); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// String returns the encoding of node as text. Binary formats should be
// combined with Base64.
func (s *Serializer) String(node *ir.Node) (string, error) {
	d, err := s.Bytes(node)
	if err != nil {
		return "", err
	}
	return string(d), nil
}

// MustString encodes node as YAML and panics on failure.
func MustString(node *ir.Node) string {
	buf := bytes.NewBuffer(nil)
	if err := Encode(node, buf); err != nil {
		panic(err)
	}
	return strings.TrimSpace(buf.String())
}
