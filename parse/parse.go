package parse

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"sort"

	"github.com/signadot/xval/debug"
	"github.com/signadot/xval/format"
	"github.com/signadot/xval/ir"
)

// Parse reads data as a single document, or as a list of documents with
// ParseAll. The default format is YAML.
func Parse(d []byte, opts ...ParseOption) (*ir.Node, error) {
	pOpts := &parseOpts{format: format.YAMLFormat}
	for _, f := range opts {
		f(pOpts)
	}
	if pOpts.base64 {
		raw, err := decodeBase64(d)
		if err != nil {
			return nil, wrap(pOpts.format, nil, fmt.Errorf("base64 wrapper: %w", err))
		}
		d = raw
	}
	docs, err := parseDocs(d, pOpts)
	if err != nil {
		return nil, wrap(pOpts.format, nil, err)
	}
	if debug.Parse() {
		debug.Logf("parsed %d %s document(s) from %q\n", len(docs), pOpts.format, pOpts.source)
	}
	if pOpts.all {
		return ir.FromSlice(docs), nil
	}
	switch len(docs) {
	case 0:
		if pOpts.format.IsYAML() {
			return ir.Null(), nil
		}
		return nil, &Error{Format: pOpts.format, Err: ErrEmpty}
	case 1:
		return docs[0], nil
	}
	return nil, &Error{Format: pOpts.format, Err: ErrMultipleDocs}
}

// ParseReader reads r to the end and calls Parse.
func ParseReader(r io.Reader, opts ...ParseOption) (*ir.Node, error) {
	d, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Parse(d, opts...)
}

// ParseString is Parse on a string.
func ParseString(s string, opts ...ParseOption) (*ir.Node, error) {
	return Parse([]byte(s), opts...)
}

func parseDocs(d []byte, opts *parseOpts) ([]*ir.Node, error) {
	switch opts.format {
	case format.YAMLFormat:
		return parseYAML(d, opts)
	case format.JSONFormat:
		return parseJSON(d, opts, false)
	case format.XJSONFormat:
		return parseJSON(d, opts, true)
	case format.XMLFormat:
		return parseXML(d, opts)
	case format.CBORFormat:
		return parseCBOR(d, opts)
	case format.MessagePackFormat:
		return parseMessagePack(d, opts)
	}
	return nil, fmt.Errorf("%w: %s", format.ErrUnsupported, opts.format)
}

func decodeBase64(d []byte) ([]byte, error) {
	d = bytes.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\r', '\n':
			return -1
		}
		return r
	}, d)
	res := make([]byte, base64.StdEncoding.DecodedLen(len(d)))
	n, err := base64.StdEncoding.Decode(res, d)
	if err != nil {
		return nil, err
	}
	return res[:n], nil
}

// lineIndex maps byte offsets of a text document to rows and columns.
type lineIndex struct {
	starts []int
}

func newLineIndex(d []byte) *lineIndex {
	li := &lineIndex{starts: []int{0}}
	for i, c := range d {
		if c == '\n' {
			li.starts = append(li.starts, i+1)
		}
	}
	return li
}

func (li *lineIndex) location(off int) ir.Location {
	row := sort.Search(len(li.starts), func(i int) bool { return li.starts[i] > off })
	return ir.NewLocation(int64(off), row, off-li.starts[row-1]+1)
}

// skipSpace returns the offset of the first byte at or after off that is
// neither whitespace nor one of the separators in seps.
func skipSpace(d []byte, off int, seps string) int {
	for off < len(d) {
		c := d[off]
		switch {
		case c == ' ', c == '\t', c == '\r', c == '\n':
		case bytes.IndexByte([]byte(seps), c) >= 0:
		default:
			return off
		}
		off++
	}
	return off
}
