package xval

import (
	"bytes"

	jsonpatch "github.com/evanphx/json-patch"

	"github.com/signadot/xval/encode"
	"github.com/signadot/xval/format"
	"github.com/signadot/xval/ir"
	"github.com/signadot/xval/parse"
)

// Patch applies an RFC 6902 JSON patch to doc. The document is patched in
// its XJSON form, so values the patch adds may use hints and pointers see
// hinted values as their hint objects.
func Patch(doc *ir.Node, patch []byte) (*ir.Node, error) {
	ops, err := jsonpatch.DecodePatch(patch)
	if err != nil {
		return nil, err
	}
	return viaXJSON(doc, ops.Apply)
}

// MergePatch applies an RFC 7386 merge patch to doc.
func MergePatch(doc *ir.Node, patch []byte) (*ir.Node, error) {
	return viaXJSON(doc, func(d []byte) ([]byte, error) {
		return jsonpatch.MergePatch(d, patch)
	})
}

func viaXJSON(doc *ir.Node, apply func([]byte) ([]byte, error)) (*ir.Node, error) {
	buf := bytes.NewBuffer(nil)
	if err := encode.Encode(doc, buf, encode.EncodeFormat(format.XJSONFormat)); err != nil {
		return nil, err
	}
	out, err := apply(buf.Bytes())
	if err != nil {
		return nil, err
	}
	return parse.Parse(out, parse.ParseXJSON())
}
