package parse

import (
	"github.com/signadot/xval/format"
	"github.com/signadot/xval/ir"
)

type parseOpts struct {
	format      format.Format
	annotations bool
	source      string
	base64      bool
	all         bool
}

type ParseOption func(*parseOpts)

func ParseYAML() ParseOption {
	return ParseFormat(format.YAMLFormat)
}
func ParseJSON() ParseOption {
	return ParseFormat(format.JSONFormat)
}
func ParseXJSON() ParseOption {
	return ParseFormat(format.XJSONFormat)
}
func ParseXML() ParseOption {
	return ParseFormat(format.XMLFormat)
}
func ParseCBOR() ParseOption {
	return ParseFormat(format.CBORFormat)
}
func ParseMessagePack() ParseOption {
	return ParseFormat(format.MessagePackFormat)
}
func ParseFormat(f format.Format) ParseOption {
	return func(o *parseOpts) { o.format = f }
}

// ParseAnnotations attaches an *ir.Annotation with the source and start
// location to every node produced.
func ParseAnnotations(v bool) ParseOption {
	return func(o *parseOpts) { o.annotations = v }
}

// ParseSource names the document in annotations and errors.
func ParseSource(name string) ParseOption {
	return func(o *parseOpts) { o.source = name }
}

// ParseBase64 treats the input as Base64 text wrapping the document, as
// produced by encode.EncodeBase64.
func ParseBase64(v bool) ParseOption {
	return func(o *parseOpts) { o.base64 = v }
}

// ParseAll reads every document in the stream and returns them as a list.
func ParseAll(v bool) ParseOption {
	return func(o *parseOpts) { o.all = v }
}

func (o *parseOpts) annotate(y *ir.Node, loc ir.Location) *ir.Node {
	if o.annotations {
		y.Annotation = ir.NewAnnotation(o.source, loc)
	}
	return y
}
