package encode

import (
	"github.com/signadot/xval/format"
)

type EncodeOption func(*Serializer)

func EncodeFormat(f format.Format) EncodeOption {
	return func(s *Serializer) { s.Format = f }
}

// EncodePretty indents JSON and XML output.
func EncodePretty(v bool) EncodeOption {
	return func(s *Serializer) { s.Pretty = v }
}

// EncodeIndent sets the indentation width; the default is 2.
func EncodeIndent(n int) EncodeOption {
	return func(s *Serializer) { s.Indent = n }
}

// EncodeStrict restricts YAML output to what YAML 1.1 and 1.2 readers
// agree on.
func EncodeStrict(v bool) EncodeOption {
	return func(s *Serializer) { s.Strict = v }
}

// EncodeBase64 wraps the output in Base64 text, for carrying binary
// formats over text channels.
func EncodeBase64(v bool) EncodeOption {
	return func(s *Serializer) { s.Base64 = v }
}

// EncodeMode overrides the format's default Mode.
func EncodeMode(m Mode) EncodeOption {
	return func(s *Serializer) { s.Mode = &m }
}

func EncodeColors(c *Colors) EncodeOption {
	return func(s *Serializer) { s.Colors = c }
}

// FormatFromOpts extracts the format from encode options.
func FormatFromOpts(opts ...EncodeOption) format.Format {
	s := &Serializer{}
	for _, opt := range opts {
		opt(s)
	}
	return s.Format
}
