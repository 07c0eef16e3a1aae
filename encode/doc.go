// Package encode writes IR nodes in any supported format.
//
// # Usage
//
//	// YAML (the default)
//	err := encode.Encode(node, os.Stdout)
//
//	// XJSON, which plain JSON readers accept and xval reads back exactly
//	err := encode.Encode(node, w,
//	    encode.EncodeFormat(format.XJSONFormat),
//	    encode.EncodePretty(true))
//
//	// A reusable configuration
//	s := &encode.Serializer{Format: format.CBORFormat, Base64: true}
//	text, err := s.String(node)
//
// # Modes
//
// Text formats cannot represent every node kind. A Mode says what to do
// with unsigned integers, bytes and non-string map keys before the tree is
// written. JSONMode produces valid but lossy JSON. XJSONMode wraps values
// JSON cannot express in single-entry hint objects such as
// {"$hint.uint": "7"} and escapes literal keys that look like hints, so
// parse.ParseXJSON recovers the original tree. CBOR and MessagePack are
// written natively and ignore the mode.
//
// # Related Packages
//
//   - github.com/signadot/xval/ir - IR representation
//   - github.com/signadot/xval/parse - Parse bytes into IR nodes
package encode
