// Package parse reads documents in any supported format into IR nodes.
//
// # Usage
//
//	// Parse YAML (the default)
//	node, err := parse.Parse([]byte("name: alice\nage: 30\n"))
//
//	// Parse XJSON with provenance
//	node, err := parse.Parse(data,
//	    parse.ParseXJSON(),
//	    parse.ParseAnnotations(true),
//	    parse.ParseSource("config.xjson"))
//
//	// Parse a stream
//	node, err := parse.ParseReader(os.Stdin, parse.ParseCBOR(), parse.ParseAll(true))
//
// # Formats
//
// YAML aliases are expanded by copy, so the resulting tree has no sharing.
// JSON numbers without a fraction or exponent become IntType, or UintType
// when they exceed int64. XJSON additionally decodes single-entry hint
// objects ({"$hint.int": "5"} and friends) back into the exact kind they
// describe. CBOR and MessagePack decode directly into native kinds.
//
// # Related Packages
//
//   - github.com/signadot/xval/ir - IR representation
//   - github.com/signadot/xval/encode - Encode IR to bytes
package parse
