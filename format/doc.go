// Package format enumerates the interchange formats a document can be read
// from or written to.
//
// # Usage
//
//	f, err := format.ParseFormat("XJSON")
//	if err != nil {
//	    return err
//	}
//	if f.IsBinary() {
//	    // CBOR or MessagePack
//	}
//
// The set of formats is closed; parsers and encoders dispatch on it with a
// single switch.
//
// # Related Packages
//
//   - github.com/signadot/xval/parse - Parse bytes into IR
//   - github.com/signadot/xval/encode - Encode IR to bytes
package format
