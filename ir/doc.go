// Package ir provides the canonical in-memory tree that every interchange
// format is read into and written from.
//
// # Overview
//
// All documents, whether parsed from YAML, JSON, XJSON, XML, CBOR or
// MessagePack, created programmatically, or produced by the resolve and merge
// packages, are represented as ir.Node trees.
//
// The IR works as a recursive tagged union structure, where values are placed
// in fields depending on the node type.
//
// # Node Types
//
// The Type field indicates the node's type:
//
//   - UndefinedType: placeholder for a node that has not been populated yet;
//     it is the zero value and cannot be serialized
//   - NullType: null value
//   - BoolType: boolean, in Bool
//   - IntType: signed 64-bit integer, in Int
//   - UintType: unsigned 64-bit integer, in Uint
//   - FloatType: 64-bit IEEE float, in Float
//   - StringType: text, in String
//   - BytesType: raw byte sequence, in Bytes
//   - ListType: ordered list of nodes, in Values
//   - MapType: key-value pairs, keys in Fields and values in Values
//
// # Creating Nodes
//
// Use constructor functions to create nodes:
//
//	node := ir.FromString("hello")
//	num := ir.FromInt(42)
//	obj := ir.FromMap(map[string]*ir.Node{
//	    "key": ir.FromString("value"),
//	})
//	arr := ir.FromSlice([]*ir.Node{
//	    ir.FromInt(1),
//	    ir.FromUint(2),
//	})
//
// # IR Structure Constraints
//
// ## Maps
//
// For MapType nodes, Fields[i] is the key for the value at Values[i], so
// there will always be the same number of fields as values. Keys may be of
// any type, including lists and maps. Keys are unique under Equal; Set
// overwrites the value of an existing key. Iteration follows insertion order.
//
// ## Ownership
//
// A tree has no sharing and no cycles: each node is owned by exactly one
// parent collection, or by the caller for the root. Nodes carry no parent
// pointers. Clone is a deep copy.
//
// # Comparison and Hashing
//
// Equal, Compare and Hash consider data only; annotations are ignored. Floats
// are totally ordered (NaN sorts first and equals itself) so any node can be
// used as a map key. Map comparison does not depend on insertion order.
//
// # Annotations and Citations
//
// Parsers can attach an *Annotation (source, span, label) to each node they
// produce. When annotations are disabled the slot stays nil.
//
// A Citation is assembled on demand for error messages from a source name,
// the location of a node, and the path from an ancestor to that node:
//
//	path, ok := ir.FindPath(root, node) // identity based
//	c := ir.Cite(root, node, "config.yaml")
//	fmt.Println(c) // config.yaml:3:7: servers[2].port
//
// # Thread Safety
//
// Node structures are not thread-safe. If you need to access nodes from
// multiple goroutines, you must synchronize access yourself or clone nodes
// for each goroutine.
//
// # Related Packages
//
//   - github.com/signadot/xval/parse - Parses bytes into IR nodes
//   - github.com/signadot/xval/encode - Encodes IR nodes to bytes
//   - github.com/signadot/xval/resolve - Typed extraction from IR nodes
//   - github.com/signadot/xval/merge - Structural merge of IR nodes
package ir
