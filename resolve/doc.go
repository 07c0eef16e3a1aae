// Package resolve extracts typed Go values from an IR tree.
//
// Resolution is driven by descriptors derived once per Go type from
// `resolve:"..."` struct tags. Recoverable problems are reported to a
// [Sink] and resolution continues with sibling fields and items, so one
// pass surfaces every problem in a document:
//
//	var errs resolve.ErrorList
//	cfg, err := resolve.Resolve[Config](node, &errs, resolve.WithSource("cfg.yaml"))
//	if err != nil {
//	    return err // the sink stopped resolution
//	}
//	if cfg == nil {
//	    return errs.Err()
//	}
//
// # Struct Tags
//
//	type Customer struct {
//	    resolve.Meta `resolve:"ignore-unknown"`
//
//	    Name   string            `resolve:"required"`
//	    Credit int               `resolve:"key=credit_limit,null='100 * 2'"`
//	    Notes  *string           `resolve:"ignore-null"`
//	    Other  map[string]any    `resolve:"other"`
//	    Cites  map[string]ir.Citation `resolve:"citations"`
//	}
//
// Field options:
//   - key=<name>: map key to read; defaults to the field name with a
//     lower-cased first letter
//   - required: a missing key is reported
//   - ignore-null: a null value leaves the field untouched
//   - null=<expr>: an expr-lang expression giving the value when the key is
//     missing or null
//   - other: collects unconsumed entries (map[K]V or *ir.Node)
//   - citations: collects a citation per consumed key (map[string]ir.Citation)
//   - single: the whole input is first tried against this field alone
//   - "-": the field is skipped
//
// Struct options go on an embedded [Meta] field. ignore-unknown drops
// unconsumed keys instead of reporting them.
//
// # Enums
//
// A Go interface type registered with [RegisterEnum] is read from a
// single-entry map whose key selects the variant.
//
// # Related Packages
//
//   - github.com/signadot/xval/ir - the tree being resolved
//   - github.com/signadot/xval/parse - reads trees with provenance for citations
package resolve
