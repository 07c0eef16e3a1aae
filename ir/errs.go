package ir

import (
	"fmt"
	"strings"
)

// CastingError reports a numeric conversion that would lose information.
type CastingError struct {
	Value  string
	Target string
}

func (e *CastingError) Error() string {
	return fmt.Sprintf("cannot cast %s to %s", e.Value, e.Target)
}

// IncompatibleTypeError reports a node whose type is not among the
// acceptable ones.
type IncompatibleTypeError struct {
	Actual   Type
	Expected []Type
}

func (e *IncompatibleTypeError) Error() string {
	names := make([]string, len(e.Expected))
	for i, t := range e.Expected {
		names[i] = t.String()
	}
	return fmt.Sprintf("incompatible value type: is %s, expected %s", e.Actual, strings.Join(names, " or "))
}

func incompatible(y *Node, expected ...Type) error {
	return &IncompatibleTypeError{Actual: y.Type, Expected: expected}
}

// PathError reports a malformed path expression.
type PathError struct {
	Path   string
	Offset int
}

func (e *PathError) Error() string {
	return fmt.Sprintf("invalid path %q at offset %d", e.Path, e.Offset)
}
