package resolve

import (
	"errors"
	"fmt"
	"strings"

	"github.com/signadot/xval/ir"
)

var (
	// ErrTarget is returned when the destination is not a non-nil pointer.
	ErrTarget = errors.New("resolve target must be a non-nil pointer")
	// ErrUnsupportedType is returned for Go types the engine cannot fill.
	ErrUnsupportedType = errors.New("unsupported type")
	// ErrTag is returned for malformed resolve struct tags.
	ErrTag = errors.New("bad resolve tag")
)

// Error is a recoverable problem reported to a Sink, with the citation of
// the node it concerns.
type Error struct {
	Citation ir.Citation
	Err      error
}

func (e *Error) Error() string {
	c := e.Citation.String()
	if c == "" {
		return e.Err.Error()
	}
	return c + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// MalformedError reports a value of the right kind but the wrong shape.
type MalformedError struct {
	Reason string
}

func (e *MalformedError) Error() string {
	return "malformed: " + e.Reason
}

func malformed(format string, args ...any) error {
	return &MalformedError{Reason: fmt.Sprintf(format, args...)}
}

type MissingRequiredKeyError struct {
	Key string
}

func (e *MissingRequiredKeyError) Error() string {
	return fmt.Sprintf("missing required key %q", e.Key)
}

// InvalidKeyError reports a map key that nothing consumed.
type InvalidKeyError struct {
	Key *ir.Node
}

func (e *InvalidKeyError) Error() string {
	return fmt.Sprintf("invalid key %q", e.Key.MapStringKey())
}

// DefaultError reports a failing null= expression.
type DefaultError struct {
	Field string
	Err   error
}

func (e *DefaultError) Error() string {
	return fmt.Sprintf("default for %s: %v", e.Field, e.Err)
}

func (e *DefaultError) Unwrap() error { return e.Err }

// summarize joins the first few errors.
func summarize(errs []*Error) string {
	const maxShown = 3
	b := &strings.Builder{}
	for i, e := range errs {
		if i == maxShown {
			fmt.Fprintf(b, "; ... (total %d)", len(errs))
			break
		}
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(e.Error())
	}
	return b.String()
}
