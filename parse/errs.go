package parse

import (
	"errors"
	"fmt"

	"github.com/signadot/xval/format"
	"github.com/signadot/xval/ir"
)

var (
	ErrParse        = errors.New("parse error")
	ErrMultipleDocs = fmt.Errorf("%w: multiple documents", ErrParse)
	ErrEmpty        = fmt.Errorf("%w: empty input", ErrParse)
	ErrHint         = fmt.Errorf("%w: malformed hint", ErrParse)
)

// Error wraps any failure while reading a document of the given format.
type Error struct {
	Format   format.Format
	Location *ir.Location
	Err      error
}

func (e *Error) Error() string {
	if e.Location != nil && e.Location.IsKnown() {
		return fmt.Sprintf("parse %s at %s: %v", e.Format, e.Location, e.Err)
	}
	return fmt.Sprintf("parse %s: %v", e.Format, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool { return target == ErrParse }

// ReferenceNotFoundError reports a YAML alias without a preceding anchor.
// Index is the byte offset of the alias.
type ReferenceNotFoundError struct {
	Name  string
	Index int
}

func (e *ReferenceNotFoundError) Error() string {
	return fmt.Sprintf("reference %q not found (offset %d)", e.Name, e.Index)
}

func wrap(f format.Format, loc *ir.Location, err error) error {
	if err == nil {
		return nil
	}
	var pe *Error
	if errors.As(err, &pe) {
		return err
	}
	return &Error{Format: f, Location: loc, Err: err}
}
