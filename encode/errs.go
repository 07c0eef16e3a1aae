package encode

import (
	"errors"
	"fmt"

	"github.com/signadot/xval/format"
)

var (
	ErrEncoding  = errors.New("encoding error")
	ErrUndefined = fmt.Errorf("%w: undefined value", ErrEncoding)
)

// Error wraps a failure while writing a document of the given format.
type Error struct {
	Format format.Format
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("encode %s: %v", e.Format, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool { return target == ErrEncoding }
