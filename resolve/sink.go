package resolve

// Sink receives recoverable errors. A non-nil return stops resolution and
// becomes the fatal error of the call.
//
// Sinks are not safe for concurrent use.
type Sink interface {
	Report(*Error) error
}

// ErrorList accumulates every report.
type ErrorList []*Error

func (l *ErrorList) Report(e *Error) error {
	*l = append(*l, e)
	return nil
}

func (l ErrorList) Error() string {
	return summarize(l)
}

// Err returns the list as an error, or nil when it is empty.
func (l ErrorList) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}

type failFast struct{}

func (failFast) Report(e *Error) error { return e }

type discard struct{}

func (discard) Report(*Error) error { return nil }

var (
	// FailFast turns the first report into the fatal error.
	FailFast Sink = failFast{}
	// Discard drops reports; the result is still nil when any occurred.
	Discard Sink = discard{}
)
