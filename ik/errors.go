package ik

import "github.com/pkg/errors"

// Kind distinguishes the exceptional (typed-error) conditions spec.md SS7
// names from the ordinary reject/quit control flow of Action.
type Kind int

const (
	// InvalidArguments covers arity mismatches and out-of-bounds indices.
	InvalidArguments Kind = iota
	// InconsistentConstraints covers kernel/manipulator mismatches, such as
	// a wrap enumeration exceeding its precomputed cap.
	InconsistentConstraints
	// NotImplemented covers unsupported pose-parameterization flavors.
	NotImplemented
)

func (k Kind) String() string {
	switch k {
	case InvalidArguments:
		return "InvalidArguments"
	case InconsistentConstraints:
		return "InconsistentConstraints"
	case NotImplemented:
		return "NotImplemented"
	default:
		return "Unknown"
	}
}

// Error is the typed error spec.md SS7 calls for; ordinary solve failures
// never construct one of these -- see Action for the non-exceptional path.
type Error struct {
	Kind Kind
	msg  string
}

func (e *Error) Error() string {
	return e.Kind.String() + ": " + e.msg
}

func newError(kind Kind, msg string) error {
	return &Error{Kind: kind, msg: msg}
}

// ErrUnsupportedParameterization is returned (wrapped) by the kernel adapter
// when asked to build kernel arrays for a flavor it has no layout for.
var ErrUnsupportedParameterization = newError(NotImplemented, "unsupported pose parameterization")

// AsError unwraps err into an *Error if it is (or wraps) one.
func AsError(err error) (*Error, bool) {
	var ikErr *Error
	if errors.As(err, &ikErr) {
		return ikErr, true
	}
	return nil, false
}
