package imgscale

import "fmt"

// Kind classifies the way a Scaler operation failed.
type Kind int

const (
	// BadArg marks an invalid argument: a dimension out of range, an
	// unknown color space, or a nil/zero-length buffer.
	BadArg Kind = iota
	// OutOfMemory marks an allocation failure during New.
	OutOfMemory
	// ProtocolViolation marks a caller breaking the feed/emit ordering
	// contract: Feed called with no slots available, or Emit called
	// while slots remain.
	ProtocolViolation
	// Overflow marks an aspect-ratio fit producing a dimension beyond
	// the supported integer range.
	Overflow
)

func (k Kind) String() string {
	switch k {
	case BadArg:
		return "bad argument"
	case OutOfMemory:
		return "out of memory"
	case ProtocolViolation:
		return "protocol violation"
	case Overflow:
		return "overflow"
	default:
		return "unknown error"
	}
}

// Error is the error type returned by every operation in this package.
// Callers distinguish failure modes with errors.Is against the
// Err* sentinels below, or by inspecting Kind directly.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("imgscale: %s: %s", e.Kind, e.Msg)
}

// Is reports whether target is an *Error of the same Kind, so that
// errors.Is(err, imgscale.ErrBadArg) works regardless of the message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Sentinel errors, one per Kind, for errors.Is comparisons.
var (
	ErrBadArg            = &Error{Kind: BadArg}
	ErrOutOfMemory       = &Error{Kind: OutOfMemory}
	ErrProtocolViolation = &Error{Kind: ProtocolViolation}
	ErrOverflow          = &Error{Kind: Overflow}
)

func newError(k Kind, format string, args ...any) *Error {
	return &Error{Kind: k, Msg: fmt.Sprintf(format, args...)}
}
