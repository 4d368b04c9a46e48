package dpt

import (
	"cmp"
	"fmt"
)

// Logger receives advisory diagnostics. It is satisfied by
// logging.Logger and *slog.Logger.
type Logger interface {
	Warn(msg string, args ...any)
}

// Range is a closed interval [Lower, Upper] over an ordered type.
type Range[T cmp.Ordered] struct {
	Lower T
	Upper T
}

// NewRange returns the interval [lower, upper].
func NewRange[T cmp.Ordered](lower, upper T) Range[T] {
	return Range[T]{Lower: lower, Upper: upper}
}

// Contains reports whether lower ≤ v ≤ upper.
func (r Range[T]) Contains(v T) bool {
	return r.Lower <= v && v <= r.Upper
}

// Check returns an error wrapping ErrOutOfRange when v lies outside r.
// Value constructors call it before any encoding is produced.
func (r Range[T]) Check(v T) error {
	if !r.Contains(v) {
		return fmt.Errorf("%w: %v not in [%v, %v]", ErrOutOfRange, v, r.Lower, r.Upper)
	}
	return nil
}

// Advise is the non-fatal variant of Check for plausibility checks: it
// reports whether v lies inside r and logs a warning when it does not.
// log may be nil.
func (r Range[T]) Advise(log Logger, subject string, v T) bool {
	if r.Contains(v) {
		return true
	}
	if log != nil {
		log.Warn("value outside expected range",
			"subject", subject,
			"value", v,
			"lower", r.Lower,
			"upper", r.Upper,
		)
	}
	return false
}

// String returns the interval in mathematical notation.
func (r Range[T]) String() string {
	return fmt.Sprintf("[%v, %v]", r.Lower, r.Upper)
}
