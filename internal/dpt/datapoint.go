package dpt

import (
	"math"
	"strconv"
)

// maxPayloadOctets is the largest payload a telegram can carry.
const maxPayloadOctets = 255

// Type is a KNX datapoint type.
//
// Implementations are immutable singletons. Two types with the same ID are
// interchangeable; compare them with SameType rather than ==.
type Type interface {
	// ID returns the canonical identifier, e.g. "9.001".
	ID() string

	// Description returns a short human description.
	Description() string

	// Unit returns the display unit, if the type has one.
	Unit() (string, bool)

	// CompatibleBytes reports whether data has the length and reserved-bit
	// pattern this type decodes.
	CompatibleBytes(data []byte) bool

	// DecodeBytes decodes a compatible payload. Use ParseBytes, which
	// checks compatibility first.
	DecodeBytes(data []byte) (Value, error)
}

// TokenParser is implemented by types that can be built from string tokens.
// Types without token support are still reachable through the hexadecimal
// fallback of ParseTokens.
type TokenParser interface {
	// CompatibleTokens reports whether the tokens look like input for this
	// type. It must not fail.
	CompatibleTokens(tokens []string) bool

	// DecodeTokens parses the tokens. Format problems are reported with
	// ErrIncompatibleSyntax; range violations with ErrOutOfRange.
	DecodeTokens(tokens []string) (Value, error)
}

// Value is a decoded datapoint value bound to the type that produced it.
type Value interface {
	// Type returns the originating type.
	Type() Type

	// Bytes returns the exact wire encoding.
	Bytes() []byte

	// Text renders the value for humans, including the unit if any.
	Text() string

	// Payload returns the decoded semantic content. The result is always
	// a comparable Go value.
	Payload() any
}

// SameType reports whether a and b denote the same datapoint type.
func SameType(a, b Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.ID() == b.ID()
}

// Equal reports whether two values have the same type and payload.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == b
	}
	return SameType(a.Type(), b.Type()) && a.Payload() == b.Payload()
}

// identity is the common identification part of all built-in types.
type identity struct {
	id          string
	description string
	unit        string
}

func (i identity) ID() string          { return i.id }
func (i identity) Description() string { return i.description }

func (i identity) Unit() (string, bool) {
	return i.unit, i.unit != ""
}

// withUnit appends the unit of the type to a rendered number.
func (i identity) withUnit(s string) string {
	if i.unit == "" {
		return s
	}
	return s + " " + i.unit
}

// Scale is a linear conversion from raw wire integers to display values:
// display = raw × Factor.
type Scale struct {
	Factor float64
}

// Display converts a raw value to its display representation.
func (s Scale) Display(raw int64) float64 {
	return float64(raw) * s.Factor
}

// Raw converts a display value to the nearest raw value.
func (s Scale) Raw(display float64) int64 {
	return int64(math.Round(display / s.Factor))
}

// formatNumber renders a float without trailing zeros.
func formatNumber(f float64) string {
	if math.Abs(f) < 1e12 {
		f = roundTo(f, 6)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// roundTo rounds f to the given number of decimal places.
func roundTo(f float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(f*p) / p
}

// valueOf converts a typed constructor result to a Value, dropping the zero
// value that accompanies an error.
func valueOf[V Value](v V, err error) (Value, error) {
	if err != nil {
		return nil, err
	}
	return v, nil
}
