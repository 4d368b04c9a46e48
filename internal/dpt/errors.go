package dpt

import "errors"

// Domain errors for the datapoint type package.
//
// Callers distinguish failure kinds with errors.Is; every error returned by
// this package wraps exactly one of these sentinels (the hex fallback of
// ParseTokens may additionally wrap the cause of the byte-level failure).
var (
	// ErrIncompatibleBytes is returned when a byte payload is nil, longer
	// than 255 octets, or does not have the shape a type decodes
	// (length, reserved bits).
	ErrIncompatibleBytes = errors.New("dpt: incompatible bytes")

	// ErrIncompatibleSyntax is returned when string tokens can be parsed
	// neither semantically nor as a hexadecimal byte string.
	ErrIncompatibleSyntax = errors.New("dpt: incompatible syntax")

	// ErrOutOfRange is returned when a value violates the closed range of
	// its type, or a bit index lies outside a flag word.
	ErrOutOfRange = errors.New("dpt: value out of range")

	// ErrDuplicateRegistration is returned when an identifier or an
	// enumeration ordinal is registered twice.
	ErrDuplicateRegistration = errors.New("dpt: duplicate registration")

	// ErrNotFound is returned when a registry lookup misses.
	ErrNotFound = errors.New("dpt: not found")

	// ErrRegistrySealed is returned when registering into a registry that
	// has finished its initialisation phase.
	ErrRegistrySealed = errors.New("dpt: registry sealed")
)
