package knx

import "errors"

// Domain errors for the KNX bridge package.
var (
	// ErrInvalidGroupAddress is returned when a group address string
	// cannot be parsed.
	ErrInvalidGroupAddress = errors.New("knx: invalid group address")

	// ErrInvalidTelegram is returned when a received telegram is malformed
	// or is not a group value service.
	ErrInvalidTelegram = errors.New("knx: invalid telegram")

	// ErrUnknownDatapoint is returned when no datapoint is mapped to a
	// group address.
	ErrUnknownDatapoint = errors.New("knx: no datapoint mapped to group address")

	// ErrInvalidDatapoints is returned when the datapoint mapping file is
	// malformed or names unknown types.
	ErrInvalidDatapoints = errors.New("knx: invalid datapoint mapping")

	// ErrDecodingFailed is returned when a telegram payload does not decode
	// with the mapped datapoint type.
	ErrDecodingFailed = errors.New("knx: decoding failed")

	// ErrEncodingFailed is returned when tokens cannot be encoded with the
	// mapped datapoint type.
	ErrEncodingFailed = errors.New("knx: encoding failed")
)
