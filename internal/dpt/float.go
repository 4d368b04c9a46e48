package dpt

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
)

// float16InvalidData is the KNX "invalid data" marker of DPT 9.xxx.
const float16InvalidData = 0x7FFF

// Float16Type is a KNX 2-octet float type (DPT 9.xxx).
type Float16Type struct {
	identity
	rng Range[float64]
}

// NewFloat16Type returns a 2-octet float type accepting values in
// [lower, upper].
func NewFloat16Type(id, description, unit string, lower, upper float64) *Float16Type {
	return &Float16Type{
		identity: identity{id: id, description: description, unit: unit},
		rng:      NewRange(lower, upper),
	}
}

// Bits returns the payload width.
func (t *Float16Type) Bits() int { return 16 }

// Range returns the accepted values.
func (t *Float16Type) Range() Range[float64] { return t.rng }

// New encodes v. The stored value is the one the encoding decodes to, so
// New(20.123).Float() is 20.12.
func (t *Float16Type) New(v float64) (Float, error) {
	if math.IsNaN(v) {
		return Float{}, fmt.Errorf("%w: %s: NaN", ErrOutOfRange, t.id)
	}
	if err := t.rng.Check(v); err != nil {
		return Float{}, fmt.Errorf("%s: %w", t.id, err)
	}
	data, err := EncodeFloat16(v)
	if err != nil {
		return Float{}, fmt.Errorf("%s: %w", t.id, err)
	}
	f, err := t.fromWire(data)
	if err != nil {
		return Float{}, err
	}
	// Rounding may step just outside a bound that is not a multiple of the
	// resolution.
	if err := t.rng.Check(f.v); err != nil {
		return Float{}, fmt.Errorf("%s: %v encodes as %v: %w", t.id, v, f.v, err)
	}
	return f, nil
}

func (t *Float16Type) fromWire(data []byte) (Float, error) {
	v, err := DecodeFloat16(data)
	if err != nil {
		return Float{}, err
	}
	return Float{typ: t, v: v, raw: binary.BigEndian.Uint16(data)}, nil
}

// CompatibleBytes accepts exactly 2 octets.
func (t *Float16Type) CompatibleBytes(data []byte) bool {
	return len(data) == 2
}

// DecodeBytes decodes a 2-octet float. The invalid-data marker 0x7FFF is
// accepted regardless of the type range; see Float.IsInvalidData.
func (t *Float16Type) DecodeBytes(data []byte) (Value, error) {
	f, err := t.fromWire(data)
	if err != nil {
		return nil, err
	}
	if !f.IsInvalidData() {
		if err := t.rng.Check(f.v); err != nil {
			return nil, fmt.Errorf("%s: %w", t.id, err)
		}
	}
	return f, nil
}

// CompatibleTokens accepts a token holding a decimal number.
func (t *Float16Type) CompatibleTokens(tokens []string) bool {
	_, ok := FindPattern(tokens, numberPattern, parseNumber)
	return ok
}

// DecodeTokens parses the first number.
func (t *Float16Type) DecodeTokens(tokens []string) (Value, error) {
	v, ok := FindPattern(tokens, numberPattern, parseNumber)
	if !ok {
		return nil, fmt.Errorf("%w: %s expects a number", ErrIncompatibleSyntax, t.id)
	}
	return valueOf(t.New(v))
}

// Float is a value of a Float16Type.
type Float struct {
	typ *Float16Type
	v   float64
	raw uint16
}

func (v Float) Type() Type   { return v.typ }
func (v Float) Payload() any { return v.v }

// Float returns the decoded number.
func (v Float) Float() float64 { return v.v }

// IsInvalidData reports whether the payload is the KNX invalid-data marker
// 0x7FFF. Devices send it when a sensor has no valid reading.
func (v Float) IsInvalidData() bool { return v.raw == float16InvalidData }

func (v Float) Bytes() []byte {
	return binary.BigEndian.AppendUint16(nil, v.raw)
}

func (v Float) Text() string {
	if v.IsInvalidData() {
		return "invalid data"
	}
	return v.typ.withUnit(formatNumber(v.v))
}

// Float32Type is a 4-octet IEEE 754 float type (DPT 14.xxx).
type Float32Type struct {
	identity
}

// NewFloat32Type returns a 4-octet float type.
func NewFloat32Type(id, description, unit string) *Float32Type {
	return &Float32Type{identity: identity{id: id, description: description, unit: unit}}
}

// Bits returns the payload width.
func (t *Float32Type) Bits() int { return 32 }

// New returns the value for v rounded to single precision. NaN and
// infinities fail with ErrOutOfRange.
func (t *Float32Type) New(v float64) (Float32, error) {
	f := float32(v)
	if math.IsNaN(v) || math.IsInf(float64(f), 0) {
		return Float32{}, fmt.Errorf("%w: %s: %v is not a finite float32", ErrOutOfRange, t.id, v)
	}
	return Float32{typ: t, v: f}, nil
}

// CompatibleBytes accepts exactly 4 octets.
func (t *Float32Type) CompatibleBytes(data []byte) bool {
	return len(data) == 4
}

// DecodeBytes decodes a big-endian IEEE 754 float.
func (t *Float32Type) DecodeBytes(data []byte) (Value, error) {
	f := math.Float32frombits(binary.BigEndian.Uint32(data))
	if math.IsNaN(float64(f)) || math.IsInf(float64(f), 0) {
		return nil, fmt.Errorf("%w: %s: % X is not a finite float32", ErrOutOfRange, t.id, data)
	}
	return Float32{typ: t, v: f}, nil
}

// CompatibleTokens accepts a token holding a decimal number.
func (t *Float32Type) CompatibleTokens(tokens []string) bool {
	_, ok := FindPattern(tokens, numberPattern, parseNumber)
	return ok
}

// DecodeTokens parses the first number.
func (t *Float32Type) DecodeTokens(tokens []string) (Value, error) {
	v, ok := FindPattern(tokens, numberPattern, parseNumber)
	if !ok {
		return nil, fmt.Errorf("%w: %s expects a number", ErrIncompatibleSyntax, t.id)
	}
	return valueOf(t.New(v))
}

// Float32 is a value of a Float32Type.
type Float32 struct {
	typ *Float32Type
	v   float32
}

func (v Float32) Type() Type   { return v.typ }
func (v Float32) Payload() any { return v.v }

// Float returns the decoded number.
func (v Float32) Float() float64 { return float64(v.v) }

func (v Float32) Bytes() []byte {
	return binary.BigEndian.AppendUint32(nil, math.Float32bits(v.v))
}

func (v Float32) Text() string {
	return v.typ.withUnit(formatFloat32(v.v))
}

// formatFloat32 renders f with the shortest representation that reads back
// as the same float32.
func formatFloat32(f float32) string {
	return strconv.FormatFloat(float64(f), 'f', -1, 32)
}
