package dpt

import (
	"encoding/binary"
	"fmt"
	"math"
	"regexp"
	"strconv"
)

// IntegerType is a fixed-width integer type: U8/V8 (DPT 5/6), U16/V16
// (DPT 7/8) and U32/V32 (DPT 12/13). An optional Scale converts raw wire
// values to display values, e.g. 0-255 → 0-100 % for DPT 5.001.
type IntegerType struct {
	identity
	octets int
	signed bool
	rng    Range[int64]
	scale  *Scale
}

// IntegerOption configures an IntegerType.
type IntegerOption func(*IntegerType)

// WithScale displays raw values multiplied by factor.
func WithScale(factor float64) IntegerOption {
	return func(t *IntegerType) {
		t.scale = &Scale{Factor: factor}
	}
}

// WithRawRange narrows the accepted raw values to [lower, upper].
func WithRawRange(lower, upper int64) IntegerOption {
	return func(t *IntegerType) {
		t.rng = NewRange(lower, upper)
	}
}

// WithUnit sets the display unit.
func WithUnit(unit string) IntegerOption {
	return func(t *IntegerType) {
		t.unit = unit
	}
}

// NewIntegerType returns an integer type of the given width (1, 2 or 4
// octets). The raw range defaults to everything the width can carry.
func NewIntegerType(id, description string, octets int, signed bool, opts ...IntegerOption) *IntegerType {
	t := &IntegerType{
		identity: identity{id: id, description: description},
		octets:   octets,
		signed:   signed,
		rng:      widthRange(octets, signed),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// widthRange is the raw range of an octets-wide integer.
func widthRange(octets int, signed bool) Range[int64] {
	bits := uint(octets * bitsPerOctet)
	if signed {
		return NewRange(-int64(1)<<(bits-1), int64(1)<<(bits-1)-1)
	}
	return NewRange(int64(0), int64(1)<<bits-1)
}

// Bits returns the payload width.
func (t *IntegerType) Bits() int { return t.octets * bitsPerOctet }

// Signed reports whether the type is two's complement.
func (t *IntegerType) Signed() bool { return t.signed }

// RawRange returns the accepted raw values.
func (t *IntegerType) RawRange() Range[int64] { return t.rng }

// Scale returns the display scaling, nil for unscaled types.
func (t *IntegerType) Scale() *Scale { return t.scale }

// DisplayRange returns the accepted values in display units.
func (t *IntegerType) DisplayRange() Range[float64] {
	return NewRange(t.display(t.rng.Lower), t.display(t.rng.Upper))
}

func (t *IntegerType) display(raw int64) float64 {
	if t.scale == nil {
		return float64(raw)
	}
	return t.scale.Display(raw)
}

// New returns the value for a raw wire integer.
func (t *IntegerType) New(raw int64) (Integer, error) {
	if err := t.rng.Check(raw); err != nil {
		return Integer{}, fmt.Errorf("%s: %w", t.id, err)
	}
	return Integer{typ: t, raw: raw}, nil
}

// FromDisplay returns the value nearest to a display value.
func (t *IntegerType) FromDisplay(v float64) (Integer, error) {
	// Anything beyond 2^52 is outside every supported width and would not
	// convert to int64 exactly.
	if math.IsNaN(v) || math.Abs(v) > 1<<52 {
		return Integer{}, fmt.Errorf("%w: %s: %v", ErrOutOfRange, t.id, v)
	}
	if t.scale == nil {
		return t.New(int64(math.Round(v)))
	}
	return t.New(t.scale.Raw(v))
}

// CompatibleBytes accepts exactly the width of t.
func (t *IntegerType) CompatibleBytes(data []byte) bool {
	return len(data) == t.octets
}

// DecodeBytes decodes a big-endian integer.
func (t *IntegerType) DecodeBytes(data []byte) (Value, error) {
	var raw int64
	switch t.octets {
	case 1:
		if t.signed {
			raw = int64(int8(data[0]))
		} else {
			raw = int64(data[0])
		}
	case 2:
		u := binary.BigEndian.Uint16(data)
		if t.signed {
			raw = int64(int16(u))
		} else {
			raw = int64(u)
		}
	case 4:
		u := binary.BigEndian.Uint32(data)
		if t.signed {
			raw = int64(int32(u))
		} else {
			raw = int64(u)
		}
	default:
		return nil, fmt.Errorf("%w: %s: unsupported width %d", ErrIncompatibleBytes, t.id, t.octets)
	}
	return valueOf(t.New(raw))
}

var numberPattern = regexp.MustCompile(`^([-+]?(?:\d+(?:\.\d+)?|\.\d+))$`)

func parseNumber(m []string) (float64, error) {
	return strconv.ParseFloat(m[1], 64)
}

// CompatibleTokens accepts a token holding a decimal number.
func (t *IntegerType) CompatibleTokens(tokens []string) bool {
	_, ok := FindPattern(tokens, numberPattern, parseNumber)
	return ok
}

// DecodeTokens parses the first number, in display units for scaled types.
// Unscaled types reject fractions.
func (t *IntegerType) DecodeTokens(tokens []string) (Value, error) {
	v, ok := FindPattern(tokens, numberPattern, parseNumber)
	if !ok {
		return nil, fmt.Errorf("%w: %s expects a number", ErrIncompatibleSyntax, t.id)
	}
	if t.scale == nil && v != math.Trunc(v) {
		return nil, fmt.Errorf("%w: %s expects an integer, got %v", ErrIncompatibleSyntax, t.id, v)
	}
	return valueOf(t.FromDisplay(v))
}

// Integer is a value of an IntegerType.
type Integer struct {
	typ *IntegerType
	raw int64
}

func (v Integer) Type() Type   { return v.typ }
func (v Integer) Payload() any { return v.raw }

// Raw returns the wire integer.
func (v Integer) Raw() int64 { return v.raw }

// Float returns the value in display units.
func (v Integer) Float() float64 { return v.typ.display(v.raw) }

func (v Integer) Bytes() []byte {
	data := make([]byte, v.typ.octets)
	switch v.typ.octets {
	case 1:
		data[0] = byte(v.raw)
	case 2:
		binary.BigEndian.PutUint16(data, uint16(v.raw))
	case 4:
		binary.BigEndian.PutUint32(data, uint32(v.raw))
	}
	return data
}

func (v Integer) Text() string {
	if v.typ.scale == nil {
		return v.typ.withUnit(strconv.FormatInt(v.raw, 10))
	}
	return v.typ.withUnit(formatNumber(v.Float()))
}
