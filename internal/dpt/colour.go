package dpt

import (
	"fmt"
	"regexp"
	"strconv"
)

// rgbOctets is the payload length of DPT 232.600.
const rgbOctets = 3

// RGB is the payload of DPT 232.600.
type RGB struct {
	R, G, B uint8
}

// String renders the colour as #RRGGBB.
func (c RGB) String() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// ColourType is DPT 232.600, an RGB colour in three octets.
type ColourType struct {
	identity
}

// NewColourType returns an RGB colour type.
func NewColourType(id, description string) *ColourType {
	return &ColourType{identity: identity{id: id, description: description}}
}

// Bits returns the payload width.
func (t *ColourType) Bits() int { return rgbOctets * bitsPerOctet }

// New returns the value for c.
func (t *ColourType) New(c RGB) Colour {
	return Colour{typ: t, c: c}
}

// CompatibleBytes accepts exactly 3 octets.
func (t *ColourType) CompatibleBytes(data []byte) bool {
	return len(data) == rgbOctets
}

// DecodeBytes decodes red, green and blue.
func (t *ColourType) DecodeBytes(data []byte) (Value, error) {
	return t.New(RGB{R: data[0], G: data[1], B: data[2]}), nil
}

var (
	hexColourPattern = regexp.MustCompile(`^#([0-9A-Fa-f]{6})$`)
	componentPattern = regexp.MustCompile(`^\d+$`)
)

func parseHexColour(m []string) (RGB, error) {
	n, err := strconv.ParseUint(m[1], 16, 32)
	if err != nil {
		return RGB{}, err
	}
	return RGB{R: uint8(n >> 16), G: uint8(n >> 8), B: uint8(n)}, nil
}

func componentTokens(tokens []string) []string {
	var comps []string
	for _, tok := range tokens {
		if componentPattern.MatchString(tok) {
			comps = append(comps, tok)
		}
	}
	return comps
}

// CompatibleTokens accepts #RRGGBB or three decimal components.
func (t *ColourType) CompatibleTokens(tokens []string) bool {
	if _, ok := FindPattern(tokens, hexColourPattern, parseHexColour); ok {
		return true
	}
	return len(componentTokens(tokens)) == rgbOctets
}

// DecodeTokens parses "#RRGGBB" or "R G B" with components 0-255.
func (t *ColourType) DecodeTokens(tokens []string) (Value, error) {
	if c, ok := FindPattern(tokens, hexColourPattern, parseHexColour); ok {
		return t.New(c), nil
	}
	comps := componentTokens(tokens)
	if len(comps) != rgbOctets {
		return nil, fmt.Errorf("%w: %s expects #RRGGBB or three components", ErrIncompatibleSyntax, t.id)
	}
	var rgb [rgbOctets]uint8
	for i, s := range comps {
		n, err := strconv.ParseUint(s, 10, 64)
		if err != nil || n > 0xFF {
			return nil, fmt.Errorf("%w: %s component %s not in [0, 255]", ErrOutOfRange, t.id, s)
		}
		rgb[i] = uint8(n)
	}
	return t.New(RGB{R: rgb[0], G: rgb[1], B: rgb[2]}), nil
}

// Colour is a value of a ColourType.
type Colour struct {
	typ *ColourType
	c   RGB
}

func (v Colour) Type() Type    { return v.typ }
func (v Colour) Payload() any  { return v.c }
func (v Colour) Bytes() []byte { return []byte{v.c.R, v.c.G, v.c.B} }
func (v Colour) Text() string  { return v.c.String() }

// RGB returns the colour components.
func (v Colour) RGB() RGB { return v.c }
