package dpt

import (
	"fmt"
	"regexp"
	"strconv"
)

// Step control bit layout (DPT 3.xxx): 0000 CSSS.
const (
	stepDirectionBit = 0x08
	stepCodeMask     = 0x07
	maxStepCode      = 7
)

// stopTokens select step code 0.
var stopTokens = []string{"stop", "break"}

// Step is the payload of a step control type.
type Step struct {
	// Up is the direction bit c. Its meaning depends on the type: increase
	// for dimming, down for blinds.
	Up bool

	// Code is the step code 0-7. Zero stops the movement; n > 0 divides the
	// range into 2^(n-1) intervals.
	Code uint8
}

// Intervals returns the number of intervals selected by the step code.
func (s Step) Intervals() int {
	if s.Code == 0 {
		return 0
	}
	return 1 << (s.Code - 1)
}

// StepType is a 4-bit relative control type (DPT 3.xxx).
type StepType struct {
	identity
	downText string
	upText   string
}

// NewStepType returns a step control type whose direction bit reads as
// downText (0) or upText (1).
func NewStepType(id, description, downText, upText string) *StepType {
	return &StepType{
		identity: identity{id: id, description: description},
		downText: downText,
		upText:   upText,
	}
}

// Bits returns the payload width.
func (t *StepType) Bits() int { return 4 }

// New returns the value for s. Step codes above 7 fail with ErrOutOfRange.
func (t *StepType) New(s Step) (StepControl, error) {
	if s.Code > maxStepCode {
		return StepControl{}, fmt.Errorf("%w: %s step code %d", ErrOutOfRange, t.id, s.Code)
	}
	return StepControl{typ: t, s: s}, nil
}

// CompatibleBytes accepts one octet with only bits 0-3 in use.
func (t *StepType) CompatibleBytes(data []byte) bool {
	return len(data) == 1 && data[0]&^(stepDirectionBit|stepCodeMask) == 0
}

// DecodeBytes decodes the direction bit and step code.
func (t *StepType) DecodeBytes(data []byte) (Value, error) {
	return valueOf(t.New(Step{
		Up:   data[0]&stepDirectionBit != 0,
		Code: data[0] & stepCodeMask,
	}))
}

var stepCodePattern = regexp.MustCompile(`^(\d+)$`)

func parseStepCode(m []string) (uint64, error) {
	return strconv.ParseUint(m[1], 10, 64)
}

// CompatibleTokens accepts a direction name or a stop token.
func (t *StepType) CompatibleTokens(tokens []string) bool {
	return HasToken(tokens, t.downText, t.upText) || HasToken(tokens, stopTokens...)
}

// DecodeTokens parses "<direction> <code>" or "[direction] stop". A
// direction without a code selects code 1; stop without a direction clears
// the direction bit.
func (t *StepType) DecodeTokens(tokens []string) (Value, error) {
	dir, ok := FindName(tokens, t.downText, t.upText)
	if HasToken(tokens, stopTokens...) {
		return valueOf(t.New(Step{Up: ok && dir == t.upText}))
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s expects %s, %s or stop", ErrIncompatibleSyntax, t.id, t.downText, t.upText)
	}
	code, ok := FindPattern(tokens, stepCodePattern, parseStepCode)
	if !ok {
		code = 1
	}
	if code > maxStepCode {
		return nil, fmt.Errorf("%w: %s step code %d", ErrOutOfRange, t.id, code)
	}
	return valueOf(t.New(Step{Up: dir == t.upText, Code: uint8(code)}))
}

// StepControl is a value of a StepType.
type StepControl struct {
	typ *StepType
	s   Step
}

func (v StepControl) Type() Type   { return v.typ }
func (v StepControl) Payload() any { return v.s }

// Step returns the decoded direction and step code.
func (v StepControl) Step() Step { return v.s }

func (v StepControl) Bytes() []byte {
	b := v.s.Code & stepCodeMask
	if v.s.Up {
		b |= stepDirectionBit
	}
	return []byte{b}
}

// Text renders "<direction> <code>", or "<direction> stop" for code 0 so
// the direction bit survives.
func (v StepControl) Text() string {
	dir := v.typ.downText
	if v.s.Up {
		dir = v.typ.upText
	}
	if v.s.Code == 0 {
		return dir + " stop"
	}
	return fmt.Sprintf("%s %d", dir, v.s.Code)
}
