package dpt

import (
	"fmt"
	"slices"
)

// Generic boolean tokens accepted by every 1-bit type.
var (
	trueTokens  = []string{"true", "1"}
	falseTokens = []string{"false", "0"}
)

// BooleanType is a 1-bit type (DPT 1.xxx). The two states carry
// type-specific names such as "off"/"on" or "up"/"down".
type BooleanType struct {
	identity
	falseText string
	trueText  string
}

// NewBooleanType returns a 1-bit type rendering its states as falseText and
// trueText. The texts double as parse tokens.
func NewBooleanType(id, description, falseText, trueText string) *BooleanType {
	return &BooleanType{
		identity:  identity{id: id, description: description},
		falseText: falseText,
		trueText:  trueText,
	}
}

// Texts returns the names of the false and true states.
func (t *BooleanType) Texts() (falseText, trueText string) {
	return t.falseText, t.trueText
}

// Bits returns the payload width.
func (t *BooleanType) Bits() int { return 1 }

// New returns the value for v.
func (t *BooleanType) New(v bool) Boolean {
	return Boolean{typ: t, v: v}
}

// CompatibleBytes accepts one octet with only bit 0 in use.
func (t *BooleanType) CompatibleBytes(data []byte) bool {
	return len(data) == 1 && data[0]&^0x01 == 0
}

// DecodeBytes decodes bit 0.
func (t *BooleanType) DecodeBytes(data []byte) (Value, error) {
	return t.New(data[0] == 0x01), nil
}

func (t *BooleanType) stateTokens() (trueNames, falseNames []string) {
	trueNames = append(slices.Clone(trueTokens), t.trueText)
	falseNames = append(slices.Clone(falseTokens), t.falseText)
	return trueNames, falseNames
}

// stateFromTokens resolves the first state token.
func (t *BooleanType) stateFromTokens(tokens []string) (bool, bool) {
	trueNames, falseNames := t.stateTokens()
	name, ok := FindName(tokens, append(trueNames, falseNames...)...)
	if !ok {
		return false, false
	}
	return slices.Contains(trueNames, name), true
}

// CompatibleTokens accepts true/false, 1/0 and the state names of t.
func (t *BooleanType) CompatibleTokens(tokens []string) bool {
	_, ok := t.stateFromTokens(tokens)
	return ok
}

// DecodeTokens parses a state token.
func (t *BooleanType) DecodeTokens(tokens []string) (Value, error) {
	v, ok := t.stateFromTokens(tokens)
	if !ok {
		return nil, fmt.Errorf("%w: %s expects %s or %s", ErrIncompatibleSyntax, t.id, t.falseText, t.trueText)
	}
	return t.New(v), nil
}

// Boolean is a value of a BooleanType.
type Boolean struct {
	typ *BooleanType
	v   bool
}

func (v Boolean) Type() Type   { return v.typ }
func (v Boolean) Payload() any { return v.v }

// Bool returns the decoded state.
func (v Boolean) Bool() bool { return v.v }

func (v Boolean) Bytes() []byte {
	if v.v {
		return []byte{0x01}
	}
	return []byte{0x00}
}

func (v Boolean) Text() string {
	if v.v {
		return v.typ.trueText
	}
	return v.typ.falseText
}

// Tokens marking the control bit of a 2-bit type.
var (
	controlTokens   = []string{"control", "controlled"}
	noControlTokens = []string{"no-control"}
)

// Control is the payload of a 2-bit controlled type.
type Control struct {
	// Controlled is the priority bit c; false leaves the receiver free.
	Controlled bool

	// Value is the boolean bit v.
	Value bool
}

// ControlType is a 2-bit type (DPT 2.xxx): a control bit over a 1-bit base.
type ControlType struct {
	identity
	base *BooleanType
}

// NewControlType returns a controlled variant of base.
func NewControlType(id, description string, base *BooleanType) *ControlType {
	return &ControlType{
		identity: identity{id: id, description: description},
		base:     base,
	}
}

// Base returns the 1-bit type interpreting the value bit.
func (t *ControlType) Base() *BooleanType { return t.base }

// Bits returns the payload width.
func (t *ControlType) Bits() int { return 2 }

// New returns the value for c.
func (t *ControlType) New(c Control) Controlled {
	return Controlled{typ: t, c: c}
}

// CompatibleBytes accepts one octet with only bits 0-1 in use.
func (t *ControlType) CompatibleBytes(data []byte) bool {
	return len(data) == 1 && data[0]&^0x03 == 0
}

// DecodeBytes decodes c (bit 1) and v (bit 0).
func (t *ControlType) DecodeBytes(data []byte) (Value, error) {
	return t.New(Control{
		Controlled: data[0]&0x02 != 0,
		Value:      data[0]&0x01 != 0,
	}), nil
}

// CompatibleTokens accepts a state token of the base type, optionally with a
// control token.
func (t *ControlType) CompatibleTokens(tokens []string) bool {
	return t.base.CompatibleTokens(tokens)
}

// DecodeTokens parses "[control|no-control] <state>". Without a control
// token the value is controlled.
func (t *ControlType) DecodeTokens(tokens []string) (Value, error) {
	v, ok := t.base.stateFromTokens(tokens)
	if !ok {
		return nil, fmt.Errorf("%w: %s expects a %s state", ErrIncompatibleSyntax, t.id, t.base.id)
	}
	controlled := !HasToken(tokens, noControlTokens...)
	if HasToken(tokens, controlTokens...) && !controlled {
		return nil, fmt.Errorf("%w: %s: conflicting control tokens in %q", ErrIncompatibleSyntax, t.id, tokens)
	}
	return t.New(Control{Controlled: controlled, Value: v}), nil
}

// Controlled is a value of a ControlType.
type Controlled struct {
	typ *ControlType
	c   Control
}

func (v Controlled) Type() Type   { return v.typ }
func (v Controlled) Payload() any { return v.c }

// Control returns the decoded bits.
func (v Controlled) Control() Control { return v.c }

func (v Controlled) Bytes() []byte {
	var b byte
	if v.c.Controlled {
		b |= 0x02
	}
	if v.c.Value {
		b |= 0x01
	}
	return []byte{b}
}

func (v Controlled) Text() string {
	state := v.typ.base.New(v.c.Value).Text()
	if v.c.Controlled {
		return "control " + state
	}
	return "no-control " + state
}
