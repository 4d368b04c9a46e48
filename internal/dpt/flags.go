package dpt

import (
	"fmt"
	"slices"
	"strings"
)

// noFlagsText renders and parses an empty flag word.
const noFlagsText = "none"

// FlagsType is a status word of named bits (DPT 21.xxx over one octet,
// DPT 22.xxx over two). Bits without a definition are reserved and must
// be zero.
type FlagsType struct {
	identity
	octets int
	defs   []FlagDef
	mask   uint16
}

// NewFlagsType returns a flag word type of 1 or 2 octets.
func NewFlagsType(id, description string, octets int, defs ...FlagDef) *FlagsType {
	t := &FlagsType{
		identity: identity{id: id, description: description},
		octets:   octets,
		defs:     slices.Clone(defs),
	}
	slices.SortFunc(t.defs, func(a, b FlagDef) int { return a.Bit - b.Bit })
	for _, d := range t.defs {
		t.mask |= 1 << d.Bit
	}
	return t
}

// Bits returns the payload width.
func (t *FlagsType) Bits() int { return t.octets * bitsPerOctet }

// Flags returns the defined bits ordered by bit index.
func (t *FlagsType) Flags() []FlagDef { return slices.Clone(t.defs) }

// Flag returns the definition named name, ignoring case.
func (t *FlagsType) Flag(name string) (FlagDef, bool) {
	for _, d := range t.defs {
		if strings.EqualFold(d.Name, name) {
			return d, true
		}
	}
	return FlagDef{}, false
}

// New returns the value with the named flags set. Unknown names fail with
// ErrIncompatibleSyntax.
func (t *FlagsType) New(names ...string) (Flags, error) {
	bits := make([]bool, t.Bits())
	for _, name := range names {
		d, ok := t.Flag(name)
		if !ok {
			return Flags{}, fmt.Errorf("%w: %s has no flag %q", ErrIncompatibleSyntax, t.id, name)
		}
		bits[d.Bit] = true
	}
	data, err := EncodeFlags(t.octets, bits)
	if err != nil {
		return Flags{}, err
	}
	return Flags{typ: t, word: wordFromBytes(data)}, nil
}

// CompatibleBytes accepts the width of t with reserved bits clear.
func (t *FlagsType) CompatibleBytes(data []byte) bool {
	return len(data) == t.octets && wordFromBytes(data)&^t.mask == 0
}

// DecodeBytes decodes the flag word.
func (t *FlagsType) DecodeBytes(data []byte) (Value, error) {
	return Flags{typ: t, word: wordFromBytes(data)}, nil
}

func (t *FlagsType) names() []string {
	names := make([]string, len(t.defs))
	for i, d := range t.defs {
		names[i] = d.Name
	}
	return names
}

// CompatibleTokens accepts flag names or "none".
func (t *FlagsType) CompatibleTokens(tokens []string) bool {
	return HasToken(tokens, append(t.names(), noFlagsText)...)
}

// DecodeTokens sets every named flag. All tokens must be flag names, or the
// single token "none".
func (t *FlagsType) DecodeTokens(tokens []string) (Value, error) {
	if len(tokens) == 1 && strings.EqualFold(tokens[0], noFlagsText) {
		return valueOf(t.New())
	}
	return valueOf(t.New(tokens...))
}

// Flags is a value of a FlagsType.
type Flags struct {
	typ  *FlagsType
	word uint16
}

func (v Flags) Type() Type   { return v.typ }
func (v Flags) Payload() any { return v.word }

// Word returns the flag word, bit 0 being the least significant bit.
func (v Flags) Word() uint16 { return v.word }

func (v Flags) Bytes() []byte {
	return wordToBytes(v.word, v.typ.octets)
}

// IsSet reports whether bit is set.
func (v Flags) IsSet(bit int) bool {
	set, err := IsBitSet(v.Bytes(), bit)
	return err == nil && set
}

// Flag reports whether the flag named name is set. The second result is
// false when the type has no such flag.
func (v Flags) Flag(name string) (set, ok bool) {
	d, ok := v.typ.Flag(name)
	if !ok {
		return false, false
	}
	return v.IsSet(d.Bit), true
}

// Set returns the names of the set flags ordered by bit.
func (v Flags) Set() []string {
	var names []string
	for _, d := range v.typ.defs {
		if v.IsSet(d.Bit) {
			names = append(names, d.Name)
		}
	}
	return names
}

// Text lists the set flags, or "none".
func (v Flags) Text() string {
	set := v.Set()
	if len(set) == 0 {
		return noFlagsText
	}
	return strings.Join(set, " ")
}
