package dpt

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
)

// EnumValue describes one registered enumeration constant.
type EnumValue struct {
	// TypeID is the canonical id of the enumerated type.
	TypeID string

	// Constant is the Go constant this entry wraps.
	Constant any

	// Ordinal is the wire value.
	Ordinal uint8

	// Name is the token name (e.g. "comfort").
	Name string

	// Description is a short human description.
	Description string
}

// EnumType is a 1-octet enumerated type (DPT 20.xxx). Its entries are
// added through Registry.RegisterEnum while the owning registry is open.
type EnumType struct {
	identity
	values    []*EnumValue
	byOrdinal map[uint8]*EnumValue
	sealed    bool
}

// NewEnumType returns an enumerated type without entries.
func NewEnumType(id, description string) *EnumType {
	return &EnumType{
		identity:  identity{id: id, description: description},
		byOrdinal: make(map[uint8]*EnumValue),
	}
}

// Bits returns the payload width.
func (t *EnumType) Bits() int { return 8 }

// Values returns the entries ordered by ordinal.
func (t *EnumType) Values() []*EnumValue {
	return slices.Clone(t.values)
}

// ByOrdinal returns the entry with the given wire value.
func (t *EnumType) ByOrdinal(ordinal uint8) (*EnumValue, bool) {
	e, ok := t.byOrdinal[ordinal]
	return e, ok
}

// add inserts an entry keeping values sorted by ordinal.
func (t *EnumType) add(e *EnumValue) error {
	if t.sealed {
		return fmt.Errorf("%w: enumeration %s", ErrRegistrySealed, t.id)
	}
	if prev, ok := t.byOrdinal[e.Ordinal]; ok {
		return fmt.Errorf("%w: %s ordinal %d used by %q and %q", ErrDuplicateRegistration, t.id, e.Ordinal, prev.Name, e.Name)
	}
	t.byOrdinal[e.Ordinal] = e
	i, _ := slices.BinarySearchFunc(t.values, e.Ordinal, func(v *EnumValue, o uint8) int {
		return int(v.Ordinal) - int(o)
	})
	t.values = slices.Insert(t.values, i, e)
	return nil
}

// New returns the value wrapping constant.
func (t *EnumType) New(constant any) (Enum, error) {
	for _, e := range t.values {
		if e.Constant == constant {
			return Enum{typ: t, entry: e}, nil
		}
	}
	return Enum{}, fmt.Errorf("%w: %s has no constant %v", ErrOutOfRange, t.id, constant)
}

// CompatibleBytes accepts a single octet.
func (t *EnumType) CompatibleBytes(data []byte) bool {
	return len(data) == 1
}

// DecodeBytes maps the octet to its registered entry.
func (t *EnumType) DecodeBytes(data []byte) (Value, error) {
	e, ok := t.byOrdinal[data[0]]
	if !ok {
		return nil, fmt.Errorf("%w: %s has no value %d", ErrOutOfRange, t.id, data[0])
	}
	return Enum{typ: t, entry: e}, nil
}

func (t *EnumType) names() []string {
	names := make([]string, len(t.values))
	for i, e := range t.values {
		names[i] = e.Name
	}
	return names
}

// CompatibleTokens accepts a constant name or a decimal ordinal.
func (t *EnumType) CompatibleTokens(tokens []string) bool {
	if HasToken(tokens, t.names()...) {
		return true
	}
	_, ok := t.ordinalToken(tokens)
	return ok
}

var ordinalPattern = regexp.MustCompile(`^(\d{1,3})$`)

func (t *EnumType) ordinalToken(tokens []string) (*EnumValue, bool) {
	return FindPattern(tokens, ordinalPattern, func(m []string) (*EnumValue, error) {
		n, err := strconv.ParseUint(m[1], 10, 8)
		if err != nil {
			return nil, err
		}
		e, ok := t.byOrdinal[uint8(n)]
		if !ok {
			return nil, ErrNotFound
		}
		return e, nil
	})
}

// DecodeTokens resolves a constant name, then a decimal ordinal.
func (t *EnumType) DecodeTokens(tokens []string) (Value, error) {
	if name, ok := FindName(tokens, t.names()...); ok {
		for _, e := range t.values {
			if e.Name == name {
				return Enum{typ: t, entry: e}, nil
			}
		}
	}
	if e, ok := t.ordinalToken(tokens); ok {
		return Enum{typ: t, entry: e}, nil
	}
	return nil, fmt.Errorf("%w: %s: no enumeration value in %q", ErrIncompatibleSyntax, t.id, tokens)
}

// Enum is a value of an EnumType.
type Enum struct {
	typ   *EnumType
	entry *EnumValue
}

func (v Enum) Type() Type        { return v.typ }
func (v Enum) Bytes() []byte     { return []byte{v.entry.Ordinal} }
func (v Enum) Text() string      { return v.entry.Description }
func (v Enum) Payload() any      { return v.entry.Ordinal }
func (v Enum) Entry() *EnumValue { return v.entry }
func (v Enum) Constant() any     { return v.entry.Constant }
func (v Enum) Name() string      { return v.entry.Name }
