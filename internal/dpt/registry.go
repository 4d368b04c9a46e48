package dpt

import (
	"fmt"
	"slices"
	"strings"
)

// Registry maps identifiers to datapoint types and enumeration constants to
// their descriptors.
//
// A registry has two phases. While open, Register and RegisterEnum populate
// it; they are not safe for concurrent use. Seal ends the first phase, after
// which the registry is read-only and safe for concurrent lookups.
// Re-opening a sealed registry is not supported.
type Registry struct {
	types  map[string]Type     // lower-case id → type
	ids    map[string][]string // canonical id → ids in registration order
	order  []Type              // registration order
	enums  map[any]*EnumValue  // constant → descriptor
	sealed bool
}

// NewRegistry returns an empty, open registry.
func NewRegistry() *Registry {
	return &Registry{
		types: make(map[string]Type),
		ids:   make(map[string][]string),
		enums: make(map[any]*EnumValue),
	}
}

func normaliseID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

// Register binds t to its canonical id and the given aliases. Identifiers are
// case-insensitive. Registering an identifier twice fails with
// ErrDuplicateRegistration and leaves the registry unchanged.
//
// Entries already added to an EnumType are indexed for LookupEnum.
//
// Parameters:
//   - t: Type to register under t.ID()
//   - aliases: Additional identifiers, e.g. "dpst-9-1"
//
// Returns:
//   - error: ErrDuplicateRegistration, or ErrRegistrySealed after Seal
func (r *Registry) Register(t Type, aliases ...string) error {
	if r.sealed {
		return fmt.Errorf("%w: cannot register %s", ErrRegistrySealed, t.ID())
	}

	ids := make([]string, 0, len(aliases)+1)
	seen := make(map[string]bool, len(aliases)+1)
	for _, id := range append([]string{t.ID()}, aliases...) {
		key := normaliseID(id)
		if key == "" {
			return fmt.Errorf("%w: empty identifier for %s", ErrDuplicateRegistration, t.ID())
		}
		if seen[key] {
			continue
		}
		if prev, ok := r.types[key]; ok {
			return fmt.Errorf("%w: id %q of %s already maps to %s", ErrDuplicateRegistration, id, t.ID(), prev.ID())
		}
		seen[key] = true
		ids = append(ids, id)
	}

	if et, ok := t.(*EnumType); ok {
		for _, e := range et.values {
			if _, dup := r.enums[e.Constant]; dup {
				return fmt.Errorf("%w: constant %v of %s", ErrDuplicateRegistration, e.Constant, t.ID())
			}
		}
		for _, e := range et.values {
			r.enums[e.Constant] = e
		}
	}

	for _, id := range ids {
		r.types[normaliseID(id)] = t
	}
	r.ids[t.ID()] = ids
	r.order = append(r.order, t)
	return nil
}

// RegisterEnum adds an entry to the enumerated type registered as baseID.
// constant must be a comparable value, typically a typed Go constant.
// A second entry with the same ordinal, or a constant registered before,
// fails with ErrDuplicateRegistration.
//
// Parameters:
//   - baseID: Id or alias of a registered EnumType
//   - constant: Go constant that selects the entry in LookupEnum and New
//   - ordinal: Wire value
//   - name: Token accepted by the parser
//   - description: Text of decoded values
//
// Returns:
//   - *EnumValue: The new entry
//   - error: ErrNotFound, ErrDuplicateRegistration or ErrRegistrySealed
//
// Example:
//
//	_, err := reg.RegisterEnum("20.102", dpt.HVACComfort, 1, "comfort", "Comfort")
func (r *Registry) RegisterEnum(baseID string, constant any, ordinal uint8, name, description string) (*EnumValue, error) {
	if r.sealed {
		return nil, fmt.Errorf("%w: cannot register enumeration value %q", ErrRegistrySealed, name)
	}
	t, err := r.Lookup(baseID)
	if err != nil {
		return nil, err
	}
	et, ok := t.(*EnumType)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not an enumerated type", ErrNotFound, t.ID())
	}
	if prev, dup := r.enums[constant]; dup {
		return nil, fmt.Errorf("%w: constant %v already registered for %s", ErrDuplicateRegistration, constant, prev.TypeID)
	}

	e := &EnumValue{
		TypeID:      et.ID(),
		Constant:    constant,
		Ordinal:     ordinal,
		Name:        name,
		Description: description,
	}
	if err := et.add(e); err != nil {
		return nil, err
	}
	r.enums[constant] = e
	return e, nil
}

// Seal ends the registration phase.
func (r *Registry) Seal() {
	r.sealed = true
	for _, t := range r.order {
		if et, ok := t.(*EnumType); ok {
			et.sealed = true
		}
	}
}

// Lookup returns the type registered under id, ignoring case.
//
// Parameters:
//   - id: Canonical id or alias ("9.001", "DPST-9-1", "dpt-9"); surrounding
//     space is ignored
//
// Returns:
//   - Type: The registered type
//   - error: ErrNotFound for unknown identifiers
func (r *Registry) Lookup(id string) (Type, error) {
	t, ok := r.types[normaliseID(id)]
	if !ok {
		return nil, fmt.Errorf("%w: datapoint type %q", ErrNotFound, id)
	}
	return t, nil
}

// MustLookup is like Lookup but panics on a miss. It is meant for
// package-level tables built from known identifiers.
func (r *Registry) MustLookup(id string) Type {
	t, err := r.Lookup(id)
	if err != nil {
		panic(err)
	}
	return t
}

// LookupEnum returns the descriptor registered for constant.
func (r *Registry) LookupEnum(constant any) (*EnumValue, error) {
	e, ok := r.enums[constant]
	if !ok {
		return nil, fmt.Errorf("%w: enumeration constant %v", ErrNotFound, constant)
	}
	return e, nil
}

// Aliases returns every identifier t is registered under, canonical id
// first. It returns nil for types this registry does not know.
func (r *Registry) Aliases(t Type) []string {
	return slices.Clone(r.ids[t.ID()])
}

// Types returns the registered types in registration order.
func (r *Registry) Types() []Type {
	return slices.Clone(r.order)
}

// Len returns the number of registered types.
func (r *Registry) Len() int {
	return len(r.order)
}

// Parse looks up id and parses tokens with ParseTokens.
func (r *Registry) Parse(id string, tokens ...string) (Value, error) {
	t, err := r.Lookup(id)
	if err != nil {
		return nil, err
	}
	return ParseTokens(t, tokens...)
}

// Decode looks up id and decodes data with ParseBytes.
func (r *Registry) Decode(id string, data []byte) (Value, error) {
	t, err := r.Lookup(id)
	if err != nil {
		return nil, err
	}
	return ParseBytes(t, data)
}
