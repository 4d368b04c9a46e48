// Package export renders the datapoint type catalog and decoded values as
// YAML, JSON or CBOR documents.
package export

import (
	"encoding/hex"

	"github.com/nerrad567/gray-logic-dpt/internal/dpt"
)

// Document is the exported catalog.
type Document struct {
	Types []TypeEntry `json:"types" yaml:"types" cbor:"types"`
}

// TypeEntry describes one registered type.
type TypeEntry struct {
	ID          string      `json:"id" yaml:"id" cbor:"id"`
	Aliases     []string    `json:"aliases,omitempty" yaml:"aliases,omitempty" cbor:"aliases,omitempty"`
	Description string      `json:"description" yaml:"description" cbor:"description"`
	Unit        string      `json:"unit,omitempty" yaml:"unit,omitempty" cbor:"unit,omitempty"`
	Bits        int         `json:"bits,omitempty" yaml:"bits,omitempty" cbor:"bits,omitempty"`
	Range       *RangeEntry `json:"range,omitempty" yaml:"range,omitempty" cbor:"range,omitempty"`
	Values      []EnumEntry `json:"values,omitempty" yaml:"values,omitempty" cbor:"values,omitempty"`
	Flags       []FlagEntry `json:"flags,omitempty" yaml:"flags,omitempty" cbor:"flags,omitempty"`
}

// RangeEntry is an inclusive value range in display units.
type RangeEntry struct {
	Min float64 `json:"min" yaml:"min" cbor:"min"`
	Max float64 `json:"max" yaml:"max" cbor:"max"`
}

// EnumEntry is one value of an enumerated type.
type EnumEntry struct {
	Ordinal     uint8  `json:"ordinal" yaml:"ordinal" cbor:"ordinal"`
	Name        string `json:"name" yaml:"name" cbor:"name"`
	Description string `json:"description" yaml:"description" cbor:"description"`
}

// FlagEntry is one bit of a flag word.
type FlagEntry struct {
	Bit         int    `json:"bit" yaml:"bit" cbor:"bit"`
	Name        string `json:"name" yaml:"name" cbor:"name"`
	Description string `json:"description" yaml:"description" cbor:"description"`
}

type bitWidth interface {
	Bits() int
}

// Catalog describes every type in reg, in registration order.
func Catalog(reg *dpt.Registry) Document {
	types := reg.Types()
	doc := Document{Types: make([]TypeEntry, 0, len(types))}
	for _, t := range types {
		doc.Types = append(doc.Types, describe(t, reg.Aliases(t)))
	}
	return doc
}

func describe(t dpt.Type, ids []string) TypeEntry {
	e := TypeEntry{
		ID:          t.ID(),
		Description: t.Description(),
	}
	// ids[0] is the canonical id.
	if len(ids) > 1 {
		e.Aliases = ids[1:]
	}
	if unit, ok := t.Unit(); ok {
		e.Unit = unit
	}
	if w, ok := t.(bitWidth); ok {
		e.Bits = w.Bits()
	}

	switch t := t.(type) {
	case *dpt.IntegerType:
		r := t.DisplayRange()
		e.Range = &RangeEntry{Min: r.Lower, Max: r.Upper}
	case *dpt.Float16Type:
		r := t.Range()
		e.Range = &RangeEntry{Min: r.Lower, Max: r.Upper}
	case *dpt.EnumType:
		for _, v := range t.Values() {
			e.Values = append(e.Values, EnumEntry{Ordinal: v.Ordinal, Name: v.Name, Description: v.Description})
		}
	case *dpt.FlagsType:
		e.Flags = flagEntries(t.Flags())
	case *dpt.DateTimeType:
		e.Flags = flagEntries(t.Flags())
	}
	return e
}

func flagEntries(defs []dpt.FlagDef) []FlagEntry {
	out := make([]FlagEntry, len(defs))
	for i, d := range defs {
		out[i] = FlagEntry{Bit: d.Bit, Name: d.Name, Description: d.Description}
	}
	return out
}

// ValueEntry is a decoded value.
type ValueEntry struct {
	DPT     string `json:"dpt" yaml:"dpt" cbor:"dpt"`
	Text    string `json:"text" yaml:"text" cbor:"text"`
	Unit    string `json:"unit,omitempty" yaml:"unit,omitempty" cbor:"unit,omitempty"`
	Payload any    `json:"payload" yaml:"payload" cbor:"payload"`
	Raw     string `json:"raw" yaml:"raw" cbor:"raw"`
}

// Value describes v, with its wire encoding as lower-case hex.
func Value(v dpt.Value) ValueEntry {
	e := ValueEntry{
		DPT:     v.Type().ID(),
		Text:    v.Text(),
		Payload: v.Payload(),
		Raw:     hex.EncodeToString(v.Bytes()),
	}
	if unit, ok := v.Type().Unit(); ok {
		e.Unit = unit
	}
	return e
}
