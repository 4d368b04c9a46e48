// Package dpt implements KNX Datapoint Types (DPTs).
//
// A datapoint type is a fixed binary encoding used on the KNX bus, from a
// single bit up to a few octets. This package converts between raw telegram
// payloads and typed values, and parses values from free-form string tokens
// for command-line and configuration use.
//
// # Types and values
//
// Every type implements Type (identity plus a byte codec). Types that can be
// built from string tokens additionally implement TokenParser. Decoding
// always goes through the package-level protocol functions:
//
//	v, err := dpt.ParseBytes(dpt.DPTTemperature, []byte{0x0C, 0x01})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(v.Text()) // "20.5 °C"
//
//	v, err = dpt.ParseTokens(dpt.DPTSwitch, "on")
//
// ParseTokens falls back to hexadecimal input ("0x0C 0x01") when the tokens
// are not understood semantically.
//
// # Codecs
//
//   - Range: closed interval checks for numeric types
//   - EncodeFlags / DecodeFlags / IsBitSet: flag words over 1-2 octets
//   - EncodeFloat16 / DecodeFloat16: KNX 2-octet float (DPT 9.xxx)
//   - EncodeTimeOfDay, EncodeDate, EncodeDateTime: packed date/time fields
//
// # Registry
//
// Default returns the process-wide registry holding the built-in catalog.
// It is populated once during package initialisation and sealed; lookups
// are case-insensitive and safe for concurrent use. Re-initialisation is not
// supported.
//
//	t, err := dpt.Default().Lookup("dpst-9-1")
//
// # Thread Safety
//
// Types and values are immutable. All codec functions are pure.
package dpt
