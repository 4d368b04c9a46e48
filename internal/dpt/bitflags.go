package dpt

import "fmt"

// Flag words store independent booleans most-significant octet first.
// Bit 0 is the least significant bit of the last octet; bit k lives in
// octet len-1-k/8 under mask 1<<(k%8):
//
//	octet:   0                   1
//	bit:     15 14 ... 9  8      7  6 ... 1  0

// bitsPerOctet is the number of flag bits per octet.
const bitsPerOctet = 8

// FlagDef names one bit of a flag word.
type FlagDef struct {
	// Bit is the bit index, 0 = least significant bit of the last octet.
	Bit int

	// Name is the token name (e.g. "fault").
	Name string

	// Description is a short human description.
	Description string
}

// IsBitSet reports whether bit is set in data.
// It fails with ErrOutOfRange unless 0 ≤ bit < 8·len(data).
//
// Parameters:
//   - data: Flag word, most significant octet first
//   - bit: Bit index, 0 = least significant bit of the last octet
//
// Returns:
//   - bool: Whether the bit is set
//   - error: ErrOutOfRange for indexes outside the word
func IsBitSet(data []byte, bit int) (bool, error) {
	if bit < 0 || bit >= len(data)*bitsPerOctet {
		return false, fmt.Errorf("%w: bit %d outside %d-octet flag word", ErrOutOfRange, bit, len(data))
	}
	octet := data[len(data)-1-bit/bitsPerOctet]
	return octet&(1<<(bit%bitsPerOctet)) != 0, nil
}

// EncodeFlags packs flags into a word of the given octet count, flags[i]
// landing on bit i. Bits without a flag are written as zero.
//
// Parameters:
//   - octets: Word width in octets (1 for DPT 21, 2 for DPT 22)
//   - flags: Flag states, index i for bit i
//
// Returns:
//   - []byte: The packed word, most significant octet first
//   - error: ErrOutOfRange if more flags than bits are given
//
// Example:
//
//	data, _ := dpt.EncodeFlags(2, []bool{true, false, true})
//	// data == []byte{0x00, 0x05}
func EncodeFlags(octets int, flags []bool) ([]byte, error) {
	if len(flags) > octets*bitsPerOctet {
		return nil, fmt.Errorf("%w: %d flags do not fit %d octets", ErrOutOfRange, len(flags), octets)
	}
	data := make([]byte, octets)
	for i, set := range flags {
		if set {
			data[octets-1-i/bitsPerOctet] |= 1 << (i % bitsPerOctet)
		}
	}
	return data, nil
}

// DecodeFlags unpacks the first n bits of data, index i holding bit i.
// Bits beyond the word read as false.
func DecodeFlags(data []byte, n int) []bool {
	flags := make([]bool, n)
	for i := range flags {
		flags[i], _ = IsBitSet(data, i)
	}
	return flags
}

// wordFromBytes folds a flag word of up to 2 octets into a uint16.
func wordFromBytes(data []byte) uint16 {
	var w uint16
	for _, b := range data {
		w = w<<bitsPerOctet | uint16(b)
	}
	return w
}

// wordToBytes is the inverse of wordFromBytes.
func wordToBytes(w uint16, octets int) []byte {
	data := make([]byte, octets)
	for i := octets - 1; i >= 0; i-- {
		data[i] = byte(w)
		w >>= bitsPerOctet
	}
	return data
}
