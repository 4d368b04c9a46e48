package dpt

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// hexPrefix marks a token stream as raw bytes.
const hexPrefix = "0x"

// ParseBytes decodes a telegram payload as type t.
//
// It fails with ErrIncompatibleBytes when data is nil, longer than 255
// octets, or not of the shape t decodes. Range violations surface as
// ErrOutOfRange.
//
// Parameters:
//   - t: Datapoint type to decode as
//   - data: Telegram payload, without the APCI bits of compact telegrams
//
// Returns:
//   - Value: Decoded value; its Bytes() reproduce data
//   - error: ErrIncompatibleBytes or ErrOutOfRange, wrapped with the type id
//
// Example:
//
//	v, err := dpt.ParseBytes(dpt.DPTTemperature, []byte{0x0C, 0x01})
//	// v.Text() == "20.5 °C"
func ParseBytes(t Type, data []byte) (Value, error) {
	if data == nil {
		return nil, fmt.Errorf("%w: %s: nil payload", ErrIncompatibleBytes, t.ID())
	}
	if len(data) > maxPayloadOctets {
		return nil, fmt.Errorf("%w: %s: %d octets exceed %d", ErrIncompatibleBytes, t.ID(), len(data), maxPayloadOctets)
	}
	if !t.CompatibleBytes(data) {
		return nil, fmt.Errorf("%w: %s: % X", ErrIncompatibleBytes, t.ID(), data)
	}
	return t.DecodeBytes(data)
}

// ParseTokens builds a value of type t from string tokens.
//
// Semantic parsing is attempted first when t implements TokenParser and
// accepts the tokens. If that is not possible, or fails with
// ErrIncompatibleSyntax, the tokens are read as a hexadecimal byte string
// ("0x0C01", "0x0C 0x01", "0x 0C 01") and decoded with ParseBytes. Other
// failures of the semantic parse, such as ErrOutOfRange, are returned as is.
//
// Input whose first token carries the 0x prefix is always hexadecimal, so
// "0x 12 34" is never read as the decimal number 12.
//
// Parameters:
//   - t: Datapoint type to build
//   - tokens: Semantic tokens ("on", "21.5", "comfort") or hex bytes
//
// Returns:
//   - Value: Parsed value
//   - error: ErrIncompatibleSyntax when neither form applies, otherwise the
//     semantic parser's error (typically ErrOutOfRange)
//
// Example:
//
//	v, err := dpt.ParseTokens(dpt.DPTDimmingControl, "increase", "3")
//	// v.Bytes() == []byte{0x0B}
func ParseTokens(t Type, tokens ...string) (Value, error) {
	semantic := len(tokens) > 0 && !hasHexPrefix(tokens[0])
	if tp, ok := t.(TokenParser); ok && semantic && tp.CompatibleTokens(tokens) {
		v, err := tp.DecodeTokens(tokens)
		if err == nil {
			return v, nil
		}
		if !errors.Is(err, ErrIncompatibleSyntax) {
			return nil, err
		}
	}

	data, err := hexTokens(tokens)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %q", ErrIncompatibleSyntax, t.ID(), tokens)
	}
	v, err := ParseBytes(t, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %q: %w", ErrIncompatibleSyntax, t.ID(), tokens, err)
	}
	return v, nil
}

// ParseString splits s on whitespace and calls ParseTokens.
func ParseString(t Type, s string) (Value, error) {
	return ParseTokens(t, splitTokens(s)...)
}

// hexTokens concatenates 0x-prefixed tokens into bytes. The first token must
// carry the prefix; later tokens may omit it.
func hexTokens(tokens []string) ([]byte, error) {
	if len(tokens) == 0 || !hasHexPrefix(tokens[0]) {
		return nil, errors.New("no hex prefix")
	}
	var sb strings.Builder
	for _, tok := range tokens {
		if hasHexPrefix(tok) {
			tok = tok[len(hexPrefix):]
		}
		sb.WriteString(tok)
	}
	return hex.DecodeString(sb.String())
}

func hasHexPrefix(tok string) bool {
	return len(tok) >= len(hexPrefix) && strings.EqualFold(tok[:len(hexPrefix)], hexPrefix)
}
