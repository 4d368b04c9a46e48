package dpt

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// textOctets is the fixed payload length of DPT 16.xxx.
const textOctets = 14

// TextType is a 14-octet character string (DPT 16.xxx), NUL padded.
// DPT 16.000 is restricted to ASCII; 16.001 uses ISO 8859-1.
type TextType struct {
	identity
	latin1 bool
}

// NewASCIIType returns a 14-octet ASCII string type.
func NewASCIIType(id, description string) *TextType {
	return &TextType{identity: identity{id: id, description: description}}
}

// NewLatin1Type returns a 14-octet ISO 8859-1 string type.
func NewLatin1Type(id, description string) *TextType {
	return &TextType{identity: identity{id: id, description: description}, latin1: true}
}

// Bits returns the payload width.
func (t *TextType) Bits() int { return textOctets * bitsPerOctet }

// New returns the value for s. Strings longer than 14 characters, strings
// containing NUL and characters outside the type's charset fail with
// ErrOutOfRange.
func (t *TextType) New(s string) (Text, error) {
	if _, err := t.encode(s); err != nil {
		return Text{}, err
	}
	return Text{typ: t, s: s}, nil
}

func (t *TextType) encode(s string) ([]byte, error) {
	if strings.ContainsRune(s, 0) {
		return nil, fmt.Errorf("%w: %s: string contains NUL", ErrOutOfRange, t.id)
	}
	var raw []byte
	if t.latin1 {
		enc, err := charmap.ISO8859_1.NewEncoder().String(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %q is not ISO 8859-1", ErrOutOfRange, t.id, s)
		}
		raw = []byte(enc)
	} else {
		for _, r := range s {
			if r >= utf8.RuneSelf {
				return nil, fmt.Errorf("%w: %s: %q is not ASCII", ErrOutOfRange, t.id, s)
			}
		}
		raw = []byte(s)
	}
	if len(raw) > textOctets {
		return nil, fmt.Errorf("%w: %s: %d characters exceed %d", ErrOutOfRange, t.id, len(raw), textOctets)
	}
	data := make([]byte, textOctets)
	copy(data, raw)
	return data, nil
}

// CompatibleBytes accepts 14 octets whose padding is all NUL; the ASCII
// variant rejects octets above 0x7F.
func (t *TextType) CompatibleBytes(data []byte) bool {
	if len(data) != textOctets {
		return false
	}
	if i := bytes.IndexByte(data, 0); i >= 0 && len(bytes.TrimRight(data[i:], "\x00")) > 0 {
		return false
	}
	if t.latin1 {
		return true
	}
	for _, b := range data {
		if b >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// DecodeBytes decodes the string up to the first NUL.
func (t *TextType) DecodeBytes(data []byte) (Value, error) {
	if i := bytes.IndexByte(data, 0); i >= 0 {
		data = data[:i]
	}
	s := string(data)
	if t.latin1 {
		dec, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrIncompatibleBytes, t.id, err)
		}
		s = string(dec)
	}
	return Text{typ: t, s: s}, nil
}

// CompatibleTokens accepts any non-empty input.
func (t *TextType) CompatibleTokens(tokens []string) bool {
	return len(tokens) > 0
}

// DecodeTokens joins the tokens with single spaces.
func (t *TextType) DecodeTokens(tokens []string) (Value, error) {
	return valueOf(t.New(strings.Join(tokens, " ")))
}

// Text is a value of a TextType.
type Text struct {
	typ *TextType
	s   string
}

func (v Text) Type() Type     { return v.typ }
func (v Text) Payload() any   { return v.s }
func (v Text) Text() string   { return v.s }
func (v Text) String() string { return v.s }

func (v Text) Bytes() []byte {
	data, _ := v.typ.encode(v.s)
	return data
}
