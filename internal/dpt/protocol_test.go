package dpt

import (
	"errors"
	"regexp"
	"slices"
	"strconv"
	"testing"
)

// ─── ParseBytes ─────────────────────────────────────────────────────

func TestParseBytes_Incompatible(t *testing.T) {
	tests := []struct {
		name string
		typ  Type
		data []byte
	}{
		{"nil payload", DPTSwitch, nil},
		{"empty payload", DPTSwitch, []byte{}},
		{"too long", DPTString, make([]byte, 256)},
		{"wrong length", DPTTemperature, []byte{0x0C}},
		{"reserved bits", DPTSwitch, []byte{0x02}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := ParseBytes(tt.typ, tt.data)
			if !errors.Is(err, ErrIncompatibleBytes) {
				t.Fatalf("ParseBytes(% X) error = %v, want ErrIncompatibleBytes", tt.data, err)
			}
			if v != nil {
				t.Errorf("ParseBytes(% X) value = %v, want nil", tt.data, v)
			}
		})
	}
}

func TestParseBytes_RangeViolation(t *testing.T) {
	_, err := ParseBytes(DPTTariff, []byte{0xFF})
	if !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("error = %v, want ErrOutOfRange", err)
	}
	if errors.Is(err, ErrIncompatibleBytes) {
		t.Errorf("error = %v, must not be ErrIncompatibleBytes", err)
	}
}

// Every payload a type accepts must re-encode to the same octets.
func TestParseBytes_ReEncodesExactly(t *testing.T) {
	for _, typ := range Default().Types() {
		for _, data := range shortPayloads() {
			v, err := ParseBytes(typ, data)
			if err != nil {
				continue
			}
			if got := v.Bytes(); !slices.Equal(got, data) {
				t.Errorf("%s: % X decodes to %q and re-encodes as % X", typ.ID(), data, v.Text(), got)
			}
		}
	}
}

// shortPayloads returns every 1- and 2-octet payload, plus 3-octet
// payloads that sweep each octet in turn over a few base values.
func shortPayloads() [][]byte {
	var out [][]byte
	for b := 0; b < 256; b++ {
		out = append(out, []byte{byte(b)})
	}
	for b := 0; b < 1<<16; b++ {
		out = append(out, []byte{byte(b >> 8), byte(b)})
	}
	bases := [][3]byte{
		{0x00, 0x00, 0x00},
		{0x01, 0x01, 0x00},
		{0x0F, 0x06, 0x18},
		{0x1F, 0x0C, 0x63},
		{0xFF, 0xFF, 0xFF},
	}
	for _, base := range bases {
		for i := 0; i < 3; i++ {
			for b := 0; b < 256; b++ {
				p := base
				p[i] = byte(b)
				out = append(out, p[:])
			}
		}
	}
	return out
}

// ─── ParseTokens ────────────────────────────────────────────────────

func TestParseTokens_HexFallback(t *testing.T) {
	tests := []struct {
		name   string
		typ    Type
		tokens []string
		want   []byte
	}{
		{"separate prefix", DPTSwitch, []string{"0x", "01"}, []byte{0x01}},
		{"single token", DPTSwitch, []string{"0x01"}, []byte{0x01}},
		{"upper-case prefix", DPTSwitch, []string{"0X01"}, []byte{0x01}},
		{"one token per octet", DPTTemperature, []string{"0x0C", "0x01"}, []byte{0x0C, 0x01}},
		{"mixed prefixes", DPTTemperature, []string{"0x0C", "01"}, []byte{0x0C, 0x01}},
		{"concatenated", DPTTemperature, []string{"0x0C01"}, []byte{0x0C, 0x01}},
		{"digits are not decimal after the prefix", DPTCounterU16, []string{"0x", "12", "34"}, []byte{0x12, 0x34}},
		{"flag word", DPTMedia, []string{"0x0002"}, []byte{0x00, 0x02}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTokens(tt.typ, tt.tokens...)
			if err != nil {
				t.Fatalf("ParseTokens(%q) error = %v", tt.tokens, err)
			}

			want, err := ParseBytes(tt.typ, tt.want)
			if err != nil {
				t.Fatalf("ParseBytes(% X) error = %v", tt.want, err)
			}

			if !Equal(want, got) {
				t.Errorf("ParseTokens(%q) = %v, want %v", tt.tokens, got.Text(), want.Text())
			}
			if !slices.Equal(got.Bytes(), tt.want) {
				t.Errorf("ParseTokens(%q).Bytes() = % X, want % X", tt.tokens, got.Bytes(), tt.want)
			}
		})
	}
}

func TestParseTokens_SemanticFirst(t *testing.T) {
	v, err := ParseTokens(DPTSwitch, "on")
	if err != nil {
		t.Fatalf("ParseTokens(on) error = %v", err)
	}
	if got := v.Bytes(); !slices.Equal(got, []byte{0x01}) {
		t.Errorf("ParseTokens(on).Bytes() = % X, want 01", got)
	}

	v, err = ParseString(DPTTemperature, "20.5")
	if err != nil {
		t.Fatalf("ParseString(20.5) error = %v", err)
	}
	if got := v.Bytes(); !slices.Equal(got, []byte{0x0C, 0x01}) {
		t.Errorf("ParseString(20.5).Bytes() = % X, want 0C 01", got)
	}
}

func TestParseTokens_RangeErrorPropagates(t *testing.T) {
	_, err := ParseTokens(DPTPercentage, "150")
	if !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("error = %v, want ErrOutOfRange", err)
	}
	if errors.Is(err, ErrIncompatibleSyntax) {
		t.Errorf("error = %v, must not be ErrIncompatibleSyntax", err)
	}
}

func TestParseTokens_Unparseable(t *testing.T) {
	tests := []struct {
		name   string
		typ    Type
		tokens []string
	}{
		{"unknown word", DPTSwitch, []string{"maybe"}},
		{"no tokens", DPTSwitch, nil},
		{"bad hex digits", DPTSwitch, []string{"0xZZ"}},
		{"odd hex length", DPTSwitch, []string{"0x1"}},
		{"fraction for an unscaled integer", DPTCounterU16, []string{"1.5"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := ParseTokens(tt.typ, tt.tokens...)
			if !errors.Is(err, ErrIncompatibleSyntax) {
				t.Fatalf("ParseTokens(%q) error = %v, want ErrIncompatibleSyntax", tt.tokens, err)
			}
			if v != nil {
				t.Errorf("ParseTokens(%q) value = %v, want nil", tt.tokens, v)
			}
		})
	}
}

func TestParseTokens_HexCauseIsWrapped(t *testing.T) {
	_, err := ParseTokens(DPTTemperature, "0x01")
	if !errors.Is(err, ErrIncompatibleSyntax) {
		t.Errorf("error = %v, want ErrIncompatibleSyntax", err)
	}
	if !errors.Is(err, ErrIncompatibleBytes) {
		t.Errorf("error = %v, want it to wrap ErrIncompatibleBytes", err)
	}
}

// ─── Token helpers ──────────────────────────────────────────────────

func TestFindName(t *testing.T) {
	name, ok := FindName([]string{"set", "ON"}, "off", "on")
	if !ok || name != "on" {
		t.Errorf("FindName() = %q, %v; want \"on\", true", name, ok)
	}

	name, ok = FindName([]string{"set"}, "off", "on")
	if ok || name != "" {
		t.Errorf("FindName() = %q, %v; want \"\", false", name, ok)
	}
}

func TestFindPattern(t *testing.T) {
	re := regexp.MustCompile(`^(\d+)%$`)
	conv := func(m []string) (int, error) { return strconv.Atoi(m[1]) }

	got, ok := FindPattern([]string{"level", "42%"}, re, conv)
	if !ok || got != 42 {
		t.Errorf("FindPattern() = %d, %v; want 42, true", got, ok)
	}

	// Conversion failures count as no match.
	got, ok = FindPattern([]string{"99999999999999999999%"}, re, conv)
	if ok || got != 0 {
		t.Errorf("FindPattern() = %d, %v; want 0, false", got, ok)
	}
}

func TestHasToken(t *testing.T) {
	tests := []struct {
		tokens []string
		names  []string
		want   bool
	}{
		{[]string{"Learn", "5"}, []string{"learn", "store"}, true},
		{[]string{"5"}, []string{"learn", "store"}, false},
		{nil, []string{"learn"}, false},
	}

	for _, tt := range tests {
		if got := HasToken(tt.tokens, tt.names...); got != tt.want {
			t.Errorf("HasToken(%q, %q) = %v, want %v", tt.tokens, tt.names, got, tt.want)
		}
	}
}
