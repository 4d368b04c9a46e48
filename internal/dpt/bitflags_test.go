package dpt

import (
	"errors"
	"slices"
	"testing"
)

func TestEncodeFlags(t *testing.T) {
	tests := []struct {
		name   string
		octets int
		set    []int
		want   []byte
	}{
		{"flag 3 of 8", 1, []int{3}, []byte{0x08}},
		{"flag 0 of 8", 1, []int{0}, []byte{0x01}},
		{"flag 7 of 8", 1, []int{7}, []byte{0x80}},
		{"flag 10 of 16", 2, []int{10}, []byte{0x04, 0x00}},
		{"flags 0 and 15 of 16", 2, []int{0, 15}, []byte{0x80, 0x01}},
		{"no flags", 2, nil, []byte{0x00, 0x00}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flags := make([]bool, tt.octets*8)
			for _, bit := range tt.set {
				flags[bit] = true
			}
			got, err := EncodeFlags(tt.octets, flags)
			if err != nil {
				t.Fatalf("EncodeFlags() error = %v", err)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("EncodeFlags(%v) = % X, want % X", tt.set, got, tt.want)
			}
		})
	}
}

func TestEncodeFlags_ShortSliceLeavesRestClear(t *testing.T) {
	got, err := EncodeFlags(2, []bool{true})
	if err != nil {
		t.Fatalf("EncodeFlags() error = %v", err)
	}
	if !slices.Equal(got, []byte{0x00, 0x01}) {
		t.Errorf("EncodeFlags() = % X, want 00 01", got)
	}
}

func TestEncodeFlags_TooMany(t *testing.T) {
	if _, err := EncodeFlags(1, make([]bool, 9)); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("EncodeFlags(1, 9 flags) error = %v, want ErrOutOfRange", err)
	}
}

func TestIsBitSet(t *testing.T) {
	data := []byte{0x04, 0x81} // bits 10, 7 and 0

	for bit := 0; bit < 16; bit++ {
		want := bit == 0 || bit == 7 || bit == 10
		got, err := IsBitSet(data, bit)
		if err != nil {
			t.Fatalf("IsBitSet(%d) error = %v", bit, err)
		}
		if got != want {
			t.Errorf("IsBitSet(% X, %d) = %v, want %v", data, bit, got, want)
		}
	}
}

func TestIsBitSet_OutOfRange(t *testing.T) {
	for _, bit := range []int{-1, 16, 100} {
		if _, err := IsBitSet([]byte{0xFF, 0xFF}, bit); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("IsBitSet(bit %d) error = %v, want ErrOutOfRange", bit, err)
		}
	}
	if _, err := IsBitSet(nil, 0); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("IsBitSet(nil, 0) error = %v, want ErrOutOfRange", err)
	}
}

func TestDecodeFlags(t *testing.T) {
	got := DecodeFlags([]byte{0x0A}, 5)
	want := []bool{false, true, false, true, false}
	if !slices.Equal(got, want) {
		t.Errorf("DecodeFlags(0A, 5) = %v, want %v", got, want)
	}

	// Asking for more flags than the word holds yields false for the rest.
	if got := DecodeFlags([]byte{0xFF}, 10); got[8] || got[9] {
		t.Errorf("DecodeFlags beyond the word = %v, want trailing false", got)
	}
}

func TestFlagWordConversion(t *testing.T) {
	for _, w := range []uint16{0x0000, 0x0001, 0x0100, 0x8001, 0xFFFF} {
		if got := wordFromBytes(wordToBytes(w, 2)); got != w {
			t.Errorf("word %04X round trip = %04X", w, got)
		}
	}
	if got := wordToBytes(0x00A5, 1); !slices.Equal(got, []byte{0xA5}) {
		t.Errorf("wordToBytes(A5, 1) = % X", got)
	}
}
