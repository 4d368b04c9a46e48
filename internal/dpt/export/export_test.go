package export

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/nerrad567/gray-logic-dpt/internal/dpt"
)

func findType(t *testing.T, doc Document, id string) TypeEntry {
	t.Helper()
	for _, e := range doc.Types {
		if e.ID == id {
			return e
		}
	}
	t.Fatalf("type %s not in catalog", id)
	return TypeEntry{}
}

// ─── Catalog ────────────────────────────────────────────────────────

func TestCatalog_Entries(t *testing.T) {
	doc := Catalog(dpt.Default())
	require.Len(t, doc.Types, dpt.Default().Len())
	assert.Equal(t, "1.001", doc.Types[0].ID)

	tests := []struct {
		id   string
		want TypeEntry
	}{
		{"1.001", TypeEntry{
			ID:          "1.001",
			Aliases:     []string{"dpst-1-1", "dpt-1"},
			Description: "switch",
			Bits:        1,
		}},
		{"5.010", TypeEntry{
			ID:          "5.010",
			Aliases:     []string{"dpst-5-10"},
			Description: "counter pulses (0..255)",
			Unit:        "pulses",
			Bits:        8,
			Range:       &RangeEntry{Min: 0, Max: 255},
		}},
		{"9.001", TypeEntry{
			ID:          "9.001",
			Aliases:     []string{"dpst-9-1", "dpt-9"},
			Description: "temperature",
			Unit:        "°C",
			Bits:        16,
			Range:       &RangeEntry{Min: -273, Max: 670760.96},
		}},
		{"20.001", TypeEntry{
			ID:          "20.001",
			Aliases:     []string{"dpst-20-1", "dpt-20"},
			Description: "system clock mode",
			Bits:        8,
			Values: []EnumEntry{
				{Ordinal: 0, Name: "autonomous", Description: "Autonomous"},
				{Ordinal: 1, Name: "slave", Description: "Slave"},
				{Ordinal: 2, Name: "master", Description: "Master"},
			},
		}},
		{"22.1000", TypeEntry{
			ID:          "22.1000",
			Aliases:     []string{"dpst-22-1000"},
			Description: "media",
			Bits:        16,
			Flags: []FlagEntry{
				{Bit: 1, Name: "tp1", Description: "Twisted pair"},
				{Bit: 2, Name: "pl110", Description: "Powerline 110"},
				{Bit: 4, Name: "rf", Description: "Radio frequency"},
				{Bit: 5, Name: "ip", Description: "KNX IP"},
			},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, findType(t, doc, tt.id)); diff != "" {
				t.Errorf("catalog entry mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCatalog_DateTimeFlags(t *testing.T) {
	e := findType(t, Catalog(dpt.Default()), "19.001")
	require.Len(t, e.Flags, 10)
	assert.Equal(t, FlagEntry{Bit: 15, Name: "fault", Description: "Clock fault"}, e.Flags[0])
	assert.Equal(t, 64, e.Bits)
}

func TestCatalog_CustomRegistry(t *testing.T) {
	reg := dpt.NewRegistry()
	require.NoError(t, reg.Register(dpt.NewFloat16Type("9.900", "test", "", 0, 100)))

	doc := Catalog(reg)
	want := Document{Types: []TypeEntry{{
		ID:          "9.900",
		Description: "test",
		Bits:        16,
		Range:       &RangeEntry{Min: 0, Max: 100},
	}}}
	if diff := cmp.Diff(want, doc); diff != "" {
		t.Errorf("Catalog() mismatch (-want +got):\n%s", diff)
	}
}

// ─── Values ─────────────────────────────────────────────────────────

func TestValue(t *testing.T) {
	v, err := dpt.ParseString(dpt.DPTTemperature, "20.5")
	require.NoError(t, err)

	want := ValueEntry{DPT: "9.001", Text: "20.5 °C", Unit: "°C", Payload: 20.5, Raw: "0c01"}
	if diff := cmp.Diff(want, Value(v)); diff != "" {
		t.Errorf("Value() mismatch (-want +got):\n%s", diff)
	}

	v, err = dpt.ParseString(dpt.DPTSwitch, "on")
	require.NoError(t, err)
	got := Value(v)
	assert.Empty(t, got.Unit)
	assert.Equal(t, true, got.Payload)
	assert.Equal(t, "01", got.Raw)
}

// ─── Encoding ───────────────────────────────────────────────────────

func TestEncode_RoundTrip(t *testing.T) {
	doc := Catalog(dpt.Default())

	tests := []struct {
		format    Format
		unmarshal func([]byte, any) error
	}{
		{FormatJSON, json.Unmarshal},
		{FormatYAML, yaml.Unmarshal},
		{FormatCBOR, cbor.Unmarshal},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Encode(&buf, doc, tt.format))

			var got Document
			require.NoError(t, tt.unmarshal(buf.Bytes(), &got))
			if diff := cmp.Diff(doc, got); diff != "" {
				t.Errorf("%s round trip mismatch (-want +got):\n%s", tt.format, diff)
			}
		})
	}
}

func TestEncode_CBORIsDeterministic(t *testing.T) {
	doc := Catalog(dpt.Default())

	var a, b bytes.Buffer
	require.NoError(t, Encode(&a, doc, FormatCBOR))
	require.NoError(t, Encode(&b, doc, FormatCBOR))
	assert.Equal(t, a.Bytes(), b.Bytes())
}

func TestEncode_UnknownFormat(t *testing.T) {
	err := Encode(&bytes.Buffer{}, Document{}, Format("xml"))
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(" JSON ")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	_, err = ParseFormat("toml")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}
