package knx

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerrad567/gray-logic-dpt/internal/dpt"
)

// recordingLogger captures log calls. It satisfies both Logger and dpt.Logger.
type recordingLogger struct {
	mu      sync.Mutex
	entries []string
}

func (l *recordingLogger) record(level, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, level+": "+msg)
}

func (l *recordingLogger) Debug(msg string, _ ...any) { l.record("debug", msg) }
func (l *recordingLogger) Info(msg string, _ ...any)  { l.record("info", msg) }
func (l *recordingLogger) Warn(msg string, _ ...any)  { l.record("warn", msg) }
func (l *recordingLogger) Error(msg string, _ ...any) { l.record("error", msg) }

func (l *recordingLogger) count(level string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, e := range l.entries {
		if len(e) > len(level) && e[:len(level)+1] == level+":" {
			n++
		}
	}
	return n
}

func newTestDecoder(tb testing.TB) *Decoder {
	tb.Helper()
	dps, err := ParseDatapoints([]byte(testDatapointsYAML))
	if err != nil {
		tb.Fatalf("ParseDatapoints() error = %v", err)
	}
	d, err := NewDecoder(dpt.Default(), dps)
	if err != nil {
		tb.Fatalf("NewDecoder() error = %v", err)
	}
	return d
}

func writeTelegram(ga string, data []byte, compact bool) Telegram {
	t := NewWriteTelegram(MustParseGroupAddress(ga), data, compact)
	t.Source = "1.1.5"
	t.Timestamp = time.Date(2024, 6, 15, 14, 30, 0, 0, time.UTC)
	return t
}

// ─── Construction ───────────────────────────────────────────────────

func TestNewDecoder(t *testing.T) {
	d := newTestDecoder(t)
	assert.Equal(t, 5, d.Len())

	dp, ok := d.Lookup(MustParseGroupAddress("1/2/3"))
	require.True(t, ok)
	assert.Equal(t, "9.001", dp.Type.ID())
	assert.Equal(t, "hall temperature", dp.Label())
	require.NotNil(t, dp.Bounds)
	assert.Equal(t, 5.0, dp.Bounds.Lower)
	assert.Equal(t, 35.0, dp.Bounds.Upper)

	// Family alias resolves to the first type of the family.
	dp, ok = d.Lookup(MustParseGroupAddress("2/0/1"))
	require.True(t, ok)
	assert.Equal(t, "5.001", dp.Type.ID())
	assert.Equal(t, "2/0/1", dp.Label())

	_, ok = d.Lookup(MustParseGroupAddress("9/9/9"))
	assert.False(t, ok)
}

func TestNewDecoder_UnknownTypes(t *testing.T) {
	dps := &Datapoints{Datapoints: []DatapointConfig{
		{Address: "1/2/3", DPT: "9.999"},
		{Address: "1/2/4", DPT: "1.001"},
		{Address: "1/2/5", DPT: "no-such-type"},
	}}

	_, err := NewDecoder(dpt.Default(), dps)
	require.ErrorIs(t, err, ErrInvalidDatapoints)
	assert.Contains(t, err.Error(), `"9.999"`)
	assert.Contains(t, err.Error(), `"no-such-type"`)
}

func TestNewDecoder_InvalidMapping(t *testing.T) {
	dps := &Datapoints{Datapoints: []DatapointConfig{{Address: "1/2/3"}}}
	_, err := NewDecoder(dpt.Default(), dps)
	assert.ErrorIs(t, err, ErrInvalidDatapoints)
}

func TestDecoderDatapoints_Sorted(t *testing.T) {
	got := newTestDecoder(t).Datapoints()
	want := []string{"0/0/1", "0/0/2", "1/2/3", "2/0/1", "4/0/1"}

	require.Len(t, got, len(want))
	for i, dp := range got {
		assert.Equal(t, want[i], dp.Address.String())
	}
}

// ─── Decode ─────────────────────────────────────────────────────────

func TestDecode(t *testing.T) {
	d := newTestDecoder(t)

	tests := []struct {
		name        string
		telegram    Telegram
		wantText    string
		wantNumeric float64
		hasNumeric  bool
	}{
		{
			name:        "temperature",
			telegram:    writeTelegram("1/2/3", []byte{0x0C, 0x33}, false),
			wantText:    "21.5 °C",
			wantNumeric: 21.5,
			hasNumeric:  true,
		},
		{
			name:        "switch in short form",
			telegram:    writeTelegram("0/0/1", []byte{0x01}, true),
			wantText:    "on",
			wantNumeric: 1,
			hasNumeric:  true,
		},
		{
			name:        "switch in long form",
			telegram:    writeTelegram("0/0/1", []byte{0x00}, false),
			wantText:    "off",
			wantNumeric: 0,
			hasNumeric:  true,
		},
		{
			name:        "percentage",
			telegram:    writeTelegram("2/0/1", []byte{0xFF}, false),
			wantText:    "100 %",
			wantNumeric: 100,
			hasNumeric:  true,
		},
		{
			name:        "hvac mode",
			telegram:    writeTelegram("4/0/1", []byte{0x01}, false),
			wantText:    "Comfort",
			wantNumeric: 1,
			hasNumeric:  true,
		},
		{
			name:     "dimming step has no numeric form",
			telegram: writeTelegram("0/0/2", []byte{0x0B}, true),
			wantText: "increase 3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := d.Decode(tt.telegram)
			require.NoError(t, err)

			assert.Equal(t, tt.wantText, r.Value.Text())
			assert.Equal(t, tt.hasNumeric, r.HasNumeric)
			if tt.hasNumeric {
				assert.InDelta(t, tt.wantNumeric, r.Numeric, 1e-9)
			}
			assert.True(t, r.InBounds)
			assert.Equal(t, "1.1.5", r.Source)
			assert.Equal(t, "write", r.Service)
			assert.Equal(t, tt.telegram.Timestamp, r.Timestamp)
		})
	}
}

func TestDecode_OutOfBounds(t *testing.T) {
	d := newTestDecoder(t)
	log := &recordingLogger{}
	d.SetLogger(log)

	// 40 °C is a valid 9.001 value but outside the configured 5..35.
	r, err := d.Decode(writeTelegram("1/2/3", []byte{0x0F, 0xD0}, false))
	require.NoError(t, err)

	assert.InDelta(t, 40.0, r.Numeric, 1e-9)
	assert.False(t, r.InBounds)
	assert.Equal(t, 1, log.count("warn"))
}

func TestDecode_Errors(t *testing.T) {
	d := newTestDecoder(t)

	tests := []struct {
		name     string
		telegram Telegram
		wantErr  error
	}{
		{"read request", NewReadTelegram(MustParseGroupAddress("1/2/3")), ErrInvalidTelegram},
		{"unmapped address", writeTelegram("7/7/7", []byte{0x01}, true), ErrUnknownDatapoint},
		{"short form for wide type", writeTelegram("1/2/3", []byte{0x01}, true), ErrDecodingFailed},
		{"wrong payload length", writeTelegram("1/2/3", []byte{0x0C}, false), ErrDecodingFailed},
		{"unknown enum ordinal", writeTelegram("4/0/1", []byte{0x09}, false), ErrDecodingFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := d.Decode(tt.telegram)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDecode_WrapsCodecError(t *testing.T) {
	_, err := newTestDecoder(t).Decode(writeTelegram("1/2/3", []byte{0x0C}, false))
	assert.ErrorIs(t, err, ErrDecodingFailed)
	assert.ErrorIs(t, err, dpt.ErrIncompatibleBytes)
}

func TestIsUnmapped(t *testing.T) {
	assert.True(t, IsUnmapped(fmt.Errorf("wrapped: %w", ErrUnknownDatapoint)))
	assert.False(t, IsUnmapped(ErrDecodingFailed))
}

// ─── Encode ─────────────────────────────────────────────────────────

func TestDecoderEncodeWrite(t *testing.T) {
	d := newTestDecoder(t)

	tests := []struct {
		ga     string
		tokens []string
		want   []byte
	}{
		{"0/0/1", []string{"on"}, []byte{0x00, 0x01, 0x00, 0x81}},
		{"0/0/1", []string{"0x00"}, []byte{0x00, 0x01, 0x00, 0x80}},
		{"1/2/3", []string{"21.5"}, []byte{0x0A, 0x03, 0x00, 0x80, 0x0C, 0x33}},
		{"2/0/1", []string{"0x20"}, []byte{0x10, 0x01, 0x00, 0x80, 0x20}},
		{"4/0/1", []string{"comfort"}, []byte{0x20, 0x01, 0x00, 0x80, 0x01}},
	}

	for _, tt := range tests {
		t.Run(tt.ga+" "+tt.tokens[0], func(t *testing.T) {
			tg, v, err := d.EncodeWrite(MustParseGroupAddress(tt.ga), tt.tokens...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, tg.Encode())
			assert.True(t, tg.IsWrite())

			// The encoded telegram decodes back to the same value.
			r, err := d.Decode(tg)
			require.NoError(t, err)
			assert.Equal(t, v.Bytes(), r.Value.Bytes())
		})
	}
}

func TestDecoderEncodeWrite_Errors(t *testing.T) {
	d := newTestDecoder(t)

	_, _, err := d.EncodeWrite(MustParseGroupAddress("7/7/7"), "on")
	assert.ErrorIs(t, err, ErrUnknownDatapoint)

	_, _, err = d.EncodeWrite(MustParseGroupAddress("0/0/1"), "maybe")
	assert.ErrorIs(t, err, ErrEncodingFailed)
	assert.ErrorIs(t, err, dpt.ErrIncompatibleSyntax)
}

func TestEncodeWrite_ExplicitType(t *testing.T) {
	tg, v, err := EncodeWrite(dpt.DPTSceneNumber, MustParseGroupAddress("1/0/9"), "12")
	require.NoError(t, err)
	assert.False(t, tg.Compact)
	assert.Equal(t, []byte{0x08, 0x09, 0x00, 0x80, 0x0C}, tg.Encode())
	assert.Equal(t, "scene 12", v.Text())
}

// ─── Numeric values ─────────────────────────────────────────────────

func TestNumericValue(t *testing.T) {
	mustDecode := func(typ dpt.Type, data ...byte) dpt.Value {
		t.Helper()
		v, err := dpt.ParseBytes(typ, data)
		require.NoError(t, err)
		return v
	}

	tests := []struct {
		name   string
		value  dpt.Value
		want   float64
		wantOK bool
	}{
		{"float16", mustDecode(dpt.DPTTemperature, 0x0C, 0x33), 21.5, true},
		{"scaled integer", mustDecode(dpt.DPTPercentage, 0xFF), 100, true},
		{"boolean true", mustDecode(dpt.DPTSwitch, 0x01), 1, true},
		{"boolean false", mustDecode(dpt.DPTSwitch, 0x00), 0, true},
		{"enum", mustDecode(dpt.DPTHVACMode, 0x03), 3, true},
		{"scene", mustDecode(dpt.DPTSceneNumber, 0x0C), 12, true},
		{"text", mustDecode(dpt.DPTString, 'h', 'i', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NumericValue(tt.value)
			assert.Equal(t, tt.wantOK, ok)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}
