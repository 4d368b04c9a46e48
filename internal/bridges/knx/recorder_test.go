package knx

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerrad567/gray-logic-dpt/internal/infrastructure/config"
	"github.com/nerrad567/gray-logic-dpt/internal/infrastructure/database"
	"github.com/nerrad567/gray-logic-dpt/migrations"
)

func newTestRecorder(t *testing.T) *Recorder {
	t.Helper()

	db, err := database.Open(config.DatabaseConfig{
		Path:        filepath.Join(t.TempDir(), "bus.db"),
		WALMode:     true,
		BusyTimeout: 5,
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() }) //nolint:errcheck // test cleanup
	require.NoError(t, db.Migrate(context.Background(), migrations.FS))

	r := NewRecorder(db.DB)
	r.SetLogger(&recordingLogger{})
	require.NoError(t, r.Start())
	t.Cleanup(r.Stop)
	return r
}

func telegramAt(tg Telegram, source string, ts time.Time) Telegram {
	tg.Source = source
	tg.Timestamp = ts
	return tg
}

func TestRecorder_RecordTelegram(t *testing.T) {
	r := newTestRecorder(t)
	ctx := context.Background()
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ga := MustParseGroupAddress("1/2/3")

	r.RecordTelegram(telegramAt(NewWriteTelegram(ga, []byte{0x0C, 0x33}, false), "1.1.5", t0), true)
	r.RecordTelegram(telegramAt(NewReadTelegram(ga), "1.1.9", t0.Add(time.Minute)), true)

	resp := NewWriteTelegram(ga, []byte{0x0C, 0x4C}, false)
	resp.APCI = APCIResponse
	r.RecordTelegram(telegramAt(resp, "1.1.5", t0.Add(2*time.Minute)), true)

	seen, err := r.SeenAddresses(ctx, false)
	require.NoError(t, err)
	require.Len(t, seen, 1)

	s := seen[0]
	assert.Equal(t, ga, s.Address)
	assert.Equal(t, int64(3), s.Telegrams)
	assert.Equal(t, t0, s.FirstSeen)
	assert.Equal(t, t0.Add(2*time.Minute), s.LastSeen)
	assert.Equal(t, "response", s.LastService)
	assert.Equal(t, "0c4c", s.LastPayload)
	assert.Equal(t, "1.1.5", s.LastSource)
	assert.True(t, s.HasResponse)
	assert.True(t, s.Mapped)

	devices, err := r.DeviceCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, devices)
}

func TestRecorder_ReadKeepsLastPayload(t *testing.T) {
	r := newTestRecorder(t)
	ga := MustParseGroupAddress("0/0/1")
	now := time.Now()

	r.RecordTelegram(telegramAt(NewWriteTelegram(ga, []byte{0x01}, true), "1.1.1", now), false)
	r.RecordTelegram(telegramAt(NewReadTelegram(ga), "1.1.2", now), false)

	seen, err := r.SeenAddresses(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, seen, 1)
	assert.Equal(t, "read", seen[0].LastService)
	assert.Equal(t, "01", seen[0].LastPayload)
	assert.False(t, seen[0].HasResponse)
}

func TestRecorder_UnmappedOnly(t *testing.T) {
	r := newTestRecorder(t)
	ctx := context.Background()
	now := time.Now()

	for _, tc := range []struct {
		ga     string
		mapped bool
	}{
		{"4/0/1", false},
		{"1/2/3", true},
		{"0/7/200", false},
	} {
		tg := NewWriteTelegram(MustParseGroupAddress(tc.ga), []byte{0x01}, true)
		r.RecordTelegram(telegramAt(tg, "1.1.1", now), tc.mapped)
	}

	all, err := r.SeenAddresses(ctx, false)
	require.NoError(t, err)
	require.Len(t, all, 3)
	// Ordered by numeric address, not by string.
	assert.Equal(t, "0/7/200", all[0].Address.String())
	assert.Equal(t, "1/2/3", all[1].Address.String())
	assert.Equal(t, "4/0/1", all[2].Address.String())

	unmapped, err := r.SeenAddresses(ctx, true)
	require.NoError(t, err)
	require.Len(t, unmapped, 2)
	for _, s := range unmapped {
		assert.False(t, s.Mapped)
	}

	n, err := r.GroupAddressCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestRecorder_SkipsBroadcastSource(t *testing.T) {
	r := newTestRecorder(t)
	tg := NewWriteTelegram(MustParseGroupAddress("1/1/1"), []byte{0x00}, true)

	r.RecordTelegram(telegramAt(tg, "0.0.0", time.Now()), false)
	r.RecordTelegram(telegramAt(tg, "", time.Time{}), false)

	devices, err := r.DeviceCount(context.Background())
	require.NoError(t, err)
	assert.Zero(t, devices)

	seen, err := r.SeenAddresses(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, seen, 1)
	assert.Equal(t, int64(2), seen[0].Telegrams)
}

func TestRecorder_StartIsIdempotent(t *testing.T) {
	r := newTestRecorder(t)
	assert.NoError(t, r.Start())
}

func TestRecorder_DropsAfterStop(t *testing.T) {
	r := newTestRecorder(t)
	r.Stop()

	r.RecordTelegram(NewWriteTelegram(MustParseGroupAddress("1/1/1"), []byte{0x01}, true), false)

	n, err := r.GroupAddressCount(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRecorder_NotStarted(t *testing.T) {
	db, err := database.Open(config.DatabaseConfig{Path: filepath.Join(t.TempDir(), "bus.db")})
	require.NoError(t, err)
	defer db.Close() //nolint:errcheck // test cleanup

	// No tables and no statements: recording is a no-op.
	NewRecorder(db.DB).RecordTelegram(NewReadTelegram(MustParseGroupAddress("1/1/1")), false)
}
