package knx

import (
	"context"
	"database/sql"
	"encoding/hex"
	"fmt"
	"slices"
	"sync"
	"time"
)

// Recorder passively records the group addresses and source devices seen
// on the bus. The monitor feeds it every telegram, mapped or not, so
// operators can find addresses that still need a datapoint mapping.
//
// The database must contain the bus_group_addresses and bus_devices tables.
//
// Thread Safety: All methods are safe for concurrent use.
type Recorder struct {
	db     *sql.DB
	logger Logger

	// Prepared upserts, created by Start.
	gaStmt     *sql.Stmt
	deviceStmt *sql.Stmt
	stmtMu     sync.Mutex

	closed bool
	mu     sync.RWMutex
}

// SeenAddress is a recorded group address.
type SeenAddress struct {
	Address     GroupAddress
	FirstSeen   time.Time
	LastSeen    time.Time
	Telegrams   int64
	LastService string
	LastPayload string // hex, empty until a value was seen
	LastSource  string
	HasResponse bool
	Mapped      bool
}

// NewRecorder creates a recorder on db.
func NewRecorder(db *sql.DB) *Recorder {
	return &Recorder{db: db}
}

// SetLogger sets the logger for the recorder.
func (r *Recorder) SetLogger(logger Logger) {
	r.logger = logger
}

// Start prepares the upsert statements. It must be called before
// RecordTelegram.
func (r *Recorder) Start() error {
	r.stmtMu.Lock()
	defer r.stmtMu.Unlock()

	if r.gaStmt != nil {
		return nil
	}

	// Reads carry no payload, so they keep the last value seen.
	gaStmt, err := r.db.Prepare(`
		INSERT INTO bus_group_addresses
			(group_address, first_seen, last_seen, telegram_count, last_service,
			 last_payload, last_source, has_response, mapped)
		VALUES (?, ?, ?, 1, ?, ?, ?, ?, ?)
		ON CONFLICT(group_address) DO UPDATE SET
			last_seen = excluded.last_seen,
			telegram_count = telegram_count + 1,
			last_service = excluded.last_service,
			last_payload = CASE WHEN excluded.last_service = 'read'
				THEN last_payload ELSE excluded.last_payload END,
			last_source = excluded.last_source,
			has_response = MAX(has_response, excluded.has_response),
			mapped = excluded.mapped
	`)
	if err != nil {
		return fmt.Errorf("preparing group address upsert: %w", err)
	}

	deviceStmt, err := r.db.Prepare(`
		INSERT INTO bus_devices (individual_address, first_seen, last_seen, telegram_count)
		VALUES (?, ?, ?, 1)
		ON CONFLICT(individual_address) DO UPDATE SET
			last_seen = excluded.last_seen,
			telegram_count = telegram_count + 1
	`)
	if err != nil {
		gaStmt.Close()
		return fmt.Errorf("preparing device upsert: %w", err)
	}

	r.gaStmt = gaStmt
	r.deviceStmt = deviceStmt
	r.logInfo("bus address recorder started")
	return nil
}

// Stop releases the prepared statements. Later records are dropped.
func (r *Recorder) Stop() {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()

	r.stmtMu.Lock()
	defer r.stmtMu.Unlock()

	if r.gaStmt != nil {
		r.gaStmt.Close()
		r.gaStmt = nil
	}
	if r.deviceStmt != nil {
		r.deviceStmt.Close()
		r.deviceStmt = nil
	}
	r.logInfo("bus address recorder stopped")
}

// RecordTelegram records the destination and source of t. Failures are
// logged, never returned, so recording cannot stall decoding.
func (r *Recorder) RecordTelegram(t Telegram, mapped bool) {
	r.mu.RLock()
	closed := r.closed
	r.mu.RUnlock()
	if closed {
		return
	}

	r.stmtMu.Lock()
	gaStmt, deviceStmt := r.gaStmt, r.deviceStmt
	r.stmtMu.Unlock()
	if gaStmt == nil || deviceStmt == nil {
		return
	}

	ts := t.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	seen := ts.Unix()

	// 0.0.0 is not a real device.
	if t.Source != "" && t.Source != "0.0.0" {
		if _, err := deviceStmt.Exec(t.Source, seen, seen); err != nil {
			r.logError("recording device", err)
		}
	}

	if _, err := gaStmt.Exec(
		t.Destination.String(), seen, seen, t.Service(),
		hex.EncodeToString(t.Data), t.Source, boolToInt(t.IsResponse()), boolToInt(mapped),
	); err != nil {
		r.logError("recording group address", err)
	}
}

// SeenAddresses returns the recorded group addresses ordered by address.
// With unmappedOnly set, only addresses without a datapoint mapping are
// returned.
func (r *Recorder) SeenAddresses(ctx context.Context, unmappedOnly bool) ([]SeenAddress, error) {
	query := `
		SELECT group_address, first_seen, last_seen, telegram_count, last_service,
		       last_payload, last_source, has_response, mapped
		FROM bus_group_addresses`
	if unmappedOnly {
		query += ` WHERE mapped = 0`
	}

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying group addresses: %w", err)
	}
	defer rows.Close()

	var out []SeenAddress
	for rows.Next() {
		var (
			s                   SeenAddress
			ga                  string
			first, last         int64
			hasResponse, mapped int
		)
		if err := rows.Scan(&ga, &first, &last, &s.Telegrams, &s.LastService,
			&s.LastPayload, &s.LastSource, &hasResponse, &mapped); err != nil {
			return nil, fmt.Errorf("scanning group address row: %w", err)
		}
		if s.Address, err = ParseGroupAddress(ga); err != nil {
			return nil, err
		}
		s.FirstSeen = time.Unix(first, 0).UTC()
		s.LastSeen = time.Unix(last, 0).UTC()
		s.HasResponse = hasResponse != 0
		s.Mapped = mapped != 0
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating group addresses: %w", err)
	}

	slices.SortFunc(out, func(a, b SeenAddress) int {
		return int(a.Address.ToUint16()) - int(b.Address.ToUint16())
	})
	return out, nil
}

// GroupAddressCount returns the number of recorded group addresses.
func (r *Recorder) GroupAddressCount(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM bus_group_addresses`).Scan(&n)
	return n, err
}

// DeviceCount returns the number of recorded source devices.
func (r *Recorder) DeviceCount(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM bus_devices`).Scan(&n)
	return n, err
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func (r *Recorder) logInfo(msg string, keysAndValues ...any) {
	if r.logger != nil {
		r.logger.Info(msg, keysAndValues...)
	}
}

func (r *Recorder) logError(msg string, err error) {
	if r.logger != nil {
		r.logger.Error(msg, "error", err)
	}
}
