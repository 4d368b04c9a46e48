package knx

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/nerrad567/gray-logic-dpt/internal/dpt"
)

// Datapoint is a group address bound to a resolved datapoint type.
type Datapoint struct {
	Address GroupAddress
	Name    string
	Type    dpt.Type

	// Bounds is the plausibility range, nil when unchecked.
	Bounds *dpt.Range[float64]
}

// Label returns the name, or the address when the datapoint is unnamed.
func (d Datapoint) Label() string {
	if d.Name != "" {
		return d.Name
	}
	return d.Address.String()
}

// Reading is a decoded telegram.
type Reading struct {
	Datapoint Datapoint
	Value     dpt.Value
	Source    string
	Service   string
	Timestamp time.Time

	// Numeric is the value as a number, valid when HasNumeric is set.
	Numeric    float64
	HasNumeric bool

	// InBounds is false when a numeric value falls outside the datapoint's
	// plausibility bounds. It is true when there are no bounds.
	InBounds bool
}

// Decoder decodes telegrams for a fixed set of mapped group addresses.
//
// A Decoder is immutable after construction and safe for concurrent use.
type Decoder struct {
	points map[GroupAddress]Datapoint
	logger dpt.Logger
}

// NewDecoder resolves every mapping entry against reg. All unknown type
// ids are reported together, wrapped in ErrInvalidDatapoints.
func NewDecoder(reg *dpt.Registry, dps *Datapoints) (*Decoder, error) {
	if err := dps.Validate(); err != nil {
		return nil, err
	}

	d := &Decoder{points: make(map[GroupAddress]Datapoint, len(dps.Datapoints))}
	var errs []string

	for i, cfg := range dps.Datapoints {
		ga, err := ParseGroupAddress(cfg.Address)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidDatapoints, err)
		}
		t, err := reg.Lookup(cfg.DPT)
		if err != nil {
			errs = append(errs, fmt.Sprintf("datapoints[%d].dpt %q: %v", i, cfg.DPT, err))
			continue
		}

		dp := Datapoint{Address: ga, Name: cfg.Name, Type: t}
		if cfg.Bounds != nil {
			r := dpt.NewRange(cfg.Bounds.Min, cfg.Bounds.Max)
			dp.Bounds = &r
		}
		d.points[ga] = dp
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidDatapoints, strings.Join(errs, "; "))
	}
	return d, nil
}

// SetLogger sets the logger for out-of-bounds warnings.
// Call before the decoder is shared between goroutines.
func (d *Decoder) SetLogger(logger dpt.Logger) {
	d.logger = logger
}

// Lookup returns the datapoint mapped to ga.
func (d *Decoder) Lookup(ga GroupAddress) (Datapoint, bool) {
	dp, ok := d.points[ga]
	return dp, ok
}

// Len returns the number of mapped datapoints.
func (d *Decoder) Len() int {
	return len(d.points)
}

// Datapoints returns all mapped datapoints ordered by address.
func (d *Decoder) Datapoints() []Datapoint {
	out := make([]Datapoint, 0, len(d.points))
	for _, dp := range d.points {
		out = append(out, dp)
	}
	slices.SortFunc(out, func(a, b Datapoint) int {
		return int(a.Address.ToUint16()) - int(b.Address.ToUint16())
	})
	return out
}

// Decode decodes a write or response telegram with the type mapped to its
// destination. Reads carry no value and fail with ErrInvalidTelegram.
//
// Returns:
//   - Reading: Mapped datapoint, decoded value and telegram metadata
//   - error: ErrUnknownDatapoint for unmapped destinations, ErrDecodingFailed
//     wrapping the dpt error otherwise
func (d *Decoder) Decode(t Telegram) (Reading, error) {
	if t.IsRead() {
		return Reading{}, fmt.Errorf("%w: read request for %s carries no value", ErrInvalidTelegram, t.Destination)
	}

	dp, ok := d.points[t.Destination]
	if !ok {
		return Reading{}, fmt.Errorf("%w: %s", ErrUnknownDatapoint, t.Destination)
	}

	if t.Compact && !isCompact(dp.Type) {
		return Reading{}, fmt.Errorf("%w: %s: short-form payload for %s", ErrDecodingFailed, t.Destination, dp.Type.ID())
	}

	v, err := dpt.ParseBytes(dp.Type, t.Data)
	if err != nil {
		return Reading{}, fmt.Errorf("%w: %s as %s: %w", ErrDecodingFailed, t.Destination, dp.Type.ID(), err)
	}

	r := Reading{
		Datapoint: dp,
		Value:     v,
		Source:    t.Source,
		Service:   t.Service(),
		Timestamp: t.Timestamp,
		InBounds:  true,
	}
	r.Numeric, r.HasNumeric = NumericValue(v)
	if r.HasNumeric && dp.Bounds != nil {
		r.InBounds = dp.Bounds.Advise(d.logger, dp.Label(), r.Numeric)
	}
	return r, nil
}

// EncodeWrite builds a GroupValue_Write for ga from user tokens, parsed
// with the mapped type (semantic syntax or 0x-prefixed hex).
func (d *Decoder) EncodeWrite(ga GroupAddress, tokens ...string) (Telegram, dpt.Value, error) {
	dp, ok := d.points[ga]
	if !ok {
		return Telegram{}, nil, fmt.Errorf("%w: %s", ErrUnknownDatapoint, ga)
	}
	return EncodeWrite(dp.Type, ga, tokens...)
}

// EncodeWrite builds a GroupValue_Write for ga with an explicit type.
func EncodeWrite(t dpt.Type, ga GroupAddress, tokens ...string) (Telegram, dpt.Value, error) {
	v, err := dpt.ParseTokens(t, tokens...)
	if err != nil {
		return Telegram{}, nil, fmt.Errorf("%w: %s as %s: %w", ErrEncodingFailed, ga, t.ID(), err)
	}
	return NewWriteTelegram(ga, v.Bytes(), isCompact(t)), v, nil
}

type bitWidth interface {
	Bits() int
}

// isCompact reports whether values of t travel inside the APCI octet.
func isCompact(t dpt.Type) bool {
	w, ok := t.(bitWidth)
	return ok && w.Bits() <= compactBits
}

// NumericValue returns v as a number for time-series storage: scaled
// numbers, booleans as 0/1, enumerations as their ordinal and scene numbers.
func NumericValue(v dpt.Value) (float64, bool) {
	switch v := v.(type) {
	case interface{ Float() float64 }:
		return v.Float(), true
	case dpt.Boolean:
		if v.Bool() {
			return 1, true
		}
		return 0, true
	case dpt.Enum:
		return float64(v.Entry().Ordinal), true
	case dpt.SceneNumber:
		return float64(v.Number()), true
	default:
		return 0, false
	}
}

// IsUnmapped reports whether err means the telegram's address has no mapping.
func IsUnmapped(err error) bool {
	return errors.Is(err, ErrUnknownDatapoint)
}
