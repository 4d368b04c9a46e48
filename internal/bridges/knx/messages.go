package knx

import (
	"encoding/hex"
	"time"
)

// StateMessage is published on the datapoint state topic for every decoded
// write or response telegram.
//
// Example:
//
//	{
//	  "address": "1/2/3",
//	  "name": "hall temperature",
//	  "dpt": "9.001",
//	  "value": 21.5,
//	  "text": "21.5 °C",
//	  "unit": "°C",
//	  "raw": "0c33",
//	  "source": "1.1.5",
//	  "service": "write",
//	  "in_bounds": true,
//	  "timestamp": "2024-06-15T14:30:00Z"
//	}
type StateMessage struct {
	Address   string    `json:"address"`
	Name      string    `json:"name,omitempty"`
	DPT       string    `json:"dpt"`
	Value     any       `json:"value"`
	Text      string    `json:"text"`
	Unit      string    `json:"unit,omitempty"`
	Raw       string    `json:"raw"`
	Source    string    `json:"source,omitempty"`
	Service   string    `json:"service"`
	InBounds  bool      `json:"in_bounds"`
	Timestamp time.Time `json:"timestamp"`
}

// NewStateMessage builds the state message for a reading.
func NewStateMessage(r Reading) StateMessage {
	msg := StateMessage{
		Address:   r.Datapoint.Address.String(),
		Name:      r.Datapoint.Name,
		DPT:       r.Datapoint.Type.ID(),
		Value:     r.Value.Payload(),
		Text:      r.Value.Text(),
		Raw:       hex.EncodeToString(r.Value.Bytes()),
		Source:    r.Source,
		Service:   r.Service,
		InBounds:  r.InBounds,
		Timestamp: r.Timestamp.UTC(),
	}
	if unit, ok := r.Datapoint.Type.Unit(); ok {
		msg.Unit = unit
	}
	if n, ok := r.Value.(interface{ Float() float64 }); ok {
		// Scaled integers carry the raw wire integer as payload.
		msg.Value = n.Float()
	}
	return msg
}

// StatsMessage is published periodically on the monitor stats topic.
type StatsMessage struct {
	Received      uint64    `json:"received"`
	Decoded       uint64    `json:"decoded"`
	Failed        uint64    `json:"failed"`
	Unmapped      uint64    `json:"unmapped"`
	Reads         uint64    `json:"reads"`
	Datapoints    int       `json:"datapoints"`
	UptimeSeconds int64     `json:"uptime_seconds"`
	Timestamp     time.Time `json:"timestamp"`
}
