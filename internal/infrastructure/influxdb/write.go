package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// Tag keys on reading points.
const (
	tagAddress = "ga"
	tagDPT     = "dpt"
	tagName    = "name"
	fieldValue = "value"
)

// WriteReading records one numeric datapoint value.
// The write is non-blocking; points are batched and sent asynchronously.
//
// Parameters:
//   - address: Group address, stored as a tag (e.g., "1/2/3")
//   - dptID: Canonical datapoint type id, stored as a tag
//   - name: Datapoint name from the mapping file, stored as a tag when set
//   - value: The numeric value in display units
//   - ts: Telegram receive time
//
// Example:
//
//	client.WriteReading("1/2/3", "9.001", "hall temperature", 21.5, time.Now())
func (c *Client) WriteReading(address, dptID, name string, value float64, ts time.Time) {
	if !c.IsConnected() {
		return
	}
	c.writeAPI.WritePoint(readingPoint(c.measurement, address, dptID, name, value, ts))
}

// readingPoint builds the point for one reading. The name tag is omitted
// for unnamed datapoints.
func readingPoint(measurement, address, dptID, name string, value float64, ts time.Time) *write.Point {
	tags := map[string]string{
		tagAddress: address,
		tagDPT:     dptID,
	}
	if name != "" {
		tags[tagName] = name
	}
	return write.NewPoint(measurement, tags, map[string]any{fieldValue: value}, ts)
}
