package mqtt

import "strings"

// DefaultTopicPrefix is used when no prefix is configured.
const DefaultTopicPrefix = "dptctl"

// Topics builds the dptctl topic hierarchy below a configurable prefix:
//
//	{prefix}/telegram          raw bus telegrams (knxd group packets)
//	{prefix}/state/{address}   decoded datapoint state
//	{prefix}/status            monitor online/offline (retained, LWT)
//	{prefix}/stats             monitor counters
//
// Group addresses contain '/', so state topics use the URL-safe form
// produced by the knx bridge (1/2/3 -> 1-2-3).
type Topics struct {
	Prefix string
}

func (t Topics) prefix() string {
	p := strings.TrimSuffix(t.Prefix, "/")
	if p == "" {
		return DefaultTopicPrefix
	}
	return p
}

// TelegramStream returns the topic raw telegrams are published on.
//
// Example: dptctl/telegram
func (t Topics) TelegramStream() string {
	return t.prefix() + "/telegram"
}

// DatapointState returns the state topic for one datapoint.
//
// Example: dptctl/state/1-2-3
func (t Topics) DatapointState(address string) string {
	return t.prefix() + "/state/" + address
}

// AllDatapointStates returns a wildcard matching every state topic.
func (t Topics) AllDatapointStates() string {
	return t.prefix() + "/state/+"
}

// MonitorStatus returns the retained online/offline topic.
func (t Topics) MonitorStatus() string {
	return t.prefix() + "/status"
}

// MonitorStats returns the topic for periodic monitor counters.
func (t Topics) MonitorStats() string {
	return t.prefix() + "/stats"
}
