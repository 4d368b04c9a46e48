// Package mqtt connects the dptctl bus monitor to an MQTT broker.
//
// The monitor reads raw KNX telegrams from one topic and publishes decoded
// datapoint state below a configurable prefix (see Topics). The client keeps
// a retained online/offline status with a Last Will so consumers can tell
// when the monitor has gone away.
//
//	knxd/gateway -> {prefix}/telegram -> dptctl monitor -> {prefix}/state/{ga}
//
// Use TLS (mqtt.broker.tls) for anything beyond a local broker; credentials
// are sent in the CONNECT packet.
package mqtt
