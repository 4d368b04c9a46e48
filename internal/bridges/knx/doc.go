// Package knx decodes KNX bus traffic with the datapoint type catalog.
//
// A knxd gateway (or any bus coupler bridge) publishes raw group packets on
// an MQTT topic. The Monitor parses each packet into a Telegram, decodes it
// with the datapoint type mapped to its group address, and publishes the
// result as a StateMessage.
//
//	knxd ──► {prefix}/telegram ──► Monitor ──► {prefix}/state/{ga}
//	                                  │
//	                                  └──► InfluxDB (numeric readings)
//
// # Group Addresses
//
// Addresses use the 3-level form main/middle/sub ("1/2/3"). The 2-level form
// main/sub ("1/515") is accepted on input. In topics '/' becomes '-'.
//
// # Datapoint Mapping
//
// The mapping file binds addresses to types by any registered id or alias:
//
//	datapoints:
//	  - address: 1/2/3
//	    dpt: DPST-9-1
//	    name: hall temperature
//	    bounds: {min: 5, max: 35}
//
// Values outside bounds are still published, with in_bounds=false and a
// warning in the log.
package knx
