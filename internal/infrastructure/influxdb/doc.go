// Package influxdb stores numeric datapoint readings in InfluxDB v2.
//
// Each reading becomes one point in the configured measurement (default
// "knx_readings") tagged with the group address, the datapoint type id and
// the datapoint name, with the decoded value in the "value" field.
//
//	client, err := influxdb.Connect(cfg.InfluxDB)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//	client.WriteReading("1/2/3", "9.001", "hall temperature", 21.5, time.Now())
//
// Writes are batched (influxdb.batch_size, influxdb.flush_interval) and never
// block the caller; batch errors arrive through SetOnError.
package influxdb
