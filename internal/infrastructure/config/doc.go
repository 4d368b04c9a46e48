// Package config loads and validates the dptctl monitor configuration.
//
// Values come from defaults, then a YAML file, then DPTCTL_* environment
// variables. Credentials (MQTT password, InfluxDB token) should be supplied
// through the environment rather than the file.
//
// Usage:
//
//	cfg, err := config.Load("configs/monitor.yaml")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(cfg.MQTT.Broker.Host)
package config
