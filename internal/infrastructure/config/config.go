package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the dptctl monitor configuration.
// It is loaded from a YAML file and can be overridden by environment variables.
type Config struct {
	MQTT     MQTTConfig     `yaml:"mqtt"`
	InfluxDB InfluxDBConfig `yaml:"influxdb"`
	Database DatabaseConfig `yaml:"database"`
	Logging  LoggingConfig  `yaml:"logging"`
	Monitor  MonitorConfig  `yaml:"monitor"`
}

// MQTTConfig contains MQTT broker connection settings.
type MQTTConfig struct {
	Broker      MQTTBrokerConfig    `yaml:"broker"`
	Auth        MQTTAuthConfig      `yaml:"auth"`
	QoS         int                 `yaml:"qos"`
	TopicPrefix string              `yaml:"topic_prefix"`
	Reconnect   MQTTReconnectConfig `yaml:"reconnect"`
}

// MQTTBrokerConfig contains broker connection details.
type MQTTBrokerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	TLS  bool   `yaml:"tls"`

	// ClientID identifies this session to the broker. When empty a unique
	// id is generated on connect.
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTReconnectConfig contains reconnection behaviour settings.
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"` // seconds
	MaxDelay     int `yaml:"max_delay"`     // seconds
}

// InfluxDBConfig contains InfluxDB connection settings for numeric readings.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	Measurement   string `yaml:"measurement"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"` // seconds
}

// DatabaseConfig contains SQLite settings for the bus address recorder.
// Recording is disabled when Path is empty.
type DatabaseConfig struct {
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"` // seconds
}

// Enabled reports whether a database path is configured.
func (d DatabaseConfig) Enabled() bool {
	return d.Path != ""
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
	Output string `yaml:"output"` // stdout, stderr
}

// MonitorConfig contains bus monitor settings.
type MonitorConfig struct {
	// Datapoints is the path to the group address mapping file.
	Datapoints string `yaml:"datapoints"`

	// TelegramTopic is the topic raw bus telegrams arrive on. Defaults to
	// the telegram stream below the MQTT topic prefix.
	TelegramTopic string `yaml:"telegram_topic"`

	// RetainState publishes decoded state messages as retained.
	RetainState bool `yaml:"retain_state"`

	// StatusInterval is the number of seconds between monitor status
	// publications. Zero disables periodic status.
	StatusInterval int `yaml:"status_interval"`
}

// Load reads configuration from a YAML file and applies environment overrides.
//
// The loading process:
//  1. Start from defaults
//  2. Read and parse the YAML file
//  3. Apply environment variable overrides (DPTCTL_* prefix)
//  4. Validate the result
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path) //nolint:gosec // path is supplied by the operator
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host: "localhost",
				Port: 1883,
			},
			QoS:         1,
			TopicPrefix: "dptctl",
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
			},
		},
		InfluxDB: InfluxDBConfig{
			Measurement:   "knx_readings",
			BatchSize:     100,
			FlushInterval: 10,
		},
		Database: DatabaseConfig{
			WALMode:     true,
			BusyTimeout: 5,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		Monitor: MonitorConfig{
			RetainState:    true,
			StatusInterval: 60,
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: DPTCTL_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	// MQTT
	if v := os.Getenv("DPTCTL_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("DPTCTL_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("DPTCTL_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}

	// InfluxDB
	if v := os.Getenv("DPTCTL_INFLUXDB_URL"); v != "" {
		cfg.InfluxDB.URL = v
	}
	if v := os.Getenv("DPTCTL_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}

	// Database
	if v := os.Getenv("DPTCTL_DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}

	// Monitor
	if v := os.Getenv("DPTCTL_MONITOR_DATAPOINTS"); v != "" {
		cfg.Monitor.Datapoints = v
	}

	// Logging
	if v := os.Getenv("DPTCTL_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate checks the configuration and reports every problem found.
//
// Returns:
//   - error: Every validation failure joined into one message, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	// MQTT validation
	if c.MQTT.Broker.Host == "" {
		errs = append(errs, "mqtt.broker.host is required")
	}
	if c.MQTT.Broker.Port < 1 || c.MQTT.Broker.Port > 65535 {
		errs = append(errs, "mqtt.broker.port must be between 1 and 65535")
	}
	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}
	if strings.ContainsAny(c.MQTT.TopicPrefix, "+#") {
		errs = append(errs, "mqtt.topic_prefix must not contain wildcards")
	}

	// InfluxDB validation (only when enabled)
	if c.InfluxDB.Enabled {
		if c.InfluxDB.URL == "" {
			errs = append(errs, "influxdb.url is required when influxdb is enabled")
		}
		if c.InfluxDB.Org == "" {
			errs = append(errs, "influxdb.org is required when influxdb is enabled")
		}
		if c.InfluxDB.Bucket == "" {
			errs = append(errs, "influxdb.bucket is required when influxdb is enabled")
		}
	}

	if c.Database.BusyTimeout < 0 {
		errs = append(errs, "database.busy_timeout must not be negative")
	}

	// Monitor validation
	if c.Monitor.Datapoints == "" {
		errs = append(errs, "monitor.datapoints is required (set DPTCTL_MONITOR_DATAPOINTS environment variable)")
	}
	if c.Monitor.StatusInterval < 0 {
		errs = append(errs, "monitor.status_interval must not be negative")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// GetStatusInterval returns the monitor status interval as a Duration.
func (c *Config) GetStatusInterval() time.Duration {
	return time.Duration(c.Monitor.StatusInterval) * time.Second
}
