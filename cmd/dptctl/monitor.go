package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nerrad567/gray-logic-dpt/internal/bridges/knx"
	"github.com/nerrad567/gray-logic-dpt/internal/dpt"
	"github.com/nerrad567/gray-logic-dpt/internal/infrastructure/config"
	"github.com/nerrad567/gray-logic-dpt/internal/infrastructure/database"
	"github.com/nerrad567/gray-logic-dpt/internal/infrastructure/influxdb"
	"github.com/nerrad567/gray-logic-dpt/internal/infrastructure/logging"
	"github.com/nerrad567/gray-logic-dpt/internal/infrastructure/mqtt"
	"github.com/nerrad567/gray-logic-dpt/migrations"
)

// Default configuration file path
const defaultConfigPath = "configs/dptctl.yaml"

const healthCheckInterval = 30 * time.Second

var configPath string

func init() {
	monitorCmd.Flags().StringVarP(&configPath, "config", "c", "", "Configuration file (default $DPTCTL_CONFIG or "+defaultConfigPath+")")

	rootCmd.AddCommand(monitorCmd)
}

// monitorCmd runs the bus monitor until interrupted
var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Decode a knxd telegram stream from MQTT",
	Long: `Subscribe to raw knxd group telegrams on MQTT, decode them with the
datapoint mapping file and publish decoded state per group address.
Numeric readings are written to InfluxDB when it is enabled.

Runs until interrupted (Ctrl+C or SIGTERM).`,
	Example: `  dptctl monitor --config configs/dptctl.yaml`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer cancel()
		return runMonitor(ctx, getConfigPath())
	},
}

func getConfigPath() string {
	if configPath != "" {
		return configPath
	}
	if path := os.Getenv("DPTCTL_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// runMonitor wires the monitor's infrastructure and blocks until ctx is
// cancelled. It returns nil on clean shutdown.
func runMonitor(ctx context.Context, path string) error {
	// Use default logger until config is loaded
	log := logging.Default()

	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log = logging.New(cfg.Logging, version)
	log.Info("starting dptctl monitor",
		"version", version,
		"commit", commit,
		"config", path,
	)

	dps, err := knx.LoadDatapoints(cfg.Monitor.Datapoints)
	if err != nil {
		return fmt.Errorf("loading datapoints: %w", err)
	}
	decoder, err := knx.NewDecoder(dpt.Default(), dps)
	if err != nil {
		return fmt.Errorf("building decoder: %w", err)
	}
	decoder.SetLogger(log.With("component", "decoder"))
	log.Info("datapoints loaded", "path", cfg.Monitor.Datapoints, "count", decoder.Len())

	mqttClient, err := mqtt.Connect(cfg.MQTT)
	if err != nil {
		return fmt.Errorf("connecting to MQTT: %w", err)
	}
	defer func() {
		log.Info("disconnecting from MQTT")
		if closeErr := mqttClient.Close(); closeErr != nil {
			log.Error("error closing MQTT", "error", closeErr)
		}
	}()
	mqttClient.SetLogger(log.With("component", "mqtt"))
	mqttClient.SetOnConnect(func() {
		log.Info("MQTT reconnected")
	})
	mqttClient.SetOnDisconnect(func(err error) {
		log.Warn("MQTT disconnected", "error", err)
	})
	log.Info("MQTT connected",
		"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
		"client_id", mqttClient.ClientID(),
	)

	opts := knx.MonitorOptions{
		Decoder:       decoder,
		MQTT:          mqttClient,
		Topics:        mqttClient.Topics(),
		TelegramTopic: cfg.Monitor.TelegramTopic,
		QoS:           byte(cfg.MQTT.QoS), // #nosec G115 -- validated to 0-2
		RetainState:   cfg.Monitor.RetainState,
		StatsInterval: cfg.GetStatusInterval(),
		Logger:        log.With("component", "monitor"),
	}

	// Connect to InfluxDB (optional)
	var influxClient *influxdb.Client
	if cfg.InfluxDB.Enabled {
		influxClient, err = influxdb.Connect(cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)
		opts.Metrics = influxClient
	} else {
		log.Info("InfluxDB disabled")
	}

	// Open the bus address database (optional)
	var db *database.DB
	if cfg.Database.Enabled() {
		db, err = openDatabase(ctx, cfg.Database)
		if err != nil {
			return err
		}
		defer func() {
			log.Info("closing database")
			if closeErr := db.Close(); closeErr != nil {
				log.Error("error closing database", "error", closeErr)
			}
		}()

		recorder := knx.NewRecorder(db.DB)
		recorder.SetLogger(log.With("component", "recorder"))
		if err := recorder.Start(); err != nil {
			return fmt.Errorf("starting recorder: %w", err)
		}
		defer recorder.Stop()
		opts.Recorder = recorder
		log.Info("recording bus addresses", "path", cfg.Database.Path)
	}

	monitor, err := knx.NewMonitor(opts)
	if err != nil {
		return fmt.Errorf("creating monitor: %w", err)
	}
	if err := monitor.Start(ctx); err != nil {
		return fmt.Errorf("starting monitor: %w", err)
	}
	defer monitor.Stop()

	ticker := time.NewTicker(healthCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("shutdown signal received")
			return nil
		case <-ticker.C:
			if err := healthCheck(ctx, mqttClient, influxClient, db); err != nil {
				log.Warn("health check failed", "error", err)
			}
		}
	}
}

// openDatabase opens the SQLite database and applies pending migrations.
func openDatabase(ctx context.Context, cfg config.DatabaseConfig) (*database.DB, error) {
	db, err := database.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Migrate(ctx, migrations.FS); err != nil {
		db.Close() //nolint:errcheck // already failing
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return db, nil
}

// healthCheck returns the first failing connection, or nil.
// influxClient and db are nil when disabled.
func healthCheck(ctx context.Context, mqttClient *mqtt.Client, influxClient *influxdb.Client, db *database.DB) error {
	if err := mqttClient.HealthCheck(ctx); err != nil {
		return fmt.Errorf("mqtt: %w", err)
	}
	if influxClient != nil {
		if err := influxClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("influxdb: %w", err)
		}
	}
	if db != nil {
		if err := db.HealthCheck(ctx); err != nil {
			return fmt.Errorf("database: %w", err)
		}
	}
	return nil
}
