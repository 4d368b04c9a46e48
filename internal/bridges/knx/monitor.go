package knx

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nerrad567/gray-logic-dpt/internal/infrastructure/mqtt"
)

// Logger is the logging interface used by the monitor.
// It is satisfied by logging.Logger.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// MQTTClient is the subset of the MQTT client the monitor uses.
type MQTTClient interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
	Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error
	Unsubscribe(topic string) error
}

// MetricWriter stores numeric readings. It is satisfied by *influxdb.Client.
type MetricWriter interface {
	WriteReading(address, dptID, name string, value float64, ts time.Time)
}

// TelegramRecorder records bus traffic. It is satisfied by *Recorder.
type TelegramRecorder interface {
	RecordTelegram(t Telegram, mapped bool)
}

// MonitorOptions configures a Monitor.
type MonitorOptions struct {
	Decoder *Decoder
	MQTT    MQTTClient

	// Metrics and Recorder are optional.
	Metrics  MetricWriter
	Recorder TelegramRecorder

	Topics mqtt.Topics

	// TelegramTopic defaults to Topics.TelegramStream().
	TelegramTopic string

	QoS         byte
	RetainState bool

	// StatsInterval is the period of StatsMessage publication; zero disables it.
	StatsInterval time.Duration

	Logger Logger
}

// Monitor subscribes to raw bus telegrams, decodes them with a Decoder and
// publishes the decoded state.
//
// Responsibilities:
//   - Decoding write and response telegrams for mapped group addresses
//   - Publishing a StateMessage when a datapoint's value changes
//   - Writing numeric readings to the optional MetricWriter
//   - Recording every telegram's addresses with the optional TelegramRecorder
//   - Counting telegrams and publishing periodic statistics
//
// Thread Safety: All methods are safe for concurrent use.
type Monitor struct {
	decoder       *Decoder
	mqtt          MQTTClient
	metrics       MetricWriter
	recorder      TelegramRecorder
	topics        mqtt.Topics
	telegramTopic string
	qos           byte
	retain        bool
	statsInterval time.Duration
	started       time.Time

	// Last published raw value per address, for change detection.
	stateCache   map[GroupAddress]string
	stateCacheMu sync.Mutex

	received atomic.Uint64
	decoded  atomic.Uint64
	failed   atomic.Uint64
	unmapped atomic.Uint64
	reads    atomic.Uint64

	done     chan struct{}
	wg       sync.WaitGroup
	stopOnce sync.Once

	logger   Logger
	loggerMu sync.RWMutex
}

// NewMonitor creates a monitor. Decoder and MQTT are required.
func NewMonitor(opts MonitorOptions) (*Monitor, error) {
	if opts.Decoder == nil {
		return nil, errors.New("knx: monitor requires a decoder")
	}
	if opts.MQTT == nil {
		return nil, errors.New("knx: monitor requires an MQTT client")
	}

	topic := opts.TelegramTopic
	if topic == "" {
		topic = opts.Topics.TelegramStream()
	}

	m := &Monitor{
		decoder:       opts.Decoder,
		mqtt:          opts.MQTT,
		metrics:       opts.Metrics,
		recorder:      opts.Recorder,
		topics:        opts.Topics,
		telegramTopic: topic,
		qos:           opts.QoS,
		retain:        opts.RetainState,
		statsInterval: opts.StatsInterval,
		started:       time.Now(),
		stateCache:    make(map[GroupAddress]string),
		done:          make(chan struct{}),
		logger:        opts.Logger,
	}
	return m, nil
}

// Start subscribes to the telegram topic and starts statistics reporting.
// Statistics stop when ctx is cancelled or Stop is called.
func (m *Monitor) Start(ctx context.Context) error {
	if err := m.mqtt.Subscribe(m.telegramTopic, m.qos, m.HandleMessage); err != nil {
		return fmt.Errorf("subscribe to telegrams: %w", err)
	}
	m.logInfo("monitor started",
		"topic", m.telegramTopic,
		"datapoints", m.decoder.Len())

	if m.statsInterval > 0 {
		m.wg.Add(1)
		go m.statsLoop(ctx)
	}
	return nil
}

// Stop unsubscribes and waits for background work to finish.
func (m *Monitor) Stop() {
	m.stopOnce.Do(func() {
		close(m.done)
		m.wg.Wait()

		if err := m.mqtt.Unsubscribe(m.telegramTopic); err != nil {
			m.logDebug("unsubscribe skipped", "topic", m.telegramTopic, "reason", err.Error())
		}

		stats := m.Stats()
		m.logInfo("monitor stopped",
			"received", stats.Received,
			"decoded", stats.Decoded,
			"failed", stats.Failed)
	})
}

func (m *Monitor) statsLoop(ctx context.Context) {
	defer m.wg.Done()

	ticker := time.NewTicker(m.statsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-m.done:
			return
		case <-ticker.C:
			if err := m.PublishStats(); err != nil {
				m.logError("failed to publish stats", err)
			}
		}
	}
}

// HandleMessage is the MQTT handler for raw telegram payloads.
func (m *Monitor) HandleMessage(_ string, payload []byte) error {
	m.received.Add(1)

	t, err := ParseTelegram(payload)
	if err != nil {
		m.failed.Add(1)
		return err
	}
	return m.handleTelegram(t)
}

// HandleTelegram processes one parsed telegram.
func (m *Monitor) HandleTelegram(t Telegram) error {
	m.received.Add(1)
	return m.handleTelegram(t)
}

func (m *Monitor) handleTelegram(t Telegram) error {
	if m.recorder != nil {
		_, mapped := m.decoder.Lookup(t.Destination)
		m.recorder.RecordTelegram(t, mapped)
	}

	if t.IsRead() {
		m.reads.Add(1)
		return nil
	}

	reading, err := m.decoder.Decode(t)
	if err != nil {
		if IsUnmapped(err) {
			// Traffic for addresses we don't track.
			m.unmapped.Add(1)
			m.logDebug("unmapped group address", "ga", t.Destination.String(), "source", t.Source)
			return nil
		}
		m.failed.Add(1)
		return err
	}
	m.decoded.Add(1)

	if m.metrics != nil && reading.HasNumeric {
		m.metrics.WriteReading(
			reading.Datapoint.Address.String(),
			reading.Datapoint.Type.ID(),
			reading.Datapoint.Name,
			reading.Numeric,
			reading.Timestamp,
		)
	}

	raw := hex.EncodeToString(reading.Value.Bytes())
	if m.stateUnchanged(reading.Datapoint.Address, raw) {
		return nil
	}

	payload, err := json.Marshal(NewStateMessage(reading))
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	topic := m.topics.DatapointState(reading.Datapoint.Address.TopicSegment())
	if err := m.mqtt.Publish(topic, payload, m.qos, m.retain); err != nil {
		// Forget the value so the next telegram retries the publish.
		m.forgetState(reading.Datapoint.Address)
		return fmt.Errorf("publish state: %w", err)
	}

	m.logDebug("state published",
		"ga", reading.Datapoint.Address.String(),
		"dpt", reading.Datapoint.Type.ID(),
		"value", reading.Value.Text())
	return nil
}

// stateUnchanged reports whether raw equals the last value published for
// ga, and records raw otherwise.
func (m *Monitor) stateUnchanged(ga GroupAddress, raw string) bool {
	m.stateCacheMu.Lock()
	defer m.stateCacheMu.Unlock()

	if cached, ok := m.stateCache[ga]; ok && cached == raw {
		return true
	}
	m.stateCache[ga] = raw
	return false
}

func (m *Monitor) forgetState(ga GroupAddress) {
	m.stateCacheMu.Lock()
	delete(m.stateCache, ga)
	m.stateCacheMu.Unlock()
}

// ClearStateCache forces the next value of every datapoint to be published.
func (m *Monitor) ClearStateCache() {
	m.stateCacheMu.Lock()
	defer m.stateCacheMu.Unlock()
	m.stateCache = make(map[GroupAddress]string)
}

// Stats returns the current counters.
func (m *Monitor) Stats() StatsMessage {
	return StatsMessage{
		Received:      m.received.Load(),
		Decoded:       m.decoded.Load(),
		Failed:        m.failed.Load(),
		Unmapped:      m.unmapped.Load(),
		Reads:         m.reads.Load(),
		Datapoints:    m.decoder.Len(),
		UptimeSeconds: int64(time.Since(m.started).Seconds()),
		Timestamp:     time.Now().UTC(),
	}
}

// PublishStats publishes the current counters on the stats topic.
func (m *Monitor) PublishStats() error {
	payload, err := json.Marshal(m.Stats())
	if err != nil {
		return fmt.Errorf("marshal stats: %w", err)
	}
	return m.mqtt.Publish(m.topics.MonitorStats(), payload, m.qos, false)
}

// SetLogger sets the monitor's logger.
func (m *Monitor) SetLogger(logger Logger) {
	m.loggerMu.Lock()
	m.logger = logger
	m.loggerMu.Unlock()
}

func (m *Monitor) getLogger() Logger {
	m.loggerMu.RLock()
	defer m.loggerMu.RUnlock()
	return m.logger
}

func (m *Monitor) logInfo(msg string, keysAndValues ...any) {
	if logger := m.getLogger(); logger != nil {
		logger.Info(msg, keysAndValues...)
	}
}

func (m *Monitor) logError(msg string, err error) {
	if logger := m.getLogger(); logger != nil {
		logger.Error(msg, "error", err)
	}
}

func (m *Monitor) logDebug(msg string, keysAndValues ...any) {
	if logger := m.getLogger(); logger != nil {
		logger.Debug(msg, keysAndValues...)
	}
}
