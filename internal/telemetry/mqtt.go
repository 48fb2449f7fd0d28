// Package telemetry publishes decoded simulator records to an MQTT broker.
package telemetry

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"

	"github.com/simlink-project/simlink/config"
	"github.com/simlink-project/simlink/internal/util"
)

// MQTT topics for bridge telemetry.
const (
	TopicTelemetry = "sim/telemetry"
	TopicEvents    = "sim/events"
	TopicStatus    = "sim/status"
)

const connectTimeout = 10 * time.Second

// Publisher manages the MQTT connection and publishes telemetry messages.
// Host metadata is attached to every message.
type Publisher struct {
	mu sync.Mutex

	logger   zerolog.Logger
	client   mqtt.Client
	metadata util.SystemInfo
}

// message is the envelope published to every topic.
type message struct {
	Timestamp string          `json:"timestamp"`
	Host      util.SystemInfo `json:"host"`
	Payload   any             `json:"payload"`
}

// NewPublisher connects to the configured broker.
func NewPublisher(cfg config.MQTTConfig) (*Publisher, error) {
	if !cfg.Enabled {
		return nil, fmt.Errorf("mqtt is disabled")
	}

	p := &Publisher{
		logger:   util.ComponentLogger("mqtt"),
		metadata: util.GetSystemInfo(),
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s:%d", cfg.BrokerURL, cfg.Port))
	if cfg.ClientID != "" {
		opts.SetClientID(cfg.ClientID)
	} else {
		opts.SetClientID(fmt.Sprintf("simlink-%s", p.metadata.Hostname))
	}
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	opts.SetAutoReconnect(true)
	opts.SetMaxReconnectInterval(30 * time.Second)
	opts.SetKeepAlive(60 * time.Second)

	p.client = mqtt.NewClient(opts)
	token := p.client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("mqtt connect timed out")
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect: %w", err)
	}

	p.logger.Info().Str("broker", cfg.BrokerURL).Msg("connected to MQTT broker")
	return p, nil
}

// Publish sends payload to a topic wrapped in the standard envelope.
func (p *Publisher) Publish(topic string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.client == nil || !p.client.IsConnected() {
		return fmt.Errorf("mqtt client not connected")
	}

	data, err := json.Marshal(message{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Host:      p.metadata,
		Payload:   payload,
	})
	if err != nil {
		return fmt.Errorf("encode mqtt payload: %w", err)
	}

	token := p.client.Publish(topic, 0, false, data)
	go func() {
		token.Wait()
		if err := token.Error(); err != nil {
			p.logger.Warn().Err(err).Str("topic", topic).Msg("publish failed")
		}
	}()
	return nil
}

// Close disconnects from the broker.
func (p *Publisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.client != nil && p.client.IsConnected() {
		p.client.Disconnect(250)
	}
}
