// Package config handles discovery of the simulator endpoint: which host
// and port to connect to and which protocol version to negotiate. The core
// session treats the resolved triple purely as constructor input.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/simlink-project/simlink/protocol"
)

const (
	DefaultConfigFile = "simlink.json"
	DefaultPort       = 500
)

// Config is the root configuration structure.
type Config struct {
	Connection ConnectionConfig `json:"connection"`
	Logging    LoggingConfig    `json:"logging"`
	MQTT       MQTTConfig       `json:"mqtt"`
	API        APIConfig        `json:"api"`
	Recorder   RecorderConfig   `json:"recorder"`
}

// ConnectionConfig resolves the simulator endpoint.
type ConnectionConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Protocol string `json:"protocol"` // "rtm", "sp1" or "sp2"
	AppName  string `json:"app_name"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level     string `json:"level"`
	Directory string `json:"directory"`
	Console   bool   `json:"console"`
}

// MQTTConfig holds telemetry broker settings.
type MQTTConfig struct {
	Enabled   bool   `json:"enabled"`
	BrokerURL string `json:"broker_url"`
	Port      int    `json:"port"`
	ClientID  string `json:"client_id"`
	Username  string `json:"username"`
	Password  string `json:"password"`
}

// APIConfig holds REST API settings.
type APIConfig struct {
	Enabled     bool     `json:"enabled"`
	Port        int      `json:"port"`
	CorsOrigins []string `json:"cors_origins"`
}

// RecorderConfig holds telemetry persistence settings.
type RecorderConfig struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

// Default returns a configuration pointing at a local simulator.
func Default() *Config {
	return &Config{
		Connection: ConnectionConfig{
			Host:     "127.0.0.1",
			Port:     DefaultPort,
			Protocol: "sp2",
			AppName:  "simlink",
		},
		Logging: LoggingConfig{
			Level:     "info",
			Directory: "logs",
			Console:   true,
		},
		API: APIConfig{
			Port: 8090,
		},
		Recorder: RecorderConfig{
			Path: "data/flightlog.db",
		},
	}
}

// Load reads a configuration file, creating it with defaults when missing.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFile
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		cfg := Default()
		if saveErr := Save(cfg, path); saveErr != nil {
			log.Warn().Err(saveErr).Str("path", path).Msg("could not write default config")
		} else {
			log.Info().Str("path", path).Msg("created default config")
		}
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration as indented JSON.
func Save(cfg *Config, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

// ProtocolVersion maps the configured protocol name to its wire constant.
func (c *ConnectionConfig) ProtocolVersion() (protocol.Version, error) {
	switch c.Protocol {
	case "rtm", "":
		return protocol.VersionRTM, nil
	case "sp1":
		return protocol.VersionSP1, nil
	case "sp2":
		return protocol.VersionSP2, nil
	}
	return 0, fmt.Errorf("unknown protocol %q (want rtm, sp1 or sp2)", c.Protocol)
}
