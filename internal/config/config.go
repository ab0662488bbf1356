package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"time"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/pbaille/calmday/internal/domain"
)

// FileName is the default config file looked up in the working directory
const FileName = "calmday.yaml"

// Config holds all calmday configuration.
type Config struct {
	Server  ServerConfig            `yaml:"server"`
	Store   StoreConfig             `yaml:"store"`
	Logging LoggingConfig           `yaml:"logging"`
	Speech  SpeechConfig            `yaml:"speech"`
	Watch   WatchConfig             `yaml:"watch"`
	Profile domain.CaregiverProfile `yaml:"profile"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr            string `yaml:"addr"`
	ShutdownTimeout string `yaml:"shutdown_timeout"`
}

// StoreConfig configures the in-memory session store.
type StoreConfig struct {
	// Name of the shared in-memory database
	Name string `yaml:"name"`
}

// LoggingConfig configures zap.
type LoggingConfig struct {
	Level       string   `yaml:"level"`       // debug, info, warn, error
	Development bool     `yaml:"development"` // console encoder instead of JSON
	OutputPaths []string `yaml:"output_paths"`
}

// SpeechConfig selects the text-to-speech program.
type SpeechConfig struct {
	Command string   `yaml:"command"`
	Args    []string `yaml:"args"`
}

// WatchConfig configures schedule file watching.
type WatchConfig struct {
	Debounce string `yaml:"debounce"`
}

// DefaultConfig returns the built-in configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: "10s",
		},
		Store: StoreConfig{Name: "calmday"},
		Logging: LoggingConfig{
			Level:       "info",
			OutputPaths: []string{"stderr"},
		},
		Speech: SpeechConfig{Command: defaultSpeechCommand()},
		Watch:  WatchConfig{Debounce: "300ms"},
	}
}

func defaultSpeechCommand() string {
	if runtime.GOOS == "darwin" {
		return "say"
	}
	return "espeak"
}

// Load reads path over the defaults. A missing file yields the defaults.
// Environment overrides are applied last.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("CALMDAY_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("CALMDAY_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("CALMDAY_SPEECH_COMMAND"); v != "" {
		c.Speech.Command = v
	}
	if v := os.Getenv("CALMDAY_STORE_NAME"); v != "" {
		c.Store.Name = v
	}
}

// Validate checks the config for values that cannot work
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if _, err := time.ParseDuration(c.Server.ShutdownTimeout); err != nil {
		return fmt.Errorf("server.shutdown_timeout: %w", err)
	}
	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	if _, err := time.ParseDuration(c.Watch.Debounce); err != nil {
		return fmt.Errorf("watch.debounce: %w", err)
	}
	return nil
}

// ShutdownTimeout returns the parsed server shutdown timeout
func (c *Config) ShutdownTimeout() time.Duration {
	d, err := time.ParseDuration(c.Server.ShutdownTimeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

// DebounceDelay returns the parsed watch debounce
func (c *Config) DebounceDelay() time.Duration {
	d, err := time.ParseDuration(c.Watch.Debounce)
	if err != nil {
		return 300 * time.Millisecond
	}
	return d
}
