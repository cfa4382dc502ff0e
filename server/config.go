package server

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/connhold/connhold/errs"
	"github.com/connhold/connhold/transport"
)

// Config configures a Server.
type Config struct {
	// Addr is the listening endpoint, scheme-addressed (tcp://, ipc://, ws://).
	Addr string `yaml:"addr"`
	// MaxConnections caps concurrently served connections. Intake pauses at
	// the cap and resumes as connections finish.
	MaxConnections int `yaml:"maxConnections"`
	// IdleTimeout drops a connection that stays silent longer than this.
	// Zero disables the timeout.
	IdleTimeout time.Duration `yaml:"idleTimeout"`
}

// UnmarshalYAML decode the config, keeping current values for absent fields
// and accepting durations in time.ParseDuration notation ("30s").
func (c *Config) UnmarshalYAML(value *yaml.Node) error {
	raw := struct {
		Addr           *string `yaml:"addr"`
		MaxConnections *int    `yaml:"maxConnections"`
		IdleTimeout    *string `yaml:"idleTimeout"`
	}{}
	if err := value.Decode(&raw); err != nil {
		return err
	}

	if raw.Addr != nil {
		c.Addr = *raw.Addr
	}
	if raw.MaxConnections != nil {
		c.MaxConnections = *raw.MaxConnections
	}
	if raw.IdleTimeout != nil {
		d, err := time.ParseDuration(*raw.IdleTimeout)
		if err != nil {
			return fmt.Errorf("parse idleTimeout: %w", err)
		}
		c.IdleTimeout = d
	}
	return nil
}

// DefaultConfig the default server configuration.
func DefaultConfig() Config {
	return Config{
		Addr:           "tcp://127.0.0.1:6379",
		MaxConnections: 100,
	}
}

// LoadConfig read a yaml config file over the defaults.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()

	content, err := os.ReadFile(path)
	if err != nil {
		return config, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(content, &config); err != nil {
		return config, fmt.Errorf("parse config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return config, err
	}
	return config, nil
}

// Validate check the configuration for usable values.
func (c Config) Validate() error {
	if transport.GetTransportFromAddr(c.Addr) == nil {
		return errs.ErrBadTransport
	}
	if c.MaxConnections <= 0 {
		return fmt.Errorf("maxConnections must be positive, got %d", c.MaxConnections)
	}
	if c.IdleTimeout < 0 {
		return fmt.Errorf("idleTimeout must not be negative, got %s", c.IdleTimeout)
	}
	return nil
}
