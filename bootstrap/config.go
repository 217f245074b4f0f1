package bootstrap

import (
	"fmt"

	"github.com/kbukum/resultkit/auth"
	"github.com/kbukum/resultkit/config"
	"github.com/kbukum/resultkit/database"
	"github.com/kbukum/resultkit/events"
	"github.com/kbukum/resultkit/observability"
	"github.com/kbukum/resultkit/server"
)

// Config is the interface constraint for application configuration types.
// Any struct that embeds config.ServiceConfig (value embedding) satisfies
// it through promoted methods.
type Config interface {
	GetServiceConfig() *config.ServiceConfig
	ApplyDefaults()
	Validate() error
}

// EventsConfig selects the publishers that receive emitted events. The
// in-process bus always receives them.
type EventsConfig struct {
	// Log writes every event as a log line.
	Log bool `yaml:"log" mapstructure:"log"`
	// Stream exposes events to HTTP clients as server-sent events.
	Stream bool `yaml:"stream" mapstructure:"stream"`
	// StreamPath is the route serving the event stream.
	StreamPath string             `yaml:"stream_path" mapstructure:"stream_path"`
	Kafka      events.KafkaConfig `yaml:"kafka" mapstructure:"kafka"`
	Redis      events.RedisConfig `yaml:"redis" mapstructure:"redis"`
}

// ApplyDefaults sets defaults for zero-valued fields.
func (c *EventsConfig) ApplyDefaults() {
	if c.StreamPath == "" {
		c.StreamPath = "/events"
	}
	c.Kafka.ApplyDefaults()
	c.Redis.ApplyDefaults()
}

// Validate validates the enabled publishers.
func (c *EventsConfig) Validate() error {
	if err := c.Kafka.Validate(); err != nil {
		return err
	}
	return c.Redis.Validate()
}

// AppConfig is the full configuration of a resultkit service.
//
//	name: resultd
//	server:
//	  port: 8080
//	database:
//	  dsn: resultd.db
//	auth:
//	  secret: ${AUTH_SECRET}
//	events:
//	  log: true
//	  stream: true
type AppConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Server        server.Config        `yaml:"server" mapstructure:"server"`
	Database      database.Config      `yaml:"database" mapstructure:"database"`
	Auth          auth.Config          `yaml:"auth" mapstructure:"auth"`
	Events        EventsConfig         `yaml:"events" mapstructure:"events"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
}

// ApplyDefaults applies defaults to every section.
func (c *AppConfig) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Database.ApplyDefaults()
	c.Auth.ApplyDefaults()
	c.Events.ApplyDefaults()
	c.Observability.ApplyDefaults()
}

// Validate validates every section.
func (c *AppConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Server.Validate(); err != nil {
		return err
	}
	if err := c.Database.Validate(); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Auth.Validate(); err != nil {
		return err
	}
	if err := c.Events.Validate(); err != nil {
		return err
	}
	return c.Observability.Validate()
}

// LoadAppConfig reads an AppConfig for serviceName from files and the
// environment and applies defaults. Validation happens in NewApp.
func LoadAppConfig(serviceName string, opts ...config.LoaderOption) (*AppConfig, error) {
	cfg := &AppConfig{}
	if err := config.LoadConfig(serviceName, cfg, opts...); err != nil {
		return nil, err
	}
	if cfg.Name == "" {
		cfg.Name = serviceName
	}
	cfg.ApplyDefaults()
	return cfg, nil
}
