package config

import (
	"fmt"

	"github.com/kbukum/resultkit/logger"
	"github.com/kbukum/resultkit/result"
)

// ServiceConfig contains the fields every resultkit service needs.
// Services embed it in their own config structs:
//
//	type AppConfig struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	    Server server.Config `yaml:"server" mapstructure:"server"`
//	}
type ServiceConfig struct {
	Name        string         `yaml:"name" mapstructure:"name"`
	Environment string         `yaml:"environment" mapstructure:"environment"`
	Version     string         `yaml:"version" mapstructure:"version"`
	Debug       bool           `yaml:"debug" mapstructure:"debug"`
	Logging     logger.Config  `yaml:"logging" mapstructure:"logging"`
	Messages    MessagesConfig `yaml:"messages" mapstructure:"messages"`
}

// GetServiceConfig returns the base ServiceConfig.
func (c *ServiceConfig) GetServiceConfig() *ServiceConfig {
	return c
}

// ApplyDefaults applies default values to the base configuration.
func (c *ServiceConfig) ApplyDefaults() {
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Environment == "development" {
		c.Debug = true
	}
	if c.Logging.ServiceName == "" && c.Name != "" {
		c.Logging.ServiceName = c.Name
	}
	c.Logging.ApplyDefaults()
}

// Validate validates the base configuration fields.
func (c *ServiceConfig) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("config.name is required")
	}
	switch c.Environment {
	case "development", "staging", "production":
	default:
		return fmt.Errorf("config.environment must be one of [development, staging, production] (got: %s)", c.Environment)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("config.logging: %w", err)
	}
	return nil
}

// MessagesConfig overrides the default result message texts.
//
//	messages:
//	  success: "Done."
//	  error_format: "Something went wrong: {detail}"
type MessagesConfig struct {
	Success     string `yaml:"success" mapstructure:"success"`
	ErrorFormat string `yaml:"error_format" mapstructure:"error_format"`
}

// IsSet reports whether any override is configured.
func (m MessagesConfig) IsSet() bool {
	return m.Success != "" || m.ErrorFormat != ""
}

// Provider returns a result.Messages built from the configured texts.
func (m MessagesConfig) Provider() result.Messages {
	return result.StaticMessages{Success: m.Success, ErrorFormat: m.ErrorFormat}
}
