package server

import (
	"compress/gzip"
	"fmt"
	"strings"

	"github.com/kbukum/resultkit/security"
	"github.com/kbukum/resultkit/server/middleware"
)

// Config holds HTTP server configuration.
type Config struct {
	Host         string                `yaml:"host" mapstructure:"host"`
	Port         int                   `yaml:"port" mapstructure:"port"`
	ReadTimeout  int                   `yaml:"read_timeout" mapstructure:"read_timeout"`   // seconds
	WriteTimeout int                   `yaml:"write_timeout" mapstructure:"write_timeout"` // seconds
	IdleTimeout  int                   `yaml:"idle_timeout" mapstructure:"idle_timeout"`   // seconds
	CORS         middleware.CORSConfig `yaml:"cors" mapstructure:"cors"`
	// MaxBodySize caps request bodies, in bytes.
	MaxBodySize int64 `yaml:"max_body_size" mapstructure:"max_body_size"`
	// TLS serves HTTPS when cert_file is set; ca_file then enables mTLS.
	TLS security.TLSConfig `yaml:"tls" mapstructure:"tls"`
	// Metrics exposes Prometheus HTTP metrics.
	Metrics MetricsConfig `yaml:"metrics" mapstructure:"metrics"`
	// Compression gzips Gin responses for clients that accept it.
	Compression CompressionConfig `yaml:"compression" mapstructure:"compression"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Path    string `yaml:"path" mapstructure:"path"`
}

// CompressionConfig controls gzip response compression. Level follows
// compress/gzip; zero means the default level.
type CompressionConfig struct {
	Enabled       bool     `yaml:"enabled" mapstructure:"enabled"`
	Level         int      `yaml:"level" mapstructure:"level"`
	ExcludedPaths []string `yaml:"excluded_paths" mapstructure:"excluded_paths"`
}

// ApplyDefaults sets default values for unset fields.
func (c *Config) ApplyDefaults() {
	if c.Port == 0 {
		c.Port = 8080
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 15
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 15
	}
	if c.IdleTimeout == 0 {
		c.IdleTimeout = 60
	}
	if c.MaxBodySize == 0 {
		c.MaxBodySize = middleware.DefaultMaxBodySize
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Compression.Level == 0 {
		c.Compression.Level = gzip.DefaultCompression
	}
	if len(c.CORS.AllowedOrigins) == 0 {
		c.CORS.AllowedOrigins = []string{"*"}
	}
	if len(c.CORS.AllowedMethods) == 0 {
		c.CORS.AllowedMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	}
	if len(c.CORS.AllowedHeaders) == 0 {
		c.CORS.AllowedHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("server.port must be between 0 and 65535 (got: %d)", c.Port)
	}
	if c.ReadTimeout < 0 {
		return fmt.Errorf("server.read_timeout must be non-negative (got: %d)", c.ReadTimeout)
	}
	if c.WriteTimeout < 0 {
		return fmt.Errorf("server.write_timeout must be non-negative (got: %d)", c.WriteTimeout)
	}
	if c.IdleTimeout < 0 {
		return fmt.Errorf("server.idle_timeout must be non-negative (got: %d)", c.IdleTimeout)
	}
	if c.MaxBodySize < 0 {
		return fmt.Errorf("server.max_body_size must be non-negative (got: %d)", c.MaxBodySize)
	}
	if c.Compression.Level < gzip.HuffmanOnly || c.Compression.Level > gzip.BestCompression {
		return fmt.Errorf("server.compression.level must be between %d and %d (got: %d)",
			gzip.HuffmanOnly, gzip.BestCompression, c.Compression.Level)
	}
	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return fmt.Errorf("server.metrics.path must start with / (got: %q)", c.Metrics.Path)
	}
	if err := c.TLS.Validate(); err != nil {
		return fmt.Errorf("server.%w", err)
	}
	return nil
}
