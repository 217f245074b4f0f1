package security

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
)

// TLSConfig describes one end of a TLS connection.
type TLSConfig struct {
	// SkipVerify disables peer certificate verification on clients.
	SkipVerify bool   `yaml:"skip_verify" mapstructure:"skip_verify"`
	CAFile     string `yaml:"ca_file" mapstructure:"ca_file"`
	CertFile   string `yaml:"cert_file" mapstructure:"cert_file"`
	KeyFile    string `yaml:"key_file" mapstructure:"key_file"`
	// ServerName overrides the name clients verify the peer against.
	ServerName string `yaml:"server_name" mapstructure:"server_name"`
	// MinVersion defaults to TLS 1.2.
	MinVersion uint16 `yaml:"min_version" mapstructure:"min_version"`
}

// IsEnabled reports whether any TLS setting is present.
func (c *TLSConfig) IsEnabled() bool {
	if c == nil {
		return false
	}
	return c.SkipVerify || c.CAFile != "" || c.CertFile != "" || c.ServerName != ""
}

// Validate checks that cert_file and key_file come as a pair.
func (c *TLSConfig) Validate() error {
	if c == nil {
		return nil
	}
	if (c.CertFile != "") != (c.KeyFile != "") {
		return fmt.Errorf("tls: cert_file and key_file must be provided together")
	}
	return nil
}

// Client builds a client-side *tls.Config. It returns nil when TLS is not
// enabled.
func (c *TLSConfig) Client() (*tls.Config, error) {
	if !c.IsEnabled() {
		return nil, nil
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	cfg := c.base()
	cfg.InsecureSkipVerify = c.SkipVerify //nolint:gosec // opt-in for test brokers
	cfg.ServerName = c.ServerName

	pool, err := c.caPool()
	if err != nil {
		return nil, err
	}
	cfg.RootCAs = pool
	if err := c.loadKeyPair(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Server builds a server-side *tls.Config. It returns nil when no
// certificate is configured. A CAFile turns on client certificate
// verification.
func (c *TLSConfig) Server() (*tls.Config, error) {
	if c == nil || c.CertFile == "" {
		return nil, nil
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	cfg := c.base()
	if err := c.loadKeyPair(cfg); err != nil {
		return nil, err
	}
	pool, err := c.caPool()
	if err != nil {
		return nil, err
	}
	if pool != nil {
		cfg.ClientCAs = pool
		cfg.ClientAuth = tls.RequireAndVerifyClientCert
	}
	return cfg, nil
}

func (c *TLSConfig) base() *tls.Config {
	minVersion := c.MinVersion
	if minVersion == 0 {
		minVersion = tls.VersionTLS12
	}
	return &tls.Config{MinVersion: minVersion}
}

func (c *TLSConfig) caPool() (*x509.CertPool, error) {
	if c.CAFile == "" {
		return nil, nil
	}
	ca, err := os.ReadFile(c.CAFile)
	if err != nil {
		return nil, fmt.Errorf("tls: read CA file: %w", err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(ca) {
		return nil, fmt.Errorf("tls: no certificates in %s", c.CAFile)
	}
	return pool, nil
}

func (c *TLSConfig) loadKeyPair(cfg *tls.Config) error {
	if c.CertFile == "" {
		return nil
	}
	cert, err := tls.LoadX509KeyPair(c.CertFile, c.KeyFile)
	if err != nil {
		return fmt.Errorf("tls: load key pair: %w", err)
	}
	cfg.Certificates = []tls.Certificate{cert}
	return nil
}
