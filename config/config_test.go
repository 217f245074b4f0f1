package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kbukum/resultkit/logger"
	"github.com/kbukum/resultkit/result"
)

type testAppConfig struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`
	Port          int `mapstructure:"port"`
}

func TestServiceConfigApplyDefaults(t *testing.T) {
	t.Run("empty environment defaults to development", func(t *testing.T) {
		cfg := ServiceConfig{Name: "svc"}
		cfg.ApplyDefaults()
		if cfg.Environment != "development" {
			t.Errorf("expected 'development', got %q", cfg.Environment)
		}
		if !cfg.Debug {
			t.Error("expected debug=true for development")
		}
		if cfg.Logging.ServiceName != "svc" {
			t.Errorf("expected logging service name 'svc', got %q", cfg.Logging.ServiceName)
		}
	})

	t.Run("production environment keeps debug false", func(t *testing.T) {
		cfg := ServiceConfig{Name: "svc", Environment: "production"}
		cfg.ApplyDefaults()
		if cfg.Debug {
			t.Error("expected debug=false for production")
		}
	})
}

func TestServiceConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ServiceConfig
		wantErr bool
		errMsg  string
	}{
		{"valid development", ServiceConfig{Name: "svc", Environment: "development"}, false, ""},
		{"valid production", ServiceConfig{Name: "svc", Environment: "production"}, false, ""},
		{"missing name", ServiceConfig{Environment: "production"}, true, "config.name is required"},
		{"invalid environment", ServiceConfig{Name: "svc", Environment: "invalid"}, true, "config.environment must be one of"},
		{"invalid logging", ServiceConfig{Name: "svc", Environment: "staging", Logging: loggingWithFormat("xml")}, true, "config.logging"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.cfg.Logging.ApplyDefaults()
			err := tc.cfg.Validate()
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				if !strings.Contains(err.Error(), tc.errMsg) {
					t.Errorf("expected error containing %q, got %q", tc.errMsg, err.Error())
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestMessagesConfigProvider(t *testing.T) {
	var empty MessagesConfig
	if empty.IsSet() {
		t.Error("empty config must not be set")
	}

	m := MessagesConfig{Success: "Done.", ErrorFormat: "Oops: {detail}"}
	if !m.IsSet() {
		t.Error("expected IsSet")
	}
	p := m.Provider()
	if p.SuccessMessage() != "Done." {
		t.Errorf("expected 'Done.', got %q", p.SuccessMessage())
	}
	if got := p.ErrorMessage("boom"); got != "Oops: boom" {
		t.Errorf("expected 'Oops: boom', got %q", got)
	}

	if got := empty.Provider().SuccessMessage(); got != result.DefaultSuccessMessage {
		t.Errorf("expected default success message, got %q", got)
	}
}

func TestLoadConfigWithYAML(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yml")

	yamlContent := `
name: test-service
environment: staging
version: "1.0.0"
port: 9090
messages:
  success: "All good."
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatal(err)
	}

	var cfg testAppConfig
	err := LoadConfig("test", &cfg,
		WithConfigFile(configPath),
		WithFileSystem(&mockFS{files: map[string]bool{configPath: true}}),
	)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Name != "test-service" {
		t.Errorf("expected name 'test-service', got %q", cfg.Name)
	}
	if cfg.Environment != "staging" {
		t.Errorf("expected environment 'staging', got %q", cfg.Environment)
	}
	if cfg.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Port)
	}
	if cfg.Messages.Success != "All good." {
		t.Errorf("expected success message override, got %q", cfg.Messages.Success)
	}
}

func TestLoadConfigDefaultsAndEnv(t *testing.T) {
	t.Setenv("RKTEST_PORT", "7070")
	t.Setenv("RKTEST_MESSAGES_ERROR_FORMAT", "Failed: {detail}")
	t.Setenv("PORT", "1")

	var cfg testAppConfig
	err := LoadConfig("test", &cfg,
		WithFileSystem(&mockFS{}),
		WithEnvPrefix("rktest"),
		WithDefaults(map[string]any{
			"name":                  "defaulted",
			"port":                  8080,
			"messages.error_format": "",
		}),
	)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Name != "defaulted" {
		t.Errorf("expected default name, got %q", cfg.Name)
	}
	if cfg.Port != 7070 {
		t.Errorf("expected env port 7070, got %d", cfg.Port)
	}
	if cfg.Messages.ErrorFormat != "Failed: {detail}" {
		t.Errorf("expected env error format, got %q", cfg.Messages.ErrorFormat)
	}
}

func TestLoadConfigMissingExplicitFileIsIgnored(t *testing.T) {
	var cfg testAppConfig
	err := LoadConfig("test", &cfg,
		WithConfigFile("/does/not/exist.yml"),
		WithFileSystem(&mockFS{}),
		WithDefaults(map[string]any{"name": "fallback"}),
	)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Name != "fallback" {
		t.Errorf("expected 'fallback', got %q", cfg.Name)
	}
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yml")
	if err := os.WriteFile(configPath, []byte("name: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}

	var cfg testAppConfig
	err := LoadConfig("test", &cfg,
		WithConfigFile(configPath),
		WithFileSystem(&mockFS{files: map[string]bool{configPath: true}}),
	)
	if err == nil {
		t.Fatal("expected error for invalid YAML")
	}
	if !strings.Contains(err.Error(), "failed to read config file") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestResolveFilesSearchOrder(t *testing.T) {
	fs := &mockFS{files: map[string]bool{
		"./config.yml": true,
		"./cmd/svc/config.yml": true,
		".env": true,
	}}
	got := resolveFiles("svc", LoaderConfig{FileSystem: fs})
	if got.ConfigFile != "./cmd/svc/config.yml" {
		t.Errorf("expected service config first, got %q", got.ConfigFile)
	}
	if got.EnvFile != ".env" {
		t.Errorf("expected .env, got %q", got.EnvFile)
	}
}

func TestEnvFileLoaded(t *testing.T) {
	fs := &mockFS{files: map[string]bool{"custom.env": true}}
	var cfg testAppConfig
	if err := LoadConfig("test", &cfg, WithFileSystem(fs), WithEnvFile("custom.env")); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if len(fs.loaded) != 1 || fs.loaded[0] != "custom.env" {
		t.Errorf("expected custom.env to be loaded, got %v", fs.loaded)
	}
}

func TestEnvKeyVariants(t *testing.T) {
	got := envKeyVariants("SERVER_READ_TIMEOUT")
	want := map[string]bool{
		"server.read.timeout": true,
		"server_read.timeout": true,
		"server.read_timeout": true,
		"server_read_timeout": true,
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d variants, got %v", len(want), got)
	}
	for _, v := range got {
		if !want[v] {
			t.Errorf("unexpected variant %q", v)
		}
	}
}

func loggingWithFormat(format string) logger.Config {
	return logger.Config{Level: "info", Format: format}
}

// mockFS implements FileSystem for tests.
type mockFS struct {
	files  map[string]bool
	loaded []string
}

func (m *mockFS) Exists(path string) bool { return m.files[path] }

func (m *mockFS) LoadEnv(path string) error {
	m.loaded = append(m.loaded, path)
	return nil
}
