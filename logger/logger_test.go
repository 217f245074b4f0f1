package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"
	"time"
)

func jsonLogger(buf *bytes.Buffer, level string) *Logger {
	return NewWithWriter(&Config{Level: level, Format: "json"}, "test-svc", buf)
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	line := strings.TrimSpace(buf.String())
	if err := json.Unmarshal([]byte(line), &m); err != nil {
		t.Fatalf("invalid JSON log line %q: %v", line, err)
	}
	return m
}

func TestNewDefault(t *testing.T) {
	l := NewDefault("test-svc")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
	if l.Service() != "test-svc" {
		t.Errorf("expected service 'test-svc', got %q", l.Service())
	}
}

func TestNewInvalidLevel(t *testing.T) {
	var buf bytes.Buffer
	l := jsonLogger(&buf, "invalid-level")
	l.Debug("hidden")
	l.Info("shown")
	if strings.Contains(buf.String(), "hidden") {
		t.Error("invalid level should fall back to info")
	}
	if !strings.Contains(buf.String(), "shown") {
		t.Error("expected info line")
	}
}

func TestNewFromEnv(t *testing.T) {
	os.Setenv("LOG_LEVEL", "debug")
	os.Setenv("LOG_FORMAT", "json")
	defer os.Unsetenv("LOG_LEVEL")
	defer os.Unsetenv("LOG_FORMAT")

	l := NewFromEnv("env-svc")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
}

func TestServiceAndComponentFields(t *testing.T) {
	var buf bytes.Buffer
	jsonLogger(&buf, "info").WithComponent("handler").Info("hello", Fields("id", 7))

	m := decodeLine(t, &buf)
	if m[FieldService] != "test-svc" {
		t.Errorf("expected service field, got %v", m[FieldService])
	}
	if m[FieldComponent] != "handler" {
		t.Errorf("expected component field, got %v", m[FieldComponent])
	}
	if m["id"] != float64(7) {
		t.Errorf("expected id=7, got %v", m["id"])
	}
	if m["message"] != "hello" {
		t.Errorf("expected message 'hello', got %v", m["message"])
	}
}

func TestWithError(t *testing.T) {
	var buf bytes.Buffer
	jsonLogger(&buf, "info").WithError(errors.New("broken")).Error("failed")
	m := decodeLine(t, &buf)
	if m["error"] != "broken" {
		t.Errorf("expected error field, got %v", m["error"])
	}
	if m["level"] != "error" {
		t.Errorf("expected error level, got %v", m["level"])
	}
}

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	jsonLogger(&buf, "info").WithFields(map[string]interface{}{"k": "v"}).Warn("w")
	if m := decodeLine(t, &buf); m["k"] != "v" {
		t.Errorf("expected k=v, got %v", m["k"])
	}
}

func TestWithContext_RequestID(t *testing.T) {
	var buf bytes.Buffer
	l := jsonLogger(&buf, "info")
	ctx := ContextWithRequestID(context.Background(), "rid-1")
	l.WithContext(ctx).Info("x")
	if m := decodeLine(t, &buf); m[FieldRequestID] != "rid-1" {
		t.Errorf("expected request_id, got %v", m[FieldRequestID])
	}

	if l.WithContext(context.Background()) != l {
		t.Error("context without request ID must return the same logger")
	}
}

func TestNop(t *testing.T) {
	Nop().Error("discarded")
}

func TestSetGlobalLogger(t *testing.T) {
	var buf bytes.Buffer
	prev := globalLogger
	defer SetGlobalLogger(prev)

	SetGlobalLogger(jsonLogger(&buf, "debug"))
	Debug("d")
	Info("i")
	Warn("w")
	Error("e")
	if n := strings.Count(buf.String(), "\n"); n != 4 {
		t.Errorf("expected 4 lines, got %d", n)
	}
	if WithComponent("x") == nil {
		t.Error("expected component logger")
	}
}

func TestGetGlobalLoggerDefault(t *testing.T) {
	prev := globalLogger
	defer SetGlobalLogger(prev)

	globalLogger = nil
	if GetGlobalLogger() == nil {
		t.Fatal("expected default global logger")
	}
}

func TestInit(t *testing.T) {
	prev := globalLogger
	defer SetGlobalLogger(prev)

	Init(Config{ServiceName: "init-test", Format: "json"})
	if GetGlobalLogger().Service() != "init-test" {
		t.Errorf("expected init-test, got %q", GetGlobalLogger().Service())
	}
}

func TestConfigApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if cfg.Level != "info" || cfg.Format != "console" || cfg.Output != "stdout" || !cfg.Timestamp {
		t.Errorf("unexpected defaults %+v", cfg)
	}
}

func TestConfigValidate(t *testing.T) {
	valid := Config{Level: "debug", Format: "json"}
	if err := valid.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := (&Config{Level: "loud", Format: "json"}).Validate(); err == nil {
		t.Error("expected invalid level error")
	}
	if err := (&Config{Level: "info", Format: "xml"}).Validate(); err == nil {
		t.Error("expected invalid format error")
	}
}

type outcome struct {
	ok  bool
	msg string
}

func (o outcome) IsSuccess() bool { return o.ok }
func (o outcome) Message() string { return o.msg }

func TestFieldsHelpers(t *testing.T) {
	f := Fields("a", 1, "b")
	if len(f) != 1 || f["a"] != 1 {
		t.Errorf("unexpected fields %v", f)
	}
	if ErrorFields("save", errors.New("x"))[FieldError] != "x" {
		t.Error("expected error field")
	}
	if DurationFields("save", 1500*time.Millisecond)[FieldDuration] != int64(1500) {
		t.Error("expected duration in ms")
	}
	of := OutcomeFields("create", outcome{ok: false, msg: "dup"})
	if of[FieldSuccess] != false || of[FieldMessage] != "dup" {
		t.Errorf("unexpected outcome fields %v", of)
	}
}
