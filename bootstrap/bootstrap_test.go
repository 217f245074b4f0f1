package bootstrap

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/resultkit/component"
	"github.com/kbukum/resultkit/config"
	"github.com/kbukum/resultkit/di"
	"github.com/kbukum/resultkit/events"
	"github.com/kbukum/resultkit/logger"
	"github.com/kbukum/resultkit/result"
	"github.com/kbukum/resultkit/testutil"
	"github.com/kbukum/resultkit/version"
)

type testConfig struct {
	config.ServiceConfig
}

type mockComponent struct {
	name     string
	startErr error
	health   component.Health
	started  bool
	stopped  bool
}

func (m *mockComponent) Name() string { return m.name }
func (m *mockComponent) Start(ctx context.Context) error {
	m.started = true
	return m.startErr
}
func (m *mockComponent) Stop(ctx context.Context) error {
	m.stopped = true
	return nil
}
func (m *mockComponent) Health(ctx context.Context) component.Health { return m.health }

func newTestConfig(name string) *testConfig {
	return &testConfig{ServiceConfig: config.ServiceConfig{Name: name, Version: "1.0.0", Environment: "development"}}
}

func newTestApp(t *testing.T, cfg *testConfig, opts ...Option) *App[*testConfig] {
	t.Helper()
	t.Cleanup(result.ResetMessages)
	app, err := NewApp(cfg, append([]Option{WithLogger(logger.Nop())}, opts...)...)
	if err != nil {
		t.Fatalf("NewApp: %v", err)
	}
	return app
}

func TestNewApp(t *testing.T) {
	app := newTestApp(t, newTestConfig("test-svc"), WithGracefulTimeout(3*time.Second))
	if app.Name != "test-svc" || app.Version != "1.0.0" || app.Cfg.Name != "test-svc" {
		t.Errorf("app = %+v", app)
	}
	if app.gracefulTimeout != 3*time.Second {
		t.Errorf("gracefulTimeout = %v", app.gracefulTimeout)
	}
	if !app.Container.Has(di.Names.Config) || !app.Container.Has(di.Names.Logger) {
		t.Error("config and logger should be registered")
	}

	if _, err := NewApp(&testConfig{ServiceConfig: config.ServiceConfig{Environment: "development"}}); err == nil {
		t.Error("expected error for missing name")
	}

	unversioned := newTestConfig("build-svc")
	unversioned.Version = ""
	if got := newTestApp(t, unversioned).Version; got != version.String() {
		t.Errorf("Version = %q, want build version %q", got, version.String())
	}
}

func TestInstallMessagesPrecedence(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		app := newTestApp(t, newTestConfig("svc"))
		if err := app.InstallMessages(); err != nil {
			t.Fatal(err)
		}
		if app.MessagesSource() != MessagesFromDefaults {
			t.Errorf("source = %q", app.MessagesSource())
		}
		if got := result.CurrentMessages().SuccessMessage(); got != result.DefaultSuccessMessage {
			t.Errorf("success message = %q", got)
		}
	})

	t.Run("config", func(t *testing.T) {
		cfg := newTestConfig("svc")
		cfg.Messages = config.MessagesConfig{Success: "Saved.", ErrorFormat: "Oops: {detail}"}
		app := newTestApp(t, cfg)
		if err := app.InstallMessages(); err != nil {
			t.Fatal(err)
		}
		if app.MessagesSource() != MessagesFromConfig {
			t.Errorf("source = %q", app.MessagesSource())
		}
		if r := result.Success(1); r.Message() != "Saved." {
			t.Errorf("message = %q", r.Message())
		}
		if got := result.CurrentMessages().ErrorMessage("disk full"); got != "Oops: disk full" {
			t.Errorf("error message = %q", got)
		}
	})

	t.Run("container wins over config", func(t *testing.T) {
		cfg := newTestConfig("svc")
		cfg.Messages = config.MessagesConfig{Success: "Saved."}
		app := newTestApp(t, cfg, WithMessages(result.StaticMessages{Success: "Done."}))
		if err := app.InstallMessages(); err != nil {
			t.Fatal(err)
		}
		if app.MessagesSource() != MessagesFromContainer {
			t.Errorf("source = %q", app.MessagesSource())
		}
		if r := result.Success(1); r.Message() != "Done." {
			t.Errorf("message = %q", r.Message())
		}
	})

	t.Run("wrong type is rejected", func(t *testing.T) {
		app := newTestApp(t, newTestConfig("svc"))
		_ = app.Container.RegisterSingleton(di.Names.Messages, "not a provider")
		if err := app.InstallMessages(); err == nil {
			t.Error("expected error")
		}
	})
}

func TestRunTaskLifecycle(t *testing.T) {
	app := newTestApp(t, newTestConfig("svc"))
	c := &mockComponent{name: "db", health: component.Health{Name: "db", Status: component.StatusHealthy}}
	if err := app.RegisterComponent(c); err != nil {
		t.Fatal(err)
	}
	if err := app.RegisterComponent(&mockComponent{name: "db"}); err == nil {
		t.Error("duplicate component should be rejected")
	}

	var order []string
	hook := func(name string) Hook {
		return func(context.Context) error { order = append(order, name); return nil }
	}
	app.OnStart(hook("start"))
	app.OnConfigure(func(context.Context, *App[*testConfig]) error { order = append(order, "configure"); return nil })
	app.OnReady(hook("ready"))
	app.OnStop(hook("stop"))

	err := app.RunTask(context.Background(), func(context.Context) error {
		order = append(order, "task")
		if !c.started {
			t.Error("component should be started before the task")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("RunTask: %v", err)
	}
	if got := strings.Join(order, ","); got != "start,configure,ready,task,stop" {
		t.Errorf("order = %s", got)
	}
	if !c.stopped {
		t.Error("component should be stopped")
	}
}

func TestRunTaskErrors(t *testing.T) {
	tests := []struct {
		name  string
		setup func(app *App[*testConfig])
		task  func(context.Context) error
		want  string
	}{
		{
			name: "task error",
			task: func(context.Context) error { return fmt.Errorf("task exploded") },
			want: "task exploded",
		},
		{
			name: "component start error",
			setup: func(app *App[*testConfig]) {
				_ = app.RegisterComponent(&mockComponent{name: "db", startErr: fmt.Errorf("connection refused")})
			},
			want: "connection refused",
		},
		{
			name: "start hook error",
			setup: func(app *App[*testConfig]) {
				app.OnStart(func(context.Context) error { return fmt.Errorf("hook failed") })
			},
			want: "onStart hook failed",
		},
		{
			name: "configure error",
			setup: func(app *App[*testConfig]) {
				app.OnConfigure(func(context.Context, *App[*testConfig]) error { return fmt.Errorf("bad wiring") })
			},
			want: "configuration failed",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(t, newTestConfig("svc"))
			if tt.setup != nil {
				tt.setup(app)
			}
			task := tt.task
			if task == nil {
				task = func(context.Context) error { return nil }
			}
			err := app.RunTask(context.Background(), task)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestReadyCheck(t *testing.T) {
	app := newTestApp(t, newTestConfig("svc"))
	if err := app.ReadyCheck(context.Background()); err != nil {
		t.Errorf("empty registry should be ready: %v", err)
	}
	_ = app.RegisterComponent(&mockComponent{name: "cache", health: component.Health{Name: "cache", Status: component.StatusDegraded}})
	if err := app.ReadyCheck(context.Background()); err != nil {
		t.Errorf("degraded should not fail the ready check: %v", err)
	}
	_ = app.RegisterComponent(&mockComponent{name: "db", health: component.Health{Name: "db", Status: component.StatusUnhealthy, Message: "no route"}})
	err := app.ReadyCheck(context.Background())
	if err == nil || !strings.Contains(err.Error(), "db is unhealthy: no route") {
		t.Errorf("err = %v", err)
	}
}

func TestWaitForSignalContextCancellation(t *testing.T) {
	app := newTestApp(t, newTestConfig("svc"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if sig := app.WaitForSignal(ctx); sig != nil {
		t.Errorf("expected nil signal, got %v", sig)
	}
}

func testAppConfig(t *testing.T) *AppConfig {
	cfg := &AppConfig{}
	cfg.Name = "resultd-test"
	cfg.Environment = "development"
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = testutil.FreePort(t)
	cfg.Database.DSN = testutil.MemoryDSN("bootstrap")
	cfg.Auth.Secret = "test-secret"
	cfg.Auth.BcryptCost = 4
	cfg.Events.Stream = true
	return cfg
}

func TestNewService(t *testing.T) {
	t.Cleanup(result.ResetMessages)
	cfg := testAppConfig(t)
	cfg.Server.Metrics.Enabled = true
	cfg.Server.Compression.Enabled = true
	svc, err := NewService(cfg, WithLogger(logger.Nop()))
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	for _, key := range []string{di.Names.Database, di.Names.Events, di.Names.Tokens, di.Names.Passwords, di.Names.Metrics, di.Names.HTTPServer} {
		if !svc.Container.Has(key) {
			t.Errorf("%s not registered", key)
		}
	}
	pub, err := di.ResolveAs[events.Publisher](svc.Container, di.Names.Events)
	if err != nil {
		t.Fatal(err)
	}

	received := make(chan events.Event, 1)
	if _, err := svc.Bus.Subscribe("user.*", func(_ context.Context, e events.Event) error {
		received <- e
		return nil
	}); err != nil {
		t.Fatal(err)
	}

	err = svc.RunTask(context.Background(), func(ctx context.Context) error {
		if svc.DB() == nil {
			return fmt.Errorf("database not started")
		}

		events.Emit(ctx, pub, events.Options{Name: "user.created"}, "CreateUser", nil, result.Success("u-1"))
		select {
		case e := <-received:
			if e.Operation != "CreateUser" {
				return fmt.Errorf("operation = %q", e.Operation)
			}
		case <-time.After(time.Second):
			return fmt.Errorf("bus did not receive the event")
		}

		resp, err := http.Get("http://" + svc.Server.Addr() + "/health")
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("health status = %d", resp.StatusCode)
		}
		var body map[string]any
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return err
		}
		if body["success"] != true {
			return fmt.Errorf("health body = %v", body)
		}

		vresp, err := http.Get("http://" + svc.Server.Addr() + "/version")
		if err != nil {
			return err
		}
		defer vresp.Body.Close()
		if vresp.StatusCode != http.StatusOK {
			return fmt.Errorf("version status = %d", vresp.StatusCode)
		}

		mresp, err := http.Get("http://" + svc.Server.Addr() + "/metrics")
		if err != nil {
			return err
		}
		defer mresp.Body.Close()
		if mresp.StatusCode != http.StatusOK {
			return fmt.Errorf("metrics status = %d", mresp.StatusCode)
		}
		if svc.Server.Registry() == nil {
			return fmt.Errorf("metrics registry missing")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("RunTask: %v", err)
	}
	if svc.DB() != nil && svc.DB().PingContext(context.Background()) == nil {
		t.Error("database should be closed after shutdown")
	}
}

func TestAppConfigValidation(t *testing.T) {
	cfg := testAppConfig(t)
	cfg.Auth.Secret = ""
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "auth.secret") {
		t.Errorf("err = %v", err)
	}

	cfg = testAppConfig(t)
	cfg.Observability.SampleRate = 2
	if _, err := NewService(cfg, WithLogger(logger.Nop())); err == nil {
		t.Error("invalid sample rate should fail")
	}
}
