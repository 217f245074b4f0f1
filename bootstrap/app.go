package bootstrap

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kbukum/resultkit/component"
	"github.com/kbukum/resultkit/di"
	"github.com/kbukum/resultkit/logger"
	"github.com/kbukum/resultkit/result"
	"github.com/kbukum/resultkit/version"
)

// Message provider sources, in order of precedence.
const (
	MessagesFromContainer = "container"
	MessagesFromConfig    = "config"
	MessagesFromDefaults  = "default"
)

// App represents an application with uniform lifecycle management.
// The type parameter C is the config type; any struct embedding
// config.ServiceConfig satisfies Config.
//
//	app, err := bootstrap.NewApp(cfg)
//	app.OnConfigure(func(ctx context.Context, a *bootstrap.App[*MyConfig]) error {
//	    return nil
//	})
//	app.Run(context.Background())
type App[C Config] struct {
	Name       string
	Version    string
	Cfg        C
	Container  di.Container
	Components *component.Registry
	Logger     *logger.Logger

	gracefulTimeout time.Duration
	messagesSource  string
	onConfigure     []func(ctx context.Context, app *App[C]) error

	onStart []Hook
	onReady []Hook
	onStop  []Hook
}

// NewApp creates an application from a typed config. It applies defaults,
// validates the config and initializes the logger.
func NewApp[C Config](cfg C, opts ...Option) (*App[C], error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	base := cfg.GetServiceConfig()
	o := resolveOptions(opts)

	app := &App[C]{
		Name:            base.Name,
		Version:         base.Version,
		Cfg:             cfg,
		Container:       di.NewContainer(),
		gracefulTimeout: 15 * time.Second,
	}
	if app.Version == "" {
		app.Version = version.String()
	}
	if o.container != nil {
		app.Container = o.container
	}
	if o.gracefulTimeout != nil {
		app.gracefulTimeout = *o.gracefulTimeout
	}

	if o.logger != nil {
		app.Logger = o.logger
	} else {
		logger.Init(base.Logging)
		app.Logger = logger.GetGlobalLogger()
	}
	app.Components = component.NewRegistry(app.Logger)

	if o.messages != nil {
		if err := app.Container.RegisterSingleton(di.Names.Messages, o.messages); err != nil {
			return nil, fmt.Errorf("register messages: %w", err)
		}
	}
	if err := app.Container.RegisterSingleton(di.Names.Config, cfg); err != nil {
		return nil, fmt.Errorf("register config: %w", err)
	}
	if err := app.Container.RegisterSingleton(di.Names.Logger, app.Logger); err != nil {
		return nil, fmt.Errorf("register logger: %w", err)
	}
	return app, nil
}

// RegisterComponent adds a component to the application's registry.
func (a *App[C]) RegisterComponent(c component.Component) error {
	return a.Components.Register(c)
}

// OnConfigure registers a callback for the configure phase, which runs
// after infrastructure components have started.
func (a *App[C]) OnConfigure(fn func(ctx context.Context, app *App[C]) error) {
	a.onConfigure = append(a.onConfigure, fn)
}

// MessagesSource reports where the active result messages came from once
// the app has started.
func (a *App[C]) MessagesSource() string {
	return a.messagesSource
}

// InstallMessages selects the process-wide result message provider: a
// provider registered in the container wins, then configured texts, then
// the built-in defaults. It runs at the start of Run and RunTask.
func (a *App[C]) InstallMessages() error {
	var (
		m      result.Messages
		source string
	)
	if provided, ok := di.TryResolve[result.Messages](a.Container, di.Names.Messages); ok && provided != nil {
		m, source = provided, MessagesFromContainer
	} else if a.Container.Has(di.Names.Messages) {
		return fmt.Errorf("%s is registered but does not implement result.Messages", di.Names.Messages)
	} else if mc := a.Cfg.GetServiceConfig().Messages; mc.IsSet() {
		m, source = mc.Provider(), MessagesFromConfig
	} else {
		m, source = result.DefaultMessages{}, MessagesFromDefaults
	}

	if err := result.SetMessages(m); err != nil {
		return fmt.Errorf("install result messages: %w", err)
	}
	a.messagesSource = source
	a.Logger.Info("Result messages configured", logger.Fields(
		"source", source,
		"success_message", m.SuccessMessage(),
	))
	return nil
}

// ReadyCheck verifies that all registered components are healthy.
func (a *App[C]) ReadyCheck(ctx context.Context) error {
	r := a.Components.Check(ctx)
	if r.IsFailure() {
		return fmt.Errorf("unhealthy components: %s", r.Message())
	}
	return nil
}

// Run executes the full lifecycle for long-running services:
// messages, components, OnStart hooks, configure, ready check, OnReady
// hooks, then block on a signal and shut down gracefully.
func (a *App[C]) Run(ctx context.Context) error {
	if err := a.startup(ctx); err != nil {
		return err
	}

	a.Logger.Info("Application ready, waiting for shutdown signal")
	a.WaitForSignal(ctx)

	return a.stop()
}

// RunTask executes a finite task with the full bootstrap lifecycle and
// shuts down when the task returns or a signal cancels it.
func (a *App[C]) RunTask(ctx context.Context, task func(ctx context.Context) error) error {
	if err := a.startup(ctx); err != nil {
		return err
	}

	taskCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case sig := <-sigCh:
			a.Logger.Info("Received signal, canceling task", logger.Fields("signal", sig.String()))
			cancel()
		case <-taskCtx.Done():
		}
	}()

	taskErr := task(taskCtx)

	if stopErr := a.stop(); stopErr != nil {
		if taskErr != nil {
			return taskErr
		}
		return stopErr
	}
	return taskErr
}

func (a *App[C]) startup(ctx context.Context) error {
	start := time.Now()

	a.Logger.Info("Starting application", logger.Fields(
		"name", a.Name,
		"version", a.Version,
	))

	if err := a.InstallMessages(); err != nil {
		return err
	}

	a.Logger.Info("Phase 1: Starting components")
	if err := a.Components.StartAll(ctx); err != nil {
		return fmt.Errorf("initialization failed: failed to start components: %w", err)
	}

	if err := runHooks(ctx, a.onStart); err != nil {
		return fmt.Errorf("onStart hook failed: %w", err)
	}

	if err := a.configure(ctx); err != nil {
		return fmt.Errorf("configuration failed: %w", err)
	}

	if err := a.ReadyCheck(ctx); err != nil {
		a.Logger.Warn("Ready check reported issues", logger.ErrorFields("ready_check", err))
	}

	if err := runHooks(ctx, a.onReady); err != nil {
		return fmt.Errorf("onReady hook failed: %w", err)
	}

	logSummary(ctx, a.Logger, a.Name, a.Version, a.Components, a.Container, time.Since(start))
	return nil
}

func (a *App[C]) configure(ctx context.Context) error {
	if len(a.onConfigure) == 0 {
		return nil
	}
	a.Logger.Info("Phase 2: Running configuration callbacks", logger.Fields("count", len(a.onConfigure)))
	for _, fn := range a.onConfigure {
		if err := fn(ctx, a); err != nil {
			return err
		}
	}
	return nil
}

// WaitForSignal blocks until SIGINT/SIGTERM or ctx cancellation.
func (a *App[C]) WaitForSignal(ctx context.Context) os.Signal {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		a.Logger.Info("Received shutdown signal", logger.Fields("signal", sig.String()))
		return sig
	case <-ctx.Done():
		a.Logger.Info("Context canceled, shutting down")
		return nil
	}
}

// Shutdown performs graceful shutdown. Use when managing your own lifecycle.
func (a *App[C]) Shutdown(ctx context.Context) error {
	return a.stop()
}

func (a *App[C]) stop() error {
	a.Logger.Info("Shutting down application", logger.Fields("timeout", a.gracefulTimeout.String()))

	ctx, cancel := context.WithTimeout(context.Background(), a.gracefulTimeout)
	defer cancel()

	var shutdownErr error
	if err := runHooks(ctx, a.onStop); err != nil {
		a.Logger.Error("OnStop hook error", logger.ErrorFields("on_stop", err))
		shutdownErr = err
	}

	if err := a.Components.StopAll(ctx); err != nil {
		a.Logger.Error("Shutdown completed with errors", logger.ErrorFields("stop_components", err))
		shutdownErr = err
	}

	if err := a.Container.Close(); err != nil {
		a.Logger.Error("DI container close error", logger.ErrorFields("close_container", err))
		if shutdownErr == nil {
			shutdownErr = err
		}
	}

	a.Logger.Info("Application shutdown complete")
	return shutdownErr
}
