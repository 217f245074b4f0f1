package bootstrap

import (
	"context"
	"errors"
	"fmt"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/kbukum/resultkit/component"
	"github.com/kbukum/resultkit/events"
	"github.com/kbukum/resultkit/observability"
	"github.com/kbukum/resultkit/resilience"
)

// telemetry installs the OTLP tracer and meter providers on Start and
// flushes them on Stop. Disabled telemetry leaves the no-op globals.
type telemetry struct {
	cfg     observability.Config
	service string
	version string
	env     string

	tp *sdktrace.TracerProvider
	mp *sdkmetric.MeterProvider
}

var _ component.Component = (*telemetry)(nil)

func (t *telemetry) Name() string { return "telemetry" }

func (t *telemetry) Start(ctx context.Context) error {
	if !t.cfg.Enabled {
		return nil
	}
	tp, err := observability.InitTracer(ctx, t.cfg.TracerConfig(t.service, t.version, t.env))
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	mp, err := observability.InitMeter(ctx, t.cfg.MeterConfig(t.service, t.version, t.env))
	if err != nil {
		_ = tp.Shutdown(ctx)
		return fmt.Errorf("telemetry: %w", err)
	}
	t.tp, t.mp = tp, mp
	return nil
}

func (t *telemetry) Stop(ctx context.Context) error {
	var errs []error
	if t.mp != nil {
		errs = append(errs, t.mp.Shutdown(ctx))
	}
	if t.tp != nil {
		errs = append(errs, t.tp.Shutdown(ctx))
	}
	return errors.Join(errs...)
}

func (t *telemetry) Health(context.Context) component.Health {
	h := component.Health{Name: t.Name(), Status: component.StatusHealthy}
	if !t.cfg.Enabled {
		h.Message = "disabled"
	} else {
		h.Message = "exporting to " + t.cfg.Endpoint
	}
	return h
}

// kafkaComponent ties the Kafka publisher's lifetime to the registry and
// reports an open circuit as degraded.
type kafkaComponent struct {
	pub *events.KafkaPublisher
}

var _ component.Component = (*kafkaComponent)(nil)

func (k *kafkaComponent) Name() string                { return "kafka-publisher" }
func (k *kafkaComponent) Start(context.Context) error { return nil }
func (k *kafkaComponent) Stop(context.Context) error  { return k.pub.Close() }

func (k *kafkaComponent) Health(context.Context) component.Health {
	state := k.pub.CircuitState()
	h := component.Health{Name: k.Name(), Status: component.StatusHealthy, Message: "circuit " + state.String()}
	if state != resilience.StateClosed {
		h.Status = component.StatusDegraded
	}
	return h
}
