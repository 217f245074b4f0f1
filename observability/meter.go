package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/resultkit/logger"
)

// Metric names.
const (
	MetricResultsTotal   = "results_total"
	MetricResultDuration = "result_duration_seconds"
	AttrOperation        = "operation"
	AttrSuccess          = "success"
	AttrErrorKind        = "error_kind"
	errorKindNone        = "none"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	// Endpoint is the OTLP HTTP endpoint host:port.
	Endpoint string
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// DefaultMeterConfig returns defaults for development.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: "1.0.0",
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter installs a global meter provider exporting over OTLP/HTTP.
// The caller must Shutdown the returned provider on exit.
func InitMeter(ctx context.Context, cfg MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(ctx, cfg.ServiceName, cfg.ServiceVersion, cfg.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	var readerOpts []sdkmetric.PeriodicReaderOption
	if cfg.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(cfg.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"service", cfg.ServiceName,
		"endpoint", cfg.Endpoint,
		"interval", cfg.Interval.String(),
	))
	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// ResultMetrics counts operation outcomes by kind.
type ResultMetrics struct {
	total    metric.Int64Counter
	duration metric.Float64Histogram
}

// NewResultMetrics creates the instruments on meter. A nil meter uses the
// global provider.
func NewResultMetrics(meter metric.Meter) (*ResultMetrics, error) {
	if meter == nil {
		meter = Meter(instrumentationName)
	}
	total, err := meter.Int64Counter(MetricResultsTotal,
		metric.WithDescription("Operation results by outcome and error kind"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricResultsTotal, err)
	}
	duration, err := meter.Float64Histogram(MetricResultDuration,
		metric.WithDescription("Duration of result-returning operations"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s histogram: %w", MetricResultDuration, err)
	}
	return &ResultMetrics{total: total, duration: duration}, nil
}

// Record increments results_total for one outcome.
func (m *ResultMetrics) Record(ctx context.Context, operation string, o Outcome) {
	if m == nil {
		return
	}
	m.total.Add(ctx, 1, metric.WithAttributes(outcomeAttrs(operation, o)...))
}

// RecordDuration records the outcome and how long it took.
func (m *ResultMetrics) RecordDuration(ctx context.Context, operation string, o Outcome, d time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(outcomeAttrs(operation, o)...)
	m.total.Add(ctx, 1, attrs)
	m.duration.Record(ctx, d.Seconds(), attrs)
}

func outcomeAttrs(operation string, o Outcome) []attribute.KeyValue {
	kind := errorKindNone
	if err := o.Err(); err != nil {
		kind = err.Kind().String()
	}
	return []attribute.KeyValue{
		attribute.String(AttrOperation, operation),
		attribute.Bool(AttrSuccess, o.IsSuccess()),
		attribute.String(AttrErrorKind, kind),
	}
}
