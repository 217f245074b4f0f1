// Package observability provides OpenTelemetry tracing and metrics for
// result-returning operations.
//
// Setup:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("my-service"))
//	defer tp.Shutdown(ctx)
//	mp, err := observability.InitMeter(ctx, observability.DefaultMeterConfig("my-service"))
//	defer mp.Shutdown(ctx)
//
// Per operation:
//
//	metrics, _ := observability.NewResultMetrics(nil)
//	r := observability.Observe(ctx, metrics, "users.create", func(ctx context.Context) result.Result[User] {
//	    return svc.Create(ctx, req)
//	})
//
// Spans carry result.success and, for failures, error.kind with error
// status. The results_total counter is labelled by operation, success and
// error_kind.
package observability
