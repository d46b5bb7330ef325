// Package observe provides observability primitives for health check runs.
//
// It is a pure instrumentation library: no check execution, no transport, no
// I/O beyond exporter setup. The health package wraps every probe run with a
// Middleware built from an Observer, producing one span, one set of metric
// points and one structured log line per executed check.
//
// # Telemetry
//
// Spans are named health.check.<name> and carry check.name, check.tags,
// check.timeout_ms and check.status attributes. Metrics are:
//
//   - health.check.total      counter, every executed check
//   - health.check.unhealthy  counter, checks that resolved unhealthy
//   - health.check.duration_ms histogram, probe wall-clock time
//
// # Usage
//
//	obs, err := observe.NewObserver(ctx, observe.Config{
//	    ServiceName: "orders-api",
//	    Tracing:     observe.TracingConfig{Enabled: true, Exporter: "otlp", SamplePct: 0.1},
//	    Metrics:     observe.MetricsConfig{Enabled: true, Exporter: "prometheus"},
//	    Logging:     observe.LoggingConfig{Enabled: true, Level: "info"},
//	})
//	if err != nil {
//	    return err
//	}
//	defer obs.Shutdown(ctx)
//
//	agg, err := health.NewAggregator(health.Config{Observer: obs})
package observe
