// Package health runs named, tagged health checks and rolls their outcomes
// up into a single report.
//
// # Core Concepts
//
// A Checker is any component that can report its health status. Probes are
// registered on an Aggregator under a unique, case-insensitive name together
// with optional tags and a per-check timeout. Status is one of Healthy,
// Degraded or Unhealthy; Unknown is reserved for "nothing ran".
//
// Closures are adapted with CheckFunc (context aware), StatusFunc (ignores
// the context) and PingFunc (error only: nil is Healthy).
//
// # Basic Usage
//
//	agg, err := health.NewAggregator(health.Config{
//	    IncludeErrors: true,
//	    TrackDuration: true,
//	})
//	if err != nil {
//	    return err
//	}
//
//	agg.MustAddCheck("postgres", health.PingFunc(db.PingContext),
//	    health.WithTags("db", "critical"),
//	    health.WithTimeout(2*time.Second),
//	).MustAddCheck("memory", health.NewMemoryChecker(health.MemoryCheckerConfig{}))
//
//	report, err := agg.Check(ctx, health.Filter{Include: []string{"critical"}})
//	if err != nil {
//	    return err // ctx was cancelled
//	}
//	fmt.Println(report.Status, report.ResultCode)
//
// # Strategies
//
// Check runs the selected probes concurrently (bounded by
// Config.MaxConcurrency) and returns every entry in registration order.
// CheckSimple runs them one at a time and stops at the first Unhealthy
// probe, returning only the overall status.
//
// A probe that panics, exceeds its timeout or reports an invalid status is
// recorded as Unhealthy. Only cancellation of the caller's context surfaces
// as an error, in which case no report is produced.
//
// # Tag Filtering
//
// Untagged checks run only when no filter is given. An exclude match always
// wins; a non-empty include list acts as an allow-list.
//
// # Telemetry
//
// Set Config.Observer to trace, count and log every probe run through the
// observe package.
//
// # HTTP Endpoints
//
//	mux := http.NewServeMux()
//	health.RegisterHandlers(mux, agg) // /healthz, /readyz, /health, /health/{name}
package health
