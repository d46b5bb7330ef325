package health

import "context"

// Result contains the outcome of a single probe run.
type Result struct {
	// Status is the health status. Probes must report Healthy, Degraded or
	// Unhealthy; anything else is treated as a probe fault.
	Status Status

	// Message is an optional human-readable description.
	Message string

	// Details contains arbitrary data about the check. It is deep-copied into
	// the report, so the probe may reuse or mutate the map afterwards.
	Details map[string]any

	// Error is the raw error behind the status, if any.
	Error error
}

// Healthy creates a healthy result.
func Healthy(message string) Result {
	return Result{Status: StatusHealthy, Message: message}
}

// Degraded creates a degraded result.
func Degraded(message string) Result {
	return Result{Status: StatusDegraded, Message: message}
}

// Unhealthy creates an unhealthy result.
func Unhealthy(message string, err error) Result {
	return Result{Status: StatusUnhealthy, Message: message, Error: err}
}

// WithDetails adds details to a result.
func (r Result) WithDetails(details map[string]any) Result {
	r.Details = details
	return r
}

// Checker is the canonical probe shape every registered check is normalised to.
//
// Contract:
//   - Context: Check should return promptly once ctx is done. The engine stops
//     waiting at the deadline regardless, so a probe that ignores ctx only
//     leaks its own goroutine until it returns.
//   - Concurrency: a Checker may be invoked concurrently by overlapping runs.
type Checker interface {
	Check(ctx context.Context) Result
}

// CheckFunc adapts a cancellable closure to the Checker interface.
type CheckFunc func(ctx context.Context) Result

// Check calls f(ctx).
func (f CheckFunc) Check(ctx context.Context) Result {
	return f(ctx)
}

// StatusFunc adapts a closure that cannot observe cancellation.
type StatusFunc func() Result

// Check calls f and ignores ctx.
func (f StatusFunc) Check(context.Context) Result {
	return f()
}

// PingFunc adapts a function that only reports reachability: a nil error is
// Healthy and a non-nil error is Unhealthy carrying that error.
type PingFunc func(ctx context.Context) error

// Check calls f(ctx) and maps its error to a Result.
func (f PingFunc) Check(ctx context.Context) Result {
	if err := f(ctx); err != nil {
		return Unhealthy(err.Error(), err)
	}
	return Healthy("")
}

// isNilChecker catches both a nil interface and nil function adapters.
func isNilChecker(c Checker) bool {
	switch f := c.(type) {
	case nil:
		return true
	case CheckFunc:
		return f == nil
	case StatusFunc:
		return f == nil
	case PingFunc:
		return f == nil
	}
	return false
}
