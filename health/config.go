package health

import (
	"fmt"
	"net/http"

	"github.com/jonwraymond/healthkit/observe"
)

// NotFoundCode is the result code reported when no check was selected.
const NotFoundCode = http.StatusNotFound

// ResultCodes maps overall statuses to transport result codes.
// Zero fields take their defaults.
type ResultCodes struct {
	// Healthy is reported for StatusHealthy.
	// Default: 200
	Healthy int

	// Degraded is reported for StatusDegraded.
	// Default: 200
	Degraded int

	// Unhealthy is reported for StatusUnhealthy.
	// Default: 503
	Unhealthy int
}

// DefaultResultCodes returns the default status to result code mapping.
func DefaultResultCodes() ResultCodes {
	return ResultCodes{
		Healthy:   http.StatusOK,
		Degraded:  http.StatusOK,
		Unhealthy: http.StatusServiceUnavailable,
	}
}

func (c ResultCodes) withDefaults() ResultCodes {
	def := DefaultResultCodes()
	if c.Healthy == 0 {
		c.Healthy = def.Healthy
	}
	if c.Degraded == 0 {
		c.Degraded = def.Degraded
	}
	if c.Unhealthy == 0 {
		c.Unhealthy = def.Unhealthy
	}
	return c
}

// For returns the result code for status. StatusUnknown always maps to
// NotFoundCode.
func (c ResultCodes) For(status Status) int {
	c = c.withDefaults()
	switch status {
	case StatusHealthy:
		return c.Healthy
	case StatusDegraded:
		return c.Degraded
	case StatusUnhealthy:
		return c.Unhealthy
	default:
		return NotFoundCode
	}
}

// Config configures an Aggregator. It is copied at construction and cannot
// be changed afterwards.
type Config struct {
	// ResultCodes maps the overall status to Report.ResultCode.
	// Default: 200 / 200 / 503
	ResultCodes ResultCodes

	// IncludeErrors adds the error text of failed checks to report entries.
	// Default: false
	IncludeErrors bool

	// IncludeStackTrace reports full error detail (error type, wrapped chain
	// and panic stacks) instead of the summary message. Only meaningful
	// together with IncludeErrors.
	// Default: false
	IncludeStackTrace bool

	// TrackDuration records per-check and total durations in reports.
	// Default: false
	TrackDuration bool

	// Data is global metadata attached to every report. It is deep-copied.
	Data map[string]any

	// MaxConcurrency bounds how many probes the detailed strategy runs at
	// once. Zero means unbounded.
	// Default: 0
	MaxConcurrency int

	// Observer receives a span, metric points and a log line per probe run.
	// Default: nil (no telemetry)
	Observer observe.Observer
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.MaxConcurrency < 0 {
		return fmt.Errorf("%w: max concurrency must not be negative, got %d", ErrInvalidConfig, c.MaxConcurrency)
	}

	codes := []struct {
		name string
		code int
	}{
		{"healthy", c.ResultCodes.Healthy},
		{"degraded", c.ResultCodes.Degraded},
		{"unhealthy", c.ResultCodes.Unhealthy},
	}
	for _, rc := range codes {
		if rc.code != 0 && (rc.code < 100 || rc.code > 599) {
			return fmt.Errorf("%w: %s result code %d out of range", ErrInvalidConfig, rc.name, rc.code)
		}
	}

	return nil
}
