package health

import (
	"context"
	"sync"

	"github.com/jonwraymond/healthkit/observe"
)

// Aggregator owns a set of registered checks and runs them on demand.
//
// Contract:
//   - Registration (AddCheck) happens before checks are run; registering
//     while a run is in progress is unsupported.
//   - Check and CheckSimple may be called concurrently with each other.
//   - Probe failures never escape as errors; only caller cancellation does.
type Aggregator struct {
	config Config
	codes  ResultCodes
	mw     *observe.Middleware
	logger observe.Logger

	mu     sync.RWMutex
	checks []*Registration
	byKey  map[string]*Registration
}

// NewAggregator creates an aggregator. At most one Config is used; omitted
// fields take their defaults.
func NewAggregator(config ...Config) (*Aggregator, error) {
	var cfg Config
	if len(config) > 0 {
		cfg = config[0]
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.Data = copyData(cfg.Data)

	mw := observe.NopMiddleware()
	if cfg.Observer != nil {
		var err error
		mw, err = observe.MiddlewareFromObserver(cfg.Observer)
		if err != nil {
			return nil, err
		}
	}

	return &Aggregator{
		config: cfg,
		codes:  cfg.ResultCodes.withDefaults(),
		mw:     mw,
		logger: mw.Logger(),
		byKey:  make(map[string]*Registration),
	}, nil
}

// ResultCodes returns the effective status to result code mapping.
func (a *Aggregator) ResultCodes() ResultCodes {
	return a.codes
}

// OverallStatus rolls entries up into one status: any Unhealthy entry wins,
// then any Degraded entry, otherwise Healthy. An empty slice is Unknown.
func OverallStatus(entries []Entry) Status {
	if len(entries) == 0 {
		return StatusUnknown
	}

	overall := StatusHealthy
	for _, e := range entries {
		switch e.Status {
		case StatusUnhealthy:
			return StatusUnhealthy
		case StatusDegraded:
			overall = StatusDegraded
		}
	}
	return overall
}

// Checker returns the aggregator as a single Checker running the checks
// selected by f, so aggregators can be nested.
func (a *Aggregator) Checker(f Filter) Checker {
	return CheckFunc(func(ctx context.Context) Result {
		report, err := a.Check(ctx, f)
		if err != nil {
			return Unhealthy("aggregate check cancelled", err)
		}

		details := make(map[string]any, len(report.Checks))
		for _, e := range report.Checks {
			d := map[string]any{"status": e.Status.String()}
			if e.Description != "" {
				d["description"] = e.Description
			}
			details[e.Name] = d
		}

		var message string
		switch report.Status {
		case StatusHealthy:
			message = "all checks passed"
		case StatusDegraded:
			message = "some checks degraded"
		case StatusUnhealthy:
			message = "some checks failed"
		default:
			// An empty nested selection should not make the parent unknown.
			return Healthy("no checks selected")
		}

		return Result{Status: report.Status, Message: message, Details: details}
	})
}
