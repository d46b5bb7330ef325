package health

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonwraymond/healthkit/observe"
)

// Check runs every check selected by f concurrently and returns a detailed
// report whose entries follow registration order.
//
// Probe failures, panics and per-check timeouts become Unhealthy entries.
// If ctx is cancelled before the run completes, Check returns ctx.Err() and
// no report.
func (a *Aggregator) Check(ctx context.Context, f Filter) (*Report, error) {
	return a.runDetailed(ctx, a.selectChecks(f))
}

// CheckNamed runs the single check called name (ignoring case). An unknown
// name yields an Unknown report with NotFoundCode.
func (a *Aggregator) CheckNamed(ctx context.Context, name string) (*Report, error) {
	return a.runDetailed(ctx, a.selectNamed(name))
}

// CheckSimple runs the checks selected by f one at a time in registration
// order and returns only the overall status. It stops at the first Unhealthy
// check; Degraded checks do not stop the run.
func (a *Aggregator) CheckSimple(ctx context.Context, f Filter) (Status, error) {
	return a.runSimple(ctx, a.selectChecks(f))
}

// CheckSimpleNamed is CheckSimple for the single check called name.
func (a *Aggregator) CheckSimpleNamed(ctx context.Context, name string) (Status, error) {
	return a.runSimple(ctx, a.selectNamed(name))
}

type indexedEntry struct {
	index int
	entry Entry
}

func (a *Aggregator) runDetailed(ctx context.Context, checks []*Registration) (*Report, error) {
	if len(checks) == 0 {
		return a.newReport(StatusUnknown, nil, nil), nil
	}

	start := time.Now()

	var (
		mu        sync.Mutex
		collected = make([]indexedEntry, 0, len(checks))
	)

	g, gctx := errgroup.WithContext(ctx)
	if a.config.MaxConcurrency > 0 {
		g.SetLimit(a.config.MaxConcurrency)
	}

	for _, reg := range checks {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			run, err := a.execute(gctx, reg, start)
			if err != nil {
				return err
			}
			entry := a.buildEntry(reg, run)

			mu.Lock()
			collected = append(collected, indexedEntry{index: reg.index, entry: entry})
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		a.logger.Warn(ctx, "health run abandoned", observe.Field{Key: "error", Value: err.Error()})
		return nil, err
	}
	// A cancellation racing the last probe still abandons the run.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Completion order is arbitrary; registration order is the only order.
	slices.SortFunc(collected, func(x, y indexedEntry) int { return x.index - y.index })
	entries := make([]Entry, len(collected))
	for i, c := range collected {
		entries[i] = c.entry
	}

	var total *float64
	if a.config.TrackDuration {
		total = millis(time.Since(start))
	}

	report := a.newReport(OverallStatus(entries), entries, total)
	a.logger.Debug(ctx, "health run completed",
		observe.Field{Key: "status", Value: report.Status.String()},
		observe.Field{Key: "checks", Value: len(entries)},
	)
	return report, nil
}

func (a *Aggregator) runSimple(ctx context.Context, checks []*Registration) (Status, error) {
	if len(checks) == 0 {
		return StatusUnknown, nil
	}

	start := time.Now()
	worst := StatusHealthy

	for _, reg := range checks {
		if err := ctx.Err(); err != nil {
			return StatusUnknown, err
		}

		run, err := a.execute(ctx, reg, start)
		if err != nil {
			return StatusUnknown, err
		}

		switch run.status() {
		case StatusUnhealthy:
			return StatusUnhealthy, nil
		case StatusDegraded:
			worst = StatusDegraded
		}
	}

	return worst, nil
}

func (a *Aggregator) newReport(status Status, entries []Entry, total *float64) *Report {
	if entries == nil {
		entries = []Entry{}
	}
	return &Report{
		Status:          status,
		Checks:          entries,
		TotalDurationMs: total,
		Timestamp:       time.Now().UTC(),
		Data:            copyData(a.config.Data),
		ResultCode:      a.codes.For(status),
	}
}

// probeRun is what the engine learned from one probe invocation.
type probeRun struct {
	result   Result
	fault    error // panic, invalid status or timeout; nil for a normal return
	timedOut bool
	elapsed  time.Duration
}

func (r probeRun) status() Status {
	if r.fault != nil {
		return StatusUnhealthy
	}
	return r.result.Status
}

func (r probeRun) outcome() observe.Outcome {
	status := r.status()
	err := r.fault
	if err == nil {
		err = r.result.Error
	}
	return observe.Outcome{
		Status:   status.String(),
		Failed:   status == StatusUnhealthy,
		Degraded: status == StatusDegraded,
		Err:      err,
	}
}

// execute runs one probe under the telemetry middleware. The returned error is
// non-nil only when ctx itself was cancelled.
func (a *Aggregator) execute(ctx context.Context, reg *Registration, start time.Time) (probeRun, error) {
	var (
		run       probeRun
		cancelErr error
	)

	a.mw.Wrap(func(ctx context.Context, _ observe.CheckMeta) observe.Outcome {
		run, cancelErr = runProbe(ctx, reg, start)
		if cancelErr != nil {
			return observe.Outcome{Status: StatusUnknown.String(), Cancelled: true, Err: cancelErr}
		}
		return run.outcome()
	})(ctx, reg.meta())

	return run, cancelErr
}

type probeReturn struct {
	result Result
	panic  error
}

// runProbe invokes reg's probe under a context carrying the per-check
// deadline. Elapsed time is measured against the run's shared start.
func runProbe(ctx context.Context, reg *Registration, start time.Time) (probeRun, error) {
	before := time.Since(start)

	checkCtx, cancel := ctx, context.CancelFunc(func() {})
	if reg.timeout > 0 {
		checkCtx, cancel = context.WithTimeoutCause(ctx, reg.timeout, ErrCheckTimeout)
	}
	defer cancel()

	done := make(chan probeReturn, 1)

	go func() {
		defer func() {
			if v := recover(); v != nil {
				done <- probeReturn{panic: &PanicError{Value: v, Stack: debug.Stack()}}
			}
		}()
		done <- probeReturn{result: reg.probe.Check(checkCtx)}
	}()

	ret, abandoned := awaitProbe(done, checkCtx.Done())

	run := probeRun{elapsed: time.Since(start) - before}

	if err := ctx.Err(); err != nil {
		return run, err
	}

	timedOut := reg.timeout > 0 && errors.Is(context.Cause(checkCtx), ErrCheckTimeout)
	switch {
	case abandoned || (timedOut && (ret.panic != nil || isCancellation(ret.result.Error))):
		run.timedOut = true
		run.fault = ErrCheckTimeout
	case ret.panic != nil:
		run.fault = ret.panic
	case !ret.result.Status.valid() || ret.result.Status == StatusUnknown:
		run.fault = invalidStatusFault(ret.result)
		run.result = ret.result
	default:
		run.result = ret.result
	}
	return run, nil
}

// awaitProbe waits for the probe or for expiry. A result that is already
// available when expiry fires still wins.
func awaitProbe(done <-chan probeReturn, expired <-chan struct{}) (probeReturn, bool) {
	select {
	case ret := <-done:
		return ret, false
	case <-expired:
	}
	select {
	case ret := <-done:
		return ret, false
	default:
		return probeReturn{}, true
	}
}

func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, ErrCheckTimeout)
}

func invalidStatusFault(r Result) error {
	if r.Error != nil {
		return fmt.Errorf("%w: %w", ErrCheckFailed, r.Error)
	}
	return fmt.Errorf("%w: probe reported status %s", ErrCheckFailed, r.Status)
}

// buildEntry maps a probe run to its report entry.
func (a *Aggregator) buildEntry(reg *Registration, run probeRun) Entry {
	entry := Entry{
		Name: reg.name,
		Tags: slices.Clone(reg.tags),
	}

	var reported error
	switch {
	case run.timedOut:
		entry.Status = StatusUnhealthy
		entry.Description = fmt.Sprintf("check timed out after %s", reg.timeout)
		reported = ErrCheckTimeout
	case run.fault != nil:
		entry.Status = StatusUnhealthy
		entry.Description = describe(run.result.Message, reg.description, run.fault.Error())
		entry.Data = mergeData(reg.metadata, run.result.Details)
		reported = run.fault
	default:
		entry.Status = run.result.Status
		entry.Description = describe(run.result.Message, reg.description, "")
		entry.Data = mergeData(reg.metadata, run.result.Details)
		reported = run.result.Error
	}

	if a.config.IncludeErrors && reported != nil {
		entry.Error = formatError(reported, a.config.IncludeStackTrace && !run.timedOut)
	}
	if a.config.TrackDuration {
		entry.DurationMs = millis(run.elapsed)
	}
	return entry
}

func describe(candidates ...string) string {
	for _, c := range candidates {
		if c != "" {
			return c
		}
	}
	return ""
}

// formatError renders err as its message, or with full detail: the error
// type, every wrapped layer and, for panics, the goroutine stack.
func formatError(err error, full bool) string {
	if !full {
		return err.Error()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%T: %s", err, err.Error())
	for inner := errors.Unwrap(err); inner != nil; inner = errors.Unwrap(inner) {
		fmt.Fprintf(&b, "\n  caused by %T: %s", inner, inner.Error())
	}

	var pe *PanicError
	if errors.As(err, &pe) && len(pe.Stack) > 0 {
		b.WriteString("\n")
		b.Write(pe.Stack)
	}
	return b.String()
}
