package health

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/jonwraymond/healthkit/observe"
)

// Registration is the immutable record binding a name to a probe.
type Registration struct {
	name        string
	key         string
	tags        []string
	timeout     time.Duration
	description string
	metadata    map[string]any
	probe       Checker
	index       int
}

// Name returns the registered check name.
func (r *Registration) Name() string { return r.name }

// Tags returns a copy of the check's tags, or nil when it has none.
func (r *Registration) Tags() []string { return slices.Clone(r.tags) }

// Timeout returns the per-check timeout, zero when none is configured.
func (r *Registration) Timeout() time.Duration { return r.timeout }

func (r *Registration) meta() observe.CheckMeta {
	return observe.CheckMeta{Name: r.name, Tags: r.tags, Timeout: r.timeout}
}

// CheckOption configures a single registration.
type CheckOption func(*Registration)

// WithTags labels the check for include/exclude filtering.
func WithTags(tags ...string) CheckOption {
	return func(r *Registration) {
		r.tags = append(r.tags, tags...)
	}
}

// WithTimeout bounds the probe's run time. The derived deadline is linked to
// the caller's context; it never extends it.
func WithTimeout(d time.Duration) CheckOption {
	return func(r *Registration) {
		r.timeout = d
	}
}

// WithDescription sets the description reported when the probe returns none.
func WithDescription(description string) CheckOption {
	return func(r *Registration) {
		r.description = description
	}
}

// WithMetadata attaches static data to every entry of this check. Probe
// details win on key collisions.
func WithMetadata(metadata map[string]any) CheckOption {
	return func(r *Registration) {
		r.metadata = copyData(metadata)
	}
}

// AddCheck registers probe under name.
//
// It fails with ErrInvalidArgument for an empty name or a nil probe, and with
// ErrDuplicateName when a check with the same name (ignoring case) exists.
// A failed registration leaves previously registered checks untouched.
// Registration must complete before checks are run concurrently.
func (a *Aggregator) AddCheck(name string, probe Checker, opts ...CheckOption) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: check name is required", ErrInvalidArgument)
	}
	if isNilChecker(probe) {
		return fmt.Errorf("%w: probe for check %q is nil", ErrInvalidArgument, name)
	}

	reg := &Registration{
		name:  name,
		key:   strings.ToLower(name),
		probe: probe,
	}
	for _, opt := range opts {
		opt(reg)
	}
	if reg.timeout < 0 {
		return fmt.Errorf("%w: negative timeout for check %q", ErrInvalidArgument, name)
	}
	reg.tags = canonicalTags(reg.tags)

	a.mu.Lock()
	defer a.mu.Unlock()

	if existing, ok := a.byKey[reg.key]; ok {
		return fmt.Errorf("%w: %q conflicts with %q", ErrDuplicateName, name, existing.name)
	}
	reg.index = len(a.checks)
	a.checks = append(a.checks, reg)
	a.byKey[reg.key] = reg
	return nil
}

// MustAddCheck is like AddCheck but panics on error. It returns the
// aggregator so registrations can be chained.
func (a *Aggregator) MustAddCheck(name string, probe Checker, opts ...CheckOption) *Aggregator {
	if err := a.AddCheck(name, probe, opts...); err != nil {
		panic(err)
	}
	return a
}

// CheckNames returns the registered check names in registration order.
func (a *Aggregator) CheckNames() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()

	names := make([]string, len(a.checks))
	for i, reg := range a.checks {
		names[i] = reg.name
	}
	return names
}

// Registration returns the registration for name, ignoring case.
func (a *Aggregator) Registration(name string) (*Registration, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	reg, ok := a.byKey[strings.ToLower(name)]
	return reg, ok
}

// selectChecks returns the registrations passing f, in registration order.
func (a *Aggregator) selectChecks(f Filter) []*Registration {
	include, exclude := f.sets()

	a.mu.RLock()
	defer a.mu.RUnlock()

	selected := make([]*Registration, 0, len(a.checks))
	for _, reg := range a.checks {
		if ShouldRun(reg.tags, include, exclude) {
			selected = append(selected, reg)
		}
	}
	return selected
}

// selectNamed returns the single registration called name, or nothing.
func (a *Aggregator) selectNamed(name string) []*Registration {
	if reg, ok := a.Registration(name); ok {
		return []*Registration{reg}
	}
	return nil
}

// canonicalTags drops empty and repeated tags, returning nil when none remain.
func canonicalTags(tags []string) []string {
	var out []string
	for _, tag := range tags {
		if tag == "" || slices.Contains(out, tag) {
			continue
		}
		out = append(out, tag)
	}
	return out
}
