package health

import (
	"fmt"
	"strings"
)

// Status represents the health status of a check or of a whole report.
type Status int

const (
	// StatusUnknown means no check was executed. It is never produced by
	// aggregating a non-empty set of results.
	StatusUnknown Status = iota
	// StatusUnhealthy indicates the component is not functioning properly.
	StatusUnhealthy
	// StatusDegraded indicates the component is functioning but with issues.
	StatusDegraded
	// StatusHealthy indicates the component is functioning normally.
	StatusHealthy
)

var statusNames = [...]string{
	StatusUnknown:   "Unknown",
	StatusUnhealthy: "Unhealthy",
	StatusDegraded:  "Degraded",
	StatusHealthy:   "Healthy",
}

// String returns the name of the status. It doubles as the bare status-only
// serialization for callers that do not want a JSON document.
func (s Status) String() string {
	if s.valid() {
		return statusNames[s]
	}
	return statusNames[StatusUnknown]
}

func (s Status) valid() bool {
	return s >= StatusUnknown && s <= StatusHealthy
}

// IsOK reports whether the status belongs to the ok family (Healthy or Degraded).
func (s Status) IsOK() bool {
	return s == StatusHealthy || s == StatusDegraded
}

// ParseStatus parses a status name, ignoring case.
func ParseStatus(name string) (Status, error) {
	for i, n := range statusNames {
		if strings.EqualFold(n, name) {
			return Status(i), nil
		}
	}
	return StatusUnknown, fmt.Errorf("%w: unknown status %q", ErrInvalidArgument, name)
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
