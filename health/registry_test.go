package health

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func newTestAggregator(t testing.TB, config ...Config) *Aggregator {
	t.Helper()
	agg, err := NewAggregator(config...)
	if err != nil {
		t.Fatalf("NewAggregator() error = %v", err)
	}
	return agg
}

func healthyProbe(message string) Checker {
	return CheckFunc(func(context.Context) Result { return Healthy(message) })
}

func TestAggregator_AddCheck(t *testing.T) {
	agg := newTestAggregator(t)

	err := agg.AddCheck("db", healthyProbe("ok"),
		WithTags("storage", "critical", "storage", ""),
		WithTimeout(2*time.Second),
	)
	if err != nil {
		t.Fatalf("AddCheck() error = %v", err)
	}

	reg, ok := agg.Registration("DB")
	if !ok {
		t.Fatal("Registration() should find db ignoring case")
	}
	if reg.Name() != "db" {
		t.Errorf("Name() = %q, want db", reg.Name())
	}
	if tags := reg.Tags(); len(tags) != 2 || tags[0] != "storage" || tags[1] != "critical" {
		t.Errorf("Tags() = %v, want [storage critical]", tags)
	}
	if reg.Timeout() != 2*time.Second {
		t.Errorf("Timeout() = %v, want 2s", reg.Timeout())
	}
}

func TestAggregator_AddCheck_NoTags(t *testing.T) {
	agg := newTestAggregator(t)
	agg.MustAddCheck("plain", healthyProbe(""), WithTags())

	reg, _ := agg.Registration("plain")
	if reg.Tags() != nil {
		t.Errorf("Tags() = %v, want nil", reg.Tags())
	}
}

func TestAggregator_AddCheck_Invalid(t *testing.T) {
	var nilFunc CheckFunc

	tests := []struct {
		name    string
		check   string
		probe   Checker
		opts    []CheckOption
		wantErr error
	}{
		{"empty name", "", healthyProbe(""), nil, ErrInvalidArgument},
		{"blank name", "   ", healthyProbe(""), nil, ErrInvalidArgument},
		{"nil probe", "db", nil, nil, ErrInvalidArgument},
		{"nil func probe", "db", nilFunc, nil, ErrInvalidArgument},
		{"negative timeout", "db", healthyProbe(""), []CheckOption{WithTimeout(-time.Second)}, ErrInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agg := newTestAggregator(t)
			err := agg.AddCheck(tt.check, tt.probe, tt.opts...)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("AddCheck() error = %v, want %v", err, tt.wantErr)
			}
			if len(agg.CheckNames()) != 0 {
				t.Error("failed registration should not be stored")
			}
		})
	}
}

func TestAggregator_AddCheck_Duplicate(t *testing.T) {
	agg := newTestAggregator(t)
	agg.MustAddCheck("Database", healthyProbe("first"))

	err := agg.AddCheck("database", healthyProbe("second"))
	if !errors.Is(err, ErrDuplicateName) {
		t.Fatalf("AddCheck() error = %v, want ErrDuplicateName", err)
	}
	if !strings.Contains(err.Error(), `"database"`) {
		t.Errorf("error should name the offending check: %v", err)
	}

	names := agg.CheckNames()
	if len(names) != 1 || names[0] != "Database" {
		t.Errorf("CheckNames() = %v, want [Database]", names)
	}

	report, err := agg.Check(context.Background(), Filter{})
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if report.Checks[0].Description != "first" {
		t.Errorf("original registration should be kept, got %q", report.Checks[0].Description)
	}
}

func TestAggregator_MustAddCheck_Chaining(t *testing.T) {
	agg := newTestAggregator(t).
		MustAddCheck("a", healthyProbe("")).
		MustAddCheck("b", healthyProbe("")).
		MustAddCheck("c", healthyProbe(""))

	names := agg.CheckNames()
	want := []string{"a", "b", "c"}
	if len(names) != len(want) {
		t.Fatalf("CheckNames() = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("CheckNames() = %v, want %v", names, want)
		}
	}
}

func TestAggregator_MustAddCheck_Panics(t *testing.T) {
	agg := newTestAggregator(t)

	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("recover() = %v, want ErrInvalidArgument", r)
		}
	}()
	agg.MustAddCheck("", healthyProbe(""))
}

func TestAggregator_SelectChecks(t *testing.T) {
	agg := newTestAggregator(t).
		MustAddCheck("A", healthyProbe(""), WithTags("x")).
		MustAddCheck("B", healthyProbe(""), WithTags("y")).
		MustAddCheck("C", healthyProbe(""))

	names := func(regs []*Registration) []string {
		var out []string
		for _, r := range regs {
			out = append(out, r.Name())
		}
		return out
	}

	if got := names(agg.selectChecks(Filter{})); strings.Join(got, ",") != "A,B,C" {
		t.Errorf("no filter selected %v", got)
	}
	if got := names(agg.selectChecks(Filter{Include: []string{"x"}})); strings.Join(got, ",") != "A" {
		t.Errorf("include x selected %v", got)
	}
	if got := names(agg.selectChecks(Filter{Exclude: []string{"x"}})); strings.Join(got, ",") != "B" {
		t.Errorf("exclude x selected %v", got)
	}
	if got := agg.selectChecks(Filter{Include: []string{"y"}, Exclude: []string{"y"}}); len(got) != 0 {
		t.Errorf("include y exclude y selected %v", names(got))
	}
}

func TestWithMetadata_Copies(t *testing.T) {
	meta := map[string]any{"owner": "storage"}
	agg := newTestAggregator(t).MustAddCheck("db", healthyProbe(""), WithMetadata(meta))
	meta["owner"] = "changed"

	reg, _ := agg.Registration("db")
	if reg.metadata["owner"] != "storage" {
		t.Errorf("metadata = %v, should be copied at registration", reg.metadata)
	}
}
