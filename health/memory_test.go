package health

import (
	"context"
	"runtime"
	"testing"
)

func fakeStats(alloc, sys uint64) func(*runtime.MemStats) {
	return func(s *runtime.MemStats) {
		s.Alloc = alloc
		s.Sys = sys
	}
}

func TestNewMemoryChecker(t *testing.T) {
	checker := NewMemoryChecker(MemoryCheckerConfig{})

	if checker.Config().WarningThreshold != 0.8 {
		t.Errorf("WarningThreshold = %v, want 0.8", checker.Config().WarningThreshold)
	}
	if checker.Config().CriticalThreshold != 0.95 {
		t.Errorf("CriticalThreshold = %v, want 0.95", checker.Config().CriticalThreshold)
	}
}

func TestNewMemoryChecker_InvalidThresholds(t *testing.T) {
	checker := NewMemoryChecker(MemoryCheckerConfig{WarningThreshold: 1.5, CriticalThreshold: -1})
	if checker.Config().WarningThreshold != 0.8 || checker.Config().CriticalThreshold != 0.95 {
		t.Errorf("invalid thresholds should default, got %+v", checker.Config())
	}

	inverted := NewMemoryChecker(MemoryCheckerConfig{WarningThreshold: 0.9, CriticalThreshold: 0.5})
	if inverted.Config().CriticalThreshold < inverted.Config().WarningThreshold {
		t.Errorf("critical threshold should not be below warning, got %+v", inverted.Config())
	}
}

func TestMemoryChecker_Check(t *testing.T) {
	tests := []struct {
		name  string
		alloc uint64
		want  Status
	}{
		{"normal", 10, StatusHealthy},
		{"warning", 85, StatusDegraded},
		{"critical", 97, StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := NewMemoryChecker(MemoryCheckerConfig{MaxAlloc: 100})
			checker.readStat = fakeStats(tt.alloc, 1000)

			result := checker.Check(context.Background())
			if result.Status != tt.want {
				t.Errorf("Status = %v, want %v (%s)", result.Status, tt.want, result.Message)
			}
			if result.Details["budget_bytes"] != uint64(100) {
				t.Errorf("budget_bytes = %v, want 100", result.Details["budget_bytes"])
			}
		})
	}
}

func TestMemoryChecker_BudgetFromSys(t *testing.T) {
	checker := NewMemoryChecker(MemoryCheckerConfig{})
	checker.readStat = fakeStats(50, 100)

	result := checker.Check(context.Background())
	if result.Status != StatusHealthy {
		t.Errorf("Status = %v, want Healthy", result.Status)
	}
	if result.Details["usage_percent"] != 50.0 {
		t.Errorf("usage_percent = %v, want 50", result.Details["usage_percent"])
	}
}

func TestMemoryChecker_NoStats(t *testing.T) {
	checker := NewMemoryChecker(MemoryCheckerConfig{})
	checker.readStat = fakeStats(0, 0)

	result := checker.Check(context.Background())
	if result.Status != StatusHealthy || result.Message != "memory stats unavailable" {
		t.Errorf("result = %+v", result)
	}
}

func TestMemoryChecker_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := NewMemoryChecker(MemoryCheckerConfig{}).Check(ctx)
	if result.Status != StatusUnhealthy {
		t.Errorf("Status = %v, want Unhealthy", result.Status)
	}
}

func TestMemoryChecker_Registered(t *testing.T) {
	agg := newTestAggregator(t).MustAddCheck("memory", NewMemoryChecker(MemoryCheckerConfig{}), WithTags("runtime"))

	report, err := agg.Check(context.Background(), Filter{Include: []string{"runtime"}})
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	e := report.Checks[0]
	if _, ok := e.Data["goroutines"]; !ok {
		t.Errorf("memory details should reach the report: %v", e.Data)
	}
}
