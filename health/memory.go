package health

import (
	"context"
	"fmt"
	"runtime"
)

// MemoryCheckerConfig configures the memory health checker.
type MemoryCheckerConfig struct {
	// WarningThreshold is the fraction of MaxAlloc that reports Degraded.
	// Value should be between 0 and 1. Default: 0.8
	WarningThreshold float64

	// CriticalThreshold is the fraction of MaxAlloc that reports Unhealthy.
	// Value should be between 0 and 1. Default: 0.95
	CriticalThreshold float64

	// MaxAlloc is the heap allocation budget in bytes.
	// Default: 0 (use the memory obtained from the OS)
	MaxAlloc uint64
}

// MemoryChecker is a built-in probe reporting Go heap usage against a budget.
type MemoryChecker struct {
	config   MemoryCheckerConfig
	readStat func(*runtime.MemStats)
}

// NewMemoryChecker creates a new memory health checker.
func NewMemoryChecker(config MemoryCheckerConfig) *MemoryChecker {
	if config.WarningThreshold <= 0 || config.WarningThreshold >= 1 {
		config.WarningThreshold = 0.8
	}
	if config.CriticalThreshold <= 0 || config.CriticalThreshold >= 1 {
		config.CriticalThreshold = 0.95
	}
	if config.CriticalThreshold < config.WarningThreshold {
		config.CriticalThreshold = min(config.WarningThreshold+0.1, 0.99)
	}

	return &MemoryChecker{config: config, readStat: runtime.ReadMemStats}
}

// Config returns the effective configuration.
func (m *MemoryChecker) Config() MemoryCheckerConfig {
	return m.config
}

// Check performs the memory health check.
func (m *MemoryChecker) Check(ctx context.Context) Result {
	if err := ctx.Err(); err != nil {
		return Unhealthy("memory check cancelled", err)
	}

	var stats runtime.MemStats
	m.readStat(&stats)

	budget := m.config.MaxAlloc
	if budget == 0 {
		budget = stats.Sys
	}

	details := map[string]any{
		"alloc_bytes":    stats.Alloc,
		"heap_in_use":    stats.HeapInuse,
		"heap_objects":   stats.HeapObjects,
		"sys_bytes":      stats.Sys,
		"num_gc":         stats.NumGC,
		"gc_pause_total": stats.PauseTotalNs,
		"goroutines":     runtime.NumGoroutine(),
	}

	if budget == 0 {
		return Healthy("memory stats unavailable").WithDetails(details)
	}

	usage := float64(stats.Alloc) / float64(budget)
	details["budget_bytes"] = budget
	details["usage_percent"] = usage * 100

	switch {
	case usage >= m.config.CriticalThreshold:
		return Unhealthy(
			fmt.Sprintf("memory usage critical: %.1f%%", usage*100),
			ErrCheckFailed,
		).WithDetails(details)
	case usage >= m.config.WarningThreshold:
		return Degraded(fmt.Sprintf("memory usage high: %.1f%%", usage*100)).WithDetails(details)
	default:
		return Healthy(fmt.Sprintf("memory usage normal: %.1f%%", usage*100)).WithDetails(details)
	}
}

var _ Checker = (*MemoryChecker)(nil)
