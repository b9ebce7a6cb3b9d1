package infrastructure

import (
	"context"
	"runtime"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// RuntimeMetrics snapshots Go runtime figures once per run
type RuntimeMetrics struct {
	goRoutines    metric.Int64Gauge
	heapAllocated metric.Int64Gauge
	memorySystem  metric.Int64Gauge
	gcCount       metric.Int64Gauge
	runDuration   metric.Float64Gauge
}

// RuntimeStats is one snapshot of the process
type RuntimeStats struct {
	GoRoutines    int64
	HeapAllocated int64
	MemorySystem  int64
	GCCount       int64
	RunDuration   time.Duration
}

// NewRuntimeMetrics creates the runtime gauges on meter
func NewRuntimeMetrics(meter metric.Meter) (*RuntimeMetrics, error) {
	goRoutines, err := meter.Int64Gauge(
		"fxstory_goroutines",
		metric.WithDescription("Number of goroutines at the end of the run"),
	)
	if err != nil {
		return nil, err
	}

	heapAllocated, err := meter.Int64Gauge(
		"fxstory_heap_allocated_bytes",
		metric.WithDescription("Heap bytes allocated at the end of the run"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	memorySystem, err := meter.Int64Gauge(
		"fxstory_memory_system_bytes",
		metric.WithDescription("Memory obtained from the OS in bytes"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	gcCount, err := meter.Int64Gauge(
		"fxstory_gc_cycles",
		metric.WithDescription("Completed garbage collection cycles"),
	)
	if err != nil {
		return nil, err
	}

	runDuration, err := meter.Float64Gauge(
		"fxstory_run_duration_seconds",
		metric.WithDescription("Wall time of the run"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &RuntimeMetrics{
		goRoutines:    goRoutines,
		heapAllocated: heapAllocated,
		memorySystem:  memorySystem,
		gcCount:       gcCount,
		runDuration:   runDuration,
	}, nil
}

// Collect reads the runtime state and records it.
func (rm *RuntimeMetrics) Collect(ctx context.Context, startTime time.Time) *RuntimeStats {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	stats := &RuntimeStats{
		GoRoutines:    int64(runtime.NumGoroutine()),
		HeapAllocated: int64(memStats.HeapAlloc),
		MemorySystem:  int64(memStats.Sys),
		GCCount:       int64(memStats.NumGC),
		RunDuration:   time.Since(startTime),
	}

	rm.goRoutines.Record(ctx, stats.GoRoutines)
	rm.heapAllocated.Record(ctx, stats.HeapAllocated)
	rm.memorySystem.Record(ctx, stats.MemorySystem)
	rm.gcCount.Record(ctx, stats.GCCount)
	rm.runDuration.Record(ctx, stats.RunDuration.Seconds())

	return stats
}
