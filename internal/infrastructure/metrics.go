package infrastructure

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// PipelineMetrics holds the counters and histograms of a story run
type PipelineMetrics struct {
	RowsLoaded          metric.Int64Counter
	SentinelRowsDropped metric.Int64Counter
	ChartsRendered      metric.Int64Counter
	ReportsWritten      metric.Int64Counter
	StepsTotal          metric.Int64Counter
	StepDuration        metric.Float64Histogram
	StepErrors          metric.Int64Counter
}

// CreatePipelineMetrics creates the run's instruments on meter
func CreatePipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	rowsLoaded, err := meter.Int64Counter(
		"fxstory_rows_loaded_total",
		metric.WithDescription("Rows read from the rate history file"),
	)
	if err != nil {
		return nil, err
	}

	sentinelRowsDropped, err := meter.Int64Counter(
		"fxstory_sentinel_rows_dropped_total",
		metric.WithDescription("Rows dropped because the rate was missing"),
	)
	if err != nil {
		return nil, err
	}

	chartsRendered, err := meter.Int64Counter(
		"fxstory_charts_rendered_total",
		metric.WithDescription("Chart files written"),
	)
	if err != nil {
		return nil, err
	}

	reportsWritten, err := meter.Int64Counter(
		"fxstory_reports_written_total",
		metric.WithDescription("Report files written"),
	)
	if err != nil {
		return nil, err
	}

	stepsTotal, err := meter.Int64Counter(
		"fxstory_steps_total",
		metric.WithDescription("Pipeline steps executed"),
	)
	if err != nil {
		return nil, err
	}

	stepDuration, err := meter.Float64Histogram(
		"fxstory_step_duration_seconds",
		metric.WithDescription("Pipeline step duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	stepErrors, err := meter.Int64Counter(
		"fxstory_step_errors_total",
		metric.WithDescription("Pipeline steps that failed"),
	)
	if err != nil {
		return nil, err
	}

	return &PipelineMetrics{
		RowsLoaded:          rowsLoaded,
		SentinelRowsDropped: sentinelRowsDropped,
		ChartsRendered:      chartsRendered,
		ReportsWritten:      reportsWritten,
		StepsTotal:          stepsTotal,
		StepDuration:        stepDuration,
		StepErrors:          stepErrors,
	}, nil
}

// RecordStepMetrics records one step execution
func RecordStepMetrics(ctx context.Context, metrics *PipelineMetrics, stepID string, duration time.Duration, err error) {
	if metrics == nil {
		return
	}

	attrs := []attribute.KeyValue{attribute.String("step.id", stepID)}
	metrics.StepsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))

	status := "success"
	if err != nil {
		status = "failure"
		errorAttrs := append(attrs, attribute.String("error.type", fmt.Sprintf("%T", err)))
		metrics.StepErrors.Add(ctx, 1, metric.WithAttributes(errorAttrs...))
	}
	durationAttrs := append(attrs, attribute.String("status", status))
	metrics.StepDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(durationAttrs...))
}

// RecordRows adds n to counter, labelled with the series it concerns.
func RecordRows(ctx context.Context, counter metric.Int64Counter, series string, n int) {
	if counter == nil || n <= 0 {
		return
	}
	counter.Add(ctx, int64(n), metric.WithAttributes(attribute.String("series", series)))
}
