package exporter

import (
	"fmt"
	"log/slog"

	"fxstory/internal/frame"
)

// SeriesExporter writes tables and summaries as CSV reports.
type SeriesExporter struct {
	csvWriter *CSVWriter
}

// NewSeriesExporter creates a series exporter on top of w.
func NewSeriesExporter(w *CSVWriter) *SeriesExporter {
	return &SeriesExporter{csvWriter: w}
}

// ExportSeries writes every row of t to <name>.csv. Undefined floats are
// written as empty cells.
func (e *SeriesExporter) ExportSeries(name string, t *frame.Table) (string, error) {
	stream, err := e.csvWriter.CreateStreamWriter(name+".csv", t.Names())
	if err != nil {
		return "", err
	}
	for i, record := range t.Records() {
		if err := stream.WriteRecord(record); err != nil {
			stream.Close()
			return "", fmt.Errorf("write %s row %d: %w", name, i, err)
		}
	}
	if err := stream.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", name, err)
	}

	e.csvWriter.logger.Info("Series exported",
		slog.String("series", name),
		slog.String("path", stream.Path()),
		slog.Int("rows", stream.Rows()))
	return stream.Path(), nil
}

// ExportSummaries writes summaries to <name>.csv in the given order.
func (e *SeriesExporter) ExportSummaries(name string, summaries []PeriodSummary) (string, error) {
	records := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		records = append(records, summaryToCSVRow(s))
	}
	path, err := e.csvWriter.WriteSimpleCSV(name+".csv", summaryHeaders, records)
	if err != nil {
		return "", fmt.Errorf("export summaries %s: %w", name, err)
	}
	e.csvWriter.logger.Info("Summaries exported",
		slog.String("name", name),
		slog.String("path", path),
		slog.Int("periods", len(summaries)))
	return path, nil
}
