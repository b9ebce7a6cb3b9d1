// Package exporter writes the report files of a run.
//
// CSVWriter is the low-level writer: headers, streaming and a UTF-8 BOM so
// spreadsheet tools detect the encoding. SeriesExporter writes the cleaned
// daily series and per-administration summaries as CSV. WorkbookExporter
// writes the same summaries as an XLSX workbook, one sheet per story plus a
// sheet with the daily series.
//
// Example usage:
//
//	writer := exporter.NewCSVWriter(paths, logger)
//	series := exporter.NewSeriesExporter(writer)
//	path, err := series.ExportSeries("euro_dollar", table)
//
//	summaries, err := exporter.Summarize("euro_dollar", table, "Time", "US_dollar", periods)
//	book := exporter.NewWorkbookExporter(paths, logger)
//	path, err = book.Export(ctx, "fxstory.xlsx", []exporter.SummarySheet{{Name: "US", Summaries: summaries}}, table)
package exporter
