package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"fxstory/internal/config"
	apperrors "fxstory/internal/errors"
	"fxstory/internal/frame"
)

// DailySheet names the sheet holding the daily series.
const DailySheet = "Daily"

const rateFormat = "0.0000"

// SummarySheet is one worksheet of period summaries.
type SummarySheet struct {
	Name      string
	Summaries []PeriodSummary
}

// WorkbookExporter writes XLSX reports.
type WorkbookExporter struct {
	paths  *config.Paths
	logger *slog.Logger
}

// NewWorkbookExporter creates a workbook exporter writing into the reports directory.
func NewWorkbookExporter(paths *config.Paths, logger *slog.Logger) *WorkbookExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkbookExporter{
		paths:  paths,
		logger: logger.With(slog.String("component", "workbook")),
	}
}

type workbookStyles struct {
	header int
	rate   int
}

// Export writes one sheet per summary set followed by the daily sheet when
// daily is not nil. It returns the path written.
func (w *WorkbookExporter) Export(ctx context.Context, filename string, sheets []SummarySheet, daily *frame.Table) (string, error) {
	if len(sheets) == 0 && daily == nil {
		return "", apperrors.NewAppValidationError("workbook has no sheets")
	}
	seen := make(map[string]bool, len(sheets))
	for _, sheet := range sheets {
		if seen[sheet.Name] || sheet.Name == DailySheet {
			return "", apperrors.NewAppValidationError(fmt.Sprintf("duplicate sheet %q", sheet.Name))
		}
		seen[sheet.Name] = true
	}

	f := excelize.NewFile()
	defer f.Close()

	styles, err := newWorkbookStyles(f)
	if err != nil {
		return "", apperrors.NewStorageError("create workbook styles", err)
	}

	first := f.GetSheetName(0)
	for i, sheet := range sheets {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if i == 0 {
			err = f.SetSheetName(first, sheet.Name)
		} else {
			_, err = f.NewSheet(sheet.Name)
		}
		if err != nil {
			return "", apperrors.NewStorageError(fmt.Sprintf("create sheet %q", sheet.Name), err)
		}
		if err := writeSummarySheet(f, sheet, styles); err != nil {
			return "", apperrors.NewStorageError(fmt.Sprintf("write sheet %q", sheet.Name), err)
		}
	}

	if daily != nil {
		if len(sheets) == 0 {
			err = f.SetSheetName(first, DailySheet)
		} else {
			_, err = f.NewSheet(DailySheet)
		}
		if err != nil {
			return "", apperrors.NewStorageError("create daily sheet", err)
		}
		if err := writeDailySheet(f, daily, styles); err != nil {
			return "", apperrors.NewStorageError("write daily sheet", err)
		}
	}
	f.SetActiveSheet(0)

	path := filename
	if !filepath.IsAbs(path) && w.paths != nil {
		path = w.paths.GetReportPath(filename)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", apperrors.NewStorageError("create report directory", err)
	}
	if err := f.SaveAs(path); err != nil {
		return "", apperrors.NewStorageError("save workbook", err)
	}

	w.logger.InfoContext(ctx, "Workbook exported",
		slog.String("path", path),
		slog.Int("summary_sheets", len(sheets)),
		slog.Bool("daily", daily != nil))
	return path, nil
}

func newWorkbookStyles(f *excelize.File) (workbookStyles, error) {
	var s workbookStyles
	var err error

	s.header, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#F0F0F0"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#4D4D4D"}},
	})
	if err != nil {
		return s, err
	}

	format := rateFormat
	s.rate, err = f.NewStyle(&excelize.Style{CustomNumFmt: &format})
	return s, err
}

func writeHeader(f *excelize.File, sheet string, headers []string, style int) error {
	row := make([]interface{}, len(headers))
	for i, h := range headers {
		row[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &row); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
		return err
	}
	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func writeSummarySheet(f *excelize.File, sheet SummarySheet, styles workbookStyles) error {
	if err := writeHeader(f, sheet.Name, summaryHeaders, styles.header); err != nil {
		return err
	}
	for i, s := range sheet.Summaries {
		row := []interface{}{
			s.Series, s.Period, s.Label,
			formatDate(s.Start), formatDate(s.End),
			formatDate(s.FirstDate), formatDate(s.LastDate),
			s.Observations,
			cellValue(s.Mean), cellValue(s.Min), cellValue(s.Max),
			cellValue(s.First), cellValue(s.Last),
			cellValue(s.Change()), cellValue(s.ChangePercent()),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet.Name, cell, &row); err != nil {
			return err
		}
	}
	if len(sheet.Summaries) > 0 {
		last, err := excelize.CoordinatesToCellName(len(summaryHeaders), len(sheet.Summaries)+1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet.Name, "I2", last, styles.rate); err != nil {
			return err
		}
	}
	return f.SetColWidth(sheet.Name, "A", "O", 14)
}

// writeDailySheet streams the table, dates and text as strings and floats as numbers.
func writeDailySheet(f *excelize.File, t *frame.Table, styles workbookStyles) error {
	names := t.Names()
	columns := make([]*frame.Column, len(names))
	for i, name := range names {
		c, err := t.Column(name)
		if err != nil {
			return err
		}
		columns[i] = c
	}

	sw, err := f.NewStreamWriter(DailySheet)
	if err != nil {
		return err
	}
	header := make([]interface{}, len(names))
	for i, name := range names {
		header[i] = name
	}
	if err := sw.SetRow("A1", header, excelize.RowOpts{StyleID: styles.header}); err != nil {
		return err
	}

	floats := make([]frame.Series, len(columns))
	for i, c := range columns {
		if c.Kind() == frame.KindFloat {
			floats[i], _ = c.Floats()
		}
	}

	for r := 0; r < t.Len(); r++ {
		row := make([]interface{}, len(columns))
		for i, c := range columns {
			if floats[i] != nil {
				row[i] = cellValue(floats[i][r])
				continue
			}
			row[i] = c.Format(r)
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, row); err != nil {
			return err
		}
	}
	return sw.Flush()
}

// cellValue leaves undefined values as empty cells.
func cellValue(v frame.NullFloat) interface{} {
	if !v.Valid {
		return nil
	}
	return v.Float64
}
