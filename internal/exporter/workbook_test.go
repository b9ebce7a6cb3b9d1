package exporter

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"fxstory/internal/config"
	apperrors "fxstory/internal/errors"
	"fxstory/internal/shared/testutil"
)

func TestWorkbookExporter_Export(t *testing.T) {
	dir := t.TempDir()
	logger, handler := testutil.NewTestLogger(t)
	e := NewWorkbookExporter(&config.Paths{ReportsDir: dir}, logger)

	tbl := rateTable(t)
	summaries, err := Summarize("euro_dollar", tbl, "Time", "US_dollar", testPeriods)
	require.NoError(t, err)

	path, err := e.Export(context.Background(), "fxstory.xlsx",
		[]SummarySheet{{Name: "US", Summaries: summaries}, {Name: "BR"}}, tbl)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "fxstory.xlsx"), path)
	assert.True(t, handler.ContainsMessage("Workbook exported"))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"US", "BR", DailySheet}, f.GetSheetList())

	rows, err := f.GetRows("US")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, summaryHeaders, rows[0])
	assert.Equal(t, "BUSH", rows[1][1])
	assert.Equal(t, "2", rows[1][7])

	rows, err = f.GetRows("BR")
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	rows, err = f.GetRows(DailySheet)
	require.NoError(t, err)
	require.Len(t, rows, 6)
	assert.Equal(t, []string{"Time", "US_dollar"}, rows[0])
	assert.Equal(t, "2008-12-30", rows[1][0])
	assert.Equal(t, "1.4", rows[1][1])
	assert.Len(t, rows[4], 1, "undefined value leaves the cell empty")
}

func TestWorkbookExporter_DailyOnly(t *testing.T) {
	dir := t.TempDir()
	e := NewWorkbookExporter(&config.Paths{ReportsDir: dir}, nil)

	path, err := e.Export(context.Background(), "daily.xlsx", nil, rateTable(t))
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{DailySheet}, f.GetSheetList())
}

func TestWorkbookExporter_Errors(t *testing.T) {
	e := NewWorkbookExporter(&config.Paths{ReportsDir: t.TempDir()}, nil)

	_, err := e.Export(context.Background(), "empty.xlsx", nil, nil)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrTypeValidation, apperrors.TypeOf(err))

	_, err = e.Export(context.Background(), "dup.xlsx",
		[]SummarySheet{{Name: "US"}, {Name: "US"}}, nil)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrTypeValidation, apperrors.TypeOf(err))

	_, err = e.Export(context.Background(), "bad.xlsx",
		[]SummarySheet{{Name: "US"}, {Name: "US/BR"}}, nil)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrTypeStorage, apperrors.TypeOf(err))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = e.Export(ctx, "cancelled.xlsx", []SummarySheet{{Name: "US"}}, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
