package frame

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "fxstory/internal/errors"
	"fxstory/internal/shared/testutil"
)

const sampleCSV = `Period\Unit:,[US dollar ],[Brazilian real ]
2021-01-08,1.2250,6.6074
2021-01-07,1.2276,-
2021-01-06,1.2338,6.5736
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoader_ReadFile(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)
	path := writeFile(t, "rates.csv", sampleCSV)

	table := NewLoader(logger).ReadFile(context.Background(), path)
	require.NotNil(t, table)

	assert.Equal(t, 3, table.Len())
	assert.Equal(t, 3, table.Width())
	assert.Equal(t, []string{`Period\Unit:`, "[US dollar ]", "[Brazilian real ]"}, table.Names())
	testutil.AssertNoErrors(t, handler)
	testutil.AssertLogContains(t, handler, slog.LevelInfo, "File read")
}

func TestLoader_ReadFile_PreservesOrderAndSentinel(t *testing.T) {
	path := writeFile(t, "rates.csv", sampleCSV)

	table := NewLoader(nil).ReadFile(context.Background(), path)
	require.NotNil(t, table)

	dates, err := table.Column(`Period\Unit:`)
	require.NoError(t, err)
	texts, err := dates.Texts()
	require.NoError(t, err)
	assert.Equal(t, []string{"2021-01-08", "2021-01-07", "2021-01-06"}, texts)

	brl, err := table.Column("[Brazilian real ]")
	require.NoError(t, err)
	assert.Equal(t, KindText, brl.Kind())
	assert.Equal(t, "-", brl.Format(1))
}

func TestLoader_ReadFile_Missing(t *testing.T) {
	tests := []struct {
		name string
		path func(t *testing.T) string
	}{
		{
			name: "nonexistent path",
			path: func(t *testing.T) string { return filepath.Join(t.TempDir(), "euro-daily-hist_1999_202.csv") },
		},
		{
			name: "directory",
			path: func(t *testing.T) string { return t.TempDir() },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, handler := testutil.NewTestLogger(t)

			var table *Table
			assert.NotPanics(t, func() {
				table = NewLoader(logger).ReadFile(context.Background(), tt.path(t))
			})
			assert.Nil(t, table)

			diagnostics := handler.GetRecordsWithAttr("error_kind", string(apperrors.ErrTypeFileNotFound))
			require.Len(t, diagnostics, 1)
			assert.Equal(t, slog.LevelError, diagnostics[0].Level)
			assert.Equal(t, 1, handler.Count())
		})
	}
}

func TestLoader_ReadFile_Malformed(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)
	path := writeFile(t, "ragged.csv", "a,b\n1,2\n3\n")

	table := NewLoader(logger).ReadFile(context.Background(), path)

	assert.Nil(t, table)
	assert.Len(t, handler.GetRecordsWithAttr("error_kind", string(apperrors.ErrTypeParsing)), 1)
	assert.Empty(t, handler.GetRecordsWithAttr("error_kind", string(apperrors.ErrTypeFileNotFound)))
}

func TestLoader_WithComma(t *testing.T) {
	path := writeFile(t, "rates.tsv", "Time\tUS_dollar\n2021-01-08\t1.2250\n")

	table := NewLoader(nil).WithComma('\t').ReadFile(context.Background(), path)
	require.NotNil(t, table)
	assert.Equal(t, []string{"Time", "US_dollar"}, table.Names())
}

func TestRead(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantErr  bool
		wantRows int
		wantCols int
	}{
		{name: "header only", input: "Time,US_dollar\n", wantRows: 0, wantCols: 2},
		{name: "byte order mark", input: "\ufeffTime,US_dollar\n2021-01-08,1.2250\n", wantRows: 1, wantCols: 2},
		{name: "empty input", input: "", wantErr: true},
		{name: "duplicate header", input: "a,a\n1,2\n", wantErr: true},
		{name: "ragged row", input: "a,b\n1\n", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := Read(strings.NewReader(tt.input))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantRows, table.Len())
			assert.Equal(t, tt.wantCols, table.Width())
			assert.Equal(t, "Time", table.Names()[0])
		})
	}
}

func TestReadFile_HeaderNormalization(t *testing.T) {
	path := writeFile(t, "rates.csv", "Period\\Unit:,[US dollar ]\n2021-01-08,1.2250\n2021-01-07,1.2276\n2021-01-06,1.2338\n")

	table := NewLoader(nil).ReadFile(context.Background(), path)
	require.NotNil(t, table)

	FormatColumns(table, DefaultRenameMap())
	FormatColumns(table, RenameMap{{Match: `Period\Unit:`, Replace: "Time"}})

	assert.Equal(t, []string{"Time", "US_dollar"}, table.Names())
	assert.Equal(t, 3, table.Len())
}
