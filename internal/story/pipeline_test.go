package story

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fxstory/internal/config"
	"fxstory/internal/frame"
	"fxstory/internal/operations"
	"fxstory/internal/shared/testutil"
)

type rateFixture struct {
	path          string
	rows          int
	dollarMissing int
	realMissing   int
	bothPresent   int
	firstDollar   float64
	firstReal     float64
}

func dollarMissing(i int) bool { return i%17 == 5 }
func realMissing(i int) bool   { return i%23 == 7 }

// writeRates writes a monthly ECB-style history, newest first like the
// published file.
func writeRates(t *testing.T, dir string) rateFixture {
	t.Helper()
	fx := rateFixture{path: filepath.Join(dir, "rates.csv")}

	var lines []string
	start := time.Date(1999, 1, 4, 0, 0, 0, 0, time.UTC)
	end := time.Date(2021, 1, 9, 0, 0, 0, 0, time.UTC)
	for i, d := 0, start; d.Before(end); i, d = i+1, d.AddDate(0, 0, 30) {
		dollar := 1.0 + 0.3*math.Sin(float64(i)/10)
		brl := 1.8 + float64(i)*0.018
		ds, rs := fmt.Sprintf("%.4f", dollar), fmt.Sprintf("%.4f", brl)
		if i == 0 {
			fx.firstDollar, fx.firstReal = dollar, brl
		}
		if dollarMissing(i) {
			ds = "-"
			fx.dollarMissing++
		}
		if realMissing(i) {
			rs = "-"
			fx.realMissing++
		}
		if !dollarMissing(i) && !realMissing(i) {
			fx.bothPresent++
		}
		lines = append(lines, fmt.Sprintf("%s,%s,%s,130.1", d.Format("2006-01-02"), ds, rs))
		fx.rows++
	}
	for i, j := 0, len(lines)-1; i < j; i, j = i+1, j-1 {
		lines[i], lines[j] = lines[j], lines[i]
	}

	content := "Period\\Unit:,[US dollar ],[Brazilian real ],[Japanese yen ]\n" + strings.Join(lines, "\n") + "\n"
	require.NoError(t, os.WriteFile(fx.path, []byte(content), 0644))
	return fx
}

type harness struct {
	cfg     *config.Config
	paths   *config.Paths
	runner  *operations.Runner[*State]
	handler *testutil.BufferedSlogHandler
}

func newHarness(t *testing.T, input string, mutate ...func(*config.Config)) *harness {
	t.Helper()
	dir := t.TempDir()

	cfg := config.Default()
	cfg.Input.Path = input
	cfg.Output.ChartWidth = 800
	cfg.Output.ChartHeight = 600
	for _, m := range mutate {
		m(cfg)
	}
	paths := config.NewPaths(cfg, dir)
	require.NoError(t, paths.EnsureDirectories())

	logger, handler := testutil.NewTestLogger(t)
	registry, err := NewRegistry(Deps{Config: cfg, Paths: paths, Logger: logger})
	require.NoError(t, err)

	return &harness{
		cfg:     cfg,
		paths:   paths,
		runner:  operations.NewRunner(registry, logger, nil, nil),
		handler: handler,
	}
}

func TestPipeline_Run(t *testing.T) {
	fx := writeRates(t, t.TempDir())
	h := newHarness(t, fx.path)

	st := NewState(fx.path)
	result, err := h.runner.Run(context.Background(), st)
	require.NoError(t, err)
	assert.False(t, result.Stopped)
	assert.False(t, st.Aborted)
	for _, s := range result.Steps {
		assert.Equal(t, operations.StepStatusCompleted, s.GetStatus(), s.ID)
	}

	assert.Equal(t, []string{"Time", "US_dollar", "Brazilian_real", "Japanese_yen"}, st.Rates.Names())
	assert.Equal(t, fx.rows-fx.dollarMissing, st.EuroDollar.Len())
	assert.Equal(t, fx.rows-fx.realMissing, st.EuroReal.Len())
	assert.Equal(t, fx.bothPresent, st.DollarReal.Len())

	rows, _ := result.Step(StepLoad).GetMetadata("rows")
	assert.Equal(t, fx.rows, rows)
	dropped, _ := result.Step(StepSegment).GetMetadata(EuroDollar + "_dropped")
	assert.Equal(t, fx.dollarMissing, dropped)
	crossRows, _ := result.Step(StepSegment).GetMetadata(DollarReal + "_rows")
	assert.Equal(t, fx.bothPresent, crossRows)

	times, values, err := floats(st.DollarReal, CrossColumn)
	require.NoError(t, err)
	assert.Equal(t, time.Date(1999, 1, 4, 0, 0, 0, 0, time.UTC), times[0], "sorted oldest first")
	assert.InDelta(t, fx.firstDollar/fx.firstReal, values[0], 1e-4)

	for _, name := range []string{EuroDollar, EuroReal, DollarReal} {
		col, err := st.Series(name).Column(RollingColumn)
		require.NoError(t, err, name)
		rolling, err := col.Floats()
		require.NoError(t, err)
		assert.False(t, rolling[h.cfg.Story.RollingWindow-2].Valid, name)
		assert.True(t, rolling[h.cfg.Story.RollingWindow-1].Valid, name)
	}

	wantCharts := []string{"evolution", "rolling_windows", "us_presidents", "br_presidents", "dollar_real"}
	require.Len(t, st.Charts, len(wantCharts))
	for i, name := range wantCharts {
		assert.Equal(t, h.paths.GetChartPath(name), st.Charts[i])
		assert.FileExists(t, st.Charts[i])
	}

	require.Len(t, st.Summaries, 3)
	assert.Equal(t, "US presidents", st.Summaries[0].Name)
	require.Len(t, st.Summaries[0].Summaries, 4)
	assert.Zero(t, st.Summaries[0].Summaries[3].Observations, "no observations after the history ends")
	assert.Positive(t, st.Summaries[0].Summaries[0].Observations)

	assert.Len(t, st.Reports, 7)
	for _, p := range st.Reports {
		assert.FileExists(t, p)
	}
	assert.Contains(t, st.Reports, h.paths.GetReportPath(WorkbookFile))
	assert.Contains(t, st.Reports, h.paths.GetReportPath("us_presidents_summary.csv"))

	testutil.AssertNoErrors(t, h.handler)
}

func TestPipeline_MissingInput(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "absent.csv")
	h := newHarness(t, missing)

	st := NewState(missing)
	result, err := h.runner.Run(context.Background(), st)
	require.NoError(t, err)

	assert.True(t, st.Aborted)
	assert.True(t, result.Stopped)
	assert.Equal(t, StepLoad, result.StoppedBy)
	assert.Equal(t, operations.StepStatusCompleted, result.Step(StepLoad).GetStatus())
	assert.Equal(t, operations.StepStatusSkipped, result.Step(StepExportReports).GetStatus())
	assert.Empty(t, st.Charts)
	assert.Empty(t, st.Reports)

	notFound := h.handler.GetRecordsWithAttr("error_kind", "FileNotFound")
	assert.Len(t, notFound, 1)

	entries, err := os.ReadDir(h.paths.ChartsDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestPipeline_ReportsDisabled(t *testing.T) {
	fx := writeRates(t, t.TempDir())
	h := newHarness(t, fx.path, func(c *config.Config) { c.Output.WriteReports = false })

	st := NewState(fx.path)
	_, err := h.runner.Run(context.Background(), st)
	require.NoError(t, err)
	assert.Empty(t, st.Reports)
	assert.Len(t, st.Charts, 5)
	assert.True(t, h.handler.ContainsMessage("Report export disabled"))
}

func TestPipeline_MissingCurrency(t *testing.T) {
	path := filepath.Join(t.TempDir(), "yen.csv")
	require.NoError(t, os.WriteFile(path, []byte("Period\\Unit:,[Japanese yen ]\n2021-01-04,126.6\n"), 0644))
	h := newHarness(t, path)

	result, err := h.runner.Run(context.Background(), NewState(path))
	require.Error(t, err)
	assert.ErrorIs(t, err, frame.ErrColumnNotFound)
	assert.Equal(t, operations.StepStatusFailed, result.Step(StepSegment).GetStatus())
	assert.Equal(t, operations.StepStatusSkipped, result.Step(StepChartEvolution).GetStatus())
}

func TestNewRegistry(t *testing.T) {
	registry, err := NewRegistry(Deps{Config: config.Default(), Paths: &config.Paths{}})
	require.NoError(t, err)

	ids := make([]string, 0, registry.Count())
	for _, s := range registry.List() {
		ids = append(ids, s.ID())
	}
	assert.Equal(t, []string{
		StepLoad, StepNormalize, StepSegment, StepChartEvolution, StepChartRolling,
		StepRollingMean, StepChartUSPresidents, StepChartBRPresidents, StepChartDollarReal,
		StepExportReports,
	}, ids)

	_, err = NewRegistry(Deps{})
	assert.Error(t, err)
}
