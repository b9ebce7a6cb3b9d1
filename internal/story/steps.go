package story

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"fxstory/internal/charts"
	"fxstory/internal/config"
	apperrors "fxstory/internal/errors"
	"fxstory/internal/exporter"
	"fxstory/internal/frame"
	"fxstory/internal/infrastructure"
	"fxstory/internal/operations"
)

var (
	errNotLoaded    = errors.New("rates not loaded")
	errNotSegmented = errors.New("series not segmented")
)

type loadStep struct {
	operations.BaseStep[*State]
	loader  *frame.Loader
	metrics *infrastructure.PipelineMetrics
}

func (s *loadStep) Execute(ctx context.Context, st *State) error {
	t := s.loader.ReadFile(ctx, st.InputPath)
	if t == nil {
		st.Aborted = true
		return fmt.Errorf("%w: %s could not be loaded", operations.ErrStop, st.InputPath)
	}
	st.Rates = t
	infrastructure.RecordRows(ctx, s.metrics.RowsLoaded, "rates", t.Len())
	infrastructure.AddSpanEvent(ctx, "file.read", map[string]interface{}{
		"path": st.InputPath,
		"rows": t.Len(),
	})
	infrastructure.SetSpanAttributes(ctx, map[string]interface{}{
		"input.rows":    t.Len(),
		"input.columns": t.Width(),
	})
	operations.SetStepMetadata(ctx, "rows", t.Len())
	operations.SetStepMetadata(ctx, "columns", t.Width())
	return nil
}

type normalizeStep struct {
	operations.BaseStep[*State]
	input  config.InputConfig
	logger *slog.Logger
}

func (s *normalizeStep) Validate(st *State) error {
	if st.Rates == nil {
		return errNotLoaded
	}
	return nil
}

func (s *normalizeStep) Execute(ctx context.Context, st *State) error {
	renames := frame.DefaultRenameMap()
	for _, c := range renames.Conflicts() {
		s.logger.WarnContext(ctx, "Rename pair re-matches a later pair",
			slog.String("match", renames[c.Earlier].Match),
			slog.String("later", renames[c.Later].Match))
	}
	frame.FormatColumns(st.Rates, renames)
	if dups := st.Rates.Duplicates(); len(dups) > 0 {
		s.logger.WarnContext(ctx, "Normalized column names collide; lookups use the leftmost column",
			slog.Any("columns", dups))
	}

	timeCol := renames.Apply(s.input.TimeColumn)
	if timeCol != TimeColumn {
		if err := st.Rates.Rename(timeCol, TimeColumn); err != nil {
			return err
		}
	}
	if err := st.Rates.ParseTime(TimeColumn, s.input.DateLayout); err != nil {
		return err
	}
	if err := st.Rates.SortBy(TimeColumn); err != nil {
		return err
	}

	s.logger.DebugContext(ctx, "Columns normalized", slog.Any("columns", st.Rates.Names()))
	return nil
}

type segmentStep struct {
	operations.BaseStep[*State]
	sentinel string
	metrics  *infrastructure.PipelineMetrics
	logger   *slog.Logger
}

func (s *segmentStep) Validate(st *State) error {
	if st.Rates == nil {
		return errNotLoaded
	}
	return nil
}

func (s *segmentStep) Execute(ctx context.Context, st *State) error {
	var err error
	if st.EuroDollar, err = s.currency(ctx, st.Rates, DollarColumn, EuroDollar); err != nil {
		return err
	}
	if st.EuroReal, err = s.currency(ctx, st.Rates, RealColumn, EuroReal); err != nil {
		return err
	}
	if st.DollarReal, err = s.cross(ctx, st.Rates); err != nil {
		return err
	}
	return nil
}

// currency selects one rate, drops its sentinel rows and parses it.
func (s *segmentStep) currency(ctx context.Context, rates *frame.Table, col, series string) (*frame.Table, error) {
	selected, err := rates.Select(TimeColumn, col)
	if err != nil {
		return nil, err
	}
	clean, err := selected.Without(col, s.sentinel)
	if err != nil {
		return nil, err
	}
	if err := clean.ParseFloat(col); err != nil {
		return nil, fmt.Errorf("%s: %w", series, err)
	}
	s.dropped(ctx, series, selected.Len(), clean.Len())
	return clean, nil
}

// cross keeps the days where both rates are known and divides them.
func (s *segmentStep) cross(ctx context.Context, rates *frame.Table) (*frame.Table, error) {
	selected, err := rates.Select(TimeColumn, DollarColumn, RealColumn)
	if err != nil {
		return nil, err
	}
	clean := selected
	for _, col := range []string{DollarColumn, RealColumn} {
		if clean, err = clean.Without(col, s.sentinel); err != nil {
			return nil, err
		}
		if err := clean.ParseFloat(col); err != nil {
			return nil, fmt.Errorf("%s: %w", DollarReal, err)
		}
	}
	if err := clean.Divide(CrossColumn, DollarColumn, RealColumn); err != nil {
		return nil, err
	}
	out, err := clean.DropUndefined(CrossColumn)
	if err != nil {
		return nil, err
	}
	s.dropped(ctx, DollarReal, selected.Len(), out.Len())
	return out, nil
}

func (s *segmentStep) dropped(ctx context.Context, series string, before, after int) {
	infrastructure.RecordRows(ctx, s.metrics.SentinelRowsDropped, series, before-after)
	operations.SetStepMetadata(ctx, series+"_rows", after)
	operations.SetStepMetadata(ctx, series+"_dropped", before-after)
	s.logger.InfoContext(ctx, "Series cleaned",
		slog.String("series", series),
		slog.Int("rows", after),
		slog.Int("dropped", before-after))
}

// chartWriter renders figures at the configured size into the charts directory.
type chartWriter struct {
	renderer *charts.Renderer
	paths    *config.Paths
	metrics  *infrastructure.PipelineMetrics
	width    int
	height   int
}

func (w *chartWriter) write(ctx context.Context, st *State, name string, fig charts.Figure) error {
	fig.Width, fig.Height = w.width, w.height
	path := w.paths.GetChartPath(name)
	if err := w.renderer.RenderToFile(ctx, fig, path); err != nil {
		return fmt.Errorf("chart %s: %w", name, err)
	}
	st.Charts = append(st.Charts, path)
	infrastructure.RecordRows(ctx, w.metrics.ChartsRendered, name, 1)
	infrastructure.AddSpanEvent(ctx, "chart.saved", map[string]interface{}{
		"chart": name,
		"path":  path,
	})
	return nil
}

func requireSeries(st *State) error {
	if st.EuroDollar == nil || st.EuroReal == nil || st.DollarReal == nil {
		return errNotSegmented
	}
	return nil
}

type evolutionStep struct {
	operations.BaseStep[*State]
	charts *chartWriter
}

func (s *evolutionStep) Validate(st *State) error { return requireSeries(st) }

func (s *evolutionStep) Execute(ctx context.Context, st *State) error {
	dollar, err := tableLine("dollar", "#1F77B4", st.EuroDollar, DollarColumn)
	if err != nil {
		return err
	}
	brl, err := tableLine("real", "#FF7F0E", st.EuroReal, RealColumn)
	if err != nil {
		return err
	}
	panel := func(title string, l charts.Line) charts.Panel {
		return charts.Panel{Title: title, Lines: []charts.Line{l}, XLabel: "Year", YLabel: "Coin Value"}
	}
	return s.charts.write(ctx, st, "evolution", charts.Figure{
		Rows: [][]charts.Panel{{
			panel("Evolution of the Euro-Dollar Exchange Rate", dollar),
			panel("Evolution of the Euro-Real Exchange Rate", brl),
		}},
	})
}

type rollingChartStep struct {
	operations.BaseStep[*State]
	charts  *chartWriter
	windows []int
}

const rollingColumns = 3

func (s *rollingChartStep) Validate(st *State) error { return requireSeries(st) }

func (s *rollingChartStep) Execute(ctx context.Context, st *State) error {
	dollarTimes, dollar, err := floats(st.EuroDollar, DollarColumn)
	if err != nil {
		return err
	}
	realTimes, brl, err := floats(st.EuroReal, RealColumn)
	if err != nil {
		return err
	}

	var rows [][]charts.Panel
	for i, w := range s.windows {
		dollarMean, err := frame.GetRollingWindow(dollar, w)
		if err != nil {
			return fmt.Errorf("window %d: %w", w, err)
		}
		realMean, err := frame.GetRollingWindow(brl, w)
		if err != nil {
			return fmt.Errorf("window %d: %w", w, err)
		}

		dollarLine := seriesLine("dollar", "#ADD8E6", dollarTimes, dollarMean)
		dollarLine.Alpha = 0.8
		p := charts.Panel{
			Title:  fmt.Sprintf("Rolling Window:%d", w),
			Lines:  []charts.Line{dollarLine, seriesLine("Real", "#FF0000", realTimes, realMean)},
			Legend: true,
		}
		if i%rollingColumns == 0 {
			rows = append(rows, nil)
		}
		rows[len(rows)-1] = append(rows[len(rows)-1], p)
	}
	return s.charts.write(ctx, st, "rolling_windows", charts.Figure{Rows: rows})
}

type rollingMeanStep struct {
	operations.BaseStep[*State]
	window int
}

func (s *rollingMeanStep) Validate(st *State) error { return requireSeries(st) }

func (s *rollingMeanStep) Execute(_ context.Context, st *State) error {
	for _, r := range []struct {
		name  string
		value string
	}{
		{EuroDollar, DollarColumn},
		{EuroReal, RealColumn},
		{DollarReal, CrossColumn},
	} {
		if err := st.Series(r.name).RollingMean(r.value, RollingColumn, s.window); err != nil {
			return fmt.Errorf("%s: %w", r.name, err)
		}
	}
	return nil
}

// storyStep draws one administration story and summarizes its periods.
type storyStep struct {
	operations.BaseStep[*State]
	story     Story
	signature string
	charts    *chartWriter
	logger    *slog.Logger
}

func (s *storyStep) Validate(st *State) error {
	t := st.Series(s.story.Series)
	if t == nil && !isSeries(s.story.Series) {
		return apperrors.NewNotFoundError("series " + s.story.Series)
	}
	if t == nil {
		return errNotSegmented
	}
	if !t.Has(RollingColumn) {
		return fmt.Errorf("%s: %w: %q", s.story.Series, frame.ErrColumnNotFound, RollingColumn)
	}
	return nil
}

func (s *storyStep) Execute(ctx context.Context, st *State) error {
	t := st.Series(s.story.Series)

	panels := make([]charts.Panel, 0, len(s.story.Administrations))
	combined := charts.Panel{YRange: s.story.YRange, YTicks: s.story.YTicks, HideXAxis: true}
	for _, a := range s.story.Administrations {
		seg, err := t.Between(TimeColumn, a.Period)
		if err != nil {
			return err
		}
		line, err := tableLine(a.Name, a.Color, seg, RollingColumn)
		if err != nil {
			return err
		}
		panels = append(panels, charts.Panel{
			Title:      a.Title(),
			TitleColor: a.Color,
			Lines:      []charts.Line{line},
			YRange:     s.story.YRange,
			YTicks:     s.story.YTicks,
		})
		combined.Lines = append(combined.Lines, line)
	}

	summaries, err := exporter.Summarize(s.story.Series, t, TimeColumn, s.story.Value, s.story.Periods())
	if err != nil {
		return err
	}
	for _, sum := range summaries {
		s.logger.InfoContext(ctx, "Administration summarized",
			slog.String("story", s.story.ID),
			slog.String("period", sum.Period),
			slog.Int("observations", sum.Observations),
			slog.String("mean", formatMean(sum.Mean)))
	}
	st.Summaries = append(st.Summaries, exporter.SummarySheet{Name: s.story.Sheet, Summaries: summaries})

	return s.charts.write(ctx, st, s.story.ID, charts.Figure{
		Title:     s.story.Title,
		Subtitle:  s.story.Subtitle,
		Signature: s.signature,
		Rows:      [][]charts.Panel{panels, {combined}},
	})
}

type exportStep struct {
	operations.BaseStep[*State]
	enabled  bool
	series   *exporter.SeriesExporter
	workbook *exporter.WorkbookExporter
	stories  []Story
	metrics  *infrastructure.PipelineMetrics
	logger   *slog.Logger
}

// WorkbookFile is the name of the summary workbook in the reports directory.
const WorkbookFile = "fxstory.xlsx"

func (s *exportStep) Validate(st *State) error { return requireSeries(st) }

func (s *exportStep) Execute(ctx context.Context, st *State) error {
	if !s.enabled {
		s.logger.InfoContext(ctx, "Report export disabled")
		return nil
	}

	for _, name := range []string{EuroDollar, EuroReal, DollarReal} {
		path, err := s.series.ExportSeries(name, st.Series(name))
		if err != nil {
			return err
		}
		s.written(ctx, st, name, path)
	}

	files := make(map[string]string, len(s.stories))
	for _, story := range s.stories {
		files[story.Sheet] = story.ID
	}
	for _, sheet := range st.Summaries {
		name, ok := files[sheet.Name]
		if !ok {
			name = sheet.Name
		}
		path, err := s.series.ExportSummaries(name+"_summary", sheet.Summaries)
		if err != nil {
			return err
		}
		s.written(ctx, st, name, path)
	}

	path, err := s.workbook.Export(ctx, WorkbookFile, st.Summaries, st.DollarReal)
	if err != nil {
		return err
	}
	s.written(ctx, st, "workbook", path)
	return nil
}

func (s *exportStep) written(ctx context.Context, st *State, name, path string) {
	st.Reports = append(st.Reports, path)
	infrastructure.RecordRows(ctx, s.metrics.ReportsWritten, name, 1)
}

// column returns the time axis and float column col of t.
func column(t *frame.Table, col string) ([]time.Time, frame.Series, error) {
	tc, err := t.Column(TimeColumn)
	if err != nil {
		return nil, nil, err
	}
	times, err := tc.Times()
	if err != nil {
		return nil, nil, err
	}
	vc, err := t.Column(col)
	if err != nil {
		return nil, nil, err
	}
	series, err := vc.Floats()
	if err != nil {
		return nil, nil, err
	}
	return times, series, nil
}

func floats(t *frame.Table, col string) ([]time.Time, []float64, error) {
	times, series, err := column(t, col)
	if err != nil {
		return nil, nil, err
	}
	values, ok := series.Float64s()
	if !ok {
		return nil, nil, fmt.Errorf("%s has undefined values", col)
	}
	return times, values, nil
}

func tableLine(name, color string, t *frame.Table, col string) (charts.Line, error) {
	times, series, err := column(t, col)
	if err != nil {
		return charts.Line{}, err
	}
	return seriesLine(name, color, times, series), nil
}

// seriesLine keeps the defined points of s.
func seriesLine(name, color string, times []time.Time, s frame.Series) charts.Line {
	l := charts.Line{Name: name, Color: color}
	for i, v := range s {
		if !v.Valid {
			continue
		}
		l.Times = append(l.Times, times[i])
		l.Values = append(l.Values, v.Float64)
	}
	return l
}

func formatMean(v frame.NullFloat) string {
	if !v.Valid {
		return "undefined"
	}
	return fmt.Sprintf("%.4f", v.Float64)
}
