package charts

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"strings"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrNoData is returned when a panel has no line with at least two points.
var ErrNoData = errors.New("panel has no drawable series")

// Line is one series of a panel.
type Line struct {
	Name   string
	Color  string // hex, "#RRGGBB"
	Alpha  float64
	Times  []time.Time
	Values []float64
}

// Range bounds an axis. Min == Max means automatic.
type Range struct {
	Min float64
	Max float64
}

// Panel is a single chart.
type Panel struct {
	Title      string
	TitleColor string
	Lines      []Line
	YRange     Range
	// YTicks fixes the labelled values; empty picks them from YRange.
	YTicks    []float64
	XLabel    string
	YLabel    string
	HideXAxis bool
	Legend    bool
}

func (l Line) drawable() bool {
	return len(l.Times) >= 2 && len(l.Times) == len(l.Values)
}

func (p Panel) series() []chart.Series {
	series := make([]chart.Series, 0, len(p.Lines))
	for _, l := range p.Lines {
		if !l.drawable() {
			continue
		}
		stroke := hexColor(l.Color, chart.ColorBlue)
		if l.Alpha > 0 && l.Alpha < 1 {
			stroke = stroke.WithAlpha(uint8(l.Alpha * 255))
		}
		series = append(series, chart.TimeSeries{
			Name:    l.Name,
			XValues: l.Times,
			YValues: l.Values,
			Style: chart.Style{
				StrokeColor: stroke,
				StrokeWidth: 2,
			},
		})
	}
	return series
}

// renderPanel draws p at the given size.
func renderPanel(p Panel, width, height int) (image.Image, error) {
	series := p.series()
	if len(series) == 0 {
		return nil, ErrNoData
	}

	yAxis := chart.YAxis{
		Name:           p.YLabel,
		ValueFormatter: rateFormatter,
		GridMajorStyle: gridStyle(),
	}
	if p.YRange.Max > p.YRange.Min {
		yAxis.Range = &chart.ContinuousRange{Min: p.YRange.Min, Max: p.YRange.Max}
		yAxis.Ticks = yTicks(p.YRange, p.YTicks)
	}

	ch := chart.Chart{
		Title:      p.Title,
		TitleStyle: chart.Style{FontColor: hexColor(p.TitleColor, drawing.ColorBlack), FontSize: 14},
		Width:      width,
		Height:     height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis: chart.XAxis{
			Name:           p.XLabel,
			ValueFormatter: timeFormatter(p.span()),
			Style:          chart.Style{Hidden: p.HideXAxis},
		},
		YAxis:  yAxis,
		Series: series,
	}
	if p.Title == "" {
		ch.TitleStyle.Hidden = true
	}
	if p.Legend {
		ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render panel %q: %w", p.Title, err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		return nil, fmt.Errorf("decode panel %q: %w", p.Title, err)
	}
	return img, nil
}

// blankPanel is the stand-in for a panel that could not be drawn.
func blankPanel(p Panel, width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	if p.Title != "" {
		drawCentered(img, p.Title, 16, 2, hexColor(p.TitleColor, drawing.ColorBlack))
	}
	drawCentered(img, "no data", height/2, 1, hexColor("#999999", drawing.ColorBlack))
	return img
}

func gridStyle() chart.Style {
	return chart.Style{
		StrokeColor: drawing.ColorFromHex("dddddd"),
		StrokeWidth: 1,
	}
}

// yTicks labels the given values, or a nice sequence across r.
func yTicks(r Range, values []float64) []chart.Tick {
	if len(values) == 0 {
		return niceTicks(r.Min, r.Max, 6)
	}
	ticks := make([]chart.Tick, 0, len(values))
	for _, v := range values {
		ticks = append(ticks, chart.Tick{Value: v, Label: formatTick(v)})
	}
	return ticks
}

// niceTicks generates about n tick marks between min and max using
// increments of 1, 2, 2.5 or 5 times a power of ten.
func niceTicks(min, max float64, n int) []chart.Tick {
	if n < 2 || math.IsNaN(min) || math.IsNaN(max) {
		return nil
	}
	if max <= min {
		max = min + 1
	}
	mag := math.Pow(10, math.Floor(math.Log10((max-min)/float64(n-1))))
	bestStep, bestScore := mag, math.MaxFloat64
	for _, c := range []float64{1, 2, 2.5, 5, 10} {
		step := c * mag
		count := math.Max(math.Ceil((max-min)/step), 2)
		if score := math.Abs(count - float64(n)); score < bestScore {
			bestScore, bestStep = score, step
		}
	}

	ticks := []chart.Tick{}
	for v := math.Ceil(min/bestStep) * bestStep; v <= max+bestStep/1e6; v += bestStep {
		ticks = append(ticks, chart.Tick{Value: v, Label: formatTick(v)})
	}
	return ticks
}

func formatTick(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	if strings.HasSuffix(s, ".") {
		s += "0"
	}
	return s
}

func rateFormatter(v interface{}) string {
	if f, ok := v.(float64); ok {
		return formatTick(f)
	}
	return ""
}

// shortSpan is the time range below which x ticks show months.
const shortSpan = 2 * 365 * 24 * time.Hour

// span returns the time covered by the drawable lines.
func (p Panel) span() time.Duration {
	var first, last time.Time
	for _, l := range p.Lines {
		if !l.drawable() {
			continue
		}
		for _, t := range l.Times {
			if first.IsZero() || t.Before(first) {
				first = t
			}
			if t.After(last) {
				last = t
			}
		}
	}
	return last.Sub(first)
}

// timeFormatter labels x ticks by year, or by month for spans under shortSpan.
func timeFormatter(span time.Duration) chart.ValueFormatter {
	layout := "2006"
	if span < shortSpan {
		layout = "Jan 2006"
	}
	return func(v interface{}) string {
		switch t := v.(type) {
		case time.Time:
			return t.Format(layout)
		case float64:
			return time.Unix(0, int64(t)).UTC().Format(layout)
		}
		return ""
	}
}

// hexColor parses "#RRGGBB", falling back to def for an empty value.
func hexColor(hex string, def drawing.Color) drawing.Color {
	hex = strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if hex == "" {
		return def
	}
	return drawing.ColorFromHex(hex)
}
