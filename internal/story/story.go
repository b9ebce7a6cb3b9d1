package story

import (
	"fmt"

	"fxstory/internal/charts"
	"fxstory/internal/config"
	"fxstory/internal/frame"
)

// Administration is a period drawn in its own color.
type Administration struct {
	frame.Period
	Color string
}

// Title is the panel heading, e.g. "BUSH (2001-2009)".
func (a Administration) Title() string {
	if a.Label == "" {
		return a.Name
	}
	return a.Name + " " + a.Label
}

// Story is one administration chart: a panel per administration above a
// panel combining them, all showing the rolling mean of one series.
type Story struct {
	ID       string
	Sheet    string
	Title    string
	Subtitle string
	Series   string
	Value    string
	YRange   charts.Range
	YTicks   []float64

	Administrations []Administration
}

// Periods returns the administrations' periods in order.
func (s Story) Periods() []frame.Period {
	out := make([]frame.Period, len(s.Administrations))
	for i, a := range s.Administrations {
		out[i] = a.Period
	}
	return out
}

// dollarRealPalette replaces the Brazil colors on the cross-rate chart.
var dollarRealPalette = []string{"#DE3A03", "#F48D03", "#E1AF03", "#94E103", "#2CA210"}

func administrations(configs []config.PeriodConfig, palette []string) ([]Administration, error) {
	periods, err := config.Periods(configs)
	if err != nil {
		return nil, err
	}
	out := make([]Administration, len(periods))
	for i, p := range periods {
		color := configs[i].Color
		if i < len(palette) {
			color = palette[i]
		}
		out[i] = Administration{Period: p, Color: color}
	}
	return out, nil
}

// Stories builds the three administration stories from cfg.
func Stories(cfg config.StoryConfig) ([]Story, error) {
	us, err := administrations(cfg.USPresidents, nil)
	if err != nil {
		return nil, fmt.Errorf("us presidents: %w", err)
	}
	br, err := administrations(cfg.BRPresidents, nil)
	if err != nil {
		return nil, fmt.Errorf("br presidents: %w", err)
	}
	cross, err := administrations(cfg.BRPresidents, dollarRealPalette)
	if err != nil {
		return nil, fmt.Errorf("br presidents: %w", err)
	}

	return []Story{
		{
			ID:    "us_presidents",
			Sheet: "US presidents",
			Title: "EURO-USD rate averaged 1.22 under the last three US presidents",
			Subtitle: "EURO-USD exchange rates under George W. Bush (2001 - 2009), Barack Obama (2009-2017),\n" +
				"and Donald Trump (2017-2021)",
			Series:          EuroDollar,
			Value:           DollarColumn,
			YRange:          charts.Range{Min: 0.8, Max: 1.7},
			YTicks:          []float64{1.0, 1.2, 1.4, 1.6},
			Administrations: us,
		},
		{
			ID:    "br_presidents",
			Sheet: "BR presidents",
			Title: "EURO-REAL rate averaged under the last five Brazil presidents",
			Subtitle: "EURO-REAL exchange rates under F.H.C (1999 - 2002), Lula (2002 - 2010), Dilma (2011 - 2016),\n" +
				"Temer (2016 - 2018) and Bolsonaro (2018 - today)",
			Series:          EuroReal,
			Value:           RealColumn,
			YRange:          charts.Range{Min: 1.5, Max: 7.0},
			YTicks:          steps(1.5, 7.0, 0.5),
			Administrations: br,
		},
		{
			ID:    "dollar_real",
			Sheet: "Dollar-real",
			Title: "DOLLAR-REAL rate averaged under the last five Brazil presidents",
			Subtitle: "DOLLAR-REAL exchange rates under F.H.C (1999 - 2002), Lula (2002 - 2010), Dilma (2011 - 2016),\n" +
				"Temer (2016 - 2018) and Bolsonaro (2018 - today)",
			Series:          DollarReal,
			Value:           CrossColumn,
			YRange:          charts.Range{Min: 0, Max: 1.7},
			YTicks:          steps(0, 1.2, 0.2),
			Administrations: cross,
		},
	}, nil
}

// steps returns from, from+step, ... up to and including to.
func steps(from, to, step float64) []float64 {
	var out []float64
	n := int((to-from)/step + 0.5)
	for i := 0; i <= n; i++ {
		out = append(out, from+float64(i)*step)
	}
	return out
}
