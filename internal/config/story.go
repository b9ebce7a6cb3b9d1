package config

import (
	"fmt"
	"time"

	"fxstory/internal/frame"
)

// StoryConfig holds the narrative parameters: window sizes and the
// administrations each rate is segmented by.
type StoryConfig struct {
	RollingWindow  int            `yaml:"rolling_window" split_words:"true" validate:"min=1"`
	RollingWindows []int          `yaml:"rolling_windows" split_words:"true" validate:"min=1,max=6,dive,min=1"`
	Signature      string         `yaml:"signature" split_words:"true"`
	USPresidents   []PeriodConfig `yaml:"us_presidents" ignored:"true" validate:"min=1,dive"`
	BRPresidents   []PeriodConfig `yaml:"br_presidents" ignored:"true" validate:"min=1,dive"`
}

// PeriodConfig is one administration. Dates use DefaultDateLayout; an empty
// start or end leaves that side open.
type PeriodConfig struct {
	Name  string `yaml:"name" validate:"required"`
	Label string `yaml:"label"`
	Start string `yaml:"start" validate:"omitempty,datetime=2006-01-02"`
	End   string `yaml:"end" validate:"omitempty,datetime=2006-01-02"`
	Color string `yaml:"color" validate:"omitempty,hexcolor"`
}

// Period converts the configured dates into a half-open frame.Period.
func (p PeriodConfig) Period() (frame.Period, error) {
	out := frame.Period{Name: p.Name, Label: p.Label}
	var err error
	if p.Start != "" {
		if out.Start, err = time.Parse(DefaultDateLayout, p.Start); err != nil {
			return frame.Period{}, fmt.Errorf("period %s start: %w", p.Name, err)
		}
	}
	if p.End != "" {
		if out.End, err = time.Parse(DefaultDateLayout, p.End); err != nil {
			return frame.Period{}, fmt.Errorf("period %s end: %w", p.Name, err)
		}
	}
	if !out.Start.IsZero() && !out.End.IsZero() && !out.Start.Before(out.End) {
		return frame.Period{}, fmt.Errorf("period %s: start %s is not before end %s", p.Name, p.Start, p.End)
	}
	return out, nil
}

// Periods converts a list of administrations. Consecutive periods may not
// overlap.
func Periods(configs []PeriodConfig) ([]frame.Period, error) {
	out := make([]frame.Period, 0, len(configs))
	for i, pc := range configs {
		p, err := pc.Period()
		if err != nil {
			return nil, err
		}
		if i > 0 {
			prev := out[i-1]
			if prev.End.IsZero() || p.Start.IsZero() || p.Start.Before(prev.End) {
				return nil, fmt.Errorf("period %s overlaps %s", p.Name, prev.Name)
			}
		}
		out = append(out, p)
	}
	return out, nil
}

// DefaultStory returns the administrations of the United States from 2001
// and of Brazil over the whole history.
func DefaultStory() StoryConfig {
	return StoryConfig{
		RollingWindow:  DefaultRollingWindow,
		RollingWindows: append([]int(nil), DefaultRollingWindows...),
		Signature:      DefaultSignature,
		USPresidents: []PeriodConfig{
			{Name: "BUSH", Label: "(2001-2009)", Start: "2001-01-01", End: "2009-01-01", Color: "#00BFAF"},
			{Name: "OBAMA", Label: "(2009-2017)", Start: "2009-01-01", End: "2017-01-01", Color: "#00BFFF"},
			{Name: "TRUMP", Label: "(2017-2021)", Start: "2017-01-01", End: "2021-01-20", Color: "#4B7FFF"},
			{Name: "BIDEN", Label: "(2021-today)", Start: "2021-01-20", Color: "#FF0000"},
		},
		BRPresidents: []PeriodConfig{
			{Name: "FHC", Label: "(1999-2002)", End: "2002-01-01", Color: "#571845"},
			{Name: "LULA", Label: "(2002-2010)", Start: "2002-01-01", End: "2010-01-01", Color: "#900C3E"},
			{Name: "DILMA", Label: "(2010 - 31/08/2016)", Start: "2010-01-01", End: "2016-09-01", Color: "#C70039"},
			{Name: "TEMER", Label: "(01/09/2016 - 2018)", Start: "2016-09-01", End: "2018-01-01", Color: "#FF5733"},
			{Name: "BOLSONARO", Label: "(2018-today)", Start: "2018-01-01", Color: "#FFC300"},
		},
	}
}
