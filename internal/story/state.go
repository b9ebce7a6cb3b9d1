package story

import (
	"fxstory/internal/exporter"
	"fxstory/internal/frame"
)

// Column names after normalization.
const (
	TimeColumn    = "Time"
	DollarColumn  = "US_dollar"
	RealColumn    = "Brazilian_real"
	CrossColumn   = "dollar_real"
	RollingColumn = "rolling_mean"
)

// Series names, used for report files and metric labels.
const (
	EuroDollar = "euro_dollar"
	EuroReal   = "euro_real"
	DollarReal = "dollar_real"
)

// State is shared by the steps of one run.
type State struct {
	InputPath string

	// Rates is the loaded table, normalized in place.
	Rates *frame.Table

	// One cleaned, time-sorted table per series. Values are floats; rows
	// whose rate was the sentinel are gone.
	EuroDollar *frame.Table
	EuroReal   *frame.Table
	DollarReal *frame.Table

	// Aborted is set when the input could not be loaded.
	Aborted bool

	Charts    []string
	Reports   []string
	Summaries []exporter.SummarySheet
}

// NewState creates the state of a run reading path.
func NewState(path string) *State {
	return &State{InputPath: path}
}

// Series returns the table of the named series, or nil.
func (s *State) Series(name string) *frame.Table {
	switch name {
	case EuroDollar:
		return s.EuroDollar
	case EuroReal:
		return s.EuroReal
	case DollarReal:
		return s.DollarReal
	}
	return nil
}

func isSeries(name string) bool {
	return name == EuroDollar || name == EuroReal || name == DollarReal
}
