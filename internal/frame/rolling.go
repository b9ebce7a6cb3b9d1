package frame

import (
	"errors"
	"fmt"
)

// ErrInvalidWindow is returned for a rolling window smaller than one observation.
var ErrInvalidWindow = errors.New("rolling window size must be positive")

// NullFloat is a float that may be undefined.
type NullFloat struct {
	Float64 float64
	Valid   bool
}

// Float returns a defined NullFloat.
func Float(v float64) NullFloat {
	return NullFloat{Float64: v, Valid: true}
}

// Series is an ordered sequence of possibly undefined observations.
type Series []NullFloat

// SeriesOf wraps values as a fully defined Series.
func SeriesOf(values ...float64) Series {
	s := make(Series, len(values))
	for i, v := range values {
		s[i] = Float(v)
	}
	return s
}

// Defined returns the number of defined entries.
func (s Series) Defined() int {
	n := 0
	for _, v := range s {
		if v.Valid {
			n++
		}
	}
	return n
}

// Float64s returns the raw values. ok is false if any entry is undefined.
func (s Series) Float64s() (values []float64, ok bool) {
	values = make([]float64, len(s))
	for i, v := range s {
		if !v.Valid {
			return nil, false
		}
		values[i] = v.Float64
	}
	return values, true
}

// GetRollingWindow returns the trailing mean of window observations ending at
// each position of values. The result has the same length as values; its
// first window-1 entries are undefined, and all of them are when window
// exceeds len(values). values is not modified.
func GetRollingWindow(values []float64, window int) (Series, error) {
	if window < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidWindow, window)
	}
	out := make(Series, len(values))
	for i := window - 1; i < len(values); i++ {
		var sum float64
		for _, v := range values[i-window+1 : i+1] {
			sum += v
		}
		out[i] = Float(sum / float64(window))
	}
	return out, nil
}

// RollingMean adds (or replaces) column dst with the rolling mean of float
// column src. src must be fully defined.
func (t *Table) RollingMean(src, dst string, window int) error {
	s, err := t.floatColumn(src)
	if err != nil {
		return err
	}
	values, ok := s.Float64s()
	if !ok {
		return fmt.Errorf("column %q has undefined values; drop them before aggregating", src)
	}
	mean, err := GetRollingWindow(values, window)
	if err != nil {
		return err
	}
	return t.AddColumn(&Column{name: dst, kind: KindFloat, floats: mean})
}
