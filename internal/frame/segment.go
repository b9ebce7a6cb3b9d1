package frame

import (
	"fmt"
	"time"
)

// Period is a half-open date range [Start, End). A zero Start or End leaves
// that side unbounded.
type Period struct {
	Name  string
	Label string
	Start time.Time
	End   time.Time
}

// Contains reports whether ts falls inside the period.
func (p Period) Contains(ts time.Time) bool {
	if !p.Start.IsZero() && ts.Before(p.Start) {
		return false
	}
	if !p.End.IsZero() && !ts.Before(p.End) {
		return false
	}
	return true
}

// Between returns a copy of the rows whose time column falls inside p.
// The copy shares nothing with t.
func (t *Table) Between(timeColumn string, p Period) (*Table, error) {
	c, err := t.Column(timeColumn)
	if err != nil {
		return nil, err
	}
	if c.kind != KindTime {
		return nil, fmt.Errorf("%w: %q is %s, not time", ErrColumnKind, timeColumn, c.kind)
	}
	return t.Filter(func(row int) bool { return p.Contains(c.times[row]) }), nil
}

// Segment slices t once per period, in order.
func (t *Table) Segment(timeColumn string, periods []Period) ([]*Table, error) {
	out := make([]*Table, len(periods))
	for i, p := range periods {
		seg, err := t.Between(timeColumn, p)
		if err != nil {
			return nil, err
		}
		out[i] = seg
	}
	return out, nil
}
