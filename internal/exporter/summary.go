package exporter

import (
	"time"

	"fxstory/internal/frame"
)

// PeriodSummary holds the statistics of one series over one period.
// Undefined observations are ignored; every statistic is undefined when the
// period holds no observation.
type PeriodSummary struct {
	Series       string
	Period       string
	Label        string
	Start        time.Time
	End          time.Time
	FirstDate    time.Time
	LastDate     time.Time
	Observations int
	Mean         frame.NullFloat
	Min          frame.NullFloat
	Max          frame.NullFloat
	First        frame.NullFloat
	Last         frame.NullFloat
}

// Change is Last minus First.
func (s PeriodSummary) Change() frame.NullFloat {
	if !s.First.Valid || !s.Last.Valid {
		return frame.NullFloat{}
	}
	return frame.Float(s.Last.Float64 - s.First.Float64)
}

// ChangePercent is Change relative to First, in percent.
func (s PeriodSummary) ChangePercent() frame.NullFloat {
	change := s.Change()
	if !change.Valid || s.First.Float64 == 0 {
		return frame.NullFloat{}
	}
	return frame.Float(change.Float64 / s.First.Float64 * 100)
}

// Summarize computes one PeriodSummary per period, in order, over the
// float column valueCol of t. t must be sorted by timeCol.
func Summarize(series string, t *frame.Table, timeCol, valueCol string, periods []frame.Period) ([]PeriodSummary, error) {
	segments, err := t.Segment(timeCol, periods)
	if err != nil {
		return nil, err
	}

	summaries := make([]PeriodSummary, 0, len(periods))
	for i, seg := range segments {
		summary, err := summarize(seg, timeCol, valueCol)
		if err != nil {
			return nil, err
		}
		summary.Series = series
		summary.Period = periods[i].Name
		summary.Label = periods[i].Label
		summary.Start = periods[i].Start
		summary.End = periods[i].End
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

func summarize(seg *frame.Table, timeCol, valueCol string) (PeriodSummary, error) {
	var summary PeriodSummary

	tc, err := seg.Column(timeCol)
	if err != nil {
		return summary, err
	}
	times, err := tc.Times()
	if err != nil {
		return summary, err
	}
	vc, err := seg.Column(valueCol)
	if err != nil {
		return summary, err
	}
	values, err := vc.Floats()
	if err != nil {
		return summary, err
	}

	var sum float64
	for i, v := range values {
		if !v.Valid {
			continue
		}
		if summary.Observations == 0 {
			summary.First = v
			summary.FirstDate = times[i]
			summary.Min = v
			summary.Max = v
		}
		summary.Observations++
		sum += v.Float64
		summary.Last = v
		summary.LastDate = times[i]
		if v.Float64 < summary.Min.Float64 {
			summary.Min = v
		}
		if v.Float64 > summary.Max.Float64 {
			summary.Max = v
		}
	}
	if summary.Observations > 0 {
		summary.Mean = frame.Float(sum / float64(summary.Observations))
	}
	return summary, nil
}

// summaryHeaders are shared by the CSV and workbook summaries.
var summaryHeaders = []string{
	"Series", "Period", "Label", "Start", "End", "FirstDate", "LastDate",
	"Observations", "Mean", "Min", "Max", "First", "Last", "Change", "ChangePercent",
}

func summaryToCSVRow(s PeriodSummary) []string {
	return []string{
		s.Series,
		s.Period,
		s.Label,
		formatDate(s.Start),
		formatDate(s.End),
		formatDate(s.FirstDate),
		formatDate(s.LastDate),
		formatInt(s.Observations),
		formatRate(s.Mean),
		formatRate(s.Min),
		formatRate(s.Max),
		formatRate(s.First),
		formatRate(s.Last),
		formatRate(s.Change()),
		formatRate(s.ChangePercent()),
	}
}
