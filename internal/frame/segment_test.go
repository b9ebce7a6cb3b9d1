package frame

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	ts, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return ts
}

func TestPeriod_Contains(t *testing.T) {
	obama := Period{Name: "obama", Start: date("2009-01-01"), End: date("2017-01-01")}

	assert.True(t, obama.Contains(date("2009-01-01")))
	assert.True(t, obama.Contains(date("2016-12-31")))
	assert.False(t, obama.Contains(date("2017-01-01")))
	assert.False(t, obama.Contains(date("2008-12-31")))

	open := Period{Name: "biden", Start: date("2021-01-20")}
	assert.True(t, open.Contains(date("2030-01-01")))
	assert.False(t, open.Contains(date("2021-01-19")))

	before := Period{Name: "fhc", End: date("2002-01-01")}
	assert.True(t, before.Contains(date("1999-01-04")))
	assert.False(t, before.Contains(date("2002-01-01")))
}

func TestTable_Segment(t *testing.T) {
	table, err := New(
		TimeColumn("Time", []time.Time{
			date("2008-12-31"), date("2009-01-01"), date("2016-12-30"), date("2017-01-01"), date("2021-01-20"),
		}),
		FloatColumn("US_dollar", SeriesOf(1.39, 1.40, 1.05, 1.05, 1.21)),
	)
	require.NoError(t, err)

	periods := []Period{
		{Name: "bush", End: date("2009-01-01")},
		{Name: "obama", Start: date("2009-01-01"), End: date("2017-01-01")},
		{Name: "trump", Start: date("2017-01-01"), End: date("2021-01-20")},
		{Name: "biden", Start: date("2021-01-20")},
	}

	segments, err := table.Segment("Time", periods)
	require.NoError(t, err)
	require.Len(t, segments, 4)

	total := 0
	for _, seg := range segments {
		total += seg.Len()
	}
	assert.Equal(t, table.Len(), total)
	assert.Equal(t, 2, segments[1].Len())
	assert.Equal(t, "2021-01-20", segments[3].Records()[0][0])
}

func TestTable_Between_IsCopy(t *testing.T) {
	table, err := New(
		TimeColumn("Time", []time.Time{date("2010-01-04"), date("2010-01-05")}),
		FloatColumn("v", SeriesOf(1, 2)),
	)
	require.NoError(t, err)

	seg, err := table.Between("Time", Period{Start: date("2010-01-01")})
	require.NoError(t, err)
	require.NoError(t, seg.RollingMean("v", "rolling_mean", 2))

	assert.True(t, seg.Has("rolling_mean"))
	assert.False(t, table.Has("rolling_mean"))
}

func TestTable_Between_Errors(t *testing.T) {
	table, err := New(TextColumn("Time", []string{"2010-01-04"}))
	require.NoError(t, err)

	_, err = table.Between("Time", Period{})
	assert.True(t, errors.Is(err, ErrColumnKind))

	_, err = table.Between("Date", Period{})
	assert.True(t, errors.Is(err, ErrColumnNotFound))
}
