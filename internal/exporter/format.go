package exporter

import (
	"strconv"
	"time"

	"fxstory/internal/frame"
)

// formatRate renders a rate with four decimals, or "" when undefined.
func formatRate(v frame.NullFloat) string {
	if !v.Valid {
		return ""
	}
	return strconv.FormatFloat(v.Float64, 'f', 4, 64)
}

func formatInt(i int) string {
	return strconv.Itoa(i)
}

// formatDate renders an open bound as "".
func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(frame.DateLayout)
}
