package models

import "time"

// TimeSeriesPoint is one monthly observation of a business metric.
// Date is normalized to the first day of the month, UTC.
type TimeSeriesPoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// TimeSeries is a time-ordered sequence of monthly points. Dates are
// strictly increasing; months without data are absent, not zero-filled.
type TimeSeries []TimeSeriesPoint

// Values returns the raw value column.
func (s TimeSeries) Values() []float64 {
	out := make([]float64, len(s))
	for i, p := range s {
		out[i] = p.Value
	}
	return out
}

// Last returns the trailing n points (or all of them when n >= len).
func (s TimeSeries) Last(n int) TimeSeries {
	if n >= len(s) {
		return s
	}
	return s[len(s)-n:]
}

// End returns the date of the final point, or the zero time for an
// empty series.
func (s TimeSeries) End() time.Time {
	if len(s) == 0 {
		return time.Time{}
	}
	return s[len(s)-1].Date
}
