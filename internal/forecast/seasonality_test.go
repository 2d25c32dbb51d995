package forecast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeasonalityBelowOneYearIsNull(t *testing.T) {
	series := flatSeries(11, 100)
	a := AnalyzeSeasonality(series)
	assert.Zero(t, a.Strength)
	assert.Empty(t, a.PeakMonths)
	assert.Empty(t, a.LowMonths)
	assert.Empty(t, a.Indices)
}

func TestSeasonalityRepeatingPattern(t *testing.T) {
	// 24 months of an exact repeating pattern. July peaks at 1300 and
	// January bottoms out at 700 around a mean of 1000.
	year := []float64{700, 850, 950, 1000, 1050, 1150, 1300, 1250, 1050, 950, 900, 850}
	vals := append(append([]float64{}, year...), year...)
	series := makeSeries(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), vals...)

	a := AnalyzeSeasonality(series)
	require.Len(t, a.Indices, 12)

	sum := 0.0
	for _, si := range a.Indices {
		sum += si.Index
	}
	assert.InDelta(t, 1.0, sum/12, 1e-9, "indices must average to 1")

	assert.Equal(t, []time.Month{time.June, time.July, time.August}, a.PeakMonths)
	assert.Equal(t, []time.Month{time.January, time.February, time.December}, a.LowMonths)
	assert.Greater(t, a.Strength, 0.0)
}

func TestSeasonalityFlatSeries(t *testing.T) {
	a := AnalyzeSeasonality(flatSeries(24, 800))
	require.Len(t, a.Indices, 12)
	for _, si := range a.Indices {
		assert.InDelta(t, 1.0, si.Index, 1e-9)
	}
	assert.Empty(t, a.PeakMonths)
	assert.Empty(t, a.LowMonths)
	assert.InDelta(t, 0, a.Strength, 1e-9)
}

func TestSeasonalIndexFor(t *testing.T) {
	a := AnalyzeSeasonality(flatSeries(24, 800))
	assert.InDelta(t, 1.0, SeasonalIndexFor(a, time.March), 1e-9)
	// Missing month defaults to 1.
	assert.Equal(t, 1.0, SeasonalIndexFor(AnalyzeSeasonality(nil), time.March))
}
