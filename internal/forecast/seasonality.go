package forecast

import (
	"time"

	"github.com/gcortinez/sweetspot-cowork-sub006/internal/domain/models"
)

// Peak/low month thresholds on the seasonal index.
const (
	peakIndexThreshold = 1.1
	lowIndexThreshold  = 0.9
)

// AnalyzeSeasonality computes per-month seasonal indices across all
// supplied years of history. Below 12 points the result is null-effect:
// seasonal patterns are meaningless under one year of data.
func AnalyzeSeasonality(series models.TimeSeries) models.SeasonalityAnalysis {
	out := models.SeasonalityAnalysis{
		PeakMonths: []time.Month{},
		LowMonths:  []time.Month{},
	}
	if len(series) < 12 {
		return out
	}

	sums := make(map[time.Month]float64, 12)
	counts := make(map[time.Month]int, 12)
	for _, p := range series {
		m := p.Date.Month()
		sums[m] += p.Value
		counts[m]++
	}

	monthMeans := make(map[time.Month]float64, 12)
	all := make([]float64, 0, 12)
	for m := time.January; m <= time.December; m++ {
		if counts[m] == 0 {
			continue
		}
		mm := sums[m] / float64(counts[m])
		monthMeans[m] = mm
		all = append(all, mm)
	}
	overall := mean(all)

	out.Indices = make([]models.SeasonalIndex, 0, 12)
	for m := time.January; m <= time.December; m++ {
		idx := 1.0
		if mm, ok := monthMeans[m]; ok && overall != 0 {
			idx = mm / overall
		}
		out.Indices = append(out.Indices, models.SeasonalIndex{Month: m, Index: idx})
		if idx > peakIndexThreshold {
			out.PeakMonths = append(out.PeakMonths, m)
		}
		if idx < lowIndexThreshold {
			out.LowMonths = append(out.LowMonths, m)
		}
	}

	if overall != 0 {
		out.Strength = 100 * stdDev(all) / overall
	}
	return out
}

// SeasonalIndexFor returns the index for a month, defaulting to 1.
func SeasonalIndexFor(a models.SeasonalityAnalysis, m time.Month) float64 {
	for _, si := range a.Indices {
		if si.Month == m {
			return si.Index
		}
	}
	return 1
}
