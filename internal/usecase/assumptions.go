package usecase

import (
	"fmt"

	"github.com/gcortinez/sweetspot-cowork-sub006/internal/domain/models"
)

// Thresholds for assumption/risk generation.
const (
	seasonalStrengthCutoff = 20.0
	lowConfidenceCutoff    = 70.0
	highVolatilityCutoff   = 0.3
)

func buildAssumptions(method models.ForecastMethod, trend models.TrendAnalysis, seasonality models.SeasonalityAnalysis) []string {
	out := []string{
		"Historical patterns continue",
		"No major external disruptions",
		"Market conditions remain stable",
	}
	if method == models.MethodLinearRegression {
		out = append(out, "Linear relationship between time and value holds")
	}
	if seasonality.Strength > seasonalStrengthCutoff {
		out = append(out, "Seasonal patterns remain consistent")
	}
	if trend.Direction != models.TrendStable {
		out = append(out, fmt.Sprintf("Current %s trend continues", trend.Direction))
	}
	return out
}

func buildRisks(confidence float64, trend models.TrendAnalysis) []string {
	var out []string
	if confidence < lowConfidenceCutoff {
		out = append(out, "Low forecast confidence")
	}
	if trend.Volatility > highVolatilityCutoff {
		out = append(out, "High historical volatility")
	}
	if trend.Direction == models.TrendDecreasing {
		out = append(out, "Declining trend may continue")
	}
	out = append(out,
		"Economic conditions may change",
		"Competitive pressure may increase",
		"Seasonal variations may differ from historical patterns",
	)
	return out
}
