package models

import "time"

// MetricType identifies which business metric a series or forecast covers.
type MetricType string

const (
	MetricRevenue    MetricType = "revenue"
	MetricExpense    MetricType = "expense"
	MetricProfit     MetricType = "profit"
	MetricCashFlow   MetricType = "cash_flow"
	MetricOccupancy  MetricType = "occupancy"
	MetricMembership MetricType = "membership"
)

// PeriodType is the granularity a forecast is requested at. Projections
// are always produced month by month; the period mostly drives defaults
// such as the moving-average window.
type PeriodType string

const (
	PeriodMonthly   PeriodType = "monthly"
	PeriodQuarterly PeriodType = "quarterly"
	PeriodAnnual    PeriodType = "annual"
	PeriodRolling12 PeriodType = "rolling_12"
)

// ForecastMethod names one of the supported projection algorithms.
type ForecastMethod string

const (
	MethodLinearRegression      ForecastMethod = "linear_regression"
	MethodMovingAverage         ForecastMethod = "moving_average"
	MethodExponentialSmoothing  ForecastMethod = "exponential_smoothing"
	MethodSeasonalDecomposition ForecastMethod = "seasonal_decomposition"
	MethodEnsemble              ForecastMethod = "ensemble"
	MethodExpertJudgment        ForecastMethod = "expert_judgment"
)

// ForecastStatus tracks the lifecycle of a stored forecast.
type ForecastStatus string

const (
	StatusActive   ForecastStatus = "active"
	StatusArchived ForecastStatus = "archived"
)

// TrendDirection classifies average period-over-period growth.
type TrendDirection string

const (
	TrendIncreasing TrendDirection = "increasing"
	TrendDecreasing TrendDirection = "decreasing"
	TrendStable     TrendDirection = "stable"
)

// TrendAnalysis summarizes growth behaviour of a historical series.
type TrendAnalysis struct {
	Direction  TrendDirection `json:"direction"`
	Strength   float64        `json:"strength"`
	Volatility float64        `json:"volatility"`
}

// SeasonalIndex is one month's ratio to the overall annual average.
type SeasonalIndex struct {
	Month time.Month `json:"month"`
	Index float64    `json:"index"`
}

// SeasonalityAnalysis describes how strongly a series follows a yearly
// calendar pattern. Strength is a percentage; indices average to 1 for
// a series with at least a full year of history.
type SeasonalityAnalysis struct {
	Strength   float64         `json:"strength"`
	PeakMonths []time.Month    `json:"peak_months"`
	LowMonths  []time.Month    `json:"low_months"`
	Indices    []SeasonalIndex `json:"indices"`
}

// ForecastRequest is the caller's description of the projection to run.
// Parameters carries method-specific overrides (window, weights, alpha,
// beta, gamma, scenarios).
type ForecastRequest struct {
	MetricType MetricType     `json:"metric_type" validate:"required,oneof=revenue expense profit cash_flow occupancy membership"`
	Period     PeriodType     `json:"period" default:"monthly" validate:"required,oneof=monthly quarterly annual rolling_12"`
	StartDate  time.Time      `json:"start_date" validate:"required"`
	EndDate    time.Time      `json:"end_date"`
	Method     ForecastMethod `json:"method" validate:"required"`
	Parameters map[string]any `json:"parameters,omitempty"`
	Notes      string         `json:"notes,omitempty" validate:"max=2000"`
}

// Forecast is the persisted result of one projection run. Accuracy is
// the only field mutated after creation; it is filled in once the
// observed actual for the forecast window arrives.
type Forecast struct {
	ID             string              `json:"id"`
	TenantID       string              `json:"tenant_id"`
	MetricType     MetricType          `json:"metric_type"`
	Period         PeriodType          `json:"period"`
	StartDate      time.Time           `json:"start_date"`
	EndDate        time.Time           `json:"end_date"`
	BaseValue      float64             `json:"base_value"`
	ProjectedValue float64             `json:"projected_value"`
	Confidence     float64             `json:"confidence"`
	Method         ForecastMethod      `json:"method"`
	MethodParams   map[string]any      `json:"method_params"`
	Projection     TimeSeries          `json:"projection"`
	Assumptions    []string            `json:"assumptions"`
	Risks          []string            `json:"risks"`
	Trend          TrendAnalysis       `json:"trend"`
	Seasonality    SeasonalityAnalysis `json:"seasonality"`
	Accuracy       *float64            `json:"accuracy,omitempty"`
	Status         ForecastStatus      `json:"status"`
	Notes          string              `json:"notes,omitempty"`
	CreatedBy      string              `json:"created_by"`
	CreatedAt      time.Time           `json:"created_at"`
}
