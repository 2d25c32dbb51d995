package models

import "time"

// ActualObserved is the inbound event carrying an observed actual value
// for a previously generated forecast. Consumed from the actuals topic.
type ActualObserved struct {
	TenantID    string    `json:"tenant_id"`
	ForecastID  string    `json:"forecast_id"`
	ActualValue float64   `json:"actual_value"`
	ObservedAt  time.Time `json:"observed_at"`
}

// ForecastCreated is the outbound event published after a forecast has
// been durably stored.
type ForecastCreated struct {
	TenantID       string         `json:"tenant_id"`
	ForecastID     string         `json:"forecast_id"`
	MetricType     MetricType     `json:"metric_type"`
	Method         ForecastMethod `json:"method"`
	ProjectedValue float64        `json:"projected_value"`
	Confidence     float64        `json:"confidence"`
	CreatedAt      time.Time      `json:"created_at"`
}
