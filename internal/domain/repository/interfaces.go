package repository

import (
	"context"
	"time"

	"github.com/gcortinez/sweetspot-cowork-sub006/internal/domain/models"
)

// HistoryStore reads aggregated monthly metric series from the
// analytics store. The engine never writes historical data.
type HistoryStore interface {
	Monthly(ctx context.Context, tenantID string, metric models.MetricType, from, to time.Time) (models.TimeSeries, error)
	Health(ctx context.Context) error
	Close() error
}

// ListFilter narrows a forecast listing. Zero values mean "any".
type ListFilter struct {
	MetricType models.MetricType
	Method     models.ForecastMethod
	Status     models.ForecastStatus
	From       time.Time
	To         time.Time
}

// Page is offset pagination for forecast listings.
type Page struct {
	Offset int
	Limit  int
}

// ForecastStore persists forecast records. UpdateAccuracy is the only
// mutation after Insert.
type ForecastStore interface {
	Insert(ctx context.Context, f *models.Forecast) error
	Get(ctx context.Context, tenantID, id string) (*models.Forecast, error)
	List(ctx context.Context, tenantID string, filter ListFilter, page Page) ([]*models.Forecast, int, error)
	UpdateAccuracy(ctx context.Context, tenantID, id string, accuracy float64) error
	Health(ctx context.Context) error
	Close() error
}

// Publisher emits forecast lifecycle events.
type Publisher interface {
	ForecastCreated(ctx context.Context, ev models.ForecastCreated) error
	Close() error
}

// Metrics records operational counters for the engine.
type Metrics interface {
	RecordForecast(metric, method string)
	RecordConfidence(method string, confidence float64)
	RecordAccuracy(metric string, accuracy float64)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
}
