package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/gcortinez/sweetspot-cowork-sub006/internal/domain/models"
	domrepo "github.com/gcortinez/sweetspot-cowork-sub006/internal/domain/repository"
	"github.com/gcortinez/sweetspot-cowork-sub006/internal/forecast"
	applogger "github.com/gcortinez/sweetspot-cowork-sub006/pkg/logger"
	"github.com/gcortinez/sweetspot-cowork-sub006/pkg/util"
)

var validate = validator.New()

// Options bounds the history window and horizon defaults.
type Options struct {
	HistoryMonths  int
	DefaultHorizon int
	Params         forecast.Params
}

// Service is the forecasting orchestrator: it loads history, dispatches
// the requested strategy, derives assumptions and risks, and persists
// the resulting forecast.
type Service struct {
	history domrepo.HistoryStore
	store   domrepo.ForecastStore
	pub     domrepo.Publisher
	metrics domrepo.Metrics
	log     *applogger.Logger
	opts    Options
}

// NewService wires the orchestrator. pub may be nil when event
// publishing is disabled.
func NewService(history domrepo.HistoryStore, store domrepo.ForecastStore, pub domrepo.Publisher, metrics domrepo.Metrics, log *applogger.Logger, opts Options) *Service {
	if opts.HistoryMonths <= 0 {
		opts.HistoryMonths = 24
	}
	if opts.DefaultHorizon <= 0 {
		opts.DefaultHorizon = 12
	}
	if opts.Params.SeasonalCycle == 0 {
		opts.Params = forecast.DefaultParams()
	}
	return &Service{
		history: history,
		store:   store,
		pub:     pub,
		metrics: metrics,
		log:     log,
		opts:    opts,
	}
}

// Generate runs one forecast for the tenant and persists it.
func (s *Service) Generate(ctx context.Context, tenantID, userID string, req models.ForecastRequest) (*models.Forecast, error) {
	started := time.Now()

	if err := defaults.Set(&req); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidRequest, err)
	}
	if err := validate.Struct(&req); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidRequest, err)
	}

	start := util.StartOfMonth(req.StartDate)
	horizon := s.opts.DefaultHorizon
	if !req.EndDate.IsZero() {
		if n := util.MonthsBetween(start, req.EndDate) + 1; n >= 1 {
			horizon = n
		}
	}

	from := util.AddMonths(start, -s.opts.HistoryMonths)
	to := util.AddMonths(start, -1)
	series, err := s.history.Monthly(ctx, tenantID, req.MetricType, from, to)
	if err != nil {
		s.metrics.RecordError("history_fetch")
		return nil, fmt.Errorf("load history: %w", err)
	}
	if len(series) == 0 {
		return nil, models.ErrEmptySeries
	}

	strategy, err := forecast.New(req.Method, s.opts.Params.Resolve(req.Period, req.Parameters))
	if err != nil {
		s.metrics.RecordError("unsupported_method")
		return nil, err
	}
	proj, err := strategy.Run(series, start, horizon)
	if err != nil {
		s.metrics.RecordError("strategy")
		return nil, fmt.Errorf("run %s: %w", req.Method, err)
	}

	trend := forecast.AnalyzeTrend(series)
	seasonality := forecast.AnalyzeSeasonality(series)

	f := &models.Forecast{
		ID:             uuid.NewString(),
		TenantID:       tenantID,
		MetricType:     req.MetricType,
		Period:         req.Period,
		StartDate:      start,
		EndDate:        util.AddMonths(start, horizon-1),
		BaseValue:      forecast.BaseValue(series),
		ProjectedValue: proj.Final,
		Confidence:     proj.Confidence,
		Method:         req.Method,
		MethodParams:   proj.MethodParams,
		Projection:     proj.Points,
		Assumptions:    buildAssumptions(req.Method, trend, seasonality),
		Risks:          buildRisks(proj.Confidence, trend),
		Trend:          trend,
		Seasonality:    seasonality,
		Status:         models.StatusActive,
		Notes:          req.Notes,
		CreatedBy:      userID,
		CreatedAt:      time.Now().UTC(),
	}

	if err := s.store.Insert(ctx, f); err != nil {
		s.metrics.RecordError("forecast_insert")
		return nil, fmt.Errorf("persist forecast: %w", err)
	}

	if s.pub != nil {
		ev := models.ForecastCreated{
			TenantID:       f.TenantID,
			ForecastID:     f.ID,
			MetricType:     f.MetricType,
			Method:         f.Method,
			ProjectedValue: f.ProjectedValue,
			Confidence:     f.Confidence,
			CreatedAt:      f.CreatedAt,
		}
		if err := s.pub.ForecastCreated(ctx, ev); err != nil {
			// The forecast is durable; the event feed is advisory.
			s.metrics.RecordError("event_publish")
			s.log.Warn("forecast event publish failed",
				applogger.String("forecast_id", f.ID),
				applogger.Error(err),
			)
		}
	}

	s.metrics.RecordForecast(string(f.MetricType), string(f.Method))
	s.metrics.RecordConfidence(string(f.Method), f.Confidence)
	s.metrics.RecordLatency("generate_forecast", time.Since(started).Seconds())
	s.log.Info("forecast generated",
		applogger.String("tenant", tenantID),
		applogger.String("forecast_id", f.ID),
		applogger.String("metric", string(f.MetricType)),
		applogger.String("method", string(f.Method)),
		applogger.Int("history_points", len(series)),
		applogger.Int("horizon", horizon),
		applogger.Float("confidence", f.Confidence),
	)
	return f, nil
}

// UpdateAccuracy compares a stored forecast against its observed actual
// and persists the resulting accuracy percentage.
func (s *Service) UpdateAccuracy(ctx context.Context, tenantID, forecastID string, actual float64) error {
	f, err := s.store.Get(ctx, tenantID, forecastID)
	if err != nil {
		if errors.Is(err, models.ErrForecastNotFound) {
			return err
		}
		return fmt.Errorf("load forecast: %w", err)
	}

	accuracy := Accuracy(f.ProjectedValue, actual)
	if err := s.store.UpdateAccuracy(ctx, tenantID, forecastID, accuracy); err != nil {
		s.metrics.RecordError("accuracy_update")
		return fmt.Errorf("persist accuracy: %w", err)
	}

	s.metrics.RecordAccuracy(string(f.MetricType), accuracy)
	s.log.Info("forecast accuracy updated",
		applogger.String("tenant", tenantID),
		applogger.String("forecast_id", forecastID),
		applogger.Float("actual", actual),
		applogger.Float("accuracy", accuracy),
	)
	return nil
}

// ForecastPage is one page of a forecast listing.
type ForecastPage struct {
	Items   []*models.Forecast `json:"items"`
	Total   int                `json:"total"`
	HasMore bool               `json:"has_more"`
}

// List returns stored forecasts for a tenant, filtered and paginated.
func (s *Service) List(ctx context.Context, tenantID string, filter domrepo.ListFilter, page domrepo.Page) (*ForecastPage, error) {
	if page.Limit <= 0 {
		page.Limit = 20
	}
	items, total, err := s.store.List(ctx, tenantID, filter, page)
	if err != nil {
		return nil, fmt.Errorf("list forecasts: %w", err)
	}
	return &ForecastPage{
		Items:   items,
		Total:   total,
		HasMore: page.Offset+len(items) < total,
	}, nil
}

// Accuracy converts a projected/actual pair into a [0,100] percentage.
// A non-positive projection scores zero rather than dividing by it.
func Accuracy(projected, actual float64) float64 {
	if projected <= 0 {
		return 0
	}
	acc := (1 - math.Abs(actual-projected)/projected) * 100
	if acc < 0 {
		return 0
	}
	return acc
}
