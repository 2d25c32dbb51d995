package usecase

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcortinez/sweetspot-cowork-sub006/internal/domain/models"
	domrepo "github.com/gcortinez/sweetspot-cowork-sub006/internal/domain/repository"
	applogger "github.com/gcortinez/sweetspot-cowork-sub006/pkg/logger"
	"github.com/gcortinez/sweetspot-cowork-sub006/pkg/util"
)

type fakeHistory struct {
	series models.TimeSeries
	err    error
}

func (f *fakeHistory) Monthly(_ context.Context, _ string, _ models.MetricType, from, to time.Time) (models.TimeSeries, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make(models.TimeSeries, 0, len(f.series))
	for _, p := range f.series {
		if !p.Date.Before(from) && !p.Date.After(to) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeHistory) Health(context.Context) error { return nil }
func (f *fakeHistory) Close() error                 { return nil }

type memForecastStore struct {
	mu sync.Mutex
	m  map[string]*models.Forecast
}

func newMemForecastStore() *memForecastStore {
	return &memForecastStore{m: make(map[string]*models.Forecast)}
}

func (s *memForecastStore) Insert(_ context.Context, f *models.Forecast) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *f
	s.m[f.TenantID+"/"+f.ID] = &cp
	return nil
}

func (s *memForecastStore) Get(_ context.Context, tenantID, id string) (*models.Forecast, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.m[tenantID+"/"+id]
	if !ok {
		return nil, models.ErrForecastNotFound
	}
	cp := *f
	return &cp, nil
}

func (s *memForecastStore) List(_ context.Context, tenantID string, filter domrepo.ListFilter, page domrepo.Page) ([]*models.Forecast, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var all []*models.Forecast
	for _, f := range s.m {
		if f.TenantID != tenantID {
			continue
		}
		if filter.MetricType != "" && f.MetricType != filter.MetricType {
			continue
		}
		all = append(all, f)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	total := len(all)
	if page.Offset >= total {
		return nil, total, nil
	}
	end := page.Offset + page.Limit
	if end > total {
		end = total
	}
	return all[page.Offset:end], total, nil
}

func (s *memForecastStore) UpdateAccuracy(_ context.Context, tenantID, id string, accuracy float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.m[tenantID+"/"+id]
	if !ok {
		return models.ErrForecastNotFound
	}
	f.Accuracy = &accuracy
	return nil
}

func (s *memForecastStore) Health(context.Context) error { return nil }
func (s *memForecastStore) Close() error                 { return nil }

type fakePublisher struct {
	mu     sync.Mutex
	events []models.ForecastCreated
}

func (p *fakePublisher) ForecastCreated(_ context.Context, ev models.ForecastCreated) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *fakePublisher) Close() error { return nil }

type nopMetrics struct{}

func (nopMetrics) RecordForecast(string, string)    {}
func (nopMetrics) RecordConfidence(string, float64) {}
func (nopMetrics) RecordAccuracy(string, float64)   {}
func (nopMetrics) RecordError(string)               {}
func (nopMetrics) RecordLatency(string, float64)    {}

var testStart = time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

func growingHistory(months int) models.TimeSeries {
	out := make(models.TimeSeries, months)
	for i := 0; i < months; i++ {
		out[i] = models.TimeSeriesPoint{
			Date:  util.AddMonths(testStart, i-months),
			Value: 1000 + 50*float64(i),
		}
	}
	return out
}

func newTestService(history models.TimeSeries) (*Service, *memForecastStore, *fakePublisher) {
	store := newMemForecastStore()
	pub := &fakePublisher{}
	svc := NewService(&fakeHistory{series: history}, store, pub, nopMetrics{}, applogger.Nop(), Options{})
	return svc, store, pub
}

func TestGenerateMovingAverageForecast(t *testing.T) {
	svc, store, pub := newTestService(growingHistory(24))

	f, err := svc.Generate(context.Background(), "tenant-1", "user-1", models.ForecastRequest{
		MetricType: models.MetricRevenue,
		StartDate:  testStart,
		Method:     models.MethodMovingAverage,
	})
	require.NoError(t, err)
	require.NotNil(t, f)

	assert.NotEmpty(t, f.ID)
	assert.Equal(t, "tenant-1", f.TenantID)
	assert.Equal(t, models.PeriodMonthly, f.Period, "period defaults to monthly")
	assert.Equal(t, testStart, f.StartDate)
	assert.Len(t, f.Projection, 12, "default horizon")
	assert.Equal(t, models.StatusActive, f.Status)
	assert.Equal(t, "user-1", f.CreatedBy)
	assert.Nil(t, f.Accuracy)

	// Last three history values: 2050, 2100, 2150.
	assert.InDelta(t, 2100, f.BaseValue, 1e-9)
	assert.InDelta(t, 2100, f.ProjectedValue, 1e-9)

	stored, err := store.Get(context.Background(), "tenant-1", f.ID)
	require.NoError(t, err)
	assert.Equal(t, f.ProjectedValue, stored.ProjectedValue)

	require.Len(t, pub.events, 1)
	assert.Equal(t, f.ID, pub.events[0].ForecastID)
}

func TestGenerateHorizonFromEndDate(t *testing.T) {
	svc, _, _ := newTestService(growingHistory(24))

	f, err := svc.Generate(context.Background(), "t", "u", models.ForecastRequest{
		MetricType: models.MetricOccupancy,
		StartDate:  testStart,
		EndDate:    util.AddMonths(testStart, 5),
		Method:     models.MethodLinearRegression,
	})
	require.NoError(t, err)
	assert.Len(t, f.Projection, 6)
	assert.Equal(t, util.AddMonths(testStart, 5), f.EndDate)
}

func TestGenerateAssumptionsAndRisks(t *testing.T) {
	svc, _, _ := newTestService(growingHistory(24))

	f, err := svc.Generate(context.Background(), "t", "u", models.ForecastRequest{
		MetricType: models.MetricRevenue,
		StartDate:  testStart,
		Method:     models.MethodLinearRegression,
	})
	require.NoError(t, err)

	assert.Contains(t, f.Assumptions, "Historical patterns continue")
	assert.Contains(t, f.Assumptions, "Linear relationship between time and value holds")
	assert.Contains(t, f.Assumptions, "Current increasing trend continues")
	assert.Contains(t, f.Risks, "Economic conditions may change")
	assert.NotContains(t, f.Risks, "Declining trend may continue")
	assert.Equal(t, models.TrendIncreasing, f.Trend.Direction)
}

func TestGenerateDecliningSeriesRisks(t *testing.T) {
	months := 24
	series := make(models.TimeSeries, months)
	for i := 0; i < months; i++ {
		series[i] = models.TimeSeriesPoint{
			Date:  util.AddMonths(testStart, i-months),
			Value: 5000 * 0.9 * float64(months-i) / float64(months),
		}
	}
	svc, _, _ := newTestService(series)

	f, err := svc.Generate(context.Background(), "t", "u", models.ForecastRequest{
		MetricType: models.MetricCashFlow,
		StartDate:  testStart,
		Method:     models.MethodMovingAverage,
	})
	require.NoError(t, err)
	assert.Equal(t, models.TrendDecreasing, f.Trend.Direction)
	assert.Contains(t, f.Risks, "Declining trend may continue")
}

func TestGenerateUnsupportedMethod(t *testing.T) {
	svc, _, _ := newTestService(growingHistory(24))

	_, err := svc.Generate(context.Background(), "t", "u", models.ForecastRequest{
		MetricType: models.MetricRevenue,
		StartDate:  testStart,
		Method:     models.ForecastMethod("crystal_ball"),
	})
	assert.ErrorIs(t, err, models.ErrUnsupportedMethod)
}

func TestGenerateEmptyHistory(t *testing.T) {
	svc, _, _ := newTestService(nil)

	_, err := svc.Generate(context.Background(), "t", "u", models.ForecastRequest{
		MetricType: models.MetricRevenue,
		StartDate:  testStart,
		Method:     models.MethodMovingAverage,
	})
	assert.ErrorIs(t, err, models.ErrEmptySeries)
}

func TestGenerateInvalidRequest(t *testing.T) {
	svc, _, _ := newTestService(growingHistory(24))

	_, err := svc.Generate(context.Background(), "t", "u", models.ForecastRequest{
		MetricType: models.MetricType("clicks"),
		StartDate:  testStart,
		Method:     models.MethodMovingAverage,
	})
	assert.ErrorIs(t, err, models.ErrInvalidRequest)
}

func TestUpdateAccuracyRoundTrip(t *testing.T) {
	svc, store, _ := newTestService(growingHistory(24))

	f := &models.Forecast{ID: "f-1", TenantID: "t", MetricType: models.MetricRevenue, ProjectedValue: 100}
	require.NoError(t, store.Insert(context.Background(), f))

	require.NoError(t, svc.UpdateAccuracy(context.Background(), "t", "f-1", 90))
	got, err := store.Get(context.Background(), "t", "f-1")
	require.NoError(t, err)
	require.NotNil(t, got.Accuracy)
	assert.InDelta(t, 90, *got.Accuracy, 1e-9)
}

func TestUpdateAccuracyZeroProjection(t *testing.T) {
	svc, store, _ := newTestService(nil)

	f := &models.Forecast{ID: "f-0", TenantID: "t", MetricType: models.MetricProfit, ProjectedValue: 0}
	require.NoError(t, store.Insert(context.Background(), f))

	require.NoError(t, svc.UpdateAccuracy(context.Background(), "t", "f-0", 500))
	got, err := store.Get(context.Background(), "t", "f-0")
	require.NoError(t, err)
	require.NotNil(t, got.Accuracy)
	assert.Zero(t, *got.Accuracy)
}

func TestUpdateAccuracyNotFound(t *testing.T) {
	svc, _, _ := newTestService(nil)
	err := svc.UpdateAccuracy(context.Background(), "t", "missing", 100)
	assert.ErrorIs(t, err, models.ErrForecastNotFound)
}

func TestAccuracyFormula(t *testing.T) {
	assert.InDelta(t, 90, Accuracy(100, 90), 1e-9)
	assert.InDelta(t, 90, Accuracy(100, 110), 1e-9)
	assert.InDelta(t, 100, Accuracy(250, 250), 1e-9)
	assert.Zero(t, Accuracy(0, 90))
	// Wildly wrong forecasts floor at zero rather than going negative.
	assert.Zero(t, Accuracy(100, 500))
}

func TestListPagination(t *testing.T) {
	svc, store, _ := newTestService(nil)
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, store.Insert(context.Background(), &models.Forecast{
			ID: id, TenantID: "t", MetricType: models.MetricRevenue,
		}))
	}

	page, err := svc.List(context.Background(), "t", domrepo.ListFilter{}, domrepo.Page{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, 3, page.Total)
	assert.True(t, page.HasMore)

	page, err = svc.List(context.Background(), "t", domrepo.ListFilter{}, domrepo.Page{Offset: 2, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
	assert.False(t, page.HasMore)
}
