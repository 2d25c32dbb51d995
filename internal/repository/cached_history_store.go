package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gcortinez/sweetspot-cowork-sub006/internal/domain/models"
	domrepo "github.com/gcortinez/sweetspot-cowork-sub006/internal/domain/repository"
	"github.com/gcortinez/sweetspot-cowork-sub006/pkg/cache"
	applogger "github.com/gcortinez/sweetspot-cowork-sub006/pkg/logger"
)

// CachedHistoryStore memoizes monthly series lookups. Historical
// aggregates only change when the reporting pipeline backfills, so a
// short TTL is safe and saves a ClickHouse round-trip per forecast.
type CachedHistoryStore struct {
	inner domrepo.HistoryStore
	cache cache.BytesCache
	ttl   time.Duration
	log   *applogger.Logger
}

func NewCachedHistoryStore(inner domrepo.HistoryStore, c cache.BytesCache, ttl time.Duration, log *applogger.Logger) *CachedHistoryStore {
	return &CachedHistoryStore{inner: inner, cache: c, ttl: ttl, log: log}
}

func (s *CachedHistoryStore) Monthly(ctx context.Context, tenantID string, metric models.MetricType, from, to time.Time) (models.TimeSeries, error) {
	key := fmt.Sprintf("series:%s:%s:%s:%s",
		tenantID, metric, from.Format("2006-01"), to.Format("2006-01"))

	if b, ok, err := s.cache.GetBytes(key); err == nil && ok {
		var series models.TimeSeries
		if err := json.Unmarshal(b, &series); err == nil {
			return series, nil
		}
	} else if err != nil {
		s.log.Warn("series cache read failed", applogger.String("key", key), applogger.Error(err))
	}

	series, err := s.inner.Monthly(ctx, tenantID, metric, from, to)
	if err != nil {
		return nil, err
	}

	if b, err := json.Marshal(series); err == nil {
		if err := s.cache.SetBytes(key, b, s.ttl); err != nil {
			s.log.Warn("series cache write failed", applogger.String("key", key), applogger.Error(err))
		}
	}
	return series, nil
}

func (s *CachedHistoryStore) Health(ctx context.Context) error { return s.inner.Health(ctx) }

func (s *CachedHistoryStore) Close() error { return s.inner.Close() }

var _ domrepo.HistoryStore = (*CachedHistoryStore)(nil)
