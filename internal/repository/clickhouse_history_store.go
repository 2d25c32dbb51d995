package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/gcortinez/sweetspot-cowork-sub006/internal/domain/models"
	domrepo "github.com/gcortinez/sweetspot-cowork-sub006/internal/domain/repository"
	pkgch "github.com/gcortinez/sweetspot-cowork-sub006/pkg/clickhouse"
	applogger "github.com/gcortinez/sweetspot-cowork-sub006/pkg/logger"
	"github.com/gcortinez/sweetspot-cowork-sub006/pkg/util"
)

// CHHistoryStore reads pre-aggregated monthly metric rows from
// ClickHouse. The metrics_monthly table is maintained by the reporting
// pipeline; this store is read-only.
type CHHistoryStore struct {
	client *pkgch.Client
	table  string
	log    *applogger.Logger
}

func NewCHHistoryStore(client *pkgch.Client, table string, log *applogger.Logger) *CHHistoryStore {
	if table == "" {
		table = "metrics_monthly"
	}
	return &CHHistoryStore{client: client, table: table, log: log}
}

func (s *CHHistoryStore) Monthly(ctx context.Context, tenantID string, metric models.MetricType, from, to time.Time) (models.TimeSeries, error) {
	start := time.Now()
	q := fmt.Sprintf(`
        SELECT month, value
        FROM %s
        WHERE tenant_id = ? AND metric = ? AND month >= ? AND month <= ?
        ORDER BY month ASC
    `, s.table)

	rows, err := s.client.DB().QueryContext(ctx, q, tenantID, string(metric), util.StartOfMonth(from), util.StartOfMonth(to))
	if err != nil {
		s.log.Error("clickhouse monthly query error",
			applogger.String("tenant", tenantID),
			applogger.String("metric", string(metric)),
			applogger.Error(err),
		)
		return nil, fmt.Errorf("query monthly series: %w", err)
	}
	defer rows.Close()

	out := make(models.TimeSeries, 0, 64)
	for rows.Next() {
		var p models.TimeSeriesPoint
		if err := rows.Scan(&p.Date, &p.Value); err != nil {
			return nil, fmt.Errorf("scan monthly point: %w", err)
		}
		p.Date = util.StartOfMonth(p.Date)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	s.log.Debug("clickhouse monthly series loaded",
		applogger.String("tenant", tenantID),
		applogger.String("metric", string(metric)),
		applogger.Int("points", len(out)),
		applogger.Duration("duration", time.Since(start)),
	)
	return out, nil
}

func (s *CHHistoryStore) Health(ctx context.Context) error { return s.client.Health(ctx) }

func (s *CHHistoryStore) Close() error { return s.client.Close() }

var _ domrepo.HistoryStore = (*CHHistoryStore)(nil)
