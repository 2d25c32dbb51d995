package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/gcortinez/sweetspot-cowork-sub006/internal/domain/models"
	domrepo "github.com/gcortinez/sweetspot-cowork-sub006/internal/domain/repository"
	applogger "github.com/gcortinez/sweetspot-cowork-sub006/pkg/logger"
	pkgpg "github.com/gcortinez/sweetspot-cowork-sub006/pkg/postgres"
)

// PGForecastStore persists forecast records in Postgres. Structured
// sub-documents (projection, analyses, parameters) are stored as JSONB;
// the columns that drive filtering stay relational.
type PGForecastStore struct {
	db  *sql.DB
	log *applogger.Logger
}

func NewPGForecastStore(client *pkgpg.Client, log *applogger.Logger) *PGForecastStore {
	return &PGForecastStore{db: client.DB(), log: log}
}

// Schema returns idempotent DDL for the forecasts table.
func Schema() []string {
	return []string{`
        CREATE TABLE IF NOT EXISTS forecasts (
            id              TEXT PRIMARY KEY,
            tenant_id       TEXT NOT NULL,
            metric          TEXT NOT NULL,
            period          TEXT NOT NULL,
            start_date      TIMESTAMPTZ NOT NULL,
            end_date        TIMESTAMPTZ NOT NULL,
            base_value      DOUBLE PRECISION NOT NULL,
            projected_value DOUBLE PRECISION NOT NULL,
            confidence      DOUBLE PRECISION NOT NULL,
            method          TEXT NOT NULL,
            method_params   JSONB NOT NULL DEFAULT '{}',
            projection      JSONB NOT NULL DEFAULT '[]',
            assumptions     JSONB NOT NULL DEFAULT '[]',
            risks           JSONB NOT NULL DEFAULT '[]',
            trend           JSONB NOT NULL DEFAULT '{}',
            seasonality     JSONB NOT NULL DEFAULT '{}',
            accuracy        DOUBLE PRECISION,
            status          TEXT NOT NULL,
            notes           TEXT NOT NULL DEFAULT '',
            created_by      TEXT NOT NULL,
            created_at      TIMESTAMPTZ NOT NULL
        )`,
		`CREATE INDEX IF NOT EXISTS forecasts_tenant_created_idx
            ON forecasts (tenant_id, created_at DESC)`,
	}
}

func (s *PGForecastStore) Insert(ctx context.Context, f *models.Forecast) error {
	methodParams, err := json.Marshal(f.MethodParams)
	if err != nil {
		return fmt.Errorf("marshal method params: %w", err)
	}
	projection, err := json.Marshal(f.Projection)
	if err != nil {
		return fmt.Errorf("marshal projection: %w", err)
	}
	assumptions, err := json.Marshal(f.Assumptions)
	if err != nil {
		return fmt.Errorf("marshal assumptions: %w", err)
	}
	risks, err := json.Marshal(f.Risks)
	if err != nil {
		return fmt.Errorf("marshal risks: %w", err)
	}
	trend, err := json.Marshal(f.Trend)
	if err != nil {
		return fmt.Errorf("marshal trend: %w", err)
	}
	seasonality, err := json.Marshal(f.Seasonality)
	if err != nil {
		return fmt.Errorf("marshal seasonality: %w", err)
	}

	const q = `
        INSERT INTO forecasts (
            id, tenant_id, metric, period, start_date, end_date,
            base_value, projected_value, confidence, method,
            method_params, projection, assumptions, risks,
            trend, seasonality, status, notes, created_by, created_at
        ) VALUES (
            $1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
            $11, $12, $13, $14, $15, $16, $17, $18, $19, $20
        )`
	_, err = s.db.ExecContext(ctx, q,
		f.ID, f.TenantID, string(f.MetricType), string(f.Period), f.StartDate, f.EndDate,
		f.BaseValue, f.ProjectedValue, f.Confidence, string(f.Method),
		methodParams, projection, assumptions, risks,
		trend, seasonality, string(f.Status), f.Notes, f.CreatedBy, f.CreatedAt,
	)
	if err != nil {
		s.log.Error("forecast insert failed",
			applogger.String("tenant", f.TenantID),
			applogger.String("forecast_id", f.ID),
			applogger.Error(err),
		)
		return fmt.Errorf("insert forecast: %w", err)
	}
	return nil
}

const selectColumns = `
    id, tenant_id, metric, period, start_date, end_date,
    base_value, projected_value, confidence, method,
    method_params, projection, assumptions, risks,
    trend, seasonality, accuracy, status, notes, created_by, created_at`

func (s *PGForecastStore) Get(ctx context.Context, tenantID, id string) (*models.Forecast, error) {
	q := fmt.Sprintf(`SELECT %s FROM forecasts WHERE tenant_id = $1 AND id = $2`, selectColumns)
	f, err := scanForecast(s.db.QueryRowContext(ctx, q, tenantID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrForecastNotFound
		}
		return nil, fmt.Errorf("get forecast: %w", err)
	}
	return f, nil
}

func (s *PGForecastStore) List(ctx context.Context, tenantID string, filter domrepo.ListFilter, page domrepo.Page) ([]*models.Forecast, int, error) {
	where := []string{"tenant_id = $1"}
	args := []any{tenantID}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if filter.MetricType != "" {
		where = append(where, "metric = "+arg(string(filter.MetricType)))
	}
	if filter.Method != "" {
		where = append(where, "method = "+arg(string(filter.Method)))
	}
	if filter.Status != "" {
		where = append(where, "status = "+arg(string(filter.Status)))
	}
	if !filter.From.IsZero() {
		where = append(where, "created_at >= "+arg(filter.From))
	}
	if !filter.To.IsZero() {
		where = append(where, "created_at <= "+arg(filter.To))
	}
	cond := strings.Join(where, " AND ")

	var total int
	countQ := "SELECT count(*) FROM forecasts WHERE " + cond
	if err := s.db.QueryRowContext(ctx, countQ, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count forecasts: %w", err)
	}

	q := fmt.Sprintf(`SELECT %s FROM forecasts WHERE %s ORDER BY created_at DESC LIMIT %s OFFSET %s`,
		selectColumns, cond, arg(page.Limit), arg(page.Offset))
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list forecasts: %w", err)
	}
	defer rows.Close()

	out := make([]*models.Forecast, 0, page.Limit)
	for rows.Next() {
		f, err := scanForecast(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan forecast: %w", err)
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows: %w", err)
	}
	return out, total, nil
}

func (s *PGForecastStore) UpdateAccuracy(ctx context.Context, tenantID, id string, accuracy float64) error {
	const q = `UPDATE forecasts SET accuracy = $1 WHERE tenant_id = $2 AND id = $3`
	res, err := s.db.ExecContext(ctx, q, accuracy, tenantID, id)
	if err != nil {
		return fmt.Errorf("update accuracy: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return models.ErrForecastNotFound
	}
	return nil
}

func (s *PGForecastStore) Health(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *PGForecastStore) Close() error { return s.db.Close() }

type rowScanner interface {
	Scan(dest ...any) error
}

func scanForecast(row rowScanner) (*models.Forecast, error) {
	var (
		f                     models.Forecast
		metric, period        string
		method, status        string
		methodParams          []byte
		projection            []byte
		assumptions, risks    []byte
		trend, seasonality    []byte
		accuracy              sql.NullFloat64
	)
	err := row.Scan(
		&f.ID, &f.TenantID, &metric, &period, &f.StartDate, &f.EndDate,
		&f.BaseValue, &f.ProjectedValue, &f.Confidence, &method,
		&methodParams, &projection, &assumptions, &risks,
		&trend, &seasonality, &accuracy, &status, &f.Notes, &f.CreatedBy, &f.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	f.MetricType = models.MetricType(metric)
	f.Period = models.PeriodType(period)
	f.Method = models.ForecastMethod(method)
	f.Status = models.ForecastStatus(status)
	if accuracy.Valid {
		f.Accuracy = &accuracy.Float64
	}
	if err := json.Unmarshal(methodParams, &f.MethodParams); err != nil {
		return nil, fmt.Errorf("decode method params: %w", err)
	}
	if err := json.Unmarshal(projection, &f.Projection); err != nil {
		return nil, fmt.Errorf("decode projection: %w", err)
	}
	if err := json.Unmarshal(assumptions, &f.Assumptions); err != nil {
		return nil, fmt.Errorf("decode assumptions: %w", err)
	}
	if err := json.Unmarshal(risks, &f.Risks); err != nil {
		return nil, fmt.Errorf("decode risks: %w", err)
	}
	if err := json.Unmarshal(trend, &f.Trend); err != nil {
		return nil, fmt.Errorf("decode trend: %w", err)
	}
	if err := json.Unmarshal(seasonality, &f.Seasonality); err != nil {
		return nil, fmt.Errorf("decode seasonality: %w", err)
	}
	return &f, nil
}

var _ domrepo.ForecastStore = (*PGForecastStore)(nil)
