package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gcortinez/sweetspot-cowork-sub006/internal/domain/models"
	domrepo "github.com/gcortinez/sweetspot-cowork-sub006/internal/domain/repository"
	pkgkafka "github.com/gcortinez/sweetspot-cowork-sub006/pkg/kafka"
	applogger "github.com/gcortinez/sweetspot-cowork-sub006/pkg/logger"
)

// ActualsHandler consumes observed-actual events and feeds them into
// the accuracy updater. An actual for an unknown forecast is dropped
// (logged, not retried): the forecast was deleted or never replicated,
// so retrying cannot succeed.
type ActualsHandler struct {
	topic   string
	svc     *Service
	metrics domrepo.Metrics
	log     *applogger.Logger
}

func NewActualsHandler(topic string, svc *Service, metrics domrepo.Metrics, log *applogger.Logger) *ActualsHandler {
	return &ActualsHandler{topic: topic, svc: svc, metrics: metrics, log: log}
}

func (h *ActualsHandler) Topic() string { return h.topic }

func (h *ActualsHandler) Handle(ctx context.Context, b []byte) error {
	var ev models.ActualObserved
	if err := json.Unmarshal(b, &ev); err != nil {
		h.metrics.RecordError("actuals_unmarshal")
		return fmt.Errorf("decode actual event: %w", err)
	}
	if ev.TenantID == "" || ev.ForecastID == "" {
		h.metrics.RecordError("actuals_invalid")
		return fmt.Errorf("actual event missing tenant or forecast id")
	}

	err := h.svc.UpdateAccuracy(ctx, ev.TenantID, ev.ForecastID, ev.ActualValue)
	if errors.Is(err, models.ErrForecastNotFound) {
		h.metrics.RecordError("actuals_unknown_forecast")
		h.log.Warn("actual observed for unknown forecast",
			applogger.String("tenant", ev.TenantID),
			applogger.String("forecast_id", ev.ForecastID),
		)
		return nil
	}
	return err
}

var _ pkgkafka.MessageHandler = (*ActualsHandler)(nil)
