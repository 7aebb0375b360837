package usecase

import (
	"context"
	"fmt"
	"time"

	"FedPulse/internal/domain/models"
	domrepo "FedPulse/internal/domain/repository"
	mid "FedPulse/internal/middleware"
	"FedPulse/internal/service/notify"
	"FedPulse/internal/services/alerts"
	applogger "FedPulse/pkg/logger"
	"FedPulse/pkg/queue"

	"github.com/google/uuid"
)

// AlertUseCase owns the alert lifecycle: CRUD against the store plus the
// periodic evaluation cycle that turns signal snapshots into triggers.
type AlertUseCase struct {
	store    domrepo.AlertStore
	signals  *SignalUseCase
	pipe     *mid.TriggerPipeline
	notifyQ  queue.QueueService
	log      domrepo.TriggerLog
	metrics  domrepo.Metrics
	l        *applogger.Logger
}

func NewAlertUseCase(
	store domrepo.AlertStore,
	signals *SignalUseCase,
	pipe *mid.TriggerPipeline,
	notifyQ queue.QueueService,
	log domrepo.TriggerLog,
	metrics domrepo.Metrics,
	l *applogger.Logger,
) *AlertUseCase {
	return &AlertUseCase{
		store:   store,
		signals: signals,
		pipe:    pipe,
		notifyQ: notifyQ,
		log:     log,
		metrics: metrics,
		l:       l,
	}
}

// Create registers a new alert. The system assigns the id and creation time.
func (uc *AlertUseCase) Create(ctx context.Context, req *models.CreateAlertRequest) (*models.AlertConfig, error) {
	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}
	alert := models.AlertConfig{
		ID:              uuid.NewString(),
		SignalType:      models.SignalType(req.SignalType),
		Condition:       models.AlertCondition(req.Condition),
		Threshold:       req.Threshold,
		Enabled:         enabled,
		CreatedAt:       time.Now().UTC(),
		CooldownMinutes: req.CooldownMinutes,
	}
	if err := uc.store.Save(ctx, alert); err != nil {
		return nil, fmt.Errorf("create alert: %w", err)
	}
	uc.l.Info("alert created",
		applogger.String("id", alert.ID),
		applogger.String("signal", string(alert.SignalType)),
		applogger.String("condition", string(alert.Condition)),
	)
	return &alert, nil
}

// List returns all alerts ordered by creation time.
func (uc *AlertUseCase) List(ctx context.Context) ([]models.AlertConfig, error) {
	return uc.store.List(ctx)
}

// Get returns one alert, nil when the id is unknown.
func (uc *AlertUseCase) Get(ctx context.Context, id string) (*models.AlertConfig, error) {
	return uc.store.Get(ctx, id)
}

// Update applies user edits. Only enabled, threshold, and cooldown are user
// editable; previousValue and lastTriggeredAt belong to the evaluator.
func (uc *AlertUseCase) Update(ctx context.Context, id string, req *models.UpdateAlertRequest) (*models.AlertConfig, error) {
	alert, err := uc.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if alert == nil {
		return nil, nil
	}
	if req.Threshold != nil {
		alert.Threshold = *req.Threshold
	}
	if req.CooldownMinutes != nil {
		alert.CooldownMinutes = *req.CooldownMinutes
	}
	if req.Enabled != nil {
		alert.Enabled = *req.Enabled
	}
	if err := uc.store.Save(ctx, *alert); err != nil {
		return nil, fmt.Errorf("update alert: %w", err)
	}
	return alert, nil
}

// Delete removes an alert by id.
func (uc *AlertUseCase) Delete(ctx context.Context, id string) error {
	return uc.store.Delete(ctx, id)
}

// TriggerHistory returns the most recent trigger events, newest first.
func (uc *AlertUseCase) TriggerHistory(ctx context.Context, limit int) ([]models.AlertTrigger, error) {
	if uc.log == nil {
		return []models.AlertTrigger{}, nil
	}
	return uc.log.Recent(ctx, limit)
}

// EvaluateCycle runs one full evaluation pass: compute current signals, run
// every stored alert through the evaluator, persist the updated copies, and
// push fired triggers downstream. It returns the triggers that fired.
//
// The store is read-modify-write with at most one cycle in flight; the
// poller serializes cycles and the HTTP check endpoint shares the same
// usecase instance.
func (uc *AlertUseCase) EvaluateCycle(ctx context.Context) ([]models.AlertTrigger, error) {
	start := time.Now()
	defer func() {
		uc.metrics.RecordLatency("alert_cycle", time.Since(start).Seconds())
	}()

	stored, err := uc.store.List(ctx)
	if err != nil {
		uc.metrics.RecordError("alert_list")
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	if len(stored) == 0 {
		return nil, nil
	}

	snapshots, err := uc.signals.ComputeAll(ctx)
	if err != nil {
		uc.metrics.RecordError("alert_signals")
		return nil, fmt.Errorf("compute signals: %w", err)
	}

	now := time.Now().UTC()
	result := alerts.EvaluateAll(stored, snapshots, now)

	for _, updated := range result.UpdatedAlerts {
		if err := uc.store.Save(ctx, updated); err != nil {
			uc.metrics.RecordError("alert_save")
			uc.l.Error("alert state write-back failed",
				applogger.String("id", updated.ID),
				applogger.Error(err),
			)
		}
	}

	for i := range result.Triggers {
		t := &result.Triggers[i]
		uc.l.Info("alert fired",
			applogger.String("id", t.AlertID),
			applogger.String("signal", string(t.SignalType)),
			applogger.String("condition", string(t.Condition)),
			applogger.Any("previous", t.PreviousValue),
			applogger.Any("current", t.CurrentValue),
		)
		if uc.pipe != nil {
			if err := uc.pipe.Process(ctx, t); err != nil {
				uc.l.Warn("trigger publish deferred", applogger.Error(err))
			}
		}
		if uc.notifyQ != nil {
			if err := uc.notifyQ.PublishMessage(ctx, notify.TriggerMessageType, t); err != nil {
				uc.metrics.RecordError("trigger_notify")
				uc.l.Warn("trigger notify enqueue failed", applogger.Error(err))
			}
		}
	}

	return result.Triggers, nil
}
