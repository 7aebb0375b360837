package repository

import (
	"context"

	"FedPulse/internal/domain/models"
)

// SeriesSource fetches raw observations for one economic series. Start and
// end are inclusive ISO dates; empty strings mean unbounded.
type SeriesSource interface {
	Fetch(ctx context.Context, seriesID, start, end string) ([]models.Observation, error)
}

// AlertStore holds the canonical alert configurations. The evaluator never
// writes here directly; the alert usecase reads, evaluates, and writes back
// the updated copies. Implementations must serialize writes per alert id.
type AlertStore interface {
	List(ctx context.Context) ([]models.AlertConfig, error)
	Get(ctx context.Context, id string) (*models.AlertConfig, error)
	Save(ctx context.Context, alert models.AlertConfig) error
	Delete(ctx context.Context, id string) error
}

// TriggerPublisher streams fired triggers to downstream consumers.
type TriggerPublisher interface {
	Publish(ctx context.Context, t *models.AlertTrigger) error
	PublishBatch(ctx context.Context, triggers []*models.AlertTrigger) error
	Close() error
}

// TriggerLog is the durable trigger history.
type TriggerLog interface {
	Insert(ctx context.Context, t *models.AlertTrigger) error
	InsertBatch(ctx context.Context, triggers []*models.AlertTrigger) error
	Recent(ctx context.Context, limit int) ([]models.AlertTrigger, error)
	Health(ctx context.Context) error
	Close() error
}

type Metrics interface {
	RecordTriggerPublished(backend string, signal string)
	RecordError(kind string)
	RecordSignalValue(signal string, value float64)
	RecordLatency(op string, seconds float64)
}
