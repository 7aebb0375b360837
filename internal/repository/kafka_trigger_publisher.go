package repository

import (
	"context"

	"FedPulse/internal/domain/models"
	"FedPulse/internal/domain/repository"
	pkgkafka "FedPulse/pkg/kafka"
)

// KafkaTriggerPublisher implements TriggerPublisher for Kafka. Messages are
// keyed by signal type so all triggers for one signal land on one partition
// in firing order.
type KafkaTriggerPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaTriggerPublisher creates a Kafka trigger publisher.
func NewKafkaTriggerPublisher(producer *pkgkafka.Producer, topic string) repository.TriggerPublisher {
	return &KafkaTriggerPublisher{producer: producer, topic: topic}
}

func triggerPayload(t *models.AlertTrigger) map[string]interface{} {
	return map[string]interface{}{
		"alert_id":       t.AlertID,
		"signal":         string(t.SignalType),
		"previous_value": t.PreviousValue,
		"current_value":  t.CurrentValue,
		"threshold":      t.Threshold,
		"condition":      string(t.Condition),
		"triggered_at":   t.TriggeredAt.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
	}
}

func (p *KafkaTriggerPublisher) Publish(ctx context.Context, t *models.AlertTrigger) error {
	return p.producer.Publish(ctx, p.topic, []byte(t.SignalType), triggerPayload(t))
}

func (p *KafkaTriggerPublisher) PublishBatch(ctx context.Context, triggers []*models.AlertTrigger) error {
	if len(triggers) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, len(triggers))
	for i, t := range triggers {
		msgs[i] = pkgkafka.Message{
			Key:   []byte(t.SignalType),
			Value: triggerPayload(t),
		}
	}
	return p.producer.PublishBatch(ctx, p.topic, msgs)
}

func (p *KafkaTriggerPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
