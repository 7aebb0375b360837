package usecase

import (
	"context"
	"encoding/json"
	"time"

	"FedPulse/internal/domain/models"
	domrepo "FedPulse/internal/domain/repository"
	pkgkafka "FedPulse/pkg/kafka"
)

// KafkaTriggersHandler consumes trigger events from Kafka and writes them to
// the durable trigger log.
type KafkaTriggersHandler struct {
	topic   string
	log     domrepo.TriggerLog
	metrics domrepo.Metrics
}

func NewKafkaTriggersHandler(topic string, log domrepo.TriggerLog, metrics domrepo.Metrics) *KafkaTriggersHandler {
	return &KafkaTriggersHandler{topic: topic, log: log, metrics: metrics}
}

func (h *KafkaTriggersHandler) Topic() string { return h.topic }

// incoming message schema mirrors KafkaTriggerPublisher's payload
func (h *KafkaTriggersHandler) Handle(ctx context.Context, b []byte) error {
	var m struct {
		AlertID       string  `json:"alert_id"`
		Signal        string  `json:"signal"`
		PreviousValue float64 `json:"previous_value"`
		CurrentValue  float64 `json:"current_value"`
		Threshold     float64 `json:"threshold"`
		Condition     string  `json:"condition"`
		TriggeredAt   string  `json:"triggered_at"`
	}
	if err := json.Unmarshal(b, &m); err != nil {
		h.metrics.RecordError("consumer_unmarshal")
		return err
	}
	triggeredAt, err := time.Parse(time.RFC3339, m.TriggeredAt)
	if err != nil {
		h.metrics.RecordError("consumer_timestamp")
		return err
	}
	h.metrics.RecordLatency("trigger_e2e_seconds", time.Since(triggeredAt).Seconds())

	start := time.Now()
	err = h.log.Insert(ctx, &models.AlertTrigger{
		AlertID:       m.AlertID,
		SignalType:    models.SignalType(m.Signal),
		PreviousValue: m.PreviousValue,
		CurrentValue:  m.CurrentValue,
		Threshold:     m.Threshold,
		Condition:     models.AlertCondition(m.Condition),
		TriggeredAt:   triggeredAt,
	})
	h.metrics.RecordLatency("ch_insert_seconds", time.Since(start).Seconds())
	if err != nil {
		h.metrics.RecordError("consumer_store")
		return err
	}
	h.metrics.RecordTriggerPublished("clickhouse", m.Signal)
	return nil
}

var _ pkgkafka.MessageHandler = (*KafkaTriggersHandler)(nil)
