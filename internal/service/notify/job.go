package notify

import (
	"context"
	"fmt"

	"FedPulse/internal/domain/models"
	"FedPulse/pkg/queue"
)

// TriggerMessageType is the queue message type carrying fired triggers.
const TriggerMessageType = "alert.trigger"

// TriggerNotifyJob consumes queued triggers and pushes them to WebSocket
// clients through the hub.
type TriggerNotifyJob struct {
	hub *Hub
}

func NewTriggerNotifyJob(hub *Hub) *TriggerNotifyJob {
	return &TriggerNotifyJob{hub: hub}
}

func (j *TriggerNotifyJob) Name() string { return "trigger-notify" }

func (j *TriggerNotifyJob) Type() string { return TriggerMessageType }

func (j *TriggerNotifyJob) Handle(ctx context.Context, payload interface{}) error {
	t, err := queue.ParsePayload[models.AlertTrigger](payload)
	if err != nil {
		return fmt.Errorf("trigger notify payload: %w", err)
	}
	j.hub.Broadcast(t)
	return nil
}

var _ queue.Job = (*TriggerNotifyJob)(nil)
