package models

import "time"

// AlertCondition is the edge a threshold alert watches for.
type AlertCondition string

const (
	CrossesAbove AlertCondition = "crosses_above"
	CrossesBelow AlertCondition = "crosses_below"
	AnyChange    AlertCondition = "any_change"
)

// IsValidAlertCondition returns true if c is a supported condition.
func IsValidAlertCondition(c AlertCondition) bool {
	switch c {
	case CrossesAbove, CrossesBelow, AnyChange:
		return true
	default:
		return false
	}
}

// AlertConfig is a user-configured threshold alert. The store holds the
// canonical copy; the evaluator returns updated copies and never mutates
// in place. PreviousValue and LastTriggeredAt move only forward in time
// and only through the evaluator.
type AlertConfig struct {
	ID              string         `json:"id"`
	SignalType      SignalType     `json:"signal_type"`
	Condition       AlertCondition `json:"condition"`
	Threshold       float64        `json:"threshold"`
	Enabled         bool           `json:"enabled"`
	CreatedAt       time.Time      `json:"created_at"`
	CooldownMinutes int            `json:"cooldown_minutes"`
	LastTriggeredAt *time.Time     `json:"last_triggered_at,omitempty"`
	PreviousValue   *float64       `json:"previous_value,omitempty"`
}

// AlertTrigger is an immutable firing event, created exactly once per
// firing. Acknowledged is a display concern the evaluation engine ignores.
type AlertTrigger struct {
	AlertID       string         `json:"alert_id"`
	SignalType    SignalType     `json:"signal_type"`
	PreviousValue float64        `json:"previous_value"`
	CurrentValue  float64        `json:"current_value"`
	Threshold     float64        `json:"threshold"`
	Condition     AlertCondition `json:"condition"`
	TriggeredAt   time.Time      `json:"triggered_at"`
	Acknowledged  bool           `json:"acknowledged"`
}
