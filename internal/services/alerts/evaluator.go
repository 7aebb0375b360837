package alerts

import (
	"time"

	"FedPulse/internal/domain/models"
	"FedPulse/internal/services/signals"
)

// EvaluationResult pairs the triggers produced by one evaluation pass with
// the updated alert copies the store must write back. Both slices follow the
// input alert order; UpdatedAlerts always has the same length as the input.
type EvaluationResult struct {
	Triggers      []models.AlertTrigger
	UpdatedAlerts []models.AlertConfig
}

// IsInCooldown reports whether the alert's cooldown window is still open at
// now. An alert that has never fired is never in cooldown.
func IsInCooldown(alert models.AlertConfig, now time.Time) bool {
	if alert.LastTriggeredAt == nil {
		return false
	}
	expiry := alert.LastTriggeredAt.Add(time.Duration(alert.CooldownMinutes) * time.Minute)
	return now.Before(expiry)
}

// CheckCondition reports whether the condition fires on the transition from
// previous to current. It is strictly edge triggered: a nil previous value
// establishes a baseline and never fires.
func CheckCondition(condition models.AlertCondition, current float64, previous *float64, threshold float64) bool {
	if previous == nil {
		return false
	}
	switch condition {
	case models.CrossesAbove:
		return *previous <= threshold && current > threshold
	case models.CrossesBelow:
		return *previous >= threshold && current < threshold
	case models.AnyChange:
		return signals.Interpret(current) != signals.Interpret(*previous)
	default:
		return false
	}
}

// EvaluateAlert runs one alert against one signal snapshot. It never mutates
// its input; the returned AlertConfig is the copy the store should persist.
// A nil trigger means the alert did not fire this pass.
func EvaluateAlert(alert models.AlertConfig, signal models.SignalResult, now time.Time) (*models.AlertTrigger, models.AlertConfig) {
	if !alert.Enabled || string(alert.SignalType) != signal.Name {
		return nil, alert
	}

	current := signal.Value

	// Edge-detection state keeps advancing while suppressed so a persisting
	// edge fires on the first evaluation after cooldown expiry.
	if IsInCooldown(alert, now) {
		alert.PreviousValue = &current
		return nil, alert
	}

	if !CheckCondition(alert.Condition, current, alert.PreviousValue, alert.Threshold) {
		alert.PreviousValue = &current
		return nil, alert
	}

	previous := current
	if alert.PreviousValue != nil {
		previous = *alert.PreviousValue
	}
	trigger := &models.AlertTrigger{
		AlertID:       alert.ID,
		SignalType:    alert.SignalType,
		PreviousValue: previous,
		CurrentValue:  current,
		Threshold:     alert.Threshold,
		Condition:     alert.Condition,
		TriggeredAt:   now,
	}

	alert.PreviousValue = &current
	alert.LastTriggeredAt = &now
	return trigger, alert
}

// EvaluateAll runs every alert against the matching signal snapshot. Alerts
// whose signal type has no snapshot pass through unchanged; they are never
// dropped from the output.
func EvaluateAll(alerts []models.AlertConfig, signalsByType map[models.SignalType]models.SignalResult, now time.Time) EvaluationResult {
	result := EvaluationResult{
		UpdatedAlerts: make([]models.AlertConfig, 0, len(alerts)),
	}
	for _, alert := range alerts {
		signal, ok := signalsByType[alert.SignalType]
		if !ok {
			result.UpdatedAlerts = append(result.UpdatedAlerts, alert)
			continue
		}
		trigger, updated := EvaluateAlert(alert, signal, now)
		if trigger != nil {
			result.Triggers = append(result.Triggers, *trigger)
		}
		result.UpdatedAlerts = append(result.UpdatedAlerts, updated)
	}
	return result
}
