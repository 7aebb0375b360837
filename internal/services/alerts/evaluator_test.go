package alerts

import (
	"testing"
	"time"

	"FedPulse/internal/domain/models"
)

func fptr(v float64) *float64 { return &v }

func baseAlert() models.AlertConfig {
	return models.AlertConfig{
		ID:              "a1",
		SignalType:      models.SignalRate,
		Condition:       models.CrossesAbove,
		Threshold:       0.5,
		Enabled:         true,
		CreatedAt:       time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		CooldownMinutes: 60,
	}
}

func rateSignal(value float64) models.SignalResult {
	return models.SignalResult{Name: string(models.SignalRate), Value: value}
}

func TestIsInCooldown(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	alert := baseAlert()
	if IsInCooldown(alert, now) {
		t.Fatal("never-fired alert should not be in cooldown")
	}

	fired := now.Add(-30 * time.Minute)
	alert.LastTriggeredAt = &fired
	if !IsInCooldown(alert, now) {
		t.Fatal("expected cooldown 30 minutes after firing with a 60-minute window")
	}

	fired = now.Add(-61 * time.Minute)
	alert.LastTriggeredAt = &fired
	if IsInCooldown(alert, now) {
		t.Fatal("cooldown should have expired")
	}
}

func TestCheckCondition(t *testing.T) {
	cases := []struct {
		name      string
		condition models.AlertCondition
		current   float64
		previous  *float64
		threshold float64
		want      bool
	}{
		{"crosses above fires", models.CrossesAbove, 0.6, fptr(0.4), 0.5, true},
		{"already above does not fire", models.CrossesAbove, 0.7, fptr(0.6), 0.5, false},
		{"no baseline never fires", models.CrossesAbove, 0.6, nil, 0.5, false},
		{"exactly at threshold is not above", models.CrossesAbove, 0.5, fptr(0.4), 0.5, false},
		{"from threshold upward fires", models.CrossesAbove, 0.6, fptr(0.5), 0.5, true},
		{"crosses below fires", models.CrossesBelow, -0.3, fptr(0.1), -0.2, true},
		{"already below does not fire", models.CrossesBelow, -0.4, fptr(-0.3), -0.2, false},
		{"any change on bucket shift", models.AnyChange, 0.25, fptr(0.1), 0, true},
		{"any change within bucket", models.AnyChange, 0.1, fptr(0.05), 0, false},
	}
	for _, c := range cases {
		if got := CheckCondition(c.condition, c.current, c.previous, c.threshold); got != c.want {
			t.Errorf("%s: got %v, want %v", c.name, got, c.want)
		}
	}
}

func TestEvaluateAlertBaselineThenFire(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	alert := baseAlert()

	// First observation only establishes the baseline.
	trigger, updated := EvaluateAlert(alert, rateSignal(0.4), now)
	if trigger != nil {
		t.Fatal("first observation must not fire")
	}
	if updated.PreviousValue == nil || *updated.PreviousValue != 0.4 {
		t.Fatalf("baseline not recorded: %v", updated.PreviousValue)
	}

	// Second observation crosses the threshold.
	later := now.Add(time.Minute)
	trigger, updated = EvaluateAlert(updated, rateSignal(0.6), later)
	if trigger == nil {
		t.Fatal("expected a trigger on the upward cross")
	}
	if trigger.PreviousValue != 0.4 || trigger.CurrentValue != 0.6 {
		t.Fatalf("unexpected trigger values: %+v", trigger)
	}
	if trigger.AlertID != "a1" || trigger.Condition != models.CrossesAbove {
		t.Fatalf("trigger metadata wrong: %+v", trigger)
	}
	if updated.LastTriggeredAt == nil || !updated.LastTriggeredAt.Equal(later) {
		t.Fatalf("lastTriggeredAt not advanced: %v", updated.LastTriggeredAt)
	}
	if *updated.PreviousValue != 0.6 {
		t.Fatalf("previousValue not advanced: %v", *updated.PreviousValue)
	}
}

func TestEvaluateAlertCooldownSuppressesButAdvances(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	alert := baseAlert()
	alert.PreviousValue = fptr(0.6)
	alert.LastTriggeredAt = &now

	// During cooldown the value drops back below the threshold: no fire,
	// but previousValue must follow it down.
	during := now.Add(30 * time.Minute)
	trigger, updated := EvaluateAlert(alert, rateSignal(0.3), during)
	if trigger != nil {
		t.Fatal("cooldown must suppress firing")
	}
	if *updated.PreviousValue != 0.3 {
		t.Fatalf("previousValue must advance during cooldown, got %v", *updated.PreviousValue)
	}
	if !updated.LastTriggeredAt.Equal(now) {
		t.Fatal("lastTriggeredAt must not move while suppressed")
	}

	// After expiry the stale edge (0.3 -> 0.7) fires immediately.
	after := now.Add(61 * time.Minute)
	trigger, updated = EvaluateAlert(updated, rateSignal(0.7), after)
	if trigger == nil {
		t.Fatal("edge persisting past cooldown expiry must fire")
	}
	if trigger.PreviousValue != 0.3 || trigger.CurrentValue != 0.7 {
		t.Fatalf("unexpected trigger values: %+v", trigger)
	}
	if !updated.LastTriggeredAt.Equal(after) {
		t.Fatal("lastTriggeredAt must advance on the new firing")
	}
}

func TestEvaluateAlertDisabledAndMismatched(t *testing.T) {
	now := time.Now().UTC()

	disabled := baseAlert()
	disabled.Enabled = false
	disabled.PreviousValue = fptr(0.4)
	trigger, updated := EvaluateAlert(disabled, rateSignal(0.9), now)
	if trigger != nil {
		t.Fatal("disabled alert must not fire")
	}
	if *updated.PreviousValue != 0.4 {
		t.Fatal("disabled alert state must not advance")
	}

	mismatched := baseAlert()
	mismatched.SignalType = models.SignalCredit
	trigger, updated = EvaluateAlert(mismatched, rateSignal(0.9), now)
	if trigger != nil || updated.PreviousValue != nil {
		t.Fatal("signal type mismatch must leave the alert untouched")
	}
}

func TestEvaluateAll(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	crossing := baseAlert()
	crossing.PreviousValue = fptr(0.4)

	noSnapshot := baseAlert()
	noSnapshot.ID = "a2"
	noSnapshot.SignalType = models.SignalHousing
	noSnapshot.PreviousValue = fptr(-0.5)

	quiet := baseAlert()
	quiet.ID = "a3"
	quiet.Condition = models.CrossesBelow

	alerts := []models.AlertConfig{crossing, noSnapshot, quiet}
	snapshots := map[models.SignalType]models.SignalResult{
		models.SignalRate: rateSignal(0.6),
	}

	result := EvaluateAll(alerts, snapshots, now)
	if len(result.UpdatedAlerts) != 3 {
		t.Fatalf("output length must match input, got %d", len(result.UpdatedAlerts))
	}
	if len(result.Triggers) != 1 || result.Triggers[0].AlertID != "a1" {
		t.Fatalf("expected exactly one trigger for a1, got %+v", result.Triggers)
	}
	if *result.UpdatedAlerts[2].PreviousValue != 0.6 {
		t.Fatal("non-firing alert with a snapshot must still advance its baseline")
	}

	passthrough := result.UpdatedAlerts[1]
	if passthrough.ID != "a2" || *passthrough.PreviousValue != -0.5 {
		t.Fatalf("alert without a snapshot must pass through unchanged: %+v", passthrough)
	}
}
