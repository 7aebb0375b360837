package usecase

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"FedPulse/internal/domain/models"
	internalrepo "FedPulse/internal/repository"
	icache "FedPulse/internal/service/cache"
	applogger "FedPulse/pkg/logger"
)

type stubSource struct {
	data    map[string][]models.Observation
	fetches int64
}

func (s *stubSource) Fetch(_ context.Context, seriesID, _, _ string) ([]models.Observation, error) {
	atomic.AddInt64(&s.fetches, 1)
	return s.data[seriesID], nil
}

type nopMetrics struct{}

func (nopMetrics) RecordTriggerPublished(string, string) {}
func (nopMetrics) RecordError(string)                    {}
func (nopMetrics) RecordSignalValue(string, float64)     {}
func (nopMetrics) RecordLatency(string, float64)         {}

func testRegistry() SeriesRegistry {
	return SeriesRegistry{
		PolicyRate:      "policy",
		Yield10Y:        "y10",
		Yield3M:         "y3m",
		VIX:             "vix",
		HighYieldSpread: "hy",
		InvGradeSpread:  "ig",
		HomePriceIndex:  "hpi",
		HousingStarts:   "starts",
	}
}

// calmVIX yields a volatility signal of exactly 0.8: level below 16, too
// little history for the trend adjustment.
func calmVIX() []models.Observation {
	out := make([]models.Observation, 0, 10)
	for i := 0; i < 10; i++ {
		out = append(out, models.Observation{
			Date:  fmt.Sprintf("2024-06-%02d", i+1),
			Value: 14.0,
		})
	}
	return out
}

func newTestAlertUseCase(t *testing.T, store *internalrepo.MemoryAlertStore) *AlertUseCase {
	t.Helper()
	src := &stubSource{data: map[string][]models.Observation{"vix": calmVIX()}}
	series := NewSeriesUseCase(src, icache.NewTTLCache(), time.Minute)
	signals := NewSignalUseCase(series, testRegistry(), nopMetrics{}, nil)
	l, err := applogger.New(&applogger.Config{Level: "error", Format: "console", Output: "stdout"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return NewAlertUseCase(store, signals, nil, nil, nil, nopMetrics{}, l)
}

func TestEvaluateCycleEmptyStoreSkipsSignals(t *testing.T) {
	store := internalrepo.NewMemoryAlertStore()
	src := &stubSource{data: map[string][]models.Observation{}}
	series := NewSeriesUseCase(src, icache.NewTTLCache(), time.Minute)
	signals := NewSignalUseCase(series, testRegistry(), nopMetrics{}, nil)
	l, _ := applogger.New(&applogger.Config{Level: "error", Format: "console", Output: "stdout"})
	uc := NewAlertUseCase(store, signals, nil, nil, nil, nopMetrics{}, l)

	triggers, err := uc.EvaluateCycle(context.Background())
	if err != nil {
		t.Fatalf("cycle: %v", err)
	}
	if len(triggers) != 0 {
		t.Fatalf("expected no triggers, got %d", len(triggers))
	}
	if atomic.LoadInt64(&src.fetches) != 0 {
		t.Fatalf("no alerts configured, signals should not be computed")
	}
}

func TestEvaluateCycleFiresAndAdvancesState(t *testing.T) {
	ctx := context.Background()
	store := internalrepo.NewMemoryAlertStore()
	prev := 0.3
	_ = store.Save(ctx, models.AlertConfig{
		ID:              "vol-1",
		SignalType:      models.SignalVolatility,
		Condition:       models.CrossesAbove,
		Threshold:       0.5,
		Enabled:         true,
		CreatedAt:       time.Now().UTC(),
		CooldownMinutes: 60,
		PreviousValue:   &prev,
	})
	uc := newTestAlertUseCase(t, store)

	triggers, err := uc.EvaluateCycle(ctx)
	if err != nil {
		t.Fatalf("cycle: %v", err)
	}
	if len(triggers) != 1 {
		t.Fatalf("expected 1 trigger, got %d", len(triggers))
	}
	tr := triggers[0]
	if tr.AlertID != "vol-1" || tr.PreviousValue != 0.3 || tr.CurrentValue != 0.8 || tr.Threshold != 0.5 {
		t.Fatalf("unexpected trigger %+v", tr)
	}

	saved, _ := store.Get(ctx, "vol-1")
	if saved.PreviousValue == nil || *saved.PreviousValue != 0.8 {
		t.Fatalf("expected baseline advanced to 0.8, got %v", saved.PreviousValue)
	}
	if saved.LastTriggeredAt == nil {
		t.Fatalf("expected last_triggered_at set after firing")
	}

	// immediately re-running the cycle is inside the cooldown window
	triggers, err = uc.EvaluateCycle(ctx)
	if err != nil {
		t.Fatalf("second cycle: %v", err)
	}
	if len(triggers) != 0 {
		t.Fatalf("expected cooldown to suppress, got %d triggers", len(triggers))
	}
}

func TestEvaluateCycleBaselineOnFirstSight(t *testing.T) {
	ctx := context.Background()
	store := internalrepo.NewMemoryAlertStore()
	_ = store.Save(ctx, models.AlertConfig{
		ID:              "vol-2",
		SignalType:      models.SignalVolatility,
		Condition:       models.CrossesAbove,
		Threshold:       0.5,
		Enabled:         true,
		CreatedAt:       time.Now().UTC(),
		CooldownMinutes: 60,
	})
	uc := newTestAlertUseCase(t, store)

	triggers, err := uc.EvaluateCycle(ctx)
	if err != nil {
		t.Fatalf("cycle: %v", err)
	}
	if len(triggers) != 0 {
		t.Fatalf("first sight sets the baseline without firing, got %d", len(triggers))
	}
	saved, _ := store.Get(ctx, "vol-2")
	if saved.PreviousValue == nil || *saved.PreviousValue != 0.8 {
		t.Fatalf("expected baseline 0.8, got %v", saved.PreviousValue)
	}
	if saved.LastTriggeredAt != nil {
		t.Fatalf("baseline pass must not set last_triggered_at")
	}
}

func TestCreateAssignsIDAndDefaults(t *testing.T) {
	ctx := context.Background()
	store := internalrepo.NewMemoryAlertStore()
	uc := newTestAlertUseCase(t, store)

	alert, err := uc.Create(ctx, &models.CreateAlertRequest{
		SignalType:      "composite",
		Condition:       "any_change",
		Threshold:       0,
		CooldownMinutes: 30,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if alert.ID == "" {
		t.Fatalf("expected generated id")
	}
	if !alert.Enabled {
		t.Fatalf("enabled should default to true")
	}
	if alert.CreatedAt.IsZero() {
		t.Fatalf("expected creation timestamp")
	}

	saved, _ := store.Get(ctx, alert.ID)
	if saved == nil {
		t.Fatalf("expected alert persisted")
	}
}

func TestUpdatePreservesEvaluatorState(t *testing.T) {
	ctx := context.Background()
	store := internalrepo.NewMemoryAlertStore()
	prev := 0.4
	when := time.Now().UTC().Add(-time.Hour)
	_ = store.Save(ctx, models.AlertConfig{
		ID:              "a1",
		SignalType:      models.SignalRate,
		Condition:       models.CrossesBelow,
		Threshold:       -0.2,
		Enabled:         true,
		CreatedAt:       time.Now().UTC(),
		CooldownMinutes: 60,
		PreviousValue:   &prev,
		LastTriggeredAt: &when,
	})
	uc := newTestAlertUseCase(t, store)

	newThreshold := -0.6
	disabled := false
	out, err := uc.Update(ctx, "a1", &models.UpdateAlertRequest{
		Threshold: &newThreshold,
		Enabled:   &disabled,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if out.Threshold != -0.6 || out.Enabled {
		t.Fatalf("unexpected update result %+v", out)
	}
	if out.PreviousValue == nil || *out.PreviousValue != 0.4 || out.LastTriggeredAt == nil {
		t.Fatalf("update must not touch evaluator-owned fields")
	}

	missing, err := uc.Update(ctx, "nope", &models.UpdateAlertRequest{Threshold: &newThreshold})
	if err != nil || missing != nil {
		t.Fatalf("unknown id should return nil, nil; got %+v, %v", missing, err)
	}
}
