package usecase

import (
	"context"
	"testing"
	"time"

	"FedPulse/internal/domain/models"
	internalrepo "FedPulse/internal/repository"
	icache "FedPulse/internal/service/cache"
	applogger "FedPulse/pkg/logger"
)

func TestPollerRunsCyclesUntilShutdown(t *testing.T) {
	ctx := context.Background()
	store := internalrepo.NewMemoryAlertStore()
	_ = store.Save(ctx, models.AlertConfig{
		ID:              "a1",
		SignalType:      models.SignalVolatility,
		Condition:       models.AnyChange,
		Enabled:         true,
		CreatedAt:       time.Now().UTC(),
		CooldownMinutes: 60,
	})

	src := &stubSource{data: map[string][]models.Observation{"vix": calmVIX()}}
	series := NewSeriesUseCase(src, icache.NewTTLCache(), time.Millisecond)
	signals := NewSignalUseCase(series, testRegistry(), nopMetrics{}, nil)
	l, _ := applogger.New(&applogger.Config{Level: "error", Format: "console", Output: "stdout"})
	uc := NewAlertUseCase(store, signals, nil, nil, nil, nopMetrics{}, l)

	p := NewAlertPoller(uc, 20*time.Millisecond, l)
	if err := p.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		a, _ := store.Get(ctx, "a1")
		if a.PreviousValue != nil {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	a, _ := store.Get(ctx, "a1")
	if a.PreviousValue == nil {
		t.Fatalf("expected poller to run at least one evaluation cycle")
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	if err := p.Shutdown(shutdownCtx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	// idempotent
	if err := p.Shutdown(shutdownCtx); err != nil {
		t.Fatalf("second shutdown: %v", err)
	}
}

func TestPollerStartIsIdempotent(t *testing.T) {
	store := internalrepo.NewMemoryAlertStore()
	uc := newTestAlertUseCase(t, store)
	l, _ := applogger.New(&applogger.Config{Level: "error", Format: "console", Output: "stdout"})

	p := NewAlertPoller(uc, time.Hour, l)
	ctx := context.Background()
	if err := p.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := p.Start(ctx); err != nil {
		t.Fatalf("second start: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	if err := p.Shutdown(shutdownCtx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}
