package repository

import (
	"context"
	"testing"
	"time"

	"FedPulse/internal/domain/models"
)

func alertFixture(id string, created time.Time) models.AlertConfig {
	return models.AlertConfig{
		ID:              id,
		SignalType:      models.SignalRate,
		Condition:       models.CrossesAbove,
		Threshold:       0.5,
		Enabled:         true,
		CreatedAt:       created,
		CooldownMinutes: 60,
	}
}

func TestMemoryAlertStoreCRUD(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryAlertStore()

	a := alertFixture("a1", time.Now().UTC())
	if err := s.Save(ctx, a); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := s.Get(ctx, "a1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil || got.ID != "a1" || got.Threshold != 0.5 {
		t.Fatalf("unexpected alert %+v", got)
	}

	// overwrite keeps one copy per id
	a.Threshold = 0.8
	if err := s.Save(ctx, a); err != nil {
		t.Fatalf("save overwrite: %v", err)
	}
	got, _ = s.Get(ctx, "a1")
	if got.Threshold != 0.8 {
		t.Fatalf("expected updated threshold, got %v", got.Threshold)
	}

	if err := s.Delete(ctx, "a1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, err = s.Get(ctx, "a1")
	if err != nil || got != nil {
		t.Fatalf("expected nil after delete, got %+v err %v", got, err)
	}
}

func TestMemoryAlertStoreGetMissing(t *testing.T) {
	s := NewMemoryAlertStore()
	got, err := s.Get(context.Background(), "nope")
	if err != nil {
		t.Fatalf("missing id must not error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for missing id")
	}
}

func TestMemoryAlertStoreListOrder(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryAlertStore()
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	_ = s.Save(ctx, alertFixture("newer", base.Add(time.Hour)))
	_ = s.Save(ctx, alertFixture("oldest", base))
	_ = s.Save(ctx, alertFixture("middle", base.Add(time.Minute)))

	out, err := s.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("expected 3 alerts, got %d", len(out))
	}
	if out[0].ID != "oldest" || out[1].ID != "middle" || out[2].ID != "newer" {
		t.Fatalf("expected creation order, got %s %s %s", out[0].ID, out[1].ID, out[2].ID)
	}
}

func TestMemoryAlertStoreGetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryAlertStore()
	_ = s.Save(ctx, alertFixture("a1", time.Now().UTC()))

	got, _ := s.Get(ctx, "a1")
	got.Threshold = -1

	again, _ := s.Get(ctx, "a1")
	if again.Threshold != 0.5 {
		t.Fatalf("mutating a returned alert must not affect the store")
	}
}
