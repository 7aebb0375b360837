package usecase

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"FedPulse/internal/domain/models"
	icache "FedPulse/internal/service/cache"
)

type flakySource struct {
	data    map[string][]models.Observation
	fetches int64
	failID  string
}

func (s *flakySource) Fetch(_ context.Context, seriesID, _, _ string) ([]models.Observation, error) {
	atomic.AddInt64(&s.fetches, 1)
	if seriesID == s.failID {
		return nil, fmt.Errorf("upstream unavailable")
	}
	return s.data[seriesID], nil
}

func TestSeriesGetUsesCache(t *testing.T) {
	ctx := context.Background()
	src := &flakySource{data: map[string][]models.Observation{
		"DFF": {{Date: "2024-01-01", Value: 5.33}},
	}}
	uc := NewSeriesUseCase(src, icache.NewTTLCache(), time.Minute)

	first, err := uc.Get(ctx, "DFF", "2024-01-01", "2024-01-31")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	second, err := uc.Get(ctx, "DFF", "2024-01-01", "2024-01-31")
	if err != nil {
		t.Fatalf("cached get: %v", err)
	}
	if atomic.LoadInt64(&src.fetches) != 1 {
		t.Fatalf("expected 1 upstream fetch, got %d", src.fetches)
	}
	if len(first) != 1 || len(second) != 1 || second[0].Value != 5.33 {
		t.Fatalf("unexpected observations %v %v", first, second)
	}

	// different window is a different cache entry
	if _, err := uc.Get(ctx, "DFF", "2024-02-01", "2024-02-29"); err != nil {
		t.Fatalf("get other window: %v", err)
	}
	if atomic.LoadInt64(&src.fetches) != 2 {
		t.Fatalf("expected 2 upstream fetches, got %d", src.fetches)
	}
}

func TestSeriesGetRequiresID(t *testing.T) {
	uc := NewSeriesUseCase(&flakySource{}, nil, time.Minute)
	if _, err := uc.Get(context.Background(), "", "", ""); err == nil {
		t.Fatalf("expected error for empty series id")
	}
}

func TestMergeValidation(t *testing.T) {
	uc := NewSeriesUseCase(&flakySource{}, nil, time.Minute)
	ctx := context.Background()

	if _, err := uc.Merge(ctx, MergeParams{FillMethod: models.FillForward}); err == nil {
		t.Fatalf("expected error for empty series list")
	}

	if _, err := uc.Merge(ctx, MergeParams{
		Series:     []MergeMember{{Key: "a", SeriesID: "DFF"}},
		FillMethod: "spline",
	}); err == nil {
		t.Fatalf("expected error for unknown fill method")
	}

	if _, err := uc.Merge(ctx, MergeParams{
		Series: []MergeMember{
			{Key: "a", SeriesID: "DFF"},
			{Key: "a", SeriesID: "DGS10"},
		},
		FillMethod: models.FillForward,
	}); err == nil {
		t.Fatalf("expected error for duplicate merge key")
	}
}

func TestRejectsInvertedDateRange(t *testing.T) {
	src := &flakySource{data: map[string][]models.Observation{
		"DFF":   {{Date: "2024-01-01", Value: 5.33}},
		"DGS10": {{Date: "2024-01-01", Value: 4.10}},
	}}
	uc := NewSeriesUseCase(src, nil, time.Minute)
	ctx := context.Background()

	if _, err := uc.Get(ctx, "DFF", "2024-12-31", "2024-01-01"); err == nil {
		t.Fatalf("expected error for start after end")
	}

	if _, err := uc.Merge(ctx, MergeParams{
		Series: []MergeMember{
			{Key: "rate", SeriesID: "DFF"},
			{Key: "y10", SeriesID: "DGS10"},
		},
		FillMethod: models.FillForward,
		Start:      "2024-12-31",
		End:        "2024-01-01",
	}); err == nil {
		t.Fatalf("expected merge error for start after end")
	}
	if atomic.LoadInt64(&src.fetches) != 0 {
		t.Fatalf("inverted range must be rejected before fetching, got %d fetches", src.fetches)
	}

	// equal bounds are a valid one-day window
	if _, err := uc.Get(ctx, "DFF", "2024-01-01", "2024-01-01"); err != nil {
		t.Fatalf("single-day range: %v", err)
	}
}

func TestMergeFailsWhenAnyFetchFails(t *testing.T) {
	src := &flakySource{
		data: map[string][]models.Observation{
			"DFF": {{Date: "2024-01-01", Value: 5.33}},
		},
		failID: "DGS10",
	}
	uc := NewSeriesUseCase(src, nil, time.Minute)

	_, err := uc.Merge(context.Background(), MergeParams{
		Series: []MergeMember{
			{Key: "rate", SeriesID: "DFF"},
			{Key: "y10", SeriesID: "DGS10"},
		},
		FillMethod: models.FillForward,
	})
	if err == nil {
		t.Fatalf("expected merge to fail with one bad series")
	}
}

func TestMergeAlignsSeries(t *testing.T) {
	src := &flakySource{data: map[string][]models.Observation{
		"DFF": {
			{Date: "2024-01-01", Value: 5.30},
			{Date: "2024-01-02", Value: 5.31},
			{Date: "2024-01-03", Value: 5.32},
		},
		"CSUSHPINSA": {{Date: "2024-01-01", Value: 312.1}},
	}}
	uc := NewSeriesUseCase(src, nil, time.Minute)

	res, err := uc.Merge(context.Background(), MergeParams{
		Series: []MergeMember{
			{Key: "rate", SeriesID: "DFF"},
			{Key: "hpi", SeriesID: "CSUSHPINSA"},
		},
		FillMethod: models.FillForward,
	})
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if len(res.Data) != 3 {
		t.Fatalf("expected 3 merged points, got %d", len(res.Data))
	}
	last := res.Data[2]
	if last.Values["rate"] == nil || *last.Values["rate"] != 5.32 {
		t.Fatalf("unexpected rate at last point %+v", last)
	}
	if last.Values["hpi"] == nil || *last.Values["hpi"] != 312.1 {
		t.Fatalf("expected forward-filled hpi, got %+v", last)
	}
	if res.DateRange.Start != "2024-01-01" || res.DateRange.End != "2024-01-03" {
		t.Fatalf("unexpected date range %+v", res.DateRange)
	}
}
