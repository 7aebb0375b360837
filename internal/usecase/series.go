package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"FedPulse/internal/domain/models"
	domrepo "FedPulse/internal/domain/repository"
	icache "FedPulse/internal/service/cache"
	"FedPulse/internal/services/timeseries"
	pkgcache "FedPulse/pkg/cache"
)

// SeriesUseCase provides business logic for fetching and merging series.
type SeriesUseCase struct {
	source   domrepo.SeriesSource
	cache    icache.BytesCache
	cacheTTL time.Duration
}

func NewSeriesUseCase(source domrepo.SeriesSource, cache icache.BytesCache, cacheTTL time.Duration) *SeriesUseCase {
	if cacheTTL <= 0 {
		cacheTTL = 15 * time.Minute
	}
	return &SeriesUseCase{source: source, cache: cache, cacheTTL: cacheTTL}
}

// Get fetches one series, serving repeat requests from the byte cache.
func (uc *SeriesUseCase) Get(ctx context.Context, seriesID, start, end string) ([]models.Observation, error) {
	if seriesID == "" {
		return nil, fmt.Errorf("series id required")
	}
	if err := validateDateRange(start, end); err != nil {
		return nil, err
	}

	cacheKey := pkgcache.GenerateKeyWithParams("series", seriesID, start, end)
	if uc.cache != nil {
		if b, ok, err := uc.cache.GetBytes(cacheKey); err == nil && ok {
			var obs []models.Observation
			if err := json.Unmarshal(b, &obs); err == nil {
				return obs, nil
			}
		}
	}

	obs, err := uc.source.Fetch(ctx, seriesID, start, end)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", seriesID, err)
	}

	if uc.cache != nil {
		if b, err := json.Marshal(obs); err == nil {
			_ = uc.cache.SetBytes(cacheKey, b, uc.cacheTTL)
		}
	}
	return obs, nil
}

// validateDateRange rejects inverted ranges. Dates are YYYY-MM-DD strings,
// so lexicographic order matches chronological order.
func validateDateRange(start, end string) error {
	if start != "" && end != "" && start > end {
		return fmt.Errorf("start date %s is after end date %s", start, end)
	}
	return nil
}

// MergeParams names the series to merge and how.
type MergeParams struct {
	Series     []MergeMember
	FillMethod models.FillMethod
	InnerJoin  bool
	Start      string
	End        string
}

// MergeMember binds a result key to a source series id.
type MergeMember struct {
	Key      string
	SeriesID string
}

// Merge fetches every requested series concurrently, then aligns them onto
// one shared date axis. A single failed fetch fails the whole merge; a
// partial merge would silently misrepresent the missing series as empty.
func (uc *SeriesUseCase) Merge(ctx context.Context, p MergeParams) (*models.MergeResult, error) {
	if len(p.Series) == 0 {
		return nil, fmt.Errorf("at least one series required")
	}
	if !models.IsValidFillMethod(p.FillMethod) {
		return nil, fmt.Errorf("unknown fill method: %s", p.FillMethod)
	}
	if err := validateDateRange(p.Start, p.End); err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(p.Series))
	for _, m := range p.Series {
		if m.Key == "" || m.SeriesID == "" {
			return nil, fmt.Errorf("merge member key and series id required")
		}
		if _, dup := seen[m.Key]; dup {
			return nil, fmt.Errorf("duplicate merge key: %s", m.Key)
		}
		seen[m.Key] = struct{}{}
	}

	keyed := make([]models.KeyedSeries, len(p.Series))
	var wg sync.WaitGroup
	errs := make([]error, len(p.Series))
	for i, m := range p.Series {
		wg.Add(1)
		go func(i int, m MergeMember) {
			defer wg.Done()
			obs, err := uc.Get(ctx, m.SeriesID, p.Start, p.End)
			if err != nil {
				errs[i] = err
				return
			}
			keyed[i] = models.KeyedSeries{Key: m.Key, Data: obs}
		}(i, m)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	result := timeseries.Merge(keyed, models.MergeConfig{
		FillMethod: p.FillMethod,
		InnerJoin:  p.InnerJoin,
	})
	return &result, nil
}
