package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"FedPulse/internal/domain/models"
	domrepo "FedPulse/internal/domain/repository"
	"FedPulse/internal/services/signals"
	pkgcache "FedPulse/pkg/cache"
	"FedPulse/pkg/util"
)

const snapshotCacheKey = "signals:snapshot"

// SignalUseCase computes the derived signals from their input series.
type SignalUseCase struct {
	series  *SeriesUseCase
	reg     SeriesRegistry
	metrics domrepo.Metrics

	// short-lived snapshot cache so the poller and the HTTP surface do
	// not recompute within the same minute
	snap    pkgcache.Service
	snapTTL time.Duration

	// how far back to fetch inputs; covers the longest positional
	// lookback (12 monthly observations) with room to spare
	lookback time.Duration
}

// SeriesRegistry maps signal inputs to source series ids.
type SeriesRegistry struct {
	PolicyRate      string
	Yield10Y        string
	Yield3M         string
	VIX             string
	HighYieldSpread string
	InvGradeSpread  string
	HomePriceIndex  string
	HousingStarts   string
}

func NewSignalUseCase(series *SeriesUseCase, reg SeriesRegistry, metrics domrepo.Metrics, snap pkgcache.Service) *SignalUseCase {
	return &SignalUseCase{
		series:   series,
		reg:      reg,
		metrics:  metrics,
		snap:     snap,
		snapTTL:  time.Minute,
		lookback: 2 * 365 * 24 * time.Hour,
	}
}

func (uc *SignalUseCase) fetchWindow() (string, string) {
	now := time.Now().UTC()
	return util.FormatDate(now.Add(-uc.lookback)), util.FormatDate(now)
}

// fetchAll pulls every input series concurrently. One failed fetch fails the
// computation; the calculators degrade confidence on short series but a
// silently absent series would skew the composite.
func (uc *SignalUseCase) fetchAll(ctx context.Context, ids []string) (map[string][]models.Observation, error) {
	start, end := uc.fetchWindow()
	out := make(map[string][]models.Observation, len(ids))
	errs := make([]error, len(ids))
	var mu sync.Mutex
	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			obs, err := uc.series.Get(ctx, id, start, end)
			if err != nil {
				errs[i] = err
				return
			}
			mu.Lock()
			out[id] = obs
			mu.Unlock()
		}(i, id)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			uc.metrics.RecordError("signal_fetch")
			return nil, err
		}
	}
	return out, nil
}

// Compute calculates a single signal. The composite recomputes its four
// components rather than trusting any cached copies.
func (uc *SignalUseCase) Compute(ctx context.Context, t models.SignalType) (models.SignalResult, error) {
	start := time.Now()
	defer func() {
		uc.metrics.RecordLatency("signal_compute", time.Since(start).Seconds())
	}()

	var res models.SignalResult
	switch t {
	case models.SignalRate:
		data, err := uc.fetchAll(ctx, []string{uc.reg.PolicyRate, uc.reg.Yield10Y, uc.reg.Yield3M})
		if err != nil {
			return models.SignalResult{}, err
		}
		res = signals.Rate(data[uc.reg.PolicyRate], data[uc.reg.Yield10Y], data[uc.reg.Yield3M])
	case models.SignalVolatility:
		data, err := uc.fetchAll(ctx, []string{uc.reg.VIX})
		if err != nil {
			return models.SignalResult{}, err
		}
		res = signals.Volatility(data[uc.reg.VIX])
	case models.SignalCredit:
		data, err := uc.fetchAll(ctx, []string{uc.reg.HighYieldSpread, uc.reg.InvGradeSpread})
		if err != nil {
			return models.SignalResult{}, err
		}
		res = signals.Credit(data[uc.reg.HighYieldSpread], data[uc.reg.InvGradeSpread])
	case models.SignalHousing:
		data, err := uc.fetchAll(ctx, []string{uc.reg.HomePriceIndex, uc.reg.HousingStarts})
		if err != nil {
			return models.SignalResult{}, err
		}
		res = signals.Housing(data[uc.reg.HomePriceIndex], data[uc.reg.HousingStarts])
	case models.SignalComposite:
		all, err := uc.ComputeAll(ctx)
		if err != nil {
			return models.SignalResult{}, err
		}
		res = all[models.SignalComposite]
	default:
		return models.SignalResult{}, fmt.Errorf("unknown signal type: %s", t)
	}

	uc.metrics.RecordSignalValue(res.Name, res.Value)
	return res, nil
}

// ComputeAll calculates the four component signals plus the composite in one
// pass, sharing the fetched inputs.
func (uc *SignalUseCase) ComputeAll(ctx context.Context) (map[models.SignalType]models.SignalResult, error) {
	start := time.Now()
	defer func() {
		uc.metrics.RecordLatency("signal_compute_all", time.Since(start).Seconds())
	}()

	if uc.snap != nil {
		var cached map[models.SignalType]models.SignalResult
		if err := uc.snap.Get(ctx, snapshotCacheKey, &cached); err == nil && len(cached) > 0 {
			return cached, nil
		}
	}

	data, err := uc.fetchAll(ctx, []string{
		uc.reg.PolicyRate, uc.reg.Yield10Y, uc.reg.Yield3M,
		uc.reg.VIX,
		uc.reg.HighYieldSpread, uc.reg.InvGradeSpread,
		uc.reg.HomePriceIndex, uc.reg.HousingStarts,
	})
	if err != nil {
		return nil, err
	}

	rate := signals.Rate(data[uc.reg.PolicyRate], data[uc.reg.Yield10Y], data[uc.reg.Yield3M])
	volatility := signals.Volatility(data[uc.reg.VIX])
	credit := signals.Credit(data[uc.reg.HighYieldSpread], data[uc.reg.InvGradeSpread])
	housing := signals.Housing(data[uc.reg.HomePriceIndex], data[uc.reg.HousingStarts])
	composite := signals.Composite(rate, volatility, credit, housing)

	out := map[models.SignalType]models.SignalResult{
		models.SignalRate:       rate,
		models.SignalVolatility: volatility,
		models.SignalCredit:     credit,
		models.SignalHousing:    housing,
		models.SignalComposite:  composite,
	}
	for _, res := range out {
		uc.metrics.RecordSignalValue(res.Name, res.Value)
	}
	if uc.snap != nil {
		if err := uc.snap.Set(ctx, snapshotCacheKey, out, uc.snapTTL); err != nil {
			uc.metrics.RecordError("snapshot_cache_set")
		}
	}
	return out, nil
}
