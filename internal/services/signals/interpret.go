package signals

import (
	"math"
	"sort"

	"FedPulse/internal/domain/models"
)

// Interpret maps a bounded signal value onto its reading. This is the single
// source of the bucket boundaries: the calculators label their output with it
// and the alert evaluator's any_change condition compares readings through
// it. Keep them identical or edge detection silently breaks.
func Interpret(value float64) models.Interpretation {
	switch {
	case value >= 0.6:
		return models.StrongBullish
	case value >= 0.2:
		return models.Bullish
	case value <= -0.6:
		return models.StrongBearish
	case value <= -0.2:
		return models.Bearish
	default:
		return models.Neutral
	}
}

// Clamp bounds v to [-1, 1].
func Clamp(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func ptr(v float64) *float64 { return &v }

// sortObs returns a date-ascending copy; raw sources may be unsorted.
func sortObs(series []models.Observation) []models.Observation {
	out := make([]models.Observation, len(series))
	copy(out, series)
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// latest returns the most recent observation value, nil for an empty series.
func latest(series []models.Observation) *float64 {
	s := sortObs(series)
	if len(s) == 0 {
		return nil
	}
	v := s[len(s)-1].Value
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

// nPeriodsAgo returns the value n observations back from the end. The
// lookback is positional, not calendar: "3 periods" means three observations
// regardless of the series' native frequency. Fewer than n+1 observations
// means the feature is unavailable (nil), never zero.
func nPeriodsAgo(series []models.Observation, n int) *float64 {
	s := sortObs(series)
	idx := len(s) - 1 - n
	if idx < 0 {
		return nil
	}
	v := s[idx].Value
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

// changeOverPeriods is latest minus the value n observations back.
func changeOverPeriods(series []models.Observation, n int) *float64 {
	cur := latest(series)
	prev := nPeriodsAgo(series, n)
	if cur == nil || prev == nil {
		return nil
	}
	d := *cur - *prev
	return &d
}

// pctChangeOverPeriods is the percent change from n observations back.
func pctChangeOverPeriods(series []models.Observation, n int) *float64 {
	cur := latest(series)
	prev := nPeriodsAgo(series, n)
	if cur == nil || prev == nil || *prev == 0 {
		return nil
	}
	p := (*cur - *prev) / *prev * 100
	return &p
}

// trailingSMA is the simple moving average of the last n observations, nil
// when fewer than n exist.
func trailingSMA(series []models.Observation, n int) *float64 {
	s := sortObs(series)
	if n <= 0 || len(s) < n {
		return nil
	}
	sum := 0.0
	for _, o := range s[len(s)-n:] {
		if math.IsNaN(o.Value) {
			return nil
		}
		sum += o.Value
	}
	avg := sum / float64(n)
	return &avg
}
