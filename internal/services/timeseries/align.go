package timeseries

import (
	"math"
	"sort"

	"FedPulse/internal/domain/models"
	"FedPulse/pkg/util"
)

// Alignment produces one value per target date; nil marks a date the source
// cannot supply. The slice always has len(targetDates) entries in target
// order, so callers can zip it back against the dates safely.

// ForwardFill carries the last known observation forward: for each target
// date it takes the greatest source date <= target. Economic releases are
// step functions between measurement dates, so the reported figure holds
// until superseded. Targets preceding all source data get nil.
func ForwardFill(source []models.Observation, targetDates []string) []*float64 {
	sorted := sortedByDate(source)
	out := make([]*float64, len(targetDates))
	for i, d := range targetDates {
		idx := floorIndex(sorted, d)
		if idx < 0 {
			continue
		}
		v := sorted[idx].Value
		if math.IsNaN(v) {
			continue
		}
		out[i] = &v
	}
	return out
}

// InterpolateLinear returns exact values for exact date matches and a
// day-fraction interpolation between the bracketing observations otherwise.
// It never extrapolates: targets outside [min, max] of the source dates get
// nil, and a single-point source only answers its own date.
func InterpolateLinear(source []models.Observation, targetDates []string) []*float64 {
	sorted := sortedByDate(source)
	out := make([]*float64, len(targetDates))
	for i, d := range targetDates {
		out[i] = interpolateAt(sorted, d)
	}
	return out
}

func interpolateAt(sorted []models.Observation, target string) *float64 {
	if len(sorted) == 0 {
		return nil
	}
	idx := floorIndex(sorted, target)
	if idx >= 0 && sorted[idx].Date == target {
		v := sorted[idx].Value
		if math.IsNaN(v) {
			return nil
		}
		return &v
	}
	// Bracketing points: floor below, its successor above.
	if idx < 0 || idx+1 >= len(sorted) {
		return nil
	}
	lo, hi := sorted[idx], sorted[idx+1]
	if math.IsNaN(lo.Value) || math.IsNaN(hi.Value) {
		return nil
	}
	span, ok := util.DaysBetween(lo.Date, hi.Date)
	if !ok || span == 0 {
		return nil
	}
	elapsed, ok := util.DaysBetween(lo.Date, target)
	if !ok {
		return nil
	}
	v := lo.Value + (hi.Value-lo.Value)*(float64(elapsed)/float64(span))
	return &v
}

// exactMatch answers only dates the source actually observed; everything
// else is nil. This is the fillMethod "none" alignment.
func exactMatch(source []models.Observation, targetDates []string) []*float64 {
	sorted := sortedByDate(source)
	out := make([]*float64, len(targetDates))
	for i, d := range targetDates {
		idx := floorIndex(sorted, d)
		if idx >= 0 && sorted[idx].Date == d && !math.IsNaN(sorted[idx].Value) {
			v := sorted[idx].Value
			out[i] = &v
		}
	}
	return out
}

// floorIndex returns the index of the greatest observation date <= target,
// or -1 when target precedes every observation. Binary search over the
// ascending-sorted slice.
func floorIndex(sorted []models.Observation, target string) int {
	// First index with date > target; the floor sits just before it.
	n := sort.Search(len(sorted), func(i int) bool { return sorted[i].Date > target })
	return n - 1
}
