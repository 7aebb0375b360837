package timeseries

import (
	"sort"

	"FedPulse/internal/domain/models"
	"FedPulse/pkg/util"
)

// DetectFrequency classifies a series' sampling cadence from the median gap
// between consecutive observations. The median (not the mean) keeps weekend
// and holiday gaps in daily market data from pushing the classification to
// weekly: Friday->Monday is a 3-day gap but the median for a daily series
// stays at 1.
func DetectFrequency(series []models.Observation) models.Frequency {
	if len(series) < 2 {
		return models.FreqUnknown
	}

	sorted := sortedByDate(series)
	gaps := make([]int, 0, len(sorted)-1)
	for i := 1; i < len(sorted); i++ {
		d, ok := util.DaysBetween(sorted[i-1].Date, sorted[i].Date)
		if !ok {
			continue
		}
		gaps = append(gaps, d)
	}
	if len(gaps) == 0 {
		return models.FreqUnknown
	}

	median := medianInt(gaps)
	switch {
	case median <= 5:
		return models.FreqDaily
	case median <= 10:
		return models.FreqWeekly
	case median <= 35:
		return models.FreqMonthly
	case median <= 95:
		return models.FreqQuarterly
	case median <= 380:
		return models.FreqYearly
	default:
		return models.FreqUnknown
	}
}

func medianInt(xs []int) int {
	s := make([]int, len(xs))
	copy(s, xs)
	sort.Ints(s)
	mid := len(s) / 2
	if len(s)%2 == 0 {
		return (s[mid-1] + s[mid]) / 2
	}
	return s[mid]
}

// sortedByDate returns a copy of series ordered by ascending date. Raw
// sources may be unsorted, so every algorithm sorts defensively.
func sortedByDate(series []models.Observation) []models.Observation {
	out := make([]models.Observation, len(series))
	copy(out, series)
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}
