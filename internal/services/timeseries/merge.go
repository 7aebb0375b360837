package timeseries

import (
	"sort"

	"FedPulse/internal/domain/models"
)

// Merge unions (or intersects) the date domains of the given series, aligns
// each series onto the common axis with the configured fill method, and
// reports per-series fill statistics. Dates are merged by calendar value,
// never by array position: zipping two differently-frequent series by index
// silently misaligns dates, which is exactly the bug class this engine
// exists to avoid.
func Merge(series []models.KeyedSeries, cfg models.MergeConfig) models.MergeResult {
	dates := mergedDates(series, cfg.InnerJoin)

	if len(dates) == 0 {
		res := models.MergeResult{
			Data:       []models.MergedPoint{},
			SeriesInfo: []models.SeriesInfo{},
			DateRange:  models.DateRange{},
		}
		if allEmpty(series) {
			return res
		}
		// Inner join emptied the axis while the inputs are non-empty;
		// series metadata is still reported in that case.
		for _, s := range series {
			res.SeriesInfo = append(res.SeriesInfo, models.SeriesInfo{
				Key:               s.Key,
				OriginalFrequency: DetectFrequency(s.Data),
				OriginalCount:     len(s.Data),
				FilledCount:       0,
			})
		}
		return res
	}

	points := make([]models.MergedPoint, len(dates))
	for i, d := range dates {
		points[i] = models.MergedPoint{Date: d, Values: make(map[string]*float64, len(series))}
	}

	info := make([]models.SeriesInfo, 0, len(series))
	for _, s := range series {
		aligned := alignSeries(s.Data, dates, cfg.FillMethod)
		original := dateSet(s.Data)
		filled := 0
		for i, v := range aligned {
			points[i].Values[s.Key] = v
			if v != nil && !original[dates[i]] {
				filled++
			}
		}
		info = append(info, models.SeriesInfo{
			Key:               s.Key,
			OriginalFrequency: DetectFrequency(s.Data),
			OriginalCount:     len(s.Data),
			FilledCount:       filled,
		})
	}

	return models.MergeResult{
		Data:       points,
		SeriesInfo: info,
		DateRange:  models.DateRange{Start: dates[0], End: dates[len(dates)-1]},
	}
}

func alignSeries(data []models.Observation, dates []string, method models.FillMethod) []*float64 {
	switch method {
	case models.FillLinear:
		return InterpolateLinear(data, dates)
	case models.FillNone:
		return exactMatch(data, dates)
	default:
		return ForwardFill(data, dates)
	}
}

// mergedDates builds the sorted union of all observation dates, filtered to
// the intersection when inner is set. The inner join is a filter over the
// union, not a separate walk.
func mergedDates(series []models.KeyedSeries, inner bool) []string {
	union := make(map[string]int)
	for _, s := range series {
		seen := dateSet(s.Data)
		for d := range seen {
			union[d]++
		}
	}

	dates := make([]string, 0, len(union))
	for d, n := range union {
		if inner && n < len(series) {
			continue
		}
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates
}

func dateSet(data []models.Observation) map[string]bool {
	set := make(map[string]bool, len(data))
	for _, o := range data {
		set[o.Date] = true
	}
	return set
}

func allEmpty(series []models.KeyedSeries) bool {
	for _, s := range series {
		if len(s.Data) > 0 {
			return false
		}
	}
	return true
}
