package models

import "encoding/json"

// Observation is a single dated value of an economic series. Dates are
// calendar dates in YYYY-MM-DD form with no time component; ISO ordering
// makes lexical and chronological sort identical. Missing source values
// never reach this type: they are dropped at ingestion.
type Observation struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// Frequency is the detected sampling cadence of a series. It is derived
// from the data on demand, never stored.
type Frequency string

const (
	FreqDaily     Frequency = "daily"
	FreqWeekly    Frequency = "weekly"
	FreqMonthly   Frequency = "monthly"
	FreqQuarterly Frequency = "quarterly"
	FreqYearly    Frequency = "yearly"
	FreqUnknown   Frequency = "unknown"
)

// FillMethod selects how a series aligns onto dates it has no observation for.
type FillMethod string

const (
	FillForward FillMethod = "forward"
	FillLinear  FillMethod = "linear"
	FillNone    FillMethod = "none"
)

// IsValidFillMethod returns true if m is a supported fill method.
func IsValidFillMethod(m FillMethod) bool {
	switch m {
	case FillForward, FillLinear, FillNone:
		return true
	default:
		return false
	}
}

// MergeConfig is immutable per merge call.
type MergeConfig struct {
	FillMethod FillMethod `json:"fill_method"`
	InnerJoin  bool       `json:"inner_join"`
}

// KeyedSeries pairs a series with the unique key it appears under in merge
// output. Key uniqueness is enforced at the API boundary, not by the merger.
type KeyedSeries struct {
	Key  string        `json:"key"`
	Data []Observation `json:"data"`
}

// MergedPoint is one date on the common axis with one value per series key.
// A nil value means the series has no value at that date; it is serialized
// as an explicit JSON null, never omitted.
type MergedPoint struct {
	Date   string
	Values map[string]*float64
}

// MarshalJSON flattens the point into {"date": d, "<key>": value|null, ...}.
func (p MergedPoint) MarshalJSON() ([]byte, error) {
	flat := make(map[string]interface{}, len(p.Values)+1)
	flat["date"] = p.Date
	for k, v := range p.Values {
		if v == nil {
			flat[k] = nil
		} else {
			flat[k] = *v
		}
	}
	return json.Marshal(flat)
}

// SeriesInfo is per-series merge metadata. FilledCount is the number of
// output dates where the series carries a value it had no observation for.
type SeriesInfo struct {
	Key               string    `json:"key"`
	OriginalFrequency Frequency `json:"original_frequency"`
	OriginalCount     int       `json:"original_count"`
	FilledCount       int       `json:"filled_count"`
}

// DateRange is the first and last date of a merged result. Both ends are
// empty strings when the result is empty.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// MergeResult is the output of merging N series onto a common date axis.
type MergeResult struct {
	Data       []MergedPoint `json:"data"`
	SeriesInfo []SeriesInfo  `json:"series_info"`
	DateRange  DateRange     `json:"date_range"`
}
