package models

import "time"

// SignalType identifies one of the derived trading signals.
type SignalType string

const (
	SignalRate       SignalType = "rate"
	SignalVolatility SignalType = "volatility"
	SignalCredit     SignalType = "credit"
	SignalHousing    SignalType = "housing"
	SignalComposite  SignalType = "composite"
)

// IsValidSignalType returns true if t is a defined signal type.
func IsValidSignalType(t SignalType) bool {
	switch t {
	case SignalRate, SignalVolatility, SignalCredit, SignalHousing, SignalComposite:
		return true
	default:
		return false
	}
}

// Interpretation buckets a signal value into a reading for display and for
// the any_change alert condition. The bucket boundaries live in exactly one
// place (services/signals.Interpret); divergence between calculators and
// the alert evaluator would silently break edge detection.
type Interpretation string

const (
	StrongBearish Interpretation = "strong_bearish"
	Bearish       Interpretation = "bearish"
	Neutral       Interpretation = "neutral"
	Bullish       Interpretation = "bullish"
	StrongBullish Interpretation = "strong_bullish"
)

// SignalResult is an immutable snapshot of one computed signal. It is
// recomputed on every request; there is no cached "current signal" entity.
// Indicators carries the numeric features behind the score, nil where a
// feature could not be computed from the available history.
type SignalResult struct {
	Name           string              `json:"name"`
	Value          float64             `json:"value"`
	Interpretation Interpretation      `json:"interpretation"`
	Confidence     float64             `json:"confidence"`
	Explanation    string              `json:"explanation"`
	Indicators     map[string]*float64 `json:"indicators"`
	UpdatedAt      time.Time           `json:"updated_at"`
}
