package signals

import (
	"fmt"
	"strings"
	"time"

	"FedPulse/internal/domain/models"
)

// Hand-tuned scoring bands. The exact values are load-bearing for
// reproducing signal outputs bit-for-bit; do not re-derive them.
const (
	rateChangeWeight = 0.6
	curveSlopeWeight = 0.4

	deepCutThreshold  = -0.5
	cutThreshold      = -0.25
	deepHikeThreshold = 0.5
	hikeThreshold     = 0.25

	steepInversionThreshold = -0.5
	steepCurveThreshold     = 1.5
)

// Rate scores the interest-rate environment from the policy rate path and
// the yield-curve slope. Rate cuts are bullish and hikes bearish in two
// severity tiers; an inverted curve is bearish in two tiers and a steep
// positive curve mildly bullish.
func Rate(policy, longYield, shortYield []models.Observation) models.SignalResult {
	indicators := make(map[string]*float64)
	var parts []string

	rateChange := changeOverPeriods(policy, 3)
	indicators["policy_rate"] = latest(policy)
	indicators["policy_rate_change_3p"] = rateChange

	changeScore := 0.0
	if rateChange != nil {
		switch {
		case *rateChange <= deepCutThreshold:
			changeScore = 1.0
			parts = append(parts, fmt.Sprintf("aggressive rate cuts (%.2f pts over 3 periods) support risk assets", *rateChange))
		case *rateChange <= cutThreshold:
			changeScore = 0.5
			parts = append(parts, fmt.Sprintf("easing policy (%.2f pts over 3 periods) is mildly supportive", *rateChange))
		case *rateChange >= deepHikeThreshold:
			changeScore = -1.0
			parts = append(parts, fmt.Sprintf("aggressive rate hikes (%+.2f pts over 3 periods) pressure valuations", *rateChange))
		case *rateChange >= hikeThreshold:
			changeScore = -0.5
			parts = append(parts, fmt.Sprintf("tightening policy (%+.2f pts over 3 periods) is a headwind", *rateChange))
		default:
			parts = append(parts, "policy rate is broadly stable")
		}
	} else {
		parts = append(parts, "insufficient policy rate history for the trend feature")
	}

	long := latest(longYield)
	short := latest(shortYield)
	var slope *float64
	if long != nil && short != nil {
		s := *long - *short
		slope = &s
	}
	indicators["yield_10y"] = long
	indicators["yield_3m"] = short
	indicators["curve_slope"] = slope

	slopeScore := 0.0
	if slope != nil {
		switch {
		case *slope <= steepInversionThreshold:
			slopeScore = -1.0
			parts = append(parts, fmt.Sprintf("deeply inverted yield curve (%.2f) signals recession risk", *slope))
		case *slope < 0:
			slopeScore = -0.5
			parts = append(parts, fmt.Sprintf("inverted yield curve (%.2f) is a caution flag", *slope))
		case *slope > steepCurveThreshold:
			slopeScore = 0.3
			parts = append(parts, fmt.Sprintf("steep yield curve (%.2f) reflects healthy growth expectations", *slope))
		default:
			parts = append(parts, "yield curve slope is unremarkable")
		}
	} else {
		parts = append(parts, "yield curve slope unavailable")
	}

	value := round2(Clamp(rateChangeWeight*changeScore + curveSlopeWeight*slopeScore))
	confidence := 0.5
	if rateChange != nil && slope != nil {
		confidence = 0.85
	}

	return models.SignalResult{
		Name:           string(models.SignalRate),
		Value:          value,
		Interpretation: Interpret(value),
		Confidence:     confidence,
		Explanation:    strings.Join(parts, "; "),
		Indicators:     indicators,
		UpdatedAt:      time.Now().UTC(),
	}
}
