package signals

import (
	"fmt"
	"strings"
	"time"

	"FedPulse/internal/domain/models"
)

// Volatility-index level bands. Preserved as literal constants; the values
// are hand-tuned and load-bearing.
const (
	volExtremeLevel  = 35.0
	volElevatedLevel = 28.0
	volRaisedLevel   = 22.0
	volCalmLevel     = 16.0
	volComplacency   = 12.0

	volSMAPeriods   = 20
	volTrendBand    = 0.20
	volTrendPenalty = 0.2
)

// Volatility scores market stress from the absolute level of a volatility
// index, adjusted by its position against the trailing 20-period average:
// rising vol is worse than its level alone suggests, falling vol better.
func Volatility(vix []models.Observation) models.SignalResult {
	indicators := make(map[string]*float64)
	var parts []string

	level := latest(vix)
	sma := trailingSMA(vix, volSMAPeriods)
	indicators["vix"] = level
	indicators["vix_sma20"] = sma

	if level == nil {
		return models.SignalResult{
			Name:           string(models.SignalVolatility),
			Value:          0,
			Interpretation: Interpret(0),
			Confidence:     0.3,
			Explanation:    "volatility index data unavailable",
			Indicators:     indicators,
			UpdatedAt:      time.Now().UTC(),
		}
	}

	v := *level
	var value float64
	switch {
	case v > volExtremeLevel:
		value = -1.0
		parts = append(parts, fmt.Sprintf("extreme volatility (%.1f) signals panic conditions", v))
	case v > volElevatedLevel:
		value = -0.6
		parts = append(parts, fmt.Sprintf("elevated volatility (%.1f) reflects broad risk aversion", v))
	case v > volRaisedLevel:
		value = -0.2
		parts = append(parts, fmt.Sprintf("raised volatility (%.1f) warrants caution", v))
	case v < volComplacency:
		value = 0.4
		parts = append(parts, fmt.Sprintf("very low volatility (%.1f) is constructive but complacent", v))
	case v < volCalmLevel:
		value = 0.8
		parts = append(parts, fmt.Sprintf("calm volatility (%.1f) supports risk taking", v))
	default:
		value = 0.1
		parts = append(parts, fmt.Sprintf("volatility (%.1f) is near its normal range", v))
	}

	if sma != nil && *sma > 0 {
		ratio := v / *sma
		indicators["vix_vs_sma"] = ptr(round2(ratio))
		if ratio > 1+volTrendBand {
			value -= volTrendPenalty
			parts = append(parts, "volatility is rising sharply versus its 20-period average")
		} else if ratio < 1-volTrendBand {
			value += volTrendPenalty
			parts = append(parts, "volatility is falling versus its 20-period average")
		}
	} else {
		indicators["vix_vs_sma"] = nil
	}

	value = round2(Clamp(value))
	return models.SignalResult{
		Name:           string(models.SignalVolatility),
		Value:          value,
		Interpretation: Interpret(value),
		Confidence:     0.8,
		Explanation:    strings.Join(parts, "; "),
		Indicators:     indicators,
		UpdatedAt:      time.Now().UTC(),
	}
}
