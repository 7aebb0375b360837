package signals

import (
	"fmt"
	"strings"
	"time"

	"FedPulse/internal/domain/models"
)

// Composite blend weights; they sum to 1 so the confidence blend needs no
// clamping.
const (
	WeightRate       = 0.30
	WeightVolatility = 0.25
	WeightCredit     = 0.25
	WeightHousing    = 0.20
)

const factorThreshold = 0.2

var factorPhrases = map[string]string{
	string(models.SignalRate):       "interest rate environment",
	string(models.SignalVolatility): "market volatility conditions",
	string(models.SignalCredit):     "credit market health",
	string(models.SignalHousing):    "housing market momentum",
}

// Composite blends the four component signals into one bounded score. The
// indicators map exposes both the weights and the 2-decimal weighted
// contributions so consumers can audit the breakdown without recomputation.
func Composite(rate, volatility, credit, housing models.SignalResult) models.SignalResult {
	type component struct {
		res    models.SignalResult
		weight float64
	}
	components := []component{
		{rate, WeightRate},
		{volatility, WeightVolatility},
		{credit, WeightCredit},
		{housing, WeightHousing},
	}

	value := 0.0
	confidence := 0.0
	indicators := make(map[string]*float64, len(components)*2)
	var bullish, bearish []string

	for _, c := range components {
		value += c.res.Value * c.weight
		confidence += c.res.Confidence * c.weight
		indicators[c.res.Name+"_weight"] = ptr(c.weight)
		indicators[c.res.Name+"_contribution"] = ptr(round2(c.res.Value * c.weight))

		if c.res.Value > factorThreshold {
			bullish = append(bullish, factorPhrases[c.res.Name])
		} else if c.res.Value < -factorThreshold {
			bearish = append(bearish, factorPhrases[c.res.Name])
		}
	}
	value = round2(Clamp(value))

	var tone string
	switch {
	case value > 0.3:
		tone = "Overall conditions look favorable for risk assets."
	case value < -0.3:
		tone = "Overall conditions look challenging for risk assets."
	default:
		tone = "Overall conditions are mixed."
	}
	parts := []string{tone}
	if len(bullish) > 0 {
		parts = append(parts, fmt.Sprintf("Bullish factors: %s.", strings.Join(bullish, ", ")))
	}
	if len(bearish) > 0 {
		parts = append(parts, fmt.Sprintf("Bearish factors: %s.", strings.Join(bearish, ", ")))
	}

	return models.SignalResult{
		Name:           string(models.SignalComposite),
		Value:          value,
		Interpretation: Interpret(value),
		Confidence:     confidence,
		Explanation:    strings.Join(parts, " "),
		Indicators:     indicators,
		UpdatedAt:      time.Now().UTC(),
	}
}
