package signals

import (
	"fmt"
	"strings"
	"time"

	"FedPulse/internal/domain/models"
)

// Housing scoring constants, hand-tuned.
const (
	housingPriceWeight  = 0.6
	housingStartsWeight = 0.4

	priceBoomYoY    = 8.0
	priceStrongYoY  = 4.0
	priceSoftYoY    = -4.0
	startsSwingBand = 10.0

	// YoY comparison is positional: twelve observations back on the
	// monthly price index, consistent with the other lookbacks.
	priceYoYPeriods = 12
	startsPeriods   = 3
)

// Housing scores the housing market from home-price year-over-year change
// (60%) and the short-run trend in housing starts (40%).
func Housing(priceIndex, starts []models.Observation) models.SignalResult {
	indicators := make(map[string]*float64)
	var parts []string

	priceYoY := pctChangeOverPeriods(priceIndex, priceYoYPeriods)
	indicators["home_price_index"] = latest(priceIndex)
	indicators["home_price_yoy_pct"] = roundPtr(priceYoY)

	priceScore := 0.0
	if priceYoY != nil {
		y := *priceYoY
		switch {
		case y > priceBoomYoY:
			priceScore = 1.0
			parts = append(parts, fmt.Sprintf("home prices up %.1f%% YoY, a booming market", y))
		case y > priceStrongYoY:
			priceScore = 0.6
			parts = append(parts, fmt.Sprintf("home prices up %.1f%% YoY, solid appreciation", y))
		case y > 0:
			priceScore = 0.2
			parts = append(parts, fmt.Sprintf("home prices up %.1f%% YoY, modest growth", y))
		case y > priceSoftYoY:
			priceScore = -0.5
			parts = append(parts, fmt.Sprintf("home prices down %.1f%% YoY, a softening market", y))
		default:
			priceScore = -1.0
			parts = append(parts, fmt.Sprintf("home prices down %.1f%% YoY, a sharp correction", y))
		}
	} else {
		parts = append(parts, "insufficient home price history for a YoY comparison")
	}

	startsChange := pctChangeOverPeriods(starts, startsPeriods)
	indicators["housing_starts"] = latest(starts)
	indicators["housing_starts_change_pct"] = roundPtr(startsChange)

	startsScore := 0.0
	if startsChange != nil {
		c := *startsChange
		if c > startsSwingBand {
			startsScore = 1.0
			parts = append(parts, fmt.Sprintf("housing starts surged %.1f%% over 3 periods", c))
		} else if c < -startsSwingBand {
			startsScore = -1.0
			parts = append(parts, fmt.Sprintf("housing starts fell %.1f%% over 3 periods", c))
		} else {
			parts = append(parts, "housing starts are steady")
		}
	} else {
		parts = append(parts, "housing starts trend unavailable")
	}

	value := round2(Clamp(housingPriceWeight*priceScore + housingStartsWeight*startsScore))
	confidence := 0.3
	if priceYoY != nil {
		confidence = 0.7
	}

	return models.SignalResult{
		Name:           string(models.SignalHousing),
		Value:          value,
		Interpretation: Interpret(value),
		Confidence:     confidence,
		Explanation:    strings.Join(parts, "; "),
		Indicators:     indicators,
		UpdatedAt:      time.Now().UTC(),
	}
}

func roundPtr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	return ptr(round2(*v))
}
