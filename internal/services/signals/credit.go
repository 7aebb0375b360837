package signals

import (
	"fmt"
	"strings"
	"time"

	"FedPulse/internal/domain/models"
)

// Credit spread bands in percentage points, hand-tuned.
const (
	spreadDistressLevel = 4.0
	spreadStressLevel   = 3.0
	spreadWideLevel     = 2.5
	spreadTightLevel    = 1.5

	spreadWidening   = 0.5
	spreadTightening = -0.5
	spreadTrendShift = 0.3
)

// Credit scores funding-market health from the high-yield spread level,
// adjusted by the spread's direction over the last three observations.
// The investment-grade spread rides along as a context indicator.
func Credit(highYield, investmentGrade []models.Observation) models.SignalResult {
	indicators := make(map[string]*float64)
	var parts []string

	hy := latest(highYield)
	indicators["high_yield_spread"] = hy
	indicators["investment_grade_spread"] = latest(investmentGrade)

	if hy == nil {
		return models.SignalResult{
			Name:           string(models.SignalCredit),
			Value:          0,
			Interpretation: Interpret(0),
			Confidence:     0.3,
			Explanation:    "credit spread data unavailable",
			Indicators:     indicators,
			UpdatedAt:      time.Now().UTC(),
		}
	}

	s := *hy
	var value float64
	switch {
	case s > spreadDistressLevel:
		value = -1.0
		parts = append(parts, fmt.Sprintf("high-yield spreads (%.2f) at distressed levels", s))
	case s > spreadStressLevel:
		value = -0.6
		parts = append(parts, fmt.Sprintf("high-yield spreads (%.2f) show funding stress", s))
	case s > spreadWideLevel:
		value = -0.2
		parts = append(parts, fmt.Sprintf("high-yield spreads (%.2f) are moderately wide", s))
	case s < spreadTightLevel:
		value = 0.8
		parts = append(parts, fmt.Sprintf("tight high-yield spreads (%.2f) signal strong credit appetite", s))
	default:
		value = 0.2
		parts = append(parts, fmt.Sprintf("high-yield spreads (%.2f) are within normal range", s))
	}

	change := changeOverPeriods(highYield, 3)
	indicators["spread_change_3p"] = change
	if change != nil {
		if *change > spreadWidening {
			value -= spreadTrendShift
			parts = append(parts, fmt.Sprintf("spreads widened %.2f over 3 periods", *change))
		} else if *change < spreadTightening {
			value += spreadTrendShift
			parts = append(parts, fmt.Sprintf("spreads tightened %.2f over 3 periods", *change))
		}
	}

	value = round2(Clamp(value))
	return models.SignalResult{
		Name:           string(models.SignalCredit),
		Value:          value,
		Interpretation: Interpret(value),
		Confidence:     0.75,
		Explanation:    strings.Join(parts, "; "),
		Indicators:     indicators,
		UpdatedAt:      time.Now().UTC(),
	}
}
