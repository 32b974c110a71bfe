// Package impact converts token counts into environmental-cost estimates
// using fixed linear coefficients.
package impact

import (
	"fmt"
	"math"

	"github.com/promptimpact/impact-proxy/app/domain/entities"
)

// Rough per-token coefficients. Placeholder research defaults; tune once
// real provider measurements exist.
const (
	WhPerToken  = 0.05 // Wh per token
	KgCO2PerKWh = 0.40 // kg CO2e per kWh
	WUELPerKWh  = 1.8  // liters of water per kWh (Water Usage Effectiveness)
)

// Round6 rounds to 6 decimal places, the precision every impact figure is
// reported with.
func Round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}

// Estimate derives energy, carbon and water figures for a token count.
// The only failure mode is a negative token count.
func Estimate(tokens int) (entities.Impact, error) {
	if tokens < 0 {
		return entities.Impact{}, fmt.Errorf("%w: token count must be non-negative, got %d", entities.ErrInvalidArgument, tokens)
	}
	kwh := float64(tokens) * WhPerToken / 1000.0
	return entities.Impact{
		KWh:    Round6(kwh),
		CO2Kg:  Round6(kwh * KgCO2PerKWh),
		WaterL: Round6(kwh * WUELPerKWh),
	}, nil
}
