// Package whatif projects hypothetical token savings onto impact estimates.
package whatif

import (
	"math"

	"github.com/promptimpact/impact-proxy/app/internal/impact"
)

// Knobs are the three independent scenario parameters, each in [0, 1].
type Knobs struct {
	TrimPct            float64 // fraction of input tokens removed
	SmallerModelFactor float64 // multiplier on output tokens
	CacheHitPct        float64 // fraction of the total served from cache
}

// Baseline is the unmodified usage the scenarios are compared against.
type Baseline struct {
	TokensInput  int     `json:"tokens_input"`
	TokensOutput int     `json:"tokens_output"`
	TokensTotal  int     `json:"tokens_total"`
	KWh          float64 `json:"kwh"`
	CO2Kg        float64 `json:"co2_kg"`
	WaterL       float64 `json:"water_l"`
}

// Delta is (scenario value - baseline value), impact fields rounded to 6
// decimals.
type Delta struct {
	TokensTotal int     `json:"tokens_total"`
	KWh         float64 `json:"kwh"`
	CO2Kg       float64 `json:"co2_kg"`
	WaterL      float64 `json:"water_l"`
}

// Scenario is one hypothetical transformation of the baseline usage.
type Scenario struct {
	TokensTotal int     `json:"tokens_total"`
	KWh         float64 `json:"kwh"`
	CO2Kg       float64 `json:"co2_kg"`
	WaterL      float64 `json:"water_l"`
	Delta       Delta   `json:"delta"`
}

// Scenarios holds the four projections.
type Scenarios struct {
	Trim         Scenario `json:"trim"`
	SmallerModel Scenario `json:"smaller_model"`
	Cache        Scenario `json:"cache"`
	Combined     Scenario `json:"combined"`
}

// Result is the full what-if computation.
type Result struct {
	Baseline  Baseline  `json:"baseline"`
	Scenarios Scenarios `json:"scenarios"`
}

// scale multiplies a token count by factor, flooring to an integer and
// clamping at zero.
func scale(tokens int, factor float64) int {
	scaled := int(math.Floor(float64(tokens) * factor))
	if scaled < 0 {
		return 0
	}
	return scaled
}

// Compute projects the trim, smaller-model, cache and combined scenarios for
// the given baseline usage. Pure; the caller boundary validates inputs.
func Compute(tokensInput, tokensOutput int, k Knobs) Result {
	baseTotal := tokensInput + tokensOutput
	baseImp, _ := impact.Estimate(baseTotal)

	baseline := Baseline{
		TokensInput:  tokensInput,
		TokensOutput: tokensOutput,
		TokensTotal:  baseTotal,
		KWh:          baseImp.KWh,
		CO2Kg:        baseImp.CO2Kg,
		WaterL:       baseImp.WaterL,
	}

	trimmedInput := scale(tokensInput, 1-k.TrimPct)
	smallerOutput := scale(tokensOutput, k.SmallerModelFactor)

	return Result{
		Baseline: baseline,
		Scenarios: Scenarios{
			Trim:         scenario(trimmedInput+tokensOutput, baseline),
			SmallerModel: scenario(tokensInput+smallerOutput, baseline),
			Cache:        scenario(scale(baseTotal, 1-k.CacheHitPct), baseline),
			Combined:     scenario(scale(trimmedInput+smallerOutput, 1-k.CacheHitPct), baseline),
		},
	}
}

// scenario derives the impact for a scenario token total and its delta
// against the baseline.
func scenario(tokensTotal int, base Baseline) Scenario {
	imp, _ := impact.Estimate(tokensTotal)
	return Scenario{
		TokensTotal: tokensTotal,
		KWh:         imp.KWh,
		CO2Kg:       imp.CO2Kg,
		WaterL:      imp.WaterL,
		Delta: Delta{
			TokensTotal: tokensTotal - base.TokensTotal,
			KWh:         impact.Round6(imp.KWh - base.KWh),
			CO2Kg:       impact.Round6(imp.CO2Kg - base.CO2Kg),
			WaterL:      impact.Round6(imp.WaterL - base.WaterL),
		},
	}
}
