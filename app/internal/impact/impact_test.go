package impact_test

import (
	"errors"
	"math"
	"testing"

	"github.com/promptimpact/impact-proxy/app/domain/entities"
	"github.com/promptimpact/impact-proxy/app/internal/impact"
)

func TestEstimate_KnownValues(t *testing.T) {
	tests := []struct {
		name       string
		tokens     int
		wantKWh    float64
		wantCO2Kg  float64
		wantWaterL float64
	}{
		{name: "zero tokens", tokens: 0, wantKWh: 0, wantCO2Kg: 0, wantWaterL: 0},
		{name: "one token", tokens: 1, wantKWh: 0.00005, wantCO2Kg: 0.00002, wantWaterL: 0.00009},
		{name: "thousand tokens", tokens: 1000, wantKWh: 0.05, wantCO2Kg: 0.02, wantWaterL: 0.09},
		{name: "typical request", tokens: 1234, wantKWh: 0.0617, wantCO2Kg: 0.02468, wantWaterL: 0.11106},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := impact.Estimate(tt.tokens)
			if err != nil {
				t.Fatalf("Estimate(%d) error = %v", tt.tokens, err)
			}
			if got.KWh != tt.wantKWh {
				t.Errorf("Estimate(%d).KWh = %v, want %v", tt.tokens, got.KWh, tt.wantKWh)
			}
			if got.CO2Kg != tt.wantCO2Kg {
				t.Errorf("Estimate(%d).CO2Kg = %v, want %v", tt.tokens, got.CO2Kg, tt.wantCO2Kg)
			}
			if got.WaterL != tt.wantWaterL {
				t.Errorf("Estimate(%d).WaterL = %v, want %v", tt.tokens, got.WaterL, tt.wantWaterL)
			}
		})
	}
}

func TestEstimate_LinearInKWh(t *testing.T) {
	// co2 and water must be exact linear functions of the (unrounded) kwh.
	for _, tokens := range []int{1, 7, 42, 999, 100000} {
		got, err := impact.Estimate(tokens)
		if err != nil {
			t.Fatalf("Estimate(%d) error = %v", tokens, err)
		}
		kwh := float64(tokens) * impact.WhPerToken / 1000.0
		if want := impact.Round6(kwh); got.KWh != want {
			t.Errorf("Estimate(%d).KWh = %v, want %v", tokens, got.KWh, want)
		}
		if want := impact.Round6(kwh * impact.KgCO2PerKWh); got.CO2Kg != want {
			t.Errorf("Estimate(%d).CO2Kg = %v, want %v", tokens, got.CO2Kg, want)
		}
		if want := impact.Round6(kwh * impact.WUELPerKWh); got.WaterL != want {
			t.Errorf("Estimate(%d).WaterL = %v, want %v", tokens, got.WaterL, want)
		}
	}
}

func TestEstimate_NegativeTokens(t *testing.T) {
	_, err := impact.Estimate(-1)
	if !errors.Is(err, entities.ErrInvalidArgument) {
		t.Errorf("Estimate(-1) error = %v, want ErrInvalidArgument", err)
	}
}

func TestRound6(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{in: 0.1234564, want: 0.123456},
		{in: 0.1234565, want: 0.123457},
		{in: 0, want: 0},
		{in: 1.0000001, want: 1},
	}
	for _, tt := range tests {
		if got := impact.Round6(tt.in); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("Round6(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
