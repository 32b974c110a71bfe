package entities

// Impact is a derived environmental-cost estimate for a token count.
// It has no independent lifecycle; it is recomputed on demand.
type Impact struct {
	KWh    float64 `json:"kwh"`
	CO2Kg  float64 `json:"co2_kg"`
	WaterL float64 `json:"water_l"`
}
