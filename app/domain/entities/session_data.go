package entities

import "time"

// Totals is the running element-wise sum of all turns in a session.
type Totals struct {
	TokensInput int     `json:"tokens_input"`
	TokensTotal int     `json:"tokens_total"`
	KWh         float64 `json:"kwh"`
	CO2Kg       float64 `json:"co2_kg"`
	WaterL      float64 `json:"water_l"`
}

// TurnRecord is one ingested token-usage event. Immutable once appended;
// Index and Timestamp are assigned by the repository.
type TurnRecord struct {
	Index       int       `json:"turn"`
	Timestamp   time.Time `json:"ts"`
	TokensInput int       `json:"tokens_input"`
	TokensTotal int       `json:"tokens_total"`
	KWh         float64   `json:"kwh"`
	CO2Kg       float64   `json:"co2_kg"`
	WaterL      float64   `json:"water_l"`
}

// SessionData holds the accumulated impact totals and the ordered turn
// history for one session.
type SessionData struct {
	SessionID string       `json:"session_id"`
	StartedAt time.Time    `json:"started_at"`
	UpdatedAt time.Time    `json:"updated_at"`
	Totals    Totals       `json:"totals"`
	Turns     []TurnRecord `json:"turns"`
}
