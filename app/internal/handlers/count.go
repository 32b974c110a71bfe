package handlers

import (
	"fmt"
	"net/http"

	"github.com/promptimpact/impact-proxy/app/domain/entities"
	"github.com/promptimpact/impact-proxy/app/internal/impact"
)

// defaultOutputEstimate is assumed when the caller does not supply an
// expected output length.
const defaultOutputEstimate = 200

// TokenCounter is the gateway surface the count endpoint needs.
type TokenCounter interface {
	CountTokens(model, text string) (int, error)
}

// CountHandler handles /count: provider token counting plus derived impact.
type CountHandler struct {
	counter TokenCounter
}

// NewCountHandler creates a new CountHandler with injected dependencies
func NewCountHandler(counter TokenCounter) *CountHandler {
	return &CountHandler{counter: counter}
}

type countRequest struct {
	Text                 string `json:"text"`
	Model                string `json:"model"`
	ExpectedOutputTokens *int   `json:"expected_output_tokens"`
}

type countResponse struct {
	TokensInput          int     `json:"tokens_input"`
	TokensOutputEstimate int     `json:"tokens_output_estimate"`
	TokensTotalEstimate  int     `json:"tokens_total_estimate"`
	WhPerToken           float64 `json:"wh_per_token"`
	KWh                  float64 `json:"kwh"`
	CO2Kg                float64 `json:"co2_kg"`
	WaterL               float64 `json:"water_l"`
}

func (h *CountHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var req countRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Text == "" {
		writeError(w, fmt.Errorf("%w: text must not be empty", entities.ErrInvalidArgument))
		return
	}

	tokensInput, err := h.counter.CountTokens(req.Model, req.Text)
	if err != nil {
		writeError(w, err)
		return
	}

	outEstimate := defaultOutputEstimate
	if req.ExpectedOutputTokens != nil && *req.ExpectedOutputTokens > 0 {
		outEstimate = *req.ExpectedOutputTokens
	}
	totalEstimate := tokensInput + outEstimate

	imp, err := impact.Estimate(totalEstimate)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, countResponse{
		TokensInput:          tokensInput,
		TokensOutputEstimate: outEstimate,
		TokensTotalEstimate:  totalEstimate,
		WhPerToken:           impact.WhPerToken,
		KWh:                  imp.KWh,
		CO2Kg:                imp.CO2Kg,
		WaterL:               imp.WaterL,
	})
}
