package handlers

import (
	"fmt"
	"net/http"

	"github.com/promptimpact/impact-proxy/app/domain/entities"
	"github.com/promptimpact/impact-proxy/app/internal/whatif"
)

type whatIfRequest struct {
	TokensInput        int     `json:"tokens_input"`
	TokensOutput       int     `json:"tokens_output"`
	TrimPct            float64 `json:"trim_pct"`
	SmallerModelFactor float64 `json:"smaller_model_factor"`
	CacheHitPct        float64 `json:"cache_hit_pct"`
}

// WhatIfHandler handles /whatif: scenario projections over baseline usage.
// The engine itself is pure; all validation happens here.
func WhatIfHandler(w http.ResponseWriter, r *http.Request) {
	var req whatIfRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.TokensInput < 0 || req.TokensOutput < 0 {
		writeError(w, fmt.Errorf("%w: token counts must be non-negative", entities.ErrInvalidArgument))
		return
	}
	for name, v := range map[string]float64{
		"trim_pct":             req.TrimPct,
		"smaller_model_factor": req.SmallerModelFactor,
		"cache_hit_pct":        req.CacheHitPct,
	} {
		if v < 0 || v > 1 {
			writeError(w, fmt.Errorf("%w: %s must be between 0 and 1", entities.ErrInvalidArgument, name))
			return
		}
	}

	writeJSON(w, whatif.Compute(req.TokensInput, req.TokensOutput, whatif.Knobs{
		TrimPct:            req.TrimPct,
		SmallerModelFactor: req.SmallerModelFactor,
		CacheHitPct:        req.CacheHitPct,
	}))
}
