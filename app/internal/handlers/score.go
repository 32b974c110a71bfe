package handlers

import (
	"net/http"

	"github.com/promptimpact/impact-proxy/app/domain/entities"
	"github.com/promptimpact/impact-proxy/app/internal/scorer"
)

type scoreRequest struct {
	Text     string                 `json:"text"`
	Messages []entities.ChatMessage `json:"messages"`
}

// ScoreHandler handles /score. Purely lexical; no upstream call.
func ScoreHandler(w http.ResponseWriter, r *http.Request) {
	var req scoreRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, scorer.Score(req.Text, req.Messages))
}
