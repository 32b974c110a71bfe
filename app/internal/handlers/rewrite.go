package handlers

import (
	"fmt"
	"net/http"

	"github.com/promptimpact/impact-proxy/app/domain/entities"
	"github.com/promptimpact/impact-proxy/app/internal/gateway"
)

// PromptRewriter is the gateway surface the rewrite endpoint needs.
type PromptRewriter interface {
	RewritePrompt(model, text string, maxTokens int) (gateway.Rewrite, error)
}

// RewriteHandler handles /rewrite: prompt critique and rewriting.
type RewriteHandler struct {
	rewriter PromptRewriter
}

// NewRewriteHandler creates a new RewriteHandler with injected dependencies
func NewRewriteHandler(rewriter PromptRewriter) *RewriteHandler {
	return &RewriteHandler{rewriter: rewriter}
}

type rewriteRequest struct {
	Text      string `json:"text"`
	Model     string `json:"model"`
	MaxTokens int    `json:"max_tokens"`
}

func (h *RewriteHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var req rewriteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Text == "" {
		writeError(w, fmt.Errorf("%w: text must not be empty", entities.ErrInvalidArgument))
		return
	}

	rewrite, err := h.rewriter.RewritePrompt(req.Model, req.Text, req.MaxTokens)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, rewrite)
}
