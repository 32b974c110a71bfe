package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/promptimpact/impact-proxy/app/internal/handlers"
)

func TestScoreHandler(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/score",
		strings.NewReader(`{"text":"Summarize this article in 100 words as JSON with keys title and body."}`))
	rr := httptest.NewRecorder()
	handlers.ScoreHandler(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rr.Code, rr.Body.String())
	}
	var got struct {
		Score       int      `json:"score"`
		Suggestions []string `json:"suggestions"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if got.Score < 1 || got.Score > 5 {
		t.Errorf("score = %d, want 1..5", got.Score)
	}
}

func TestScoreHandler_Messages(t *testing.T) {
	body := `{"messages":[{"role":"assistant","content":"Sure."},{"role":"user","content":"List three risks as bullet points."}]}`
	req := httptest.NewRequest(http.MethodPost, "/score", strings.NewReader(body))
	rr := httptest.NewRecorder()
	handlers.ScoreHandler(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	var got struct {
		Signals struct {
			HasTask bool `json:"has_task"`
		} `json:"signals"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if !got.Signals.HasTask {
		t.Error("has_task = false, want true for the last user message")
	}
}

func TestScoreHandler_MalformedJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/score", strings.NewReader(`{"text":`))
	rr := httptest.NewRecorder()
	handlers.ScoreHandler(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}
