package handlers_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/promptimpact/impact-proxy/app/domain/entities"
	"github.com/promptimpact/impact-proxy/app/internal/handlers"
)

type mockTokenCounter struct {
	CountTokensFunc func(model, text string) (int, error)
}

func (m *mockTokenCounter) CountTokens(model, text string) (int, error) {
	if m.CountTokensFunc != nil {
		return m.CountTokensFunc(model, text)
	}
	return 0, errors.New("CountTokensFunc not implemented")
}

func TestCountHandler_Handle(t *testing.T) {
	mtc := &mockTokenCounter{
		CountTokensFunc: func(model, text string) (int, error) {
			if model != "claude-3-5-haiku-20241022" {
				t.Errorf("model = %q", model)
			}
			if text != "Hello there" {
				t.Errorf("text = %q", text)
			}
			return 800, nil
		},
	}
	ch := handlers.NewCountHandler(mtc)

	req := httptest.NewRequest(http.MethodPost, "/count",
		strings.NewReader(`{"text":"Hello there","model":"claude-3-5-haiku-20241022"}`))
	rr := httptest.NewRecorder()
	ch.Handle(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rr.Code, rr.Body.String())
	}
	var got struct {
		TokensInput          int     `json:"tokens_input"`
		TokensOutputEstimate int     `json:"tokens_output_estimate"`
		TokensTotalEstimate  int     `json:"tokens_total_estimate"`
		WhPerToken           float64 `json:"wh_per_token"`
		KWh                  float64 `json:"kwh"`
		CO2Kg                float64 `json:"co2_kg"`
		WaterL               float64 `json:"water_l"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if got.TokensInput != 800 || got.TokensOutputEstimate != 200 || got.TokensTotalEstimate != 1000 {
		t.Errorf("token fields = %+v", got)
	}
	// 1000 tokens * 0.05 Wh = 0.05 kWh, 0.02 kg CO2, 0.09 L water.
	if got.WhPerToken != 0.05 || got.KWh != 0.05 || got.CO2Kg != 0.02 || got.WaterL != 0.09 {
		t.Errorf("impact fields = %+v", got)
	}
}

func TestCountHandler_ExplicitOutputEstimate(t *testing.T) {
	mtc := &mockTokenCounter{
		CountTokensFunc: func(model, text string) (int, error) { return 100, nil },
	}
	ch := handlers.NewCountHandler(mtc)

	req := httptest.NewRequest(http.MethodPost, "/count",
		strings.NewReader(`{"text":"hi","expected_output_tokens":500}`))
	rr := httptest.NewRecorder()
	ch.Handle(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	var got struct {
		TokensTotalEstimate int `json:"tokens_total_estimate"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if got.TokensTotalEstimate != 600 {
		t.Errorf("tokens_total_estimate = %d, want 600", got.TokensTotalEstimate)
	}
}

func TestCountHandler_EmptyText(t *testing.T) {
	ch := handlers.NewCountHandler(&mockTokenCounter{})

	req := httptest.NewRequest(http.MethodPost, "/count", strings.NewReader(`{"text":""}`))
	rr := httptest.NewRecorder()
	ch.Handle(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}

func TestCountHandler_UpstreamErrorPreserved(t *testing.T) {
	mtc := &mockTokenCounter{
		CountTokensFunc: func(model, text string) (int, error) {
			return 0, &entities.UpstreamError{StatusCode: http.StatusTooManyRequests, Body: `{"error":"rate_limit"}`}
		},
	}
	ch := handlers.NewCountHandler(mtc)

	req := httptest.NewRequest(http.MethodPost, "/count", strings.NewReader(`{"text":"hi"}`))
	rr := httptest.NewRecorder()
	ch.Handle(rr, req)

	if rr.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "rate_limit") {
		t.Errorf("body = %q, want upstream body passed through", rr.Body.String())
	}
}
