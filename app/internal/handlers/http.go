package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/promptimpact/impact-proxy/app/domain/entities"
)

// writeJSON encodes v as the response body.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

// writeError maps the error taxonomy onto HTTP statuses. Upstream failures
// keep their original status code and body; anything unrecognized surfaces
// generically.
func writeError(w http.ResponseWriter, err error) {
	var upstream *entities.UpstreamError
	switch {
	case errors.As(err, &upstream):
		http.Error(w, upstream.Body, upstream.StatusCode)
	case errors.Is(err, entities.ErrInvalidArgument):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, entities.ErrSessionNotFound):
		http.Error(w, "Session not found", http.StatusNotFound)
	default:
		log.Printf("Internal error: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// decodeJSON reads the request body into dst.
func decodeJSON(r *http.Request, dst any) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.Join(entities.ErrInvalidArgument, err)
	}
	return nil
}

// CORS wraps next with the configured allowed origin and answers preflight
// requests before they reach the mux.
func CORS(allowedOrigin string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "*")
		if allowedOrigin != "*" {
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Add("Vary", "Origin")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Health reports liveness.
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]bool{"ok": true})
}
