package entities

import "net/http"

// UpstreamRequest is one HTTP call to the LLM provider, dispatched through
// the rate-limited queue. Reply receives exactly one UpstreamResponse.
type UpstreamRequest struct {
	Method  string
	URL     string
	Headers http.Header
	Body    []byte
	Reply   chan UpstreamResponse
}
