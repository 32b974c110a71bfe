package entities

import "net/http"

// UpstreamResponse carries the provider's reply, or the transport error,
// back to the caller that pushed the request.
type UpstreamResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	Err        error
}
