// Package queue dispatches calls to the upstream LLM provider through a
// rate-limited worker. It holds no session state.
package queue

import (
	"bytes"
	"context"
	"io"
	"log"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/promptimpact/impact-proxy/app/domain/entities"
)

// Queue serializes upstream requests behind a token-bucket rate limiter and
// a client-side timeout. Push blocks until the reply arrives.
type Queue struct {
	ch      chan entities.UpstreamRequest
	limiter *rate.Limiter
	client  *http.Client
}

// NewQueue creates a new queue allowing limitPerMin upstream requests per
// minute, each bounded by timeout.
func NewQueue(limitPerMin int, timeout time.Duration) *Queue {
	if limitPerMin <= 0 {
		log.Printf("Warning: RateLimitPerMin is %d, defaulting to 60", limitPerMin)
		limitPerMin = 60
	}
	q := &Queue{
		ch:      make(chan entities.UpstreamRequest, 1000),
		limiter: rate.NewLimiter(rate.Limit(float64(limitPerMin)/60.0), 1),
		client:  &http.Client{Timeout: timeout},
	}

	go func() {
		for req := range q.ch {
			if err := q.limiter.Wait(context.Background()); err != nil {
				req.Reply <- entities.UpstreamResponse{Err: err}
				continue
			}
			go q.handle(req)
		}
	}()

	return q
}

// Push adds a request to the queue and returns the response
func (q *Queue) Push(r entities.UpstreamRequest) entities.UpstreamResponse {
	r.Reply = make(chan entities.UpstreamResponse, 1)
	q.ch <- r
	return <-r.Reply
}

// Close gracefully shuts down the queue
func (q *Queue) Close() {
	close(q.ch)
}

func (q *Queue) handle(p entities.UpstreamRequest) {
	log.Printf("Forwarding request to upstream URL: %s", p.URL)

	req, err := http.NewRequest(p.Method, p.URL, bytes.NewReader(p.Body))
	if err != nil {
		log.Printf("Error creating request: %v", err)
		p.Reply <- entities.UpstreamResponse{Err: err}
		return
	}
	req.Header = p.Headers.Clone()

	resp, err := q.client.Do(req)
	if err != nil {
		log.Printf("Error making request: %v", err)
		p.Reply <- entities.UpstreamResponse{Err: err}
		return
	}
	defer resp.Body.Close()

	log.Printf("Received upstream response with status: %d", resp.StatusCode)

	respBody, _ := io.ReadAll(resp.Body)

	p.Reply <- entities.UpstreamResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header.Clone(),
		Body:       respBody,
	}
}
