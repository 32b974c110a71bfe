// Package gateway translates service requests into Anthropic API calls and
// parses the responses. It is a thin collaborator: upstream failures are
// propagated with their original status and body.
package gateway

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/promptimpact/impact-proxy/app/domain/entities"
)

const (
	anthropicVersion = "2023-06-01"
	countTokensPath  = "/v1/messages/count_tokens"
	messagesPath     = "/v1/messages"

	// Bounds for the rewrite call's max_tokens parameter.
	minRewriteTokens = 256
	maxRewriteTokens = 2048

	// maxIssues caps the parsed issue list.
	maxIssues = 4
)

// Markers the rewrite instruction demands and the parser splits on.
const (
	issuesMarker  = "Issues:"
	revisedMarker = "Revised:"
)

const rewriteSystem = "You are a prompt editor. Respond in exactly two sections. " +
	"The first starts with the line \"Issues:\" and lists at most four problems with the prompt, one per line. " +
	"The second starts with the line \"Revised:\" and contains only the improved prompt, nothing else."

// Dispatcher sends one upstream request and blocks for its reply.
type Dispatcher interface {
	Push(req entities.UpstreamRequest) entities.UpstreamResponse
}

// Client calls the Anthropic API through the dispatch queue.
type Client struct {
	apiKey       string
	baseURL      string
	defaultModel string
	dispatcher   Dispatcher
}

// NewClient creates a gateway client. baseURL must not end with a slash.
func NewClient(apiKey, baseURL, defaultModel string, d Dispatcher) *Client {
	return &Client{
		apiKey:       apiKey,
		baseURL:      strings.TrimRight(baseURL, "/"),
		defaultModel: defaultModel,
		dispatcher:   d,
	}
}

// Rewrite is the parsed result of a prompt-rewrite call.
type Rewrite struct {
	Issues  []string `json:"issues"`
	Revised string   `json:"revised_prompt"`
}

// post sends one JSON payload to the given API path. Non-2xx responses come
// back as *entities.UpstreamError; transport failures as a generic error.
func (c *Client) post(path string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode upstream payload: %w", err)
	}

	headers := http.Header{}
	headers.Set("x-api-key", c.apiKey)
	headers.Set("anthropic-version", anthropicVersion)
	headers.Set("content-type", "application/json")

	resp := c.dispatcher.Push(entities.UpstreamRequest{
		Method:  http.MethodPost,
		URL:     c.baseURL + path,
		Headers: headers,
		Body:    body,
	})
	if resp.Err != nil {
		return nil, fmt.Errorf("upstream call failed: %w", resp.Err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &entities.UpstreamError{StatusCode: resp.StatusCode, Body: string(resp.Body)}
	}
	return resp.Body, nil
}

// CountTokens returns the provider's input-token count for the given text.
// An empty model falls back to the configured default.
func (c *Client) CountTokens(model, text string) (int, error) {
	if model == "" {
		model = c.defaultModel
	}
	payload := map[string]any{
		"model": model,
		"messages": []entities.ChatMessage{
			{Role: "user", Content: text},
		},
	}

	body, err := c.post(countTokensPath, payload)
	if err != nil {
		return 0, err
	}

	var parsed struct {
		InputTokens int `json:"input_tokens"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return 0, fmt.Errorf("failed to decode count_tokens response: %w", err)
	}
	return parsed.InputTokens, nil
}

// clampMaxTokens bounds the requested output length.
func clampMaxTokens(n int) int {
	if n < minRewriteTokens {
		return minRewriteTokens
	}
	if n > maxRewriteTokens {
		return maxRewriteTokens
	}
	return n
}

// RewritePrompt asks the model to critique and rewrite the given prompt.
func (c *Client) RewritePrompt(model, text string, maxTokens int) (Rewrite, error) {
	if model == "" {
		model = c.defaultModel
	}
	payload := map[string]any{
		"model":      model,
		"max_tokens": clampMaxTokens(maxTokens),
		"system":     rewriteSystem,
		"messages": []entities.ChatMessage{
			{Role: "user", Content: text},
		},
	}

	body, err := c.post(messagesPath, payload)
	if err != nil {
		return Rewrite{}, err
	}

	var parsed struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return Rewrite{}, fmt.Errorf("failed to decode messages response: %w", err)
	}

	var sb strings.Builder
	for _, block := range parsed.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	return parseRewrite(sb.String(), text), nil
}

// parseRewrite splits the model output on the literal "Issues:"/"Revised:"
// markers. When the markers are absent it falls back to the raw output, and
// when that is empty too, to the original prompt. Fragile by contract; keep
// every fallback here so the parsing mode can be swapped out in one place.
func parseRewrite(raw, original string) Rewrite {
	issuesIdx := strings.Index(raw, issuesMarker)
	revisedIdx := strings.Index(raw, revisedMarker)

	if issuesIdx == -1 || revisedIdx == -1 || revisedIdx < issuesIdx {
		revised := strings.TrimSpace(raw)
		if revised == "" {
			revised = original
		}
		return Rewrite{Issues: []string{}, Revised: revised}
	}

	issues := []string{}
	issuesBlock := raw[issuesIdx+len(issuesMarker) : revisedIdx]
	for _, line := range strings.Split(issuesBlock, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "-*• \t")
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		issues = append(issues, line)
		if len(issues) == maxIssues {
			break
		}
	}

	revised := strings.TrimSpace(raw[revisedIdx+len(revisedMarker):])
	if revised == "" {
		revised = original
	}
	return Rewrite{Issues: issues, Revised: revised}
}
