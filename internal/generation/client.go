// Package generation talks to the external task-suggestion service, which
// turns a natural-language project description into a list of tasks.
package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrMalformedResponse is returned when the service answered but the payload
// does not satisfy the response contract.
var ErrMalformedResponse = errors.New("malformed generation response")

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 1 << 20

// Suggestion is one task proposed by the service.
type Suggestion struct {
	Task         string `json:"task"`
	Description  string `json:"description"`
	DaysToFinish int    `json:"daysToFinish"`
}

type request struct {
	ProjectDescription string `json:"project_description"`
}

type response struct {
	Tasks json.RawMessage `json:"tasks"`
	Error string          `json:"error,omitempty"`
}

// rawSuggestion uses pointers so missing fields can be told apart from zero values.
type rawSuggestion struct {
	Task         *string `json:"task"`
	Description  *string `json:"description"`
	DaysToFinish *int    `json:"daysToFinish"`
}

type Client struct {
	url        string
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

func NewClient(url string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Generate asks the service for tasks. The result is fully validated: either
// every suggestion is usable or an error is returned.
func (c *Client) Generate(ctx context.Context, description string) ([]Suggestion, error) {
	body, err := json.Marshal(request{ProjectDescription: description})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal generation request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build generation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("generation request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read generation response: %w", err)
	}

	var decoded response
	decodeErr := json.Unmarshal(data, &decoded)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if decodeErr == nil && decoded.Error != "" {
			return nil, fmt.Errorf("generation service returned %d: %s", resp.StatusCode, decoded.Error)
		}
		return nil, fmt.Errorf("generation service returned %d", resp.StatusCode)
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, decodeErr)
	}
	return parseSuggestions(decoded.Tasks)
}

func parseSuggestions(raw json.RawMessage) ([]Suggestion, error) {
	raw = json.RawMessage(bytes.TrimSpace(raw))
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, fmt.Errorf("%w: tasks is missing", ErrMalformedResponse)
	}
	// Some model-backed services return the array as a JSON string, possibly
	// wrapped in prose or code fences.
	if raw[0] == '"' {
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
		}
		start, end := strings.Index(text, "["), strings.LastIndex(text, "]")
		if start < 0 || end < start {
			return nil, fmt.Errorf("%w: tasks string holds no array", ErrMalformedResponse)
		}
		raw = json.RawMessage(text[start : end+1])
	}

	var items []rawSuggestion
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: no tasks", ErrMalformedResponse)
	}

	out := make([]Suggestion, 0, len(items))
	for i, item := range items {
		switch {
		case item.Task == nil:
			return nil, fmt.Errorf("%w: tasks[%d].task is missing", ErrMalformedResponse, i)
		case strings.TrimSpace(*item.Task) == "":
			return nil, fmt.Errorf("%w: tasks[%d].task is empty", ErrMalformedResponse, i)
		case item.Description == nil:
			return nil, fmt.Errorf("%w: tasks[%d].description is missing", ErrMalformedResponse, i)
		case item.DaysToFinish == nil:
			return nil, fmt.Errorf("%w: tasks[%d].daysToFinish is missing", ErrMalformedResponse, i)
		case *item.DaysToFinish <= 0:
			return nil, fmt.Errorf("%w: tasks[%d].daysToFinish must be positive, got %d", ErrMalformedResponse, i, *item.DaysToFinish)
		}
		out = append(out, Suggestion{
			Task:         strings.TrimSpace(*item.Task),
			Description:  *item.Description,
			DaysToFinish: *item.DaysToFinish,
		})
	}
	return out, nil
}
