// Package ragfuse is a thin HTTP client for the ragfuse API.
package ragfuse

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const defaultTimeout = 130 * time.Second

// Client talks to a running ragfuse server.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Option configures a Client.
type Option interface {
	apply(*Client)
}

type optionFunc func(*Client)

func (f optionFunc) apply(c *Client) { f(c) }

// WithAPIKey sets the Bearer token sent with every request.
func WithAPIKey(key string) Option {
	return optionFunc(func(c *Client) { c.apiKey = key })
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return optionFunc(func(c *Client) { c.httpClient = hc })
}

// WithTimeout sets the request timeout on the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return optionFunc(func(c *Client) { c.httpClient.Timeout = d })
}

// New creates a Client for the given base URL, e.g. "http://localhost:8080".
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("ragfuse: base URL required")
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, o := range opts {
		o.apply(c)
	}
	return c, nil
}

// Answer is the reply to an Ask call.
type Answer struct {
	SessionID string `json:"session_id"`
	Answer    string `json:"answer"`
}

// ReasoningStep is one narrated step of a deep reasoning pass.
// Narration is the progress line; Content is the substance of the step.
type ReasoningStep struct {
	Name      string `json:"name"`
	Narration string `json:"narration"`
	Content   string `json:"content"`
}

// Reasoning is the reply to a DeepThink call.
type Reasoning struct {
	SessionID string          `json:"session_id"`
	Steps     []ReasoningStep `json:"steps"`
	Answer    string          `json:"answer"`
}

// Health is the server health report.
type Health struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// APIError is a non-2xx response decoded from the server.
type APIError struct {
	Status  int
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("ragfuse: %s (%d): %s", e.Code, e.Status, e.Message)
}

type askRequest struct {
	SessionID string `json:"session_id,omitempty"`
	Question  string `json:"question"`
}

// Ask answers a question. An empty sessionID starts a new conversation;
// the server-assigned ID comes back in the reply.
func (c *Client) Ask(ctx context.Context, sessionID, question string) (Answer, error) {
	var out Answer
	err := c.post(ctx, "/v1/ask", askRequest{SessionID: sessionID, Question: question}, &out)
	return out, err
}

// DeepThink answers a question with narrated reasoning steps.
func (c *Client) DeepThink(ctx context.Context, sessionID, question string) (Reasoning, error) {
	var out Reasoning
	err := c.post(ctx, "/v1/deep-think", askRequest{SessionID: sessionID, Question: question}, &out)
	return out, err
}

// Healthz fetches the server health report.
// A degraded report is returned alongside a nil error.
func (c *Client) Healthz(ctx context.Context) (Health, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/healthz", http.NoBody)
	if err != nil {
		return Health{}, fmt.Errorf("ragfuse: build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Health{}, fmt.Errorf("ragfuse: healthz: %w", err)
	}
	defer resp.Body.Close()

	var out Health
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Health{}, fmt.Errorf("ragfuse: decode health report: %w", err)
	}
	return out, nil
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("ragfuse: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("ragfuse: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ragfuse: %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		if err := json.NewDecoder(resp.Body).Decode(apiErr); err != nil {
			apiErr.Code = "unknown"
			apiErr.Message = resp.Status
		}
		return apiErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("ragfuse: decode response: %w", err)
	}
	return nil
}
