// Package ollama adapts the clause-risk, type-resolution and rewrite
// ports to a local Ollama chat API. Model output is untrusted: every
// adapter strips code fences, extracts the JSON object region and
// normalizes key variants before anything reaches the domain.
package ollama

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/rghosh/clausewise/internal/infrastructure/resilience"
)

const chatPath = "/api/chat"

type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client
	limiter    *rate.Limiter
	exec       *resilience.Executor
	onCall     func(operation string, err error)
}

// New builds a chat client. rps bounds outbound request rate; a local
// model server falls over quickly when hammered, so everything the
// analyzer sends goes through one shared limiter.
func New(baseURL, model string, rps float64, exec *resilience.Executor) *Client {
	if rps <= 0 {
		rps = 1
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		httpClient: &http.Client{Timeout: 180 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		exec:       exec,
	}
}

// SetCallObserver registers a hook invoked once per completed chat call
// with the operation name and its final error. Used by the worker to feed
// call counters; not safe to call once requests are in flight.
func (c *Client) SetCallObserver(fn func(operation string, err error)) {
	c.onCall = fn
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string         `json:"model"`
	Messages []chatMessage  `json:"messages"`
	Stream   bool           `json:"stream"`
	Options  map[string]any `json:"options,omitempty"`
}

type chatResponse struct {
	Message chatMessage `json:"message"`
}

// chat sends one system+user exchange and returns the raw assistant
// content. Retries and the circuit breaker apply per operation name.
func (c *Client) chat(ctx context.Context, operation, system, user string, temperature float64) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	request := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Stream:  false,
		Options: map[string]any{"temperature": temperature},
	}

	var response chatResponse
	call := func(callCtx context.Context) error {
		return c.postJSON(callCtx, chatPath, request, &response, operation)
	}

	var err error
	if c.exec != nil {
		err = c.exec.Do(ctx, operation, classifyOllamaError, call)
	} else {
		err = call(ctx)
	}
	if c.onCall != nil {
		c.onCall(operation, err)
	}
	if err != nil {
		return "", wrapTemporaryIfNeeded(operation, err)
	}
	return strings.TrimSpace(response.Message.Content), nil
}
