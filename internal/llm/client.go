// Package llm sends single-turn completion requests to a language model
// provider with per-task sampling parameters, timeouts and call observation.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"
)

// GenerateRequest holds the parameters for an LLM generation call.
type GenerateRequest struct {
	Task         TaskType
	SystemPrompt string
	UserPrompt   string
	Temperature  *float64 // nil uses task default
	MaxTokens    *int     // nil uses task default
}

// GenerateResponse holds the result of an LLM generation call.
type GenerateResponse struct {
	Text      string
	Model     string
	LatencyMs int64
}

// Client provides access to a language model for text generation.
type Client interface {
	// Generate sends a prompt and returns the raw text response.
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)

	// Available checks whether the provider is reachable.
	Available(ctx context.Context) bool
}

// completion is one resolved request handed to a backend.
type completion struct {
	System      string
	Prompt      string
	Temperature float64
	MaxTokens   int
}

// backend performs a single provider round-trip.
type backend interface {
	complete(ctx context.Context, c completion) (text, model string, err error)
	available(ctx context.Context) bool
}

// retryingClient applies task defaults, the task timeout, the retry budget
// and observer notification around a backend.
type retryingClient struct {
	cfg      LLMConfig
	backend  backend
	observer Observer
}

func newRetryingClient(cfg LLMConfig, b backend, observer Observer) *retryingClient {
	if observer == nil {
		observer = NoopObserver{}
	}
	return &retryingClient{cfg: cfg, backend: b, observer: observer}
}

func (c *retryingClient) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	start := time.Now()

	taskCfg := c.cfg.Tasks[req.Task]
	temp := taskCfg.Temperature
	if req.Temperature != nil {
		temp = *req.Temperature
	}
	maxTok := taskCfg.MaxTokens
	if req.MaxTokens != nil {
		maxTok = *req.MaxTokens
	}

	timeoutMs := c.cfg.TaskTimeout(req.Task)
	ctx, cancel := context.WithTimeout(ctx, time.Duration(timeoutMs)*time.Millisecond)
	defer cancel()

	body := completion{
		System:      req.SystemPrompt,
		Prompt:      req.UserPrompt,
		Temperature: temp,
		MaxTokens:   maxTok,
	}

	var lastErr error
	attempts := 1 + max(c.cfg.MaxRetries, 0)

	made := 0
	for i := 0; i < attempts; i++ {
		made++
		text, model, err := c.backend.complete(ctx, body)
		if err == nil {
			latency := time.Since(start).Milliseconds()
			if model == "" {
				model = c.cfg.Model
			}
			c.observer.OnCallComplete(LLMCallEvent{
				Task:      req.Task,
				Provider:  c.cfg.Provider,
				Model:     model,
				LatencyMs: latency,
				Attempts:  made,
				Success:   true,
			})
			return &GenerateResponse{
				Text:      text,
				Model:     model,
				LatencyMs: latency,
			}, nil
		}
		lastErr = err

		// Don't retry on context cancellation/timeout
		if ctx.Err() != nil {
			break
		}
	}

	var err error
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		err = fmt.Errorf("%w: %v", ErrTimeout, lastErr)
	case ctx.Err() != nil:
		err = fmt.Errorf("%w: %v", ErrCanceled, lastErr)
	case isConnectionError(lastErr):
		err = ErrUnavailable
	case errors.Is(lastErr, ErrEmptyResponse):
		err = lastErr
	default:
		err = fmt.Errorf("%w: %v", ErrRetryExhausted, lastErr)
	}

	c.observer.OnCallComplete(LLMCallEvent{
		Task:      req.Task,
		Provider:  c.cfg.Provider,
		Model:     c.cfg.Model,
		LatencyMs: time.Since(start).Milliseconds(),
		Attempts:  made,
		Success:   false,
		ErrorCode: errorCode(err),
		Err:       lastErr,
	})
	return nil, err
}

func (c *retryingClient) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return c.backend.available(ctx)
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	var netErr *net.OpError
	return errors.As(err, &netErr)
}

func errorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrCanceled):
		return "CANCELED"
	case errors.Is(err, ErrUnavailable):
		return "UNAVAILABLE"
	case errors.Is(err, ErrEmptyResponse):
		return "EMPTY_RESPONSE"
	default:
		return "UNKNOWN"
	}
}
