package llm

import "errors"

var (
	// ErrUnavailable indicates the completion endpoint is unreachable.
	ErrUnavailable = errors.New("llm endpoint unavailable")

	// ErrTimeout indicates the LLM request exceeded the configured timeout.
	ErrTimeout = errors.New("llm request timed out")

	// ErrCanceled indicates the caller cancelled the request before it completed.
	ErrCanceled = errors.New("llm request canceled")

	// ErrEmptyResponse indicates the provider answered without any choice or candidate.
	ErrEmptyResponse = errors.New("llm returned no completion")

	// ErrRetryExhausted indicates all retry attempts have been exhausted.
	ErrRetryExhausted = errors.New("llm retry attempts exhausted")

	// ErrMissingAPIKey indicates a hosted provider was selected without a key.
	ErrMissingAPIKey = errors.New("llm api key not configured")

	// ErrUnknownProvider indicates the configured provider is not supported.
	ErrUnknownProvider = errors.New("unknown llm provider")
)
