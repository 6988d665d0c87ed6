package llm

import "errors"

var (
	// ErrInvalidCredential indicates the provider rejected the API key.
	ErrInvalidCredential = errors.New("llm api key rejected")

	// ErrQuotaExceeded indicates the key is out of quota or rate limited.
	ErrQuotaExceeded = errors.New("llm quota exceeded")

	// ErrProviderUnavailable indicates the provider could not be reached or
	// answered with a server-side failure.
	ErrProviderUnavailable = errors.New("llm provider unavailable")

	// ErrTimeout indicates the LLM request exceeded the configured timeout.
	ErrTimeout = errors.New("llm request timed out")

	// ErrRetryExhausted indicates all retry attempts have been exhausted.
	ErrRetryExhausted = errors.New("llm retry attempts exhausted")
)
