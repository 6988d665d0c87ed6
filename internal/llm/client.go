package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"
)

// GenerateRequest holds the parameters for an LLM generation call.
type GenerateRequest struct {
	// APIKey is the caller's own provider key. Each call is bound to it.
	APIKey      string
	Prompt      string
	Temperature *float32 // nil uses the configured default
}

// GenerateResponse holds the result of an LLM generation call.
type GenerateResponse struct {
	Text      string
	Model     string
	LatencyMs int64
}

// LLMClient provides access to a language model for text generation.
type LLMClient interface {
	// Generate sends a prompt and returns the raw text response.
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)
}

// contentFunc performs one provider round trip and returns the reply text.
type contentFunc func(ctx context.Context, apiKey, prompt string, temperature float32) (string, error)

// geminiClient implements LLMClient using the Gemini API.
type geminiClient struct {
	cfg      LLMConfig
	http     *http.Client
	observer Observer
	call     contentFunc
}

// NewGeminiClient creates an LLMClient backed by Google's Gemini API.
func NewGeminiClient(cfg LLMConfig, observer Observer) LLMClient {
	if observer == nil {
		observer = NoopObserver{}
	}
	c := &geminiClient{
		cfg: cfg,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
		observer: observer,
	}
	c.call = c.generateContent
	return c
}

func (c *geminiClient) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	start := time.Now()

	if req.APIKey == "" {
		c.report(start, 0, ErrInvalidCredential)
		return nil, fmt.Errorf("%w: empty api key", ErrInvalidCredential)
	}

	temp := c.cfg.Temperature
	if req.Temperature != nil {
		temp = *req.Temperature
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(c.cfg.TimeoutMs)*time.Millisecond)
	defer cancel()

	var lastErr error
	attempts := 1 + c.cfg.MaxRetries
	tried := 0

	for i := 0; i < attempts; i++ {
		tried++
		text, err := c.call(ctx, req.APIKey, req.Prompt, temp)
		if err == nil {
			latency := c.report(start, tried, nil)
			return &GenerateResponse{
				Text:      text,
				Model:     c.cfg.Model,
				LatencyMs: latency,
			}, nil
		}
		lastErr = classify(err)

		// Credential and quota failures are final; so is a spent deadline.
		if !retryable(lastErr) || ctx.Err() != nil {
			break
		}
	}

	if ctx.Err() != nil {
		lastErr = ErrTimeout
	} else if retryable(lastErr) && tried > 1 {
		lastErr = fmt.Errorf("%w: %w", ErrRetryExhausted, lastErr)
	}
	c.report(start, tried, lastErr)
	return nil, lastErr
}

func (c *geminiClient) report(start time.Time, attempts int, err error) int64 {
	latency := time.Since(start).Milliseconds()
	c.observer.OnCallComplete(LLMCallEvent{
		Model:     c.cfg.Model,
		Attempts:  attempts,
		LatencyMs: latency,
		Success:   err == nil,
		ErrorCode: errorCode(err),
	})
	return latency
}

func (c *geminiClient) generateContent(ctx context.Context, apiKey, prompt string, temperature float32) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  c.http,
		HTTPOptions: genai.HTTPOptions{BaseURL: c.cfg.BaseURL},
	})
	if err != nil {
		return "", fmt.Errorf("creating gemini client: %w", err)
	}

	resp, err := client.Models.GenerateContent(ctx, c.cfg.Model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature: genai.Ptr(temperature),
	})
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}

// classify maps a provider or transport failure onto the package sentinels,
// keeping the original error in the chain.
func classify(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	if apiErr, ok := asAPIError(err); ok {
		msg := strings.ToLower(apiErr.Message)
		switch {
		case apiErr.Code == http.StatusUnauthorized,
			apiErr.Code == http.StatusForbidden,
			apiErr.Status == "UNAUTHENTICATED",
			apiErr.Status == "PERMISSION_DENIED",
			strings.Contains(msg, "api key not valid"),
			strings.Contains(msg, "api_key_invalid"):
			return fmt.Errorf("%w: %w", ErrInvalidCredential, err)
		case apiErr.Code == http.StatusTooManyRequests,
			apiErr.Status == "RESOURCE_EXHAUSTED":
			return fmt.Errorf("%w: %w", ErrQuotaExceeded, err)
		}
		return fmt.Errorf("%w: %w", ErrProviderUnavailable, err)
	}
	return fmt.Errorf("%w: %w", ErrProviderUnavailable, err)
}

func asAPIError(err error) (genai.APIError, bool) {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return *apiErrPtr, true
	}
	return genai.APIError{}, false
}

// retryable reports whether another attempt could succeed: transport
// failures and provider-side 5xx only.
func retryable(err error) bool {
	if !errors.Is(err, ErrProviderUnavailable) {
		return false
	}
	if apiErr, ok := asAPIError(err); ok {
		return apiErr.Code >= 500
	}
	return true
}

func errorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrInvalidCredential):
		return "INVALID_CREDENTIAL"
	case errors.Is(err, ErrQuotaExceeded):
		return "QUOTA"
	case errors.Is(err, ErrProviderUnavailable):
		return "UNAVAILABLE"
	default:
		return "UNKNOWN"
	}
}
