// Package apiclient talks to the planner HTTP API on behalf of a logged-in
// user.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/alexanderramin/plannersmart/internal/domain"
	"github.com/alexanderramin/plannersmart/internal/llm"
	"github.com/alexanderramin/plannersmart/internal/repository"
	"github.com/alexanderramin/plannersmart/internal/taskgen"
)

// ErrUnauthorized indicates a missing, invalid or expired session token.
var ErrUnauthorized = errors.New("not logged in or session expired")

// APIError is a non-2xx response. It unwraps to the matching sentinel so
// callers can use errors.Is.
type APIError struct {
	Status  int
	Message string
	kind    error
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.Status)
	}
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

func (e *APIError) Unwrap() error { return e.kind }

// Client is safe for concurrent use.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// New creates a Client for baseURL. token may be empty for the auth routes.
func New(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 90 * time.Second},
	}
}

// LoginResult is the session returned by Login.
type LoginResult struct {
	Token    string `json:"token"`
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
}

func (c *Client) Register(ctx context.Context, username, password, apiKey string) (int64, error) {
	var out struct {
		UserID int64 `json:"userId"`
	}
	body := map[string]string{"username": username, "password": password, "apiKey": apiKey}
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", body, &out, classifyDefault); err != nil {
		return 0, err
	}
	return out.UserID, nil
}

func (c *Client) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	var out LoginResult
	body := map[string]string{"username": username, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &out, classifyDefault); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateAPIKey(ctx context.Context, apiKey string) error {
	return c.do(ctx, http.MethodPut, "/api/auth/api-key", map[string]string{"apiKey": apiKey}, nil, classifyDefault)
}

func (c *Client) ListEvents(ctx context.Context) ([]domain.CalendarEvent, []domain.CalendarEvent, error) {
	var out struct {
		ActiveEvents    []domain.CalendarEvent `json:"activeEvents"`
		CompletedEvents []domain.CalendarEvent `json:"completedEvents"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/events", nil, &out, classifyDefault); err != nil {
		return nil, nil, err
	}
	return out.ActiveEvents, out.CompletedEvents, nil
}

func (c *Client) AddEvent(ctx context.Context, e domain.CalendarEvent) error {
	return c.do(ctx, http.MethodPost, "/api/events", e, nil, classifyDefault)
}

func (c *Client) DeleteEvent(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/events/"+url.PathEscape(id), nil, nil, classifyDefault)
}

func (c *Client) CompleteEvent(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPatch, "/api/events/"+url.PathEscape(id)+"/complete", nil, nil, classifyDefault)
}

// GenerateTasks asks the server to turn goal into proposed tasks.
func (c *Client) GenerateTasks(ctx context.Context, goal string) ([]domain.GeneratedTask, error) {
	var out []domain.GeneratedTask
	body := map[string]string{"userPrompt": goal}
	if err := c.do(ctx, http.MethodPost, "/api/ai/generate-tasks", body, &out, classifyGenerate); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListAlarms(ctx context.Context) ([]domain.Alarm, error) {
	var out []domain.Alarm
	if err := c.do(ctx, http.MethodGet, "/api/alarms", nil, &out, classifyDefault); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateAlarm(ctx context.Context, a domain.Alarm) (*domain.Alarm, error) {
	var out domain.Alarm
	if err := c.do(ctx, http.MethodPost, "/api/alarms", a, &out, classifyDefault); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateAlarm(ctx context.Context, a domain.Alarm) error {
	return c.do(ctx, http.MethodPut, "/api/alarms/"+url.PathEscape(a.ID), a, nil, classifyDefault)
}

func (c *Client) ToggleAlarm(ctx context.Context, id string) (*domain.Alarm, error) {
	var out domain.Alarm
	if err := c.do(ctx, http.MethodPatch, "/api/alarms/"+url.PathEscape(id)+"/toggle", nil, &out, classifyDefault); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteAlarm(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/alarms/"+url.PathEscape(id), nil, nil, classifyDefault)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any, classify func(int) error) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var msg struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&msg)
		return &APIError{Status: resp.StatusCode, Message: msg.Message, kind: classify(resp.StatusCode)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func classifyDefault(status int) error {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	case http.StatusNotFound:
		return repository.ErrNotFound
	case http.StatusConflict:
		return repository.ErrConflict
	}
	return nil
}

// classifyGenerate reads the AI route's statuses: 401 there means the stored
// provider key was rejected, and 404 means no key is stored.
func classifyGenerate(status int) error {
	switch status {
	case http.StatusUnauthorized:
		return llm.ErrInvalidCredential
	case http.StatusForbidden:
		return ErrUnauthorized
	case http.StatusNotFound:
		return taskgen.ErrMissingCredential
	case http.StatusTooManyRequests:
		return llm.ErrQuotaExceeded
	case http.StatusBadGateway:
		return llm.ErrProviderUnavailable
	}
	return nil
}
