package taskgen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/alexanderramin/plannersmart/internal/domain"
	"github.com/alexanderramin/plannersmart/internal/llm"
	"github.com/alexanderramin/plannersmart/internal/repository"
)

var (
	// ErrMissingCredential indicates the user has no provider key on file.
	ErrMissingCredential = errors.New("no api key stored for user")

	// ErrEmptyGoal indicates the caller supplied a blank goal.
	ErrEmptyGoal = errors.New("goal is required")
)

// Fallback record values used when the reply carries no recognisable records.
const (
	FallbackDescription = "Raw response line"
	FallbackDuration    = "00:30"
	FallbackColor       = "grey"
)

// CredentialSource resolves a user's stored provider key.
type CredentialSource interface {
	GetAPIKey(ctx context.Context, userID int64) (string, error)
}

// Generator turns a free-text goal into proposed tasks.
type Generator interface {
	// Generate returns the parsed tasks, or one fallback task per reply line
	// when nothing parsed. An empty reply yields an empty result.
	Generate(ctx context.Context, userID int64, goal string) ([]domain.GeneratedTask, error)
}

type generator struct {
	creds  CredentialSource
	client llm.LLMClient
	logger *slog.Logger
	now    func() time.Time
}

// NewGenerator creates a Generator. A nil logger discards output.
func NewGenerator(creds CredentialSource, client llm.LLMClient, logger *slog.Logger) Generator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &generator{
		creds:  creds,
		client: client,
		logger: logger,
		now:    time.Now,
	}
}

func (g *generator) Generate(ctx context.Context, userID int64, goal string) ([]domain.GeneratedTask, error) {
	if strings.TrimSpace(goal) == "" {
		return nil, ErrEmptyGoal
	}

	apiKey, err := g.creds.GetAPIKey(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMissingCredential
		}
		return nil, fmt.Errorf("resolving api key: %w", err)
	}
	if apiKey == "" {
		return nil, ErrMissingCredential
	}

	now := g.now()
	resp, err := g.client.Generate(ctx, llm.GenerateRequest{
		APIKey: apiKey,
		Prompt: BuildPrompt(goal, now),
	})
	if err != nil {
		return nil, fmt.Errorf("generating tasks: %w", err)
	}

	tasks := Parse(resp.Text)
	if len(tasks) > 0 {
		g.logger.Info("tasks generated", "user_id", userID, "count", len(tasks))
		return tasks, nil
	}
	if strings.TrimSpace(resp.Text) == "" {
		g.logger.Info("empty model reply", "user_id", userID)
		return []domain.GeneratedTask{}, nil
	}

	fallback := fallbackTasks(resp.Text, now)
	g.logger.Warn("reply had no parseable records, returning raw lines",
		"user_id", userID, "count", len(fallback))
	return fallback, nil
}

// fallbackTasks synthesises one task per non-blank line of text.
func fallbackTasks(text string, now time.Time) []domain.GeneratedTask {
	start := domain.FormatEventTime(now)
	var tasks []domain.GeneratedTask
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		tasks = append(tasks, domain.GeneratedTask{
			Title:       line,
			Description: FallbackDescription,
			StartTime:   start,
			Duration:    FallbackDuration,
			Color:       FallbackColor,
		})
	}
	return tasks
}
