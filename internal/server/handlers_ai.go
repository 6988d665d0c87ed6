package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/alexanderramin/plannersmart/internal/llm"
	"github.com/alexanderramin/plannersmart/internal/taskgen"
)

const (
	MsgMissingAPIKey = "API Key not found for this user."
	MsgInvalidAPIKey = "Your stored API Key is invalid. Please update it."
)

type generateRequest struct {
	UserPrompt string `json:"userPrompt"`
}

func (s *Server) handleGenerateTasks(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.UserPrompt) == "" {
		writeError(w, http.StatusBadRequest, "User prompt is required.")
		return
	}

	tasks, err := s.generator.Generate(r.Context(), userID(r), req.UserPrompt)
	if err != nil {
		status, msg := generateErrorStatus(err)
		if status >= http.StatusInternalServerError {
			s.logger.ErrorContext(r.Context(), "task generation failed", "user_id", userID(r), "error", err)
		}
		writeError(w, status, msg)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func generateErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, taskgen.ErrEmptyGoal):
		return http.StatusBadRequest, "User prompt is required."
	case errors.Is(err, taskgen.ErrMissingCredential):
		return http.StatusNotFound, MsgMissingAPIKey
	case errors.Is(err, llm.ErrInvalidCredential):
		return http.StatusUnauthorized, MsgInvalidAPIKey
	case errors.Is(err, llm.ErrQuotaExceeded):
		return http.StatusTooManyRequests, "AI quota exceeded for your API Key. Try again later."
	case errors.Is(err, llm.ErrTimeout), errors.Is(err, llm.ErrProviderUnavailable):
		return http.StatusBadGateway, "The AI provider is unavailable. Try again later."
	default:
		return http.StatusInternalServerError, "Server error generating AI tasks."
	}
}
