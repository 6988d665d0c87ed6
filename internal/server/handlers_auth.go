package server

import (
	"errors"
	"net/http"

	"github.com/alexanderramin/plannersmart/internal/service"
)

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	APIKey   string `json:"apiKey"`
}

type registerResponse struct {
	Message string `json:"message"`
	UserID  int64  `json:"userId"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Message  string `json:"message"`
	Token    string `json:"token"`
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
}

type apiKeyRequest struct {
	APIKey string `json:"apiKey"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	u, err := s.auth.Register(r.Context(), req.Username, req.Password, req.APIKey)
	if err != nil {
		if errors.Is(err, service.ErrUsernameTaken) {
			writeError(w, http.StatusConflict, "Username already taken.")
			return
		}
		s.writeServiceError(w, r, err, "User not found.")
		return
	}
	writeJSON(w, http.StatusCreated, registerResponse{Message: "User registered successfully.", UserID: u.ID})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	token, u, err := s.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "Invalid username or password.")
			return
		}
		s.writeServiceError(w, r, err, "User not found.")
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{
		Message:  "Login successful.",
		Token:    token,
		UserID:   u.ID,
		Username: u.Username,
	})
}

func (s *Server) handleUpdateAPIKey(w http.ResponseWriter, r *http.Request) {
	var req apiKeyRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := s.auth.UpdateAPIKey(r.Context(), userID(r), req.APIKey); err != nil {
		s.writeServiceError(w, r, err, "User not found.")
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "API Key updated successfully."})
}
