package server

import (
	"net/http"

	"github.com/alexanderramin/plannersmart/internal/domain"
)

type eventsResponse struct {
	ActiveEvents    []domain.CalendarEvent `json:"activeEvents"`
	CompletedEvents []domain.CalendarEvent `json:"completedEvents"`
}

type addEventResponse struct {
	Message string `json:"message"`
	EventID string `json:"eventId"`
}

func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	active, completed, err := s.events.List(r.Context(), userID(r))
	if err != nil {
		s.writeServiceError(w, r, err, "No events.")
		return
	}
	writeJSON(w, http.StatusOK, eventsResponse{ActiveEvents: active, CompletedEvents: completed})
}

func (s *Server) handleAddEvent(w http.ResponseWriter, r *http.Request) {
	var e domain.CalendarEvent
	if !decodeJSON(w, r, &e) {
		return
	}
	if err := s.events.Add(r.Context(), userID(r), e); err != nil {
		s.writeServiceError(w, r, err, "Event not found.")
		return
	}
	writeJSON(w, http.StatusCreated, addEventResponse{Message: "Event added successfully.", EventID: e.ID})
}

func (s *Server) handleCompleteEvent(w http.ResponseWriter, r *http.Request) {
	if err := s.events.Complete(r.Context(), userID(r), r.PathValue("id")); err != nil {
		s.writeServiceError(w, r, err, "Event not found, not owned by user, or already completed.")
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Event marked as complete."})
}

func (s *Server) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	if err := s.events.Delete(r.Context(), userID(r), r.PathValue("id")); err != nil {
		s.writeServiceError(w, r, err, "Event not found or not owned by user.")
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Event deleted successfully."})
}
