package server

import (
	"net/http"

	"github.com/alexanderramin/plannersmart/internal/domain"
)

const msgAlarmNotFound = "Alarm not found or not owned by user."

func (s *Server) handleListAlarms(w http.ResponseWriter, r *http.Request) {
	alarms, err := s.alarms.List(r.Context(), userID(r))
	if err != nil {
		s.writeServiceError(w, r, err, msgAlarmNotFound)
		return
	}
	writeJSON(w, http.StatusOK, alarms)
}

func (s *Server) handleCreateAlarm(w http.ResponseWriter, r *http.Request) {
	var a domain.Alarm
	if !decodeJSON(w, r, &a) {
		return
	}
	if err := s.alarms.Create(r.Context(), userID(r), &a); err != nil {
		s.writeServiceError(w, r, err, msgAlarmNotFound)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

func (s *Server) handleUpdateAlarm(w http.ResponseWriter, r *http.Request) {
	var a domain.Alarm
	if !decodeJSON(w, r, &a) {
		return
	}
	a.ID = r.PathValue("id")
	if err := s.alarms.Update(r.Context(), userID(r), &a); err != nil {
		s.writeServiceError(w, r, err, msgAlarmNotFound)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) handleToggleAlarm(w http.ResponseWriter, r *http.Request) {
	a, err := s.alarms.Toggle(r.Context(), userID(r), r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, r, err, msgAlarmNotFound)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) handleDeleteAlarm(w http.ResponseWriter, r *http.Request) {
	if err := s.alarms.Delete(r.Context(), userID(r), r.PathValue("id")); err != nil {
		s.writeServiceError(w, r, err, msgAlarmNotFound)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Alarm deleted successfully."})
}
