package server

import (
	"net/http"

	"github.com/claude/fittrack/internal/models"
)

func (s *Server) handleCompleteWorkout(w http.ResponseWriter, r *http.Request) {
	var log models.WorkoutLog
	if !decodeBody(w, r, &log) {
		return
	}
	saved, err := s.store.CompleteWorkout(r.Context(), log)
	if err != nil {
		s.storeError(w, err, "program")
		return
	}
	s.log.Info("workout completed", "log_id", saved.ID, "user_id", saved.UserID, "exercises", len(saved.Exercises))
	writeJSON(w, http.StatusCreated, map[string]any{
		"status":       "completed",
		"id":           saved.ID,
		"completed_at": saved.CompletedAt,
	})
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r)
	if !ok {
		return
	}
	progress, err := s.store.GetProgress(r.Context(), userID)
	if err != nil {
		s.storeError(w, err, "progress")
		return
	}
	writeJSON(w, http.StatusOK, progress)
}
