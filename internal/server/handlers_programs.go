package server

import (
	"net/http"

	"github.com/claude/fittrack/internal/models"
)

func (s *Server) handleListPrograms(w http.ResponseWriter, r *http.Request) {
	userID, err := queryInt(r, "user_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.listPrograms(w, r, int64(userID))
}

func (s *Server) handleListUserPrograms(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r)
	if !ok {
		return
	}
	s.listPrograms(w, r, userID)
}

func (s *Server) listPrograms(w http.ResponseWriter, r *http.Request, userID int64) {
	programs, err := s.store.ListPrograms(r.Context(), userID)
	if err != nil {
		s.storeError(w, err, "program")
		return
	}
	if programs == nil {
		programs = []models.Program{}
	}
	writeJSON(w, http.StatusOK, programs)
}

func (s *Server) handleCreateProgram(w http.ResponseWriter, r *http.Request) {
	var p models.Program
	if !decodeBody(w, r, &p) {
		return
	}
	if p.UserID <= 0 {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	s.createProgram(w, r, p)
}

func (s *Server) handleCreateUserProgram(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r)
	if !ok {
		return
	}
	var p models.Program
	if !decodeBody(w, r, &p) {
		return
	}
	p.UserID = userID
	s.createProgram(w, r, p)
}

func (s *Server) createProgram(w http.ResponseWriter, r *http.Request, p models.Program) {
	created, err := s.store.CreateProgram(r.Context(), p)
	if err != nil {
		s.storeError(w, err, "program")
		return
	}
	s.log.Info("program created", "program_id", created.ID, "user_id", created.UserID)
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetProgram(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	p, err := s.store.GetProgram(r.Context(), id)
	if err != nil {
		s.storeError(w, err, "program")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleUpdateProgram(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var p models.Program
	if !decodeBody(w, r, &p) {
		return
	}
	updated, err := s.store.UpdateProgram(r.Context(), id, p)
	if err != nil {
		s.storeError(w, err, "program")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteProgram(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.store.DeleteProgram(r.Context(), id); err != nil {
		s.storeError(w, err, "program")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleActivateProgram(w http.ResponseWriter, r *http.Request) {
	var req models.ActiveProgram
	if !decodeBody(w, r, &req) {
		return
	}
	active, err := s.store.ActivateProgram(r.Context(), req.UserID, req.ProgramID)
	if err != nil {
		s.storeError(w, err, "program")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":         "activated",
		"active_program": active,
	})
}

func (s *Server) handleGetActiveProgram(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r)
	if !ok {
		return
	}
	p, err := s.store.GetActiveProgram(r.Context(), userID)
	if err != nil {
		s.storeError(w, err, "active program")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleDeactivateProgram(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.store.DeactivateProgram(r.Context(), userID); err != nil {
		s.storeError(w, err, "active program")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deactivated"})
}
