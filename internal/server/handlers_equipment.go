package server

import (
	"net/http"

	"github.com/claude/fittrack/internal/models"
)

func (s *Server) handleListEquipment(w http.ResponseWriter, r *http.Request) {
	rows, err := s.store.ListEquipment(r.Context())
	if err != nil {
		s.storeError(w, err, "equipment")
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleCreateEquipment(w http.ResponseWriter, r *http.Request) {
	var e models.Equipment
	if !decodeBody(w, r, &e) {
		return
	}
	created, err := s.store.CreateEquipment(r.Context(), e)
	if err != nil {
		s.storeError(w, err, "equipment")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateEquipment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var e models.Equipment
	if !decodeBody(w, r, &e) {
		return
	}
	updated, err := s.store.UpdateEquipment(r.Context(), id, e)
	if err != nil {
		s.storeError(w, err, "equipment")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleListCatalog(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt(r, "page")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	q := r.URL.Query()
	rows, err := s.store.ListCatalog(r.Context(), models.CatalogQuery{
		Page:      page,
		Limit:     limit,
		Name:      q.Get("name"),
		Muscle:    q.Get("muscle"),
		Equipment: q.Get("equipment"),
	})
	if err != nil {
		s.storeError(w, err, "exercise")
		return
	}
	writeJSON(w, http.StatusOK, rows)
}
