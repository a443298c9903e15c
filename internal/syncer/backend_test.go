package syncer

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/claude/fittrack/internal/models"
)

// fakeBackend is an in-memory stand-in for the program endpoints. It assigns
// ids the way the real backend does: every non-positive id gets a fresh one.
type fakeBackend struct {
	mu       sync.Mutex
	nextID   int64
	programs map[int64]models.Program
	requests []string

	// hold, when set, is called at the start of every PUT before it is handled.
	hold func()
}

func newFakeBackend(t *testing.T) (*fakeBackend, *httptest.Server) {
	t.Helper()
	fb := &fakeBackend{nextID: 1000, programs: make(map[int64]models.Program)}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/users/{id}/programs", func(w http.ResponseWriter, r *http.Request) {
		userID, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
		var p models.Program
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			writeTestJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		fb.mu.Lock()
		fb.requests = append(fb.requests, "create")
		p.ID = 0
		p.UserID = userID
		fb.assign(&p)
		fb.programs[p.ID] = p
		fb.mu.Unlock()
		writeTestJSON(w, http.StatusCreated, p)
	})
	mux.HandleFunc("PUT /api/programs/{id}", func(w http.ResponseWriter, r *http.Request) {
		if fb.hold != nil {
			fb.hold()
		}
		id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
		var p models.Program
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			writeTestJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		fb.mu.Lock()
		defer fb.mu.Unlock()
		fb.requests = append(fb.requests, "update")
		if _, ok := fb.programs[id]; !ok {
			writeTestJSON(w, http.StatusNotFound, map[string]string{"error": "program not found"})
			return
		}
		p.ID = id
		fb.assign(&p)
		fb.programs[id] = p
		writeTestJSON(w, http.StatusOK, p)
	})
	mux.HandleFunc("GET /api/programs/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
		fb.mu.Lock()
		p, ok := fb.programs[id]
		fb.mu.Unlock()
		if !ok {
			writeTestJSON(w, http.StatusNotFound, map[string]string{"error": "program not found"})
			return
		}
		writeTestJSON(w, http.StatusOK, p)
	})
	mux.HandleFunc("DELETE /api/programs/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
		fb.mu.Lock()
		defer fb.mu.Unlock()
		if _, ok := fb.programs[id]; !ok {
			writeTestJSON(w, http.StatusNotFound, map[string]string{"error": "program not found"})
			return
		}
		delete(fb.programs, id)
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("GET /api/users/{id}/programs", func(w http.ResponseWriter, r *http.Request) {
		userID, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
		fb.mu.Lock()
		defer fb.mu.Unlock()
		out := []models.Program{}
		for _, p := range fb.programs {
			if p.UserID == userID {
				out = append(out, p)
			}
		}
		writeTestJSON(w, http.StatusOK, out)
	})
	mux.HandleFunc("POST /api/active-programs", func(w http.ResponseWriter, r *http.Request) {
		fb.mu.Lock()
		fb.requests = append(fb.requests, "activate")
		fb.mu.Unlock()
		writeTestJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return fb, srv
}

// assign gives every unsaved entity of p a fresh id and renumbers each level.
func (fb *fakeBackend) assign(p *models.Program) {
	next := func(id *int64) {
		if *id <= 0 {
			fb.nextID++
			*id = fb.nextID
		}
	}
	next(&p.ID)
	p.Normalize()
	for i := range p.Workouts {
		w := &p.Workouts[i]
		next(&w.ID)
		for j := range w.Exercises {
			e := &w.Exercises[j]
			next(&e.ID)
			for k := range e.Sets {
				next(&e.Sets[k].ID)
			}
		}
	}
}

func (fb *fakeBackend) calls() []string {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return append([]string(nil), fb.requests...)
}

func writeTestJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
