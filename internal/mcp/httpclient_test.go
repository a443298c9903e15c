package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/claude/fittrack/internal/models"
	"github.com/claude/fittrack/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestServer creates an httptest server that routes requests to handler functions
// keyed by path. Verifies the HTTP client sends correct paths and query params.
func newTestServer(t *testing.T, handlers map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := handlers[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		h(w, r)
	}))
	t.Cleanup(ts.Close)
	return ts
}

func writeTestJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Fatal(err)
	}
}

// TestHTTPClientListPrograms verifies the user programs path and decoding.
func TestHTTPClientListPrograms(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/users/4/programs": func(w http.ResponseWriter, r *http.Request) {
			writeTestJSON(t, w, []models.Program{{ID: 10, UserID: 4, Name: "Strength"}})
		},
	})

	programs, err := NewHTTPClient(ts.URL).ListPrograms(context.Background(), 4)
	require.NoError(t, err)
	require.Len(t, programs, 1)
	assert.Equal(t, "Strength", programs[0].Name)
}

// TestHTTPClientCatalogParams verifies that catalog filters become query parameters.
func TestHTTPClientCatalogParams(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/exercise-catalog": func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			assert.Equal(t, "3", q.Get("page"))
			assert.Equal(t, "20", q.Get("limit"))
			assert.Equal(t, "row", q.Get("name"))
			assert.Equal(t, "Back", q.Get("muscle"))
			assert.False(t, q.Has("equipment"))
			writeTestJSON(t, w, []models.CatalogExercise{{ID: 7, Name: "Barbell Row"}})
		},
	})

	rows, err := NewHTTPClient(ts.URL).ListCatalog(context.Background(),
		models.CatalogQuery{Page: 3, Name: "row", Muscle: "Back"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(7), rows[0].ID)
}

// TestHTTPClientNotFound verifies that a 404 maps to storage.ErrNotFound so tools
// handle local and remote sources alike.
func TestHTTPClientNotFound(t *testing.T) {
	ts := newTestServer(t, nil)
	c := NewHTTPClient(ts.URL)

	_, err := c.GetProgram(context.Background(), 99)
	require.ErrorIs(t, err, storage.ErrNotFound)

	_, err = c.GetActiveProgram(context.Background(), 1)
	require.ErrorIs(t, err, storage.ErrNotFound)
}

// TestHTTPClientServerError verifies that other failures carry the status and body.
func TestHTTPClientServerError(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/users/1/progress": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "database down", http.StatusInternalServerError)
		},
	})

	_, err := NewHTTPClient(ts.URL).GetProgress(context.Background(), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
	assert.Contains(t, err.Error(), "database down")
}
