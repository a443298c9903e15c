package catalog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/claude/fittrack/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memCache is an in-memory Cache with a controllable clock.
type memCache struct {
	mu      sync.Mutex
	entries map[string]Entry
	now     time.Time
}

func newMemCache(now time.Time) *memCache {
	return &memCache{entries: make(map[string]Entry), now: now}
}

func (m *memCache) key(ns string, page int) string { return fmt.Sprintf("%s/%d", ns, page) }

func (m *memCache) Get(_ context.Context, ns string, page int) (Entry, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[m.key(ns, page)]
	return e, ok, nil
}

func (m *memCache) Put(_ context.Context, ns string, page int, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[m.key(ns, page)] = Entry{Data: data, StoredAt: m.now}
	return nil
}

const benchJSON = `[{"id":501,"name":"Bench Press","muscle":"Chest","equipment":"Barbell","image_url":"b.png"}]`

func catalogServer(t *testing.T, body string) (*httptest.Server, *atomic.Int32, *atomic.Value) {
	t.Helper()
	var hits atomic.Int32
	var lastQuery atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		lastQuery.Store(r.URL.Query())
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, &hits, &lastQuery
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestListReadThrough verifies that a miss fetches and caches, a fresh hit skips the
// network, and an entry older than the TTL is fetched again.
func TestListReadThrough(t *testing.T) {
	srv, hits, lastQuery := catalogServer(t, benchJSON)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	cache := newMemCache(now)
	c := NewClient(srv.URL, cache, testLogger())
	c.now = func() time.Time { return now }
	ctx := context.Background()

	items := c.List(ctx, 2)
	require.Len(t, items, 1)
	assert.Equal(t, "Bench Press", items[0].Name)
	assert.EqualValues(t, 501, items[0].ID)
	assert.Equal(t, "b.png", items[0].ImageURL)
	assert.EqualValues(t, 1, hits.Load())
	q := lastQuery.Load().(url.Values)
	assert.Equal(t, "2", q.Get("page"))
	assert.Equal(t, "20", q.Get("limit"))

	now = now.Add(23 * time.Hour)
	assert.Len(t, c.List(ctx, 2), 1)
	assert.EqualValues(t, 1, hits.Load())

	now = now.Add(2 * time.Hour)
	assert.Len(t, c.List(ctx, 2), 1)
	assert.EqualValues(t, 2, hits.Load())
}

// TestListTimeoutDegrades verifies that a slow backend yields an empty list and
// nothing is cached.
func TestListTimeoutDegrades(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	cache := newMemCache(time.Now())
	c := NewClient(srv.URL, cache, testLogger())
	c.timeout = 50 * time.Millisecond

	items := c.List(context.Background(), 1)
	assert.NotNil(t, items)
	assert.Empty(t, items)
	assert.Empty(t, cache.entries)
}

// TestListErrorStatusDegrades verifies that a failing backend yields an empty list.
func TestListErrorStatusDegrades(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	items := NewClient(srv.URL, nil, testLogger()).List(context.Background(), 1)
	assert.Empty(t, items)
}

// TestListCorruptEntry verifies that an unreadable cached page is refetched.
func TestListCorruptEntry(t *testing.T) {
	srv, hits, _ := catalogServer(t, benchJSON)
	now := time.Now()
	cache := newMemCache(now)
	require.NoError(t, cache.Put(context.Background(), Namespace, 1, []byte("not json")))

	c := NewClient(srv.URL, cache, testLogger())
	c.now = func() time.Time { return now }
	assert.Len(t, c.List(context.Background(), 1), 1)
	assert.EqualValues(t, 1, hits.Load())
}

// TestSearchPassesFilters verifies that Search forwards its filters and bypasses the cache.
func TestSearchPassesFilters(t *testing.T) {
	srv, hits, lastQuery := catalogServer(t, benchJSON)
	cache := newMemCache(time.Now())
	c := NewClient(srv.URL, cache, testLogger())

	items := c.Search(context.Background(), models.CatalogQuery{Name: "bench", Muscle: "Chest"})
	require.Len(t, items, 1)
	assert.EqualValues(t, 1, hits.Load())
	assert.Empty(t, cache.entries)

	q := lastQuery.Load().(url.Values)
	assert.Equal(t, "bench", q.Get("name"))
	assert.Equal(t, "Chest", q.Get("muscle"))
	assert.Equal(t, "", q.Get("equipment"))
}
