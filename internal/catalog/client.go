package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/claude/fittrack/internal/models"
	"github.com/claude/fittrack/internal/program"
)

const (
	// Namespace is the cache namespace of catalog pages.
	Namespace = "exercise_catalog"
	// TTL is how long a cached page is served before it is fetched again.
	TTL = 24 * time.Hour
	// FetchTimeout bounds one catalog request.
	FetchTimeout = 5 * time.Second
)

// Client reads the exercise catalog through a read-through cache. Failures never
// reach the caller: a page that can't be fetched is an empty list.
type Client struct {
	baseURL    string
	httpClient *http.Client
	cache      Cache
	pageSize   int
	timeout    time.Duration
	now        func() time.Time
	logger     *slog.Logger
}

// NewClient creates a Client for the API at baseURL. cache may be nil to disable caching.
func NewClient(baseURL string, cache Cache, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		cache:      cache,
		pageSize:   models.DefaultCatalogLimit,
		timeout:    FetchTimeout,
		now:        time.Now,
		logger:     logger,
	}
}

// List returns one page of the catalog. A fresh cached page is returned without a
// request; otherwise the page is fetched and cached before it is returned.
func (c *Client) List(ctx context.Context, page int) []program.CatalogExercise {
	if page < 1 {
		page = 1
	}

	if c.cache != nil {
		entry, ok, err := c.cache.Get(ctx, Namespace, page)
		switch {
		case err != nil:
			c.logger.Warn("catalog cache read failed", "page", page, "error", err)
		case ok && c.now().Sub(entry.StoredAt) < TTL:
			items, err := decodeCatalog(entry.Data)
			if err == nil {
				return items
			}
			c.logger.Warn("discarding corrupt catalog cache entry", "page", page, "error", err)
		}
	}

	data, err := c.fetch(ctx, models.CatalogQuery{Page: page, Limit: c.pageSize})
	if err != nil {
		c.logger.Error("fetching exercise catalog", "page", page, "error", err)
		return []program.CatalogExercise{}
	}
	items, err := decodeCatalog(data)
	if err != nil {
		c.logger.Error("decoding exercise catalog", "page", page, "error", err)
		return []program.CatalogExercise{}
	}

	if c.cache != nil {
		if err := c.cache.Put(ctx, Namespace, page, data); err != nil {
			c.logger.Warn("catalog cache write failed", "page", page, "error", err)
		}
	}
	return items
}

// Search asks the backend to filter the catalog. Results are not cached.
func (c *Client) Search(ctx context.Context, q models.CatalogQuery) []program.CatalogExercise {
	data, err := c.fetch(ctx, q)
	if err != nil {
		c.logger.Error("searching exercise catalog", "name", q.Name, "error", err)
		return []program.CatalogExercise{}
	}
	items, err := decodeCatalog(data)
	if err != nil {
		c.logger.Error("decoding exercise catalog", "error", err)
		return []program.CatalogExercise{}
	}
	return items
}

// fetch requests one catalog page, giving up after the client's timeout.
func (c *Client) fetch(ctx context.Context, q models.CatalogQuery) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	params := url.Values{}
	params.Set("page", strconv.Itoa(max(q.Page, 1)))
	params.Set("limit", strconv.Itoa(q.PageSize()))
	for k, v := range map[string]string{"name": q.Name, "muscle": q.Muscle, "equipment": q.Equipment} {
		if v != "" {
			params.Set(k, v)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/api/exercise-catalog?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("catalog: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("catalog: read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog: returned %d: %s", resp.StatusCode, body)
	}
	return body, nil
}

func decodeCatalog(data []byte) ([]program.CatalogExercise, error) {
	var rows []models.CatalogExercise
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, err
	}
	items := make([]program.CatalogExercise, 0, len(rows))
	for _, r := range rows {
		items = append(items, program.CatalogExercise{
			ID:        program.ID(r.ID),
			Name:      r.Name,
			Muscle:    r.Muscle,
			Equipment: r.Equipment,
			ImageURL:  r.ImageURL,
		})
	}
	return items, nil
}
