package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/claude/fittrack/internal/models"
	"github.com/claude/fittrack/internal/storage"
)

// HTTPClient implements DataSource by calling the FitTrack REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but
// data lives on the remote server (accessed over Tailscale).
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values, out any) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("httpclient: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("httpclient: read body: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return storage.ErrNotFound
	default:
		return fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("httpclient: decode %s: %w", path, err)
	}
	return nil
}

func (c *HTTPClient) ListPrograms(ctx context.Context, userID int64) ([]models.Program, error) {
	var programs []models.Program
	if err := c.get(ctx, fmt.Sprintf("/api/users/%d/programs", userID), nil, &programs); err != nil {
		return nil, err
	}
	return programs, nil
}

func (c *HTTPClient) GetProgram(ctx context.Context, id int64) (*models.Program, error) {
	var p models.Program
	if err := c.get(ctx, fmt.Sprintf("/api/programs/%d", id), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *HTTPClient) GetActiveProgram(ctx context.Context, userID int64) (*models.Program, error) {
	var p models.Program
	if err := c.get(ctx, fmt.Sprintf("/api/active-programs/user/%d", userID), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *HTTPClient) ListCatalog(ctx context.Context, q models.CatalogQuery) ([]models.CatalogExercise, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(max(q.Page, 1)))
	params.Set("limit", strconv.Itoa(q.PageSize()))
	if q.Name != "" {
		params.Set("name", q.Name)
	}
	if q.Muscle != "" {
		params.Set("muscle", q.Muscle)
	}
	if q.Equipment != "" {
		params.Set("equipment", q.Equipment)
	}

	var rows []models.CatalogExercise
	if err := c.get(ctx, "/api/exercise-catalog", params, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *HTTPClient) GetProgress(ctx context.Context, userID int64) ([]models.ExerciseProgress, error) {
	var rows []models.ExerciseProgress
	if err := c.get(ctx, fmt.Sprintf("/api/users/%d/progress", userID), nil, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}
