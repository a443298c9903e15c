package syncer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/claude/fittrack/internal/models"
	"github.com/claude/fittrack/internal/program"
)

var (
	// ErrNotFound is returned when the backend answers 404.
	ErrNotFound = errors.New("not found")
	// ErrValidation is returned when a request fails validation before it is sent.
	ErrValidation = errors.New("validation failed")
)

// StatusError is a non-2xx response from the backend.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s returned %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
}

// Is reports a 404 as ErrNotFound.
func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// Client calls the FitTrack REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Client targeting the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// CreateProgram creates p for userID and returns the stored program with its durable ids.
func (c *Client) CreateProgram(ctx context.Context, userID int64, p program.Program) (program.Program, error) {
	w, err := c.programBody(p)
	if err != nil {
		return program.Program{}, err
	}
	return c.programCall(ctx, http.MethodPost, fmt.Sprintf("/api/users/%d/programs", userID), w)
}

// UpdateProgram replaces the stored program p.ID with p.
func (c *Client) UpdateProgram(ctx context.Context, p program.Program) (program.Program, error) {
	if !p.ID.IsDurable() {
		return program.Program{}, fmt.Errorf("%w: program id %d has not been saved", ErrValidation, p.ID)
	}
	w, err := c.programBody(p)
	if err != nil {
		return program.Program{}, err
	}
	return c.programCall(ctx, http.MethodPut, fmt.Sprintf("/api/programs/%d", p.ID), w)
}

// GetProgram fetches one stored program.
func (c *Client) GetProgram(ctx context.Context, id program.ID) (program.Program, error) {
	return c.programCall(ctx, http.MethodGet, fmt.Sprintf("/api/programs/%d", id), nil)
}

// DeleteProgram deletes a stored program.
func (c *Client) DeleteProgram(ctx context.Context, id program.ID) error {
	if !id.IsDurable() {
		return fmt.Errorf("%w: program id %d has not been saved", ErrValidation, id)
	}
	_, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/programs/%d", id), nil)
	return err
}

// ListUserPrograms returns every program of userID.
func (c *Client) ListUserPrograms(ctx context.Context, userID int64) ([]program.Program, error) {
	path := fmt.Sprintf("/api/users/%d/programs", userID)
	body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	v, err := decodeValue(body)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	items, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("decoding %s: got %T, want array", path, v)
	}

	result := make([]program.Program, 0, len(items))
	for _, it := range items {
		m, ok := it.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("decoding %s: got %T, want object", path, it)
		}
		p, err := FromWire(m)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, nil
}

// ActivateProgram makes programID the active program of userID.
func (c *Client) ActivateProgram(ctx context.Context, userID int64, programID program.ID) error {
	req := models.ActiveProgram{UserID: userID, ProgramID: int64(programID)}
	if err := models.Validate(req); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	_, err := c.do(ctx, http.MethodPost, "/api/active-programs", req)
	return err
}

// DeactivateProgram clears the active program of userID.
func (c *Client) DeactivateProgram(ctx context.Context, userID int64) error {
	_, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/active-programs/user/%d", userID), nil)
	return err
}

// CompleteWorkout logs a finished workout.
func (c *Client) CompleteWorkout(ctx context.Context, log models.WorkoutLog) error {
	if err := models.Validate(log); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	_, err := c.do(ctx, http.MethodPost, "/api/workout/complete", log)
	return err
}

// programBody converts p to the wire shape and checks it against the rules the
// backend enforces, so a bad program never leaves the client.
func (c *Client) programBody(p program.Program) (WireProgram, error) {
	w, err := ToWire(p)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(w)
	if err != nil {
		return nil, fmt.Errorf("encoding program: %w", err)
	}
	var m models.Program
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if err := models.Validate(m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return w, nil
}

func (c *Client) programCall(ctx context.Context, method, path string, w WireProgram) (program.Program, error) {
	var in any
	if w != nil {
		in = w
	}
	body, err := c.do(ctx, method, path, in)
	if err != nil {
		return program.Program{}, err
	}
	v, err := decodeValue(body)
	if err != nil {
		return program.Program{}, fmt.Errorf("decoding %s: %w", path, err)
	}
	m, ok := v.(map[string]any)
	if !ok {
		return program.Program{}, fmt.Errorf("decoding %s: got %T, want object", path, v)
	}
	return FromWire(m)
}

// do sends a JSON request and returns the response body of a 2xx answer.
func (c *Client) do(ctx context.Context, method, path string, in any) ([]byte, error) {
	var reqBody io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("syncer: encode %s: %w", path, err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("syncer: create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("syncer: %s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("syncer: read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(body),
		}
	}
	return body, nil
}

// errorMessage extracts the "error" field of a JSON error body, falling back to the raw body.
func errorMessage(body []byte) string {
	var e struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &e); err == nil && e.Error != "" {
		return e.Error
	}
	return strings.TrimSpace(string(body))
}
