package mcp

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/claude/fittrack/internal/storage"
	"github.com/mark3labs/mcp-go/mcp"
)

func (h *handlers) activeProgram(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uid := UserIDFromContext(ctx)

	var payload any
	p, err := h.ds.GetActiveProgram(ctx, uid)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		payload = map[string]any{"active": false}
	case err != nil:
		return nil, err
	default:
		payload = map[string]any{"active": true, "program": p}
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
