package mcp

import (
	"context"
	"errors"
	"strings"

	"github.com/claude/fittrack/internal/models"
	"github.com/claude/fittrack/internal/storage"
	"github.com/mark3labs/mcp-go/mcp"
)

// --- Tool definitions ---

var toolListPrograms = mcp.NewTool("list_programs",
	mcp.WithDescription("List a user's workout programs with their workouts, exercises and planned sets."),
	mcp.WithNumber("user_id", mcp.Description("User ID. Defaults to the calling user.")),
)

var toolGetProgram = mcp.NewTool("get_program",
	mcp.WithDescription("Get one workout program by ID, including every workout, exercise and planned set."),
	mcp.WithNumber("program_id", mcp.Required(), mcp.Description("Program ID")),
)

var toolSearchCatalog = mcp.NewTool("search_exercise_catalog",
	mcp.WithDescription("Search the exercise catalog. Name matches as a substring; muscle and equipment match exactly."),
	mcp.WithString("name", mcp.Description("Part of the exercise name (e.g. 'press')")),
	mcp.WithString("muscle", mcp.Description("Target muscle (e.g. 'Chest')")),
	mcp.WithString("equipment", mcp.Description("Equipment (e.g. 'Barbell')")),
	mcp.WithNumber("page", mcp.Description("1-based page. Defaults to 1.")),
	mcp.WithNumber("limit", mcp.Description("Page size, at most 100. Defaults to 20.")),
)

var toolGetProgress = mcp.NewTool("get_progress",
	mcp.WithDescription("Per-exercise progress from completed workouts: sessions, sets, reps, best weight, total volume and last performed date."),
	mcp.WithNumber("user_id", mcp.Description("User ID. Defaults to the calling user.")),
	mcp.WithString("exercise", mcp.Description("Only include exercises whose name contains this text")),
)

// --- Tool handlers ---

func (h *handlers) listPrograms(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid := int64(req.GetInt("user_id", int(UserIDFromContext(ctx))))

	programs, err := h.ds.ListPrograms(ctx, uid)
	if err != nil {
		h.log.Error("mcp list_programs", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	if programs == nil {
		programs = []models.Program{}
	}
	return jsonResult(programs)
}

func (h *handlers) getProgram(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetInt("program_id", 0)
	if id <= 0 {
		return mcp.NewToolResultError("program_id parameter is required"), nil
	}

	p, err := h.ds.GetProgram(ctx, int64(id))
	if errors.Is(err, storage.ErrNotFound) {
		return mcp.NewToolResultError("program not found"), nil
	}
	if err != nil {
		h.log.Error("mcp get_program", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(p)
}

func (h *handlers) searchCatalog(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	q := models.CatalogQuery{
		Page:      req.GetInt("page", 1),
		Limit:     req.GetInt("limit", models.DefaultCatalogLimit),
		Name:      req.GetString("name", ""),
		Muscle:    req.GetString("muscle", ""),
		Equipment: req.GetString("equipment", ""),
	}

	rows, err := h.ds.ListCatalog(ctx, q)
	if err != nil {
		h.log.Error("mcp search_exercise_catalog", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(rows)
}

func (h *handlers) getProgress(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid := int64(req.GetInt("user_id", int(UserIDFromContext(ctx))))

	progress, err := h.ds.GetProgress(ctx, uid)
	if err != nil {
		h.log.Error("mcp get_progress", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	if filter := req.GetString("exercise", ""); filter != "" {
		progress = filterProgress(progress, filter)
	}
	if progress == nil {
		progress = []models.ExerciseProgress{}
	}
	return jsonResult(progress)
}

func filterProgress(rows []models.ExerciseProgress, name string) []models.ExerciseProgress {
	out := []models.ExerciseProgress{}
	for _, r := range rows {
		if strings.Contains(strings.ToLower(r.ExerciseName), strings.ToLower(name)) {
			out = append(out, r)
		}
	}
	return out
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(v)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
