package mcp

import (
	"context"

	"github.com/claude/fittrack/internal/models"
	"github.com/claude/fittrack/internal/storage"
)

// DataSource abstracts the data layer for MCP tools. Both *storage.DB (local)
// and HTTPClient (remote via REST API) satisfy this interface.
type DataSource interface {
	ListPrograms(ctx context.Context, userID int64) ([]models.Program, error)
	GetProgram(ctx context.Context, id int64) (*models.Program, error)
	GetActiveProgram(ctx context.Context, userID int64) (*models.Program, error)
	ListCatalog(ctx context.Context, q models.CatalogQuery) ([]models.CatalogExercise, error)
	GetProgress(ctx context.Context, userID int64) ([]models.ExerciseProgress, error)
}

// Compile-time check: *storage.DB satisfies DataSource.
var _ DataSource = (*storage.DB)(nil)
