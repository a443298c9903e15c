package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/claude/fittrack/internal/models"
	"github.com/claude/fittrack/internal/storage"
	"github.com/go-chi/chi/v5"
)

// Store is the data layer behind the HTTP API.
type Store interface {
	ListEquipment(ctx context.Context) ([]models.Equipment, error)
	CreateEquipment(ctx context.Context, e models.Equipment) (*models.Equipment, error)
	UpdateEquipment(ctx context.Context, id int64, e models.Equipment) (*models.Equipment, error)

	ListCatalog(ctx context.Context, q models.CatalogQuery) ([]models.CatalogExercise, error)

	ListPrograms(ctx context.Context, userID int64) ([]models.Program, error)
	GetProgram(ctx context.Context, id int64) (*models.Program, error)
	CreateProgram(ctx context.Context, p models.Program) (*models.Program, error)
	UpdateProgram(ctx context.Context, id int64, p models.Program) (*models.Program, error)
	DeleteProgram(ctx context.Context, id int64) error

	ActivateProgram(ctx context.Context, userID, programID int64) (*models.ActiveProgram, error)
	DeactivateProgram(ctx context.Context, userID int64) error
	GetActiveProgram(ctx context.Context, userID int64) (*models.Program, error)

	CompleteWorkout(ctx context.Context, log models.WorkoutLog) (*models.WorkoutLog, error)
	GetProgress(ctx context.Context, userID int64) ([]models.ExerciseProgress, error)
}

// Compile-time check: *storage.DB satisfies Store.
var _ Store = (*storage.DB)(nil)

// Server holds dependencies for HTTP handlers.
type Server struct {
	store  Store
	log    *slog.Logger
	router chi.Router
}

// New creates a new Server with all routes configured.
func New(store Store, log *slog.Logger) *Server {
	s := &Server{
		store:  store,
		log:    log,
		router: chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	s.router.Route("/api", func(r chi.Router) {
		// The web client uses the plural spelling.
		r.Get("/equipment", s.handleListEquipment)
		r.Get("/equipments", s.handleListEquipment)
		r.Post("/equipment", s.handleCreateEquipment)
		r.Put("/equipment/{id}", s.handleUpdateEquipment)

		r.Get("/exercise-catalog", s.handleListCatalog)

		r.Get("/programs", s.handleListPrograms)
		r.Post("/programs", s.handleCreateProgram)
		r.Get("/programs/{id}", s.handleGetProgram)
		r.Put("/programs/{id}", s.handleUpdateProgram)
		r.Delete("/programs/{id}", s.handleDeleteProgram)

		r.Get("/users/{id}/programs", s.handleListUserPrograms)
		r.Post("/users/{id}/programs", s.handleCreateUserProgram)
		r.Get("/users/{id}/progress", s.handleProgress)

		r.Post("/active-programs", s.handleActivateProgram)
		r.Get("/active-programs/user/{id}", s.handleGetActiveProgram)
		r.Delete("/active-programs/user/{id}", s.handleDeactivateProgram)

		r.Post("/workout/complete", s.handleCompleteWorkout)
	})
}

// MountMCP serves an MCP handler under /mcp.
func (s *Server) MountMCP(h http.Handler) {
	s.router.Handle("/mcp", h)
	s.router.Handle("/mcp/*", h)
}
