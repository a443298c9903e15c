package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/claude/fittrack/internal/models"
	"github.com/jackc/pgx/v5"
)

// ListCatalog returns one page of the exercise catalog matching q.
func (db *DB) ListCatalog(ctx context.Context, q models.CatalogQuery) ([]models.CatalogExercise, error) {
	query, args := catalogQuery(q)
	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying exercise catalog: %w", err)
	}
	defer rows.Close()

	result := []models.CatalogExercise{}
	for rows.Next() {
		var c models.CatalogExercise
		if err := rows.Scan(&c.ID, &c.Name, &c.Muscle, &c.Equipment, &c.ImageURL); err != nil {
			return nil, fmt.Errorf("scanning catalog exercise: %w", err)
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

// GetCatalogExercise retrieves one catalog exercise.
func (db *DB) GetCatalogExercise(ctx context.Context, id int64) (*models.CatalogExercise, error) {
	var c models.CatalogExercise
	err := db.Pool.QueryRow(ctx,
		`SELECT id, name, muscle, equipment, image_url FROM exercise_catalog WHERE id = $1`, id,
	).Scan(&c.ID, &c.Name, &c.Muscle, &c.Equipment, &c.ImageURL)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying catalog exercise %d: %w", id, err)
	}
	return &c, nil
}

// catalogQuery builds the paged catalog SELECT. Name matches as a case-insensitive
// substring; muscle and equipment match case-insensitively in full.
func catalogQuery(q models.CatalogQuery) (string, []any) {
	var (
		where []string
		args  []any
	)
	if s := strings.TrimSpace(q.Name); s != "" {
		args = append(args, "%"+escapeLike(s)+"%")
		where = append(where, fmt.Sprintf("name ILIKE $%d", len(args)))
	}
	if s := strings.TrimSpace(q.Muscle); s != "" {
		args = append(args, escapeLike(s))
		where = append(where, fmt.Sprintf("muscle ILIKE $%d", len(args)))
	}
	if s := strings.TrimSpace(q.Equipment); s != "" {
		args = append(args, escapeLike(s))
		where = append(where, fmt.Sprintf("equipment ILIKE $%d", len(args)))
	}

	query := `SELECT id, name, muscle, equipment, image_url FROM exercise_catalog`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	args = append(args, q.PageSize(), q.Offset())
	query += fmt.Sprintf(" ORDER BY name, id LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	return query, args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
