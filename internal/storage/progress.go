package storage

import (
	"context"
	"fmt"

	"github.com/claude/fittrack/internal/models"
)

// GetProgress aggregates a user's logged sets per exercise, most recently performed first.
// Exercises without a catalog reference are grouped by name.
func (db *DB) GetProgress(ctx context.Context, userID int64) ([]models.ExerciseProgress, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT s.catalog_exercise_id, MIN(s.exercise_name),
		 COUNT(DISTINCT s.log_id), COUNT(*), COALESCE(SUM(s.reps), 0),
		 MAX(s.weight), COALESCE(SUM(s.weight * s.reps), 0), MAX(l.completed_at)
		 FROM workout_log_sets s
		 JOIN workout_logs l ON l.id = s.log_id
		 WHERE l.user_id = $1
		 GROUP BY s.catalog_exercise_id, CASE WHEN s.catalog_exercise_id IS NULL THEN s.exercise_name END
		 ORDER BY MAX(l.completed_at) DESC, MIN(s.exercise_name)`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying progress: %w", err)
	}
	defer rows.Close()

	result := []models.ExerciseProgress{}
	for rows.Next() {
		var p models.ExerciseProgress
		if err := rows.Scan(&p.CatalogExerciseID, &p.ExerciseName, &p.Sessions, &p.TotalSets, &p.TotalReps,
			&p.BestWeight, &p.TotalVolume, &p.LastPerformed); err != nil {
			return nil, fmt.Errorf("scanning progress: %w", err)
		}
		result = append(result, p)
	}
	return result, rows.Err()
}
