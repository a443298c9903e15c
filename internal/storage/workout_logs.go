package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/claude/fittrack/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CompleteWorkout stores a finished workout and its sets. The log gets a fresh
// UUID and, when unset, the current time as its completion time.
func (db *DB) CompleteWorkout(ctx context.Context, log models.WorkoutLog) (*models.WorkoutLog, error) {
	log.ID = uuid.New()
	if log.CompletedAt.IsZero() {
		log.CompletedAt = time.Now().UTC()
	}

	err := pgx.BeginFunc(ctx, db.Pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`INSERT INTO workout_logs (id, user_id, program_id, name, duration_sec, completed_at)
			 VALUES ($1,$2,$3,$4,$5,$6)`,
			log.ID, log.UserID, log.ProgramID, log.Name, log.DurationSec, log.CompletedAt); err != nil {
			return fmt.Errorf("inserting workout log: %w", err)
		}

		query, args := logSetsInsert(log)
		if len(args) == 0 {
			return nil
		}
		if _, err := tx.Exec(ctx, query, args...); err != nil {
			return fmt.Errorf("inserting workout log sets: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &log, nil
}

// logSetsInsert builds one multi-row INSERT for every set of log.
// Exercises and sets are numbered by position, starting at 1.
func logSetsInsert(log models.WorkoutLog) (string, []any) {
	query := `INSERT INTO workout_log_sets (log_id, exercise_number, catalog_exercise_id, exercise_name,
		set_number, weight, reps) VALUES `
	var (
		args         []any
		valueStrings []string
	)
	for i, e := range log.Exercises {
		for j, s := range e.Sets {
			base := len(args)
			valueStrings = append(valueStrings, fmt.Sprintf(
				"($%d,$%d,$%d,$%d,$%d,$%d,$%d)",
				base+1, base+2, base+3, base+4, base+5, base+6, base+7,
			))
			args = append(args, log.ID, i+1, e.CatalogExerciseID, e.Name, j+1, s.Weight, s.Reps)
		}
	}
	return query + strings.Join(valueStrings, ","), args
}

// QueryWorkoutLogs returns a user's workout logs in [start, end), newest first, with their sets.
func (db *DB) QueryWorkoutLogs(ctx context.Context, userID int64, start, end time.Time) ([]models.WorkoutLog, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT l.id, l.user_id, l.program_id, l.name, l.duration_sec, l.completed_at,
		 s.exercise_number, s.catalog_exercise_id, s.exercise_name, s.set_number, s.weight, s.reps
		 FROM workout_logs l
		 LEFT JOIN workout_log_sets s ON s.log_id = l.id
		 WHERE l.user_id = $1 AND l.completed_at >= $2 AND l.completed_at < $3
		 ORDER BY l.completed_at DESC, l.id, s.exercise_number, s.set_number`,
		userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("querying workout logs: %w", err)
	}
	defer rows.Close()

	result := []models.WorkoutLog{}
	lastExercise := 0
	for rows.Next() {
		var (
			l           models.WorkoutLog
			exerciseNum *int
			catalogID   *int64
			name        *string
			setNum      *int
			weight      *float64
			reps        *int
		)
		if err := rows.Scan(&l.ID, &l.UserID, &l.ProgramID, &l.Name, &l.DurationSec, &l.CompletedAt,
			&exerciseNum, &catalogID, &name, &setNum, &weight, &reps); err != nil {
			return nil, fmt.Errorf("scanning workout log: %w", err)
		}

		if n := len(result); n == 0 || result[n-1].ID != l.ID {
			l.Exercises = []models.LoggedExercise{}
			result = append(result, l)
			lastExercise = 0
		}
		if exerciseNum == nil {
			continue
		}
		cur := &result[len(result)-1]
		if *exerciseNum != lastExercise {
			cur.Exercises = append(cur.Exercises, models.LoggedExercise{
				CatalogExerciseID: catalogID,
				Name:              deref(name),
				Sets:              []models.LoggedSet{},
			})
			lastExercise = *exerciseNum
		}
		e := &cur.Exercises[len(cur.Exercises)-1]
		e.Sets = append(e.Sets, models.LoggedSet{Order: deref(setNum), Weight: weight, Reps: reps})
	}
	return result, rows.Err()
}
