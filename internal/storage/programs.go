package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/claude/fittrack/internal/models"
	"github.com/jackc/pgx/v5"
)

// CreateProgram inserts a program with its whole tree and returns it with the
// durable ids assigned at every level.
func (db *DB) CreateProgram(ctx context.Context, p models.Program) (*models.Program, error) {
	p.Normalize()
	var id int64
	err := pgx.BeginFunc(ctx, db.Pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`INSERT INTO programs (user_id, name, main_goal, duration_value, duration_unit, days_per_week)
			 VALUES ($1,$2,$3,$4,$5,$6)
			 RETURNING id`,
			p.UserID, p.Name, p.MainGoal, p.DurationValue, p.DurationUnit, p.DaysPerWeek,
		).Scan(&id)
		if err != nil {
			return fmt.Errorf("inserting program: %w", err)
		}
		return saveWorkouts(ctx, tx, id, p.Workouts)
	})
	if err != nil {
		return nil, err
	}
	return db.GetProgram(ctx, id)
}

// UpdateProgram overwrites a program's fields and tree. Workouts, exercises and sets
// that carry an id already belonging to this program keep it; everything else is
// inserted, and rows missing from p are deleted.
func (db *DB) UpdateProgram(ctx context.Context, id int64, p models.Program) (*models.Program, error) {
	p.Normalize()
	err := pgx.BeginFunc(ctx, db.Pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE programs SET name = $2, main_goal = $3, duration_value = $4, duration_unit = $5,
			 days_per_week = $6, updated_at = NOW()
			 WHERE id = $1`,
			id, p.Name, p.MainGoal, p.DurationValue, p.DurationUnit, p.DaysPerWeek)
		if err != nil {
			return fmt.Errorf("updating program %d: %w", id, err)
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		return saveWorkouts(ctx, tx, id, p.Workouts)
	})
	if err != nil {
		return nil, err
	}
	return db.GetProgram(ctx, id)
}

// DeleteProgram deletes a program; its tree goes with it via ON DELETE CASCADE.
func (db *DB) DeleteProgram(ctx context.Context, id int64) error {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM programs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting program %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// GetProgram retrieves one program with its tree.
func (db *DB) GetProgram(ctx context.Context, id int64) (*models.Program, error) {
	var p models.Program
	err := db.Pool.QueryRow(ctx,
		`SELECT id, user_id, name, main_goal, duration_value, duration_unit, days_per_week, created_at, updated_at
		 FROM programs WHERE id = $1`, id,
	).Scan(&p.ID, &p.UserID, &p.Name, &p.MainGoal, &p.DurationValue, &p.DurationUnit, &p.DaysPerWeek,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying program %d: %w", id, err)
	}

	p.Workouts, err = db.programTree(ctx, id)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListPrograms returns programs with their trees, newest first. A userID of 0 lists every user's programs.
func (db *DB) ListPrograms(ctx context.Context, userID int64) ([]models.Program, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, user_id, name, main_goal, duration_value, duration_unit, days_per_week, created_at, updated_at
		 FROM programs
		 WHERE $1 = 0 OR user_id = $1
		 ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying programs: %w", err)
	}
	defer rows.Close()

	var result []models.Program
	for rows.Next() {
		var p models.Program
		if err := rows.Scan(&p.ID, &p.UserID, &p.Name, &p.MainGoal, &p.DurationValue, &p.DurationUnit,
			&p.DaysPerWeek, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning program: %w", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range result {
		result[i].Workouts, err = db.programTree(ctx, result[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

// treeRow is one row of the flattened workout/exercise/set join.
type treeRow struct {
	WorkoutID    int64
	WorkoutName  string
	WorkoutOrder int

	ExerciseID        *int64
	CatalogExerciseID *int64
	ExerciseOrder     *int
	Name              *string
	Muscle            *string
	Equipment         *string
	ImageURL          *string

	SetID    *int64
	SetOrder *int
	Weight   *float64
	Reps     *int
}

func (db *DB) programTree(ctx context.Context, programID int64) ([]models.ProgramWorkout, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT w.id, w.name, w.order_index,
		 e.id, e.catalog_exercise_id, e.order_index, c.name, c.muscle, c.equipment, c.image_url,
		 s.id, s.order_index, s.weight, s.reps
		 FROM program_workouts w
		 LEFT JOIN program_exercises e ON e.workout_id = w.id
		 LEFT JOIN exercise_catalog c ON c.id = e.catalog_exercise_id
		 LEFT JOIN program_sets s ON s.exercise_id = e.id
		 WHERE w.program_id = $1
		 ORDER BY w.order_index, e.order_index, s.order_index`, programID)
	if err != nil {
		return nil, fmt.Errorf("querying program tree: %w", err)
	}
	defer rows.Close()

	var flat []treeRow
	for rows.Next() {
		var r treeRow
		if err := rows.Scan(&r.WorkoutID, &r.WorkoutName, &r.WorkoutOrder,
			&r.ExerciseID, &r.CatalogExerciseID, &r.ExerciseOrder, &r.Name, &r.Muscle, &r.Equipment, &r.ImageURL,
			&r.SetID, &r.SetOrder, &r.Weight, &r.Reps); err != nil {
			return nil, fmt.Errorf("scanning program tree: %w", err)
		}
		flat = append(flat, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return assembleTree(flat), nil
}

// assembleTree folds ordered join rows back into the nested tree. Rows must be
// sorted by workout, exercise and set order, as the join query returns them.
func assembleTree(rows []treeRow) []models.ProgramWorkout {
	workouts := []models.ProgramWorkout{}
	for _, r := range rows {
		if n := len(workouts); n == 0 || workouts[n-1].ID != r.WorkoutID {
			workouts = append(workouts, models.ProgramWorkout{
				ID:        r.WorkoutID,
				Name:      r.WorkoutName,
				Order:     r.WorkoutOrder,
				Exercises: []models.ProgramExercise{},
			})
		}
		w := &workouts[len(workouts)-1]
		if r.ExerciseID == nil {
			continue
		}

		if n := len(w.Exercises); n == 0 || w.Exercises[n-1].ID != *r.ExerciseID {
			w.Exercises = append(w.Exercises, models.ProgramExercise{
				ID:                *r.ExerciseID,
				CatalogExerciseID: deref(r.CatalogExerciseID),
				Order:             deref(r.ExerciseOrder),
				Name:              deref(r.Name),
				Muscle:            deref(r.Muscle),
				Equipment:         deref(r.Equipment),
				ImageURL:          deref(r.ImageURL),
				Sets:              []models.ProgramSet{},
			})
		}
		e := &w.Exercises[len(w.Exercises)-1]
		if r.SetID == nil {
			continue
		}
		e.Sets = append(e.Sets, models.ProgramSet{
			ID:     *r.SetID,
			Order:  deref(r.SetOrder),
			Weight: r.Weight,
			Reps:   r.Reps,
		})
	}
	return workouts
}

func deref[T any](v *T) T {
	var zero T
	if v == nil {
		return zero
	}
	return *v
}

// saveWorkouts makes the program's workouts match ws. The order_index unique
// constraints are deferred, so rows can swap positions within the transaction.
func saveWorkouts(ctx context.Context, tx pgx.Tx, programID int64, ws []models.ProgramWorkout) error {
	if _, err := tx.Exec(ctx,
		`DELETE FROM program_workouts WHERE program_id = $1 AND NOT (id = ANY($2))`,
		programID, keptIDs(ws, func(w models.ProgramWorkout) int64 { return w.ID })); err != nil {
		return fmt.Errorf("deleting stale workouts: %w", err)
	}

	for _, w := range ws {
		id, err := upsertRow(ctx, tx, w.ID,
			`UPDATE program_workouts SET name = $3, order_index = $4 WHERE id = $1 AND program_id = $2`,
			`INSERT INTO program_workouts (program_id, name, order_index) VALUES ($1,$2,$3) RETURNING id`,
			programID, w.Name, w.Order)
		if err != nil {
			return fmt.Errorf("saving workout %q: %w", w.Name, err)
		}
		if err := saveExercises(ctx, tx, id, w.Exercises); err != nil {
			return err
		}
	}
	return nil
}

func saveExercises(ctx context.Context, tx pgx.Tx, workoutID int64, es []models.ProgramExercise) error {
	if _, err := tx.Exec(ctx,
		`DELETE FROM program_exercises WHERE workout_id = $1 AND NOT (id = ANY($2))`,
		workoutID, keptIDs(es, func(e models.ProgramExercise) int64 { return e.ID })); err != nil {
		return fmt.Errorf("deleting stale exercises: %w", err)
	}

	for _, e := range es {
		id, err := upsertRow(ctx, tx, e.ID,
			`UPDATE program_exercises SET catalog_exercise_id = $3, order_index = $4 WHERE id = $1 AND workout_id = $2`,
			`INSERT INTO program_exercises (workout_id, catalog_exercise_id, order_index) VALUES ($1,$2,$3) RETURNING id`,
			workoutID, e.CatalogExerciseID, e.Order)
		if err != nil {
			return fmt.Errorf("saving exercise %d: %w", e.CatalogExerciseID, err)
		}
		if err := saveSets(ctx, tx, id, e.Sets); err != nil {
			return err
		}
	}
	return nil
}

func saveSets(ctx context.Context, tx pgx.Tx, exerciseID int64, ss []models.ProgramSet) error {
	if _, err := tx.Exec(ctx,
		`DELETE FROM program_sets WHERE exercise_id = $1 AND NOT (id = ANY($2))`,
		exerciseID, keptIDs(ss, func(s models.ProgramSet) int64 { return s.ID })); err != nil {
		return fmt.Errorf("deleting stale sets: %w", err)
	}

	for _, s := range ss {
		if _, err := upsertRow(ctx, tx, s.ID,
			`UPDATE program_sets SET order_index = $3, weight = $4, reps = $5 WHERE id = $1 AND exercise_id = $2`,
			`INSERT INTO program_sets (exercise_id, order_index, weight, reps) VALUES ($1,$2,$3,$4) RETURNING id`,
			exerciseID, s.Order, s.Weight, s.Reps); err != nil {
			return fmt.Errorf("saving set %d: %w", s.Order, err)
		}
	}
	return nil
}

// upsertRow updates the row with the given id under parentID, or inserts a new one when
// id is not positive or no such row exists. The update statement takes ($1 id, $2 parent,
// fields...), the insert statement takes ($1 parent, fields...) and returns the new id.
func upsertRow(ctx context.Context, tx pgx.Tx, id int64, update, insert string, parentID int64, fields ...any) (int64, error) {
	if id > 0 {
		args := append([]any{id, parentID}, fields...)
		tag, err := tx.Exec(ctx, update, args...)
		if err != nil {
			return 0, err
		}
		if tag.RowsAffected() > 0 {
			return id, nil
		}
	}
	var newID int64
	args := append([]any{parentID}, fields...)
	if err := tx.QueryRow(ctx, insert, args...).Scan(&newID); err != nil {
		return 0, err
	}
	return newID, nil
}

// keptIDs returns the positive ids of items.
func keptIDs[T any](items []T, id func(T) int64) []int64 {
	ids := make([]int64, 0, len(items))
	for _, it := range items {
		if v := id(it); v > 0 {
			ids = append(ids, v)
		}
	}
	return ids
}
