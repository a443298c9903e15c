package models

import (
	"time"

	"github.com/google/uuid"
)

// WorkoutLog is a completed workout as posted to /api/workout/complete.
type WorkoutLog struct {
	ID          uuid.UUID        `json:"id"`
	UserID      int64            `json:"userId" validate:"gt=0"`
	ProgramID   *int64           `json:"programId,omitempty"`
	Name        string           `json:"name" validate:"required"`
	DurationSec int              `json:"duration" validate:"gte=0"`
	Exercises   []LoggedExercise `json:"exercises" validate:"dive"`
	CompletedAt time.Time        `json:"completedAt"`
}

// LoggedExercise is an exercise performed during a logged workout.
type LoggedExercise struct {
	CatalogExerciseID *int64      `json:"catalogExerciseId,omitempty"`
	Name              string      `json:"name" validate:"required"`
	Sets              []LoggedSet `json:"sets" validate:"dive"`
}

// LoggedSet is one performed set.
type LoggedSet struct {
	Order  int      `json:"order"`
	Weight *float64 `json:"weight" validate:"omitnil,gte=0"`
	Reps   *int     `json:"reps" validate:"omitnil,gte=0"`
}

// ExerciseProgress aggregates a user's logged sets for one exercise.
type ExerciseProgress struct {
	CatalogExerciseID *int64    `json:"catalog_exercise_id"`
	ExerciseName      string    `json:"exercise_name"`
	Sessions          int       `json:"sessions"`
	TotalSets         int       `json:"total_sets"`
	TotalReps         int       `json:"total_reps"`
	BestWeight        *float64  `json:"best_weight"`
	TotalVolume       float64   `json:"total_volume"`
	LastPerformed     time.Time `json:"last_performed"`
}
