package models

import "time"

// Program is a stored workout program with its full tree. JSON uses the backend's
// snake_case field names.
type Program struct {
	ID            int64            `json:"id"`
	UserID        int64            `json:"user_id"`
	Name          string           `json:"name" validate:"required"`
	MainGoal      string           `json:"main_goal"`
	DurationValue int              `json:"duration_value" validate:"gt=0"`
	DurationUnit  string           `json:"duration_unit" validate:"oneof=days weeks months"`
	DaysPerWeek   int              `json:"days_per_week" validate:"gt=0,lte=7"`
	Workouts      []ProgramWorkout `json:"workouts" validate:"dive"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// ProgramWorkout is one workout of a stored program.
type ProgramWorkout struct {
	ID        int64             `json:"id"`
	Name      string            `json:"name"`
	Order     int               `json:"order"`
	Exercises []ProgramExercise `json:"exercises" validate:"dive"`
}

// ProgramExercise is one catalog exercise placed in a stored workout.
type ProgramExercise struct {
	ID                int64        `json:"id"`
	CatalogExerciseID int64        `json:"catalog_exercise_id" validate:"gt=0"`
	Order             int          `json:"order"`
	Name              string       `json:"name"`
	Muscle            string       `json:"muscle"`
	Equipment         string       `json:"equipment"`
	ImageURL          string       `json:"image_url"`
	Sets              []ProgramSet `json:"sets" validate:"dive"`
}

// ProgramSet is one planned set of a stored exercise.
type ProgramSet struct {
	ID     int64    `json:"id"`
	Order  int      `json:"order"`
	Weight *float64 `json:"weight" validate:"omitnil,gte=0"`
	Reps   *int     `json:"reps" validate:"omitnil,gte=0"`
}

// Normalize renumbers every level of the tree to 1..n in slice order.
func (p *Program) Normalize() {
	for i := range p.Workouts {
		w := &p.Workouts[i]
		w.Order = i + 1
		for j := range w.Exercises {
			e := &w.Exercises[j]
			e.Order = j + 1
			for k := range e.Sets {
				e.Sets[k].Order = k + 1
			}
		}
	}
}

// ActiveProgram marks the program a user is currently following.
type ActiveProgram struct {
	UserID      int64     `json:"userId" validate:"gt=0"`
	ProgramID   int64     `json:"programId" validate:"gt=0"`
	ActivatedAt time.Time `json:"activatedAt"`
}
