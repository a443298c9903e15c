package program

// Action is an edit applied to a Program by Apply.
type Action interface {
	isAction()
}

// WorkoutField names a scalar field of a Workout that UpdateWorkoutField can set.
type WorkoutField string

const FieldName WorkoutField = "name"

// EntityKind names one level of the program tree.
type EntityKind string

const (
	KindProgram  EntityKind = "program"
	KindWorkout  EntityKind = "workout"
	KindExercise EntityKind = "exercise"
	KindSet      EntityKind = "set"
)

// AddWorkout appends a workout. An empty Name gets the next "Workout N" name.
type AddWorkout struct {
	WorkoutID ID
	Name      string
}

// UpdateWorkoutField sets one scalar field of a workout.
type UpdateWorkoutField struct {
	WorkoutID ID
	Field     WorkoutField
	Value     string
}

// UpdateWorkoutTitle renames a workout.
type UpdateWorkoutTitle struct {
	WorkoutID ID
	Name      string
}

// DeleteWorkout removes a workout with its exercises and sets.
type DeleteWorkout struct {
	WorkoutID ID
}

// AddExercise appends an exercise picked from the catalog, seeded with one empty set.
type AddExercise struct {
	WorkoutID  ID
	Catalog    CatalogExercise
	ExerciseID ID
	SetID      ID
}

// UpdateExercise replaces a workout's exercise list, merging entries that share a
// CatalogExerciseID with the existing ones.
type UpdateExercise struct {
	WorkoutID ID
	Exercises []Exercise
}

// RemoveExercise removes one exercise, matched by its own id.
type RemoveExercise struct {
	WorkoutID  ID
	ExerciseID ID
}

// AddSet appends an empty set to an exercise.
type AddSet struct {
	WorkoutID  ID
	ExerciseID ID
	SetID      ID
}

// SetPatch carries the fields of an UpdateSet. Order selects the set; nil fields are left alone.
type SetPatch struct {
	Order  int
	Weight *float64
	Reps   *int
}

// UpdateSet patches the set with the given order.
type UpdateSet struct {
	WorkoutID  ID
	ExerciseID ID
	Set        SetPatch
}

// RemoveSet removes one set, matched by id.
type RemoveSet struct {
	WorkoutID  ID
	ExerciseID ID
	SetID      ID
}

// LoadProgram replaces the whole tree, typically with a server response.
type LoadProgram struct {
	Program Program
}

// ProgramPatch carries the program-level fields of an UpdateProgram. Nil fields are left alone.
type ProgramPatch struct {
	Name          *string
	MainGoal      *string
	DurationValue *int
	DurationUnit  *DurationUnit
	DaysPerWeek   *int
}

// UpdateProgram patches the program's own scalar fields.
type UpdateProgram struct {
	Patch ProgramPatch
}

// Rekey replaces the id of one entity, typically a placeholder with the durable id
// the server assigned to it.
type Rekey struct {
	Kind EntityKind
	From ID
	To   ID
}

func (AddWorkout) isAction()         {}
func (UpdateWorkoutField) isAction() {}
func (UpdateWorkoutTitle) isAction() {}
func (DeleteWorkout) isAction()      {}
func (AddExercise) isAction()        {}
func (UpdateExercise) isAction()     {}
func (RemoveExercise) isAction()     {}
func (AddSet) isAction()             {}
func (UpdateSet) isAction()          {}
func (RemoveSet) isAction()          {}
func (LoadProgram) isAction()        {}
func (UpdateProgram) isAction()      {}
func (Rekey) isAction()              {}

// withIDs fills unassigned ids of actions that create entities.
func withIDs(a Action, next func() ID) Action {
	switch act := a.(type) {
	case AddWorkout:
		if act.WorkoutID == 0 {
			act.WorkoutID = next()
		}
		return act
	case AddExercise:
		if act.ExerciseID == 0 {
			act.ExerciseID = next()
		}
		if act.SetID == 0 {
			act.SetID = next()
		}
		return act
	case AddSet:
		if act.SetID == 0 {
			act.SetID = next()
		}
		return act
	case UpdateExercise:
		exercises := make([]Exercise, len(act.Exercises))
		for i, e := range act.Exercises {
			e = e.Clone()
			if e.ID == 0 {
				e.ID = next()
			}
			for j := range e.Sets {
				if e.Sets[j].ID == 0 {
					e.Sets[j].ID = next()
				}
			}
			exercises[i] = e
		}
		act.Exercises = exercises
		return act
	}
	return a
}
