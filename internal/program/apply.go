package program

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Apply returns the program that results from applying a to p. It never mutates p,
// never blocks and never fails: an action that refers to an unknown workout, exercise
// or set, or that creates an entity without an id, returns p unchanged.
//
// Removing a workout, exercise or set renumbers its remaining siblings so Order stays
// 1..n at every level.
func Apply(p Program, a Action) Program {
	switch act := a.(type) {
	case AddWorkout:
		return addWorkout(p, act)
	case UpdateWorkoutField:
		return updateWorkoutField(p, act.WorkoutID, act.Field, act.Value)
	case UpdateWorkoutTitle:
		return updateWorkoutField(p, act.WorkoutID, FieldName, act.Name)
	case DeleteWorkout:
		return deleteWorkout(p, act)
	case AddExercise:
		return addExercise(p, act)
	case UpdateExercise:
		return updateExercises(p, act)
	case RemoveExercise:
		return removeExercise(p, act)
	case AddSet:
		return addSet(p, act)
	case UpdateSet:
		return updateSet(p, act)
	case RemoveSet:
		return removeSet(p, act)
	case LoadProgram:
		return act.Program.Clone()
	case UpdateProgram:
		return updateProgram(p, act.Patch)
	case Rekey:
		return rekey(p, act)
	}
	return p
}

var workoutNameRe = regexp.MustCompile(`^Workout (\d+)$`)

// NextWorkoutName returns "Workout N" where N is one more than the highest N among the
// existing "Workout N" names. Names that don't follow the pattern, or whose N is too
// large to be followed, count as 0.
func NextWorkoutName(workouts []Workout) string {
	highest := 0
	for _, w := range workouts {
		m := workoutNameRe.FindStringSubmatch(strings.TrimSpace(w.Name))
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil || n == math.MaxInt {
			continue
		}
		highest = max(highest, n)
	}
	return fmt.Sprintf("Workout %d", highest+1)
}

func addWorkout(p Program, act AddWorkout) Program {
	if act.WorkoutID == 0 || p.workoutIndex(act.WorkoutID) >= 0 {
		return p
	}
	name := strings.TrimSpace(act.Name)
	if name == "" {
		name = NextWorkoutName(p.Workouts)
	}
	out := p.Clone()
	out.Workouts = append(out.Workouts, Workout{
		ID:        act.WorkoutID,
		Name:      name,
		Order:     len(p.Workouts) + 1,
		Exercises: []Exercise{},
	})
	return out
}

func updateWorkoutField(p Program, id ID, field WorkoutField, value string) Program {
	if field != FieldName {
		return p
	}
	return withWorkout(p, id, func(w *Workout) bool {
		w.Name = value
		return true
	})
}

func deleteWorkout(p Program, act DeleteWorkout) Program {
	i := p.workoutIndex(act.WorkoutID)
	if i < 0 {
		return p
	}
	out := p.Clone()
	out.Workouts = append(out.Workouts[:i], out.Workouts[i+1:]...)
	for j := range out.Workouts {
		out.Workouts[j].Order = j + 1
	}
	return out
}

func addExercise(p Program, act AddExercise) Program {
	if act.ExerciseID == 0 || act.SetID == 0 || act.Catalog.ID == 0 {
		return p
	}
	return withWorkout(p, act.WorkoutID, func(w *Workout) bool {
		if w.exerciseIndex(act.ExerciseID) >= 0 {
			return false
		}
		order := 1
		for _, e := range w.Exercises {
			order = max(order, e.Order+1)
		}
		w.Exercises = append(w.Exercises, Exercise{
			ID:                act.ExerciseID,
			CatalogExerciseID: act.Catalog.ID,
			Order:             order,
			Name:              act.Catalog.Name,
			Muscle:            act.Catalog.Muscle,
			Equipment:         act.Catalog.Equipment,
			ImageURL:          act.Catalog.ImageURL,
			Sets:              []Set{{ID: act.SetID, Order: 1}},
		})
		return true
	})
}

func updateExercises(p Program, act UpdateExercise) Program {
	incoming := make([]Exercise, 0, len(act.Exercises))
	for _, e := range act.Exercises {
		if e.CatalogExerciseID != 0 {
			incoming = append(incoming, e.Clone())
		}
	}
	return withWorkout(p, act.WorkoutID, func(w *Workout) bool {
		merged := replaceByKey(w.Exercises, incoming, exerciseIdent, exerciseCatalogKey, mergeExercise)
		exercises := make([]Exercise, 0, len(merged))
		for _, e := range merged {
			if e.ID == 0 {
				continue
			}
			exercises = append(exercises, e)
		}
		for i := range exercises {
			exercises[i].Order = i + 1
			renumberSets(exercises[i].Sets)
		}
		w.Exercises = exercises
		return true
	})
}

func removeExercise(p Program, act RemoveExercise) Program {
	return withWorkout(p, act.WorkoutID, func(w *Workout) bool {
		i := w.exerciseIndex(act.ExerciseID)
		if i < 0 {
			return false
		}
		w.Exercises = append(w.Exercises[:i], w.Exercises[i+1:]...)
		for j := range w.Exercises {
			w.Exercises[j].Order = j + 1
		}
		return true
	})
}

func addSet(p Program, act AddSet) Program {
	if act.SetID == 0 {
		return p
	}
	return withExercise(p, act.WorkoutID, act.ExerciseID, func(e *Exercise) bool {
		if e.setIndex(act.SetID) >= 0 {
			return false
		}
		order := 1
		for _, s := range e.Sets {
			order = max(order, s.Order+1)
		}
		e.Sets = append(e.Sets, Set{ID: act.SetID, Order: order})
		return true
	})
}

func updateSet(p Program, act UpdateSet) Program {
	patch := Set{Order: act.Set.Order, Weight: act.Set.Weight, Reps: act.Set.Reps}
	return withExercise(p, act.WorkoutID, act.ExerciseID, func(e *Exercise) bool {
		sets, matched := patchByKey(e.Sets, []Set{patch}, setOrderKey, mergeSet)
		if !matched {
			return false
		}
		e.Sets = sets
		return true
	})
}

func removeSet(p Program, act RemoveSet) Program {
	return withExercise(p, act.WorkoutID, act.ExerciseID, func(e *Exercise) bool {
		i := e.setIndex(act.SetID)
		if i < 0 {
			return false
		}
		e.Sets = append(e.Sets[:i], e.Sets[i+1:]...)
		renumberSets(e.Sets)
		return true
	})
}

func updateProgram(p Program, patch ProgramPatch) Program {
	out := p.Clone()
	if patch.Name != nil {
		out.Name = *patch.Name
	}
	if patch.MainGoal != nil {
		out.MainGoal = *patch.MainGoal
	}
	if patch.DurationValue != nil && *patch.DurationValue > 0 {
		out.DurationValue = *patch.DurationValue
	}
	if patch.DurationUnit != nil {
		if u, err := ParseDurationUnit(string(*patch.DurationUnit)); err == nil {
			out.DurationUnit = u
		}
	}
	if patch.DaysPerWeek != nil && *patch.DaysPerWeek > 0 {
		out.DaysPerWeek = *patch.DaysPerWeek
	}
	return out
}

func rekey(p Program, act Rekey) Program {
	if act.From == act.To || act.To == 0 {
		return p
	}
	out := p.Clone()
	found := false
	swap := func(id *ID) {
		if *id == act.From {
			*id = act.To
			found = true
		}
	}
	switch act.Kind {
	case KindProgram:
		swap(&out.ID)
	case KindWorkout:
		for i := range out.Workouts {
			swap(&out.Workouts[i].ID)
		}
	case KindExercise:
		for i := range out.Workouts {
			for j := range out.Workouts[i].Exercises {
				swap(&out.Workouts[i].Exercises[j].ID)
			}
		}
	case KindSet:
		for i := range out.Workouts {
			for j := range out.Workouts[i].Exercises {
				sets := out.Workouts[i].Exercises[j].Sets
				for k := range sets {
					swap(&sets[k].ID)
				}
			}
		}
	}
	if !found {
		return p
	}
	return out
}

// withWorkout clones p and calls fn on the workout with the given id. When the workout
// doesn't exist or fn reports no change, p is returned as is.
func withWorkout(p Program, id ID, fn func(w *Workout) bool) Program {
	i := p.workoutIndex(id)
	if i < 0 {
		return p
	}
	out := p.Clone()
	if !fn(&out.Workouts[i]) {
		return p
	}
	return out
}

// withExercise is withWorkout one level down.
func withExercise(p Program, workoutID, exerciseID ID, fn func(e *Exercise) bool) Program {
	return withWorkout(p, workoutID, func(w *Workout) bool {
		j := w.exerciseIndex(exerciseID)
		if j < 0 {
			return false
		}
		return fn(&w.Exercises[j])
	})
}

func renumberSets(sets []Set) {
	for i := range sets {
		sets[i].Order = i + 1
	}
}
