// Package program holds the client-side editing model for a workout program:
// the Program → Workout → Exercise → Set tree, the reducer that applies edits to it,
// and the Store that owns the current tree and the expanded-workout selection.
package program

import "fmt"

// ID identifies a program entity. Durable ids issued by the server are positive,
// placeholder ids issued by an Allocator are negative, zero means unassigned.
type ID int64

// IsPlaceholder reports whether id was issued locally and not yet confirmed by the server.
func (id ID) IsPlaceholder() bool { return id < 0 }

// IsDurable reports whether id was issued by the server.
func (id ID) IsDurable() bool { return id > 0 }

// DurationUnit is the unit of Program.DurationValue.
type DurationUnit string

const (
	UnitDays   DurationUnit = "days"
	UnitWeeks  DurationUnit = "weeks"
	UnitMonths DurationUnit = "months"
)

// ParseDurationUnit validates a unit string.
func ParseDurationUnit(s string) (DurationUnit, error) {
	switch u := DurationUnit(s); u {
	case UnitDays, UnitWeeks, UnitMonths:
		return u, nil
	}
	return "", fmt.Errorf("unknown duration unit %q", s)
}

// Program is the root of the editing tree.
type Program struct {
	ID            ID           `json:"id"`
	Name          string       `json:"name"`
	MainGoal      string       `json:"mainGoal"`
	DurationValue int          `json:"durationValue"`
	DurationUnit  DurationUnit `json:"durationUnit"`
	DaysPerWeek   int          `json:"daysPerWeek"`
	Workouts      []Workout    `json:"workouts"`
}

// Workout is one training day of a program.
type Workout struct {
	ID        ID         `json:"id"`
	Name      string     `json:"name"`
	Order     int        `json:"order"`
	Exercises []Exercise `json:"exercises"`
}

// Exercise is a catalog exercise placed in a workout. Name, Muscle, Equipment and
// ImageURL are copied from the catalog when the exercise is picked.
type Exercise struct {
	ID                ID     `json:"id"`
	CatalogExerciseID ID     `json:"catalogExerciseId"`
	Order             int    `json:"order"`
	Name              string `json:"name"`
	Muscle            string `json:"muscle"`
	Equipment         string `json:"equipment"`
	ImageURL          string `json:"imageUrl"`
	Sets              []Set  `json:"sets"`
}

// Set is a planned weight × reps pair. Nil means not filled in yet.
type Set struct {
	ID     ID       `json:"id"`
	Order  int      `json:"order"`
	Weight *float64 `json:"weight"`
	Reps   *int     `json:"reps"`
}

// CatalogExercise is the read-only catalog entry an Exercise is created from.
type CatalogExercise struct {
	ID        ID
	Name      string
	Muscle    string
	Equipment string
	ImageURL  string
}

// Clone returns a deep copy of p.
func (p Program) Clone() Program {
	out := p
	if p.Workouts != nil {
		out.Workouts = make([]Workout, len(p.Workouts))
		for i, w := range p.Workouts {
			out.Workouts[i] = w.Clone()
		}
	}
	return out
}

// Clone returns a deep copy of w.
func (w Workout) Clone() Workout {
	out := w
	if w.Exercises != nil {
		out.Exercises = make([]Exercise, len(w.Exercises))
		for i, e := range w.Exercises {
			out.Exercises[i] = e.Clone()
		}
	}
	return out
}

// Clone returns a deep copy of e.
func (e Exercise) Clone() Exercise {
	out := e
	if e.Sets != nil {
		out.Sets = make([]Set, len(e.Sets))
		for i, s := range e.Sets {
			out.Sets[i] = s.Clone()
		}
	}
	return out
}

// Clone returns a deep copy of s.
func (s Set) Clone() Set {
	out := s
	if s.Weight != nil {
		w := *s.Weight
		out.Weight = &w
	}
	if s.Reps != nil {
		r := *s.Reps
		out.Reps = &r
	}
	return out
}

// Workout returns the workout with the given id.
func (p Program) Workout(id ID) (Workout, bool) {
	i := p.workoutIndex(id)
	if i < 0 {
		return Workout{}, false
	}
	return p.Workouts[i], true
}

// Exercise returns the exercise with the given id.
func (w Workout) Exercise(id ID) (Exercise, bool) {
	i := w.exerciseIndex(id)
	if i < 0 {
		return Exercise{}, false
	}
	return w.Exercises[i], true
}

func (p Program) workoutIndex(id ID) int {
	for i, w := range p.Workouts {
		if w.ID == id {
			return i
		}
	}
	return -1
}

func (w Workout) exerciseIndex(id ID) int {
	for i, e := range w.Exercises {
		if e.ID == id {
			return i
		}
	}
	return -1
}

func (e Exercise) setIndex(id ID) int {
	for i, s := range e.Sets {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// HasPlaceholders reports whether any entity in the tree still carries a placeholder id.
func (p Program) HasPlaceholders() bool {
	if p.ID.IsPlaceholder() {
		return true
	}
	for _, w := range p.Workouts {
		if w.ID.IsPlaceholder() {
			return true
		}
		for _, e := range w.Exercises {
			if e.ID.IsPlaceholder() {
				return true
			}
			for _, s := range e.Sets {
				if s.ID.IsPlaceholder() {
					return true
				}
			}
		}
	}
	return false
}
