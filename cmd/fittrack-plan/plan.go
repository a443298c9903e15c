package main

import (
	"context"
	"fmt"
	"os"

	"github.com/claude/fittrack/internal/catalog"
	"github.com/claude/fittrack/internal/models"
	"github.com/claude/fittrack/internal/program"
	"gopkg.in/yaml.v3"
)

// Plan is the YAML description of a program.
type Plan struct {
	Name        string        `yaml:"name"`
	MainGoal    string        `yaml:"main_goal"`
	Duration    PlanDuration  `yaml:"duration"`
	DaysPerWeek int           `yaml:"days_per_week"`
	Workouts    []PlanWorkout `yaml:"workouts"`
}

type PlanDuration struct {
	Value int    `yaml:"value"`
	Unit  string `yaml:"unit"`
}

type PlanWorkout struct {
	Name      string         `yaml:"name"`
	Exercises []PlanExercise `yaml:"exercises"`
}

type PlanExercise struct {
	Name string    `yaml:"name"`
	Sets []PlanSet `yaml:"sets"`
}

type PlanSet struct {
	Weight *float64 `yaml:"weight"`
	Reps   *int     `yaml:"reps"`
}

func readPlan(path string) (Plan, error) {
	var plan Plan
	data, err := os.ReadFile(path)
	if err != nil {
		return plan, fmt.Errorf("reading plan: %w", err)
	}
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return plan, fmt.Errorf("parsing plan: %w", err)
	}
	return plan, nil
}

// lookupFunc resolves an exercise name against the catalog.
type lookupFunc func(name string) (program.CatalogExercise, bool)

// build replays plan into store as a sequence of edits.
func build(store *program.Store, plan Plan, lookup lookupFunc) error {
	unit, err := program.ParseDurationUnit(plan.Duration.Unit)
	if err != nil {
		return err
	}
	store.Dispatch(program.UpdateProgram{Patch: program.ProgramPatch{
		Name:          &plan.Name,
		MainGoal:      &plan.MainGoal,
		DurationValue: &plan.Duration.Value,
		DurationUnit:  &unit,
		DaysPerWeek:   &plan.DaysPerWeek,
	}})

	for _, pw := range plan.Workouts {
		wid := store.NextID()
		store.Dispatch(program.AddWorkout{WorkoutID: wid, Name: pw.Name})

		for _, pe := range pw.Exercises {
			entry, ok := lookup(pe.Name)
			if !ok {
				return fmt.Errorf("workout %q: exercise %q not in catalog", pw.Name, pe.Name)
			}
			eid := store.NextID()
			store.Dispatch(program.AddExercise{
				WorkoutID:  wid,
				Catalog:    entry,
				ExerciseID: eid,
				SetID:      store.NextID(),
			})

			// AddExercise seeds set 1.
			for i, ps := range pe.Sets {
				if i > 0 {
					store.Dispatch(program.AddSet{WorkoutID: wid, ExerciseID: eid, SetID: store.NextID()})
				}
				store.Dispatch(program.UpdateSet{
					WorkoutID:  wid,
					ExerciseID: eid,
					Set:        program.SetPatch{Order: i + 1, Weight: ps.Weight, Reps: ps.Reps},
				})
			}
		}
	}
	return nil
}

// maxCatalogPages bounds the cached page walk before falling back to a search.
const maxCatalogPages = 10

// catalogLookup resolves names from cached catalog pages, then from a backend search.
func catalogLookup(ctx context.Context, c *catalog.Client) lookupFunc {
	var seen []program.CatalogExercise
	loaded := false
	return func(name string) (program.CatalogExercise, bool) {
		if !loaded {
			for page := 1; page <= maxCatalogPages; page++ {
				items := c.List(ctx, page)
				if len(items) == 0 {
					break
				}
				seen = append(seen, items...)
			}
			loaded = true
		}
		if entry, ok := catalog.Find(seen, name); ok {
			return entry, true
		}
		found := c.Search(ctx, models.CatalogQuery{Name: name, Limit: models.MaxCatalogLimit})
		return catalog.Find(found, name)
	}
}
