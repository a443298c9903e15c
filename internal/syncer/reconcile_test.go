package syncer

import (
	"testing"

	"github.com/claude/fittrack/internal/program"
	"github.com/stretchr/testify/assert"
)

// TestReconcile verifies that placeholders are paired with the saved ids by
// position and that durable ids are left alone.
func TestReconcile(t *testing.T) {
	local := program.Program{ID: -1, Workouts: []program.Workout{
		{ID: 10, Exercises: []program.Exercise{
			{ID: -3, Sets: []program.Set{{ID: 30}, {ID: -4}}},
		}},
		{ID: -2},
	}}
	saved := program.Program{ID: 100, Workouts: []program.Workout{
		{ID: 10, Exercises: []program.Exercise{
			{ID: 300, Sets: []program.Set{{ID: 30}, {ID: 400}}},
		}},
		{ID: 200},
	}}

	got := Reconcile(local, saved)
	assert.Equal(t, []program.Rekey{
		{Kind: program.KindProgram, From: -1, To: 100},
		{Kind: program.KindWorkout, From: -2, To: 200},
		{Kind: program.KindExercise, From: -3, To: 300},
		{Kind: program.KindSet, From: -4, To: 400},
	}, sortRekeys(got))
}

// TestReconcileShorterResponse verifies that entities without a counterpart are skipped.
func TestReconcileShorterResponse(t *testing.T) {
	local := program.Program{ID: 5, Workouts: []program.Workout{{ID: -1}, {ID: -2}}}
	saved := program.Program{ID: 5, Workouts: []program.Workout{{ID: 50}}}

	assert.Equal(t, []program.Rekey{{Kind: program.KindWorkout, From: -1, To: 50}}, Reconcile(local, saved))
}

// sortRekeys orders rekeys by tree level so assertions don't depend on traversal order.
func sortRekeys(in []program.Rekey) []program.Rekey {
	rank := map[program.EntityKind]int{
		program.KindProgram: 0, program.KindWorkout: 1, program.KindExercise: 2, program.KindSet: 3,
	}
	out := append([]program.Rekey(nil), in...)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && rank[out[j].Kind] < rank[out[j-1].Kind]; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}
