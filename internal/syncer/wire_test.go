package syncer

import (
	"encoding/json"
	"testing"

	"github.com/claude/fittrack/internal/program"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func durableProgram() program.Program {
	return program.Program{
		ID:            7,
		Name:          "Strength",
		MainGoal:      "Get stronger",
		DurationValue: 8,
		DurationUnit:  program.UnitWeeks,
		DaysPerWeek:   3,
		Workouts: []program.Workout{
			{ID: 11, Name: "Workout 1", Order: 1, Exercises: []program.Exercise{
				{ID: 21, CatalogExerciseID: 501, Order: 1, Name: "Bench Press", Muscle: "Chest",
					Equipment: "Barbell", ImageURL: "https://img.example/bench.png",
					Sets: []program.Set{
						{ID: 31, Order: 1, Weight: ptr(60.0), Reps: ptr(8)},
						{ID: 32, Order: 2, Weight: ptr(62.5)},
						{ID: 33, Order: 3},
					}},
			}},
			{ID: 12, Name: "Workout 2", Order: 2, Exercises: []program.Exercise{}},
		},
	}
}

// TestWireRoundTrip verifies that a tree with only durable ids survives
// ToWire followed by FromWire field for field.
func TestWireRoundTrip(t *testing.T) {
	p := durableProgram()
	w, err := ToWire(p)
	require.NoError(t, err)

	got, err := FromWire(w)
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

// TestToWireKeys verifies the snake_case shape the backend expects.
func TestToWireKeys(t *testing.T) {
	w, err := ToWire(durableProgram())
	require.NoError(t, err)

	data, err := json.Marshal(w)
	require.NoError(t, err)
	s := string(data)
	for _, key := range []string{`"main_goal"`, `"duration_value"`, `"duration_unit"`, `"days_per_week"`,
		`"catalog_exercise_id"`, `"image_url"`} {
		assert.Contains(t, s, key)
	}
	for _, key := range []string{`"mainGoal"`, `"catalogExerciseId"`, `"imageUrl"`} {
		assert.NotContains(t, s, key)
	}
}

// TestFromWireCoercesStrings verifies that string weights and reps from the
// backend are parsed and empty strings become null.
func TestFromWireCoercesStrings(t *testing.T) {
	w := WireProgram{
		"id":   float64(3),
		"name": "P",
		"workouts": []any{map[string]any{
			"id": float64(4), "order": float64(1), "name": "W",
			"exercises": []any{map[string]any{
				"id": float64(5), "catalog_exercise_id": float64(501), "order": float64(1),
				"sets": []any{
					map[string]any{"id": float64(6), "order": float64(1), "weight": "42.5", "reps": "10"},
					map[string]any{"id": float64(7), "order": float64(2), "weight": "", "reps": " "},
				},
			}},
		}},
		"user_id":    float64(1),
		"created_at": "2026-01-01T00:00:00Z",
	}

	p, err := FromWire(w)
	require.NoError(t, err)
	sets := p.Workouts[0].Exercises[0].Sets
	require.Len(t, sets, 2)
	assert.Equal(t, 42.5, *sets[0].Weight)
	assert.Equal(t, 10, *sets[0].Reps)
	assert.Nil(t, sets[1].Weight)
	assert.Nil(t, sets[1].Reps)
	assert.Equal(t, program.ID(501), p.Workouts[0].Exercises[0].CatalogExerciseID)
}

// TestCoerceNumbersRejectsGarbage verifies that a non-numeric weight is a validation error.
func TestCoerceNumbersRejectsGarbage(t *testing.T) {
	_, err := CoerceNumbers(map[string]any{"sets": []any{map[string]any{"weight": "heavy"}}})
	require.ErrorIs(t, err, ErrValidation)

	_, err = CoerceNumbers(map[string]any{"reps": "8.5"})
	require.ErrorIs(t, err, ErrValidation)

	_, err = CoerceNumbers(map[string]any{"weight": "NaN"})
	require.ErrorIs(t, err, ErrValidation)
}

// TestTransformKeysNested verifies that keys are rewritten at every depth,
// inside arrays too, while values are left alone.
func TestTransformKeysNested(t *testing.T) {
	in := map[string]any{
		"outerKey": []any{
			map[string]any{"innerKey": "keepValue", "deepList": []any{map[string]any{"leafKey": 1}}},
			"plainString",
		},
	}
	got := TransformKeys(in, SnakeCase)
	assert.Equal(t, map[string]any{
		"outer_key": []any{
			map[string]any{"inner_key": "keepValue", "deep_list": []any{map[string]any{"leaf_key": 1}}},
			"plainString",
		},
	}, got)
	assert.Equal(t, in, TransformKeys(got, CamelCase))
}

// TestCaseConversion pins the individual key conversions.
func TestCaseConversion(t *testing.T) {
	tests := []struct {
		camel, snake string
	}{
		{"id", "id"},
		{"mainGoal", "main_goal"},
		{"catalogExerciseId", "catalog_exercise_id"},
		{"daysPerWeek", "days_per_week"},
		{"set2Reps", "set2_reps"},
	}
	for _, tt := range tests {
		t.Run(tt.camel, func(t *testing.T) {
			assert.Equal(t, tt.snake, SnakeCase(tt.camel))
			assert.Equal(t, tt.camel, CamelCase(tt.snake))
		})
	}
	assert.Equal(t, "image_url", SnakeCase("imageURL"))
	assert.Equal(t, "userId", CamelCase("userId"))
}
