package syncer

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/claude/fittrack/internal/models"
	"github.com/claude/fittrack/internal/program"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func placeholderProgram() program.Program {
	return program.Program{
		ID:            -1,
		Name:          "Beginner",
		DurationValue: 4,
		DurationUnit:  program.UnitWeeks,
		DaysPerWeek:   3,
		Workouts: []program.Workout{{
			ID: -2, Name: "Workout 1", Order: 1,
			Exercises: []program.Exercise{{
				ID: -3, CatalogExerciseID: 501, Order: 1, Name: "Bench Press",
				Sets: []program.Set{{ID: -4, Order: 1}, {ID: -5, Order: 2, Weight: ptr(40.0), Reps: ptr(10)}},
			}},
		}},
	}
}

// TestClientCreateAndGet verifies that a created program comes back with durable ids
// and can be fetched again.
func TestClientCreateAndGet(t *testing.T) {
	_, srv := newFakeBackend(t)
	c := NewClient(srv.URL + "/")
	ctx := context.Background()

	saved, err := c.CreateProgram(ctx, 9, placeholderProgram())
	require.NoError(t, err)
	assert.True(t, saved.ID.IsDurable())
	assert.False(t, saved.HasPlaceholders())
	require.Len(t, saved.Workouts[0].Exercises[0].Sets, 2)
	assert.Equal(t, 40.0, *saved.Workouts[0].Exercises[0].Sets[1].Weight)

	got, err := c.GetProgram(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved, got)

	list, err := c.ListUserPrograms(ctx, 9)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, saved.ID, list[0].ID)
}

// TestClientNotFound verifies that a 404 surfaces as a StatusError matching ErrNotFound.
func TestClientNotFound(t *testing.T) {
	_, srv := newFakeBackend(t)
	c := NewClient(srv.URL)

	_, err := c.GetProgram(context.Background(), 12345)
	require.ErrorIs(t, err, ErrNotFound)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusNotFound, se.StatusCode)
	assert.Equal(t, "program not found", se.Message)

	err = c.DeleteProgram(context.Background(), 12345)
	require.ErrorIs(t, err, ErrNotFound)
}

// TestClientValidationBeforeRequest verifies that invalid input is rejected
// without any request reaching the server.
func TestClientValidationBeforeRequest(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()
	c := NewClient(srv.URL)
	ctx := context.Background()

	noName := placeholderProgram()
	noName.Name = ""
	_, err := c.CreateProgram(ctx, 1, noName)
	require.ErrorIs(t, err, ErrValidation)

	_, err = c.UpdateProgram(ctx, placeholderProgram())
	require.ErrorIs(t, err, ErrValidation)

	require.ErrorIs(t, c.ActivateProgram(ctx, 1, 0), ErrValidation)
	require.ErrorIs(t, c.DeleteProgram(ctx, -4), ErrValidation)
	require.ErrorIs(t, c.CompleteWorkout(ctx, models.WorkoutLog{UserID: 1}), ErrValidation)

	assert.Zero(t, hits.Load())
}

// TestClientServerError verifies that a non-JSON error body is kept verbatim.
func TestClientServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := NewClient(srv.URL).DeactivateProgram(context.Background(), 3)
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusInternalServerError, se.StatusCode)
	assert.Equal(t, "boom", se.Message)
	assert.NotErrorIs(t, err, ErrNotFound)
}

// TestClientTransportError verifies that an unreachable server is a wrapped transport error.
func TestClientTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	err := NewClient(url).DeactivateProgram(context.Background(), 3)
	require.Error(t, err)
	var se *StatusError
	assert.False(t, errors.As(err, &se))
}
