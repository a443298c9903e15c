package program

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func threeWorkouts() []Workout {
	return []Workout{{ID: 1, Order: 1}, {ID: 2, Order: 2}, {ID: 3, Order: 3}}
}

// TestNewSelectionAllCollapsed verifies that a new selection knows every workout and expands none.
func TestNewSelectionAllCollapsed(t *testing.T) {
	s := NewSelection(threeWorkouts())
	for _, id := range []ID{1, 2, 3} {
		assert.True(t, s.Known(id))
		assert.False(t, s.IsExpanded(id))
	}
	_, ok := s.Active()
	assert.False(t, ok)
}

// TestToggleSingleExpansion verifies that expanding one workout collapses the others.
func TestToggleSingleExpansion(t *testing.T) {
	s := NewSelection(threeWorkouts())

	s = s.Toggle(2)
	s = s.Toggle(3)

	active, ok := s.Active()
	assert.True(t, ok)
	assert.Equal(t, ID(3), active)
	assert.False(t, s.IsExpanded(2))
	assert.False(t, s.IsExpanded(1))
}

// TestToggleTwiceRestoresState verifies toggle(x); toggle(x) is the identity.
func TestToggleTwiceRestoresState(t *testing.T) {
	orig := NewSelection(threeWorkouts())
	s := orig.Toggle(1).Toggle(1)
	assert.Equal(t, orig, s)

	open := orig.Toggle(2)
	assert.Equal(t, open, open.Toggle(2).Toggle(2))
}

// TestToggleLeavesReceiverUntouched verifies that Toggle returns a new value.
func TestToggleLeavesReceiverUntouched(t *testing.T) {
	s := NewSelection(threeWorkouts())
	_ = s.Toggle(1)
	assert.False(t, s.IsExpanded(1))
}

// TestCollapseAll verifies that CollapseAll clears the expanded workout.
func TestCollapseAll(t *testing.T) {
	s := NewSelection(threeWorkouts()).Toggle(2).CollapseAll()
	_, ok := s.Active()
	assert.False(t, ok)
	assert.True(t, s.Known(2))
}

// TestForget verifies that forgetting the expanded workout clears the selection.
func TestForget(t *testing.T) {
	s := NewSelection(threeWorkouts()).Toggle(2)

	other := s.Forget(1)
	active, ok := other.Active()
	assert.True(t, ok)
	assert.Equal(t, ID(2), active)

	cleared := s.Forget(2)
	_, ok = cleared.Active()
	assert.False(t, ok)
	assert.False(t, cleared.Known(2))
}

// TestSelectionRekey verifies that a rekeyed workout keeps its expansion state.
func TestSelectionRekey(t *testing.T) {
	s := NewSelection([]Workout{{ID: -1}}).Toggle(-1).Rekey(-1, 7)
	assert.False(t, s.Known(-1))
	assert.True(t, s.IsExpanded(7))
}
