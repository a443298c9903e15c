package program

// Selection tracks which workout is expanded for editing. At most one workout is
// expanded at a time. Selection is a value: every method returns a new Selection
// and leaves the receiver untouched.
type Selection struct {
	expanded map[ID]bool
}

// NewSelection returns a Selection that knows every given workout, all collapsed.
func NewSelection(workouts []Workout) Selection {
	expanded := make(map[ID]bool, len(workouts))
	for _, w := range workouts {
		expanded[w.ID] = false
	}
	return Selection{expanded: expanded}
}

// Toggle expands id and collapses every other workout, or collapses id if it was the
// expanded one.
func (s Selection) Toggle(id ID) Selection {
	wasOpen := s.expanded[id]
	next := make(map[ID]bool, len(s.expanded)+1)
	for k := range s.expanded {
		next[k] = false
	}
	next[id] = !wasOpen
	return Selection{expanded: next}
}

// CollapseAll collapses every workout.
func (s Selection) CollapseAll() Selection {
	next := make(map[ID]bool, len(s.expanded))
	for k := range s.expanded {
		next[k] = false
	}
	return Selection{expanded: next}
}

// Active returns the expanded workout, if any.
func (s Selection) Active() (ID, bool) {
	for k, open := range s.expanded {
		if open {
			return k, true
		}
	}
	return 0, false
}

// IsExpanded reports whether id is the expanded workout.
func (s Selection) IsExpanded(id ID) bool {
	return s.expanded[id]
}

// Known reports whether id has been seen by this Selection.
func (s Selection) Known(id ID) bool {
	_, ok := s.expanded[id]
	return ok
}

// Forget drops id. If id was expanded nothing is expanded afterwards.
func (s Selection) Forget(id ID) Selection {
	if _, ok := s.expanded[id]; !ok {
		return s
	}
	next := make(map[ID]bool, len(s.expanded))
	for k, v := range s.expanded {
		if k != id {
			next[k] = v
		}
	}
	return Selection{expanded: next}
}

// Track adds id as a collapsed workout if it isn't known yet.
func (s Selection) Track(id ID) Selection {
	if s.Known(id) {
		return s
	}
	next := make(map[ID]bool, len(s.expanded)+1)
	for k, v := range s.expanded {
		next[k] = v
	}
	next[id] = false
	return Selection{expanded: next}
}

// Rekey moves the state of from to to.
func (s Selection) Rekey(from, to ID) Selection {
	v, ok := s.expanded[from]
	if !ok || from == to {
		return s
	}
	next := make(map[ID]bool, len(s.expanded))
	for k, val := range s.expanded {
		if k != from {
			next[k] = val
		}
	}
	next[to] = v
	return Selection{expanded: next}
}
