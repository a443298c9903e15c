package program

import "sync"

// Store owns the program being edited and the workout selection. All edits go
// through Dispatch; readers get deep copies so they can never alter the stored tree.
type Store struct {
	mu        sync.RWMutex
	program   Program
	selection Selection
	ids       Allocator
	version   uint64

	listeners    map[int]func(Program)
	nextListener int

	notifyMu  sync.Mutex
	pending   *notice
	draining  bool
	delivered uint64
}

// notice is one program version waiting to be delivered to listeners.
type notice struct {
	version   uint64
	program   Program
	listeners []func(Program)
}

// NewStore returns a Store holding p, with every workout collapsed. A program
// without an id gets a placeholder, so the first save can rekey it.
func NewStore(p Program) *Store {
	p = p.Clone()
	s := &Store{
		program:   p,
		selection: NewSelection(p.Workouts),
		listeners: make(map[int]func(Program)),
	}
	if s.program.ID == 0 {
		s.program.ID = s.ids.Next()
	}
	return s
}

// Dispatch applies a to the stored program and returns a copy of the result.
// Unassigned ids on actions that create entities are filled from the Store's Allocator.
//
// Listeners are called after the lock is released, in version order: a listener never
// sees a program older than one it has already been given. When dispatches overlap,
// intermediate versions may be skipped, and a Dispatch may return before its
// notification is delivered by the goroutine already notifying.
func (s *Store) Dispatch(a Action) Program {
	s.mu.Lock()
	a = s.ids.Stamp(a)
	prev := s.program
	next := Apply(prev, a)
	if next.ID == 0 {
		next.ID = s.ids.Next()
	}
	s.selection = s.nextSelection(prev, next, a)
	s.program = next
	s.version++
	n := notice{version: s.version, program: next}
	for _, fn := range s.listeners {
		n.listeners = append(n.listeners, fn)
	}
	s.mu.Unlock()

	if len(n.listeners) > 0 {
		s.notify(n)
	}
	return next.Clone()
}

// notify queues n and, unless another goroutine is already delivering, delivers
// queued notices until none is left. Only the newest queued notice is kept.
func (s *Store) notify(n notice) {
	s.notifyMu.Lock()
	if s.pending == nil || n.version > s.pending.version {
		s.pending = &n
	}
	if s.draining {
		s.notifyMu.Unlock()
		return
	}
	s.draining = true
	for s.pending != nil {
		cur := *s.pending
		s.pending = nil
		if cur.version <= s.delivered {
			continue
		}
		s.delivered = cur.version
		s.notifyMu.Unlock()
		for _, fn := range cur.listeners {
			fn(cur.program.Clone())
		}
		s.notifyMu.Lock()
	}
	s.draining = false
	s.notifyMu.Unlock()
}

// nextSelection keeps the selection in step with structural changes to the program.
func (s *Store) nextSelection(prev, next Program, a Action) Selection {
	sel := s.selection
	switch act := a.(type) {
	case AddWorkout:
		if _, ok := next.Workout(act.WorkoutID); ok {
			sel = sel.Track(act.WorkoutID)
		}
	case DeleteWorkout:
		if _, ok := prev.Workout(act.WorkoutID); ok {
			sel = sel.Forget(act.WorkoutID)
		}
	case Rekey:
		if act.Kind == KindWorkout {
			sel = sel.Rekey(act.From, act.To)
		}
	case LoadProgram:
		active, hasActive := sel.Active()
		sel = NewSelection(next.Workouts)
		if _, ok := next.Workout(active); hasActive && ok {
			sel = sel.Toggle(active)
		}
	}
	return sel
}

// Snapshot returns a deep copy of the current program.
func (s *Store) Snapshot() Program {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.program.Clone()
}

// Selection returns the current workout selection.
func (s *Store) Selection() Selection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selection
}

// Toggle toggles the expansion of workout id and returns the new selection.
func (s *Store) Toggle(id ID) Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection = s.selection.Toggle(id)
	return s.selection
}

// CollapseAll collapses every workout and returns the new selection.
func (s *Store) CollapseAll() Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection = s.selection.CollapseAll()
	return s.selection
}

// NextID issues a placeholder id from the Store's Allocator.
func (s *Store) NextID() ID {
	return s.ids.Next()
}

// Subscribe registers fn to be called with a copy of the program after every Dispatch.
// The returned function removes fn; once it has returned fn is not called again by
// later dispatches.
func (s *Store) Subscribe(fn func(Program)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextListener
	s.nextListener++
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}
