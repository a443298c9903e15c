package program

import "sync/atomic"

// Allocator issues placeholder ids for entities created before the server has seen them.
// Ids count down from -1 and are unique for the lifetime of the Allocator.
// The zero value is ready to use.
type Allocator struct {
	last atomic.Int64
}

// Next returns a placeholder id never returned before by this Allocator.
func (a *Allocator) Next() ID {
	return ID(a.last.Add(-1))
}

// Stamp fills the unassigned ids of an action that creates entities. Other actions
// are returned unchanged.
func (a *Allocator) Stamp(act Action) Action {
	return withIDs(act, a.Next)
}
