package syncer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/claude/fittrack/internal/program"
)

// ErrSuperseded is returned by Save when a newer save of the same program was
// started before this one completed. Its response is not applied.
var ErrSuperseded = errors.New("superseded by a newer save")

// Syncer saves a Store's program to the backend and feeds the backend's ids back
// into the Store. Every save sends a full snapshot; responses are applied only if
// no later save of the same program has been started since.
type Syncer struct {
	client *Client
	store  *program.Store
	userID int64
	logger *slog.Logger

	mu     sync.Mutex
	seq    uint64
	latest map[program.ID]uint64
	closed bool
}

// New returns a Syncer for programs owned by userID.
func New(client *Client, store *program.Store, userID int64, logger *slog.Logger) *Syncer {
	return &Syncer{
		client: client,
		store:  store,
		userID: userID,
		logger: logger,
		latest: make(map[program.ID]uint64),
	}
}

// Save creates the Store's program on the backend, or updates it once it has a
// durable id, then rekeys every placeholder the backend assigned an id to.
// Edits made while the request is in flight are kept; they are sent by the next Save.
func (s *Syncer) Save(ctx context.Context) (program.Program, error) {
	snap := s.store.Snapshot()
	key := snap.ID
	seq, ok := s.begin(key)
	if !ok {
		return snap, nil
	}

	var (
		saved program.Program
		err   error
	)
	if snap.ID.IsDurable() {
		saved, err = s.client.UpdateProgram(ctx, snap)
	} else {
		saved, err = s.client.CreateProgram(ctx, s.userID, snap)
	}
	if err != nil {
		s.logger.Error("saving program", "program_id", snap.ID, "error", err)
		return program.Program{}, fmt.Errorf("saving program %d: %w", snap.ID, err)
	}

	current, closed := s.finish(key, seq)
	switch {
	case closed:
		s.logger.Debug("dropping save response after close", "program_id", saved.ID)
		return saved, nil
	case !current:
		s.logger.Info("dropping stale save response", "program_id", saved.ID, "seq", seq)
		return saved, ErrSuperseded
	}

	rekeys := Reconcile(snap, saved)
	for _, rk := range rekeys {
		s.store.Dispatch(rk)
	}
	s.logger.Info("program saved", "program_id", saved.ID, "rekeyed", len(rekeys))
	return s.store.Snapshot(), nil
}

// Load fetches program id from the backend and replaces the Store's tree with it.
func (s *Syncer) Load(ctx context.Context, id program.ID) (program.Program, error) {
	key := id
	seq, ok := s.begin(key)
	if !ok {
		return program.Program{}, nil
	}

	p, err := s.client.GetProgram(ctx, id)
	if err != nil {
		return program.Program{}, fmt.Errorf("loading program %d: %w", id, err)
	}

	current, closed := s.finish(key, seq)
	if closed || !current {
		s.logger.Debug("dropping load response", "program_id", id, "closed", closed)
		if closed {
			return p, nil
		}
		return p, ErrSuperseded
	}
	return s.store.Dispatch(program.LoadProgram{Program: p}), nil
}

// Delete removes the Store's program from the backend. A program that was never
// saved has nothing to delete.
func (s *Syncer) Delete(ctx context.Context) error {
	snap := s.store.Snapshot()
	if !snap.ID.IsDurable() {
		return nil
	}
	if err := s.client.DeleteProgram(ctx, snap.ID); err != nil {
		return fmt.Errorf("deleting program %d: %w", snap.ID, err)
	}
	s.logger.Info("program deleted", "program_id", snap.ID)
	return nil
}

// Close stops the Syncer from applying responses. Requests already in flight
// complete, but their results are dropped without error.
func (s *Syncer) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

// begin records a new request for key and returns its sequence number. It
// reports false once the Syncer is closed.
func (s *Syncer) begin(key program.ID) (uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, false
	}
	s.seq++
	s.latest[key] = s.seq
	return s.seq, true
}

// finish reports whether seq is still the newest request for key, and whether the
// Syncer has been closed.
func (s *Syncer) finish(key program.ID, seq uint64) (current, closed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest[key] == seq, s.closed
}
