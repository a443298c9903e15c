package server

import (
	"context"
	"sync"
	"time"

	"github.com/claude/fittrack/internal/models"
	"github.com/claude/fittrack/internal/storage"
	"github.com/google/uuid"
)

// fakeStore is an in-memory Store.
type fakeStore struct {
	mu        sync.Mutex
	nextID    int64
	equipment []models.Equipment
	catalog   []models.CatalogExercise
	programs  map[int64]models.Program
	active    map[int64]models.ActiveProgram
	logs      []models.WorkoutLog
	lastQuery models.CatalogQuery
}

var _ Store = (*fakeStore)(nil)

func newFakeStore() *fakeStore {
	return &fakeStore{
		nextID:   100,
		programs: make(map[int64]models.Program),
		active:   make(map[int64]models.ActiveProgram),
	}
}

func (f *fakeStore) id() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeStore) ListEquipment(context.Context) ([]models.Equipment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Equipment{}, f.equipment...), nil
}

func (f *fakeStore) CreateEquipment(_ context.Context, e models.Equipment) (*models.Equipment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e.ID = f.id()
	f.equipment = append(f.equipment, e)
	return &e, nil
}

func (f *fakeStore) UpdateEquipment(_ context.Context, id int64, e models.Equipment) (*models.Equipment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.equipment {
		if f.equipment[i].ID == id {
			e.ID = id
			f.equipment[i] = e
			return &e, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (f *fakeStore) ListCatalog(_ context.Context, q models.CatalogQuery) ([]models.CatalogExercise, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastQuery = q
	return append([]models.CatalogExercise{}, f.catalog...), nil
}

func (f *fakeStore) ListPrograms(_ context.Context, userID int64) ([]models.Program, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Program
	for _, p := range f.programs {
		if userID == 0 || p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeStore) GetProgram(_ context.Context, id int64) (*models.Program, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.programs[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &p, nil
}

func (f *fakeStore) CreateProgram(_ context.Context, p models.Program) (*models.Program, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p.ID = f.id()
	f.assign(&p)
	f.programs[p.ID] = p
	return &p, nil
}

func (f *fakeStore) UpdateProgram(_ context.Context, id int64, p models.Program) (*models.Program, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	old, ok := f.programs[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	p.ID = id
	p.UserID = old.UserID
	f.assign(&p)
	f.programs[id] = p
	return &p, nil
}

func (f *fakeStore) assign(p *models.Program) {
	p.Normalize()
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	for i := range p.Workouts {
		w := &p.Workouts[i]
		if w.ID <= 0 {
			w.ID = f.id()
		}
		for j := range w.Exercises {
			e := &w.Exercises[j]
			if e.ID <= 0 {
				e.ID = f.id()
			}
			for k := range e.Sets {
				if e.Sets[k].ID <= 0 {
					e.Sets[k].ID = f.id()
				}
			}
		}
	}
}

func (f *fakeStore) DeleteProgram(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.programs[id]; !ok {
		return storage.ErrNotFound
	}
	delete(f.programs, id)
	return nil
}

func (f *fakeStore) ActivateProgram(_ context.Context, userID, programID int64) (*models.ActiveProgram, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.programs[programID]; !ok {
		return nil, storage.ErrNotFound
	}
	a := models.ActiveProgram{UserID: userID, ProgramID: programID, ActivatedAt: time.Now().UTC()}
	f.active[userID] = a
	return &a, nil
}

func (f *fakeStore) DeactivateProgram(_ context.Context, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.active[userID]; !ok {
		return storage.ErrNotFound
	}
	delete(f.active, userID)
	return nil
}

func (f *fakeStore) GetActiveProgram(_ context.Context, userID int64) (*models.Program, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.active[userID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	p := f.programs[a.ProgramID]
	return &p, nil
}

func (f *fakeStore) CompleteWorkout(_ context.Context, log models.WorkoutLog) (*models.WorkoutLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	log.ID = uuid.New()
	log.CompletedAt = time.Now().UTC()
	f.logs = append(f.logs, log)
	return &log, nil
}

func (f *fakeStore) GetProgress(_ context.Context, userID int64) ([]models.ExerciseProgress, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	byName := map[string]*models.ExerciseProgress{}
	var order []string
	for _, l := range f.logs {
		if l.UserID != userID {
			continue
		}
		for _, e := range l.Exercises {
			p, ok := byName[e.Name]
			if !ok {
				p = &models.ExerciseProgress{ExerciseName: e.Name, CatalogExerciseID: e.CatalogExerciseID}
				byName[e.Name] = p
				order = append(order, e.Name)
			}
			p.Sessions++
			p.TotalSets += len(e.Sets)
			p.LastPerformed = l.CompletedAt
		}
	}
	out := []models.ExerciseProgress{}
	for _, name := range order {
		out = append(out, *byName[name])
	}
	return out, nil
}
