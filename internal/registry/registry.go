package registry

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"doc-gateway/internal/entity"
)

var (
	ErrNotFound    = errors.New("task not found")
	ErrDuplicateID = errors.New("duplicate task id")
)

// Registry is the in-memory task store. One coarse lock guards the whole
// map; record mutation is infrequent and never does I/O under the lock.
type Registry struct {
	mu    sync.Mutex
	tasks map[uuid.UUID]*entity.Task
}

func New() *Registry {
	return &Registry{tasks: make(map[uuid.UUID]*entity.Task)}
}

func (r *Registry) Create(task *entity.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tasks[task.ID]; ok {
		return ErrDuplicateID
	}
	cp := *task
	r.tasks[task.ID] = &cp
	return nil
}

// Get returns a copy of the record, so callers can read it without
// holding the registry lock.
func (r *Registry) Get(id uuid.UUID) (*entity.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tasks[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *t
	return &cp, nil
}

// Update applies fn to the stored record under the registry lock.
func (r *Registry) Update(id uuid.UUID, fn func(*entity.Task)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tasks[id]
	if !ok {
		return ErrNotFound
	}
	fn(t)
	return nil
}
