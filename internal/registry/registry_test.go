package registry_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"doc-gateway/internal/entity"
	"doc-gateway/internal/registry"
)

func newTask(id uuid.UUID) *entity.Task {
	return &entity.Task{
		ID:        id,
		Backend:   entity.BackendMineru,
		Status:    entity.StatusPending,
		Input:     entity.TaskInput{BaseURL: "http://mineru.local", UploadPath: "/tmp/x.pdf"},
		CreatedAt: time.Now().UTC(),
	}
}

func TestRegistry_CreateAndGet(t *testing.T) {
	r := registry.New()
	id := uuid.New()

	if err := r.Create(newTask(id)); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	got, err := r.Get(id)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if got.ID != id || got.Status != entity.StatusPending {
		t.Fatalf("unexpected record: %+v", got)
	}
}

func TestRegistry_CreateDuplicate(t *testing.T) {
	r := registry.New()
	id := uuid.New()

	if err := r.Create(newTask(id)); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if err := r.Create(newTask(id)); !errors.Is(err, registry.ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}

	// the original record must survive the rejected insert
	got, err := r.Get(id)
	if err != nil || got.Status != entity.StatusPending {
		t.Fatalf("original record damaged: %+v, err=%v", got, err)
	}
}

func TestRegistry_GetUnknown(t *testing.T) {
	r := registry.New()

	if _, err := r.Get(uuid.New()); !errors.Is(err, registry.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRegistry_Update(t *testing.T) {
	r := registry.New()
	id := uuid.New()

	if err := r.Create(newTask(id)); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	err := r.Update(id, func(task *entity.Task) {
		task.Status = entity.StatusProcessing
		now := time.Now().UTC()
		task.StartedAt = &now
	})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	got, _ := r.Get(id)
	if got.Status != entity.StatusProcessing || got.StartedAt == nil {
		t.Fatalf("update not applied: %+v", got)
	}
}

func TestRegistry_UpdateUnknown(t *testing.T) {
	r := registry.New()

	err := r.Update(uuid.New(), func(task *entity.Task) {
		task.Status = entity.StatusDone
	})
	if !errors.Is(err, registry.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRegistry_GetReturnsCopy(t *testing.T) {
	r := registry.New()
	id := uuid.New()

	if err := r.Create(newTask(id)); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	got, _ := r.Get(id)
	got.Status = entity.StatusError

	again, _ := r.Get(id)
	if again.Status != entity.StatusPending {
		t.Fatalf("mutating a returned record leaked into the store: %+v", again)
	}
}

func TestRegistry_ConcurrentCreates(t *testing.T) {
	r := registry.New()

	const n = 64
	ids := make([]uuid.UUID, n)
	for i := range ids {
		ids[i] = uuid.New()
	}

	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(id uuid.UUID) {
			defer wg.Done()
			if err := r.Create(newTask(id)); err != nil {
				t.Errorf("create %s: %v", id, err)
			}
		}(id)
	}
	wg.Wait()

	for _, id := range ids {
		if _, err := r.Get(id); err != nil {
			t.Fatalf("missing record %s: %v", id, err)
		}
	}
}
