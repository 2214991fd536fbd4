package worker_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"doc-gateway/internal/entity"
	"doc-gateway/internal/queue"
	"doc-gateway/internal/registry"
	"doc-gateway/internal/worker"
)

// ---- fakes ----

type fakeGotenberg struct {
	mu    sync.Mutex
	calls map[string]int
	err   error
	block chan struct{} // when set, Convert waits on it per call
}

func (f *fakeGotenberg) Convert(ctx context.Context, baseURL, inputPath, outputPath string, options map[string]string) error {
	f.mu.Lock()
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[inputPath]++
	block := f.block
	f.mu.Unlock()

	if block != nil {
		<-block
	}
	return f.err
}

func (f *fakeGotenberg) callCount(inputPath string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[inputPath]
}

type fakeMineru struct {
	mu     sync.Mutex
	calls  map[string]int
	result json.RawMessage
	err    error
}

func (f *fakeMineru) Parse(ctx context.Context, baseURL, inputPath string) (json.RawMessage, error) {
	f.mu.Lock()
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[inputPath]++
	f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *fakeMineru) callCount(inputPath string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[inputPath]
}

// ---- helpers ----

type fixture struct {
	registry  *registry.Registry
	queue     *queue.FIFO
	gotenberg *fakeGotenberg
	mineru    *fakeMineru
	cancel    context.CancelFunc
	done      chan struct{}
}

func startPool(t *testing.T, workers int, gotenberg *fakeGotenberg, mineru *fakeMineru) *fixture {
	t.Helper()

	f := &fixture{
		registry:  registry.New(),
		queue:     queue.NewFIFO(),
		gotenberg: gotenberg,
		mineru:    mineru,
		done:      make(chan struct{}),
	}

	ctx, cancel := context.WithCancel(context.Background())
	f.cancel = cancel

	p := worker.NewPool(f.registry, f.queue, gotenberg, mineru, workers)
	go func() {
		p.Run(ctx)
		close(f.done)
	}()

	t.Cleanup(func() {
		cancel()
		select {
		case <-f.done:
		case <-time.After(5 * time.Second):
			t.Error("pool did not stop")
		}
	})

	return f
}

func (f *fixture) submit(t *testing.T, backend entity.Backend) uuid.UUID {
	t.Helper()

	id := uuid.New()
	task := &entity.Task{
		ID:      id,
		Backend: backend,
		Status:  entity.StatusPending,
		Input: entity.TaskInput{
			BaseURL:    "http://backend.local",
			UploadPath: "/tmp/" + id.String(),
			OutputPath: "/tmp/" + id.String() + ".pdf",
		},
		CreatedAt: time.Now().UTC(),
	}
	if err := f.registry.Create(task); err != nil {
		t.Fatalf("create task: %v", err)
	}
	f.queue.Enqueue(id)
	return id
}

func (f *fixture) waitTerminal(t *testing.T, id uuid.UUID) *entity.Task {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		task, err := f.registry.Get(id)
		if err != nil {
			t.Fatalf("get task: %v", err)
		}
		if task.Status.Terminal() {
			return task
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("task %s never reached a terminal state", id)
	return nil
}

// ---- tests ----

func TestPool_AllJobsTerminalExactlyOnce(t *testing.T) {
	mineru := &fakeMineru{result: json.RawMessage(`{"md_result":"# parsed"}`)}
	f := startPool(t, 3, &fakeGotenberg{}, mineru)

	const k = 9 // k >= workers
	ids := make([]uuid.UUID, 0, k)
	for i := 0; i < k; i++ {
		ids = append(ids, f.submit(t, entity.BackendMineru))
	}

	for _, id := range ids {
		task := f.waitTerminal(t, id)
		if task.Status != entity.StatusDone {
			t.Fatalf("task %s: expected done, got %s (err=%v)", id, task.Status, task.Error)
		}
		if len(task.Result) == 0 {
			t.Fatalf("task %s: done without result", id)
		}
		if task.Error != nil {
			t.Fatalf("task %s: done with error %q", id, *task.Error)
		}
		if n := mineru.callCount(task.Input.UploadPath); n != 1 {
			t.Fatalf("task %s: expected exactly 1 backend call, got %d", id, n)
		}
		if task.StartedAt == nil || task.FinishedAt == nil {
			t.Fatalf("task %s: missing timestamps: %+v", id, task)
		}
		if task.FinishedAt.Before(*task.StartedAt) {
			t.Fatalf("task %s: finished before started", id)
		}
	}
}

func TestPool_FailureBecomesErrorState(t *testing.T) {
	gotenberg := &fakeGotenberg{err: errors.New("gotenberg returned HTTP 503: overloaded")}
	f := startPool(t, 2, gotenberg, &fakeMineru{})

	id := f.submit(t, entity.BackendLibreOffice)

	task := f.waitTerminal(t, id)
	if task.Status != entity.StatusError {
		t.Fatalf("expected error state, got %s", task.Status)
	}
	if task.Error == nil || *task.Error == "" {
		t.Fatal("expected a non-empty error message")
	}
	if len(task.Result) != 0 {
		t.Fatalf("errored task must not carry a result: %s", task.Result)
	}

	// a failed job must not take the worker down: the next job still runs
	gotenberg.err = nil
	id2 := f.submit(t, entity.BackendLibreOffice)
	if task := f.waitTerminal(t, id2); task.Status != entity.StatusDone {
		t.Fatalf("worker died after a failed job: %s", task.Status)
	}
}

func TestPool_SkipsNonPendingEntries(t *testing.T) {
	mineru := &fakeMineru{result: json.RawMessage(`{}`)}
	f := startPool(t, 1, &fakeGotenberg{}, mineru)

	id := f.submit(t, entity.BackendMineru)
	f.waitTerminal(t, id)

	// duplicate enqueue of a terminal task must be a no-op
	f.queue.Enqueue(id)

	probe := f.submit(t, entity.BackendMineru)
	f.waitTerminal(t, probe)

	if n := mineru.callCount("/tmp/" + id.String()); n != 1 {
		t.Fatalf("duplicate queue entry re-processed the task: %d calls", n)
	}
}

func TestPool_CompletionOrderIndependentOfSubmission(t *testing.T) {
	block := make(chan struct{})
	gotenberg := &fakeGotenberg{block: block}
	mineru := &fakeMineru{result: json.RawMessage(`{"md_result":"fast"}`)}
	f := startPool(t, 2, gotenberg, mineru)

	slow := f.submit(t, entity.BackendLibreOffice) // submitted first, blocks
	fast := f.submit(t, entity.BackendMineru)

	task := f.waitTerminal(t, fast)
	if task.Status != entity.StatusDone {
		t.Fatalf("fast task: expected done, got %s", task.Status)
	}

	slowTask, err := f.registry.Get(slow)
	if err != nil {
		t.Fatalf("get slow task: %v", err)
	}
	if slowTask.Status.Terminal() {
		t.Fatalf("slow task finished while its backend call is still blocked: %s", slowTask.Status)
	}

	close(block)
	if task := f.waitTerminal(t, slow); task.Status != entity.StatusDone {
		t.Fatalf("slow task: expected done, got %s", task.Status)
	}
}

func TestPool_UnknownBackendErrors(t *testing.T) {
	f := startPool(t, 1, &fakeGotenberg{}, &fakeMineru{})

	id := uuid.New()
	task := &entity.Task{
		ID:        id,
		Backend:   entity.Backend("imagemagick"),
		Status:    entity.StatusPending,
		CreatedAt: time.Now().UTC(),
	}
	if err := f.registry.Create(task); err != nil {
		t.Fatalf("create task: %v", err)
	}
	f.queue.Enqueue(id)

	got := f.waitTerminal(t, id)
	if got.Status != entity.StatusError || got.Error == nil {
		t.Fatalf("expected error state for unknown backend, got %+v", got)
	}
}
