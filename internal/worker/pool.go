package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"doc-gateway/internal/entity"
)

// Registry port (implementation: registry.Registry).
type Registry interface {
	Get(id uuid.UUID) (*entity.Task, error)
	Update(id uuid.UUID, fn func(*entity.Task)) error
}

// Queue port (implementation: queue.FIFO).
type Queue interface {
	Dequeue() (uuid.UUID, bool)
	Close()
}

type GotenbergClient interface {
	Convert(ctx context.Context, baseURL, inputPath, outputPath string, options map[string]string) error
}

type MineruClient interface {
	Parse(ctx context.Context, baseURL, inputPath string) (json.RawMessage, error)
}

// Pool runs a fixed number of workers for the process lifetime. Each
// worker loops: dequeue an id, run the external call, write the terminal
// state back. A job failure never takes the worker down with it.
type Pool struct {
	registry  Registry
	queue     Queue
	gotenberg GotenbergClient
	mineru    MineruClient
	workers   int
	wg        sync.WaitGroup
}

func NewPool(registry Registry, queue Queue, gotenberg GotenbergClient, mineru MineruClient, workers int) *Pool {
	if workers <= 0 {
		workers = 4
	}
	return &Pool{
		registry:  registry,
		queue:     queue,
		gotenberg: gotenberg,
		mineru:    mineru,
		workers:   workers,
	}
}

// Run blocks until ctx is canceled, then closes the queue and waits for
// the workers to drain.
func (p *Pool) Run(ctx context.Context) {
	log.Printf("worker pool started: workers=%d", p.workers)

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go func(n int) {
			defer p.wg.Done()
			for {
				id, ok := p.queue.Dequeue()
				if !ok {
					return
				}
				p.process(ctx, n, id)
			}
		}(i + 1)
	}

	<-ctx.Done()
	p.queue.Close()
	p.wg.Wait()
	log.Println("worker pool stopped")
}

func (p *Pool) process(ctx context.Context, n int, id uuid.UUID) {
	start := time.Now()

	// A panic in a conversion must not kill the worker; record it as the
	// job's terminal error instead of leaving the task stuck in processing.
	defer func() {
		if r := recover(); r != nil {
			msg := fmt.Sprintf("internal failure: %v", r)
			p.markError(id, msg)
			log.Printf("[worker-%d] task_id=%s status=error panic=%v", n, id, r)
		}
	}()

	task, err := p.registry.Get(id)
	if err != nil {
		log.Printf("[worker-%d] task_id=%s get_task error=%v", n, id, err)
		return
	}
	if task.Status != entity.StatusPending {
		// Spurious queue entry (duplicate enqueue); another worker owns it.
		log.Printf("[worker-%d] task_id=%s skip status=%s", n, id, task.Status)
		return
	}

	now := time.Now().UTC()
	_ = p.registry.Update(id, func(t *entity.Task) {
		t.Status = entity.StatusProcessing
		t.StartedAt = &now
	})

	log.Printf("[worker-%d] task_id=%s backend=%s status=processing", n, id, task.Backend)

	result, procErr := p.invoke(ctx, task)
	if procErr != nil {
		p.markError(id, procErr.Error())
		log.Printf("[worker-%d] task_id=%s backend=%s status=error duration_ms=%d error=%s",
			n, id, task.Backend, time.Since(start).Milliseconds(), procErr,
		)
		return
	}

	finished := time.Now().UTC()
	_ = p.registry.Update(id, func(t *entity.Task) {
		t.Status = entity.StatusDone
		t.Result = result
		t.FinishedAt = &finished
	})

	log.Printf("[worker-%d] task_id=%s backend=%s status=done duration_ms=%d",
		n, id, task.Backend, time.Since(start).Milliseconds(),
	)
}

func (p *Pool) invoke(ctx context.Context, task *entity.Task) (json.RawMessage, error) {
	in := task.Input

	switch task.Backend {
	case entity.BackendLibreOffice:
		if err := p.gotenberg.Convert(ctx, in.BaseURL, in.UploadPath, in.OutputPath, in.Options); err != nil {
			return nil, err
		}
		return json.Marshal(map[string]string{"output_path": in.OutputPath})
	case entity.BackendMineru:
		return p.mineru.Parse(ctx, in.BaseURL, in.UploadPath)
	default:
		return nil, fmt.Errorf("unknown backend: %s", task.Backend)
	}
}

func (p *Pool) markError(id uuid.UUID, msg string) {
	finished := time.Now().UTC()
	_ = p.registry.Update(id, func(t *entity.Task) {
		if t.Status.Terminal() {
			return
		}
		t.Status = entity.StatusError
		t.Error = &msg
		t.FinishedAt = &finished
	})
}
