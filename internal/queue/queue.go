package queue

import (
	"sync"

	"github.com/google/uuid"
)

// FIFO is an unbounded in-process queue of task ids. Dequeue blocks until
// an id is available or the queue is closed. Each enqueued id is delivered
// to exactly one consumer.
type FIFO struct {
	mu     sync.Mutex
	cond   *sync.Cond
	ids    []uuid.UUID
	closed bool
}

func NewFIFO() *FIFO {
	q := &FIFO{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

func (q *FIFO) Enqueue(id uuid.UUID) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.ids = append(q.ids, id)
	q.cond.Signal()
}

// Dequeue removes and returns the head id, blocking while the queue is
// empty. The wait loop rechecks the predicate after every wakeup, so a
// signal delivered with no waiter is never lost and two consumers never
// receive the same id. ok is false once the queue is closed and drained.
func (q *FIFO) Dequeue() (uuid.UUID, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.ids) == 0 {
		if q.closed {
			return uuid.Nil, false
		}
		q.cond.Wait()
	}
	id := q.ids[0]
	q.ids = q.ids[1:]
	return id, true
}

// Close wakes all blocked consumers. Already-queued ids are still handed
// out before Dequeue starts reporting ok=false.
func (q *FIFO) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	q.cond.Broadcast()
}

func (q *FIFO) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.ids)
}
