package task

import (
	"sync"

	"github.com/fhuszti/eiv-uploader/internal/model"
)

type entry struct {
	task    model.UploadTask
	dropped bool
}

// queue is a FIFO shared by the submitter and the workers.
// capacity 0 means unbounded. Evicted tasks are kept aside so a worker reports them.
type queue struct {
	mu       sync.Mutex
	notEmpty *sync.Cond
	notFull  *sync.Cond

	items    []model.UploadTask
	evicted  []model.UploadTask
	capacity int
	policy   model.OverflowPolicy
	closed   bool
}

func newQueue(capacity int, policy model.OverflowPolicy) *queue {
	if policy == "" {
		policy = model.OverflowReject
	}
	q := &queue{capacity: capacity, policy: policy}
	q.notEmpty = sync.NewCond(&q.mu)
	q.notFull = sync.NewCond(&q.mu)
	return q
}

func (q *queue) full() bool {
	return q.capacity > 0 && len(q.items) >= q.capacity
}

func (q *queue) push(t model.UploadTask) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrDispatcherClosed
	}

	if q.full() {
		switch q.policy {
		case model.OverflowDropOldest:
			q.evicted = append(q.evicted, q.items[0])
			q.items[0] = model.UploadTask{}
			q.items = q.items[1:]
		case model.OverflowBlock:
			for q.full() && !q.closed {
				q.notFull.Wait()
			}
			if q.closed {
				return ErrDispatcherClosed
			}
		default:
			return ErrQueueFull
		}
	}

	q.items = append(q.items, t)
	q.notEmpty.Signal()
	return nil
}

// pop blocks until there is something to hand out. It returns false once the queue is
// closed and fully drained.
func (q *queue) pop() (entry, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.items) == 0 && len(q.evicted) == 0 && !q.closed {
		q.notEmpty.Wait()
	}

	if len(q.evicted) > 0 {
		t := q.evicted[0]
		q.evicted = q.evicted[1:]
		return entry{task: t, dropped: true}, true
	}
	if len(q.items) > 0 {
		t := q.items[0]
		q.items[0] = model.UploadTask{}
		q.items = q.items[1:]
		q.notFull.Signal()
		return entry{task: t}, true
	}
	return entry{}, false
}

func (q *queue) close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	q.notEmpty.Broadcast()
	q.notFull.Broadcast()
}

func (q *queue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
