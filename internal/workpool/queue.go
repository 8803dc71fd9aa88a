package workpool

import (
	"context"
	"errors"
	"sync/atomic"
	"time"
)

var (
	// ErrQueueClosed reports that every item has been handed out.
	ErrQueueClosed = errors.New("workpool: queue closed")
	// ErrDequeueTimeout reports that no item arrived within the wait window.
	ErrDequeueTimeout = errors.New("workpool: dequeue timed out")
)

// Queue is a thread-safe FIFO of paths.
type Queue struct {
	items chan string
	total int
	done  atomic.Int64
}

// NewQueue returns a queue preloaded with items and closed for writing.
func NewQueue(items []string) *Queue {
	ch := make(chan string, len(items))
	for _, item := range items {
		ch <- item
	}
	close(ch)
	return &Queue{items: ch, total: len(items)}
}

// Dequeue waits up to timeout for the next item.
func (q *Queue) Dequeue(ctx context.Context, timeout time.Duration) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	// Fast path keeps a drained queue from arming a timer per call.
	select {
	case item, ok := <-q.items:
		if !ok {
			return "", ErrQueueClosed
		}
		return item, nil
	default:
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case item, ok := <-q.items:
		if !ok {
			return "", ErrQueueClosed
		}
		return item, nil
	case <-timer.C:
		return "", ErrDequeueTimeout
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// MarkDone records that one dequeued item finished.
func (q *Queue) MarkDone() {
	q.done.Add(1)
}

// Total is the number of items the queue was loaded with.
func (q *Queue) Total() int {
	return q.total
}

// Done is the number of items marked done.
func (q *Queue) Done() int {
	return int(q.done.Load())
}

// Pending is the number of items not yet dequeued.
func (q *Queue) Pending() int {
	return len(q.items)
}
