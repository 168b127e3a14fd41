// Package queue carries fetch requests from request handlers to the
// fetch workers.
package queue

import (
	"context"
	"sync"

	"github.com/okian/leagueboard/internal/domain/model"
	"github.com/okian/leagueboard/pkg/metrics"
)

const defaultCapacity = 64

// Request is the payload flowing through the queue.
type Request = model.FetchRequest

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a request. It returns false instead of blocking when the
	// queue is full or closed.
	Enqueue(ctx context.Context, r Request) bool

	// Dequeue returns a channel that yields requests until the queue is
	// closed or ctx is done. A request taken but not yet handed over when
	// ctx ends goes back to the queue.
	Dequeue(ctx context.Context) <-chan Request

	// Len returns the number of pending requests.
	Len(ctx context.Context) int

	// Close stops intake and closes every dequeue channel once drained.
	Close() error

	IsClosed() bool
}

// InMemoryQueue implements Queue with a buffered channel.
type InMemoryQueue struct {
	requests chan Request
	capacity int

	mu     sync.RWMutex
	closed bool
}

// NewInMemoryQueue creates a bounded queue.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{capacity: defaultCapacity}
	for _, opt := range opts {
		opt(q)
	}
	q.requests = make(chan Request, q.capacity)

	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0)
	return q
}

// Enqueue implements Queue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, r Request) bool {
	// the read lock keeps Close from closing the channel mid-send
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordQueueEnqueueError(RejectClosed)
		return false
	}
	if ctx.Err() != nil {
		metrics.RecordQueueEnqueueError(RejectCancelled)
		return false
	}

	select {
	case q.requests <- r:
		metrics.RecordQueueEnqueue()
		metrics.UpdateQueueSize(len(q.requests))
		return true
	default:
		metrics.RecordQueueEnqueueError(RejectFull)
		return false
	}
}

// Dequeue implements Queue.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Request {
	out := make(chan Request)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case r, ok := <-q.requests:
				if !ok {
					return
				}
				metrics.UpdateQueueSize(len(q.requests))
				select {
				case out <- r:
					metrics.RecordQueueDequeue()
				case <-ctx.Done():
					q.requeue(r)
					return
				}
			}
		}
	}()
	return out
}

// requeue returns a request nobody received. It is dropped only when the
// queue has closed or filled up in the meantime.
func (q *InMemoryQueue) requeue(r Request) {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordQueueEnqueueError(RejectClosed)
		return
	}
	select {
	case q.requests <- r:
		metrics.UpdateQueueSize(len(q.requests))
	default:
		metrics.RecordQueueEnqueueError(RejectFull)
	}
}

// Len implements Queue.
func (q *InMemoryQueue) Len(_ context.Context) int {
	n := len(q.requests)
	metrics.UpdateQueueSize(n)
	return n
}

// Capacity returns the configured bound.
func (q *InMemoryQueue) Capacity() int { return q.capacity }

// Close implements Queue. Closing twice is a no-op.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.requests)
	q.closed = true
	return nil
}

// IsClosed implements Queue.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
