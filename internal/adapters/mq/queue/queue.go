// Package queue holds the records a session hands to its log writer.
//
// The producer is a session's protocol loop and must never block on file
// I/O, so the queue is unbounded by default and consumed in batches.
package queue

import (
	"context"
	"sync"

	"github.com/okian/venkman/internal/domain/model"
	"github.com/okian/venkman/pkg/metrics"
)

// Default queue configuration constants.
const (
	defaultBufferSize = 64
)

// Record is the payload type flowing through the queue.
type Record = model.Record

// Queue provides non-blocking enqueue and batch dequeue semantics.
type Queue interface {
	// Enqueue adds a record to the queue.
	// Returns false if the queue is closed or full and the record was dropped.
	Enqueue(ctx context.Context, r Record) bool

	// Drain removes and returns every queued record in arrival order.
	Drain(ctx context.Context) []Record

	// Ready is signalled after an enqueue into an empty queue and closed by Close.
	Ready() <-chan struct{}

	// Len returns the current number of queued records.
	Len(ctx context.Context) int

	// Close stops accepting records. Queued records can still be drained.
	Close() error

	// IsClosed returns true if the queue has been closed.
	IsClosed() bool
}

// InMemoryQueue implements Queue over a growable slice.
type InMemoryQueue struct {
	items      []Record
	capacity   int
	bufferSize int
	ready      chan struct{}
	mu         sync.Mutex
	closed     bool
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{
		bufferSize: defaultBufferSize,
		ready:      make(chan struct{}, 1),
	}

	// Apply all options
	for _, opt := range opts {
		opt(q)
	}

	q.items = make([]Record, 0, q.bufferSize)
	return q
}

// Enqueue adds a record to the queue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, r Record) bool { //nolint:gocritic // hugeParam: records are queued by value
	if ctx.Err() != nil {
		metrics.RecordLogEnqueueError()
		metrics.RecordErrorByComponent("queue", "context_cancelled")
		return false
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		metrics.RecordLogEnqueueError()
		metrics.RecordErrorByComponent("queue", "closed")
		return false
	}
	if q.capacity > 0 && len(q.items) >= q.capacity {
		metrics.RecordLogEnqueueError()
		metrics.RecordErrorByComponent("queue", "capacity_exceeded")
		return false
	}

	q.items = append(q.items, r)
	metrics.RecordLogEnqueue()
	metrics.UpdateLogQueueSize(1)

	select {
	case q.ready <- struct{}{}:
	default:
	}
	return true
}

// Drain removes and returns every queued record.
func (q *InMemoryQueue) Drain(_ context.Context) []Record {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = make([]Record, 0, q.bufferSize)
	metrics.UpdateLogQueueSize(-len(out))
	return out
}

// Ready returns the arrival signal channel.
func (q *InMemoryQueue) Ready() <-chan struct{} { return q.ready }

// Len returns the current number of queued records.
func (q *InMemoryQueue) Len(_ context.Context) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Close stops the queue from accepting records.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil // already closed
	}
	q.closed = true
	close(q.ready)
	return nil
}

// IsClosed returns true if the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}
