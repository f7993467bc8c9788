package queue

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/okian/venkman/internal/domain/model"
)

func record(i int) model.Record {
	return model.NewRecord(model.KindRuleData, fmt.Sprintf("value-%d", i))
}

func TestInMemoryQueue_BasicOperations(t *testing.T) {
	q := NewInMemoryQueue()
	ctx := context.Background()

	// Test empty queue
	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}
	if got := q.Drain(ctx); got != nil {
		t.Errorf("expected nil drain, got %v", got)
	}

	// Test enqueue
	if !q.Enqueue(ctx, record(1)) {
		t.Error("expected enqueue to succeed")
	}
	if !q.Enqueue(ctx, record(2)) {
		t.Error("expected enqueue to succeed")
	}
	if l := q.Len(ctx); l != 2 {
		t.Errorf("expected length 2, got %d", l)
	}

	// Test ready signal
	select {
	case <-q.Ready():
	default:
		t.Error("expected ready signal after enqueue")
	}

	// Test drain keeps order
	got := q.Drain(ctx)
	if len(got) != 2 || got[0].Data != "value-1" || got[1].Data != "value-2" {
		t.Errorf("unexpected drain result %v", got)
	}
	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}
}

func TestInMemoryQueue_Capacity(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2), WithBufferSize(2))
	ctx := context.Background()

	if !q.Enqueue(ctx, record(1)) || !q.Enqueue(ctx, record(2)) {
		t.Error("expected enqueue to succeed")
	}

	// Try to enqueue when full
	if q.Enqueue(ctx, record(3)) {
		t.Error("expected enqueue to fail when full")
	}
	if l := q.Len(ctx); l != 2 {
		t.Errorf("expected length 2, got %d", l)
	}
}

func TestInMemoryQueue_Unbounded(t *testing.T) {
	q := NewInMemoryQueue(WithBufferSize(1))
	ctx := context.Background()

	for i := 0; i < 10000; i++ {
		if !q.Enqueue(ctx, record(i)) {
			t.Fatalf("enqueue %d failed", i)
		}
	}
	if got := len(q.Drain(ctx)); got != 10000 {
		t.Errorf("expected 10000 records, got %d", got)
	}
}

func TestInMemoryQueue_ConcurrentAccess(t *testing.T) {
	q := NewInMemoryQueue()
	ctx := context.Background()
	numGoroutines := 10
	numRecords := 100

	var wg sync.WaitGroup
	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < numRecords; j++ {
				q.Enqueue(ctx, record(id*numRecords+j))
			}
		}(i)
	}

	// Consume while producers run
	done := make(chan int)
	go func() {
		total := 0
		for total < numGoroutines*numRecords {
			<-q.Ready()
			total += len(q.Drain(ctx))
		}
		done <- total
	}()

	wg.Wait()
	select {
	case total := <-done:
		if total != numGoroutines*numRecords {
			t.Errorf("expected %d records, got %d", numGoroutines*numRecords, total)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("consumer did not finish")
	}
}

func TestInMemoryQueue_GracefulShutdown(t *testing.T) {
	q := NewInMemoryQueue()
	ctx := context.Background()

	if !q.Enqueue(ctx, record(1)) {
		t.Error("expected enqueue to succeed")
	}

	// Check initial state
	if q.IsClosed() {
		t.Error("expected queue to be open initially")
	}

	// Close the queue twice
	if err := q.Close(); err != nil {
		t.Errorf("expected close to succeed, got error: %v", err)
	}
	if err := q.Close(); err != nil {
		t.Errorf("expected second close to succeed, got error: %v", err)
	}
	if !q.IsClosed() {
		t.Error("expected queue to be closed after Close()")
	}

	// Try to enqueue after closing (should fail)
	if q.Enqueue(ctx, record(2)) {
		t.Error("expected enqueue to fail after closing")
	}

	// Records queued before closing are still drained
	if got := q.Drain(ctx); len(got) != 1 {
		t.Errorf("expected 1 leftover record, got %d", len(got))
	}

	// Ready is closed
	select {
	case _, ok := <-q.Ready():
		if ok {
			// the buffered signal may come first
			if _, ok = <-q.Ready(); ok {
				t.Error("expected ready channel to be closed")
			}
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("expected ready channel to be closed")
	}
}

func TestInMemoryQueue_CancelledContext(t *testing.T) {
	q := NewInMemoryQueue()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if q.Enqueue(ctx, record(1)) {
		t.Error("expected enqueue to fail with cancelled context")
	}
}
