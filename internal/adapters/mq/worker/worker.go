package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/okian/venkman/internal/adapters/mq/queue"
	"github.com/okian/venkman/pkg/logger"
	"github.com/okian/venkman/pkg/metrics"
)

// Default writer configuration constants.
const (
	DefaultWritePause    = 5 * time.Second
	DefaultItemsToBuffer = 0
	poolShutdownTimeout  = 30 * time.Second
)

// Record abstracts what writers read off the queue.
type Record = queue.Record

// Queue defines how writers receive records.
type Queue interface {
	Drain(ctx context.Context) []Record
	Ready() <-chan struct{}
	Close() error
}

// Sink persists batches of records.
type Sink interface {
	Write(records []Record) error
	Close() error
}

// Worker drains a queue until shut down.
type Worker interface {
	// Run starts the worker loop until ctx is canceled or Shutdown is called.
	Run(ctx context.Context)

	// Shutdown gracefully stops the worker.
	// It writes any remaining records before stopping.
	Shutdown(ctx context.Context) error
}

// LogWriter implements Worker: it periodically moves queued records into a
// buffer and writes the buffer once it holds more than itemsToBuffer.
type LogWriter struct {
	queue Queue
	sink  Sink
	name  string

	writePause    time.Duration
	itemsToBuffer int
	buffer        []Record

	// Shutdown control
	shutdown     chan struct{}
	shutdownOnce sync.Once
	done         chan struct{}

	// Logging
	logger logger.Logger
}

// NewLogWriter creates a writer moving records from q to sink.
func NewLogWriter(q Queue, sink Sink, opts ...Option) *LogWriter {
	w := &LogWriter{
		queue:         q,
		sink:          sink,
		name:          "log-writer", // default name
		writePause:    DefaultWritePause,
		itemsToBuffer: DefaultItemsToBuffer,
		shutdown:      make(chan struct{}),
		done:          make(chan struct{}),
		logger:        logger.Get().Named("worker"), // will be updated by options
	}

	// Apply all options
	for _, opt := range opts {
		opt(w)
	}

	// Set up logger with writer name if not already set
	if w.name != "log-writer" {
		w.logger = w.logger.Named(w.name)
	}

	return w
}

// Run starts the writer loop. It always ends with a final flush and closes
// the sink.
func (w *LogWriter) Run(ctx context.Context) {
	defer close(w.done)
	defer w.finish(ctx)

	var tick <-chan time.Time
	ready := w.queue.Ready()
	if w.writePause > 0 {
		ticker := time.NewTicker(w.writePause)
		defer ticker.Stop()
		tick = ticker.C
		ready = nil
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case <-tick:
			w.collect(ctx, false)
		case _, ok := <-ready:
			if !ok {
				return
			}
			w.collect(ctx, false)
		}
	}
}

// Shutdown signals the writer and waits for its final flush.
func (w *LogWriter) Shutdown(ctx context.Context) error {
	w.shutdownOnce.Do(func() { close(w.shutdown) })

	// Wait for writer to finish or context to timeout
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// Done is closed once the writer has flushed and closed its sink.
func (w *LogWriter) Done() <-chan struct{} { return w.done }

func (w *LogWriter) collect(ctx context.Context, force bool) {
	w.buffer = append(w.buffer, w.queue.Drain(ctx)...)
	if len(w.buffer) == 0 {
		return
	}
	if !force && len(w.buffer) <= w.itemsToBuffer {
		return
	}
	w.write(ctx)
}

func (w *LogWriter) write(ctx context.Context) {
	start := time.Now()
	n := len(w.buffer)
	if err := w.sink.Write(w.buffer); err != nil {
		metrics.RecordLogWriteError()
		metrics.RecordErrorByComponent("worker", "write_error")
		w.logger.Error(ctx, "failed to write session log", logger.Int("records", n), logger.Error(err))
	} else {
		metrics.RecordLogBatch(n, float64(time.Since(start).Microseconds())/1000)
	}
	w.buffer = w.buffer[:0]
}

func (w *LogWriter) finish(ctx context.Context) {
	w.collect(ctx, true)
	if err := w.sink.Close(); err != nil {
		metrics.RecordLogWriteError()
		w.logger.Error(ctx, "failed to close session log", logger.Error(err))
	}
}

// Pool tracks the running log writers so they can all be flushed on exit.
type Pool struct {
	mu      sync.Mutex
	writers map[*LogWriter]struct{}
	wg      sync.WaitGroup

	// Logging
	logger logger.Logger
}

// NewPool creates an empty writer pool.
func NewPool() *Pool {
	return &Pool{
		writers: make(map[*LogWriter]struct{}),
		logger:  logger.Get().Named("worker-pool"),
	}
}

// Go runs w until it stops and tracks it meanwhile.
func (p *Pool) Go(ctx context.Context, w *LogWriter) {
	p.mu.Lock()
	p.writers[w] = struct{}{}
	metrics.UpdateLogWritersActive(len(p.writers))
	p.mu.Unlock()

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		w.Run(ctx)

		p.mu.Lock()
		delete(p.writers, w)
		metrics.UpdateLogWritersActive(len(p.writers))
		p.mu.Unlock()
	}()
}

// Len returns the number of running writers.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.writers)
}

// Shutdown stops every writer, waiting for their final flushes.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	writers := make([]*LogWriter, 0, len(p.writers))
	for w := range p.writers {
		writers = append(writers, w)
	}
	p.mu.Unlock()

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for _, w := range writers {
		if err := w.Shutdown(shutdownCtx); err != nil {
			p.logger.Warn(ctx, "log writer shutdown timed out", logger.String("writer", w.name))
		}
	}

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-shutdownCtx.Done():
		return fmt.Errorf("pool shutdown: %w", shutdownCtx.Err())
	}
}
