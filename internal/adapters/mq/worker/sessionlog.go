package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/okian/venkman/internal/adapters/mq/queue"
	"github.com/okian/venkman/internal/domain/model"
	"github.com/okian/venkman/pkg/logger"
)

const logFilePrefix = "venkman-log-"

// FileName names the log of sessionID started at start, e.g.
// venkman-log-20240301-120000123-sid-0.yaml.
func FileName(sessionID string, start time.Time) string {
	stamp := start.Format("20060102-150405") + fmt.Sprintf("%03d", start.Nanosecond()/int(time.Millisecond))
	return logFilePrefix + stamp + "-" + sessionID + ".yaml"
}

// FileSink writes records as a YAML document stream.
type FileSink struct {
	path string
	file *os.File
	buf  *bufio.Writer
	enc  *yaml.Encoder
}

// CreateFileSink creates the file at path, creating parent directories.
func CreateFileSink(path string) (*FileSink, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create session log: %w", err)
	}
	buf := bufio.NewWriter(f)
	enc := yaml.NewEncoder(buf)
	enc.SetIndent(2)
	return &FileSink{path: path, file: f, buf: buf, enc: enc}, nil
}

// Path returns the file path.
func (s *FileSink) Path() string { return s.path }

// Write implements Sink. Every record becomes one YAML document.
func (s *FileSink) Write(records []Record) error {
	for i := range records {
		if err := s.enc.Encode(&records[i]); err != nil {
			return fmt.Errorf("encode %s record: %w", records[i].Kind, err)
		}
	}
	return s.buf.Flush()
}

// Close implements Sink.
func (s *FileSink) Close() error {
	if err := s.enc.Close(); err != nil {
		s.file.Close()
		return err
	}
	if err := s.buf.Flush(); err != nil {
		s.file.Close()
		return err
	}
	return s.file.Close()
}

// SessionLog is a session's log: records are queued without blocking and
// written by a background LogWriter.
type SessionLog struct {
	sessionID string
	path      string
	queue     *queue.InMemoryQueue
	writer    *LogWriter
	logger    logger.Logger
}

// NewSessionLog creates the log file for sessionID in dir and starts its
// writer on pool. An empty sessionID gets a random one. The writer outlives
// ctx: only Stop or the pool's Shutdown end it, so records made while the
// process is shutting down still reach the file.
func NewSessionLog(ctx context.Context, dir, sessionID string, pool *Pool, opts ...Option) (*SessionLog, error) {
	if dir == "" {
		return nil, ErrLogDirUnset
	}
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	start := time.Now()
	sink, err := CreateFileSink(filepath.Join(dir, FileName(sessionID, start)))
	if err != nil {
		return nil, err
	}

	q := queue.NewInMemoryQueue()
	opts = append([]Option{WithName("log-" + sessionID)}, opts...)
	l := &SessionLog{
		sessionID: sessionID,
		path:      sink.Path(),
		queue:     q,
		writer:    NewLogWriter(q, sink, opts...),
	}
	l.logger = l.writer.logger

	runCtx := context.WithoutCancel(ctx)
	if pool != nil {
		pool.Go(runCtx, l.writer)
	} else {
		go l.writer.Run(runCtx)
	}

	l.Record(ctx, model.Record{
		Kind: model.KindSessionStart,
		Time: start,
		Data: model.SessionMark{SessionID: sessionID},
	})
	return l, nil
}

// Path returns the log file path.
func (l *SessionLog) Path() string { return l.path }

// Record queues r, even once ctx is canceled. Records after Stop are dropped.
func (l *SessionLog) Record(ctx context.Context, r model.Record) {
	if !l.queue.Enqueue(context.WithoutCancel(ctx), r) {
		l.logger.Debug(ctx, "dropped log record", logger.String("kind", string(r.Kind)))
	}
}

// Stop writes the end record, flushes everything and closes the file. A
// canceled ctx still gets the flush, bounded by the pool shutdown timeout.
func (l *SessionLog) Stop(ctx context.Context) error {
	if l.queue.IsClosed() {
		return ErrStopped
	}
	if ctx.Err() != nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.WithoutCancel(ctx), poolShutdownTimeout)
		defer cancel()
	}
	l.Record(ctx, model.NewRecord(model.KindSessionEnd, model.SessionMark{SessionID: l.sessionID}))
	if err := l.queue.Close(); err != nil {
		return err
	}
	return l.writer.Shutdown(ctx)
}
