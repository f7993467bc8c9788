// Package session runs one tracker connection.
//
// A Session reads request lines, answers each one before reading the next
// and owns all per-session state: the resolved behavior parameters, the
// stimulus rule built for this session and the bounded frame history.
package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/venkman/internal/domain/frame"
	"github.com/okian/venkman/internal/domain/rules"
	"github.com/okian/venkman/internal/domain/types"
	"github.com/okian/venkman/internal/protocol"
	"github.com/okian/venkman/pkg/logger"
	"github.com/okian/venkman/pkg/metrics"
)

const (
	maxLineLength = 1 << 20
	stopTimeout   = 10 * time.Second
)

// Session is one tracker connection.
type Session struct {
	id     string
	remote string
	conn   io.ReadWriter
	store  Resolver

	recorder Recorder
	observer Observer
	rng      *rand.Rand
	now      func() time.Time
	logger   logger.Logger

	// Owned by the request loop.
	opened  bool
	params  frame.Parameters
	doc     *rules.Document
	rule    rules.Rule
	history *frame.History

	running    atomic.Bool
	started    time.Time
	frames     atomic.Int64
	totalNanos atomic.Int64

	infoMu        sync.Mutex
	configuration string
	ruleCode      string
}

// New creates a session answering requests read from conn.
func New(id string, conn io.ReadWriter, store Resolver, opts ...Option) *Session {
	s := &Session{
		id:       id,
		conn:     conn,
		store:    store,
		recorder: nopRecorder{},
		observer: nopObserver{},
		now:      time.Now,
		logger:   logger.Get().Named("session"),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(s.now().UnixNano()))
	}
	s.started = s.now()
	s.running.Store(true)
	return s
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Stop asks the loop to end after the current request.
func (s *Session) Stop() { s.running.Store(false) }

// Run serves requests until close-session, end of input, ctx cancellation
// or a stream failure. Only stream failures are returned.
func (s *Session) Run(ctx context.Context) error {
	s.logger.Info(ctx, "session started", logger.String("session", s.id), logger.String("remote", s.remote))
	metrics.RecordSessionOpened()
	defer s.finish(ctx)

	scanner := bufio.NewScanner(s.conn)
	scanner.Buffer(make([]byte, 0, 4096), maxLineLength)

	for s.running.Load() {
		if ctx.Err() != nil {
			return nil
		}
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return s.fail(ctx, err)
			}
			s.logger.Info(ctx, "tracker disconnected", logger.String("session", s.id))
			return nil
		}

		start := s.now()
		resp, skeleton := s.Handle(ctx, scanner.Text())
		if _, err := io.WriteString(s.conn, resp.String()+"\n"); err != nil {
			return s.fail(ctx, err)
		}
		if skeleton {
			elapsed := s.now().Sub(start)
			s.frames.Add(1)
			s.totalNanos.Add(elapsed.Nanoseconds())
			metrics.RecordFrameLatency(float64(elapsed.Microseconds()) / 1000)
		}
	}
	return nil
}

// fail reports a broken stream to the tracker if it still can.
func (s *Session) fail(ctx context.Context, err error) error {
	s.logger.Error(ctx, "tracker stream failed", logger.String("session", s.id), logger.Error(err))
	metrics.RecordErrorByComponent("session", "stream")
	closing := fmt.Errorf("closed session %s: %v", s.id, err)
	_, _ = io.WriteString(s.conn, protocol.ErrorResponse(closing).String()+"\n")
	return fmt.Errorf("%w: session %s: %v", ErrStream, s.id, err)
}

func (s *Session) finish(ctx context.Context) {
	if total := s.totalNanos.Load(); total > 0 {
		n := s.frames.Load()
		avg := float64(total) / float64(n) / float64(time.Millisecond)
		s.logger.Info(ctx, fmt.Sprintf("processed %d larva skeleton requests in %d ms, average response time: %s ms/request",
			n, total/int64(time.Millisecond), protocol.RoundHalfUp(avg, 3)),
			logger.String("session", s.id))
	}

	stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), stopTimeout)
	defer cancel()
	if err := s.recorder.Stop(stopCtx); err != nil {
		s.logger.Warn(ctx, "failed to stop session log", logger.String("session", s.id), logger.Error(err))
	}

	metrics.RecordSessionClosed(s.now().Sub(s.started))
	s.logger.Info(ctx, "session ended", logger.String("session", s.id))
}

// Stats is the request timing of a session.
type Stats struct {
	Frames int64
	Total  time.Duration
}

// Average is the mean skeleton response time.
func (st Stats) Average() time.Duration {
	if st.Frames == 0 {
		return 0
	}
	return st.Total / time.Duration(st.Frames)
}

// Stats returns the skeleton request timing so far.
func (s *Session) Stats() Stats {
	return Stats{Frames: s.frames.Load(), Total: time.Duration(s.totalNanos.Load())}
}

// Info describes the session for the ops API. Safe to call concurrently
// with Run.
func (s *Session) Info() types.SessionInfo {
	s.infoMu.Lock()
	defer s.infoMu.Unlock()
	return types.SessionInfo{
		ID:            s.id,
		Remote:        s.remote,
		Configuration: s.configuration,
		Rule:          s.ruleCode,
		Frames:        s.frames.Load(),
		StartedAt:     s.started,
	}
}

func isServerError(err error) bool {
	return protocol.StatusOf(err) == protocol.StatusServerError && !errors.Is(err, context.Canceled)
}
