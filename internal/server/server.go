// Package server accepts tracker connections and runs one session per
// connection.
package server

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/okian/venkman/internal/adapters/mq/worker"
	"github.com/okian/venkman/internal/domain/types"
	"github.com/okian/venkman/internal/session"
	"github.com/okian/venkman/pkg/logger"
	"github.com/okian/venkman/pkg/metrics"
)

// Session id formats.
const (
	IDSequence = "sequence"
	IDUUID     = "uuid"
)

type tracked struct {
	session *session.Session
	conn    net.Conn
}

// Server is the tracker TCP acceptor.
type Server struct {
	addr     string
	store    session.Resolver
	idFormat string
	logDir   string
	logOpts  []worker.Option
	pool     *worker.Pool
	observer session.Observer
	seed     int64
	logger   logger.Logger

	seq      atomic.Int64
	running  atomic.Bool
	mu       sync.Mutex
	listener net.Listener
	sessions map[string]tracked
	wg       sync.WaitGroup
}

// New creates a server for addr resolving configurations from store.
func New(addr string, store session.Resolver, opts ...Option) *Server {
	s := &Server{
		addr:     addr,
		store:    store,
		idFormat: IDSequence,
		logger:   logger.Get().Named("server"),
		sessions: make(map[string]tracked),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.pool == nil {
		s.pool = worker.NewPool()
	}
	return s
}

// Start listens and accepts connections in the background until ctx is
// canceled or Stop is called.
func (s *Server) Start(ctx context.Context) error {
	if s.idFormat != IDSequence && s.idFormat != IDUUID {
		return fmt.Errorf("%w: %s", ErrInvalidIDFormat, s.idFormat)
	}
	if !s.running.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		s.running.Store(false)
		return fmt.Errorf("listen on %s: %w", s.addr, err)
	}
	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	s.logger.Info(ctx, "accepting tracker connections", logger.String("addr", ln.Addr().String()))
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.acceptLoop(ctx, ln)
	}()
	go func() {
		<-ctx.Done()
		_ = ln.Close()
	}()
	return nil
}

// Addr returns the bound address, or nil before Start.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

func (s *Server) acceptLoop(ctx context.Context, ln net.Listener) {
	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) || ctx.Err() != nil {
				return
			}
			metrics.RecordErrorByComponent("server", "accept")
			s.logger.Error(ctx, "accept failed", logger.Error(err))
			time.Sleep(50 * time.Millisecond)
			continue
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.serve(ctx, conn)
		}()
	}
}

func (s *Server) nextID() (string, int64) {
	n := s.seq.Add(1) - 1
	if s.idFormat == IDUUID {
		return uuid.NewString(), n
	}
	return "sid-" + strconv.FormatInt(n, 10), n
}

func (s *Server) serve(ctx context.Context, conn net.Conn) {
	defer conn.Close()
	id, n := s.nextID()

	opts := []session.Option{
		session.WithRemote(conn.RemoteAddr().String()),
		session.WithLogger(s.logger.Named(id)),
	}
	if s.seed != 0 {
		opts = append(opts, session.WithRandom(rand.New(rand.NewSource(s.seed+n))))
	}
	if s.observer != nil {
		opts = append(opts, session.WithObserver(s.observer))
	}
	if s.logDir != "" {
		log, err := worker.NewSessionLog(ctx, s.logDir, id, s.pool, s.logOpts...)
		if err != nil {
			s.logger.Warn(ctx, "session log disabled", logger.String("session", id), logger.Error(err))
		} else {
			opts = append(opts, session.WithRecorder(log))
		}
	}

	sess := session.New(id, conn, s.store, opts...)
	s.mu.Lock()
	s.sessions[id] = tracked{session: sess, conn: conn}
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.sessions, id)
		s.mu.Unlock()
	}()

	if err := sess.Run(ctx); err != nil {
		s.logger.Warn(ctx, "session ended with error", logger.String("session", id), logger.Error(err))
	}
}

// Sessions describes the live sessions ordered by start time.
func (s *Server) Sessions() []types.SessionInfo {
	s.mu.Lock()
	out := make([]types.SessionInfo, 0, len(s.sessions))
	for _, t := range s.sessions {
		out = append(out, t.session.Info())
	}
	s.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.Before(out[j].StartedAt) })
	return out
}

// Accepted returns the number of connections accepted so far.
func (s *Server) Accepted() int64 { return s.seq.Load() }

// Stop closes the listener, ends every session and flushes their logs.
func (s *Server) Stop(ctx context.Context) error {
	if !s.running.CompareAndSwap(true, false) {
		return nil
	}
	s.mu.Lock()
	if s.listener != nil {
		_ = s.listener.Close()
	}
	for _, t := range s.sessions {
		t.session.Stop()
		_ = t.conn.Close()
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		s.logger.Warn(ctx, "sessions did not end in time")
	}
	return s.pool.Shutdown(ctx)
}
