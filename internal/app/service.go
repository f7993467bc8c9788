// Package service assembles the rules server: the configuration store, the
// tracker acceptor, session logging and the live monitor.
package service

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/okian/venkman/internal/adapters/http/monitor"
	"github.com/okian/venkman/internal/adapters/mq/worker"
	"github.com/okian/venkman/internal/adapters/repository"
	"github.com/okian/venkman/internal/domain/types"
	"github.com/okian/venkman/internal/server"
	"github.com/okian/venkman/pkg/logger"
)

const defaultStopTimeout = 10 * time.Second

// Service owns the components of a running rules server.
type Service struct {
	mu sync.RWMutex

	// Core components
	store  repository.Store
	server *server.Server
	pool   *worker.Pool
	hub    *monitor.Hub

	// Configuration
	addr           string
	workDir        string
	logDir         string
	writePause     time.Duration
	itemsToBuffer  int
	idFormat       string
	seed           int64
	monitorEnabled bool

	// State
	started   bool
	startedAt time.Time

	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		addr:       ":4444",
		writePause: worker.DefaultWritePause,
		idFormat:   server.IDSequence,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start opens the store and begins accepting tracker connections.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting rules service...")

	if s.store == nil {
		if s.workDir == "" {
			return fmt.Errorf("%w: no configuration store or work directory", ErrStart)
		}
		s.store = repository.NewFileStore(s.workDir, repository.WithLogger(s.logger.Named("store")))
		s.logger.Info(ctx, "using file store", logger.String("root", s.workDir))
	}

	s.pool = worker.NewPool()
	opts := []server.Option{
		server.WithLogger(s.logger.Named("server")),
		server.WithIDFormat(s.idFormat),
		server.WithRandomSeed(s.seed),
		server.WithPool(s.pool),
		server.WithLogDir(s.logDir),
		server.WithLogWriterOptions(
			worker.WithLogger(s.logger.Named("sessionlog")),
			worker.WithWritePause(s.writePause),
			worker.WithItemsToBuffer(s.itemsToBuffer),
		),
	}
	if s.monitorEnabled {
		s.hub = monitor.NewHub(monitor.WithLogger(s.logger.Named("monitor")))
		opts = append(opts, server.WithObserver(s.hub))
	}

	s.server = server.New(s.addr, s.store, opts...)
	if err := s.server.Start(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrStart, err)
	}

	s.started = true
	s.startedAt = time.Now()
	s.logger.Info(ctx, "rules service started",
		logger.String("addr", s.server.Addr().String()),
		logger.String("logDir", s.logDir),
		logger.Duration("logWritePause", s.writePause),
		logger.Bool("monitor", s.monitorEnabled),
	)
	return nil
}

// Stop ends every session, flushes their logs and disconnects monitors.
func (s *Service) Stop() {
	s.StopWithTimeout(defaultStopTimeout)
}

// StopWithTimeout is Stop bounded by timeout.
func (s *Service) StopWithTimeout(timeout time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.logger.Info(ctx, "stopping rules service...")
	if err := s.server.Stop(ctx); err != nil {
		s.logger.Error(ctx, "session logs did not flush", logger.Error(err))
	}
	if s.hub != nil {
		s.hub.Close()
	}
	s.started = false
	s.logger.Info(ctx, "rules service stopped")
}

// Addr returns the tracker listen address, or nil when stopped.
func (s *Service) Addr() net.Addr {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.server == nil {
		return nil
	}
	return s.server.Addr()
}

// Store returns the configuration store.
func (s *Service) Store() repository.Store {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store
}

// ConfigurationNames lists configurations supporting version.
func (s *Service) ConfigurationNames(ctx context.Context, version string) ([]string, error) {
	store := s.Store()
	if store == nil {
		return nil, ErrNotStarted
	}
	return store.ConfigurationNames(ctx, version)
}

// Sessions describes the live sessions.
func (s *Service) Sessions() []types.SessionInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.server == nil {
		return []types.SessionInfo{}
	}
	return s.server.Sessions()
}

// Monitor returns the websocket feed handler, or nil when disabled.
func (s *Service) Monitor() http.Handler {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.hub == nil {
		return nil
	}
	return s.hub
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":         s.started,
		"sessionIdFormat": s.idFormat,
		"logDir":          s.logDir,
		"monitorEnabled":  s.monitorEnabled,
	}
	if s.started {
		stats["addr"] = s.server.Addr().String()
		stats["uptimeSeconds"] = time.Since(s.startedAt).Seconds()
		stats["sessionsActive"] = len(s.server.Sessions())
		stats["sessionsAccepted"] = s.server.Accepted()
		stats["logWriters"] = s.pool.Len()
		if s.hub != nil {
			stats["monitorClients"] = s.hub.Len()
		}
	}
	return stats
}
