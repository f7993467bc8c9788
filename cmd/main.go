package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/venkman/internal/adapters/http/api"
	"github.com/okian/venkman/internal/adapters/http/site"
	"github.com/okian/venkman/internal/adapters/http/swagger"
	app "github.com/okian/venkman/internal/app"
	"github.com/okian/venkman/internal/config"
	"github.com/okian/venkman/pkg/logger"
	"github.com/okian/venkman/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	// Console logging starts in text; the configured format applies once the
	// config is loaded.
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := run(ctx, cfg); err != nil {
		os.Stderr.WriteString("venkman failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	if err := logger.InitWithFormat(cfg.LogFormat); err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()
	loggerInstance := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	svc := newService(cfg, loggerInstance)
	if err := svc.Start(ctx); err != nil {
		return err
	}
	defer svc.StopWithTimeout(cfg.ShutdownTimeout())

	go startSystemMetricsUpdater(ctx)

	var srv *http.Server
	if cfg.OpsAddr != "" {
		srv = newOpsServer(ctx, cfg, svc)
		go func() {
			loggerInstance.Info(ctx, "starting ops HTTP server", logger.String("addr", cfg.OpsAddr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				loggerInstance.Error(ctx, "ops HTTP server failed", logger.Error(err))
			}
		}()
	}

	<-ctx.Done()
	loggerInstance.Info(ctx, "shutting down server...")

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			loggerInstance.Error(ctx, "ops server shutdown failed", logger.Error(err))
		}
	}

	loggerInstance.Info(ctx, "server stopped")
	return nil
}

func newService(cfg *config.Config, l logger.Logger) *app.Service {
	return app.New(
		app.WithLogger(l),
		app.WithAddr(cfg.Addr),
		app.WithWorkDir(cfg.WorkDir),
		app.WithLogDir(cfg.LogDir),
		app.WithLogWritePause(cfg.LogWritePause()),
		app.WithItemsToBuffer(cfg.LogItemsToBuffer),
		app.WithSessionIDFormat(cfg.SessionIDFormat),
		app.WithRandomSeed(cfg.RandomSeed),
		app.WithMonitor(cfg.MonitorEnabled),
	)
}

// newOpsServer mounts the API, docs and monitor page. Writes have no
// timeout so monitor websockets stay open.
func newOpsServer(ctx context.Context, cfg *config.Config, svc *app.Service) *http.Server {
	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	api.NewServer(svc, svc, svc, svc.Monitor()).Register(ctx, mux)
	if cfg.MonitorEnabled {
		site.Register(ctx, mux)
	}
	return &http.Server{
		Addr:              cfg.OpsAddr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}
}

// startSystemMetricsUpdater updates system metrics until ctx ends.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(metrics.RefreshInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}
