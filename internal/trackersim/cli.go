package trackersim

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/okian/venkman/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging returns a logger writing to both console and logFile. If
// logFile is empty, a timestamped filename is generated. The caller closes
// the returned file.
func SetupLogging(logFile string, verbose bool) (logger.Logger, io.Closer, error) {
	if logFile == "" {
		logFile = "trackersim_" + time.Now().Format("20060102_150405") + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create log file: %w", err)
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	l, err := logger.NewWithWriter(io.MultiWriter(os.Stdout, file), logger.FormatText, level)
	if err != nil {
		_ = file.Close()
		return nil, nil, err
	}
	return l.Named("trackersim"), file, nil
}

// ShowHelp prints usage information for the tracker simulator.
func ShowHelp() {
	os.Stdout.WriteString(`Venkman Tracker Simulator
=========================

Replays a synthetic crawling larva against a running rules server and
verifies every reply.

Usage:
  go run ./cmd/tracker-sim [options]

Options:
  -addr string
        Tracker TCP address of the server (default "localhost:4444")
  -ops string
        Ops API base URL checked before the run; empty skips it (default "http://localhost:9080")
  -config string
        Configuration to open (default: first listed)
  -version string
        Protocol version (default "1")
  -sessions int
        Concurrent sessions (default 1)
  -frames int
        Frames per session (default 600)
  -interval duration
        Capture time step between frames (default 40ms)
  -pace
        Sleep the interval between frames
  -timeout duration
        Per-exchange deadline (default 5s)
  -seed int
        Larva path seed (default 1)
  -log string
        Log file (default: trackersim_TIMESTAMP.log)
  -verbose
        Log every frame
  -help
        Show this help message

Examples:
  # One session against a local server
  go run ./cmd/tracker-sim

  # Four real-time sessions on a named configuration
  go run ./cmd/tracker-sim -sessions 4 -pace -config rig/gradient
`)
}
