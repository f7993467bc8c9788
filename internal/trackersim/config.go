package trackersim

import (
	"time"

	"github.com/okian/venkman/pkg/logger"
)

// Config holds configuration for a simulation run.
type Config struct {
	Addr          string        // Tracker TCP address of the server
	OpsURL        string        // Base URL of the ops API; empty skips the health check
	Configuration string        // Configuration to open; empty picks the first listed
	Version       string        // Protocol version sent with every request
	Sessions      int           // Number of concurrent sessions
	Frames        int           // Frames per session
	FrameInterval time.Duration // Capture-time step between frames
	Pace          bool          // Sleep FrameInterval between frames
	Timeout       time.Duration // Per-exchange deadline
	Seed          int64         // Seed for the synthetic larva path
	Verbose       bool          // Log every exchange
	Logger        logger.Logger // Defaults to the global logger
}

// Stats holds run statistics.
type Stats struct {
	Sessions       int64
	Frames         int64
	Failed         int64
	ModeCounts     map[string]int64
	StimulusFrames int64
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
	MaxLatency     time.Duration
	TotalLatency   time.Duration
}
