package trackersim

import "time"

// Protocol constants.
const (
	StatusOK       = "200"
	defaultVersion = "1"
)

// Default run configuration.
const (
	DefaultFrames        = 600
	DefaultSessions      = 1
	DefaultFrameInterval = 40 * time.Millisecond
	DefaultTimeout       = 5 * time.Second
)

// Larva path constants, in tracker pixels and degrees.
const (
	bodyLength   = 40.0
	crawlSpeed   = 60.0 // pixels per second while running
	pauseEvery   = 75   // frames between pauses
	pauseFrames  = 12
	castEvery    = 110
	castFrames   = 10
	castSweepDeg = 35.0
)
