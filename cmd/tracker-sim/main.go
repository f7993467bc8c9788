package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/venkman/internal/trackersim"
)

func main() {
	var (
		addr     = flag.String("addr", "localhost:4444", "Tracker TCP address of the server")
		opsURL   = flag.String("ops", "http://localhost:9080", "Ops API base URL; empty skips the health check")
		name     = flag.String("config", "", "Configuration to open (default: first listed)")
		version  = flag.String("version", "1", "Protocol version")
		sessions = flag.Int("sessions", trackersim.DefaultSessions, "Concurrent sessions")
		frames   = flag.Int("frames", trackersim.DefaultFrames, "Frames per session")
		interval = flag.Duration("interval", trackersim.DefaultFrameInterval, "Capture time step between frames")
		pace     = flag.Bool("pace", false, "Sleep the interval between frames")
		timeout  = flag.Duration("timeout", trackersim.DefaultTimeout, "Per-exchange deadline")
		seed     = flag.Int64("seed", 1, "Larva path seed")
		logFile  = flag.String("log", "", "Log file (default: trackersim_TIMESTAMP.log)")
		verbose  = flag.Bool("verbose", false, "Log every frame")
		help     = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		trackersim.ShowHelp()
		return
	}

	log, closer, err := trackersim.SetupLogging(*logFile, *verbose)
	if err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer closer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := &trackersim.Config{
		Addr:          *addr,
		OpsURL:        *opsURL,
		Configuration: *name,
		Version:       *version,
		Sessions:      *sessions,
		Frames:        *frames,
		FrameInterval: *interval,
		Pace:          *pace,
		Timeout:       *timeout,
		Seed:          *seed,
		Verbose:       *verbose,
		Logger:        log,
	}

	if _, err := trackersim.Run(ctx, cfg); err != nil {
		os.Stderr.WriteString("Simulation failed: " + err.Error() + "\n")
		closer.Close()
		os.Exit(1)
	}
}
