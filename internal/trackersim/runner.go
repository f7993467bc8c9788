package trackersim

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/venkman/internal/protocol"
	"github.com/okian/venkman/pkg/logger"
)

// Run drives cfg.Sessions concurrent sessions against the server and
// verifies every reply.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	log := cfg.Logger
	if log == nil {
		log = logger.Get().Named("trackersim")
	}
	stats := &Stats{StartTime: time.Now(), ModeCounts: make(map[string]int64)}
	var mu sync.Mutex

	log.Info(ctx, "starting tracker simulation",
		logger.String("addr", cfg.Addr),
		logger.String("configuration", cfg.Configuration),
		logger.Int("sessions", cfg.Sessions),
		logger.Int("frames", cfg.Frames),
		logger.Duration("frameInterval", cfg.FrameInterval),
	)

	if cfg.OpsURL != "" {
		if err := checkHealth(ctx, cfg.OpsURL, cfg.Timeout); err != nil {
			return nil, fmt.Errorf("service health check failed: %w", err)
		}
		log.Info(ctx, "service is healthy")
	}

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < cfg.Sessions; i++ {
		n := i
		g.Go(func() error {
			local, err := runSession(gctx, cfg, n, log)
			mu.Lock()
			defer mu.Unlock()
			stats.merge(local)
			if err != nil {
				stats.Failed++
				return fmt.Errorf("session %d: %w", n, err)
			}
			stats.Sessions++
			return nil
		})
	}
	err := g.Wait()

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, log, stats)
	return stats, err
}

func runSession(ctx context.Context, cfg *Config, n int, log logger.Logger) (*Stats, error) {
	local := &Stats{ModeCounts: make(map[string]int64)}
	version := cfg.Version
	if version == "" {
		version = defaultVersion
	}

	client, err := Dial(ctx, cfg.Addr, version, cfg.Timeout)
	if err != nil {
		return local, err
	}
	defer client.Close()

	name, err := pickConfiguration(client, cfg.Configuration)
	if err != nil {
		return local, err
	}

	reply, err := client.Request(protocol.OpenSessionRequest, "trackersim", name)
	if err != nil {
		return local, err
	}
	if err := reply.Expect(protocol.OpenSessionResponse); err != nil {
		return local, err
	}
	sid := reply.Fields[0]
	log.Info(ctx, "session opened", logger.String("session", sid), logger.String("configuration", name))

	if reply, err = client.Request(protocol.GetSessionParametersRequest, sid); err != nil {
		return local, err
	}
	if _, err := VerifySkeletonParameters(reply); err != nil {
		return local, err
	}

	larva := NewLarva(cfg.Seed+int64(n), 320, 240, cfg.FrameInterval.Milliseconds())
	for i := 0; i < cfg.Frames; i++ {
		if err := ctx.Err(); err != nil {
			return local, err
		}
		s := larva.Next()
		start := time.Now()
		reply, err := client.Request(protocol.LarvaSkeletonRequest, append([]string{sid}, s.Fields()...)...)
		if err != nil {
			return local, err
		}
		latency := time.Since(start)
		result, err := VerifySkeletonReply(reply, version, s.CaptureTime)
		if err != nil {
			return local, fmt.Errorf("frame %d: %w", i, err)
		}
		local.record(result, latency)
		if cfg.Verbose {
			log.Debug(ctx, "frame", logger.String("session", sid), logger.Int64("captureTime", s.CaptureTime),
				logger.String("mode", result.Mode.String()), logger.Int("leds", result.LEDs))
		}
		if cfg.Pace {
			time.Sleep(cfg.FrameInterval)
		}
	}

	if reply, err = client.Request(protocol.CloseSessionRequest, sid); err != nil {
		return local, err
	}
	if err := reply.Expect(protocol.StatusResponse); err != nil {
		return local, err
	}
	if want := "closed session " + sid; strings.Join(reply.Fields, ",") != want {
		return local, fmt.Errorf("%w: close replied %q", ErrVerification, reply.Line)
	}
	log.Info(ctx, "session closed", logger.String("session", sid), logger.Int64("frames", local.Frames))
	return local, nil
}

// VerifySkeletonParameters is VerifyParametersReply for a session that
// must carry behavior parameters.
func VerifySkeletonParameters(r *Reply) (string, error) {
	text, err := VerifyParametersReply(r)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: session parameters are empty", ErrVerification)
	}
	return text, nil
}

func pickConfiguration(client *Client, want string) (string, error) {
	reply, err := client.Request(protocol.ListConfigurationsRequest)
	if err != nil {
		return "", err
	}
	if err := reply.Expect(protocol.ListConfigurationsResponse); err != nil {
		return "", err
	}
	if want == "" {
		if len(reply.Fields) == 0 {
			return "", ErrNoConfiguration
		}
		return reply.Fields[0], nil
	}
	for _, name := range reply.Fields {
		if name == want {
			return name, nil
		}
	}
	return "", fmt.Errorf("%w: %s is not listed", ErrNoConfiguration, want)
}

func (s *Stats) record(r FrameResult, latency time.Duration) {
	s.Frames++
	s.ModeCounts[r.Mode.String()]++
	if r.LEDs > 0 {
		s.StimulusFrames++
	}
	s.TotalLatency += latency
	if latency > s.MaxLatency {
		s.MaxLatency = latency
	}
}

func (s *Stats) merge(o *Stats) {
	s.Frames += o.Frames
	s.StimulusFrames += o.StimulusFrames
	s.TotalLatency += o.TotalLatency
	if o.MaxLatency > s.MaxLatency {
		s.MaxLatency = o.MaxLatency
	}
	for k, v := range o.ModeCounts {
		s.ModeCounts[k] += v
	}
}

// AverageLatency is the mean round trip per frame.
func (s *Stats) AverageLatency() time.Duration {
	if s.Frames == 0 {
		return 0
	}
	return s.TotalLatency / time.Duration(s.Frames)
}

// displayFinalStats logs the run statistics.
func displayFinalStats(ctx context.Context, log logger.Logger, stats *Stats) {
	var framesPerSecond float64
	if stats.Duration > 0 {
		framesPerSecond = float64(stats.Frames) / stats.Duration.Seconds()
	}
	log.Info(ctx, "final statistics",
		logger.Int64("sessions", stats.Sessions),
		logger.Int64("failed", stats.Failed),
		logger.Int64("frames", stats.Frames),
		logger.Int64("stimulusFrames", stats.StimulusFrames),
		logger.Any("modes", stats.ModeCounts),
		logger.Duration("averageLatency", stats.AverageLatency()),
		logger.Duration("maxLatency", stats.MaxLatency),
		logger.Duration("duration", stats.Duration),
		logger.Float64("framesPerSecond", framesPerSecond))
}
