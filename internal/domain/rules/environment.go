package rules

import (
	"math/rand"
	"strconv"

	"github.com/okian/venkman/internal/domain/frame"
	"github.com/okian/venkman/internal/domain/function"
	"github.com/okian/venkman/internal/domain/geometry"
	"github.com/okian/venkman/internal/domain/stimulus"
)

// DefaultOrientationDerivationDuration is how long, in milliseconds, a
// session runs before the orientation basis is derived.
const DefaultOrientationDerivationDuration int64 = 15000

// EnvironmentConfig configures the defined-environment rules: a positional
// intensity landscape, optionally re-oriented around the larva's pose once
// the orientation derivation duration has elapsed.
type EnvironmentConfig struct {
	FlashPattern                     stimulus.FlashPattern        `yaml:"flash_pattern"`
	IntensityFunction                *function.Positional         `yaml:"intensity_function"`
	IntensityNoise                   *stimulus.Noise              `yaml:"intensity_noise,omitempty"`
	EnableOrientation                bool                         `yaml:"enable_orientation"`
	OrientationDerivationDuration    int64                        `yaml:"orientation_derivation_duration"`
	CentroidDistanceFromArenaCenter  float64                      `yaml:"centroid_distance_from_arena_center"`
	CenteredOrientationOffsetDegrees float64                      `yaml:"centered_orientation_offset_degrees"`
	IntensityFilters                 function.BehaviorLimitedList `yaml:"intensity_filters,omitempty"`
	SignalToNoiseRatio               float64                      `yaml:"signal_to_noise_ratio"`
}

// DefaultEnvironmentConfig is a zero landscape over the default arena.
func DefaultEnvironmentConfig() EnvironmentConfig {
	return EnvironmentConfig{
		FlashPattern:                  stimulus.DefaultFlashPattern(),
		IntensityFunction:             function.DefaultPositional(),
		OrientationDerivationDuration: DefaultOrientationDerivationDuration,
	}
}

// environment implements codes 1.1 and 1.6.
type environment struct {
	flashRule
	cfg         *EnvironmentConfig
	code        string
	description string

	intensityNoise *stimulus.Noise
	whiteNoise     *stimulus.Noise

	arenaCenter    geometry.Point
	oriented       bool
	rotationAngle  float64
	rotationCenter geometry.Point
	xOffset        float64
	yOffset        float64

	// defaultStimulus is returned while the orientation is still unknown.
	defaultStimulus func() []stimulus.LED
}

func newEnvironment(cfg *EnvironmentConfig, code, description string, rng *rand.Rand) *environment {
	return &environment{
		flashRule:       flashRule{pattern: cfg.FlashPattern},
		cfg:             cfg,
		code:            code,
		description:     description,
		intensityNoise:  cfg.IntensityNoise.WithSource(rng),
		whiteNoise:      stimulus.StandardNoise(rng),
		defaultStimulus: stimulus.ZeroForOneSecond,
	}
}

func (r *environment) Code() string        { return r.code }
func (r *environment) Description() string { return r.description }

func (r *environment) Init(sink LogSink) {
	r.flashRule.Init(sink)
	fn := r.cfg.IntensityFunction
	r.arenaCenter = geometry.Pt(fn.MaxX()/2, fn.MaxY()/2)
	r.oriented = false
}

func (r *environment) DetermineStimulus(h *frame.History, _ frame.Parameters) ([]stimulus.LED, error) {
	list, err := r.positionStimulus(h.Latest())
	if err != nil {
		return nil, err
	}
	return filtersAndNoise(h.Latest(), list, r.cfg.IntensityFilters, 0, r.whiteNoise, r.cfg.SignalToNoiseRatio)
}

// Arena samples the intensity landscape.
func (r *environment) Arena(width, height int) ([][]float64, error) {
	return r.cfg.IntensityFunction.Arena(width, height)
}

// isOriented reports whether positions are being sampled, either because
// orientation is disabled or because the basis has been derived.
func (r *environment) isOriented() bool {
	return !r.cfg.EnableOrientation || r.oriented
}

func (r *environment) positionStimulus(f *frame.Frame) ([]stimulus.LED, error) {
	fn := r.cfg.IntensityFunction
	var (
		value float64
		err   error
	)
	if r.cfg.EnableOrientation {
		if f.Time() < r.cfg.OrientationDerivationDuration {
			return r.defaultStimulus(), nil
		}
		if !r.oriented {
			r.orient(f)
		}
		p := geometry.Rotate(fn.Variable().Point(f), r.rotationAngle, r.rotationCenter)
		value, err = fn.ValueAt(p.Add(r.xOffset, r.yOffset))
	} else {
		value, err = fn.Value(f)
	}
	if err != nil {
		return nil, err
	}
	if r.intensityNoise != nil {
		value += r.intensityNoise.Value()
	}
	return r.stimulusList(value), nil
}

// orient derives the rotation and translation that put the larva's centroid
// on the configured circle around the arena center, facing the center.
func (r *environment) orient(f *frame.Frame) {
	s := f.Skeleton
	angle := geometry.AngleBetweenVectors(s.Tail, s.Midpoint, s.Centroid, r.arenaCenter)
	// midpoint translated as if the tail sat on the centroid
	shiftedMidpoint := s.Midpoint.Add(s.Centroid.X-s.Tail.X, s.Centroid.Y-s.Tail.Y)
	if !geometry.IsLeftOfVector(shiftedMidpoint, s.Centroid, r.arenaCenter) {
		angle = -angle
	}
	r.rotationAngle = angle + geometry.Radians(r.cfg.CenteredOrientationOffsetDegrees)
	r.rotationCenter = s.Centroid

	target := geometry.PointOnVector(r.arenaCenter, s.Centroid, r.cfg.CentroidDistanceFromArenaCenter)
	r.xOffset = target.X - s.Centroid.X
	r.yOffset = target.Y - s.Centroid.Y
	r.oriented = true

	t := f.Time()
	r.logRuleData(t, RotationCenterName, r.rotationCenter.String())
	r.logRuleData(t, RotationAngleInDegreesName, formatFloat(geometry.Degrees(r.rotationAngle)))
	r.logRuleData(t, XOffsetName, formatFloat(r.xOffset))
	r.logRuleData(t, YOffsetName, formatFloat(r.yOffset))
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
