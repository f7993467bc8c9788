package rules

import (
	"math/rand"

	"github.com/okian/venkman/internal/domain/frame"
	"github.com/okian/venkman/internal/domain/function"
	"github.com/okian/venkman/internal/domain/stimulus"
)

// DefaultPercentageOfMaxLengthToActivateGradient gates the landscape until
// the larva is nearly fully extended.
const DefaultPercentageOfMaxLengthToActivateGradient = 90.0

// MaxLengthConfig extends the environment with a length gate and an
// additive intensity that grows with session time.
type MaxLengthConfig struct {
	EnvironmentConfig `yaml:",inline"`

	PercentageOfMaxLengthToActivateGradient float64                  `yaml:"percentage_of_max_length_to_activate_gradient"`
	DefaultIntensity                        stimulus.IntensityValue  `yaml:"default_intensity"`
	AdditiveIntensityFunction               *function.SingleVariable `yaml:"additive_intensity_function"`

	// DeprecatedMaxLengthDerivationDuration is migrated into the behavior
	// parameters when a session opens.
	DeprecatedMaxLengthDerivationDuration *int64 `yaml:"max_length_derivation_duration,omitempty"`
}

// DefaultMaxLengthConfig gates a zero landscape at 90% of max length.
func DefaultMaxLengthConfig() MaxLengthConfig {
	return MaxLengthConfig{
		EnvironmentConfig:                       DefaultEnvironmentConfig(),
		PercentageOfMaxLengthToActivateGradient: DefaultPercentageOfMaxLengthToActivateGradient,
		AdditiveIntensityFunction:               function.DefaultSingleVariable(),
	}
}

// maxLength implements code 1.5.
type maxLength struct {
	*environment
	cfg              *MaxLengthConfig
	threshold        float64
	defaultIntensity stimulus.IntensityValue
}

func newMaxLength(cfg *MaxLengthConfig, rng *rand.Rand) *maxLength {
	r := &maxLength{
		environment: newEnvironment(&cfg.EnvironmentConfig, codeMaxLength,
			"Discrete versus continuous sampling with time based additive intensity.", rng),
		cfg:              cfg,
		threshold:        cfg.PercentageOfMaxLengthToActivateGradient,
		defaultIntensity: cfg.DefaultIntensity.Bind(rng),
	}
	// filters take over the gating
	if len(cfg.IntensityFilters) > 0 {
		r.threshold = 0
	}
	r.environment.defaultStimulus = r.defaultList
	return r
}

func (r *maxLength) defaultList() []stimulus.LED {
	return r.stimulusList(r.defaultIntensity.Value())
}

func (r *maxLength) OverrideParameters(p frame.Parameters) frame.Parameters {
	if d := r.cfg.DeprecatedMaxLengthDerivationDuration; d != nil {
		p.MaxLengthDerivationDuration = *d
	}
	return p
}

func (r *maxLength) DetermineStimulus(h *frame.History, _ frame.Parameters) ([]stimulus.LED, error) {
	f := h.Latest()
	switch {
	case !f.MaxLengthDerived():
		return stimulus.ZeroForOneSecond(), nil
	case *f.PercentageOfMaxLength < r.threshold:
		return r.defaultList(), nil
	}

	list, err := r.positionStimulus(f)
	if err != nil {
		return nil, err
	}
	if r.isOriented() {
		add := r.cfg.AdditiveIntensityFunction
		t := f.Time()
		if float64(t) > add.Max() {
			t = int64(add.Max())
		}
		v, err := add.Value(float64(t))
		if err != nil {
			return nil, err
		}
		for i := range list {
			list[i].Add(v)
		}
	}
	return filtersAndNoise(f, list, r.cfg.IntensityFilters, r.defaultIntensity.Value(), r.whiteNoise, r.cfg.SignalToNoiseRatio)
}
