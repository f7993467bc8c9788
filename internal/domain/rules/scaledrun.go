package rules

import (
	"math/rand"

	"github.com/okian/venkman/internal/domain/frame"
	"github.com/okian/venkman/internal/domain/function"
	"github.com/okian/venkman/internal/domain/stimulus"
)

// ScaledRunConfig scales the run intensity by a function of the time since
// the run began. Outside runs the non-run intensity is used.
type ScaledRunConfig struct {
	FlashPattern             stimulus.FlashPattern        `yaml:"flash_pattern"`
	NonRunIntensity          stimulus.IntensityValue      `yaml:"non_run_intensity"`
	NonRunSignalToNoiseRatio float64                      `yaml:"non_run_signal_to_noise_ratio"`
	RunIntensity             stimulus.IntensityValue      `yaml:"run_intensity"`
	Delay                    int64                        `yaml:"delay_ms"`
	ScalingFunction          *function.SingleVariable     `yaml:"scaling_function"`
	RunSignalToNoiseRatio    float64                      `yaml:"run_signal_to_noise_ratio"`
	RandomFunctionSelection  bool                         `yaml:"random_function_selection"`
	PersistenceDuration      int64                        `yaml:"persistence_duration_ms"`
	AlternateScalingFunction *function.SingleVariable     `yaml:"alternate_scaling_function"`
	AlternateSignalToNoise   float64                      `yaml:"alternate_signal_to_noise_ratio"`
	IntensityFilters         function.BehaviorLimitedList `yaml:"intensity_filters,omitempty"`
}

// DefaultScaledRunConfig turns every LED off, in and out of runs.
func DefaultScaledRunConfig() ScaledRunConfig {
	return ScaledRunConfig{
		FlashPattern:             stimulus.DefaultFlashPattern(),
		ScalingFunction:          function.DefaultSingleVariable(),
		AlternateScalingFunction: function.DefaultSingleVariable(),
	}
}

// RandomDelayConfig re-rolls the scaling delay in [0, MaxDelay) at every run
// onset instead of using a fixed delay.
type RandomDelayConfig struct {
	ScaledRunConfig `yaml:",inline"`
	MaxDelay        int `yaml:"max_delay_ms"`
}

// DefaultRandomDelayConfig is the default scaled run rule without delay.
func DefaultRandomDelayConfig() RandomDelayConfig {
	return RandomDelayConfig{ScaledRunConfig: DefaultScaledRunConfig()}
}

// scaledRun implements codes 2.1/3.1 and 2.2/3.2.
type scaledRun struct {
	flashRule
	cfg         *ScaledRunConfig
	code        string
	description string
	maxDelay    int

	rng           *rand.Rand
	whiteNoise    *stimulus.Noise
	runIntensity  stimulus.IntensityValue
	nonRun        stimulus.IntensityValue
	delay         int64
	runOnset      *int64
	selectionTime *int64
	useAlternate  bool
	current       *function.SingleVariable
	currentSNR    float64
}

func newScaledRun(cfg *ScaledRunConfig, code, description string, maxDelay int, rng *rand.Rand) *scaledRun {
	return &scaledRun{
		flashRule:    flashRule{pattern: cfg.FlashPattern},
		cfg:          cfg,
		code:         code,
		description:  description,
		maxDelay:     maxDelay,
		rng:          rng,
		whiteNoise:   stimulus.StandardNoise(rng),
		runIntensity: cfg.RunIntensity.Bind(rng),
		nonRun:       cfg.NonRunIntensity.Bind(rng),
		delay:        cfg.Delay,
	}
}

func (r *scaledRun) Code() string        { return r.code }
func (r *scaledRun) Description() string { return r.description }

func (r *scaledRun) Init(sink LogSink) {
	r.flashRule.Init(sink)
	r.current = r.cfg.ScalingFunction
	r.currentSNR = r.cfg.NonRunSignalToNoiseRatio
	r.runOnset = nil
	r.selectionTime = nil
	r.useAlternate = false
}

// CurrentSignalToNoiseRatio is the ratio applied to the last stimulus.
func (r *scaledRun) CurrentSignalToNoiseRatio() float64 { return r.currentSNR }

func (r *scaledRun) DetermineStimulus(h *frame.History, _ frame.Parameters) ([]stimulus.LED, error) {
	f := h.Latest()
	var intensity float64
	if f.Mode == frame.Run {
		intensity = r.runIntensity.Value()
		t := f.Time()
		if r.runOnset == nil {
			r.startRun(t)
		}
		sinceOnset := t - *r.runOnset
		if sinceOnset >= r.delay {
			factor, err := r.current.Value(float64(sinceOnset - r.delay))
			if err != nil {
				return nil, err
			}
			intensity *= factor
		}
	} else {
		r.runOnset = nil
		intensity = r.nonRun.Value()
		r.currentSNR = r.cfg.NonRunSignalToNoiseRatio
	}
	return filtersAndNoise(f, r.stimulusList(intensity), r.cfg.IntensityFilters, 0, r.whiteNoise, r.currentSNR)
}

// startRun marks the run onset and, when random selection is on, picks the
// scaling function unless the previous pick is still persisting.
func (r *scaledRun) startRun(t int64) {
	onset := t
	r.runOnset = &onset
	if r.maxDelay > 0 {
		r.delay = int64(r.rng.Intn(r.maxDelay))
	}

	if !r.cfg.RandomFunctionSelection {
		r.currentSNR = r.cfg.RunSignalToNoiseRatio
		return
	}
	expired := r.selectionTime == nil || t-*r.selectionTime > r.cfg.PersistenceDuration
	switch {
	case expired:
		r.useAlternate = r.rng.Intn(2) == 1
		if r.useAlternate {
			r.current = r.cfg.AlternateScalingFunction
			r.currentSNR = r.cfg.AlternateSignalToNoise
			r.logRuleData(t, IntensityFunctionName, AlternateName)
		} else {
			r.current = r.cfg.ScalingFunction
			r.currentSNR = r.cfg.RunSignalToNoiseRatio
			r.logRuleData(t, IntensityFunctionName, PrimaryName)
		}
		selected := t
		r.selectionTime = &selected
	case r.useAlternate:
		r.currentSNR = r.cfg.AlternateSignalToNoise
	default:
		r.currentSNR = r.cfg.RunSignalToNoiseRatio
	}
}
