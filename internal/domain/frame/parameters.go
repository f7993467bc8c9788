package frame

// Parameters are the session scoped classification thresholds. Angles are
// in degrees, speeds in units (or degrees) per second and durations in
// milliseconds.
type Parameters struct {
	MinHeadAngleForCasting              float64 `yaml:"min_head_angle_for_casting"`
	MinHeadAngleToContinueCasting       float64 `yaml:"min_head_angle_to_continue_casting"`
	MinHeadAngleSpeedToContinueCasting  float64 `yaml:"min_head_angle_speed_to_continue_casting"`
	MinBodyAngleSpeedForTurns           float64 `yaml:"min_body_angle_speed_for_turns"`
	MinBodyAngleSpeedDuration           int64   `yaml:"min_body_angle_speed_duration"`
	MinHeadAngleToContinueTurning       float64 `yaml:"min_head_angle_to_continue_turning"`
	DotProductThresholdForStraightModes float64 `yaml:"dot_product_threshold_for_straight_modes"`
	MinBehaviorModeDuration             int64   `yaml:"min_behavior_mode_duration"`
	MinStopOrBackUpDuration             int64   `yaml:"min_stop_or_back_up_duration"`
	MinCentroidSpeedToFlagJump          float64 `yaml:"min_centroid_speed_to_flag_jump"`
	MaxJumpFramesToSkip                 int     `yaml:"max_jump_frames_to_skip"`
	MaxLengthDerivationDuration         int64   `yaml:"max_length_derivation_duration"`
}

// Default threshold values. Everything else defaults to zero.
const (
	DefaultMinCentroidSpeedToFlagJump  = 100.0
	DefaultMaxJumpFramesToSkip         = 5
	DefaultMaxLengthDerivationDuration = 1000
)

// DefaultParameters returns the baseline thresholds.
func DefaultParameters() Parameters {
	return Parameters{
		MinCentroidSpeedToFlagJump:  DefaultMinCentroidSpeedToFlagJump,
		MaxJumpFramesToSkip:         DefaultMaxJumpFramesToSkip,
		MaxLengthDerivationDuration: DefaultMaxLengthDerivationDuration,
	}
}

// LongestWindow returns the largest duration any derivation looks back over.
func (p Parameters) LongestWindow() int64 {
	longest := p.MinBodyAngleSpeedDuration
	for _, d := range []int64{p.MinBehaviorModeDuration, p.MinStopOrBackUpDuration, p.MaxLengthDerivationDuration} {
		if d > longest {
			longest = d
		}
	}
	return longest
}
