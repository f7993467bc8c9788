// Package function holds the piecewise-linear lookup functions the stimulus
// rules are built from: 1-D tables over a scalar input, 2-D grids over an
// arena position and behavior-gated filters over frame kinematics.
package function

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// OutOfRangePolicy decides, per bound, whether an input outside the function
// range is clamped to the bound or rejected.
type OutOfRangePolicy string

// Boundary policies.
const (
	EndSessionForMinimumAndMaximum    OutOfRangePolicy = "end_session_for_minimum_and_maximum"
	EndSessionForMinimumRepeatMaximum OutOfRangePolicy = "end_session_for_minimum_repeat_maximum"
	RepeatMinimumEndSessionForMaximum OutOfRangePolicy = "repeat_minimum_end_session_for_maximum"
	RepeatMinimumAndMaximum           OutOfRangePolicy = "repeat_minimum_and_maximum"
)

// Policies lists every supported policy.
func Policies() []OutOfRangePolicy {
	return []OutOfRangePolicy{
		EndSessionForMinimumAndMaximum,
		EndSessionForMinimumRepeatMaximum,
		RepeatMinimumEndSessionForMaximum,
		RepeatMinimumAndMaximum,
	}
}

// RepeatMinimum reports whether inputs below the minimum are clamped.
func (p OutOfRangePolicy) RepeatMinimum() bool {
	return p == RepeatMinimumEndSessionForMaximum || p == RepeatMinimumAndMaximum
}

// RepeatMaximum reports whether inputs above the maximum are clamped.
func (p OutOfRangePolicy) RepeatMaximum() bool {
	return p == EndSessionForMinimumRepeatMaximum || p == RepeatMinimumAndMaximum
}

// UnmarshalYAML rejects unknown policy names.
func (p *OutOfRangePolicy) UnmarshalYAML(node *yaml.Node) error {
	for _, known := range Policies() {
		if string(known) == node.Value {
			*p = known
			return nil
		}
	}
	return fmt.Errorf("%w: unknown out of range policy '%s'", ErrInvalidFunction, node.Value)
}

func policyOrDefault(p OutOfRangePolicy) OutOfRangePolicy {
	if p == "" {
		return EndSessionForMinimumAndMaximum
	}
	return p
}
