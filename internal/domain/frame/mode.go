// Package frame turns raw tracker skeletons into classified frame records.
//
// Each inbound skeleton becomes a Frame whose derived kinematics are
// computed against the session's bounded History, after which the frame is
// pushed at the history head. Classification is a hysteretic state machine
// over smoothed body and head angle speeds and the tail velocity projected
// onto the body axis.
package frame

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Mode is the discrete locomotor state for one frame.
type Mode string

// Behavior modes, named as they appear on the wire.
const (
	Run       Mode = "run"
	BackUp    Mode = "back-up"
	Stop      Mode = "stop"
	TurnRight Mode = "turn-right"
	CastRight Mode = "cast-right"
	TurnLeft  Mode = "turn-left"
	CastLeft  Mode = "cast-left"
)

// DiscreteModes lists every mode the classifier can produce.
func DiscreteModes() []Mode {
	return []Mode{Run, BackUp, Stop, TurnRight, CastRight, TurnLeft, CastLeft}
}

// ParseMode resolves a wire name.
func ParseMode(s string) (Mode, error) {
	for _, m := range DiscreteModes() {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: '%s'", ErrUnknownMode, s)
}

// IsTurning reports turn-left or turn-right.
func (m Mode) IsTurning() bool { return m == TurnLeft || m == TurnRight }

// IsCasting reports cast-left or cast-right.
func (m Mode) IsCasting() bool { return m == CastLeft || m == CastRight }

func (m Mode) String() string { return string(m) }

// UnmarshalYAML rejects unknown mode names.
func (m *Mode) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := ParseMode(node.Value)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
