// Package stimulus models the LED commands returned to the tracking rig and
// the small building blocks (flash patterns, noise, intensity values) the
// rules use to produce them.
package stimulus

import "fmt"

// Intensity bounds in percent.
const (
	MinIntensity = 0.0
	MaxIntensity = 100.0
)

// LED is one LED channel command: an intensity percentage held for a
// duration in milliseconds.
type LED struct {
	Intensity float64 `yaml:"intensity" json:"intensity"`
	Duration  int64   `yaml:"duration" json:"duration"`
}

// NewLED clamps intensity to 0..100 and negative durations to zero.
func NewLED(intensity float64, duration int64) LED {
	if duration < 0 {
		duration = 0
	}
	return LED{Intensity: clamp(intensity), Duration: duration}
}

// Add shifts the intensity by addend, keeping it in range.
func (l *LED) Add(addend float64) {
	l.Intensity = clamp(l.Intensity + addend)
}

// Scale multiplies the intensity by factor, keeping it in range.
func (l *LED) Scale(factor float64) {
	l.Intensity = clamp(l.Intensity * factor)
}

// ScaleWithFloor multiplies the intensity by factor but never lets the
// result drop below minimum.
func (l *LED) ScaleWithFloor(factor, minimum float64) {
	v := l.Intensity * factor
	if v < minimum {
		v = minimum
	}
	l.Intensity = clamp(v)
}

func (l LED) String() string {
	return fmt.Sprintf("LED{intensity=%v, duration=%d}", l.Intensity, l.Duration)
}

// ZeroForOneSecond is the "LED off for a second" command used while a rule
// is still waiting for enough history.
func ZeroForOneSecond() []LED {
	return []LED{NewLED(0, 1000)}
}

// Clone returns a copy of list so callers can mutate it freely.
func Clone(list []LED) []LED {
	if list == nil {
		return nil
	}
	out := make([]LED, len(list))
	copy(out, list)
	return out
}

func clamp(v float64) float64 {
	switch {
	case v > MaxIntensity:
		return MaxIntensity
	case v < MinIntensity:
		return MinIntensity
	default:
		return v
	}
}
