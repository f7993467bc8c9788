package frame

import (
	"math"

	"github.com/okian/venkman/internal/domain/geometry"
	"github.com/okian/venkman/internal/domain/stimulus"
)

// bodyAngleBranchDelta is the delta beyond which the tail bearing is
// assumed to have crossed the +-180 branch point.
const bodyAngleBranchDelta = 179.999999

// Frame is a skeleton plus everything derived from it.
type Frame struct {
	Skeleton        Skeleton  `yaml:"skeleton" json:"skeleton"`
	SkippedSkeleton *Skeleton `yaml:"skipped_skeleton,omitempty" json:"skippedSkeleton,omitempty"`

	Mode                    Mode   `yaml:"behavior_mode" json:"behaviorMode"`
	TimeSinceLastModeChange int64  `yaml:"time_since_last_behavior_mode_change" json:"timeSinceLastBehaviorModeChange"`
	TimeStopped             *int64 `yaml:"time_stopped,omitempty" json:"timeStopped,omitempty"`
	TimeBackingUp           *int64 `yaml:"time_backing_up,omitempty" json:"timeBackingUp,omitempty"`

	BodyAngleSpeed                float64 `yaml:"body_angle_speed" json:"bodyAngleSpeed"`
	SmoothedBodyAngleSpeed        float64 `yaml:"smoothed_body_angle_speed" json:"smoothedBodyAngleSpeed"`
	HeadAngleSpeed                float64 `yaml:"head_angle_speed" json:"headAngleSpeed"`
	SmoothedHeadAngleSpeed        float64 `yaml:"smoothed_head_angle_speed" json:"smoothedHeadAngleSpeed"`
	TailSpeed                     float64 `yaml:"tail_speed" json:"tailSpeed"`
	MidpointSpeed                 float64 `yaml:"midpoint_speed" json:"midpointSpeed"`
	HeadSpeed                     float64 `yaml:"head_speed" json:"headSpeed"`
	CentroidSpeed                 float64 `yaml:"centroid_speed" json:"centroidSpeed"`
	TailSpeedDotBodyAngle         float64 `yaml:"tail_speed_dot_body_angle" json:"tailSpeedDotBodyAngle"`
	SmoothedTailSpeedDotBodyAngle float64 `yaml:"smoothed_tail_speed_dot_body_angle" json:"smoothedTailSpeedDotBodyAngle"`

	JumpFramesSkipped     *int     `yaml:"jump_frames_skipped,omitempty" json:"jumpFramesSkipped,omitempty"`
	DerivedMaxLength      float64  `yaml:"derived_max_length" json:"derivedMaxLength"`
	PercentageOfMaxLength *float64 `yaml:"percentage_of_max_length,omitempty" json:"percentageOfMaxLength,omitempty"`

	Stimulus []stimulus.LED `yaml:"stimulus,omitempty" json:"stimulus,omitempty"`
}

// New wraps a skeleton in an underived STOP frame.
func New(s Skeleton) *Frame {
	return &Frame{Skeleton: s, Mode: Stop}
}

// Time returns the capture time in milliseconds.
func (f *Frame) Time() int64 { return f.Skeleton.CaptureTime }

// HeadAngle is the head-to-body angle.
func (f *Frame) HeadAngle() float64 { return f.Skeleton.HeadToBodyAngle }

// BodyAngle is the tail bearing.
func (f *Frame) BodyAngle() float64 { return f.Skeleton.TailBearing }

// MaxLengthDerived reports whether the percentage of max length is known.
func (f *Frame) MaxLengthDerived() bool { return f.PercentageOfMaxLength != nil }

// Derive computes every derived field of f against history (which must not
// yet contain f) and classifies the behavior mode.
func (f *Frame) Derive(history *History, p Parameters) {
	prev := history.Latest()
	if prev == nil {
		f.DerivedMaxLength = f.Skeleton.Length
		return
	}

	now := f.Time()
	elapsedMs := now - prev.Time()
	elapsed := float64(elapsedMs) / 1000.0
	ps := prev.Skeleton

	f.CentroidSpeed = f.Skeleton.Centroid.Distance(ps.Centroid) / elapsed
	if math.Abs(f.CentroidSpeed) > p.MinCentroidSpeedToFlagJump {
		skipped := 0
		if prev.JumpFramesSkipped != nil {
			skipped = *prev.JumpFramesSkipped
		}
		if skipped < p.MaxJumpFramesToSkip {
			raw := f.Skeleton
			f.SkippedSkeleton = &raw
			f.Skeleton = f.Skeleton.withMeasurementsOf(ps)
			count := skipped + 1
			f.JumpFramesSkipped = &count
			f.CentroidSpeed = 0
		}
	}

	s := f.Skeleton
	if now < p.MaxLengthDerivationDuration {
		f.DerivedMaxLength = math.Max(s.Length, prev.DerivedMaxLength)
	} else {
		f.DerivedMaxLength = prev.DerivedMaxLength
		pct := s.Length * 100.0 / f.DerivedMaxLength
		f.PercentageOfMaxLength = &pct
	}

	f.HeadSpeed = s.Head.Distance(ps.Head) / elapsed
	f.MidpointSpeed = s.Midpoint.Distance(ps.Midpoint) / elapsed
	f.TailSpeed = s.Tail.Distance(ps.Tail) / elapsed
	f.HeadAngleSpeed = (s.HeadToBodyAngle - ps.HeadToBodyAngle) / elapsed

	bodyAngle := s.TailBearing
	delta := bodyAngle - ps.TailBearing
	if delta > bodyAngleBranchDelta || delta < -bodyAngleBranchDelta {
		var opposite float64
		if bodyAngle > 0 {
			opposite = bodyAngle - 360
		} else {
			opposite = 360 + bodyAngle
		}
		delta = opposite - ps.TailBearing
	}
	f.BodyAngleSpeed = delta / elapsed

	f.TailSpeedDotBodyAngle = geometry.DotProduct(ps.Tail, s.Tail, geometry.Origin, geometry.UnitVectorForTrackerAngle(bodyAngle))

	if f.smooth(history, p.MinBodyAngleSpeedDuration) {
		headLeft := geometry.IsLeftOfVector(s.Head, s.Tail, s.Midpoint)
		f.classify(p, prev, headLeft, elapsedMs)
	}
}

// smooth replaces the smoothed fields with a linearly weighted average over
// the current frame and the history frames inside window. It reports false
// when the history does not yet span the window.
func (f *Frame) smooth(history *History, window int64) bool {
	current := f.Time()
	var total int64
	count := 1
	enough := false
	history.Each(func(_ int, h *Frame) bool {
		total += current - h.Time()
		current = h.Time()
		if total > window {
			enough = true
			return false
		}
		count++
		return true
	})
	if !enough {
		return false
	}

	series := count * (count + 1) / 2
	weight := float64(count) / float64(series)
	body := f.BodyAngleSpeed * weight
	head := f.HeadAngleSpeed * weight
	dot := f.TailSpeedDotBodyAngle * weight
	remaining := count
	history.Each(func(_ int, h *Frame) bool {
		remaining--
		if remaining <= 0 {
			return false
		}
		w := float64(remaining) / float64(series)
		body += h.BodyAngleSpeed * w
		head += h.HeadAngleSpeed * w
		dot += h.TailSpeedDotBodyAngle * w
		return true
	})
	f.SmoothedBodyAngleSpeed = body
	f.SmoothedHeadAngleSpeed = head
	f.SmoothedTailSpeedDotBodyAngle = dot
	return true
}
