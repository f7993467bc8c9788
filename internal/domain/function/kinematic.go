package function

import (
	"fmt"

	"github.com/okian/venkman/internal/domain/frame"
	"gopkg.in/yaml.v3"
)

// KinematicVariable names a per-frame measurement a 1-D function reads.
type KinematicVariable string

// Frame measurements.
const (
	HeadAngle              KinematicVariable = "head_angle"
	BodyAngle              KinematicVariable = "body_angle"
	HeadAngleSpeed         KinematicVariable = "head_angle_speed"
	SmoothedHeadAngleSpeed KinematicVariable = "smoothed_head_angle_speed"
	BodyAngleSpeed         KinematicVariable = "body_angle_speed"
	SmoothedBodyAngleSpeed KinematicVariable = "smoothed_body_angle_speed"
	HeadSpeed              KinematicVariable = "head_speed"
	MidpointSpeed          KinematicVariable = "midpoint_speed"
	TailSpeed              KinematicVariable = "tail_speed"
	CentroidSpeed          KinematicVariable = "centroid_speed"
	Length                 KinematicVariable = "length"
	PercentageOfMaxLength  KinematicVariable = "percentage_of_max_length"
)

var kinematicReaders = map[KinematicVariable]func(*frame.Frame) float64{
	HeadAngle:              (*frame.Frame).HeadAngle,
	BodyAngle:              (*frame.Frame).BodyAngle,
	HeadAngleSpeed:         func(f *frame.Frame) float64 { return f.HeadAngleSpeed },
	SmoothedHeadAngleSpeed: func(f *frame.Frame) float64 { return f.SmoothedHeadAngleSpeed },
	BodyAngleSpeed:         func(f *frame.Frame) float64 { return f.BodyAngleSpeed },
	SmoothedBodyAngleSpeed: func(f *frame.Frame) float64 { return f.SmoothedBodyAngleSpeed },
	HeadSpeed:              func(f *frame.Frame) float64 { return f.HeadSpeed },
	MidpointSpeed:          func(f *frame.Frame) float64 { return f.MidpointSpeed },
	TailSpeed:              func(f *frame.Frame) float64 { return f.TailSpeed },
	CentroidSpeed:          func(f *frame.Frame) float64 { return f.CentroidSpeed },
	Length:                 func(f *frame.Frame) float64 { return f.Skeleton.Length },
	PercentageOfMaxLength: func(f *frame.Frame) float64 {
		if !f.MaxLengthDerived() {
			return 0
		}
		return *f.PercentageOfMaxLength
	},
}

// Value reads the measurement from f. Percentage of max length reads as
// zero until the max length has been derived.
func (v KinematicVariable) Value(f *frame.Frame) float64 {
	read, ok := kinematicReaders[v]
	if !ok {
		return 0
	}
	return read(f)
}

// UnmarshalYAML rejects unknown measurements.
func (v *KinematicVariable) UnmarshalYAML(node *yaml.Node) error {
	k := KinematicVariable(node.Value)
	if _, ok := kinematicReaders[k]; !ok {
		return fmt.Errorf("%w: unknown kinematic variable '%s'", ErrInvalidFunction, node.Value)
	}
	*v = k
	return nil
}

// Kinematic is a 1-D function over one frame measurement.
type Kinematic struct {
	fn       *SingleVariable
	variable KinematicVariable
}

// NewKinematic binds fn to variable.
func NewKinematic(variable KinematicVariable, fn *SingleVariable) (*Kinematic, error) {
	if _, ok := kinematicReaders[variable]; !ok {
		return nil, fmt.Errorf("%w: a kinematic variable must be specified", ErrInvalidFunction)
	}
	if fn == nil {
		return nil, fmt.Errorf("%w: values not defined for function", ErrInvalidFunction)
	}
	return &Kinematic{fn: fn, variable: variable}, nil
}

// Variable returns the measurement the function reads.
func (k *Kinematic) Variable() KinematicVariable { return k.variable }

// Function returns the underlying table.
func (k *Kinematic) Function() *SingleVariable { return k.fn }

// Value evaluates the function at the frame's measurement.
func (k *Kinematic) Value(f *frame.Frame) (float64, error) {
	return k.fn.Value(k.variable.Value(f))
}
