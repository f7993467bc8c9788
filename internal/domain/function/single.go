package function

import (
	"fmt"
	"math"

	"github.com/okian/venkman/internal/domain/geometry"
	"gopkg.in/yaml.v3"
)

// SingleVariable maps a scalar input onto a table of output values spread
// uniformly across [min, max] and interpolates linearly between them.
type SingleVariable struct {
	min, max  float64
	policy    OutOfRangePolicy
	values    []float64
	factor    float64
	minOutput float64
	maxOutput float64
}

// NewSingleVariable builds a function over [min, max].
func NewSingleVariable(min, max float64, policy OutOfRangePolicy, values []float64) (*SingleVariable, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: values not defined for function", ErrInvalidFunction)
	}
	if min > max {
		return nil, fmt.Errorf("%w: minimum variable value (%v) must not be greater than maximum variable value (%v)",
			ErrInvalidFunction, min, max)
	}
	f := &SingleVariable{
		min:       min,
		max:       max,
		policy:    policyOrDefault(policy),
		values:    append([]float64(nil), values...),
		factor:    float64(len(values)-1) / (max - min),
		minOutput: math.MaxFloat64,
		maxOutput: -math.MaxFloat64,
	}
	if math.IsNaN(f.factor) || math.IsInf(f.factor, 0) {
		f.factor = 0
	}
	for _, v := range values {
		f.minOutput = math.Min(f.minOutput, v)
		f.maxOutput = math.Max(f.maxOutput, v)
	}
	return f, nil
}

// TableFunction spreads values over 0..len-1 and fails outside that range.
func TableFunction(values ...float64) (*SingleVariable, error) {
	return NewSingleVariable(0, float64(len(values)-1), EndSessionForMinimumAndMaximum, values)
}

// DefaultSingleVariable is the constant zero function.
func DefaultSingleVariable() *SingleVariable {
	f, _ := TableFunction(0)
	return f
}

func (f *SingleVariable) Min() float64 { return f.min }
func (f *SingleVariable) Max() float64 { return f.max }
func (f *SingleVariable) MinOutput() float64 { return f.minOutput }
func (f *SingleVariable) MaxOutput() float64 { return f.maxOutput }
func (f *SingleVariable) Policy() OutOfRangePolicy { return f.policy }
func (f *SingleVariable) Values() []float64 { return append([]float64(nil), f.values...) }

// Value interpolates the table at x. Inputs outside the range are clamped or
// rejected with ErrOutOfRange according to the policy.
func (f *SingleVariable) Value(x float64) (float64, error) {
	switch {
	case x < f.min && f.policy.RepeatMinimum():
		x = f.min
	case x > f.max && f.policy.RepeatMaximum():
		x = f.max
	}

	scaled := (x - f.min) * f.factor
	prev := int(scaled)
	next := prev + 1
	if prev < 0 || prev >= len(f.values) {
		return 0, fmt.Errorf("%w: input value %v is not within the expected function range of %v to %v",
			ErrOutOfRange, x, f.min, f.max)
	}
	if next == len(f.values) {
		if x > f.max {
			return 0, fmt.Errorf("%w: input value %v is greater than the expected function maximum %v",
				ErrOutOfRange, x, f.max)
		}
		next = prev
	}
	return geometry.LinearInterpolation(scaled,
		float64(prev), f.values[prev],
		float64(next), f.values[next]), nil
}

type singleVariableDoc struct {
	Min    *float64         `yaml:"min,omitempty"`
	Max    *float64         `yaml:"max,omitempty"`
	Policy OutOfRangePolicy `yaml:"policy,omitempty"`
	Values []float64        `yaml:"values,flow"`
}

func (f *SingleVariable) doc() singleVariableDoc {
	min, max := f.min, f.max
	return singleVariableDoc{Min: &min, Max: &max, Policy: f.policy, Values: f.values}
}

// build constructs the function, defaulting the range to 0..len-1.
func (d singleVariableDoc) build() (*SingleVariable, error) {
	min, max := 0.0, float64(len(d.Values)-1)
	if d.Min != nil {
		min = *d.Min
	}
	if d.Max != nil {
		max = *d.Max
	}
	return NewSingleVariable(min, max, d.Policy, d.Values)
}

// MarshalYAML writes the range, policy and table.
func (f *SingleVariable) MarshalYAML() (interface{}, error) {
	return f.doc(), nil
}

// UnmarshalYAML validates the definition through NewSingleVariable.
func (f *SingleVariable) UnmarshalYAML(node *yaml.Node) error {
	var d singleVariableDoc
	if err := node.Decode(&d); err != nil {
		return err
	}
	built, err := d.build()
	if err != nil {
		return err
	}
	*f = *built
	return nil
}
