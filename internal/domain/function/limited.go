package function

import (
	"github.com/okian/venkman/internal/domain/frame"
	"github.com/okian/venkman/internal/domain/stimulus"
	"gopkg.in/yaml.v3"
)

// BehaviorLimited is a kinematic function applied to an LED list only while
// the frame's behavior mode is in its mode set. Additive functions add their
// value to every LED; the others scale every LED with a floor.
type BehaviorLimited struct {
	kin      *Kinematic
	modes    []frame.Mode
	additive bool
}

// NewBehaviorLimited builds a gated filter. A nil mode set is never active.
func NewBehaviorLimited(modes []frame.Mode, additive bool, kin *Kinematic) *BehaviorLimited {
	return &BehaviorLimited{kin: kin, modes: append([]frame.Mode(nil), modes...), additive: additive}
}

// DefaultBehaviorLimited scales by one across every mode, keyed on
// percentage of max length.
func DefaultBehaviorLimited() *BehaviorLimited {
	fn, _ := TableFunction(1)
	kin, _ := NewKinematic(PercentageOfMaxLength, fn)
	return NewBehaviorLimited(frame.DiscreteModes(), false, kin)
}

func (b *BehaviorLimited) Kinematic() *Kinematic { return b.kin }
func (b *BehaviorLimited) Additive() bool { return b.additive }
func (b *BehaviorLimited) Modes() []frame.Mode { return append([]frame.Mode(nil), b.modes...) }

// ActiveFor reports whether m is in the mode set.
func (b *BehaviorLimited) ActiveFor(m frame.Mode) bool {
	for _, mode := range b.modes {
		if mode == m {
			return true
		}
	}
	return false
}

// Apply adjusts list in place for f. Scaling never drops an LED below minimum.
func (b *BehaviorLimited) Apply(f *frame.Frame, list []stimulus.LED, minimum float64) error {
	if !b.ActiveFor(f.Mode) {
		return nil
	}
	v, err := b.kin.Value(f)
	if err != nil {
		return err
	}
	for i := range list {
		if b.additive {
			list[i].Add(v)
		} else {
			list[i].ScaleWithFloor(v, minimum)
		}
	}
	return nil
}

type behaviorLimitedDoc struct {
	Modes             []frame.Mode      `yaml:"modes,flow"`
	Additive          bool              `yaml:"additive,omitempty"`
	Variable          KinematicVariable `yaml:"variable"`
	singleVariableDoc `yaml:",inline"`
}

// MarshalYAML flattens the gate and the kinematic table into one mapping.
func (b *BehaviorLimited) MarshalYAML() (interface{}, error) {
	return behaviorLimitedDoc{
		Modes:             b.modes,
		Additive:          b.additive,
		Variable:          b.kin.variable,
		singleVariableDoc: b.kin.fn.doc(),
	}, nil
}

// UnmarshalYAML defaults omitted modes to every discrete mode and an omitted
// variable to percentage of max length.
func (b *BehaviorLimited) UnmarshalYAML(node *yaml.Node) error {
	d := behaviorLimitedDoc{Modes: frame.DiscreteModes(), Variable: PercentageOfMaxLength}
	if err := node.Decode(&d); err != nil {
		return err
	}
	fn, err := d.build()
	if err != nil {
		return err
	}
	kin, err := NewKinematic(d.Variable, fn)
	if err != nil {
		return err
	}
	*b = *NewBehaviorLimited(d.Modes, d.Additive, kin)
	return nil
}

// BehaviorLimitedList applies its filters in order.
type BehaviorLimitedList []*BehaviorLimited

// Apply runs every filter over list, stopping at the first error.
func (l BehaviorLimitedList) Apply(f *frame.Frame, list []stimulus.LED, minimum float64) error {
	for _, b := range l {
		if err := b.Apply(f, list, minimum); err != nil {
			return err
		}
	}
	return nil
}
