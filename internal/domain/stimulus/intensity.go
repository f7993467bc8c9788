package stimulus

import "math/rand"

// IntensityValue is a configured intensity percentage with optional noise.
type IntensityValue struct {
	Base  float64 `yaml:"value"`
	Noise *Noise  `yaml:"noise,omitempty"`
}

// Fixed returns an intensity value without noise.
func Fixed(v float64) IntensityValue {
	return IntensityValue{Base: v}
}

// Value returns the base value plus one noise sample when noise is configured.
func (v IntensityValue) Value() float64 {
	if v.Noise == nil {
		return v.Base
	}
	return v.Base + v.Noise.Value()
}

// NoiseEnabled reports whether samples vary.
func (v IntensityValue) NoiseEnabled() bool { return v.Noise != nil }

// Bind returns a copy whose noise (if any) draws from rng.
func (v IntensityValue) Bind(rng *rand.Rand) IntensityValue {
	v.Noise = v.Noise.WithSource(rng)
	return v
}
