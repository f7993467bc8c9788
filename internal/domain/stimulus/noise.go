package stimulus

import "math/rand"

// Noise produces gaussian noise with the configured mean and standard
// deviation.
type Noise struct {
	Mean              float64 `yaml:"mean"`
	StandardDeviation float64 `yaml:"standard_deviation"`

	rng *rand.Rand
}

// NewNoise builds a generator drawing from rng.
func NewNoise(mean, sd float64, rng *rand.Rand) *Noise {
	return &Noise{Mean: mean, StandardDeviation: sd, rng: rng}
}

// StandardNoise is mean 0, standard deviation 1.
func StandardNoise(rng *rand.Rand) *Noise {
	return NewNoise(0, 1, rng)
}

// WithSource returns a copy of n drawing from rng.
func (n *Noise) WithSource(rng *rand.Rand) *Noise {
	if n == nil {
		return nil
	}
	c := *n
	c.rng = rng
	return &c
}

// Value draws one sample.
func (n *Noise) Value() float64 {
	var v float64
	if n.rng == nil {
		v = rand.NormFloat64()
	} else {
		v = n.rng.NormFloat64()
	}
	if n.Mean != 0 || n.StandardDeviation != 1 {
		v = v*n.StandardDeviation + n.Mean
	}
	return v
}

// AddUsingRatio adds intensity/snr scaled noise to every entry of list.
// A zero ratio disables noise.
func (n *Noise) AddUsingRatio(snr float64, list []LED) {
	if snr == 0 {
		return
	}
	for i := range list {
		factor := list[i].Intensity / snr
		list[i].Add(factor * n.Value())
	}
}
