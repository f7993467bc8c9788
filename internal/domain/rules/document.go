package rules

import (
	"fmt"
	"math/rand"
	"sort"

	"gopkg.in/yaml.v3"
)

// Rule kinds as written in the "rule" field of a document.
const (
	KindEnvironment = "defined-environment"
	KindOrientation = "defined-environment-orientation"
	KindMaxLength   = "defined-environment-max-length"
	KindScaledRun   = "scaled-run-intensity"
	KindRandomDelay = "scaled-run-intensity-random-delay"
	KindImported    = "imported-stimulus"
)

const (
	codeEnvironment = "1.1"
	codeOrientation = "1.6"
	codeMaxLength   = "1.5"
	codeScaledRun   = "2.1/3.1"
	codeRandomDelay = "2.2/3.2"
	codeImported    = "import"
)

type kind struct {
	code      string
	newConfig func() interface{}
	build     func(cfg interface{}, rng *rand.Rand) Rule
}

var kinds = map[string]kind{
	KindEnvironment: {
		code: codeEnvironment,
		newConfig: func() interface{} {
			c := DefaultEnvironmentConfig()
			return &c
		},
		build: func(cfg interface{}, rng *rand.Rand) Rule {
			return newEnvironment(cfg.(*EnvironmentConfig), codeEnvironment,
				"Chemotaxis in response to virtual light gradients.", rng)
		},
	},
	KindOrientation: {
		code: codeOrientation,
		newConfig: func() interface{} {
			c := DefaultEnvironmentConfig()
			c.EnableOrientation = true
			return &c
		},
		build: func(cfg interface{}, rng *rand.Rand) Rule {
			c := *cfg.(*EnvironmentConfig)
			c.EnableOrientation = true
			return newEnvironment(&c, codeOrientation,
				"Position landscape according to initial larval orientation.", rng)
		},
	},
	KindMaxLength: {
		code: codeMaxLength,
		newConfig: func() interface{} {
			c := DefaultMaxLengthConfig()
			return &c
		},
		build: func(cfg interface{}, rng *rand.Rand) Rule {
			return newMaxLength(cfg.(*MaxLengthConfig), rng)
		},
	},
	KindScaledRun: {
		code: codeScaledRun,
		newConfig: func() interface{} {
			c := DefaultScaledRunConfig()
			return &c
		},
		build: func(cfg interface{}, rng *rand.Rand) Rule {
			return newScaledRun(cfg.(*ScaledRunConfig), codeScaledRun,
				"Elongation of runs/induction of turns through synthesis of positive/negative olfactory experiences.", 0, rng)
		},
	},
	KindRandomDelay: {
		code: codeRandomDelay,
		newConfig: func() interface{} {
			c := DefaultRandomDelayConfig()
			return &c
		},
		build: func(cfg interface{}, rng *rand.Rand) Rule {
			c := cfg.(*RandomDelayConfig)
			base := c.ScaledRunConfig
			base.Delay = 0
			return newScaledRun(&base, codeRandomDelay,
				"Elongation of runs/induction of turns through synthesis of positive/negative olfactory experiences with random delay.",
				c.MaxDelay, rng)
		},
	},
	KindImported: {
		code:      codeImported,
		newConfig: func() interface{} { return &ImportedConfig{} },
		build: func(cfg interface{}, _ *rand.Rand) Rule {
			return &imported{cfg: cfg.(*ImportedConfig)}
		},
	},
}

// Kinds lists the registered rule kinds in order.
func Kinds() []string {
	out := make([]string, 0, len(kinds))
	for k := range kinds {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Document is a stored rule configuration. It is immutable once loaded;
// Build creates the per-session rule.
type Document struct {
	kind   string
	config interface{}
}

// NewDocument wraps config (a pointer to the kind's config struct, or nil
// for the defaults) as a document of kind.
func NewDocument(kind string, config interface{}) (*Document, error) {
	k, ok := kinds[kind]
	if !ok {
		return nil, fmt.Errorf("%w: '%s'", ErrUnknownRule, kind)
	}
	if config == nil {
		config = k.newConfig()
	}
	if fmt.Sprintf("%T", config) != fmt.Sprintf("%T", k.newConfig()) {
		return nil, fmt.Errorf("%w: %T is not a %s configuration", ErrInvalidRule, config, kind)
	}
	if err := validate(config); err != nil {
		return nil, err
	}
	return &Document{kind: kind, config: config}, nil
}

// Kind returns the document's rule kind.
func (d *Document) Kind() string { return d.kind }

// Code returns the rule code the document builds.
func (d *Document) Code() string { return kinds[d.kind].code }

// Config returns the kind specific configuration.
func (d *Document) Config() interface{} { return d.config }

// Build creates a fresh, uninitialized rule drawing randomness from rng.
func (d *Document) Build(rng *rand.Rand) Rule {
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	return kinds[d.kind].build(d.config, rng)
}

// SupportsVersion reports whether the rule answers trackers speaking version.
func (d *Document) SupportsVersion(version string) bool {
	return d.Build(rand.New(rand.NewSource(1))).SupportsVersion(version)
}

type kindHeader struct {
	Kind string `yaml:"rule"`
}

// UnmarshalYAML reads the "rule" kind then decodes the remaining fields over
// the kind's defaults.
func (d *Document) UnmarshalYAML(node *yaml.Node) error {
	var h kindHeader
	if err := node.Decode(&h); err != nil {
		return err
	}
	k, ok := kinds[h.Kind]
	if !ok {
		return fmt.Errorf("%w: '%s'", ErrUnknownRule, h.Kind)
	}
	cfg := k.newConfig()
	if err := node.Decode(cfg); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidRule, h.Kind, err)
	}
	if err := validate(cfg); err != nil {
		return err
	}
	d.kind = h.Kind
	d.config = cfg
	return nil
}

// MarshalYAML writes the "rule" kind followed by the configuration fields.
func (d *Document) MarshalYAML() (interface{}, error) {
	var n yaml.Node
	if err := n.Encode(d.config); err != nil {
		return nil, err
	}
	n.Content = append([]*yaml.Node{
		{Kind: yaml.ScalarNode, Value: "rule"},
		{Kind: yaml.ScalarNode, Value: d.kind},
	}, n.Content...)
	return &n, nil
}

func validate(cfg interface{}) error {
	switch c := cfg.(type) {
	case *EnvironmentConfig:
		if c.IntensityFunction == nil {
			return fmt.Errorf("%w: intensity_function must be specified", ErrInvalidRule)
		}
	case *MaxLengthConfig:
		if err := validate(&c.EnvironmentConfig); err != nil {
			return err
		}
		if c.AdditiveIntensityFunction == nil {
			return fmt.Errorf("%w: additive_intensity_function must be specified", ErrInvalidRule)
		}
	case *ScaledRunConfig:
		if c.ScalingFunction == nil {
			return fmt.Errorf("%w: scaling_function must be specified", ErrInvalidRule)
		}
		if c.RandomFunctionSelection && c.AlternateScalingFunction == nil {
			return fmt.Errorf("%w: alternate_scaling_function must be specified for random selection", ErrInvalidRule)
		}
	case *RandomDelayConfig:
		if c.MaxDelay < 0 {
			return fmt.Errorf("%w: max_delay_ms (%d) must not be negative", ErrInvalidRule, c.MaxDelay)
		}
		return validate(&c.ScaledRunConfig)
	}
	return nil
}
