package stimulus

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultLEDActivationDuration is the on time used when no pattern is configured.
const DefaultLEDActivationDuration = 60

const maxFlashDuration = 1000

// FlashPattern is a comma separated list of alternating on/off durations
// in milliseconds, e.g. "5,3,5,3".
type FlashPattern struct {
	pattern   string
	durations []int64
}

// DefaultFlashPattern returns the single 60ms pulse pattern.
func DefaultFlashPattern() FlashPattern {
	p, _ := ParseFlashPattern(strconv.Itoa(DefaultLEDActivationDuration))
	return p
}

// ParseFlashPattern validates and parses pattern.
func ParseFlashPattern(pattern string) (FlashPattern, error) {
	if pattern == "" {
		return FlashPattern{}, fmt.Errorf("%w: a flash pattern must be specified", ErrInvalidFlashPattern)
	}
	tokens := strings.Split(pattern, ",")
	durations := make([]int64, 0, len(tokens))
	for _, tok := range tokens {
		d, err := strconv.ParseInt(tok, 10, 32)
		if err != nil {
			return FlashPattern{}, fmt.Errorf("%w: '%s' should be a comma separated list of on and off millisecond durations between 0 and %d (e.g. '5,3,5,3')",
				ErrInvalidFlashPattern, pattern, maxFlashDuration)
		}
		if d < 0 || d > maxFlashDuration {
			return FlashPattern{}, fmt.Errorf("%w: '%s' has a duration outside 0 to %d", ErrInvalidFlashPattern, pattern, maxFlashDuration)
		}
		durations = append(durations, d)
	}
	return FlashPattern{pattern: strings.Join(tokens, ","), durations: durations}, nil
}

// List expands the pattern into LED commands, on entries at intensity and
// off entries at zero.
func (p FlashPattern) List(intensity float64) []LED {
	if len(p.durations) == 0 {
		p = DefaultFlashPattern()
	}
	list := make([]LED, len(p.durations))
	for i, d := range p.durations {
		if i%2 == 0 {
			list[i] = NewLED(intensity, d)
		} else {
			list[i] = NewLED(0, d)
		}
	}
	return list
}

// Len returns the number of LED entries the pattern produces.
func (p FlashPattern) Len() int { return len(p.durations) }

func (p FlashPattern) String() string {
	if p.pattern == "" {
		return strconv.Itoa(DefaultLEDActivationDuration)
	}
	return p.pattern
}

// MarshalYAML writes the pattern in its string form.
func (p FlashPattern) MarshalYAML() (interface{}, error) {
	return p.String(), nil
}

// UnmarshalYAML accepts either a string ("5,3") or a bare integer (60).
func (p *FlashPattern) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := ParseFlashPattern(strings.TrimSpace(node.Value))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
