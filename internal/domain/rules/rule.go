// Package rules holds the stimulus rules a session evaluates every frame.
//
// A rule is configured by an immutable Document (YAML, tagged by its "rule"
// kind) and built fresh for each session with that session's random source,
// so the mutable per-run state (rotation basis, run onset, selected scaling
// function) never leaks between sessions.
package rules

import (
	"fmt"

	"github.com/okian/venkman/internal/domain/frame"
	"github.com/okian/venkman/internal/domain/function"
	"github.com/okian/venkman/internal/domain/stimulus"
)

// Rule turns the frame history into the LED commands for the newest frame.
type Rule interface {
	Code() string
	Description() string
	SupportsVersion(version string) bool
	// Init binds the session log sink and resets per-session state.
	Init(sink LogSink)
	// OverrideParameters lets a rule adjust the session behavior parameters.
	OverrideParameters(p frame.Parameters) frame.Parameters
	// DetermineStimulus evaluates the newest frame in h. A nil list means no
	// LED command for the frame.
	DetermineStimulus(h *frame.History, p frame.Parameters) ([]stimulus.LED, error)
}

// ArenaProvider is implemented by rules whose intensity depends on position.
type ArenaProvider interface {
	Arena(width, height int) ([][]float64, error)
}

// Rule data record names.
const (
	IntensityFunctionName      = "intensity function"
	PrimaryName                = "primary"
	AlternateName              = "alternate"
	RotationCenterName         = "rotationCenter"
	RotationAngleInDegreesName = "rotationAngleInDegrees"
	XOffsetName                = "xOffset"
	YOffsetName                = "yOffset"
)

// RuleData is a named value a rule records at a capture time.
type RuleData struct {
	CaptureTime int64  `yaml:"capture_time" json:"captureTime"`
	Name        string `yaml:"name" json:"name"`
	Value       string `yaml:"value" json:"value"`
}

func (d RuleData) String() string {
	return fmt.Sprintf("RuleData{captureTime=%d, name='%s', value='%s'}", d.CaptureTime, d.Name, d.Value)
}

// LogSink receives rule data for the session log.
type LogSink interface {
	LogRuleData(d RuleData)
}

type discardSink struct{}

func (discardSink) LogRuleData(RuleData) {}

// flashRule carries the flash pattern and log sink every LED rule shares.
type flashRule struct {
	pattern stimulus.FlashPattern
	sink    LogSink
}

func (r *flashRule) Init(sink LogSink) {
	if sink == nil {
		sink = discardSink{}
	}
	r.sink = sink
}

func (r *flashRule) SupportsVersion(version string) bool { return version == "1" }

func (r *flashRule) OverrideParameters(p frame.Parameters) frame.Parameters { return p }

func (r *flashRule) logRuleData(captureTime int64, name, value string) {
	if r.sink == nil {
		return
	}
	r.sink.LogRuleData(RuleData{CaptureTime: captureTime, Name: name, Value: value})
}

func (r *flashRule) stimulusList(intensity float64) []stimulus.LED {
	return r.pattern.List(intensity)
}

// filtersAndNoise applies the behavior filters then white noise at snr.
func filtersAndNoise(f *frame.Frame, list []stimulus.LED, filters function.BehaviorLimitedList,
	minimum float64, noise *stimulus.Noise, snr float64,
) ([]stimulus.LED, error) {
	if err := filters.Apply(f, list, minimum); err != nil {
		return nil, err
	}
	noise.AddUsingRatio(snr, list)
	return list, nil
}
