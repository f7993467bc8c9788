package rules

import (
	"github.com/okian/venkman/internal/domain/frame"
	"github.com/okian/venkman/internal/domain/stimulus"
)

// ImportedConfig replays stimulus recorded by an earlier session, indexed by
// frame ordinal. Stimulus holds one LED per frame; Frames holds full LED
// lists and is consulted for ordinals beyond Stimulus.
type ImportedConfig struct {
	LogFile  string          `yaml:"log_file,omitempty"`
	Stimulus []stimulus.LED  `yaml:"stimulus,omitempty"`
	Frames   []ImportedFrame `yaml:"frames,omitempty"`
}

// ImportedFrame is one recorded frame's LED list.
type ImportedFrame struct {
	Stimulus []stimulus.LED `yaml:"stimulus"`
}

type imported struct {
	cfg *ImportedConfig
}

func (r *imported) Code() string { return codeImported }

func (r *imported) Description() string { return "Explicit stimulus imported from a prior run." }

func (r *imported) SupportsVersion(string) bool { return true }

func (r *imported) Init(LogSink) {}

func (r *imported) OverrideParameters(p frame.Parameters) frame.Parameters { return p }

func (r *imported) DetermineStimulus(h *frame.History, _ frame.Parameters) ([]stimulus.LED, error) {
	idx := h.Total() - 1
	switch {
	case idx < 0:
		return nil, nil
	case idx < int64(len(r.cfg.Stimulus)):
		return []stimulus.LED{r.cfg.Stimulus[idx]}, nil
	case idx < int64(len(r.cfg.Frames)):
		return stimulus.Clone(r.cfg.Frames[idx].Stimulus), nil
	}
	return nil, nil
}
