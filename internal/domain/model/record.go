// Package model contains the records a session writes to its log.
package model

import "time"

// Kind classifies a log record.
type Kind string

// Record kinds in the order a session usually writes them.
const (
	KindSessionStart       Kind = "session_start"
	KindConfiguration      Kind = "configuration"
	KindBehaviorParameters Kind = "behavior_parameters"
	KindStimulusRule       Kind = "stimulus_rule"
	KindFrame              Kind = "frame"
	KindRuleData           Kind = "rule_data"
	KindSessionEnd         Kind = "session_end"
)

// Record is one entry of a session log.
type Record struct {
	Kind Kind      `yaml:"kind"`
	Time time.Time `yaml:"time"`
	// Data is any YAML serializable value: a frame, a rule document, rule data.
	Data interface{} `yaml:"data,omitempty"`
}

// NewRecord stamps data with the current time.
func NewRecord(kind Kind, data interface{}) Record {
	return Record{Kind: kind, Time: time.Now(), Data: data}
}

// SessionMark is the data of start and end records.
type SessionMark struct {
	SessionID string `yaml:"session_id"`
	Remote    string `yaml:"remote,omitempty"`
}
