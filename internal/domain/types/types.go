// Package types contains the JSON views served by the ops API and monitor.
package types

import (
	"time"

	"github.com/okian/venkman/internal/domain/stimulus"
)

// SessionInfo describes a live tracker session.
type SessionInfo struct {
	ID            string    `json:"id"`
	Remote        string    `json:"remote"`
	Configuration string    `json:"configuration,omitempty"`
	Rule          string    `json:"rule,omitempty"`
	Frames        int64     `json:"frames"`
	StartedAt     time.Time `json:"started_at"`
}

// FrameUpdate is a processed frame pushed to monitor clients.
type FrameUpdate struct {
	SessionID   string         `json:"session_id"`
	CaptureTime int64          `json:"capture_time"`
	Mode        string         `json:"mode"`
	HeadX       float64        `json:"head_x"`
	HeadY       float64        `json:"head_y"`
	CentroidX   float64        `json:"centroid_x"`
	CentroidY   float64        `json:"centroid_y"`
	Stimulus    []stimulus.LED `json:"stimulus,omitempty"`
}
