// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers a YAML file and environment variables over the defaults.
// - Validation errors wrap ErrInvalidConfig.
package config

import "time"

// Session id formats.
const (
	SessionIDSequence = "sequence"
	SessionIDUUID     = "uuid"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the console handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr is the tracker TCP listen address.
	Addr string `koanf:"addr"`

	// OpsAddr is the HTTP listen address for health, metrics, stats and
	// the monitor feed. Empty disables the ops server.
	OpsAddr string `koanf:"ops_addr"`

	// WorkDir is the root of the configuration store.
	WorkDir string `koanf:"work_dir"`

	// LogDir receives one log file per session. Empty disables session logs.
	LogDir string `koanf:"log_dir"`

	// LogWritePauseMS is the pause between session log batches.
	LogWritePauseMS int `koanf:"log_write_pause_ms"`

	// LogItemsToBuffer is the number of records held back before a batch is written.
	LogItemsToBuffer int `koanf:"log_items_to_buffer"`

	// SessionIDFormat is sequence (sid-<n>) or uuid.
	SessionIDFormat string `koanf:"session_id_format"`

	// RandomSeed seeds session random sources; 0 seeds from the clock.
	RandomSeed int64 `koanf:"random_seed"`

	// MonitorEnabled serves the websocket frame feed on the ops server.
	MonitorEnabled bool `koanf:"monitor_enabled"`

	// ShutdownTimeoutMS bounds graceful shutdown.
	ShutdownTimeoutMS int `koanf:"shutdown_timeout_ms"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "text",
		Addr:              ":4444",
		OpsAddr:           ":9080",
		WorkDir:           "venkman-work",
		LogWritePauseMS:   5000,
		LogItemsToBuffer:  0,
		SessionIDFormat:   SessionIDSequence,
		MonitorEnabled:    true,
		ShutdownTimeoutMS: 10_000,
	}
}

// LogWritePause returns LogWritePauseMS as a duration.
func (c *Config) LogWritePause() time.Duration {
	return time.Duration(c.LogWritePauseMS) * time.Millisecond
}

// ShutdownTimeout returns ShutdownTimeoutMS as a duration.
func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutMS) * time.Millisecond
}
