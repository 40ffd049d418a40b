package model

import "time"

const (
	// DefaultRefreshInterval is the repaint cadence while a session is running.
	DefaultRefreshInterval = 2 * time.Second
	// DefaultGraceDelay is how long a completed surface stays up before teardown.
	DefaultGraceDelay = 5 * time.Second
	// DefaultTitle labels sessions started without a title.
	DefaultTitle = "Pomodoro"
)

// Config contains runtime settings for the timer controller.
type Config struct {
	RefreshInterval time.Duration
	GraceDelay      time.Duration
	DefaultTitle    string
}

// WithDefaults fills unset fields.
func (config Config) WithDefaults() Config {
	if config.RefreshInterval <= 0 {
		config.RefreshInterval = DefaultRefreshInterval
	}
	if config.GraceDelay <= 0 {
		config.GraceDelay = DefaultGraceDelay
	}
	if config.DefaultTitle == "" {
		config.DefaultTitle = DefaultTitle
	}
	return config
}
