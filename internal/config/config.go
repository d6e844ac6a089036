// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - New() returns a Config populated with defaults.
// - Load layers a YAML file and ROAST_ environment variables on top.
// - Validation errors wrap ErrInvalidConfig, loader errors wrap ErrLoadConfig.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/okian/roastcurve/internal/domain/model"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// MaxProfiles caps the number of profiles per session.
	MaxProfiles int `koanf:"max_profiles"`

	// MaxPoints caps the number of rows per profile.
	MaxPoints int `koanf:"max_points"`

	// DefaultProfiles is how many empty profiles a new session starts with.
	DefaultProfiles int `koanf:"default_profiles"`

	// DefaultMode is the input mode of new sessions: absolute or interval.
	DefaultMode string `koanf:"default_mode"`

	// Interpolate and ShowROR seed the display flags of new sessions.
	Interpolate bool `koanf:"interpolate"`
	ShowROR     bool `koanf:"show_ror"`

	// SessionTTLMinutes expires idle sessions from the store.
	SessionTTLMinutes int `koanf:"session_ttl_minutes"`

	// CompressionLevel is the zstd level for stored sessions (1 fastest .. 4 best).
	CompressionLevel int `koanf:"compression_level"`

	// ChartWidth and ChartHeight size the rendered PNG in pixels.
	ChartWidth  int `koanf:"chart_width"`
	ChartHeight int `koanf:"chart_height"`

	// RORAxisMax fixes the upper bound of the ROR axis; 0 lets the chart autoscale.
	RORAxisMax float64 `koanf:"ror_axis_max"`

	// ProfileNamePrefix is used for automatic profile names ("Profile 4").
	ProfileNamePrefix string `koanf:"profile_name_prefix"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "text",
		Addr:              ":9080",
		MaxProfiles:       10,
		MaxPoints:         21,
		DefaultProfiles:   3,
		DefaultMode:       "absolute",
		Interpolate:       false,
		ShowROR:           true,
		SessionTTLMinutes: 24 * 60,
		CompressionLevel:  2,
		ChartWidth:        1024,
		ChartHeight:       576,
		RORAxisMax:        0,
		ProfileNamePrefix: "Profile",
	}
}

// SessionTTL returns the session expiry as a duration.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLMinutes) * time.Minute
}

// Validate reports the first invalid setting and canonicalizes default_mode.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.MaxProfiles < 1:
		return fmt.Errorf("%w: max_profiles must be positive, got %d", ErrInvalidConfig, c.MaxProfiles)
	case c.MaxPoints < 1:
		return fmt.Errorf("%w: max_points must be positive, got %d", ErrInvalidConfig, c.MaxPoints)
	case c.DefaultProfiles < 0 || c.DefaultProfiles > c.MaxProfiles:
		return fmt.Errorf("%w: default_profiles must be within [0, %d], got %d",
			ErrInvalidConfig, c.MaxProfiles, c.DefaultProfiles)
	case c.SessionTTLMinutes < 1:
		return fmt.Errorf("%w: session_ttl_minutes must be positive, got %d", ErrInvalidConfig, c.SessionTTLMinutes)
	case c.CompressionLevel < 1 || c.CompressionLevel > 4:
		return fmt.Errorf("%w: compression_level must be within [1, 4], got %d", ErrInvalidConfig, c.CompressionLevel)
	case c.ChartWidth < 1 || c.ChartHeight < 1:
		return fmt.Errorf("%w: chart size must be positive, got %dx%d", ErrInvalidConfig, c.ChartWidth, c.ChartHeight)
	case c.RORAxisMax < 0:
		return fmt.Errorf("%w: ror_axis_max must not be negative", ErrInvalidConfig)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log_format must be text or json, got %q", ErrInvalidConfig, c.LogFormat)
	}
	mode, err := model.ParseInputMode(c.DefaultMode)
	if err != nil {
		return fmt.Errorf("%w: default_mode: %w", ErrInvalidConfig, err)
	}
	c.DefaultMode = string(mode)
	return nil
}
