package config

import (
	"fmt"
	"net/url"

	"github.com/rs/zerolog"
)

// ValidationError names the offending field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Server.Address == "" {
		return &ValidationError{Field: "server.address", Message: "is required"}
	}
	if _, err := c.ZerologLevel(); err != nil {
		return &ValidationError{Field: "log.level", Message: "must be one of: trace, debug, info, warn, error"}
	}
	u, err := url.Parse(c.Backend.Origin)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return &ValidationError{Field: "backend.origin", Message: "must be an absolute http(s) URL"}
	}
	if c.Backend.Timeout <= 0 {
		return &ValidationError{Field: "backend.timeout", Message: "must be positive"}
	}
	if c.Live.ContextTTL < 0 {
		return &ValidationError{Field: "live.context_ttl", Message: "must not be negative"}
	}
	if c.Live.ActionRate < 0 && c.Live.ActionRate != -1 {
		return &ValidationError{Field: "live.action_rate", Message: "must be positive, zero for the default, or -1 to disable"}
	}
	if c.Live.ActionBurst < 0 {
		return &ValidationError{Field: "live.action_burst", Message: "must not be negative"}
	}
	return nil
}

// ZerologLevel parses Log.Level.
func (c *Config) ZerologLevel() (zerolog.Level, error) {
	switch c.Log.Level {
	case "trace", "debug", "info", "warn", "error":
		return zerolog.ParseLevel(c.Log.Level)
	default:
		return zerolog.NoLevel, fmt.Errorf("unknown log level %q", c.Log.Level)
	}
}
