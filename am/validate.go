package am

import (
	"strings"

	"github.com/teranos/tripgen/errors"
)

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if err := c.GenerationConfig().Validate(); err != nil {
		return errors.Wrap(err, "generation")
	}
	if ext := c.Generation.FileExtension; ext != "" && !strings.HasPrefix(ext, ".") {
		return errors.Newf("generation.file_extension must start with a dot, got %q", ext)
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return errors.Newf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	// 0 = no rate limiting, negative = invalid
	if c.Server.RequestsPerSecond < 0 {
		return errors.Newf("server.requests_per_second must be >= 0, got %f", c.Server.RequestsPerSecond)
	}
	if c.Server.RequestsPerSecond > 0 && c.Server.Burst <= 0 {
		return errors.Newf("server.burst must be > 0 when rate limiting is enabled, got %d", c.Server.Burst)
	}

	if strings.TrimSpace(c.Database.Path) == "" {
		return errors.New("database.path cannot be empty")
	}

	if c.Watch.DebounceMS < 0 {
		return errors.Newf("watch.debounce_ms must be >= 0, got %d", c.Watch.DebounceMS)
	}

	return nil
}
