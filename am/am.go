// Package am loads tripgen's configuration ("am" is the config file's name:
// am.toml) through viper: built-in defaults, then system, user and project
// TOML files, then TRIPGEN_* environment variables.
package am

import (
	"time"

	"github.com/teranos/tripgen/typegen/render"
)

// Config represents the complete tripgen configuration
type Config struct {
	Generation GenerationConfig `mapstructure:"generation" toml:"generation"`
	Server     ServerConfig     `mapstructure:"server" toml:"server"`
	Database   DatabaseConfig   `mapstructure:"database" toml:"database"`
	Watch      WatchConfig      `mapstructure:"watch" toml:"watch"`
}

// GenerationConfig configures the packages and file naming of generated Kotlin
type GenerationConfig struct {
	DeclarationsPackage   string `mapstructure:"declarations_package" toml:"declarations_package"`
	ImplementationPackage string `mapstructure:"implementation_package" toml:"implementation_package"`
	FileExtension         string `mapstructure:"file_extension" toml:"file_extension"`
}

// ServerConfig configures the HTTP server
type ServerConfig struct {
	Port              int     `mapstructure:"port" toml:"port"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second" toml:"requests_per_second"` // 0 disables rate limiting
	Burst             int     `mapstructure:"burst" toml:"burst"`
}

// DatabaseConfig configures the SQLite project store
type DatabaseConfig struct {
	Path string `mapstructure:"path" toml:"path"`
}

// WatchConfig configures the scenario file watcher
type WatchConfig struct {
	DebounceMS int `mapstructure:"debounce_ms" toml:"debounce_ms"`
}

// Default values
const (
	DefaultServerPort            = 9010
	DefaultDeclarationsPackage   = "io.github.kruchon"
	DefaultImplementationPackage = "test.package"
	DefaultFileExtension         = ".kt"
	DefaultDatabasePath          = "tripgen.db"
)

// GenerationConfig converts the generation section into the render
// configuration passed to every synthesis run.
func (c *Config) GenerationConfig() render.GenerationConfig {
	return render.GenerationConfig{
		DeclarationsPackage:   c.Generation.DeclarationsPackage,
		ImplementationPackage: c.Generation.ImplementationPackage,
		FileExtension:         c.Generation.FileExtension,
	}
}

// Debounce returns the watcher debounce period.
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.Watch.DebounceMS) * time.Millisecond
}
