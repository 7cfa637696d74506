package am

import (
	"github.com/spf13/viper"
)

// DefaultDirPermissions is used when creating ~/.tripgen
const DefaultDirPermissions = 0755

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	// Generation defaults
	v.SetDefault("generation.declarations_package", DefaultDeclarationsPackage)
	v.SetDefault("generation.implementation_package", DefaultImplementationPackage)
	v.SetDefault("generation.file_extension", DefaultFileExtension)

	// Server defaults
	v.SetDefault("server.port", DefaultServerPort)
	v.SetDefault("server.requests_per_second", 20.0)
	v.SetDefault("server.burst", 40)

	// Database defaults
	v.SetDefault("database.path", DefaultDatabasePath)

	// Watcher defaults
	v.SetDefault("watch.debounce_ms", 300)
}

// Defaults returns the built-in configuration, ignoring files and the
// environment.
func Defaults() *Config {
	v := viper.New()
	SetDefaults(v)
	cfg, err := LoadWithViper(v)
	if err != nil {
		// built-in defaults always validate
		panic(err)
	}
	return cfg
}
