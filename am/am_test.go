package am

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	// Isolated viper instance without user/system config
	v := viper.New()
	SetDefaults(v)

	cfg, err := LoadWithViper(v)
	require.NoError(t, err)

	assert.Equal(t, DefaultDeclarationsPackage, cfg.Generation.DeclarationsPackage)
	assert.Equal(t, DefaultImplementationPackage, cfg.Generation.ImplementationPackage)
	assert.Equal(t, ".kt", cfg.Generation.FileExtension)
	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, 20.0, cfg.Server.RequestsPerSecond)
	assert.Equal(t, 40, cfg.Server.Burst)
	assert.Equal(t, "tripgen.db", cfg.Database.Path)
	assert.Equal(t, 300*time.Millisecond, cfg.Debounce())

	gen := cfg.GenerationConfig()
	assert.Equal(t, "io.github.kruchon", gen.DeclarationsPackage)
	assert.Equal(t, "test.package", gen.ImplementationPackage)
	assert.Equal(t, ".kt", gen.Extension())
}

func TestDefaults(t *testing.T) {
	t.Setenv("TRIPGEN_SERVER_PORT", "1234")
	cfg := Defaults()
	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, DefaultDatabasePath, cfg.Database.Path)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "am.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[generation]
declarations_package = "com.example.api"

[server]
port = 8080
`), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "com.example.api", cfg.Generation.DeclarationsPackage)
	assert.Equal(t, DefaultImplementationPackage, cfg.Generation.ImplementationPackage)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoadFromFile_EnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "am.toml")
	require.NoError(t, os.WriteFile(path, []byte("[server]\nport = 8080\n"), 0644))
	t.Setenv("TRIPGEN_SERVER_PORT", "9999")

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 9999, cfg.Server.Port)
}

func TestLoadFromFile_Errors(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "am.toml")
	require.NoError(t, os.WriteFile(path, []byte("[server]\nport = -1\n"), 0644))
	_, err = LoadFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.port")
}

func TestMergeConfigFiles_Precedence(t *testing.T) {
	dir := t.TempDir()
	user := filepath.Join(dir, "user.toml")
	project := filepath.Join(dir, "project.toml")
	require.NoError(t, os.WriteFile(user, []byte("[server]\nport = 7000\nburst = 5\n"), 0644))
	require.NoError(t, os.WriteFile(project, []byte("[server]\nport = 7001\n"), 0644))

	v := viper.New()
	SetDefaults(v)
	merged := mergeConfigFiles(v, []string{filepath.Join(dir, "absent.toml"), user, project})

	assert.Equal(t, []string{user, project}, merged)
	assert.Equal(t, 7001, v.GetInt("server.port"))
	assert.Equal(t, 5, v.GetInt("server.burst"))
	assert.Equal(t, DefaultDatabasePath, v.GetString("database.path"))
}

func TestFindProjectConfig(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0755))

	assert.Empty(t, findProjectConfig(nested))

	path := filepath.Join(root, "a", ProjectConfigName)
	require.NoError(t, os.WriteFile(path, []byte(""), 0644))
	assert.Equal(t, path, findProjectConfig(nested))
}

func TestLoad_CachedUntilReset(t *testing.T) {
	Reset()
	t.Cleanup(Reset)
	t.Setenv("TRIPGEN_DATABASE_PATH", "cached.db")

	first, err := Load()
	require.NoError(t, err)
	second, err := Load()
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, "cached.db", first.Database.Path)

	Reset()
	third, err := Load()
	require.NoError(t, err)
	assert.NotSame(t, first, third)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Generation: GenerationConfig{DeclarationsPackage: "a", ImplementationPackage: "b", FileExtension: ".kt"},
			Server:     ServerConfig{Port: 9010, RequestsPerSecond: 20, Burst: 40},
			Database:   DatabaseConfig{Path: "tripgen.db"},
			Watch:      WatchConfig{DebounceMS: 300},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"rate limiting disabled", func(c *Config) { c.Server.RequestsPerSecond = 0; c.Server.Burst = 0 }, ""},
		{"empty declarations package", func(c *Config) { c.Generation.DeclarationsPackage = "" }, "declarations package"},
		{"extension without dot", func(c *Config) { c.Generation.FileExtension = "kt" }, "file_extension"},
		{"zero port", func(c *Config) { c.Server.Port = 0 }, "server.port"},
		{"negative rate", func(c *Config) { c.Server.RequestsPerSecond = -1 }, "requests_per_second"},
		{"zero burst", func(c *Config) { c.Server.Burst = 0 }, "server.burst"},
		{"empty database path", func(c *Config) { c.Database.Path = " " }, "database.path"},
		{"negative debounce", func(c *Config) { c.Watch.DebounceMS = -5 }, "debounce_ms"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestWriteFile_RoundTrip(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	cfg, err := LoadWithViper(v)
	require.NoError(t, err)
	cfg.Generation.DeclarationsPackage = "com.example"

	path := filepath.Join(t.TempDir(), "conf", "am.toml")
	require.NoError(t, WriteFile(path, cfg, false))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)

	err = WriteFile(path, cfg, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
	assert.NoError(t, WriteFile(path, cfg, true))
}
