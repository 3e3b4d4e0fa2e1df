package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdirTemp moves the test into an empty directory so that config discovery
// cannot pick up files from the developer's environment.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	orig, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(orig) })
	t.Setenv("HOME", t.TempDir())
	return dir
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "https://api.pinterest.com/v1/", cfg.API.BaseURL)
	assert.Contains(t, cfg.API.UserAgent, "Mozilla/5.0")
	assert.Equal(t, 10, cfg.Download.Threads)
	assert.Equal(t, time.Duration(0), cfg.Download.Timeout)
	assert.Equal(t, ".", cfg.Output.BaseDirectory)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid defaults",
			mutate: func(c *Config) {},
		},
		{
			name:    "zero threads",
			mutate:  func(c *Config) { c.Download.Threads = 0 },
			wantErr: "thread count must be at least 1",
		},
		{
			name:    "negative threads",
			mutate:  func(c *Config) { c.Download.Threads = -3 },
			wantErr: "thread count must be at least 1",
		},
		{
			name:    "negative timeout",
			mutate:  func(c *Config) { c.Download.Timeout = -time.Second },
			wantErr: "download timeout cannot be negative",
		},
		{
			name:    "empty output directory",
			mutate:  func(c *Config) { c.Output.BaseDirectory = "" },
			wantErr: "output directory is required",
		},
		{
			name:    "empty base URL",
			mutate:  func(c *Config) { c.API.BaseURL = "" },
			wantErr: "API base URL is required",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Logging.Level = "loud" },
			wantErr: "invalid log level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
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

func TestValidateJoinsMultipleErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Download.Threads = 0
	cfg.Output.BaseDirectory = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "thread count must be at least 1")
	assert.Contains(t, err.Error(), "output directory is required")
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PINDL_THREADS", "4")
	t.Setenv("PINDL_OUT_DIR", "/tmp/boards")
	t.Setenv("PINDL_LOG_LEVEL", "debug")
	t.Setenv("PINDL_HTTP_TIMEOUT", "30s")
	t.Setenv("PINDL_USER_AGENT", "test-agent")

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromEnv())

	assert.Equal(t, 4, cfg.Download.Threads)
	assert.Equal(t, "/tmp/boards", cfg.Output.BaseDirectory)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 30*time.Second, cfg.Download.Timeout)
	assert.Equal(t, "test-agent", cfg.API.UserAgent)
}

func TestLoadFromEnvRejectsBadTimeout(t *testing.T) {
	t.Setenv("PINDL_HTTP_TIMEOUT", "soon")

	cfg := DefaultConfig()
	assert.Error(t, cfg.LoadFromEnv())
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pindl.yaml")
	content := `
api:
  base_url: "https://api.example.test/v1/"
download:
  threads: 3
output:
  base_directory: "/data/pins"
logging:
  level: warn
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromFile(path))

	assert.Equal(t, "https://api.example.test/v1/", cfg.API.BaseURL)
	assert.Equal(t, 3, cfg.Download.Threads)
	assert.Equal(t, "/data/pins", cfg.Output.BaseDirectory)
	assert.Equal(t, "warn", cfg.Logging.Level)
	// Values the file does not mention keep their defaults.
	assert.Contains(t, cfg.API.UserAgent, "Mozilla/5.0")
}

func TestLoadFromFileErrors(t *testing.T) {
	t.Run("missing explicit file", func(t *testing.T) {
		cfg := DefaultConfig()
		assert.Error(t, cfg.LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml")))
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("download: ["), 0644))
		cfg := DefaultConfig()
		assert.Error(t, cfg.LoadFromFile(path))
	})

	t.Run("no file anywhere is fine", func(t *testing.T) {
		chdirTemp(t)
		cfg := DefaultConfig()
		assert.NoError(t, cfg.LoadFromFile(""))
		assert.Equal(t, 10, cfg.Download.Threads)
	})
}

func TestMergeCommandLineFlags(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MergeCommandLineFlags(map[string]interface{}{
		"out-dir": "/srv/pins",
		"threads": 2,
		"debug":   true,
	})

	assert.Equal(t, "/srv/pins", cfg.Output.BaseDirectory)
	assert.Equal(t, 2, cfg.Download.Threads)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadPrecedence(t *testing.T) {
	dir := chdirTemp(t)

	path := filepath.Join(dir, "pindl.yaml")
	require.NoError(t, os.WriteFile(path, []byte("download:\n  threads: 5\n"), 0644))

	t.Setenv("PINDL_THREADS", "7")

	t.Run("env beats file", func(t *testing.T) {
		cfg, err := Load(path, nil)
		require.NoError(t, err)
		assert.Equal(t, 7, cfg.Download.Threads)
	})

	t.Run("flags beat env", func(t *testing.T) {
		cfg, err := Load(path, map[string]interface{}{"threads": 9})
		require.NoError(t, err)
		assert.Equal(t, 9, cfg.Download.Threads)
	})
}

func TestLoadValidatesResult(t *testing.T) {
	dir := chdirTemp(t)
	path := filepath.Join(dir, "pindl.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: loud\n"), 0644))

	_, err := Load(path, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "pindl.yaml")

	cfg := DefaultConfig()
	cfg.Download.Threads = 6
	cfg.Output.BaseDirectory = "/data/pins"
	require.NoError(t, cfg.Save(path))

	loaded := DefaultConfig()
	require.NoError(t, loaded.LoadFromFile(path))
	assert.Equal(t, cfg, loaded)
}
