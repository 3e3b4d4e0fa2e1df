// Package config holds the tool's configuration and the layered loading
// logic: defaults, then a YAML file, then environment variables, then
// command line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for the downloader
type Config struct {
	// Pinterest API settings
	API APIConfig `yaml:"api" json:"api"`

	// Download settings
	Download DownloadConfig `yaml:"download" json:"download"`

	// Output settings
	Output OutputConfig `yaml:"output" json:"output"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// APIConfig holds Pinterest API client configuration
type APIConfig struct {
	BaseURL   string `yaml:"base_url" json:"base_url"`
	UserAgent string `yaml:"user_agent" json:"user_agent"`
}

// DownloadConfig holds download-specific configuration
type DownloadConfig struct {
	// Threads is the worker pool size for per-page image downloads.
	Threads int `yaml:"threads" json:"threads"`

	// Timeout applies to every HTTP request. Zero keeps the transport
	// defaults (no timeout), matching the tool's historical behavior.
	Timeout time.Duration `yaml:"timeout" json:"timeout"`
}

// OutputConfig holds output directory configuration
type OutputConfig struct {
	BaseDirectory string `yaml:"base_directory" json:"base_directory"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: "https://api.pinterest.com/v1/",
			UserAgent: "Mozilla/5.0 (X11; Ubuntu; Linux x86_64; rv:41.0) " +
				"Gecko/20100101 Firefox/41.0",
		},
		Download: DownloadConfig{
			Threads: 10,
			Timeout: 0,
		},
		Output: OutputConfig{
			BaseDirectory: ".",
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	if baseURL := os.Getenv("PINDL_API_BASE_URL"); baseURL != "" {
		c.API.BaseURL = baseURL
	}
	if userAgent := os.Getenv("PINDL_USER_AGENT"); userAgent != "" {
		c.API.UserAgent = userAgent
	}

	if threads := os.Getenv("PINDL_THREADS"); threads != "" {
		var val int
		fmt.Sscanf(threads, "%d", &val)
		if val > 0 {
			c.Download.Threads = val
		}
	}
	if timeout := os.Getenv("PINDL_HTTP_TIMEOUT"); timeout != "" {
		val, err := time.ParseDuration(timeout)
		if err != nil {
			return fmt.Errorf("invalid PINDL_HTTP_TIMEOUT: %w", err)
		}
		c.Download.Timeout = val
	}

	if outDir := os.Getenv("PINDL_OUT_DIR"); outDir != "" {
		c.Output.BaseDirectory = outDir
	}

	if logLevel := os.Getenv("PINDL_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}
	if logFile := os.Getenv("PINDL_LOG_FILE"); logFile != "" {
		c.Logging.File = logFile
	}

	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	locations := []string{
		".pindl.yaml",
		".pindl.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "pindl", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".config", "pindl", "config.yml"),
		filepath.Join(os.Getenv("HOME"), ".pindl.yaml"),
		filepath.Join(os.Getenv("HOME"), ".pindl.yml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.API.BaseURL == "" {
		errs = append(errs, errors.New("API base URL is required"))
	}

	if c.Download.Threads < 1 {
		errs = append(errs, errors.New("thread count must be at least 1"))
	}
	if c.Download.Timeout < 0 {
		errs = append(errs, errors.New("download timeout cannot be negative"))
	}

	if c.Output.BaseDirectory == "" {
		errs = append(errs, errors.New("output directory is required"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "warning": true,
		"error": true, "fatal": true, "disabled": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if outDir, ok := flags["out-dir"].(string); ok && outDir != "" {
		c.Output.BaseDirectory = outDir
	}
	if threads, ok := flags["threads"].(int); ok && threads > 0 {
		c.Download.Threads = threads
	}
	if debug, ok := flags["debug"].(bool); ok && debug {
		c.Logging.Level = "debug"
	}
}

// Load loads configuration from all sources with proper precedence.
// Precedence order: command line flags > environment variables > .env file >
// config file > defaults.
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// Try to load .env files (don't fail if they don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".pindl.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
