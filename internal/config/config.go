// internal/config/config.go
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"twig/shared/utils"
)

const (
	// FileName is the config file inside the repository metadata directory.
	FileName = "config.json"

	envLogLevel = "TWIG_LOG_LEVEL"
)

type Config struct {
	LogLevel      string `json:"log_level"` // debug, info, warn, error
	CacheSize     int    `json:"cache_size"`
	DefaultBranch string `json:"default_branch"`

	Compression struct {
		MinSize int `json:"min_size"`
		Level   int `json:"level"`
	} `json:"compression"`
}

func Default() *Config {
	cfg := &Config{
		LogLevel:      "warn",
		CacheSize:     1000,
		DefaultBranch: "master",
	}
	cfg.Compression.MinSize = 1024
	cfg.Compression.Level = 2
	return cfg
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	config := Default()

	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			config.applyEnv()
			return config, nil
		}
		return nil, fmt.Errorf("opening config: %w", err)
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(config); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := config.validate(); err != nil {
		return nil, err
	}

	config.applyEnv()
	return config, nil
}

func (c *Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := utils.SafeWrite(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() {
	if level := os.Getenv(envLogLevel); level != "" {
		c.LogLevel = level
	}
}

func (c *Config) validate() error {
	if c.CacheSize <= 0 {
		return fmt.Errorf("cache_size must be positive, got %d", c.CacheSize)
	}
	if c.DefaultBranch == "" {
		return fmt.Errorf("default_branch is required")
	}
	if c.Compression.Level < 1 || c.Compression.Level > 4 {
		return fmt.Errorf("compression.level must be between 1 and 4, got %d", c.Compression.Level)
	}
	return nil
}
