package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/canopy/internal/logging"
)

// settings are the file-configurable defaults; command-line flags override
// them.
type settings struct {
	Interval time.Duration `yaml:"interval"`
	RunRoots bool          `yaml:"run_roots"`
	Listen   string        `yaml:"listen"`
	LogLevel string        `yaml:"log_level"`
	StoreDir string        `yaml:"store_dir"`
	Redis    redisSettings `yaml:"redis"`
}

type redisSettings struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

func defaultSettings() settings {
	return settings{
		Interval: 50 * time.Millisecond,
		RunRoots: true,
		Listen:   "127.0.0.1:8180",
		LogLevel: "info",
	}
}

// loadSettings reads the optional yaml file named by --config.
func loadSettings(cmd *cobra.Command) (settings, error) {
	cfg := defaultSettings()

	path, _ := cmd.Flags().GetString("config")
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}

	if level, _ := cmd.Flags().GetString("log-level"); cmd.Flags().Changed("log-level") || path == "" {
		cfg.LogLevel = level
	}
	return cfg, nil
}

// newLogger builds the CLI logger from settings.
func newLogger(cfg settings) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	return logging.New(level), nil
}
