// Package config loads simulation settings from a JSON file with
// environment variable overrides.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"immunesim/sim"
)

// ErrInvalid is returned by Validate for unusable settings
var ErrInvalid = errors.New("invalid configuration")

// Environment variables that override file values
const (
	EnvSeed     = "IMMUNESIM_SEED"
	EnvWidth    = "IMMUNESIM_WIDTH"
	EnvHeight   = "IMMUNESIM_HEIGHT"
	EnvBoundary = "IMMUNESIM_BOUNDARY"
	EnvTickMS   = "IMMUNESIM_TICK_MS"
)

// Config holds the application configuration
type Config struct {
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	TickRateMS int    `json:"tick_rate_ms"`
	Seed       int64  `json:"seed"` // 0 seeds from the clock
	Boundary   string `json:"boundary"`
	OutputFile string `json:"output_file"`
	HTTPPort   string `json:"http_port"`
	GRPCPort   string `json:"grpc_port"`
	Autostart  bool   `json:"autostart"`
}

// Default returns the stock configuration: a 50x50 clamped grid ticking every 100ms
func Default() *Config {
	return &Config{
		Width:      50,
		Height:     50,
		TickRateMS: 100,
		Boundary:   sim.BoundaryClamp.String(),
		HTTPPort:   "8080",
		GRPCPort:   "9090",
	}
}

// TickRate returns the tick period
func (c *Config) TickRate() time.Duration {
	return time.Duration(c.TickRateMS) * time.Millisecond
}

// BoundaryPolicy parses the configured boundary
func (c *Config) BoundaryPolicy() (sim.Boundary, error) {
	return sim.ParseBoundary(c.Boundary)
}

// Validate checks the configuration for values the simulation cannot run with
func (c *Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: grid must be positive, got %dx%d", ErrInvalid, c.Width, c.Height)
	}
	if c.TickRateMS <= 0 {
		return fmt.Errorf("%w: tick_rate_ms must be positive, got %d", ErrInvalid, c.TickRateMS)
	}
	if _, err := c.BoundaryPolicy(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// LoadConfig loads the configuration from a file. A missing file is not an
// error: defaults are used. Environment variables override either source.
func LoadConfig(configPath string) (*Config, error) {
	config := Default()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Printf("Config file not found at %s, using defaults and environment variables", configPath)
	} else {
		file, err := os.Open(configPath)
		if err != nil {
			return nil, fmt.Errorf("opening config file: %w", err)
		}
		defer file.Close()

		if err := json.NewDecoder(file).Decode(config); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", configPath, err)
		}
		log.Printf("Configuration loaded from %s", configPath)
	}

	if err := applyEnv(config); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func applyEnv(config *Config) error {
	ints := []struct {
		name string
		dst  *int
	}{
		{EnvWidth, &config.Width},
		{EnvHeight, &config.Height},
		{EnvTickMS, &config.TickRateMS},
	}
	for _, v := range ints {
		raw := os.Getenv(v.name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not an integer", ErrInvalid, v.name, raw)
		}
		*v.dst = n
		log.Printf("Loaded %s from environment variable", v.name)
	}

	if raw := os.Getenv(EnvSeed); raw != "" {
		seed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not an integer", ErrInvalid, EnvSeed, raw)
		}
		config.Seed = seed
		log.Printf("Loaded %s from environment variable", EnvSeed)
	}
	if raw := os.Getenv(EnvBoundary); raw != "" {
		config.Boundary = raw
		log.Printf("Loaded %s from environment variable", EnvBoundary)
	}
	return nil
}

// GetDefaultConfigPath returns the default path for the config file
func GetDefaultConfigPath() string {
	execPath, err := os.Executable()
	if err != nil {
		log.Printf("Warning: Could not determine executable path: %v", err)
		return "config.json"
	}
	return filepath.Join(filepath.Dir(execPath), "config.json")
}

// SaveDefaultConfig creates a default config file if it doesn't exist
func SaveDefaultConfig(configPath string) error {
	if _, err := os.Stat(configPath); err == nil {
		return nil
	}

	file, err := os.Create(configPath)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "    ")
	if err := encoder.Encode(Default()); err != nil {
		return err
	}

	log.Printf("Created default config file at %s", configPath)
	return nil
}
