package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variables that override file values.
const (
	EnvHost     = "SAIYO_HOST"
	EnvPort     = "SAIYO_PORT"
	EnvDebug    = "SAIYO_DEBUG"
	EnvAnalyzer = "SAIYO_ANALYZER"
)

// LoadDotEnv loads KEY=VALUE pairs from the given .env files into the process
// environment without overwriting variables that are already set.
// Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// ApplyEnv overrides cfg with SAIYO_* environment variables when they are set.
func ApplyEnv(cfg *Config) error {
	if v, ok := os.LookupEnv(EnvHost); ok && v != "" {
		cfg.Server.Host = v
	}
	if v, ok := os.LookupEnv(EnvPort); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not a number", ErrInvalidConfig, EnvPort, v)
		}
		cfg.Server.Port = port
	}
	if v, ok := os.LookupEnv(EnvDebug); ok && v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not a boolean", ErrInvalidConfig, EnvDebug, v)
		}
		cfg.Debug = debug
	}
	if v, ok := os.LookupEnv(EnvAnalyzer); ok && v != "" {
		cfg.Ranking.Analyzer = v
	}
	return nil
}
