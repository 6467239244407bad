// Package config provides configuration loading and structs for the saiyo server and CLI.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug       bool              `yaml:"debug"`
	Server      ServerConfig      `yaml:"server"`
	Ranking     RankingConfig     `yaml:"ranking"`
	Extract     ExtractConfig     `yaml:"extract"`
	Diagnostics DiagnosticsConfig `yaml:"diagnostics"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`
	MaxUploadMB int    `yaml:"max_upload_mb"`
	Title       string `yaml:"title"`
}

// MaxUploadBytes returns the request body limit in bytes.
func (s *ServerConfig) MaxUploadBytes() int64 {
	return int64(s.MaxUploadMB) << 20
}

// RankingConfig holds TF-IDF vectorizer settings.
type RankingConfig struct {
	// Analyzer is "plain" (lowercase, no stop words) or "standard" (adds English stop words).
	Analyzer       string `yaml:"analyzer"`
	MinTokenLength int    `yaml:"min_token_length"`
	SublinearTF    bool   `yaml:"sublinear_tf"`
	// PreviewChars caps the text preview per result. Zero means the default,
	// a negative value disables previews.
	PreviewChars   int    `yaml:"preview_chars"`
}

// ExtractConfig lists the document extensions accepted for ranking.
type ExtractConfig struct {
	Extensions []string `yaml:"extensions"`
}

// Accepts reports whether ext (with leading dot) is in the configured list.
func (e *ExtractConfig) Accepts(ext string) bool {
	ext = strings.ToLower(ext)
	for _, allowed := range e.Extensions {
		if strings.ToLower(allowed) == ext {
			return true
		}
	}
	return false
}

// DiagnosticsConfig toggles process diagnostics for the server.
type DiagnosticsConfig struct {
	Gops bool `yaml:"gops"`
}

// Load reads and parses the config file at path, applies defaults and environment
// overrides, and validates the result.
// Returns an error if the file cannot be read or parsed, or the values are invalid.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return finish(&cfg)
}

// Default returns a config built only from defaults and environment overrides.
func Default() (*Config, error) {
	return finish(&Config{})
}

func finish(cfg *Config) (*Config, error) {
	ApplyDefaults(cfg)
	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config to path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Write encodes the config as YAML to w.
func Write(w io.Writer, cfg *Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return enc.Close()
}

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Validate checks value ranges after defaults have been applied.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: server.port %d out of range", ErrInvalidConfig, c.Server.Port)
	}
	if c.Server.MaxUploadMB < 1 {
		return fmt.Errorf("%w: server.max_upload_mb must be positive", ErrInvalidConfig)
	}
	switch c.Ranking.Analyzer {
	case AnalyzerPlain, AnalyzerStandard:
	default:
		return fmt.Errorf("%w: ranking.analyzer %q (use %q or %q)",
			ErrInvalidConfig, c.Ranking.Analyzer, AnalyzerPlain, AnalyzerStandard)
	}
	if c.Ranking.MinTokenLength < 1 {
		return fmt.Errorf("%w: ranking.min_token_length must be positive", ErrInvalidConfig)
	}
	if len(c.Extract.Extensions) == 0 {
		return fmt.Errorf("%w: extract.extensions is empty", ErrInvalidConfig)
	}
	return nil
}
