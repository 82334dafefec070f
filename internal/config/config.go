package config

import (
	"errors"
	"fmt"
	"os"

	"sigscope/internal/errs"

	"gopkg.in/yaml.v2"
)

type AppConfig struct {
	Port     int    `yaml:"port"`
	LogLevel string `yaml:"log_level"`

	// DisableMCP turns off the /mcp endpoint served next to the HTTP API
	DisableMCP bool `yaml:"disable_mcp"`
}

type SignatureConfig struct {
	// Extractors are tried in order; the scan extractor is always the final fallback
	Extractors []string `yaml:"extractors"`
	// Language selects the tree-sitter grammar: javascript or typescript
	Language string `yaml:"language"`
}

type Config struct {
	App       AppConfig       `yaml:"app"`
	Signature SignatureConfig `yaml:"signature"`
}

// Default returns the configuration used when no file is given
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// LoadConfig reads the YAML file at path and fills unset fields with defaults
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, errs.NewInvalidPathError("config file not found", path)
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML configuration and validates it
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting
func (c *Config) Validate() error {
	if c.App.Port < 0 || c.App.Port > 65535 {
		return errs.NewInvalidObjectError(c.App.Port, "port out of range")
	}
	switch c.Signature.Language {
	case "javascript", "typescript":
	default:
		return errs.NewInvalidObjectError(c.Signature.Language, "unsupported signature language")
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.App.Port == 0 {
		c.App.Port = 8080
	}
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	if len(c.Signature.Extractors) == 0 {
		c.Signature.Extractors = []string{"treesitter", "scan"}
	}
	if c.Signature.Language == "" {
		c.Signature.Language = "javascript"
	}
}
