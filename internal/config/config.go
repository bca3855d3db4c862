// Package config loads server configuration from an optional YAML manifest
// plus a local .env file. The launch contract requires no environment
// variables: every field has a working default, and env vars are read only
// for provider API keys (by the provider SDKs themselves).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the manifest looked up next to the working directory when
// no explicit path is given.
const DefaultPath = "cadbridge.yaml"

type Config struct {
	// Workdir is the directory relative file-path arguments resolve
	// against. Empty means the process working directory.
	Workdir string `yaml:"workdir"`
	// ScriptExtension is the single recognized script extension.
	ScriptExtension string `yaml:"script_extension"`
	LogFile         string `yaml:"log_file"`
	LogLevel        string `yaml:"log_level"`

	Generation   Generation   `yaml:"generation"`
	Verification Verification `yaml:"verification"`
	HTTP         HTTP         `yaml:"http"`
}

type Generation struct {
	// Provider selects the external model backend: anthropic, openai,
	// gemini, or none.
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
}

type Verification struct {
	// Backend selects the verification policy: stub (always pass after the
	// pre-checks) or model (judge the script source with the generation
	// provider's model).
	Backend string `yaml:"backend"`
}

type HTTP struct {
	// Addr enables the HTTP adapter when non-empty (e.g. ":8080").
	Addr string `yaml:"addr"`
}

// Load reads the manifest at path, falling back to DefaultPath and then to
// pure defaults when no file exists. A .env file is applied first when
// present so local development can keep API keys out of the shell.
func Load(path string) (*Config, error) {
	// Best effort: hosts launch the server with no env of their own.
	_ = godotenv.Load()

	cfg := defaults()

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.normalize()
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		ScriptExtension: ".py",
		LogFile:         "cadbridge.log",
		LogLevel:        "info",
		Generation:      Generation{Provider: "none"},
		Verification:    Verification{Backend: "stub"},
	}
}

// normalize folds the enumerated fields to lowercase so validation and the
// wiring in main compare against one spelling.
func (c *Config) normalize() {
	c.Verification.Backend = strings.ToLower(c.Verification.Backend)
	c.Generation.Provider = strings.ToLower(c.Generation.Provider)
	c.LogLevel = strings.ToLower(c.LogLevel)
}

func (c *Config) validate() error {
	switch c.Verification.Backend {
	case "", "stub", "model":
	default:
		return fmt.Errorf("unknown verification backend %q", c.Verification.Backend)
	}
	switch c.Generation.Provider {
	case "", "none", "anthropic", "openai", "gemini":
	default:
		return fmt.Errorf("unknown generation provider %q", c.Generation.Provider)
	}
	if c.Verification.Backend == "model" && (c.Generation.Provider == "" || c.Generation.Provider == "none") {
		return errors.New("verification backend \"model\" requires a generation provider")
	}
	return nil
}
