package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/kynaruniverse/Unearth/internal/engine"
)

// PathEnv overrides the config file location.
const PathEnv = "UNEARTH_CONFIG"

// Config holds all Unearth configuration.
type Config struct {
	// Database file; empty means storage.DefaultDBPath.
	DBPath string `yaml:"db_path" env:"UNEARTH_DB"`

	Log         LogConfig         `yaml:"log" envPrefix:"UNEARTH_LOG_"`
	Progression ProgressionConfig `yaml:"progression"`
}

type LogConfig struct {
	Mode  string `yaml:"mode" env:"MODE"`   // dev, prod
	Level string `yaml:"level" env:"LEVEL"` // debug, info, warn, error
}

type ProgressionConfig struct {
	ChallengeTarget int    `yaml:"challenge_target" env:"UNEARTH_CHALLENGE_TARGET"`
	LevelUpMode     string `yaml:"level_up_mode" env:"UNEARTH_LEVEL_UP_MODE"` // loop, single
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Mode:  "prod",
			Level: "warn",
		},
		Progression: ProgressionConfig{
			ChallengeTarget: engine.DefaultChallengeTarget,
			LevelUpMode:     string(engine.LevelUpLoop),
		},
	}
}

// DefaultPath returns $UNEARTH_CONFIG or ~/.config/unearth/config.yaml.
func DefaultPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv(PathEnv)); p != "" {
		return p, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("get config dir: %w", err)
	}
	return filepath.Join(dir, "unearth", "config.yaml"), nil
}

// Load reads the YAML file at path (a missing file means defaults) and then
// applies environment overrides.
func Load(path string) (*Config, error) {
	cfg, err := loadFile(path)
	if err != nil {
		return nil, err
	}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile is Load without environment overrides: defaults merged with
// the file only.
func LoadFile(path string) (*Config, error) {
	cfg, err := loadFile(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Progression.ChallengeTarget <= 0 {
		return fmt.Errorf("progression.challenge_target must be positive, got %d", c.Progression.ChallengeTarget)
	}
	if _, err := engine.ParseLevelUpMode(c.Progression.LevelUpMode); err != nil {
		return fmt.Errorf("progression.level_up_mode: %w", err)
	}
	switch strings.ToLower(c.Log.Mode) {
	case "", "dev", "development", "prod", "production":
	default:
		return fmt.Errorf("log.mode must be dev or prod, got %q", c.Log.Mode)
	}
	return nil
}

// EngineOptions maps the progression settings onto engine options.
func (c *Config) EngineOptions() engine.Options {
	mode, _ := engine.ParseLevelUpMode(c.Progression.LevelUpMode)
	return engine.Options{
		ChallengeTarget: c.Progression.ChallengeTarget,
		LevelUpMode:     mode,
	}
}
