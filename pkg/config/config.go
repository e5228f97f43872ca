// Package config loads the runtime settings of the transit command.
//
// Values are layered: built-in defaults, then an optional YAML file, then a
// .env file and TRANSIT_* environment variables. Command-line flags are
// applied last by the command itself.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the settings of one run.
// Input and Output are file paths, "-" meaning stdin and stdout. An empty
// Format picks the document decoder from the input file extension.
type Config struct {
	Input  string    `yaml:"input"`
	Output string    `yaml:"output"`
	Format string    `yaml:"format" validate:"omitempty,oneof=json yaml"`
	Pretty bool      `yaml:"pretty"`
	Log    LogConfig `yaml:"log"`
}

// LogConfig selects the logger level and formatter.
type LogConfig struct {
	Level  string `yaml:"level" validate:"required"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		Input:  "-",
		Output: "-",
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load builds a Config from defaults, the YAML file at path (skipped when
// empty) and the environment. envFiles are loaded into the environment
// first; ".env" is used when none are given. Missing env files are ignored.
func Load(path string, envFiles ...string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	cfg.Input = getEnv("TRANSIT_INPUT", cfg.Input)
	cfg.Output = getEnv("TRANSIT_OUTPUT", cfg.Output)
	cfg.Format = getEnv("TRANSIT_FORMAT", cfg.Format)
	pretty, err := getEnvAsBool("TRANSIT_PRETTY", cfg.Pretty)
	if err != nil {
		return Config{}, err
	}
	cfg.Pretty = pretty
	cfg.Log.Level = getEnv("TRANSIT_LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getEnv("TRANSIT_LOG_FORMAT", cfg.Log.Format)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field values.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}
