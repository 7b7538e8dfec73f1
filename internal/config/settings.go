package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Settings are the CLI runtime settings read from the process environment
type Settings struct {
	// ConfigPath overrides the roster_config.yaml lookup
	ConfigPath string `env:"ROSTER_CONFIG"`

	// DatasetPath overrides the dataset path of the config file
	DatasetPath string `env:"ROSTER_DATASET" envDefault:"roster_data.yaml"`

	LogDir string `env:"ROSTER_LOG_DIR" envDefault:"logs"`

	// DatabaseURL selects the PostgreSQL store instead of the dataset file
	DatabaseURL string `env:"ROSTER_DATABASE_URL"`
}

// LoadSettings loads the existing .env files, then parses the environment.
// Variables already set in the process take precedence over the files.
func LoadSettings(envFiles ...string) (*Settings, error) {
	existing := make([]string, 0, len(envFiles))
	for _, file := range envFiles {
		if _, err := os.Stat(file); err == nil {
			existing = append(existing, file)
		}
	}
	if len(existing) > 0 {
		if err := godotenv.Load(existing...); err != nil {
			return nil, fmt.Errorf("failed to load env files: %w", err)
		}
	}

	var settings Settings
	if err := env.Parse(&settings); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return &settings, nil
}

// LoadConfig loads the config from ConfigPath, or searches for it when unset.
// The dataset path from the environment wins unless the file names one and the
// environment only holds the default.
func (s *Settings) LoadConfig() (*Config, error) {
	var (
		cfg *Config
		err error
	)
	if s.ConfigPath != "" {
		cfg, err = LoadFromPath(s.ConfigPath)
	} else {
		cfg, err = Load()
	}
	if err != nil {
		return nil, err
	}

	if _, set := os.LookupEnv("ROSTER_DATASET"); set || cfg.DatasetPath == "" {
		cfg.DatasetPath = s.DatasetPath
	}
	return cfg, nil
}
