package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/slangcast/slangcast/internal/schedule"
)

// Config holds the application configuration.
type Config struct {
	Schedule schedule.Schedule `json:"schedule"`
	// Model overrides the default Gemini model when set.
	Model string `json:"model,omitempty"`
	// LedgerPath points the ledger at an explicit file (e.g. a checkout
	// of the repo that tracks posted_slangs.json). Empty uses the data dir.
	LedgerPath string `json:"ledger_path,omitempty"`
}

// configDir is overridable for testing.
var configDir = defaultConfigDir

func defaultConfigDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "slangcast")
}

func configPath() string {
	return filepath.Join(configDir(), "config.json")
}

// Load reads the config file. Returns defaults if the file doesn't exist.
func Load() (Config, error) {
	data, err := os.ReadFile(configPath())
	if err != nil {
		if os.IsNotExist(err) {
			return Config{Schedule: schedule.DefaultSchedule()}, nil
		}
		return Config{}, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	dir := configDir()
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(configPath(), data, 0o600)
}
