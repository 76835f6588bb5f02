package main

import (
	"os"

	"github.com/slangcast/slangcast/internal/config"
	"github.com/slangcast/slangcast/internal/keyring"
	"github.com/slangcast/slangcast/internal/ledger"
	"github.com/slangcast/slangcast/internal/schedule"
	"github.com/slangcast/slangcast/internal/x"
)

// Env var names match the original .env layout so the same secrets work
// both locally and in a CI secrets store.
const (
	envGeminiKey     = "GEMINI_API_KEY"
	envXAPIKey       = "X_API_KEY"
	envXAPISecret    = "X_API_KEY_SECRET"
	envXAccessToken  = "X_ACCESS_TOKEN"
	envXAccessSecret = "X_ACCESS_TOKEN_SECRET"
)

// credentials bundles everything a posting run needs to authenticate.
type credentials struct {
	GeminiKey string
	X         x.Credentials
}

// resolveCredentials loads secrets env-first (headless CI), falling back to
// the OS keyring (interactive setups via "slangcast auth login").
func resolveCredentials() (credentials, error) {
	creds := credentials{
		GeminiKey: os.Getenv(envGeminiKey),
		X: x.Credentials{
			APIKey:       os.Getenv(envXAPIKey),
			APISecret:    os.Getenv(envXAPISecret),
			AccessToken:  os.Getenv(envXAccessToken),
			AccessSecret: os.Getenv(envXAccessSecret),
		},
	}
	if creds.GeminiKey != "" && creds.X.Complete() {
		return creds, nil
	}

	fill := func(current *string, name string) error {
		if *current != "" {
			return nil
		}
		v, err := keyring.Get(name)
		if err != nil {
			// An unavailable keychain (headless Linux without a Secret
			// Service) is the same situation as a missing secret: the
			// user has to run auth login or set the env var.
			return newCLIError(ExitNotConfigured, "not_configured",
				"Not configured. Run \"slangcast auth login\" or set "+envNameFor(name)+".")
		}
		*current = v
		return nil
	}

	for _, pair := range []struct {
		dst  *string
		name string
	}{
		{&creds.GeminiKey, keyring.GeminiAPIKey},
		{&creds.X.APIKey, keyring.XAPIKey},
		{&creds.X.APISecret, keyring.XAPISecret},
		{&creds.X.AccessToken, keyring.XAccessToken},
		{&creds.X.AccessSecret, keyring.XAccessSecret},
	} {
		if err := fill(pair.dst, pair.name); err != nil {
			return credentials{}, err
		}
	}

	return creds, nil
}

// envNameFor maps a keyring secret name to its env var equivalent.
func envNameFor(name string) string {
	switch name {
	case keyring.GeminiAPIKey:
		return envGeminiKey
	case keyring.XAPIKey:
		return envXAPIKey
	case keyring.XAPISecret:
		return envXAPISecret
	case keyring.XAccessToken:
		return envXAccessToken
	case keyring.XAccessSecret:
		return envXAccessSecret
	}
	return name
}

// loadConfigOrDefault reads the config, falling back to the default schedule
// when the file is unreadable. The zero-value Schedule is never active, so a
// corrupt config must not produce it — the run command would silently skip
// every scheduled post.
func loadConfigOrDefault() config.Config {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{Schedule: schedule.DefaultSchedule()}
	}
	return cfg
}

// applyLedgerOverride points the ledger at the flag- or config-selected
// file. The flag (and SLANGCAST_LEDGER) wins over the config entry.
func applyLedgerOverride(globals *Globals, cfg config.Config) {
	switch {
	case globals.Ledger != "":
		ledger.SetPath(globals.Ledger)
	case cfg.LedgerPath != "":
		ledger.SetPath(cfg.LedgerPath)
	}
}

// maskSecret shows only the first few characters of a secret.
func maskSecret(s string) string {
	if len(s) <= 4 {
		return "****"
	}
	return s[:4] + "..."
}
