// Package keyring stores the bot's API secrets in the OS keychain.
package keyring

import (
	"errors"

	gokeyring "github.com/zalando/go-keyring"
)

// ErrNotFound is returned when a secret is not stored.
var ErrNotFound = gokeyring.ErrNotFound

const serviceName = "slangcast"

// Secret names. Scheduled CI runs supply the same values via env vars
// instead (see the credential resolution in the main package).
const (
	GeminiAPIKey  = "gemini-api-key"
	XAPIKey       = "x-api-key"
	XAPISecret    = "x-api-key-secret"
	XAccessToken  = "x-access-token"
	XAccessSecret = "x-access-token-secret"
)

// All lists every secret the bot stores.
var All = []string{GeminiAPIKey, XAPIKey, XAPISecret, XAccessToken, XAccessSecret}

// IsNotFound reports whether err indicates a missing keyring entry.
func IsNotFound(err error) bool {
	return errors.Is(err, gokeyring.ErrNotFound)
}

// Get retrieves a stored secret by name.
func Get(name string) (string, error) {
	return gokeyring.Get(serviceName, name)
}

// Set stores a secret under the given name.
func Set(name, value string) error {
	return gokeyring.Set(serviceName, name, value)
}

// DeleteAll removes every stored secret. Missing entries are not errors.
func DeleteAll() error {
	for _, name := range All {
		if err := gokeyring.Delete(serviceName, name); err != nil && !IsNotFound(err) {
			return err
		}
	}
	return nil
}
