// Package ledger persists the set of slang terms the bot has already
// posted, so no term is ever posted twice.
package ledger

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Entry is a single posted-slang record.
type Entry struct {
	ID       string `json:"id"`
	Slang    string `json:"slang"`
	Post     string `json:"post"`
	TweetID  string `json:"tweet_id,omitempty"`
	PostedAt string `json:"posted_at"`
}

// dataDir is overridable for testing.
var dataDir = defaultDataDir

func defaultDataDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "slangcast")
}

// pathOverride is set via SetPath when the caller points the ledger at an
// explicit file (e.g. a repo-tracked posted_slangs.json in CI).
var pathOverride string

// SetPath overrides the ledger file location. Empty restores the default.
func SetPath(path string) {
	pathOverride = path
}

// Path returns the ledger file location currently in effect.
func Path() string {
	if pathOverride != "" {
		return pathOverride
	}
	return filepath.Join(dataDir(), "posted_slangs.json")
}

// Load reads the ledger file and returns all entries.
// A missing file is an empty ledger, not an error.
func Load() ([]Entry, error) {
	data, err := os.ReadFile(Path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse ledger %s: %w", Path(), err)
	}
	return entries, nil
}

// Normalize canonicalizes a slang term for membership checks:
// lowercased, trimmed, inner whitespace collapsed.
func Normalize(slang string) string {
	return strings.Join(strings.Fields(strings.ToLower(slang)), " ")
}

// Slangs returns the normalized slang terms of all entries.
func Slangs(entries []Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, Normalize(e.Slang))
	}
	return out
}

// Contains reports whether slang is already in the ledger,
// comparing normalized forms.
func Contains(entries []Entry, slang string) bool {
	want := Normalize(slang)
	for _, e := range entries {
		if Normalize(e.Slang) == want {
			return true
		}
	}
	return false
}

// Append records a newly posted slang and persists the ledger atomically.
// Returns the stored entry. Fails without touching the file if the slang is
// already present (the uniqueness invariant lives here, not just in the
// generation prompt).
func Append(slang, post, tweetID string) (*Entry, error) {
	unlock, err := acquireLock()
	if err != nil {
		return nil, err
	}
	defer unlock()

	entries, err := Load()
	if err != nil {
		return nil, err
	}

	if Contains(entries, slang) {
		return nil, fmt.Errorf("slang %q already in ledger", slang)
	}

	entry := Entry{
		ID:       newID(),
		Slang:    slang,
		Post:     post,
		TweetID:  tweetID,
		PostedAt: time.Now().UTC().Format(time.RFC3339),
	}
	entries = append(entries, entry)

	if err := atomicWrite(entries); err != nil {
		return nil, err
	}
	return &entry, nil
}

// Remove deletes an entry by ID. Returns false if the ID is not present.
func Remove(id string) (bool, error) {
	unlock, err := acquireLock()
	if err != nil {
		return false, err
	}
	defer unlock()

	entries, err := Load()
	if err != nil {
		return false, err
	}

	kept := entries[:0]
	found := false
	for _, e := range entries {
		if e.ID == id {
			found = true
			continue
		}
		kept = append(kept, e)
	}
	if !found {
		return false, nil
	}
	return true, atomicWrite(kept)
}

// Clear removes the ledger file entirely.
func Clear() error {
	return os.Remove(Path())
}

// LastPostedTime returns the most recent posted_at across all entries,
// or the zero time for an empty ledger.
func LastPostedTime() (time.Time, error) {
	entries, err := Load()
	if err != nil {
		return time.Time{}, err
	}

	var last time.Time
	for _, e := range entries {
		t, err := time.Parse(time.RFC3339, e.PostedAt)
		if err != nil {
			continue
		}
		if t.After(last) {
			last = t
		}
	}
	return last, nil
}

func atomicWrite(entries []Entry) error {
	path := Path()

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}

	return os.Rename(tmp, path)
}

// newID returns an 8-char random hex ID.
func newID() string {
	b := make([]byte, 4)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
