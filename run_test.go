package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slangcast/slangcast/internal/config"
	"github.com/slangcast/slangcast/internal/gemini"
	"github.com/slangcast/slangcast/internal/ledger"
	"github.com/slangcast/slangcast/internal/schedule"
	"github.com/slangcast/slangcast/internal/x"
)

// fakeGenerator returns queued candidates in order, then errors.
type fakeGenerator struct {
	candidates []gemini.Candidate
	calls      int
	excludes   [][]string
}

func (g *fakeGenerator) Generate(_ context.Context, exclude []string) (*gemini.Candidate, error) {
	g.excludes = append(g.excludes, append([]string(nil), exclude...))
	if g.calls >= len(g.candidates) {
		return nil, errors.New("no more candidates")
	}
	c := g.candidates[g.calls]
	g.calls++
	return &c, nil
}

// fakePoster records posted text and optionally fails.
type fakePoster struct {
	err    error
	posted []string
}

func (p *fakePoster) CreateTweet(_ context.Context, text string) (*x.Tweet, error) {
	if p.err != nil {
		return nil, p.err
	}
	p.posted = append(p.posted, text)
	return &x.Tweet{ID: fmt.Sprintf("99%d", len(p.posted)), Text: text}, nil
}

func withTempLedger(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "posted_slangs.json")
	ledger.SetPath(path)
	t.Cleanup(func() { ledger.SetPath("") })
	return path
}

// permissiveConfig has no guards so runOnce goes straight to generation.
func permissiveConfig() config.Config {
	return config.Config{Schedule: schedule.Schedule{
		StartHour: 0, EndHour: 24,
		Weekdays: []string{"mon", "tue", "wed", "thu", "fri", "sat", "sun"},
	}}
}

func TestRunOnce_AppendsExactlyOneEntry(t *testing.T) {
	withTempLedger(t)

	_, err := ledger.Append("no cap", "old post", "1")
	require.NoError(t, err)

	gen := &fakeGenerator{candidates: []gemini.Candidate{
		{Slang: "spill the tea", Post: "Spill the tea = share the gossip ☕"},
	}}
	poster := &fakePoster{}

	cmd := &RunCmd{Force: true}
	err = cmd.runOnce(context.Background(), &Globals{JSON: true}, permissiveConfig(), gen, poster)
	require.NoError(t, err)

	require.Len(t, poster.posted, 1)
	assert.Contains(t, poster.posted[0], "gossip")

	entries, err := ledger.Load()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "spill the tea", entries[1].Slang)
	assert.Equal(t, "991", entries[1].TweetID)

	// The exclusion list fed to the generator held the existing term.
	require.Len(t, gen.excludes, 1)
	assert.Equal(t, []string{"no cap"}, gen.excludes[0])
}

func TestRunOnce_RetriesDuplicateCandidate(t *testing.T) {
	withTempLedger(t)

	_, err := ledger.Append("rizz", "old post", "1")
	require.NoError(t, err)

	gen := &fakeGenerator{candidates: []gemini.Candidate{
		{Slang: "Rizz", Post: "duplicate"}, // normalizes to an existing term
		{Slang: "bet", Post: "Bet = okay, deal! 🤝"},
	}}
	poster := &fakePoster{}

	cmd := &RunCmd{Force: true}
	err = cmd.runOnce(context.Background(), &Globals{JSON: true}, permissiveConfig(), gen, poster)
	require.NoError(t, err)

	require.Len(t, poster.posted, 1)
	assert.Contains(t, poster.posted[0], "Bet")

	// The retry's exclusion list gained the duplicate.
	require.Len(t, gen.excludes, 2)
	assert.Contains(t, gen.excludes[1], "rizz")
}

func TestRunOnce_AllDuplicatesFails(t *testing.T) {
	withTempLedger(t)

	_, err := ledger.Append("rizz", "old post", "1")
	require.NoError(t, err)

	gen := &fakeGenerator{candidates: []gemini.Candidate{
		{Slang: "rizz", Post: "dup"},
		{Slang: "RIZZ", Post: "dup"},
		{Slang: " rizz ", Post: "dup"},
	}}
	poster := &fakePoster{}

	cmd := &RunCmd{Force: true}
	err = cmd.runOnce(context.Background(), &Globals{JSON: true}, permissiveConfig(), gen, poster)

	var cliErr *CLIError
	require.True(t, asCLIError(err, &cliErr))
	assert.Equal(t, "duplicate_candidate", cliErr.Code)
	assert.Empty(t, poster.posted)
}

func TestRunOnce_PostFailureLeavesLedgerUntouched(t *testing.T) {
	path := withTempLedger(t)

	_, err := ledger.Append("no cap", "old post", "1")
	require.NoError(t, err)
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	gen := &fakeGenerator{candidates: []gemini.Candidate{
		{Slang: "bet", Post: "Bet!"},
	}}
	poster := &fakePoster{err: errors.New("X returned 403")}

	cmd := &RunCmd{Force: true}
	err = cmd.runOnce(context.Background(), &Globals{JSON: true}, permissiveConfig(), gen, poster)

	var cliErr *CLIError
	require.True(t, asCLIError(err, &cliErr))
	assert.Equal(t, "post_failed", cliErr.Code)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after, "failed run must leave the ledger byte-identical")
}

func TestRunOnce_DryRunWritesNothing(t *testing.T) {
	path := withTempLedger(t)

	gen := &fakeGenerator{candidates: []gemini.Candidate{
		{Slang: "bet", Post: "Bet!"},
	}}
	poster := &fakePoster{}

	cmd := &RunCmd{Force: true, DryRun: true}
	err := cmd.runOnce(context.Background(), &Globals{JSON: true}, permissiveConfig(), gen, poster)
	require.NoError(t, err)

	assert.Empty(t, poster.posted)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "dry run must not create the ledger")
}

func TestRunOnce_GenerationFailure(t *testing.T) {
	withTempLedger(t)

	gen := &fakeGenerator{} // errors immediately
	poster := &fakePoster{}

	cmd := &RunCmd{Force: true}
	err := cmd.runOnce(context.Background(), &Globals{JSON: true}, permissiveConfig(), gen, poster)

	var cliErr *CLIError
	require.True(t, asCLIError(err, &cliErr))
	assert.Equal(t, "generation_failed", cliErr.Code)
	assert.Empty(t, poster.posted)
}

func TestRunOnce_OutsideScheduleIsQuietNoOp(t *testing.T) {
	withTempLedger(t)

	// No active weekdays — never inside the window.
	cfg := config.Config{Schedule: schedule.Schedule{StartHour: 0, EndHour: 24}}

	gen := &fakeGenerator{}
	poster := &fakePoster{}

	cmd := &RunCmd{}
	err := cmd.runOnce(context.Background(), &Globals{}, cfg, gen, poster)
	require.NoError(t, err)

	assert.Zero(t, gen.calls, "generator must not be called outside the schedule")
	assert.Empty(t, poster.posted)
}

func TestRunOnce_TooSoonIsQuietNoOp(t *testing.T) {
	withTempLedger(t)

	// A fresh entry makes the frequency guard trip.
	_, err := ledger.Append("no cap", "old post", "1")
	require.NoError(t, err)

	cfg := permissiveConfig()
	cfg.Schedule.PostEveryMinutes = 24 * 60

	gen := &fakeGenerator{}
	poster := &fakePoster{}

	cmd := &RunCmd{}
	err = cmd.runOnce(context.Background(), &Globals{}, cfg, gen, poster)
	require.NoError(t, err)

	assert.Zero(t, gen.calls)
	assert.Empty(t, poster.posted)
}

func TestLoadConfigOrDefault_CorruptConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".config", "slangcast")
	require.NoError(t, os.MkdirAll(dir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte("{corrupt"), 0o600))

	cfg := loadConfigOrDefault()

	// A corrupt config must yield the default schedule, not the zero value:
	// the zero Schedule has no active hours or weekdays, which would turn
	// every scheduled run into a silent outside_schedule no-op.
	assert.Equal(t, schedule.DefaultSchedule(), cfg.Schedule)
	wednesdayNoon := time.Date(2026, 8, 19, 12, 0, 0, 0, time.UTC)
	assert.True(t, cfg.Schedule.IsActiveAt(wednesdayNoon))
}

func TestLoadConfigOrDefault_MissingConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg := loadConfigOrDefault()
	assert.Equal(t, schedule.DefaultSchedule(), cfg.Schedule)
}

func TestRunOnce_CorruptLedgerAborts(t *testing.T) {
	path := withTempLedger(t)

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))
	require.NoError(t, os.WriteFile(path, []byte("{corrupt"), 0o600))

	gen := &fakeGenerator{candidates: []gemini.Candidate{{Slang: "bet", Post: "Bet!"}}}
	poster := &fakePoster{}

	cmd := &RunCmd{Force: true}
	err := cmd.runOnce(context.Background(), &Globals{JSON: true}, permissiveConfig(), gen, poster)

	var cliErr *CLIError
	require.True(t, asCLIError(err, &cliErr))
	assert.Equal(t, "ledger_error", cliErr.Code)
	assert.Empty(t, poster.posted, "must not post without a readable exclusion list")
}
