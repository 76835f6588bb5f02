package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/slangcast/slangcast/internal/config"
	"github.com/slangcast/slangcast/internal/gemini"
	"github.com/slangcast/slangcast/internal/ledger"
	"github.com/slangcast/slangcast/internal/x"
)

// maxGenerateAttempts bounds regeneration when the model returns a slang
// that is already in the ledger despite the exclusion list.
const maxGenerateAttempts = 3

// RunCmd performs one posting run: generate a fresh slang post, publish it,
// record it in the ledger. This is the command the scheduler invokes.
type RunCmd struct {
	DryRun bool `help:"Generate and preview the post without publishing or recording it." short:"n"`
	Force  bool `help:"Ignore the active-hours and frequency guards." short:"f"`
}

// slangGenerator produces a post candidate, avoiding the excluded terms.
type slangGenerator interface {
	Generate(ctx context.Context, exclude []string) (*gemini.Candidate, error)
}

// tweetPoster publishes text to the social platform.
type tweetPoster interface {
	CreateTweet(ctx context.Context, text string) (*x.Tweet, error)
}

func (cmd *RunCmd) Run(globals *Globals) error {
	creds, err := resolveCredentials()
	if err != nil {
		return err
	}

	cfg := loadConfigOrDefault()
	applyLedgerOverride(globals, cfg)

	ctx := context.Background()
	gen, err := gemini.New(ctx, creds.GeminiKey, cfg.Model)
	if err != nil {
		return newCLIError(ExitRuntimeError, "gemini_error",
			fmt.Sprintf("Failed to initialize Gemini client: %s", err))
	}

	return cmd.runOnce(ctx, globals, cfg, gen, x.New(creds.X))
}

// runOnce contains the core run logic: guards, generate-with-retry, post,
// ledger append. Extracted from Run so it can be tested with fakes.
func (cmd *RunCmd) runOnce(ctx context.Context, globals *Globals, cfg config.Config,
	gen slangGenerator, poster tweetPoster) error {
	// 1. Time guard: only post inside active hours.
	if !cmd.Force && !cfg.Schedule.IsActiveNow() {
		return cmd.exitQuietly(globals, "outside_schedule")
	}

	// 2. Frequency guard: respect the minimum interval between posts.
	if postEvery := cfg.Schedule.PostEvery(); !cmd.Force && postEvery > 0 {
		lastPosted, err := ledger.LastPostedTime()
		if err == nil && !lastPosted.IsZero() {
			if elapsed := time.Since(lastPosted); elapsed < postEvery {
				return cmd.exitTooSoon(globals, lastPosted.Add(postEvery))
			}
		}
	}

	// 3. Load the ledger. A corrupt ledger aborts the run — posting without
	// the exclusion list would defeat the no-repeats invariant.
	entries, err := ledger.Load()
	if err != nil {
		return newCLIError(ExitRuntimeError, "ledger_error",
			fmt.Sprintf("Failed to load ledger: %s", err))
	}

	// 4. Generate a candidate, retrying when the model ignores the
	// exclusion list and returns an already-posted term.
	exclude := ledger.Slangs(entries)
	var candidate *gemini.Candidate
	for attempt := 1; attempt <= maxGenerateAttempts; attempt++ {
		c, err := gen.Generate(ctx, exclude)
		if err != nil {
			return newCLIError(ExitRuntimeError, "generation_failed",
				fmt.Sprintf("Failed to generate post: %s", err))
		}
		if !ledger.Contains(entries, c.Slang) {
			candidate = c
			break
		}
		exclude = append(exclude, ledger.Normalize(c.Slang))
	}
	if candidate == nil {
		return newCLIError(ExitRuntimeError, "duplicate_candidate",
			fmt.Sprintf("Model kept returning already-posted slang after %d attempts.", maxGenerateAttempts))
	}

	// 5. Dry run — preview only, no post, no ledger write.
	if cmd.DryRun {
		return cmd.dryRun(globals, candidate)
	}

	// 6. Post to X. The ledger is untouched on failure.
	tweet, err := poster.CreateTweet(ctx, candidate.Post)
	if err != nil {
		return newCLIError(ExitRuntimeError, "post_failed",
			fmt.Sprintf("Failed to post to X: %s", err))
	}

	// 7. Record in the ledger. The tweet is already out; a failure here is
	// warned about rather than failing the run, since a rerun would
	// duplicate the post.
	ledgerChanged := true
	if _, err := ledger.Append(candidate.Slang, candidate.Post, tweet.ID); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: posted but failed to record in ledger: %s\n", err)
		ledgerChanged = false
	}

	// 8. Success.
	if globals.JSON {
		resp := map[string]any{
			"status":         "ok",
			"slang":          candidate.Slang,
			"tweet_id":       tweet.ID,
			"url":            tweet.URL(),
			"ledger_changed": ledgerChanged,
		}
		b, _ := json.Marshal(resp)
		fmt.Fprintln(os.Stdout, string(b))
	} else {
		fmt.Fprintf(os.Stdout, "Posted %q: %s\n", candidate.Slang, tweet.URL())
	}
	return nil
}

func (cmd *RunCmd) dryRun(globals *Globals, candidate *gemini.Candidate) error {
	if globals.JSON {
		resp := map[string]any{
			"status":         "dry_run",
			"slang":          candidate.Slang,
			"post":           candidate.Post,
			"char_count":     len([]rune(candidate.Post)),
			"ledger_changed": false,
		}
		b, _ := json.Marshal(resp)
		fmt.Fprintln(os.Stdout, string(b))
	} else {
		fmt.Fprintf(os.Stdout, "[dry-run] Would post %q:\n\n", candidate.Slang)
		fmt.Fprintln(os.Stdout, candidate.Post)
		fmt.Fprintf(os.Stdout, "\n(%d characters)\n", len([]rune(candidate.Post)))
	}
	return nil
}

// exitQuietly handles states where nothing needs to be done (outside hours).
func (cmd *RunCmd) exitQuietly(globals *Globals, status string) error {
	if globals.JSON {
		resp := map[string]string{"status": status}
		b, _ := json.Marshal(resp)
		fmt.Fprintln(os.Stdout, string(b))
	}
	// Human mode: silent exit for automated scheduler.
	return nil
}

// exitTooSoon handles the "too soon since last post" case.
func (cmd *RunCmd) exitTooSoon(globals *Globals, nextEligible time.Time) error {
	if globals.JSON {
		resp := map[string]string{
			"status":        "too_soon",
			"next_eligible": nextEligible.UTC().Format(time.RFC3339),
		}
		b, _ := json.Marshal(resp)
		fmt.Fprintln(os.Stdout, string(b))
	}
	return nil
}
