package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/slangcast/slangcast/internal/x"
)

// maxPostRunes is X's plain-text character limit. Counted in runes, which
// is close enough for text-only posts (weighted counting only differs for
// URLs and some CJK ranges).
const maxPostRunes = 280

// PostCmd publishes explicit text to X. It bypasses generation and does not
// touch the ledger — the ledger tracks slang terms, not arbitrary posts.
type PostCmd struct {
	TextInput `embed:""`
	DryRun    bool `help:"Preview the post without publishing." short:"n"`
}

func (cmd *PostCmd) Run(globals *Globals) error {
	text, err := cmd.Resolve()
	if err != nil {
		return err
	}

	if n := len([]rune(text)); n > maxPostRunes {
		return newCLIError(ExitInvalidInput, "too_long",
			fmt.Sprintf("Post is %d characters; X allows %d.", n, maxPostRunes))
	}

	if cmd.DryRun {
		return cmd.dryRun(globals, text)
	}

	creds, err := resolveCredentials()
	if err != nil {
		return err
	}

	tweet, err := x.New(creds.X).CreateTweet(context.Background(), text)
	if err != nil {
		return newCLIError(ExitRuntimeError, "post_failed",
			fmt.Sprintf("Failed to post to X: %s", err))
	}

	if globals.JSON {
		resp := map[string]string{"status": "ok", "tweet_id": tweet.ID, "url": tweet.URL()}
		b, _ := json.Marshal(resp)
		fmt.Fprintln(os.Stdout, string(b))
	} else {
		fmt.Fprintf(os.Stdout, "Posted: %s\n", tweet.URL())
	}
	return nil
}

func (cmd *PostCmd) dryRun(globals *Globals, text string) error {
	if globals.JSON {
		resp := map[string]any{
			"status":     "dry_run",
			"post":       text,
			"char_count": len([]rune(text)),
		}
		b, _ := json.Marshal(resp)
		fmt.Fprintln(os.Stdout, string(b))
	} else {
		fmt.Fprintln(os.Stdout, "[dry-run] Post preview:")
		fmt.Fprintln(os.Stdout)
		fmt.Fprintln(os.Stdout, text)
		fmt.Fprintf(os.Stdout, "\n(%d characters)\n", len([]rune(text)))
	}
	return nil
}
