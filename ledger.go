package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/slangcast/slangcast/internal/ledger"
)

// LedgerCmd shows or manages the posted-slang ledger.
type LedgerCmd struct {
	Show    LedgerShowCmd    `cmd:"" default:"withargs" help:"List posted slang entries."`
	Inspect LedgerInspectCmd `cmd:"" help:"Interactive ledger browser — view and delete entries."`
	Remove  LedgerRemoveCmd  `cmd:"" help:"Remove a ledger entry by ID."`
	Clear   LedgerClearCmd   `cmd:"" help:"Delete the entire ledger."`
	Path    LedgerPathCmd    `cmd:"" help:"Print the ledger file path (for CI scripting)."`
}

// selectLedger applies any ledger path override before a subcommand runs.
func selectLedger(globals *Globals) {
	applyLedgerOverride(globals, loadConfigOrDefault())
}

// LedgerShowCmd lists all entries, most recent first.
type LedgerShowCmd struct{}

func (cmd *LedgerShowCmd) Run(globals *Globals) error {
	selectLedger(globals)

	entries, err := ledger.Load()
	if err != nil {
		return newCLIError(ExitRuntimeError, "ledger_error",
			fmt.Sprintf("Failed to load ledger: %s", err))
	}

	// Reverse so most recent entries appear first.
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}

	if globals.JSON {
		if entries == nil {
			entries = []ledger.Entry{}
		}
		return json.NewEncoder(os.Stdout).Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Println("Ledger is empty.")
		return nil
	}

	fmt.Printf("Posted slang (%d entries):\n\n", len(entries))
	for _, e := range entries {
		fmt.Printf("  %s  %s  %-24s %s\n",
			e.ID, formatPostedAt(e.PostedAt), truncate(e.Slang, 24), truncate(e.Post, 50))
	}
	return nil
}

// formatPostedAt renders an RFC3339 timestamp as a compact local date.
func formatPostedAt(ts string) string {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return "????-??-??"
	}
	return t.Local().Format("2006-01-02")
}

// LedgerRemoveCmd removes an entry by ID, e.g. after deleting the tweet.
type LedgerRemoveCmd struct {
	ID string `arg:"" help:"ID of the entry to remove."`
}

func (cmd *LedgerRemoveCmd) Run(globals *Globals) error {
	selectLedger(globals)

	found, err := ledger.Remove(cmd.ID)
	if err != nil {
		return newCLIError(ExitRuntimeError, "remove_failed",
			fmt.Sprintf("Failed to remove entry: %s", err))
	}
	if !found {
		return newCLIError(ExitInvalidInput, "not_found",
			fmt.Sprintf("Entry %q not found in ledger.", cmd.ID))
	}

	msg := fmt.Sprintf("Removed entry %s from ledger.", cmd.ID)
	if globals.JSON {
		printSuccessJSON(msg)
	} else {
		printSuccessHuman(msg)
	}
	return nil
}

// LedgerClearCmd deletes the whole ledger. The bot may then repeat slang.
type LedgerClearCmd struct{}

func (cmd *LedgerClearCmd) Run(globals *Globals) error {
	selectLedger(globals)

	if err := ledger.Clear(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clear ledger: %w", err)
	}
	msg := "Ledger cleared."
	if globals.JSON {
		printSuccessJSON(msg)
	} else {
		printSuccessHuman(msg)
	}
	return nil
}

// LedgerPathCmd prints the ledger file location, so CI can do
// `git add "$(slangcast ledger path)"` after a successful run.
type LedgerPathCmd struct{}

func (cmd *LedgerPathCmd) Run(globals *Globals) error {
	selectLedger(globals)

	if globals.JSON {
		resp := map[string]string{"path": ledger.Path()}
		b, _ := json.Marshal(resp)
		fmt.Fprintln(os.Stdout, string(b))
	} else {
		fmt.Fprintln(os.Stdout, ledger.Path())
	}
	return nil
}
