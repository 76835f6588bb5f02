package main

import (
	"errors"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/huh"
)

// Globals holds flags shared across all commands.
type Globals struct {
	JSON   bool   `help:"Output JSON for scripts and CI." short:"j"`
	Ledger string `help:"Path to the posted-slang ledger file." env:"SLANGCAST_LEDGER" placeholder:"FILE"`
}

// CLI is the root command structure for slangcast.
type CLI struct {
	Globals

	Run      RunCmd      `cmd:"" help:"Generate a new slang post and publish it to X (the scheduled job)."`
	Post     PostCmd     `cmd:"" help:"Post explicit text to X, bypassing generation and the ledger."`
	Ledger   LedgerCmd   `cmd:"" help:"Show or manage the posted-slang ledger."`
	Auth     AuthCmd     `cmd:"" help:"Manage API credentials."`
	Schedule ScheduleCmd `cmd:"" help:"Manage the automatic posting schedule (macOS launchd)."`
	Guide    GuideCmd    `cmd:"" help:"Print the usage guide, including CI setup."`
}

func main() {
	cli := CLI{}
	ctx := kong.Parse(&cli,
		kong.Name("slangcast"),
		kong.Description("Post AI-generated English slang lessons to X, without ever repeating one."),
		kong.UsageOnError(),
	)
	err := ctx.Run(&cli.Globals)
	if err != nil {
		// Ctrl+C / Ctrl+D — exit silently.
		if isUserAbort(err) {
			os.Exit(0)
		}

		var cliErr *CLIError
		if ok := asCLIError(err, &cliErr); ok {
			if cli.JSON {
				printErrorJSON(cliErr.Message, cliErr.Code)
			} else {
				printErrorHuman(cliErr.Message)
			}
			os.Exit(cliErr.ExitCode)
		}
		if cli.JSON {
			printErrorJSON(err.Error(), "runtime_error")
		} else {
			printErrorHuman(err.Error())
		}
		os.Exit(1)
	}
}

// isUserAbort returns true for errors caused by the user
// quitting an interactive prompt (Ctrl+C, Ctrl+D).
// It intentionally does NOT match io.EOF via errors.Is because
// EOF can originate from network failures, which must surface as
// errors rather than silent exit 0.
func isUserAbort(err error) bool {
	if errors.Is(err, huh.ErrUserAborted) {
		return true
	}
	// huh wraps bubbletea errors as "huh: <err>"
	if strings.Contains(err.Error(), "user aborted") {
		return true
	}
	return false
}
