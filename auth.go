package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/slangcast/slangcast/internal/keyring"
	"github.com/slangcast/slangcast/internal/launchd"
	"github.com/slangcast/slangcast/internal/x"
)

// AuthCmd manages API credentials.
type AuthCmd struct {
	Login  AuthLoginCmd  `cmd:"" help:"Store API credentials in the keychain (interactive or via flags)."`
	Logout AuthLogoutCmd `cmd:"" help:"Remove all credentials from the keychain."`
	Status AuthStatusCmd `cmd:"" default:"withargs" help:"Check credential configuration."`
}

// AuthLoginCmd stores the Gemini and X secrets. All five flags together
// skip the interactive prompts.
type AuthLoginCmd struct {
	GeminiKey    string `help:"Gemini API key." env:"GEMINI_API_KEY"`
	APIKey       string `help:"X API key (consumer key)."`
	APISecret    string `help:"X API key secret."`
	AccessToken  string `help:"X access token."`
	AccessSecret string `help:"X access token secret."`
}

func (cmd *AuthLoginCmd) Run(globals *Globals) error {
	creds := credentials{
		GeminiKey: cmd.GeminiKey,
		X: x.Credentials{
			APIKey:       cmd.APIKey,
			APISecret:    cmd.APISecret,
			AccessToken:  cmd.AccessToken,
			AccessSecret: cmd.AccessSecret,
		},
	}

	// Non-interactive — everything supplied via flags/env.
	if creds.GeminiKey != "" && creds.X.Complete() {
		return cmd.storeAndVerify(globals, creds)
	}

	// Interactive path.
	return cmd.interactive(globals, creds)
}

func (cmd *AuthLoginCmd) interactive(globals *Globals, creds credentials) error {
	fmt.Println()
	fmt.Println("  Welcome to slangcast!")
	fmt.Println("  Let's set up your Gemini and X credentials.")
	fmt.Println()

	var hasKeys bool
	err := runField(
		huh.NewConfirm().
			Title("Do you already have your API keys?").
			Affirmative("Yes").
			Negative("No, show me where to get them").
			Value(&hasKeys),
	)
	if err != nil {
		return err
	}

	if !hasKeys {
		if err := cmd.guidedSetup(); err != nil {
			return err
		}
	}

	prompts := []struct {
		title string
		value *string
	}{
		{"Gemini API key:", &creds.GeminiKey},
		{"X API key:", &creds.X.APIKey},
		{"X API key secret:", &creds.X.APISecret},
		{"X access token:", &creds.X.AccessToken},
		{"X access token secret:", &creds.X.AccessSecret},
	}
	for _, p := range prompts {
		if *p.value != "" {
			continue
		}
		err := runField(
			huh.NewInput().
				Title(p.title).
				EchoMode(huh.EchoModePassword).
				Validate(validateSecret).
				Value(p.value),
		)
		if err != nil {
			return err
		}
	}

	return cmd.storeAndVerify(globals, creds)
}

func (cmd *AuthLoginCmd) guidedSetup() error {
	geminiURL := linkStyle.Render("https://aistudio.google.com/apikey")
	xURL := linkStyle.Render("https://developer.x.com/en/portal/dashboard")

	desc := "**Gemini API key:**\n" +
		"1. Go to " + geminiURL + "\n" +
		"2. Click \"Create API key\"\n\n" +
		"**X API keys:**\n" +
		"3. Go to " + xURL + "\n" +
		"4. Create a project and app (the free tier is enough for one post a day)\n" +
		"5. In \"User authentication settings\", enable OAuth 1.0a with **Read and write** permissions\n" +
		"6. Under \"Keys and tokens\", generate the API key pair and the access token pair\n\n" +
		"You will need all five values."

	return runField(
		huh.NewNote().
			Title("Get your API keys").
			Description(desc).
			Next(true).
			NextLabel("I have my keys"),
	)
}

func (cmd *AuthLoginCmd) storeAndVerify(globals *Globals, creds credentials) error {
	// Verify before storing so bad keys never persist.
	if !globals.JSON {
		fmt.Print("Verifying X credentials... ")
	}
	user, err := x.New(creds.X).Verify(context.Background())
	if err != nil {
		if !globals.JSON {
			fmt.Println("failed.")
		}
		return newCLIError(ExitRuntimeError, "verify_failed",
			fmt.Sprintf("X credential verification failed. Check the keys and that the app has Read and Write permission. %s", err))
	}
	if !globals.JSON {
		fmt.Printf("ok! Posting as @%s.\n", user.Username)
	}

	stores := map[string]string{
		keyring.GeminiAPIKey:  creds.GeminiKey,
		keyring.XAPIKey:       creds.X.APIKey,
		keyring.XAPISecret:    creds.X.APISecret,
		keyring.XAccessToken:  creds.X.AccessToken,
		keyring.XAccessSecret: creds.X.AccessSecret,
	}
	for name, value := range stores {
		if err := keyring.Set(name, value); err != nil {
			return fmt.Errorf("store %s in keychain: %w", name, err)
		}
	}

	msg := fmt.Sprintf("Credentials configured. Posting as @%s.", user.Username)
	if globals.JSON {
		printSuccessJSON(msg)
	} else {
		fmt.Println("\n" + msg)
		fmt.Println("\nTry it: slangcast run --dry-run")
	}
	return nil
}

// AuthLogoutCmd removes all credentials from the keychain.
type AuthLogoutCmd struct{}

func (cmd *AuthLogoutCmd) Run(globals *Globals) error {
	if launchd.IsInstalled() && !globals.JSON {
		fmt.Println("Note: the posting schedule is still installed and will start failing.")
		fmt.Println("Run `slangcast schedule uninstall` to remove it.")
	}

	if err := keyring.DeleteAll(); err != nil {
		return newCLIError(ExitRuntimeError, "keyring_error",
			fmt.Sprintf("Failed to remove credentials: %s", err))
	}

	msg := "Credentials removed."
	if globals.JSON {
		printSuccessJSON(msg)
	} else {
		printSuccessHuman(msg)
	}
	return nil
}

// AuthStatusCmd reports which credentials are configured.
type AuthStatusCmd struct {
	Verify bool `help:"Also verify the X credentials against the API."`
}

func (cmd *AuthStatusCmd) Run(globals *Globals) error {
	creds, err := resolveCredentials()
	if err != nil {
		var cliErr *CLIError
		if asCLIError(err, &cliErr) && cliErr.Code == "not_configured" {
			if globals.JSON {
				resp := map[string]string{"status": "not_configured"}
				b, _ := json.Marshal(resp)
				fmt.Fprintln(os.Stdout, string(b))
				return nil
			}
			fmt.Fprintln(os.Stdout, "Not configured. Run `slangcast auth login` to set up.")
			return nil
		}
		return err
	}

	var username string
	if cmd.Verify {
		user, err := x.New(creds.X).Verify(context.Background())
		if err != nil {
			return newCLIError(ExitRuntimeError, "verify_failed",
				fmt.Sprintf("X credential verification failed: %s", err))
		}
		username = user.Username
	}

	if globals.JSON {
		resp := map[string]any{
			"status":     "configured",
			"gemini_key": maskSecret(creds.GeminiKey),
			"x_api_key":  maskSecret(creds.X.APIKey),
		}
		if username != "" {
			resp["username"] = username
		}
		b, _ := json.Marshal(resp)
		fmt.Fprintln(os.Stdout, string(b))
	} else {
		fmt.Fprintln(os.Stdout, "Status: Configured")
		fmt.Fprintf(os.Stdout, "Gemini API key: %s\n", maskSecret(creds.GeminiKey))
		fmt.Fprintf(os.Stdout, "X API key: %s\n", maskSecret(creds.X.APIKey))
		if username != "" {
			fmt.Fprintf(os.Stdout, "Posting as: @%s\n", username)
		}
	}
	return nil
}

var linkStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("12")). // bright blue
	Underline(true)

// runField wraps a single huh field in a form that supports
// Ctrl+C and Ctrl+D for quitting, with bottom margin styling.
func runField(field huh.Field) error {
	km := huh.NewDefaultKeyMap()
	km.Quit = key.NewBinding(key.WithKeys("ctrl+c", "ctrl+d"))

	t := huh.ThemeBase()
	t.Focused.Base = t.Focused.Base.MarginBottom(1)
	t.Blurred.Base = t.Blurred.Base.MarginBottom(1)

	return huh.NewForm(huh.NewGroup(field)).
		WithShowHelp(false).
		WithKeyMap(km).
		WithTheme(t).
		Run()
}

func validateSecret(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("value cannot be empty")
	}
	return nil
}
