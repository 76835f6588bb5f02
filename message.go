package main

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// TextInput provides shared post-text resolution (arg, file, stdin, pipe).
type TextInput struct {
	Text  string `arg:"" optional:"" help:"Post text."`
	File  string `help:"Read post text from a file." short:"F" type:"existingfile"`
	Stdin bool   `help:"Force reading post text from stdin."`
}

// Resolve returns the post text, checking arg -> file -> stdin flag -> piped stdin.
func (m *TextInput) Resolve() (string, error) {
	// 1. Positional argument.
	if m.Text != "" {
		return m.Text, nil
	}

	// 2. --file flag.
	if m.File != "" {
		return readFile(m.File)
	}

	// 3. --stdin flag.
	if m.Stdin {
		return readStdin()
	}

	// 4. Detect piped stdin (not a terminal).
	fi, err := os.Stdin.Stat()
	if err == nil && (fi.Mode()&os.ModeCharDevice) == 0 {
		return readStdin()
	}

	// 5. No text provided.
	return "", newCLIError(ExitInvalidInput, "empty_text",
		"No post text provided. Pass it as an argument, --file, or pipe via stdin.")
}

func readFile(path string) (string, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user-provided path via CLI flag
	if err != nil {
		return "", newCLIError(ExitRuntimeError, "read_file_failed",
			fmt.Sprintf("Failed to read file %q: %s", path, err))
	}
	text := strings.TrimRight(string(data), "\n")
	if text == "" {
		return "", newCLIError(ExitInvalidInput, "empty_text",
			fmt.Sprintf("File %q is empty.", path))
	}
	return text, nil
}

func readStdin() (string, error) {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	text := strings.TrimRight(string(data), "\n")
	if text == "" {
		return "", newCLIError(ExitInvalidInput, "empty_text",
			"No post text provided (stdin was empty).")
	}
	return text, nil
}
