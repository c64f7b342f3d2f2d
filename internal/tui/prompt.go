package tui

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/iksnae/notium/internal"
)

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

// PromptLogin asks for credentials. username prefills the first field.
func PromptLogin(username string) (internal.LoginCredentials, error) {
	creds := internal.LoginCredentials{Username: username}

	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Username").
			Value(&creds.Username).
			Validate(required("username")),
		huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(&creds.Password).
			Validate(required("password")),
	))

	if err := form.Run(); err != nil {
		return internal.LoginCredentials{}, fmt.Errorf("prompt failed: %w", err)
	}
	creds.Username = strings.TrimSpace(creds.Username)
	return creds, nil
}

// PromptSignUp asks for a new account and checks the password confirmation
func PromptSignUp() (internal.RegisterPayload, error) {
	var payload internal.RegisterPayload
	var confirmation string

	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Username").
			Value(&payload.Username).
			Validate(required("username")),
		huh.NewInput().
			Title("Email").
			Placeholder("you@example.com").
			Value(&payload.Email).
			Validate(required("email")),
		huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(&payload.Password).
			Validate(required("password")),
		huh.NewInput().
			Title("Confirm password").
			EchoMode(huh.EchoModePassword).
			Value(&confirmation),
	))

	if err := form.Run(); err != nil {
		return internal.RegisterPayload{}, fmt.Errorf("prompt failed: %w", err)
	}
	if err := internal.ConfirmPassword(payload.Password, confirmation); err != nil {
		return internal.RegisterPayload{}, err
	}
	payload.Username = strings.TrimSpace(payload.Username)
	payload.Email = strings.TrimSpace(payload.Email)
	return payload, nil
}

// PromptDraft edits a note draft. Pass the zero Draft for a new note.
func PromptDraft(d internal.Draft) (internal.Draft, error) {
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Title").
			Value(&d.Title).
			Validate(required("title")),
		huh.NewInput().
			Title("Tags").
			Description("Comma separated").
			Placeholder("work, ideas").
			Value(&d.Tags),
		huh.NewText().
			Title("Content").
			Lines(8).
			Value(&d.Content).
			Validate(required("content")),
	))

	if err := form.Run(); err != nil {
		return internal.Draft{}, fmt.Errorf("prompt failed: %w", err)
	}
	return d, d.Validate()
}

// PromptConfirm displays a yes/no confirmation prompt
func PromptConfirm(message string, defaultValue bool) (bool, error) {
	confirmed := defaultValue

	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(message).
			Affirmative("Yes").
			Negative("No").
			Value(&confirmed),
	))

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, fmt.Errorf("prompt failed: %w", err)
	}
	return confirmed, nil
}

// ShouldPrompt reports whether interactive prompts can be shown.
// Prompts are disabled in CI or when stdin is not a terminal.
func ShouldPrompt() bool {
	for _, env := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "BUILDKITE"} {
		if os.Getenv(env) != "" {
			return false
		}
	}
	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
