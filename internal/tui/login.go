package tui

import (
	"errors"
	"os"
	"strings"

	"github.com/go-joker/joker/internal/auth"

	"github.com/charmbracelet/huh"
)

// ErrAborted is returned when a user cancels an interactive flow.
var ErrAborted = errors.New("aborted by user")

// CredentialsForm walks the user through choosing an authentication method
// and entering the matching secrets. prefill seeds the inputs, so a user who
// passed --username on the command line is only asked for the password.
func CredentialsForm(prefill auth.Credentials) (auth.Credentials, error) {
	accessible := os.Getenv("ACCESSIBLE") != ""

	creds := prefill

	method := "api-key"
	if creds.Username != "" && creds.APIKey == "" {
		method = "password"
	}

	methodField := huh.NewSelect[string]().
		Title("Authentication method").
		Options(
			huh.NewOption("API key", "api-key"),
			huh.NewOption("Username and password", "password"),
		).
		Value(&method)

	if err := runForm(accessible, huh.NewGroup(methodField)); err != nil {
		return auth.Credentials{}, err
	}

	switch method {
	case "api-key":
		creds.Username = ""
		creds.Password = ""

		keyField := huh.NewInput().
			Title("API key").
			EchoMode(huh.EchoModePassword).
			Value(&creds.APIKey).
			Validate(huh.ValidateNotEmpty())

		if err := runForm(accessible, huh.NewGroup(keyField)); err != nil {
			return auth.Credentials{}, err
		}

	default:
		creds.APIKey = ""

		userField := huh.NewInput().
			Title("Username").
			Value(&creds.Username).
			Validate(func(value string) error {
				if strings.TrimSpace(value) == "" {
					return errors.New("username is required")
				}
				return nil
			})

		passField := huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(&creds.Password).
			Validate(huh.ValidateNotEmpty())

		if err := runForm(accessible, huh.NewGroup(userField, passField)); err != nil {
			return auth.Credentials{}, err
		}
	}

	creds.APIKey = strings.TrimSpace(creds.APIKey)
	creds.Username = strings.TrimSpace(creds.Username)
	return creds, nil
}

// runForm creates and runs a huh.Form, translating ErrUserAborted to ErrAborted.
func runForm(accessible bool, groups ...*huh.Group) error {
	err := huh.NewForm(groups...).WithAccessible(accessible).Run()
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return ErrAborted
		}
		return err
	}
	return nil
}
