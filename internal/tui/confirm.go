package tui

import (
	"os"

	"github.com/charmbracelet/huh"
)

// Confirm asks a yes/no question on the terminal. Returns ErrAborted
// when the user escapes out instead of answering.
func Confirm(title string) (bool, error) {
	accessible := os.Getenv("ACCESSIBLE") != ""

	var yes bool
	field := huh.NewConfirm().
		Title(title).
		Affirmative("Delete").
		Negative("Cancel").
		Value(&yes)

	if err := runForm(accessible, huh.NewGroup(field)); err != nil {
		return false, err
	}
	return yes, nil
}
