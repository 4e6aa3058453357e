package dmapi

import "errors"

// Sentinel errors returned by the client. Callers match with errors.Is.
// Protocol-level failures (NACK replies) are not errors; they come back
// as ordinary Response values.
var (
	// ErrInvalidArgument reports a parameter that failed validation
	// before any request was made.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrAuthentication reports that a usable session could not be
	// established for the configured credentials.
	ErrAuthentication = errors.New("authentication failed")
)
