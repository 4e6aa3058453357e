package util

import (
	"fmt"
	"regexp"
	"strings"
)

// validLabelChars matches only alphanumeric characters and hyphens.
var validLabelChars = regexp.MustCompile(`^[a-zA-Z0-9\-]+$`)

// ValidateDomainName checks that a name looks like a registrable domain
// before it is sent to DMAPI:
//   - at least two labels separated by periods ("example.com")
//   - each label 1-63 characters, only alphanumeric characters and hyphens
//   - labels must not start or end with a hyphen
//   - at most 253 characters overall, no trailing period
func ValidateDomainName(name string) error {
	if name == "" {
		return fmt.Errorf("domain name must not be empty")
	}
	if len(name) > 253 {
		return fmt.Errorf("domain name must be at most 253 characters, got %d", len(name))
	}

	labels := strings.Split(name, ".")
	if len(labels) < 2 {
		return fmt.Errorf("domain name %q must contain at least two dot-separated labels", name)
	}

	for _, label := range labels {
		if label == "" {
			return fmt.Errorf("domain name %q contains an empty label", name)
		}
		if len(label) > 63 {
			return fmt.Errorf("domain name label %q must be at most 63 characters, got %d", label, len(label))
		}
		if !validLabelChars.MatchString(label) {
			return fmt.Errorf("domain name %q contains invalid characters (only a-z, A-Z, 0-9, hyphens, and periods are allowed)", name)
		}
		if label[0] == '-' || label[len(label)-1] == '-' {
			return fmt.Errorf("domain name label %q must not start or end with a hyphen", label)
		}
	}

	return nil
}
