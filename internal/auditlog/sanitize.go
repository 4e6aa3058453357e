package auditlog

import "strings"

var sensitiveFlags = map[string]struct{}{
	"--api-key":  {},
	"--password": {},
}

// SanitizeArgs redacts sensitive flag values for audit storage. Both the
// "--flag value" and "--flag=value" forms are handled.
func SanitizeArgs(args []string) []string {
	sanitized := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if _, ok := sensitiveFlags[arg]; ok {
			sanitized = append(sanitized, arg)
			if i+1 < len(args) {
				sanitized = append(sanitized, "<redacted>")
				i++
			}
			continue
		}

		if key, _, ok := strings.Cut(arg, "="); ok {
			if _, ok := sensitiveFlags[key]; ok {
				sanitized = append(sanitized, key+"=<redacted>")
				continue
			}
		}

		sanitized = append(sanitized, arg)
	}

	return sanitized
}
