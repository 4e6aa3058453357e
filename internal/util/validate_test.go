package util

import (
	"testing"
)

func TestValidateDomainName_Valid(t *testing.T) {
	valid := []string{
		"example.com",
		"joker.com",
		"my-site.co.uk",
		"a1.example.net",
		"xn--bcher-kva.example",
		"UPPER.CASE.ORG",
		"123.example.com",
		"deep.sub.domain.example.com",
	}
	for _, name := range valid {
		t.Run(name, func(t *testing.T) {
			if err := ValidateDomainName(name); err != nil {
				t.Errorf("expected %q to be valid, got error: %v", name, err)
			}
		})
	}
}

func TestValidateDomainName_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		wantMsg string
	}{
		{"", "must not be empty"},
		{"localhost", "at least two dot-separated labels"},
		{"example.com.", "empty label"},
		{".example.com", "empty label"},
		{"example..com", "empty label"},
		{"-example.com", "must not start or end with a hyphen"},
		{"example-.com", "must not start or end with a hyphen"},
		{"exa mple.com", "invalid characters"},
		{"example.com/path", "invalid characters"},
		{"under_score.com", "invalid characters"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDomainName(tt.name)
			if err == nil {
				t.Errorf("expected %q to be invalid, got nil", tt.name)
				return
			}
			if got := err.Error(); !contains(got, tt.wantMsg) {
				t.Errorf("expected error containing %q, got %q", tt.wantMsg, got)
			}
		})
	}
}

func TestValidateDomainName_TooLong(t *testing.T) {
	label := make([]byte, 64)
	for i := range label {
		label[i] = 'a'
	}
	if err := ValidateDomainName(string(label) + ".com"); err == nil {
		t.Error("expected 64-character label to be invalid")
	}

	long := ""
	for len(long) < 253 {
		long += "abcdefgh."
	}
	long += "com"
	if err := ValidateDomainName(long); err == nil {
		t.Error("expected over-length name to be invalid")
	}
}

func contains(s, substr string) bool {
	return len(s) >= len(substr) && searchString(s, substr)
}

func searchString(s, substr string) bool {
	for i := 0; i <= len(s)-len(substr); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
