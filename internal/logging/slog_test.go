package logging

import (
	"strings"
	"testing"
)

func TestAnonymizeEmail(t *testing.T) {
	tests := []struct {
		name  string
		email string
	}{
		{name: "normal email", email: "user@example.com"},
		{name: "another email", email: "billing@acme.org"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AnonymizeEmail(tt.email)
			if !strings.HasPrefix(got, "user:") {
				t.Errorf("AnonymizeEmail() = %v, want user: prefix", got)
			}
			if strings.Contains(got, "@") {
				t.Errorf("AnonymizeEmail() = %v, must not contain the raw address", got)
			}
			// Same input must hash to the same value for log correlation.
			if again := AnonymizeEmail(tt.email); again != got {
				t.Errorf("AnonymizeEmail() not deterministic: %v != %v", again, got)
			}
		})
	}

	if got := AnonymizeEmail(""); got != "" {
		t.Errorf("AnonymizeEmail(\"\") = %v, want empty", got)
	}
}

func TestSanitizeToken(t *testing.T) {
	if got := SanitizeToken(""); got != "<empty>" {
		t.Errorf("SanitizeToken(\"\") = %v, want <empty>", got)
	}
	got := SanitizeToken("ya29.secret-token-value")
	if strings.Contains(got, "secret") {
		t.Errorf("SanitizeToken() leaked token content: %v", got)
	}
	if got != "[token:23 chars]" {
		t.Errorf("SanitizeToken() = %v, want [token:23 chars]", got)
	}
}

func TestErrNilSafe(t *testing.T) {
	attr := Err(nil)
	if attr.Key != "" {
		t.Errorf("Err(nil) should produce an omittable attribute, got key %q", attr.Key)
	}
}
