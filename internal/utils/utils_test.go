package utils

import "testing"

func TestGenerateSecretFormat(t *testing.T) {
	for i := 0; i < 100; i++ {
		secret := GenerateSecret()
		if len(secret) != SecretLength {
			t.Fatalf("expected %d chars, got %d (%q)", SecretLength, len(secret), secret)
		}
		if !ValidSecret(secret) {
			t.Fatalf("generated secret failed validation: %q", secret)
		}
	}
}

func TestGenerateSecretUniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		secret := GenerateSecret()
		if seen[secret] {
			t.Fatalf("duplicate secret generated: %q", secret)
		}
		seen[secret] = true
	}
}

func TestValidSecret(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "valid alphanumeric", input: "aB3dE6gH9jK2mN5p", want: true},
		{name: "too short", input: "aB3dE6gH9jK2mN5", want: false},
		{name: "too long", input: "aB3dE6gH9jK2mN5pQ", want: false},
		{name: "empty", input: "", want: false},
		{name: "punctuation", input: "aB3dE6gH9jK2mN5!", want: false},
		{name: "whitespace", input: "aB3dE6gH9jK2 N5p", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidSecret(tt.input); got != tt.want {
				t.Errorf("ValidSecret(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
