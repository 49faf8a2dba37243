package service

import (
	"errors"
	"testing"

	"github.com/storefront-api/internal/config"
)

func TestValidatePasswordPolicy(t *testing.T) {
	policy := config.PasswordPolicyConfig{
		MinLength:     8,
		RequireUpper:  true,
		RequireLower:  true,
		RequireNumber: true,
	}

	cases := []struct {
		name     string
		password string
		wantWeak bool
	}{
		{"ok", "Sekret123", false},
		{"too_short", "Ab1", true},
		{"no_upper", "sekret123", true},
		{"no_lower", "SEKRET123", true},
		{"no_number", "Sekretabc", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := validatePassword(policy, tc.password)
			if tc.wantWeak && !errors.Is(err, ErrWeakPassword) {
				t.Fatalf("want ErrWeakPassword got %v", err)
			}
			if !tc.wantWeak && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidatePasswordEmptyPolicy(t *testing.T) {
	if err := validatePassword(config.PasswordPolicyConfig{}, "x"); err != nil {
		t.Fatalf("empty policy should accept anything, got %v", err)
	}
}
