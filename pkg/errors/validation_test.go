package errors

import (
	"strings"
	"testing"
)

func TestValidateIdentityCode(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantErr bool
	}{
		{"valid code", "uitgeverij-x", false},
		{"valid alphanumeric", "lika01", false},
		{"empty", "", true},
		{"too long", strings.Repeat("a", 129), true},
		{"path separator", "a/b", true},
		{"backslash", "a\\b", true},
		{"parent traversal", "..", true},
		{"control character", "code\n", true},
		{"null byte", "code\x00", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateIdentityCode(tt.code)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateIdentityCode(%q) error = %v, wantErr %v", tt.code, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("error code = %v, want %v", GetCode(err), ErrCodeInvalidInput)
			}
		})
	}
}

func TestValidateResourceID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"valid id", "methode-123", false},
		{"valid hex", "a1b2c3", false},
		{"empty", "", true},
		{"embedded slash", "methode/123", true},
		{"traversal", "../other", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateResourceID(tt.id)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateResourceID(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
		})
	}
}
