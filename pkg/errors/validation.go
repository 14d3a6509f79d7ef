package errors

import (
	"strings"
	"unicode"
)

// validateSegment applies the shared path-safety rules for values that
// end up embedded in endpoint paths.
func validateSegment(kind, value string) error {
	if value == "" {
		return New(ErrCodeInvalidInput, "%s cannot be empty", kind)
	}

	if len(value) > 128 {
		return New(ErrCodeInvalidInput, "%s too long (max 128 characters)", kind)
	}

	for _, r := range value {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "%s contains control characters", kind)
		}
	}

	// Path traversal and separator patterns
	dangerousPatterns := []string{
		"..",   // Parent directory
		"/",    // Path separator
		"\\",   // Backslash (Windows path)
		"\x00", // Null byte
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(value, pattern) {
			return New(ErrCodeInvalidInput, "%s contains invalid characters: %q", kind, pattern)
		}
	}

	return nil
}

// ValidateIdentityCode validates a provider identity code for safety.
// The code is embedded in every endpoint path of the hosted license
// provider API, so it must be a single clean path segment.
func ValidateIdentityCode(code string) error {
	return validateSegment("identity code", code)
}

// ValidateResourceID validates a method or product identifier before it
// is sent to the service. The service embeds these IDs in paths on its
// side as well, so the same segment rules apply.
func ValidateResourceID(id string) error {
	return validateSegment("resource ID", id)
}
