package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidInput, "test message: %s", "value")

	if err.Code != ErrCodeInvalidInput {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidInput)
	}

	if err.Message != "test message: value" {
		t.Errorf("Message = %v, want %v", err.Message, "test message: value")
	}

	expected := "INVALID_INPUT: test message: value"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeTransport, cause, "failed to fetch")

	if err.Code != ErrCodeTransport {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeTransport)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	// Test Unwrap
	unwrapped := errors.Unwrap(err)
	if unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	// Test errors.Is with wrapped error
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeInvalidURL, "test"),
			code:     ErrCodeInvalidURL,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeInvalidURL, "test"),
			code:     ErrCodeTransport,
			expected: false,
		},
		{
			name:     "wrapped error",
			err:      Wrap(ErrCodeTransport, New(ErrCodeInvalidURL, "inner"), "outer"),
			code:     ErrCodeTransport,
			expected: true,
		},
		{
			name:     "status error",
			err:      &StatusError{Status: 503, URL: "https://rest.basispoort.nl/x"},
			code:     ErrCodeErrorStatus,
			expected: true,
		},
		{
			name:     "wrapped status error",
			err:      fmt.Errorf("op failed: %w", &StatusError{Status: 404}),
			code:     ErrCodeErrorStatus,
			expected: true,
		},
		{
			name:     "deserialization error",
			err:      &DeserializationError{Status: 200, Cause: errors.New("bad json")},
			code:     ErrCodeDeserialization,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeInvalidURL,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInvalidURL,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeUnknownEnvironment, "test"),
			expected: ErrCodeUnknownEnvironment,
		},
		{
			name:     "typed status error",
			err:      &StatusError{Status: 500},
			expected: ErrCodeErrorStatus,
		},
		{
			name:     "typed deserialization error",
			err:      &DeserializationError{Status: 201, Cause: errors.New("eof")},
			expected: ErrCodeDeserialization,
		},
		{
			name:     "plain error",
			err:      errors.New("plain"),
			expected: "",
		},
		{
			name:     "nil",
			err:      nil,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeInvalidInput, "friendly message"),
			expected: "friendly message",
		},
		{
			name:     "plain error",
			err:      errors.New("plain error"),
			expected: "plain error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestStatusError(t *testing.T) {
	t.Run("with decoded payload", func(t *testing.T) {
		err := &StatusError{
			Status:  500,
			URL:     "https://test-rest.basispoort.nl/x",
			Payload: map[string]any{"error": "boom"},
			Raw:     `{"error":"boom"}`,
		}
		expected := "https://test-rest.basispoort.nl/x 500: map[error:boom]"
		if err.Error() != expected {
			t.Errorf("Error() = %v, want %v", err.Error(), expected)
		}
	})

	t.Run("with raw body only", func(t *testing.T) {
		err := &StatusError{
			Status: 502,
			URL:    "https://test-rest.basispoort.nl/x",
			Raw:    "Bad Gateway",
		}
		expected := "https://test-rest.basispoort.nl/x 502: Bad Gateway"
		if err.Error() != expected {
			t.Errorf("Error() = %v, want %v", err.Error(), expected)
		}
	})

	t.Run("empty body", func(t *testing.T) {
		err := &StatusError{Status: 404, URL: "https://test-rest.basispoort.nl/x"}
		expected := "https://test-rest.basispoort.nl/x 404"
		if err.Error() != expected {
			t.Errorf("Error() = %v, want %v", err.Error(), expected)
		}
	})
}

func TestDeserializationError(t *testing.T) {
	cause := errors.New("unexpected end of JSON input")
	err := &DeserializationError{Status: 200, Snippet: "<html>", Cause: cause}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}

	if err.Status != 200 {
		t.Errorf("Status = %d, want 200", err.Status)
	}

	expected := `decoding response (status 200): unexpected end of JSON input: "<html>"`
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}
