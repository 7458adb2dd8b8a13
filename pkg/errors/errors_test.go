package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorString(t *testing.T) {
	cause := errors.New("dot: syntax error")
	tests := []struct {
		err  *Error
		want string
	}{
		{New(ErrCodeInvalidMapping, "mapping %q has no id", "m.json"), `INVALID_MAPPING: mapping "m.json" has no id`},
		{Wrap(ErrCodeLayoutFailed, cause, "solve"), "LAYOUT_FAILED: solve: dot: syntax error"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("boom")
	err := fmt.Errorf("layout: %w", Wrap(ErrCodeLayoutFailed, cause, "solve"))
	if !errors.Is(err, cause) {
		t.Error("cause lost through Wrap")
	}
	if got := UserMessage(err); got != "solve" {
		t.Errorf("UserMessage = %q, want solve", got)
	}
}

func TestCodeLookup(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		code       Code
		validation bool
	}{
		{"direct", New(ErrCodeInvalidSelection, "x"), ErrCodeInvalidSelection, true},
		{"fmt wrapped", fmt.Errorf("load: %w", New(ErrCodeInvalidConfig, "x")), ErrCodeInvalidConfig, true},
		{"outer code wins", Wrap(ErrCodeLayoutFailed, New(ErrCodeInvalidInput, "inner"), "outer"), ErrCodeLayoutFailed, false},
		{"stale", New(ErrCodeStale, "superseded"), ErrCodeStale, false},
		{"plain", errors.New("plain"), "", false},
		{"nil", nil, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.code {
				t.Errorf("GetCode = %q, want %q", got, tt.code)
			}
			if tt.code != "" && !Is(tt.err, tt.code) {
				t.Errorf("Is(%q) = false", tt.code)
			}
			if Is(tt.err, ErrCodeTimeout) {
				t.Error("Is(TIMEOUT) = true")
			}
			if got := IsValidation(tt.err); got != tt.validation {
				t.Errorf("IsValidation = %v, want %v", got, tt.validation)
			}
		})
	}
}

func TestUserMessagePlainError(t *testing.T) {
	if got := UserMessage(errors.New("plain")); got != "plain" {
		t.Errorf("UserMessage = %q", got)
	}
}
