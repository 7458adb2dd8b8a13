package errors

import (
	"strings"
	"unicode"
)

// ValidatePath validates a user-supplied file path (mapping, dataset, or
// selection file) before it is opened.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}

// ValidateIdentifier validates a mapping or category identifier.
// Identifiers become dataset keys and parts of field names ({id}Iri),
// so they must be non-empty and free of whitespace and control characters.
func ValidateIdentifier(id string) error {
	if id == "" {
		return New(ErrCodeInvalidMapping, "identifier cannot be empty")
	}
	if len(id) > 256 {
		return New(ErrCodeInvalidMapping, "identifier too long (max 256 characters): %q", id[:32]+"...")
	}
	for _, r := range id {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return New(ErrCodeInvalidMapping, "identifier contains whitespace or control characters: %q", id)
		}
	}
	return nil
}

// ValidateClientID validates a client identifier supplied over HTTP.
// Client ids key the per-client layout sequencers.
func ValidateClientID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "client id cannot be empty")
	}
	if len(id) > 128 {
		return New(ErrCodeInvalidInput, "client id too long (max 128 characters)")
	}
	if strings.ContainsFunc(id, func(r rune) bool { return unicode.IsSpace(r) || unicode.IsControl(r) }) {
		return New(ErrCodeInvalidInput, "client id contains invalid characters")
	}
	return nil
}
