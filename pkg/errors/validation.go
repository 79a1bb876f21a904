package errors

import (
	"strings"
	"unicode"
)

// ValidatePath validates a file path for safety before opening or creating it.
// It prevents obviously broken paths from reaching the filesystem layer.
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
		if r == '\x00' || (unicode.IsControl(r) && r != '\t') {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}

// ValidateStrategy validates a gain strategy name against the known set.
// The valid names are "default", "approx-1" and "approx-2".
func ValidateStrategy(name string) error {
	switch strings.TrimSpace(name) {
	case "default", "approx-1", "approx-2":
		return nil
	}
	return New(ErrCodeInvalidInput, "invalid strategy: %q (must be one of: default, approx-1, approx-2)", name)
}
