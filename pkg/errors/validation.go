package errors

import (
	"strings"
	"unicode"
)

// ValidateHash checks that s looks like a full or abbreviated object id:
// 4 to 64 lowercase hexadecimal characters. SHA-1 and SHA-256 object ids
// both pass.
func ValidateHash(s string) error {
	if s == "" {
		return New(ErrCodeInvalidBundle, "commit hash cannot be empty")
	}
	if len(s) < 4 || len(s) > 64 {
		return New(ErrCodeInvalidBundle, "commit hash %q has invalid length %d", s, len(s))
	}
	for _, r := range s {
		if !isLowerHex(r) {
			return New(ErrCodeInvalidBundle, "commit hash %q contains non-hex character %q", s, r)
		}
	}
	return nil
}

func isLowerHex(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f')
}

// ValidateOutputPath validates the path of a generated artifact.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - Must not name a directory (trailing separator)
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "output path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "output path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "output path contains invalid characters")
		}
	}

	if strings.HasSuffix(path, "/") || strings.HasSuffix(path, "\\") {
		return New(ErrCodeInvalidPath, "output path %q names a directory", path)
	}

	return nil
}
