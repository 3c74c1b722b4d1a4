package errors

import (
	"math"
	"strings"
	"unicode"

	"golang.org/x/text/language"
)

// Paper limits in millimeters.
const (
	MinPaperMM = 100
	MaxPaperMM = 5000
)

// ValidatePaperSize checks a paper size given in millimeters.
func ValidatePaperSize(widthMM, heightMM float64) error {
	if !(widthMM > 0) || !(heightMM > 0) {
		return New(ErrCodeInvalidPaper, "paper needs non-zero width and height (got %vx%v mm)", widthMM, heightMM)
	}
	if widthMM > MaxPaperMM || heightMM > MaxPaperMM {
		return New(ErrCodeInvalidPaper, "paper too large (max %d mm per side)", MaxPaperMM)
	}
	return nil
}

// ValidateScale checks a scale denominator.
func ValidateScale(scale float64) error {
	if math.IsNaN(scale) || math.IsInf(scale, 0) || scale <= 0 {
		return New(ErrCodeInvalidInput, "scale denominator must be positive: %v", scale)
	}
	return nil
}

// ValidateFilePrefix validates an output file prefix for safety.
//
// Validation rules:
//   - Prefix cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidateFilePrefix(prefix string) error {
	if prefix == "" {
		return New(ErrCodeInvalidPath, "file prefix cannot be empty")
	}

	const maxPathLength = 500
	if len(prefix) > maxPathLength {
		return New(ErrCodeInvalidPath, "file prefix too long (max %d characters)", maxPathLength)
	}

	for _, r := range prefix {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "file prefix contains invalid characters")
		}
	}

	if strings.Contains(prefix, "..") {
		return New(ErrCodeInvalidPath, "file prefix cannot contain path traversal sequences (..)")
	}

	if strings.Contains(prefix, "\\") {
		return New(ErrCodeInvalidPath, "file prefix cannot contain backslashes")
	}

	return nil
}

// ValidateLanguage parses a BCP 47 or POSIX-style locale ("fr_FR.UTF-8").
func ValidateLanguage(code string) (language.Tag, error) {
	if code == "" {
		return language.English, nil
	}
	normalized := code
	if i := strings.IndexAny(normalized, ".@"); i >= 0 {
		normalized = normalized[:i]
	}
	normalized = strings.ReplaceAll(normalized, "_", "-")
	tag, err := language.Parse(normalized)
	if err != nil {
		return language.Und, Wrap(ErrCodeInvalidLanguage, err, "unknown language %q", code)
	}
	return tag, nil
}
