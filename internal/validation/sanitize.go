package validation

import "strings"

// MaxStoredTextLength bounds the size of any sanitized text field at
// storage time, independent of the per-field validation ceilings.
const MaxStoredTextLength = 500

// SanitizeEmail normalizes an email for storage and lookup: trimmed,
// lowercased, angle brackets stripped.
func SanitizeEmail(email string) string {
	return stripAngleBrackets(strings.ToLower(strings.TrimSpace(email)))
}

// SanitizeText cleans free-form user text before persistence: trim, strip
// angle brackets, then truncate. Truncation is silent.
func SanitizeText(s string) string {
	s = stripAngleBrackets(strings.TrimSpace(s))
	if len(s) > MaxStoredTextLength {
		s = s[:MaxStoredTextLength]
	}
	return s
}

func stripAngleBrackets(s string) string {
	return strings.NewReplacer("<", "", ">", "").Replace(s)
}
