package model

import "strings"

const legacyOptionPrefix = "OPTION_"

// NormalizeOption maps an answer marker to its canonical letter.
// "a", "A", "option_a" and "Option_A" all become "A". Anything else is
// upper-cased and returned as-is, so an unknown format never matches a letter.
func NormalizeOption(option string) string {
	s := strings.ToUpper(strings.TrimSpace(option))
	if rest, ok := strings.CutPrefix(s, legacyOptionPrefix); ok && IsOptionLetter(rest) {
		return rest
	}
	return s
}

// IsOptionLetter reports whether s is one of the canonical letters A-D
func IsOptionLetter(s string) bool {
	switch s {
	case OptionA, OptionB, OptionC, OptionD:
		return true
	}
	return false
}

// SameOption compares two markers after normalization
func SameOption(a, b string) bool {
	return NormalizeOption(a) == NormalizeOption(b)
}
