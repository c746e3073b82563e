package utils

import (
	"regexp"
	"strings"
)

var nonAlphanumeric = regexp.MustCompile(`[^0-9A-Za-z]`)

// CleanIEC strips separators and whitespace from an IEC code and
// uppercases it. IEC codes are 10 alphanumeric characters; PAN-based
// codes mix letters and digits, older codes are all digits.
func CleanIEC(iec string) string {
	return strings.ToUpper(nonAlphanumeric.ReplaceAllString(iec, ""))
}

// IsValidIEC reports whether the cleaned code has the expected shape.
func IsValidIEC(iec string) bool {
	cleaned := CleanIEC(iec)
	if len(cleaned) != 10 {
		return false
	}
	for _, c := range cleaned {
		if !(c >= '0' && c <= '9') && !(c >= 'A' && c <= 'Z') {
			return false
		}
	}
	return true
}

// NormalizeIEC normalizes an IEC code by cleaning and validating
func NormalizeIEC(iec string) (string, bool) {
	cleaned := CleanIEC(iec)
	return cleaned, IsValidIEC(cleaned)
}

// NormalizeEntityName collapses internal whitespace and trims the
// entity name. The registry matches names case-insensitively, so the
// casing entered by the caller is preserved.
func NormalizeEntityName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

// CacheKey builds the cache key for a lookup. The entity name is part
// of the key because the portal requires both fields to match.
func CacheKey(iec, name string) string {
	return "iec:" + CleanIEC(iec) + ":" + strings.ToUpper(NormalizeEntityName(name))
}
