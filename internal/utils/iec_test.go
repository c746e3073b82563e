package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanIEC(t *testing.T) {
	assert.Equal(t, "0123456789", CleanIEC(" 0123-456789 "))
	assert.Equal(t, "ABCDE1234F", CleanIEC("abcde1234f"))
	assert.Equal(t, "", CleanIEC("---"))
}

func TestIsValidIEC(t *testing.T) {
	tests := []struct {
		name  string
		iec   string
		valid bool
	}{
		{"numeric code", "0123456789", true},
		{"pan based code", "ABCDE1234F", true},
		{"lowercase input", "abcde1234f", true},
		{"with separators", "0123-45678-9", true},
		{"too short", "012345678", false},
		{"too long", "01234567890", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, IsValidIEC(tt.iec))
		})
	}
}

func TestNormalizeIEC(t *testing.T) {
	cleaned, valid := NormalizeIEC(" abcde1234f ")
	assert.True(t, valid)
	assert.Equal(t, "ABCDE1234F", cleaned)

	_, valid = NormalizeIEC("123")
	assert.False(t, valid)
}

func TestNormalizeEntityName(t *testing.T) {
	assert.Equal(t, "Acme Exports Ltd", NormalizeEntityName("  Acme   Exports\tLtd "))
	assert.Equal(t, "", NormalizeEntityName("   "))
}

func TestCacheKey(t *testing.T) {
	key := CacheKey("0123456789", "Acme  Exports")
	assert.Equal(t, "iec:0123456789:ACME EXPORTS", key)

	// same lookup with different formatting resolves to the same key
	assert.Equal(t, key, CacheKey(" 0123-456789", "acme exports"))
}
