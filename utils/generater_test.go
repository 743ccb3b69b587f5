package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		code := GenerateCode()
		assert.Len(t, code, 6)
		for _, r := range code {
			assert.True(t, r >= '0' && r <= '9', "code %q has non-digit", code)
		}
		seen[code] = true
	}
	// 200 draws from a million values should not collapse to a handful
	assert.Greater(t, len(seen), 100)
}
