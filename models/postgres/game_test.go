package postgres

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateGameCode(t *testing.T) {
	for i := 0; i < 200; i++ {
		code := generateGameCode(CodeLength)

		assert.Len(t, code, CodeLength)
		for _, r := range code {
			assert.Contains(t, CodeCharset, string(r))
		}
	}
}

func TestCodeCharsetHasNoAmbiguousGlyphs(t *testing.T) {
	for _, banned := range []string{"0", "O", "1", "I"} {
		assert.False(t, strings.Contains(CodeCharset, banned),
			"charset must not contain %q", banned)
	}
	assert.Len(t, CodeCharset, 32)
}
