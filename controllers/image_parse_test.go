package controllers

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseImageData(t *testing.T) {
	payload := []byte{0x89, 0x50, 0x4e, 0x47}
	encoded := base64.StdEncoding.EncodeToString(payload)

	t.Run("bare base64 keeps the fallback mime", func(t *testing.T) {
		data, mime, err := parseImageData(encoded, "image/png")

		require.NoError(t, err)
		assert.Equal(t, payload, data)
		assert.Equal(t, "image/png", mime)
	})

	t.Run("data URL overrides the mime", func(t *testing.T) {
		data, mime, err := parseImageData("data:image/webp;base64,"+encoded, "image/png")

		require.NoError(t, err)
		assert.Equal(t, payload, data)
		assert.Equal(t, "image/webp", mime)
	})

	t.Run("invalid base64 is rejected", func(t *testing.T) {
		_, _, err := parseImageData("not-base64!!!", "image/png")
		assert.Error(t, err)
	})
}
