package cleanup_test

import (
	"testing"
	"time"

	game_constants "gartictext/constants/game"
	"gartictext/services/cleanup"

	"github.com/stretchr/testify/assert"
)

func TestTTL(t *testing.T) {
	t.Run("defaults when unset", func(t *testing.T) {
		t.Setenv("ANON_USER_TTL_HOURS", "")
		assert.Equal(t, game_constants.DefaultAnonUserTTL, cleanup.TTL())
	})

	t.Run("reads the env override", func(t *testing.T) {
		t.Setenv("ANON_USER_TTL_HOURS", "6")
		assert.Equal(t, 6*time.Hour, cleanup.TTL())
	})

	t.Run("ignores garbage and non-positive values", func(t *testing.T) {
		t.Setenv("ANON_USER_TTL_HOURS", "soon")
		assert.Equal(t, game_constants.DefaultAnonUserTTL, cleanup.TTL())

		t.Setenv("ANON_USER_TTL_HOURS", "-1")
		assert.Equal(t, game_constants.DefaultAnonUserTTL, cleanup.TTL())
	})
}

func TestInterval(t *testing.T) {
	t.Run("defaults when unset", func(t *testing.T) {
		t.Setenv("CLEANUP_INTERVAL_MINUTES", "")
		assert.Equal(t, game_constants.DefaultCleanupInterval, cleanup.Interval())
	})

	t.Run("reads the env override", func(t *testing.T) {
		t.Setenv("CLEANUP_INTERVAL_MINUTES", "5")
		assert.Equal(t, 5*time.Minute, cleanup.Interval())
	})
}
