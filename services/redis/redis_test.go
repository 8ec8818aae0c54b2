package redis_test

import (
	"testing"

	game_constants "gartictext/constants/game"
	"gartictext/services/redis"

	"github.com/stretchr/testify/assert"
)

func TestVersionTTLBoundsStaleness(t *testing.T) {
	// A mirror entry that survived a failed refresh answers polls
	// "unchanged" against a game that already advanced. The TTL keeps
	// that window to a handful of polls.
	assert.LessOrEqual(t, redis.VersionTTL, 10*game_constants.PollInterval)
	assert.Greater(t, redis.VersionTTL, game_constants.PollInterval)
}
