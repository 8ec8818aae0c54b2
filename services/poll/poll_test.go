package poll_test

import (
	"testing"

	models "gartictext/models/postgres"
	"gartictext/services/poll"
	"gartictext/services/redis"

	"github.com/stretchr/testify/assert"
)

func TestToken(t *testing.T) {
	assert.Equal(t, "ABC2340", poll.Token("ABC234", 0))
	assert.Equal(t, "ABC23417", poll.Token("ABC234", 17))
}

func TestCurrent(t *testing.T) {
	g := &models.Game{ID: "ABC234", UpdateNumber: 3}

	assert.True(t, poll.Current(g, "ABC2343"))
	assert.False(t, poll.Current(g, "ABC2342"))
	assert.False(t, poll.Current(g, poll.ResetToken))
	assert.False(t, poll.Current(g, ""))

	// A change on the game invalidates the old token.
	g.UpdateNumber++
	assert.False(t, poll.Current(g, "ABC2343"))
	assert.True(t, poll.Current(g, "ABC2344"))
}

func TestFastPathCurrentWithoutRedis(t *testing.T) {
	// nil client, empty token and the reset token all force the DB path.
	assert.False(t, poll.FastPathCurrent(nil, "ABC234", "ABC2343"))
	assert.False(t, poll.FastPathCurrent(nil, "ABC234", ""))
	assert.False(t, poll.FastPathCurrent(nil, "ABC234", poll.ResetToken))
}

func TestFastPathNeverShortCircuitsOnRedisFailure(t *testing.T) {
	// Port 1 refuses connections. A mirror that cannot be read must send
	// the caller to Postgres, never answer "unchanged" on faith.
	rc := redis.NewRedisClient("127.0.0.1:1", 0)

	assert.False(t, poll.FastPathCurrent(rc, "ABC234", "ABC2343"))
}

func TestRefreshAndForgetSurviveRedisFailure(t *testing.T) {
	// Mirror writes are best-effort: a dead redis must not fail the
	// request that already committed to Postgres.
	rc := redis.NewRedisClient("127.0.0.1:1", 0)
	g := &models.Game{ID: "ABC234", UpdateNumber: 3}

	assert.NotPanics(t, func() { poll.Refresh(rc, g) })
	assert.NotPanics(t, func() { poll.Forget(rc, "ABC234") })
}

func TestNewLobbySnapshot(t *testing.T) {
	g := &models.Game{
		ID:           "ABC234",
		Name:         "friday night",
		HostID:       "host",
		Status:       models.StatusLobby,
		TotalRounds:  3,
		DrawingTime:  60,
		WritingTime:  60,
		MaxPlayers:   8,
		UpdateNumber: 5,
		Participants: []*models.User{
			{ID: "host", Username: "alice", ProfilePictureURL: "http://pic/a"},
			{ID: "u2", Username: "bob"},
		},
	}

	snap := poll.NewLobbySnapshot(g)

	assert.Equal(t, "friday night", snap.GameName)
	assert.Equal(t, "host", snap.GameHost)
	assert.Equal(t, models.StatusLobby, snap.Status)
	assert.Equal(t, 3, snap.Rounds)
	assert.Equal(t, 8, snap.MaxPlayers)
	assert.Equal(t, "ABC2345", snap.CurrentUpdate)
	assert.Len(t, snap.Participants, 2)
	assert.Equal(t, "alice", snap.Participants[0].Name)
	assert.Equal(t, "http://pic/a", snap.Participants[0].Avatar)
}

func TestNewPromptSnapshot(t *testing.T) {
	g := &models.Game{
		ID:           "ABC234",
		Status:       models.StatusDrawing,
		PrompterID:   "u2",
		PromptString: "a cat riding a vacuum cleaner",
		UpdateNumber: 2,
	}

	snap := poll.NewPromptSnapshot(g)

	assert.Equal(t, "u2", snap.PrompterID)
	assert.Equal(t, "a cat riding a vacuum cleaner", snap.PromptString)
	assert.Equal(t, models.StatusDrawing, snap.Status)
	assert.Equal(t, "ABC2342", snap.CurrentUpdate)
}
