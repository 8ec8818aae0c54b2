package game_test

import (
	"math/rand"
	"testing"

	models "gartictext/models/postgres"
	"gartictext/services/game"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lobbyGame(hostID string, participants ...*models.User) *models.Game {
	return &models.Game{
		ID:           "ABC234",
		Name:         "friday night",
		HostID:       hostID,
		Status:       models.StatusLobby,
		MaxPlayers:   8,
		DrawingTime:  60,
		WritingTime:  60,
		TotalRounds:  3,
		Participants: participants,
	}
}

func player(id, username string) *models.User {
	return &models.User{ID: id, Username: username}
}

func TestValidateCreate(t *testing.T) {
	assert.NoError(t, game.ValidateCreate("my game"))
	assert.ErrorIs(t, game.ValidateCreate(""), game.ErrEmptyField)
	assert.ErrorIs(t, game.ValidateCreate("   "), game.ErrEmptyField)
}

func TestJoin(t *testing.T) {
	t.Run("adds the player and bumps the version", func(t *testing.T) {
		g := lobbyGame("host", player("host", "alice"))

		err := game.Join(g, player("u2", "bob"))

		require.NoError(t, err)
		assert.Len(t, g.Participants, 2)
		assert.Equal(t, 1, g.UpdateNumber)
	})

	t.Run("rejects a full lobby without bumping", func(t *testing.T) {
		g := lobbyGame("host", player("host", "alice"), player("u2", "bob"))
		g.MaxPlayers = 2

		err := game.Join(g, player("u3", "carol"))

		assert.ErrorIs(t, err, game.ErrGameFull)
		assert.Len(t, g.Participants, 2)
		assert.Equal(t, 0, g.UpdateNumber)
	})

	t.Run("rejects a duplicate user id", func(t *testing.T) {
		g := lobbyGame("host", player("host", "alice"))

		err := game.Join(g, player("host", "alice-again"))

		assert.ErrorIs(t, err, game.ErrAlreadyJoined)
		assert.Equal(t, 0, g.UpdateNumber)
	})

	t.Run("rejects a duplicate username", func(t *testing.T) {
		g := lobbyGame("host", player("host", "alice"))

		err := game.Join(g, player("u2", "alice"))

		assert.ErrorIs(t, err, game.ErrNameTaken)
		assert.Equal(t, 0, g.UpdateNumber)
	})

	t.Run("rejects joining a started game", func(t *testing.T) {
		g := lobbyGame("host", player("host", "alice"))
		g.Status = models.StatusDrawing

		err := game.Join(g, player("u2", "bob"))

		assert.ErrorIs(t, err, game.ErrBadState)
	})
}

func TestLeave(t *testing.T) {
	t.Run("removes a regular participant", func(t *testing.T) {
		g := lobbyGame("host", player("host", "alice"), player("u2", "bob"))

		hostLeft, err := game.Leave(g, "u2")

		require.NoError(t, err)
		assert.False(t, hostLeft)
		assert.Len(t, g.Participants, 1)
		assert.Equal(t, 1, g.UpdateNumber)
	})

	t.Run("signals host departure without mutating", func(t *testing.T) {
		g := lobbyGame("host", player("host", "alice"), player("u2", "bob"))

		hostLeft, err := game.Leave(g, "host")

		require.NoError(t, err)
		assert.True(t, hostLeft)
		assert.Len(t, g.Participants, 2)
		assert.Equal(t, 0, g.UpdateNumber)
	})

	t.Run("rejects a non-participant", func(t *testing.T) {
		g := lobbyGame("host", player("host", "alice"))

		_, err := game.Leave(g, "stranger")

		assert.ErrorIs(t, err, game.ErrNotParticipant)
	})
}

func TestApplySettings(t *testing.T) {
	maxPlayers := 4
	rounds := 5

	t.Run("host updates settings", func(t *testing.T) {
		g := lobbyGame("host", player("host", "alice"))

		err := game.ApplySettings(g, "host", game.SettingsPatch{
			MaxPlayers:  &maxPlayers,
			TotalRounds: &rounds,
		})

		require.NoError(t, err)
		assert.Equal(t, 4, g.MaxPlayers)
		assert.Equal(t, 5, g.TotalRounds)
		assert.Equal(t, 60, g.DrawingTime)
		assert.Equal(t, 1, g.UpdateNumber)
	})

	t.Run("empty patch still bumps the version", func(t *testing.T) {
		g := lobbyGame("host", player("host", "alice"))

		require.NoError(t, game.ApplySettings(g, "host", game.SettingsPatch{}))
		assert.Equal(t, 1, g.UpdateNumber)
	})

	t.Run("non-host is rejected", func(t *testing.T) {
		g := lobbyGame("host", player("host", "alice"), player("u2", "bob"))

		err := game.ApplySettings(g, "u2", game.SettingsPatch{MaxPlayers: &maxPlayers})

		assert.ErrorIs(t, err, game.ErrNotHost)
		assert.Equal(t, 8, g.MaxPlayers)
		assert.Equal(t, 0, g.UpdateNumber)
	})
}

func TestStart(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	t.Run("moves to prompting and picks a prompter", func(t *testing.T) {
		g := lobbyGame("host", player("host", "alice"), player("u2", "bob"))

		err := game.Start(g, "host", rng)

		require.NoError(t, err)
		assert.Equal(t, models.StatusPrompting, g.Status)
		assert.Equal(t, 1, g.CurrentRound)
		assert.Equal(t, 1, g.UpdateNumber)
		assert.Contains(t, []string{"host", "u2"}, g.PrompterID)
	})

	t.Run("a single participant can start", func(t *testing.T) {
		g := lobbyGame("host", player("host", "alice"))

		require.NoError(t, game.Start(g, "host", rng))
		assert.Equal(t, "host", g.PrompterID)
	})

	t.Run("non-host cannot start", func(t *testing.T) {
		g := lobbyGame("host", player("host", "alice"), player("u2", "bob"))

		assert.ErrorIs(t, game.Start(g, "u2", rng), game.ErrNotHost)
	})

	t.Run("empty roster cannot start", func(t *testing.T) {
		g := lobbyGame("host")

		assert.ErrorIs(t, game.Start(g, "host", rng), game.ErrNoParticipants)
	})

	t.Run("cannot start twice", func(t *testing.T) {
		g := lobbyGame("host", player("host", "alice"))
		require.NoError(t, game.Start(g, "host", rng))

		assert.ErrorIs(t, game.Start(g, "host", rng), game.ErrBadState)
	})
}

func TestSubmitPrompt(t *testing.T) {
	t.Run("stores the prompt and advances to drawing", func(t *testing.T) {
		g := lobbyGame("host", player("host", "alice"))
		g.Status = models.StatusPrompting

		err := game.SubmitPrompt(g, "a cat riding a vacuum cleaner")

		require.NoError(t, err)
		assert.Equal(t, models.StatusDrawing, g.Status)
		assert.Equal(t, "a cat riding a vacuum cleaner", g.PromptString)
		assert.Equal(t, 1, g.UpdateNumber)
	})

	t.Run("rejects empty text", func(t *testing.T) {
		g := lobbyGame("host", player("host", "alice"))
		g.Status = models.StatusPrompting

		assert.ErrorIs(t, game.SubmitPrompt(g, "  "), game.ErrEmptyField)
	})

	t.Run("rejects outside the prompting phase", func(t *testing.T) {
		g := lobbyGame("host", player("host", "alice"))

		assert.ErrorIs(t, game.SubmitPrompt(g, "something"), game.ErrBadState)
	})
}

func TestPhaseAdvances(t *testing.T) {
	twoPlayers := func() *models.Game {
		g := lobbyGame("host", player("host", "alice"), player("u2", "bob"))
		g.Status = models.StatusDrawing
		return g
	}

	t.Run("drawing advances only when everyone submitted", func(t *testing.T) {
		g := twoPlayers()

		assert.False(t, game.DrawingSubmitted(g, 1))
		assert.Equal(t, models.StatusDrawing, g.Status)

		assert.True(t, game.DrawingSubmitted(g, 2))
		assert.Equal(t, models.StatusCaptioning, g.Status)
		assert.Equal(t, 1, g.UpdateNumber)
	})

	t.Run("drawing count is ignored outside the drawing phase", func(t *testing.T) {
		g := twoPlayers()
		g.Status = models.StatusVoting

		assert.False(t, game.DrawingSubmitted(g, 5))
		assert.Equal(t, models.StatusVoting, g.Status)
	})

	t.Run("captions advance to voting when all are in", func(t *testing.T) {
		g := twoPlayers()
		g.Status = models.StatusCaptioning

		assert.False(t, game.CaptionSubmitted(g))
		assert.True(t, game.CaptionSubmitted(g))
		assert.Equal(t, models.StatusVoting, g.Status)
		assert.Equal(t, 2, g.SubmittedCaptions)
	})

	t.Run("last votes complete the game", func(t *testing.T) {
		g := twoPlayers()
		g.Status = models.StatusVoting

		assert.False(t, game.VotingFinished(g))
		assert.True(t, game.VotingFinished(g))
		assert.Equal(t, models.StatusCompleted, g.Status)
	})
}

func TestEnd(t *testing.T) {
	g := lobbyGame("host", player("host", "alice"))
	g.Status = models.StatusDrawing

	assert.False(t, game.End(g))
	assert.Equal(t, models.StatusCompleted, g.Status)
	assert.Equal(t, 1, g.UpdateNumber)

	// Ending again is allowed but reports the game was already done, so
	// callers skip their once-per-game side effects.
	assert.True(t, game.End(g))
	assert.Equal(t, models.StatusCompleted, g.Status)
	assert.Equal(t, 2, g.UpdateNumber)
}
