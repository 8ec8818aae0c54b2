package results_test

import (
	"fmt"
	"testing"

	models "gartictext/models/postgres"
	"gartictext/services/results"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gameWith(players ...*models.User) *models.Game {
	return &models.Game{
		ID:           "ABC234",
		Name:         "friday night",
		Participants: players,
	}
}

func TestComputeLeaderboard(t *testing.T) {
	t.Run("ties share rank and the next player skips ahead", func(t *testing.T) {
		// alice 10, bob 10, carol 4 -> ranks 1, 1, 3.
		g := gameWith(
			&models.User{ID: "u1", Username: "alice"},
			&models.User{ID: "u2", Username: "bob"},
			&models.User{ID: "u3", Username: "carol"},
		)
		images := []models.Image{
			{ID: "i1", UserID: "u1", Votes: 10},
			{ID: "i2", UserID: "u2", Votes: 10},
			{ID: "i3", UserID: "u3", Votes: 4},
		}

		res := results.Compute(g, images)

		require.Len(t, res.Leaderboard, 3)
		assert.Equal(t, 24, res.TotalVotes)

		assert.Equal(t, 1, res.Leaderboard[0].Rank)
		assert.Equal(t, 1, res.Leaderboard[1].Rank)
		assert.Equal(t, 3, res.Leaderboard[2].Rank)

		assert.Equal(t, results.MedalGold, res.Leaderboard[0].Medal)
		assert.Equal(t, results.MedalGold, res.Leaderboard[1].Medal)
		assert.Equal(t, results.MedalSilver, res.Leaderboard[2].Medal)
	})

	t.Run("three distinct values band gold silver bronze", func(t *testing.T) {
		g := gameWith(
			&models.User{ID: "u1", Username: "alice"},
			&models.User{ID: "u2", Username: "bob"},
			&models.User{ID: "u3", Username: "carol"},
			&models.User{ID: "u4", Username: "dave"},
		)
		images := []models.Image{
			{ID: "i1", UserID: "u1", Votes: 9},
			{ID: "i2", UserID: "u2", Votes: 6},
			{ID: "i3", UserID: "u3", Votes: 3},
			{ID: "i4", UserID: "u4", Votes: 1},
		}

		res := results.Compute(g, images)

		assert.Equal(t, results.MedalGold, res.Leaderboard[0].Medal)
		assert.Equal(t, results.MedalSilver, res.Leaderboard[1].Medal)
		assert.Equal(t, results.MedalBronze, res.Leaderboard[2].Medal)
		assert.Empty(t, res.Leaderboard[3].Medal)

		assert.Equal(t, []int{1, 2, 3, 4}, []int{
			res.Leaderboard[0].Rank,
			res.Leaderboard[1].Rank,
			res.Leaderboard[2].Rank,
			res.Leaderboard[3].Rank,
		})
	})

	t.Run("zero votes never medal", func(t *testing.T) {
		g := gameWith(
			&models.User{ID: "u1", Username: "alice"},
			&models.User{ID: "u2", Username: "bob"},
		)
		images := []models.Image{
			{ID: "i1", UserID: "u1", Votes: 5},
			{ID: "i2", UserID: "u2", Votes: 0},
		}

		res := results.Compute(g, images)

		assert.Equal(t, results.MedalGold, res.Leaderboard[0].Medal)
		assert.Empty(t, res.Leaderboard[1].Medal)
		assert.Equal(t, 0, res.Leaderboard[1].VotePercentage)
	})

	t.Run("caption votes credit their author", func(t *testing.T) {
		g := gameWith(
			&models.User{ID: "u1", Username: "alice"},
			&models.User{ID: "u2", Username: "bob"},
		)
		images := []models.Image{
			{
				ID: "i1", UserID: "u1", Votes: 2,
				Captions: []models.Caption{
					{ID: "c1", UserID: "u2", Text: "nice hat", Votes: 7,
						User: models.User{ID: "u2", Username: "bob"}},
				},
			},
			{ID: "i2", UserID: "u2", Votes: 1},
		}

		res := results.Compute(g, images)

		require.Len(t, res.Leaderboard, 2)
		// bob: 1 drawing vote + 7 caption votes = 8; alice: 2.
		assert.Equal(t, "u2", res.Leaderboard[0].UserID)
		assert.Equal(t, 8, res.Leaderboard[0].TotalVotes)
		assert.Equal(t, 1, res.Leaderboard[0].DrawingVotes)
		assert.Equal(t, 7, res.Leaderboard[0].CaptionVotes)
		assert.Equal(t, 80, res.Leaderboard[0].VotePercentage)
		assert.Equal(t, 20, res.Leaderboard[1].VotePercentage)
	})

	t.Run("no votes at all produces a zeroed board", func(t *testing.T) {
		g := gameWith(&models.User{ID: "u1", Username: "alice"})

		res := results.Compute(g, nil)

		require.Len(t, res.Leaderboard, 1)
		assert.Equal(t, 0, res.TotalVotes)
		assert.Equal(t, 0, res.Leaderboard[0].VotePercentage)
		assert.Empty(t, res.Leaderboard[0].Medal)
		assert.Equal(t, 1, res.Leaderboard[0].Rank)
	})
}

func TestComputeBestSubmission(t *testing.T) {
	g := gameWith(
		&models.User{ID: "u1", Username: "alice"},
		&models.User{ID: "u2", Username: "bob"},
	)
	images := []models.Image{
		{ID: "i1", UserID: "u1", Votes: 3},
		{
			ID: "i2", UserID: "u1", Votes: 8,
			EnhancedImageData: []byte{0x1},
			Captions: []models.Caption{
				{ID: "c1", UserID: "u2", Text: "low", Votes: 1,
					User: models.User{ID: "u2", Username: "bob"}},
				{ID: "c2", UserID: "u2", Text: "high", Votes: 4,
					User: models.User{ID: "u2", Username: "bob"}},
			},
		},
	}

	res := results.Compute(g, images)

	var alice *results.LeaderboardEntry
	for i := range res.Leaderboard {
		if res.Leaderboard[i].UserID == "u1" {
			alice = &res.Leaderboard[i]
		}
	}
	require.NotNil(t, alice)
	require.NotNil(t, alice.BestSubmission)

	assert.Equal(t, "i2", alice.BestSubmission.ImageID)
	assert.Equal(t, 8, alice.BestSubmission.Votes)
	assert.Equal(t, 8, alice.BestVotes)
	assert.Equal(t, "/api/images/i2/original", alice.BestSubmission.ImageURL)
	assert.Equal(t, "/api/images/i2/enhanced", alice.BestSubmission.EnhancedImageURL)

	require.NotNil(t, alice.BestSubmission.Caption)
	assert.Equal(t, "high", alice.BestSubmission.Caption.Text)
	assert.Equal(t, "bob", alice.BestSubmission.Caption.Creator.Username)
}

func TestComputeTopDrawings(t *testing.T) {
	players := make([]*models.User, 7)
	images := make([]models.Image, 7)
	for i := 0; i < 7; i++ {
		id := fmt.Sprintf("u%d", i+1)
		players[i] = &models.User{ID: id, Username: id}
		images[i] = models.Image{
			ID:     fmt.Sprintf("i%d", i+1),
			UserID: id,
			Votes:  i + 1,
			User:   models.User{ID: id, Username: id},
		}
	}

	res := results.Compute(gameWith(players...), images)

	require.Len(t, res.TopDrawings, 5)
	assert.Equal(t, "i7", res.TopDrawings[0].DrawingID)
	assert.Equal(t, 7, res.TopDrawings[0].Votes)
	assert.Equal(t, "i3", res.TopDrawings[4].DrawingID)
	// 7 of 28 total votes.
	assert.Equal(t, 25, res.TopDrawings[0].VotePercentage)
	assert.Equal(t, "u7", res.TopDrawings[0].Creator.ID)
}
