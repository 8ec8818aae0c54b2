package prompts_test

import (
	"math/rand"
	"testing"

	models "gartictext/models/postgres"
	"gartictext/services/prompts"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssign(t *testing.T) {
	t.Run("nobody draws their own prompt", func(t *testing.T) {
		participants := []*models.User{
			{ID: "u1", Username: "alice"},
			{ID: "u2", Username: "bob"},
			{ID: "u3", Username: "carol"},
		}
		promptList := []*models.Prompt{
			{ID: "p1", Text: "one", CreatorID: "u1"},
			{ID: "p2", Text: "two", CreatorID: "u2"},
			{ID: "p3", Text: "three", CreatorID: "u3"},
		}
		byCreator := map[string]string{"p1": "u1", "p2": "u2", "p3": "u3"}

		rng := rand.New(rand.NewSource(7))
		assignments := prompts.Assign(promptList, participants, rng)

		seen := make(map[string]bool)
		for _, a := range assignments {
			assert.NotEqual(t, byCreator[a.PromptID], a.UserID)
			assert.False(t, seen[a.PromptID], "prompt %s assigned twice", a.PromptID)
			seen[a.PromptID] = true
		}
		for _, p := range promptList {
			if p.AssignedToID != "" {
				assert.NotEqual(t, p.CreatorID, p.AssignedToID)
			}
		}
	})

	t.Run("a participant without an eligible prompt is skipped", func(t *testing.T) {
		// Both prompts belong to u2: u1 takes one, u2 has nothing left
		// it did not write itself.
		participants := []*models.User{
			{ID: "u1", Username: "alice"},
			{ID: "u2", Username: "bob"},
		}
		promptList := []*models.Prompt{
			{ID: "p1", Text: "one", CreatorID: "u2"},
			{ID: "p2", Text: "two", CreatorID: "u2"},
		}

		rng := rand.New(rand.NewSource(1))
		assignments := prompts.Assign(promptList, participants, rng)

		require.Len(t, assignments, 1)
		assert.Equal(t, "u1", assignments[0].UserID)
	})

	t.Run("already assigned prompts stay put", func(t *testing.T) {
		participants := []*models.User{{ID: "u1", Username: "alice"}}
		promptList := []*models.Prompt{
			{ID: "p1", Text: "one", CreatorID: "u2", AssignedToID: "u3"},
		}

		rng := rand.New(rand.NewSource(1))
		assignments := prompts.Assign(promptList, participants, rng)

		assert.Empty(t, assignments)
		assert.Equal(t, "u3", promptList[0].AssignedToID)
	})

	t.Run("seeded runs are reproducible", func(t *testing.T) {
		build := func() ([]*models.Prompt, []*models.User) {
			return []*models.Prompt{
					{ID: "p1", Text: "one", CreatorID: "u1"},
					{ID: "p2", Text: "two", CreatorID: "u2"},
					{ID: "p3", Text: "three", CreatorID: "u3"},
				}, []*models.User{
					{ID: "u1"}, {ID: "u2"}, {ID: "u3"},
				}
		}

		promptsA, usersA := build()
		promptsB, usersB := build()
		first := prompts.Assign(promptsA, usersA, rand.New(rand.NewSource(99)))
		second := prompts.Assign(promptsB, usersB, rand.New(rand.NewSource(99)))

		assert.Equal(t, first, second)
	})
}

func TestAssignedImageOwner(t *testing.T) {
	t.Run("a lone player captions their own drawing", func(t *testing.T) {
		owner, ok := prompts.AssignedImageOwner([]*models.User{{ID: "u1"}}, "u1")

		require.True(t, ok)
		assert.Equal(t, "u1", owner.ID)
	})

	t.Run("two players swap", func(t *testing.T) {
		roster := []*models.User{{ID: "u1"}, {ID: "u2"}}

		owner, ok := prompts.AssignedImageOwner(roster, "u1")
		require.True(t, ok)
		assert.Equal(t, "u2", owner.ID)

		owner, ok = prompts.AssignedImageOwner(roster, "u2")
		require.True(t, ok)
		assert.Equal(t, "u1", owner.ID)
	})

	t.Run("three or more rotate by sorted id", func(t *testing.T) {
		// Deliberately unsorted input: rotation runs over ids u1 < u2 < u3.
		roster := []*models.User{{ID: "u3"}, {ID: "u1"}, {ID: "u2"}}

		expected := map[string]string{"u1": "u2", "u2": "u3", "u3": "u1"}
		for userID, want := range expected {
			owner, ok := prompts.AssignedImageOwner(roster, userID)
			require.True(t, ok)
			assert.Equal(t, want, owner.ID, "owner for %s", userID)
		}
	})

	t.Run("unknown user reports false", func(t *testing.T) {
		_, ok := prompts.AssignedImageOwner([]*models.User{{ID: "u1"}}, "stranger")
		assert.False(t, ok)
	})
}
