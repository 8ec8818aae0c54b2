/*
 * Package prompts handles artifact distribution: handing each
 * participant another participant's prompt to draw, and another
 * participant's drawing to caption.
 */
package prompts

import (
	"math/rand"
	"sort"

	models "gartictext/models/postgres"
)

// Assignment records one prompt handed to one participant.
type Assignment struct {
	UserID     string `json:"userId"`
	PromptID   string `json:"promptId"`
	PromptText string `json:"promptText"`
}

// Assign hands each participant, in list order, one random prompt that
// is unassigned and not their own, writing AssignedToID in place.
//
// Caveat carried over from the original behavior on purpose: the
// matching is greedy and order-dependent, so with unlucky draws a late
// participant can be left without a prompt. They are skipped silently.
func Assign(promptList []*models.Prompt, participants []*models.User, rng *rand.Rand) []Assignment {
	assignments := make([]Assignment, 0, len(participants))

	for _, participant := range participants {
		eligible := make([]*models.Prompt, 0, len(promptList))
		for _, p := range promptList {
			if p.CreatorID != participant.ID && p.AssignedToID == "" {
				eligible = append(eligible, p)
			}
		}
		if len(eligible) == 0 {
			continue
		}

		selected := eligible[rng.Intn(len(eligible))]
		selected.AssignedToID = participant.ID

		assignments = append(assignments, Assignment{
			UserID:     participant.ID,
			PromptID:   selected.ID,
			PromptText: selected.Text,
		})
	}

	return assignments
}

// AssignedImageOwner decides whose drawing a participant captions: the
// roster is sorted by id and everyone takes the next player's image
// round-robin. A lone player captions their own; two players swap.
func AssignedImageOwner(participants []*models.User, userID string) (*models.User, bool) {
	sorted := make([]*models.User, len(participants))
	copy(sorted, participants)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].ID < sorted[j].ID
	})

	index := -1
	for i, p := range sorted {
		if p.ID == userID {
			index = i
			break
		}
	}
	if index == -1 {
		return nil, false
	}

	n := len(sorted)
	switch n {
	case 1:
		return sorted[index], true
	case 2:
		return sorted[1-index], true
	default:
		return sorted[(index+1)%n], true
	}
}
