/*
 * Package game owns the state machine of a play session:
 * lobby -> prompting -> drawing -> captioning -> voting -> completed.
 *
 * Transitions are pure functions over an in-memory Game (with its roster
 * loaded); persistence and the update_number conditional write happen in
 * the controllers. A rejected guard leaves the struct untouched, so a
 * failed request never half-applies.
 */
package game

import (
	"math/rand"
	"strings"

	models "gartictext/models/postgres"
)

// SettingsPatch carries the host-editable lobby settings. Nil fields are
// left alone.
type SettingsPatch struct {
	MaxPlayers  *int
	TotalRounds *int
	DrawingTime *int
	WritingTime *int
}

// ValidateCreate checks the create-game input before anything is written.
func ValidateCreate(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyField
	}
	return nil
}

// Join adds user to the roster. Room-local username uniqueness holds
// across authenticated and anonymous identities alike.
func Join(g *models.Game, user *models.User) error {
	if g.Status != models.StatusLobby {
		return ErrBadState
	}
	if len(g.Participants) >= g.MaxPlayers {
		return ErrGameFull
	}
	for _, p := range g.Participants {
		if p.ID == user.ID {
			return ErrAlreadyJoined
		}
		if p.Username == user.Username {
			return ErrNameTaken
		}
	}

	g.Participants = append(g.Participants, user)
	g.UpdateNumber++
	return nil
}

// Leave removes the participant. When the host leaves there is no host
// migration: the caller must destroy the whole game, signalled by
// hostLeft.
func Leave(g *models.Game, userID string) (hostLeft bool, err error) {
	idx := -1
	for i, p := range g.Participants {
		if p.ID == userID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return false, ErrNotParticipant
	}

	if userID == g.HostID {
		return true, nil
	}

	g.Participants = append(g.Participants[:idx], g.Participants[idx+1:]...)
	g.UpdateNumber++
	return false, nil
}

// ApplySettings mutates the host-editable settings. Any call by the host
// bumps the update number, matching the polling contract (clients refetch
// even when nothing actually changed value).
func ApplySettings(g *models.Game, callerID string, patch SettingsPatch) error {
	if callerID != g.HostID {
		return ErrNotHost
	}

	if patch.MaxPlayers != nil {
		g.MaxPlayers = *patch.MaxPlayers
	}
	if patch.TotalRounds != nil {
		g.TotalRounds = *patch.TotalRounds
	}
	if patch.DrawingTime != nil {
		g.DrawingTime = *patch.DrawingTime
	}
	if patch.WritingTime != nil {
		g.WritingTime = *patch.WritingTime
	}

	g.UpdateNumber++
	return nil
}

// Start moves lobby -> prompting and picks the prompter uniformly at
// random from the roster. rng is injected so tests can pin the outcome.
func Start(g *models.Game, callerID string, rng *rand.Rand) error {
	if callerID != g.HostID {
		return ErrNotHost
	}
	if g.Status != models.StatusLobby {
		return ErrBadState
	}
	if len(g.Participants) < 1 {
		return ErrNoParticipants
	}

	prompter := g.Participants[rng.Intn(len(g.Participants))]
	g.PrompterID = prompter.ID
	g.Status = models.StatusPrompting
	g.CurrentRound = 1
	g.UpdateNumber++
	return nil
}

// SubmitPrompt stores the round's prompt and moves prompting -> drawing.
// Any participant may submit, not just the designated prompter; the
// original service never restricted it.
func SubmitPrompt(g *models.Game, text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyField
	}
	if g.Status != models.StatusPrompting {
		return ErrBadState
	}

	g.PromptString = text
	g.Status = models.StatusDrawing
	g.UpdateNumber++
	return nil
}

// DrawingSubmitted counts a submitted drawing and advances
// drawing -> captioning once every participant has one in.
func DrawingSubmitted(g *models.Game, submittedDrawings int) (advanced bool) {
	if g.Status != models.StatusDrawing {
		return false
	}
	if submittedDrawings < len(g.Participants) {
		return false
	}
	g.Status = models.StatusCaptioning
	g.UpdateNumber++
	return true
}

// CaptionSubmitted counts a submitted caption and advances
// captioning -> voting once every participant has one in.
func CaptionSubmitted(g *models.Game) (advanced bool) {
	g.SubmittedCaptions++
	if g.SubmittedCaptions >= len(g.Participants) {
		g.Status = models.StatusVoting
		g.UpdateNumber++
		return true
	}
	return false
}

// VotingFinished counts a participant who cast their last vote and
// advances voting -> completed once everyone is done.
func VotingFinished(g *models.Game) (advanced bool) {
	g.VotingDoneCount++
	if g.VotingDoneCount >= len(g.Participants) {
		g.Status = models.StatusCompleted
		g.UpdateNumber++
		return true
	}
	return false
}

// End marks the game completed. No guard on the prior state: the results
// screen must stay reachable however the game got wedged. The returned
// flag tells the caller whether the game was already completed, so
// once-per-game side effects (played-game counters) don't repeat.
func End(g *models.Game) (alreadyCompleted bool) {
	alreadyCompleted = g.Status == models.StatusCompleted
	g.Status = models.StatusCompleted
	g.UpdateNumber++
	return alreadyCompleted
}
