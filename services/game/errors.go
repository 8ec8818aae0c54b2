package game

import "errors"

// Guard violations are classified so controllers can answer with the
// right status code (404 vs 403 vs 409) instead of a generic failure.
var (
	ErrGameNotFound   = errors.New("game not found")
	ErrUserNotFound   = errors.New("user not found")
	ErrEmptyField     = errors.New("required field is empty")
	ErrNotHost        = errors.New("only the host can do that")
	ErrGameFull       = errors.New("game is already full")
	ErrNameTaken      = errors.New("player name already used in this game")
	ErrAlreadyJoined  = errors.New("user is already in this game")
	ErrNotParticipant = errors.New("user is not a participant of this game")
	ErrBadState       = errors.New("operation not valid in the game's current state")
	ErrNoParticipants = errors.New("game has no participants")

	// ErrVersionConflict is returned when the conditional update on
	// update_number matched no row: someone else mutated the game between
	// our read and our write.
	ErrVersionConflict = errors.New("game was modified concurrently")
)
