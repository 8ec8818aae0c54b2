package utils

import (
	"errors"
	"net/http"

	"gartictext/services/game"

	"github.com/gin-gonic/gin"
)

// AbortWithError maps a classified service error to its HTTP status.
// Validation -> 400, missing entity -> 404, authorization -> 403,
// illegal transition / capacity / duplicate / concurrent write -> 409,
// anything else -> 500.
func AbortWithError(c *gin.Context, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, game.ErrEmptyField):
		status = http.StatusBadRequest
	case errors.Is(err, game.ErrGameNotFound),
		errors.Is(err, game.ErrUserNotFound):
		status = http.StatusNotFound
	case errors.Is(err, game.ErrNotHost):
		status = http.StatusForbidden
	case errors.Is(err, game.ErrGameFull),
		errors.Is(err, game.ErrNameTaken),
		errors.Is(err, game.ErrAlreadyJoined),
		errors.Is(err, game.ErrNotParticipant),
		errors.Is(err, game.ErrBadState),
		errors.Is(err, game.ErrNoParticipants),
		errors.Is(err, game.ErrVersionConflict):
		status = http.StatusConflict
	}

	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}
