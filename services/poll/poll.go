/*
 * Package poll implements the version-gated sync protocol. Clients poll
 * on a fixed interval carrying their last-known version token; the
 * server answers "good" when nothing changed and a full snapshot plus a
 * fresh token otherwise. The token is the game code concatenated with
 * its update number, so "did anything change" collapses into a string
 * compare.
 */
package poll

import (
	"strconv"

	models "gartictext/models/postgres"
	"gartictext/services/redis"
	"gartictext/utils/logger"
)

// UnchangedMessage is the sentinel body for an up-to-date poll.
const UnchangedMessage = "good"

// ResetToken forces a full snapshot; clients use it on their first poll
// after navigation so they never render another game's cached state.
const ResetToken = "0"

// Token derives the version token for a game.
func Token(gameID string, updateNumber int) string {
	return gameID + strconv.Itoa(updateNumber)
}

// Current reports whether the client's token matches the game's.
func Current(g *models.Game, clientToken string) bool {
	return clientToken == Token(g.ID, g.UpdateNumber)
}

// FastPathCurrent answers the poll from the Redis mirror alone. It only
// ever returns true on a confirmed match; a miss or error sends the
// caller to Postgres.
func FastPathCurrent(rc *redis.RedisClient, gameID string, clientToken string) bool {
	if rc == nil || clientToken == "" || clientToken == ResetToken {
		return false
	}
	token, err := rc.GetGameVersion(gameID)
	if err != nil {
		if !redis.IsNil(err) {
			logger.Warnf("redis version lookup failed for game %s: %v", gameID, err)
		}
		return false
	}
	return token == clientToken
}

// Refresh writes the game's current token through to the mirror. The
// mirror is best-effort and Postgres stays the source of truth, but a
// failed write must not leave the previous token serving "unchanged"
// for a game that just advanced: on error the entry is dropped so the
// next poll goes to Postgres. The short VersionTTL covers the case
// where the delete fails too.
func Refresh(rc *redis.RedisClient, g *models.Game) {
	if rc == nil {
		return
	}
	if err := rc.SetGameVersion(g.ID, Token(g.ID, g.UpdateNumber)); err != nil {
		logger.Warnf("redis version refresh failed for game %s: %v", g.ID, err)
		if err := rc.DeleteGameVersion(g.ID); err != nil {
			logger.Warnf("redis version invalidate failed for game %s: %v", g.ID, err)
		}
	}
}

// Forget drops the mirror entry for a destroyed game.
func Forget(rc *redis.RedisClient, gameID string) {
	if rc == nil {
		return
	}
	if err := rc.DeleteGameVersion(gameID); err != nil {
		logger.Warnf("redis version delete failed for game %s: %v", gameID, err)
	}
}

// PlayerInfo is one roster entry in a lobby snapshot.
type PlayerInfo struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}

// LobbySnapshot is the full lobbyInfo payload sent when the client's
// token is stale.
type LobbySnapshot struct {
	GameName      string       `json:"gameName"`
	GameHost      string       `json:"gameHost"`
	Status        string       `json:"status"`
	Rounds        int          `json:"rounds"`
	DrawingTime   int          `json:"drawingTime"`
	WritingTime   int          `json:"writingTime"`
	MaxPlayers    int          `json:"maxPlayers"`
	Participants  []PlayerInfo `json:"participants"`
	CurrentUpdate string       `json:"currentUpdate"`
}

// PromptSnapshot is the promptInfo payload.
type PromptSnapshot struct {
	PrompterID    string `json:"prompterId"`
	PromptString  string `json:"promptString,omitempty"`
	Status        string `json:"status"`
	CurrentUpdate string `json:"currentUpdate"`
}

// NewLobbySnapshot builds the lobbyInfo payload from a loaded game.
func NewLobbySnapshot(g *models.Game) LobbySnapshot {
	players := make([]PlayerInfo, len(g.Participants))
	for i, p := range g.Participants {
		players[i] = PlayerInfo{
			ID:     p.ID,
			Name:   p.Username,
			Avatar: p.ProfilePictureURL,
		}
	}
	return LobbySnapshot{
		GameName:      g.Name,
		GameHost:      g.HostID,
		Status:        g.Status,
		Rounds:        g.TotalRounds,
		DrawingTime:   g.DrawingTime,
		WritingTime:   g.WritingTime,
		MaxPlayers:    g.MaxPlayers,
		Participants:  players,
		CurrentUpdate: Token(g.ID, g.UpdateNumber),
	}
}

// NewPromptSnapshot builds the promptInfo payload from a loaded game.
func NewPromptSnapshot(g *models.Game) PromptSnapshot {
	return PromptSnapshot{
		PrompterID:    g.PrompterID,
		PromptString:  g.PromptString,
		Status:        g.Status,
		CurrentUpdate: Token(g.ID, g.UpdateNumber),
	}
}
