package controllers

import (
	models "gartictext/models/postgres"
	"gartictext/services/game"
	"gartictext/services/poll"
	"gartictext/services/redis"

	"gorm.io/gorm"
)

// persistGame writes a transitioned game back with a conditional update
// keyed on the update number we read, so concurrent mutations surface as
// a conflict instead of silently losing writes. extra runs inside the
// same transaction (participant rows, counters and the like). On success
// the redis version mirror is refreshed.
func persistGame(db *gorm.DB, rc *redis.RedisClient, g *models.Game, prevUpdate int, extra func(tx *gorm.DB) error) error {
	err := db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Game{}).
			Where("id = ? AND update_number = ?", g.ID, prevUpdate).
			Updates(map[string]interface{}{
				"status":             g.Status,
				"prompter_id":        g.PrompterID,
				"prompt_string":      g.PromptString,
				"max_players":        g.MaxPlayers,
				"drawing_time":       g.DrawingTime,
				"writing_time":       g.WritingTime,
				"current_round":      g.CurrentRound,
				"total_rounds":       g.TotalRounds,
				"submitted_captions": g.SubmittedCaptions,
				"voting_done_count":  g.VotingDoneCount,
				"update_number":      g.UpdateNumber,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return game.ErrVersionConflict
		}
		if extra != nil {
			return extra(tx)
		}
		return nil
	})
	if err != nil {
		return err
	}

	poll.Refresh(rc, g)
	return nil
}
