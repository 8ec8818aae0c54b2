package controllers

import (
	"net/http"

	models "gartictext/models/postgres"
	"gartictext/services/results"
	"gartictext/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// @Summary Computes the final scoreboard for a game
// @Description Aggregates drawing and caption votes into a ranked leaderboard with medals, per-player best submissions and the top drawings
// @Tags results
// @Produce json
// @Param gameId path string true "Room code"
// @Success 200 {object} object{gameId=string}
// @Failure 404 {object} object{error=string}
// @Failure 500 {object} object{error=string}
// @Router /api/results/games/{gameId} [get]
func GetGameResults(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		g, err := utils.CheckGameWithParticipants(db, c.Param("gameId"))
		if err != nil {
			utils.AbortWithError(c, err)
			return
		}

		var images []models.Image
		err = db.Preload("User").Preload("Captions").Preload("Captions.User").
			Where("round_id = ?", g.ID).
			Order("votes DESC").
			Find(&images).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving game results"})
			return
		}

		c.JSON(http.StatusOK, results.Compute(g, images))
	}
}
