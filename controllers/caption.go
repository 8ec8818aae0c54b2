package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"gartictext/middleware"
	models "gartictext/models/postgres"
	"gartictext/services/game"
	"gartictext/services/redis"
	"gartictext/utils"
	"gartictext/utils/logger"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type createCaptionBody struct {
	ImageID string `json:"imageId" binding:"required"`
	Text    string `json:"text" binding:"required"`
	RoundID string `json:"roundId" binding:"required"`
}

// @Summary Submits a caption for a drawing
// @Description Records the caller's caption. When every participant has captioned, the game advances from captioning to voting.
// @Tags captions
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param body body createCaptionBody true "Image id, caption text and round id"
// @Success 201 {object} object{id=string}
// @Failure 400 {object} object{error=string}
// @Failure 401 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Failure 500 {object} object{error=string}
// @Router /api/captions [post]
// @Security ApiKeyAuth
func CreateCaption(db *gorm.DB, rc *redis.RedisClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := middleware.JWTDecoder(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		var body createCaptionBody
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Required fields: imageId, text, roundId"})
			return
		}

		g, err := utils.CheckGameWithParticipants(db, body.RoundID)
		if err != nil {
			utils.AbortWithError(c, err)
			return
		}

		var img models.Image
		if err := db.Where("id = ?", body.ImageID).First(&img).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Image not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			}
			return
		}

		cap := models.Caption{
			UserID:  userID,
			ImageID: img.ID,
			RoundID: g.ID,
			Text:    body.Text,
		}
		if err := db.Create(&cap).Error; err != nil {
			logger.Errorf("failed to create caption: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating caption"})
			return
		}

		// Every caption bumps the submitted counter; all in -> voting.
		prev := g.UpdateNumber
		game.CaptionSubmitted(g)
		if err := persistGame(db, rc, g, prev, nil); err != nil {
			logger.Warnf("failed to record caption submission for game %s: %v", g.ID, err)
		}

		c.JSON(http.StatusCreated, gin.H{"id": cap.ID})
	}
}

type captionVoteBody struct {
	Rating     int  `json:"rating"`
	IsLastVote bool `json:"isLastVote"`
}

// @Summary Votes for a caption
// @Description Adds the rating (default 1) to the caption's votes. With isLastVote the caller declares their voting done; once every participant is done the game completes.
// @Tags captions
// @Accept json
// @Produce json
// @Param id path string true "Caption id"
// @Param body body captionVoteBody false "Optional rating and isLastVote flag"
// @Success 200 {object} object{message=string,votes=integer}
// @Failure 404 {object} object{error=string}
// @Router /api/captions/{id}/vote [put]
func VoteCaption(db *gorm.DB, rc *redis.RedisClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		var body captionVoteBody
		_ = c.ShouldBindJSON(&body)
		rating := body.Rating
		if rating <= 0 {
			rating = 1
		}

		var cap models.Caption
		if err := db.Where("id = ?", id).First(&cap).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Caption not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			}
			return
		}

		if err := db.Model(&cap).
			UpdateColumn("votes", gorm.Expr("votes + ?", rating)).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error processing the vote"})
			return
		}

		if body.IsLastVote {
			g, err := utils.CheckGameWithParticipants(db, cap.RoundID)
			if err == nil {
				prev := g.UpdateNumber
				game.VotingFinished(g)
				if err := persistGame(db, rc, g, prev, nil); err != nil {
					logger.Warnf("failed to record voting completion for game %s: %v", g.ID, err)
				}
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"message": fmt.Sprintf("Vote added successfully with rating %d", rating),
			"votes":   cap.Votes + rating,
		})
	}
}

// @Summary Lists an image's captions
// @Tags captions
// @Produce json
// @Param imageId path string true "Image id"
// @Success 200 {array} object{id=string}
// @Failure 500 {object} object{error=string}
// @Router /api/captions/image/{imageId} [get]
func GetCaptionsByImage(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var captions []models.Caption
		err := db.Preload("User").
			Where("image_id = ?", c.Param("imageId")).
			Order("votes DESC").
			Find(&captions).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving captions"})
			return
		}

		list := make([]gin.H, len(captions))
		for i := range captions {
			list[i] = captionResponse(&captions[i])
		}
		c.JSON(http.StatusOK, list)
	}
}

// @Summary Lists a round's captions
// @Tags captions
// @Produce json
// @Param roundId path string true "Room code"
// @Success 200 {array} object{id=string}
// @Failure 500 {object} object{error=string}
// @Router /api/captions/round/{roundId} [get]
func GetCaptionsByRound(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var captions []models.Caption
		err := db.Preload("User").
			Where("round_id = ?", c.Param("roundId")).
			Order("votes DESC").
			Find(&captions).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving captions"})
			return
		}

		list := make([]gin.H, len(captions))
		for i := range captions {
			list[i] = captionResponse(&captions[i])
		}
		c.JSON(http.StatusOK, list)
	}
}

// @Summary Fetches one caption
// @Tags captions
// @Produce json
// @Param id path string true "Caption id"
// @Success 200 {object} object{id=string}
// @Failure 404 {object} object{error=string}
// @Router /api/captions/{id} [get]
func GetCaption(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var cap models.Caption
		err := db.Preload("User").Where("id = ?", c.Param("id")).First(&cap).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Caption not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			}
			return
		}
		c.JSON(http.StatusOK, captionResponse(&cap))
	}
}
