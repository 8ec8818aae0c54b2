package controllers

import (
	"errors"
	"math/rand"
	"net/http"

	"gartictext/middleware"
	models "gartictext/models/postgres"
	"gartictext/services/prompts"
	"gartictext/utils"
	"gartictext/utils/logger"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func promptResponse(p *models.Prompt) gin.H {
	resp := gin.H{
		"id":        p.ID,
		"text":      p.Text,
		"creatorId": p.CreatorID,
		"roundId":   p.RoundID,
	}
	if p.AssignedToID != "" {
		resp["assignedToId"] = p.AssignedToID
	}
	return resp
}

type createPromptBody struct {
	Text    string `json:"text" binding:"required"`
	RoundID string `json:"roundId" binding:"required"`
}

// @Summary Submits a prompt suggestion for a round
// @Tags prompts
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param body body createPromptBody true "Prompt text and round id"
// @Success 201 {object} object{id=string}
// @Failure 400 {object} object{error=string}
// @Failure 401 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /api/prompts [post]
// @Security ApiKeyAuth
func CreatePrompt(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := middleware.JWTDecoder(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		var body createPromptBody
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Required fields: text, roundId"})
			return
		}

		if _, err := utils.CheckGameExists(db, body.RoundID); err != nil {
			utils.AbortWithError(c, err)
			return
		}

		p := models.Prompt{
			Text:      body.Text,
			CreatorID: userID,
			RoundID:   body.RoundID,
		}
		if err := db.Create(&p).Error; err != nil {
			logger.Errorf("failed to create prompt: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating prompt"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"id": p.ID})
	}
}

// @Summary Lists a round's prompt suggestions
// @Tags prompts
// @Produce json
// @Param roundId path string true "Room code"
// @Success 200 {array} object{id=string}
// @Failure 500 {object} object{error=string}
// @Router /api/prompts/round/{roundId} [get]
func GetPromptsByRound(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var list []models.Prompt
		err := db.Where("round_id = ?", c.Param("roundId")).Find(&list).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving prompts"})
			return
		}

		resp := make([]gin.H, len(list))
		for i := range list {
			resp[i] = promptResponse(&list[i])
		}
		c.JSON(http.StatusOK, resp)
	}
}

// @Summary Distributes a round's prompts among its participants
// @Description Each participant is matched with a prompt written by someone else. Assignments are persisted on the prompt rows.
// @Tags prompts
// @Produce json
// @Param roundId path string true "Room code"
// @Success 200 {object} object{assignments=object}
// @Failure 404 {object} object{error=string}
// @Failure 409 {object} object{error=string}
// @Router /api/prompts/round/{roundId}/assign [post]
func AssignPrompts(db *gorm.DB, rng *rand.Rand) gin.HandlerFunc {
	return func(c *gin.Context) {
		g, err := utils.CheckGameWithParticipants(db, c.Param("roundId"))
		if err != nil {
			utils.AbortWithError(c, err)
			return
		}
		if len(g.Participants) == 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "No participants found in the game"})
			return
		}

		var promptList []models.Prompt
		if err := db.Where("round_id = ?", g.ID).Find(&promptList).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving prompts"})
			return
		}
		if len(promptList) == 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "No prompts found for this round"})
			return
		}

		promptPtrs := make([]*models.Prompt, len(promptList))
		for i := range promptList {
			promptPtrs[i] = &promptList[i]
		}
		assignments := prompts.Assign(promptPtrs, g.Participants, rng)

		err = db.Transaction(func(tx *gorm.DB) error {
			for _, a := range assignments {
				if err := tx.Model(&models.Prompt{}).
					Where("id = ?", a.PromptID).
					Update("assigned_to_id", a.UserID).Error; err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			logger.Errorf("failed to persist prompt assignments for game %s: %v", g.ID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error assigning prompts"})
			return
		}

		byUser := make(gin.H, len(assignments))
		for _, a := range assignments {
			byUser[a.UserID] = gin.H{"promptId": a.PromptID, "text": a.PromptText}
		}
		c.JSON(http.StatusOK, gin.H{"assignments": byUser})
	}
}

// @Summary Fetches the prompt assigned to a user for drawing
// @Tags prompts
// @Produce json
// @Param roundId path string true "Room code"
// @Param userId path string true "User id"
// @Success 200 {object} object{id=string}
// @Failure 400 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /api/prompts/round/{roundId}/user/{userId} [get]
func GetAssignedPrompt(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("userId")
		if userID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "User ID is required"})
			return
		}

		var p models.Prompt
		err := db.Where("round_id = ? AND assigned_to_id = ?", c.Param("roundId"), userID).
			First(&p).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "No prompt assigned to this user for this round"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			}
			return
		}
		c.JSON(http.StatusOK, promptResponse(&p))
	}
}
