package controllers

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"

	"gartictext/middleware"
	models "gartictext/models/postgres"
	"gartictext/services/game"
	"gartictext/services/prompts"
	"gartictext/services/redis"
	"gartictext/utils"
	"gartictext/utils/logger"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var dataURLPattern = regexp.MustCompile(`^data:([^;]+);base64,(.+)$`)

// parseImageData accepts either a data URL or a bare base64 payload and
// returns the decoded bytes plus the mime type.
func parseImageData(raw string, fallbackMime string) ([]byte, string, error) {
	mime := fallbackMime
	payload := raw

	if matches := dataURLPattern.FindStringSubmatch(raw); matches != nil {
		mime = matches[1]
		payload = matches[2]
	}

	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("invalid base64 image payload: %w", err)
	}
	return decoded, mime, nil
}

func captionResponse(cap *models.Caption) gin.H {
	return gin.H{
		"id":      cap.ID,
		"userId":  cap.UserID,
		"imageId": cap.ImageID,
		"roundId": cap.RoundID,
		"text":    cap.Text,
		"votes":   cap.Votes,
		"user": gin.H{
			"id":                cap.User.ID,
			"username":          cap.User.Username,
			"profilePictureUrl": cap.User.ProfilePictureURL,
		},
	}
}

func imageResponse(img *models.Image) gin.H {
	captions := make([]gin.H, len(img.Captions))
	for i := range img.Captions {
		captions[i] = captionResponse(&img.Captions[i])
	}
	resp := gin.H{
		"id":       img.ID,
		"userId":   img.UserID,
		"roundId":  img.RoundID,
		"prompt":   img.Prompt,
		"votes":    img.Votes,
		"imageUrl": fmt.Sprintf("/api/images/%s/original", img.ID),
		"user": gin.H{
			"id":                img.User.ID,
			"username":          img.User.Username,
			"profilePictureUrl": img.User.ProfilePictureURL,
		},
		"captions": captions,
	}
	if len(img.EnhancedImageData) > 0 {
		resp["enhancedImageUrl"] = fmt.Sprintf("/api/images/%s/enhanced", img.ID)
	}
	return resp
}

type createImageBody struct {
	RoundID               string `json:"roundId" binding:"required"`
	Prompt                string `json:"prompt" binding:"required"`
	OriginalDrawingData   string `json:"originalDrawingData" binding:"required"`
	EnhancedImageData     string `json:"enhancedImageData"`
	EnhancedImageMimeType string `json:"enhancedImageMimeType"`
}

// @Summary Submits a drawing
// @Description Stores the drawing for the caller's game round. When every participant has submitted, the game advances from drawing to captioning.
// @Tags images
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param body body createImageBody true "Round id, prompt and base64 drawing payload"
// @Success 201 {object} object{id=string}
// @Failure 400 {object} object{error=string}
// @Failure 401 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Failure 500 {object} object{error=string}
// @Router /api/images [post]
// @Security ApiKeyAuth
func CreateImage(db *gorm.DB, rc *redis.RedisClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := middleware.JWTDecoder(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		var body createImageBody
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Required fields: roundId, prompt, originalDrawingData"})
			return
		}

		g, err := utils.CheckGameWithParticipants(db, body.RoundID)
		if err != nil {
			utils.AbortWithError(c, err)
			return
		}

		original, mime, err := parseImageData(body.OriginalDrawingData, "image/png")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		img := models.Image{
			UserID:                  userID,
			RoundID:                 g.ID,
			Prompt:                  body.Prompt,
			OriginalDrawingData:     original,
			OriginalDrawingMimeType: mime,
		}
		if body.EnhancedImageData != "" {
			enhanced, enhancedMime, err := parseImageData(body.EnhancedImageData, "image/png")
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if body.EnhancedImageMimeType != "" {
				enhancedMime = body.EnhancedImageMimeType
			}
			img.EnhancedImageData = enhanced
			img.EnhancedImageMimeType = enhancedMime
		}

		if err := db.Create(&img).Error; err != nil {
			logger.Errorf("failed to create image: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating image"})
			return
		}

		// All drawings in -> captioning.
		var submitted int64
		if err := db.Model(&models.Image{}).Where("round_id = ?", g.ID).Count(&submitted).Error; err == nil {
			prev := g.UpdateNumber
			if game.DrawingSubmitted(g, int(submitted)) {
				if err := persistGame(db, rc, g, prev, nil); err != nil {
					logger.Warnf("failed to advance game %s to captioning: %v", g.ID, err)
				}
			}
		}

		c.JSON(http.StatusCreated, gin.H{"id": img.ID})
	}
}

type enhancedImageBody struct {
	EnhancedImageData     string         `json:"enhancedImageData" binding:"required"`
	EnhancedImageMimeType string         `json:"enhancedImageMimeType"`
	EnhancementMeta       map[string]any `json:"enhancementMeta"`
}

// @Summary Stores the AI-enhanced rendition of a drawing
// @Description Called by the enhancement service once its pass finishes
// @Tags images
// @Accept json
// @Produce json
// @Param id path string true "Image id"
// @Param body body enhancedImageBody true "Base64 enhanced payload"
// @Success 200 {object} object{message=string}
// @Failure 400 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /api/images/{id}/enhanced [put]
func UpdateEnhancedImage(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		var body enhancedImageBody
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Enhanced image data is required"})
			return
		}

		var img models.Image
		if err := db.Where("id = ?", id).First(&img).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Image not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			}
			return
		}

		data, mime, err := parseImageData(body.EnhancedImageData, "image/png")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if body.EnhancedImageMimeType != "" {
			mime = body.EnhancedImageMimeType
		}

		updates := map[string]interface{}{
			"enhanced_image_data":      data,
			"enhanced_image_mime_type": mime,
		}
		if body.EnhancementMeta != nil {
			if raw, err := json.Marshal(body.EnhancementMeta); err == nil {
				updates["enhancement_meta"] = datatypes.JSON(raw)
			}
		}

		if err := db.Model(&img).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating enhanced image"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Enhanced image was updated successfully"})
	}
}

type captionedImageBody struct {
	CaptionedImageData     string `json:"captionedImageData" binding:"required"`
	CaptionedImageMimeType string `json:"captionedImageMimeType"`
}

// @Summary Stores the caption-burned rendition of a drawing
// @Description The share-card variant with the winning caption rendered onto the image
// @Tags images
// @Accept json
// @Produce json
// @Param id path string true "Image id"
// @Param body body captionedImageBody true "Base64 captioned payload"
// @Success 200 {object} object{message=string}
// @Failure 400 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /api/images/{id}/captioned [put]
func UpdateCaptionedImage(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		var body captionedImageBody
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Captioned image data is required"})
			return
		}

		var img models.Image
		if err := db.Where("id = ?", id).First(&img).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Image not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			}
			return
		}

		data, mime, err := parseImageData(body.CaptionedImageData, "image/png")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if body.CaptionedImageMimeType != "" {
			mime = body.CaptionedImageMimeType
		}

		err = db.Model(&img).Updates(map[string]interface{}{
			"captioned_image_data":      data,
			"captioned_image_mime_type": mime,
		}).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating captioned image"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Captioned image was updated successfully"})
	}
}

type voteBody struct {
	Rating int `json:"rating"`
}

// @Summary Votes for a drawing
// @Description Adds the rating (default 1) to the image's vote count. No dedup: each call counts.
// @Tags images
// @Accept json
// @Produce json
// @Param id path string true "Image id"
// @Param body body voteBody false "Optional rating"
// @Success 200 {object} object{message=string,votes=integer}
// @Failure 404 {object} object{error=string}
// @Router /api/images/{id}/vote [put]
func VoteImage(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		var body voteBody
		_ = c.ShouldBindJSON(&body)
		rating := body.Rating
		if rating <= 0 {
			rating = 1
		}

		var img models.Image
		if err := db.Where("id = ?", id).First(&img).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Image not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			}
			return
		}

		if err := db.Model(&img).
			UpdateColumn("votes", gorm.Expr("votes + ?", rating)).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error processing the vote"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": fmt.Sprintf("Vote added successfully with rating %d", rating),
			"votes":   img.Votes + rating,
		})
	}
}

// @Summary Lists a round's drawings
// @Description All images of a game with their captions, highest-voted first
// @Tags images
// @Produce json
// @Param roundId path string true "Room code"
// @Success 200 {array} object{id=string}
// @Failure 500 {object} object{error=string}
// @Router /api/images/round/{roundId} [get]
func GetImagesByRound(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var images []models.Image
		err := db.Preload("User").Preload("Captions").Preload("Captions.User").
			Where("round_id = ?", c.Param("roundId")).
			Order("votes DESC").
			Find(&images).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving images"})
			return
		}

		list := make([]gin.H, len(images))
		for i := range images {
			list[i] = imageResponse(&images[i])
		}
		c.JSON(http.StatusOK, list)
	}
}

// @Summary Fetches one drawing
// @Tags images
// @Produce json
// @Param id path string true "Image id"
// @Success 200 {object} object{id=string}
// @Failure 404 {object} object{error=string}
// @Router /api/images/{id} [get]
func GetImage(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var img models.Image
		err := db.Preload("User").Preload("Captions").Preload("Captions.User").
			Where("id = ?", c.Param("id")).First(&img).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Image not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			}
			return
		}
		c.JSON(http.StatusOK, imageResponse(&img))
	}
}

// @Summary Fetches the newest drawing
// @Tags images
// @Produce json
// @Success 200 {object} object{id=string}
// @Failure 404 {object} object{error=string}
// @Router /api/images/latest [get]
func GetLatestImage(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var img models.Image
		err := db.Preload("User").Preload("Captions").Preload("Captions.User").
			Order("created_at DESC").First(&img).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "No images found in database"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			}
			return
		}
		c.JSON(http.StatusOK, imageResponse(&img))
	}
}

func serveImagePayload(c *gin.Context, data []byte, mime string) {
	if len(data) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Image payload not found"})
		return
	}
	if mime == "" {
		mime = "image/png"
	}
	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(http.StatusOK, mime, data)
}

// @Summary Serves the raw original drawing
// @Tags images
// @Produce png
// @Param id path string true "Image id"
// @Success 200 {file} binary
// @Failure 404 {object} object{error=string}
// @Router /api/images/{id}/original [get]
func GetOriginalImage(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var img models.Image
		if err := db.Select("original_drawing_data", "original_drawing_mime_type").
			Where("id = ?", c.Param("id")).First(&img).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Original image not found"})
			return
		}
		serveImagePayload(c, img.OriginalDrawingData, img.OriginalDrawingMimeType)
	}
}

// @Summary Serves the raw enhanced rendition
// @Tags images
// @Produce png
// @Param id path string true "Image id"
// @Success 200 {file} binary
// @Failure 404 {object} object{error=string}
// @Router /api/images/{id}/enhanced [get]
func GetEnhancedImage(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var img models.Image
		if err := db.Select("enhanced_image_data", "enhanced_image_mime_type").
			Where("id = ?", c.Param("id")).First(&img).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Enhanced image not found"})
			return
		}
		serveImagePayload(c, img.EnhancedImageData, img.EnhancedImageMimeType)
	}
}

// @Summary Serves the raw caption-burned rendition
// @Tags images
// @Produce png
// @Param id path string true "Image id"
// @Success 200 {file} binary
// @Failure 404 {object} object{error=string}
// @Router /api/images/{id}/captioned [get]
func GetCaptionedImage(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var img models.Image
		if err := db.Select("captioned_image_data", "captioned_image_mime_type").
			Where("id = ?", c.Param("id")).First(&img).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Captioned image not found"})
			return
		}
		serveImagePayload(c, img.CaptionedImageData, img.CaptionedImageMimeType)
	}
}

// @Summary Fetches the drawing assigned to a user for captioning
// @Description Round-robin: the roster is sorted by id and each player captions the next player's drawing
// @Tags images
// @Produce json
// @Param gameId path string true "Room code"
// @Param userId query string true "User id"
// @Success 200 {object} object{alreadyCaptioned=boolean}
// @Failure 400 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /api/images/assigned/{gameId} [get]
func GetAssignedImage(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Query("userId")
		gameID := c.Param("gameId")
		if userID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "User ID and game ID are required"})
			return
		}

		g, err := utils.CheckGameWithParticipants(db, gameID)
		if err != nil {
			utils.AbortWithError(c, err)
			return
		}
		if len(g.Participants) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No participants found in the game"})
			return
		}

		owner, ok := prompts.AssignedImageOwner(g.Participants, userID)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "User is not a participant in this game"})
			return
		}

		var img models.Image
		err = db.Preload("User").Preload("Captions").Preload("Captions.User").
			Where("round_id = ? AND user_id = ?", g.ID, owner.ID).
			First(&img).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{
					"error": fmt.Sprintf("No image found for assigned user %s in this round", owner.Username),
				})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			}
			return
		}

		for i := range img.Captions {
			if img.Captions[i].UserID == userID {
				c.JSON(http.StatusOK, gin.H{
					"image":            imageResponse(&img),
					"alreadyCaptioned": true,
					"existingCaption":  captionResponse(&img.Captions[i]),
				})
				return
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"image":            imageResponse(&img),
			"alreadyCaptioned": false,
			"assignedTo": gin.H{
				"id":       owner.ID,
				"username": owner.Username,
			},
		})
	}
}
