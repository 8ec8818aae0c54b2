package controllers

import (
	"errors"
	"net/http"
	"strings"

	models "gartictext/models/postgres"
	"gartictext/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ensureUserBody struct {
	ID                string `json:"id" binding:"required"`
	Username          string `json:"username" binding:"required"`
	Email             string `json:"email" binding:"required"`
	ProfilePictureURL string `json:"profilePictureUrl"`
}

func userResponse(u *models.User) gin.H {
	return gin.H{
		"id":                u.ID,
		"username":          u.Username,
		"email":             u.Email,
		"profilePictureUrl": u.ProfilePictureURL,
		"score":             u.Score,
		"gamesPlayed":       u.GamesPlayed,
		"gamesWon":          u.GamesWon,
	}
}

// @Summary Ensures a user exists
// @Description Called on first authenticated contact. Returns the existing row when the identity id is already known, otherwise creates it.
// @Tags users
// @Accept json
// @Produce json
// @Param body body ensureUserBody true "Identity id, display name and email"
// @Success 200 {object} object{id=string}
// @Success 201 {object} object{id=string}
// @Failure 400 {object} object{error=string}
// @Failure 500 {object} object{error=string}
// @Router /api/users [post]
func EnsureUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body ensureUserBody
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "id, username and email are required"})
			return
		}

		var existing models.User
		err := db.Where("id = ?", body.ID).First(&existing).Error
		if err == nil {
			c.JSON(http.StatusOK, userResponse(&existing))
			return
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		user := models.User{
			ID:                body.ID,
			Username:          body.Username,
			Email:             body.Email,
			ProfilePictureURL: body.ProfilePictureURL,
		}
		if err := db.Create(&user).Error; err != nil {
			if strings.Contains(err.Error(), "duplicate") {
				c.JSON(http.StatusBadRequest, gin.H{"error": "User with this email or username already exists"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating user"})
			return
		}

		c.JSON(http.StatusCreated, userResponse(&user))
	}
}

// @Summary Lists all users
// @Tags users
// @Produce json
// @Success 200 {array} object{id=string,username=string}
// @Failure 500 {object} object{error=string}
// @Router /api/users [get]
func GetAllUsers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var users []models.User
		if err := db.Find(&users).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving users"})
			return
		}

		list := make([]gin.H, len(users))
		for i := range users {
			list[i] = userResponse(&users[i])
		}
		c.JSON(http.StatusOK, list)
	}
}

// @Summary Fetches one user
// @Tags users
// @Produce json
// @Param id path string true "User id"
// @Success 200 {object} object{id=string,username=string}
// @Failure 404 {object} object{error=string}
// @Router /api/users/{id} [get]
func GetUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := utils.CheckUserExists(db, c.Param("id"))
		if err != nil {
			utils.AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, userResponse(user))
	}
}

type updateUserBody struct {
	Username          *string `json:"username"`
	ProfilePictureURL *string `json:"profilePictureUrl"`
}

// @Summary Updates a user's profile
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "User id"
// @Param body body updateUserBody true "Fields to change"
// @Success 200 {object} object{message=string}
// @Failure 404 {object} object{error=string}
// @Failure 500 {object} object{error=string}
// @Router /api/users/{id} [patch]
func UpdateUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := utils.CheckUserExists(db, c.Param("id"))
		if err != nil {
			utils.AbortWithError(c, err)
			return
		}

		var body updateUserBody
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		updates := map[string]interface{}{}
		if body.Username != nil {
			updates["username"] = *body.Username
		}
		if body.ProfilePictureURL != nil {
			updates["profile_picture_url"] = *body.ProfilePictureURL
		}
		if len(updates) == 0 {
			c.JSON(http.StatusOK, gin.H{"message": "nothing to update"})
			return
		}

		if err := db.Model(user).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating user"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "User was updated successfully"})
	}
}

// @Summary Deletes a user account
// @Tags users
// @Produce json
// @Param id path string true "User id"
// @Success 200 {object} object{message=string}
// @Failure 404 {object} object{error=string}
// @Failure 500 {object} object{error=string}
// @Router /api/users/{id} [delete]
func DeleteUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := utils.CheckUserExists(db, c.Param("id"))
		if err != nil {
			utils.AbortWithError(c, err)
			return
		}

		if err := db.Delete(user).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error deleting user"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "User was deleted successfully"})
	}
}
