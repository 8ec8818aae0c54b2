package controllers

import (
	"net/http"
	"strings"

	"gartictext/middleware"
	models "gartictext/models/postgres"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Local signup/login fallback for deployments without the external
// identity provider. Both issue the same bearer tokens the middleware
// verifies, so the rest of the API cannot tell the difference.

type signupBody struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// @Summary Registers a local account
// @Description Creates a user with a bcrypt-hashed password and returns a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param body body signupBody true "Credentials"
// @Success 201 {object} object{id=string,token=string}
// @Failure 400 {object} object{error=string}
// @Failure 500 {object} object{error=string}
// @Router /api/auth/signup [post]
func SignUp(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body signupBody
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Parameters can't be empty"})
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error hashing password"})
			return
		}

		user := models.User{
			ID:           uuid.NewString(),
			Username:     body.Username,
			Email:        body.Email,
			PasswordHash: string(hash),
		}
		if err := db.Create(&user).Error; err != nil {
			if strings.Contains(err.Error(), "duplicate") {
				c.JSON(http.StatusBadRequest, gin.H{"error": "User with this email or username already exists"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating user"})
			return
		}

		token, err := middleware.IssueToken(user.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error issuing token"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"id": user.ID, "token": token})
	}
}

// @Summary Logs a local account in
// @Description Verifies the password and returns a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} object{id=string,token=string}
// @Failure 400 {object} object{error=string}
// @Failure 401 {object} object{error=string}
// @Router /api/auth/login [post]
func Login(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body struct {
			Email    string `json:"email" binding:"required"`
			Password string `json:"password" binding:"required"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Parameters can't be empty"})
			return
		}

		var user models.User
		if err := db.Where("email = ?", body.Email).First(&user).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password!"})
			return
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(body.Password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password!"})
			return
		}

		token, err := middleware.IssueToken(user.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error issuing token"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": user.ID, "token": token})
	}
}
