package controllers

import (
	"net/http"
	"strconv"
	"time"

	"gartictext/services/cleanup"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// @Summary Deletes expired anonymous guest accounts
// @Description Removes users whose email carries the guest domain and whose account is older than the configured TTL
// @Tags admin
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Success 200 {object} object{message=string,deleted=integer}
// @Failure 401 {object} object{error=string}
// @Failure 500 {object} object{error=string}
// @Router /api/admin/cleanup-temp-users [post]
// @Security ApiKeyAuth
func CleanupTempUsers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		deleted, err := cleanup.DeleteTemporaryUsers(db, cleanup.TTL())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error cleaning up temporary users"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message": "Temporary user cleanup completed",
			"deleted": deleted,
		})
	}
}

// @Summary Lists anonymous guest accounts older than a cutoff
// @Tags admin
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param hours query integer false "Age cutoff in hours (default: the configured TTL)"
// @Success 200 {object} object{count=integer,users=array}
// @Failure 401 {object} object{error=string}
// @Failure 500 {object} object{error=string}
// @Router /api/admin/temp-users [get]
func ListTempUsers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ttl := cleanup.TTL()
		if raw := c.Query("hours"); raw != "" {
			if hours, err := strconv.Atoi(raw); err == nil && hours > 0 {
				ttl = time.Duration(hours) * time.Hour
			}
		}

		users, err := cleanup.FindTemporaryUsers(db, ttl)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error listing temporary users"})
			return
		}

		list := make([]gin.H, len(users))
		for i := range users {
			list[i] = gin.H{
				"id":        users[i].ID,
				"username":  users[i].Username,
				"email":     users[i].Email,
				"createdAt": users[i].CreatedAt,
			}
		}
		c.JSON(http.StatusOK, gin.H{"count": len(list), "users": list})
	}
}
