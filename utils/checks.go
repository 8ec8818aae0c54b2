package utils

import (
	"errors"

	models "gartictext/models/postgres"
	"gartictext/services/game"

	"gorm.io/gorm"
)

// CheckGameExists loads a game by code.
func CheckGameExists(db *gorm.DB, gameID string) (*models.Game, error) {
	var g models.Game
	result := db.Where("id = ?", gameID).First(&g)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, game.ErrGameNotFound
		}
		return nil, result.Error
	}
	return &g, nil
}

// CheckGameWithParticipants loads a game together with its roster.
func CheckGameWithParticipants(db *gorm.DB, gameID string) (*models.Game, error) {
	var g models.Game
	result := db.Preload("Participants").Where("id = ?", gameID).First(&g)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, game.ErrGameNotFound
		}
		return nil, result.Error
	}
	return &g, nil
}

// CheckUserExists loads a user by id.
func CheckUserExists(db *gorm.DB, userID string) (*models.User, error) {
	var user models.User
	result := db.Where("id = ?", userID).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, game.ErrUserNotFound
		}
		return nil, result.Error
	}
	return &user, nil
}

// IsParticipant checks membership without loading the whole roster.
func IsParticipant(db *gorm.DB, gameID string, userID string) (bool, error) {
	var count int64
	err := db.Table("game_participants").
		Where("game_id = ? AND user_id = ?", gameID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
