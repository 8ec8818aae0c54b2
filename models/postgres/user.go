package postgres

import (
	"time"

	"gorm.io/datatypes"
)

/*
 * 'User' contains the blueprint definition of a player account. The id is
 * the stable uid supplied by the identity provider, or a synthesized uuid
 * for anonymous guests. It is referenced in Game, Image, Caption, Prompt
 */
type User struct {
	ID                string         `gorm:"primaryKey;size:100;not null"`
	Username          string         `gorm:"size:50;not null;uniqueIndex"`
	Email             string         `gorm:"size:100;not null;uniqueIndex"`
	ProfilePictureURL string         `gorm:"size:255"`
	PasswordHash      string         `gorm:"size:255"`
	Score             int            `gorm:"default:0"`
	GamesPlayed       int            `gorm:"default:0"`
	GamesWon          int            `gorm:"default:0"`
	Stats             datatypes.JSON `gorm:"type:jsonb;default:'{}'"`
	CreatedAt         time.Time      `gorm:"default:CURRENT_TIMESTAMP"`
	UpdatedAt         time.Time

	// Relationships
	Images   []Image   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Captions []Caption `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Games    []*Game   `gorm:"many2many:game_participants;"`
}
