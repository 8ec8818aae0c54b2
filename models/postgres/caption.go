package postgres

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/*
 * 'Caption' is a player's caption for an assigned image. It contains
 * references to User, Image and (via RoundID) Game
 */
type Caption struct {
	ID        string    `gorm:"primaryKey;size:36;not null"`
	UserID    string    `gorm:"size:100;not null;index:idx_captions_user"`
	ImageID   string    `gorm:"size:36;not null;index:idx_captions_image"`
	RoundID   string    `gorm:"size:6;not null;index:idx_captions_round"`
	Text      string    `gorm:"size:255;not null"`
	Votes     int       `gorm:"default:0"`
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP"`

	// Relationships
	User  User  `gorm:"foreignKey:UserID"`
	Image Image `gorm:"foreignKey:ImageID"`
	Game  Game  `gorm:"foreignKey:RoundID;constraint:OnDelete:CASCADE"`
}

func (c *Caption) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
