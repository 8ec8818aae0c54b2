package postgres

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

/*
 * 'Image' is a submitted drawing. RoundID equals the owning game's code
 * (single round per game); it is a real foreign key to Game so artifacts
 * cascade away when the game is destroyed. The enhanced payload is filled
 * in asynchronously by the external enhancement service.
 */
type Image struct {
	ID                      string         `gorm:"primaryKey;size:36;not null"`
	UserID                  string         `gorm:"size:100;not null;index:idx_images_user"`
	RoundID                 string         `gorm:"size:6;not null;index:idx_images_round"`
	Prompt                  string         `gorm:"size:255;not null"`
	OriginalDrawingData     []byte         `gorm:"type:bytea"`
	OriginalDrawingMimeType string         `gorm:"size:50;default:'image/png'"`
	EnhancedImageData       []byte         `gorm:"type:bytea"`
	EnhancedImageMimeType   string         `gorm:"size:50"`
	CaptionedImageData      []byte         `gorm:"type:bytea"`
	CaptionedImageMimeType  string         `gorm:"size:50"`
	EnhancementMeta         datatypes.JSON `gorm:"type:jsonb;default:'{}'"`
	Votes                   int            `gorm:"default:0"`
	CreatedAt               time.Time      `gorm:"default:CURRENT_TIMESTAMP"`

	// Relationships
	User     User      `gorm:"foreignKey:UserID"`
	Game     Game      `gorm:"foreignKey:RoundID;constraint:OnDelete:CASCADE"`
	Captions []Caption `gorm:"foreignKey:ImageID;constraint:OnDelete:CASCADE"`
}

func (i *Image) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}
