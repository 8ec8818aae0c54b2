package postgres

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/*
 * 'Prompt' belongs to the multi-prompt flow: every participant writes one
 * prompt and is handed exactly one other participant's prompt to draw.
 * AssignedToID stays empty until assignment runs.
 */
type Prompt struct {
	ID           string    `gorm:"primaryKey;size:36;not null"`
	Text         string    `gorm:"size:255;not null"`
	CreatorID    string    `gorm:"size:100;not null;index:idx_prompts_creator"`
	RoundID      string    `gorm:"size:6;not null;index:idx_prompts_round"`
	AssignedToID string    `gorm:"size:100;index:idx_prompts_assigned"`
	CreatedAt    time.Time `gorm:"default:CURRENT_TIMESTAMP"`

	// Relationships
	Creator User `gorm:"foreignKey:CreatorID"`
	Game    Game `gorm:"foreignKey:RoundID;constraint:OnDelete:CASCADE"`
}

func (p *Prompt) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
