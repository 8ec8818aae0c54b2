package postgres

import (
	"math/rand"
	"time"

	"gorm.io/gorm"
)

// Canonical status values for a game. The original service also carried
// "waiting", "in_progress" and "trophies" in places; those are dead
// aliases and are never emitted here.
const (
	StatusLobby      = "lobby"
	StatusPrompting  = "prompting"
	StatusDrawing    = "drawing"
	StatusCaptioning = "captioning"
	StatusVoting     = "voting"
	StatusCompleted  = "completed"
)

/*
 * 'Game' defines the structure of a play session. Its primary key is the
 * human-shareable 6 character room code. It contains references to User
 * and, through the round id, to Image, Caption and Prompt
 */
type Game struct {
	ID                string    `gorm:"primaryKey;size:6;not null"`
	Name              string    `gorm:"size:100;not null"`
	HostID            string    `gorm:"size:100;not null;index:idx_games_host"`
	Status            string    `gorm:"size:20;default:'lobby';index:idx_games_status"`
	PrompterID        string    `gorm:"size:100"`
	PromptString      string    `gorm:"size:255"`
	MaxPlayers        int       `gorm:"default:8"`
	DrawingTime       int       `gorm:"default:60"`
	WritingTime       int       `gorm:"default:60"`
	CurrentRound      int       `gorm:"default:0"`
	TotalRounds       int       `gorm:"default:3"`
	UpdateNumber      int       `gorm:"default:0"`
	SubmittedCaptions int       `gorm:"default:0"`
	VotingDoneCount   int       `gorm:"default:0"`
	CreatedAt         time.Time `gorm:"default:CURRENT_TIMESTAMP"`
	UpdatedAt         time.Time

	// Relationships
	Host         User    `gorm:"foreignKey:HostID"`
	Participants []*User `gorm:"many2many:game_participants;constraint:OnDelete:CASCADE"`
}

// Room code alphabet, with the ambiguous glyphs (0/O/1/I) left out so
// codes survive being read aloud or scribbled on a whiteboard.
const CodeCharset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// CodeLength is the fixed length of a room code.
const CodeLength = 6

func generateGameCode(length int) string {
	b := make([]byte, length)
	for i := range b {
		b[i] = CodeCharset[rand.Intn(len(CodeCharset))]
	}
	return string(b)
}

// Ensure the generated code is unique. Codes share an id space with users
// (a guest id must never collide with a joinable room), so both tables
// are checked.
func (g *Game) BeforeCreate(tx *gorm.DB) (err error) {
	if g.ID != "" {
		return nil
	}
	for {
		newCode := generateGameCode(CodeLength)

		var gameCount int64
		if err := tx.Model(&Game{}).Where("id = ?", newCode).Count(&gameCount).Error; err != nil {
			return err
		}
		var userCount int64
		if err := tx.Model(&User{}).Where("id = ?", newCode).Count(&userCount).Error; err != nil {
			return err
		}

		if gameCount == 0 && userCount == 0 {
			g.ID = newCode
			return nil
		}
		// Otherwise, loop again to generate a new unique code
	}
}
