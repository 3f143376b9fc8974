package models

import "time"

// Mood board item kinds.
const (
	ItemKindImage = "image"
	ItemKindFile  = "file"
	ItemKindEmoji = "emoji"
	ItemKindText  = "text"
)

// MoodBoardEntry is a mood board item synced by a signed-in user. Entries are append-only.
type MoodBoardEntry struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_mood_board_user_item" json:"-"`
	ItemID    string    `gorm:"size:64;not null;uniqueIndex:idx_mood_board_user_item" json:"id"`
	Kind      string    `gorm:"size:16;not null" json:"type"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Caption   string    `gorm:"size:255" json:"caption,omitempty"`
	Category  string    `gorm:"size:255" json:"category,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
