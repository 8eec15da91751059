package models

import "time"

// ChatMessage is one entry in the single global chat feed. Append-only; the
// username column is a snapshot taken at write time and is never updated
// when the author later renames themselves.
type ChatMessage struct {
	ID       int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID   string `gorm:"type:uuid;not null;index" json:"-"`
	Username string `gorm:"size:20;not null" json:"username"`
	Content  string `gorm:"size:500;not null" json:"content"`

	CreatedAt time.Time `json:"created_at"`
}
