package models

import "time"

// CardActivity is an append-only audit row. The core never updates or deletes
// these; they are read back ordered by created_at descending.
type CardActivity struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	CardID    uint64    `gorm:"not null;index" json:"card_id"`
	UserID    uint64    `gorm:"not null" json:"user_id"`
	Action    string    `gorm:"type:text;not null" json:"action"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
