package models

import (
	"time"

	"gorm.io/gorm"
)

// List is an ordered column on a board. Position is a monotonically growing
// integer; ties sort by ID (creation order) and are never compacted.
type List struct {
	ID        uint64         `gorm:"primarykey" json:"id"`
	BoardID   uint64         `gorm:"not null;index" json:"board_id"`
	Name      string         `gorm:"type:varchar(255);not null" json:"name"`
	Position  int            `gorm:"not null" json:"position"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Board Board  `gorm:"foreignKey:BoardID" json:"board,omitempty"`
	Cards []Card `gorm:"foreignKey:ListID" json:"cards,omitempty"`
}
