package models

import (
	"time"

	"gorm.io/gorm"
)

type Card struct {
	ID          uint64         `gorm:"primarykey" json:"id"`
	ListID      uint64         `gorm:"not null;index" json:"list_id"`
	Title       string         `gorm:"not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Position    int            `gorm:"not null" json:"position"`
	CreatedBy   uint64         `gorm:"not null" json:"created_by"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	List       List           `gorm:"foreignKey:ListID" json:"list,omitempty"`
	Activities []CardActivity `gorm:"foreignKey:CardID" json:"activities,omitempty"`
}
