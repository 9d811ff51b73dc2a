package models

import (
	"time"

	"gorm.io/gorm"
)

type Board struct {
	ID             uint64         `gorm:"primarykey" json:"id"`
	OrganizationID uint64         `gorm:"not null;index" json:"organization_id"`
	Name           string         `gorm:"type:varchar(255);not null" json:"name"`
	Color          string         `gorm:"type:varchar(20);not null;default:'blue'" json:"color"`
	CreatedBy      uint64         `gorm:"not null" json:"created_by"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Organization Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
	Lists        []List       `gorm:"foreignKey:BoardID" json:"lists,omitempty"`
}
