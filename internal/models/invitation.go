package models

import "time"

type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
)

// Invitation grants one email address the right to join an organization once.
// The token is the sole capability needed to view or accept it. Expiry is
// derived at read time from ExpiresAt; the stored status never becomes
// "expired".
type Invitation struct {
	ID             uint64           `gorm:"primarykey" json:"id"`
	OrganizationID uint64           `gorm:"not null;index" json:"organization_id"`
	Email          string           `gorm:"type:varchar(255);not null;index" json:"email"`
	Token          string           `gorm:"type:varchar(64);uniqueIndex;not null" json:"-"`
	InvitedBy      uint64           `gorm:"not null" json:"invited_by"`
	Role           OrganizationRole `gorm:"type:varchar(20);not null;default:'member'" json:"role"`
	Status         InvitationStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	ExpiresAt      time.Time        `gorm:"not null" json:"expires_at"`
	AcceptedAt     *time.Time       `json:"accepted_at,omitempty"`
	AcceptedBy     *uint64          `json:"accepted_by,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`

	// Relations
	Organization Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
}

// Expired reports whether the invitation is past its validity window.
func (i *Invitation) Expired(now time.Time) bool {
	return i.ExpiresAt.Before(now)
}
