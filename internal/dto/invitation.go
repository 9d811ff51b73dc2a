package dto

import (
	"time"

	"github.com/nanaqwameboafo/trello-clone/internal/models"
)

// InvitationDTO represents an invitation in API responses. The token is never
// included; it travels only inside the capability URL.
type InvitationDTO struct {
	ID             uint64                  `json:"id"`
	OrganizationID uint64                  `json:"organization_id"`
	Email          string                  `json:"email"`
	Role           models.OrganizationRole `json:"role"`
	Status         models.InvitationStatus `json:"status"`
	ExpiresAt      time.Time               `json:"expires_at"`
}

// InvitationResolveDTO is the payload returned when a token is resolved,
// enough for the acceptance page to render the organization name.
type InvitationResolveDTO struct {
	OrganizationID   uint64    `json:"organization_id"`
	OrganizationName string    `json:"organization_name"`
	Email            string    `json:"email"`
	ExpiresAt        time.Time `json:"expires_at"`
}

// ToInvitationDTO converts an invitation model to its API representation
func ToInvitationDTO(invitation models.Invitation) InvitationDTO {
	return InvitationDTO{
		ID:             invitation.ID,
		OrganizationID: invitation.OrganizationID,
		Email:          invitation.Email,
		Role:           invitation.Role,
		Status:         invitation.Status,
		ExpiresAt:      invitation.ExpiresAt,
	}
}

// ToInvitationResolveDTO converts an invitation with its organization preloaded
func ToInvitationResolveDTO(invitation models.Invitation) InvitationResolveDTO {
	return InvitationResolveDTO{
		OrganizationID:   invitation.OrganizationID,
		OrganizationName: invitation.Organization.Name,
		Email:            invitation.Email,
		ExpiresAt:        invitation.ExpiresAt,
	}
}
