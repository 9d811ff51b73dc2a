package services

import (
	"github.com/nanaqwameboafo/trello-clone/internal/models"
	"github.com/nanaqwameboafo/trello-clone/internal/repository"
)

// MembershipGuard answers role-based authorization questions over organization
// memberships. Every predicate fails closed: a missing membership or a lookup
// error means "no".
type MembershipGuard struct {
	orgRepo repository.OrganizationRepository
}

// NewMembershipGuard creates a new MembershipGuard.
func NewMembershipGuard(orgRepo repository.OrganizationRepository) *MembershipGuard {
	return &MembershipGuard{orgRepo: orgRepo}
}

func (g *MembershipGuard) roleOf(organizationID, userID uint64) (models.OrganizationRole, bool) {
	member, err := g.orgRepo.FindMember(organizationID, userID)
	if err != nil {
		return "", false
	}
	return member.Role, true
}

func elevated(role models.OrganizationRole) bool {
	return role == models.RoleAdmin || role == models.RoleOwner
}

// CanInvite reports whether the user may create invitations for the organization.
func (g *MembershipGuard) CanInvite(organizationID, userID uint64) bool {
	role, ok := g.roleOf(organizationID, userID)
	return ok && elevated(role)
}

// CanDeleteOrganization reports whether the user may delete the organization.
func (g *MembershipGuard) CanDeleteOrganization(organizationID, userID uint64) bool {
	role, ok := g.roleOf(organizationID, userID)
	return ok && elevated(role)
}

// CanRemoveMember reports whether the user may remove members from the organization.
func (g *MembershipGuard) CanRemoveMember(organizationID, userID uint64) bool {
	role, ok := g.roleOf(organizationID, userID)
	return ok && elevated(role)
}
