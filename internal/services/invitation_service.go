package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/nanaqwameboafo/trello-clone/internal/constants"
	"github.com/nanaqwameboafo/trello-clone/internal/models"
	"github.com/nanaqwameboafo/trello-clone/internal/repository"
	"github.com/nanaqwameboafo/trello-clone/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrInvitePermissionDenied = errors.New("only admins and owners can invite members")
	ErrInvitationNotFound     = errors.New("invitation is invalid or has been deleted")
	ErrInvitationExpired      = errors.New("invitation has expired")
	ErrInvitationAlreadyUsed  = errors.New("invitation has already been used")
	ErrActiveInvitationExists = errors.New("an active invitation already exists for this email")
	ErrTokenGenerationFailed  = errors.New("failed to generate invitation token")
)

// EmailMismatchError is returned when the authenticated acceptor's email does
// not match the email the invitation was issued for.
type EmailMismatchError struct {
	InvitedEmail string
	UserEmail    string
}

func (e *EmailMismatchError) Error() string {
	return fmt.Sprintf("this invitation is for %s; you are logged in as %s",
		e.InvitedEmail, e.UserEmail)
}

// InvitationService governs the invitation lifecycle: creation, read-time
// expiry, single-use acceptance and the membership race around it.
type InvitationService struct {
	inviteRepo repository.InvitationRepository
	orgRepo    repository.OrganizationRepository
	userRepo   repository.UserRepository
	guard      *MembershipGuard
	mailer     Mailer
	baseURL    string
	now        func() time.Time
}

// NewInvitationService creates a new InvitationService. mailer may be nil
// when email delivery is not configured; invitations are then created with a
// warning instead of an email.
func NewInvitationService(
	inviteRepo repository.InvitationRepository,
	orgRepo repository.OrganizationRepository,
	userRepo repository.UserRepository,
	guard *MembershipGuard,
	mailer Mailer,
	baseURL string,
) *InvitationService {
	return &InvitationService{
		inviteRepo: inviteRepo,
		orgRepo:    orgRepo,
		userRepo:   userRepo,
		guard:      guard,
		mailer:     mailer,
		baseURL:    baseURL,
		now:        time.Now,
	}
}

// SetClock overrides the service clock (used for testing expiry windows).
func (s *InvitationService) SetClock(now func() time.Time) {
	s.now = now
}

// CreateInvitationInput represents parameters to create an invitation.
type CreateInvitationInput struct {
	OrganizationID uint64
	Email          string
	Role           models.OrganizationRole
	InviterID      uint64
}

// CreateInvitation validates permissions, persists a pending invitation with
// a fresh capability token and a 7-day validity window, then attempts email
// delivery. A non-empty warning in the result means delivery was skipped or
// failed; the invitation itself still stands.
func (s *InvitationService) CreateInvitation(input CreateInvitationInput) (*models.Invitation, string, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	if !s.guard.CanInvite(input.OrganizationID, input.InviterID) {
		return nil, "", ErrInvitePermissionDenied
	}

	org, err := s.orgRepo.FindByID(input.OrganizationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrOrganizationNotFound
		}
		return nil, "", fmt.Errorf("failed to find organization: %w", err)
	}

	// Advisory fast-path only: two racing creates can both pass this check.
	// The duplicate is harmless, each token is still single-use.
	if _, err := s.inviteRepo.FindPendingByEmail(org.ID, email, s.now()); err == nil {
		return nil, "", ErrActiveInvitationExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", fmt.Errorf("failed to check existing invitations: %w", err)
	}

	token, err := utils.GenerateInviteToken()
	if err != nil {
		return nil, "", ErrTokenGenerationFailed
	}

	role := input.Role
	if role == "" {
		role = models.RoleMember
	}

	invitation := &models.Invitation{
		OrganizationID: org.ID,
		Email:          email,
		Token:          token,
		InvitedBy:      input.InviterID,
		Role:           role,
		Status:         models.InvitationPending,
		ExpiresAt:      s.now().Add(constants.InvitationTTL),
	}

	if err := s.inviteRepo.Create(invitation); err != nil {
		return nil, "", fmt.Errorf("failed to create invitation: %w", err)
	}

	warning := s.deliverEmail(invitation, org)
	return invitation, warning, nil
}

// deliverEmail sends the invitation email. Failure never aborts the already
// persisted invitation; it comes back as a warning string.
func (s *InvitationService) deliverEmail(invitation *models.Invitation, org *models.Organization) string {
	inviteURL := fmt.Sprintf("%s/invite/%s", s.baseURL, invitation.Token)

	if s.mailer == nil {
		log.Printf("invitation %d: email delivery not configured, share link manually: %s",
			invitation.ID, inviteURL)
		return "email delivery is not configured; share the invitation link manually"
	}

	inviterEmail := ""
	if inviter, err := s.userRepo.FindByID(invitation.InvitedBy); err == nil {
		inviterEmail = inviter.Email
	}

	if err := s.mailer.SendInvitation(invitation.Email, org.Name, inviterEmail, inviteURL, invitation.ExpiresAt); err != nil {
		log.Printf("invitation %d: email delivery failed: %v", invitation.ID, err)
		return "invitation created but the email could not be delivered"
	}

	return ""
}

// ResolveInvitation looks an invitation up by token and applies the read-time
// terminal states. Expiry is derived from expires_at; the stored row is never
// rewritten to "expired".
func (s *InvitationService) ResolveInvitation(token string) (*models.Invitation, error) {
	invitation, err := s.inviteRepo.FindByToken(token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvitationNotFound
		}
		return nil, fmt.Errorf("failed to find invitation: %w", err)
	}

	if invitation.Expired(s.now()) {
		return nil, ErrInvitationExpired
	}

	if invitation.Status == models.InvitationAccepted {
		return nil, ErrInvitationAlreadyUsed
	}

	return invitation, nil
}

// AcceptResult is the outcome of a successful acceptance flow. AlreadyMember
// means the acceptor held a membership before the flow ran (or won a
// concurrent acceptance); the invitation row is left untouched in that case
// and the caller should still redirect into the organization.
type AcceptResult struct {
	Organization  models.Organization
	AlreadyMember bool
}

// AcceptInvitation runs the acceptance state machine for one token and user.
func (s *InvitationService) AcceptInvitation(token string, userID uint64) (*AcceptResult, error) {
	invitation, err := s.ResolveInvitation(token)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find accepting user: %w", err)
	}

	if invitation.Email != "" && invitation.Email != strings.ToLower(user.Email) {
		return nil, &EmailMismatchError{
			InvitedEmail: invitation.Email,
			UserEmail:    user.Email,
		}
	}

	result := &AcceptResult{Organization: invitation.Organization}

	// Membership race check: an existing membership short-circuits without
	// touching the invitation.
	if _, err := s.orgRepo.FindMember(invitation.OrganizationID, userID); err == nil {
		result.AlreadyMember = true
		return result, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to verify membership: %w", err)
	}

	member := &models.OrganizationMember{
		OrganizationID: invitation.OrganizationID,
		UserID:         userID,
		// The invitation's role field is recorded but deliberately not applied
		// here; acceptance always grants plain membership.
		Role:     models.RoleMember,
		JoinedAt: s.now(),
	}

	if err := s.orgRepo.AddMember(member); err != nil {
		if repository.IsDuplicateKey(err) {
			// Lost the insert race to a concurrent acceptance; same outcome
			// as the pre-check.
			result.AlreadyMember = true
			return result, nil
		}
		return nil, fmt.Errorf("failed to add member: %w", err)
	}

	// Best-effort bookkeeping: the membership exists, so the acceptance
	// stands even if this update fails.
	if err := s.inviteRepo.MarkAccepted(invitation.ID, userID, s.now()); err != nil {
		log.Printf("invitation %d: accepted but status update failed: %v", invitation.ID, err)
	}

	return result, nil
}
