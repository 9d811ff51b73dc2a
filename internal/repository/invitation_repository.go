package repository

import (
	"time"

	"github.com/nanaqwameboafo/trello-clone/internal/models"
	"gorm.io/gorm"
)

// GormInvitationRepository is a GORM implementation of InvitationRepository
type GormInvitationRepository struct {
	db *gorm.DB
}

// NewInvitationRepository creates a new InvitationRepository
func NewInvitationRepository(db *gorm.DB) InvitationRepository {
	return &GormInvitationRepository{db: db}
}

// Create creates a new invitation
func (r *GormInvitationRepository) Create(invitation *models.Invitation) error {
	return r.db.Create(invitation).Error
}

// FindByToken finds an invitation by its capability token
func (r *GormInvitationRepository) FindByToken(token string) (*models.Invitation, error) {
	var invitation models.Invitation
	if err := r.db.Preload("Organization").
		Where("token = ?", token).
		First(&invitation).Error; err != nil {
		return nil, err
	}
	return &invitation, nil
}

// FindPendingByEmail finds a pending invitation for (organization, email)
// that is still valid at the given time. Expired pending rows are left in
// place and must not shadow a newer active one, so the filter excludes them.
func (r *GormInvitationRepository) FindPendingByEmail(organizationID uint64, email string, at time.Time) (*models.Invitation, error) {
	var invitation models.Invitation
	if err := r.db.
		Where("organization_id = ? AND email = ? AND status = ? AND expires_at > ?",
			organizationID, email, models.InvitationPending, at).
		First(&invitation).Error; err != nil {
		return nil, err
	}
	return &invitation, nil
}

// MarkAccepted flips an invitation to accepted, recording who and when
func (r *GormInvitationRepository) MarkAccepted(id, userID uint64, at time.Time) error {
	return r.db.Model(&models.Invitation{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":      models.InvitationAccepted,
			"accepted_at": at,
			"accepted_by": userID,
		}).Error
}
