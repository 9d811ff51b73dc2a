package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/nanaqwameboafo/trello-clone/internal/constants"
	"github.com/nanaqwameboafo/trello-clone/internal/dto"
	apierrors "github.com/nanaqwameboafo/trello-clone/internal/errors"
	"github.com/nanaqwameboafo/trello-clone/internal/middleware"
	"github.com/nanaqwameboafo/trello-clone/internal/models"
	"github.com/nanaqwameboafo/trello-clone/internal/services"
)

// InvitationHandler coordinates invitation HTTP handlers.
type InvitationHandler struct {
	inviteService *services.InvitationService
}

// NewInvitationHandler creates a new InvitationHandler.
func NewInvitationHandler(inviteService *services.InvitationService) *InvitationHandler {
	return &InvitationHandler{inviteService: inviteService}
}

// CreateInvitation creates an invitation and attempts email delivery. Email
// failure does not fail the request; it surfaces as a warning field.
func (h *InvitationHandler) CreateInvitation(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateInvitationRequest struct {
		Email          string                  `json:"email" binding:"required,email"`
		OrganizationID uint64                  `json:"organizationId" binding:"required"`
		Role           models.OrganizationRole `json:"role"`
	}

	var req CreateInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Email and organization ID are required")
		return
	}

	invitation, warning, err := h.inviteService.CreateInvitation(services.CreateInvitationInput{
		OrganizationID: req.OrganizationID,
		Email:          req.Email,
		Role:           req.Role,
		InviterID:      userID,
	})
	if err != nil {
		respondInvitationError(c, err)
		return
	}

	response := gin.H{
		"success":    true,
		"invitation": dto.ToInvitationDTO(*invitation),
	}
	if warning != "" {
		response["warning"] = warning
	}
	c.JSON(http.StatusOK, response)
}

// Acknowledge answers the diagnostic GET on the invitations endpoint.
func (h *InvitationHandler) Acknowledge(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Invitation API is working. Use POST to send invitations.",
	})
}

// ResolveInvitation resolves a capability token. Without a session the token
// is stashed so the acceptance flow can resume after login.
func (h *InvitationHandler) ResolveInvitation(c *gin.Context) {
	token := c.Param("token")

	session := sessions.Default(c)
	if session.Get(constants.ContextKeyUserID) == nil {
		session.Set(constants.SessionKeyPendingInvite, token)
		if err := session.Save(); err != nil {
			apierrors.InternalError(c, "Failed to save session")
			return
		}
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":    "Authentication required",
			"redirect": "/login",
		})
		return
	}

	invitation, err := h.inviteService.ResolveInvitation(token)
	if err != nil {
		respondInvitationError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToInvitationResolveDTO(*invitation))
}

// AcceptInvitation accepts a capability token for the authenticated user.
func (h *InvitationHandler) AcceptInvitation(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	token := c.Param("token")

	result, err := h.inviteService.AcceptInvitation(token, userID)
	if err != nil {
		respondInvitationError(c, err)
		return
	}

	session := sessions.Default(c)
	if session.Get(constants.SessionKeyPendingInvite) != nil {
		session.Delete(constants.SessionKeyPendingInvite)
		_ = session.Save()
	}

	message := "You've successfully joined " + result.Organization.Name
	if result.AlreadyMember {
		message = "You're already a member of " + result.Organization.Name
	}

	c.JSON(http.StatusOK, gin.H{
		"message":         message,
		"organization_id": result.Organization.ID,
		"already_member":  result.AlreadyMember,
	})
}

func respondInvitationError(c *gin.Context, err error) {
	var mismatch *services.EmailMismatchError
	switch {
	case errors.Is(err, services.ErrInvitePermissionDenied):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrOrganizationNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrActiveInvitationExists):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrInvitationNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrInvitationExpired):
		apierrors.Gone(c, err.Error())
	case errors.Is(err, services.ErrInvitationAlreadyUsed):
		apierrors.RespondWithError(c, http.StatusConflict,
			apierrors.NewAPIError(apierrors.ErrCodeAlreadyUsed, err.Error()))
	case errors.As(err, &mismatch):
		apierrors.RespondWithError(c, http.StatusForbidden,
			apierrors.NewAPIError(apierrors.ErrCodeEmailMismatch, mismatch.Error()))
	default:
		apierrors.InternalError(c, "")
	}
}
