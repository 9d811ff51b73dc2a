package repository

import (
	"time"

	"github.com/nanaqwameboafo/trello-clone/internal/models"
	"github.com/nanaqwameboafo/trello-clone/internal/utils"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)
}

// OrganizationRepository defines the interface for organization data access
type OrganizationRepository interface {
	// Create creates a new organization
	Create(org *models.Organization) error

	// FindByID finds an organization by ID
	FindByID(id uint64) (*models.Organization, error)

	// Update updates an organization
	Update(org *models.Organization) error

	// Delete deletes an organization and all dependent rows in one transaction
	Delete(id uint64) error

	// AddMember adds a member to an organization
	AddMember(member *models.OrganizationMember) error

	// RemoveMember removes a member from an organization
	RemoveMember(organizationID, userID uint64) error

	// FindMember finds a specific organization member
	FindMember(organizationID, userID uint64) (*models.OrganizationMember, error)

	// ListMembersByUserID lists all organizations a user is a member of
	ListMembersByUserID(userID uint64) ([]models.OrganizationMember, error)

	// ListMembers lists all members of an organization
	ListMembers(organizationID uint64) ([]models.OrganizationMember, error)
}

// BoardRepository defines the interface for board, list and card data access
type BoardRepository interface {
	// CreateBoard creates a new board
	CreateBoard(board *models.Board) error

	// FindBoardByID finds a board by ID
	FindBoardByID(id uint64) (*models.Board, error)

	// ListBoardsByOrganization lists boards of an organization, newest first
	ListBoardsByOrganization(organizationID uint64) ([]models.Board, error)

	// DeleteBoard deletes a board and its lists and cards in one transaction
	DeleteBoard(id uint64) error

	// CreateList creates a new list
	CreateList(list *models.List) error

	// FindListByID finds a list by ID
	FindListByID(id uint64) (*models.List, error)

	// ListsByBoard lists the lists of a board ordered by (position, id)
	ListsByBoard(boardID uint64) ([]models.List, error)

	// UpdateList updates a list
	UpdateList(list *models.List) error

	// DeleteList deletes a list and its cards in one transaction
	DeleteList(id uint64) error

	// CreateCard creates a new card
	CreateCard(card *models.Card) error

	// FindCardByID finds a card by ID
	FindCardByID(id uint64) (*models.Card, error)

	// CardsByBoard lists every card on a board ordered by (position, id)
	CardsByBoard(boardID uint64) ([]models.Card, error)

	// CardsByList lists the cards of a list ordered by (position, id)
	CardsByList(listID uint64) ([]models.Card, error)

	// UpdateCard updates a card
	UpdateCard(card *models.Card) error

	// MoveCard updates list_id and position of a card in a single write
	MoveCard(cardID, listID uint64, position int) error

	// DeleteCard deletes a card
	DeleteCard(id uint64) error

	// LogActivity appends a card activity row
	LogActivity(activity *models.CardActivity) error

	// ListActivities lists a card's activities newest first with pagination
	ListActivities(cardID uint64, params utils.PaginationParams) ([]models.CardActivity, int64, error)
}

// InvitationRepository defines the interface for invitation data access
type InvitationRepository interface {
	// Create creates a new invitation
	Create(invitation *models.Invitation) error

	// FindByToken finds an invitation by its capability token
	FindByToken(token string) (*models.Invitation, error)

	// FindPendingByEmail finds a pending invitation for (organization, email)
	// that is still valid at the given time
	FindPendingByEmail(organizationID uint64, email string, at time.Time) (*models.Invitation, error)

	// MarkAccepted flips an invitation to accepted, recording who and when
	MarkAccepted(id, userID uint64, at time.Time) error
}
