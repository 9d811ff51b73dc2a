package repository

import (
	"github.com/nanaqwameboafo/trello-clone/internal/database"
	"github.com/nanaqwameboafo/trello-clone/internal/models"
	"github.com/nanaqwameboafo/trello-clone/internal/utils"
	"gorm.io/gorm"
)

// GormBoardRepository is a GORM implementation of BoardRepository
type GormBoardRepository struct {
	db *gorm.DB
}

// NewBoardRepository creates a new BoardRepository
func NewBoardRepository(db *gorm.DB) BoardRepository {
	return &GormBoardRepository{db: db}
}

// CreateBoard creates a new board
func (r *GormBoardRepository) CreateBoard(board *models.Board) error {
	return r.db.Create(board).Error
}

// FindBoardByID finds a board by ID
func (r *GormBoardRepository) FindBoardByID(id uint64) (*models.Board, error) {
	var board models.Board
	if err := r.db.First(&board, id).Error; err != nil {
		return nil, err
	}
	return &board, nil
}

// ListBoardsByOrganization lists boards of an organization, newest first
func (r *GormBoardRepository) ListBoardsByOrganization(organizationID uint64) ([]models.Board, error) {
	var boards []models.Board
	if err := r.db.Where("organization_id = ?", organizationID).
		Order("created_at DESC").
		Find(&boards).Error; err != nil {
		return nil, err
	}
	return boards, nil
}

// DeleteBoard deletes a board and its lists and cards in one transaction
func (r *GormBoardRepository) DeleteBoard(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var listIDs []uint64
		if err := tx.Model(&models.List{}).
			Where("board_id = ?", id).
			Pluck("id", &listIDs).Error; err != nil {
			return err
		}

		if len(listIDs) > 0 {
			if err := tx.Where("list_id IN ?", listIDs).Delete(&models.Card{}).Error; err != nil {
				return err
			}
			if err := tx.Where("board_id = ?", id).Delete(&models.List{}).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&models.Board{}, id).Error
	})
}

// CreateList creates a new list
func (r *GormBoardRepository) CreateList(list *models.List) error {
	return r.db.Create(list).Error
}

// FindListByID finds a list by ID
func (r *GormBoardRepository) FindListByID(id uint64) (*models.List, error) {
	var list models.List
	if err := r.db.First(&list, id).Error; err != nil {
		return nil, err
	}
	return &list, nil
}

// ListsByBoard lists the lists of a board ordered by (position, id).
// The id tiebreaker pins equal positions to creation order.
func (r *GormBoardRepository) ListsByBoard(boardID uint64) ([]models.List, error) {
	var lists []models.List
	if err := r.db.Where("board_id = ?", boardID).
		Order("position ASC, id ASC").
		Find(&lists).Error; err != nil {
		return nil, err
	}
	return lists, nil
}

// UpdateList updates a list
func (r *GormBoardRepository) UpdateList(list *models.List) error {
	return r.db.Save(list).Error
}

// DeleteList deletes a list and its cards in one transaction
func (r *GormBoardRepository) DeleteList(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("list_id = ?", id).Delete(&models.Card{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.List{}, id).Error
	})
}

// CreateCard creates a new card
func (r *GormBoardRepository) CreateCard(card *models.Card) error {
	return r.db.Create(card).Error
}

// FindCardByID finds a card by ID
func (r *GormBoardRepository) FindCardByID(id uint64) (*models.Card, error) {
	var card models.Card
	if err := r.db.First(&card, id).Error; err != nil {
		return nil, err
	}
	return &card, nil
}

// CardsByBoard lists every card on a board ordered by (position, id)
func (r *GormBoardRepository) CardsByBoard(boardID uint64) ([]models.Card, error) {
	var cards []models.Card
	if err := r.db.
		Joins("JOIN lists ON lists.id = cards.list_id").
		Where("lists.board_id = ? AND lists.deleted_at IS NULL", boardID).
		Order("cards.position ASC, cards.id ASC").
		Find(&cards).Error; err != nil {
		return nil, err
	}
	return cards, nil
}

// CardsByList lists the cards of a list ordered by (position, id)
func (r *GormBoardRepository) CardsByList(listID uint64) ([]models.Card, error) {
	var cards []models.Card
	if err := r.db.Where("list_id = ?", listID).
		Order("position ASC, id ASC").
		Find(&cards).Error; err != nil {
		return nil, err
	}
	return cards, nil
}

// UpdateCard updates a card
func (r *GormBoardRepository) UpdateCard(card *models.Card) error {
	return r.db.Save(card).Error
}

// MoveCard updates list_id and position of a card in a single write
func (r *GormBoardRepository) MoveCard(cardID, listID uint64, position int) error {
	res := r.db.Model(&models.Card{}).
		Where("id = ?", cardID).
		Updates(map[string]interface{}{
			"list_id":  listID,
			"position": position,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteCard deletes a card
func (r *GormBoardRepository) DeleteCard(id uint64) error {
	return r.db.Delete(&models.Card{}, id).Error
}

// LogActivity appends a card activity row
func (r *GormBoardRepository) LogActivity(activity *models.CardActivity) error {
	return r.db.Create(activity).Error
}

// ListActivities lists a card's activities newest first with pagination
func (r *GormBoardRepository) ListActivities(cardID uint64, params utils.PaginationParams) ([]models.CardActivity, int64, error) {
	query := r.db.Model(&models.CardActivity{}).Where("card_id = ?", cardID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var activities []models.CardActivity
	if err := query.Preload("User").
		Order("created_at DESC, id DESC").
		Scopes(database.Paginate(params)).
		Find(&activities).Error; err != nil {
		return nil, 0, err
	}

	return activities, total, nil
}
