package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/nanaqwameboafo/trello-clone/internal/boardstate"
	"github.com/nanaqwameboafo/trello-clone/internal/models"
	"github.com/nanaqwameboafo/trello-clone/internal/realtime"
	"github.com/nanaqwameboafo/trello-clone/internal/repository"
	"github.com/nanaqwameboafo/trello-clone/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrBoardNotFound      = errors.New("board not found")
	ErrListNotFound       = errors.New("list not found")
	ErrCardNotFound       = errors.New("card not found")
	ErrBoardNameRequired  = errors.New("board name cannot be empty")
	ErrListNameRequired   = errors.New("list name cannot be empty")
	ErrCardTitleRequired  = errors.New("card title cannot be empty")
	ErrTargetListMismatch = errors.New("target list belongs to a different board")
)

// BoardService provides business logic for boards, lists and cards, including
// the card relocation flow: optimistic cache mutation, one persisted write,
// wholesale re-fetch on failure, and a best-effort activity side effect.
type BoardService struct {
	boardRepo   repository.BoardRepository
	cache       *boardstate.Cache
	hub         *realtime.Hub
	sideEffects sync.WaitGroup
}

// NewBoardService creates a new BoardService. Published events invalidate the
// cache so that the next snapshot is re-fetched from the store.
func NewBoardService(boardRepo repository.BoardRepository, cache *boardstate.Cache, hub *realtime.Hub) *BoardService {
	s := &BoardService{
		boardRepo: boardRepo,
		cache:     cache,
		hub:       hub,
	}
	hub.Observe(func(ev realtime.Event) {
		cache.Invalidate(ev.BoardID)
	})
	return s
}

// Flush waits for outstanding background side effects. Called on shutdown and
// from tests that assert on activity rows.
func (s *BoardService) Flush() {
	s.sideEffects.Wait()
}

// CreateBoardInput represents parameters to create a board.
type CreateBoardInput struct {
	OrganizationID uint64
	Name           string
	Color          string
	CreatorID      uint64
}

// CreateBoard creates a board in an organization.
func (s *BoardService) CreateBoard(input CreateBoardInput) (*models.Board, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrBoardNameRequired
	}

	color := input.Color
	if color == "" {
		color = "blue"
	}

	board := &models.Board{
		OrganizationID: input.OrganizationID,
		Name:           input.Name,
		Color:          color,
		CreatedBy:      input.CreatorID,
	}

	if err := s.boardRepo.CreateBoard(board); err != nil {
		return nil, fmt.Errorf("failed to create board: %w", err)
	}

	return board, nil
}

// ListBoards returns the boards of an organization.
func (s *BoardService) ListBoards(organizationID uint64) ([]models.Board, error) {
	boards, err := s.boardRepo.ListBoardsByOrganization(organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list boards: %w", err)
	}
	return boards, nil
}

// GetBoard returns a board together with its current snapshot of lists and
// cards. The snapshot comes from the board-state cache and may briefly lead
// or trail the store; the generation stamp lets clients order views.
func (s *BoardService) GetBoard(boardID uint64) (*models.Board, boardstate.Snapshot, error) {
	board, err := s.boardRepo.FindBoardByID(boardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, boardstate.Snapshot{}, ErrBoardNotFound
		}
		return nil, boardstate.Snapshot{}, fmt.Errorf("failed to find board: %w", err)
	}

	snapshot, err := s.cache.Snapshot(boardID)
	if err != nil {
		return nil, boardstate.Snapshot{}, fmt.Errorf("failed to load board state: %w", err)
	}

	return board, snapshot, nil
}

// DeleteBoard deletes a board and everything on it.
func (s *BoardService) DeleteBoard(boardID uint64) error {
	if _, err := s.boardRepo.FindBoardByID(boardID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBoardNotFound
		}
		return fmt.Errorf("failed to find board: %w", err)
	}

	if err := s.boardRepo.DeleteBoard(boardID); err != nil {
		return fmt.Errorf("failed to delete board: %w", err)
	}

	s.cache.Forget(boardID)
	return nil
}

// CreateList appends a list to a board, taking the next free position.
func (s *BoardService) CreateList(boardID uint64, name string) (*models.List, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrListNameRequired
	}

	if _, err := s.boardRepo.FindBoardByID(boardID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBoardNotFound
		}
		return nil, fmt.Errorf("failed to find board: %w", err)
	}

	siblings, err := s.boardRepo.ListsByBoard(boardID)
	if err != nil {
		return nil, fmt.Errorf("failed to list board lists: %w", err)
	}

	list := &models.List{
		BoardID:  boardID,
		Name:     name,
		Position: NextPosition(listPositions(siblings)),
	}

	if err := s.boardRepo.CreateList(list); err != nil {
		return nil, fmt.Errorf("failed to create list: %w", err)
	}

	listID := list.ID
	s.hub.Publish(realtime.Event{Type: "list.created", Entity: "list", BoardID: boardID, ListID: &listID, Payload: list})
	return list, nil
}

// RenameList updates a list's name.
func (s *BoardService) RenameList(listID uint64, name string) (*models.List, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrListNameRequired
	}

	list, err := s.boardRepo.FindListByID(listID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrListNotFound
		}
		return nil, fmt.Errorf("failed to find list: %w", err)
	}

	list.Name = name
	if err := s.boardRepo.UpdateList(list); err != nil {
		return nil, fmt.Errorf("failed to update list: %w", err)
	}

	s.hub.Publish(realtime.Event{Type: "list.updated", Entity: "list", BoardID: list.BoardID, ListID: &list.ID})
	return list, nil
}

// MoveList assigns a list a new position within its board. Same allocation
// rules as cards: drop onto a slot inherits that slot's position, drop at the
// end takes max+1; ties resolve by creation order.
func (s *BoardService) MoveList(listID uint64, position int) (*models.List, error) {
	list, err := s.boardRepo.FindListByID(listID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrListNotFound
		}
		return nil, fmt.Errorf("failed to find list: %w", err)
	}

	if list.Position == position {
		return list, nil
	}

	list.Position = position
	if err := s.boardRepo.UpdateList(list); err != nil {
		return nil, fmt.Errorf("failed to move list: %w", err)
	}

	s.hub.Publish(realtime.Event{Type: "list.moved", Entity: "list", BoardID: list.BoardID, ListID: &list.ID})
	return list, nil
}

// DeleteList deletes a list and its cards.
func (s *BoardService) DeleteList(listID uint64) error {
	list, err := s.boardRepo.FindListByID(listID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrListNotFound
		}
		return fmt.Errorf("failed to find list: %w", err)
	}

	if err := s.boardRepo.DeleteList(listID); err != nil {
		return fmt.Errorf("failed to delete list: %w", err)
	}

	s.hub.Publish(realtime.Event{Type: "list.deleted", Entity: "list", BoardID: list.BoardID, ListID: &list.ID})
	return nil
}

// CreateCardInput represents parameters to create a card.
type CreateCardInput struct {
	ListID      uint64
	Title       string
	Description string
	CreatorID   uint64
}

// CreateCard appends a card to the end of a list and records the creation in
// the card's activity trail.
func (s *BoardService) CreateCard(input CreateCardInput) (*models.Card, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrCardTitleRequired
	}

	list, err := s.boardRepo.FindListByID(input.ListID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrListNotFound
		}
		return nil, fmt.Errorf("failed to find list: %w", err)
	}

	siblings, err := s.boardRepo.CardsByList(input.ListID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}

	card := &models.Card{
		ListID:      input.ListID,
		Title:       input.Title,
		Description: input.Description,
		Position:    NextPosition(cardPositions(siblings)),
		CreatedBy:   input.CreatorID,
	}

	if err := s.boardRepo.CreateCard(card); err != nil {
		return nil, fmt.Errorf("failed to create card: %w", err)
	}

	s.logActivityAsync(card.ID, input.CreatorID, "created this card")
	s.hub.Publish(realtime.Event{Type: "card.created", Entity: "card", BoardID: list.BoardID, ListID: &list.ID, Payload: card})
	return card, nil
}

// UpdateCard updates a card's title and/or description.
func (s *BoardService) UpdateCard(cardID uint64, title, description *string) (*models.Card, error) {
	card, err := s.boardRepo.FindCardByID(cardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, fmt.Errorf("failed to find card: %w", err)
	}

	if title != nil {
		if strings.TrimSpace(*title) == "" {
			return nil, ErrCardTitleRequired
		}
		card.Title = *title
	}
	if description != nil {
		card.Description = *description
	}

	if err := s.boardRepo.UpdateCard(card); err != nil {
		return nil, fmt.Errorf("failed to update card: %w", err)
	}

	if list, err := s.boardRepo.FindListByID(card.ListID); err == nil {
		s.hub.Publish(realtime.Event{Type: "card.updated", Entity: "card", BoardID: list.BoardID, Payload: map[string]any{"id": card.ID}})
	}
	return card, nil
}

// DeleteCard deletes a card.
func (s *BoardService) DeleteCard(cardID uint64) error {
	card, err := s.boardRepo.FindCardByID(cardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCardNotFound
		}
		return fmt.Errorf("failed to find card: %w", err)
	}

	if err := s.boardRepo.DeleteCard(cardID); err != nil {
		return fmt.Errorf("failed to delete card: %w", err)
	}

	if list, err := s.boardRepo.FindListByID(card.ListID); err == nil {
		s.hub.Publish(realtime.Event{Type: "card.deleted", Entity: "card", BoardID: list.BoardID, Payload: map[string]any{"id": card.ID}})
	}
	return nil
}

// MoveCardInput represents a drop gesture resolved to a target. A nil
// Position means the card was dropped on the list container itself and goes
// to the end of that list.
type MoveCardInput struct {
	CardID       uint64
	TargetListID uint64
	Position     *int
	ActorID      uint64
}

// MoveCard relocates a card. The cached board state is mutated first so
// readers see the move immediately; then exactly one persisted update writes
// list_id and position. On persistence failure the optimistic state is thrown
// away and the next snapshot re-fetches everything. A cross-list move logs
// one activity row naming both lists; that side effect is fire-and-forget.
func (s *BoardService) MoveCard(input MoveCardInput) error {
	card, err := s.boardRepo.FindCardByID(input.CardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCardNotFound
		}
		return fmt.Errorf("failed to find card: %w", err)
	}

	sourceList, err := s.boardRepo.FindListByID(card.ListID)
	if err != nil {
		return fmt.Errorf("failed to find source list: %w", err)
	}

	targetList, err := s.boardRepo.FindListByID(input.TargetListID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrListNotFound
		}
		return fmt.Errorf("failed to find target list: %w", err)
	}

	if targetList.BoardID != sourceList.BoardID {
		return ErrTargetListMismatch
	}

	var position int
	if input.Position != nil {
		position = *input.Position
	} else {
		siblings, err := s.boardRepo.CardsByList(targetList.ID)
		if err != nil {
			return fmt.Errorf("failed to list target cards: %w", err)
		}
		position = NextPosition(cardPositions(siblings))
	}

	// Idempotence: same list and position is a no-op, no write, no activity.
	if card.ListID == targetList.ID && card.Position == position {
		return nil
	}

	boardID := targetList.BoardID
	s.cache.ApplyCardMove(boardID, card.ID, targetList.ID, position)

	if err := s.boardRepo.MoveCard(card.ID, targetList.ID, position); err != nil {
		s.cache.Invalidate(boardID)
		return fmt.Errorf("failed to move card: %w", err)
	}

	if card.ListID != targetList.ID {
		s.logActivityAsync(card.ID, input.ActorID,
			fmt.Sprintf("moved from %q to %q", sourceList.Name, targetList.Name))
	}

	targetID := targetList.ID
	s.hub.Publish(realtime.Event{Type: "card.moved", Entity: "card", BoardID: boardID, ListID: &targetID, Payload: map[string]any{"id": card.ID}})
	return nil
}

// ListCardActivities returns a card's activity trail, newest first.
func (s *BoardService) ListCardActivities(cardID uint64, params utils.PaginationParams) ([]models.CardActivity, int64, error) {
	if _, err := s.boardRepo.FindCardByID(cardID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrCardNotFound
		}
		return nil, 0, fmt.Errorf("failed to find card: %w", err)
	}

	activities, total, err := s.boardRepo.ListActivities(cardID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list activities: %w", err)
	}
	return activities, total, nil
}

// logActivityAsync appends an activity row off the request path. Failures are
// logged and swallowed; the trail is best-effort and never retried.
func (s *BoardService) logActivityAsync(cardID, userID uint64, action string) {
	s.sideEffects.Add(1)
	go func() {
		defer s.sideEffects.Done()
		err := s.boardRepo.LogActivity(&models.CardActivity{
			CardID: cardID,
			UserID: userID,
			Action: action,
		})
		if err != nil {
			log.Printf("card %d: activity log failed: %v", cardID, err)
		}
	}()
}

func listPositions(lists []models.List) []int {
	positions := make([]int, len(lists))
	for i, l := range lists {
		positions[i] = l.Position
	}
	return positions
}

func cardPositions(cards []models.Card) []int {
	positions := make([]int, len(cards))
	for i, c := range cards {
		positions[i] = c.Position
	}
	return positions
}
