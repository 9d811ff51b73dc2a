package dto

import (
	"time"

	"github.com/nanaqwameboafo/trello-clone/internal/boardstate"
	"github.com/nanaqwameboafo/trello-clone/internal/models"
	"github.com/nanaqwameboafo/trello-clone/internal/utils"
)

// BoardDTO represents a board in API responses
type BoardDTO struct {
	ID             uint64    `json:"id"`
	OrganizationID uint64    `json:"organization_id"`
	Name           string    `json:"name"`
	Color          string    `json:"color"`
	CreatedBy      uint64    `json:"created_by"`
	CreatedAt      time.Time `json:"created_at"`
}

// ListDTO represents a list in API responses
type ListDTO struct {
	ID       uint64 `json:"id"`
	BoardID  uint64 `json:"board_id"`
	Name     string `json:"name"`
	Position int    `json:"position"`
}

// CardDTO represents a card in API responses
type CardDTO struct {
	ID          uint64    `json:"id"`
	ListID      uint64    `json:"list_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Position    int       `json:"position"`
	CreatedBy   uint64    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// BoardViewDTO is a board with its full ordered snapshot of lists and cards.
// Generation increases on every change; clients use it to discard stale views.
type BoardViewDTO struct {
	Board      BoardDTO  `json:"board"`
	Generation uint64    `json:"generation"`
	Lists      []ListDTO `json:"lists"`
	Cards      []CardDTO `json:"cards"`
}

// CardActivityDTO represents an activity row in API responses
type CardActivityDTO struct {
	ID        uint64    `json:"id"`
	CardID    uint64    `json:"card_id"`
	User      UserDTO   `json:"user"`
	Action    string    `json:"action"`
	CreatedAt time.Time `json:"created_at"`
}

// CardActivityListResponse is a paginated activity trail
type CardActivityListResponse struct {
	Activities []CardActivityDTO        `json:"activities"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// ToBoardDTO converts a board model to its API representation
func ToBoardDTO(board models.Board) BoardDTO {
	return BoardDTO{
		ID:             board.ID,
		OrganizationID: board.OrganizationID,
		Name:           board.Name,
		Color:          board.Color,
		CreatedBy:      board.CreatedBy,
		CreatedAt:      board.CreatedAt,
	}
}

// ToListDTO converts a list model to its API representation
func ToListDTO(list models.List) ListDTO {
	return ListDTO{
		ID:       list.ID,
		BoardID:  list.BoardID,
		Name:     list.Name,
		Position: list.Position,
	}
}

// ToCardDTO converts a card model to its API representation
func ToCardDTO(card models.Card) CardDTO {
	return CardDTO{
		ID:          card.ID,
		ListID:      card.ListID,
		Title:       card.Title,
		Description: card.Description,
		Position:    card.Position,
		CreatedBy:   card.CreatedBy,
		CreatedAt:   card.CreatedAt,
	}
}

// ToBoardViewDTO converts a board and its snapshot to the view payload
func ToBoardViewDTO(board models.Board, snapshot boardstate.Snapshot) BoardViewDTO {
	lists := make([]ListDTO, len(snapshot.Lists))
	for i, l := range snapshot.Lists {
		lists[i] = ToListDTO(l)
	}
	cards := make([]CardDTO, len(snapshot.Cards))
	for i, c := range snapshot.Cards {
		cards[i] = ToCardDTO(c)
	}
	return BoardViewDTO{
		Board:      ToBoardDTO(board),
		Generation: snapshot.Generation,
		Lists:      lists,
		Cards:      cards,
	}
}

// ToCardActivityDTO converts an activity model to its API representation
func ToCardActivityDTO(activity models.CardActivity) CardActivityDTO {
	return CardActivityDTO{
		ID:        activity.ID,
		CardID:    activity.CardID,
		User:      ToUserDTO(activity.User),
		Action:    activity.Action,
		CreatedAt: activity.CreatedAt,
	}
}
