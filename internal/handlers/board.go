package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nanaqwameboafo/trello-clone/internal/constants"
	"github.com/nanaqwameboafo/trello-clone/internal/dto"
	apierrors "github.com/nanaqwameboafo/trello-clone/internal/errors"
	"github.com/nanaqwameboafo/trello-clone/internal/middleware"
	"github.com/nanaqwameboafo/trello-clone/internal/models"
	"github.com/nanaqwameboafo/trello-clone/internal/services"
	"github.com/nanaqwameboafo/trello-clone/internal/utils"
)

// BoardHandler coordinates board, list and card HTTP handlers.
type BoardHandler struct {
	boardService *services.BoardService
}

// NewBoardHandler creates a new BoardHandler.
func NewBoardHandler(boardService *services.BoardService) *BoardHandler {
	return &BoardHandler{boardService: boardService}
}

// CreateBoard creates a board in the organization from the URL
func (h *BoardHandler) CreateBoard(c *gin.Context) {
	orgInterface, _ := c.Get(constants.ContextKeyOrganization)
	org := orgInterface.(models.Organization)

	userID, _ := middleware.GetUserID(c)

	type CreateBoardRequest struct {
		Name  string `json:"name" binding:"required"`
		Color string `json:"color"`
	}

	var req CreateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	board, err := h.boardService.CreateBoard(services.CreateBoardInput{
		OrganizationID: org.ID,
		Name:           req.Name,
		Color:          req.Color,
		CreatorID:      userID,
	})
	if err != nil {
		respondBoardError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToBoardDTO(*board))
}

// ListBoards lists the boards of the organization from the URL
func (h *BoardHandler) ListBoards(c *gin.Context) {
	orgInterface, _ := c.Get(constants.ContextKeyOrganization)
	org := orgInterface.(models.Organization)

	boards, err := h.boardService.ListBoards(org.ID)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch boards")
		return
	}

	boardDTOs := make([]dto.BoardDTO, len(boards))
	for i, b := range boards {
		boardDTOs[i] = dto.ToBoardDTO(b)
	}

	c.JSON(http.StatusOK, gin.H{"boards": boardDTOs})
}

// GetBoard returns a board with its ordered lists and cards
func (h *BoardHandler) GetBoard(c *gin.Context) {
	boardInterface, _ := c.Get(constants.ContextKeyBoard)
	board := boardInterface.(models.Board)

	_, snapshot, err := h.boardService.GetBoard(board.ID)
	if err != nil {
		respondBoardError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToBoardViewDTO(board, snapshot))
}

// DeleteBoard deletes a board and everything on it
func (h *BoardHandler) DeleteBoard(c *gin.Context) {
	boardInterface, _ := c.Get(constants.ContextKeyBoard)
	board := boardInterface.(models.Board)

	if err := h.boardService.DeleteBoard(board.ID); err != nil {
		respondBoardError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Board deleted successfully"})
}

// CreateList appends a list to the board from the URL
func (h *BoardHandler) CreateList(c *gin.Context) {
	boardInterface, _ := c.Get(constants.ContextKeyBoard)
	board := boardInterface.(models.Board)

	type CreateListRequest struct {
		Name string `json:"name" binding:"required"`
	}

	var req CreateListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	list, err := h.boardService.CreateList(board.ID, req.Name)
	if err != nil {
		respondBoardError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToListDTO(*list))
}

// UpdateList renames a list and/or moves it to a new position
func (h *BoardHandler) UpdateList(c *gin.Context) {
	listID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid list ID")
		return
	}

	type UpdateListRequest struct {
		Name     *string `json:"name"`
		Position *int    `json:"position"`
	}

	var req UpdateListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	var list *models.List
	if req.Name != nil {
		list, err = h.boardService.RenameList(listID, *req.Name)
		if err != nil {
			respondBoardError(c, err)
			return
		}
	}
	if req.Position != nil {
		list, err = h.boardService.MoveList(listID, *req.Position)
		if err != nil {
			respondBoardError(c, err)
			return
		}
	}

	if list == nil {
		apierrors.BadRequest(c, "Nothing to update")
		return
	}

	c.JSON(http.StatusOK, dto.ToListDTO(*list))
}

// DeleteList deletes a list and its cards
func (h *BoardHandler) DeleteList(c *gin.Context) {
	listID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid list ID")
		return
	}

	if err := h.boardService.DeleteList(listID); err != nil {
		respondBoardError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "List deleted successfully"})
}

// CreateCard appends a card to the list from the URL
func (h *BoardHandler) CreateCard(c *gin.Context) {
	listID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid list ID")
		return
	}

	userID, _ := middleware.GetUserID(c)

	type CreateCardRequest struct {
		Title       string `json:"title" binding:"required"`
		Description string `json:"description"`
	}

	var req CreateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	card, err := h.boardService.CreateCard(services.CreateCardInput{
		ListID:      listID,
		Title:       req.Title,
		Description: req.Description,
		CreatorID:   userID,
	})
	if err != nil {
		respondBoardError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToCardDTO(*card))
}

// UpdateCard updates a card's title and/or description
func (h *BoardHandler) UpdateCard(c *gin.Context) {
	cardID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid card ID")
		return
	}

	type UpdateCardRequest struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
	}

	var req UpdateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	card, err := h.boardService.UpdateCard(cardID, req.Title, req.Description)
	if err != nil {
		respondBoardError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCardDTO(*card))
}

// DeleteCard deletes a card
func (h *BoardHandler) DeleteCard(c *gin.Context) {
	cardID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid card ID")
		return
	}

	if err := h.boardService.DeleteCard(cardID); err != nil {
		respondBoardError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Card deleted successfully"})
}

// MoveCard relocates a card to a target list and position. Omitting position
// appends the card to the end of the target list.
func (h *BoardHandler) MoveCard(c *gin.Context) {
	cardID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid card ID")
		return
	}

	userID, _ := middleware.GetUserID(c)

	type MoveCardRequest struct {
		ListID   uint64 `json:"list_id" binding:"required"`
		Position *int   `json:"position"`
	}

	var req MoveCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	err = h.boardService.MoveCard(services.MoveCardInput{
		CardID:       cardID,
		TargetListID: req.ListID,
		Position:     req.Position,
		ActorID:      userID,
	})
	if err != nil {
		respondBoardError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// ListCardActivities returns a card's activity trail, newest first
func (h *BoardHandler) ListCardActivities(c *gin.Context) {
	cardID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid card ID")
		return
	}

	params := utils.GetPaginationParams(c)

	activities, total, err := h.boardService.ListCardActivities(cardID, params)
	if err != nil {
		respondBoardError(c, err)
		return
	}

	activityDTOs := make([]dto.CardActivityDTO, len(activities))
	for i, a := range activities {
		activityDTOs[i] = dto.ToCardActivityDTO(a)
	}

	c.JSON(http.StatusOK, dto.CardActivityListResponse{
		Activities: activityDTOs,
		Pagination: utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

func respondBoardError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrBoardNameRequired),
		errors.Is(err, services.ErrListNameRequired),
		errors.Is(err, services.ErrCardTitleRequired),
		errors.Is(err, services.ErrTargetListMismatch):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrBoardNotFound),
		errors.Is(err, services.ErrListNotFound),
		errors.Is(err, services.ErrCardNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
