package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nanaqwameboafo/trello-clone/internal/constants"
	"github.com/nanaqwameboafo/trello-clone/internal/database"
	"github.com/nanaqwameboafo/trello-clone/internal/models"
)

func parseIDParam(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		c.Abort()
		return 0, false
	}
	return id, true
}

func requireMembershipForBoard(c *gin.Context, board models.Board) bool {
	userID, exists := GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		c.Abort()
		return false
	}

	var member models.OrganizationMember
	err := database.GetDB().
		Where("organization_id = ? AND user_id = ?", board.OrganizationID, userID).
		First(&member).Error
	if err != nil {
		// Return 404 instead of 403 to avoid leaking board existence
		c.JSON(http.StatusNotFound, gin.H{"error": "Board not found"})
		c.Abort()
		return false
	}

	c.Set(constants.ContextKeyBoard, board)
	c.Set(constants.ContextKeyMembership, member)
	return true
}

// RequireBoardAccess checks that the user is a member of the board's organization
func RequireBoardAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		boardID, ok := parseIDParam(c, "id")
		if !ok {
			return
		}

		var board models.Board
		if err := database.GetDB().First(&board, boardID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Board not found"})
			c.Abort()
			return
		}

		if !requireMembershipForBoard(c, board) {
			return
		}
		c.Next()
	}
}

// RequireListAccess resolves a list to its board and checks membership
func RequireListAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		listID, ok := parseIDParam(c, "id")
		if !ok {
			return
		}

		var list models.List
		if err := database.GetDB().First(&list, listID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "List not found"})
			c.Abort()
			return
		}

		var board models.Board
		if err := database.GetDB().First(&board, list.BoardID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "List not found"})
			c.Abort()
			return
		}

		if !requireMembershipForBoard(c, board) {
			return
		}
		c.Next()
	}
}

// RequireCardAccess resolves a card to its board and checks membership
func RequireCardAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		cardID, ok := parseIDParam(c, "id")
		if !ok {
			return
		}

		var card models.Card
		if err := database.GetDB().First(&card, cardID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Card not found"})
			c.Abort()
			return
		}

		var list models.List
		if err := database.GetDB().First(&list, card.ListID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Card not found"})
			c.Abort()
			return
		}

		var board models.Board
		if err := database.GetDB().First(&board, list.BoardID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Card not found"})
			c.Abort()
			return
		}

		if !requireMembershipForBoard(c, board) {
			return
		}
		c.Next()
	}
}
