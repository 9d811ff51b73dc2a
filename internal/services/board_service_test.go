package services

import (
	"testing"

	"github.com/nanaqwameboafo/trello-clone/internal/boardstate"
	"github.com/nanaqwameboafo/trello-clone/internal/models"
	"github.com/nanaqwameboafo/trello-clone/internal/realtime"
	"github.com/nanaqwameboafo/trello-clone/internal/repository"
	"github.com/nanaqwameboafo/trello-clone/internal/utils"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// BoardServiceTestSuite defines the test suite for BoardService
type BoardServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *BoardService
	repo    repository.BoardRepository
}

// SetupTest runs before each test
func (suite *BoardServiceTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Organization{},
		&models.OrganizationMember{},
		&models.Board{},
		&models.List{},
		&models.Card{},
		&models.CardActivity{},
	)
	suite.Require().NoError(err)

	suite.repo = repository.NewBoardRepository(suite.db)
	hub := realtime.NewHub()
	cache := boardstate.NewCache(suite.repo)
	suite.service = NewBoardService(suite.repo, cache, hub)
}

// TearDownTest runs after each test
func (suite *BoardServiceTestSuite) TearDownTest() {
	suite.service.Flush()
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *BoardServiceTestSuite) createTestBoard() *models.Board {
	org := &models.Organization{Name: "Acme", CreatedBy: 1}
	suite.Require().NoError(suite.db.Create(org).Error)

	board, err := suite.service.CreateBoard(CreateBoardInput{
		OrganizationID: org.ID,
		Name:           "Roadmap",
		CreatorID:      1,
	})
	suite.Require().NoError(err)
	return board
}

func (suite *BoardServiceTestSuite) createTestCard(listID uint64, title string) *models.Card {
	card, err := suite.service.CreateCard(CreateCardInput{
		ListID:    listID,
		Title:     title,
		CreatorID: 1,
	})
	suite.Require().NoError(err)
	return card
}

func (suite *BoardServiceTestSuite) TestCreateBoardDefaultsColor() {
	board := suite.createTestBoard()
	suite.Equal("blue", board.Color)
}

func (suite *BoardServiceTestSuite) TestCreateListAppendsToEnd() {
	board := suite.createTestBoard()

	for i, name := range []string{"Todo", "Doing", "Done"} {
		list, err := suite.service.CreateList(board.ID, name)
		suite.Require().NoError(err)
		suite.Equal(i, list.Position)
	}
}

func (suite *BoardServiceTestSuite) TestCreateCardAppendsToEnd() {
	board := suite.createTestBoard()
	list, err := suite.service.CreateList(board.ID, "Todo")
	suite.Require().NoError(err)

	first := suite.createTestCard(list.ID, "first")
	second := suite.createTestCard(list.ID, "second")

	suite.Equal(0, first.Position)
	suite.Equal(1, second.Position)

	suite.service.Flush()
	activities, total, err := suite.service.ListCardActivities(first.ID, utils.PaginationParams{Page: 1, Limit: 10})
	suite.Require().NoError(err)
	suite.Equal(int64(1), total)
	suite.Equal("created this card", activities[0].Action)
}

func (suite *BoardServiceTestSuite) TestMoveCardToEndOfAnotherList() {
	board := suite.createTestBoard()
	todo, err := suite.service.CreateList(board.ID, "Todo")
	suite.Require().NoError(err)
	done, err := suite.service.CreateList(board.ID, "Done")
	suite.Require().NoError(err)

	card := suite.createTestCard(todo.ID, "ship it")
	suite.createTestCard(done.ID, "already done")

	err = suite.service.MoveCard(MoveCardInput{
		CardID:       card.ID,
		TargetListID: done.ID,
		ActorID:      1,
	})
	suite.Require().NoError(err)

	moved, err := suite.repo.FindCardByID(card.ID)
	suite.Require().NoError(err)
	suite.Equal(done.ID, moved.ListID)
	suite.Equal(1, moved.Position)
}

func (suite *BoardServiceTestSuite) TestMoveCardInheritsTargetPosition() {
	board := suite.createTestBoard()
	todo, err := suite.service.CreateList(board.ID, "Todo")
	suite.Require().NoError(err)
	done, err := suite.service.CreateList(board.ID, "Done")
	suite.Require().NoError(err)

	card := suite.createTestCard(todo.ID, "ship it")
	target := suite.createTestCard(done.ID, "already done")

	pos := target.Position
	err = suite.service.MoveCard(MoveCardInput{
		CardID:       card.ID,
		TargetListID: done.ID,
		Position:     &pos,
		ActorID:      1,
	})
	suite.Require().NoError(err)

	// Dropping onto a card inherits its position; the tie resolves by ID, so
	// the older card sorts first.
	moved, err := suite.repo.FindCardByID(card.ID)
	suite.Require().NoError(err)
	suite.Equal(done.ID, moved.ListID)
	suite.Equal(target.Position, moved.Position)

	cards, err := suite.repo.CardsByList(done.ID)
	suite.Require().NoError(err)
	suite.Require().Len(cards, 2)
	suite.Equal(card.ID, cards[0].ID)
	suite.Equal(target.ID, cards[1].ID)
}

func (suite *BoardServiceTestSuite) TestMoveCardLogsCrossListActivity() {
	board := suite.createTestBoard()
	todo, err := suite.service.CreateList(board.ID, "Todo")
	suite.Require().NoError(err)
	done, err := suite.service.CreateList(board.ID, "Done")
	suite.Require().NoError(err)

	card := suite.createTestCard(todo.ID, "ship it")
	suite.service.Flush()

	err = suite.service.MoveCard(MoveCardInput{
		CardID:       card.ID,
		TargetListID: done.ID,
		ActorID:      1,
	})
	suite.Require().NoError(err)
	suite.service.Flush()

	activities, total, err := suite.service.ListCardActivities(card.ID, utils.PaginationParams{Page: 1, Limit: 10})
	suite.Require().NoError(err)
	suite.Equal(int64(2), total)
	suite.Equal(`moved from "Todo" to "Done"`, activities[0].Action)
}

func (suite *BoardServiceTestSuite) TestMoveCardSamePositionIsNoOp() {
	board := suite.createTestBoard()
	todo, err := suite.service.CreateList(board.ID, "Todo")
	suite.Require().NoError(err)

	card := suite.createTestCard(todo.ID, "ship it")
	suite.service.Flush()

	pos := card.Position
	err = suite.service.MoveCard(MoveCardInput{
		CardID:       card.ID,
		TargetListID: todo.ID,
		Position:     &pos,
		ActorID:      1,
	})
	suite.Require().NoError(err)
	suite.service.Flush()

	activities, total, err := suite.service.ListCardActivities(card.ID, utils.PaginationParams{Page: 1, Limit: 10})
	suite.Require().NoError(err)
	suite.Equal(int64(1), total)
	suite.Equal("created this card", activities[0].Action)
}

func (suite *BoardServiceTestSuite) TestMoveCardWithinListGoesToEnd() {
	board := suite.createTestBoard()
	todo, err := suite.service.CreateList(board.ID, "Todo")
	suite.Require().NoError(err)

	first := suite.createTestCard(todo.ID, "first")
	suite.createTestCard(todo.ID, "second")

	// No explicit position: the card re-appends after the current tail, its
	// own old slot included.
	err = suite.service.MoveCard(MoveCardInput{
		CardID:       first.ID,
		TargetListID: todo.ID,
		ActorID:      1,
	})
	suite.Require().NoError(err)

	moved, err := suite.repo.FindCardByID(first.ID)
	suite.Require().NoError(err)
	suite.Equal(2, moved.Position)

	cards, err := suite.repo.CardsByList(todo.ID)
	suite.Require().NoError(err)
	suite.Require().Len(cards, 2)
	suite.Equal(first.ID, cards[1].ID)
}

func (suite *BoardServiceTestSuite) TestMoveCardRejectsCrossBoardTarget() {
	board := suite.createTestBoard()
	todo, err := suite.service.CreateList(board.ID, "Todo")
	suite.Require().NoError(err)

	org := &models.Organization{Name: "Other", CreatedBy: 1}
	suite.Require().NoError(suite.db.Create(org).Error)
	otherBoard, err := suite.service.CreateBoard(CreateBoardInput{
		OrganizationID: org.ID,
		Name:           "Other board",
		CreatorID:      1,
	})
	suite.Require().NoError(err)
	otherList, err := suite.service.CreateList(otherBoard.ID, "Elsewhere")
	suite.Require().NoError(err)

	card := suite.createTestCard(todo.ID, "stays put")

	err = suite.service.MoveCard(MoveCardInput{
		CardID:       card.ID,
		TargetListID: otherList.ID,
		ActorID:      1,
	})
	suite.ErrorIs(err, ErrTargetListMismatch)

	unchanged, err := suite.repo.FindCardByID(card.ID)
	suite.Require().NoError(err)
	suite.Equal(todo.ID, unchanged.ListID)
}

func (suite *BoardServiceTestSuite) TestGetBoardSnapshotReflectsMoves() {
	board := suite.createTestBoard()
	todo, err := suite.service.CreateList(board.ID, "Todo")
	suite.Require().NoError(err)
	done, err := suite.service.CreateList(board.ID, "Done")
	suite.Require().NoError(err)

	card := suite.createTestCard(todo.ID, "ship it")

	_, before, err := suite.service.GetBoard(board.ID)
	suite.Require().NoError(err)

	err = suite.service.MoveCard(MoveCardInput{
		CardID:       card.ID,
		TargetListID: done.ID,
		ActorID:      1,
	})
	suite.Require().NoError(err)

	_, after, err := suite.service.GetBoard(board.ID)
	suite.Require().NoError(err)
	suite.Greater(after.Generation, before.Generation)

	suite.Require().Len(after.Cards, 1)
	suite.Equal(done.ID, after.Cards[0].ListID)
}

func (suite *BoardServiceTestSuite) TestDeleteListCascadesCards() {
	board := suite.createTestBoard()
	todo, err := suite.service.CreateList(board.ID, "Todo")
	suite.Require().NoError(err)
	card := suite.createTestCard(todo.ID, "doomed")

	suite.Require().NoError(suite.service.DeleteList(todo.ID))

	_, err = suite.repo.FindCardByID(card.ID)
	suite.ErrorIs(err, gorm.ErrRecordNotFound)
}

func TestBoardServiceTestSuite(t *testing.T) {
	suite.Run(t, new(BoardServiceTestSuite))
}
