package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/nanaqwameboafo/trello-clone/internal/boardstate"
	"github.com/nanaqwameboafo/trello-clone/internal/constants"
	"github.com/nanaqwameboafo/trello-clone/internal/database"
	"github.com/nanaqwameboafo/trello-clone/internal/dto"
	"github.com/nanaqwameboafo/trello-clone/internal/models"
	"github.com/nanaqwameboafo/trello-clone/internal/realtime"
	"github.com/nanaqwameboafo/trello-clone/internal/repository"
	"github.com/nanaqwameboafo/trello-clone/internal/services"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// BoardHandlerTestSuite defines the test suite for BoardHandler
type BoardHandlerTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *services.BoardService
	handler *BoardHandler
	router  *gin.Engine
	user    *models.User
	board   *models.Board
}

// SetupTest runs before each test
func (suite *BoardHandlerTestSuite) SetupTest() {
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

	database.SetDB(suite.db)

	boardRepo := repository.NewBoardRepository(suite.db)
	hub := realtime.NewHub()
	cache := boardstate.NewCache(boardRepo)
	suite.service = services.NewBoardService(boardRepo, cache, hub)
	suite.handler = NewBoardHandler(suite.service)

	suite.user = &models.User{Email: "member@example.com", PasswordHash: "hashedpassword"}
	suite.Require().NoError(suite.db.Create(suite.user).Error)

	org := &models.Organization{Name: "Acme", CreatedBy: suite.user.ID}
	suite.Require().NoError(suite.db.Create(org).Error)

	suite.board, err = suite.service.CreateBoard(services.CreateBoardInput{
		OrganizationID: org.ID,
		Name:           "Roadmap",
		CreatorID:      suite.user.ID,
	})
	suite.Require().NoError(err)

	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.router.Use(func(c *gin.Context) {
		c.Set(constants.ContextKeyUserID, suite.user.ID)
		c.Set(constants.ContextKeyBoard, *suite.board)
	})
	suite.router.GET("/api/boards/:id", suite.handler.GetBoard)
	suite.router.POST("/api/boards/:id/lists", suite.handler.CreateList)
	suite.router.POST("/api/lists/:id/cards", suite.handler.CreateCard)
	suite.router.POST("/api/cards/:id/move", suite.handler.MoveCard)
	suite.router.GET("/api/cards/:id/activities", suite.handler.ListCardActivities)
}

// TearDownTest runs after each test
func (suite *BoardHandlerTestSuite) TearDownTest() {
	suite.service.Flush()
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *BoardHandlerTestSuite) doJSON(method, path string, payload any) *httptest.ResponseRecorder {
	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		suite.Require().NoError(err)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *BoardHandlerTestSuite) createTestList(name string) *models.List {
	list, err := suite.service.CreateList(suite.board.ID, name)
	suite.Require().NoError(err)
	return list
}

func (suite *BoardHandlerTestSuite) createTestCard(listID uint64, title string) *models.Card {
	card, err := suite.service.CreateCard(services.CreateCardInput{
		ListID:    listID,
		Title:     title,
		CreatorID: suite.user.ID,
	})
	suite.Require().NoError(err)
	return card
}

func (suite *BoardHandlerTestSuite) TestCreateList() {
	w := suite.doJSON(http.MethodPost, fmt.Sprintf("/api/boards/%d/lists", suite.board.ID), map[string]string{
		"name": "Todo",
	})
	suite.Require().Equal(http.StatusCreated, w.Code)

	var response dto.ListDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Equal("Todo", response.Name)
	suite.Equal(0, response.Position)
}

func (suite *BoardHandlerTestSuite) TestCreateCard() {
	list := suite.createTestList("Todo")

	w := suite.doJSON(http.MethodPost, fmt.Sprintf("/api/lists/%d/cards", list.ID), map[string]string{
		"title":       "ship it",
		"description": "before friday",
	})
	suite.Require().Equal(http.StatusCreated, w.Code)

	var response dto.CardDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Equal("ship it", response.Title)
	suite.Equal(list.ID, response.ListID)
	suite.Equal(0, response.Position)
}

func (suite *BoardHandlerTestSuite) TestGetBoardReturnsOrderedView() {
	todo := suite.createTestList("Todo")
	done := suite.createTestList("Done")
	suite.createTestCard(todo.ID, "a")
	suite.createTestCard(done.ID, "b")

	w := suite.doJSON(http.MethodGet, fmt.Sprintf("/api/boards/%d", suite.board.ID), nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	var response dto.BoardViewDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Equal(suite.board.ID, response.Board.ID)
	suite.NotZero(response.Generation)
	suite.Require().Len(response.Lists, 2)
	suite.Equal("Todo", response.Lists[0].Name)
	suite.Equal("Done", response.Lists[1].Name)
	suite.Len(response.Cards, 2)
}

func (suite *BoardHandlerTestSuite) TestMoveCard() {
	todo := suite.createTestList("Todo")
	done := suite.createTestList("Done")
	card := suite.createTestCard(todo.ID, "ship it")

	w := suite.doJSON(http.MethodPost, fmt.Sprintf("/api/cards/%d/move", card.ID), map[string]any{
		"list_id": done.ID,
	})
	suite.Require().Equal(http.StatusOK, w.Code)

	var response struct {
		OK bool `json:"ok"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.True(response.OK)

	var moved models.Card
	suite.Require().NoError(suite.db.First(&moved, card.ID).Error)
	suite.Equal(done.ID, moved.ListID)
}

func (suite *BoardHandlerTestSuite) TestMoveCardMissingListID() {
	todo := suite.createTestList("Todo")
	card := suite.createTestCard(todo.ID, "ship it")

	w := suite.doJSON(http.MethodPost, fmt.Sprintf("/api/cards/%d/move", card.ID), map[string]any{
		"position": 0,
	})
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *BoardHandlerTestSuite) TestMoveCardUnknownTarget() {
	todo := suite.createTestList("Todo")
	card := suite.createTestCard(todo.ID, "ship it")

	w := suite.doJSON(http.MethodPost, fmt.Sprintf("/api/cards/%d/move", card.ID), map[string]any{
		"list_id": 9999,
	})
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *BoardHandlerTestSuite) TestListCardActivities() {
	todo := suite.createTestList("Todo")
	done := suite.createTestList("Done")
	card := suite.createTestCard(todo.ID, "ship it")

	err := suite.service.MoveCard(services.MoveCardInput{
		CardID:       card.ID,
		TargetListID: done.ID,
		ActorID:      suite.user.ID,
	})
	suite.Require().NoError(err)
	suite.service.Flush()

	w := suite.doJSON(http.MethodGet, fmt.Sprintf("/api/cards/%d/activities", card.ID), nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	var response dto.CardActivityListResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Equal(int64(2), response.Pagination.Total)
	suite.Require().Len(response.Activities, 2)
	suite.Equal(`moved from "Todo" to "Done"`, response.Activities[0].Action)
	suite.Equal("member@example.com", response.Activities[0].User.Email)
}

func TestBoardHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(BoardHandlerTestSuite))
}
