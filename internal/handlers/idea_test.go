package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"github.com/M-Alradhi/gradproject-api/internal/constants"
	"github.com/M-Alradhi/gradproject-api/internal/database"
	apierrors "github.com/M-Alradhi/gradproject-api/internal/errors"
	"github.com/M-Alradhi/gradproject-api/internal/models"
	"github.com/M-Alradhi/gradproject-api/internal/repository"
	"github.com/M-Alradhi/gradproject-api/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// IdeaHandlerTestSuite defines the test suite for IdeaHandler
type IdeaHandlerTestSuite struct {
	suite.Suite
	db      *gorm.DB
	handler *IdeaHandler
}

// SetupTest runs before each test
func (suite *IdeaHandlerTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.SetMaxOpenConns(1)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.ProjectIdea{},
		&models.IdeaTeamMember{},
		&models.Notification{},
	)
	suite.Require().NoError(err)

	database.SetDB(suite.db)

	ideaRepo := repository.NewIdeaRepository(suite.db)
	userRepo := repository.NewUserRepository(suite.db)
	notifications := services.NewNotificationService(repository.NewNotificationRepository(suite.db))
	teamService := services.NewTeamService(ideaRepo, userRepo, notifications)
	claimService := services.NewClaimService(ideaRepo, userRepo)
	suite.handler = NewIdeaHandler(ideaRepo, teamService, claimService, notifications)

	gin.SetMode(gin.TestMode)
}

// TearDownTest runs after each test
func (suite *IdeaHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *IdeaHandlerTestSuite) createTestUser(name string, role models.UserRole) *models.User {
	user := &models.User{
		Name:         name,
		Email:        fmt.Sprintf("%s@example.edu", name),
		PasswordHash: "hashedpassword",
		Role:         role,
	}
	suite.db.Create(user)
	return user
}

func (suite *IdeaHandlerTestSuite) createAvailableIdea(title string, supervisorID uint64) *models.ProjectIdea {
	idea := &models.ProjectIdea{
		Title:        title,
		Status:       models.IdeaStatusAvailable,
		SupervisorID: &supervisorID,
	}
	suite.db.Create(idea)
	return idea
}

// createAuthContext builds an authenticated request context
func (suite *IdeaHandlerTestSuite) createAuthContext(method, url string, body []byte, userID uint64) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Set(constants.ContextKeyUserID, userID)

	return c, w
}

func (suite *IdeaHandlerTestSuite) TestClaimIdea() {
	supervisor := suite.createTestUser("supervisor", models.RoleSupervisor)
	student := suite.createTestUser("student", models.RoleStudent)
	idea := suite.createAvailableIdea("IoT greenhouse", supervisor.ID)

	c, w := suite.createAuthContext(http.MethodPost, "/api/ideas/1/claim", nil, student.ID)
	c.Params = gin.Params{{Key: "id", Value: strconv.FormatUint(idea.ID, 10)}}

	suite.handler.ClaimIdea(c)

	suite.Equal(http.StatusOK, w.Code)

	var response map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Equal("taken", response["status"])
	suite.Equal(float64(student.ID), response["selected_by_id"])
}

func (suite *IdeaHandlerTestSuite) TestClaimTakenIdeaConflict() {
	supervisor := suite.createTestUser("supervisor", models.RoleSupervisor)
	winner := suite.createTestUser("winner", models.RoleStudent)
	loser := suite.createTestUser("loser", models.RoleStudent)
	idea := suite.createAvailableIdea("contested", supervisor.ID)

	c, w := suite.createAuthContext(http.MethodPost, "/api/ideas/1/claim", nil, winner.ID)
	c.Params = gin.Params{{Key: "id", Value: strconv.FormatUint(idea.ID, 10)}}
	suite.handler.ClaimIdea(c)
	suite.Equal(http.StatusOK, w.Code)

	c, w = suite.createAuthContext(http.MethodPost, "/api/ideas/1/claim", nil, loser.ID)
	c.Params = gin.Params{{Key: "id", Value: strconv.FormatUint(idea.ID, 10)}}
	suite.handler.ClaimIdea(c)

	suite.Equal(http.StatusConflict, w.Code)

	var apiErr apierrors.APIError
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &apiErr))
	suite.Equal(apierrors.ErrCodeNotAvailable, apiErr.Code)
}

func (suite *IdeaHandlerTestSuite) TestClaimSecondIdeaConflict() {
	supervisor := suite.createTestUser("supervisor", models.RoleSupervisor)
	student := suite.createTestUser("student", models.RoleStudent)
	first := suite.createAvailableIdea("first", supervisor.ID)
	second := suite.createAvailableIdea("second", supervisor.ID)

	c, w := suite.createAuthContext(http.MethodPost, "/api/ideas/1/claim", nil, student.ID)
	c.Params = gin.Params{{Key: "id", Value: strconv.FormatUint(first.ID, 10)}}
	suite.handler.ClaimIdea(c)
	suite.Equal(http.StatusOK, w.Code)

	c, w = suite.createAuthContext(http.MethodPost, "/api/ideas/2/claim", nil, student.ID)
	c.Params = gin.Params{{Key: "id", Value: strconv.FormatUint(second.ID, 10)}}
	suite.handler.ClaimIdea(c)

	suite.Equal(http.StatusConflict, w.Code)

	var apiErr apierrors.APIError
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &apiErr))
	suite.Equal(apierrors.ErrCodeAlreadyHaveIdea, apiErr.Code)
}

func (suite *IdeaHandlerTestSuite) TestClaimMissingIdea() {
	student := suite.createTestUser("student", models.RoleStudent)

	c, w := suite.createAuthContext(http.MethodPost, "/api/ideas/9999/claim", nil, student.ID)
	c.Params = gin.Params{{Key: "id", Value: "9999"}}
	suite.handler.ClaimIdea(c)

	suite.Equal(http.StatusNotFound, w.Code)

	var apiErr apierrors.APIError
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &apiErr))
	suite.Equal(apierrors.ErrCodeIdeaNotFound, apiErr.Code)
}

func (suite *IdeaHandlerTestSuite) TestSubmitIdeaWithRoster() {
	leader := suite.createTestUser("leader", models.RoleStudent)
	mate := suite.createTestUser("mate", models.RoleStudent)

	payload := map[string]interface{}{
		"title": "Smart campus parking",
		"members": []map[string]interface{}{
			{"email": mate.Email},
		},
	}
	body, err := json.Marshal(payload)
	suite.Require().NoError(err)

	c, w := suite.createAuthContext(http.MethodPost, "/api/ideas", body, leader.ID)
	suite.handler.SubmitIdea(c)

	suite.Equal(http.StatusCreated, w.Code)

	var response map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Equal("pending_team_approval", response["status"])
	suite.Len(response["team_members"], 2)
}

func (suite *IdeaHandlerTestSuite) TestSubmitIdeaBusyMemberConflict() {
	leader := suite.createTestUser("leader", models.RoleStudent)
	busy := suite.createTestUser("busy", models.RoleStudent)
	projectID := uint64(7)
	suite.db.Model(&models.User{}).Where("id = ?", busy.ID).Update("project_id", projectID)

	payload := map[string]interface{}{
		"title": "Busy roster",
		"members": []map[string]interface{}{
			{"user_id": busy.ID},
		},
	}
	body, err := json.Marshal(payload)
	suite.Require().NoError(err)

	c, w := suite.createAuthContext(http.MethodPost, "/api/ideas", body, leader.ID)
	suite.handler.SubmitIdea(c)

	suite.Equal(http.StatusConflict, w.Code)

	var apiErr apierrors.APIError
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &apiErr))
	suite.Equal(apierrors.ErrCodeStudentBusy, apiErr.Code)
}

// TestIdeaHandlerTestSuite runs the test suite
func TestIdeaHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(IdeaHandlerTestSuite))
}
