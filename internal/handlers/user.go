package handlers

import (
	"net/http"

	"github.com/M-Alradhi/gradproject-api/internal/dto"
	apierrors "github.com/M-Alradhi/gradproject-api/internal/errors"
	"github.com/M-Alradhi/gradproject-api/internal/middleware"
	"github.com/M-Alradhi/gradproject-api/internal/models"
	"github.com/M-Alradhi/gradproject-api/internal/repository"
	"github.com/gin-gonic/gin"
)

// UserHandler exposes coordinator and supervisor views of the user roster.
type UserHandler struct {
	userRepo repository.UserRepository
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userRepo repository.UserRepository) *UserHandler {
	return &UserHandler{
		userRepo: userRepo,
	}
}

// ListUsers returns users of one role.
func (h *UserHandler) ListUsers(c *gin.Context) {
	role := models.UserRole(c.DefaultQuery("role", string(models.RoleStudent)))
	switch role {
	case models.RoleStudent, models.RoleSupervisor, models.RoleCoordinator:
	default:
		apierrors.BadRequest(c, "Invalid role")
		return
	}

	users, err := h.userRepo.ListByRole(role)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch users")
		return
	}

	userDTOs := make([]dto.UserDTO, len(users))
	for i, user := range users {
		userDTOs[i] = dto.ToUserDTO(user)
	}

	c.JSON(http.StatusOK, gin.H{
		"users": userDTOs,
	})
}

// ListMyStudents returns the students assigned to the authenticated
// supervisor.
func (h *UserHandler) ListMyStudents(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	students, err := h.userRepo.ListBySupervisor(userID)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch students")
		return
	}

	studentDTOs := make([]dto.UserDTO, len(students))
	for i, student := range students {
		studentDTOs[i] = dto.ToUserDTO(student)
	}

	c.JSON(http.StatusOK, gin.H{
		"students": studentDTOs,
	})
}
