package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/M-Alradhi/gradproject-api/internal/constants"
	"github.com/M-Alradhi/gradproject-api/internal/models"
	"github.com/M-Alradhi/gradproject-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken           = errors.New("email already registered")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrPasswordTooShort     = errors.New("password too short")
	ErrInvalidRole          = errors.New("invalid role")
	ErrFailedToHashPassword = errors.New("failed to hash password")
)

// AuthService handles authentication related business logic.
type AuthService struct {
	userRepo repository.UserRepository
	claims   *ClaimService
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, claims *ClaimService) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		claims:   claims,
	}
}

// SignupInput represents the required information to create a new user.
type SignupInput struct {
	Name          string
	Email         string
	Password      string
	Role          models.UserRole
	StudentNumber string
	Department    string
}

// Signup registers a new user with one of the three roles.
func (s *AuthService) Signup(input SignupInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("name and email are required")
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	switch input.Role {
	case models.RoleStudent, models.RoleSupervisor, models.RoleCoordinator:
	default:
		return nil, ErrInvalidRole
	}

	if _, err := s.userRepo.FindByEmail(email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	user := &models.User{
		Name:          input.Name,
		Email:         email,
		PasswordHash:  string(hashedPassword),
		Role:          input.Role,
		StudentNumber: input.StudentNumber,
		Department:    input.Department,
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// Login verifies credentials and returns the authenticated user.
func (s *AuthService) Login(input LoginInput) (*models.User, error) {
	user, err := s.userRepo.FindByEmail(input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// GetUser retrieves a user by ID, repairing a stale idea reference on the
// way out so the profile never shows a claim that no longer exists.
func (s *AuthService) GetUser(id uint64) (*models.User, error) {
	if s.claims != nil {
		if err := s.claims.Reconcile(id); err != nil && !errors.Is(err, ErrUserNotFound) {
			return nil, err
		}
	}

	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}
