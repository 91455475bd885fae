package services

import (
	"errors"
	"fmt"

	"github.com/M-Alradhi/gradproject-api/internal/models"
	"github.com/M-Alradhi/gradproject-api/internal/repository"
	"gorm.io/gorm"
)

// memberRef is the loose identity a roster entry may carry: a concrete user
// id, or a denormalized snapshot (email and/or student number) written by an
// older flow.
type memberRef struct {
	UserID        *uint64
	Email         string
	StudentNumber string
}

// resolveMember bridges the two roster representations to a concrete user.
// Resolution order: direct id, then case-insensitive email, then student
// number. A nil result with nil error means the entry is unresolvable; the
// caller logs and skips it instead of failing the batch.
func resolveMember(userRepo repository.UserRepository, ref memberRef) (*models.User, error) {
	if ref.UserID != nil {
		user, err := userRepo.FindByID(*ref.UserID)
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to resolve member by id: %w", err)
		}
	}

	if ref.Email != "" {
		user, err := userRepo.FindByEmail(ref.Email)
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to resolve member by email: %w", err)
		}
	}

	if ref.StudentNumber != "" {
		user, err := userRepo.FindByStudentNumber(ref.StudentNumber)
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to resolve member by student number: %w", err)
		}
	}

	return nil, nil
}
