package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/M-Alradhi/gradproject-api/internal/models"
	"github.com/M-Alradhi/gradproject-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrAlreadyHaveIdea  = errors.New("student already holds an active idea")
	ErrIdeaNotFound     = errors.New("idea not found")
	ErrIdeaNotAvailable = errors.New("idea is not available")
	ErrNoActiveClaim    = errors.New("student holds no active claim")
	ErrUserNotFound     = errors.New("user not found")
)

// ClaimService implements first-writer-wins claiming of supervisor-proposed
// ideas. Exactly one student can take an available idea, and a student can
// hold at most one active idea; both caps are enforced inside the claim
// transaction.
type ClaimService struct {
	ideaRepo repository.IdeaRepository
	userRepo repository.UserRepository
}

// NewClaimService creates a new ClaimService
func NewClaimService(ideaRepo repository.IdeaRepository, userRepo repository.UserRepository) *ClaimService {
	return &ClaimService{
		ideaRepo: ideaRepo,
		userRepo: userRepo,
	}
}

// Claim atomically takes an available idea for a student. Concurrent claims
// on the same idea serialize inside the repository transaction; the loser
// observes ErrIdeaNotAvailable.
func (s *ClaimService) Claim(studentID, ideaID uint64) (*models.ProjectIdea, error) {
	idea, err := s.ideaRepo.ClaimForStudent(studentID, ideaID, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrClaimUserMissing):
			return nil, ErrUserNotFound
		case errors.Is(err, repository.ErrClaimCapExceeded):
			return nil, ErrAlreadyHaveIdea
		case errors.Is(err, repository.ErrClaimIdeaMissing):
			return nil, ErrIdeaNotFound
		case errors.Is(err, repository.ErrClaimIdeaUnavailable):
			return nil, ErrIdeaNotAvailable
		default:
			return nil, fmt.Errorf("failed to claim idea: %w", err)
		}
	}
	return idea, nil
}

// Release withdraws the student's current claim, returning the idea to the
// available pool.
func (s *ClaimService) Release(studentID uint64) (*models.ProjectIdea, error) {
	idea, err := s.ideaRepo.ReleaseForStudent(studentID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrClaimUserMissing):
			return nil, ErrUserNotFound
		case errors.Is(err, repository.ErrReleaseNoClaim):
			return nil, ErrNoActiveClaim
		default:
			return nil, fmt.Errorf("failed to release idea: %w", err)
		}
	}
	return idea, nil
}

// Reconcile clears a stale selected-idea reference on the user: the target
// idea no longer exists, or it no longer names this student as its claimant.
// This is a non-transactional read-repair pass, safe to run on every read.
func (s *ClaimService) Reconcile(studentID uint64) error {
	user, err := s.userRepo.FindByID(studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to load user: %w", err)
	}
	if user.SelectedIdeaID == nil {
		return nil
	}

	idea, err := s.ideaRepo.FindByID(*user.SelectedIdeaID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to load idea: %w", err)
	}

	stale := idea == nil || idea.SelectedByID == nil || *idea.SelectedByID != studentID
	if !stale {
		return nil
	}

	log.Printf("clearing stale idea reference %d on user %d", *user.SelectedIdeaID, studentID)
	return s.userRepo.UpdateFields(studentID, map[string]interface{}{
		"selected_idea_id":    nil,
		"selected_idea_title": "",
	})
}
