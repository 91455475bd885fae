package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/M-Alradhi/gradproject-api/internal/constants"
	"github.com/M-Alradhi/gradproject-api/internal/models"
	"github.com/M-Alradhi/gradproject-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrIdeaTitleRequired  = errors.New("idea title is required")
	ErrLeaderImmutable    = errors.New("the team leader cannot be modified or removed")
	ErrDuplicateMember    = errors.New("student is already a member of this team")
	ErrStudentBusy        = errors.New("student already belongs to a project or holds an idea")
	ErrMemberNotFound     = errors.New("team member not found")
	ErrTeamFull           = errors.New("team is already at maximum size")
	ErrMemberUnresolvable = errors.New("member could not be matched to a registered student")
	ErrIdeaNotEditable    = errors.New("idea can no longer be modified in its current status")
)

// TeamService implements the team formation protocol: turning a single
// proposer's idea into a fully approved multi-member team that the
// coordinator can promote into a real project.
type TeamService struct {
	ideaRepo      repository.IdeaRepository
	userRepo      repository.UserRepository
	notifications *NotificationService
}

// NewTeamService creates a new TeamService
func NewTeamService(ideaRepo repository.IdeaRepository, userRepo repository.UserRepository, notifications *NotificationService) *TeamService {
	return &TeamService{
		ideaRepo:      ideaRepo,
		userRepo:      userRepo,
		notifications: notifications,
	}
}

// MemberInput identifies a candidate team member. UserID is preferred; email
// or student number are accepted for compatibility with imported rosters.
type MemberInput struct {
	UserID        *uint64
	Name          string
	Email         string
	StudentNumber string
}

// SubmitIdeaInput represents a student-submitted idea with an optional team
// roster.
type SubmitIdeaInput struct {
	Title       string
	Description string
	Department  string
	StudentID   uint64
	Members     []MemberInput
}

// SubmitIdea creates a student-authored idea. With a roster it enters
// pending_team_approval with the submitter as the implicitly approved leader;
// without one it follows the legacy single-author path straight to pending.
func (s *TeamService) SubmitIdea(input SubmitIdeaInput) (*models.ProjectIdea, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrIdeaTitleRequired
	}

	leader, err := s.userRepo.FindByID(input.StudentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load submitter: %w", err)
	}

	if len(input.Members)+1 > constants.MaxTeamSize {
		return nil, ErrTeamFull
	}

	idea := &models.ProjectIdea{
		Title:       input.Title,
		Description: input.Description,
		Department:  input.Department,
		StudentID:   &leader.ID,
	}

	if len(input.Members) == 0 {
		idea.Status = models.IdeaStatusPending
	} else {
		idea.Status = models.IdeaStatusPendingTeamApproval
		idea.TeamStatus = models.TeamStatusPendingApproval

		now := time.Now()
		members := []models.IdeaTeamMember{{
			UserID:        &leader.ID,
			Name:          leader.Name,
			Email:         leader.Email,
			StudentNumber: leader.StudentNumber,
			Role:          models.TeamRoleLeader,
			Approved:      true,
			ApprovedAt:    &now,
		}}

		for _, m := range input.Members {
			entry, err := s.buildMemberEntry(m, members)
			if err != nil {
				return nil, err
			}
			members = append(members, *entry)
		}
		idea.TeamMembers = members
	}

	if err := s.ideaRepo.Create(idea); err != nil {
		return nil, fmt.Errorf("failed to create idea: %w", err)
	}

	s.notifyInvitees(idea)
	return idea, nil
}

// ProposeIdeaInput represents a supervisor-proposed idea.
type ProposeIdeaInput struct {
	Title        string
	Description  string
	Department   string
	SupervisorID uint64
}

// ProposeIdea creates a supervisor-proposed idea, open for claiming.
func (s *TeamService) ProposeIdea(input ProposeIdeaInput) (*models.ProjectIdea, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrIdeaTitleRequired
	}

	idea := &models.ProjectIdea{
		Title:        input.Title,
		Description:  input.Description,
		Department:   input.Department,
		Status:       models.IdeaStatusAvailable,
		SupervisorID: &input.SupervisorID,
	}

	if err := s.ideaRepo.Create(idea); err != nil {
		return nil, fmt.Errorf("failed to create idea: %w", err)
	}
	return idea, nil
}

// FormTeam replaces the roster of an idea with a coordinator-chosen one. The
// first member becomes the leader and is implicitly approved.
func (s *TeamService) FormTeam(ideaID uint64, memberInputs []MemberInput) (*models.ProjectIdea, error) {
	idea, err := s.ideaRepo.FindByID(ideaID, "TeamMembers")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIdeaNotFound
		}
		return nil, fmt.Errorf("failed to load idea: %w", err)
	}
	if idea.Status == models.IdeaStatusApproved || idea.Status == models.IdeaStatusRejected {
		return nil, ErrIdeaNotEditable
	}
	if len(memberInputs) == 0 {
		return nil, ErrMemberNotFound
	}
	if len(memberInputs) > constants.MaxTeamSize {
		return nil, ErrTeamFull
	}

	now := time.Now()
	var members []models.IdeaTeamMember
	for i, m := range memberInputs {
		entry, err := s.buildMemberEntry(m, members)
		if err != nil {
			return nil, err
		}
		entry.IdeaID = idea.ID
		if i == 0 {
			entry.Role = models.TeamRoleLeader
			entry.Approved = true
			entry.ApprovedAt = &now
		}
		members = append(members, *entry)
	}

	for _, existing := range idea.TeamMembers {
		if err := s.ideaRepo.RemoveMember(existing.ID); err != nil {
			return nil, fmt.Errorf("failed to clear roster: %w", err)
		}
	}
	for i := range members {
		if err := s.ideaRepo.AddMember(&members[i]); err != nil {
			return nil, fmt.Errorf("failed to add member: %w", err)
		}
	}

	if err := s.ideaRepo.UpdateFields(idea.ID, map[string]interface{}{
		"status":      models.IdeaStatusPendingTeamApproval,
		"team_status": models.TeamStatusPendingApproval,
	}); err != nil {
		return nil, fmt.Errorf("failed to update idea: %w", err)
	}

	updated, err := s.ideaRepo.FindByID(idea.ID, "TeamMembers")
	if err != nil {
		return nil, fmt.Errorf("failed to reload idea: %w", err)
	}
	s.notifyInvitees(updated)
	return updated, nil
}

// AddTeamMember appends a candidate to the roster of a forming team.
func (s *TeamService) AddTeamMember(ideaID uint64, input MemberInput) (*models.IdeaTeamMember, error) {
	idea, err := s.ideaRepo.FindByID(ideaID, "TeamMembers")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIdeaNotFound
		}
		return nil, fmt.Errorf("failed to load idea: %w", err)
	}
	if idea.Status == models.IdeaStatusApproved || idea.Status == models.IdeaStatusRejected {
		return nil, ErrIdeaNotEditable
	}
	if len(idea.TeamMembers) >= constants.MaxTeamSize {
		return nil, ErrTeamFull
	}

	entry, err := s.buildMemberEntry(input, idea.TeamMembers)
	if err != nil {
		return nil, err
	}
	entry.IdeaID = idea.ID

	if err := s.ideaRepo.AddMember(entry); err != nil {
		return nil, fmt.Errorf("failed to add member: %w", err)
	}

	if entry.UserID != nil {
		s.notifications.Notify(*entry.UserID, models.NotificationTypeTeamInvite,
			"Team invitation",
			fmt.Sprintf("You have been added to the team for %q. Please confirm your membership.", idea.Title))
	}

	return entry, nil
}

// RemoveTeamMember removes a non-leader roster entry.
func (s *TeamService) RemoveTeamMember(ideaID, memberID uint64) error {
	member, err := s.ideaRepo.FindMemberByID(memberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMemberNotFound
		}
		return fmt.Errorf("failed to load member: %w", err)
	}
	if member.IdeaID != ideaID {
		return ErrMemberNotFound
	}
	if member.Role == models.TeamRoleLeader {
		return ErrLeaderImmutable
	}

	if err := s.ideaRepo.RemoveMember(memberID); err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}
	return nil
}

// ApproveMembership records one member's acceptance of the team. When the
// last member accepts, the team counts as formed and the idea moves to the
// coordinator's queue.
func (s *TeamService) ApproveMembership(ideaID, userID uint64) (*models.ProjectIdea, error) {
	idea, err := s.ideaRepo.FindByID(ideaID, "TeamMembers")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIdeaNotFound
		}
		return nil, fmt.Errorf("failed to load idea: %w", err)
	}

	member, err := s.ideaRepo.FindMemberByUser(ideaID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to load member: %w", err)
	}

	if !member.Approved {
		now := time.Now()
		if err := s.ideaRepo.UpdateMemberFields(member.ID, map[string]interface{}{
			"approved":    true,
			"approved_at": now,
		}); err != nil {
			return nil, fmt.Errorf("failed to approve membership: %w", err)
		}
	}

	// Check whether this was the last outstanding approval.
	members, err := s.ideaRepo.ListMembers(ideaID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	allApproved := true
	for _, m := range members {
		if !m.Approved {
			allApproved = false
			break
		}
	}

	if allApproved && idea.TeamStatus != models.TeamStatusFormed {
		if err := s.ideaRepo.UpdateFields(ideaID, map[string]interface{}{
			"team_status": models.TeamStatusFormed,
		}); err != nil {
			return nil, fmt.Errorf("failed to update team status: %w", err)
		}

		if idea.StudentID != nil {
			s.notifications.Notify(*idea.StudentID, models.NotificationTypeTeamApproved,
				"Team complete",
				fmt.Sprintf("All members of the team for %q have accepted.", idea.Title))
		}
	}

	return s.ideaRepo.FindByID(ideaID, "TeamMembers")
}

// buildMemberEntry resolves and validates a candidate against the current
// roster. The busy check is an advisory pre-write query; the hard cap on
// claimed ideas is enforced by the claim transaction, not here.
func (s *TeamService) buildMemberEntry(input MemberInput, roster []models.IdeaTeamMember) (*models.IdeaTeamMember, error) {
	user, err := resolveMember(s.userRepo, memberRef{
		UserID:        input.UserID,
		Email:         input.Email,
		StudentNumber: input.StudentNumber,
	})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrMemberUnresolvable
	}

	for _, existing := range roster {
		if existing.UserID != nil && *existing.UserID == user.ID {
			return nil, ErrDuplicateMember
		}
		if existing.Email != "" && strings.EqualFold(existing.Email, user.Email) {
			return nil, ErrDuplicateMember
		}
	}

	if user.ProjectID != nil || user.SelectedIdeaID != nil {
		return nil, ErrStudentBusy
	}

	return &models.IdeaTeamMember{
		UserID:        &user.ID,
		Name:          user.Name,
		Email:         user.Email,
		StudentNumber: user.StudentNumber,
		Role:          models.TeamRoleMember,
		Approved:      false,
	}, nil
}

// notifyInvitees fans out an invitation to every non-leader member with a
// resolvable user id. Best effort: runs after the idea is durable.
func (s *TeamService) notifyInvitees(idea *models.ProjectIdea) {
	var ids []uint64
	for _, m := range idea.TeamMembers {
		if m.Role == models.TeamRoleLeader || m.UserID == nil {
			continue
		}
		ids = append(ids, *m.UserID)
	}
	s.notifications.NotifyAll(ids, models.NotificationTypeTeamInvite,
		"Team invitation",
		fmt.Sprintf("You have been added to the team for %q. Please confirm your membership.", idea.Title))
}
