package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/M-Alradhi/gradproject-api/internal/constants"
	"github.com/M-Alradhi/gradproject-api/internal/models"
	"github.com/M-Alradhi/gradproject-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTeamNotFormed        = errors.New("team must have at least two members")
	ErrMembersNotApproved   = errors.New("all team members must approve before the idea can be promoted")
	ErrIdeaNotPromotable    = errors.New("idea is not awaiting approval")
	ErrSupervisorRequired   = errors.New("at least one supervisor is required")
	ErrProjectNotFound      = errors.New("project not found")
	ErrReasonRequired       = errors.New("a rejection reason is required")
	ErrConfirmationRequired = errors.New("reassignment requires explicit confirmation")
	ErrInvalidTransition    = errors.New("status transition is not allowed")
	ErrSupervisorNotFound   = errors.New("supervisor not found")
	ErrNotAStudent          = errors.New("target user is not a student")
	ErrProjectTitleRequired = errors.New("project title is required")
)

// ProjectService owns idea promotion, the supervisor reassignment cascade,
// and the project status lifecycle.
type ProjectService struct {
	ideaRepo      repository.IdeaRepository
	projectRepo   repository.ProjectRepository
	userRepo      repository.UserRepository
	notifications *NotificationService
}

// NewProjectService creates a new ProjectService
func NewProjectService(ideaRepo repository.IdeaRepository, projectRepo repository.ProjectRepository, userRepo repository.UserRepository, notifications *NotificationService) *ProjectService {
	return &ProjectService{
		ideaRepo:      ideaRepo,
		projectRepo:   projectRepo,
		userRepo:      userRepo,
		notifications: notifications,
	}
}

// PromoteInput represents the coordinator approval that turns an idea into a
// project.
type PromoteInput struct {
	IdeaID        uint64
	ApproverID    uint64
	SupervisorIDs []uint64
	StartDate     *time.Time
	EndDate       *time.Time
}

// PromoteToProject approves a team idea and creates the real project. The
// steps after the gate are independent writes, not one transaction: the
// whole sequence is idempotent keyed by the idea id, so a partially failed
// run is completed by invoking it again rather than rolled back.
func (s *ProjectService) PromoteToProject(input PromoteInput) (*models.Project, error) {
	if len(input.SupervisorIDs) == 0 {
		return nil, ErrSupervisorRequired
	}

	idea, err := s.ideaRepo.FindByID(input.IdeaID, "TeamMembers")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIdeaNotFound
		}
		return nil, fmt.Errorf("failed to load idea: %w", err)
	}

	// The double gate: an incomplete team can never become a project.
	if len(idea.TeamMembers) < constants.MinTeamSize {
		return nil, ErrTeamNotFormed
	}
	for _, m := range idea.TeamMembers {
		if !m.Approved {
			return nil, ErrMembersNotApproved
		}
	}

	alreadyApproved := idea.Status == models.IdeaStatusApproved
	if !alreadyApproved && !models.CanTransitionIdea(idea.Status, models.IdeaStatusApproved) {
		return nil, ErrIdeaNotPromotable
	}

	if !alreadyApproved {
		now := time.Now()
		if err := s.ideaRepo.UpdateFields(idea.ID, map[string]interface{}{
			"status":         models.IdeaStatusApproved,
			"approved_by_id": input.ApproverID,
			"approved_at":    now,
		}); err != nil {
			return nil, fmt.Errorf("failed to approve idea: %w", err)
		}
	}

	// Idempotent re-run: reuse the project already created from this idea.
	project, err := s.projectRepo.FindByIdeaID(idea.ID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to look up project: %w", err)
		}
		project, err = s.createProjectFromIdea(idea, input)
		if err != nil {
			return nil, err
		}
	}

	// Relink every resolvable member's user record to the new project.
	primary := input.SupervisorIDs[0]
	resolved := s.resolveRoster(ideaMemberRefs(idea.TeamMembers))
	s.fanOutUserUpdates(resolved, map[string]interface{}{
		"supervisor_id": primary,
		"project_id":    project.ID,
	})

	if idea.ProjectID == nil {
		if err := s.ideaRepo.UpdateFields(idea.ID, map[string]interface{}{
			"project_id": project.ID,
		}); err != nil {
			return nil, fmt.Errorf("failed to link idea to project: %w", err)
		}
	}

	s.notifications.NotifyAll(resolved, models.NotificationTypeIdeaApproved,
		"Project approved",
		fmt.Sprintf("Your idea %q has been approved and is now an active project.", idea.Title))

	return s.projectRepo.FindByID(project.ID, "Members", "Supervisors")
}

func (s *ProjectService) createProjectFromIdea(idea *models.ProjectIdea, input PromoteInput) (*models.Project, error) {
	var leaderID *uint64
	members := make([]models.ProjectMember, 0, len(idea.TeamMembers))
	for _, m := range idea.TeamMembers {
		if m.Role == models.TeamRoleLeader && m.UserID != nil {
			leaderID = m.UserID
		}
		members = append(members, models.ProjectMember{
			UserID:        m.UserID,
			Name:          m.Name,
			Email:         m.Email,
			StudentNumber: m.StudentNumber,
			Role:          m.Role,
			Approved:      m.Approved,
		})
	}

	supervisors := make([]models.ProjectSupervisor, 0, len(input.SupervisorIDs))
	for i, id := range input.SupervisorIDs {
		role := models.SupervisorRoleSecondary
		if i == 0 {
			role = models.SupervisorRolePrimary
		}
		supervisors = append(supervisors, models.ProjectSupervisor{UserID: id, Role: role})
	}

	primary := input.SupervisorIDs[0]
	project := &models.Project{
		Title:        idea.Title,
		Description:  idea.Description,
		Department:   idea.Department,
		IdeaID:       &idea.ID,
		SupervisorID: &primary,
		StudentID:    leaderID,
		Status:       models.ProjectStatusActive,
		StartDate:    input.StartDate,
		EndDate:      input.EndDate,
		Members:      members,
		Supervisors:  supervisors,
	}

	if err := s.projectRepo.Create(project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	return project, nil
}

// CreateProjectInput represents a coordinator-created project that has no
// backing idea.
type CreateProjectInput struct {
	Title         string
	Description   string
	Department    string
	SupervisorIDs []uint64
	Members       []MemberInput
	StartDate     *time.Time
	EndDate       *time.Time
}

// CreateProject creates a project directly, bypassing the idea pipeline.
// Roster entries that resolve to real users are linked; the rest are kept as
// snapshot rows.
func (s *ProjectService) CreateProject(input CreateProjectInput) (*models.Project, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrProjectTitleRequired
	}
	if len(input.SupervisorIDs) == 0 {
		return nil, ErrSupervisorRequired
	}

	for _, id := range input.SupervisorIDs {
		if _, err := s.userRepo.FindByID(id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrSupervisorNotFound
			}
			return nil, fmt.Errorf("failed to load supervisor: %w", err)
		}
	}

	members := make([]models.ProjectMember, 0, len(input.Members))
	for _, m := range input.Members {
		member := models.ProjectMember{
			UserID:        m.UserID,
			Name:          m.Name,
			Email:         strings.ToLower(m.Email),
			StudentNumber: m.StudentNumber,
			Role:          models.TeamRoleMember,
			Approved:      true,
		}
		if user, err := resolveMember(s.userRepo, memberRef{UserID: m.UserID, Email: m.Email, StudentNumber: m.StudentNumber}); err == nil && user != nil {
			member.UserID = &user.ID
			member.Name = user.Name
			member.Email = user.Email
			member.StudentNumber = user.StudentNumber
		}
		members = append(members, member)
	}

	supervisors := make([]models.ProjectSupervisor, 0, len(input.SupervisorIDs))
	for i, id := range input.SupervisorIDs {
		role := models.SupervisorRoleSecondary
		if i == 0 {
			role = models.SupervisorRolePrimary
		}
		supervisors = append(supervisors, models.ProjectSupervisor{UserID: id, Role: role})
	}

	primary := input.SupervisorIDs[0]
	project := &models.Project{
		Title:        input.Title,
		Description:  input.Description,
		Department:   input.Department,
		SupervisorID: &primary,
		Status:       models.ProjectStatusActive,
		StartDate:    input.StartDate,
		EndDate:      input.EndDate,
		Members:      members,
		Supervisors:  supervisors,
	}

	if err := s.projectRepo.Create(project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	resolved := s.resolveRoster(projectMemberRefs(members))
	s.fanOutUserUpdates(resolved, map[string]interface{}{
		"supervisor_id": primary,
		"project_id":    project.ID,
	})

	s.notifications.NotifyAll(resolved, models.NotificationTypeProjectStatus,
		"Project created",
		fmt.Sprintf("You have been added to the project %q.", project.Title))

	return s.projectRepo.FindByID(project.ID, "Members", "Supervisors")
}

// RejectIdea moves an idea to rejected. A non-empty reason is mandatory.
func (s *ProjectService) RejectIdea(ideaID, actorID uint64, reason string) (*models.ProjectIdea, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, ErrReasonRequired
	}

	idea, err := s.ideaRepo.FindByID(ideaID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIdeaNotFound
		}
		return nil, fmt.Errorf("failed to load idea: %w", err)
	}

	if !models.CanTransitionIdea(idea.Status, models.IdeaStatusRejected) {
		return nil, ErrInvalidTransition
	}

	if err := s.ideaRepo.UpdateFields(ideaID, map[string]interface{}{
		"status":           models.IdeaStatusRejected,
		"rejection_reason": reason,
		"approved_by_id":   actorID,
	}); err != nil {
		return nil, fmt.Errorf("failed to reject idea: %w", err)
	}

	if idea.StudentID != nil {
		s.notifications.Notify(*idea.StudentID, models.NotificationTypeIdeaRejected,
			"Idea rejected",
			fmt.Sprintf("Your idea %q was rejected: %s", idea.Title, reason))
	}

	return s.ideaRepo.FindByID(ideaID)
}

// ReassignInput represents a coordinator-triggered supervisor change.
type ReassignInput struct {
	StudentID       uint64
	NewSupervisorID uint64
	// Confirmed must be true when the student already has a supervisor or a
	// project; the first call without it returns ErrConfirmationRequired so
	// the coordinator can review the blast radius.
	Confirmed bool
}

// ReassignSupervisor propagates a supervisor change from the student to the
// linked project and to every resolvable team member. Steps are independent
// writes; one member's failure does not block the others.
func (s *ProjectService) ReassignSupervisor(input ReassignInput) error {
	student, err := s.userRepo.FindByID(input.StudentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to load student: %w", err)
	}
	if student.Role != models.RoleStudent {
		return ErrNotAStudent
	}

	if _, err := s.userRepo.FindByID(input.NewSupervisorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSupervisorNotFound
		}
		return fmt.Errorf("failed to load supervisor: %w", err)
	}

	hasOtherSupervisor := student.SupervisorID != nil && *student.SupervisorID != input.NewSupervisorID
	if (hasOtherSupervisor || student.ProjectID != nil) && !input.Confirmed {
		return ErrConfirmationRequired
	}

	if err := s.userRepo.UpdateFields(student.ID, map[string]interface{}{
		"supervisor_id": input.NewSupervisorID,
	}); err != nil {
		return fmt.Errorf("failed to update student: %w", err)
	}

	notified := []uint64{student.ID}

	if student.ProjectID != nil {
		if err := s.projectRepo.SetPrimarySupervisor(*student.ProjectID, input.NewSupervisorID); err != nil {
			return fmt.Errorf("failed to update project supervisor: %w", err)
		}

		members, err := s.projectRepo.ListMembers(*student.ProjectID)
		if err != nil {
			return fmt.Errorf("failed to list project members: %w", err)
		}

		resolved := s.resolveRoster(projectMemberRefs(members))
		resolved = without(resolved, student.ID)
		s.fanOutUserUpdates(resolved, map[string]interface{}{
			"supervisor_id": input.NewSupervisorID,
		})
		notified = append(notified, resolved...)
	}

	s.notifications.NotifyAll(notified, models.NotificationTypeSupervisorChanged,
		"Supervisor changed",
		"Your project has been assigned a new supervisor.")

	return nil
}

// UpdateStatus applies a lifecycle transition to a project. Entering the
// deleted state is a soft delete that also clears project links on users.
func (s *ProjectService) UpdateStatus(projectID uint64, newStatus models.ProjectStatus) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to load project: %w", err)
	}

	if !models.CanTransitionProject(project.Status, newStatus) {
		return nil, ErrInvalidTransition
	}

	if err := s.projectRepo.UpdateFields(projectID, map[string]interface{}{
		"status": newStatus,
	}); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	if newStatus == models.ProjectStatusDeleted {
		if err := s.userRepo.ClearProjectLinks(projectID); err != nil {
			log.Printf("failed to clear user links for deleted project %d: %v", projectID, err)
		}
	}

	members, err := s.projectRepo.ListMembers(projectID)
	if err == nil {
		recipients := s.resolveRoster(projectMemberRefs(members))
		s.notifications.NotifyAll(recipients, models.NotificationTypeProjectStatus,
			"Project status changed",
			fmt.Sprintf("Project %q is now %s.", project.Title, newStatus))
	}

	return s.projectRepo.FindByID(projectID)
}

// UpdateProgress sets the progress percentage of a project.
func (s *ProjectService) UpdateProgress(projectID uint64, progress int) (*models.Project, error) {
	if progress < 0 || progress > 100 {
		return nil, fmt.Errorf("progress must be between 0 and 100")
	}

	if _, err := s.projectRepo.FindByID(projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to load project: %w", err)
	}

	if err := s.projectRepo.UpdateFields(projectID, map[string]interface{}{
		"progress": progress,
	}); err != nil {
		return nil, fmt.Errorf("failed to update progress: %w", err)
	}

	return s.projectRepo.FindByID(projectID)
}

// resolveRoster maps mixed roster entries (id references and legacy
// snapshots) to concrete, deduplicated user ids. Unresolvable entries are
// logged and dropped, never fatal.
func (s *ProjectService) resolveRoster(refs []memberRef) []uint64 {
	seen := make(map[uint64]struct{}, len(refs))
	resolved := make([]uint64, 0, len(refs))

	for _, ref := range refs {
		user, err := resolveMember(s.userRepo, ref)
		if err != nil {
			log.Printf("member resolution failed: %v", err)
			continue
		}
		if user == nil {
			log.Printf("unresolvable roster entry (email=%q student_number=%q) skipped", ref.Email, ref.StudentNumber)
			continue
		}
		if _, dup := seen[user.ID]; dup {
			continue
		}
		seen[user.ID] = struct{}{}
		resolved = append(resolved, user.ID)
	}

	return resolved
}

// fanOutUserUpdates writes the same partial update to each user concurrently.
// Per-item isolation: a failed update is logged and does not abort siblings.
func (s *ProjectService) fanOutUserUpdates(userIDs []uint64, fields map[string]interface{}) {
	var wg sync.WaitGroup
	for _, id := range userIDs {
		wg.Add(1)
		go func(userID uint64) {
			defer wg.Done()
			if err := s.userRepo.UpdateFields(userID, fields); err != nil {
				log.Printf("user %d update skipped in fan-out: %v", userID, err)
			}
		}(id)
	}
	wg.Wait()
}

func ideaMemberRefs(members []models.IdeaTeamMember) []memberRef {
	refs := make([]memberRef, 0, len(members))
	for _, m := range members {
		refs = append(refs, memberRef{UserID: m.UserID, Email: m.Email, StudentNumber: m.StudentNumber})
	}
	return refs
}

func projectMemberRefs(members []models.ProjectMember) []memberRef {
	refs := make([]memberRef, 0, len(members))
	for _, m := range members {
		refs = append(refs, memberRef{UserID: m.UserID, Email: m.Email, StudentNumber: m.StudentNumber})
	}
	return refs
}

func without(ids []uint64, exclude uint64) []uint64 {
	out := ids[:0]
	for _, id := range ids {
		if id != exclude {
			out = append(out, id)
		}
	}
	return out
}
