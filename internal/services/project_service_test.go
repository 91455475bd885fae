package services

import (
	"testing"
	"time"

	"github.com/M-Alradhi/gradproject-api/internal/models"
	"github.com/M-Alradhi/gradproject-api/internal/repository"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newProjectService(db *gorm.DB) *ProjectService {
	notifications := NewNotificationService(repository.NewNotificationRepository(db))
	return NewProjectService(
		repository.NewIdeaRepository(db),
		repository.NewProjectRepository(db),
		repository.NewUserRepository(db),
		notifications,
	)
}

// approvedTeamIdea creates an idea whose roster is fully approved, ready for
// promotion. The second member is a legacy snapshot row with no user id.
func approvedTeamIdea(t *testing.T, db *gorm.DB, leader, mate *models.User) *models.ProjectIdea {
	t.Helper()

	now := time.Now()
	idea := &models.ProjectIdea{
		Title:      "Capstone project",
		Status:     models.IdeaStatusPendingTeamApproval,
		TeamStatus: models.TeamStatusFormed,
		StudentID:  &leader.ID,
		TeamMembers: []models.IdeaTeamMember{
			{
				UserID:     &leader.ID,
				Name:       leader.Name,
				Email:      leader.Email,
				Role:       models.TeamRoleLeader,
				Approved:   true,
				ApprovedAt: &now,
			},
			{
				// Legacy row: snapshot only, resolved by email at promotion.
				Name:       mate.Name,
				Email:      mate.Email,
				Role:       models.TeamRoleMember,
				Approved:   true,
				ApprovedAt: &now,
			},
		},
	}
	require.NoError(t, db.Create(idea).Error)
	return idea
}

func TestProjectService_PromoteToProject(t *testing.T) {
	db := newTestDB(t)
	service := newProjectService(db)

	coordinator := createUser(t, db, "coordinator", models.RoleCoordinator)
	supervisor := createUser(t, db, "supervisor", models.RoleSupervisor)
	leader := createUser(t, db, "leader", models.RoleStudent)
	mate := createUser(t, db, "mate", models.RoleStudent)
	idea := approvedTeamIdea(t, db, leader, mate)

	project, err := service.PromoteToProject(PromoteInput{
		IdeaID:        idea.ID,
		ApproverID:    coordinator.ID,
		SupervisorIDs: []uint64{supervisor.ID},
	})
	require.NoError(t, err)
	require.Equal(t, models.ProjectStatusActive, project.Status)
	require.NotNil(t, project.IdeaID)
	require.Equal(t, idea.ID, *project.IdeaID)
	require.Len(t, project.Members, 2)

	// The idea is approved and linked to the project.
	var reloadedIdea models.ProjectIdea
	require.NoError(t, db.First(&reloadedIdea, idea.ID).Error)
	require.Equal(t, models.IdeaStatusApproved, reloadedIdea.Status)
	require.NotNil(t, reloadedIdea.ProjectID)
	require.Equal(t, project.ID, *reloadedIdea.ProjectID)

	// Both members are relinked, including the snapshot-only one resolved
	// by email.
	for _, u := range []*models.User{leader, mate} {
		var reloaded models.User
		require.NoError(t, db.First(&reloaded, u.ID).Error)
		require.NotNil(t, reloaded.ProjectID)
		require.Equal(t, project.ID, *reloaded.ProjectID)
		require.NotNil(t, reloaded.SupervisorID)
		require.Equal(t, supervisor.ID, *reloaded.SupervisorID)
	}
}

func TestProjectService_PromoteRequiresFormedTeam(t *testing.T) {
	db := newTestDB(t)
	service := newProjectService(db)

	coordinator := createUser(t, db, "coordinator", models.RoleCoordinator)
	supervisor := createUser(t, db, "supervisor", models.RoleSupervisor)
	leader := createUser(t, db, "leader", models.RoleStudent)

	now := time.Now()
	idea := &models.ProjectIdea{
		Title:     "Undersized team",
		Status:    models.IdeaStatusPendingTeamApproval,
		StudentID: &leader.ID,
		TeamMembers: []models.IdeaTeamMember{
			{UserID: &leader.ID, Role: models.TeamRoleLeader, Approved: true, ApprovedAt: &now},
		},
	}
	require.NoError(t, db.Create(idea).Error)

	_, err := service.PromoteToProject(PromoteInput{
		IdeaID:        idea.ID,
		ApproverID:    coordinator.ID,
		SupervisorIDs: []uint64{supervisor.ID},
	})
	require.ErrorIs(t, err, ErrTeamNotFormed)

	// No project may exist after the failed gate.
	var count int64
	require.NoError(t, db.Model(&models.Project{}).Count(&count).Error)
	require.Equal(t, int64(0), count)
}

func TestProjectService_PromoteRequiresAllApprovals(t *testing.T) {
	db := newTestDB(t)
	service := newProjectService(db)

	coordinator := createUser(t, db, "coordinator", models.RoleCoordinator)
	supervisor := createUser(t, db, "supervisor", models.RoleSupervisor)
	leader := createUser(t, db, "leader", models.RoleStudent)
	mate := createUser(t, db, "mate", models.RoleStudent)

	now := time.Now()
	idea := &models.ProjectIdea{
		Title:     "Half-approved team",
		Status:    models.IdeaStatusPendingTeamApproval,
		StudentID: &leader.ID,
		TeamMembers: []models.IdeaTeamMember{
			{UserID: &leader.ID, Role: models.TeamRoleLeader, Approved: true, ApprovedAt: &now},
			{UserID: &mate.ID, Role: models.TeamRoleMember, Approved: false},
		},
	}
	require.NoError(t, db.Create(idea).Error)

	_, err := service.PromoteToProject(PromoteInput{
		IdeaID:        idea.ID,
		ApproverID:    coordinator.ID,
		SupervisorIDs: []uint64{supervisor.ID},
	})
	require.ErrorIs(t, err, ErrMembersNotApproved)
}

func TestProjectService_PromoteIdempotent(t *testing.T) {
	db := newTestDB(t)
	service := newProjectService(db)

	coordinator := createUser(t, db, "coordinator", models.RoleCoordinator)
	supervisor := createUser(t, db, "supervisor", models.RoleSupervisor)
	leader := createUser(t, db, "leader", models.RoleStudent)
	mate := createUser(t, db, "mate", models.RoleStudent)
	idea := approvedTeamIdea(t, db, leader, mate)

	input := PromoteInput{
		IdeaID:        idea.ID,
		ApproverID:    coordinator.ID,
		SupervisorIDs: []uint64{supervisor.ID},
	}

	first, err := service.PromoteToProject(input)
	require.NoError(t, err)

	// Re-running the approval resumes instead of duplicating.
	second, err := service.PromoteToProject(input)
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.Model(&models.Project{}).Count(&count).Error)
	require.Equal(t, int64(1), count)
}

func TestProjectService_RejectIdeaRequiresReason(t *testing.T) {
	db := newTestDB(t)
	service := newProjectService(db)

	coordinator := createUser(t, db, "coordinator", models.RoleCoordinator)
	leader := createUser(t, db, "leader", models.RoleStudent)

	idea := &models.ProjectIdea{
		Title:     "Doomed idea",
		Status:    models.IdeaStatusPending,
		StudentID: &leader.ID,
	}
	require.NoError(t, db.Create(idea).Error)

	_, err := service.RejectIdea(idea.ID, coordinator.ID, "  ")
	require.ErrorIs(t, err, ErrReasonRequired)

	rejected, err := service.RejectIdea(idea.ID, coordinator.ID, "out of scope")
	require.NoError(t, err)
	require.Equal(t, models.IdeaStatusRejected, rejected.Status)
	require.Equal(t, "out of scope", rejected.RejectionReason)
}

func TestProjectService_ReassignRequiresConfirmation(t *testing.T) {
	db := newTestDB(t)
	service := newProjectService(db)

	oldSupervisor := createUser(t, db, "old-supervisor", models.RoleSupervisor)
	newSupervisor := createUser(t, db, "new-supervisor", models.RoleSupervisor)
	student := createUser(t, db, "student", models.RoleStudent)
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", student.ID).
		Update("supervisor_id", oldSupervisor.ID).Error)

	err := service.ReassignSupervisor(ReassignInput{
		StudentID:       student.ID,
		NewSupervisorID: newSupervisor.ID,
	})
	require.ErrorIs(t, err, ErrConfirmationRequired)

	// Nothing changed on the first, unconfirmed call.
	var reloaded models.User
	require.NoError(t, db.First(&reloaded, student.ID).Error)
	require.Equal(t, oldSupervisor.ID, *reloaded.SupervisorID)

	require.NoError(t, service.ReassignSupervisor(ReassignInput{
		StudentID:       student.ID,
		NewSupervisorID: newSupervisor.ID,
		Confirmed:       true,
	}))

	require.NoError(t, db.First(&reloaded, student.ID).Error)
	require.Equal(t, newSupervisor.ID, *reloaded.SupervisorID)
}

func TestProjectService_ReassignCascadesToTeam(t *testing.T) {
	db := newTestDB(t)
	service := newProjectService(db)

	coordinator := createUser(t, db, "coordinator", models.RoleCoordinator)
	oldSupervisor := createUser(t, db, "old-supervisor", models.RoleSupervisor)
	newSupervisor := createUser(t, db, "new-supervisor", models.RoleSupervisor)
	leader := createUser(t, db, "leader", models.RoleStudent)
	mate := createUser(t, db, "mate", models.RoleStudent)
	idea := approvedTeamIdea(t, db, leader, mate)

	_, err := service.PromoteToProject(PromoteInput{
		IdeaID:        idea.ID,
		ApproverID:    coordinator.ID,
		SupervisorIDs: []uint64{oldSupervisor.ID},
	})
	require.NoError(t, err)

	require.NoError(t, service.ReassignSupervisor(ReassignInput{
		StudentID:       leader.ID,
		NewSupervisorID: newSupervisor.ID,
		Confirmed:       true,
	}))

	// The project's primary supervisor changed.
	var leaderReloaded models.User
	require.NoError(t, db.First(&leaderReloaded, leader.ID).Error)
	var project models.Project
	require.NoError(t, db.First(&project, *leaderReloaded.ProjectID).Error)
	require.Equal(t, newSupervisor.ID, *project.SupervisorID)

	// The teammate, stored only as an email snapshot, was resolved and
	// updated too.
	var mateReloaded models.User
	require.NoError(t, db.First(&mateReloaded, mate.ID).Error)
	require.NotNil(t, mateReloaded.SupervisorID)
	require.Equal(t, newSupervisor.ID, *mateReloaded.SupervisorID)
}

func TestProjectService_StatusLifecycle(t *testing.T) {
	db := newTestDB(t)
	service := newProjectService(db)

	project := &models.Project{Title: "Lifecycle", Status: models.ProjectStatusActive}
	require.NoError(t, db.Create(project).Error)

	updated, err := service.UpdateStatus(project.ID, models.ProjectStatusCompleted)
	require.NoError(t, err)
	require.Equal(t, models.ProjectStatusCompleted, updated.Status)

	// A completed project cannot go back to active.
	_, err = service.UpdateStatus(project.ID, models.ProjectStatusActive)
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestProjectService_SoftDeleteClearsUserLinks(t *testing.T) {
	db := newTestDB(t)
	service := newProjectService(db)

	coordinator := createUser(t, db, "coordinator", models.RoleCoordinator)
	supervisor := createUser(t, db, "supervisor", models.RoleSupervisor)
	leader := createUser(t, db, "leader", models.RoleStudent)
	mate := createUser(t, db, "mate", models.RoleStudent)
	idea := approvedTeamIdea(t, db, leader, mate)

	project, err := service.PromoteToProject(PromoteInput{
		IdeaID:        idea.ID,
		ApproverID:    coordinator.ID,
		SupervisorIDs: []uint64{supervisor.ID},
	})
	require.NoError(t, err)

	deleted, err := service.UpdateStatus(project.ID, models.ProjectStatusDeleted)
	require.NoError(t, err)
	require.Equal(t, models.ProjectStatusDeleted, deleted.Status)

	// The row survives as a tombstone; users are unlinked.
	var survivor models.Project
	require.NoError(t, db.First(&survivor, project.ID).Error)

	for _, u := range []*models.User{leader, mate} {
		var reloaded models.User
		require.NoError(t, db.First(&reloaded, u.ID).Error)
		require.Nil(t, reloaded.ProjectID)
	}
}

func TestProjectService_UpdateProgressBounds(t *testing.T) {
	db := newTestDB(t)
	service := newProjectService(db)

	project := &models.Project{Title: "Progress", Status: models.ProjectStatusActive}
	require.NoError(t, db.Create(project).Error)

	_, err := service.UpdateProgress(project.ID, 101)
	require.Error(t, err)

	updated, err := service.UpdateProgress(project.ID, 60)
	require.NoError(t, err)
	require.Equal(t, 60, updated.Progress)
}

func TestProjectService_CreateProjectDirect(t *testing.T) {
	db := newTestDB(t)
	service := newProjectService(db)

	supervisor := createUser(t, db, "supervisor", models.RoleSupervisor)
	student := createUser(t, db, "student", models.RoleStudent)

	project, err := service.CreateProject(CreateProjectInput{
		Title:         "Directly created",
		Description:   "Coordinator-made project",
		SupervisorIDs: []uint64{supervisor.ID},
		Members: []MemberInput{
			{Email: student.Email},
			{Name: "External Partner", Email: "partner@other.edu"},
		},
	})
	require.NoError(t, err)
	require.Equal(t, models.ProjectStatusActive, project.Status)
	require.Nil(t, project.IdeaID)
	require.Len(t, project.Members, 2)
	require.Len(t, project.Supervisors, 1)
	require.Equal(t, models.SupervisorRolePrimary, project.Supervisors[0].Role)

	// The resolvable member is linked to the project; the snapshot-only
	// roster entry stays unlinked.
	var reloaded models.User
	require.NoError(t, db.First(&reloaded, student.ID).Error)
	require.NotNil(t, reloaded.ProjectID)
	require.Equal(t, project.ID, *reloaded.ProjectID)
	require.NotNil(t, reloaded.SupervisorID)
	require.Equal(t, supervisor.ID, *reloaded.SupervisorID)
}

func TestProjectService_CreateProjectRequiresTitle(t *testing.T) {
	db := newTestDB(t)
	service := newProjectService(db)

	supervisor := createUser(t, db, "supervisor", models.RoleSupervisor)

	_, err := service.CreateProject(CreateProjectInput{
		Title:         "  ",
		SupervisorIDs: []uint64{supervisor.ID},
	})
	require.ErrorIs(t, err, ErrProjectTitleRequired)
}
