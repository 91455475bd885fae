package services

import (
	"testing"

	"github.com/M-Alradhi/gradproject-api/internal/models"
	"github.com/M-Alradhi/gradproject-api/internal/repository"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTeamService(db *gorm.DB) *TeamService {
	notifications := NewNotificationService(repository.NewNotificationRepository(db))
	return NewTeamService(repository.NewIdeaRepository(db), repository.NewUserRepository(db), notifications)
}

func TestTeamService_SubmitIdeaWithRoster(t *testing.T) {
	db := newTestDB(t)
	service := newTeamService(db)

	leader := createUser(t, db, "leader", models.RoleStudent)
	mate := createUser(t, db, "mate", models.RoleStudent)

	idea, err := service.SubmitIdea(SubmitIdeaInput{
		Title:     "Smart campus parking",
		StudentID: leader.ID,
		Members: []MemberInput{
			{UserID: &mate.ID},
		},
	})
	require.NoError(t, err)
	require.Equal(t, models.IdeaStatusPendingTeamApproval, idea.Status)
	require.Equal(t, models.TeamStatusPendingApproval, idea.TeamStatus)
	require.Len(t, idea.TeamMembers, 2)

	// The submitter is the leader and counts as already approved.
	require.Equal(t, models.TeamRoleLeader, idea.TeamMembers[0].Role)
	require.True(t, idea.TeamMembers[0].Approved)
	require.Equal(t, models.TeamRoleMember, idea.TeamMembers[1].Role)
	require.False(t, idea.TeamMembers[1].Approved)

	// The invitee got a notification.
	var count int64
	require.NoError(t, db.Model(&models.Notification{}).
		Where("user_id = ?", mate.ID).Count(&count).Error)
	require.Equal(t, int64(1), count)
}

func TestTeamService_SubmitIdeaWithoutRoster(t *testing.T) {
	db := newTestDB(t)
	service := newTeamService(db)

	leader := createUser(t, db, "solo", models.RoleStudent)

	idea, err := service.SubmitIdea(SubmitIdeaInput{
		Title:     "Solo submission",
		StudentID: leader.ID,
	})
	require.NoError(t, err)
	require.Equal(t, models.IdeaStatusPending, idea.Status)
	require.Empty(t, idea.TeamMembers)
}

func TestTeamService_SubmitIdeaMemberByEmail(t *testing.T) {
	db := newTestDB(t)
	service := newTeamService(db)

	leader := createUser(t, db, "leader", models.RoleStudent)
	mate := createUser(t, db, "mate", models.RoleStudent)

	// Email matching is case-insensitive.
	idea, err := service.SubmitIdea(SubmitIdeaInput{
		Title:     "Email roster",
		StudentID: leader.ID,
		Members: []MemberInput{
			{Email: "MATE@EXAMPLE.EDU"},
		},
	})
	require.NoError(t, err)
	require.Len(t, idea.TeamMembers, 2)
	require.NotNil(t, idea.TeamMembers[1].UserID)
	require.Equal(t, mate.ID, *idea.TeamMembers[1].UserID)
}

func TestTeamService_SubmitIdeaMemberByStudentNumber(t *testing.T) {
	db := newTestDB(t)
	service := newTeamService(db)

	leader := createUser(t, db, "leader", models.RoleStudent)
	mate := createUser(t, db, "mate", models.RoleStudent)

	idea, err := service.SubmitIdea(SubmitIdeaInput{
		Title:     "Student number roster",
		StudentID: leader.ID,
		Members: []MemberInput{
			{StudentNumber: mate.StudentNumber},
		},
	})
	require.NoError(t, err)
	require.Len(t, idea.TeamMembers, 2)
	require.NotNil(t, idea.TeamMembers[1].UserID)
	require.Equal(t, mate.ID, *idea.TeamMembers[1].UserID)
}

func TestTeamService_SubmitIdeaDuplicateMember(t *testing.T) {
	db := newTestDB(t)
	service := newTeamService(db)

	leader := createUser(t, db, "leader", models.RoleStudent)
	mate := createUser(t, db, "mate", models.RoleStudent)

	_, err := service.SubmitIdea(SubmitIdeaInput{
		Title:     "Duplicate roster",
		StudentID: leader.ID,
		Members: []MemberInput{
			{UserID: &mate.ID},
			{Email: mate.Email},
		},
	})
	require.ErrorIs(t, err, ErrDuplicateMember)
}

func TestTeamService_SubmitIdeaBusyMember(t *testing.T) {
	db := newTestDB(t)
	service := newTeamService(db)

	leader := createUser(t, db, "leader", models.RoleStudent)
	busy := createUser(t, db, "busy", models.RoleStudent)
	projectID := uint64(42)
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", busy.ID).
		Update("project_id", projectID).Error)

	_, err := service.SubmitIdea(SubmitIdeaInput{
		Title:     "Busy roster",
		StudentID: leader.ID,
		Members: []MemberInput{
			{UserID: &busy.ID},
		},
	})
	require.ErrorIs(t, err, ErrStudentBusy)
}

func TestTeamService_SubmitIdeaUnresolvableMember(t *testing.T) {
	db := newTestDB(t)
	service := newTeamService(db)

	leader := createUser(t, db, "leader", models.RoleStudent)

	_, err := service.SubmitIdea(SubmitIdeaInput{
		Title:     "Ghost roster",
		StudentID: leader.ID,
		Members: []MemberInput{
			{Email: "nobody@example.edu"},
		},
	})
	require.ErrorIs(t, err, ErrMemberUnresolvable)
}

func TestTeamService_RemoveLeaderRejected(t *testing.T) {
	db := newTestDB(t)
	service := newTeamService(db)

	leader := createUser(t, db, "leader", models.RoleStudent)
	mate := createUser(t, db, "mate", models.RoleStudent)

	idea, err := service.SubmitIdea(SubmitIdeaInput{
		Title:     "Protected leader",
		StudentID: leader.ID,
		Members: []MemberInput{
			{UserID: &mate.ID},
		},
	})
	require.NoError(t, err)

	err = service.RemoveTeamMember(idea.ID, idea.TeamMembers[0].ID)
	require.ErrorIs(t, err, ErrLeaderImmutable)

	// A regular member can be removed.
	require.NoError(t, service.RemoveTeamMember(idea.ID, idea.TeamMembers[1].ID))
}

func TestTeamService_ApproveMembershipFormsTeam(t *testing.T) {
	db := newTestDB(t)
	service := newTeamService(db)

	leader := createUser(t, db, "leader", models.RoleStudent)
	mate1 := createUser(t, db, "mate1", models.RoleStudent)
	mate2 := createUser(t, db, "mate2", models.RoleStudent)

	idea, err := service.SubmitIdea(SubmitIdeaInput{
		Title:     "Approval flow",
		StudentID: leader.ID,
		Members: []MemberInput{
			{UserID: &mate1.ID},
			{UserID: &mate2.ID},
		},
	})
	require.NoError(t, err)

	// First approval: team still pending.
	updated, err := service.ApproveMembership(idea.ID, mate1.ID)
	require.NoError(t, err)
	require.Equal(t, models.TeamStatusPendingApproval, updated.TeamStatus)

	// Last approval: team formed.
	updated, err = service.ApproveMembership(idea.ID, mate2.ID)
	require.NoError(t, err)
	require.Equal(t, models.TeamStatusFormed, updated.TeamStatus)

	// The leader is told the team is complete.
	var count int64
	require.NoError(t, db.Model(&models.Notification{}).
		Where("user_id = ? AND type = ?", leader.ID, models.NotificationTypeTeamApproved).
		Count(&count).Error)
	require.Equal(t, int64(1), count)
}

func TestTeamService_ApproveMembershipIdempotent(t *testing.T) {
	db := newTestDB(t)
	service := newTeamService(db)

	leader := createUser(t, db, "leader", models.RoleStudent)
	mate := createUser(t, db, "mate", models.RoleStudent)

	idea, err := service.SubmitIdea(SubmitIdeaInput{
		Title:     "Double accept",
		StudentID: leader.ID,
		Members: []MemberInput{
			{UserID: &mate.ID},
		},
	})
	require.NoError(t, err)

	first, err := service.ApproveMembership(idea.ID, mate.ID)
	require.NoError(t, err)
	require.Equal(t, models.TeamStatusFormed, first.TeamStatus)

	second, err := service.ApproveMembership(idea.ID, mate.ID)
	require.NoError(t, err)
	require.Equal(t, models.TeamStatusFormed, second.TeamStatus)
}

func TestTeamService_FormTeamReplacesRoster(t *testing.T) {
	db := newTestDB(t)
	service := newTeamService(db)

	leader := createUser(t, db, "leader", models.RoleStudent)
	old := createUser(t, db, "old", models.RoleStudent)
	fresh := createUser(t, db, "fresh", models.RoleStudent)

	idea, err := service.SubmitIdea(SubmitIdeaInput{
		Title:     "Re-formed team",
		StudentID: leader.ID,
		Members: []MemberInput{
			{UserID: &old.ID},
		},
	})
	require.NoError(t, err)

	updated, err := service.FormTeam(idea.ID, []MemberInput{
		{UserID: &leader.ID},
		{UserID: &fresh.ID},
	})
	require.NoError(t, err)
	require.Len(t, updated.TeamMembers, 2)
	require.Equal(t, models.TeamRoleLeader, updated.TeamMembers[0].Role)
	require.NotNil(t, updated.TeamMembers[1].UserID)
	require.Equal(t, fresh.ID, *updated.TeamMembers[1].UserID)
}
