package services

import (
	"sync"
	"testing"

	"github.com/M-Alradhi/gradproject-api/internal/models"
	"github.com/M-Alradhi/gradproject-api/internal/repository"
	"github.com/stretchr/testify/require"
)

func TestClaimService_Claim(t *testing.T) {
	db := newTestDB(t)
	service := NewClaimService(repository.NewIdeaRepository(db), repository.NewUserRepository(db))

	supervisor := createUser(t, db, "supervisor", models.RoleSupervisor)
	student := createUser(t, db, "student", models.RoleStudent)
	idea := createAvailableIdea(t, db, "IoT greenhouse", supervisor.ID)

	claimed, err := service.Claim(student.ID, idea.ID)
	require.NoError(t, err)
	require.Equal(t, models.IdeaStatusTaken, claimed.Status)
	require.NotNil(t, claimed.SelectedByID)
	require.Equal(t, student.ID, *claimed.SelectedByID)
	require.Equal(t, student.Name, claimed.SelectedByName)
	require.Equal(t, student.Email, claimed.SelectedByEmail)
	require.NotNil(t, claimed.SelectedAt)

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, student.ID).Error)
	require.NotNil(t, reloaded.SelectedIdeaID)
	require.Equal(t, idea.ID, *reloaded.SelectedIdeaID)
	require.Equal(t, idea.Title, reloaded.SelectedIdeaTitle)
}

func TestClaimService_ClaimSecondIdeaRejected(t *testing.T) {
	db := newTestDB(t)
	service := NewClaimService(repository.NewIdeaRepository(db), repository.NewUserRepository(db))

	supervisor := createUser(t, db, "supervisor", models.RoleSupervisor)
	student := createUser(t, db, "student", models.RoleStudent)
	first := createAvailableIdea(t, db, "first idea", supervisor.ID)
	second := createAvailableIdea(t, db, "second idea", supervisor.ID)

	_, err := service.Claim(student.ID, first.ID)
	require.NoError(t, err)

	_, err = service.Claim(student.ID, second.ID)
	require.ErrorIs(t, err, ErrAlreadyHaveIdea)

	// The losing claim must leave the second idea untouched.
	var untouched models.ProjectIdea
	require.NoError(t, db.First(&untouched, second.ID).Error)
	require.Equal(t, models.IdeaStatusAvailable, untouched.Status)
	require.Nil(t, untouched.SelectedByID)
}

func TestClaimService_ClaimTakenIdeaRejected(t *testing.T) {
	db := newTestDB(t)
	service := NewClaimService(repository.NewIdeaRepository(db), repository.NewUserRepository(db))

	supervisor := createUser(t, db, "supervisor", models.RoleSupervisor)
	winner := createUser(t, db, "winner", models.RoleStudent)
	loser := createUser(t, db, "loser", models.RoleStudent)
	idea := createAvailableIdea(t, db, "contested idea", supervisor.ID)

	_, err := service.Claim(winner.ID, idea.ID)
	require.NoError(t, err)

	_, err = service.Claim(loser.ID, idea.ID)
	require.ErrorIs(t, err, ErrIdeaNotAvailable)

	// The loser must not be left pointing at the idea.
	var reloaded models.User
	require.NoError(t, db.First(&reloaded, loser.ID).Error)
	require.Nil(t, reloaded.SelectedIdeaID)
}

func TestClaimService_ConcurrentClaimsSingleWinner(t *testing.T) {
	db := newTestDB(t)
	service := NewClaimService(repository.NewIdeaRepository(db), repository.NewUserRepository(db))

	supervisor := createUser(t, db, "supervisor", models.RoleSupervisor)
	idea := createAvailableIdea(t, db, "popular idea", supervisor.ID)

	const contenders = 5
	students := make([]*models.User, contenders)
	for i := range students {
		students[i] = createUser(t, db, "student"+string(rune('a'+i)), models.RoleStudent)
	}

	var wg sync.WaitGroup
	errs := make([]error, contenders)
	for i, student := range students {
		wg.Add(1)
		go func(i int, studentID uint64) {
			defer wg.Done()
			_, errs[i] = service.Claim(studentID, idea.ID)
		}(i, student.ID)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
		} else {
			require.ErrorIs(t, err, ErrIdeaNotAvailable)
		}
	}
	require.Equal(t, 1, wins)
}

func TestClaimService_ClaimMissingIdea(t *testing.T) {
	db := newTestDB(t)
	service := NewClaimService(repository.NewIdeaRepository(db), repository.NewUserRepository(db))

	student := createUser(t, db, "student", models.RoleStudent)

	_, err := service.Claim(student.ID, 9999)
	require.ErrorIs(t, err, ErrIdeaNotFound)
}

func TestClaimService_Release(t *testing.T) {
	db := newTestDB(t)
	service := NewClaimService(repository.NewIdeaRepository(db), repository.NewUserRepository(db))

	supervisor := createUser(t, db, "supervisor", models.RoleSupervisor)
	student := createUser(t, db, "student", models.RoleStudent)
	idea := createAvailableIdea(t, db, "released idea", supervisor.ID)

	_, err := service.Claim(student.ID, idea.ID)
	require.NoError(t, err)

	released, err := service.Release(student.ID)
	require.NoError(t, err)
	require.Equal(t, models.IdeaStatusAvailable, released.Status)
	require.Nil(t, released.SelectedByID)

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, student.ID).Error)
	require.Nil(t, reloaded.SelectedIdeaID)
	require.Empty(t, reloaded.SelectedIdeaTitle)

	// The idea is claimable again.
	other := createUser(t, db, "other", models.RoleStudent)
	_, err = service.Claim(other.ID, idea.ID)
	require.NoError(t, err)
}

func TestClaimService_ReleaseWithoutClaim(t *testing.T) {
	db := newTestDB(t)
	service := NewClaimService(repository.NewIdeaRepository(db), repository.NewUserRepository(db))

	student := createUser(t, db, "student", models.RoleStudent)

	_, err := service.Release(student.ID)
	require.ErrorIs(t, err, ErrNoActiveClaim)
}

func TestClaimService_ReconcileClearsStaleReference(t *testing.T) {
	db := newTestDB(t)
	service := NewClaimService(repository.NewIdeaRepository(db), repository.NewUserRepository(db))

	supervisor := createUser(t, db, "supervisor", models.RoleSupervisor)
	student := createUser(t, db, "student", models.RoleStudent)
	idea := createAvailableIdea(t, db, "vanishing idea", supervisor.ID)

	_, err := service.Claim(student.ID, idea.ID)
	require.NoError(t, err)

	// Simulate the idea being removed out from under the claim.
	require.NoError(t, db.Unscoped().Delete(&models.ProjectIdea{}, idea.ID).Error)

	require.NoError(t, service.Reconcile(student.ID))

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, student.ID).Error)
	require.Nil(t, reloaded.SelectedIdeaID)
	require.Empty(t, reloaded.SelectedIdeaTitle)
}

func TestClaimService_ReconcileKeepsValidClaim(t *testing.T) {
	db := newTestDB(t)
	service := NewClaimService(repository.NewIdeaRepository(db), repository.NewUserRepository(db))

	supervisor := createUser(t, db, "supervisor", models.RoleSupervisor)
	student := createUser(t, db, "student", models.RoleStudent)
	idea := createAvailableIdea(t, db, "kept idea", supervisor.ID)

	_, err := service.Claim(student.ID, idea.ID)
	require.NoError(t, err)

	require.NoError(t, service.Reconcile(student.ID))

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, student.ID).Error)
	require.NotNil(t, reloaded.SelectedIdeaID)
	require.Equal(t, idea.ID, *reloaded.SelectedIdeaID)
}
